package service

import (
	"context"
	"errors"
	"fmt"

	"bodega/internal/dto"
	"bodega/internal/model"
	"bodega/internal/repository"

	"github.com/google/uuid"
)

type CatalogoService interface {
	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
	ListarSubcategorias(ctx context.Context, parentID uuid.UUID) ([]dto.CategoriaResponse, error)
	ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	EliminarCategoria(ctx context.Context, id uuid.UUID) error

	CrearMarca(ctx context.Context, req dto.CrearMarcaRequest) (*dto.MarcaResponse, error)
	ListarMarcas(ctx context.Context) ([]dto.MarcaResponse, error)
	ActualizarMarca(ctx context.Context, id uuid.UUID, req dto.CrearMarcaRequest) (*dto.MarcaResponse, error)
	EliminarMarca(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	repo repository.CatalogoRepository
}

func NewCatalogoService(repo repository.CatalogoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

func (s *catalogoService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	c := model.Categoria{Nombre: req.Nombre}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent_id inválido: %w", err)
		}
		parent, err := s.repo.FindCategoriaByID(ctx, parentID)
		if err != nil {
			return nil, errors.New("categoría padre no encontrada")
		}
		if parent.ParentID != nil {
			return nil, errors.New("solo se admiten dos niveles de categorías")
		}
		c.ParentID = &parentID
	}
	if err := s.repo.CreateCategoria(ctx, &c); err != nil {
		return nil, err
	}
	return categoriaToResponse(&c), nil
}

func (s *catalogoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.ListCategorias(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		out = append(out, *categoriaToResponse(&categorias[i]))
		for j := range categorias[i].Subcategorias {
			out = append(out, *categoriaToResponse(&categorias[i].Subcategorias[j]))
		}
	}
	return out, nil
}

func (s *catalogoService) ListarSubcategorias(ctx context.Context, parentID uuid.UUID) ([]dto.CategoriaResponse, error) {
	subs, err := s.repo.ListSubcategorias(ctx, parentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(subs))
	for i := range subs {
		out = append(out, *categoriaToResponse(&subs[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.repo.FindCategoriaByID(ctx, id)
	if err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent_id inválido: %w", err)
		}
		if parentID == id {
			return nil, errors.New("una categoría no puede ser su propio padre")
		}
		c.ParentID = &parentID
	}
	if err := s.repo.UpdateCategoria(ctx, c); err != nil {
		return nil, err
	}
	return categoriaToResponse(c), nil
}

func (s *catalogoService) EliminarCategoria(ctx context.Context, id uuid.UUID) error {
	subs, err := s.repo.ListSubcategorias(ctx, id)
	if err != nil {
		return err
	}
	if len(subs) > 0 {
		return errors.New("la categoría tiene subcategorías, elimínelas primero")
	}
	return s.repo.DeleteCategoria(ctx, id)
}

func (s *catalogoService) CrearMarca(ctx context.Context, req dto.CrearMarcaRequest) (*dto.MarcaResponse, error) {
	m := model.Marca{Nombre: req.Nombre}
	if err := s.repo.CreateMarca(ctx, &m); err != nil {
		return nil, err
	}
	return marcaToResponse(&m), nil
}

func (s *catalogoService) ListarMarcas(ctx context.Context) ([]dto.MarcaResponse, error) {
	marcas, err := s.repo.ListMarcas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MarcaResponse, 0, len(marcas))
	for i := range marcas {
		out = append(out, *marcaToResponse(&marcas[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarMarca(ctx context.Context, id uuid.UUID, req dto.CrearMarcaRequest) (*dto.MarcaResponse, error) {
	m, err := s.repo.FindMarcaByID(ctx, id)
	if err != nil {
		return nil, errors.New("marca no encontrada")
	}
	m.Nombre = req.Nombre
	if err := s.repo.UpdateMarca(ctx, m); err != nil {
		return nil, err
	}
	return marcaToResponse(m), nil
}

func (s *catalogoService) EliminarMarca(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindMarcaByID(ctx, id); err != nil {
		return errors.New("marca no encontrada")
	}
	return s.repo.DeleteMarca(ctx, id)
}

func categoriaToResponse(c *model.Categoria) *dto.CategoriaResponse {
	resp := &dto.CategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre}
	if c.ParentID != nil {
		id := c.ParentID.String()
		resp.ParentID = &id
	}
	return resp
}

func marcaToResponse(m *model.Marca) *dto.MarcaResponse {
	return &dto.MarcaResponse{ID: m.ID.String(), Nombre: m.Nombre}
}
