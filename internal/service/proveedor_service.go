package service

import (
	"context"
	"errors"

	"bodega/internal/dto"
	"bodega/internal/model"
	"bodega/internal/repository"

	"github.com/google/uuid"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, soloActivos bool) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := model.Proveedor{
		Nombre:   req.Nombre,
		Contacto: req.Contacto,
		Email:    req.Email,
		Telefono: req.Telefono,
		Activo:   true,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return proveedorToResponse(&p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, soloActivos bool) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx, soloActivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		out = append(out, *proveedorToResponse(&proveedores[i]))
	}
	return out, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Contacto != nil {
		p.Contacto = req.Contacto
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

// Eliminar deactivates the supplier. History stays intact; orders keep
// pointing at the row.
func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("proveedor no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:       p.ID.String(),
		Nombre:   p.Nombre,
		Contacto: p.Contacto,
		Email:    p.Email,
		Telefono: p.Telefono,
		Activo:   p.Activo,
	}
}
