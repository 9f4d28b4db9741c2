package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bodega/internal/dto"
	"bodega/internal/model"
	"bodega/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	FijarStock(ctx context.Context, id uuid.UUID, req dto.FijarStockRequest) (*dto.ProductoResponse, error)
	Historial(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.MovimientoStockResponse, int64, error)
}

type productoService struct {
	repo    repository.ProductoRepository
	movRepo repository.MovimientoStockRepository
}

func NewProductoService(repo repository.ProductoRepository, movRepo repository.MovimientoStockRepository) ProductoService {
	return &productoService{repo: repo, movRepo: movRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	marcaID, err := uuid.Parse(req.MarcaID)
	if err != nil {
		return nil, fmt.Errorf("marca_id inválido: %w", err)
	}
	subcategoriaID, err := uuid.Parse(req.SubcategoriaID)
	if err != nil {
		return nil, fmt.Errorf("subcategoria_id inválido: %w", err)
	}

	existe, err := s.repo.ExisteSKU(ctx, req.SKU, marcaID, subcategoriaID)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, errors.New("ya existe un producto con ese SKU para la marca y subcategoría")
	}

	p := model.Producto{
		SKU:            req.SKU,
		Nombre:         req.Nombre,
		MarcaID:        marcaID,
		SubcategoriaID: subcategoriaID,
		StockActual:    req.StockActual,
		StockMinimo:    req.StockMinimo,
		Rotacion:       model.RotacionMedia,
	}
	if req.Rotacion != "" {
		p.Rotacion = model.Rotacion(req.Rotacion)
	}
	if req.ProveedorID != nil {
		proveedorID, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id inválido: %w", err)
		}
		p.ProveedorID = &proveedorID
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, p.ID)
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.MarcaID != nil {
		marcaID, err := uuid.Parse(*req.MarcaID)
		if err != nil {
			return nil, fmt.Errorf("marca_id inválido: %w", err)
		}
		p.MarcaID = marcaID
	}
	if req.SubcategoriaID != nil {
		subcategoriaID, err := uuid.Parse(*req.SubcategoriaID)
		if err != nil {
			return nil, fmt.Errorf("subcategoria_id inválido: %w", err)
		}
		p.SubcategoriaID = subcategoriaID
	}
	if req.ProveedorID != nil {
		proveedorID, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id inválido: %w", err)
		}
		p.ProveedorID = &proveedorID
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.Rotacion != nil {
		p.Rotacion = model.Rotacion(*req.Rotacion)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

// Eliminar hard-deletes a product. Products that appear on order lines or in
// the ledger cannot go; the caller gets a hint to lower their rotation
// instead so they drop out of the everyday views.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductoReferenciado) {
		return errors.New("el producto tiene historial de pedidos; cambie su rotación a baja en lugar de eliminarlo")
	}
	return err
}

// FijarStock overwrites stock_actual with a hand count and records the
// adjustment in the ledger.
func (s *productoService) FijarStock(ctx context.Context, id uuid.UUID, req dto.FijarStockRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, errors.New("producto no encontrado")
	}

	motivo := req.Motivo
	if motivo == "" {
		motivo = "Ajuste manual de inventario"
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		previo, nuevo, err := s.repo.SetStockTx(tx, id, req.StockActual)
		if err != nil {
			return err
		}
		return s.movRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          "ajuste_manual",
			Cantidad:      nuevo - previo,
			StockAnterior: previo,
			StockNuevo:    nuevo,
			Motivo:        motivo,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *productoService) Historial(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.MovimientoStockResponse, int64, error) {
	movimientos, total, err := s.movRepo.List(ctx, repository.MovimientoStockFilter{
		ProductoID: &id,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movimientos))
	for _, m := range movimientos {
		resp := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			FechaISO:      m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			resp.ReferenciaID = &ref
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:             p.ID.String(),
		SKU:            p.SKU,
		Nombre:         p.Nombre,
		MarcaID:        p.MarcaID.String(),
		SubcategoriaID: p.SubcategoriaID.String(),
		StockActual:    p.StockActual,
		StockMinimo:    p.StockMinimo,
		Rotacion:       string(p.Rotacion),
	}
	if p.Marca != nil {
		resp.Marca = &p.Marca.Nombre
	}
	if p.Subcategoria != nil {
		resp.Subcategoria = &p.Subcategoria.Nombre
	}
	if p.ProveedorID != nil {
		id := p.ProveedorID.String()
		resp.ProveedorID = &id
	}
	if p.Proveedor != nil {
		resp.Proveedor = &p.Proveedor.Nombre
	}
	return resp
}
