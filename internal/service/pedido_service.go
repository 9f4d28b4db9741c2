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
)

type PedidoService interface {
	Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error)
	ActualizarBorrador(ctx context.Context, id uuid.UUID, req dto.ActualizarBorradorRequest) (*dto.PedidoResponse, error)
	Enviar(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
}

type pedidoService struct {
	repo          repository.PedidoRepository
	proveedorRepo repository.ProveedorRepository
	productoRepo  repository.ProductoRepository
}

func NewPedidoService(
	repo repository.PedidoRepository,
	proveedorRepo repository.ProveedorRepository,
	productoRepo repository.ProductoRepository,
) PedidoService {
	return &pedidoService{repo: repo, proveedorRepo: proveedorRepo, productoRepo: productoRepo}
}

// Crear registers a draft order in Pendiente. The title is mandatory and
// every referenced product must exist before a single row is written.
func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	if _, err := s.proveedorRepo.FindByID(ctx, proveedorID); err != nil {
		return nil, errors.New("proveedor no encontrado")
	}

	items, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	pedido := model.Pedido{
		ProveedorID:   proveedorID,
		Estado:        model.PedidoPendiente,
		FechaCreacion: time.Now(),
		TotalItems:    len(items),
		Titulo:        &req.Titulo,
		Observaciones: req.Observaciones,
		Items:         items,
	}
	if err := s.repo.Create(ctx, &pedido); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, pedido.ID)
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error) {
	if filter.Estado != "" && !model.EstadoPedido(filter.Estado).IsValid() {
		return nil, fmt.Errorf("estado de pedido inválido: %q", filter.Estado)
	}
	pedidos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *pedidoToResponse(&pedidos[i]))
	}
	return out, nil
}

// ActualizarBorrador replaces the draft's item set and optionally renames
// it. Only Pendiente orders are editable; anything further along must go
// through the audit flow.
func (s *pedidoService) ActualizarBorrador(ctx context.Context, id uuid.UUID, req dto.ActualizarBorradorRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if pedido.Estado != model.PedidoPendiente {
		return nil, ErrTransicionInvalida
	}

	items, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceItems(ctx, id, items); err != nil {
		return nil, err
	}

	if req.Titulo != nil {
		pedido.Titulo = req.Titulo
		// ReplaceItems already refreshed the item-count cache; keep the
		// in-memory row in step so this update does not write it back stale
		pedido.TotalItems = len(items)
		if err := s.repo.Update(ctx, pedido); err != nil {
			return nil, err
		}
	}
	return s.ObtenerPorID(ctx, id)
}

// Enviar marks the order as in transit so it shows up for audit.
func (s *pedidoService) Enviar(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if !pedido.Estado.CanTransitionTo(model.PedidoEnCamino) {
		return nil, ErrTransicionInvalida
	}
	pedido.Estado = model.PedidoEnCamino
	pedido.TotalItems = len(pedido.Items)
	if err := s.repo.Update(ctx, pedido); err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) resolverItems(ctx context.Context, inputs []dto.PedidoItemInput) ([]model.PedidoItem, error) {
	items := make([]model.PedidoItem, 0, len(inputs))
	vistos := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		productoID, err := uuid.Parse(in.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if vistos[productoID] {
			return nil, fmt.Errorf("producto %s repetido en el pedido", productoID)
		}
		vistos[productoID] = true
		if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", productoID)
		}
		unidad := model.UnidadUnidad
		if in.Unidad != "" {
			unidad = model.Unidad(in.Unidad)
		}
		items = append(items, model.PedidoItem{
			ProductoID:     productoID,
			CantidadPedida: in.CantidadPedida,
			Unidad:         unidad,
			EsNueva:        in.EsNueva,
			EstadoItem:     model.ItemNoLlego,
		})
	}
	return items, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:            p.ID.String(),
		ProveedorID:   p.ProveedorID.String(),
		Estado:        p.Estado.String(),
		FechaCreacion: p.FechaCreacion.Format(time.RFC3339),
		TotalItems:    p.TotalItems,
		Titulo:        p.Titulo,
		Observaciones: p.Observaciones,
		Progreso:      p.Progreso(),
	}
	if p.Proveedor != nil {
		resp.Proveedor = &p.Proveedor.Nombre
	}
	if p.FechaRecepcion != nil {
		f := p.FechaRecepcion.Format(time.RFC3339)
		resp.FechaRecepcion = &f
	}
	for i := range p.Items {
		resp.Items = append(resp.Items, *itemToResponse(&p.Items[i]))
	}
	return resp
}

func itemToResponse(it *model.PedidoItem) *dto.PedidoItemResponse {
	resp := &dto.PedidoItemResponse{
		ID:               it.ID.String(),
		ProductoID:       it.ProductoID.String(),
		CantidadPedida:   it.CantidadPedida,
		CantidadRecibida: it.CantidadRecibida,
		Unidad:           string(it.Unidad),
		EsNueva:          it.EsNueva,
		EstadoItem:       string(it.EstadoItem),
		Observaciones:    it.Observaciones,
	}
	if it.Producto != nil {
		resp.Producto = productoToResponse(it.Producto)
	}
	if it.ProductoRealID != nil {
		id := it.ProductoRealID.String()
		resp.ProductoRealID = &id
	}
	if it.ProductoReal != nil {
		resp.ProductoReal = productoToResponse(it.ProductoReal)
	}
	if it.AuditadoAt != nil {
		f := it.AuditadoAt.Format(time.RFC3339)
		resp.AuditadoAt = &f
	}
	return resp
}
