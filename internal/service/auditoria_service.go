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
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrPedidoNoEncontrado = errors.New("pedido no encontrado")
	ErrTransicionInvalida = errors.New("transición de estado inválida")
)

// DiscrepanciasError aborts a finalize when the buffer still has lines that
// are not Completo and the operator has not confirmed.
type DiscrepanciasError struct{ Count int }

func (e *DiscrepanciasError) Error() string {
	return fmt.Sprintf("el pedido tiene %d discrepancias sin confirmar", e.Count)
}

type AuditoriaService interface {
	AbrirSesion(ctx context.Context, pedidoID uuid.UUID) (*dto.SesionAuditoriaResponse, error)
	GuardarProgreso(ctx context.Context, pedidoID uuid.UUID, req dto.GuardarProgresoRequest) (*dto.SesionAuditoriaResponse, error)
	Finalizar(ctx context.Context, pedidoID uuid.UUID, req dto.FinalizarRequest) (*dto.PedidoResponse, error)
	GuardarCorreccion(ctx context.Context, pedidoID uuid.UUID, req dto.GuardarCorreccionRequest) (*dto.PedidoResponse, error)
	AplicarSustitucion(ctx context.Context, pedidoID, itemID uuid.UUID, req dto.SustitucionRequest) (*dto.PedidoItemResponse, error)
	CambiarEstadoItem(ctx context.Context, pedidoID, itemID uuid.UUID, req dto.CambiarEstadoItemRequest) (*dto.PedidoItemResponse, error)
	RegresarAPendiente(ctx context.Context, pedidoID uuid.UUID) (*dto.PedidoResponse, error)
	MoverAPapelera(ctx context.Context, pedidoID uuid.UUID) (*dto.PedidoResponse, error)
	EliminarDefinitivo(ctx context.Context, pedidoID uuid.UUID) error
}

type auditoriaService struct {
	pedidoRepo   repository.PedidoRepository
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoStockRepository
}

func NewAuditoriaService(
	pedidoRepo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoStockRepository,
) AuditoriaService {
	return &auditoriaService{
		pedidoRepo:   pedidoRepo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *auditoriaService) cargarPedido(ctx context.Context, pedidoID uuid.UUID) (*model.Pedido, error) {
	pedido, err := s.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	return pedido, nil
}

// aplicarDelta moves stock on the line's target product and writes the
// ledger entry, inside the caller's transaction.
func (s *auditoriaService) aplicarDelta(tx *gorm.DB, productoID, pedidoID uuid.UUID, delta int, tipo, motivo string) error {
	previo, nuevo, err := s.productoRepo.UpdateStockTx(tx, productoID, delta)
	if err != nil {
		return fmt.Errorf("error ajustando stock del producto %s: %w", productoID, err)
	}
	ref := pedidoID
	return s.movRepo.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: previo,
		StockNuevo:    nuevo,
		Motivo:        motivo,
		ReferenciaID:  &ref,
	})
}

// ── AbrirSesion ──────────────────────────────────────────────────────────────

func (s *auditoriaService) AbrirSesion(ctx context.Context, pedidoID uuid.UUID) (*dto.SesionAuditoriaResponse, error) {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.Estado != model.PedidoEnCamino && pedido.Estado != model.PedidoAuditado {
		return nil, ErrTransicionInvalida
	}
	sesion := NuevaSesion(pedido)
	return sesionToResponse(sesion), nil
}

// ── GuardarProgreso ──────────────────────────────────────────────────────────
// Persists the buffered quantities and statuses so the audit can be resumed.
// No stock moves, no state transition: the order stays En Camino.

func (s *auditoriaService) GuardarProgreso(ctx context.Context, pedidoID uuid.UUID, req dto.GuardarProgresoRequest) (*dto.SesionAuditoriaResponse, error) {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.Estado != model.PedidoEnCamino {
		return nil, ErrTransicionInvalida
	}

	sesion := NuevaSesion(pedido)
	if err := sesion.AplicarBuffer(req.Lineas); err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.pedidoRepo.DB(), func(tx *gorm.DB) error {
		for i := range pedido.Items {
			it := &pedido.Items[i]
			linea := sesion.Lineas[it.ID]
			if linea.Cantidad == it.CantidadRecibida && linea.Estado == it.EstadoItem {
				continue
			}
			it.CantidadRecibida = linea.Cantidad
			it.EstadoItem = linea.Estado
			if err := s.pedidoRepo.SaveItemTx(tx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return sesionToResponse(sesion), nil
}

// ── Finalizar ────────────────────────────────────────────────────────────────
// Commits the audit in one transaction:
//  1. persist each line's quantity, status and auditado_at
//  2. stock += recibida on the line's target product, ledger entry per line
//  3. pedido → Auditado, fecha_recepcion = now, total_items refreshed
//
// Lines with discrepancies require confirmar=true; the error carries the
// count so the client can show it.

func (s *auditoriaService) Finalizar(ctx context.Context, pedidoID uuid.UUID, req dto.FinalizarRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if !pedido.Estado.CanTransitionTo(model.PedidoAuditado) {
		return nil, ErrTransicionInvalida
	}

	sesion := NuevaSesion(pedido)
	if err := sesion.AplicarBuffer(req.Lineas); err != nil {
		return nil, err
	}
	if d := sesion.Discrepancias(); d > 0 && !req.Confirmar {
		return nil, &DiscrepanciasError{Count: d}
	}

	now := time.Now()
	motivo := motivoPedido("Auditoría", pedido)

	txErr := runTx(ctx, s.pedidoRepo.DB(), func(tx *gorm.DB) error {
		for i := range pedido.Items {
			it := &pedido.Items[i]
			linea := sesion.Lineas[it.ID]
			it.CantidadRecibida = linea.Cantidad
			it.EstadoItem = linea.Estado
			it.AuditadoAt = &now
			if err := s.pedidoRepo.SaveItemTx(tx, it); err != nil {
				return err
			}
			if linea.Cantidad > 0 {
				if err := s.aplicarDelta(tx, it.ProductoDestino(), pedido.ID, linea.Cantidad, "auditoria", motivo); err != nil {
					return err
				}
			}
		}

		pedido.Estado = model.PedidoAuditado
		pedido.FechaRecepcion = &now
		pedido.TotalItems = len(pedido.Items)
		return s.pedidoRepo.UpdateTx(tx, pedido)
	})
	if txErr != nil {
		return nil, txErr
	}
	return pedidoToResponse(pedido), nil
}

// ── GuardarCorreccion ────────────────────────────────────────────────────────
// Edits an already-audited order. Stock is adjusted by the signed difference
// against what was previously received, never re-applied in full: correcting
// 5 → 8 moves +3. Deleted lines reverse whatever they had applied; added
// lines enter inert at zero received.

func (s *auditoriaService) GuardarCorreccion(ctx context.Context, pedidoID uuid.UUID, req dto.GuardarCorreccionRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.Estado != model.PedidoAuditado {
		return nil, ErrTransicionInvalida
	}

	sesion := NuevaSesion(pedido)
	if err := sesion.AplicarBuffer(req.Lineas); err != nil {
		return nil, err
	}

	eliminar := make(map[uuid.UUID]bool, len(req.Eliminar))
	for _, raw := range req.Eliminar {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("item_id inválido en eliminar: %w", err)
		}
		if _, ok := sesion.Item(id); !ok {
			return nil, fmt.Errorf("item %s no pertenece al pedido", id)
		}
		eliminar[id] = true
	}

	now := time.Now()
	motivo := motivoPedido("Corrección", pedido)
	totalItems := len(pedido.Items) - len(eliminar) + len(req.Agregar)

	txErr := runTx(ctx, s.pedidoRepo.DB(), func(tx *gorm.DB) error {
		for i := range pedido.Items {
			it := &pedido.Items[i]

			if eliminar[it.ID] {
				if it.CantidadRecibida > 0 {
					if err := s.aplicarDelta(tx, it.ProductoDestino(), pedido.ID, -it.CantidadRecibida, "correccion", motivo); err != nil {
						return err
					}
				}
				if err := s.pedidoRepo.DeleteItemTx(tx, it.ID); err != nil {
					return err
				}
				continue
			}

			linea := sesion.Lineas[it.ID]
			delta := linea.Cantidad - it.CantidadRecibida
			if delta == 0 && linea.Estado == it.EstadoItem {
				continue
			}
			if delta != 0 {
				if err := s.aplicarDelta(tx, it.ProductoDestino(), pedido.ID, delta, "correccion", motivo); err != nil {
					return err
				}
			}
			it.CantidadRecibida = linea.Cantidad
			it.EstadoItem = linea.Estado
			it.AuditadoAt = &now
			if err := s.pedidoRepo.SaveItemTx(tx, it); err != nil {
				return err
			}
		}

		for _, nuevo := range req.Agregar {
			productoID, err := uuid.Parse(nuevo.ProductoID)
			if err != nil {
				return fmt.Errorf("producto_id inválido: %w", err)
			}
			unidad := model.UnidadUnidad
			if nuevo.Unidad != "" {
				unidad = model.Unidad(nuevo.Unidad)
			}
			item := model.PedidoItem{
				PedidoID:         pedido.ID,
				ProductoID:       productoID,
				CantidadPedida:   nuevo.CantidadPedida,
				CantidadRecibida: 0,
				Unidad:           unidad,
				EsNueva:          true,
				EstadoItem:       model.ItemNoLlego,
			}
			if err := s.pedidoRepo.CreateItemTx(tx, &item); err != nil {
				return err
			}
		}

		pedido.TotalItems = totalItems
		return s.pedidoRepo.UpdateTx(tx, pedido)
	})
	if txErr != nil {
		return nil, txErr
	}

	actualizado, err := s.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		return pedidoToResponse(pedido), nil
	}
	return pedidoToResponse(actualizado), nil
}

// ── AplicarSustitucion ───────────────────────────────────────────────────────
// Records that producto_real physically arrived in place of the ordered
// product. The line is persisted immediately (producto_real set, received =
// ordered, Completo); stock moves only at the next commit and targets the
// substitute from then on.

func (s *auditoriaService) AplicarSustitucion(ctx context.Context, pedidoID, itemID uuid.UUID, req dto.SustitucionRequest) (*dto.PedidoItemResponse, error) {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.Estado != model.PedidoEnCamino {
		return nil, ErrTransicionInvalida
	}

	item, err := s.pedidoRepo.FindItemByID(ctx, itemID)
	if err != nil || item.PedidoID != pedidoID {
		return nil, errors.New("item no encontrado en el pedido")
	}

	realID, err := uuid.Parse(req.ProductoRealID)
	if err != nil {
		return nil, fmt.Errorf("producto_real_id inválido: %w", err)
	}
	if realID == item.ProductoID {
		return nil, errors.New("el producto sustituto es el mismo que el pedido")
	}
	if _, err := s.productoRepo.FindByID(ctx, realID); err != nil {
		return nil, errors.New("producto sustituto no encontrado")
	}

	item.ProductoRealID = &realID
	item.CantidadRecibida = item.CantidadPedida
	item.EstadoItem = model.ItemCompleto
	if err := s.pedidoRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	actualizado, err := s.pedidoRepo.FindItemByID(ctx, itemID)
	if err != nil {
		actualizado = item
	}
	return itemToResponse(actualizado), nil
}

// ── CambiarEstadoItem ────────────────────────────────────────────────────────
// Single-line status flip used by the missing-items and out-of-stock views:
// pausar → Pendiente, descartar → Cancelado, agotado → Agotado (quantity
// forced to zero in the buffer sense, the persisted quantity is untouched
// because the line was already committed).

func (s *auditoriaService) CambiarEstadoItem(ctx context.Context, pedidoID, itemID uuid.UUID, req dto.CambiarEstadoItemRequest) (*dto.PedidoItemResponse, error) {
	item, err := s.pedidoRepo.FindItemByID(ctx, itemID)
	if err != nil || item.PedidoID != pedidoID {
		return nil, errors.New("item no encontrado en el pedido")
	}

	estado := model.EstadoItem(req.Estado)
	if !estado.IsValid() {
		return nil, fmt.Errorf("estado de item inválido: %q", req.Estado)
	}
	item.EstadoItem = estado
	if err := s.pedidoRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return itemToResponse(item), nil
}

// ── RegresarAPendiente ───────────────────────────────────────────────────────
// Sends the order back to Pendiente. Coming from Auditado the stock applied
// at finalize is reversed line by line, so re-auditing cannot double-count;
// coming from En Camino nothing was applied and nothing is reversed. The
// lines keep their received quantities either way.

func (s *auditoriaService) RegresarAPendiente(ctx context.Context, pedidoID uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if !pedido.Estado.CanTransitionTo(model.PedidoPendiente) {
		return nil, ErrTransicionInvalida
	}
	eraAuditado := pedido.Estado == model.PedidoAuditado
	motivo := motivoPedido("Reversa de auditoría", pedido)

	txErr := runTx(ctx, s.pedidoRepo.DB(), func(tx *gorm.DB) error {
		if eraAuditado {
			for i := range pedido.Items {
				it := &pedido.Items[i]
				if it.CantidadRecibida > 0 {
					if err := s.aplicarDelta(tx, it.ProductoDestino(), pedido.ID, -it.CantidadRecibida, "reversa_auditoria", motivo); err != nil {
						return err
					}
				}
			}
		}
		pedido.Estado = model.PedidoPendiente
		pedido.FechaRecepcion = nil
		pedido.TotalItems = len(pedido.Items)
		return s.pedidoRepo.UpdateTx(tx, pedido)
	})
	if txErr != nil {
		return nil, txErr
	}
	return pedidoToResponse(pedido), nil
}

// ── MoverAPapelera ───────────────────────────────────────────────────────────
// Soft-trash: estado → Cancelado, nothing else changes. Stock applied by a
// finalized audit stays applied until the order is deleted for good or
// returned to pending first.

func (s *auditoriaService) MoverAPapelera(ctx context.Context, pedidoID uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if !pedido.Estado.CanTransitionTo(model.PedidoCancelado) {
		return nil, ErrTransicionInvalida
	}
	pedido.Estado = model.PedidoCancelado
	if err := s.pedidoRepo.Update(ctx, pedido); err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

// ── EliminarDefinitivo ───────────────────────────────────────────────────────
// Permanently removes a trashed order. Items go first; a failure there is
// logged and the order delete proceeds anyway, letting the FK catch any
// leftover rows.

func (s *auditoriaService) EliminarDefinitivo(ctx context.Context, pedidoID uuid.UUID) error {
	pedido, err := s.cargarPedido(ctx, pedidoID)
	if err != nil {
		return err
	}
	if pedido.Estado != model.PedidoCancelado {
		return ErrTransicionInvalida
	}

	if err := s.pedidoRepo.DeleteItems(ctx, pedidoID); err != nil {
		log.Warn().Err(err).Str("pedido_id", pedidoID.String()).
			Msg("fallo limpiando items del pedido, se intenta eliminar igual")
	}
	return s.pedidoRepo.Delete(ctx, pedidoID)
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func motivoPedido(prefijo string, p *model.Pedido) string {
	if p.Titulo != nil && *p.Titulo != "" {
		return fmt.Sprintf("%s — %s", prefijo, *p.Titulo)
	}
	return fmt.Sprintf("%s — pedido %s", prefijo, p.ID)
}

func sesionToResponse(s *SesionAuditoria) *dto.SesionAuditoriaResponse {
	return &dto.SesionAuditoriaResponse{
		Pedido:  *pedidoToResponse(s.Pedido),
		Resumen: s.Resumen(),
	}
}
