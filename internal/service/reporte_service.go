package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"bodega/internal/dto"
	"bodega/internal/model"
	"bodega/internal/repository"
	"bodega/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ventanaReportes is how far back the operational reports look.
const ventanaReportes = 30 * 24 * time.Hour

const cacheDesempenoKey = "reportes:desempeno"
const cacheDesempenoTTL = 5 * time.Minute

type ReporteService interface {
	Faltantes(ctx context.Context) ([]dto.FaltanteResponse, error)
	AccionRequerida(ctx context.Context) ([]dto.AccionResponse, error)
	DesempenoProveedores(ctx context.Context) ([]dto.DesempenoProveedorResponse, error)
	SolicitarReporteRecepcion(ctx context.Context, pedidoID uuid.UUID) (*dto.ReporteRecepcionResponse, error)
}

type reporteService struct {
	pedidoRepo repository.PedidoRepository
	rdb        *redis.Client
	dispatcher *worker.Dispatcher
}

func NewReporteService(pedidoRepo repository.PedidoRepository, rdb *redis.Client, dispatcher *worker.Dispatcher) ReporteService {
	return &reporteService{pedidoRepo: pedidoRepo, rdb: rdb, dispatcher: dispatcher}
}

// Faltantes lists the short lines of every order audited in the window.
// Orders load first, then their short lines fan out one goroutine per order;
// the per-order query filters by status in SQL.
func (s *reporteService) Faltantes(ctx context.Context) ([]dto.FaltanteResponse, error) {
	desde := time.Now().Add(-ventanaReportes)
	pedidos, err := s.pedidoRepo.ListAuditadosDesde(ctx, desde, false)
	if err != nil {
		return nil, err
	}

	porPedido := make([][]dto.FaltanteResponse, len(pedidos))
	g, gctx := errgroup.WithContext(ctx)
	for i := range pedidos {
		i := i
		pedido := &pedidos[i]
		g.Go(func() error {
			items, err := s.pedidoRepo.FindItemsFaltantes(gctx, pedido.ID)
			if err != nil {
				return err
			}
			filas := make([]dto.FaltanteResponse, 0, len(items))
			for j := range items {
				filas = append(filas, faltanteToResponse(pedido, &items[j]))
			}
			porPedido[i] = filas
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]dto.FaltanteResponse, 0)
	for _, filas := range porPedido {
		out = append(out, filas...)
	}
	return out, nil
}

// AccionRequerida lists the lines that need a follow-up on recent audits:
// nothing arrived, arrived short, or the supplier ran out.
func (s *reporteService) AccionRequerida(ctx context.Context) ([]dto.AccionResponse, error) {
	desde := time.Now().Add(-ventanaReportes)
	items, err := s.pedidoRepo.FindAccionRequerida(ctx, desde)
	if err != nil {
		return nil, err
	}

	pedidos := make(map[uuid.UUID]*model.Pedido)
	out := make([]dto.AccionResponse, 0, len(items))
	for i := range items {
		it := &items[i]
		pedido, ok := pedidos[it.PedidoID]
		if !ok {
			pedido, err = s.pedidoRepo.FindByID(ctx, it.PedidoID)
			if err != nil {
				continue
			}
			pedidos[it.PedidoID] = pedido
		}
		fila := dto.AccionResponse{
			ItemID:         it.ID.String(),
			PedidoID:       it.PedidoID.String(),
			PedidoTitulo:   pedido.Titulo,
			ProductoID:     it.ProductoID.String(),
			CantidadPedida: it.CantidadPedida,
			Estado:         string(it.EstadoItem),
		}
		if it.Producto != nil {
			fila.ProductoNombre = it.Producto.Nombre
		}
		out = append(out, fila)
	}
	return out, nil
}

// esIncidencia reports whether a line counts against the supplier: it never
// arrived, arrived short, or arrived damaged. Agotado is the supplier being
// honest about stock, not a delivery failure, so it does not count.
func esIncidencia(estado model.EstadoItem) bool {
	return estado == model.ItemNoLlego || estado == model.ItemIncompleto || estado == model.ItemDanado
}

// DesempenoProveedores aggregates every audited order per supplier. Unlike
// the operational reports this one has no time window: the track record
// covers the whole history. The result is cached in Redis for a few minutes;
// a cache failure only costs the recomputation.
func (s *reporteService) DesempenoProveedores(ctx context.Context) ([]dto.DesempenoProveedorResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheDesempenoKey).Result(); err == nil {
			var cached []dto.DesempenoProveedorResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	pedidos, err := s.pedidoRepo.ListAuditadosDesde(ctx, time.Time{}, true)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		nombre      string
		pedidos     int
		perfectos   int
		incidencias int
		pedidas     int
		recibidas   int
	}
	porProveedor := make(map[uuid.UUID]*acumulado)

	for i := range pedidos {
		p := &pedidos[i]
		acc, ok := porProveedor[p.ProveedorID]
		if !ok {
			acc = &acumulado{}
			if p.Proveedor != nil {
				acc.nombre = p.Proveedor.Nombre
			}
			porProveedor[p.ProveedorID] = acc
		}
		acc.pedidos++
		incidencias := 0
		for j := range p.Items {
			it := &p.Items[j]
			acc.pedidas += it.CantidadPedida
			acc.recibidas += it.CantidadRecibida
			if esIncidencia(it.EstadoItem) {
				incidencias++
			}
		}
		acc.incidencias += incidencias
		if incidencias == 0 {
			acc.perfectos++
		}
	}

	cien := decimal.NewFromInt(100)
	out := make([]dto.DesempenoProveedorResponse, 0, len(porProveedor))
	for id, acc := range porProveedor {
		fila := dto.DesempenoProveedorResponse{
			ProveedorID:      id.String(),
			ProveedorNombre:  acc.nombre,
			PedidosAuditados: acc.pedidos,
			PedidosPerfectos: acc.perfectos,
			Incidencias:      acc.incidencias,
			ItemsPedidos:     acc.pedidas,
			ItemsRecibidos:   acc.recibidas,
		}
		if acc.pedidas > 0 {
			fila.TasaCumplimiento = decimal.NewFromInt(int64(acc.recibidas)).
				Div(decimal.NewFromInt(int64(acc.pedidas))).Mul(cien).Round(2)
		}
		if acc.pedidos > 0 {
			fila.TasaPerfectos = decimal.NewFromInt(int64(acc.perfectos)).
				Div(decimal.NewFromInt(int64(acc.pedidos))).Mul(cien).Round(2)
		}
		out = append(out, fila)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProveedorNombre < out[j].ProveedorNombre })

	if s.rdb != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, cacheDesempenoKey, data, cacheDesempenoTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear el reporte de desempeño")
			}
		}
	}
	return out, nil
}

// SolicitarReporteRecepcion queues the reception-report PDF for an audited
// order. Generation and delivery run on the worker pool.
func (s *reporteService) SolicitarReporteRecepcion(ctx context.Context, pedidoID uuid.UUID) (*dto.ReporteRecepcionResponse, error) {
	pedido, err := s.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if pedido.Estado != model.PedidoAuditado {
		return nil, ErrTransicionInvalida
	}

	if s.dispatcher != nil {
		payload := map[string]interface{}{"pedido_id": pedidoID.String()}
		if err := s.dispatcher.EnqueueReporte(ctx, payload); err != nil {
			return nil, err
		}
	}
	return &dto.ReporteRecepcionResponse{PedidoID: pedidoID.String(), Estado: "encolado"}, nil
}

func faltanteToResponse(p *model.Pedido, it *model.PedidoItem) dto.FaltanteResponse {
	fila := dto.FaltanteResponse{
		ItemID:           it.ID.String(),
		PedidoID:         p.ID.String(),
		PedidoTitulo:     p.Titulo,
		ProductoID:       it.ProductoID.String(),
		CantidadPedida:   it.CantidadPedida,
		CantidadRecibida: it.CantidadRecibida,
		Faltante:         it.CantidadPedida - it.CantidadRecibida,
		Estado:           string(it.EstadoItem),
	}
	if it.Producto != nil {
		fila.ProductoNombre = it.Producto.Nombre
	}
	if p.Proveedor != nil {
		fila.ProveedorNombre = &p.Proveedor.Nombre
	}
	return fila
}
