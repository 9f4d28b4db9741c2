package service_test

// In-memory repository stubs shared by the service tests. They mimic the
// persistence contract closely enough to exercise the commit flows without a
// database: runTx receives a nil DB and calls its body directly.

import (
	"context"
	"errors"
	"sort"
	"time"

	"bodega/internal/dto"
	"bodega/internal/model"
	"bodega/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── ProductoRepository stub ──────────────────────────────────────────────────

type stubProductoRepo struct {
	productos    map[uuid.UUID]*model.Producto
	referenciado map[uuid.UUID]bool // products that pretend to have FK history
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos:    make(map[uuid.UUID]*model.Producto),
		referenciado: make(map[uuid.UUID]bool),
	}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	r.productos[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	copia := *p
	r.productos[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.referenciado[id] {
		return repository.ErrProductoReferenciado
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) FindByProveedorID(_ context.Context, proveedorID uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.ProveedorID != nil && *p.ProveedorID == proveedorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) ExisteSKU(_ context.Context, sku string, marcaID, subcategoriaID uuid.UUID) (bool, error) {
	for _, p := range r.productos {
		if p.SKU == sku && p.MarcaID == marcaID && p.SubcategoriaID == subcategoriaID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) (int, int, error) {
	p, ok := r.productos[id]
	if !ok {
		return 0, 0, gorm.ErrRecordNotFound
	}
	previo := p.StockActual
	p.StockActual += delta
	return previo, p.StockActual, nil
}

func (r *stubProductoRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, valor int) (int, int, error) {
	p, ok := r.productos[id]
	if !ok {
		return 0, 0, gorm.ErrRecordNotFound
	}
	previo := p.StockActual
	p.StockActual = valor
	return previo, valor, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── PedidoRepository stub ────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido // stored without Items
	items   map[uuid.UUID]*model.PedidoItem
	orden   []uuid.UUID // item insertion order, mimics created_at ASC
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{
		pedidos: make(map[uuid.UUID]*model.Pedido),
		items:   make(map[uuid.UUID]*model.PedidoItem),
	}
}

func (r *stubPedidoRepo) Create(_ context.Context, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.PedidoID = p.ID
		copia := *it
		r.items[it.ID] = &copia
		r.orden = append(r.orden, it.ID)
	}
	copia := *p
	copia.Items = nil
	r.pedidos[p.ID] = &copia
	return nil
}

func (r *stubPedidoRepo) itemsDe(pedidoID uuid.UUID) []model.PedidoItem {
	var out []model.PedidoItem
	for _, id := range r.orden {
		if it, ok := r.items[id]; ok && it.PedidoID == pedidoID {
			out = append(out, *it)
		}
	}
	return out
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	copia.Items = r.itemsDe(id)
	return &copia, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.Estado != "" && string(p.Estado) != filter.Estado {
			continue
		}
		if filter.ProveedorID != "" && p.ProveedorID.String() != filter.ProveedorID {
			continue
		}
		copia := *p
		out = append(out, copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaCreacion.After(out[j].FechaCreacion) })
	return out, nil
}

func (r *stubPedidoRepo) guardarPedido(p *model.Pedido) error {
	if _, ok := r.pedidos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *p
	copia.Items = nil
	r.pedidos[p.ID] = &copia
	return nil
}

func (r *stubPedidoRepo) Update(_ context.Context, p *model.Pedido) error { return r.guardarPedido(p) }
func (r *stubPedidoRepo) UpdateTx(_ *gorm.DB, p *model.Pedido) error      { return r.guardarPedido(p) }

func (r *stubPedidoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if len(r.itemsDe(id)) > 0 {
		return errors.New("FOREIGN KEY constraint failed")
	}
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.PedidoItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *it
	return &copia, nil
}

func (r *stubPedidoRepo) guardarItem(item *model.PedidoItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *item
	r.items[item.ID] = &copia
	return nil
}

func (r *stubPedidoRepo) SaveItem(_ context.Context, item *model.PedidoItem) error {
	return r.guardarItem(item)
}

func (r *stubPedidoRepo) SaveItemTx(_ *gorm.DB, item *model.PedidoItem) error {
	return r.guardarItem(item)
}

func (r *stubPedidoRepo) CreateItemTx(_ *gorm.DB, item *model.PedidoItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copia := *item
	r.items[item.ID] = &copia
	r.orden = append(r.orden, item.ID)
	return nil
}

func (r *stubPedidoRepo) DeleteItemTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *stubPedidoRepo) ReplaceItems(_ context.Context, pedidoID uuid.UUID, items []model.PedidoItem) error {
	for _, it := range r.itemsDe(pedidoID) {
		delete(r.items, it.ID)
	}
	for i := range items {
		items[i].PedidoID = pedidoID
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		copia := items[i]
		r.items[items[i].ID] = &copia
		r.orden = append(r.orden, items[i].ID)
	}
	p, ok := r.pedidos[pedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.TotalItems = len(items)
	return nil
}

func (r *stubPedidoRepo) DeleteItems(_ context.Context, pedidoID uuid.UUID) error {
	for _, it := range r.itemsDe(pedidoID) {
		delete(r.items, it.ID)
	}
	return nil
}

func (r *stubPedidoRepo) ListAuditadosDesde(_ context.Context, desde time.Time, conItems bool) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.Estado != model.PedidoAuditado || p.FechaRecepcion == nil || p.FechaRecepcion.Before(desde) {
			continue
		}
		copia := *p
		if conItems {
			copia.Items = r.itemsDe(p.ID)
		}
		out = append(out, copia)
	}
	return out, nil
}

func (r *stubPedidoRepo) FindItemsFaltantes(_ context.Context, pedidoID uuid.UUID) ([]model.PedidoItem, error) {
	var out []model.PedidoItem
	for _, it := range r.itemsDe(pedidoID) {
		if it.EstadoItem == model.ItemNoLlego || it.EstadoItem == model.ItemIncompleto {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) FindAccionRequerida(_ context.Context, desde time.Time) ([]model.PedidoItem, error) {
	var out []model.PedidoItem
	for _, p := range r.pedidos {
		if p.Estado != model.PedidoAuditado || p.FechaRecepcion == nil || p.FechaRecepcion.Before(desde) {
			continue
		}
		for _, it := range r.itemsDe(p.ID) {
			if it.EstadoItem == model.ItemNoLlego || it.EstadoItem == model.ItemIncompleto || it.EstadoItem == model.ItemAgotado {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── MovimientoStockRepository stub ───────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) porTipo(tipo string) []model.MovimientoStock {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── ProveedorRepository stub ─────────────────────────────────────────────────

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	r.proveedores[p.ID] = &copia
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProveedorRepo) List(_ context.Context, soloActivos bool) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if soloActivos && !p.Activo {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	copia := *p
	r.proveedores[p.ID] = &copia
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProveedorRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = true
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)
