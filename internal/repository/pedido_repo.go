package repository

import (
	"context"
	"time"

	"bodega/internal/dto"
	"bodega/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PedidoRepository defines the data access contract for purchase orders and
// their lines. Mutations that belong to an audit commit take a *gorm.DB so
// the service can run the whole commit in one transaction.
type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error)
	Update(ctx context.Context, p *model.Pedido) error
	UpdateTx(tx *gorm.DB, p *model.Pedido) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindItemByID(ctx context.Context, id uuid.UUID) (*model.PedidoItem, error)
	SaveItem(ctx context.Context, item *model.PedidoItem) error
	SaveItemTx(tx *gorm.DB, item *model.PedidoItem) error
	CreateItemTx(tx *gorm.DB, item *model.PedidoItem) error
	DeleteItemTx(tx *gorm.DB, id uuid.UUID) error
	ReplaceItems(ctx context.Context, pedidoID uuid.UUID, items []model.PedidoItem) error
	DeleteItems(ctx context.Context, pedidoID uuid.UUID) error

	// Report reads
	ListAuditadosDesde(ctx context.Context, desde time.Time, conItems bool) ([]model.Pedido, error)
	FindItemsFaltantes(ctx context.Context, pedidoID uuid.UUID) ([]model.PedidoItem, error)
	FindAccionRequerida(ctx context.Context, desde time.Time) ([]model.PedidoItem, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Create(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Producto").
		Preload("Items.ProductoReal").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	q := r.db.WithContext(ctx).Preload("Proveedor")
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}

	var pedidos []model.Pedido
	err := q.Order("fecha_creacion DESC").Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) Update(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Omit("Items", "Proveedor").Save(p).Error
}

func (r *pedidoRepo) UpdateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Omit("Items", "Proveedor").Save(p).Error
}

// Delete removes the order row only. Callers delete the items first via
// DeleteItems; a leftover item blocks this delete through the FK.
func (r *pedidoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Pedido{}, "id = ?", id).Error
}

func (r *pedidoRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.PedidoItem, error) {
	var item model.PedidoItem
	err := r.db.WithContext(ctx).
		Preload("Producto").Preload("ProductoReal").
		First(&item, "id = ?", id).Error
	return &item, err
}

func (r *pedidoRepo) SaveItem(ctx context.Context, item *model.PedidoItem) error {
	return r.db.WithContext(ctx).Omit("Producto", "ProductoReal").Save(item).Error
}

func (r *pedidoRepo) SaveItemTx(tx *gorm.DB, item *model.PedidoItem) error {
	return tx.Omit("Producto", "ProductoReal").Save(item).Error
}

func (r *pedidoRepo) CreateItemTx(tx *gorm.DB, item *model.PedidoItem) error {
	return tx.Omit("Producto", "ProductoReal").Create(item).Error
}

func (r *pedidoRepo) DeleteItemTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.PedidoItem{}, "id = ?", id).Error
}

// ReplaceItems swaps a draft's item set wholesale and refreshes the
// total_items cache in the same transaction.
func (r *pedidoRepo) ReplaceItems(ctx context.Context, pedidoID uuid.UUID, items []model.PedidoItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.PedidoItem{}, "pedido_id = ?", pedidoID).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].PedidoID = pedidoID
			if err := tx.Omit("Producto", "ProductoReal").Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Pedido{}).Where("id = ?", pedidoID).
			Update("total_items", len(items)).Error
	})
}

func (r *pedidoRepo) DeleteItems(ctx context.Context, pedidoID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PedidoItem{}, "pedido_id = ?", pedidoID).Error
}

// ListAuditadosDesde returns audited orders received on or after desde; a
// zero desde lists every audited order. conItems additionally preloads the
// full line set for aggregation.
func (r *pedidoRepo) ListAuditadosDesde(ctx context.Context, desde time.Time, conItems bool) ([]model.Pedido, error) {
	q := r.db.WithContext(ctx).
		Preload("Proveedor").
		Where("estado = ?", model.PedidoAuditado)
	if !desde.IsZero() {
		q = q.Where("fecha_recepcion >= ?", desde)
	}
	if conItems {
		q = q.Preload("Items").Preload("Items.Producto")
	}

	var pedidos []model.Pedido
	err := q.Order("fecha_recepcion DESC").Find(&pedidos).Error
	return pedidos, err
}

// FindItemsFaltantes returns the short lines of one audited order. The
// status filter lives in SQL so the report never depends on client-side
// post-filtering.
func (r *pedidoRepo) FindItemsFaltantes(ctx context.Context, pedidoID uuid.UUID) ([]model.PedidoItem, error) {
	var items []model.PedidoItem
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("pedido_id = ? AND estado_item IN ?", pedidoID,
			[]model.EstadoItem{model.ItemNoLlego, model.ItemIncompleto}).
		Find(&items).Error
	return items, err
}

// FindAccionRequerida returns the lines still needing a follow-up (No llegó,
// Incompleto or Agotado) across audited orders received since desde.
func (r *pedidoRepo) FindAccionRequerida(ctx context.Context, desde time.Time) ([]model.PedidoItem, error) {
	var items []model.PedidoItem
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Joins("JOIN pedidos ON pedidos.id = pedido_items.pedido_id").
		Where("pedidos.estado = ? AND pedidos.fecha_recepcion >= ?", model.PedidoAuditado, desde).
		Where("pedido_items.estado_item IN ?",
			[]model.EstadoItem{model.ItemNoLlego, model.ItemIncompleto, model.ItemAgotado}).
		Find(&items).Error
	return items, err
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }
