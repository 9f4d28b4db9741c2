package repository

import (
	"context"
	"errors"
	"strings"

	"bodega/internal/dto"
	"bodega/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrProductoReferenciado means the product appears on order lines or stock
// movements and cannot be hard-deleted.
var ErrProductoReferenciado = errors.New("producto referenciado por pedidos o movimientos")

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByProveedorID(ctx context.Context, proveedorID uuid.UUID) ([]model.Producto, error)
	ExisteSKU(ctx context.Context, sku string, marcaID, subcategoriaID uuid.UUID) (bool, error)

	// Stock primitives. Both run a read-modify-write in two statements and
	// return the before/after values so callers can write the movement
	// ledger. Callers needing atomicity across lines must pass a tx.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) (previo, nuevo int, err error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, valor int) (previo, nuevo int, err error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Marca").Preload("Subcategoria").Preload("Proveedor").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	if filter.SKU != "" {
		q = q.Where("sku = ?", filter.SKU)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.MarcaID != "" {
		q = q.Where("marca_id = ?", filter.MarcaID)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.Rotacion != "" {
		q = q.Where("rotacion = ?", filter.Rotacion)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Marca").Preload("Subcategoria").Preload("Proveedor").
		Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete hard-deletes a product. A foreign-key violation (the product is on
// order lines or in the movement ledger) surfaces as ErrProductoReferenciado
// so the service can suggest lowering its rotation instead.
func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&model.Producto{}, "id = ?", id).Error
	if err != nil && esViolacionFK(err) {
		return ErrProductoReferenciado
	}
	return err
}

func esViolacionFK(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	// sqlite (tests) has no typed error for this
	return strings.Contains(strings.ToUpper(err.Error()), "FOREIGN KEY")
}

func (r *productoRepo) FindByProveedorID(ctx context.Context, proveedorID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("proveedor_id = ?", proveedorID).Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ExisteSKU(ctx context.Context, sku string, marcaID, subcategoriaID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("sku = ? AND marca_id = ? AND subcategoria_id = ?", sku, marcaID, subcategoriaID).
		Count(&count).Error
	return count > 0, err
}

// UpdateStockTx reads stock_actual and writes stock_actual + delta. The read
// and write are separate statements: two concurrent transactions touching the
// same product can lose an update. Accepted trade-off; audits are single-user
// per order in practice.
func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int, int, error) {
	var p model.Producto
	if err := tx.Select("id", "stock_actual").First(&p, "id = ?", id).Error; err != nil {
		return 0, 0, err
	}
	nuevo := p.StockActual + delta
	err := tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock_actual", nuevo).Error
	return p.StockActual, nuevo, err
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, valor int) (int, int, error) {
	var p model.Producto
	if err := tx.Select("id", "stock_actual").First(&p, "id = ?", id).Error; err != nil {
		return 0, 0, err
	}
	err := tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock_actual", valor).Error
	return p.StockActual, valor, err
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
