package repository

import (
	"context"

	"bodega/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoRepository covers the two small catalog dimensions: categories
// (a two-level tree, subcategories point at their parent) and brands.
type CatalogoRepository interface {
	CreateCategoria(ctx context.Context, c *model.Categoria) error
	FindCategoriaByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ListCategorias(ctx context.Context) ([]model.Categoria, error)
	ListSubcategorias(ctx context.Context, parentID uuid.UUID) ([]model.Categoria, error)
	UpdateCategoria(ctx context.Context, c *model.Categoria) error
	DeleteCategoria(ctx context.Context, id uuid.UUID) error

	CreateMarca(ctx context.Context, m *model.Marca) error
	FindMarcaByID(ctx context.Context, id uuid.UUID) (*model.Marca, error)
	ListMarcas(ctx context.Context) ([]model.Marca, error)
	UpdateMarca(ctx context.Context, m *model.Marca) error
	DeleteMarca(ctx context.Context, id uuid.UUID) error
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) CreateCategoria(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogoRepo) FindCategoriaByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

// ListCategorias returns root categories with their subcategories preloaded.
func (r *catalogoRepo) ListCategorias(ctx context.Context) ([]model.Categoria, error) {
	var categorias []model.Categoria
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Preload("Subcategorias").
		Order("nombre ASC").
		Find(&categorias).Error
	return categorias, err
}

func (r *catalogoRepo) ListSubcategorias(ctx context.Context, parentID uuid.UUID) ([]model.Categoria, error) {
	var subs []model.Categoria
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("nombre ASC").Find(&subs).Error
	return subs, err
}

func (r *catalogoRepo) UpdateCategoria(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *catalogoRepo) DeleteCategoria(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Categoria{}, "id = ?", id).Error
}

func (r *catalogoRepo) CreateMarca(ctx context.Context, m *model.Marca) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *catalogoRepo) FindMarcaByID(ctx context.Context, id uuid.UUID) (*model.Marca, error) {
	var m model.Marca
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *catalogoRepo) ListMarcas(ctx context.Context) ([]model.Marca, error) {
	var marcas []model.Marca
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&marcas).Error
	return marcas, err
}

func (r *catalogoRepo) UpdateMarca(ctx context.Context, m *model.Marca) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *catalogoRepo) DeleteMarca(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Marca{}, "id = ?", id).Error
}
