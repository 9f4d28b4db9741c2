package service_test

import (
	"context"
	"testing"

	"bodega/internal/dto"
	"bodega/internal/model"
	"bodega/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductoEnv() (*stubProductoRepo, *stubMovimientoRepo, service.ProductoService) {
	productos := newStubProductoRepo()
	movs := newStubMovimientoRepo()
	return productos, movs, service.NewProductoService(productos, movs)
}

func TestCrearProducto(t *testing.T) {
	_, _, svc := newProductoEnv()

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		SKU:            "HAR-001",
		Nombre:         "Harina 000 1kg",
		MarcaID:        uuid.NewString(),
		SubcategoriaID: uuid.NewString(),
		StockActual:    12,
	})
	require.NoError(t, err)
	assert.Equal(t, "HAR-001", resp.SKU)
	assert.Equal(t, 12, resp.StockActual)
	assert.Equal(t, "media", resp.Rotacion) // default
}

func TestCrearProductoSKUDuplicado(t *testing.T) {
	productos, _, svc := newProductoEnv()
	marcaID, subcatID := uuid.New(), uuid.New()
	require.NoError(t, productos.Create(context.Background(), &model.Producto{
		SKU: "HAR-001", Nombre: "Harina", MarcaID: marcaID, SubcategoriaID: subcatID,
	}))

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		SKU:            "HAR-001",
		Nombre:         "Harina otra vez",
		MarcaID:        marcaID.String(),
		SubcategoriaID: subcatID.String(),
	})
	assert.Error(t, err)

	// same SKU under another brand is a different product
	_, err = svc.Crear(context.Background(), dto.CrearProductoRequest{
		SKU:            "HAR-001",
		Nombre:         "Harina de otra marca",
		MarcaID:        uuid.NewString(),
		SubcategoriaID: subcatID.String(),
	})
	assert.NoError(t, err)
}

func TestFijarStockRegistraMovimiento(t *testing.T) {
	productos, movs, svc := newProductoEnv()
	p := &model.Producto{
		SKU: "HAR-001", Nombre: "Harina", MarcaID: uuid.New(), SubcategoriaID: uuid.New(),
		StockActual: 5,
	}
	require.NoError(t, productos.Create(context.Background(), p))

	resp, err := svc.FijarStock(context.Background(), p.ID, dto.FijarStockRequest{StockActual: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.StockActual)

	ajustes := movs.porTipo("ajuste_manual")
	require.Len(t, ajustes, 1)
	assert.Equal(t, 7, ajustes[0].Cantidad)
	assert.Equal(t, 5, ajustes[0].StockAnterior)
	assert.Equal(t, 12, ajustes[0].StockNuevo)
	assert.Equal(t, "Ajuste manual de inventario", ajustes[0].Motivo)
}

func TestEliminarProductoReferenciado(t *testing.T) {
	productos, _, svc := newProductoEnv()
	p := &model.Producto{SKU: "HAR-001", Nombre: "Harina", MarcaID: uuid.New(), SubcategoriaID: uuid.New()}
	require.NoError(t, productos.Create(context.Background(), p))
	productos.referenciado[p.ID] = true

	err := svc.Eliminar(context.Background(), p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rotación")

	// still there
	_, err = productos.FindByID(context.Background(), p.ID)
	assert.NoError(t, err)
}

func TestEliminarProductoSinHistorial(t *testing.T) {
	productos, _, svc := newProductoEnv()
	p := &model.Producto{SKU: "HAR-001", Nombre: "Harina", MarcaID: uuid.New(), SubcategoriaID: uuid.New()}
	require.NoError(t, productos.Create(context.Background(), p))

	require.NoError(t, svc.Eliminar(context.Background(), p.ID))
	_, err := productos.FindByID(context.Background(), p.ID)
	assert.Error(t, err)
}

func TestHistorialFiltraPorProducto(t *testing.T) {
	productos, movs, svc := newProductoEnv()
	p := &model.Producto{SKU: "HAR-001", Nombre: "Harina", MarcaID: uuid.New(), SubcategoriaID: uuid.New()}
	require.NoError(t, productos.Create(context.Background(), p))

	_, err := svc.FijarStock(context.Background(), p.ID, dto.FijarStockRequest{StockActual: 4, Motivo: "Conteo"})
	require.NoError(t, err)
	require.NoError(t, movs.CreateTx(nil, &model.MovimientoStock{ProductoID: uuid.New(), Tipo: "ajuste_manual", Cantidad: 1}))

	historial, total, err := svc.Historial(context.Background(), p.ID, 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, historial, 1)
	assert.Equal(t, "Conteo", historial[0].Motivo)
}
