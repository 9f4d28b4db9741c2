//go:build integration

package repository_test

// Run with: go test -tags integration ./internal/repository/
// Needs a local Docker daemon; the container is torn down with the test.

import (
	"context"
	"testing"
	"time"

	"bodega/internal/infra"
	"bodega/internal/model"
	"bodega/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("bodega_test"),
		tcpostgres.WithUsername("bodega"),
		tcpostgres.WithPassword("bodega"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return db
}

func TestPostgresCicloDeAuditoria(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	proveedorRepo := repository.NewProveedorRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	movRepo := repository.NewMovimientoStockRepository(db)

	proveedor := &model.Proveedor{Nombre: "Distribuidora Sur", Activo: true}
	require.NoError(t, proveedorRepo.Create(ctx, proveedor))
	// gen_random_uuid() filled the ID server-side
	assert.NotEqual(t, uuid.Nil, proveedor.ID)

	producto := &model.Producto{
		SKU: "HAR-001", Nombre: "Harina 000 1kg",
		MarcaID: uuid.New(), SubcategoriaID: uuid.New(),
		Rotacion: model.RotacionMedia,
	}
	require.NoError(t, productoRepo.Create(ctx, producto))

	pedido := &model.Pedido{
		ProveedorID:   proveedor.ID,
		Estado:        model.PedidoEnCamino,
		FechaCreacion: time.Now(),
		TotalItems:    1,
		Items: []model.PedidoItem{
			{ProductoID: producto.ID, CantidadPedida: 10, EstadoItem: model.ItemNoLlego},
		},
	}
	require.NoError(t, pedidoRepo.Create(ctx, pedido))

	// commit the receipt atomically: line, stock, ledger, order
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		item := &pedido.Items[0]
		item.CantidadRecibida = 10
		item.EstadoItem = model.ItemCompleto
		item.AuditadoAt = &now
		if err := pedidoRepo.SaveItemTx(tx, item); err != nil {
			return err
		}
		previo, nuevo, err := productoRepo.UpdateStockTx(tx, producto.ID, 10)
		if err != nil {
			return err
		}
		if err := movRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    producto.ID,
			Tipo:          "auditoria",
			Cantidad:      10,
			StockAnterior: previo,
			StockNuevo:    nuevo,
			ReferenciaID:  &pedido.ID,
		}); err != nil {
			return err
		}
		pedido.Estado = model.PedidoAuditado
		pedido.FechaRecepcion = &now
		return pedidoRepo.UpdateTx(tx, pedido)
	})
	require.NoError(t, err)

	cargado, err := pedidoRepo.FindByID(ctx, pedido.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoAuditado, cargado.Estado)
	require.Len(t, cargado.Items, 1)
	assert.Equal(t, 10, cargado.Items[0].CantidadRecibida)

	recargado, err := productoRepo.FindByID(ctx, producto.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, recargado.StockActual)

	movs, total, err := movRepo.List(ctx, repository.MovimientoStockFilter{ProductoID: &producto.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "auditoria", movs[0].Tipo)

	// a referenced product cannot be hard-deleted, typed pg error path
	err = productoRepo.Delete(ctx, producto.ID)
	assert.ErrorIs(t, err, repository.ErrProductoReferenciado)

	// pedido delete is blocked while items exist
	assert.Error(t, pedidoRepo.Delete(ctx, pedido.ID))
	require.NoError(t, pedidoRepo.DeleteItems(ctx, pedido.ID))
	require.NoError(t, pedidoRepo.Delete(ctx, pedido.ID))
}
