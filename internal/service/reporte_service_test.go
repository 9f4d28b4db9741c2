package service_test

import (
	"context"
	"testing"
	"time"

	"bodega/internal/model"
	"bodega/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Redis and the dispatcher are nil here: caching and queueing are exercised
// by the integration suite, the aggregation logic is what these tests pin.
func newReporteEnv() (*stubPedidoRepo, service.ReporteService) {
	pedidos := newStubPedidoRepo()
	return pedidos, service.NewReporteService(pedidos, nil, nil)
}

type lineaAuditada struct {
	pedida   int
	recibida int
	estado   model.EstadoItem
}

// seedAuditado inserts an already-audited order received `hace` ago.
func seedAuditado(t *testing.T, repo *stubPedidoRepo, proveedor *model.Proveedor, titulo string, hace time.Duration, lineas ...lineaAuditada) *model.Pedido {
	t.Helper()
	recepcion := time.Now().Add(-hace)
	p := &model.Pedido{
		ProveedorID:    proveedor.ID,
		Proveedor:      proveedor,
		Estado:         model.PedidoAuditado,
		FechaRecepcion: &recepcion,
		Titulo:         &titulo,
	}
	for _, l := range lineas {
		p.Items = append(p.Items, model.PedidoItem{
			ProductoID:       uuid.New(),
			Producto:         &model.Producto{Nombre: titulo + "-producto"},
			CantidadPedida:   l.pedida,
			CantidadRecibida: l.recibida,
			EstadoItem:       l.estado,
		})
	}
	p.TotalItems = len(p.Items)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func proveedorDe(nombre string) *model.Proveedor {
	return &model.Proveedor{ID: uuid.New(), Nombre: nombre, Activo: true}
}

func TestFaltantes(t *testing.T) {
	repo, svc := newReporteEnv()
	prov := proveedorDe("Distribuidora Sur")

	conFaltas := seedAuditado(t, repo, prov, "semana-1", 24*time.Hour,
		lineaAuditada{pedida: 10, recibida: 4, estado: model.ItemIncompleto},
		lineaAuditada{pedida: 6, recibida: 0, estado: model.ItemNoLlego},
		lineaAuditada{pedida: 3, recibida: 3, estado: model.ItemCompleto},
	)
	// outside the window, must not appear
	seedAuditado(t, repo, prov, "viejo", 40*24*time.Hour,
		lineaAuditada{pedida: 5, recibida: 0, estado: model.ItemNoLlego},
	)

	filas, err := svc.Faltantes(context.Background())
	require.NoError(t, err)
	require.Len(t, filas, 2)

	for _, fila := range filas {
		assert.Equal(t, conFaltas.ID.String(), fila.PedidoID)
		require.NotNil(t, fila.PedidoTitulo)
		assert.Equal(t, "semana-1", *fila.PedidoTitulo)
		require.NotNil(t, fila.ProveedorNombre)
		assert.Equal(t, "Distribuidora Sur", *fila.ProveedorNombre)
	}
	assert.Equal(t, 6, filas[0].Faltante) // 10 pedidas, 4 recibidas
	assert.Equal(t, 6, filas[1].Faltante) // 6 pedidas, 0 recibidas
}

func TestAccionRequerida(t *testing.T) {
	repo, svc := newReporteEnv()
	prov := proveedorDe("Distribuidora Sur")

	pedido := seedAuditado(t, repo, prov, "semana-1", 24*time.Hour,
		lineaAuditada{pedida: 4, recibida: 0, estado: model.ItemAgotado},
		lineaAuditada{pedida: 6, recibida: 0, estado: model.ItemNoLlego},
		lineaAuditada{pedida: 5, recibida: 2, estado: model.ItemIncompleto},
		lineaAuditada{pedida: 2, recibida: 2, estado: model.ItemDanado},
		lineaAuditada{pedida: 3, recibida: 3, estado: model.ItemCompleto},
	)

	// damaged-but-complete and complete lines need no follow-up
	filas, err := svc.AccionRequerida(context.Background())
	require.NoError(t, err)
	require.Len(t, filas, 3)
	assert.Equal(t, "Agotado", filas[0].Estado)
	assert.Equal(t, "No llegó", filas[1].Estado)
	assert.Equal(t, "Incompleto", filas[2].Estado)
	for _, fila := range filas {
		assert.Equal(t, pedido.ID.String(), fila.PedidoID)
		require.NotNil(t, fila.PedidoTitulo)
		assert.Equal(t, "semana-1", *fila.PedidoTitulo)
	}
}

func TestDesempenoProveedores(t *testing.T) {
	repo, svc := newReporteEnv()
	sur := proveedorDe("Distribuidora Sur")
	norte := proveedorDe("Almacén Norte")

	// Sur: one perfect order, one short order with an incident line, and an
	// old Agotado-only order. The track record has no window, so the old
	// order counts too, and Agotado alone keeps an order perfect.
	seedAuditado(t, repo, sur, "sur-1", 24*time.Hour,
		lineaAuditada{pedida: 10, recibida: 10, estado: model.ItemCompleto},
	)
	seedAuditado(t, repo, sur, "sur-2", 48*time.Hour,
		lineaAuditada{pedida: 8, recibida: 2, estado: model.ItemIncompleto},
	)
	seedAuditado(t, repo, sur, "sur-viejo", 40*24*time.Hour,
		lineaAuditada{pedida: 4, recibida: 0, estado: model.ItemAgotado},
	)
	// Norte: everything arrived
	seedAuditado(t, repo, norte, "norte-1", 24*time.Hour,
		lineaAuditada{pedida: 5, recibida: 5, estado: model.ItemCompleto},
	)

	filas, err := svc.DesempenoProveedores(context.Background())
	require.NoError(t, err)
	require.Len(t, filas, 2)

	// sorted by supplier name
	assert.Equal(t, "Almacén Norte", filas[0].ProveedorNombre)
	assert.Equal(t, "Distribuidora Sur", filas[1].ProveedorNombre)

	norteFila := filas[0]
	assert.Equal(t, 1, norteFila.PedidosAuditados)
	assert.Equal(t, 1, norteFila.PedidosPerfectos)
	assert.Equal(t, 0, norteFila.Incidencias)
	assert.True(t, norteFila.TasaCumplimiento.Equal(decimal.NewFromInt(100)), norteFila.TasaCumplimiento.String())
	assert.True(t, norteFila.TasaPerfectos.Equal(decimal.NewFromInt(100)))

	surFila := filas[1]
	assert.Equal(t, 3, surFila.PedidosAuditados)
	assert.Equal(t, 2, surFila.PedidosPerfectos)
	assert.Equal(t, 1, surFila.Incidencias)
	assert.Equal(t, 22, surFila.ItemsPedidos)
	assert.Equal(t, 12, surFila.ItemsRecibidos)
	assert.True(t, surFila.TasaCumplimiento.Equal(decimal.RequireFromString("54.55")), surFila.TasaCumplimiento.String())
	assert.True(t, surFila.TasaPerfectos.Equal(decimal.RequireFromString("66.67")), surFila.TasaPerfectos.String())
}

func TestDesempenoDanadoCompletoNoEsPerfecto(t *testing.T) {
	// a fully received damaged line is still an incident for the supplier
	repo, svc := newReporteEnv()
	prov := proveedorDe("Distribuidora Sur")

	seedAuditado(t, repo, prov, "semana-1", 24*time.Hour,
		lineaAuditada{pedida: 2, recibida: 2, estado: model.ItemDanado},
	)

	filas, err := svc.DesempenoProveedores(context.Background())
	require.NoError(t, err)
	require.Len(t, filas, 1)
	assert.Equal(t, 1, filas[0].PedidosAuditados)
	assert.Equal(t, 0, filas[0].PedidosPerfectos)
	assert.Equal(t, 1, filas[0].Incidencias)
	assert.True(t, filas[0].TasaPerfectos.Equal(decimal.NewFromInt(0)), filas[0].TasaPerfectos.String())
}

func TestSolicitarReporteRecepcion(t *testing.T) {
	repo, svc := newReporteEnv()
	prov := proveedorDe("Distribuidora Sur")
	auditado := seedAuditado(t, repo, prov, "semana-1", 24*time.Hour,
		lineaAuditada{pedida: 3, recibida: 3, estado: model.ItemCompleto},
	)

	resp, err := svc.SolicitarReporteRecepcion(context.Background(), auditado.ID)
	require.NoError(t, err)
	assert.Equal(t, "encolado", resp.Estado)
	assert.Equal(t, auditado.ID.String(), resp.PedidoID)
}

func TestSolicitarReporteRequiereAuditado(t *testing.T) {
	repo, svc := newReporteEnv()
	enCamino := &model.Pedido{ProveedorID: uuid.New(), Estado: model.PedidoEnCamino}
	require.NoError(t, repo.Create(context.Background(), enCamino))

	_, err := svc.SolicitarReporteRecepcion(context.Background(), enCamino.ID)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	_, err = svc.SolicitarReporteRecepcion(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrPedidoNoEncontrado)
}
