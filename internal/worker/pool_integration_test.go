//go:build integration

package worker_test

// Run with: go test -tags integration ./internal/worker/
// Needs a local Docker daemon.

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"bodega/internal/worker"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	rdb := goredis.NewClient(opts)
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

type contadorHandler struct {
	llamadas atomic.Int32
	fallas   int32 // fail the first N calls
}

func (h *contadorHandler) Process(_ context.Context, _ json.RawMessage) error {
	n := h.llamadas.Add(1)
	if n <= h.fallas {
		return errors.New("fallo transitorio")
	}
	return nil
}

func esperar(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 30*time.Second, 100*time.Millisecond)
}

func TestPoolProcesaTrabajos(t *testing.T) {
	rdb := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := &contadorHandler{}
	pool := worker.NewPool(rdb)
	pool.Register("reporte", handler)
	pool.Start(ctx, 2)

	dispatcher := worker.NewDispatcher(rdb)
	require.NoError(t, dispatcher.EnqueueReporte(ctx, map[string]string{"pedido_id": "x"}))
	require.NoError(t, dispatcher.EnqueueReporte(ctx, map[string]string{"pedido_id": "y"}))

	esperar(t, func() bool { return handler.llamadas.Load() == 2 })
}

func TestPoolReintentaYDescarta(t *testing.T) {
	rdb := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// fails forever: after the retry budget it must land in the DLQ
	handler := &contadorHandler{fallas: 1 << 30}
	pool := worker.NewPool(rdb)
	pool.Register("reporte", handler)
	pool.Start(ctx, 1)

	dispatcher := worker.NewDispatcher(rdb)
	require.NoError(t, dispatcher.EnqueueReporte(ctx, map[string]string{"pedido_id": "x"}))

	esperar(t, func() bool {
		n, err := worker.DLQLength(ctx, rdb, worker.QueueReporte)
		return err == nil && n == 1
	})
	assert.EqualValues(t, 3, handler.llamadas.Load())
}

func TestPoolSinHandlerVaADLQ(t *testing.T) {
	rdb := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := worker.NewPool(rdb)
	pool.Start(ctx, 1)

	dispatcher := worker.NewDispatcher(rdb)
	require.NoError(t, dispatcher.EnqueueEmail(ctx, map[string]string{"to": "x@example.com"}))

	esperar(t, func() bool {
		n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail)
		return err == nil && n == 1
	})
}
