package router

import (
	"time"

	"bodega/internal/config"
	"bodega/internal/handler"
	"bodega/internal/middleware"
	"bodega/internal/repository"
	"bodega/internal/service"
	"bodega/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	proveedorRepo := repository.NewProveedorRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	catalogoSvc := service.NewCatalogoService(catalogoRepo)
	productoSvc := service.NewProductoService(productoRepo, movimientoStockRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, proveedorRepo, productoRepo)
	auditoriaSvc := service.NewAuditoriaService(pedidoRepo, productoRepo, movimientoStockRepo)
	reporteSvc := service.NewReporteService(pedidoRepo, rdb, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	auditoriaH := handler.NewAuditoriaHandler(auditoriaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	{
		prov := v1.Group("/proveedores")
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		cats := v1.Group("/categorias")
		{
			cats.POST("", catalogoH.CrearCategoria)
			cats.GET("", catalogoH.ListarCategorias)
			cats.PUT("/:id", catalogoH.ActualizarCategoria)
			cats.DELETE("/:id", catalogoH.EliminarCategoria)
		}

		marcas := v1.Group("/marcas")
		{
			marcas.POST("", catalogoH.CrearMarca)
			marcas.GET("", catalogoH.ListarMarcas)
			marcas.PUT("/:id", catalogoH.ActualizarMarca)
			marcas.DELETE("/:id", catalogoH.EliminarMarca)
		}

		prods := v1.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.PATCH("/:id/stock", productosH.FijarStock)
			prods.GET("/:id/movimientos", productosH.Historial)
		}

		pedidos := v1.Group("/pedidos")
		{
			pedidos.POST("", pedidosH.Crear)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.ObtenerPorID)
			pedidos.PUT("/:id", pedidosH.ActualizarBorrador)
			pedidos.POST("/:id/enviar", pedidosH.Enviar)
		}

		// Audit flow — mirrors the reception screen action for action
		aud := v1.Group("/auditoria/pedidos")
		{
			aud.GET("/:id", auditoriaH.Abrir)
			aud.PUT("/:id/progreso", auditoriaH.GuardarProgreso)
			aud.POST("/:id/finalizar", auditoriaH.Finalizar)
			aud.PUT("/:id/correccion", auditoriaH.GuardarCorreccion)
			aud.POST("/:id/regresar", auditoriaH.RegresarAPendiente)
			aud.POST("/:id/papelera", auditoriaH.MoverAPapelera)
			aud.DELETE("/:id", auditoriaH.EliminarDefinitivo)
			aud.POST("/:id/items/:itemID/sustitucion", auditoriaH.AplicarSustitucion)
			aud.PATCH("/:id/items/:itemID/estado", auditoriaH.CambiarEstadoItem)
		}

		reportes := v1.Group("/reportes")
		{
			reportes.GET("/faltantes", reportesH.Faltantes)
			reportes.GET("/accion", reportesH.AccionRequerida)
			reportes.GET("/desempeno", reportesH.Desempeno)
			reportes.POST("/recepcion/:pedidoID", reportesH.SolicitarRecepcion)
		}
	}

	return r
}
