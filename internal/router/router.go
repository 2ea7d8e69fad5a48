package router

import (
	"time"

	"puntoventa/internal/config"
	"puntoventa/internal/handler"
	"puntoventa/internal/middleware"
	"puntoventa/internal/repository"
	"puntoventa/internal/service"
	"puntoventa/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	cajaSvc := service.NewCajaService(cajaRepo, ventaRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, movimientoStockRepo, cfg.Negocio(), dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	reportesH := handler.NewReportesHandler(ventaSvc, inventarioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Ventas — cajero en adelante registra, supervisor+ anula
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ObtenerVenta)
		v1.GET("/ventas/:id/ticket", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ObtenerTicket)
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.AnularVenta)

		// Productos — lectura para todos los autenticados
		v1.GET("/productos", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.ObtenerPorID)
		v1.GET("/productos/barcode/:barcode", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.BuscarPorBarcode)
		v1.PATCH("/productos/:id/stock", middleware.RequireRole("supervisor", "administrador"), productosH.AjustarStock)
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		// Caja — el borrado de movimientos es administrativo y destructivo
		caja := v1.Group("/caja")
		{
			caja.POST("/movimientos", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.RegistrarMovimiento)
			caja.DELETE("/movimientos/:id", middleware.RequireRole("administrador"), cajaH.EliminarMovimiento)
			caja.GET("/resumen", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Resumen)
			caja.POST("/cierres", middleware.RequireRole("supervisor", "administrador"), cajaH.CerrarCaja)
			caja.GET("/cierres", middleware.RequireRole("supervisor", "administrador"), cajaH.ListarCierres)
			caja.GET("/cierres/:id", middleware.RequireRole("supervisor", "administrador"), cajaH.ObtenerCierre)
		}

		// Clientes
		clientes := v1.Group("/clientes", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
		}
		v1.DELETE("/clientes/:id", middleware.RequireRole("administrador"), clientesH.Desactivar)

		// Categorías — administrador escribe, todos leen
		v1.GET("/categorias", middleware.RequireRole("cajero", "supervisor", "administrador"), categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("administrador"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		// Reportes
		reportes := v1.Group("/reportes", middleware.RequireRole("supervisor", "administrador"))
		{
			reportes.GET("/margen", reportesH.Margen)
			reportes.GET("/bajo-stock", reportesH.BajoStock)
			reportes.GET("/movimientos-stock", reportesH.MovimientosStock)
		}

		// Usuarios — administrador only
		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
