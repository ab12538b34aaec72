package router

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicebook/backend/internal/infrastructure/config"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
	"github.com/invoicebook/backend/internal/interfaces/http/handler"
	"github.com/invoicebook/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers of the ledger API
type Handlers struct {
	Clients  *handler.ClientHandler
	Invoices *handler.InvoiceHandler
	System   *handler.SystemHandler
}

// EngineConfig configures the gin engine and its middleware chain
type EngineConfig struct {
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	Logger  *zap.Logger
}

// NewEngine builds a gin engine with the standard middleware chain
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	httpLog := logger.Component(log, logger.ComponentHTTP)

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.Tracing),
		middleware.TracingAttributes(),
		logger.GinMiddleware(httpLog),
		logger.Recovery(httpLog),
		middleware.SpanErrorMarker(),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	return engine, nil
}

// LedgerGroups returns the route groups of the ledger API.
// Every route addressing a client uses the :client_id parameter.
func LedgerGroups(h Handlers) []RouteRegistrar {
	clientPath := "/:" + logger.ClientIDParam
	invoicePath := "/:" + handler.InvoiceParam

	clients := NewDomainGroup("clients", "/clients").
		POST("", h.Clients.Create).
		GET("", h.Clients.List).
		GET(clientPath, h.Clients.Get).
		PUT(clientPath+"/favorite", h.Clients.SetFavorite).
		GET(clientPath+"/invoices", h.Invoices.ListForClient)

	invoices := NewDomainGroup("invoices", "/invoices").
		POST("", h.Invoices.Record).
		GET(invoicePath+"/detail", h.Invoices.GetDetail)

	system := NewDomainGroup("system", "").
		GET("/ping", h.System.Ping)

	return []RouteRegistrar{clients, invoices, system}
}

// SetupLedgerRoutes mounts the ledger API on engine, plus GET /health at the root
func SetupLedgerRoutes(engine *gin.Engine, h Handlers, opts ...RouterOption) {
	engine.GET("/health", h.System.Health)
	NewRouter(engine, opts...).Register(LedgerGroups(h)...).Setup()
}
