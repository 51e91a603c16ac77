package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/core/ports"
	customMiddleware "github.com/opsboard/admin-console/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	AdminService        ports.AdminService
	ConfirmationService ports.ConfirmationService
	SessionService      ports.SessionService
	RateLimitRepo       ports.RateLimitRepository
	HealthCheckers      []ports.HealthChecker
}

type Server struct {
	echo            *echo.Echo
	config          *ServerConfig
	adminCfg        *config.AdminConfig
	logger          *logrus.Logger
	adminSvc        ports.AdminService
	confirmationSvc ports.ConfirmationService
	sessionSvc      ports.SessionService
	middleware      *customMiddleware.MiddlewareCollection
	healthCheckers  []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, adminCfg *config.AdminConfig, rateLimitCfg *config.RateLimitConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:            e,
		config:          serverConfig,
		adminCfg:        adminCfg,
		logger:          logger,
		adminSvc:        deps.AdminService,
		confirmationSvc: deps.ConfirmationService,
		sessionSvc:      deps.SessionService,
		healthCheckers:  deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.SessionService,
			deps.RateLimitRepo,
			rateLimitCfg,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
