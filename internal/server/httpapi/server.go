// Package httpapi exposes the REST surface of the relay server: institute
// account routes, the certificate relay routes and the public verification
// endpoint.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/certificates"
	"github.com/dmitrijs2005/certledger/internal/server/config"
	"github.com/dmitrijs2005/certledger/internal/server/institutes"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/dmitrijs2005/certledger/internal/server/relay"
	"github.com/dmitrijs2005/certledger/internal/server/students"
	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg          *config.Config
	logger       logging.Logger
	institutes   *institutes.Service
	students     *students.Service
	certificates *certificates.Service
	guard        *relay.Guard
	executor     *relay.Executor
	coordinator  *relay.Coordinator
	reader       ledger.Reader
	engine       *gin.Engine
	httpServer   *http.Server
	now          func() time.Time
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	instituteService *institutes.Service,
	studentService *students.Service,
	certificateService *certificates.Service,
	guard *relay.Guard,
	executor *relay.Executor,
	coordinator *relay.Coordinator,
	reader ledger.Reader,
) *Server {
	s := &Server{
		cfg:          cfg,
		logger:       logger.With("module", "httpapi"),
		institutes:   instituteService,
		students:     studentService,
		certificates: certificateService,
		guard:        guard,
		executor:     executor,
		coordinator:  coordinator,
		reader:       reader,
		now:          time.Now,
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: s.engine,
	}

	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.POST("/university/register", s.handleRegister)
	api.POST("/university/login", s.handleLogin)

	api.GET("/verify/:certificateId", s.handleVerify)

	authorized := api.Group("/university", s.requireInstitute())
	authorized.GET("/profile", s.handleProfile)
	authorized.GET("/balance", s.handleBalance)
	authorized.POST("/students", s.handleRegisterStudent)
	authorized.GET("/certificates", s.handleListCertificates)
	authorized.POST("/certificates/prepare", s.handlePrepareCertificate)
	authorized.POST("/certificates/relay", s.handleRelayCertificate)
	authorized.POST("/certificates/bulk/prepare", s.handlePrepareBulk)
	authorized.POST("/certificates/bulk/relay", s.handleRelayBulk)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info(ctx, "http server stopping")
	return s.httpServer.Shutdown(shutdownCtx)
}
