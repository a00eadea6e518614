// Package http wires a minimal gin-gonic surface around the billing façade:
// a health probe and the inbound payment-provider webhook endpoint. This is
// host-integration scaffolding, not the engine's core — most hosts embed
// the façade directly and drive their own HTTP surface around it.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/interfaces/http/middleware"
	"github.com/22smeargle/qzpay/pkg/config"
	"github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// Server is the gin-backed host binding for a Facade.
type Server struct {
	config *config.Config
	facade *billing.Facade
	engine *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server instance bound to an already-wired
// Facade.
func NewServer(cfg *config.Config, facade *billing.Facade) *Server {
	engine := gin.New()

	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	engine.Use(middleware.ErrorHandler(middleware.DefaultErrorHandlerConfig()))
	engine.Use(middleware.RequestID(""))
	engine.Use(middleware.Logging(middleware.DefaultLoggingConfig()))

	s := &Server{
		config: cfg,
		facade: facade,
		engine: engine,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.App.Port),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logger.Info(fmt.Sprintf("Starting HTTP server on port %d", s.config.App.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server...")
	return s.server.Shutdown(ctx)
}

// GetEngine returns the Gin engine.
func (s *Server) GetEngine() *gin.Engine {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthCheck)
	s.engine.POST("/webhooks/:provider", s.handleWebhook)
}

// healthCheck runs the façade's storage and payment-provider probes and
// reports the worst status among them.
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	report := s.facade.CheckHealth(ctx, 5*time.Second)

	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// handleWebhook reads the raw payload, hands it to the façade for
// provider-specific signature verification and dispatch, and maps the
// result onto the webhook surface's response contract: 200 even for an
// event type nobody's registered a handler for, an AppError's own status
// (401 invalid signature, 409 replayed timestamp, 400 malformed payload),
// and 500 for any other error, including an unknown provider name or an
// adapter error that is not an AppError. :provider picks which adapter verifies the
// signature — a Stripe delivery is never checked against the MercadoPago
// scheme or vice versa.
func (s *Server) handleWebhook(c *gin.Context) {
	providerName := c.Param("provider")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signatureHeader := c.GetHeader("X-Webhook-Signature")
	livemode := s.config.Billing.Livemode

	result, err := s.facade.ProcessWebhook(c.Request.Context(), providerName, body, signatureHeader, livemode)
	if err != nil {
		if errors.IsAppError(err) {
			appErr := errors.GetAppError(err)
			c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Error()})
			return
		}
		logger.Error("Webhook processing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed": result.Processed})
}
