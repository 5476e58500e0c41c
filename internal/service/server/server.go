package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	errs "distr-calc/internal/calculator/errors"
	core "distr-calc/internal/service/core"
	types "distr-calc/internal/service/types"
	"distr-calc/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	Engine     *gin.Engine
	Calculator *core.Calculator
	log        *zap.Logger
	http       *http.Server
}

func NewServer(calculator *core.Calculator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	server := &Server{
		Engine:     engine,
		Calculator: calculator,
		log:        log,
	}

	engine.GET("/healthz", healthHandler)
	engine.POST("/api/v1/calculate", calculateHandler(calculator, log))
	engine.GET("/api/v1/expressions", listExpressionsHandler(calculator, log))
	engine.GET("/api/v1/expressions/:id", getExpressionHandler(calculator, log))
	engine.DELETE("/api/v1/expressions", clearExpressionsHandler(calculator, log))

	return server
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func calculateHandler(calculator *core.Calculator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CalculateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
			log.Warn("invalid request body", zap.Error(err))
			return
		}

		rec, err := calculator.Calculate(c.Request.Context(), req.Expression)
		if err != nil {
			if kind := errs.KindOf(err); kind != errs.KindUnknown {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, types.CalculateResponse{
					ID:    rec.ID,
					Error: rec.Error,
					Kind:  rec.Kind,
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to process expression"})
			log.Error("failed to process expression", zap.Error(err))
			return
		}

		c.JSON(http.StatusCreated, types.CalculateResponse{
			ID:      rec.ID,
			Result:  rec.Result,
			Display: rec.Display,
		})
	}
}

func listExpressionsHandler(calculator *core.Calculator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := calculator.List(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to get all expressions"})
			log.Error("failed to list expressions", zap.Error(err))
			return
		}
		c.JSON(http.StatusOK, types.ExpressionsResponse{Expressions: records})
	}
}

func getExpressionHandler(calculator *core.Calculator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := calculator.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "expression not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to get expression"})
			log.Error("failed to get expression", zap.Error(err))
			return
		}
		c.JSON(http.StatusOK, types.ExpressionResponse{Expression: rec})
	}
}

func clearExpressionsHandler(calculator *core.Calculator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := calculator.Clear(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to clear expressions"})
			log.Error("failed to clear expressions", zap.Error(err))
			return
		}
		c.Status(http.StatusNoContent)
	}
}
