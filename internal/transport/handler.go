package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-image-similarity/internal/config"
	apperrors "go-image-similarity/internal/errors"
	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/service"
	"go-image-similarity/pkg/models"

	"github.com/gin-gonic/gin"
)

// NewHandler builds the HTTP API over the comparison service.
func NewHandler(svc service.ComparisonService, cfg *config.Config, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewLogger()
	}
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(log),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/targets", listTargets(svc))
	r.POST("/compare", compareImages(svc, cfg, log))
	r.POST("/game/start", startSession(svc, log))
	r.POST("/game/guess", submitGuess(svc, cfg, log))

	return r
}

func compareImages(svc service.ComparisonService, cfg *config.Config, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.CompareTimeout)
		defer cancel()

		log.WithFields(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing comparison request")

		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, log, http.StatusBadRequest, "invalid request format", err)
			return
		}

		// Fast mode in the query parameter takes precedence over the body
		if fastQuery := c.Query("fast"); fastQuery != "" {
			req.Fast = fastQuery == "true"
		}

		resp, err := svc.Compare(ctx, req)
		if err != nil {
			respondError(c, log, determineStatusCode(err), "comparison failed", err)
			return
		}

		log.WithFields(map[string]interface{}{
			"target_ref":          req.TargetRef,
			"candidate_ref":       req.CandidateRef,
			"combined":            resp.Report.Combined,
			"processing_time_sec": resp.ProcessingTimeSec,
		}).Info("Comparison completed successfully")

		c.JSON(http.StatusOK, resp)
	}
}

func listTargets(svc service.ComparisonService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"targets": svc.ListTargets()})
	}
}

func startSession(svc service.ComparisonService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StartSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, log, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := svc.StartSession(c.Request.Context(), req)
		if err != nil {
			respondError(c, log, determineStatusCode(err), "failed to start session", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func submitGuess(svc service.ComparisonService, cfg *config.Config, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.CompareTimeout)
		defer cancel()

		var req models.GuessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, log, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := svc.Guess(ctx, req)
		if err != nil {
			respondError(c, log, determineStatusCode(err), "guess failed", err)
			return
		}

		log.WithFields(map[string]interface{}{
			"session_id": req.SessionID,
			"attempt":    resp.Attempt,
			"score":      resp.Score,
			"victory":    resp.Victory,
		}).Info("Guess scored")

		c.JSON(http.StatusOK, resp)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, log, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, log *logger.Logger, code int, message string, err error) {
	log.WithError(err).WithFields(map[string]interface{}{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
