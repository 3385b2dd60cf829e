package transport

import (
	"errors"
	nethttp "net/http"

	"github.com/GolovachevS/listings-service/internal/domain"
	"github.com/GolovachevS/listings-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options tune the middleware stack of the engine.
type Options struct {
	Logger *zap.Logger
	// Limiter throttles every request; nil disables rate limiting.
	Limiter RateLimiter
}

// NewServer wires routes and returns a configured gin.Engine.
func NewServer(svc *service.Service, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())
	if opts.Limiter != nil {
		engine.Use(rateLimit(opts.Limiter))
	}

	h := handler{svc: svc, logger: logger}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	listings := engine.Group("/listings")
	{
		listings.GET("", h.listListings)
		listings.POST("", h.createListing)
		listings.GET("/:id", h.getListing)
		listings.PUT("/:id", h.updateListing)
		listings.DELETE("/:id", h.deleteListing)
	}

	return engine
}

type handler struct {
	svc    *service.Service
	logger *zap.Logger
}

type listingRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image" binding:"omitempty,url"`
	Price       float64 `json:"price" binding:"gte=0"`
	Location    string  `json:"location"`
	Country     string  `json:"country"`
}

func (r listingRequest) input() domain.ListingInput {
	return domain.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Price:       r.Price,
		Location:    r.Location,
		Country:     r.Country,
	}
}

func (h handler) listListings(c *gin.Context) {
	listings, err := h.svc.ListListings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"listings": listings})
}

func (h handler) getListing(c *gin.Context) {
	listing, err := h.svc.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"listing": listing})
}

func (h handler) createListing(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	listing, err := h.svc.CreateListing(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(nethttp.StatusCreated, gin.H{"listing": listing})
}

func (h handler) updateListing(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	listing, err := h.svc.UpdateListing(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"listing": listing})
}

func (h handler) deleteListing(c *gin.Context) {
	listing, err := h.svc.DeleteListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"listing": listing})
}

func respondValidationError(c *gin.Context, err error) {
	writeError(c, nethttp.StatusBadRequest, domain.ErrCodeValidation, err.Error())
}

func (h handler) respondError(c *gin.Context, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		writeError(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	h.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	writeError(c, nethttp.StatusInternalServerError, domain.ErrCodeInternal, "internal error")
}

func writeError(c *gin.Context, status int, code domain.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
