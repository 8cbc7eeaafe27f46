package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MARUGO-s/app-sub001/internal/middleware"
	"github.com/MARUGO-s/app-sub001/internal/repository"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

// uploadURLExpiry is how long a price sheet upload URL stays valid.
const uploadURLExpiry = 15 * time.Minute

// UnitOverrideStore reads and pins order units.
type UnitOverrideStore interface {
	GetAll(ctx context.Context, ownerID string) (map[string]string, error)
	Set(ctx context.Context, ownerID, ingredientName, unit string) error
}

// PriceSheetReader reads an owner's imported price sheet.
type PriceSheetReader interface {
	ReadPriceSheet(ctx context.Context, ownerID string) (map[string]types.PriceEntry, error)
}

// UploadURLSigner issues presigned upload URLs.
type UploadURLSigner interface {
	PresignUpload(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// SettingsHandler serves the per-user procurement settings: order unit
// overrides and the vendor price sheet.
type SettingsHandler struct {
	overrides UnitOverrideStore
	prices    PriceSheetReader
	uploads   UploadURLSigner
}

// NewSettingsHandler creates a SettingsHandler. prices and uploads may be nil
// when no price sheet bucket is configured.
func NewSettingsHandler(overrides UnitOverrideStore, prices PriceSheetReader, uploads UploadURLSigner) *SettingsHandler {
	return &SettingsHandler{overrides: overrides, prices: prices, uploads: uploads}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/unit-overrides", h.ListUnitOverrides)
	router.PUT("/unit-overrides", h.SetUnitOverride)

	sheets := router.Group("/price-sheet")
	{
		sheets.GET("", h.GetPriceSheet)
		sheets.POST("/upload-url", h.CreateUploadURL)
	}
}

func (h *SettingsHandler) ListUnitOverrides(c *gin.Context) {
	overrides, err := h.overrides.GetAll(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

func (h *SettingsHandler) SetUnitOverride(c *gin.Context) {
	var req types.UnitOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.IngredientName)
	unit := strings.TrimSpace(req.Unit)
	if name == "" || unit == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient_name and unit must not be blank"})
		return
	}

	if err := h.overrides.Set(c.Request.Context(), middleware.OwnerID(c), name, unit); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient_name": name, "unit": unit})
}

func (h *SettingsHandler) GetPriceSheet(c *gin.Context) {
	if h.prices == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Price sheets are not configured"})
		return
	}
	prices, err := h.prices.ReadPriceSheet(c.Request.Context(), middleware.OwnerID(c))
	if errors.Is(err, repository.ErrPriceSheetNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No price sheet uploaded"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

func (h *SettingsHandler) CreateUploadURL(c *gin.Context) {
	if h.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Price sheets are not configured"})
		return
	}
	key := repository.PriceSheetKey(middleware.OwnerID(c))
	url, err := h.uploads.PresignUpload(c.Request.Context(), key, uploadURLExpiry)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upload_url": url,
		"key":        key,
		"expires_in": int(uploadURLExpiry.Seconds()),
	})
}
