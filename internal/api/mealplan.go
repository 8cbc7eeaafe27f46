package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/middleware"
	"github.com/MARUGO-s/app-sub001/internal/service"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

// MealPlanHandler exposes the meal plan calendar.
type MealPlanHandler struct {
	planner *service.Planner
}

func NewMealPlanHandler(planner *service.Planner) *MealPlanHandler {
	return &MealPlanHandler{planner: planner}
}

// RegisterRoutes mounts the calendar routes. writeLimit guards every
// mutating route and may be nil.
func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	writes := []gin.HandlerFunc{}
	if writeLimit != nil {
		writes = append(writes, writeLimit)
	}
	with := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writes...), handler)
	}

	plans := router.Group("/meal-plans")
	{
		plans.GET("", h.ListMealPlans)
		plans.POST("", with(h.AddMeal)...)
		plans.PATCH("/:date/:id", with(h.UpdateMeal)...)
		plans.DELETE("/:date/:id", with(h.RemoveMeal)...)
		plans.POST("/clear", with(h.ClearPeriod)...)
		plans.POST("/cleanup", with(h.CleanupInvalidPlans)...)
	}
	router.GET("/warnings", h.ConsumeWarnings)
}

func (h *MealPlanHandler) ListMealPlans(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	plans, err := h.planner.Store(ownerID).GetAll(c.Request.Context(), ownerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plans":    plans,
		"warnings": h.planner.ConsumeWarnings(ownerID),
	})
}

func (h *MealPlanHandler) AddMeal(c *gin.Context) {
	var req types.AddMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID := middleware.OwnerID(c)
	meal, err := h.planner.Store(ownerID).AddMeal(c.Request.Context(), ownerID, req.Date, req.RecipeID, req.MealType, mealplan.MealOptions{
		Note:        req.Note,
		Multiplier:  req.Multiplier,
		TotalWeight: req.TotalWeight,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"meal":     meal,
		"warnings": h.planner.ConsumeWarnings(ownerID),
	})
}

func (h *MealPlanHandler) UpdateMeal(c *gin.Context) {
	var req types.UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID := middleware.OwnerID(c)
	meal, err := h.planner.Store(ownerID).UpdateMeal(c.Request.Context(), ownerID, c.Param("date"), c.Param("id"), mealplan.Updates{
		DateKey:          req.Date,
		MealType:         req.MealType,
		Note:             req.Note,
		Multiplier:       req.Multiplier,
		TotalWeight:      req.TotalWeight,
		ClearTotalWeight: req.ClearTotalWeight,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	warnings := h.planner.ConsumeWarnings(ownerID)
	if meal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found", "warnings": warnings})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal, "warnings": warnings})
}

func (h *MealPlanHandler) RemoveMeal(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if err := h.planner.Store(ownerID).RemoveMeal(c.Request.Context(), ownerID, c.Param("date"), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warnings": h.planner.ConsumeWarnings(ownerID)})
}

func (h *MealPlanHandler) ClearPeriod(c *gin.Context) {
	var req types.ClearPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !mealplan.ValidDateKey(req.Start) || !mealplan.ValidDateKey(req.End) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be YYYY-MM-DD dates"})
		return
	}

	ownerID := middleware.OwnerID(c)
	if err := h.planner.Store(ownerID).ClearPeriod(c.Request.Context(), ownerID, req.Start, req.End); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warnings": h.planner.ConsumeWarnings(ownerID)})
}

// CleanupInvalidPlans removes meals whose recipe no longer exists. The body
// is optional; without recipe ids the owner's recipes are looked up.
func (h *MealPlanHandler) CleanupInvalidPlans(c *gin.Context) {
	var req types.CleanupRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ownerID := middleware.OwnerID(c)
	plans, err := h.planner.Cleanup(c.Request.Context(), ownerID, req.ValidRecipeIDs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plans":    plans,
		"warnings": h.planner.ConsumeWarnings(ownerID),
	})
}

func (h *MealPlanHandler) ConsumeWarnings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"warnings": h.planner.ConsumeWarnings(middleware.OwnerID(c))})
}
