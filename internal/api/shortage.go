package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/middleware"
	"github.com/MARUGO-s/app-sub001/internal/service"
	"github.com/MARUGO-s/app-sub001/internal/shortage"
)

// defaultPeriodDays is the window used when no end date is given.
const defaultPeriodDays = 7

type ShortageHandler struct {
	planner *service.Planner
	now     func() time.Time
}

func NewShortageHandler(planner *service.Planner) *ShortageHandler {
	return &ShortageHandler{planner: planner, now: time.Now}
}

func (h *ShortageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/shortages", h.CalculateShortages)
}

// CalculateShortages reports what to order for the meals planned between
// the start and end query dates, both inclusive. Start defaults to today
// and end to the last day of a week starting at start.
func (h *ShortageHandler) CalculateShortages(c *gin.Context) {
	today := h.now().Format(mealplan.DateLayout)
	start, err := time.Parse(mealplan.DateLayout, c.DefaultQuery("start", today))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a YYYY-MM-DD date"})
		return
	}
	end := start.AddDate(0, 0, defaultPeriodDays-1)
	if raw := c.Query("end"); raw != "" {
		if end, err = time.Parse(mealplan.DateLayout, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be a YYYY-MM-DD date"})
			return
		}
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return
	}
	breakdown, _ := strconv.ParseBool(c.DefaultQuery("breakdown", "false"))

	ownerID := middleware.OwnerID(c)
	report, err := h.planner.Aggregator(ownerID).CalculateShortages(c.Request.Context(), ownerID, start, end, shortage.Options{
		IncludeRecipeBreakdown: breakdown,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":    start.Format(mealplan.DateLayout),
		"end":      end.Format(mealplan.DateLayout),
		"report":   report,
		"warnings": h.planner.ConsumeWarnings(ownerID),
	})
}
