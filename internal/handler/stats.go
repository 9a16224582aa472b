package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/payment-ledger/internal/repository"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 90
)

// StatsHandler serves the aggregate metrics endpoint.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(s *repository.StatsRepo) *StatsHandler {
	return &StatsHandler{Stats: s}
}

// Get handles GET /api/payments/stats. The optional ?days=N parameter sizes
// the daily time series; counts and revenue totals are unaffected by it.
// Viewers get metrics over their own payments only.
func (h *StatsHandler) Get(c echo.Context) error {
	days := defaultStatsDays
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fail(c, http.StatusBadRequest, "validation", "days must be a positive integer")
		}
		days = n
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Stats.Collect(ctx, ownerScope(c), days)
	if err != nil {
		return storeFail(c, err, "")
	}
	return c.JSON(http.StatusOK, s)
}
