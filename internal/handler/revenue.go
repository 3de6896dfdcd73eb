package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RevenueHandler serves the revenue dashboard endpoints.
type RevenueHandler struct {
	Revenue *service.RevenueService
	Log     logrus.FieldLogger
}

// NewRevenueHandler constructs a RevenueHandler and panics if the service is nil.
func NewRevenueHandler(revenue *service.RevenueService, log logrus.FieldLogger) *RevenueHandler {
	if revenue == nil {
		panic("nil service passed to NewRevenueHandler")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RevenueHandler{Revenue: revenue, Log: log}
}

func (h *RevenueHandler) rangeQuery(c echo.Context) (service.RangeQuery, error) {
	days, err := queryInt(c, "days", 0)
	if err != nil {
		return service.RangeQuery{}, err
	}
	f := dateFilter(c)
	return service.RangeQuery{StartDate: f.StartDate, EndDate: f.EndDate, Days: days}, nil
}

// GetDailyRevenue handles GET /v1/revenue/daily.  It returns one point per
// day of the resolved range, including days without bookings.
func (h *RevenueHandler) GetDailyRevenue(c echo.Context) error {
	q, err := h.rangeQuery(c)
	if err != nil {
		return respondError(c, h.Log, "GetDailyRevenue", err)
	}
	points, err := h.Revenue.DailyRevenue(c.Request().Context(), q)
	if err != nil {
		return respondError(c, h.Log, "GetDailyRevenue", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": points})
}

// ExportDailyRevenue handles GET /v1/revenue/daily/export and returns the
// same series as an xlsx workbook.
func (h *RevenueHandler) ExportDailyRevenue(c echo.Context) error {
	q, err := h.rangeQuery(c)
	if err != nil {
		return respondError(c, h.Log, "ExportDailyRevenue", err)
	}
	points, err := h.Revenue.DailyRevenue(c.Request().Context(), q)
	if err != nil {
		return respondError(c, h.Log, "ExportDailyRevenue", err)
	}
	var buf bytes.Buffer
	if err := service.WriteDailyRevenueXLSX(&buf, points); err != nil {
		return respondError(c, h.Log, "ExportDailyRevenue", err)
	}
	name := "daily-revenue.xlsx"
	if len(points) > 0 {
		name = fmt.Sprintf("daily-revenue_%s_%s.xlsx", points[0].Date, points[len(points)-1].Date)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetPaymentMethodBreakdown handles GET /v1/revenue/payment-methods.
func (h *RevenueHandler) GetPaymentMethodBreakdown(c echo.Context) error {
	split, err := h.Revenue.PaymentMethodBreakdown(c.Request().Context(), dateFilter(c))
	if err != nil {
		return respondError(c, h.Log, "GetPaymentMethodBreakdown", err)
	}
	return c.JSON(http.StatusOK, split)
}

// GetTimeSlotPerformance handles GET /v1/revenue/time-slots.
func (h *RevenueHandler) GetTimeSlotPerformance(c echo.Context) error {
	stats, err := h.Revenue.TimeSlotPerformance(c.Request().Context(), dateFilter(c))
	if err != nil {
		return respondError(c, h.Log, "GetTimeSlotPerformance", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": stats})
}

// GetRevenueProgress handles GET /v1/revenue/goals/:month/progress.  A
// month without a goal returns `"goal": null` and zero progress.
func (h *RevenueHandler) GetRevenueProgress(c echo.Context) error {
	p, err := h.Revenue.RevenueProgress(c.Request().Context(), strings.TrimSpace(c.Param("month")))
	if err != nil {
		return respondError(c, h.Log, "GetRevenueProgress", err)
	}
	return c.JSON(http.StatusOK, p)
}

type setGoalRequest struct {
	GoalAmount *decimal.Decimal `json:"goal_amount" validate:"required,gte=0"`
}

// SetMonthlyGoal handles PUT /v1/revenue/goals/:month.
func (h *RevenueHandler) SetMonthlyGoal(c echo.Context) error {
	var body setGoalRequest
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	goal, err := h.Revenue.SetMonthlyGoal(c.Request().Context(), strings.TrimSpace(c.Param("month")), *body.GoalAmount)
	if err != nil {
		return respondError(c, h.Log, "SetMonthlyGoal", err)
	}
	return c.JSON(http.StatusOK, goal)
}
