package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/service"
)

// DailyIncomeHandler serves the daily income ledger endpoints.
type DailyIncomeHandler struct {
	Income *service.DailyIncomeService
	Log    logrus.FieldLogger
}

// NewDailyIncomeHandler constructs a DailyIncomeHandler and panics if the
// service is nil.
func NewDailyIncomeHandler(income *service.DailyIncomeService, log logrus.FieldLogger) *DailyIncomeHandler {
	if income == nil {
		panic("nil service passed to NewDailyIncomeHandler")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DailyIncomeHandler{Income: income, Log: log}
}

// ListDailyIncome handles GET /v1/daily-income.  Each row carries its live
// refund adjustment next to the values persisted by the last sync.
func (h *DailyIncomeHandler) ListDailyIncome(c echo.Context) error {
	f := dateFilter(c)
	items, err := h.Income.ListDailyIncome(c.Request().Context(), service.DailyIncomeFilter{
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		PaymentType: strings.ToLower(strings.TrimSpace(c.QueryParam("payment_type"))),
	})
	if err != nil {
		return respondError(c, h.Log, "ListDailyIncome", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type manualIncomeRequest struct {
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	NumberOfShows int             `json:"number_of_shows" validate:"gte=0"`
	CashReceived  decimal.Decimal `json:"cash_received" validate:"gte=0"`
	UpiReceived   decimal.Decimal `json:"upi_received" validate:"gte=0"`
	OtherPayments decimal.Decimal `json:"other_payments" validate:"gte=0"`
}

func (r manualIncomeRequest) toManual() service.ManualDailyIncome {
	return service.ManualDailyIncome{
		Date:          strings.TrimSpace(r.Date),
		NumberOfShows: r.NumberOfShows,
		CashReceived:  r.CashReceived,
		UpiReceived:   r.UpiReceived,
		OtherPayments: r.OtherPayments,
	}
}

// CreateDailyIncome handles POST /v1/daily-income.  A second row for the
// same date is rejected with 409.
func (h *DailyIncomeHandler) CreateDailyIncome(c echo.Context) error {
	var body manualIncomeRequest
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	rec, err := h.Income.CreateManual(c.Request().Context(), body.toManual())
	if err != nil {
		return respondError(c, h.Log, "CreateDailyIncome", err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// UpdateDailyIncome handles PUT /v1/daily-income/:id.
func (h *DailyIncomeHandler) UpdateDailyIncome(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body manualIncomeRequest
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	rec, err := h.Income.UpdateManual(c.Request().Context(), id, body.toManual())
	if err != nil {
		return respondError(c, h.Log, "UpdateDailyIncome", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// DeleteDailyIncome handles DELETE /v1/daily-income/:id.
func (h *DailyIncomeHandler) DeleteDailyIncome(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Income.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.Log, "DeleteDailyIncome", err)
	}
	return c.NoContent(http.StatusNoContent)
}

type syncRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Mode      string `json:"mode" validate:"omitempty,oneof=overwrite skip"`
}

// SyncDailyIncome handles POST /v1/daily-income/sync.  The body is
// optional; without one every date with bookings is synced in skip mode.
// A concurrent run yields 409.
//
// The stored adjusted_revenue is the same figure the listing computes:
// refund-adjusted cash and UPI plus the row's other_payments, which an
// overwrite keeps.  adjusted_shows drops fully refunded bookings only.
func (h *DailyIncomeHandler) SyncDailyIncome(c echo.Context) error {
	var body syncRequest
	if c.Request().ContentLength != 0 {
		if ok, err := bindAndValidate(c, &body); !ok {
			return err
		}
	}
	res, err := h.Income.Sync(c.Request().Context(), service.SyncRequest{
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		Mode:      service.SyncMode(body.Mode),
	})
	if err != nil {
		return respondError(c, h.Log, "SyncDailyIncome", err)
	}
	return c.JSON(http.StatusOK, res)
}
