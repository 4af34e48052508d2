package leavehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nlpayroll/internal/domain/auth"
	"nlpayroll/internal/domain/leave"
	"nlpayroll/internal/transport/http/api"
	"nlpayroll/internal/transport/http/middleware"
	"nlpayroll/internal/transport/http/shared"
)

type Handler struct {
	Perms middleware.PermissionStore
}

func NewHandler(perms middleware.PermissionStore) *Handler {
	return &Handler{Perms: perms}
}

type entitlementPayload struct {
	HoursPerWeek float64    `json:"hoursPerWeek"`
	CAO          *leave.CAO `json:"cao"`
}

type expiryPayload struct {
	ExpiryDate string `json:"expiryDate"`
	BaseDate   string `json:"baseDate"`
	Years      *int   `json:"years"`
}

type requestDaysPayload struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartHalf bool   `json:"startHalf"`
	EndHalf   bool   `json:"endHalf"`
}

type requestDaysResponse struct {
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Days      float64 `json:"days"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermLeaveRead, h.Perms))
		r.Post("/entitlement", h.handleEntitlement)
		r.Post("/expiry", h.handleExpiry)
		r.Post("/request-days", h.handleRequestDays)
	})
}

func (h *Handler) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload entitlementPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return
	}
	if payload.HoursPerWeek < 0 || payload.HoursPerWeek > 168 {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "hoursPerWeek", Reason: "must be between 0 and 168"}})
		return
	}
	api.Success(w, leave.CalculateEntitlement(payload.HoursPerWeek, payload.CAO), requestID)
}

// handleExpiry either reports on an existing expiry date or derives one from a grant date.
func (h *Handler) handleExpiry(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload expiryPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return
	}

	validator := shared.NewValidator()
	if payload.BaseDate != "" {
		base, _ := validator.Date("baseDate", payload.BaseDate)
		years := leave.DefaultExpiryYears
		if payload.Years != nil {
			years = *payload.Years
		}
		if years < 0 {
			validator.Add("years", "must not be negative")
		}
		if validator.Reject(w, requestID) {
			return
		}
		api.Success(w, leave.CheckExpiry(leave.CalculateExpiryDate(base, years)), requestID)
		return
	}

	expiry, _ := validator.Date("expiryDate", payload.ExpiryDate)
	if validator.Reject(w, requestID) {
		return
	}
	api.Success(w, leave.CheckExpiry(expiry), requestID)
}

func (h *Handler) handleRequestDays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload requestDaysPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return
	}

	validator := shared.NewValidator()
	start, _ := validator.Date("startDate", payload.StartDate)
	end, _ := validator.Date("endDate", payload.EndDate)
	validator.DateOrder("startDate", start, "endDate", end)
	if validator.Reject(w, requestID) {
		return
	}

	days, err := leave.CalculateRequestDays(start, end, payload.StartHalf, payload.EndHalf)
	switch {
	case errors.Is(err, leave.ErrInvalidHalfDays):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_half_days", err.Error(), requestID)
		return
	case errors.Is(err, leave.ErrNoWorkingDays):
		api.Fail(w, http.StatusUnprocessableEntity, "no_working_days", err.Error(), requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusBadRequest, "invalid_range", err.Error(), requestID)
		return
	}

	api.Success(w, requestDaysResponse{
		StartDate: shared.FormatDate(start),
		EndDate:   shared.FormatDate(end),
		Days:      days,
	}, requestID)
}
