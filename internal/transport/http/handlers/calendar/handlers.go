package calendarhandler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"nlpayroll/internal/domain/auth"
	"nlpayroll/internal/domain/calendar"
	"nlpayroll/internal/transport/http/api"
	"nlpayroll/internal/transport/http/middleware"
	"nlpayroll/internal/transport/http/shared"
)

const (
	minYear = 1583
	maxYear = 9999
)

type Handler struct {
	Perms middleware.PermissionStore
}

func NewHandler(perms middleware.PermissionStore) *Handler {
	return &Handler{Perms: perms}
}

type holidayCheck struct {
	Date    string            `json:"date"`
	Holiday *calendar.Holiday `json:"holiday"`
	Weekend bool              `json:"weekend"`
}

type workingDaysResponse struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	ExcludeWeekends bool   `json:"excludeWeekends"`
	WorkingDays     int    `json:"workingDays"`
}

type workingHoursPayload struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type workingHoursResponse struct {
	Hours *float64 `json:"hours"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermCalendarRead, h.Perms))
		r.Get("/holidays", h.handleListHolidays)
		r.Get("/holidays/check", h.handleCheckHoliday)
		r.Get("/working-days", h.handleWorkingDays)
		r.Post("/working-hours", h.handleWorkingHours)
	})
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		validator := shared.NewValidator()
		year, _ = validator.IntRange("year", raw, minYear, maxYear)
		if validator.Reject(w, requestID) {
			return
		}
	}
	api.Success(w, calendar.PublicHolidays(year), requestID)
}

func (h *Handler) handleCheckHoliday(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	validator := shared.NewValidator()
	day, _ := validator.Date("date", r.URL.Query().Get("date"))
	if validator.Reject(w, requestID) {
		return
	}

	resp := holidayCheck{Date: shared.FormatDate(day), Weekend: calendar.IsWeekend(day)}
	if holiday, ok := calendar.HolidayOn(day); ok {
		resp.Holiday = &holiday
	}
	api.Success(w, resp, requestID)
}

func (h *Handler) handleWorkingDays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	validator := shared.NewValidator()
	start, _ := validator.Date("start", query.Get("start"))
	end, _ := validator.Date("end", query.Get("end"))
	excludeWeekends := true
	if raw := query.Get("excludeWeekends"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			validator.Add("excludeWeekends", "must be true or false")
		}
		excludeWeekends = parsed
	}
	if validator.Reject(w, requestID) {
		return
	}

	api.Success(w, workingDaysResponse{
		Start:           shared.FormatDate(start),
		End:             shared.FormatDate(end),
		ExcludeWeekends: excludeWeekends,
		WorkingDays:     calendar.CalculateWorkingDays(start, end, excludeWeekends),
	}, requestID)
}

func (h *Handler) handleWorkingHours(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload workingHoursPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return
	}

	resp := workingHoursResponse{}
	if hours := calendar.CalculateWorkingHours(payload.StartTime, payload.EndTime); !math.IsNaN(hours) {
		resp.Hours = &hours
	}
	api.Success(w, resp, requestID)
}
