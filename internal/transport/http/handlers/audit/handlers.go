package audithandler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"nlpayroll/internal/domain/audit"
	"nlpayroll/internal/domain/auth"
	"nlpayroll/internal/transport/http/api"
	"nlpayroll/internal/transport/http/middleware"
	"nlpayroll/internal/transport/http/shared"
)

const exportLimit = 10000

type Handler struct {
	Service *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAuditRead, h.Perms))
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

// filterFrom reads the listing filter; from and to are calendar dates and to is inclusive.
func filterFrom(r *http.Request, validator *shared.Validator) audit.Filter {
	query := r.URL.Query()
	filter := audit.Filter{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		EntityID:   query.Get("entityId"),
		ActorUser:  query.Get("actorUserId"),
	}
	if raw := query.Get("from"); raw != "" {
		filter.From, _ = validator.Date("from", raw)
	}
	if raw := query.Get("to"); raw != "" {
		if to, ok := validator.Date("to", raw); ok {
			filter.To = to.AddDate(0, 0, 1)
		}
	}
	validator.DateOrder("from", filter.From, "to", filter.To)
	return filter
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	validator := shared.NewValidator()
	filter := filterFrom(r, validator)
	if validator.Reject(w, requestID) {
		return
	}
	page := shared.ParsePagination(r.URL.Query(), 100, 500)
	includeDetails := r.URL.Query().Get("includeDetails") == "true"
	total, countErr := h.Service.Count(r.Context(), user.TenantID, filter)
	if countErr != nil {
		slog.Warn("audit count failed", "err", countErr)
	}

	events, err := h.Service.List(r.Context(), user.TenantID, filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	if countErr == nil {
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
	}
	api.Success(w, events, requestID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	validator := shared.NewValidator()
	filter := filterFrom(r, validator)
	if validator.Reject(w, requestID) {
		return
	}

	events, err := h.Service.List(r.Context(), user.TenantID, filter, false, exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export audit events", requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_user_id", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}); err != nil {
		slog.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		row := []string{evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP, evt.CreatedAt.UTC().Format(time.RFC3339)}
		if err := writer.Write(row); err != nil {
			slog.Warn("audit export row failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "err", err)
	}
}
