package payrollhandler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"nlpayroll/internal/domain/auth"
	"nlpayroll/internal/domain/payroll"
	"nlpayroll/internal/platform/metrics"
	"nlpayroll/internal/transport/http/api"
	"nlpayroll/internal/transport/http/middleware"
	"nlpayroll/internal/transport/http/shared"
)

const (
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	fileEndpoint = "POST /payroll/returns"

	minYear = 1900
	maxYear = 2200
)

type Handler struct {
	Service     *payroll.Service
	Perms       middleware.PermissionStore
	Metrics     *metrics.Collector
	Idempotency *middleware.IdempotencyStore
	// FilingLimit throttles the filing route only; the calculators share the API budget.
	FilingLimit func(http.Handler) http.Handler
}

func NewHandler(service *payroll.Service, perms middleware.PermissionStore, collector *metrics.Collector, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Metrics: collector, Idempotency: idem}
}

type bsnPayload struct {
	BSN string `json:"bsn"`
}

type bsnResponse struct {
	BSN   string `json:"bsn"`
	Valid bool   `json:"valid"`
}

type withholdingPayload struct {
	Year         int     `json:"year"`
	GrossWage    float64 `json:"grossWage"`
	TaxTable     string  `json:"taxTable"`
	HasTaxCredit bool    `json:"hasTaxCredit"`
}

type withholdingResponse struct {
	Year        int     `json:"year"`
	GrossWage   float64 `json:"grossWage"`
	TaxTable    string  `json:"taxTable"`
	TaxWithheld float64 `json:"taxWithheld"`
}

type socialSecurityPayload struct {
	Year      int     `json:"year"`
	GrossWage float64 `json:"grossWage"`
}

type periodResponse struct {
	Year         int                `json:"year"`
	PeriodType   payroll.PeriodType `json:"periodType"`
	PeriodNumber int                `json:"periodNumber"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
}

type returnResponse struct {
	Return   payroll.TaxReturn         `json:"return"`
	Findings []payroll.ValidationError `json:"findings"`
	Blocking bool                      `json:"blocking"`
	Archived bool                      `json:"archived"`
}

type ratesResponse struct {
	Years []int         `json:"years"`
	Rates payroll.Rates `json:"rates"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		read := middleware.RequirePermission(auth.PermPayrollRead, h.Perms)
		write := middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)
		file := middleware.RequirePermission(auth.PermPayrollFile, h.Perms)

		r.With(read).Post("/bsn/validate", h.handleValidateBSN)
		r.With(read).Post("/tax/withholding", h.handleWithholding)
		r.With(read).Post("/tax/social-security", h.handleSocialSecurity)
		r.With(read).Get("/periods", h.handlePeriod)
		r.With(read).Get("/rates", h.handleRates)

		filing := []func(http.Handler) http.Handler{file}
		if h.FilingLimit != nil {
			filing = append(filing, h.FilingLimit)
		}

		r.With(filing...).Post("/returns", h.handleFileReturn)
		r.With(write).Post("/returns/xml", h.handleReturnXML)
		r.With(write).Post("/returns/pdf", h.handleReturnPDF)
		r.With(write).Post("/returns/xlsx", h.handleReturnXLSX)
		r.With(read).Get("/returns", h.handleListReturns)
		r.With(read).Get("/returns/{returnID}", h.handleGetReturn)
		r.With(read).Get("/returns/{returnID}/xml", h.handleArchivedXML)
		r.With(read).Get("/returns/{returnID}/pdf", h.handleArchivedPDF)
		r.With(read).Get("/returns/{returnID}/xlsx", h.handleArchivedXLSX)
	})
}

func (h *Handler) handleValidateBSN(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload bsnPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return
	}
	api.Success(w, bsnResponse{BSN: payload.BSN, Valid: payroll.ValidateBSN(payload.BSN)}, requestID)
}

func (h *Handler) handleWithholding(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload withholdingPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return
	}
	validator := shared.NewValidator()
	validateYear(validator, payload.Year)
	validator.Enum("taxTable", payload.TaxTable, []string{payroll.TaxTableWhite, payroll.TaxTableGreen}, "must be white or green")
	if validator.Reject(w, requestID) {
		return
	}

	table := payroll.NormalizeTaxTable(payload.TaxTable)
	rates := h.Service.Rates().For(payload.Year)
	api.Success(w, withholdingResponse{
		Year:        payload.Year,
		GrossWage:   payload.GrossWage,
		TaxTable:    table,
		TaxWithheld: rates.TaxWithholding(payload.GrossWage, table, payload.HasTaxCredit),
	}, requestID)
}

func (h *Handler) handleSocialSecurity(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload socialSecurityPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return
	}
	validator := shared.NewValidator()
	validateYear(validator, payload.Year)
	if validator.Reject(w, requestID) {
		return
	}
	api.Success(w, h.Service.Rates().For(payload.Year).Contributions(payload.GrossWage), requestID)
}

func (h *Handler) handlePeriod(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	validator := shared.NewValidator()

	year, _ := validator.IntRange("year", query.Get("year"), minYear, maxYear)
	periodType, periodNumber := validatePeriod(validator, query.Get("periodType"), query.Get("periodNumber"))
	if validator.Reject(w, requestID) {
		return
	}

	start, end := payroll.GetPeriodDates(year, periodType, periodNumber)
	api.Success(w, periodResponse{
		Year:         year,
		PeriodType:   periodType,
		PeriodNumber: periodNumber,
		StartDate:    shared.FormatDate(start),
		EndDate:      shared.FormatDate(end),
	}, requestID)
}

func (h *Handler) handleRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	registry := h.Service.Rates()
	years := registry.Years()
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil && len(years) > 0 {
		year = years[len(years)-1]
	}
	api.Success(w, ratesResponse{Years: years, Rates: registry.For(year)}, requestID)
}

// handleFileReturn builds and validates a return and archives it when an archive is
// configured. An Idempotency-Key header replays the first response for a repeated body.
func (h *Handler) handleFileReturn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "failed to read request body", requestID)
		return
	}
	req, ok := h.decodeReturnRequest(w, r, body)
	if !ok {
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	useIdempotency := idemKey != "" && h.Idempotency != nil && h.Service.Archiving()
	requestHash := middleware.RequestHash(body)
	if useIdempotency {
		replay, found, err := h.Idempotency.Lookup(r.Context(), user.TenantID, user.UserID, fileEndpoint, idemKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), requestID)
			return
		}
		if err != nil {
			slog.Warn("idempotency lookup failed", "err", err, "requestId", requestID)
		}
		if found {
			w.Header().Set("Idempotent-Replay", "true")
			api.WriteJSON(w, replay.Status, api.Envelope{Success: true, Data: json.RawMessage(replay.Body), RequestID: requestID})
			return
		}
	}

	actor := payroll.Actor{TenantID: user.TenantID, UserID: user.UserID, RequestID: requestID, IP: shared.ClientIP(r)}
	archived, err := h.Service.File(r.Context(), actor, req)
	if err != nil {
		slog.Error("file tax return failed", "err", err, "companyId", req.Company.ID, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "tax_return_file_failed", "failed to file tax return", requestID)
		return
	}

	blocking := payroll.HasBlockingFindings(archived.Findings)
	h.recordReturn(blocking, h.Service.Archiving())
	resp := returnResponse{
		Return:   archived.Return,
		Findings: nonNilFindings(archived.Findings),
		Blocking: blocking,
		Archived: h.Service.Archiving(),
	}

	status := http.StatusOK
	if resp.Archived {
		status = http.StatusCreated
	}
	if useIdempotency {
		if payload, err := json.Marshal(resp); err == nil {
			replay := middleware.Replay{Status: status, Body: payload}
			if err := h.Idempotency.Remember(r.Context(), user.TenantID, user.UserID, fileEndpoint, idemKey, requestHash, replay); err != nil {
				slog.Warn("idempotency save failed", "err", err, "requestId", requestID)
			}
		}
	}

	api.WriteJSON(w, status, api.Envelope{Success: true, Data: resp, RequestID: requestID})
}

// handleReturnXML renders the submission file for a posted return. Blocking findings stop
// the render unless force=true.
func (h *Handler) handleReturnXML(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	req, ok := h.readReturnRequest(w, r)
	if !ok {
		return
	}

	ret, findings := h.Service.Prepare(req)
	blocking := payroll.HasBlockingFindings(findings)
	h.recordReturn(blocking, false)
	if blocking && r.URL.Query().Get("force") != "true" {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "tax_return_invalid", "tax return has blocking findings",
			map[string]any{"findings": findings}, requestID)
		return
	}
	h.writeXML(w, ret, req.Company)
}

func (h *Handler) handleReturnPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readReturnRequest(w, r)
	if !ok {
		return
	}
	ret, _ := h.Service.Prepare(req)
	h.writePDF(w, r, ret, req.Company)
}

func (h *Handler) handleReturnXLSX(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readReturnRequest(w, r)
	if !ok {
		return
	}
	ret, _ := h.Service.Prepare(req)
	h.writeXLSX(w, r, ret, req.Company)
}

func (h *Handler) handleListReturns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r.URL.Query(), 50, 200)
	summaries, total, err := h.Service.List(r.Context(), user.TenantID, r.URL.Query().Get("companyId"), page.Limit, page.Offset)
	if err != nil {
		h.failArchive(w, err, requestID)
		return
	}
	if summaries == nil {
		summaries = []payroll.ReturnSummary{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, summaries, requestID)
}

func (h *Handler) handleGetReturn(w http.ResponseWriter, r *http.Request) {
	archived, ok := h.loadArchived(w, r)
	if !ok {
		return
	}
	api.Success(w, archived, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchivedXML(w http.ResponseWriter, r *http.Request) {
	archived, ok := h.loadArchived(w, r)
	if !ok {
		return
	}
	if payroll.HasBlockingFindings(archived.Findings) && r.URL.Query().Get("force") != "true" {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "tax_return_invalid", "tax return has blocking findings",
			map[string]any{"findings": archived.Findings}, middleware.GetRequestID(r.Context()))
		return
	}
	h.writeXML(w, archived.Return, archived.Company)
}

func (h *Handler) handleArchivedPDF(w http.ResponseWriter, r *http.Request) {
	archived, ok := h.loadArchived(w, r)
	if !ok {
		return
	}
	h.writePDF(w, r, archived.Return, archived.Company)
}

func (h *Handler) handleArchivedXLSX(w http.ResponseWriter, r *http.Request) {
	archived, ok := h.loadArchived(w, r)
	if !ok {
		return
	}
	h.writeXLSX(w, r, archived.Return, archived.Company)
}

func (h *Handler) loadArchived(w http.ResponseWriter, r *http.Request) (payroll.ArchivedReturn, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return payroll.ArchivedReturn{}, false
	}
	archived, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "returnID"))
	if err != nil {
		h.failArchive(w, err, requestID)
		return payroll.ArchivedReturn{}, false
	}
	return archived, true
}

func (h *Handler) failArchive(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrArchiveDisabled):
		api.Fail(w, http.StatusServiceUnavailable, "archive_disabled", err.Error(), requestID)
	case errors.Is(err, payroll.ErrReturnNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	default:
		slog.Error("tax return archive failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "tax_return_archive_failed", "failed to read tax return archive", requestID)
	}
}

func (h *Handler) readReturnRequest(w http.ResponseWriter, r *http.Request) (payroll.ReturnRequest, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "failed to read request body", middleware.GetRequestID(r.Context()))
		return payroll.ReturnRequest{}, false
	}
	return h.decodeReturnRequest(w, r, body)
}

func (h *Handler) decodeReturnRequest(w http.ResponseWriter, r *http.Request, body []byte) (payroll.ReturnRequest, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var req payroll.ReturnRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request body", requestID)
		return payroll.ReturnRequest{}, false
	}

	validator := shared.NewValidator()
	validator.Required("company.id", req.Company.ID, "is required")
	validateYear(validator, req.Year)
	req.PeriodType, req.PeriodNumber = validatePeriod(validator, string(req.PeriodType), strconv.Itoa(req.PeriodNumber))
	for i, input := range req.Employees {
		validator.Required(fmt.Sprintf("employees[%d].employee.id", i), input.Employee.ID, "is required")
		validator.Enum(fmt.Sprintf("employees[%d].employee.salaryInfo.taxTable", i), input.Employee.SalaryInfo.TaxTable,
			[]string{payroll.TaxTableWhite, payroll.TaxTableGreen}, "must be white or green")
	}
	if validator.Reject(w, requestID) {
		return payroll.ReturnRequest{}, false
	}
	for i := range req.Employees {
		info := &req.Employees[i].Employee.SalaryInfo
		info.TaxTable = payroll.NormalizeTaxTable(info.TaxTable)
	}
	return req, true
}

func (h *Handler) writeXML(w http.ResponseWriter, ret payroll.TaxReturn, company payroll.Company) {
	if h.Metrics != nil {
		h.Metrics.RecordXML()
	}
	api.Attachment(w, contentTypeXML, exportName(ret, "xml"), []byte(payroll.GenerateLoonaangifteXML(ret, company)))
}

func (h *Handler) writePDF(w http.ResponseWriter, r *http.Request, ret payroll.TaxReturn, company payroll.Company) {
	out, err := payroll.RenderSummaryPDF(ret, company)
	if err != nil {
		slog.Error("render pdf failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render pdf", middleware.GetRequestID(r.Context()))
		return
	}
	api.Attachment(w, contentTypePDF, exportName(ret, "pdf"), out)
}

func (h *Handler) writeXLSX(w http.ResponseWriter, r *http.Request, ret payroll.TaxReturn, company payroll.Company) {
	out, err := payroll.RenderRegisterXLSX(ret, company)
	if err != nil {
		slog.Error("render xlsx failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render wage register", middleware.GetRequestID(r.Context()))
		return
	}
	api.Attachment(w, contentTypeXLSX, exportName(ret, "xlsx"), out)
}

func (h *Handler) recordReturn(blocked, archived bool) {
	if h.Metrics != nil {
		h.Metrics.RecordReturn(blocked, archived)
	}
}

func validateYear(v *shared.Validator, year int) {
	if year < minYear || year > maxYear {
		v.Add("year", fmt.Sprintf("must be between %d and %d", minYear, maxYear))
	}
}

// validatePeriod accepts a period type with its number; yearly periods ignore the number.
func validatePeriod(v *shared.Validator, rawType, rawNumber string) (payroll.PeriodType, int) {
	periodType, err := payroll.ParsePeriodType(rawType)
	if err != nil {
		v.Add("periodType", "must be monthly, quarterly or yearly")
		return "", 0
	}
	if periodType == payroll.PeriodYearly {
		return periodType, 0
	}
	maxNumber := 12
	if periodType == payroll.PeriodQuarterly {
		maxNumber = 4
	}
	number, _ := v.IntRange("periodNumber", rawNumber, 1, maxNumber)
	return periodType, number
}

func exportName(ret payroll.TaxReturn, ext string) string {
	if ret.PeriodType == payroll.PeriodYearly {
		return fmt.Sprintf("loonaangifte-%d.%s", ret.Year, ext)
	}
	return fmt.Sprintf("loonaangifte-%d-%s-%02d.%s", ret.Year, ret.PeriodType, ret.PeriodNumber, ext)
}

func nonNilFindings(findings []payroll.ValidationError) []payroll.ValidationError {
	if findings == nil {
		return []payroll.ValidationError{}
	}
	return findings
}
