/*
handlers.go - HTTP API handlers for the target engine

PURPOSE:
  Exposes the target engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Targets:
    GET    /api/targets                    List targets for an agent (cached snapshot)
    POST   /api/targets                    Create target
    GET    /api/targets/{id}               Target detail (live recomputation)
    PUT    /api/targets/{id}               Update target
    DELETE /api/targets/{id}               Administrative delete
    GET    /api/targets/{id}/achievement   Recomputed achievement
    POST   /api/targets/{id}/rollover      Start a new period (recurring only)
    POST   /api/targets/{id}/recalculate   Overwrite cache from source

  Invoices:
    POST   /api/invoices                   Record an invoice (credits progress, fire-and-forget)

  Dashboards:
    GET    /api/dashboards/agents/{id}     Per-agent summary
    GET    /api/dashboards/teams/{id}      Manager-team summary
    GET    /api/dashboards/customers/{code} Per-customer summary

  Admin:
    POST   /api/admin/sweeps/rollover      Run the rollover sweep now
    POST   /api/admin/sweeps/recalculate   Run the consistency sweep now
    GET    /api/admin/sweeps/runs          Recent sweep executions
    POST   /api/admin/agents               Upsert agent
    POST   /api/admin/customers            Upsert customer
    POST   /api/admin/seed                 Load demo dataset (dev only)

CACHE BOUNDARY:
  Listing serves the persisted snapshot; detail and achievement
  endpoints recompute from source. This is the contract dashboard
  callers must honor.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown target/customer/agent
  - 409: Concurrent-modification conflict
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/target-engine/store/sqlite"
	"github.com/warp/target-engine/target"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Manager   *target.Manager
	Dashboard *target.Dashboard
	Log       logrus.FieldLogger
}

// NewHandler wires a handler around the given store.
func NewHandler(store *sqlite.Store, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	calc := target.NewCalculator(store, log)
	manager := target.NewManager(store, store, store, calc, log)
	manager.Runs = store
	return &Handler{
		Store:     store,
		Manager:   manager,
		Dashboard: target.NewDashboard(store, store, calc),
		Log:       log,
	}
}

// =============================================================================
// TARGET HANDLERS
// =============================================================================

// CreateTarget creates a new target for an agent/customer pair.
func (h *Handler) CreateTarget(w http.ResponseWriter, r *http.Request) {
	var req CreateTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseDecimal(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target_amount", err)
		return
	}
	existing, err := parseDecimal(req.ClientExistingAverage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client_existing_average", err)
		return
	}

	t, err := h.Manager.Create(r.Context(), target.CreateInput{
		CustomerCode:          req.CustomerCode,
		CustomerName:          req.CustomerName,
		SalesAgentID:          req.SalesAgentID,
		TargetAmount:          amount,
		ClientExistingAverage: existing,
		PeriodKind:            target.PeriodKind(req.PeriodKind),
		IsRecurring:           req.IsRecurring,
		Notes:                 req.Notes,
		CreatedBy:             req.CreatedBy,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTargetDTO(t))
}

// ListTargets returns an agent's targets from the persisted snapshot.
func (h *Handler) ListTargets(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		writeError(w, http.StatusBadRequest, "agent_id query parameter is required", nil)
		return
	}

	targets, err := h.Store.ListByAgent(r.Context(), target.AgentID(agentID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list targets", err)
		return
	}

	dtos := make([]TargetDTO, len(targets))
	for i, t := range targets {
		dtos[i] = toTargetDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTarget is the detail view: always recomputes from source.
func (h *Handler) GetTarget(w http.ResponseWriter, r *http.Request) {
	id := target.TargetID(chi.URLParam(r, "id"))

	t, ach, err := h.Manager.GetWithAchievement(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Target      TargetDTO      `json:"target"`
		Achievement AchievementDTO `json:"achievement"`
	}{toTargetDTO(t), toAchievementDTO(ach)})
}

// UpdateTarget patches an existing target.
func (h *Handler) UpdateTarget(w http.ResponseWriter, r *http.Request) {
	id := target.TargetID(chi.URLParam(r, "id"))

	var req UpdateTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch := target.UpdatePatch{Notes: req.Notes, IsRecurring: req.IsRecurring}
	if req.TargetAmount != nil {
		amount, err := parseDecimal(*req.TargetAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid target_amount", err)
			return
		}
		patch.TargetAmount = &amount
	}
	if req.Status != nil {
		s := target.Status(*req.Status)
		patch.Status = &s
	}
	if req.PeriodKind != nil {
		k := target.PeriodKind(*req.PeriodKind)
		patch.PeriodKind = &k
	}

	t, err := h.Manager.Update(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTargetDTO(t))
}

// DeleteTarget removes a target. Administrative use only.
func (h *Handler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	id := target.TargetID(chi.URLParam(r, "id"))
	if err := h.Manager.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAchievement recomputes achievement for one target.
func (h *Handler) GetAchievement(w http.ResponseWriter, r *http.Request) {
	id := target.TargetID(chi.URLParam(r, "id"))

	_, ach, err := h.Manager.GetWithAchievement(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAchievementDTO(ach))
}

// RolloverTarget starts a new period on one recurring target.
func (h *Handler) RolloverTarget(w http.ResponseWriter, r *http.Request) {
	id := target.TargetID(chi.URLParam(r, "id"))

	t, err := h.Manager.RolloverOne(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTargetDTO(t))
}

// RecalculateTarget overwrites the cached progress from source.
func (h *Handler) RecalculateTarget(w http.ResponseWriter, r *http.Request) {
	id := target.TargetID(chi.URLParam(r, "id"))

	t, err := h.Manager.RecalculateFromSource(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTargetDTO(t))
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// RecordInvoice persists an invoice and credits target progress.
// Progress crediting is fire-and-forget: its failure never fails the
// invoice recording.
func (h *Handler) RecordInvoice(w http.ResponseWriter, r *http.Request) {
	var req RecordInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CustomerCode == "" {
		writeError(w, http.StatusBadRequest, "customer_code is required", nil)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}
	gross, err := parseDecimal(req.GrossTotal)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gross_total", err)
		return
	}

	inv := target.Invoice{
		ID:           uuid.NewString(),
		CustomerCode: target.CustomerCode(req.CustomerCode),
		DocNumber:    req.DocNumber,
		Kind:         req.Kind,
		Date:         date,
		GrossTotal:   gross,
	}
	if req.VATAmount != nil {
		d, err := parseDecimal(*req.VATAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid vat_amount", err)
			return
		}
		inv.VATAmount = &d
	}
	if req.VATPercent != nil {
		d, err := parseDecimal(*req.VATPercent)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid vat_percent", err)
			return
		}
		inv.VATPercent = &d
	}
	for _, l := range req.Lines {
		qty, err := parseDecimal(l.Quantity)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid line quantity", err)
			return
		}
		price, err := parseDecimal(l.UnitPriceExclVAT)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid line unit price", err)
			return
		}
		inv.Lines = append(inv.Lines, target.InvoiceLine{Quantity: qty, UnitPriceExclVAT: price})
	}

	if err := h.Store.InsertInvoice(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record invoice", err)
		return
	}

	// Best-effort side-channel; never fails the invoice path.
	h.Manager.RecordProgress(r.Context(), inv.CustomerCode, inv)

	writeJSON(w, http.StatusCreated, map[string]string{"id": inv.ID})
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// AgentDashboard returns the per-agent summary.
func (h *Handler) AgentDashboard(w http.ResponseWriter, r *http.Request) {
	agentID := target.AgentID(chi.URLParam(r, "id"))
	view, err := h.Dashboard.AgentSummary(r.Context(), agentID, parseAsOf(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAggregateViewDTO(view))
}

// TeamDashboard returns the manager-team summary with agent ranking.
func (h *Handler) TeamDashboard(w http.ResponseWriter, r *http.Request) {
	managerID := target.AgentID(chi.URLParam(r, "id"))
	view, err := h.Dashboard.TeamSummary(r.Context(), managerID, parseAsOf(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAggregateViewDTO(view))
}

// CustomerDashboard returns the per-customer summary.
func (h *Handler) CustomerDashboard(w http.ResponseWriter, r *http.Request) {
	code := target.CustomerCode(chi.URLParam(r, "code"))
	view, err := h.Dashboard.CustomerSummary(r.Context(), code, parseAsOf(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAggregateViewDTO(view))
}

func parseAsOf(r *http.Request) time.Time {
	if s := r.URL.Query().Get("as_of"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerRolloverSweep runs the rollover sweep immediately.
func (h *Handler) TriggerRolloverSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.Manager.RolloverSweep(r.Context(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Rollover sweep failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SweepResultDTO{Processed: result.Processed, Failed: result.Failed})
}

// TriggerRecalculateSweep refreshes every active target from source.
func (h *Handler) TriggerRecalculateSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.Manager.RecalculateAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Recalculation sweep failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SweepResultDTO{Processed: result.Processed, Failed: result.Failed})
}

// ListSweepRuns returns recent sweep executions.
func (h *Handler) ListSweepRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.Store.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sweep runs", err)
		return
	}

	dtos := make([]SweepRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = SweepRunDTO{
			ID:         run.ID,
			Kind:       run.Kind,
			StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
			FinishedAt: run.FinishedAt.UTC().Format(time.RFC3339),
			Processed:  run.Processed,
			Failed:     run.Failed,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertAgent creates or updates an agent directory entry.
func (h *Handler) UpsertAgent(w http.ResponseWriter, r *http.Request) {
	var req AgentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	role := target.Role(req.Role)
	if role != target.RoleAgent && role != target.RoleManager {
		writeError(w, http.StatusBadRequest, "role must be agent or manager", nil)
		return
	}

	err := h.Store.PutAgent(r.Context(), target.Agent{
		ID:        target.AgentID(req.ID),
		Name:      req.Name,
		Role:      role,
		ManagerID: target.AgentID(req.ManagerID),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save agent", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// UpsertCustomer creates or updates a customer directory entry.
func (h *Handler) UpsertCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Code == "" || req.AssignedAgentID == "" {
		writeError(w, http.StatusBadRequest, "code and assigned_agent_id are required", nil)
		return
	}

	err := h.Store.PutCustomer(r.Context(), target.Customer{
		Code:            target.CustomerCode(req.Code),
		Name:            req.Name,
		AssignedAgentID: target.AgentID(req.AssignedAgentID),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save customer", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ListCustomers returns the customer directory.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}
	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = CustomerDTO{Code: string(c.Code), Name: c.Name, AssignedAgentID: string(c.AssignedAgentID)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadSeed populates the demo dataset. Development only.
func (h *Handler) LoadSeed(w http.ResponseWriter, r *http.Request) {
	if err := LoadDemoData(r.Context(), h); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load demo data", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case target.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case target.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, target.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "Conflict, retry the request", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "Request canceled", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
