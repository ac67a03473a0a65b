/*
handlers_test.go - HTTP-level tests for the target engine API

Covers the full request paths: target CRUD, invoice recording with
progress crediting, dashboards, and the admin sweep triggers, all
against an in-memory SQLite store.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/target-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewRouter(NewHandler(store, log))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// seedDirectory registers a manager, an agent and a customer.
func seedDirectory(t *testing.T, router http.Handler) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/admin/agents", AgentDTO{
		ID: "mgr-1", Name: "Helena", Role: "manager",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/admin/agents", AgentDTO{
		ID: "agt-1", Name: "Marco", Role: "agent", ManagerID: "mgr-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/admin/customers", CustomerDTO{
		Code: "C-1001", Name: "Nordwind", AssignedAgentID: "agt-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func createTarget(t *testing.T, router http.Handler, recurring bool) TargetDTO {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/targets", CreateTargetRequest{
		CustomerCode: "C-1001",
		CustomerName: "Nordwind",
		SalesAgentID: "agt-1",
		TargetAmount: "1000",
		PeriodKind:   "monthly",
		IsRecurring:  recurring,
		CreatedBy:    "test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[TargetDTO](t, rec)
}

// =============================================================================
// TARGET CRUD TESTS
// =============================================================================

func TestCreateTarget_Success(t *testing.T) {
	// GIVEN: A registered agent and customer
	// WHEN: Creating a monthly target of 1000
	// THEN: 201 with an active target windowed to the current month

	router := newTestRouter(t)
	seedDirectory(t, router)

	dto := createTarget(t, router, true)

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "active", dto.Status)
	assert.Equal(t, "1000.00", dto.TargetAmount)
	assert.Equal(t, "0.00", dto.AchievedAmount)
	require.NotNil(t, dto.PeriodStart)
	require.NotNil(t, dto.PeriodEnd)
}

func TestCreateTarget_InvalidAmount_BadRequest(t *testing.T) {
	// GIVEN: A zero target amount
	// WHEN: Creating
	// THEN: 400

	router := newTestRouter(t)
	seedDirectory(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/targets", CreateTargetRequest{
		CustomerCode: "C-1001",
		SalesAgentID: "agt-1",
		TargetAmount: "0",
		PeriodKind:   "monthly",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTarget_ManagerOwner_BadRequest(t *testing.T) {
	// GIVEN: A manager identity as the owning agent
	// WHEN: Creating
	// THEN: 400

	router := newTestRouter(t)
	seedDirectory(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/targets", CreateTargetRequest{
		CustomerCode: "C-1001",
		SalesAgentID: "mgr-1",
		TargetAmount: "1000",
		PeriodKind:   "monthly",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTarget_Unknown_NotFound(t *testing.T) {
	// GIVEN: No such target
	// WHEN: Fetching the detail view
	// THEN: 404

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/targets/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAndDeleteTarget(t *testing.T) {
	// GIVEN: An existing target
	// WHEN: Patching notes then deleting
	// THEN: 200 with updated notes, 204 on delete, 404 afterwards

	router := newTestRouter(t)
	seedDirectory(t, router)
	dto := createTarget(t, router, false)

	notes := "priority account"
	rec := doJSON(t, router, http.MethodPut, "/api/targets/"+dto.ID, UpdateTargetRequest{Notes: &notes})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[TargetDTO](t, rec)
	assert.Equal(t, "priority account", updated.Notes)

	rec = doJSON(t, router, http.MethodDelete, "/api/targets/"+dto.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/targets/"+dto.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTargets_RequiresAgentID(t *testing.T) {
	// GIVEN: A listing request without agent_id
	// WHEN: Listing
	// THEN: 400

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/targets", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// INVOICE AND PROGRESS TESTS
// =============================================================================

func TestRecordInvoice_CreditsTarget(t *testing.T) {
	// GIVEN: An active target of 1000 for the customer
	// WHEN: Recording an invoice of gross 240 at 20% VAT inside the window
	// THEN: 201, and the detail view shows achieved 200.00 / rate 20.00

	router := newTestRouter(t)
	seedDirectory(t, router)
	dto := createTarget(t, router, true)

	require.NotNil(t, dto.PeriodStart)
	vat := "20"
	rec := doJSON(t, router, http.MethodPost, "/api/invoices", RecordInvoiceRequest{
		CustomerCode: "C-1001",
		DocNumber:    "R-1",
		Date:         *dto.PeriodStart,
		GrossTotal:   "240",
		VATPercent:   &vat,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/targets/"+dto.ID+"/achievement", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ach := decode[AchievementDTO](t, rec)

	assert.Equal(t, "200.00", ach.AchievedAmount)
	assert.Equal(t, "20.00", ach.AchievementRate)
	assert.Equal(t, 1, ach.RecordCount)
	assert.False(t, ach.Stale)
	require.Len(t, ach.Records, 1)
	assert.Equal(t, "R-1", ach.Records[0].DocNumber)
}

func TestRecordInvoice_BadDate_BadRequest(t *testing.T) {
	// GIVEN: A malformed invoice date
	// WHEN: Recording
	// THEN: 400

	router := newTestRouter(t)
	seedDirectory(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/invoices", RecordInvoiceRequest{
		CustomerCode: "C-1001",
		Date:         "15.01.2025",
		GrossTotal:   "240",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordInvoice_UnknownCustomer_StillRecorded(t *testing.T) {
	// GIVEN: An invoice for a customer with no directory entry
	// WHEN: Recording
	// THEN: 201; target bookkeeping failure never fails the invoice path

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/invoices", RecordInvoiceRequest{
		CustomerCode: "C-9999",
		Date:         "2025-01-15",
		GrossTotal:   "120",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// =============================================================================
// ROLLOVER AND RECALCULATION TESTS
// =============================================================================

func TestRolloverTarget_NonRecurring_BadRequest(t *testing.T) {
	// GIVEN: A non-recurring target
	// WHEN: Forcing a rollover
	// THEN: 400

	router := newTestRouter(t)
	seedDirectory(t, router)
	dto := createTarget(t, router, false)

	rec := doJSON(t, router, http.MethodPost, "/api/targets/"+dto.ID+"/rollover", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRolloverTarget_Recurring_ResetsWindow(t *testing.T) {
	// GIVEN: A recurring target
	// WHEN: Forcing a rollover
	// THEN: 200 with zeroed progress and an active status

	router := newTestRouter(t)
	seedDirectory(t, router)
	dto := createTarget(t, router, true)

	rec := doJSON(t, router, http.MethodPost, "/api/targets/"+dto.ID+"/rollover", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rolled := decode[TargetDTO](t, rec)
	assert.Equal(t, "0.00", rolled.AchievedAmount)
	assert.Equal(t, "active", rolled.Status)
}

func TestSweepTriggers_AndRunLog(t *testing.T) {
	// GIVEN: A fresh engine with one active target
	// WHEN: Triggering both sweeps
	// THEN: Both respond 200 and two runs appear in the audit log

	router := newTestRouter(t)
	seedDirectory(t, router)
	createTarget(t, router, true)

	rec := doJSON(t, router, http.MethodPost, "/api/admin/sweeps/rollover", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/admin/sweeps/recalculate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[SweepResultDTO](t, rec)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)

	rec = doJSON(t, router, http.MethodGet, "/api/admin/sweeps/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]SweepRunDTO](t, rec)
	require.Len(t, runs, 2)
}

// =============================================================================
// DASHBOARD TESTS
// =============================================================================

func TestAgentDashboard_Totals(t *testing.T) {
	// GIVEN: One target of 1000 with a recorded invoice worth 200
	// WHEN: Fetching the agent dashboard
	// THEN: Totals and counts reflect the live computation

	router := newTestRouter(t)
	seedDirectory(t, router)
	dto := createTarget(t, router, true)

	vat := "20"
	rec := doJSON(t, router, http.MethodPost, "/api/invoices", RecordInvoiceRequest{
		CustomerCode: "C-1001",
		Date:         *dto.PeriodStart,
		GrossTotal:   "240",
		VATPercent:   &vat,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboards/agents/agt-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[AggregateViewDTO](t, rec)

	assert.Equal(t, 1, view.Counts.Active)
	assert.Equal(t, "1000.00", view.TotalTarget)
	assert.Equal(t, "200.00", view.TotalAchieved)
	assert.Equal(t, "20.00", view.OverallRate)
	require.Len(t, view.Top, 1)
}

func TestTeamDashboard_IncludesRanking(t *testing.T) {
	// GIVEN: A manager with one reporting agent holding a target
	// WHEN: Fetching the team dashboard
	// THEN: The agent ranking is populated

	router := newTestRouter(t)
	seedDirectory(t, router)
	createTarget(t, router, true)

	rec := doJSON(t, router, http.MethodGet, "/api/dashboards/teams/mgr-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[AggregateViewDTO](t, rec)

	require.Len(t, view.AgentRanking, 1)
	assert.Equal(t, "agt-1", view.AgentRanking[0].AgentID)
	assert.Equal(t, 1, view.AgentRanking[0].TargetCount)
}

func TestAgentDashboard_UnknownAgent_NotFound(t *testing.T) {
	// GIVEN: No such agent
	// WHEN: Fetching the dashboard
	// THEN: 404

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/dashboards/agents/agt-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ADMIN DIRECTORY TESTS
// =============================================================================

func TestUpsertAgent_BadRole_BadRequest(t *testing.T) {
	// GIVEN: An unsupported role
	// WHEN: Upserting an agent
	// THEN: 400

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/admin/agents", AgentDTO{
		ID: "x", Name: "X", Role: "intern",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeed_LoadsDemoDataset(t *testing.T) {
	// GIVEN: An empty engine
	// WHEN: Loading the demo dataset
	// THEN: Customers exist and the demo agent has targets

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/admin/seed", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	customers := decode[[]CustomerDTO](t, rec)
	assert.NotEmpty(t, customers)

	rec = doJSON(t, router, http.MethodGet, "/api/targets?agent_id=agt-marco", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	targets := decode[[]TargetDTO](t, rec)
	assert.NotEmpty(t, targets)
}
