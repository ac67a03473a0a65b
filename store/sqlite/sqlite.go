/*
Package sqlite provides a SQLite-backed implementation of the target
engine's storage interfaces.

PURPOSE:
  Implements TargetStore, InvoiceStore, CustomerDirectory,
  AgentDirectory and SweepRunLog using SQLite. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  targets:     Target records with contributing records as JSON and an
               optimistic-concurrency version column
  invoices:    Transactional records (owned by the invoicing
               collaborator; this engine only reads them, the insert
               path exists so the surrounding system has somewhere to
               put them)
  customers:   Customer directory (code -> assigned agent)
  agents:      Sales identities and reporting lines
  sweep_runs:  Audit log of rollover/recalculation sweeps

OPTIMISTIC CONCURRENCY:
  UpdateTarget compares the caller's version in the WHERE clause. Zero
  rows affected means either the target vanished (ErrTargetNotFound) or
  someone wrote first (ErrConcurrentModification); the lifecycle
  manager retries the latter against a fresh read.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/targets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - target/store.go: Interface definitions
  - target/store/memory.go: In-memory implementation for unit tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/target-engine/target"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Targets (optimistically versioned)
	CREATE TABLE IF NOT EXISTS targets (
		id TEXT PRIMARY KEY,
		customer_code TEXT NOT NULL,
		customer_name TEXT,
		sales_agent_id TEXT NOT NULL,
		target_amount TEXT NOT NULL,
		client_existing_average TEXT NOT NULL,
		period_kind TEXT NOT NULL,
		is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		period_start TEXT,
		period_end TEXT,
		legacy_deadline TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		achieved_amount TEXT NOT NULL,
		achievement_rate TEXT NOT NULL,
		contributing_json TEXT,
		created_by TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_targets_agent
		ON targets(sales_agent_id);
	CREATE INDEX IF NOT EXISTS idx_targets_customer_status
		ON targets(customer_code, status);
	-- Sweep predicate (hot path for the scheduler)
	CREATE INDEX IF NOT EXISTS idx_targets_rollover
		ON targets(is_recurring, status, period_end);

	-- Invoices (read path of the engine; insert path for the caller)
	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		customer_code TEXT NOT NULL,
		doc_number TEXT,
		kind TEXT,
		date TEXT NOT NULL,
		gross_total TEXT NOT NULL,
		vat_amount TEXT,
		vat_percent TEXT,
		lines_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_customer_date
		ON invoices(customer_code, date);

	-- Customer directory
	CREATE TABLE IF NOT EXISTS customers (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		assigned_agent_id TEXT NOT NULL
	);

	-- Agent directory
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		manager_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_agents_manager
		ON agents(manager_id);

	-- Sweep runs (append-only audit log)
	CREATE TABLE IF NOT EXISTS sweep_runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		processed INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sweep_runs_started
		ON sweep_runs(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TARGET STORE (target.TargetStore interface)
// =============================================================================

const targetColumns = `id, customer_code, customer_name, sales_agent_id, target_amount,
	client_existing_average, period_kind, is_recurring, period_start, period_end,
	legacy_deadline, status, achieved_amount, achievement_rate, contributing_json,
	created_by, notes, created_at, updated_at, version`

// Create persists a new target at version 1.
func (s *Store) Create(ctx context.Context, t *target.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.Version = 1
	contribJSON, _ := json.Marshal(refsToRows(t.ContributingRecords))

	query := `
		INSERT INTO targets (` + targetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.CustomerCode,
		t.CustomerName,
		t.SalesAgentID,
		t.TargetAmount.String(),
		t.ClientExistingAverage.String(),
		t.PeriodKind,
		t.IsRecurring,
		nullTime(windowStart(t)),
		nullTime(windowEnd(t)),
		nullTime(t.LegacyDeadline),
		t.Status,
		t.AchievedAmount.String(),
		t.AchievementRate.String(),
		string(contribJSON),
		t.CreatedBy,
		t.Notes,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
		t.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert target: %w", err)
	}
	return nil
}

// Get returns one target by id.
func (s *Store) Get(ctx context.Context, id target.TargetID) (*target.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE id = ?`, id)
	t, err := scanTarget(row)
	if err == sql.ErrNoRows {
		return nil, target.ErrTargetNotFound
	}
	return t, err
}

// Update writes the target back under the optimistic version check.
func (s *Store) Update(ctx context.Context, t *target.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contribJSON, _ := json.Marshal(refsToRows(t.ContributingRecords))

	query := `
		UPDATE targets SET
			customer_code = ?, customer_name = ?, sales_agent_id = ?,
			target_amount = ?, client_existing_average = ?, period_kind = ?,
			is_recurring = ?, period_start = ?, period_end = ?, legacy_deadline = ?,
			status = ?, achieved_amount = ?, achievement_rate = ?,
			contributing_json = ?, notes = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		t.CustomerCode,
		t.CustomerName,
		t.SalesAgentID,
		t.TargetAmount.String(),
		t.ClientExistingAverage.String(),
		t.PeriodKind,
		t.IsRecurring,
		nullTime(windowStart(t)),
		nullTime(windowEnd(t)),
		nullTime(t.LegacyDeadline),
		t.Status,
		t.AchievedAmount.String(),
		t.AchievementRate.String(),
		string(contribJSON),
		t.Notes,
		t.UpdatedAt.UTC().Format(time.RFC3339),
		t.ID,
		t.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update target: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var count int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM targets WHERE id = ?", t.ID).Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			return target.ErrTargetNotFound
		}
		return target.ErrConcurrentModification
	}

	t.Version++
	return nil
}

// Delete removes a target. Administrative use only.
func (s *Store) Delete(ctx context.Context, id target.TargetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM targets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return target.ErrTargetNotFound
	}
	return nil
}

// ListByAgent returns the agent's targets, newest first.
func (s *Store) ListByAgent(ctx context.Context, agentID target.AgentID) ([]*target.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryTargets(ctx, `
		SELECT `+targetColumns+` FROM targets
		WHERE sales_agent_id = ?
		ORDER BY created_at DESC
	`, agentID)
}

// ListActiveByCustomer returns active targets tracking one customer.
func (s *Store) ListActiveByCustomer(ctx context.Context, code target.CustomerCode) ([]*target.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryTargets(ctx, `
		SELECT `+targetColumns+` FROM targets
		WHERE customer_code = ? AND status = ?
		ORDER BY created_at DESC
	`, code, target.StatusActive)
}

// ListActive returns all active targets.
func (s *Store) ListActive(ctx context.Context) ([]*target.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryTargets(ctx, `
		SELECT `+targetColumns+` FROM targets
		WHERE status = ?
		ORDER BY created_at DESC
	`, target.StatusActive)
}

// FindDueForRollover pushes the sweep predicate into SQL: recurring,
// active, window end strictly before now.
func (s *Store) FindDueForRollover(ctx context.Context, now time.Time) ([]*target.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryTargets(ctx, `
		SELECT `+targetColumns+` FROM targets
		WHERE is_recurring = TRUE AND status = ? AND period_end IS NOT NULL AND period_end < ?
		ORDER BY period_end ASC
	`, target.StatusActive, target.DateOnly(now).Format(time.RFC3339))
}

func (s *Store) queryTargets(ctx context.Context, query string, args ...any) ([]*target.Target, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []*target.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTarget(row scanner) (*target.Target, error) {
	var (
		t             target.Target
		targetAmount  string
		existingAvg   string
		periodStart   sql.NullString
		periodEnd     sql.NullString
		legacy        sql.NullString
		achieved      string
		rate          string
		contribJSON   sql.NullString
		createdBy     sql.NullString
		notes         sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(
		&t.ID, &t.CustomerCode, &t.CustomerName, &t.SalesAgentID, &targetAmount,
		&existingAvg, &t.PeriodKind, &t.IsRecurring, &periodStart, &periodEnd,
		&legacy, &t.Status, &achieved, &rate, &contribJSON,
		&createdBy, &notes, &createdAt, &updatedAt, &t.Version,
	)
	if err != nil {
		return nil, err
	}

	t.TargetAmount = mustDecimal(targetAmount)
	t.ClientExistingAverage = mustDecimal(existingAvg)
	t.AchievedAmount = mustDecimal(achieved)
	t.AchievementRate = mustDecimal(rate)
	t.CreatedBy = createdBy.String
	t.Notes = notes.String
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if periodStart.Valid && periodEnd.Valid {
		start, _ := time.Parse(time.RFC3339, periodStart.String)
		end, _ := time.Parse(time.RFC3339, periodEnd.String)
		t.Window = &target.Period{Start: start, End: end}
	}
	if legacy.Valid {
		d, _ := time.Parse(time.RFC3339, legacy.String)
		t.LegacyDeadline = &d
	}
	if contribJSON.Valid && contribJSON.String != "" {
		var rowRefs []recordRefRow
		if err := json.Unmarshal([]byte(contribJSON.String), &rowRefs); err == nil {
			t.ContributingRecords = rowsToRefs(rowRefs)
		}
	}

	return &t, nil
}

// recordRefRow is the JSON shape of a contributing record reference.
type recordRefRow struct {
	InvoiceID string `json:"invoice_id"`
	DocNumber string `json:"doc_number"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Kind      string `json:"kind"`
}

func refsToRows(refs []target.RecordRef) []recordRefRow {
	rows := make([]recordRefRow, len(refs))
	for i, r := range refs {
		rows[i] = recordRefRow{
			InvoiceID: r.InvoiceID,
			DocNumber: r.DocNumber,
			Amount:    r.Amount.String(),
			Date:      r.Date.UTC().Format(time.RFC3339),
			Kind:      r.Kind,
		}
	}
	return rows
}

func rowsToRefs(rows []recordRefRow) []target.RecordRef {
	refs := make([]target.RecordRef, len(rows))
	for i, r := range rows {
		date, _ := time.Parse(time.RFC3339, r.Date)
		refs[i] = target.RecordRef{
			InvoiceID: r.InvoiceID,
			DocNumber: r.DocNumber,
			Amount:    mustDecimal(r.Amount),
			Date:      date,
			Kind:      r.Kind,
		}
	}
	return refs
}

// =============================================================================
// INVOICE STORE (target.InvoiceStore interface)
// =============================================================================

// InsertInvoice persists an invoice. The engine never calls this; it
// exists for the surrounding system (API, seeders) that records sales.
func (s *Store) InsertInvoice(ctx context.Context, inv target.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	linesJSON, _ := json.Marshal(inv.Lines)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices
		(id, customer_code, doc_number, kind, date, gross_total, vat_amount, vat_percent, lines_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		inv.ID,
		inv.CustomerCode,
		inv.DocNumber,
		inv.Kind,
		target.DateOnly(inv.Date).Format(time.RFC3339),
		inv.GrossTotal.String(),
		nullDecimal(inv.VATAmount),
		nullDecimal(inv.VATPercent),
		string(linesJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// FindByCustomerAndDateRange returns invoices with date in [from, to].
func (s *Store) FindByCustomerAndDateRange(ctx context.Context, code target.CustomerCode, from, to time.Time) ([]target.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_code, doc_number, kind, date, gross_total, vat_amount, vat_percent, lines_json
		FROM invoices
		WHERE customer_code = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC
	`, code,
		target.DateOnly(from).Format(time.RFC3339),
		target.DateOnly(to).Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []target.Invoice
	for rows.Next() {
		var (
			inv        target.Invoice
			date       string
			gross      string
			vatAmount  sql.NullString
			vatPercent sql.NullString
			linesJSON  sql.NullString
			docNumber  sql.NullString
			kind       sql.NullString
		)
		if err := rows.Scan(&inv.ID, &inv.CustomerCode, &docNumber, &kind,
			&date, &gross, &vatAmount, &vatPercent, &linesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		inv.DocNumber = docNumber.String
		inv.Kind = kind.String
		inv.Date, _ = time.Parse(time.RFC3339, date)
		inv.GrossTotal = mustDecimal(gross)
		if vatAmount.Valid {
			d := mustDecimal(vatAmount.String)
			inv.VATAmount = &d
		}
		if vatPercent.Valid {
			d := mustDecimal(vatPercent.String)
			inv.VATPercent = &d
		}
		if linesJSON.Valid && linesJSON.String != "" {
			_ = json.Unmarshal([]byte(linesJSON.String), &inv.Lines)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// =============================================================================
// DIRECTORIES (target.CustomerDirectory, target.AgentDirectory)
// =============================================================================

// PutCustomer upserts a customer directory entry.
func (s *Store) PutCustomer(ctx context.Context, c target.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (code, name, assigned_agent_id) VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET name = excluded.name, assigned_agent_id = excluded.assigned_agent_id
	`, c.Code, c.Name, c.AssignedAgentID)
	return err
}

// FindByCode resolves a customer code.
func (s *Store) FindByCode(ctx context.Context, code target.CustomerCode) (*target.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c target.Customer
	err := s.db.QueryRowContext(ctx,
		"SELECT code, name, assigned_agent_id FROM customers WHERE code = ?", code,
	).Scan(&c.Code, &c.Name, &c.AssignedAgentID)
	if err == sql.ErrNoRows {
		return nil, target.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers returns the whole directory (admin/demo views).
func (s *Store) ListCustomers(ctx context.Context) ([]*target.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, name, assigned_agent_id FROM customers ORDER BY code ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*target.Customer
	for rows.Next() {
		var c target.Customer
		if err := rows.Scan(&c.Code, &c.Name, &c.AssignedAgentID); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

// PutAgent upserts an agent directory entry.
func (s *Store) PutAgent(ctx context.Context, a target.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (id, name, role, manager_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role, manager_id = excluded.manager_id
	`, a.ID, a.Name, a.Role, a.ManagerID)
	return err
}

// GetAgent resolves an agent id.
func (s *Store) GetAgent(ctx context.Context, id target.AgentID) (*target.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		a         target.Agent
		managerID sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, role, manager_id FROM agents WHERE id = ?", id,
	).Scan(&a.ID, &a.Name, &a.Role, &managerID)
	if err == sql.ErrNoRows {
		return nil, target.ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}
	a.ManagerID = target.AgentID(managerID.String)
	return &a, nil
}

// ListByManager returns agents reporting to the manager.
func (s *Store) ListByManager(ctx context.Context, managerID target.AgentID) ([]*target.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, role, manager_id FROM agents WHERE manager_id = ? ORDER BY id ASC", managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []*target.Agent
	for rows.Next() {
		var (
			a   target.Agent
			mid sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &mid); err != nil {
			return nil, err
		}
		a.ManagerID = target.AgentID(mid.String)
		agents = append(agents, &a)
	}
	return agents, rows.Err()
}

// =============================================================================
// SWEEP RUN LOG (target.SweepRunLog interface)
// =============================================================================

// Append records one sweep execution. Append-only.
func (s *Store) Append(ctx context.Context, run target.SweepRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sweep_runs (id, kind, started_at, finished_at, processed, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Kind,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Processed,
		run.Failed,
	)
	return err
}

// Recent returns the latest sweep runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]target.SweepRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, started_at, finished_at, processed, failed
		FROM sweep_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []target.SweepRun
	for rows.Next() {
		var (
			run      target.SweepRun
			started  string
			finished string
		)
		if err := rows.Scan(&run.ID, &run.Kind, &started, &finished, &run.Processed, &run.Failed); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, started)
		run.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func windowStart(t *target.Target) *time.Time {
	if t.Window == nil {
		return nil
	}
	return &t.Window.Start
}

func windowEnd(t *target.Target) *time.Time {
	if t.Window == nil {
		return nil
	}
	return &t.Window.End
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
