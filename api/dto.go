/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts cross the wire as decimal strings ("1234.56"), never floats.

CACHE CONTRACT:
  The listing endpoints serve TargetDTOs built from the persisted
  snapshot (achieved/rate as cached). The detail and achievement
  endpoints recompute from source and carry a "stale" flag when the
  invoice store was unreachable. Dashboard callers must not treat
  listing numbers as fresher than they are.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/target-engine/target"
)

// =============================================================================
// TARGET TYPES
// =============================================================================

// TargetDTO represents a target in API responses.
type TargetDTO struct {
	ID                    string  `json:"id"`
	CustomerCode          string  `json:"customer_code"`
	CustomerName          string  `json:"customer_name,omitempty"`
	SalesAgentID          string  `json:"sales_agent_id"`
	TargetAmount          string  `json:"target_amount"`
	ClientExistingAverage string  `json:"client_existing_average"`
	PeriodKind            string  `json:"period_kind"`
	IsRecurring           bool    `json:"is_recurring"`
	PeriodStart           *string `json:"period_start,omitempty"`
	PeriodEnd             *string `json:"period_end,omitempty"`
	LegacyDeadline        *string `json:"legacy_deadline,omitempty"`
	Status                string  `json:"status"`
	AchievedAmount        string  `json:"achieved_amount"`
	AchievementRate       string  `json:"achievement_rate"`
	RecordCount           int     `json:"record_count"`
	Notes                 string  `json:"notes,omitempty"`
	CreatedBy             string  `json:"created_by,omitempty"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

// CreateTargetRequest is the body for POST /api/targets.
type CreateTargetRequest struct {
	CustomerCode          string `json:"customer_code"`
	CustomerName          string `json:"customer_name"`
	SalesAgentID          string `json:"sales_agent_id"`
	TargetAmount          string `json:"target_amount"`
	ClientExistingAverage string `json:"client_existing_average"`
	PeriodKind            string `json:"period_kind"`
	IsRecurring           bool   `json:"is_recurring"`
	Notes                 string `json:"notes"`
	CreatedBy             string `json:"created_by"`
}

// UpdateTargetRequest is the body for PUT /api/targets/{id}.
// Absent fields are left unchanged.
type UpdateTargetRequest struct {
	TargetAmount *string `json:"target_amount"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status"`
	IsRecurring  *bool   `json:"is_recurring"`
	PeriodKind   *string `json:"period_kind"`
}

// AchievementDTO is the recomputed progress of one target.
type AchievementDTO struct {
	AchievedAmount  string      `json:"achieved_amount"`
	AchievementRate string      `json:"achievement_rate"`
	RecordCount     int         `json:"record_count"`
	Records         []RecordDTO `json:"records"`
	WindowStart     string      `json:"window_start"`
	WindowEnd       string      `json:"window_end"`
	Stale           bool        `json:"stale"`
}

// RecordDTO is one contributing invoice reference.
type RecordDTO struct {
	InvoiceID string `json:"invoice_id"`
	DocNumber string `json:"doc_number,omitempty"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Kind      string `json:"kind,omitempty"`
}

// =============================================================================
// INVOICE TYPES
// =============================================================================

// RecordInvoiceRequest is the body for POST /api/invoices. VAT fields
// are optional; whichever are present drive the normalizer's fallback
// chain.
type RecordInvoiceRequest struct {
	CustomerCode string            `json:"customer_code"`
	DocNumber    string            `json:"doc_number"`
	Kind         string            `json:"kind"`
	Date         string            `json:"date"` // 2006-01-02
	GrossTotal   string            `json:"gross_total"`
	VATAmount    *string           `json:"vat_amount"`
	VATPercent   *string           `json:"vat_percent"`
	Lines        []InvoiceLineBody `json:"lines"`
}

type InvoiceLineBody struct {
	Quantity         string `json:"quantity"`
	UnitPriceExclVAT string `json:"unit_price_excl_vat"`
}

// =============================================================================
// DASHBOARD TYPES
// =============================================================================

// AggregateViewDTO is the agent/team/customer dashboard shape.
type AggregateViewDTO struct {
	AsOf          string             `json:"as_of"`
	Counts        StatusCountsDTO    `json:"counts"`
	TotalTarget   string             `json:"total_target"`
	TotalAchieved string             `json:"total_achieved"`
	OverallRate   string             `json:"overall_rate"`
	NearDeadline  []TargetSummaryDTO `json:"near_deadline"`
	Top           []TargetSummaryDTO `json:"top"`
	Bottom        []TargetSummaryDTO `json:"bottom"`
	AgentRanking  []AgentRankDTO     `json:"agent_ranking,omitempty"`
}

type StatusCountsDTO struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Expired   int `json:"expired"`
}

type TargetSummaryDTO struct {
	ID              string `json:"id"`
	CustomerCode    string `json:"customer_code"`
	CustomerName    string `json:"customer_name,omitempty"`
	SalesAgentID    string `json:"sales_agent_id"`
	Status          string `json:"status"`
	TargetAmount    string `json:"target_amount"`
	AchievedAmount  string `json:"achieved_amount"`
	AchievementRate string `json:"achievement_rate"`
	PeriodEnd       string `json:"period_end"`
	Stale           bool   `json:"stale,omitempty"`
}

type AgentRankDTO struct {
	AgentID       string `json:"agent_id"`
	AgentName     string `json:"agent_name"`
	TargetCount   int    `json:"target_count"`
	TotalTarget   string `json:"total_target"`
	TotalAchieved string `json:"total_achieved"`
	OverallRate   string `json:"overall_rate"`
}

// =============================================================================
// ADMIN TYPES
// =============================================================================

// SweepResultDTO reports a sweep trigger's outcome.
type SweepResultDTO struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// SweepRunDTO is one audited sweep execution.
type SweepRunDTO struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
}

// AgentDTO and CustomerDTO mirror the directory entities.
type AgentDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ManagerID string `json:"manager_id,omitempty"`
}

type CustomerDTO struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	AssignedAgentID string `json:"assigned_agent_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toTargetDTO(t *target.Target) TargetDTO {
	dto := TargetDTO{
		ID:                    string(t.ID),
		CustomerCode:          string(t.CustomerCode),
		CustomerName:          t.CustomerName,
		SalesAgentID:          string(t.SalesAgentID),
		TargetAmount:          t.TargetAmount.StringFixed(2),
		ClientExistingAverage: t.ClientExistingAverage.StringFixed(2),
		PeriodKind:            string(t.PeriodKind),
		IsRecurring:           t.IsRecurring,
		Status:                string(t.Status),
		AchievedAmount:        t.AchievedAmount.Round(2).StringFixed(2),
		AchievementRate:       t.AchievementRate.StringFixed(2),
		RecordCount:           len(t.ContributingRecords),
		Notes:                 t.Notes,
		CreatedBy:             t.CreatedBy,
		CreatedAt:             t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.Window != nil {
		start := t.Window.Start.Format("2006-01-02")
		end := t.Window.End.Format("2006-01-02")
		dto.PeriodStart = &start
		dto.PeriodEnd = &end
	}
	if t.LegacyDeadline != nil {
		d := t.LegacyDeadline.Format("2006-01-02")
		dto.LegacyDeadline = &d
	}
	return dto
}

func toAchievementDTO(a target.Achievement) AchievementDTO {
	records := make([]RecordDTO, len(a.Records))
	for i, r := range a.Records {
		records[i] = RecordDTO{
			InvoiceID: r.InvoiceID,
			DocNumber: r.DocNumber,
			Amount:    r.Amount.Round(2).StringFixed(2),
			Date:      r.Date.Format("2006-01-02"),
			Kind:      r.Kind,
		}
	}
	return AchievementDTO{
		AchievedAmount:  a.AchievedAmount.StringFixed(2),
		AchievementRate: a.AchievementRate.StringFixed(2),
		RecordCount:     a.RecordCount,
		Records:         records,
		WindowStart:     a.Window.Start.Format("2006-01-02"),
		WindowEnd:       a.Window.End.Format("2006-01-02"),
		Stale:           a.Stale,
	}
}

func toAggregateViewDTO(v *target.AggregateView) AggregateViewDTO {
	dto := AggregateViewDTO{
		AsOf: v.AsOf.UTC().Format(time.RFC3339),
		Counts: StatusCountsDTO{
			Active:    v.Counts.Active,
			Completed: v.Counts.Completed,
			Expired:   v.Counts.Expired,
		},
		TotalTarget:   v.TotalTarget.StringFixed(2),
		TotalAchieved: v.TotalAchieved.StringFixed(2),
		OverallRate:   v.OverallRate.StringFixed(2),
		NearDeadline:  toSummaryDTOs(v.NearDeadline),
		Top:           toSummaryDTOs(v.Top),
		Bottom:        toSummaryDTOs(v.Bottom),
	}
	for _, r := range v.AgentRanking {
		dto.AgentRanking = append(dto.AgentRanking, AgentRankDTO{
			AgentID:       string(r.AgentID),
			AgentName:     r.AgentName,
			TargetCount:   r.TargetCount,
			TotalTarget:   r.TotalTarget.StringFixed(2),
			TotalAchieved: r.TotalAchieved.StringFixed(2),
			OverallRate:   r.OverallRate.StringFixed(2),
		})
	}
	return dto
}

func toSummaryDTOs(summaries []target.TargetSummary) []TargetSummaryDTO {
	out := make([]TargetSummaryDTO, len(summaries))
	for i, s := range summaries {
		out[i] = TargetSummaryDTO{
			ID:              string(s.ID),
			CustomerCode:    string(s.CustomerCode),
			CustomerName:    s.CustomerName,
			SalesAgentID:    string(s.SalesAgentID),
			Status:          string(s.Status),
			TargetAmount:    s.TargetAmount.StringFixed(2),
			AchievedAmount:  s.AchievedAmount.StringFixed(2),
			AchievementRate: s.AchievementRate.StringFixed(2),
			PeriodEnd:       s.PeriodEnd.Format("2006-01-02"),
			Stale:           s.Stale,
		}
	}
	return out
}

// parseDecimal converts a request money string, empty meaning zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
