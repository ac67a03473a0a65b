/*
seed.go - Demo dataset loader for development and demonstrations

PURPOSE:
  Populates the database with a realistic dataset: a manager, two
  agents, three customers, a mix of recurring and non-recurring
  targets, and invoices exercising every normalization strategy.

HOW SEEDING WORKS:
 1. Upsert agents (one manager, two reports)
 2. Upsert customers assigned to the agents
 3. Create targets via the lifecycle manager (real validation path)
 4. Insert invoices and fire the progress side-channel, exactly the
    way the surrounding system would

NOTE:
  Seeding inserts, it does not reset. Only use against development
  databases.

SEE ALSO:
  - handlers.go: LoadSeed handler
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/target-engine/target"
)

// LoadDemoData seeds agents, customers, targets and invoices.
func LoadDemoData(ctx context.Context, h *Handler) error {
	agents := []target.Agent{
		{ID: "mgr-helena", Name: "Helena Voss", Role: target.RoleManager},
		{ID: "agt-marco", Name: "Marco Lindt", Role: target.RoleAgent, ManagerID: "mgr-helena"},
		{ID: "agt-petra", Name: "Petra Kaufmann", Role: target.RoleAgent, ManagerID: "mgr-helena"},
	}
	for _, a := range agents {
		if err := h.Store.PutAgent(ctx, a); err != nil {
			return fmt.Errorf("seed agent %s: %w", a.ID, err)
		}
	}

	customers := []target.Customer{
		{Code: "C-1001", Name: "Nordwind Logistik GmbH", AssignedAgentID: "agt-marco"},
		{Code: "C-1002", Name: "Bergmann & Söhne KG", AssignedAgentID: "agt-marco"},
		{Code: "C-2001", Name: "Quellwasser AG", AssignedAgentID: "agt-petra"},
	}
	for _, c := range customers {
		if err := h.Store.PutCustomer(ctx, c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.Code, err)
		}
	}

	targets := []target.CreateInput{
		{
			CustomerCode: "C-1001", CustomerName: "Nordwind Logistik GmbH",
			SalesAgentID: "agt-marco", TargetAmount: decimal.NewFromInt(25000),
			ClientExistingAverage: decimal.NewFromInt(8000),
			PeriodKind:            target.PeriodMonthly, IsRecurring: true,
			Notes: "Core logistics account", CreatedBy: "seed",
		},
		{
			CustomerCode: "C-1002", CustomerName: "Bergmann & Söhne KG",
			SalesAgentID: "agt-marco", TargetAmount: decimal.NewFromInt(60000),
			PeriodKind: target.PeriodQuarterly, IsRecurring: false,
			Notes: "Q push after trade fair", CreatedBy: "seed",
		},
		{
			CustomerCode: "C-2001", CustomerName: "Quellwasser AG",
			SalesAgentID: "agt-petra", TargetAmount: decimal.NewFromInt(120000),
			PeriodKind: target.PeriodYearly, IsRecurring: true,
			CreatedBy: "seed",
		},
	}
	for _, in := range targets {
		if _, err := h.Manager.Create(ctx, in); err != nil {
			return fmt.Errorf("seed target for %s: %w", in.CustomerCode, err)
		}
	}

	// Invoices covering each normalization strategy.
	now := time.Now()
	vat48 := decimal.NewFromInt(48)
	pct20 := decimal.NewFromInt(20)
	invoices := []target.Invoice{
		{
			// Explicit VAT amount: 288 - 48 = 240 net
			ID: uuid.NewString(), CustomerCode: "C-1001", DocNumber: "INV-7001",
			Kind: "invoice", Date: now.AddDate(0, 0, -2),
			GrossTotal: decimal.NewFromInt(288), VATAmount: &vat48,
		},
		{
			// Explicit VAT percent: 1200 / 1.2 = 1000 net
			ID: uuid.NewString(), CustomerCode: "C-1001", DocNumber: "INV-7002",
			Kind: "invoice", Date: now.AddDate(0, 0, -1),
			GrossTotal: decimal.NewFromInt(1200), VATPercent: &pct20,
		},
		{
			// Line reconstruction: 3 x 150 + 2 x 75 = 600 net
			ID: uuid.NewString(), CustomerCode: "C-1002", DocNumber: "INV-7003",
			Kind: "invoice", Date: now.AddDate(0, 0, -5),
			GrossTotal: decimal.NewFromInt(714),
			Lines: []target.InvoiceLine{
				{Quantity: decimal.NewFromInt(3), UnitPriceExclVAT: decimal.NewFromInt(150)},
				{Quantity: decimal.NewFromInt(2), UnitPriceExclVAT: decimal.NewFromInt(75)},
			},
		},
		{
			// No tax metadata: assumed 20% default, 600 / 1.2 = 500 net
			ID: uuid.NewString(), CustomerCode: "C-2001", DocNumber: "INV-7004",
			Kind: "invoice", Date: now.AddDate(0, 0, -10),
			GrossTotal: decimal.NewFromInt(600),
		},
	}
	for _, inv := range invoices {
		if err := h.Store.InsertInvoice(ctx, inv); err != nil {
			return fmt.Errorf("seed invoice %s: %w", inv.DocNumber, err)
		}
		h.Manager.RecordProgress(ctx, inv.CustomerCode, inv)
	}

	return nil
}
