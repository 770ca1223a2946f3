package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/leekchan/accounting"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// Console implementa ports.Reporter escribiendo tablas en texto.
type Console struct {
	out     io.Writer
	compact bool
	money   accounting.Accounting
}

// NewConsoleWriter crea un reporter que escribe en w (stdout del comando,
// buffers en tests).
func NewConsoleWriter(w io.Writer, currency string, compact bool) *Console {
	if currency == "" {
		currency = "€"
	}
	return &Console{
		out:     w,
		compact: compact,
		money: accounting.Accounting{
			Symbol:    currency,
			Precision: 2,
			Thousand:  ".",
			Decimal:   ",",
			Format:    "%v %s",
		},
	}
}

// Report imprime el resultado de una simulación.
func (c *Console) Report(_ context.Context, res domain.RunResult) error {
	if c.compact {
		c.printCompact(res)
		return nil
	}

	c.printHeader(res)
	c.printPayout(res)
	c.printCosts(res)
	return nil
}

// ReportComparison imprime la tabla comparativa por nivel de garantía.
func (c *Console) ReportComparison(_ context.Context, cmp domain.Comparison) error {
	entries := cmp.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no guarantee levels simulated")
		return nil
	}

	first := entries[0].Result
	days, draws := first.Horizon()
	fmt.Fprintf(c.out, "\n=== GUARANTEE COMPARISON (run %s) ===\n", shortID(cmp.RunID))
	fmt.Fprintf(c.out, "  Age %d → %d | contribution %s | %d paths × %d days\n",
		first.Contract.EntryAge, first.Contract.TargetAge,
		c.fmtMoney(first.Contract.Contribution), draws, days)
	if cmp.HasSurvival {
		fmt.Fprintf(c.out, "  P(reach %d): %.2f%%\n", first.Contract.TargetAge, cmp.Survival*100)
	}
	fmt.Fprintln(c.out)

	table := tablewriter.NewWriter(c.out)
	table.Header("Guarantee", "Guaranteed", "Mean", "Min", "Max", "VaR 95%", "CVaR", "Cost/yr", "Floor hit")
	for _, e := range entries {
		s := e.Result.Stats
		table.Append(
			domain.LevelLabel(e.Level),
			c.fmtMoney(s.Guaranteed),
			c.fmtMoney(s.Mean),
			c.fmtMoney(s.Min),
			c.fmtMoney(s.Max),
			c.fmtMoney(s.VaR),
			c.fmtMoney(s.CVaR),
			fmt.Sprintf("%.2f%%", e.Result.TotalCostPct),
			fmt.Sprintf("%.0f%%", s.FloorHitRate()*100),
		)
	}
	table.Render()

	fmt.Fprintln(c.out, "  Cost/yr = management + guarantee | Floor hit = draws paid by the guarantee")
	fmt.Fprintln(c.out, "  Each level is an independent simulation")
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(res domain.RunResult) {
	s := res.Stats
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %d→%d G:%s mean:%s VaR:%s CVaR:%s cost:%.2f%%",
		shortID(res.RunID),
		c.fmtMoney(res.Contract.Contribution),
		res.Contract.EntryAge, res.Contract.TargetAge,
		domain.LevelLabel(res.Contract.Guarantee),
		c.fmtMoney(s.Mean), c.fmtMoney(s.VaR), c.fmtMoney(s.CVaR),
		res.TotalCostPct,
	)
	if res.HasSurvival {
		fmt.Fprintf(&sb, " surv:%.2f%%", res.Survival*100)
	}
	fmt.Fprintln(c.out, sb.String())
}

func (c *Console) printHeader(res domain.RunResult) {
	ct := res.Contract
	days, draws := res.Horizon()

	fmt.Fprintf(c.out, "\n=== DEATH BENEFIT SIMULATION (run %s, seed %d) ===\n", shortID(res.RunID), res.Seed)
	fmt.Fprintf(c.out, "  Entry age:       %d\n", ct.EntryAge)
	fmt.Fprintf(c.out, "  Target age:      %d (%d years, %d trading days)\n", ct.TargetAge, int(ct.Years()), days)
	fmt.Fprintf(c.out, "  Contribution:    %s\n", c.fmtMoney(ct.Contribution))
	if ct.EntryCostPct > 0 {
		fmt.Fprintf(c.out, "  Net invested:    %s (entry cost %.2f%%)\n", c.fmtMoney(ct.NetContribution()), ct.EntryCostPct)
	}
	fmt.Fprintf(c.out, "  Guarantee:       %s\n", domain.LevelLabel(ct.Guarantee))
	fmt.Fprintf(c.out, "  Monte Carlo:     %d paths\n", draws)
	fmt.Fprintf(c.out, "  Volatility:      %.2f%% (weighted, funds uncorrelated)\n", res.Sigma*100)
	if res.HasSurvival {
		fmt.Fprintf(c.out, "  P(reach %d):     %.2f%%\n", ct.TargetAge, res.Survival*100)
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Fund", "Name", "Weight", "μ", "σ", "S0")
	for _, p := range res.Positions {
		table.Append(
			p.Fund.Ticker,
			truncate(p.Fund.Name, 36),
			fmt.Sprintf("%.0f%%", p.Weight),
			fmt.Sprintf("%.2f%%", p.Fund.Mu*100),
			fmt.Sprintf("%.2f%%", p.Fund.Sigma*100),
			fmt.Sprintf("%.2f", p.Fund.S0),
		)
	}
	table.Render()
}

func (c *Console) printPayout(res domain.RunResult) {
	s := res.Stats
	fmt.Fprintf(c.out, "\n--- Payout at age %d ---\n", res.Contract.TargetAge)

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Guaranteed", c.fmtMoney(s.Guaranteed))
	table.Append("Mean", c.fmtMoney(s.Mean))
	table.Append("Min", c.fmtMoney(s.Min))
	table.Append("Max", c.fmtMoney(s.Max))
	table.Append("VaR 95% (5% quantile)", c.fmtMoney(s.VaR))
	table.Append("CVaR (mean below VaR)", c.fmtMoney(s.CVaR))
	table.Append("Floor hit rate", fmt.Sprintf("%.1f%%", s.FloorHitRate()*100))
	table.Render()

	fmt.Fprintln(c.out, "  The benefit is guaranteed up to the planned age; afterwards the fund stays invested.")
}

func (c *Console) printCosts(res domain.RunResult) {
	fmt.Fprintf(c.out, "\n--- Annual costs ---\n")
	fmt.Fprintf(c.out, "  Management:      %.2f%%\n", res.Contract.AnnualCostPct)
	fmt.Fprintf(c.out, "  Guarantee:       %.2f%% (put %s)\n", res.Guarantee.AnnualPct, c.fmtMoney(res.Guarantee.PutPrice))
	fmt.Fprintf(c.out, "  Total:           %.2f%%\n\n", res.TotalCostPct)
}

// fmtMoney formatea v redondeado a céntimos.
func (c *Console) fmtMoney(v float64) string {
	return c.money.FormatMoney(decimal.NewFromFloat(v).Round(2))
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
