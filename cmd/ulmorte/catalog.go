package main

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/ulmorte/internal/adapters/catalog"
	"github.com/alejandrodnm/ulmorte/internal/adapters/mortality"
	"github.com/alejandrodnm/ulmorte/internal/adapters/storage"
	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and import reference data (funds, survival table)",
	}
	cmd.AddCommand(newCatalogListCmd(root), newCatalogImportCmd(root))
	return cmd
}

func newCatalogListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List funds, guarantee levels and risk profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := openSources(root.cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			funds, err := src.funds.Funds(cmd.Context())
			if err != nil {
				return err
			}
			profiles := src.catalog.RiskProfiles()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n=== FUNDS (%d) ===\n", len(funds))
			table := tablewriter.NewWriter(out)
			table.Header("Ticker", "Name", "μ", "σ", "S0", "Class", "Suitable")
			for _, f := range funds {
				table.Append(
					f.Ticker,
					truncateName(f.Name, 40),
					fmt.Sprintf("%.2f%%", f.Mu*100),
					fmt.Sprintf("%.2f%%", f.Sigma*100),
					fmt.Sprintf("%.2f", f.S0),
					fmt.Sprintf("%d", f.RiskClass),
					suitability(profiles, f),
				)
			}
			table.Render()

			fmt.Fprintln(out, "\n=== GUARANTEE LEVELS ===")
			for _, l := range src.catalog.GuaranteeLevels() {
				fmt.Fprintf(out, "  %s\n", l.Label)
			}

			fmt.Fprintln(out, "\n=== RISK PROFILES ===")
			pt := tablewriter.NewWriter(out)
			pt.Header("Profile", "μ", "σ")
			for _, p := range profiles {
				pt.Append(p.Label(), fmt.Sprintf("%.2f%%", p.Mu*100), fmt.Sprintf("%.2f%%", p.Sigma*100))
			}
			pt.Render()
			return nil
		},
	}
}

func newCatalogImportCmd(root *rootOptions) *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the YAML fund catalog and the survival CSV into SQLite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			if dsn == "" {
				dsn = cfg.Storage.DSN
			}
			if dsn == "" {
				return fmt.Errorf("catalog import: no DSN (use --dsn or storage.dsn): %w", domain.ErrInvalidParameter)
			}

			cat, err := catalog.Load(cfg.Catalog.FundsPath)
			if err != nil {
				return err
			}
			for _, t := range cat.UnsuitableFunds() {
				slog.Warn("fund outside the limits of its risk class", "ticker", t)
			}

			table, err := mortality.Load(cfg.Catalog.MortalityPath)
			if err != nil {
				return err
			}
			for _, issue := range table.Validate() {
				slog.Warn("survival table anomaly", "issue", issue)
			}

			store, err := storage.NewSQLiteStore(dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			funds, _ := cat.Funds(ctx)
			if err := store.ImportFunds(ctx, funds); err != nil {
				return err
			}
			if err := store.ImportMortality(ctx, table); err != nil {
				return err
			}

			slog.Info("reference data imported",
				"dsn", dsn,
				"funds", len(funds),
				"ages", table.Len(),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "sqlite database path (default storage.dsn)")
	return cmd
}

func suitability(profiles []domain.RiskProfile, f domain.Fund) string {
	p, ok := domain.FindRiskProfile(profiles, f.RiskClass)
	if !ok {
		return "-"
	}
	if p.FundSuitable(f) {
		return "yes"
	}
	return "NO"
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
