package main

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/ulmorte/internal/application/engine"
	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/alejandrodnm/ulmorte/internal/montecarlo"
	"github.com/spf13/cobra"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	flags := &contractFlags{}
	var levelFlags []string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run one independent simulation per guarantee level and compare the payouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			flags.apply(cmd.Flags(), cfg)
			if cmd.Flags().Changed("levels") {
				cfg.Simulation.CompareLevels = levelFlags
			}

			levels, err := cfg.CompareLevels()
			if err != nil {
				return err
			}
			if len(levels) == 0 {
				return fmt.Errorf("no guarantee levels to compare: %w", domain.ErrInvalidParameter)
			}

			src, err := openSources(cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			offered := src.catalog.GuaranteeLevels()
			for _, l := range levels {
				if _, ok := domain.FindGuaranteeLevel(offered, l); !ok {
					return fmt.Errorf("guarantee %s not offered: %w", domain.LevelLabel(l), domain.ErrInvalidParameter)
				}
			}

			c, provider, err := flags.prepare(cfg, src)
			if err != nil {
				return err
			}
			// El nivel del contrato no participa: cada nivel comparado lo sustituye.
			if err := c.WithGuarantee(levels[0]).Validate(offered); err != nil {
				return err
			}

			seed := seedFor(cfg)
			eng := engine.New(engineConfig(cfg), provider)

			ctx := cmd.Context()
			cmp, err := eng.Compare(ctx, c, levels, montecarlo.NewRand(seed))
			if err != nil {
				return err
			}

			if withSurvival, err := engine.AttachComparisonSurvival(ctx, cmp, src.mortality); err != nil {
				slog.Warn("survival probability unavailable", "err", err)
			} else {
				cmp = withSurvival
			}

			for _, r := range reporters(cfg.Report, cmd.OutOrStdout()) {
				if err := r.ReportComparison(ctx, cmp); err != nil {
					return fmt.Errorf("report: %w", err)
				}
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&levelFlags, "levels", nil, "guarantee levels to compare, e.g. 80%,90%,100%")
	return cmd
}
