package main

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/ulmorte/config"
	"github.com/alejandrodnm/ulmorte/internal/application/engine"
	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/alejandrodnm/ulmorte/internal/montecarlo"
	"github.com/alejandrodnm/ulmorte/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// contractFlags sobreescriben los valores del contrato de la config.
type contractFlags struct {
	entryAge     int
	targetAge    int
	contribution float64
	guarantee    string
	annualCost   float64
	entryCost    float64
	paths        int
	seed         uint64
	profile      int
	funds        []string
	compact      bool
	chart        string
}

func (f *contractFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.entryAge, "entry-age", 0, "age at contract start")
	fs.IntVar(&f.targetAge, "target-age", 0, "planned age of death")
	fs.Float64Var(&f.contribution, "contribution", 0, "single premium in EUR")
	fs.StringVar(&f.guarantee, "guarantee", "", "guarantee level: 80%|90%|100%")
	fs.Float64Var(&f.annualCost, "cost", 0, "annual management cost in % (0-5)")
	fs.Float64Var(&f.entryCost, "entry-cost", 0, "entry cost on the premium in %")
	fs.IntVar(&f.paths, "paths", 0, "number of Monte Carlo paths")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed (0 = clock seed, logged)")
	fs.IntVar(&f.profile, "profile", 0, "simulate a MiFID risk profile 1-5 instead of the allocation")
	fs.StringArrayVar(&f.funds, "fund", nil, "allocation entry TICKER=WEIGHT (repeatable, replaces config allocation)")
	fs.BoolVar(&f.compact, "compact", false, "one-line output")
	fs.StringVar(&f.chart, "chart", "", "write a PNG chart to this path")
}

// apply vuelca en cfg los flags que el usuario pasó explícitamente.
func (f *contractFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("entry-age") {
		cfg.Contract.EntryAge = f.entryAge
	}
	if fs.Changed("target-age") {
		cfg.Contract.TargetAge = f.targetAge
	}
	if fs.Changed("contribution") {
		cfg.Contract.Contribution = f.contribution
	}
	if fs.Changed("guarantee") {
		cfg.Contract.Guarantee = f.guarantee
	}
	if fs.Changed("cost") {
		cfg.Contract.AnnualCostPct = f.annualCost
	}
	if fs.Changed("entry-cost") {
		cfg.Contract.EntryCostPct = f.entryCost
	}
	if fs.Changed("paths") {
		cfg.Simulation.Paths = f.paths
	}
	if fs.Changed("seed") {
		cfg.Simulation.Seed = f.seed
	}
	if fs.Changed("profile") {
		cfg.Contract.RiskProfile = f.profile
	}
	if fs.Changed("compact") {
		cfg.Report.Compact = f.compact
	}
	if fs.Changed("chart") {
		cfg.Report.ChartPath = f.chart
	}
}

// prepare construye el contrato y el proveedor de fondos del run.
func (f *contractFlags) prepare(cfg *config.Config, src *sources) (domain.Contract, ports.FundProvider, error) {
	c, err := cfg.ToContract()
	if err != nil {
		return domain.Contract{}, nil, err
	}
	if len(f.funds) > 0 {
		alloc, err := parseAllocation(f.funds)
		if err != nil {
			return domain.Contract{}, nil, err
		}
		c.Allocation = alloc
	}

	var provider ports.FundProvider = src.funds
	if cfg.Contract.RiskProfile > 0 {
		c, provider, err = src.withProfile(c, cfg.Contract.RiskProfile)
		if err != nil {
			return domain.Contract{}, nil, err
		}
	}
	return c, provider, nil
}

// seedFor devuelve la semilla configurada o una por reloj, siempre logueada.
func seedFor(cfg *config.Config) uint64 {
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = montecarlo.TimeSeed()
	}
	slog.Info("random seed", "seed", seed)
	return seed
}

func engineConfig(cfg *config.Config) engine.Config {
	ecfg := engine.DefaultConfig()
	if cfg.Simulation.RiskFreeRate != nil {
		ecfg.RiskFreeRate = *cfg.Simulation.RiskFreeRate
	}
	ecfg.FanStepDays = cfg.Simulation.FanStepDays
	return ecfg
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	flags := &contractFlags{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the death benefit payout for one contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			flags.apply(cmd.Flags(), cfg)

			src, err := openSources(cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			c, provider, err := flags.prepare(cfg, src)
			if err != nil {
				return err
			}
			if err := c.Validate(src.catalog.GuaranteeLevels()); err != nil {
				return err
			}

			seed := seedFor(cfg)
			eng := engine.New(engineConfig(cfg), provider)

			ctx := cmd.Context()
			result, err := eng.Run(ctx, c, montecarlo.NewRand(seed))
			if err != nil {
				return err
			}
			result.Seed = seed

			if withSurvival, err := engine.AttachSurvival(ctx, result, src.mortality); err != nil {
				slog.Warn("survival probability unavailable", "err", err)
			} else {
				result = withSurvival
			}

			for _, r := range reporters(cfg.Report, cmd.OutOrStdout()) {
				if err := r.Report(ctx, result); err != nil {
					return fmt.Errorf("report: %w", err)
				}
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
