package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hrcore/internal/config"
	"hrcore/internal/generation"
	"hrcore/internal/logging"
	"hrcore/internal/memo"
	"hrcore/internal/metrics"
	"hrcore/internal/roster"
	"hrcore/internal/rowstore"
	"hrcore/internal/service"
	"hrcore/pkg/domain"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath     string
	cfg            config.Config
	logger         *zap.Logger
	recorder       metrics.Recorder
	metricsHandler http.Handler
	store          *rowstore.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "hrcore",
		Short:         "Org chart resolution and generation memo for HR rosters",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (HRCORE_* env vars override it)")
	root.AddCommand(
		newOrgChartCmd(a),
		newMemoCmd(a),
		newCoverageCmd(a),
		newGenerateCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	rec, handler, err := metrics.Open(cfg.Metrics)
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.recorder, a.metricsHandler = cfg, logger, rec, handler
	return nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// openRows opens the configured row store, instrumented with the app's
// recorder.
func (a *app) openRows(ctx context.Context) (domain.RowStore, error) {
	s, err := rowstore.Open(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.store = s
	a.logger.Debug("row store opened", zap.String("driver", s.Driver()))
	return rowstore.Instrument(s, a.recorder), nil
}

// newService wires the memo store, the roster normalizer and, when an API
// key is configured, the generation workflow over rows.
func (a *app) newService(rows domain.RowStore) (*service.Service, error) {
	memoStore := memo.New(rows,
		memo.WithTable(a.cfg.Tables.Memo),
		memo.WithLogger(a.logger),
		memo.WithMetrics(a.recorder),
	)
	columns := make(roster.Columns, len(a.cfg.Roster.Columns))
	for field, aliases := range a.cfg.Roster.Columns {
		columns[roster.Field(field)] = aliases
	}
	opts := []service.Option{
		service.WithNormalizer(roster.NewNormalizer(roster.WithColumns(columns), roster.WithTable(a.cfg.Tables.Roster))),
		service.WithRosterTable(a.cfg.Tables.Roster),
		service.WithMetrics(a.recorder),
		service.WithLogger(a.logger),
	}
	if a.cfg.OpenAI.APIKey != "" {
		gen, err := generation.NewOpenAIGenerator(a.cfg.OpenAI, a.logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithWorkflow(generation.NewWorkflow(memoStore, gen,
			generation.WithLogger(a.logger),
			generation.WithMetrics(a.recorder),
		)))
	}
	return service.New(rows, memoStore, opts...), nil
}

// openService is openRows followed by newService.
func (a *app) openService(ctx context.Context) (*service.Service, error) {
	rows, err := a.openRows(ctx)
	if err != nil {
		return nil, err
	}
	return a.newService(rows)
}
