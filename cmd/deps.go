package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/analysis"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/config"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/imagegen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/leads"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/llm"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/logging"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/notify"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/report"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/store"
)

// deps holds everything a command needs, opened from the resolved config.
type deps struct {
	cfg       *config.Config
	logger    zerolog.Logger
	store     *store.Store
	ledger    *leads.Ledger
	questions []quiz.Question

	logCloser io.Closer
}

// openDeps loads config, logging, the store and the lead ledger. Console
// logging is used when console is set or --verbose is given; otherwise
// logs go to the file in the data directory.
func openDeps(cmd *cobra.Command, console bool) (*deps, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	dataDir, err := store.DataDir()
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, logCloser, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Dir:     dataDir,
		Console: console || verbose,
	})
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, logger: logger, logCloser: logCloser}

	dbPath := cfg.Store.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
	} else {
		err = store.EnsureDir(dbPath)
	}
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	d.store, err = store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	d.ledger, err = leads.Open(cmd.Context(), d.store.SnapshotRepo(), logger)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.questions = quiz.DefaultCatalog()
	if cfg.Catalog != "" {
		d.questions, err = quiz.LoadCatalogFile(cfg.Catalog)
		if err != nil {
			d.Close()
			return nil, err
		}
	}

	logger.Debug().Str("db", dbPath).Str("export_dir", cfg.Share.ExportDir).Msg("dependencies ready")
	return d, nil
}

// Close releases the store and the log file.
func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	if d.logCloser != nil {
		d.logCloser.Close()
	}
}

// machine creates a flow machine over the catalog and ledger.
func (d *deps) machine() *flow.Machine {
	return flow.New(d.questions, d.ledger, d.logger)
}

// generator builds the result aggregator. Without a usable text provider
// the analysis branch always fails, so every run yields the failure result
// instead of refusing to start.
func (d *deps) generator(ctx context.Context) *generation.Aggregator {
	var analyzer generation.Analyzer
	provider, err := llm.NewProvider(ctx, d.cfg.LLM, d.store.EventRepo(), d.logger)
	if err != nil {
		d.logger.Warn().Err(err).Msg("LLM provider not configured, analysis unavailable")
		analyzer = unavailableAnalyzer{err: err}
	} else {
		analyzer = analysis.NewClient(provider, d.cfg.Analysis, d.logger)
	}

	images := imagegen.NewClient(d.cfg.Image, imagegen.WithLogger(d.logger))
	return generation.NewAggregator(analyzer, images, d.logger)
}

// exporterFactory returns a constructor for per-result exporters sharing
// one renderer, notifier and native channel.
func (d *deps) exporterFactory() func() *report.Exporter {
	renderer := report.NewRodRenderer(d.cfg.Render, d.logger)
	opts := []report.Option{
		report.WithNotifier(notify.New(d.cfg.Webhook.URL, d.cfg.Webhook.Timeout, d.logger)),
		report.WithLogger(d.logger),
	}
	if d.cfg.Share.TelegramToken != "" {
		sharer, err := report.NewTelegramSharer(d.cfg.Share.TelegramToken, d.cfg.Share.TelegramChatID)
		if err != nil {
			d.logger.Warn().Err(err).Msg("telegram channel unavailable, using deep link")
		} else {
			opts = append(opts, report.WithSharer(sharer))
		}
	}
	exportCfg := report.Config{
		ExportDir:     d.cfg.Share.ExportDir,
		WhatsAppPhone: d.cfg.Share.WhatsAppPhone,
	}
	return func() *report.Exporter {
		return report.NewExporter(renderer, exportCfg, opts...)
	}
}

var errNoProvider = errors.New("analysis provider unavailable")

type unavailableAnalyzer struct{ err error }

func (u unavailableAnalyzer) Analyze(context.Context, []string) (analysis.Analysis, error) {
	return analysis.Analysis{}, fmt.Errorf("%w: %w", errNoProvider, u.err)
}
