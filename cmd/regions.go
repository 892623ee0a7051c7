package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"droscher.com/OhioBrewPath/configs"
	"droscher.com/OhioBrewPath/pkg/geo"
	"droscher.com/OhioBrewPath/pkg/pipeline"
	"droscher.com/OhioBrewPath/pkg/scraper"
	"droscher.com/OhioBrewPath/pkg/store"
)

type RegionsCmd struct {
	ConfigFile string `default:".OhioBrewPath.toml" help:"Path to config file" short:"c"`
}

// Run normalizes every record's region label and revalidates it against
// the city classification. No network calls, so no geocoder is wired.
func (r *RegionsCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(r.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	tables, err := geo.DefaultTables()
	if err != nil {
		return err
	}

	enricher := pipeline.NewEnricher(
		store.New(conf.Store.Path, logger),
		scraper.New(conf.Source, logger),
		nil,
		geo.NewClassifier(tables),
		geo.NewNormalizer(tables),
		conf.Source.Workers,
		logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := enricher.NormalizeRegions(ctx)
	if summary != nil {
		summary.Log(logger)
	}

	if err != nil {
		logger.Error("regions run failed", zap.Error(err))

		return err
	}

	return nil
}
