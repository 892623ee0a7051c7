package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"droscher.com/OhioBrewPath/configs"
	"droscher.com/OhioBrewPath/pkg/geo"
	"droscher.com/OhioBrewPath/pkg/geocode"
	"droscher.com/OhioBrewPath/pkg/pipeline"
	"droscher.com/OhioBrewPath/pkg/scraper"
	"droscher.com/OhioBrewPath/pkg/store"
)

type UpdateCmd struct {
	ConfigFile string `default:".OhioBrewPath.toml" help:"Path to config file" short:"c"`
}

func (u *UpdateCmd) Run(_ *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(u.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	geocoder, err := geocode.NewClient(conf.Geocoder, logger)
	if err != nil {
		logger.Error("error creating geocode client", zap.Error(err))

		return err
	}

	tables, err := geo.DefaultTables()
	if err != nil {
		return err
	}

	enricher := pipeline.NewEnricher(
		store.New(conf.Store.Path, logger),
		scraper.New(conf.Source, logger),
		geocoder,
		geo.NewClassifier(tables),
		geo.NewNormalizer(tables),
		conf.Source.Workers,
		logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := enricher.Run(ctx)
	if summary != nil {
		summary.Log(logger)
	}

	if err != nil {
		logger.Error("update run failed", zap.Error(err))

		return err
	}

	return nil
}
