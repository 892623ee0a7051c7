package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"droscher.com/OhioBrewPath/configs"
	"droscher.com/OhioBrewPath/pkg/repository"
	"droscher.com/OhioBrewPath/pkg/store"
)

type ExportCmd struct {
	ConfigFile string `default:".OhioBrewPath.toml" help:"Path to config file" short:"c"`
}

// Run migrates the breweries table and upserts every store record into
// it, keyed on detail_url.
func (e *ExportCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(e.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	collection, err := store.New(conf.Store.Path, logger).Load()
	if err != nil {
		logger.Error("error loading record store", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	if err := repo.UpsertBreweries(ctx, collection.All()); err != nil {
		logger.Error("error exporting records", zap.Error(err))

		return err
	}

	logger.Info("exported records", zap.Int("count", collection.Len()))

	return nil
}
