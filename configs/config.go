package configs

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/kkyr/fig"
	"go.uber.org/zap"
)

type Source struct {
	ListingURL   string        `default:"https://ohiocraftbeer.org/ohio-breweries/"`
	EntityPrefix string        `default:"https://ohiocraftbeer.org/breweries/"`
	UserAgent    string        `default:"OhioBrewPathUpdater/1.0"`
	FetchDelay   time.Duration `default:"500ms"`
	Timeout      time.Duration `default:"15s"`
	Workers      int           `default:"4"`
}

type Geocoder struct {
	APIKey  string
	URL     string        `default:"https://maps.googleapis.com/maps/api/geocode/json"`
	Delay   time.Duration `default:"200ms"`
	Timeout time.Duration `default:"10s"`
}

type Store struct {
	Path string `default:"breweries.json"`
}

type DB struct {
	Host               string
	Port               int    `default:"5432"`
	User               string `default:"postgres"`
	Password           string
	Database           string `default:"postgres"`
	MaxIdleConnections int    `default:"10"`
	MaxOpenConnections int    `default:"10"`
}

type Config struct {
	Source   Source
	Geocoder Geocoder
	Store    Store
	DB       DB
}

const envPrefix = "OHIOBREWPATH" // env prefix for env vars

var ErrConfiguration = errors.New("configuration error")

func GetConfig(configFileName string, logger *zap.Logger) (*Config, error) {
	config := Config{}
	homeDir, _ := os.UserHomeDir()

	logger.Info("Loading config", zap.String("file", configFileName))

	err := fig.Load(&config, fig.File(configFileName), fig.Dirs(".", homeDir), fig.UseEnv(envPrefix))
	if err != nil {
		if strings.Contains(err.Error(), "file not found") {
			logger.Warn("Could not find config file", zap.String("file", configFileName))

			err = fig.Load(&config, fig.IgnoreFile(), fig.UseEnv(envPrefix))
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	return &config, nil
}
