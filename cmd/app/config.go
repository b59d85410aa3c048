package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"vehicleregistry/internal/remote"
	"vehicleregistry/internal/store"
	"vehicleregistry/internal/vault"
)

type config struct {
	ServerURL string
	Timeout   time.Duration
	LogLevel  string
	VaultPath string
}

// loadConfig reads ~/.vehicleregistry/config.yaml when present; every key
// has a default and a VEHICLEREGISTRY_* environment override.
func loadConfig() (config, error) {
	v := viper.New()
	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("timeout", "20s")
	v.SetDefault("log_level", "warning")

	home, err := os.UserHomeDir()
	if err != nil {
		return config{}, err
	}
	v.SetDefault("vault_path", filepath.Join(home, ".vehicleregistry", "credentials.json"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".vehicleregistry"))
	v.AddConfigPath(".")
	v.SetEnvPrefix("vehicleregistry")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, err
		}
	}

	return config{
		ServerURL: v.GetString("server_url"),
		Timeout:   v.GetDuration("timeout"),
		LogLevel:  v.GetString("log_level"),
		VaultPath: v.GetString("vault_path"),
	}, nil
}

// app bundles the wired stores for a single CLI invocation.
type app struct {
	cfg     config
	log     *logrus.Logger
	session *store.Session
	catalog *store.Catalog
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	tokenVault := vault.NewFileVault(cfg.VaultPath)
	client := remote.NewClient(cfg.ServerURL, cfg.Timeout, tokenVault, log)

	return &app{
		cfg:     cfg,
		log:     log,
		session: store.NewSession(client, tokenVault, log),
		catalog: store.NewCatalog(client, log),
	}, nil
}
