package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	APP struct {
		Name  string `mapstructure:"NAME"`
		Port  string `mapstructure:"PORT"`
		State string `mapstructure:"STATE"`
	}

	DATABASE struct {
		Postgres struct {
			DSN string `mapstructure:"DSN"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
		}
	}

	APP_SECRET struct {
		APIToken string `mapstructure:"API_TOKEN"`
	}

	KONSOLE struct {
		// BaseURL der Warteschlangen-API, z.B. http://localhost:8080
		BaseURL string `mapstructure:"BASE_URL"`
		// DataDir für den lokalen Pebble-Store (Filterkriterien).
		DataDir string `mapstructure:"DATA_DIR"`
		// PollIntervalMS: Abstand zwischen zwei Status-Abfragen eines Bulk-Jobs.
		PollIntervalMS int `mapstructure:"POLL_INTERVAL_MS"`
		// OperatorID: "me"-Auflösung für das Assignee-Facet.
		OperatorID string `mapstructure:"OPERATOR_ID"`
	}

	MAILTRAP struct {
		Sandbox struct {
			SandboxHost   string `mapstructure:"SANDBOX_HOST"`
			SandboxAPI    string `mapstructure:"SANDBOX_API"`
			SandboxURL    string `mapstructure:"SANDBOX_URL"`
			SandboxDomain string `mapstructure:"SANDBOX_DOMAIN"`
		}
		API struct {
			APIToken         string `mapstructure:"API_TOKEN"`
			APIHost          string `mapstructure:"API_HOST"`
			MailtrapTokenAPI string `mapstructure:"MAILTRAP_TOKEN_API"`
			MailtrapURL      string `mapstructure:"MAILTRAP_URL"`
			MailtrapDomain   string `mapstructure:"MAILTRAP_DOMAIN"`
		}
	}
}

// PollInterval liefert das Poll-Intervall als Duration; Default 2s.
func (c *AppConfig) PollInterval() time.Duration {
	if c.KONSOLE.PollIntervalMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.KONSOLE.PollIntervalMS) * time.Millisecond
}

func LoadConfig() *AppConfig {
	viper.SetConfigName("application")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Error().Err(err).Msg("Fehler beim Lesen der Konfigurationsdatei")
		return nil
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		log.Error().Err(err).Msg("Fehler beim Entpacken der Konfiguration")
		return nil
	}

	if config.APP.Port == "" {
		config.APP.Port = "8080"
	}

	if config.DATABASE.Postgres.DSN == "" {
		log.Error().Msg("Datenbank-DSN ist nicht konfiguriert")
		return nil
	}

	if config.KONSOLE.BaseURL == "" {
		config.KONSOLE.BaseURL = "http://localhost:" + config.APP.Port
	}

	if config.KONSOLE.DataDir == "" {
		config.KONSOLE.DataDir = "./data/konsole"
	}

	log.Info().Msg("Konfiguration geladen...")
	return &config
}
