package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// AppConfig is loaded from environment variables with github.com/caarlos0/env.
// An optional .env file is read by main before parsing.
type AppConfig struct {
	// ServeAddr is the listen address of the HTTP engine.
	ServeAddr string `env:"SERVE_ADDR" envDefault:":8080"`

	// AdminKey guards access-level mutations and resolution on behalf of
	// arbitrary clients. Empty disables those routes.
	AdminKey string `env:"ADMIN_KEY"`

	Database DatabaseConfig `envPrefix:"DB_"`
	Remote   RemoteConfig   `envPrefix:"MBO_"`
	Portal   PortalConfig   `envPrefix:"PORTAL_"`
}

type DatabaseConfig struct {
	// DriverType is a gorm dialect name, mysql in every deployment so far.
	DriverType string `env:"DRIVER" envDefault:"mysql"`

	// DriverArgs is the DSN passed to the driver, e.g.
	// "user:pass@tcp(127.0.0.1:3306)/membergate?charset=utf8mb4&parseTime=True".
	DriverArgs string `env:"DSN"`
}

// RemoteConfig locates the membership platform API.
type RemoteConfig struct {
	BaseURL string        `env:"BASE_URL"`
	SiteID  string        `env:"SITE_ID"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// PortalConfig carries server-side defaults for the content portal's
// polling loops. Intervals are fixed by contract; the caps bound total
// request volume per page view, they do not model session lifetime.
type PortalConfig struct {
	LoggedInPollInterval time.Duration `env:"LOGGED_IN_POLL_INTERVAL" envDefault:"60s"`
	AccessPollInterval   time.Duration `env:"ACCESS_POLL_INTERVAL" envDefault:"3600s"`
	LoggedInPollCap      int           `env:"LOGGED_IN_POLL_CAP" envDefault:"1000"`
	AccessPollCap        int           `env:"ACCESS_POLL_CAP" envDefault:"500"`
}

func Parse() (*AppConfig, error) {
	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
