// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type (
	// Properties is the full process configuration.
	Properties struct {
		HTTP  HTTPProperties  `envPrefix:"HTTP_"`
		Mongo MongoProperties `envPrefix:"MONGO_"`
		S3    S3Properties    `envPrefix:"S3_"`
		Auth  AuthProperties  `envPrefix:"AUTH_"`
		SSO   SSOProperties   `envPrefix:"SSO_"`
	}

	HTTPProperties struct {
		Port           string   `env:"PORT" envDefault:"4000"`
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	}

	MongoProperties struct {
		URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
		Database string `env:"DATABASE" envDefault:"eventfeed"`
	}

	// S3Properties configures the media object store. An empty Host leaves
	// the process on the in-memory media store.
	S3Properties struct {
		Host      string `env:"HOST"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"eventfeed-media"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"true"`
	}

	AuthProperties struct {
		Secret   string        `env:"SECRET,required"`
		TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	}

	// SSOProperties configures the optional OIDC login. SSO is enabled only
	// when Issuer is set.
	SSOProperties struct {
		Issuer       string `env:"ISSUER"`
		ClientID     string `env:"CLIENT_ID"`
		ClientSecret string `env:"CLIENT_SECRET"`
		RedirectURL  string `env:"REDIRECT_URL"`
	}
)

// Read parses the configuration from the environment.
func Read() (*Properties, error) {
	p := &Properties{}
	if err := env.Parse(p); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return p, nil
}
