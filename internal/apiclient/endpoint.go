package apiclient

import (
	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/config"
	"github.com/spec-kit/barber-dashboard/internal/credential"
)

// ResolveBaseURL picks the upstream API endpoint. First match wins:
//
//  1. a stored developer override, unless the environment is production
//     and overrides are not explicitly allowed;
//  2. the local endpoint when running in the local environment;
//  3. the configured production endpoint;
//  4. the hardcoded production default.
func ResolveBaseURL(cfg *config.Config, override credential.Store, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}

	if override != nil {
		if saved, err := override.Read(); err == nil && saved != "" {
			if cfg.App.Env != config.EnvProduction || cfg.API.AllowOverride {
				logger.Info("using stored API endpoint override", zap.String("url", saved))
				return saved
			}
			logger.Warn("ignoring stored API endpoint override in production",
				zap.String("url", saved))
		}
	}

	if cfg.App.Env == config.EnvLocal {
		if cfg.API.LocalURL != "" {
			return cfg.API.LocalURL
		}
		return config.DefaultLocalURL
	}

	if cfg.API.ProductionURL != "" {
		return cfg.API.ProductionURL
	}
	return config.DefaultProductionURL
}
