package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/barber-dashboard/internal/config"
	"github.com/spec-kit/barber-dashboard/internal/credential"
)

// Probe checks backend liveness with a short timeout so a dead backend
// never blocks the UI.
type Probe struct {
	http       *http.Client
	group      singleflight.Group
	candidates []string
	override   credential.Store
	log        *zap.Logger
}

// NewProbe builds a probe over the configured candidate endpoints, in
// order of preference.
func NewProbe(cfg *config.Config, override credential.Store, logger *zap.Logger) *Probe {
	if logger == nil {
		logger = zap.NewNop()
	}

	var candidates []string
	if cfg.App.Env == config.EnvLocal && cfg.API.LocalURL != "" {
		candidates = append(candidates, cfg.API.LocalURL)
	}
	if cfg.API.ProductionURL != "" {
		candidates = append(candidates, cfg.API.ProductionURL)
	}
	candidates = append(candidates, config.DefaultProductionURL)

	return &Probe{
		http:       &http.Client{Timeout: cfg.API.ProbeTimeout()},
		candidates: candidates,
		override:   override,
		log:        logger,
	}
}

// Check reports whether the backend at rawURL answers its health endpoint.
func (p *Probe) Check(ctx context.Context, rawURL string) bool {
	// Cache buster mirrors the client's GET behavior.
	target := fmt.Sprintf("%s/health?_t=%d", rawURL, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		p.log.Debug("backend probe failed", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true
	}
	p.log.Warn("backend probe unhealthy",
		zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
	return false
}

// DetectBest walks the candidate endpoints and returns the first healthy
// one, persisting it as the stored override for future client
// construction. Concurrent callers share one probe pass.
func (p *Probe) DetectBest(ctx context.Context) (string, bool) {
	result, err, _ := p.group.Do("detect", func() (any, error) {
		for _, candidate := range p.candidates {
			if !p.Check(ctx, candidate) {
				continue
			}
			if p.override != nil {
				if err := p.override.Write(candidate, 0); err != nil {
					p.log.Debug("persisting endpoint override failed", zap.Error(err))
				}
			}
			return candidate, nil
		}
		return "", nil
	})
	if err != nil {
		return "", false
	}
	best := result.(string)
	return best, best != ""
}
