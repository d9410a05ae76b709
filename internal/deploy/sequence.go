package deploy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner starts compose services. Implementations shell out to
// `docker compose up -d`; tests inject fakes.
type Runner interface {
	Start(ctx context.Context, services []string) error
}

// Prober checks whether one service is healthy right now.
type Prober interface {
	Probe(ctx context.Context, spec ServiceSpec) error
}

// Sequencer starts services wave by wave: every service in a wave starts
// concurrently, and the next wave waits until all required services of the
// current wave report healthy.
type Sequencer struct {
	runner   Runner
	prober   Prober
	logger   *zap.Logger
	retries  int
	interval time.Duration
}

// Default probe bounds.
const (
	DefaultRetries       = 5
	DefaultProbeInterval = 2 * time.Second
	defaultProbeTimeout  = 3 * time.Second
	defaultStartWait     = 2 * time.Second
)

// NewSequencer builds a Sequencer. A nil prober gets the HTTP prober; a nil
// logger gets a no-op logger; non-positive retries/interval get defaults.
func NewSequencer(runner Runner, prober Prober, logger *zap.Logger, retries int, interval time.Duration) *Sequencer {
	if prober == nil {
		prober = &HTTPProber{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if retries <= 0 {
		retries = DefaultRetries
	}
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Sequencer{
		runner:   runner,
		prober:   prober,
		logger:   logger,
		retries:  retries,
		interval: interval,
	}
}

// WaveResult records the outcome of one startup wave.
type WaveResult struct {
	Services []string
	Failed   []string // required services that never became healthy
	Degraded []string // optional services that never became healthy
}

// Run starts all waves in order. A required service failing its health
// probes aborts the run before the next wave; optional services degrade to
// warnings and the deployment continues.
func (s *Sequencer) Run(ctx context.Context, waves [][]ServiceSpec) ([]WaveResult, error) {
	var results []WaveResult

	for i, wave := range waves {
		names := make([]string, len(wave))
		for j, spec := range wave {
			names[j] = spec.Name
		}

		s.logger.Info("starting wave",
			zap.Int("wave", i),
			zap.Strings("services", names))

		if err := s.runner.Start(ctx, names); err != nil {
			return results, fmt.Errorf("starting wave %d: %w", i, err)
		}

		result := WaveResult{Services: names}

		g, gctx := errgroup.WithContext(ctx)
		failed := make([]error, len(wave))
		for j, spec := range wave {
			g.Go(func() error {
				err := s.awaitHealthy(gctx, spec)
				if err == nil {
					return nil
				}
				failed[j] = err
				if spec.Optional {
					// Optional failures don't cancel sibling probes.
					return nil
				}
				return fmt.Errorf("service %s: %w", spec.Name, err)
			})
		}
		waveErr := g.Wait()

		for j, spec := range wave {
			if failed[j] == nil {
				continue
			}
			if spec.Optional {
				result.Degraded = append(result.Degraded, spec.Name)
				s.logger.Warn("optional service unhealthy, continuing",
					zap.String("service", spec.Name),
					zap.Error(failed[j]))
			} else {
				result.Failed = append(result.Failed, spec.Name)
			}
		}

		results = append(results, result)

		if waveErr != nil {
			return results, fmt.Errorf("wave %d failed: %w", i, waveErr)
		}
	}

	return results, nil
}

// awaitHealthy probes one service with bounded fixed-interval retries.
// Services without a health URL are treated as healthy after their start
// wait elapses.
func (s *Sequencer) awaitHealthy(ctx context.Context, spec ServiceSpec) error {
	if spec.HealthURL == "" {
		wait := defaultStartWait
		if spec.StartWait != "" {
			if d, err := time.ParseDuration(spec.StartWait); err == nil {
				wait = d
			}
		}
		select {
		case <-time.After(wait):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		if err := s.prober.Probe(ctx, spec); err == nil {
			s.logger.Debug("service healthy",
				zap.String("service", spec.Name),
				zap.Int("attempt", attempt))
			return nil
		} else {
			lastErr = err
		}

		if attempt == s.retries {
			break
		}
		select {
		case <-time.After(s.interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("not healthy after %d attempts: %w", s.retries, lastErr)
}

// HTTPProber performs a GET against the service health URL with a per-try
// timeout. Any 2xx status is healthy.
type HTTPProber struct {
	Client *http.Client
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, spec ServiceSpec) error {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	probeCtx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, spec.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health endpoint returned %d", resp.StatusCode)
	}
	return nil
}
