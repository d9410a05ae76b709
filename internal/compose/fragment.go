package compose

import (
	"fmt"

	"github.com/braid-labs/braid/internal/manifest"
)

// Healthcheck defaults applied when the manifest leaves fields unset.
const (
	defaultInterval    = "10s"
	defaultTimeout     = "5s"
	defaultRetries     = 3
	defaultStartPeriod = "5s"
)

// Fragment generates the compose service block for one server manifest.
// Servers without an image get a build block pointing at their template
// directory (buildContext). Dependencies wait on service_healthy when the
// dependency declares a health probe, service_started otherwise.
//
// healthByName reports whether a named dependency has a health probe; the
// caller supplies it because fragments are generated one server at a time.
func Fragment(m *manifest.ServerManifest, buildContext string, healthByName func(string) bool) (*Service, error) {
	if m.Image == "" && buildContext == "" {
		return nil, fmt.Errorf("server %s has no image and no build context", m.Name)
	}

	svc := &Service{
		Image:    m.Image,
		Restart:  "unless-stopped",
		Networks: []string{DefaultNetwork},
	}

	if m.Image == "" {
		svc.Build = &Build{Context: buildContext}
	}

	if m.Port > 0 {
		svc.Ports = []string{fmt.Sprintf("%d:%d", m.Port, m.Port)}
	}

	if len(m.Tokens) > 0 {
		svc.Environment = make(map[string]string, len(m.Tokens))
		for _, tok := range m.Tokens {
			// Pass-through reference; compose substitutes from the host env.
			svc.Environment[tok.Name] = fmt.Sprintf("${%s}", tok.Name)
		}
	}

	if hc := healthcheckFor(m); hc != nil {
		svc.Healthcheck = hc
	}

	if len(m.DependsOn) > 0 {
		svc.DependsOn = make(map[string]DependsCondition, len(m.DependsOn))
		for _, dep := range m.DependsOn {
			cond := ConditionStarted
			if healthByName != nil && healthByName(dep) {
				cond = ConditionHealthy
			}
			svc.DependsOn[dep] = DependsCondition{Condition: cond}
		}
	}

	if m.Resources != nil {
		limits := ResourceLimits{Memory: m.Resources.Memory}
		if m.Resources.CPU > 0 {
			limits.CPUs = fmt.Sprintf("%g", m.Resources.CPU)
		}
		svc.Deploy = &Deploy{Resources: ResourceSpec{Limits: limits}}
	}

	return svc, nil
}

// healthcheckFor builds the healthcheck block, or nil when the server
// declares no health probe (stdio servers typically don't). A probe needs
// a port to target; without one the endpoint is unreachable and the
// service is treated as probe-less.
func healthcheckFor(m *manifest.ServerManifest) *Healthcheck {
	if !HasHealth(m) {
		return nil
	}

	hc := &Healthcheck{
		Test: []string{
			"CMD-SHELL",
			fmt.Sprintf("curl -fsS http://localhost:%d%s || exit 1", m.Port, m.Health.Endpoint),
		},
		Interval:    m.Health.Interval,
		Timeout:     m.Health.Timeout,
		Retries:     m.Health.Retries,
		StartPeriod: m.Health.StartPeriod,
	}

	if hc.Interval == "" {
		hc.Interval = defaultInterval
	}
	if hc.Timeout == "" {
		hc.Timeout = defaultTimeout
	}
	if hc.Retries == 0 {
		hc.Retries = defaultRetries
	}
	if hc.StartPeriod == "" {
		hc.StartPeriod = defaultStartPeriod
	}

	return hc
}

// HasHealth reports whether a server manifest declares a usable health
// probe: an endpoint plus a port to reach it on. Dependents of a server
// without one wait on service_started instead of service_healthy.
func HasHealth(m *manifest.ServerManifest) bool {
	return m.Health != nil && m.Health.Endpoint != "" && m.Port > 0
}
