package deploy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/braid-labs/braid/internal/manifest"
)

// ServiceSpec is the deploy-time view of one service.
type ServiceSpec struct {
	Name      string
	DependsOn []string
	Optional  bool
	HealthURL string  // empty when the service has no health probe
	StartWait string  // grace period for probe-less services (Go duration)
	CPU       float64 // scheduling hint, 0 when unknown
	MemoryMB  int     // scheduling hint, 0 when unknown
}

// SpecFromManifest converts a server manifest into a ServiceSpec.
// The health URL targets the published host port.
func SpecFromManifest(m *manifest.ServerManifest) ServiceSpec {
	spec := ServiceSpec{
		Name:      m.Name,
		DependsOn: append([]string(nil), m.DependsOn...),
		Optional:  m.Optional,
	}

	if m.Health != nil && m.Health.Endpoint != "" && m.Port > 0 {
		spec.HealthURL = fmt.Sprintf("http://localhost:%d%s", m.Port, m.Health.Endpoint)
	}
	if m.Health != nil && m.Health.StartPeriod != "" {
		spec.StartWait = m.Health.StartPeriod
	}

	if m.Resources != nil {
		spec.CPU = m.Resources.CPU
		spec.MemoryMB = parseMemoryMB(m.Resources.Memory)
	}

	return spec
}

// BuildWaves layers services into startup waves: wave 0 has no dependencies,
// wave N depends only on services in waves < N. Services within a wave are
// sorted by name so plans are deterministic. A dependency on an unknown
// service or a dependency cycle is an error.
func BuildWaves(specs []ServiceSpec) ([][]ServiceSpec, error) {
	byName := make(map[string]ServiceSpec, len(specs))
	for _, s := range specs {
		if _, dup := byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate service %q in deploy plan", s.Name)
		}
		byName[s.Name] = s
	}

	indegree := make(map[string]int, len(specs))
	dependents := make(map[string][]string)
	for _, s := range specs {
		for _, dep := range s.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("service %q depends on unknown service %q", s.Name, dep)
			}
			indegree[s.Name]++
			dependents[dep] = append(dependents[dep], s.Name)
		}
	}

	// Kahn layering: peel off zero-indegree services wave by wave.
	var waves [][]ServiceSpec
	remaining := len(specs)
	var frontier []string
	for _, s := range specs {
		if indegree[s.Name] == 0 {
			frontier = append(frontier, s.Name)
		}
	}

	for len(frontier) > 0 {
		sort.Strings(frontier)

		wave := make([]ServiceSpec, 0, len(frontier))
		var next []string
		for _, name := range frontier {
			wave = append(wave, byName[name])
			remaining--
			for _, dep := range dependents[name] {
				indegree[dep]--
				if indegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}

		waves = append(waves, wave)
		frontier = next
	}

	if remaining > 0 {
		var stuck []string
		for name, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("dependency cycle among services: %s", strings.Join(stuck, ", "))
	}

	return waves, nil
}

// parseMemoryMB converts a compose-style memory string ("256m", "512mb",
// "2g") to megabytes. A bare integer is a byte count, as docker reads it.
// Unparseable values yield 0.
func parseMemoryMB(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	digits := s
	for len(digits) > 0 {
		c := digits[len(digits)-1]
		if c >= '0' && c <= '9' {
			break
		}
		digits = digits[:len(digits)-1]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}

	switch strings.ToLower(s[len(digits):]) {
	case "":
		return n / (1024 * 1024)
	case "b":
		return n / (1024 * 1024)
	case "k", "kb":
		return n / 1024
	case "m", "mb":
		return n
	case "g", "gb":
		return n * 1024
	default:
		return 0
	}
}
