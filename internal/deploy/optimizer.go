package deploy

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Budget caps the aggregate resources a deployment may claim. Zero fields
// mean unlimited.
type Budget struct {
	CPU      float64
	MemoryMB int
}

// Plan is an optimized deployment plan: layered waves, heaviest services
// first within each wave, with aggregate resource accounting.
type Plan struct {
	RunID      string
	Waves      [][]ServiceSpec
	TotalCPU   float64
	TotalMemMB int
	OverBudget bool
}

// Optimize layers the services into waves and orders each wave by
// descending resource weight so the heaviest services get the longest
// settle time. It assigns a run ID and totals the resource claims against
// the budget.
func Optimize(specs []ServiceSpec, budget Budget, logger *zap.Logger) (*Plan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	waves, err := BuildWaves(specs)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		RunID: uuid.NewString(),
		Waves: waves,
	}

	for _, wave := range plan.Waves {
		sort.SliceStable(wave, func(i, j int) bool {
			return weight(wave[i]) > weight(wave[j])
		})
	}

	for _, s := range specs {
		plan.TotalCPU += s.CPU
		plan.TotalMemMB += s.MemoryMB
	}

	if budget.CPU > 0 && plan.TotalCPU > budget.CPU {
		plan.OverBudget = true
	}
	if budget.MemoryMB > 0 && plan.TotalMemMB > budget.MemoryMB {
		plan.OverBudget = true
	}

	logger.Info("deployment plan",
		zap.String("run_id", plan.RunID),
		zap.Int("waves", len(plan.Waves)),
		zap.Int("services", len(specs)),
		zap.Float64("total_cpu", plan.TotalCPU),
		zap.Int("total_memory_mb", plan.TotalMemMB),
		zap.Bool("over_budget", plan.OverBudget))

	return plan, nil
}

// weight scores a service for intra-wave ordering. Memory dominates: a
// gigabyte outweighs any realistic CPU claim.
func weight(s ServiceSpec) float64 {
	return float64(s.MemoryMB) + s.CPU*128
}
