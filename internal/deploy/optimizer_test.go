package deploy

import (
	"testing"
)

func TestOptimizeOrdersByWeight(t *testing.T) {
	specs := []ServiceSpec{
		{Name: "light", MemoryMB: 64},
		{Name: "heavy", MemoryMB: 1024},
		{Name: "medium", MemoryMB: 256},
	}

	plan, err := Optimize(specs, Budget{}, nil)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if plan.RunID == "" {
		t.Error("expected a run ID")
	}
	if len(plan.Waves) != 1 {
		t.Fatalf("got %d waves, want 1", len(plan.Waves))
	}

	got := waveNames(plan.Waves[0])
	want := []string{"heavy", "medium", "light"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wave order = %v, want %v", got, want)
			break
		}
	}
}

func TestOptimizeTotalsAndBudget(t *testing.T) {
	specs := []ServiceSpec{
		{Name: "a", CPU: 0.5, MemoryMB: 512},
		{Name: "b", CPU: 1.0, MemoryMB: 1024},
	}

	plan, err := Optimize(specs, Budget{CPU: 2, MemoryMB: 2048}, nil)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if plan.TotalCPU != 1.5 || plan.TotalMemMB != 1536 {
		t.Errorf("totals = %v cpu, %d mb", plan.TotalCPU, plan.TotalMemMB)
	}
	if plan.OverBudget {
		t.Error("plan within budget flagged over budget")
	}

	tight, err := Optimize(specs, Budget{MemoryMB: 1024}, nil)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !tight.OverBudget {
		t.Error("plan exceeding memory budget not flagged")
	}
}

func TestOptimizePropagatesCycleError(t *testing.T) {
	specs := []ServiceSpec{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	}

	if _, err := Optimize(specs, Budget{}, nil); err == nil {
		t.Fatal("expected cycle error from wave building")
	}
}
