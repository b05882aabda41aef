package main

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp/v2"

	"github.com/pthm-cable/cloth/config"
)

func cpVec(x, y float64) cp.Vector { return cp.Vector{X: x, Y: y} }

func TestParamVectorRoundtrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: roundtrip %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}

	for i, v := range pv.Normalize(def) {
		if v < 0 || v > 1 {
			t.Errorf("default %s normalizes outside [0, 1]: %v", pv.Specs[i].Name, v)
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 10, 0.7})
	want := []float64{0.2, 3.0, 0.7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Clamp[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplyExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{0.8, 1.2, 0.1})
	if cfg.Cloth.Stiffness != 0.8 || cfg.Cloth.MaxElongation != 1.2 || cfg.Physics.Friction != 0.1 {
		t.Errorf("applied config = %+v %+v", cfg.Cloth, cfg.Physics)
	}

	got := pv.ExtractFromConfig(cfg)
	if len(got) != pv.Dim() || got[0] != 0.8 || got[1] != 1.2 || got[2] != 0.1 {
		t.Errorf("ExtractFromConfig = %v", got)
	}
}

func smallBase(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := loadBase("", "", 8, 6)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestEvaluateSturdyCloth(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 60, smallBase(t), 1.1)

	// Stiff, barely breakable cloth survives every scenario
	fitness := fe.Evaluate([]float64{1, 3, 0.5})
	if math.IsNaN(fitness) || math.IsInf(fitness, 0) {
		t.Fatalf("fitness = %v", fitness)
	}

	torn := fe.LastTorn()
	if len(torn) != len(scenarios) {
		t.Fatalf("LastTorn() has %d entries", len(torn))
	}
	if torn[0] != 0 {
		t.Errorf("calm run tore %v of the links", torn[0])
	}
}

func TestEvaluatePrefersFragileWhenIntact(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 30, smallBase(t), 0)

	// With no sag target and no tearing, only fragility differs
	loose := fe.Evaluate([]float64{1, 3, 0.5})
	if fe.LastTorn()[0] != 0 {
		t.Skip("cloth tore in calm air")
	}
	tight := fe.Evaluate([]float64{1, 2.5, 0.5})
	if fe.LastTorn()[0] != 0 || fe.LastTorn()[1] != 0 || fe.LastTorn()[2] != 0 {
		t.Skip("cloth tore")
	}
	if tight >= loose {
		t.Errorf("fitness with lower break ratio %v, want below %v", tight, loose)
	}
}

func TestCopyConfigIsIndependent(t *testing.T) {
	base := smallBase(t)
	base.Cloth.Pins = []config.GridPoint{{Col: 1, Row: 1}}
	fe := NewFitnessEvaluator(NewParamVector(), 10, base, 1.1)

	dup := fe.copyConfig()
	dup.Cloth.Pins[0].Col = 5
	dup.Cloth.Stiffness = 0.3

	if base.Cloth.Pins[0].Col != 1 || base.Cloth.Stiffness == 0.3 {
		t.Error("copyConfig shares state with the base config")
	}
}

func TestScenarioField(t *testing.T) {
	cfg := smallBase(t)

	if n := len(scenarioField(cfg, scenarios[0]).Zones); n != 0 {
		t.Errorf("calm field has %d zones", n)
	}
	gale := scenarioField(cfg, scenarios[2])
	if len(gale.Zones) != 1 {
		t.Fatalf("gale field has %d zones", len(gale.Zones))
	}
	centre := cpVec(float64(cfg.Screen.Width)/2, float64(cfg.Screen.Height)/2)
	if got := gale.ForceAt(centre); got.X != scenarios[2].wind {
		t.Errorf("gale force at centre = %v", got)
	}
}

func TestRunResult(t *testing.T) {
	r := &runResult{links: 10, broken: 4}
	if r.tornFraction() != 0.4 {
		t.Errorf("tornFraction = %v", r.tornFraction())
	}
	if r.finalHeight() != 0 {
		t.Errorf("finalHeight with no windows = %v", r.finalHeight())
	}
	if (&runResult{}).tornFraction() != 0 {
		t.Error("empty result should report no tearing")
	}
	if (&runResult{links: 2, broken: 5}).tornFraction() != 1 {
		t.Error("tornFraction should cap at 1")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(90 * time.Second); got != "1m30s" {
		t.Errorf("formatDuration(90s) = %q", got)
	}
	if got := formatDuration(3*time.Hour + 5*time.Second); got != "3h00m05s" {
		t.Errorf("formatDuration(3h5s) = %q", got)
	}
}
