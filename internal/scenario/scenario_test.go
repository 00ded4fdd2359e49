package scenario

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Amanymarey2/cost-effective-model/internal/markov"
)

func TestDefault(t *testing.T) {
	sc := Default()
	if err := sc.Validate(); err != nil {
		t.Fatalf("default scenario invalid: %v", err)
	}

	wantUtilities := [markov.StateCount]float64{0.90, 0.80, 0.70, 0.60, 0.45, 0}
	if sc.Utilities != wantUtilities {
		t.Errorf("utilities = %v, want %v", sc.Utilities, wantUtilities)
	}
	if sc.Cycles != 10 || sc.Trials != 1000 || sc.DiscountRate != 0 {
		t.Errorf("run defaults = cycles %d, trials %d, discount %v", sc.Cycles, sc.Trials, sc.DiscountRate)
	}
	if sc.StateNames[markov.StateCount-1] != "Dead" {
		t.Errorf("terminal state name = %q", sc.StateNames[markov.StateCount-1])
	}

	std, intv, err := sc.Matrices()
	if err != nil {
		t.Fatalf("Matrices: %v", err)
	}
	if got := std.At(0, 0); got != 0.70 {
		t.Errorf("standard[0][0] = %v", got)
	}
	// Halved progression doubles up on the diagonal.
	if got := intv.At(0, 0); math.Abs(got-0.84) > 1e-12 {
		t.Errorf("intervention[0][0] = %v, want 0.84", got)
	}
	if !std.IsAbsorbing(markov.StateCount-1) || !intv.IsAbsorbing(markov.StateCount-1) {
		t.Error("terminal row must be absorbing in both matrices")
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, Default()) {
		t.Errorf("round trip drifted:\ngot  %+v\nwant %+v", loaded, Default())
	}
}

func TestLoad_Overrides(t *testing.T) {
	sc := Default()
	sc.Cycles = 20
	sc.DiscountRate = 0.03
	sc.ProgressionReduction = 0.25
	data, _ := json.Marshal(sc)
	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Cycles != 20 || loaded.DiscountRate != 0.03 || loaded.ProgressionReduction != 0.25 {
		t.Errorf("overrides lost: %+v", loaded)
	}
}

func TestLoad_Rejects(t *testing.T) {
	mutate := func(change func(m map[string]any)) string {
		data, err := json.Marshal(Default())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		change(m)
		out, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("remarshal: %v", err)
		}
		return string(out)
	}

	tests := []struct {
		name string
		doc  string
	}{
		{"Garbage", "{not json"},
		{"CyclesWrongType", mutate(func(m map[string]any) { m["cycles"] = "ten" })},
		{"UtilityAboveOne", mutate(func(m map[string]any) { m["utilities"] = []any{1.2, 0.8, 0.7, 0.6, 0.45, 0.0} })},
		{"ShortStateNames", mutate(func(m map[string]any) { m["state_names"] = []any{"a", "b"} })},
		{"BadRowSum", mutate(func(m map[string]any) {
			m["standard_matrix"].([]any)[0] = []any{0.9, 0.2, 0.05, 0.02, 0.01, 0.02}
		})},
		{"NegativeDiscount", mutate(func(m map[string]any) { m["discount_rate"] = -0.01 })},
		{"StartStateOutOfRange", mutate(func(m map[string]any) { m["start_state"] = 9 })},
		{"OneTrial", mutate(func(m map[string]any) { m["trials"] = 1 })},
		{"NegativeWTP", mutate(func(m map[string]any) { m["wtp"] = []any{-5.0} })},
		{"ReductionAboveOne", mutate(func(m map[string]any) { m["progression_reduction"] = 1.5 })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenario.json")
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("invalid scenario accepted")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil || !strings.Contains(err.Error(), "read scenario") {
		t.Errorf("err = %v, want read failure", err)
	}
}

func TestScenario_States(t *testing.T) {
	costs := [markov.StateCount]float64{5000, 8000, 12000, 18000, 25000, 0}
	set, err := Default().States(costs)
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	st := set.State(2)
	if st.Name != "2 conditions" || st.Cost != 12000 || st.Utility != 0.70 {
		t.Errorf("state 2 = %+v", st)
	}
}

func TestScenario_Start(t *testing.T) {
	c, err := Default().Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Share(0) != 1.0 {
		t.Errorf("start share = %v, want everyone in state 0", c.Share(0))
	}
}
