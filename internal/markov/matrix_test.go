package markov

import (
	"errors"
	"testing"
)

func validRows() [][]float64 {
	rows := make([][]float64, len(standardRows))
	for i, row := range standardRows {
		rows[i] = append([]float64(nil), row...)
	}
	return rows
}

func TestNewTransitionMatrix_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(rows [][]float64) [][]float64
		wantRow int
	}{
		{
			name:    "RowSumHigh",
			mutate:  func(rows [][]float64) [][]float64 { rows[2][0] += 1e-6; return rows },
			wantRow: 2,
		},
		{
			name:    "RowSumLow",
			mutate:  func(rows [][]float64) [][]float64 { rows[4][5] -= 1e-6; return rows },
			wantRow: 4,
		},
		{
			name:    "NegativeEntry",
			mutate:  func(rows [][]float64) [][]float64 { rows[1][0] = -0.05; rows[1][1] = 0.75; return rows },
			wantRow: 1,
		},
		{
			name:    "EntryAboveOne",
			mutate:  func(rows [][]float64) [][]float64 { rows[0] = []float64{1.2, -0.2, 0, 0, 0, 0}; return rows },
			wantRow: 0,
		},
		{
			name:    "ShortRow",
			mutate:  func(rows [][]float64) [][]float64 { rows[3] = []float64{0.5, 0.5}; return rows },
			wantRow: 3,
		},
		{
			name:    "MissingRow",
			mutate:  func(rows [][]float64) [][]float64 { return rows[:5] },
			wantRow: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransitionMatrix(tt.mutate(validRows()))
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var matErr *InvalidTransitionMatrixError
			if !errors.As(err, &matErr) {
				t.Fatalf("error type = %T, want *InvalidTransitionMatrixError", err)
			}
			if tt.wantRow >= 0 && matErr.Row != tt.wantRow {
				t.Errorf("error row = %d, want %d", matErr.Row, tt.wantRow)
			}
		})
	}
}

func TestNewTransitionMatrix_ToleratesRounding(t *testing.T) {
	rows := validRows()
	// A drift well inside the tolerance must be accepted.
	rows[0][0] += 5e-10
	if _, err := NewTransitionMatrix(rows); err != nil {
		t.Fatalf("sub-tolerance drift rejected: %v", err)
	}
}

func TestTransitionMatrix_IsAbsorbing(t *testing.T) {
	m := mustMatrix(t, standardRows)
	if !m.IsAbsorbing(5) {
		t.Error("row 5 should be absorbing")
	}
	for i := 0; i < 5; i++ {
		if m.IsAbsorbing(i) {
			t.Errorf("row %d should not be absorbing", i)
		}
	}
}

func TestDeriveIntervention(t *testing.T) {
	std := mustMatrix(t, standardRows)
	intv, err := DeriveIntervention(std, 0.5)
	if err != nil {
		t.Fatalf("DeriveIntervention: %v", err)
	}

	want := [][]float64{
		{0.840, 0.100, 0.025, 0.010, 0.005, 0.020},
		{0.050, 0.785, 0.090, 0.030, 0.015, 0.030},
		{0.010, 0.060, 0.745, 0.085, 0.040, 0.060},
		{0.000, 0.010, 0.050, 0.720, 0.120, 0.100},
		{0.000, 0.000, 0.010, 0.040, 0.770, 0.180},
		{0.000, 0.000, 0.000, 0.000, 0.000, 1.000},
	}
	for i := 0; i < StateCount; i++ {
		for j := 0; j < StateCount; j++ {
			if !almostEqual(intv.At(i, j), want[i][j], 1e-12) {
				t.Errorf("intervention[%d][%d] = %v, want %v", i, j, intv.At(i, j), want[i][j])
			}
		}
	}
}

func TestDeriveIntervention_Structure(t *testing.T) {
	std := mustMatrix(t, standardRows)
	intv, err := DeriveIntervention(std, 0.5)
	if err != nil {
		t.Fatalf("DeriveIntervention: %v", err)
	}

	terminal := StateCount - 1
	for i := 0; i < terminal; i++ {
		// Transitions toward healthier states and into the terminal state are untouched.
		for j := 0; j < i; j++ {
			if intv.At(i, j) != std.At(i, j) {
				t.Errorf("improvement entry [%d][%d] changed: %v != %v", i, j, intv.At(i, j), std.At(i, j))
			}
		}
		if intv.At(i, terminal) != std.At(i, terminal) {
			t.Errorf("terminal column entry [%d] changed: %v != %v", i, intv.At(i, terminal), std.At(i, terminal))
		}
		// Whatever left the progression cells lands on the diagonal.
		if intv.At(i, i) < std.At(i, i)-1e-12 {
			t.Errorf("diagonal [%d] shrank: %v < %v", i, intv.At(i, i), std.At(i, i))
		}
	}
	if !intv.IsAbsorbing(terminal) {
		t.Error("terminal row lost absorption")
	}
}

func TestDeriveIntervention_NoReduction(t *testing.T) {
	std := mustMatrix(t, standardRows)
	same, err := DeriveIntervention(std, 0)
	if err != nil {
		t.Fatalf("DeriveIntervention: %v", err)
	}
	for i := 0; i < StateCount; i++ {
		for j := 0; j < StateCount; j++ {
			if same.At(i, j) != std.At(i, j) {
				t.Errorf("[%d][%d] = %v, want %v", i, j, same.At(i, j), std.At(i, j))
			}
		}
	}
}

func TestDeriveIntervention_BadReduction(t *testing.T) {
	std := mustMatrix(t, standardRows)
	for _, r := range []float64{-0.1, 1.5} {
		if _, err := DeriveIntervention(std, r); err == nil {
			t.Errorf("reduction %v accepted, want error", r)
		}
	}
}

func TestTransitionMatrix_Rows(t *testing.T) {
	m := mustMatrix(t, standardRows)
	rows := m.Rows()
	if len(rows) != StateCount {
		t.Fatalf("Rows() returned %d rows", len(rows))
	}
	// Mutating the copy must not touch the matrix.
	rows[0][0] = 99
	if m.At(0, 0) == 99 {
		t.Error("Rows() shares backing storage with the matrix")
	}
}
