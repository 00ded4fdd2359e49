package markov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RowSumTolerance is the allowed deviation of a transition row from 1.0.
const RowSumTolerance = 1e-9

// InvalidTransitionMatrixError reports a transition row whose probabilities
// do not form a distribution.
type InvalidTransitionMatrixError struct {
	Row    int
	Sum    float64
	Reason string
}

func (e *InvalidTransitionMatrixError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transition matrix row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("transition matrix row %d sums to %.12f, want 1.0 within %g", e.Row, e.Sum, RowSumTolerance)
}

// TransitionMatrix is an immutable yearly state-to-state probability table.
// Entry (i,j) is the probability of moving from state i to state j in one
// cycle; every row sums to 1.0 within RowSumTolerance.
type TransitionMatrix struct {
	m *mat.Dense
}

// NewTransitionMatrix validates and freezes a StateCount x StateCount
// probability table.
func NewTransitionMatrix(rows [][]float64) (*TransitionMatrix, error) {
	if len(rows) != StateCount {
		return nil, fmt.Errorf("transition matrix has %d rows, want %d", len(rows), StateCount)
	}

	data := make([]float64, 0, StateCount*StateCount)
	for i, row := range rows {
		if len(row) != StateCount {
			return nil, &InvalidTransitionMatrixError{Row: i, Reason: fmt.Sprintf("has %d entries, want %d", len(row), StateCount)}
		}
		for j, p := range row {
			if p < 0 || p > 1 || math.IsNaN(p) {
				return nil, &InvalidTransitionMatrixError{Row: i, Reason: fmt.Sprintf("entry %d is %v, want a probability in [0,1]", j, p)}
			}
		}
		if sum := floats.Sum(row); math.Abs(sum-1.0) > RowSumTolerance {
			return nil, &InvalidTransitionMatrixError{Row: i, Sum: sum}
		}
		data = append(data, row...)
	}

	return &TransitionMatrix{m: mat.NewDense(StateCount, StateCount, data)}, nil
}

// At returns the transition probability from state i to state j.
func (t *TransitionMatrix) At(i, j int) float64 {
	return t.m.At(i, j)
}

// Dim returns the number of states the matrix spans.
func (t *TransitionMatrix) Dim() int {
	r, _ := t.m.Dims()
	return r
}

// Rows returns a copy of the probability table.
func (t *TransitionMatrix) Rows() [][]float64 {
	rows := make([][]float64, StateCount)
	for i := range rows {
		rows[i] = make([]float64, StateCount)
		mat.Row(rows[i], i, t.m)
	}
	return rows
}

// IsAbsorbing reports whether state i keeps its whole mass each cycle.
func (t *TransitionMatrix) IsAbsorbing(i int) bool {
	return math.Abs(t.m.At(i, i)-1.0) <= RowSumTolerance
}

// DeriveIntervention builds the intervention matrix from a standard-care
// matrix: every progression probability (a move from a living state to a
// worse living state, i.e. above the diagonal and left of the terminal
// column) is reduced by the given fraction and the removed mass is returned
// to that row's stay probability. Death-column entries and improvement
// transitions are untouched, so the two matrices stay comparable everywhere
// except progression risk. The terminal state must be the last index.
func DeriveIntervention(std *TransitionMatrix, reduction float64) (*TransitionMatrix, error) {
	if reduction < 0 || reduction > 1 {
		return nil, fmt.Errorf("progression reduction %v outside [0,1]", reduction)
	}

	rows := std.Rows()
	terminal := StateCount - 1
	for i := 0; i < terminal; i++ {
		removed := 0.0
		for j := i + 1; j < terminal; j++ {
			cut := rows[i][j] * reduction
			rows[i][j] -= cut
			removed += cut
		}
		rows[i][i] += removed
	}

	return NewTransitionMatrix(rows)
}
