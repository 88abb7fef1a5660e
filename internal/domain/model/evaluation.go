package model

type Verdict string

const (
	VerdictOK       Verdict = "OK"
	VerdictMismatch Verdict = "MISMATCH"
	VerdictError    Verdict = "ERROR"
)

// Evaluation is the evaluator's two-directional equivalence verdict.
type Evaluation struct {
	SolutionToFormalization Verdict `json:"solutionToFormalization"`
	FormalizationToSolution Verdict `json:"formalizationToSolution"`
}

// IsCorrect reports logical equivalence: both entailment directions must hold.
func (e Evaluation) IsCorrect() bool {
	return e.SolutionToFormalization == VerdictOK && e.FormalizationToSolution == VerdictOK
}

// HasError reports whether the evaluator failed on either direction, as opposed
// to finding a logical mismatch.
func (e Evaluation) HasError() bool {
	return e.SolutionToFormalization == VerdictError || e.FormalizationToSolution == VerdictError
}
