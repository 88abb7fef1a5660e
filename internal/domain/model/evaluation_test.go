package model

import "testing"

func TestEvaluationIsCorrectRequiresBothDirections(t *testing.T) {
	tests := []struct {
		name      string
		eval      Evaluation
		want      bool
		wantError bool
	}{
		{"ok/ok", Evaluation{VerdictOK, VerdictOK}, true, false},
		{"ok/mismatch", Evaluation{VerdictOK, VerdictMismatch}, false, false},
		{"mismatch/ok", Evaluation{VerdictMismatch, VerdictOK}, false, false},
		{"mismatch/mismatch", Evaluation{VerdictMismatch, VerdictMismatch}, false, false},
		{"error/ok", Evaluation{VerdictError, VerdictOK}, false, true},
		{"ok/error", Evaluation{VerdictOK, VerdictError}, false, true},
		{"empty", Evaluation{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eval.IsCorrect(); got != tt.want {
				t.Errorf("IsCorrect() = %v, want %v", got, tt.want)
			}
			if got := tt.eval.HasError(); got != tt.wantError {
				t.Errorf("HasError() = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestPropositionConstraintsFollowFormalizationOrder(t *testing.T) {
	p := Proposition{Formalizations: []Formalization{
		{Text: "P(x)", Constraint: "x>0"},
		{Text: "Q(x)", Constraint: "x<0"},
	}}
	got := p.Constraints()
	if len(got) != 2 || got[0] != "x>0" || got[1] != "x<0" {
		t.Fatalf("Constraints() = %v, want [x>0 x<0]", got)
	}
}
