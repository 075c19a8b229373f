package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/calc_backend/models"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
)

func TestNormalizeCalculationType(t *testing.T) {
	cases := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"addition", "addition", false},
		{"Addition", "addition", false},
		{"  DIVISION  ", "division", false},
		{"subtraction", "subtraction", false},
		{"multiplication", "multiplication", false},
		{"modulo", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := models.NormalizeCalculationType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeCalculationType(%q) expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeCalculationType(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("NormalizeCalculationType(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestEvaluateCalculation(t *testing.T) {
	cases := []struct {
		name     string
		calcType string
		inputs   []float64
		expected float64
	}{
		{"addition folds left to right", "addition", []float64{1, 2, 3}, 6},
		{"single operand is identity", "addition", []float64{5}, 5},
		{"subtraction", "subtraction", []float64{10, 2, 3}, 5},
		{"multiplication", "multiplication", []float64{2, 3, 4}, 24},
		{"division", "division", []float64{100, 5, 2}, 10},
		{"decimal arithmetic stays exact", "addition", []float64{0.1, 0.2}, 0.3},
		{"negative operands", "subtraction", []float64{-1, -4}, 3},
	}
	for _, tc := range cases {
		got, err := models.EvaluateCalculation(tc.calcType, tc.inputs)
		if err != nil {
			t.Errorf("%s: EvaluateCalculation error: %v", tc.name, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("%s: EvaluateCalculation = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestEvaluateCalculation_DivisionByZero(t *testing.T) {
	_, err := models.EvaluateCalculation("division", []float64{10, 0})
	if !errors.Is(err, utils.ErrorDivisionByZero) {
		t.Fatalf("expected division by zero error, got %v", err)
	}
	// First operand zero as dividend is fine.
	got, err := models.EvaluateCalculation("division", []float64{0, 5})
	if err != nil || got != 0 {
		t.Fatalf("0/5 expected 0, got %v (err %v)", got, err)
	}
}

func TestEvaluateCalculation_RejectsEmptyAndUnknown(t *testing.T) {
	if _, err := models.EvaluateCalculation("addition", nil); err == nil {
		t.Fatal("expected error for empty operand list")
	}
	if _, err := models.EvaluateCalculation("modulo", []float64{1, 2}); err == nil {
		t.Fatal("expected error for unknown calculation type")
	}
}

func TestCalculationResponse_DecodesInputs(t *testing.T) {
	calc := models.Calculation{
		ID:     "abc",
		Type:   "addition",
		Inputs: []byte("[1.5, 2]"),
		Result: 3.5,
	}
	resp := calc.Response()
	if len(resp.Inputs) != 2 || resp.Inputs[0] != 1.5 || resp.Inputs[1] != 2 {
		t.Fatalf("unexpected decoded inputs: %v", resp.Inputs)
	}

	// Legacy rows serve an empty list rather than failing.
	legacy := models.Calculation{Inputs: []byte(`"10, 2"`)}
	if got := legacy.Response().Inputs; len(got) != 0 {
		t.Fatalf("legacy inputs expected empty list, got %v", got)
	}
}
