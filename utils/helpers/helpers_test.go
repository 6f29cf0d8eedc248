package helpers

import (
	"testing"
)

func TestMatchHeader_NonMatchingPattern(t *testing.T) {
	cellValue := "Random Header"
	patterns := []string{`line\s*item`, `particulars`}
	result := MatchHeader(cellValue, patterns)
	if result {
		t.Errorf("Expected false, got %v", result)
	}
}

func TestMatchHeader_Particulars(t *testing.T) {
	cellValue := "  Particulars "
	patterns := []string{`line\s*item`, `particulars`}
	if !MatchHeader(cellValue, patterns) {
		t.Errorf("Expected true for %q", cellValue)
	}
}

func TestToFloat_StringWithCommas(t *testing.T) {
	input := "1,234.56"
	expected := 1234.56
	result := ToFloat(input)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestToFloat_AccountingNegative(t *testing.T) {
	input := "(5,000)"
	expected := -5000.0
	result := ToFloat(input)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestToFloat_NonNumericString(t *testing.T) {
	input := "abc"
	expected := 0.0
	result := ToFloat(input)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestNormalizeString(t *testing.T) {
	input := "  HeLLo WoRLd  "
	expected := "hello world"
	result := NormalizeString(input)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestCanonicalLineItem(t *testing.T) {
	cases := map[string]string{
		"Trade Receivables":       "accounts_receivable",
		"Revenue from Operations": "revenue",
		"Finance Costs":           "interest_expense",
		"current_assets":          "current_assets",
		"Total Current Assets":    "current_assets",
	}
	for label, expected := range cases {
		got, ok := CanonicalLineItem(label)
		if !ok || got != expected {
			t.Errorf("CanonicalLineItem(%q) = %q, %v; expected %q", label, got, ok, expected)
		}
	}
	if _, ok := CanonicalLineItem("Chairman's Statement"); ok {
		t.Errorf("Expected no canonical name for narrative rows")
	}
}

func TestHealthGrade_Boundaries(t *testing.T) {
	cases := map[int]string{
		95: "A+", 90: "A+",
		85: "A", 80: "A",
		70: "B",
		60: "C",
		50: "D",
		49: "F", 0: "F",
	}
	for score, expected := range cases {
		if got := HealthGrade(score); got != expected {
			t.Errorf("HealthGrade(%d) = %s; expected %s", score, got, expected)
		}
	}
}

func TestCreditGradeAndRisk(t *testing.T) {
	grade, risk := CreditGradeAndRisk(820)
	if grade != "A+" || risk != "Low" {
		t.Errorf("Expected A+/Low, got %s/%s", grade, risk)
	}
	grade, risk = CreditGradeAndRisk(450)
	if grade != "D" || risk != "High" {
		t.Errorf("Expected D/High, got %s/%s", grade, risk)
	}
}

func TestTrendSlope(t *testing.T) {
	if slope := TrendSlope([]float64{100, 90, 80}); slope >= 0 {
		t.Errorf("Expected negative slope, got %v", slope)
	}
	if slope := TrendSlope([]float64{100, 110, 125}); slope <= 0 {
		t.Errorf("Expected positive slope, got %v", slope)
	}
	if slope := TrendSlope([]float64{100}); slope != 0 {
		t.Errorf("Expected zero slope for a single point, got %v", slope)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.5, 0, 1); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
	if got := Clamp(-0.2, 0, 1); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if got := Clamp(0.4, 0, 1); got != 0.4 {
		t.Errorf("Expected 0.4, got %v", got)
	}
}
