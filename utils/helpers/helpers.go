package helpers

import (
	"math"
	"regexp"
	"smebackend/utils/constants"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Helper function to match header titles
func MatchHeader(cellValue string, patterns []string) bool {
	normalizedValue := NormalizeString(cellValue)
	for _, pattern := range patterns {
		matched, _ := regexp.MatchString(pattern, normalizedValue)
		if matched {
			return true
		}
	}
	return false
}

// Helper function to normalize strings
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CanonicalLineItem resolves a raw label from a workbook or request to
// its canonical snake_case line-item name.
func CanonicalLineItem(label string) (string, bool) {
	normalized := NormalizeString(label)
	if canonical, ok := constants.LineItemAliases[normalized]; ok {
		return canonical, true
	}
	// Already-canonical names pass through.
	underscored := strings.ReplaceAll(normalized, " ", "_")
	for _, items := range constants.RequiredLineItems {
		for _, item := range items {
			if item == underscored {
				return item, true
			}
		}
	}
	switch underscored {
	case "cash_and_equivalents", "accounts_receivable", "capital_expenditure", "operating_income":
		return underscored, true
	}
	return "", false
}

// ToFloat converts workbook cell values to float64, tolerating commas,
// currency symbols and percentage suffixes.
func ToFloat(value interface{}) float64 {
	if f, ok := value.(float64); ok {
		return f
	}
	str, ok := value.(string)
	if !ok {
		zap.L().Error("Error converting to float64: value is not a string")
		return 0.0
	}

	cleanStr := strings.ReplaceAll(str, ",", "")
	cleanStr = strings.ReplaceAll(cleanStr, "₹", "")
	cleanStr = strings.TrimSpace(cleanStr)

	if cleanStr == "" {
		zap.L().Error("Error converting to float64: input string is empty")
		return 0.0
	}

	if strings.Contains(cleanStr, "%") {
		cleanStr = strings.ReplaceAll(cleanStr, "%", "")
		f, err := strconv.ParseFloat(cleanStr, 64)
		if err != nil {
			zap.L().Error("Error converting percentage to float64", zap.Error(err))
			return 0.0
		}
		return f / 100.0
	}

	// Accounting negatives: (1,234.56)
	if strings.HasPrefix(cleanStr, "(") && strings.HasSuffix(cleanStr, ")") {
		inner, err := strconv.ParseFloat(strings.Trim(cleanStr, "()"), 64)
		if err == nil {
			return -inner
		}
	}

	f, err := strconv.ParseFloat(cleanStr, 64)
	if err != nil {
		zap.L().Error("Error converting to float64", zap.Error(err))
		return 0.0
	}
	return f
}

// Round2 rounds to two decimal places for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HealthGrade maps an overall health score to its letter grade.
// Boundary values map to the higher band.
func HealthGrade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	}
	return "F"
}

// CreditGradeAndRisk maps a 300-900 credit score to a grade and a risk
// category.
func CreditGradeAndRisk(score int) (string, string) {
	switch {
	case score >= 800:
		return "A+", "Low"
	case score >= 750:
		return "A", "Low"
	case score >= 700:
		return "B+", "Low"
	case score >= 650:
		return "B", "Medium"
	case score >= 600:
		return "C+", "Medium"
	case score >= 550:
		return "C", "Medium"
	case score >= 500:
		return "D+", "High"
	}
	return "D", "High"
}

// TrendSlope fits a least-squares line through equally spaced
// observations and returns its slope. Fewer than two points have no
// trend.
func TrendSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, values, nil, false)
	return slope
}
