package services

import (
	"fmt"
	"math"
	"smebackend/types"
	"smebackend/utils/constants"
	"smebackend/utils/helpers"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NormalizeStatement validates a raw line-item mapping and reshapes it
// into a canonical Statement. It is a pure transform: the input is
// never mutated and no state is kept.
func NormalizeStatement(companyID string, raw types.RawStatement) (*types.Statement, error) {
	if !raw.PeriodEnd.After(raw.PeriodStart) {
		return nil, &types.InvalidPeriodError{PeriodStart: raw.PeriodStart, PeriodEnd: raw.PeriodEnd}
	}

	items := make(map[string]float64, len(raw.LineItems))
	for label, amount := range raw.LineItems {
		name, ok := helpers.CanonicalLineItem(label)
		if !ok {
			// Unrecognized rows (narrative lines, subtotals) are dropped.
			zap.L().Debug("Dropping unrecognized line item", zap.String("label", label))
			continue
		}
		if amount < 0 && !constants.NegativeAllowed[name] {
			return nil, fmt.Errorf("line item %s must be non-negative, got %.2f", name, amount)
		}
		items[name] = amount
	}

	required, ok := constants.RequiredLineItems[raw.Type]
	if !ok {
		return nil, fmt.Errorf("unknown statement type %q", raw.Type)
	}
	var missing []string
	for _, name := range required {
		if _, present := items[name]; !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &types.IncompleteStatementError{StatementType: raw.Type, Missing: missing}
	}

	stmt := &types.Statement{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Type:        raw.Type,
		PeriodStart: raw.PeriodStart,
		PeriodEnd:   raw.PeriodEnd,
		LineItems:   items,
	}

	// A balance sheet that does not reconcile is still usable; it is
	// flagged so the risk assessor can raise it.
	if raw.Type == types.BalanceSheet {
		totalAssets := items["total_assets"]
		drift := math.Abs(totalAssets - (items["total_liabilities"] + items["total_equity"]))
		if totalAssets > 0 && drift > Calib().BalanceTolerance*totalAssets {
			stmt.Unbalanced = true
			zap.L().Warn("Statement does not reconcile",
				zap.String("company", companyID),
				zap.Float64("drift", drift))
		}
	}

	return stmt, nil
}

// LatestByType picks, for each statement type, the statement with the
// most recent period end. The engine operates on this set unless the
// caller filtered to an explicit period beforehand.
func LatestByType(statements []*types.Statement) map[types.StatementType]*types.Statement {
	latest := make(map[types.StatementType]*types.Statement)
	for _, stmt := range statements {
		if current, ok := latest[stmt.Type]; !ok || stmt.PeriodEnd.After(current.PeriodEnd) {
			latest[stmt.Type] = stmt
		}
	}
	return latest
}

// RevenueHistory extracts revenue per profit-and-loss period, ordered
// oldest to newest, for trend analysis.
func RevenueHistory(statements []*types.Statement) []float64 {
	var pls []*types.Statement
	for _, stmt := range statements {
		if stmt.Type == types.ProfitLoss {
			pls = append(pls, stmt)
		}
	}
	sort.Slice(pls, func(i, j int) bool { return pls[i].PeriodEnd.Before(pls[j].PeriodEnd) })
	history := make([]float64, 0, len(pls))
	for _, stmt := range pls {
		history = append(history, stmt.LineItems["revenue"])
	}
	return history
}
