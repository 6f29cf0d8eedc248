package constants

import "smebackend/types"

// LineItemAliases maps line-item labels as they appear in uploaded
// statements to canonical names. Keys are matched after lowercasing and
// trimming; see helpers.CanonicalLineItem.
var LineItemAliases = map[string]string{
	"current assets":                     "current_assets",
	"total current assets":               "current_assets",
	"current liabilities":                "current_liabilities",
	"total current liabilities":          "current_liabilities",
	"total assets":                       "total_assets",
	"total liabilities":                  "total_liabilities",
	"total equity":                       "total_equity",
	"shareholders funds":                 "total_equity",
	"shareholders' funds":                "total_equity",
	"shareholders equity":                "total_equity",
	"inventory":                          "inventory",
	"inventories":                        "inventory",
	"stock in trade":                     "inventory",
	"cash and cash equivalents":          "cash_and_equivalents",
	"cash and bank balances":             "cash_and_equivalents",
	"cash & bank balances":               "cash_and_equivalents",
	"trade receivables":                  "accounts_receivable",
	"accounts receivable":                "accounts_receivable",
	"sundry debtors":                     "accounts_receivable",
	"revenue":                            "revenue",
	"revenue from operations":            "revenue",
	"sales":                              "revenue",
	"turnover":                           "revenue",
	"cost of goods sold":                 "cost_of_goods_sold",
	"cost of sales":                      "cost_of_goods_sold",
	"cogs":                               "cost_of_goods_sold",
	"operating expenses":                 "operating_expenses",
	"operating income":                   "operating_income",
	"ebit":                               "operating_income",
	"interest expense":                   "interest_expense",
	"finance costs":                      "interest_expense",
	"net income":                         "net_income",
	"net profit":                         "net_income",
	"profit after tax":                   "net_income",
	"operating cash flow":                "operating_cash_flow",
	"cash from operating activity":       "operating_cash_flow",
	"net cash from operating activities": "operating_cash_flow",
	"investing cash flow":                "investing_cash_flow",
	"cash from investing activity":       "investing_cash_flow",
	"net cash used in investing activities": "investing_cash_flow",
	"financing cash flow":                   "financing_cash_flow",
	"cash from financing activity":          "financing_cash_flow",
	"net cash from financing activities":    "financing_cash_flow",
	"capital expenditure":                   "capital_expenditure",
	"purchase of fixed assets":              "capital_expenditure",
	"capex":                                 "capital_expenditure",
}

// RequiredLineItems lists the canonical items each statement type must
// carry to be usable.
var RequiredLineItems = map[types.StatementType][]string{
	types.BalanceSheet: {
		"current_assets",
		"current_liabilities",
		"total_assets",
		"total_liabilities",
		"total_equity",
		"inventory",
	},
	types.ProfitLoss: {
		"revenue",
		"cost_of_goods_sold",
		"operating_expenses",
		"net_income",
		"interest_expense",
	},
	types.CashFlow: {
		"operating_cash_flow",
		"investing_cash_flow",
		"financing_cash_flow",
	},
}

// NegativeAllowed are the line items that may legitimately be negative.
var NegativeAllowed = map[string]bool{
	"net_income":          true,
	"operating_cash_flow": true,
	"investing_cash_flow": true,
	"financing_cash_flow": true,
	"operating_income":    true,
}
