package emitter

// functionTable dispatches a spreadsheet function name (already upper-cased
// by the parser/lowerer) to the runtime helper's
// canonical key. Backend.Call renders the key in its own naming
// convention (e.g. "rtSum" in Go, "rt_sum" in Python) and appends the
// rendered argument list. IF is handled separately in lower.go because it
// lowers to the target's native conditional, not a helper call.
var functionTable = map[string]string{
	// Aggregates
	"SUM":         "sum",
	"AVERAGE":     "average",
	"COUNT":       "count",
	"COUNTA":      "counta",
	"MIN":         "min",
	"MAX":         "max",
	"PRODUCT":     "product",
	"SUMPRODUCT":  "sumproduct",

	// Conditional aggregates
	"SUMIF":     "sumif",
	"SUMIFS":    "sumifs",
	"COUNTIF":   "countif",
	"COUNTIFS":  "countifs",
	"AVERAGEIF": "averageif",

	// Statistics
	"MEDIAN":     "median",
	"MODE":       "mode",
	"STDEV":      "stdev",
	"VAR":        "variance",
	"PERCENTILE": "percentile",
	"LARGE":      "large",
	"SMALL":      "small",
	"RANK":       "rank",

	// Distributions
	"NORMSDIST": "normsdist",
	"NORMSINV":  "normsinv",
	"NORMDIST":  "normdist",
	"NORMINV":   "norminv",
	"CHIINV":    "chiinv",
	"FINV":      "finv",
	"T.INV":     "tinv",
	"TINV":      "tinv",

	// Logical
	"AND": "and",
	"OR":  "or",
	"NOT": "not",
	"XOR": "xor",

	// Information
	"ISERROR":  "iserror",
	"ISNA":     "isna",
	"ISNUMBER": "isnumber",
	"ISTEXT":   "istext",
	"ISBLANK":  "isblank",
	"NA":       "na",

	// Lookups
	"VLOOKUP": "vlookup",
	"HLOOKUP": "hlookup",
	"MATCH":   "match",
	"INDEX":   "index",

	// Arrays
	"TRANSPOSE": "transpose",
	"SORT":      "sort",
	"UNIQUE":    "unique",

	// Text
	"CONCATENATE": "concatenate",
	"LEN":         "length",
	"UPPER":       "upperCase",
	"LOWER":       "lowerCase",
	"TRIM":        "trim",
	"LEFT":        "left",
	"RIGHT":       "right",
	"MID":         "mid",
	"TEXT":        "formatText",

	// Date
	"TODAY": "today",
	"NOW":   "now",
	"YEAR":  "year",
	"MONTH": "month",
	"DAY":   "day",

	// Finance
	"PMT":  "pmt",
	"FV":   "fv",
	"PV":   "pv",
	"RATE": "rate",
	"NPV":  "npv",
	"IRR":  "irr",
	"NPER": "nper",
	"IPMT": "ipmt",
	"PPMT": "ppmt",

	// Math
	"ABS":     "abs",
	"ROUND":   "round",
	"FLOOR":   "floorTo",
	"CEILING": "ceilTo",
	"SQRT":    "sqrt",
	"POWER":   "power",
	"MOD":     "mod",
	"LOG":     "log",
	"LN":      "ln",
	"EXP":     "exp",
	"PI":      "pi",
}
