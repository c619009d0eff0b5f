package services

import "fmt"

// Warning codes attached to computation results. Warnings never abort a
// computation; they ride along in the result envelope for logging and
// optional user notice.
const (
	WarnMissingRate               = "MISSING_RATE"
	WarnMissingSaleTypeRule       = "MISSING_SALE_TYPE_RULE"
	WarnMissingCategoryCommission = "MISSING_CATEGORY_COMMISSION"
	WarnUnmatchedValue            = "UNMATCHED_VALUE"
	WarnUnknownProduct            = "UNKNOWN_PRODUCT"
	WarnUnknownCategory           = "UNKNOWN_CATEGORY"
)

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newWarning(code, format string, args ...interface{}) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
