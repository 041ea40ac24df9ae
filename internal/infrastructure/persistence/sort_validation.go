package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField maps an API sort field onto a whitelisted column.
// Returns defaultColumn if the input is empty or not in the whitelist, so
// user input never reaches the ORDER BY clause verbatim.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultColumn string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultColumn
	}
	if column, ok := allowedFields[trimmed]; ok {
		return column
	}
	return defaultColumn
}

// CustomerSortFields maps customer list sort fields to columns
var CustomerSortFields = map[string]string{
	"availableCredit": "available_credit",
	"name":            "name",
	"createdAt":       "created_at",
}
