// Package actions defines the benchmarked operations and the fixed
// order in which they run.
package actions

import (
	"strings"

	"apibench/internal/core"
)

// Catalog returns the ordered list of benchmark actions for one pass.
func Catalog() []core.Action {
	return []core.Action{
		Ping(),
		Index(),
	}
}

// Filtered reports whether an action is excluded from the pass: an
// action is skipped when its name occurs within the filter value. An
// empty filter excludes nothing.
func Filtered(a core.Action, filter string) bool {
	if filter == "" {
		return false
	}
	return strings.Contains(filter, a.Name)
}
