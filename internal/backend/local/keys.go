package local

import (
	"sort"

	"github.com/abhisek/promptquest/internal/backend"
)

// sortedKeys gives statements a stable column order.
func sortedKeys(r backend.Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
