package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gyeh/aihaudit/internal/normalize"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func money(cents int64) string {
	return normalize.FormatMoney(cents)
}

func decimal(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func keysByCountDesc(m map[string]int) []string {
	keys := sortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool {
		return m[keys[i]] > m[keys[j]]
	})
	return keys
}
