package main

import (
	"sort"

	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/storage"
)

func tickTotals(recs []storage.TickRecord) field.Stats {
	r := storage.Recorder{Records: recs}
	return r.Totals()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
