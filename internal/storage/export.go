package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run   RunMetadata  `json:"run"`
	Ticks []TickRecord `json:"ticks"`
}

func ExportJSON(w io.Writer, meta RunMetadata, ticks []TickRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Ticks: ticks})
}

func ExportJSONFile(path string, meta RunMetadata, ticks []TickRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, ticks)
}
