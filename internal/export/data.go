package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/storage"
)

type ExportData struct {
	Run    storage.RunMetadata `json:"run"`
	Points []sim.Point         `json:"points"`
}

func WriteJSON(w io.Writer, meta *storage.RunMetadata, points []sim.Point) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Points: points})
}

func WriteCSV(w io.Writer, points []sim.Point) error {
	return storage.WritePointsCSV(w, points)
}
