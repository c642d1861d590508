package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/sigpath/internal/dynamo"
)

type ExportData struct {
	Metadata RunMetadata    `json:"metadata"`
	Species  []string       `json:"species"`
	Times    []float64      `json:"times"`
	States   []dynamo.State `json:"states"`
}

// ExportJSON writes a run's metadata and trajectory as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, tr *Trajectory) error {
	data := ExportData{
		Metadata: meta,
		Species:  tr.Species,
		Times:    tr.Times,
		States:   tr.States,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSONFile is ExportJSON to a new file at path.
func ExportJSONFile(path string, meta RunMetadata, tr *Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, meta, tr); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ExportCSVFile writes the trajectory to path in the WriteCSV format.
func ExportCSVFile(path string, tr *Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, tr.Species, tr.Times, tr.States); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
