package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// WriteCSV writes a "time,<species>..." header followed by one row per
// sample. Values are written with full precision.
func WriteCSV(w io.Writer, species []string, times []float64, states []dynamo.State) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, species...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(species)+1)
	for i, x := range states {
		if len(x) != len(species) {
			return fmt.Errorf("storage: row %d has %d values, header has %d species", i, len(x), len(species))
		}
		row[0] = strconv.FormatFloat(times[i], 'g', -1, 64)
		for j, v := range x {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(r io.Reader) (*Trajectory, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "time" {
		return nil, fmt.Errorf("storage: missing time header")
	}

	tr := &Trajectory{
		Species: append([]string(nil), records[0][1:]...),
		Times:   make([]float64, 0, len(records)-1),
		States:  make([]dynamo.State, 0, len(records)-1),
	}
	for i, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d: %w", i+1, err)
		}
		x := make(dynamo.State, len(rec)-1)
		for j := range x {
			if x[j], err = strconv.ParseFloat(rec[j+1], 64); err != nil {
				return nil, fmt.Errorf("storage: row %d column %d: %w", i+1, j+1, err)
			}
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x)
	}
	return tr, nil
}
