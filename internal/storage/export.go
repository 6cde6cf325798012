package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// ExportData is the JSON form of a saved run.
type ExportData struct {
	Run    RunMetadata `json:"run"`
	Times  []float64   `json:"times"`
	Energy []float64   `json:"energy"`
	Frame  []Disc      `json:"frame"`
}

func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ExportJSON writes metadata, energy series and final frame of a run.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, energy, err := s.LoadEnergy(runID)
	if err != nil {
		return err
	}
	frame, err := s.LoadFrame(runID)
	if err != nil {
		return err
	}
	return WriteJSON(w, ExportData{Run: *meta, Times: times, Energy: energy, Frame: frame.Discs})
}

func WriteEnergyCSV(w io.Writer, times, energy []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "kinetic_energy"}); err != nil {
		return err
	}
	for i := range times {
		if i >= len(energy) {
			break
		}
		row := []string{formatFloat(times[i]), formatFloat(energy[i])}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteFrameCSV(w io.Writer, discs []Disc) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "radius", "r", "g", "b"}); err != nil {
		return err
	}
	for _, d := range discs {
		row := []string{
			formatFloat(d.X), formatFloat(d.Y), formatFloat(d.Radius),
			formatFloat(d.R), formatFloat(d.G), formatFloat(d.B),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
