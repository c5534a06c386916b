package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/polyorbit/internal/sim"
)

type ExportData struct {
	Name      string             `json:"name"`
	Settings  string             `json:"settings"`
	Ticks     int                `json:"ticks"`
	Crossings []sim.Event        `json:"crossings"`
	Trace     [][]float64        `json:"trace,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newExport(name, settingsPath string, result *sim.Result) ExportData {
	return ExportData{
		Name:      name,
		Settings:  settingsPath,
		Ticks:     result.Ticks,
		Crossings: result.Crossings,
		Trace:     result.Trace,
		Metrics:   result.Metrics,
	}
}

func ExportJSON(path, name, settingsPath string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, name, settingsPath, result)
}

func WriteJSON(w io.Writer, name, settingsPath string, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExport(name, settingsPath, result))
}
