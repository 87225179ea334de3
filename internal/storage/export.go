package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/parcelsim/internal/dynamo"
)

type ExportData struct {
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Updraft    float64            `json:"updraft"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportData(integrator string, dt, duration, updraft float64, result *dynamo.Result) ExportData {
	data := ExportData{
		Integrator: integrator,
		Dt:         dt,
		Duration:   duration,
		Updraft:    updraft,
		Steps:      len(result.Times),
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

// ExportJSON writes the full run as indented JSON to path.
func ExportJSON(path, integrator string, dt, duration, updraft float64, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, integrator, dt, duration, updraft, result)
}

// ExportJSONStdout writes the full run as indented JSON to stdout.
func ExportJSONStdout(integrator string, dt, duration, updraft float64, result *dynamo.Result) error {
	return writeJSON(os.Stdout, integrator, dt, duration, updraft, result)
}

func writeJSON(w io.Writer, integrator string, dt, duration, updraft float64, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(integrator, dt, duration, updraft, result))
}
