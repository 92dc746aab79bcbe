package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

type ExportChain struct {
	StepSize   float64     `json:"step_size"`
	FinalTau   float64     `json:"final_tau"`
	AcceptRate float64     `json:"accept_rate"`
	Diverged   bool        `json:"diverged"`
	DivergedAt int         `json:"diverged_at"`
	States     [][]float64 `json:"states"`
	Grads      [][]float64 `json:"grads"`
}

type ExportData struct {
	Target      string             `json:"target"`
	Dim         int                `json:"dim"`
	Steps       int                `json:"steps"`
	Seed        int64              `json:"seed"`
	AcceptRates []float64          `json:"accept_rates"`
	Metrics     map[string]float64 `json:"metrics"`
	Chains      []ExportChain      `json:"chains"`
}

func buildExport(meta *RunMetadata, result *sampler.Result) ExportData {
	data := ExportData{
		Target:      meta.Target,
		Dim:         result.Dim,
		Steps:       result.Steps,
		Seed:        meta.Seed,
		AcceptRates: result.AcceptRates(),
		Metrics:     meta.Metrics,
		Chains:      make([]ExportChain, len(result.Chains)),
	}

	for i, ch := range result.Chains {
		ec := ExportChain{
			StepSize:   ch.StepSize,
			FinalTau:   ch.FinalTau,
			AcceptRate: ch.AcceptRate,
			Diverged:   ch.Diverged,
			DivergedAt: ch.DivergedAt,
			States:     make([][]float64, len(ch.States)),
			Grads:      make([][]float64, len(ch.Grads)),
		}
		for k, x := range ch.States {
			ec.States[k] = x
		}
		for k, g := range ch.Grads {
			ec.Grads[k] = g
		}
		data.Chains[i] = ec
	}
	return data
}

func ExportJSON(path string, meta *RunMetadata, result *sampler.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, meta, result)
}

func ExportJSONStdout(meta *RunMetadata, result *sampler.Result) error {
	return writeExport(os.Stdout, meta, result)
}

func writeExport(w io.Writer, meta *RunMetadata, result *sampler.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(meta, result))
}
