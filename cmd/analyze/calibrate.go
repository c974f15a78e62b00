package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/aggregator"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/calibrator"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/evidence"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/target"
)

// sampleFile is the on-disk shape for an annotated calibration training
// set (C9's input): a JSON object whose "samples" array holds one entry per
// sample, each carrying the evidence a progression produced plus the
// adjudicator's verdict.
type sampleFile struct {
	Samples []sampleDTO `json:"samples"`
}

type sampleDTO struct {
	ID                 string        `json:"id"`
	Track              string        `json:"track"`
	HumanJudged        bool          `json:"human_judged"`
	HumanJudgedCorrect bool          `json:"human_judged_correct"`
	OutsideKeyRatio    float64       `json:"outside_key_ratio"`
	ModalCharScore     float64       `json:"modal_char_score"`
	Evidence           []evidenceDTO `json:"evidence"`
}

type evidenceDTO struct {
	PatternID    string             `json:"pattern_id"`
	Family       string             `json:"family"`
	Start        int                `json:"start"`
	End          int                `json:"end"`
	RawScore     float64            `json:"raw_score"`
	TrackWeights map[string]float64 `json:"track_weights"`
}

func newCalibrateCmd() *cobra.Command {
	var samplesPath string
	calibrateCmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Offline calibration tooling (C9 target builder + C8 fitting)",
	}
	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Build reliability targets from annotated samples and fit a calibration mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrateFit(samplesPath)
		},
	}
	fitCmd.Flags().StringVar(&samplesPath, "samples", "", "path to an annotated samples JSON file")
	fitCmd.MarkFlagRequired("samples")
	calibrateCmd.AddCommand(fitCmd)
	return calibrateCmd
}

func runCalibrateFit(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading samples file: %w", err)
	}
	var sf sampleFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parsing samples file: %w", err)
	}

	annotations := make([]target.Annotation, 0, len(sf.Samples))
	for _, s := range sf.Samples {
		annotations = append(annotations, target.Annotation{
			ID:                 s.ID,
			Track:              s.Track,
			HumanJudged:        s.HumanJudged,
			HumanJudgedCorrect: s.HumanJudgedCorrect,
			OutsideKeyRatio:    s.OutsideKeyRatio,
			ModalCharScore:     s.ModalCharScore,
			Evidence:           toEvidence(s.Evidence),
		})
	}

	pairs := target.Build(annotations, aggregator.DefaultConfig())
	rawScores, targets := target.Split(pairs)
	mapping := calibrator.FitBest(rawScores, targets)

	report := map[string]any{
		"method":         mapping.Method,
		"passed_gates":   mapping.PassedGates,
		"n":              mapping.Diagnostics.N,
		"correlation":    mapping.Diagnostics.Correlation,
		"var_target":     mapping.Diagnostics.TargetVariance,
		"ece_before":     mapping.Diagnostics.ECEBefore,
		"ece_after":      mapping.Diagnostics.ECEAfter,
		"brier":          mapping.Diagnostics.Brier,
		"failure_reason": mapping.Diagnostics.FailureReason,
		"stratum_counts": target.StratumCounts(pairs),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func toEvidence(dtos []evidenceDTO) []evidence.Evidence {
	out := make([]evidence.Evidence, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, evidence.Evidence{
			PatternID:    d.PatternID,
			Family:       d.Family,
			Span:         evidence.Span{Start: d.Start, End: d.End},
			RawScore:     d.RawScore,
			TrackWeights: d.TrackWeights,
		})
	}
	return out
}
