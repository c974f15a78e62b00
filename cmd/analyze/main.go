// Command analyze is the CLI front-end for the harmonic analysis engine.
// It only ever calls into the harmonic package — it never reimplements
// analysis logic itself, mirroring the teacher's main.go -> parser/midi/
// display separation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	actx "github.com/Conceptual-Machines/harmonic-analysis-engine/context"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/export/midiecho"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/harmonic"
	"github.com/Conceptual-Machines/harmonic-analysis-engine/patterns"
)

var (
	flagKey         string
	flagProfile     string
	flagCapo        int
	flagInteractive bool
	flagPatternsDir string
	flagMIDIOut     string
)

func main() {
	root := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze chord progressions, roman numerals, scales, and melodies",
	}
	root.PersistentFlags().StringVar(&flagKey, "key", "", "key hint, e.g. \"C major\" or \"D dorian\"")
	root.PersistentFlags().StringVar(&flagProfile, "profile", "classical", "stylistic profile: classical|jazz|pop|choral|folk")
	root.PersistentFlags().IntVar(&flagCapo, "capo", 0, "capo fret, passed through to the result envelope")
	root.PersistentFlags().BoolVar(&flagInteractive, "interactive", false, "render with the bubbletea viewer instead of printing once")
	root.PersistentFlags().StringVar(&flagPatternsDir, "patterns", "patterns/data", "pattern catalogue directory")
	root.PersistentFlags().StringVar(&flagMIDIOut, "midi-out", "", "write a scratch MIDI echo of the chord progression to this path")

	root.AddCommand(
		newChordsCmd(),
		newRomansCmd(),
		newNotesCmd(),
		newMelodyCmd(),
		newPatternsCmd(),
		newCalibrateCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildEngine() (*harmonic.Engine, error) {
	cat, err := patterns.LoadDir(flagPatternsDir)
	if err != nil {
		return nil, fmt.Errorf("loading pattern catalogue: %w", err)
	}
	return harmonic.New(cat)
}

func runAnalysis(in harmonic.Input) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	env, err := engine.Analyze(context.Background(), in)
	if err != nil {
		return err
	}

	if flagMIDIOut != "" {
		if err := writeMIDIEcho(in, flagMIDIOut); err != nil {
			fmt.Fprintln(os.Stderr, "midi echo:", err)
		} else {
			env.MIDIPath = flagMIDIOut
		}
	}

	if flagInteractive {
		return runInteractive(env)
	}
	fmt.Print(Render(env))
	return nil
}

func writeMIDIEcho(in harmonic.Input, path string) error {
	ctx, err := actx.Build(actx.Input{
		Chords:  in.Chords,
		Romans:  in.Romans,
		KeyHint: in.KeyHint,
		Profile: actx.Profile(in.Profile),
	})
	if err != nil {
		return err
	}
	_, err = midiecho.Write(path, ctx.Chords, 120)
	return err
}

func newChordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chords [chord...]",
		Short: "Analyze a chord progression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(harmonic.Input{Chords: args, KeyHint: flagKey, Profile: flagProfile, Capo: flagCapo})
		},
	}
}

func newRomansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "romans [numeral...]",
		Short: "Analyze a roman-numeral progression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(harmonic.Input{Romans: args, KeyHint: flagKey, Profile: flagProfile, Capo: flagCapo})
		},
	}
}

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes [note...]",
		Short: "Analyze a scale/note collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(harmonic.Input{Notes: args, KeyHint: flagKey, Profile: flagProfile})
		},
	}
}

func newMelodyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "melody [note...]",
		Short: "Analyze a melodic line (notes with octave, e.g. C4 D4 E4)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(harmonic.Input{Melody: args, KeyHint: flagKey, Profile: flagProfile})
		},
	}
}

func newPatternsCmd() *cobra.Command {
	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "Pattern catalogue tooling",
	}
	patternsCmd.AddCommand(&cobra.Command{
		Use:   "validate [dir]",
		Short: "Load and validate a pattern catalogue directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := flagPatternsDir
			if len(args) == 1 {
				dir = args[0]
			}
			cat, err := patterns.LoadDir(dir)
			if err != nil {
				return err
			}
			fmt.Printf("%d pattern(s) loaded and valid from %s\n", cat.Len(), dir)
			return nil
		},
	})
	return patternsCmd
}
