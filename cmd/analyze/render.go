package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Conceptual-Machines/harmonic-analysis-engine/envelope"
)

// Styles adapted from the teacher's live-display palette (display.tui.go),
// reused here for a static result render instead of a scrolling transport.
var (
	primaryColor   = lipgloss.Color("#00FFFF")
	secondaryColor = lipgloss.Color("#FFFF00")
	accentColor    = lipgloss.Color("#00FF00")
	dimColor       = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	headerStyle = lipgloss.NewStyle().Foreground(dimColor)
	primaryRomanStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	cadenceStyle = lipgloss.NewStyle().Foreground(accentColor)
	chromaticStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	scoreStyle = lipgloss.NewStyle().Foreground(dimColor)
)

// Render builds the colored tree view of one analysis envelope, the
// non-interactive counterpart of the teacher's scrolling transport view.
func Render(env *envelope.AnalysisEnvelope) string {
	var b strings.Builder

	fmt.Fprintln(&b, titleStyle.Render(fmt.Sprintf("Harmonic Analysis — %s (%s)", env.Input.Key, env.Input.Profile)))
	if env.Input.KeyWasInferred {
		fmt.Fprintln(&b, headerStyle.Render("  key inferred"))
	}

	if len(env.Summary.RomanNumerals) > 0 {
		fmt.Fprintln(&b, headerStyle.Render("Roman numerals:"))
		fmt.Fprintln(&b, "  "+primaryRomanStyle.Render(strings.Join(env.Summary.RomanNumerals, "  ")))
	}

	fmt.Fprintln(&b, headerStyle.Render(fmt.Sprintf("Primary track: %s (confidence=%.2f)", env.Summary.PrimaryTrack, env.Summary.Confidence)))
	fmt.Fprintln(&b, "  "+env.Summary.Reasoning)

	for _, c := range env.Summary.Cadences {
		marker := ""
		if c.Final {
			marker = " (final)"
		}
		fmt.Fprintln(&b, "  "+cadenceStyle.Render(fmt.Sprintf("cadence@%d: %s%s", c.Index, c.Type, marker)))
	}
	for _, el := range env.Summary.ChromaticElements {
		fmt.Fprintln(&b, "  "+chromaticStyle.Render(fmt.Sprintf("chromatic@%d: %s (%s)", el.Index, el.RomanLabel, el.Explanation)))
	}

	for _, m := range env.Summary.MatchedPatterns {
		fmt.Fprintln(&b, headerStyle.Render(fmt.Sprintf("%s track score: %.2f", m.Track, m.Score)))
		for _, ev := range m.Evidence {
			fmt.Fprintln(&b, "  "+scoreStyle.Render(fmt.Sprintf("%s [%d,%d) raw=%.2f cal=%.2f", ev.PatternName, ev.Span[0], ev.Span[1], ev.RawScore, ev.Calibrated)))
		}
	}

	if len(env.Alternatives) > 0 {
		fmt.Fprintln(&b, headerStyle.Render("Alternatives:"))
		for _, alt := range env.Alternatives {
			fmt.Fprintln(&b, "  "+scoreStyle.Render(fmt.Sprintf("%s score=%.2f", alt.Track, alt.Score)))
		}
	}

	if env.Summary.Scale != nil {
		fmt.Fprintln(&b, headerStyle.Render("Scale:"))
		fmt.Fprintln(&b, "  "+strings.Join(env.Summary.Scale.CharacteristicNotes, " "))
	}
	if env.Summary.Melody != nil {
		fmt.Fprintln(&b, headerStyle.Render("Melody:"))
		fmt.Fprintln(&b, fmt.Sprintf("  contour=%s leading-tone resolutions=%d", env.Summary.Melody.Contour, env.Summary.Melody.LeadingToneResolutions))
	}

	return b.String()
}

// resultModel is a minimal bubbletea program that shows the rendered
// result and quits on any keypress, mirroring the teacher's TUIModel
// lifecycle without its transport controls.
type resultModel struct {
	body string
}

func (m resultModel) Init() tea.Cmd { return nil }

func (m resultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m resultModel) View() string {
	return m.body + "\n" + headerStyle.Render("(press any key to exit)") + "\n"
}

func runInteractive(env *envelope.AnalysisEnvelope) error {
	p := tea.NewProgram(resultModel{body: Render(env)})
	_, err := p.Run()
	return err
}
