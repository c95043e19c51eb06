package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/staybook/internal/formatter"
	"github.com/desertthunder/staybook/internal/preferences"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/ui"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

// OnboardingWizard runs the interactive preference wizard.
func (r *Runner) OnboardingWizard(ctx context.Context, cmd *cli.Command) error {
	model := ui.NewOnboarding(r.prefs)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(r.output))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running onboarding wizard: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}
	if !model.Completed() {
		return r.writePlain("Onboarding skipped. Run 'staybook onboarding wizard' any time.\n")
	}
	return nil
}

// OnboardingSet updates individual answers without the wizard.
func (r *Runner) OnboardingSet(ctx context.Context, cmd *cli.Command) error {
	var patch preferences.Patch
	changed := false

	if cmd.IsSet("location") {
		v := cmd.String("location")
		patch.Location = &v
		changed = true
	}
	if cmd.IsSet("budget") {
		v := cmd.Float("budget")
		patch.Budget = &v
		changed = true
	}
	if cmd.IsSet("amenity") {
		patch.Amenities = cmd.StringSlice("amenity")
		changed = true
	}
	if cmd.Bool("clear-amenities") {
		patch.Amenities = []string{}
		changed = true
	}
	if cmd.IsSet("type") {
		v := strings.ToUpper(cmd.String("type"))
		patch.PropertyType = &v
		changed = true
	}
	if cmd.IsSet("frequency") {
		v := cmd.Float("frequency")
		patch.TravelFrequency = &v
		changed = true
	}
	if !changed {
		return fmt.Errorf("%w: set at least one preference flag", shared.ErrMissingArgument)
	}

	if _, err := r.prefs.Update(patch); err != nil {
		return err
	}
	r.writePlain("✓ Preferences saved\n")
	return r.writePreferences(false)
}

// OnboardingStatus shows the stored answers and whether onboarding is due.
func (r *Runner) OnboardingStatus(ctx context.Context, cmd *cli.Command) error {
	return r.writePreferences(cmd.Bool("json"))
}

func (r *Runner) writePreferences(asJSON bool) error {
	prefs := r.prefs.Preferences()
	authenticated := r.session.IsAuthenticated()

	if asJSON {
		return r.writeJSON(map[string]any{
			"preferences":    prefs,
			"stored":         r.prefs.HasStored(),
			"completed":      r.prefs.Completed(),
			"shouldOnboard":  r.prefs.ShouldOnboard(authenticated),
			"recommendation": preferences.Translate(prefs),
		}, true)
	}

	location := prefs.Location
	if location == "" {
		location = "(any)"
	}
	amenities := strings.Join(prefs.Amenities, ", ")
	if amenities == "" {
		amenities = "(none)"
	}

	r.writePlain("Location: %s\n", location)
	r.writePlain("Budget: up to %s\n", formatter.FormatPrice(decimal.NewFromFloat(prefs.Budget)))
	r.writePlain("Amenities: %s\n", amenities)
	r.writePlain("Property type: %s\n", prefs.PropertyType)
	r.writePlain("Travel frequency: %.1f\n", prefs.TravelFrequency)
	r.writePlain("Onboarding completed: %t\n", r.prefs.Completed())
	if r.prefs.ShouldOnboard(authenticated) {
		r.writePlain("Tip: run 'staybook onboarding wizard' for better recommendations.\n")
	}
	return nil
}

// OnboardingComplete marks onboarding as done without changing answers.
func (r *Runner) OnboardingComplete(ctx context.Context, cmd *cli.Command) error {
	if err := r.prefs.Complete(); err != nil {
		return err
	}
	return r.writePlain("✓ Onboarding marked complete\n")
}

// OnboardingReset forgets the answers and the completed flag.
func (r *Runner) OnboardingReset(ctx context.Context, cmd *cli.Command) error {
	ok, err := r.confirm(cmd.Bool("yes"), "Reset all travel preferences?")
	if err != nil || !ok {
		return err
	}
	if err := r.prefs.Reset(); err != nil {
		return err
	}
	return r.writePlain("✓ Preferences reset\n")
}

func onboardingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "onboarding",
		Aliases: []string{"prefs"},
		Usage:   "Travel preferences used for recommendations",
		Commands: []*cli.Command{
			{
				Name:    "wizard",
				Aliases: []string{"start"},
				Usage:   "Answer the preference questions interactively",
				Action:  r.OnboardingWizard,
			},
			{
				Name:  "set",
				Usage: "Update individual preferences",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "location", Usage: strings.Join(preferences.Locations, ", ")},
					&cli.FloatFlag{Name: "budget", Usage: "Nightly budget ceiling"},
					&cli.StringSliceFlag{Name: "amenity", Usage: "Amenity id (repeatable, replaces the selection)"},
					&cli.BoolFlag{Name: "clear-amenities", Usage: "Clear the amenity selection"},
					&cli.StringFlag{Name: "type", Usage: "Preferred property type"},
					&cli.FloatFlag{Name: "frequency", Usage: "Travel frequency from 0 to 1"},
				},
				Action: r.OnboardingSet,
			},
			{
				Name:   "status",
				Usage:  "Show stored preferences",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.OnboardingStatus,
			},
			{
				Name:   "complete",
				Usage:  "Mark onboarding as done",
				Action: r.OnboardingComplete,
			},
			{
				Name:  "reset",
				Usage: "Forget all preferences",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.OnboardingReset,
			},
		},
	}
}
