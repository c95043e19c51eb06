package ui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/staybook/internal/formatter"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/preferences"
	"github.com/shopspring/decimal"
)

// Step is a page of the onboarding wizard.
type Step int

const (
	StepLocation Step = iota
	StepBudget
	StepAmenities
	StepStay
	StepDone
)

const (
	stepCount     = 4
	frequencyStep = 0.1
)

var amenityLabels = map[string]string{
	"wifi":      "Wi-Fi",
	"pool":      "Pool",
	"ac":        "Air conditioning",
	"kitchen":   "Kitchen",
	"washer":    "Washer",
	"parking":   "Free parking",
	"tv":        "TV",
	"workspace": "Workspace",
	"beach":     "Beach access",
	"gym":       "Gym",
}

// PreferenceStore is what the wizard writes answers to.
type PreferenceStore interface {
	Preferences() models.UserPreferences
	Update(patch preferences.Patch) (models.UserPreferences, error)
	ToggleAmenity(id string) (models.UserPreferences, error)
	Complete() error
}

// Model is the onboarding wizard state.
type Model struct {
	store     PreferenceStore
	step      Step
	prefs     models.UserPreferences
	cursor    int
	locations list.Model
	width     int
	height    int
	completed bool
	quitting  bool
	err       error
	help      help.Model
	keys      keyMap
}

// NewOnboarding creates the wizard, starting from the store's current answers.
func NewOnboarding(store PreferenceStore) *Model {
	prefs := store.Preferences()

	locations := list.New(locationItems(preferences.Locations), list.NewDefaultDelegate(), 0, 0)
	locations.Title = "Where are you headed?"
	locations.SetShowHelp(false)
	if i := slices.Index(preferences.Locations, prefs.Location); i >= 0 {
		locations.Select(i)
	}

	return &Model{
		store:     store,
		step:      StepLocation,
		prefs:     prefs,
		locations: locations,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Step returns the current page.
func (m *Model) Step() Step { return m.step }

// Completed reports whether the wizard was finished and saved.
func (m *Model) Completed() bool { return m.completed }

// Err returns the last save error.
func (m *Model) Err() error { return m.err }

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.locations.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && m.locations.FilterState() != list.Filtering {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.step {
		case StepLocation:
			return m.handleLocationKeys(msg)
		case StepBudget:
			return m.handleBudgetKeys(msg)
		case StepAmenities:
			return m.handleAmenityKeys(msg)
		case StepStay:
			return m.handleStayKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	if m.step == StepLocation {
		var cmd tea.Cmd
		m.locations, cmd = m.locations.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSaved:
		data := msg.data.(savedData)
		m.err = data.err
		if data.err != nil {
			return m, nil
		}
		m.prefs = data.prefs
		if data.advance {
			return m.advance()
		}
	case MsgCompleted:
		if err, _ := msg.data.(error); err != nil {
			m.err = err
			return m, nil
		}
		m.completed = true
		m.step = StepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) advance() (tea.Model, tea.Cmd) {
	if m.step == StepStay {
		return m, m.complete()
	}
	m.step++
	m.cursor = m.initialCursor()
	return m, nil
}

func (m *Model) initialCursor() int {
	switch m.step {
	case StepBudget:
		if i := slices.Index(models.BudgetPresets, m.prefs.Budget); i >= 0 {
			return i
		}
	case StepStay:
		if i := slices.Index(models.PropertyTypes, m.prefs.PropertyType); i >= 0 {
			return i
		}
	}
	return 0
}

func (m *Model) handleLocationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.locations.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.locations.SelectedItem().(optionItem); ok {
				loc := item.value
				return m, m.save(preferences.Patch{Location: &loc}, true)
			}
			return m, nil
		case key.Matches(msg, m.keys.skip):
			return m.advance()
		}
	}

	var cmd tea.Cmd
	m.locations, cmd = m.locations.Update(msg)
	return m, cmd
}

func (m *Model) handleBudgetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.cursor = min(m.cursor+1, len(models.BudgetPresets)-1)
	case key.Matches(msg, m.keys.enter):
		budget := models.BudgetPresets[m.cursor]
		return m, m.save(preferences.Patch{Budget: &budget}, true)
	case key.Matches(msg, m.keys.skip):
		return m.advance()
	case key.Matches(msg, m.keys.back):
		m.back()
	}
	return m, nil
}

func (m *Model) handleAmenityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.cursor = min(m.cursor+1, len(models.AmenityIDs)-1)
	case key.Matches(msg, m.keys.toggle):
		return m, m.toggle(models.AmenityIDs[m.cursor])
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.skip):
		return m.advance()
	case key.Matches(msg, m.keys.back):
		m.back()
	}
	return m, nil
}

func (m *Model) handleStayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.cursor = min(m.cursor+1, len(models.PropertyTypes)-1)
	case key.Matches(msg, m.keys.left):
		m.prefs.TravelFrequency = clampFrequency(m.prefs.TravelFrequency - frequencyStep)
	case key.Matches(msg, m.keys.right):
		m.prefs.TravelFrequency = clampFrequency(m.prefs.TravelFrequency + frequencyStep)
	case key.Matches(msg, m.keys.enter):
		propertyType := models.PropertyTypes[m.cursor]
		frequency := m.prefs.TravelFrequency
		return m, m.save(preferences.Patch{PropertyType: &propertyType, TravelFrequency: &frequency}, true)
	case key.Matches(msg, m.keys.skip):
		return m.advance()
	case key.Matches(msg, m.keys.back):
		m.back()
	}
	return m, nil
}

func (m *Model) back() {
	if m.step > StepLocation {
		m.step--
		m.cursor = m.initialCursor()
	}
}

// clampFrequency keeps the score in [0, 1] on one decimal place.
func clampFrequency(v float64) float64 {
	return math.Round(math.Max(0, math.Min(1, v))*10) / 10
}

func (m *Model) save(patch preferences.Patch, advance bool) tea.Cmd {
	return func() tea.Msg {
		prefs, err := m.store.Update(patch)
		return savedMsg(prefs, err, advance)
	}
}

func (m *Model) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		prefs, err := m.store.ToggleAmenity(id)
		return savedMsg(prefs, err, false)
	}
}

func (m *Model) complete() tea.Cmd {
	return func() tea.Msg {
		return completedMsg(m.store.Complete())
	}
}

// View renders the current step.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.step {
	case StepLocation:
		body = m.locations.View()
	case StepBudget:
		body = m.renderBudget()
	case StepAmenities:
		body = m.renderAmenities()
	case StepStay:
		body = m.renderStay()
	case StepDone:
		return styles.ok.Render("✓ Preferences saved. Your recommendations are ready.") + "\n"
	}

	header := styles.help.Render(fmt.Sprintf("Step %d of %d", int(m.step)+1, stepCount))
	out := fmt.Sprintf("%s\n%s", header, body)
	if m.err != nil {
		out += "\n" + styles.err.Render(fmt.Sprintf("Could not save: %v", m.err))
	}
	return out + "\n\n" + m.help.ShortHelpView(m.stepKeys())
}

func (m *Model) stepKeys() []key.Binding {
	switch m.step {
	case StepAmenities:
		return []key.Binding{m.keys.toggle, m.keys.enter, m.keys.back, m.keys.quit}
	case StepStay:
		return []key.Binding{m.keys.up, m.keys.left, m.keys.right, m.keys.enter, m.keys.quit}
	default:
		return []key.Binding{m.keys.enter, m.keys.skip, m.keys.back, m.keys.quit}
	}
}

func (m *Model) renderBudget() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("What is your nightly budget?"))
	b.WriteString("\n")
	for i, budget := range models.BudgetPresets {
		line := "Up to " + formatter.FormatPrice(decimal.NewFromFloat(budget))
		b.WriteString(m.option(i == m.cursor, budget == m.prefs.Budget, line))
	}
	return b.String()
}

func (m *Model) renderAmenities() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Which amenities matter to you?"))
	b.WriteString("\n")
	for i, id := range models.AmenityIDs {
		label := amenityLabels[id]
		if label == "" {
			label = id
		}
		b.WriteString(m.option(i == m.cursor, m.prefs.HasAmenity(id), label))
	}
	return b.String()
}

func (m *Model) renderStay() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("What kind of stay do you prefer?"))
	b.WriteString("\n")
	for i, t := range models.PropertyTypes {
		b.WriteString(m.option(i == m.cursor, t == m.prefs.PropertyType, t))
	}

	filled := int(math.Round(m.prefs.TravelFrequency * 10))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	fmt.Fprintf(&b, "\nHow often do you travel?  rarely %s often  (%.1f)\n", bar, m.prefs.TravelFrequency)
	return b.String()
}

func (m *Model) option(focused, chosen bool, label string) string {
	cursor := "  "
	if focused {
		cursor = "> "
	}
	mark := "[ ] "
	if chosen {
		mark = "[x] "
	}
	line := cursor + mark + label
	if focused {
		line = styles.selected.Render(line)
	}
	return line + "\n"
}
