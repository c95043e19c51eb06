package ui

import (
	"bytes"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/preferences"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/storage"
	tu "github.com/desertthunder/staybook/internal/testing"
	"github.com/desertthunder/staybook/internal/wishlist"
)

func newWizard(t *testing.T, kv storage.KeyValue) (*Model, *preferences.Store) {
	t.Helper()
	store := preferences.NewStore(kv, shared.NewLogger(io.Discard))
	m := NewOnboarding(store)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, store
}

// press sends k and feeds any resulting command output back into the model.
func press(m *Model, k tea.KeyMsg) tea.Msg {
	_, cmd := m.Update(k)
	if cmd == nil {
		return nil
	}
	msg := cmd()
	for {
		if _, ok := msg.(Msg); !ok {
			return msg
		}
		_, cmd = m.Update(msg)
		if cmd == nil {
			return nil
		}
		msg = cmd()
	}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestOnboarding(t *testing.T) {
	t.Run("walks every step and completes", func(t *testing.T) {
		kv := storage.NewMemory()
		m, store := newWizard(t, kv)

		if m.Step() != StepLocation {
			t.Fatalf("expected location step, got %v", m.Step())
		}

		press(m, enter)
		if m.Step() != StepBudget {
			t.Fatalf("expected budget step, got %v", m.Step())
		}
		if got := store.Preferences().Location; got != preferences.Locations[0] {
			t.Errorf("expected location %q, got %q", preferences.Locations[0], got)
		}

		press(m, down)
		press(m, enter)
		if m.Step() != StepAmenities {
			t.Fatalf("expected amenities step, got %v", m.Step())
		}
		if got := store.Preferences().Budget; got != models.BudgetPresets[1] {
			t.Errorf("expected budget %v, got %v", models.BudgetPresets[1], got)
		}

		press(m, space)
		press(m, down)
		press(m, space)
		if got := store.Preferences().Amenities; len(got) != 2 || got[0] != "wifi" || got[1] != "pool" {
			t.Errorf("expected wifi and pool, got %v", got)
		}

		press(m, enter)
		if m.Step() != StepStay {
			t.Fatalf("expected stay step, got %v", m.Step())
		}

		press(m, down)
		press(m, right)
		press(m, right)
		msg := press(m, enter)
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected quit after completion, got %T", msg)
		}

		if !m.Completed() {
			t.Error("expected wizard to be completed")
		}
		if !store.Completed() {
			t.Error("expected store to record completion")
		}

		prefs := store.Preferences()
		if prefs.PropertyType != models.PropertyTypes[1] {
			t.Errorf("expected property type %q, got %q", models.PropertyTypes[1], prefs.PropertyType)
		}
		if prefs.TravelFrequency != 0.7 {
			t.Errorf("expected frequency 0.7, got %v", prefs.TravelFrequency)
		}
		if !strings.Contains(m.View(), "Preferences saved") {
			t.Errorf("unexpected final view: %q", m.View())
		}
	})

	t.Run("skip leaves answers unchanged", func(t *testing.T) {
		m, store := newWizard(t, storage.NewMemory())

		press(m, tab)
		press(m, tab)
		if m.Step() != StepAmenities {
			t.Fatalf("expected amenities step, got %v", m.Step())
		}
		if store.HasStored() {
			t.Error("expected nothing to be written")
		}
	})

	t.Run("esc goes back", func(t *testing.T) {
		m, _ := newWizard(t, storage.NewMemory())

		press(m, tab)
		press(m, esc)
		if m.Step() != StepLocation {
			t.Errorf("expected location step, got %v", m.Step())
		}
	})

	t.Run("frequency is clamped", func(t *testing.T) {
		m, _ := newWizard(t, storage.NewMemory())
		m.step = StepStay

		for range 8 {
			press(m, left)
		}
		if m.prefs.TravelFrequency != 0 {
			t.Errorf("expected 0, got %v", m.prefs.TravelFrequency)
		}
		for range 15 {
			press(m, right)
		}
		if m.prefs.TravelFrequency != 1 {
			t.Errorf("expected 1, got %v", m.prefs.TravelFrequency)
		}
	})

	t.Run("save failure stays on step", func(t *testing.T) {
		kv := tu.NewFlakyKV()
		kv.FailOn(storage.KeyUserPreferences)
		m, _ := newWizard(t, kv)

		press(m, enter)
		if m.Step() != StepLocation {
			t.Errorf("expected to stay on location step, got %v", m.Step())
		}
		if m.Err() == nil {
			t.Fatal("expected save error")
		}
		if !strings.Contains(m.View(), "Could not save") {
			t.Error("expected error in view")
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, store := newWizard(t, storage.NewMemory())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected quit message")
		}
		if m.Completed() || store.Completed() {
			t.Error("quitting must not complete onboarding")
		}
		if m.View() != "" {
			t.Error("expected empty view after quit")
		}
	})
}

func TestClampFrequency(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.1, 0},
		{0.30000000000000004, 0.3},
		{0.5, 0.5},
		{1.1, 1},
	}
	for _, tt := range tests {
		if got := clampFrequency(tt.in); got != tt.want {
			t.Errorf("clampFrequency(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToaster(t *testing.T) {
	t.Run("writes one line per notification", func(t *testing.T) {
		var buf bytes.Buffer
		toaster := NewToaster(&buf)

		toaster.Notify(wishlist.Notification{Level: wishlist.LevelSuccess, Title: "Added to wishlist", Message: "Villa"})
		toaster.Notify(wishlist.Notification{Level: wishlist.LevelError, Title: "Error", Message: "Failed"})

		out := buf.String()
		if lines := strings.Count(out, "\n"); lines != 2 {
			t.Errorf("expected 2 lines, got %d: %q", lines, out)
		}
		if !strings.Contains(out, "Added to wishlist") || !strings.Contains(out, "Failed") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("satisfies notifier", func(t *testing.T) {
		var _ wishlist.Notifier = NewToaster(io.Discard)
	})
}
