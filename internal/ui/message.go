package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/staybook/internal/models"
)

// MsgKind enumerates all message types in the wizard.
type MsgKind int

// Msg represents all possible messages in the wizard (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSaved MsgKind = iota
	MsgCompleted
)

type savedData struct {
	prefs   models.UserPreferences
	err     error
	advance bool
}

// savedMsg is the constructor for [MsgSaved]
func savedMsg(prefs models.UserPreferences, err error, advance bool) Msg {
	return Msg{kind: MsgSaved, data: savedData{prefs: prefs, err: err, advance: advance}}
}

// completedMsg is the constructor for [MsgCompleted]
func completedMsg(err error) Msg {
	return Msg{kind: MsgCompleted, data: err}
}
