package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = optionItem{}
)

// optionItem is a selectable answer backed by value.
type optionItem struct {
	value string
	title string
	desc  string
}

func (i optionItem) FilterValue() string { return i.title }
func (i optionItem) Title() string       { return i.title }
func (i optionItem) Description() string { return i.desc }

var locationDescriptions = map[string]string{
	"Hanoi":            "Old Quarter, lakes and street food",
	"Ho Chi Minh City": "Markets, rooftops and nightlife",
	"Da Nang":          "Beaches, bridges and the Marble Mountains",
}

func locationItems(locations []string) []list.Item {
	items := make([]list.Item, 0, len(locations))
	for _, loc := range locations {
		items = append(items, optionItem{value: loc, title: loc, desc: locationDescriptions[loc]})
	}
	return items
}
