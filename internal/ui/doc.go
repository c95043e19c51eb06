// Package ui implements the interactive onboarding wizard using bubbletea's Elm architecture.
//
// The wizard walks an anonymous user through four steps:
//  1. [StepLocation] : Pick a destination from a filterable list
//  2. [StepBudget] : Pick a nightly budget ceiling
//  3. [StepAmenities] : Toggle must-have amenities
//  4. [StepStay] : Pick a property type and how often they travel
//
// Every answer is written through the preferences store as a [tea.Cmd], so quitting halfway
// keeps what was answered. Finishing the last step marks onboarding complete.
//
// [Toaster] renders store notifications to a terminal with the same palette.
package ui
