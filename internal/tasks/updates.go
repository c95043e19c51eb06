package tasks

import (
	"fmt"
	"strings"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProperties Phase = iota
	WriteExport
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchProperties:
		return "fetch_properties"
	case WriteExport:
		return "write_export"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingPropertiesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProperties,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching %d properties...", total),
	}
}

func fetchedPropertyUpdate(step, total int, res PropertyFetchResult) ProgressUpdate {
	if res.Error != nil {
		return ProgressUpdate{
			Phase:   FetchProperties,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ #%d: %v", step, total, res.AccommodationID, res.Error),
		}
	}
	return ProgressUpdate{
		Phase:   FetchProperties,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Property.Name),
		Data:    res.Property,
	}
}

func writingExportUpdate(format string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d properties as %s...", count, format),
	}
}

func manifestUpdate(files []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %s", strings.Join(files, ", ")),
		Data:    files,
	}
}
