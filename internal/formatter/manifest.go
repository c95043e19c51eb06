package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/staybook/internal/shared"
)

// ManifestEntry records the outcome for one property of a bulk fetch.
type ManifestEntry struct {
	AccommodationID int64  `json:"accommodation_id"`
	Name            string `json:"name,omitempty"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
}

// Manifest summarizes a bulk fetch and the files it produced.
type Manifest struct {
	Format      string          `json:"format"`
	GeneratedAt time.Time       `json:"generated_at"`
	Total       int             `json:"total"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	Files       []string        `json:"files"`
	Entries     []ManifestEntry `json:"entries"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
