package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/gamelists/internal/shared"
)

// Manifest summarizes a bulk export run.
type Manifest struct {
	Format            Format          `json:"format"`
	CreatedAt         time.Time       `json:"created_at"`
	OutputDirectory   string          `json:"output_directory"`
	TotalLists        int             `json:"total_lists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Lists             []ManifestEntry `json:"lists"`
}

// ManifestEntry is the outcome of exporting one list.
type ManifestEntry struct {
	ListID   int64    `json:"list_id"`
	ListName string   `json:"list_name"`
	Status   string   `json:"status"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
