package tasks

import (
	"fmt"

	"github.com/desertthunder/gamelists/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	SeedGames Phase = iota
	SeedLists
	FetchLists
	ExportList
)

func (p Phase) String() string {
	switch p {
	case SeedGames:
		return "seed_games"
	case SeedLists:
		return "seed_lists"
	case FetchLists:
		return "fetch_lists"
	case ExportList:
		return "export_list"
	default:
		return ""
	}
}

func seedGameUpdate(step, total int, g *models.Game) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedGames,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d)", step, total, g.Title, g.Year),
	}
}

func seedListUpdate(step, total int, l *models.GameList, games int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedLists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d games)", step, total, l.Name, games),
		Data:    l,
	}
}

func fetchingListsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLists,
		Step:    step,
		Total:   total,
		Message: "Loading lists...",
	}
}

func exportingListUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportList,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
