package tasks

import (
	"fmt"

	"github.com/desertthunder/moviex/internal/formatter"
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
	FetchFirstPage Phase = iota
	FetchPages
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchFirstPage:
		return "fetch_first_page"
	case FetchPages:
		return "fetch_pages"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func firstPageUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFirstPage,
		Step:    1,
		Total:   1,
		Message: "Fetching first page...",
	}
}

func pageCountUpdate(total int, local bool) ProgressUpdate {
	msg := fmt.Sprintf("Catalog has %d pages", total)
	if local {
		msg = "Backend returned the whole catalog, paging locally"
	}
	return ProgressUpdate{
		Phase:   FetchFirstPage,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    total,
	}
}

func pageFetchedUpdate(step, total, page, records int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ page %d (%d movies)", step, total, page+1, records),
	}
}

func pageFailedUpdate(step, total, page int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ page %d: %v", step, total, page+1, err),
	}
}

func writeExportUpdate(format formatter.Format, records int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d movies as %s...", records, format),
	}
}
