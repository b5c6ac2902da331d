package tasks

import "fmt"

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
	QueuePosters Phase = iota
	DownloadPoster
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case QueuePosters:
		return "queue_posters"
	case DownloadPoster:
		return "download_poster"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func queuedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueuePosters,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Queueing %d posters...", total),
	}
}

func downloadedUpdate(step, total int, res PosterResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPoster,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title),
		Data:    res,
	}
}

func failedUpdate(step, total int, res PosterResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadPoster,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest %s", path),
	}
}
