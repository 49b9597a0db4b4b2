package entity

import "time"

// ConversionRequest describes one upload to turn into a GIF.
type ConversionRequest struct {
	SourceFilePath string
	FPS            int
	Scale          string
}

// ConversionJob holds the files that belong to a single request.
type ConversionJob struct {
	Token           string
	SourceFilePath  string
	SourceName      string
	PaletteFilePath string
	PaletteName     string
	OutputFilePath  string
	OutputName      string
}

type ConversionResult struct {
	Token     string `json:"-"`
	GifURL    string `json:"gifUrl"`
	PosterURL string `json:"posterUrl,omitempty"`
}

const (
	EventStatusCompleted = "completed"
	EventStatusFailed    = "failed"

	PhasePalette = "palette"
	PhaseEncode  = "encode"
)

// ConversionEvent is published once per finished job.
type ConversionEvent struct {
	Token      string    `json:"token"`
	Status     string    `json:"status"`
	Phase      string    `json:"phase,omitempty"`
	GifURL     string    `json:"gif_url,omitempty"`
	Error      string    `json:"error,omitempty"`
	FPS        int       `json:"fps"`
	Scale      string    `json:"scale"`
	DurationMs int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}
