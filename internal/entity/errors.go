package entity

import "errors"

var (
	ErrMissingFile = errors.New("no video file uploaded")
)

// PaletteGenerationError is returned when the first encoder pass fails.
type PaletteGenerationError struct {
	Err error
}

func (e *PaletteGenerationError) Error() string {
	return "Palette generation error: " + e.Err.Error()
}

func (e *PaletteGenerationError) Unwrap() error { return e.Err }

// EncodingError is returned when the palette-applying GIF pass fails.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return "FFmpeg error: " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error { return e.Err }
