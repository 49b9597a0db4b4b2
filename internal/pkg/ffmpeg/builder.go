package ffmpeg

import "fmt"

// baseFilter samples frames and rescales with the lanczos resampler.
func baseFilter(fps int, scale string) string {
	return fmt.Sprintf("fps=%d,scale=%s:flags=lanczos", fps, scale)
}

// PaletteArgs builds the first pass: derive a palette image from the source.
func PaletteArgs(source, palette string, fps int, scale string) []string {
	return []string{
		"-y",
		"-i", source,
		"-vf", baseFilter(fps, scale) + ",palettegen",
		palette,
	}
}

// EncodeArgs builds the second pass: encode the GIF with the palette applied,
// dithering off, looping forever.
func EncodeArgs(source, palette, output string, fps int, scale string) []string {
	return []string{
		"-y",
		"-i", source,
		"-i", palette,
		"-filter_complex", baseFilter(fps, scale) + ",split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse=dither=none",
		"-loop", "0",
		output,
	}
}

// VersionArgs queries the encoder build information.
func VersionArgs() []string {
	return []string{"-version"}
}
