package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Open decodes the JSON file filename into a T.
func Open[T any](filename string) (T, error) {
	var target T
	file, err := os.ReadFile(filename)
	if err != nil {
		return target, err
	}
	if err := json.Unmarshal(file, &target); err != nil {
		return target, fmt.Errorf("decode %s: %w", filename, err)
	}
	return target, nil
}

// ProgressBar returns a counting bar of length steps written to w.
func ProgressBar(length int, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		length,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
