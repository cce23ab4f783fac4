package tui

import "github.com/driftlab/blobtask/internal/model"

// blobColorTags returns the palette in picker order
func blobColorTags() []string {
	return model.BlobColors
}
