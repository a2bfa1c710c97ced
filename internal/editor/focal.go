package editor

import "github.com/iliyamo/studio-site/internal/model"

// FocalPointFromClick converts a click at (x, y) inside a preview of the
// given size into a normalized focal point.  Clicks outside the preview are
// clamped to its edges; a preview without area yields the center.
func FocalPointFromClick(x, y, width, height float64) model.FocalPoint {
	if width <= 0 || height <= 0 {
		return model.Center()
	}
	return model.FocalPoint{X: x / width, Y: y / height}.Clamp()
}
