package model

import "strconv"

// FocalPoint is a normalized coordinate marking the visually important part
// of an image.  Both axes run from 0 (left/top) to 1 (right/bottom).
type FocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DefaultFocal is the image center, used whenever no focal point is stored.
const DefaultFocal = 0.5

// Center returns the default focal point.
func Center() FocalPoint { return FocalPoint{X: DefaultFocal, Y: DefaultFocal} }

// Clamp limits both axes to [0,1].
func (p FocalPoint) Clamp() FocalPoint {
	return FocalPoint{X: clamp01(p.X), Y: clamp01(p.Y)}
}

// CSSPosition renders the point as a CSS object-position value.
func (p FocalPoint) CSSPosition() string {
	c := p.Clamp()
	return formatPercent(c.X) + " " + formatPercent(c.Y)
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return DefaultFocal
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', -1, 64) + "%"
}
