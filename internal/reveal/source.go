package reveal

// Source is a scroll container the controller can measure.
type Source interface {
	// Measure returns the current scroll snapshot. Only valid after layout.
	Measure() Measurement
	// Subscribe registers fn to run whenever the container scrolls or is
	// resized. The returned release func unregisters it.
	Subscribe(fn func()) (release func())
	// ScrollToOrigin moves the container back to its start.
	ScrollToOrigin()
}
