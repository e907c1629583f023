package reveal

// FrameGate lets at most one recomputation be queued per frame. Requests
// made while a frame is pending are absorbed.
type FrameGate struct {
	scheduled bool
}

// Request returns true when the caller should schedule a frame, false when
// one is already pending.
func (g *FrameGate) Request() bool {
	if g.scheduled {
		return false
	}
	g.scheduled = true
	return true
}

// Fire consumes the pending frame, reporting whether there was one.
func (g *FrameGate) Fire() bool {
	if !g.scheduled {
		return false
	}
	g.scheduled = false
	return true
}

// Pending reports whether a frame is scheduled.
func (g *FrameGate) Pending() bool {
	return g.scheduled
}
