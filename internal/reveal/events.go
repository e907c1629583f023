package reveal

// EventKind describes what changed in a controller.
type EventKind string

const (
	TextChanged    EventKind = "text_changed"
	VisibleChanged EventKind = "visible_changed"
	LengthChanged  EventKind = "length_changed"
)

// Event is published on the controller's broker after each state change.
type Event struct {
	Kind         EventKind
	SessionID    string
	TotalWords   int
	VisibleWords int
	Length       int
	Custom       bool
}
