package reveal

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/scrollmem/internal/log"
	"github.com/zjrosen/scrollmem/internal/pubsub"
	"github.com/zjrosen/scrollmem/internal/tokenizer"
	"github.com/zjrosen/scrollmem/internal/tracing"
)

// Tokenizer turns text into tokens. Both tokenizer.Direct and
// *tokenizer.Cache satisfy it.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) []tokenizer.Token
}

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Policy    LengthPolicy
	Tokenizer Tokenizer
	Tracer    trace.Tracer
	SessionID string
}

// Span is one token as the view should render it.
type Span struct {
	Text    string
	IsWord  bool
	Visible bool
}

// Controller owns one reveal session: the tokens of the current text, how
// many words are revealed and the scroll length. It is not safe for
// concurrent use; all calls come from the UI event loop.
type Controller struct {
	id     string
	policy LengthPolicy
	tok    Tokenizer
	tracer trace.Tracer
	events *pubsub.Broker[Event]

	text         string
	tokens       []tokenizer.Token
	totalWords   int
	visibleWords int
	length       ScrollLength

	src     Source
	release func()

	gate        FrameGate
	frameWanted bool
}

// NewController creates an empty session. Call OnTextChanged to load text.
func NewController(opts Options) *Controller {
	policy := opts.Policy
	if policy.Validate() != nil {
		policy = DefaultLengthPolicy()
	}
	tok := opts.Tokenizer
	if tok == nil {
		tok = tokenizer.Direct{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Noop()
	}
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	return &Controller{
		id:     id,
		policy: policy,
		tok:    tok,
		tracer: tracer,
		events: pubsub.NewBroker[Event](),
		length: ScrollLength{Length: policy.Min},
	}
}

// SessionID identifies this controller in logs and traces.
func (c *Controller) SessionID() string { return c.id }

// Policy returns the scroll length policy in effect.
func (c *Controller) Policy() LengthPolicy { return c.policy }

// Events is the broker on which state changes are published.
func (c *Controller) Events() *pubsub.Broker[Event] { return c.events }

// Text returns the current source text.
func (c *Controller) Text() string { return c.text }

// Counts returns the revealed and total word counts.
func (c *Controller) Counts() (visible, total int) {
	return c.visibleWords, c.totalWords
}

// Length returns the current scroll length and whether the user set it.
func (c *Controller) Length() ScrollLength { return c.length }

// ResetEnabled reports whether ResetLength would change anything visible to
// the user, i.e. whether a custom length is in effect.
func (c *Controller) ResetEnabled() bool { return c.length.Custom }

// Spans returns the tokens paired with their visibility.
func (c *Controller) Spans() []Span {
	spans := make([]Span, len(c.tokens))
	for i, tok := range c.tokens {
		spans[i] = Span{
			Text:    tok.Text,
			IsWord:  tok.IsWord,
			Visible: tokenizer.Visible(tok, c.visibleWords),
		}
	}
	return spans
}

// Attach subscribes to src, releasing any previous source first. The
// controller measures src on every frame it schedules.
func (c *Controller) Attach(src Source) {
	c.Detach()
	if src == nil {
		return
	}
	c.src = src
	c.release = src.Subscribe(c.RequestFrame)
	c.RequestFrame()
	log.Debug(log.CatReveal, "attached source", "session", c.id)
}

// Detach releases the current source subscription. Safe to call repeatedly.
func (c *Controller) Detach() {
	if c.release != nil {
		c.release()
		log.Debug(log.CatReveal, "detached source", "session", c.id)
	}
	c.release = nil
	c.src = nil
}

// Close detaches and closes the event broker.
func (c *Controller) Close() {
	c.Detach()
	c.events.Close()
}

// OnTextChanged replaces the text. The whole text is revealed until the next
// frame measures the (reset) scroll position.
func (c *Controller) OnTextChanged(ctx context.Context, text string) {
	_, span := tracing.StartSession(ctx, c.tracer, tracing.SpanTextChanged, c.id,
		attribute.Int(tracing.AttrTextBytes, len(text)))
	defer span.End()

	c.text = text
	c.tokens = c.tok.Tokenize(ctx, text)
	c.totalWords = tokenizer.TotalWords(c.tokens)
	c.visibleWords = c.totalWords

	if c.src != nil {
		c.src.ScrollToOrigin()
	}

	span.SetAttributes(attribute.Int(tracing.AttrTotalWords, c.totalWords))
	log.Debug(log.CatReveal, "text changed", "session", c.id, "words", c.totalWords, "custom", c.length.Custom)

	lengthChanged := !c.length.Custom && c.setLength(c.policy.Auto(c.totalWords), false)
	c.publish(TextChanged)
	if lengthChanged {
		c.publish(LengthChanged)
	}
	c.RequestFrame()
}

// OnScroll recomputes the revealed word count from m. It reports whether the
// count changed.
func (c *Controller) OnScroll(m Measurement) bool {
	visible := clampInt(ComputeVisibleWords(m, c.totalWords), 0, c.totalWords)
	if visible == c.visibleWords {
		return false
	}
	c.visibleWords = visible
	log.Debug(log.CatReveal, "visible words", "session", c.id, "visible", visible, "total", c.totalWords)
	c.publish(VisibleChanged)
	return true
}

// SetLength applies a user-chosen length. Non-finite values are ignored and
// false is returned; anything else is rounded, clamped and marks the length
// custom.
func (c *Controller) SetLength(ctx context.Context, v float64) bool {
	length, ok := c.policy.Clamp(v)
	if !ok {
		log.Debug(log.CatLength, "ignored non-finite length", "session", c.id)
		return false
	}

	_, span := tracing.StartSession(ctx, c.tracer, tracing.SpanSetLength, c.id,
		attribute.Int(tracing.AttrLength, length))
	defer span.End()

	c.applyLength(length, true)
	c.RequestFrame()
	return true
}

// ResetLength returns to the automatic length for the current word count.
func (c *Controller) ResetLength(ctx context.Context) {
	length := c.policy.Auto(c.totalWords)

	_, span := tracing.StartSession(ctx, c.tracer, tracing.SpanResetLength, c.id,
		attribute.Int(tracing.AttrLength, length))
	defer span.End()

	c.applyLength(length, false)
	c.RequestFrame()
}

func (c *Controller) applyLength(length int, custom bool) {
	if c.setLength(length, custom) {
		c.publish(LengthChanged)
	}
}

// setLength stores the length and reports whether it changed.
func (c *Controller) setLength(length int, custom bool) bool {
	next := ScrollLength{Length: length, Custom: custom}
	if next == c.length {
		return false
	}
	c.length = next
	log.Debug(log.CatLength, "scroll length", "session", c.id, "length", length, "custom", custom)
	return true
}

// RequestFrame asks for one recomputation on the next frame. Requests made
// while one is pending collapse into it.
func (c *Controller) RequestFrame() {
	if c.gate.Request() {
		c.frameWanted = true
	}
}

// TakeFrameRequest reports, once, that a new frame must be scheduled. The UI
// calls it after handling each event and schedules a tick when it is true.
func (c *Controller) TakeFrameRequest() bool {
	wanted := c.frameWanted
	c.frameWanted = false
	return wanted
}

// OnFrame runs the pending recomputation against the attached source. It
// reports whether the revealed count changed.
func (c *Controller) OnFrame() bool {
	if !c.gate.Fire() {
		return false
	}
	if c.src == nil {
		return false
	}
	return c.OnScroll(c.src.Measure())
}

func (c *Controller) publish(kind EventKind) {
	c.events.Publish(pubsub.UpdatedEvent, Event{
		Kind:         kind,
		SessionID:    c.id,
		TotalWords:   c.totalWords,
		VisibleWords: c.visibleWords,
		Length:       c.length.Length,
		Custom:       c.length.Custom,
	})
}
