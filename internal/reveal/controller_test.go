package reveal

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/scrollmem/internal/tokenizer"
)

// fakeSource is a scroll container with settable measurements.
type fakeSource struct {
	m          Measurement
	listeners  map[int]func()
	next       int
	origins    int
	subscribes int
}

func newFakeSource(m Measurement) *fakeSource {
	return &fakeSource{m: m, listeners: map[int]func(){}}
}

func (s *fakeSource) Measure() Measurement { return s.m }

func (s *fakeSource) Subscribe(fn func()) func() {
	id := s.next
	s.next++
	s.subscribes++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *fakeSource) ScrollToOrigin() {
	s.origins++
	s.m.Offset = 0
}

func (s *fakeSource) scroll(offset float64) {
	s.m.Offset = offset
	for _, fn := range s.listeners {
		fn()
	}
}

// runFrame mimics the UI loop: schedule if asked, then fire.
func runFrame(c *Controller) bool {
	c.TakeFrameRequest()
	return c.OnFrame()
}

func words(n int) string {
	b := make([]byte, 0, n*2)
	for i := range n {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, 'w')
	}
	return string(b)
}

func TestController_TextChangeRevealsEverything(t *testing.T) {
	c := NewController(Options{})
	c.OnTextChanged(context.Background(), "Hello world")

	visible, total := c.Counts()
	require.Equal(t, 2, total)
	require.Equal(t, 2, visible)
	for _, s := range c.Spans() {
		require.True(t, s.Visible)
	}
}

func TestController_HelloWorldNotScrollable(t *testing.T) {
	src := newFakeSource(ElementScroll(0, 5, 10))
	c := NewController(Options{})
	c.Attach(src)
	c.OnTextChanged(context.Background(), "Hello world")
	runFrame(c)

	visible, total := c.Counts()
	require.Equal(t, 2, visible)
	require.Equal(t, 2, total)
}

func TestController_ScrollRevealsProgressively(t *testing.T) {
	src := newFakeSource(ElementScroll(0, 625, 125))
	c := NewController(Options{})
	c.Attach(src)
	c.OnTextChanged(context.Background(), words(100))

	runFrame(c)
	visible, _ := c.Counts()
	require.Equal(t, 20, visible, "baseline reveal at the top")

	src.scroll(250)
	require.True(t, c.TakeFrameRequest())
	require.True(t, c.OnFrame())
	visible, _ = c.Counts()
	require.Equal(t, 50, visible)

	spans := c.Spans()
	require.True(t, spans[0].Visible)
	require.False(t, spans[len(spans)-1].Visible)
}

func TestController_ScrollEventsCoalescePerFrame(t *testing.T) {
	src := newFakeSource(ElementScroll(0, 625, 125))
	c := NewController(Options{})
	c.Attach(src)
	c.OnTextChanged(context.Background(), words(100))
	runFrame(c)

	src.scroll(100)
	src.scroll(200)
	src.scroll(500)
	require.True(t, c.TakeFrameRequest())
	require.False(t, c.TakeFrameRequest(), "only one frame scheduled for a burst")

	require.True(t, c.OnFrame())
	require.False(t, c.OnFrame(), "the frame only fires once")

	visible, _ := c.Counts()
	require.Equal(t, 100, visible, "the frame measures the latest position")
}

func TestController_TextChangeResetsScrollAndVisibility(t *testing.T) {
	src := newFakeSource(ElementScroll(0, 625, 125))
	c := NewController(Options{})
	c.Attach(src)
	c.OnTextChanged(context.Background(), words(100))
	runFrame(c)

	src.scroll(0)
	runFrame(c)

	c.OnTextChanged(context.Background(), words(40))
	require.Equal(t, 2, src.origins, "each text change scrolls to origin")
	visible, total := c.Counts()
	require.Equal(t, 40, total)
	require.Equal(t, 40, visible, "full reveal until the next frame measures")

	runFrame(c)
	visible, _ = c.Counts()
	require.Equal(t, 8, visible)
}

func TestController_AutoLengthFollowsWordCount(t *testing.T) {
	c := NewController(Options{})
	require.Equal(t, ScrollLength{Length: 400}, c.Length())

	c.OnTextChanged(context.Background(), words(50))
	require.Equal(t, ScrollLength{Length: 600}, c.Length())

	c.OnTextChanged(context.Background(), "one")
	require.Equal(t, ScrollLength{Length: 400}, c.Length())
	require.False(t, c.ResetEnabled())
}

func TestController_CustomLengthSurvivesTextChange(t *testing.T) {
	c := NewController(Options{})
	c.OnTextChanged(context.Background(), words(50))

	require.True(t, c.SetLength(context.Background(), 5000))
	require.Equal(t, ScrollLength{Length: 5000, Custom: true}, c.Length())
	require.True(t, c.ResetEnabled())

	c.OnTextChanged(context.Background(), words(100))
	require.Equal(t, ScrollLength{Length: 5000, Custom: true}, c.Length(), "custom length is kept")

	c.ResetLength(context.Background())
	require.Equal(t, ScrollLength{Length: 1200}, c.Length(), "reset recomputes from the new word count")
	require.False(t, c.ResetEnabled())
}

func TestController_SetLengthClampsAndIgnoresNonFinite(t *testing.T) {
	c := NewController(Options{})
	c.OnTextChanged(context.Background(), words(50))

	require.True(t, c.SetLength(context.Background(), 99999))
	require.Equal(t, 6000, c.Length().Length)

	require.False(t, c.SetLength(context.Background(), math.NaN()))
	require.False(t, c.SetLength(context.Background(), math.Inf(-1)))
	require.Equal(t, ScrollLength{Length: 6000, Custom: true}, c.Length())
}

func TestController_LengthChangeSchedulesFrame(t *testing.T) {
	src := newFakeSource(ElementScroll(0, 625, 125))
	c := NewController(Options{})
	c.Attach(src)
	c.OnTextChanged(context.Background(), words(10))
	runFrame(c)

	c.SetLength(context.Background(), 2000)
	require.True(t, c.TakeFrameRequest())

	c.OnFrame()
	c.ResetLength(context.Background())
	require.True(t, c.TakeFrameRequest())
}

func TestController_AttachReleasesPreviousSource(t *testing.T) {
	first := newFakeSource(ElementScroll(0, 625, 125))
	second := newFakeSource(PageScroll(0, 1000, 100))
	c := NewController(Options{})

	c.Attach(first)
	require.Len(t, first.listeners, 1)

	c.Attach(second)
	require.Empty(t, first.listeners, "re-attaching releases the old subscription")
	require.Len(t, second.listeners, 1)

	c.Detach()
	c.Detach()
	require.Empty(t, second.listeners)
}

func TestController_OnFrameWithoutSource(t *testing.T) {
	c := NewController(Options{})
	c.OnTextChanged(context.Background(), words(10))
	require.True(t, c.TakeFrameRequest())
	require.False(t, c.OnFrame())
	visible, total := c.Counts()
	require.Equal(t, total, visible)
}

func TestController_StaleMeasurementClampedToCurrentTotal(t *testing.T) {
	c := NewController(Options{})
	c.OnTextChanged(context.Background(), words(5))
	c.OnScroll(ElementScroll(500, 625, 125))
	visible, total := c.Counts()
	require.Equal(t, 5, total)
	require.Equal(t, 5, visible)
}

func TestController_InvalidPolicyFallsBack(t *testing.T) {
	c := NewController(Options{Policy: LengthPolicy{Ratio: 1, Min: 10, Max: 1}})
	require.Equal(t, DefaultLengthPolicy(), c.Policy())
}

func TestController_UsesProvidedTokenizerAndID(t *testing.T) {
	cache := tokenizer.NewInMemoryCache(time.Minute)
	c := NewController(Options{Tokenizer: cache, SessionID: "session-1"})
	c.OnTextChanged(context.Background(), "a b c")

	require.Equal(t, "session-1", c.SessionID())
	require.Equal(t, "a b c", c.Text())
	_, total := c.Counts()
	require.Equal(t, 3, total)
}

func TestController_PublishesEvents(t *testing.T) {
	c := NewController(Options{SessionID: "s"})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := c.Events().Subscribe(ctx)

	c.OnTextChanged(context.Background(), words(50))
	c.SetLength(context.Background(), 800)

	var kinds []EventKind
	var events []Event
	for range 3 {
		select {
		case ev := <-ch:
			require.Equal(t, "s", ev.Payload.SessionID)
			kinds = append(kinds, ev.Payload.Kind)
			events = append(events, ev.Payload)
		case <-time.After(time.Second):
			require.FailNow(t, "missing event")
		}
	}
	require.Equal(t, []EventKind{TextChanged, LengthChanged, LengthChanged}, kinds)

	require.Equal(t, 600, events[0].Length, "text change carries the recomputed length")
	require.False(t, events[0].Custom)
	require.Equal(t, 50, events[0].TotalWords)
	require.Equal(t, 800, events[2].Length)
	require.True(t, events[2].Custom)
}

func TestController_VisibleAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := newFakeSource(ElementScroll(0, 625, 125))
		c := NewController(Options{SessionID: "prop"})
		c.Attach(src)

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := range steps {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				c.OnTextChanged(context.Background(), words(rapid.IntRange(0, 300).Draw(rt, "words")))
			case 1:
				src.m = ElementScroll(
					rapid.Float64Range(-50, 2000).Draw(rt, "offset"),
					rapid.Float64Range(0, 2000).Draw(rt, "total"),
					rapid.Float64Range(0, 2000).Draw(rt, "view"),
				)
				src.scroll(src.m.Offset)
			case 2:
				c.SetLength(context.Background(), rapid.Float64Range(-1e4, 1e4).Draw(rt, "length"))
			case 3:
				c.ResetLength(context.Background())
			}
			runFrame(c)

			visible, total := c.Counts()
			require.GreaterOrEqual(rt, visible, 0, "step %d", i)
			require.LessOrEqual(rt, visible, total, "step %d", i)
			l := c.Length()
			require.GreaterOrEqual(rt, l.Length, DefaultMinLength)
			require.LessOrEqual(rt, l.Length, DefaultMaxLength)
		}
	})
}
