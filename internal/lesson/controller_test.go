package lesson

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scigenius/tutor/internal/audio"
	"github.com/scigenius/tutor/internal/gen"
	"github.com/scigenius/tutor/internal/topic"
)

// fakeGenerator satisfies Generator with scripted results and per-input
// call counts. Hooks let tests hold a fetch open to exercise staleness.
type fakeGenerator struct {
	mu          sync.Mutex
	plan        []gen.Slide
	planErr     error
	planCalls   int
	imageErr    error
	imageCalls  map[string]int
	speechErr   error
	speechCalls map[string]int

	imageHook  func(visual string)
	speechHook func(script string)
}

func (f *fakeGenerator) SlidePlan(_ context.Context, _ string) ([]gen.Slide, error) {
	f.mu.Lock()
	f.planCalls++
	plan, err := f.plan, f.planErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (f *fakeGenerator) Image(_ context.Context, visual string) (string, error) {
	f.mu.Lock()
	if f.imageCalls == nil {
		f.imageCalls = make(map[string]int)
	}
	f.imageCalls[visual]++
	hook, err := f.imageHook, f.imageErr
	f.mu.Unlock()

	if hook != nil {
		hook(visual)
	}
	if err != nil {
		return "", err
	}
	return "img:" + visual, nil
}

func (f *fakeGenerator) Speech(_ context.Context, script string) ([]byte, error) {
	f.mu.Lock()
	if f.speechCalls == nil {
		f.speechCalls = make(map[string]int)
	}
	f.speechCalls[script]++
	hook, err := f.speechHook, f.speechErr
	f.mu.Unlock()

	if hook != nil {
		hook(script)
	}
	if err != nil {
		return nil, err
	}
	return pcmFor(script), nil
}

func (f *fakeGenerator) calls(kind, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if kind == "image" {
		return f.imageCalls[key]
	}
	return f.speechCalls[key]
}

// pcmFor returns a payload whose byte length identifies the script: two
// bytes per script character, so tests can tell which slide is playing.
func pcmFor(script string) []byte {
	return make([]byte, 2*len(script))
}

// testPlan uses scripts of distinct lengths.
func testPlan() []gen.Slide {
	return []gen.Slide{
		{Script: "a", VisualDescription: "v0"},
		{Script: "bb", VisualDescription: "v1"},
		{Script: "ccc", VisualDescription: "v2"},
	}
}

func testTopic() topic.Topic {
	return topic.Topic{ID: "7.1", Title: "Forces", Content: "forces push and pull"}
}

func newTestController(t *testing.T, fake *fakeGenerator) (*Controller, *audio.MockOutput) {
	t.Helper()
	out := audio.NewMockOutput()
	c := NewController(context.Background(), fake, audio.NewEngine(out))
	t.Cleanup(func() { _ = c.Close() })
	return c, out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// playingData returns the payload of the currently playing source, or nil.
func playingData(out *audio.MockOutput) []byte {
	for _, p := range out.Players() {
		if p.IsPlaying() {
			return p.Data()
		}
	}
	return nil
}

func TestSetTopicLoadsPlanAndResolvesFirstSlide(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan()}
	c, out := newTestController(t, fake)

	c.SetTopic(testTopic())

	waitFor(t, "plan ready", func() bool {
		return c.Snapshot().Phase == PhaseReady
	})
	waitFor(t, "first slide assets", func() bool {
		s := c.Snapshot()
		return s.Image != "" && s.Speaking
	})

	s := c.Snapshot()
	if s.Index != 0 || s.Total != 3 {
		t.Errorf("position = %d/%d, want 0/3", s.Index, s.Total)
	}
	if s.Script != "a" {
		t.Errorf("script = %q, want %q", s.Script, "a")
	}
	if s.Image != "img:v0" {
		t.Errorf("image = %q, want img:v0", s.Image)
	}
	if len(playingData(out)) != len(pcmFor("a")) {
		t.Error("first slide audio should be playing")
	}
	if fake.planCalls != 1 {
		t.Errorf("plan calls = %d, want 1", fake.planCalls)
	}
}

func TestPlanFailureStaysLoading(t *testing.T) {
	fake := &fakeGenerator{planErr: errors.New("quota exhausted")}
	c, _ := newTestController(t, fake)

	c.SetTopic(testTopic())

	waitFor(t, "plan failure", func() bool { return c.Err() != nil })

	s := c.Snapshot()
	if s.Phase != PhaseLoadingPlan || !s.PlanLoading {
		t.Error("controller must stay in the loading phase after plan failure")
	}
	if s.Total != 0 {
		t.Errorf("total = %d, want 0", s.Total)
	}
}

func TestNavigationUsesCacheOnRevisit(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan()}
	c, out := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "slide 0 audio", func() bool { return c.Snapshot().Speaking })

	c.Next()
	waitFor(t, "slide 1 assets", func() bool {
		s := c.Snapshot()
		return s.Index == 1 && s.Image == "img:v1" && len(playingData(out)) == len(pcmFor("bb"))
	})

	c.Previous()
	waitFor(t, "slide 0 replayed from cache", func() bool {
		s := c.Snapshot()
		return s.Index == 0 && s.Image == "img:v0" && len(playingData(out)) == len(pcmFor("a"))
	})

	if n := fake.calls("image", "v0"); n != 1 {
		t.Errorf("image fetches for slide 0 = %d, want 1 (revisit must hit cache)", n)
	}
	if n := fake.calls("speech", "a"); n != 1 {
		t.Errorf("speech fetches for slide 0 = %d, want 1 (revisit must hit cache)", n)
	}
	if out.PlayingCount() != 1 {
		t.Errorf("playing sources = %d, want 1", out.PlayingCount())
	}
}

func TestNavigationClampedAtEdges(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan()}
	c, _ := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "plan ready", func() bool { return c.Snapshot().Phase == PhaseReady })

	c.Previous()
	if s := c.Snapshot(); s.Index != 0 {
		t.Errorf("index after Previous at start = %d, want 0", s.Index)
	}

	c.Next()
	c.Next()
	waitFor(t, "last slide", func() bool { return c.Snapshot().Index == 2 })
	c.Next()
	if s := c.Snapshot(); s.Index != 2 {
		t.Errorf("index after Next at end = %d, want 2", s.Index)
	}
}

func TestNavigationBeforePlanReadyIsNoOp(t *testing.T) {
	release := make(chan struct{})
	blocking := &blockingPlanGenerator{
		inner:   &fakeGenerator{plan: testPlan()},
		release: release,
	}

	c := NewController(context.Background(), blocking, audio.NewEngine(audio.NewMockOutput()))
	defer c.Close() //nolint:errcheck

	c.SetTopic(testTopic())
	c.Next()
	c.Previous()
	c.Replay()

	if s := c.Snapshot(); s.Phase != PhaseLoadingPlan || s.Index != 0 {
		t.Error("navigation before the plan arrives must be ignored")
	}
	close(release)

	waitFor(t, "plan ready", func() bool { return c.Snapshot().Phase == PhaseReady })
}

// blockingPlanGenerator holds SlidePlan open until released.
type blockingPlanGenerator struct {
	inner   *fakeGenerator
	release chan struct{}
}

func (b *blockingPlanGenerator) SlidePlan(ctx context.Context, content string) ([]gen.Slide, error) {
	<-b.release
	return b.inner.SlidePlan(ctx, content)
}

func (b *blockingPlanGenerator) Image(ctx context.Context, v string) (string, error) {
	return b.inner.Image(ctx, v)
}

func (b *blockingPlanGenerator) Speech(ctx context.Context, s string) ([]byte, error) {
	return b.inner.Speech(ctx, s)
}

func TestReplay(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan()}
	c, out := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "slide 0 audio", func() bool { return c.Snapshot().Speaking })

	// Let the first playback drain.
	for _, p := range out.Players() {
		p.FinishPlayback()
	}
	waitFor(t, "engine idle", func() bool { return !c.Snapshot().Speaking })

	c.Replay()
	waitFor(t, "replay started", func() bool { return c.Snapshot().Speaking })

	if n := fake.calls("speech", "a"); n != 1 {
		t.Errorf("speech fetches = %d, want 1 (replay must use the cache)", n)
	}
	if len(playingData(out)) != len(pcmFor("a")) {
		t.Error("replay should play the current slide's audio")
	}
}

func TestReplayWithoutCachedAudioIsNoOp(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan(), speechErr: errors.New("tts down")}
	c, out := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "slide 0 image", func() bool { return c.Snapshot().Image != "" })

	c.Replay()
	time.Sleep(50 * time.Millisecond)

	if out.PlayingCount() != 0 {
		t.Error("replay with no cached audio must not start playback")
	}
}

func TestSpeechFailureLeavesSlideSilent(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan(), speechErr: errors.New("tts down")}
	c, _ := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "slide 0 image", func() bool { return c.Snapshot().Image != "" })

	s := c.Snapshot()
	if s.Speaking {
		t.Error("slide must be silent when speech generation fails")
	}

	// Navigation still works.
	c.Next()
	waitFor(t, "slide 1", func() bool { return c.Snapshot().Index == 1 })
}

func TestImageFailureFallsBackToPlaceholder(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan(), imageErr: errors.New("image service down")}
	c, _ := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "placeholder image", func() bool { return c.Snapshot().Image != "" })

	s := c.Snapshot()
	if !strings.HasPrefix(s.Image, "https://picsum.photos/seed/") {
		t.Errorf("image = %q, want a placeholder URL", s.Image)
	}

	// The placeholder is cached like a real asset: no refetch on revisit.
	c.Next()
	waitFor(t, "slide 1", func() bool { return c.Snapshot().Index == 1 && c.Snapshot().Image != "" })
	c.Previous()
	waitFor(t, "slide 0 again", func() bool { return c.Snapshot().Index == 0 })

	if n := fake.calls("image", "v0"); n != 1 {
		t.Errorf("image fetches for slide 0 = %d, want 1", n)
	}
}

func TestTopicChangeClearsStateAndDropsStaleResults(t *testing.T) {
	gate := make(chan struct{})
	var gateOnce sync.Once

	fake := &fakeGenerator{plan: testPlan()}
	fake.speechHook = func(script string) {
		if script == "a" {
			<-gate
		}
	}
	c, out := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "plan ready", func() bool { return c.Snapshot().Phase == PhaseReady })

	// Switch topics while the first topic's speech fetch is still open.
	fake.mu.Lock()
	fake.plan = []gen.Slide{{Script: "xxxx", VisualDescription: "w0"}}
	fake.speechHook = nil
	fake.mu.Unlock()

	c.SetTopic(topic.Topic{ID: "7.2", Title: "Heat", Content: "thermal energy"})
	waitFor(t, "second topic ready", func() bool {
		s := c.Snapshot()
		return s.Phase == PhaseReady && s.TopicTitle == "Heat"
	})
	waitFor(t, "second topic audio", func() bool {
		return len(playingData(out)) == len(pcmFor("xxxx"))
	})

	// Release the stale fetch; its result must go nowhere.
	gateOnce.Do(func() { close(gate) })
	time.Sleep(50 * time.Millisecond)

	s := c.Snapshot()
	if s.Index != 0 || s.Total != 1 {
		t.Errorf("position = %d/%d, want 0/1", s.Index, s.Total)
	}
	if len(playingData(out)) != len(pcmFor("xxxx")) {
		t.Error("stale audio from the previous topic must not play")
	}

	images, sounds := c.CacheStats()
	if images.Len != 1 {
		t.Errorf("image cache len = %d, want 1 (old topic's entries dropped)", images.Len)
	}
	if sounds.Len != 1 {
		t.Errorf("sound cache len = %d, want 1 (stale result must not be cached)", sounds.Len)
	}
}

func TestStaleIndexResultIsCachedButNotDisplayed(t *testing.T) {
	gate := make(chan struct{})
	fake := &fakeGenerator{plan: testPlan()}
	fake.imageHook = func(visual string) {
		if visual == "v0" {
			<-gate
		}
	}
	c, _ := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "plan ready", func() bool { return c.Snapshot().Phase == PhaseReady })

	// Move on before slide 0's image resolves.
	c.Next()
	waitFor(t, "slide 1 image", func() bool { return c.Snapshot().Image == "img:v1" })

	close(gate)
	waitFor(t, "stale image cached", func() bool {
		images, _ := c.CacheStats()
		return images.Len == 2
	})

	if s := c.Snapshot(); s.Image != "img:v1" {
		t.Errorf("image = %q, want img:v1 (late result for an abandoned slide must not display)", s.Image)
	}

	// Revisiting slide 0 now hits the cache.
	c.Previous()
	waitFor(t, "slide 0 image from cache", func() bool { return c.Snapshot().Image == "img:v0" })
	if n := fake.calls("image", "v0"); n != 1 {
		t.Errorf("image fetches for slide 0 = %d, want 1", n)
	}
}

func TestSingleAudioSourceAcrossRapidNavigation(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan()}
	c, out := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "plan ready", func() bool { return c.Snapshot().Phase == PhaseReady })

	c.Next()
	c.Next()
	c.Previous()
	c.Next()

	waitFor(t, "settled playback", func() bool {
		return c.Snapshot().Index == 2 && out.PlayingCount() == 1
	})
	if out.PlayingCount() > 1 {
		t.Errorf("playing sources = %d, want at most 1", out.PlayingCount())
	}
}

func TestSetGainPropagates(t *testing.T) {
	fake := &fakeGenerator{plan: testPlan()}
	c, out := newTestController(t, fake)

	c.SetTopic(testTopic())
	waitFor(t, "slide 0 audio", func() bool { return c.Snapshot().Speaking })

	if err := c.SetGain(0.4); err != nil {
		t.Fatalf("SetGain failed: %v", err)
	}
	if g := c.Snapshot().Gain; g != 0.4 {
		t.Errorf("gain = %f, want 0.4", g)
	}
	for _, p := range out.Players() {
		if p.IsPlaying() && p.Volume() != 0.4 {
			t.Errorf("playing source volume = %f, want 0.4", p.Volume())
		}
	}

	if err := c.SetGain(1.5); err == nil {
		t.Error("expected error for out-of-range gain")
	}
}
