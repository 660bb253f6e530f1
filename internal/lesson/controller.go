// Package lesson orchestrates slide-plan generation, lazy asset
// resolution, caching, and audio playback for one lesson-viewing session.
package lesson

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/scigenius/tutor/internal/assetcache"
	"github.com/scigenius/tutor/internal/audio"
	"github.com/scigenius/tutor/internal/gen"
	"github.com/scigenius/tutor/internal/topic"
)

// Generator is the slice of the generation client the controller needs.
type Generator interface {
	SlidePlan(ctx context.Context, content string) ([]gen.Slide, error)
	Image(ctx context.Context, visualDescription string) (string, error)
	Speech(ctx context.Context, script string) ([]byte, error)
}

// Controller drives the lesson playback pipeline: on topic change it
// requests a slide plan; on slide-index change it resolves image and audio
// assets, cache-first, and manages the single audio stream.
//
// Every in-flight fetch closes over the (epoch, index) it was issued for.
// Cache writes always apply under the issued index while the issuing plan
// is still current; display and playback writes additionally require the
// issued index to still be the current one, so late results for abandoned
// slides are cached for later reuse but never shown.
type Controller struct {
	generator Generator
	engine    *audio.Engine

	images *assetcache.Cache[string]
	sounds *assetcache.Cache[*audio.Buffer]

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	phase        Phase
	topicTitle   string
	plan         []gen.Slide
	index        int
	epoch        uint64
	currentImage string
	imageLoading bool
	lastErr      error
}

// NewController creates a controller bound to the given generation client
// and playback engine. The engine's output context lives for the whole
// session; Close tears it down.
func NewController(ctx context.Context, generator Generator, engine *audio.Engine) *Controller {
	cctx, cancel := context.WithCancel(ctx)
	return &Controller{
		generator: generator,
		engine:    engine,
		images:    assetcache.New[string](),
		sounds:    assetcache.New[*audio.Buffer](),
		ctx:       cctx,
		cancel:    cancel,
	}
}

// SetTopic switches the lesson to a new topic: stops audio, drops both
// caches, resets navigation, and requests a fresh slide plan. On plan
// failure the controller stays in PhaseLoadingPlan; it does not retry
// beyond the generation client's internal budget.
func (c *Controller) SetTopic(t topic.Topic) {
	c.engine.Stop()

	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.images.Clear()
	c.sounds.Clear()
	c.plan = nil
	c.index = 0
	c.phase = PhaseLoadingPlan
	c.topicTitle = t.Title
	c.currentImage = ""
	c.imageLoading = false
	c.lastErr = nil
	content := t.Content
	c.mu.Unlock()

	log.Info("Loading lesson", "topic", t.ID, "title", t.Title)

	go func() {
		plan, err := c.generator.SlidePlan(c.ctx, content)

		c.mu.Lock()
		if c.epoch != epoch {
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.lastErr = err
			c.mu.Unlock()
			log.Error("Slide plan generation failed", "topic", t.ID, "error", err)
			return
		}
		c.plan = plan
		c.phase = PhaseReady
		first := plan[0]
		c.mu.Unlock()

		log.Info("Lesson ready", "topic", t.ID, "slides", len(plan))
		c.resolve(epoch, 0, first)
	}()
}

// Next advances to the next slide and triggers asset resolution for it.
// No-op at the last slide.
func (c *Controller) Next() { c.step(1) }

// Previous steps back one slide and triggers asset resolution for it.
// No-op at the first slide.
func (c *Controller) Previous() { c.step(-1) }

func (c *Controller) step(delta int) {
	c.mu.Lock()
	if c.phase != PhaseReady || len(c.plan) == 0 {
		c.mu.Unlock()
		return
	}
	next := c.index + delta
	if next < 0 || next >= len(c.plan) {
		c.mu.Unlock()
		return
	}
	c.index = next
	epoch := c.epoch
	slide := c.plan[next]
	c.mu.Unlock()

	// Navigation stops prior audio outright before deciding what to play.
	c.engine.Stop()
	c.resolve(epoch, next, slide)
}

// Replay plays the current slide's cached audio again from the start.
// Silent no-op if no audio is cached for the slide yet.
func (c *Controller) Replay() {
	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return
	}
	index := c.index
	c.mu.Unlock()

	if buf, ok := c.sounds.Get(index); ok {
		c.engine.Play(buf)
	}
}

// SetGain updates the playback gain for current and future audio.
func (c *Controller) SetGain(gain float64) error {
	return c.engine.SetGain(gain)
}

// resolve runs the image and audio sub-flows for one slide index. The two
// flows are independent and may complete in either order.
func (c *Controller) resolve(epoch uint64, index int, slide gen.Slide) {
	go c.resolveImage(epoch, index, slide.VisualDescription)
	go c.resolveAudio(epoch, index, slide.Script)
}

func (c *Controller) resolveImage(epoch uint64, index int, visual string) {
	if handle, ok := c.images.Get(index); ok {
		c.mu.Lock()
		if c.epoch == epoch && c.index == index {
			c.currentImage = handle
			c.imageLoading = false
		}
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	if c.epoch == epoch && c.index == index {
		c.currentImage = ""
		c.imageLoading = true
	}
	c.mu.Unlock()

	handle, err := c.generator.Image(c.ctx, visual)
	if err != nil {
		// Degrade to a deterministic placeholder; the slide stays navigable.
		log.Warn("Image generation failed, using placeholder", "slide", index, "error", err)
		handle = gen.PlaceholderImage(visual)
	}

	c.mu.Lock()
	if c.epoch == epoch {
		c.images.Put(index, handle)
	}
	if c.epoch == epoch && c.index == index {
		c.currentImage = handle
		c.imageLoading = false
	}
	c.mu.Unlock()
}

func (c *Controller) resolveAudio(epoch uint64, index int, script string) {
	if buf, ok := c.sounds.Get(index); ok {
		if c.isCurrent(epoch, index) {
			c.engine.Play(buf)
		}
		return
	}

	raw, err := c.generator.Speech(c.ctx, script)
	if err != nil {
		// A silent slide is acceptable; the engine stays idle.
		log.Warn("Speech generation failed", "slide", index, "error", err)
		return
	}
	if raw == nil {
		log.Debug("No audio payload for slide", "slide", index)
		return
	}

	buf, err := c.engine.Decode(raw)
	if err != nil {
		log.Warn("Audio decode failed", "slide", index, "error", err)
		return
	}

	c.mu.Lock()
	if c.epoch == epoch {
		c.sounds.Put(index, buf)
	}
	current := c.epoch == epoch && c.index == index
	c.mu.Unlock()

	if current {
		c.engine.Play(buf)
	}
}

// isCurrent reports whether the issued (epoch, index) is still the one on
// display.
func (c *Controller) isCurrent(epoch uint64, index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch == epoch && c.index == index
}

// Snapshot returns the view-facing state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:        c.phase,
		TopicTitle:   c.topicTitle,
		Index:        c.index,
		Total:        len(c.plan),
		Image:        c.currentImage,
		PlanLoading:  c.phase == PhaseLoadingPlan,
		ImageLoading: c.imageLoading,
		Speaking:     c.engine.IsSpeaking(),
		Gain:         c.engine.Gain(),
	}
	if c.phase == PhaseReady && c.index < len(c.plan) {
		s.Script = c.plan[c.index].Script
	}
	return s
}

// Err returns the last slide-plan failure, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// CacheStats returns hit/miss counters for both asset caches.
func (c *Controller) CacheStats() (images, sounds assetcache.Stats) {
	return c.images.Stats(), c.sounds.Stats()
}

// Close stops playback, cancels outstanding work, and tears down the
// audio output context.
func (c *Controller) Close() error {
	c.cancel()
	return c.engine.Close()
}
