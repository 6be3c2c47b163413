// Package display owns page selection and redraw throttling. Pixel output
// is delegated to a Renderer collaborator; the coordinator never touches
// the frame itself.
package display

import "trackercode-go/types"

// RenderContext is the read-only snapshot a renderer draws from.
type RenderContext struct {
	Fix          types.Fix
	Mode         types.LinkMode
	Reconnecting bool
	Upload       types.UploadResult
	Failure      string // unacknowledged failure line, empty when none
	HoldMs       int64  // current touch hold, 0 when idle
	NextAlertMs  int64  // lower bound of the next unfired threshold
	QRPayload    string
	// RegenQR tells the renderer the cached QR matrix is stale. Set by the
	// coordinator; expensive regeneration happens at most once per entry
	// to the QR page or forced refresh.
	RegenQR bool
}

// Renderer is the external rendering collaborator. It must only be invoked
// at the coordinator's computed cadence.
type Renderer interface {
	Draw(page types.Page, ctx RenderContext)
}

type Config struct {
	IdleRefreshMs  int64
	TouchRefreshMs int64
}

// Coordinator owns DisplayState. Boot state shows the GPS page.
type Coordinator struct {
	cfg Config

	current    types.Page
	previous   types.Page
	lastDrawMs int64
	force      bool
	drawn      bool
	qrCached   bool
}

func NewCoordinator(cfg Config) *Coordinator {
	if cfg.IdleRefreshMs <= 0 {
		cfg.IdleRefreshMs = 1000
	}
	if cfg.TouchRefreshMs <= 0 {
		cfg.TouchRefreshMs = 250
	}
	return &Coordinator{cfg: cfg, current: types.PageGps, previous: types.PageGps}
}

// ShouldRedraw applies the refresh budget: tight cadence while a touch
// session is live (to show hold progress), immediate when a forced refresh
// is armed, otherwise the idle cadence.
func (c *Coordinator) ShouldRedraw(now int64, touching bool) bool {
	if c.force || !c.drawn {
		return true
	}
	cadence := c.cfg.IdleRefreshMs
	if touching {
		cadence = c.cfg.TouchRefreshMs
	}
	return now-c.lastDrawMs >= cadence
}

// AdvancePage cycles forward and arms a forced refresh only when the page
// actually changed.
func (c *Coordinator) AdvancePage() {
	next := (c.current + 1) % types.PageCount
	if next == c.current {
		return
	}
	c.previous = c.current
	c.current = next
	c.force = true
	c.qrCached = false
}

// ForceRefresh is called by other components on a state transition worth
// showing immediately. Cleared by the next Render.
func (c *Coordinator) ForceRefresh() {
	c.force = true
	c.qrCached = false
}

// Render draws the current page and settles the throttle state.
func (c *Coordinator) Render(now int64, r Renderer, ctx RenderContext) {
	if c.current == types.PageQr && !c.qrCached {
		ctx.RegenQR = true
		c.qrCached = true
	}
	r.Draw(c.current, ctx)
	c.lastDrawMs = now
	c.force = false
	c.drawn = true
}

func (c *Coordinator) CurrentPage() types.Page  { return c.current }
func (c *Coordinator) PreviousPage() types.Page { return c.previous }
