package scanner

import (
	"context"
	"sync"
	"time"
)

// DefaultCooldown is how long a target stays suppressed after a response.
const DefaultCooldown = 2 * time.Second

// Submitter sends one scan to the server. Implemented by *Client; swapped
// out in tests.
type Submitter interface {
	SubmitScan(ctx context.Context, req ScanRequest) (*ScanResult, error)
}

// Controller owns the state machine for one scan target. It guarantees at
// most one in-flight submission: the check-and-set on the state is done
// under a mutex, so it also holds when the detection source delivers
// callbacks concurrently.
type Controller struct {
	mu    sync.Mutex
	state State

	submitter Submitter
	cooldown  time.Duration

	// OnChange, if set, observes every state change. OnResult, if set,
	// observes each submission outcome. Set both before the first Detect.
	OnChange func(State)
	OnResult func(tag string, res *ScanResult, err error)
}

// NewController creates a controller in Idle. A non-positive cooldown falls
// back to DefaultCooldown.
func NewController(submitter Submitter, cooldown time.Duration) *Controller {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Controller{submitter: submitter, cooldown: cooldown, state: StateIdle}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Detect feeds one barcode detection in. It returns true when the detection
// started a submission and false when it was discarded because a submission
// or cooldown is already in progress.
func (c *Controller) Detect(tag string) bool {
	if c.apply(EventDetected) != EffectSubmit {
		return false
	}
	go c.submit(tag)
	return true
}

// submit runs the request and drives the machine through Cooldown back to
// Idle. A failed request takes exactly the same path as a success; the
// caller can re-trigger once the cooldown has elapsed.
func (c *Controller) submit(tag string) {
	res, err := c.submitter.SubmitScan(context.Background(), ScanRequest{AssetTag: tag})
	if c.OnResult != nil {
		c.OnResult(tag, res, err)
	}

	if c.apply(EventResponse) == EffectStartCooldown {
		time.AfterFunc(c.cooldown, func() {
			c.apply(EventCooldownOver)
		})
	}
}

// apply transitions under the lock and fires OnChange outside it.
func (c *Controller) apply(ev Event) Effect {
	c.mu.Lock()
	next, effect := Transition(c.state, ev)
	changed := next != c.state
	c.state = next
	c.mu.Unlock()

	if changed && c.OnChange != nil {
		c.OnChange(next)
	}
	return effect
}
