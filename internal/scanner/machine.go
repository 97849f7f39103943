// Package scanner implements the client side of scan submission: the
// Idle/Submitting/Cooldown machine that turns a noisy stream of barcode
// detections into at most one request per physical scan action, and the API
// client those requests go through.
package scanner

// State of one scan target.
type State int

const (
	// StateIdle accepts the next detection.
	StateIdle State = iota
	// StateSubmitting has a request in flight; detections are discarded.
	StateSubmitting
	// StateCooldown is the fixed post-response window; detections are
	// discarded. Entered on success and failure alike.
	StateCooldown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Event is something that happens to a scan target.
type Event int

const (
	// EventDetected fires when the detection source recognizes a barcode.
	EventDetected Event = iota
	// EventResponse fires when the in-flight request completes, either way.
	EventResponse
	// EventCooldownOver fires when the cooldown timer elapses.
	EventCooldownOver
)

// Effect is what the controller must do after a transition.
type Effect int

const (
	// EffectNone: nothing, the event was absorbed (detection discarded,
	// stale timer, ...).
	EffectNone Effect = iota
	// EffectSubmit: start exactly one submission.
	EffectSubmit
	// EffectStartCooldown: arm the cooldown timer.
	EffectStartCooldown
)

// Transition is the pure state+event -> state+effect mapping. It encodes
// the whole dedup policy: only Idle accepts a detection, only Submitting
// accepts a response, only Cooldown accepts its timer, and the cooldown is
// unconditional.
func Transition(s State, ev Event) (State, Effect) {
	switch ev {
	case EventDetected:
		if s == StateIdle {
			return StateSubmitting, EffectSubmit
		}
	case EventResponse:
		if s == StateSubmitting {
			return StateCooldown, EffectStartCooldown
		}
	case EventCooldownOver:
		if s == StateCooldown {
			return StateIdle, EffectNone
		}
	}
	return s, EffectNone
}
