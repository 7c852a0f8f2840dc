// Package animation drives time-bounded property interpolations on the
// render thread. There is no global scheduler: the owner calls
// Engine.Update once per frame with the frame delta.
package animation

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"particle-morph/core"
)

// Token invalidates every tween started with it once cancelled. Cancelled
// tweens stop writing immediately and their completion callbacks never run.
type Token struct {
	cancelled bool
}

func NewToken() *Token { return &Token{} }

func (t *Token) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled
}

// Options configures a single tween.
type Options struct {
	Duration   float32 // seconds; <= 0 completes on the next Update
	Ease       ease.TweenFunc
	OnComplete func()
	Token      *Token
}

// Tween interpolates one value and writes it through apply every update.
type Tween struct {
	tw         *gween.Tween // nil for zero-length tweens
	to         float32
	apply      func(float32)
	onComplete func()
	token      *Token
	done       bool
}

// Done reports whether the tween finished or was cancelled.
func (t *Tween) Done() bool {
	return t.done || t.token.Cancelled()
}

// step advances the tween and reports whether it has just finished.
func (t *Tween) step(dt float32) bool {
	if t.tw == nil {
		t.apply(t.to)
		t.done = true
		return true
	}
	val, finished := t.tw.Update(dt)
	t.apply(val)
	if finished {
		t.done = true
	}
	return finished
}

// Engine owns the set of running tweens.
type Engine struct {
	active []*Tween
}

func NewEngine() *Engine {
	return &Engine{}
}

// To tweens *target from its current value to `to`.
func (e *Engine) To(target *float32, to float32, opts Options) *Tween {
	return e.FromTo(target, *target, to, opts)
}

// FromTo writes `from` into *target immediately, then tweens it to `to`.
func (e *Engine) FromTo(target *float32, from, to float32, opts Options) *Tween {
	*target = from
	return e.start(from, to, opts, func(v float32) { *target = v })
}

// Color tweens every channel of *target from its current value to `to`.
func (e *Engine) Color(target *core.Color, to core.Color, opts Options) *Tween {
	from := *target
	return e.start(0, 1, opts, func(t float32) { *target = from.Lerp(to, t) })
}

// Func tweens an arbitrary setter from `from` to `to`.
func (e *Engine) Func(from, to float32, opts Options, apply func(float32)) *Tween {
	apply(from)
	return e.start(from, to, opts, apply)
}

func (e *Engine) start(from, to float32, opts Options, apply func(float32)) *Tween {
	fn := opts.Ease
	if fn == nil {
		fn = ease.Linear
	}
	t := &Tween{
		to:         to,
		apply:      apply,
		onComplete: opts.OnComplete,
		token:      opts.Token,
	}
	if opts.Duration > 0 {
		t.tw = gween.New(from, to, opts.Duration, fn)
	}
	e.active = append(e.active, t)
	return t
}

// Update advances every running tween by dt seconds. Completion callbacks
// run after all values for this frame are written; tweens they start are
// first advanced on the next Update.
func (e *Engine) Update(dt float32) {
	running := e.active
	e.active = nil

	var completed []*Tween
	for _, t := range running {
		if t.token.Cancelled() {
			continue
		}
		if t.step(dt) {
			completed = append(completed, t)
			continue
		}
		e.active = append(e.active, t)
	}
	for _, t := range completed {
		// A callback earlier in this batch may have cancelled the token.
		if t.onComplete != nil && !t.token.Cancelled() {
			t.onComplete()
		}
	}
}

// Active returns the number of running tweens.
func (e *Engine) Active() int {
	n := 0
	for _, t := range e.active {
		if !t.token.Cancelled() {
			n++
		}
	}
	return n
}

// Clear drops every running tween without firing callbacks.
func (e *Engine) Clear() {
	e.active = nil
}

// MapLinear maps x from [inMin, inMax] onto [outMin, outMax] without clamping.
func MapLinear(x, inMin, inMax, outMin, outMax float32) float32 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (x-inMin)*(outMax-outMin)/(inMax-inMin)
}
