package entity

import (
	"particle-morph/animation"
	"particle-morph/core"
)

// Backdrop serialises fades of a shared background colour: starting a fade
// cancels the one in flight so two entities never fight over the target.
type Backdrop struct {
	Target *core.Color
	token  *animation.Token
}

func NewBackdrop(target *core.Color) *Backdrop {
	return &Backdrop{Target: target}
}

// FadeTo tweens the target from its current value to c.
func (b *Backdrop) FadeTo(tweens *animation.Engine, c core.Color, tr Transition) {
	b.token.Cancel()
	b.token = animation.NewToken()
	tweens.Color(b.Target, c, animation.Options{
		Duration: tr.Duration,
		Ease:     tr.Ease,
		Token:    b.token,
	})
}
