package frost

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Transition animates a single option's target over a fixed duration with an
// easing curve. The option's live value still glides behind the moving
// target through the usual per-tick smoothing, so a transition produces a
// fully continuous sweep (e.g. growing the brush radius during an intro).
//
// There is no global transition manager — the owning pipeline updates its
// transitions once per tick and drops them when done.
type Transition struct {
	tween *gween.Tween
	param *animatedParam
	Done  bool
}

// TransitionOption starts animating the named option's target to the given
// value over duration seconds using the easing function. Returns an error
// for an unrecognized option name. A second transition on the same option
// simply takes over: targets are absolute, so the newest writer wins.
func (p *Pipeline) TransitionOption(name string, to float64, duration float32, fn ease.TweenFunc) (*Transition, error) {
	param := p.params.byName(name)
	if param == nil {
		_, err := p.params.option(name) // produce the standard error
		return nil, err
	}
	tr := &Transition{
		tween: gween.New(float32(param.target), float32(to), duration, fn),
		param: param,
	}
	p.transitions = append(p.transitions, tr)
	return tr, nil
}

// update advances the transition by dt seconds and writes the eased value
// into the parameter's target.
func (tr *Transition) update(dt float32) {
	if tr.Done {
		return
	}
	val, finished := tr.tween.Update(dt)
	tr.param.setTarget(float64(val))
	tr.Done = finished
}

// stepTransitions advances all live transitions by one tick and compacts the
// finished ones out of the slice.
func (p *Pipeline) stepTransitions() {
	if len(p.transitions) == 0 {
		return
	}
	const dt = 1.0 / 60 // ticks run at the host's nominal TPS
	live := p.transitions[:0]
	for _, tr := range p.transitions {
		tr.update(dt)
		if !tr.Done {
			live = append(live, tr)
		}
	}
	p.transitions = live
}
