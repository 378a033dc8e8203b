package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Verdict tells the breaker how a guarded call reflects dependency health.
type Verdict int

const (
	// Healthy closes a half open breaker once enough probes succeed.
	Healthy Verdict = iota
	// Unhealthy counts toward opening the breaker.
	Unhealthy
	// Neutral frees the probe slot without counting either way, e.g. for
	// caller mistakes the dependency rejected correctly.
	Neutral
)

// Classifier maps the error of a guarded call to a Verdict. nil means success.
type Classifier func(error) Verdict

// Policy configures a Breaker. Zero fields take DefaultPolicy values.
type Policy struct {
	FailureThreshold int
	OpenFor          time.Duration
	HalfOpenProbes   int
}

func DefaultPolicy() Policy {
	return Policy{FailureThreshold: 5, OpenFor: 15 * time.Second, HalfOpenProbes: 2}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.FailureThreshold < 1 {
		p.FailureThreshold = d.FailureThreshold
	}
	if p.OpenFor <= 0 {
		p.OpenFor = d.OpenFor
	}
	if p.HalfOpenProbes < 1 {
		p.HalfOpenProbes = d.HalfOpenProbes
	}
	return p
}

// Breaker fails fast once a dependency keeps failing. It never retries. A nil
// *Breaker runs every call unguarded.
type Breaker struct {
	name   string
	policy Policy
	now    func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probes   int
	passed   int
	onChange []func(from, to State)
}

func NewBreaker(name string, policy Policy) *Breaker {
	return &Breaker{
		name:   name,
		policy: policy.withDefaults(),
		now:    time.Now,
		state:  StateClosed,
	}
}

func (b *Breaker) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// OnStateChange adds fn to the transition listeners. Listeners run after the
// breaker lock is released.
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	if b == nil || fn == nil {
		return
	}
	b.mu.Lock()
	b.onChange = append(b.onChange, fn)
	b.mu.Unlock()
}

// State reports an expired open breaker as half open.
func (b *Breaker) State() State {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.policy.OpenFor {
		return StateHalfOpen
	}
	return b.state
}

// Do runs fn unless the breaker rejects it, then feeds classify(err) back.
func (b *Breaker) Do(classify Classifier, fn func() error) error {
	if b == nil {
		return fn()
	}
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	verdict := Healthy
	if err != nil {
		verdict = Unhealthy
		if classify != nil {
			verdict = classify(err)
		}
	}
	b.settle(verdict)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	from := b.state
	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.policy.OpenFor {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.transition(StateHalfOpen)
	}
	if b.state == StateHalfOpen {
		if b.probes >= b.policy.HalfOpenProbes {
			b.unlock(from)
			return ErrCircuitOpen
		}
		b.probes++
	}
	b.unlock(from)
	return nil
}

func (b *Breaker) settle(v Verdict) {
	b.mu.Lock()
	from := b.state
	if b.state == StateHalfOpen && b.probes > 0 {
		b.probes--
	}

	switch {
	case v == Neutral:
	case b.state == StateClosed && v == Healthy:
		b.failures = 0
	case b.state == StateClosed:
		b.failures++
		if b.failures >= b.policy.FailureThreshold {
			b.transition(StateOpen)
		}
	case b.state == StateHalfOpen && v == Healthy:
		b.passed++
		if b.passed >= b.policy.HalfOpenProbes && b.probes == 0 {
			b.transition(StateClosed)
		}
	case b.state == StateHalfOpen:
		b.transition(StateOpen)
	case b.state == StateOpen && v == Unhealthy:
		b.openedAt = b.now()
	}
	b.unlock(from)
}

// transition must be called with mu held.
func (b *Breaker) transition(to State) {
	b.state = to
	b.probes = 0
	b.passed = 0
	switch to {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	}
}

func (b *Breaker) unlock(from State) {
	to := b.state
	listeners := b.onChange
	b.mu.Unlock()

	if from == to {
		return
	}
	for _, fn := range listeners {
		fn(from, to)
	}
}
