package orbit

// Envelope is an audio envelope bound to a body. Play must not block.
type Envelope interface {
	Play()
}

// Trigger fires the bound envelope and the glow pulse of bodies that crossed
// the centre line.
type Trigger struct {
	envelopes map[BodyID]Envelope
}

func NewTrigger() *Trigger {
	return &Trigger{envelopes: make(map[BodyID]Envelope)}
}

func (t *Trigger) Bind(id BodyID, env Envelope) {
	if env == nil {
		delete(t.envelopes, id)
		return
	}
	t.envelopes[id] = env
}

// Unbind removes and returns the envelope of id.
func (t *Trigger) Unbind(id BodyID) (Envelope, bool) {
	env, ok := t.envelopes[id]
	delete(t.envelopes, id)
	return env, ok
}

// Reset drops every binding and returns the envelopes that were bound.
func (t *Trigger) Reset() []Envelope {
	out := make([]Envelope, 0, len(t.envelopes))
	for id, env := range t.envelopes {
		out = append(out, env)
		delete(t.envelopes, id)
	}
	return out
}

// Fire sets the glow of every crossing body to GlowMax and plays its envelope.
// Retriggering while the glow is still fading restarts it.
func (t *Trigger) Fire(s *System, crossings []Crossing) {
	for _, c := range crossings {
		if c.Index < 0 || c.Index >= s.Len() {
			continue
		}
		b := s.Body(c.Index)
		b.Glow = GlowMax
		if env, ok := t.envelopes[b.ID]; ok {
			env.Play()
		}
	}
}

// Decay fades every glow by GlowStep, clamped at zero.
func (t *Trigger) Decay(s *System) {
	for i := 0; i < s.Len(); i++ {
		DecayGlow(s.Body(i))
	}
}

func DecayGlow(b *Body) {
	if b.Glow > 0 {
		b.Glow -= GlowStep
		if b.Glow < 0 {
			b.Glow = 0
		}
	}
}
