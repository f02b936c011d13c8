package models

// Delta is an additive change to a GameState produced by an outcome.
type Delta struct {
	Stats        map[Stat]int
	Resources    map[Resource]int
	ActionPoints int
	Trust        map[string]int // librarian id -> change
}

// Stat adds n to stat s and returns d for chaining.
func (d Delta) Stat(s Stat, n int) Delta {
	if d.Stats == nil {
		d.Stats = make(map[Stat]int)
	}
	d.Stats[s] += n
	return d
}

// Resource adds n to resource r and returns d for chaining.
func (d Delta) Resource(r Resource, n int) Delta {
	if d.Resources == nil {
		d.Resources = make(map[Resource]int)
	}
	d.Resources[r] += n
	return d
}

// WithTrust adds n to the trust of librarian id and returns d for chaining.
func (d Delta) WithTrust(id string, n int) Delta {
	if d.Trust == nil {
		d.Trust = make(map[string]int)
	}
	d.Trust[id] += n
	return d
}

// IsZero reports whether applying d would change nothing.
func (d Delta) IsZero() bool {
	for _, n := range d.Stats {
		if n != 0 {
			return false
		}
	}
	for _, n := range d.Resources {
		if n != 0 {
			return false
		}
	}
	for _, n := range d.Trust {
		if n != 0 {
			return false
		}
	}
	return d.ActionPoints == 0
}

// Apply merges d into g and returns the change that actually took effect.
// Stats and trust are clamped to [0,100] and action points are floored at
// zero. Resource gains are added as is, so a balance in debt stays in debt;
// a resource loss stops at zero and leaves a negative balance where it is.
func (g *GameState) Apply(d Delta) Delta {
	var applied Delta
	for s, n := range d.Stats {
		old := g.Stat(s)
		g.SetStat(s, clamp(old+n, 0, StatMax))
		applied = applied.Stat(s, g.Stat(s)-old)
	}
	if len(d.Resources) > 0 && g.Resources == nil {
		g.Resources = make(map[Resource]int)
	}
	for r, n := range d.Resources {
		old := g.Resources[r]
		v := old + n
		if n < 0 {
			v = max(v, min(old, 0))
		}
		g.Resources[r] = v
		applied = applied.Resource(r, v-old)
	}
	old := g.ActionPoints
	g.ActionPoints = max(0, g.ActionPoints+d.ActionPoints)
	applied.ActionPoints = g.ActionPoints - old
	for id, n := range d.Trust {
		if l := g.Librarian(id); l != nil {
			before := l.Trust
			l.Trust = clamp(l.Trust+n, 0, StatMax)
			applied = applied.WithTrust(id, l.Trust-before)
		}
	}
	return applied
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
