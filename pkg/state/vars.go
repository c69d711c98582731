package state

import "maps"

// Vars holds the hidden variables, keyed by name.
type Vars map[string]int

func (v Vars) Clone() Vars {
	if v == nil {
		return nil
	}
	return maps.Clone(v)
}

// Get returns the named variable, or 0 if absent.
func (v Vars) Get(name string) int {
	return v[name]
}

// ApplyEffects adds each delta to the named variable and clamps the result
// into [VarMin, VarMax]. Names outside CanonicalVars are applied the same way.
func (v Vars) ApplyEffects(effects map[string]int) {
	for name, delta := range effects {
		v[name] = clamp(v[name]+delta, VarMin, VarMax)
	}
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}
