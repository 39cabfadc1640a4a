// Package rect holds the rectangle under analysis: its two dimensions and
// the store of derived traits.
package rect

import (
	"encoding/json"
	"math"
	"sort"
)

// Dim is an optional rectangle dimension. The zero value is unknown, so a
// zero-length side can never be mistaken for a missing one.
type Dim struct {
	v     float64
	known bool
}

// Known returns a set dimension.
func Known(v float64) Dim { return Dim{v: v, known: true} }

// Known reports whether the dimension has been set.
func (d Dim) Known() bool { return d.known }

// Value returns the dimension, or 0 when unknown.
func (d Dim) Value() float64 {
	if !d.known {
		return 0
	}
	return d.v
}

// MarshalJSON encodes an unknown dimension as null.
func (d Dim) MarshalJSON() ([]byte, error) {
	if !d.known {
		return []byte("null"), nil
	}
	return json.Marshal(d.v)
}

// UnmarshalJSON accepts a number or null.
func (d *Dim) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*d = Dim{}
		return nil
	}
	*d = Known(*v)
	return nil
}

// Rectangle is the subject of a solve session.
type Rectangle struct {
	Width  Dim
	Height Dim
	traits map[TraitKey]TraitValue
}

// New creates a rectangle with unknown dimensions and no traits.
func New() *Rectangle {
	return &Rectangle{traits: make(map[TraitKey]TraitValue)}
}

// Has reports whether a trait is present.
func (r *Rectangle) Has(key TraitKey) bool {
	_, ok := r.traits[key]
	return ok
}

// Get returns a trait value.
func (r *Rectangle) Get(key TraitKey) (TraitValue, bool) {
	v, ok := r.traits[key]
	return v, ok
}

// Set stores a trait, overwriting any previous value.
func (r *Rectangle) Set(key TraitKey, v TraitValue) {
	if r.traits == nil {
		r.traits = make(map[TraitKey]TraitValue)
	}
	r.traits[key] = v
}

// Single returns a scalar trait. A missing trait or a pair yields false.
func (r *Rectangle) Single(key TraitKey) (float64, bool) {
	v, ok := r.traits[key]
	if !ok {
		return 0, false
	}
	return v.AsSingle()
}

// Pair returns a pair-valued trait. A missing trait or a scalar yields false.
func (r *Rectangle) Pair(key TraitKey) (float64, float64, bool) {
	v, ok := r.traits[key]
	if !ok {
		return 0, 0, false
	}
	return v.AsPair()
}

// SetWidth records a known width.
func (r *Rectangle) SetWidth(v float64) { r.Width = Known(v) }

// SetHeight records a known height.
func (r *Rectangle) SetHeight(v float64) { r.Height = Known(v) }

// HasSides reports whether both dimensions are known.
func (r *Rectangle) HasSides() bool { return r.Width.Known() && r.Height.Known() }

// OneSide returns the single known dimension when exactly one is set.
// widthKnown tells the caller which one it is.
func (r *Rectangle) OneSide() (side float64, widthKnown bool, ok bool) {
	switch {
	case r.Width.Known() && !r.Height.Known():
		return r.Width.Value(), true, true
	case r.Height.Known() && !r.Width.Known():
		return r.Height.Value(), false, true
	}
	return 0, false, false
}

// Keys returns the present trait keys in declaration order.
func (r *Rectangle) Keys() []TraitKey {
	keys := make([]TraitKey, 0, len(r.traits))
	for k := range r.traits {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of stored traits.
func (r *Rectangle) Len() int { return len(r.traits) }

// Clone returns a deep copy.
func (r *Rectangle) Clone() Rectangle {
	out := Rectangle{
		Width:  r.Width,
		Height: r.Height,
		traits: make(map[TraitKey]TraitValue, len(r.traits)),
	}
	for k, v := range r.traits {
		out.traits[k] = v
	}
	return out
}

// Positive reports whether v is a usable measurement.
func Positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
