package rect

import (
	"encoding/json"
	"fmt"
)

type rectangleJSON struct {
	Width  Dim                        `json:"width"`
	Height Dim                        `json:"height"`
	Traits map[string]json.RawMessage `json:"traits"`
}

// MarshalJSON renders the snapshot shape consumed by the trace writer:
// {"width": w, "height": h, "traits": {"Area": 48, "SideDistances": [3, 4]}}.
func (r Rectangle) MarshalJSON() ([]byte, error) {
	out := rectangleJSON{
		Width:  r.Width,
		Height: r.Height,
		Traits: make(map[string]json.RawMessage, len(r.traits)),
	}
	for k, v := range r.traits {
		raw, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out.Traits[k.String()] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON.
func (r *Rectangle) UnmarshalJSON(data []byte) error {
	var in rectangleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Rectangle{Width: in.Width, Height: in.Height, traits: make(map[TraitKey]TraitValue, len(in.Traits))}
	for name, raw := range in.Traits {
		k, err := ParseTraitKey(name)
		if err != nil {
			return err
		}
		var v TraitValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("trait %s: %w", name, err)
		}
		r.traits[k] = v
	}
	return nil
}

// MarshalJSON encodes a single as a number and a pair as a two-element array.
func (v TraitValue) MarshalJSON() ([]byte, error) {
	if v.pair {
		return json.Marshal([2]float64{v.a, v.b})
	}
	return json.Marshal(v.a)
}

// UnmarshalJSON accepts a number or a two-element array.
func (v *TraitValue) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("pair must have 2 elements, got %d", len(pair))
		}
		*v = Pair(pair[0], pair[1])
		return nil
	}
	var single float64
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*v = Single(single)
	return nil
}
