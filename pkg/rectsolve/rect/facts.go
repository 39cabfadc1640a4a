package rect

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Facts is the typed input of a solve session: optionally one or both
// sides, plus any directly supplied traits.
type Facts struct {
	SideX  Dim
	SideY  Dim
	Traits map[TraitKey]TraitValue
}

// NewFacts returns an empty fact set.
func NewFacts() Facts {
	return Facts{Traits: make(map[TraitKey]TraitValue)}
}

// With adds a trait and returns the updated fact set.
func (f Facts) With(key TraitKey, v TraitValue) Facts {
	if f.Traits == nil {
		f.Traits = make(map[TraitKey]TraitValue)
	}
	f.Traits[key] = v
	return f
}

// Empty reports whether no fact is present.
func (f Facts) Empty() bool {
	return !f.SideX.Known() && !f.SideY.Known() && len(f.Traits) == 0
}

// Rectangle builds the initial store for a session.
func (f Facts) Rectangle() *Rectangle {
	r := New()
	r.Width = f.SideX
	r.Height = f.SideY
	for k, v := range f.Traits {
		r.Set(k, v)
	}
	return r
}

func (f Facts) String() string {
	keys := make([]TraitKey, 0, len(f.Traits))
	for k := range f.Traits {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	s := "{"
	sep := ""
	if f.SideX.Known() {
		s += fmt.Sprintf("sideX: %g", f.SideX.Value())
		sep = ", "
	}
	if f.SideY.Known() {
		s += fmt.Sprintf("%ssideY: %g", sep, f.SideY.Value())
		sep = ", "
	}
	for _, k := range keys {
		s += fmt.Sprintf("%s%s: %s", sep, k, f.Traits[k])
		sep = ", "
	}
	return s + "}"
}

type factsJSON struct {
	SideX  Dim                   `json:"side_x"`
	SideY  Dim                   `json:"side_y"`
	Traits map[string]TraitValue `json:"traits,omitempty"`
}

// MarshalJSON encodes traits by name.
func (f Facts) MarshalJSON() ([]byte, error) {
	out := factsJSON{SideX: f.SideX, SideY: f.SideY, Traits: make(map[string]TraitValue, len(f.Traits))}
	for k, v := range f.Traits {
		out.Traits[k.String()] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON.
func (f *Facts) UnmarshalJSON(data []byte) error {
	var in factsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*f = Facts{SideX: in.SideX, SideY: in.SideY, Traits: make(map[TraitKey]TraitValue, len(in.Traits))}
	for name, v := range in.Traits {
		k, err := ParseTraitKey(name)
		if err != nil {
			return err
		}
		f.Traits[k] = v
	}
	return nil
}
