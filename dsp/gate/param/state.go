package param

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StateVersion is the version written by MarshalState.
const StateVersion = 1

// ErrStateVersion reports a state document from an unsupported version.
var ErrStateVersion = errors.New("unsupported state version")

type stateDocument struct {
	Version int                `json:"stateVersion"`
	Params  map[string]float64 `json:"params"`
}

// MarshalState encodes every parameter of v as a versioned JSON document.
func MarshalState(v Values) ([]byte, error) {
	doc := stateDocument{
		Version: StateVersion,
		Params:  make(map[string]float64, Count),
	}
	for _, s := range specs {
		doc.Params[s.Name] = v.Get(s.ID)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes a document written by MarshalState. Missing
// parameters keep their defaults, unknown names are ignored and all values
// are clamped to their declared ranges.
func UnmarshalState(data []byte) (Values, error) {
	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Values{}, fmt.Errorf("decode state: %w", err)
	}
	if doc.Version < 1 || doc.Version > StateVersion {
		return Values{}, fmt.Errorf("%w: %d", ErrStateVersion, doc.Version)
	}

	v := Defaults()
	for name, x := range doc.Params {
		id, err := ByName(name)
		if err != nil {
			continue
		}
		v = v.With(id, x)
	}
	return v, nil
}

// Save encodes the current store contents.
func (s *Store) Save() ([]byte, error) {
	return MarshalState(s.Load())
}

// Restore replaces the store contents with a decoded state document.
func (s *Store) Restore(data []byte) error {
	v, err := UnmarshalState(data)
	if err != nil {
		return err
	}
	s.Replace(v)
	return nil
}
