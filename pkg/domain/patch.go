package domain

import (
	"bytes"
	"encoding/json"
)

// Field is a tagged optional value used for partial updates. The zero value
// is unset. Decoding from JSON marks the field set whenever the key is
// present with a non-null value; an absent key or an explicit null leaves it
// unset.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool { return f.set }

// Get returns the value and whether it was set.
func (f Field[T]) Get() (T, bool) { return f.value, f.set }

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}

// MarshalJSON implements json.Marshaler. Unset fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// ShipPatch carries a partial update to a ship. Setting Description to the
// empty string clears it; leaving it unset keeps the prior value.
type ShipPatch struct {
	Name        Field[string]     `json:"name"`
	Designer    Field[string]     `json:"designer"`
	Description Field[string]     `json:"description"`
	Costs       Field[[]CostLine] `json:"costs"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p ShipPatch) IsEmpty() bool {
	return !p.Name.IsSet() && !p.Designer.IsSet() && !p.Description.IsSet() && !p.Costs.IsSet()
}

// NewShip is the input to ship creation.
type NewShip struct {
	Name        string     `json:"name"`
	Designer    string     `json:"designer"`
	Description *string    `json:"description"`
	Costs       []CostLine `json:"costs"`
}

// NewMaterial is the input to material creation.
type NewMaterial struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
