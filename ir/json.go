package ir

import "encoding/json"

// JSON serialization support for descriptor graphs. All polymorphic types
// include a "kind" field for discrimination. Cyclic graphs are flattened:
// a generated TypeRef serializes as a name reference, never as the inline
// descriptor, so marshalling terminates.

// MarshalJSON implements json.Marshaler for TypeRef.
func (r *TypeRef) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return json.Marshal(&struct {
		Namespace    string     `json:"namespace,omitempty"`
		Name         string     `json:"name"`
		Args         []*TypeRef `json:"args,omitempty"`
		Elem         *TypeRef   `json:"elem,omitempty"`
		Generated    bool       `json:"generated,omitempty"`
		GenericParam bool       `json:"genericParam,omitempty"`
		Foreign      bool       `json:"foreign,omitempty"`
	}{
		Namespace:    r.Namespace,
		Name:         r.Name,
		Args:         r.Args,
		Elem:         r.Elem,
		Generated:    r.Generated != nil,
		GenericParam: r.GenericParam,
		Foreign:      r.Foreign,
	})
}

// MarshalJSON implements json.Marshaler for GeneratedType.
func (t *GeneratedType) MarshalJSON() ([]byte, error) {
	members := make([]json.RawMessage, 0, len(t.Members))
	for _, m := range t.Members {
		b, err := marshalMember(m)
		if err != nil {
			return nil, err
		}
		members = append(members, b)
	}
	var declaring string
	if t.Declaring != nil {
		declaring = t.Declaring.Name
	}
	return json.Marshal(&struct {
		Namespace string            `json:"namespace,omitempty"`
		Name      string            `json:"name"`
		Declaring string            `json:"declaring,omitempty"`
		Base      *TypeRef          `json:"base,omitempty"`
		Kind      string            `json:"kind"`
		Members   []json.RawMessage `json:"members"`
	}{
		Namespace: t.Namespace,
		Name:      t.Name,
		Declaring: declaring,
		Base:      t.Base,
		Kind:      t.Kind.String(),
		Members:   members,
	})
}

func marshalMember(m Member) ([]byte, error) {
	switch v := m.(type) {
	case *Constructor:
		return json.Marshal(&struct {
			Kind   string   `json:"kind"`
			Params []Param  `json:"params"`
			Result *TypeRef `json:"result,omitempty"`
		}{Kind: "constructor", Params: v.Params, Result: v.Declaring})
	case *LiteralField:
		return json.Marshal(&struct {
			Kind   string   `json:"kind"`
			Name   string   `json:"name"`
			Static bool     `json:"static,omitempty"`
			Type   *TypeRef `json:"type"`
			Value  any      `json:"value,omitempty"`
		}{Kind: "literalField", Name: v.Name, Static: v.IsStatic, Type: v.Type, Value: v.Value})
	case *Property:
		return json.Marshal(&struct {
			Kind      string   `json:"kind"`
			Name      string   `json:"name"`
			Static    bool     `json:"static,omitempty"`
			Type      *TypeRef `json:"type"`
			HasGetter bool     `json:"hasGetter,omitempty"`
			HasSetter bool     `json:"hasSetter,omitempty"`
		}{Kind: "property", Name: v.Name, Static: v.IsStatic, Type: v.Type, HasGetter: v.HasGetter, HasSetter: v.HasSetter})
	case *Method:
		return json.Marshal(&struct {
			Kind   string   `json:"kind"`
			Name   string   `json:"name"`
			Static bool     `json:"static,omitempty"`
			Params []Param  `json:"params"`
			Return *TypeRef `json:"return,omitempty"`
		}{Kind: "method", Name: v.Name, Static: v.IsStatic, Params: v.Params, Return: v.Return})
	default:
		return json.Marshal(&struct {
			Kind string `json:"kind"`
		}{Kind: "unknown"})
	}
}

// MarshalJSON implements json.Marshaler for Param.
func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string   `json:"name"`
		Type     *TypeRef `json:"type"`
		Optional bool     `json:"optional,omitempty"`
	}{Name: p.Name, Type: p.Type, Optional: p.Optional})
}
