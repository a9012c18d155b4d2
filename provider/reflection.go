// Package provider implements input providers that build generated-type
// descriptor graphs for the render engine. Providers convert live Go types
// or Go source packages into the ir descriptor model; the engine itself
// never constructs descriptors.
package provider

import (
	"context"
	"fmt"
	"reflect"

	"github.com/typesnap/typesnap/ir"
)

// ReflectionProvider extracts descriptors using runtime reflection. It is
// the quick path for snapshotting in-process types; the SourceProvider
// sees richer information (doc comments, generics) from Go source.
type ReflectionProvider struct{}

// ReflectionInputOptions configures reflection-based extraction.
type ReflectionInputOptions struct {
	// RootTypes are the types to extract.
	RootTypes []reflect.Type
}

// Build extracts descriptors for the root types and everything reachable
// from them. The returned slice is in first-visit order, roots first.
func (p *ReflectionProvider) Build(ctx context.Context, opts ReflectionInputOptions) ([]*ir.GeneratedType, error) {
	if len(opts.RootTypes) == 0 {
		return nil, fmt.Errorf("no root types provided")
	}

	b := &reflectionBuilder{
		byType: make(map[reflect.Type]*ir.GeneratedType),
	}

	var roots []*ir.GeneratedType
	for _, t := range opts.RootTypes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		desc, err := b.descriptorFor(t)
		if err != nil {
			return nil, err
		}
		if desc != nil {
			roots = append(roots, desc)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no struct types among roots")
	}
	return b.ordered, nil
}

// reflectionBuilder maintains state during graph construction. Mapping
// each reflect.Type to a single descriptor makes cycles terminate: a
// type being processed already has its (partially filled) descriptor in
// the map when a member refers back to it.
type reflectionBuilder struct {
	byType  map[reflect.Type]*ir.GeneratedType
	ordered []*ir.GeneratedType
}

func (b *reflectionBuilder) descriptorFor(t reflect.Type) (*ir.GeneratedType, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, nil
	}
	if desc, ok := b.byType[t]; ok {
		return desc, nil
	}

	desc := &ir.GeneratedType{
		Namespace: t.PkgPath(),
		Name:      t.Name(),
		Kind:      ir.KindClass,
	}
	if t.Name() == "" {
		desc.Name = t.String()
	}
	b.byType[t] = desc
	b.ordered = append(b.ordered, desc)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		ref, err := b.typeRef(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", desc.Name, field.Name, err)
		}
		desc.Members = append(desc.Members, &ir.Property{
			Name:      field.Name,
			Type:      ref,
			HasGetter: true,
			HasSetter: true,
		})
	}

	// Methods on both the value and pointer receiver sets.
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		member, err := b.methodMember(m)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", desc.Name, m.Name, err)
		}
		desc.Members = append(desc.Members, member)
	}

	return desc, nil
}

func (b *reflectionBuilder) methodMember(m reflect.Method) (*ir.Method, error) {
	var params []ir.Param
	// Skip the receiver at input index 0.
	for i := 1; i < m.Type.NumIn(); i++ {
		ref, err := b.typeRef(m.Type.In(i))
		if err != nil {
			return nil, err
		}
		params = append(params, ir.Param{
			Name: fmt.Sprintf("arg%d", i-1),
			Type: ref,
		})
	}

	ret := ir.Unit
	if m.Type.NumOut() > 0 {
		r, err := b.typeRef(m.Type.Out(0))
		if err != nil {
			return nil, err
		}
		ret = r
	}

	return &ir.Method{Name: m.Name, Params: params, Return: ret}, nil
}

// typeRef converts a reflect.Type to a type reference, creating descriptors
// for reachable struct types as a side effect.
func (b *reflectionBuilder) typeRef(t reflect.Type) (*ir.TypeRef, error) {
	switch t.Kind() {
	case reflect.Bool:
		return ir.Bool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return ir.Int, nil
	case reflect.Int64, reflect.Uint64:
		return ir.Int64, nil
	case reflect.Float64:
		return ir.Float, nil
	case reflect.Float32:
		return ir.Float32, nil
	case reflect.String:
		return ir.String, nil
	case reflect.Pointer:
		return b.typeRef(t.Elem())
	case reflect.Slice, reflect.Array:
		elem, err := b.typeRef(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.ArrayOf(elem), nil
	case reflect.Map:
		key, err := b.typeRef(t.Key())
		if err != nil {
			return nil, err
		}
		value, err := b.typeRef(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Generic(t.PkgPath(), "Map", key, value), nil
	case reflect.Struct:
		desc, err := b.descriptorFor(t)
		if err != nil {
			return nil, err
		}
		return desc.Ref(), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return ir.Object, nil
		}
		return ir.Named(t.PkgPath(), t.Name()), nil
	case reflect.Func:
		return b.funcRef(t)
	default:
		return ir.Named(t.PkgPath(), t.String()), nil
	}
}

// funcRef renders a function type as a right-nested arrow chain.
func (b *reflectionBuilder) funcRef(t reflect.Type) (*ir.TypeRef, error) {
	ret := ir.Unit
	if t.NumOut() > 0 {
		r, err := b.typeRef(t.Out(0))
		if err != nil {
			return nil, err
		}
		ret = r
	}
	if t.NumIn() == 0 {
		return ir.FuncOf(ir.Unit, ret), nil
	}
	result := ret
	for i := t.NumIn() - 1; i >= 0; i-- {
		in, err := b.typeRef(t.In(i))
		if err != nil {
			return nil, err
		}
		result = ir.FuncOf(in, result)
	}
	return result, nil
}
