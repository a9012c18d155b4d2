package provider

import (
	"context"
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/typesnap/typesnap/ir"
)

// SourceProvider extracts descriptors by analyzing Go source packages.
// Compared to the reflection provider it sees declared method sets and
// instantiated generics without the types being linked into the process.
type SourceProvider struct{}

// SourceInputOptions configures source-based extraction.
type SourceInputOptions struct {
	// Packages are the Go package paths to analyze.
	Packages []string

	// RootTypes are the type names to extract. If empty, all exported
	// struct types in the packages are extracted.
	RootTypes []string
}

// Build loads the packages and returns descriptors for the root types and
// everything reachable from them, in first-visit order.
func (p *SourceProvider) Build(ctx context.Context, opts SourceInputOptions) ([]*ir.GeneratedType, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	b := newSourceBuilder()
	if len(opts.RootTypes) > 0 {
		for _, name := range opts.RootTypes {
			if err := b.extractRoot(pkgs, name); err != nil {
				return nil, err
			}
		}
	} else {
		for _, pkg := range pkgs {
			scope := pkg.Types.Scope()
			for _, name := range scope.Names() {
				obj := scope.Lookup(name)
				if !obj.Exported() {
					continue
				}
				if tn, ok := obj.(*types.TypeName); ok {
					b.extractNamed(tn.Type())
				}
			}
		}
	}

	if len(b.ordered) == 0 {
		return nil, fmt.Errorf("no struct types found")
	}
	return b.ordered, nil
}

type sourceBuilder struct {
	byType  map[*types.Named]*ir.GeneratedType
	ordered []*ir.GeneratedType
}

func newSourceBuilder() *sourceBuilder {
	return &sourceBuilder{byType: make(map[*types.Named]*ir.GeneratedType)}
}

func (b *sourceBuilder) extractRoot(pkgs []*packages.Package, name string) error {
	for _, pkg := range pkgs {
		obj := pkg.Types.Scope().Lookup(name)
		if obj == nil {
			continue
		}
		tn, ok := obj.(*types.TypeName)
		if !ok {
			continue
		}
		b.extractNamed(tn.Type())
		return nil
	}
	return fmt.Errorf("type %s not found in any package", name)
}

// extractNamed builds a descriptor for a named struct type. Other named
// types convert to plain references and are not descriptors.
func (b *sourceBuilder) extractNamed(t types.Type) *ir.GeneratedType {
	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	if desc, ok := b.byType[named]; ok {
		return desc
	}

	obj := named.Obj()
	desc := &ir.GeneratedType{
		Name: obj.Name(),
		Kind: ir.KindClass,
	}
	if obj.Pkg() != nil {
		desc.Namespace = obj.Pkg().Path()
	}
	b.byType[named] = desc
	b.ordered = append(b.ordered, desc)

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}
		desc.Members = append(desc.Members, &ir.Property{
			Name:      field.Name(),
			Type:      b.typeRef(field.Type()),
			HasGetter: true,
			HasSetter: true,
		})
	}

	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if !m.Exported() {
			continue
		}
		desc.Members = append(desc.Members, b.methodMember(m))
	}

	return desc
}

func (b *sourceBuilder) methodMember(m *types.Func) *ir.Method {
	sig := m.Type().(*types.Signature)

	var params []ir.Param
	for i := 0; i < sig.Params().Len(); i++ {
		p := sig.Params().At(i)
		name := p.Name()
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		params = append(params, ir.Param{Name: name, Type: b.typeRef(p.Type())})
	}

	ret := ir.Unit
	if sig.Results().Len() > 0 {
		ret = b.typeRef(sig.Results().At(0).Type())
	}

	return &ir.Method{Name: m.Name(), Params: params, Return: ret}
}

// typeRef converts a go/types type to a type reference, building
// descriptors for reachable named struct types as a side effect.
func (b *sourceBuilder) typeRef(t types.Type) *ir.TypeRef {
	switch v := t.(type) {
	case *types.Basic:
		return basicRef(v)
	case *types.Pointer:
		return b.typeRef(v.Elem())
	case *types.Slice:
		return ir.ArrayOf(b.typeRef(v.Elem()))
	case *types.Array:
		return ir.ArrayOf(b.typeRef(v.Elem()))
	case *types.Map:
		return ir.Generic("", "Map", b.typeRef(v.Key()), b.typeRef(v.Elem()))
	case *types.Named:
		if desc := b.extractNamed(v); desc != nil {
			return desc.Ref()
		}
		obj := v.Obj()
		ref := ir.Named("", obj.Name())
		if obj.Pkg() != nil {
			ref.Namespace = obj.Pkg().Path()
		}
		for i := 0; i < v.TypeArgs().Len(); i++ {
			ref.Args = append(ref.Args, b.typeRef(v.TypeArgs().At(i)))
		}
		return ref
	case *types.Signature:
		domain := ir.Unit
		if v.Params().Len() > 0 {
			domain = b.typeRef(v.Params().At(0).Type())
		}
		codomain := ir.Unit
		if v.Results().Len() > 0 {
			codomain = b.typeRef(v.Results().At(0).Type())
		}
		return ir.FuncOf(domain, codomain)
	case *types.TypeParam:
		return ir.GenParam(v.Obj().Name())
	case *types.Interface:
		if v.NumMethods() == 0 {
			return ir.Object
		}
		return ir.Named("", "interface")
	default:
		return ir.Named("", t.String())
	}
}

func basicRef(v *types.Basic) *ir.TypeRef {
	switch v.Kind() {
	case types.Bool:
		return ir.Bool
	case types.Int, types.Int8, types.Int16, types.Int32,
		types.Uint, types.Uint8, types.Uint16, types.Uint32:
		return ir.Int
	case types.Int64, types.Uint64:
		return ir.Int64
	case types.Float64:
		return ir.Float
	case types.Float32:
		return ir.Float32
	case types.String:
		return ir.String
	default:
		return ir.Named("", v.Name())
	}
}
