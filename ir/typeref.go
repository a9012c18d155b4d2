// Package ir defines the descriptor and expression-tree data model for
// generated type graphs. Descriptors are produced by providers (or built
// directly by a generator) and consumed by the render package; they are
// immutable once handed to the engine and may contain cycles.
package ir

// TypeRef is a reference to a type, possibly generic, possibly an array,
// possibly resolving to a generated descriptor.
//
// Identity: two TypeRefs denoting the same generated descriptor compare
// equal by descriptor pointer, never by display name. Visited-set
// deduplication in the walker relies on this.
type TypeRef struct {
	// Namespace is the dotted namespace, empty for builtins and
	// generic parameters.
	Namespace string

	// Name is the simple type name. Generic instantiations may encode
	// extra identity after a comma; only the prefix is display-relevant.
	// A name containing an open bracket denotes a unit-of-measure
	// annotation on an underlying numeric type.
	Name string

	// Args are the ordered generic arguments, empty for non-generic types.
	Args []*TypeRef

	// Elem is the element type when this ref is an array type.
	Elem *TypeRef

	// Generated points to the descriptor when this reference resolves to
	// a type produced by this system rather than a host/builtin type.
	Generated *GeneratedType

	// Declaring is the declaring type for nested types.
	Declaring *TypeRef

	// GenericParam marks a generic parameter reference (T, 'a).
	GenericParam bool

	// Foreign marks a type originating from a foreign assembly. It is
	// used only for diagnostic suffixing.
	Foreign bool
}

// IsArray reports whether the reference denotes an array type.
func (r *TypeRef) IsArray() bool { return r != nil && r.Elem != nil }

// Named returns a TypeRef for a plain named type.
func Named(namespace, name string) *TypeRef {
	return &TypeRef{Namespace: namespace, Name: name}
}

// Generic returns a TypeRef for a generic instantiation.
func Generic(namespace, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Namespace: namespace, Name: name, Args: args}
}

// ArrayOf returns a TypeRef for an array of elem.
func ArrayOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Name: elem.Name + "[]", Elem: elem}
}

// GenParam returns a TypeRef for a generic parameter.
func GenParam(name string) *TypeRef {
	return &TypeRef{Name: name, GenericParam: true}
}

// RefOf returns a TypeRef resolving to a generated descriptor.
func RefOf(t *GeneratedType) *TypeRef {
	return &TypeRef{Namespace: t.Namespace, Name: t.Name, Generated: t}
}

// Builtin type references shared across the model. The render package maps
// these to short keywords.
var (
	Bool    = Named("System", "Boolean")
	Object  = Named("System", "Object")
	Int     = Named("System", "Int32")
	Int64   = Named("System", "Int64")
	Float   = Named("System", "Double")
	Float32 = Named("System", "Single")
	Decimal = Named("System", "Decimal")
	String  = Named("System", "String")
	Unit    = Named("System", "Void")
)
