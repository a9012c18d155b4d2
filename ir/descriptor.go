package ir

// TypeKind identifies the category of a generated type descriptor.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindRecord
	KindModule
	KindStruct
	KindStaticClass
	KindAbstractClass
)

// String returns the source-level keyword for the kind.
func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindRecord:
		return "record"
	case KindModule:
		return "module"
	case KindStruct:
		return "struct"
	case KindStaticClass:
		return "static class"
	case KindAbstractClass:
		return "abstract class"
	default:
		return "class"
	}
}

// GeneratedType is a type-like entity produced by an external generator,
// with members whose bodies are expression trees rather than compiled code.
//
// Descriptors are created before the engine runs and are immutable for the
// engine's purposes. Member types may reference ancestor or sibling
// descriptors; the walker's visited set is the only cycle guard.
type GeneratedType struct {
	Namespace string
	Name      string

	// Declaring is the enclosing descriptor for nested types, forming a
	// nesting chain rendered as Outer+Inner.
	Declaring *GeneratedType

	// Base is the base-type reference. A nil or object base is omitted
	// from the rendered header.
	Base *TypeRef

	Kind TypeKind

	// Members holds the ordered member collection. The signature printer
	// sorts by name at render time; declaration order is preserved here
	// because record construction matches fields positionally.
	Members []Member
}

// Ref returns a TypeRef resolving to this descriptor.
func (t *GeneratedType) Ref() *TypeRef { return RefOf(t) }

// RecordFields returns the property names in declaration order. Record
// construction literals match constructor arguments to these positionally.
func (t *GeneratedType) RecordFields() []string {
	var names []string
	for _, m := range t.Members {
		if p, ok := m.(*Property); ok {
			names = append(names, p.Name)
		}
	}
	return names
}

// Param describes one formal parameter: a name, a type, and optionality.
type Param struct {
	Name string
	Type *TypeRef

	// Optional marks a parameter that may be omitted at the call site.
	// A supplied argument equal to the missing sentinel is elided when
	// the call is printed.
	Optional bool
}

// BodyFunc lazily obtains a member's expression-tree body. The args slice
// carries one expression per formal parameter; for instance members the
// receiver is prepended. The signature printer substitutes typed null
// placeholders so the tree can be obtained without live arguments.
type BodyFunc func(args []Expr) Expr

// MemberKind identifies the category of a member.
type MemberKind int

const (
	MemberConstructor MemberKind = iota
	MemberLiteralField
	MemberProperty
	MemberMethod
)

// Member is the sealed interface over the four member categories.
type Member interface {
	// MemberName returns the member's display name used for sorting.
	MemberName() string

	// Static reports whether the member is static.
	Static() bool

	// MemberKind returns the member kind for type switching.
	MemberKind() MemberKind

	sealed()
}

// Constructor is an instance constructor.
type Constructor struct {
	Params []Param

	// Declaring is the constructed type, used as the rendered result type.
	Declaring *TypeRef

	Body BodyFunc
}

func (c *Constructor) MemberName() string     { return "new" }
func (c *Constructor) Static() bool           { return false }
func (c *Constructor) MemberKind() MemberKind { return MemberConstructor }
func (c *Constructor) sealed()                {}

// LiteralField is a constant field. It carries no expression body.
type LiteralField struct {
	Name     string
	IsStatic bool
	Type     *TypeRef
	Value    any
}

func (f *LiteralField) MemberName() string     { return f.Name }
func (f *LiteralField) Static() bool           { return f.IsStatic }
func (f *LiteralField) MemberKind() MemberKind { return MemberLiteralField }
func (f *LiteralField) sealed()                {}

// Property is a get/set property. A property exposing neither accessor is a
// logic defect in the caller's descriptor and is not sanitized here.
type Property struct {
	Name     string
	IsStatic bool
	Type     *TypeRef

	// IndexParams are the indexer parameters, empty for plain properties.
	IndexParams []Param

	HasGetter bool
	HasSetter bool

	// Getter obtains the getter body when body rendering is requested.
	Getter BodyFunc
}

func (p *Property) MemberName() string     { return p.Name }
func (p *Property) Static() bool           { return p.IsStatic }
func (p *Property) MemberKind() MemberKind { return MemberProperty }
func (p *Property) sealed()                {}

// Method is a named method.
type Method struct {
	Name     string
	IsStatic bool
	Params   []Param
	Return   *TypeRef
	Body     BodyFunc

	// CurriedGroups is the counted curried-argument-group attribute value,
	// zero when the method takes a classic parenthesized argument list.
	CurriedGroups int
}

func (m *Method) MemberName() string     { return m.Name }
func (m *Method) Static() bool           { return m.IsStatic }
func (m *Method) MemberKind() MemberKind { return MemberMethod }
func (m *Method) sealed()                {}

// MethodRef identifies the target of a call expression: its name, declaring
// type, parameter metadata, and the attribute-driven layout hints the
// renderer needs.
type MethodRef struct {
	Name      string
	Declaring *TypeRef
	Params    []Param
	Return    *TypeRef
	IsStatic  bool

	// CurriedGroups mirrors Method.CurriedGroups for call-site layout.
	CurriedGroups int
}
