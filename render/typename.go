// Package render implements the pretty-printing engine for generated type
// graphs: a bounded breadth-first walker over descriptor graphs and a
// recursive-descent renderer for the expression trees backing member
// bodies. Output is deterministic for a given graph and options.
package render

import (
	"strings"

	"github.com/typesnap/typesnap/ir"
)

// genericShape tags the well-known generic containers that render in a
// special form. Shapes are recognized through a synthetic-name lookup
// table rather than nominal identity; unknown containers fall back to the
// generic Name<Args> form.
type genericShape int

const (
	shapeNone genericShape = iota
	shapeTuple
	shapeFunc
	shapeSeq
	shapeList
	shapeOption
	shapeRef
	shapeAsync
)

var shapeNames = map[string]genericShape{
	"Tuple":        shapeTuple,
	"ValueTuple":   shapeTuple,
	"FSharpFunc":   shapeFunc,
	"IEnumerable":  shapeSeq,
	"FSharpList":   shapeList,
	"FSharpOption": shapeOption,
	"FSharpRef":    shapeRef,
	"FSharpAsync":  shapeAsync,
}

// postfixOperator maps the trailing type-operator shapes to their keyword.
var postfixOperator = map[genericShape]string{
	shapeSeq:    "seq",
	shapeList:   "list",
	shapeOption: "option",
	shapeRef:    "ref",
	shapeAsync:  "async",
}

// shapeOf recognizes the generic shape of a type reference by synthetic
// name, stripping any arity marker.
func shapeOf(r *ir.TypeRef) genericShape {
	if r == nil || len(r.Args) == 0 {
		return shapeNone
	}
	name := r.Name
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	return shapeNames[name]
}

// builtinAlias maps primitive type names to their short keywords. Aliases
// apply independently of qualified-name mode.
var builtinAlias = map[string]string{
	"Boolean": "bool",
	"Object":  "obj",
	"Int32":   "int",
	"Int64":   "int64",
	"Double":  "float",
	"Single":  "float32",
	"Decimal": "decimal",
	"String":  "string",
	"Void":    "unit",
}

// formatTypeRef renders a type reference as a canonical display string and,
// as a side effect, enqueues any not-yet-seen generated descriptor it
// touches. This is the single point feeding discovered nodes back to the
// walker's queue.
func (w *walker) formatTypeRef(r *ir.TypeRef, qualified bool) string {
	name := w.formatInner(r, qualified)
	if hasForeignComponent(r) {
		name += " [FOREIGN]"
	}
	return name
}

func (w *walker) formatInner(r *ir.TypeRef, qualified bool) string {
	if r == nil {
		return "<NULL>"
	}

	if alias, ok := lookupBuiltin(r); ok {
		return alias
	}

	if r.IsArray() {
		return w.formatInner(r.Elem, qualified) + "[]"
	}

	if r.Generated != nil {
		w.register(r.Generated)
		// Parametric-type instances encode extra identity after a comma;
		// only the prefix is display-relevant.
		name, _, _ := strings.Cut(r.Name, ",")
		return name
	}

	if len(r.Args) > 0 {
		return w.formatGeneric(r, qualified)
	}

	// A name containing an open bracket denotes a unit of measure on an
	// underlying numeric type.
	if i := strings.IndexByte(r.Name, '['); i >= 0 {
		underlying := r.Name[:i]
		if alias, ok := builtinAlias[underlying]; ok {
			underlying = alias
		}
		return underlying + r.Name[i:]
	}

	if r.Declaring != nil {
		return w.formatInner(r.Declaring, qualified) + "+" + r.Name
	}

	if qualified && r.Namespace != "" && !r.GenericParam {
		return r.Namespace + "." + r.Name
	}
	return r.Name
}

func (w *walker) formatGeneric(r *ir.TypeRef, qualified bool) string {
	switch shape := shapeOf(r); shape {
	case shapeTuple:
		parts := make([]string, len(r.Args))
		for i, a := range r.Args {
			parts[i] = w.formatInner(a, qualified)
		}
		return strings.Join(parts, " * ")
	case shapeFunc:
		return w.formatInner(r.Args[0], qualified) + " -> " + w.formatInner(r.Args[1], qualified)
	case shapeSeq, shapeList, shapeOption, shapeRef, shapeAsync:
		return w.formatInner(r.Args[0], qualified) + " " + postfixOperator[shape]
	}

	name := r.Name
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	if qualified && r.Namespace != "" {
		name = r.Namespace + "." + name
	}

	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		if qualified {
			parts[i] = w.formatInner(a, qualified)
		} else {
			// Argument list only needed for arity here, not identity.
			parts[i] = "_"
		}
	}
	return name + "<" + strings.Join(parts, ", ") + ">"
}

func lookupBuiltin(r *ir.TypeRef) (string, bool) {
	if len(r.Args) > 0 || r.IsArray() {
		return "", false
	}
	if r.Namespace != "" && r.Namespace != "System" {
		return "", false
	}
	alias, ok := builtinAlias[r.Name]
	return alias, ok
}

// hasForeignComponent searches depth-first for a component type marked as
// originating from a foreign assembly, skipping generated descriptors and
// generic parameters. First hit wins.
func hasForeignComponent(r *ir.TypeRef) bool {
	if r == nil {
		return false
	}
	if r.Foreign && r.Generated == nil && !r.GenericParam {
		return true
	}
	if r.Elem != nil && hasForeignComponent(r.Elem) {
		return true
	}
	for _, a := range r.Args {
		if hasForeignComponent(a) {
			return true
		}
	}
	return false
}
