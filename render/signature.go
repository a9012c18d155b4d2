package render

import (
	"sort"
	"strings"

	"github.com/typesnap/typesnap/ir"
)

// printType renders one descriptor: a header line, then one line per
// member sorted by name. Sorting is load-bearing for determinism, not
// cosmetic. When body rendering is requested each member's expression tree
// is obtained with typed null placeholders substituted for its formals and
// rendered beneath the signature.
func (w *walker) printType(t *ir.GeneratedType) {
	w.st.app(t.Kind.String() + " " + nestedName(t))
	if t.Base != nil && !isObject(t.Base) {
		w.st.app(" : " + w.formatTypeRef(t.Base, w.opts.Qualified))
	}
	w.st.app("\n")

	members := make([]ir.Member, len(t.Members))
	copy(members, t.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].MemberName() < members[j].MemberName()
	})

	for _, m := range members {
		w.printMember(t, m)
	}
	w.st.app("\n")
}

// nestedName renders the declaring-type chain as Outer+Inner.
func nestedName(t *ir.GeneratedType) string {
	name := t.Name
	for d := t.Declaring; d != nil; d = d.Declaring {
		name = d.Name + "+" + name
	}
	return name
}

// isObject recognizes the universal object base type. The namespace check
// keeps a user type that happens to be named Object from having its base
// suffix suppressed.
func isObject(r *ir.TypeRef) bool {
	if r == nil || r.Name != "Object" || len(r.Args) > 0 || r.IsArray() {
		return false
	}
	return r.Namespace == "" || r.Namespace == "System"
}

func (w *walker) printMember(t *ir.GeneratedType, m ir.Member) {
	w.st.app("  ")
	switch v := m.(type) {
	case *ir.Constructor:
		result := v.Declaring
		if result == nil {
			result = t.Ref()
		}
		w.st.app("new : " + w.paramSig(v.Params) + " -> " + w.formatTypeRef(result, w.opts.Qualified))
		w.st.app("\n")
		w.printBody(t, v.Body, v.Params, false)
	case *ir.LiteralField:
		w.st.app("val " + v.Name + ": " + w.formatTypeRef(v.Type, w.opts.Qualified))
		w.st.app("\n")
	case *ir.Property:
		w.st.app(memberKeyword(v.Static()) + v.Name + ": ")
		if len(v.IndexParams) > 0 {
			w.st.app(w.paramSig(v.IndexParams) + " -> ")
		}
		w.st.app(w.formatTypeRef(v.Type, w.opts.Qualified) + accessorSig(v))
		w.st.app("\n")
		if v.HasGetter {
			w.printBody(t, v.Getter, v.IndexParams, !v.IsStatic)
		}
	case *ir.Method:
		w.st.app(memberKeyword(v.Static()) + v.Name + ": " + w.paramSig(v.Params) + " -> " + w.formatTypeRef(v.Return, w.opts.Qualified))
		w.st.app("\n")
		w.printBody(t, v.Body, v.Params, !v.IsStatic)
	}
}

func memberKeyword(static bool) string {
	if static {
		return "static member "
	}
	return "member "
}

// paramSig joins name:Type pairs with arrows, or prints () for an empty
// parameter list.
func (w *walker) paramSig(params []ir.Param) string {
	if len(params) == 0 {
		return "()"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ":" + w.formatTypeRef(p.Type, w.opts.Qualified)
	}
	return strings.Join(parts, " -> ")
}

func accessorSig(p *ir.Property) string {
	switch {
	case p.HasGetter && p.HasSetter:
		return " with get, set"
	case p.HasSetter:
		return " with set"
	default:
		return " with get"
	}
}

// printBody obtains a member body by substituting every formal parameter
// (and, for instance members, the implicit receiver) with a typed null
// placeholder, then renders the tree indented under the signature line.
func (w *walker) printBody(t *ir.GeneratedType, body ir.BodyFunc, params []ir.Param, instance bool) {
	if body == nil || w.opts.SignatureOnly {
		return
	}

	var args []ir.Expr
	if instance {
		args = append(args, ir.NullOf(t.Ref()))
	}
	for _, p := range params {
		args = append(args, ir.NullOf(p.Type))
	}

	tree := body(args)
	if tree == nil {
		return
	}

	w.st.app(strings.Repeat(" ", indentStep))
	r := &exprRenderer{w: w, st: w.st}
	r.render(tree, false, false)
	w.st.app("\n")
}
