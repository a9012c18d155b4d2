package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/typesnap/typesnap/ir"
)

// indentStep is the number of columns a nested body is pushed right.
const indentStep = 4

// exprRenderer converts one expression-tree node into indented text on the
// walker's render state. The two flags thread caller context: fromPipeRhs
// suppresses the redundant argument when the call already receives exactly
// one piped argument, needsParens wraps tuple literals only when the
// surrounding syntax requires it.
type exprRenderer struct {
	w  *walker
	st *renderState
}

func (r *exprRenderer) render(e ir.Expr, fromPipeRhs, needsParens bool) {
	switch n := e.(type) {
	case *ir.CallExpr:
		r.renderCall(n, fromPipeRhs)
	case *ir.LetExpr:
		r.renderLet(n)
	case *ir.ValueExpr:
		r.st.app(formatLiteral(n.Value))
	case *ir.VarExpr:
		r.st.app(n.Name)
	case *ir.NewObjectExpr:
		r.renderNewObject(n)
	case *ir.NewDelegateExpr:
		r.renderDelegate(n)
	case *ir.NewTupleExpr:
		r.renderTuple(n, needsParens)
	case *ir.NewArrayExpr:
		r.renderArray(n)
	case *ir.CoerceExpr:
		r.st.app("(")
		r.render(n.Value, false, true)
		r.st.app(" :> " + r.w.formatTypeRef(n.Type, r.w.opts.Qualified) + ")")
	case *ir.TupleGetExpr:
		r.renderTupleGet(n)
	case *ir.RawExpr:
		r.st.app(n.Text)
	default:
		// Outside the closed renderable set: best-effort default form,
		// never a failure.
		r.renderUnhandled(e)
	}
}

// renderCall dispatches the call special cases in priority order: array
// element access, option sugar, extension-style calls, property getters,
// the pipe operator, then the general layouts.
func (r *exprRenderer) renderCall(c *ir.CallExpr, fromPipeRhs bool) {
	name := ""
	if c.Target != nil {
		name = c.Target.Name
	}

	// arr.[i]
	if name == "GetArray" && c.Instance == nil && len(c.Args) == 2 {
		r.render(c.Args[0], false, true)
		r.st.app(".[")
		r.render(c.Args[1], false, false)
		r.st.app("]")
		return
	}

	// lhs |> rhs, collapsing a lambda-wrapped call on the right.
	if name == "op_PipeRight" && len(c.Args) == 2 {
		r.render(c.Args[0], false, true)
		r.st.app(" |> ")
		if call, ok := pipeCollapsible(c.Args[1]); ok {
			r.renderCall(call, true)
		} else {
			r.render(c.Args[1], false, true)
		}
		return
	}

	// Option sugar: None / Some x.
	if c.Target != nil && shapeOf(c.Target.Declaring) == shapeOption {
		switch name {
		case "get_None", "None":
			r.st.app("None")
			return
		case "Some", "NewSome":
			if len(c.Args) == 1 {
				r.st.app("Some ")
				r.render(c.Args[0], false, true)
				return
			}
		}
	}

	// Extension-style call: the member name embeds a namespace separator
	// and the receiver travels as the first argument.
	if strings.Contains(name, ".") && c.Instance == nil && len(c.Args) > 0 {
		short := name[strings.LastIndexByte(name, '.')+1:]
		r.render(c.Args[0], false, true)
		r.st.app("." + short)
		r.renderArgList(c, c.Args[1:], fromPipeRhs)
		return
	}

	// Property getter: get_ prefix and no extra arguments.
	if rest, ok := strings.CutPrefix(name, "get_"); ok {
		if c.Instance != nil && len(c.Args) == 0 {
			r.render(c.Instance, false, true)
			r.st.app("." + rest)
			return
		}
		if c.Instance == nil && len(c.Args) == 1 {
			r.render(c.Args[0], false, true)
			r.st.app("." + rest)
			return
		}
		if c.Instance == nil && len(c.Args) == 0 && c.Target.Declaring != nil {
			r.st.app(r.w.formatTypeRef(c.Target.Declaring, false) + "." + rest)
			return
		}
	}

	// General call.
	if c.Instance != nil {
		r.render(c.Instance, false, true)
		r.st.app(".")
	} else if c.Target != nil && c.Target.IsStatic && c.Target.Declaring != nil {
		r.st.app(r.w.formatTypeRef(c.Target.Declaring, false) + ".")
	}
	r.st.app(name)
	r.renderArgList(c, c.Args, fromPipeRhs)
}

// renderArgList prints a call's arguments, eliding trailing optional
// parameters whose supplied value is the missing sentinel, and dropping the
// final piped argument when the caller already printed it on the left of a
// pipe. Curried targets get space-separated application; everything else a
// parenthesized comma-joined list. A single big argument breaks onto its
// own line aligned with the call.
func (r *exprRenderer) renderArgList(c *ir.CallExpr, args []ir.Expr, fromPipeRhs bool) {
	args = elideMissing(c.Target, args, len(c.Args)-len(args))
	if fromPipeRhs && len(args) > 0 {
		args = args[:len(args)-1]
	}

	indent := r.st.col()

	if c.Target != nil && c.Target.CurriedGroups > 0 {
		for _, a := range args {
			r.st.app(" ")
			r.breakIfBig(a, indent)
			r.render(a, false, true)
		}
		return
	}

	if fromPipeRhs && len(args) == 0 {
		return
	}

	r.st.app("(")
	for i, a := range args {
		if i > 0 {
			r.st.app(", ")
		}
		r.breakIfBig(a, indent)
		r.render(a, false, true)
	}
	r.st.app(")")
}

// breakIfBig starts a fresh line before a big embedded argument.
func (r *exprRenderer) breakIfBig(a ir.Expr, indent int) {
	switch a.(type) {
	case *ir.LetExpr, *ir.NewArrayExpr, *ir.NewTupleExpr:
		r.st.newline(indent)
	}
}

// elideMissing drops trailing optional arguments carrying the missing
// sentinel. offset is the number of leading arguments the caller already
// consumed (the receiver of an extension-style call), so position i in args
// lines up with parameter i+offset.
func elideMissing(target *ir.MethodRef, args []ir.Expr, offset int) []ir.Expr {
	if target == nil {
		return args
	}
	n := len(args)
	for n > 0 {
		i := n - 1
		if i+offset >= len(target.Params) || !target.Params[i+offset].Optional || !ir.IsMissing(args[i]) {
			break
		}
		n--
	}
	return args[:n]
}

// pipeCollapsible reports whether the right-hand side of a pipe is a lambda
// directly wrapping a call whose final argument is the lambda's own
// parameter, so the lambda can be elided.
func pipeCollapsible(rhs ir.Expr) (*ir.CallExpr, bool) {
	d, ok := rhs.(*ir.NewDelegateExpr)
	if !ok || len(d.Params) != 1 {
		return nil, false
	}
	call, ok := d.Body.(*ir.CallExpr)
	if !ok || len(call.Args) == 0 {
		return nil, false
	}
	v, ok := call.Args[len(call.Args)-1].(*ir.VarExpr)
	if !ok || v.Name != d.Params[0].Name {
		return nil, false
	}
	return call, true
}

func (r *exprRenderer) renderLet(l *ir.LetExpr) {
	indent := r.st.col()

	// Swap-style extraction of two variables from the same tuple source:
	// let b, a = source.
	if inner, src, ok := swapExtraction(l); ok {
		r.st.app("let " + inner.Name + ", " + l.Name + " = ")
		r.render(src, false, true)
		r.st.newline(indent)
		r.render(inner.Body, false, false)
		return
	}

	// Scoped-resource idiom: the body is a try/finally whose finalizer is
	// the generated disposal shape for the bound variable.
	if tf, ok := l.Body.(*ir.TryFinallyExpr); ok && isDisposalFinalizer(tf.Finalizer, l.Name) {
		r.st.app("use " + l.Name + " = ")
		r.render(l.Value, false, true)
		r.st.newline(indent)
		r.render(tf.Body, false, false)
		return
	}

	kw := "let "
	if l.Mutable {
		kw = "let mutable "
	}
	r.st.app(kw + l.Name + " = ")
	if _, nested := l.Value.(*ir.LetExpr); nested {
		r.st.newline(indent + indentStep)
	}
	r.render(l.Value, false, false)
	r.st.newline(indent)
	r.render(l.Body, false, false)
}

// swapExtraction matches let a = src#1 in let b = src#0 in body, where both
// extractions read the same tuple source.
func swapExtraction(l *ir.LetExpr) (inner *ir.LetExpr, src ir.Expr, ok bool) {
	outer, ok := l.Value.(*ir.TupleGetExpr)
	if !ok || outer.Index != 1 {
		return nil, nil, false
	}
	inner, ok = l.Body.(*ir.LetExpr)
	if !ok {
		return nil, nil, false
	}
	innerGet, ok := inner.Value.(*ir.TupleGetExpr)
	if !ok || innerGet.Index != 0 || !sameSource(outer.Tuple, innerGet.Tuple) {
		return nil, nil, false
	}
	return inner, outer.Tuple, true
}

func sameSource(a, b ir.Expr) bool {
	if a == b {
		return true
	}
	va, ok1 := a.(*ir.VarExpr)
	vb, ok2 := b.(*ir.VarExpr)
	return ok1 && ok2 && va.Name == vb.Name
}

// isDisposalFinalizer recognizes the generated disposal idiom for the bound
// variable as a structural predicate over the tree shape: a conditional
// testing the binding against null whose then-branch disposes the binding.
func isDisposalFinalizer(f ir.Expr, name string) bool {
	cond, ok := f.(*ir.IfThenElseExpr)
	if !ok {
		return false
	}
	if !referencesVar(cond.Cond, name) {
		return false
	}
	call, ok := cond.Then.(*ir.CallExpr)
	if !ok || call.Target == nil || call.Target.Name != "Dispose" {
		return false
	}
	recv := call.Instance
	if recv == nil && len(call.Args) == 1 {
		recv = call.Args[0]
	}
	return referencesVar(recv, name)
}

// referencesVar reports whether e mentions the named binding, looking
// through coercions and call arguments.
func referencesVar(e ir.Expr, name string) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *ir.VarExpr:
		return n.Name == name
	case *ir.CoerceExpr:
		return referencesVar(n.Value, name)
	case *ir.CallExpr:
		if referencesVar(n.Instance, name) {
			return true
		}
		for _, a := range n.Args {
			if referencesVar(a, name) {
				return true
			}
		}
	case *ir.TupleGetExpr:
		return referencesVar(n.Tuple, name)
	}
	return false
}

func (r *exprRenderer) renderNewObject(n *ir.NewObjectExpr) {
	if n.Type != nil && n.Type.Generated != nil && n.Type.Generated.Kind == ir.KindRecord {
		r.renderRecord(n)
		return
	}
	r.st.app("(new " + r.w.formatTypeRef(n.Type, r.w.opts.Qualified) + "(")
	for i, a := range n.Args {
		if i > 0 {
			r.st.app(", ")
		}
		r.render(a, false, true)
	}
	r.st.app("))")
}

// renderRecord prints a record-construction literal, matching arguments
// positionally to the record's declared field order, one field per line at
// a shared indent.
func (r *exprRenderer) renderRecord(n *ir.NewObjectExpr) {
	fields := n.Type.Generated.RecordFields()
	indent := r.st.col()
	r.st.app("{ ")
	for i, a := range n.Args {
		if i >= len(fields) {
			break
		}
		if i > 0 {
			r.st.newline(indent + 2)
		}
		r.st.app(fields[i] + " = ")
		r.render(a, false, true)
	}
	r.st.app(" }")
}

func (r *exprRenderer) renderDelegate(d *ir.NewDelegateExpr) {
	// Identity closure collapses to a shorthand.
	if len(d.Params) == 1 {
		if v, ok := d.Body.(*ir.VarExpr); ok && v.Name == d.Params[0].Name {
			r.st.app("(id)")
			return
		}
	}

	indent := r.st.col()
	r.st.app("(fun ")
	if len(d.Params) == 0 {
		r.st.app("() ")
	}
	for _, p := range d.Params {
		r.st.app("(" + p.Name + ":" + r.w.formatTypeRef(p.Type, r.w.opts.Qualified) + ") ")
	}
	r.st.app("-> ")
	if isBig(d.Body) {
		r.st.newline(indent + indentStep)
	}
	r.render(d.Body, false, false)
	r.st.app(")")
}

func isBig(e ir.Expr) bool {
	switch e.(type) {
	case *ir.LetExpr, *ir.NewArrayExpr, *ir.NewTupleExpr:
		return true
	}
	return false
}

func (r *exprRenderer) renderTuple(n *ir.NewTupleExpr, needsParens bool) {
	indent := r.st.col()
	if needsParens {
		r.st.app("(")
		indent++
	}
	for i, e := range n.Elems {
		if i > 0 {
			r.st.app(",")
			r.st.newline(indent)
		}
		r.render(e, false, true)
	}
	if needsParens {
		r.st.app(")")
	}
}

func (r *exprRenderer) renderArray(n *ir.NewArrayExpr) {
	if len(n.Elems) == 0 {
		r.st.app("[| |]")
		return
	}
	indent := r.st.col()
	r.st.app("[| ")
	for i, e := range n.Elems {
		if i > 0 {
			r.st.newline(indent + 3)
		}
		r.render(e, false, true)
	}
	r.st.newline(indent)
	r.st.app("|]")
}

// renderTupleGet synthesizes a let-pattern extracting one positional slot.
// Arity comes from the tuple expression itself when it is a literal,
// otherwise from its static type, walking nested generic tuple encodings.
func (r *exprRenderer) renderTupleGet(n *ir.TupleGetExpr) {
	arity := 0
	if lit, ok := n.Tuple.(*ir.NewTupleExpr); ok {
		arity = len(lit.Elems)
	} else {
		arity = tupleArity(ir.StaticType(n.Tuple))
	}
	if arity <= 0 {
		// Structurally invalid descriptor: a tuple projection with no
		// recoverable arity is a defect in the caller's graph.
		panic(fmt.Sprintf("render: tuple projection arity %d for index %d", arity, n.Index))
	}

	slot := "t" + strconv.Itoa(n.Index+1)
	parts := make([]string, arity)
	for i := range parts {
		if i == n.Index {
			parts[i] = slot
		} else {
			parts[i] = "_"
		}
	}
	r.st.app("(let " + strings.Join(parts, ",") + " = ")
	r.render(n.Tuple, false, true)
	r.st.app(" in " + slot + ")")
}

// maxTupleWidth is the widest direct tuple encoding; wider tuples chain
// their remaining elements through the eighth generic argument.
const maxTupleWidth = 8

// tupleArity computes tuple arity from a type reference. Only the
// open-ended eight-wide encoding chains: a narrower tuple whose last
// element happens to be a tuple is a genuine nested element, not a
// continuation.
func tupleArity(t *ir.TypeRef) int {
	if shapeOf(t) != shapeTuple {
		return 0
	}
	n := len(t.Args)
	if n == maxTupleWidth {
		if last := t.Args[n-1]; shapeOf(last) == shapeTuple {
			return n - 1 + tupleArity(last)
		}
	}
	return n
}

// renderUnhandled prints the default textual form for node kinds outside
// the closed renderable set.
func (r *exprRenderer) renderUnhandled(e ir.Expr) {
	indent := r.st.col()
	switch n := e.(type) {
	case *ir.TryFinallyExpr:
		r.st.app("try")
		r.st.newline(indent + indentStep)
		r.render(n.Body, false, false)
		r.st.newline(indent)
		r.st.app("finally")
		r.st.newline(indent + indentStep)
		r.render(n.Finalizer, false, false)
	case *ir.IfThenElseExpr:
		r.st.app("if ")
		r.render(n.Cond, false, true)
		r.st.app(" then ")
		r.render(n.Then, false, true)
		if n.Else != nil {
			r.st.app(" else ")
			r.render(n.Else, false, true)
		}
	case *ir.SequentialExpr:
		r.render(n.First, false, false)
		r.st.newline(indent)
		r.render(n.Second, false, false)
	default:
		r.st.app("<" + e.ExprKind().String() + ">")
	}
}

// formatLiteral renders a literal value. Strings containing a backslash
// use the verbatim form so the output stays copy-pasteable.
func formatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.ContainsRune(x, '\\') {
			return `@"` + x + `"`
		}
		return strconv.Quote(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", x)
	}
}
