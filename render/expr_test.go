package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/typesnap/typesnap/ir"
)

func renderExpr(e ir.Expr) string {
	w := newTestWalker(Options{})
	r := &exprRenderer{w: w, st: w.st}
	r.render(e, false, false)
	return w.st.String()
}

func intVal(v int) *ir.ValueExpr       { return &ir.ValueExpr{Value: v, Type: ir.Int} }
func strVal(v string) *ir.ValueExpr    { return &ir.ValueExpr{Value: v, Type: ir.String} }
func varOf(name string) *ir.VarExpr    { return &ir.VarExpr{Name: name} }
func method(name string) *ir.MethodRef { return &ir.MethodRef{Name: name} }

func TestRenderValue(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{42, "42"},
		{true, "true"},
		{false, "false"},
		{"hi", `"hi"`},
		{`c:\temp`, `@"c:\temp"`},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		got := renderExpr(&ir.ValueExpr{Value: tt.value})
		if got != tt.want {
			t.Errorf("value %v = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestRenderVar(t *testing.T) {
	if got := renderExpr(varOf("x")); got != "x" {
		t.Errorf("var = %q, want x", got)
	}
}

func TestRenderCall_ArrayAccess(t *testing.T) {
	e := &ir.CallExpr{
		Target: method("GetArray"),
		Args:   []ir.Expr{varOf("xs"), intVal(0)},
	}
	if got := renderExpr(e); got != "xs.[0]" {
		t.Errorf("array access = %q, want xs.[0]", got)
	}
}

func TestRenderCall_OptionSugar(t *testing.T) {
	none := &ir.CallExpr{
		Target: &ir.MethodRef{Name: "get_None", Declaring: ir.OptionOf(ir.Int)},
	}
	if got := renderExpr(none); got != "None" {
		t.Errorf("None = %q", got)
	}

	some := &ir.CallExpr{
		Target: &ir.MethodRef{Name: "Some", Declaring: ir.OptionOf(ir.Int)},
		Args:   []ir.Expr{intVal(5)},
	}
	if got := renderExpr(some); got != "Some 5" {
		t.Errorf("Some = %q", got)
	}

	value := &ir.CallExpr{
		Target: &ir.MethodRef{Name: "get_Value", Declaring: ir.OptionOf(ir.Int)},
		Args:   []ir.Expr{varOf("opt")},
	}
	if got := renderExpr(value); got != "opt.Value" {
		t.Errorf("Value getter = %q", got)
	}
}

func TestRenderCall_ExtensionStyle(t *testing.T) {
	e := &ir.CallExpr{
		Target: method("My.Ns.Extensions.Normalize"),
		Args:   []ir.Expr{varOf("recv"), intVal(3)},
	}
	if got := renderExpr(e); got != "recv.Normalize(3)" {
		t.Errorf("extension call = %q, want recv.Normalize(3)", got)
	}
}

func TestRenderCall_ExtensionTrailingOptionalElided(t *testing.T) {
	// The receiver consumes parameter slot zero, so the optionality check
	// for the remaining arguments must look past it.
	target := &ir.MethodRef{
		Name: "My.Ns.Extensions.Load",
		Params: []ir.Param{
			{Name: "this", Type: ir.String},
			{Name: "culture", Type: ir.String, Optional: true},
		},
	}
	omitted := &ir.ValueExpr{Value: ir.MissingValue}
	e := &ir.CallExpr{Target: target, Args: []ir.Expr{varOf("x"), omitted}}
	if got := renderExpr(e); got != "x.Load()" {
		t.Errorf("extension with omitted optional = %q, want x.Load()", got)
	}

	supplied := &ir.CallExpr{Target: target, Args: []ir.Expr{varOf("x"), strVal("fr")}}
	if got := renderExpr(supplied); got != `x.Load("fr")` {
		t.Errorf("extension with supplied optional = %q, want x.Load(\"fr\")", got)
	}
}

func TestRenderCall_PropertyGetter(t *testing.T) {
	instance := &ir.CallExpr{
		Instance: varOf("w"),
		Target:   method("get_Size"),
	}
	if got := renderExpr(instance); got != "w.Size" {
		t.Errorf("instance getter = %q, want w.Size", got)
	}

	static := &ir.CallExpr{
		Target: &ir.MethodRef{Name: "get_Default", Declaring: ir.Named("My.Ns", "Widget")},
	}
	if got := renderExpr(static); got != "Widget.Default" {
		t.Errorf("static getter = %q, want Widget.Default", got)
	}
}

func TestRenderCall_PipeCollapse(t *testing.T) {
	// 42 |> (fun x -> ignore x) collapses to 42 |> ignore.
	lambda := &ir.NewDelegateExpr{
		Params: []ir.Param{{Name: "x", Type: ir.Int}},
		Body: &ir.CallExpr{
			Target: &ir.MethodRef{Name: "ignore", CurriedGroups: 1},
			Args:   []ir.Expr{varOf("x")},
		},
	}
	pipe := &ir.CallExpr{
		Target: method("op_PipeRight"),
		Args:   []ir.Expr{intVal(42), lambda},
	}
	if got := renderExpr(pipe); got != "42 |> ignore" {
		t.Errorf("collapsed pipe = %q, want 42 |> ignore", got)
	}
}

func TestRenderCall_PipeNoCollapse(t *testing.T) {
	// The right-hand side is not a lambda wrapping a call, so it renders
	// unelided.
	identity := &ir.NewDelegateExpr{
		Params: []ir.Param{{Name: "x", Type: ir.Int}},
		Body:   varOf("x"),
	}
	pipe := &ir.CallExpr{
		Target: method("op_PipeRight"),
		Args:   []ir.Expr{intVal(42), identity},
	}
	if got := renderExpr(pipe); got != "42 |> (id)" {
		t.Errorf("unelided pipe = %q, want 42 |> (id)", got)
	}
}

func TestRenderCall_OptionalElision(t *testing.T) {
	target := &ir.MethodRef{
		Name: "Fetch",
		Params: []ir.Param{
			{Name: "id", Type: ir.Int},
			{Name: "timeout", Type: ir.Int, Optional: true},
			{Name: "retries", Type: ir.Int, Optional: true},
		},
	}
	missing := &ir.ValueExpr{Value: ir.MissingValue}

	all := &ir.CallExpr{Target: target, Args: []ir.Expr{intVal(1), missing, missing}}
	if got := renderExpr(all); got != "Fetch(1)" {
		t.Errorf("all elided = %q, want Fetch(1)", got)
	}

	partial := &ir.CallExpr{Target: target, Args: []ir.Expr{intVal(1), intVal(9), missing}}
	if got := renderExpr(partial); got != "Fetch(1, 9)" {
		t.Errorf("partial elided = %q, want Fetch(1, 9)", got)
	}

	// A missing value in a non-trailing position is never elided.
	middle := &ir.CallExpr{Target: target, Args: []ir.Expr{intVal(1), missing, intVal(3)}}
	if got := renderExpr(middle); !strings.HasPrefix(got, "Fetch(1, ") {
		t.Errorf("middle missing = %q, want three arguments", got)
	}
}

func TestRenderCall_CurriedLayout(t *testing.T) {
	target := &ir.MethodRef{Name: "map", CurriedGroups: 2}
	e := &ir.CallExpr{Target: target, Args: []ir.Expr{varOf("f"), varOf("xs")}}
	if got := renderExpr(e); got != "map f xs" {
		t.Errorf("curried = %q, want map f xs", got)
	}
}

func TestRenderCall_StaticQualifier(t *testing.T) {
	target := &ir.MethodRef{Name: "Parse", Declaring: ir.Named("My.Ns", "Config"), IsStatic: true}
	e := &ir.CallExpr{Target: target, Args: []ir.Expr{strVal("a")}}
	if got := renderExpr(e); got != `Config.Parse("a")` {
		t.Errorf("static call = %q", got)
	}
}

func TestRenderCall_BigArgumentBreaks(t *testing.T) {
	arr := &ir.NewArrayExpr{Elem: ir.Int, Elems: []ir.Expr{intVal(1), intVal(2)}}
	e := &ir.CallExpr{Target: method("Sum"), Args: []ir.Expr{arr}}
	got := renderExpr(e)
	if !strings.Contains(got, "\n") {
		t.Errorf("big argument did not break the line: %q", got)
	}
	if !strings.HasPrefix(got, "Sum(") {
		t.Errorf("call prefix lost: %q", got)
	}
}

func TestRenderLet_Plain(t *testing.T) {
	e := &ir.LetExpr{Name: "x", Value: intVal(1), Body: varOf("x")}
	want := "let x = 1\nx"
	if got := renderExpr(e); got != want {
		t.Errorf("let = %q, want %q", got, want)
	}
}

func TestRenderLet_Mutable(t *testing.T) {
	e := &ir.LetExpr{Name: "x", Mutable: true, Value: intVal(1), Body: varOf("x")}
	if got := renderExpr(e); !strings.HasPrefix(got, "let mutable x = 1") {
		t.Errorf("let mutable = %q", got)
	}
}

func TestRenderLet_NestedValueIndents(t *testing.T) {
	inner := &ir.LetExpr{Name: "y", Value: intVal(2), Body: varOf("y")}
	e := &ir.LetExpr{Name: "x", Value: inner, Body: varOf("x")}
	want := "let x = \n    let y = 2\n    y\nx"
	if got := renderExpr(e); got != want {
		t.Errorf("nested let = %q, want %q", got, want)
	}
}

func TestRenderLet_SwapExtraction(t *testing.T) {
	src := &ir.VarExpr{Name: "pair", Type: ir.TupleOf(ir.Int, ir.Int)}
	e := &ir.LetExpr{
		Name:  "a",
		Value: &ir.TupleGetExpr{Tuple: src, Index: 1},
		Body: &ir.LetExpr{
			Name:  "b",
			Value: &ir.TupleGetExpr{Tuple: src, Index: 0},
			Body:  varOf("b"),
		},
	}
	want := "let b, a = pair\nb"
	if got := renderExpr(e); got != want {
		t.Errorf("swap = %q, want %q", got, want)
	}
}

func disposalFor(name string) *ir.IfThenElseExpr {
	binding := varOf(name)
	return &ir.IfThenElseExpr{
		Cond: &ir.CallExpr{
			Target: method("op_Inequality"),
			Args: []ir.Expr{
				&ir.CoerceExpr{Value: binding, Type: ir.Object},
				&ir.ValueExpr{Value: nil},
			},
		},
		Then: &ir.CallExpr{
			Instance: &ir.CoerceExpr{Value: binding, Type: ir.Named("System", "IDisposable")},
			Target:   method("Dispose"),
		},
		Else: &ir.ValueExpr{Value: nil},
	}
}

func TestRenderLet_ScopedResource(t *testing.T) {
	e := &ir.LetExpr{
		Name:  "res",
		Value: &ir.CallExpr{Target: method("Acquire")},
		Body: &ir.TryFinallyExpr{
			Body:      varOf("res"),
			Finalizer: disposalFor("res"),
		},
	}
	want := "use res = Acquire()\nres"
	if got := renderExpr(e); got != want {
		t.Errorf("use = %q, want %q", got, want)
	}
}

func TestRenderLet_TryFinallyNotDisposal(t *testing.T) {
	// A finalizer that is not the disposal shape renders as a plain let
	// followed by an explicit try body.
	e := &ir.LetExpr{
		Name:  "res",
		Value: intVal(1),
		Body: &ir.TryFinallyExpr{
			Body:      varOf("res"),
			Finalizer: &ir.CallExpr{Target: method("Log")},
		},
	}
	got := renderExpr(e)
	if strings.Contains(got, "use ") {
		t.Errorf("non-disposal finalizer rendered as use: %q", got)
	}
	if !strings.HasPrefix(got, "let res = 1") {
		t.Errorf("missing plain let: %q", got)
	}
	if !strings.Contains(got, "try") || !strings.Contains(got, "finally") {
		t.Errorf("missing explicit try body: %q", got)
	}
}

func TestRenderLet_DisposalForOtherVariableNotUse(t *testing.T) {
	e := &ir.LetExpr{
		Name:  "res",
		Value: intVal(1),
		Body: &ir.TryFinallyExpr{
			Body:      varOf("res"),
			Finalizer: disposalFor("other"),
		},
	}
	if got := renderExpr(e); strings.Contains(got, "use ") {
		t.Errorf("disposal of a different binding rendered as use: %q", got)
	}
}

func TestRenderNewObject_Plain(t *testing.T) {
	e := &ir.NewObjectExpr{Type: ir.Named("My.Ns", "Widget"), Args: []ir.Expr{intVal(1)}}
	if got := renderExpr(e); got != "(new Widget(1))" {
		t.Errorf("new = %q, want (new Widget(1))", got)
	}
}

func TestRenderNewObject_RecordSugar(t *testing.T) {
	rec := &ir.GeneratedType{
		Name: "Point",
		Kind: ir.KindRecord,
		Members: []ir.Member{
			&ir.Property{Name: "x", Type: ir.Int, HasGetter: true},
			&ir.Property{Name: "y", Type: ir.Int, HasGetter: true},
		},
	}
	e := &ir.NewObjectExpr{Type: rec.Ref(), Args: []ir.Expr{intVal(1), intVal(2)}}
	want := "{ x = 1\n  y = 2 }"
	if got := renderExpr(e); got != want {
		t.Errorf("record = %q, want %q", got, want)
	}
}

func TestRenderDelegate_Identity(t *testing.T) {
	e := &ir.NewDelegateExpr{
		Params: []ir.Param{{Name: "x", Type: ir.Int}},
		Body:   varOf("x"),
	}
	if got := renderExpr(e); got != "(id)" {
		t.Errorf("identity lambda = %q, want (id)", got)
	}
}

func TestRenderDelegate_Typed(t *testing.T) {
	e := &ir.NewDelegateExpr{
		Params: []ir.Param{
			{Name: "a", Type: ir.Int},
			{Name: "b", Type: ir.String},
		},
		Body: varOf("a"),
	}
	want := "(fun (a:int) (b:string) -> a)"
	if got := renderExpr(e); got != want {
		t.Errorf("lambda = %q, want %q", got, want)
	}
}

func TestRenderTuple(t *testing.T) {
	e := &ir.NewTupleExpr{Elems: []ir.Expr{intVal(1), intVal(2), intVal(3)}}
	want := "1,\n2,\n3"
	if got := renderExpr(e); got != want {
		t.Errorf("tuple = %q, want %q", got, want)
	}
}

func TestRenderArray(t *testing.T) {
	empty := &ir.NewArrayExpr{Elem: ir.Int}
	if got := renderExpr(empty); got != "[| |]" {
		t.Errorf("empty array = %q, want [| |]", got)
	}

	e := &ir.NewArrayExpr{Elem: ir.Int, Elems: []ir.Expr{intVal(1), intVal(2)}}
	want := "[| 1\n   2\n|]"
	if got := renderExpr(e); got != want {
		t.Errorf("array = %q, want %q", got, want)
	}
}

func TestRenderCoerce(t *testing.T) {
	e := &ir.CoerceExpr{Value: varOf("x"), Type: ir.Object}
	if got := renderExpr(e); got != "(x :> obj)" {
		t.Errorf("coerce = %q, want (x :> obj)", got)
	}
}

func TestRenderTupleGet_RoundTrip(t *testing.T) {
	src := &ir.VarExpr{Name: "tup", Type: ir.TupleOf(ir.Int, ir.String, ir.Bool)}
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		got := renderExpr(&ir.TupleGetExpr{Tuple: src, Index: i})
		slot := fmt.Sprintf("t%d", i+1)
		want := ""
		switch i {
		case 0:
			want = "(let t1,_,_ = tup in t1)"
		case 1:
			want = "(let _,t2,_ = tup in t2)"
		case 2:
			want = "(let _,_,t3 = tup in t3)"
		}
		if got != want {
			t.Errorf("projection %d = %q, want %q", i, got, want)
		}
		if !strings.Contains(got, "in "+slot+")") {
			t.Errorf("projection %d does not select %s: %q", i, slot, got)
		}
		seen[got] = true
	}
	if len(seen) != 3 {
		t.Errorf("projections are not distinct: %v", seen)
	}
}

func TestRenderTupleGet_NestedTupleElement(t *testing.T) {
	// A pair whose second element is itself a tuple still has arity 2;
	// the inner tuple must not be flattened into the pattern.
	src := &ir.VarExpr{Name: "p", Type: ir.TupleOf(ir.Int, ir.TupleOf(ir.Int, ir.String))}
	if got := renderExpr(&ir.TupleGetExpr{Tuple: src, Index: 0}); got != "(let t1,_ = p in t1)" {
		t.Errorf("projection = %q, want (let t1,_ = p in t1)", got)
	}
	if got := renderExpr(&ir.TupleGetExpr{Tuple: src, Index: 1}); got != "(let _,t2 = p in t2)" {
		t.Errorf("projection = %q, want (let _,t2 = p in t2)", got)
	}
}

func TestRenderTupleGet_LiteralSource(t *testing.T) {
	lit := &ir.NewTupleExpr{Elems: []ir.Expr{intVal(1), intVal(2)}}
	got := renderExpr(&ir.TupleGetExpr{Tuple: lit, Index: 0})
	if !strings.HasPrefix(got, "(let t1,_ = ") || !strings.HasSuffix(got, " in t1)") {
		t.Errorf("literal projection = %q", got)
	}
}

func TestRenderTupleGet_ZeroArityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unrecoverable tuple arity")
		}
	}()
	renderExpr(&ir.TupleGetExpr{Tuple: varOf("x"), Index: 0})
}

func TestRenderRaw(t *testing.T) {
	if got := renderExpr(&ir.RawExpr{Text: "<opaque>"}); got != "<opaque>" {
		t.Errorf("raw = %q, want <opaque>", got)
	}
}

func TestRenderUnhandled_NeverFails(t *testing.T) {
	e := &ir.SequentialExpr{First: intVal(1), Second: intVal(2)}
	want := "1\n2"
	if got := renderExpr(e); got != want {
		t.Errorf("sequential = %q, want %q", got, want)
	}

	cond := &ir.IfThenElseExpr{Cond: varOf("p"), Then: intVal(1), Else: intVal(2)}
	if got := renderExpr(cond); got != "if p then 1 else 2" {
		t.Errorf("conditional = %q", got)
	}
}
