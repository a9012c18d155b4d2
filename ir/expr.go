package ir

// ExprKind identifies the category of an expression-tree node.
type ExprKind int

const (
	ExprCall ExprKind = iota
	ExprLet
	ExprValue
	ExprVar
	ExprNewObject
	ExprNewDelegate
	ExprNewTuple
	ExprNewArray
	ExprCoerce
	ExprTupleGet
	ExprTryFinally
	ExprIfThenElse
	ExprSequential
	ExprRaw
)

// String returns the string representation of the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprCall:
		return "Call"
	case ExprLet:
		return "Let"
	case ExprValue:
		return "Value"
	case ExprVar:
		return "Var"
	case ExprNewObject:
		return "NewObject"
	case ExprNewDelegate:
		return "NewDelegate"
	case ExprNewTuple:
		return "NewTuple"
	case ExprNewArray:
		return "NewArray"
	case ExprCoerce:
		return "Coerce"
	case ExprTupleGet:
		return "TupleGet"
	case ExprTryFinally:
		return "TryFinally"
	case ExprIfThenElse:
		return "IfThenElse"
	case ExprSequential:
		return "Sequential"
	case ExprRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Expr is the sealed interface over the closed expression-tree node set.
// The variant set is closed and finite: node kinds the renderer does not
// recognize fall through to their default textual form (RawExpr) rather
// than failing, because the input graph is externally generated and may
// contain forms added after the renderer was last updated.
type Expr interface {
	// ExprKind returns the node kind for type switching.
	ExprKind() ExprKind

	sealed()
}

type exprBase struct{}

func (exprBase) sealed() {}

// CallExpr invokes a target method, optionally on an instance.
type CallExpr struct {
	exprBase

	// Instance is the receiver expression, nil for static calls.
	Instance Expr

	Target *MethodRef
	Args   []Expr
}

func (e *CallExpr) ExprKind() ExprKind { return ExprCall }

// LetExpr binds a value to a name within a body.
type LetExpr struct {
	exprBase

	Name    string
	Mutable bool
	Value   Expr
	Body    Expr
}

func (e *LetExpr) ExprKind() ExprKind { return ExprLet }

// ValueExpr is a literal. A nil Value renders as null.
type ValueExpr struct {
	exprBase

	Value any
	Type  *TypeRef
}

func (e *ValueExpr) ExprKind() ExprKind { return ExprValue }

// missing is the sentinel carried by elided optional arguments.
type missing struct{}

// MissingValue is the sentinel value supplied for an omitted optional
// argument. Trailing optional arguments carrying it are elided before a
// call is printed.
var MissingValue any = missing{}

// IsMissing reports whether e is a value node carrying the missing sentinel.
func IsMissing(e Expr) bool {
	v, ok := e.(*ValueExpr)
	return ok && v.Value == MissingValue
}

// VarExpr references a named binding.
type VarExpr struct {
	exprBase

	Name string
	Type *TypeRef
}

func (e *VarExpr) ExprKind() ExprKind { return ExprVar }

// NewObjectExpr constructs an instance. When the constructed type resolves
// to a record descriptor, the renderer emits a record-construction literal
// with arguments matched positionally to the record's declared field order.
type NewObjectExpr struct {
	exprBase

	Type *TypeRef
	Args []Expr
}

func (e *NewObjectExpr) ExprKind() ExprKind { return ExprNewObject }

// NewDelegateExpr is a lambda-like closure literal.
type NewDelegateExpr struct {
	exprBase

	Type   *TypeRef
	Params []Param
	Body   Expr
}

func (e *NewDelegateExpr) ExprKind() ExprKind { return ExprNewDelegate }

// NewTupleExpr constructs a tuple. One-element tuples are not constructible.
type NewTupleExpr struct {
	exprBase

	Elems []Expr
}

func (e *NewTupleExpr) ExprKind() ExprKind { return ExprNewTuple }

// NewArrayExpr constructs an array literal.
type NewArrayExpr struct {
	exprBase

	Elem  *TypeRef
	Elems []Expr
}

func (e *NewArrayExpr) ExprKind() ExprKind { return ExprNewArray }

// CoerceExpr upcasts a value to a type.
type CoerceExpr struct {
	exprBase

	Value Expr
	Type  *TypeRef
}

func (e *CoerceExpr) ExprKind() ExprKind { return ExprCoerce }

// TupleGetExpr extracts element Index from a tuple-typed expression.
type TupleGetExpr struct {
	exprBase

	Tuple Expr
	Index int
}

func (e *TupleGetExpr) ExprKind() ExprKind { return ExprTupleGet }

// TryFinallyExpr runs a finalizer on every exit path of its body.
type TryFinallyExpr struct {
	exprBase

	Body      Expr
	Finalizer Expr
}

func (e *TryFinallyExpr) ExprKind() ExprKind { return ExprTryFinally }

// IfThenElseExpr is a conditional.
type IfThenElseExpr struct {
	exprBase

	Cond Expr
	Then Expr
	Else Expr
}

func (e *IfThenElseExpr) ExprKind() ExprKind { return ExprIfThenElse }

// SequentialExpr evaluates First for effect, then Second.
type SequentialExpr struct {
	exprBase

	First  Expr
	Second Expr
}

func (e *SequentialExpr) ExprKind() ExprKind { return ExprSequential }

// RawExpr is the catch-all arm: a node kind outside the closed set, carried
// with its own default textual form.
type RawExpr struct {
	exprBase

	Text string
}

func (e *RawExpr) ExprKind() ExprKind { return ExprRaw }

// NullOf returns a typed null placeholder, used to substitute formal
// parameters when a member body is obtained without live arguments.
func NullOf(t *TypeRef) *ValueExpr {
	return &ValueExpr{Value: nil, Type: t}
}

// StaticType computes the static type of an expression where the node
// carries enough information, nil otherwise. The tuple-projection renderer
// uses it to recover tuple arity.
func StaticType(e Expr) *TypeRef {
	switch n := e.(type) {
	case *ValueExpr:
		return n.Type
	case *VarExpr:
		return n.Type
	case *NewObjectExpr:
		return n.Type
	case *NewDelegateExpr:
		return n.Type
	case *CoerceExpr:
		return n.Type
	case *NewArrayExpr:
		if n.Elem != nil {
			return ArrayOf(n.Elem)
		}
	case *CallExpr:
		if n.Target != nil {
			return n.Target.Return
		}
	case *LetExpr:
		return StaticType(n.Body)
	case *SequentialExpr:
		return StaticType(n.Second)
	}
	return nil
}
