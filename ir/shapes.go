package ir

// Well-known generic shapes. The render package recognizes these by
// synthetic name lookup, not nominal identity, so externally built graphs
// using the same names get the same treatment.

const (
	coreNamespace    = "Microsoft.FSharp.Core"
	collectionsSpace = "Microsoft.FSharp.Collections"
	controlNamespace = "Microsoft.FSharp.Control"
)

// TupleOf returns a tuple type of the given element types.
func TupleOf(elems ...*TypeRef) *TypeRef {
	return Generic("System", "Tuple", elems...)
}

// FuncOf returns a function arrow type from domain to codomain.
func FuncOf(domain, codomain *TypeRef) *TypeRef {
	return Generic(coreNamespace, "FSharpFunc", domain, codomain)
}

// SeqOf returns a sequence type over elem.
func SeqOf(elem *TypeRef) *TypeRef {
	return Generic("System.Collections.Generic", "IEnumerable", elem)
}

// ListOf returns an immutable list type over elem.
func ListOf(elem *TypeRef) *TypeRef {
	return Generic(collectionsSpace, "FSharpList", elem)
}

// OptionOf returns an option type over elem.
func OptionOf(elem *TypeRef) *TypeRef {
	return Generic(coreNamespace, "FSharpOption", elem)
}

// RefCellOf returns a mutable-cell type over elem.
func RefCellOf(elem *TypeRef) *TypeRef {
	return Generic(coreNamespace, "FSharpRef", elem)
}

// AsyncOf returns an async-computation wrapper over elem.
func AsyncOf(elem *TypeRef) *TypeRef {
	return Generic(controlNamespace, "FSharpAsync", elem)
}
