package models

// PrimitiveKind enumerates the scalar types a field can have.
type PrimitiveKind int

const (
	KindString PrimitiveKind = iota
	KindInteger
	KindFloat
	KindBigInteger
	KindBool
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBigInteger:
		return "biginteger"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// TypeRef describes the inferred type of a field. Like JSONValue it is a
// closed set: Primitive, ArrayOf, ClassRef, UnknownObject, UnknownArray and
// Placeholder.
type TypeRef interface {
	typeRef()
}

// Primitive is a scalar type.
type Primitive struct {
	Kind PrimitiveKind
}

// ArrayOf is an array whose element type was inferred from its first element.
type ArrayOf struct {
	Elem TypeRef
}

// ClassRef refers to a generated class by its normalized name.
type ClassRef struct {
	Name string
}

// UnknownObject is used for empty objects.
type UnknownObject struct{}

// UnknownArray is used for empty arrays.
type UnknownArray struct{}

// Placeholder stands in for values whose type cannot be determined, such as
// null. Reason is rendered next to the type in the generated code.
type Placeholder struct {
	Reason string
}

func (Primitive) typeRef()     {}
func (ArrayOf) typeRef()       {}
func (ClassRef) typeRef()      {}
func (UnknownObject) typeRef() {}
func (UnknownArray) typeRef()  {}
func (Placeholder) typeRef()   {}

// Placeholder reasons.
const (
	ReasonUndetermined = "unable to determine"
	ReasonUnknownType  = "unknown type"
	ReasonFunction     = "unable to convert function"
)

// FieldModel is one field of a generated class.
type FieldModel struct {
	SourceKey string  // key as it appeared in the JSON document
	Name      string  // normalized identifier
	Type      TypeRef
}

// ClassModel is a generated class. Fields are in document order.
type ClassModel struct {
	Name   string
	Fields []FieldModel
}

// PendingClass is a nested object discovered during inference that still
// needs its own class.
type PendingClass struct {
	Name   string
	Object Object
}
