package analyzer

import (
	"math/big"
	"strings"
	"testing"

	"github.com/mcncl/poxo/internal/errors"
	"github.com/mcncl/poxo/internal/inflect"
	"github.com/mcncl/poxo/internal/models"
	"github.com/mcncl/poxo/internal/naming"
	"github.com/mcncl/poxo/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustObject(t *testing.T, jsonInput string) models.Object {
	t.Helper()
	doc, err := parser.ParseString(jsonInput)
	require.NoError(t, err)
	obj, ok := doc.Root.(models.Object)
	require.True(t, ok, "root is %T, want object", doc.Root)
	return obj
}

func classNames(classes []models.ClassModel) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	return names
}

var (
	stringType  = models.Primitive{Kind: models.KindString}
	integerType = models.Primitive{Kind: models.KindInteger}
	floatType   = models.Primitive{Kind: models.KindFloat}
	boolType    = models.Primitive{Kind: models.KindBool}
)

func TestInferType_Primitives(t *testing.T) {
	big1, _ := new(big.Int).SetString("99999999999999999999", 10)

	tests := []struct {
		name     string
		value    models.JSONValue
		expected models.TypeRef
	}{
		{"string", models.String("x"), stringType},
		{"integer", models.Integer(1), integerType},
		{"float", models.Float(1.5), floatType},
		{"big integer", models.BigInteger{Value: big1}, models.Primitive{Kind: models.KindBigInteger}},
		{"bool", models.Bool(true), boolType},
		{"null", models.Null{}, models.Placeholder{Reason: models.ReasonUndetermined}},
		{"empty array", models.Array{}, models.UnknownArray{}},
		{"empty object", models.Object{}, models.UnknownObject{}},
		{"function", models.Unusable{Kind: models.UnusableFunction}, models.Placeholder{Reason: models.ReasonFunction}},
		{"symbol", models.Unusable{Kind: models.UnusableSymbol}, models.Placeholder{Reason: models.ReasonUnknownType}},
		{"undefined", models.Unusable{Kind: models.UnusableUndefined}, models.Placeholder{Reason: models.ReasonUnknownType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(Options{})
			ref, pending, err := engine.InferType("field", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
			assert.Nil(t, pending)
		})
	}
}

func TestInferType_Object(t *testing.T) {
	engine := NewEngine(Options{})
	obj := models.Object{{Key: "b", Value: models.Integer(1)}}

	ref, pending, err := engine.InferType("home_address", obj)
	require.NoError(t, err)
	assert.Equal(t, models.ClassRef{Name: "HomeAddress"}, ref)
	require.NotNil(t, pending)
	assert.Equal(t, "HomeAddress", pending.Name)
	assert.Equal(t, obj, pending.Object)
}

func TestInferType_ArraySamplesFirstElementOnly(t *testing.T) {
	engine := NewEngine(Options{})
	arr := models.Array{models.Integer(1), models.String("two"), models.Bool(true)}

	ref, pending, err := engine.InferType("values", arr)
	require.NoError(t, err)
	assert.Equal(t, models.ArrayOf{Elem: integerType}, ref)
	assert.Nil(t, pending)
}

func TestInferType_ArrayOfObjectsUsesSingularName(t *testing.T) {
	engine := NewEngine(Options{})
	arr := models.Array{models.Object{{Key: "id", Value: models.Integer(1)}}}

	ref, pending, err := engine.InferType("users", arr)
	require.NoError(t, err)
	assert.Equal(t, models.ArrayOf{Elem: models.ClassRef{Name: "User"}}, ref)
	require.NotNil(t, pending)
	assert.Equal(t, "User", pending.Name)
}

func TestInferType_NestedArrays(t *testing.T) {
	calls := []string{}
	engine := NewEngine(Options{
		Singularizer: inflect.SingularizerFunc(func(name string) string {
			calls = append(calls, name)
			return strings.TrimSuffix(name, "s")
		}),
	})
	value := models.Array{models.Array{models.Array{models.Object{{Key: "x", Value: models.Float(0.5)}}}}}

	ref, pending, err := engine.InferType("gridss", value)
	require.NoError(t, err)
	expected := models.ArrayOf{Elem: models.ArrayOf{Elem: models.ArrayOf{Elem: models.ClassRef{Name: "Grid"}}}}
	assert.Equal(t, expected, ref)
	require.NotNil(t, pending)
	assert.Equal(t, "Grid", pending.Name)
	assert.Equal(t, []string{"gridss", "grids", "grid"}, calls)
}

func TestInferType_ArrayWithEmptyFirstElement(t *testing.T) {
	engine := NewEngine(Options{})

	ref, _, err := engine.InferType("matrix", models.Array{models.Array{}})
	require.NoError(t, err)
	assert.Equal(t, models.ArrayOf{Elem: models.UnknownArray{}}, ref)

	ref, _, err = engine.InferType("items", models.Array{models.Null{}})
	require.NoError(t, err)
	assert.Equal(t, models.ArrayOf{Elem: models.Placeholder{Reason: models.ReasonUndetermined}}, ref)
}

type strangeValue struct{ models.Null }

func TestInferType_UnsupportedValue(t *testing.T) {
	engine := NewEngine(Options{})
	_, _, err := engine.InferType("x", strangeValue{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedValue)
}

func TestExtract_FlatObject(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("Root", mustObject(t, `{"a": 1, "b": "x"}`))
	require.NoError(t, err)

	require.Len(t, classes, 1)
	assert.Equal(t, models.ClassModel{
		Name: "Root",
		Fields: []models.FieldModel{
			{SourceKey: "a", Name: "A", Type: integerType},
			{SourceKey: "b", Name: "B", Type: stringType},
		},
	}, classes[0])
}

func TestExtract_NestedObject(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("Root", mustObject(t, `{"a": {"b": 1}}`))
	require.NoError(t, err)

	require.Len(t, classes, 2)
	assert.Equal(t, []models.FieldModel{{SourceKey: "a", Name: "A", Type: models.ClassRef{Name: "A"}}}, classes[0].Fields)
	assert.Equal(t, "A", classes[1].Name)
	assert.Equal(t, []models.FieldModel{{SourceKey: "b", Name: "B", Type: integerType}}, classes[1].Fields)
}

func TestExtract_KeepsFieldOrder(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("Root", mustObject(t, `{"zeta": 1, "alpha": 2, "user_id": 3}`))
	require.NoError(t, err)

	require.Len(t, classes, 1)
	var names []string
	for _, f := range classes[0].Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "UserId"}, names)
}

const orderInput = `{
	"a": {"x": {"y": 1}},
	"b": {"z": 1},
	"c": [{"w": true}]
}`

func TestExtract_LIFOOrder(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("Root", mustObject(t, orderInput))
	require.NoError(t, err)

	// Root discovers A, B, C. C is popped first, then B, then A and its X.
	assert.Equal(t, []string{"Root", "C", "B", "A", "X"}, classNames(classes))
}

func TestExtract_DiscoveryOrder(t *testing.T) {
	engine := NewEngine(Options{Order: OrderDiscovery})
	classes, err := engine.Extract("Root", mustObject(t, orderInput))
	require.NoError(t, err)

	assert.Equal(t, []string{"Root", "A", "B", "C", "X"}, classNames(classes))
}

const collidingInput = `{"a": {"data": {"p": 1}}, "b": {"data": {"q": "s"}}}`

func TestExtract_CollisionRename(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("Root", mustObject(t, collidingInput))
	require.NoError(t, err)

	// B is processed before A, so B's data claims the plain name.
	assert.Equal(t, []string{"Root", "B", "Data", "A", "Data2"}, classNames(classes))
	assert.Equal(t, models.ClassRef{Name: "Data"}, classes[1].Fields[0].Type)
	assert.Equal(t, models.ClassRef{Name: "Data2"}, classes[3].Fields[0].Type)
	assert.Equal(t, "q", classes[2].Fields[0].SourceKey)
	assert.Equal(t, "p", classes[4].Fields[0].SourceKey)
}

func TestExtract_CollisionRenameSkipsTakenNames(t *testing.T) {
	engine := NewEngine(Options{})
	input := `{"item2": {"a": 1}, "x": {"item": {"b": 1}}, "y": {"item": {"c": 1}}}`
	classes, err := engine.Extract("Root", mustObject(t, input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Root", "Y", "Item", "X", "Item3", "Item2"}, classNames(classes))
}

func TestExtract_CollisionAllow(t *testing.T) {
	engine := NewEngine(Options{Collisions: CollisionAllow})
	classes, err := engine.Extract("Root", mustObject(t, collidingInput))
	require.NoError(t, err)

	assert.Equal(t, []string{"Root", "B", "Data", "A", "Data"}, classNames(classes))
}

func TestExtract_CollisionError(t *testing.T) {
	engine := NewEngine(Options{Collisions: CollisionError})
	_, err := engine.Extract("Root", mustObject(t, collidingInput))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNameCollision)
	assert.Contains(t, err.Error(), `"Data"`)
}

func TestExtract_RootNameIsNormalized(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("api response", mustObject(t, `{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "ApiResponse", classes[0].Name)

	classes, err = NewEngine(Options{}).Extract("", mustObject(t, `{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultRootName, classes[0].Name)
}

func TestExtract_FieldNamedLikeRoot(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("Root", mustObject(t, `{"root": {"a": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "Root2"}, classNames(classes))
}

func TestExtract_CustomConversion(t *testing.T) {
	engine := NewEngine(Options{Conversion: naming.Snake})
	classes, err := engine.Extract("Root", mustObject(t, `{"userName": "x", "homeAddress": {"zipCode": "1"}}`))
	require.NoError(t, err)

	require.Len(t, classes, 2)
	assert.Equal(t, "root", classes[0].Name)
	assert.Equal(t, "user_name", classes[0].Fields[0].Name)
	assert.Equal(t, models.ClassRef{Name: "home_address"}, classes[0].Fields[1].Type)
	assert.Equal(t, "zip_code", classes[1].Fields[0].Name)
}

func TestExtract_EmptyRoot(t *testing.T) {
	engine := NewEngine(Options{})
	classes, err := engine.Extract("Root", models.Object{})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Empty(t, classes[0].Fields)
}

func TestExtract_DeepNesting(t *testing.T) {
	const depth = 20000
	root := models.Object{{Key: "leaf", Value: models.Integer(1)}}
	for i := 0; i < depth; i++ {
		root = models.Object{{Key: "node", Value: root}}
	}

	engine := NewEngine(Options{Collisions: CollisionAllow})
	classes, err := engine.Extract("Root", root)
	require.NoError(t, err)
	require.Len(t, classes, depth+1)
	assert.Equal(t, "Node", classes[depth].Name)
	assert.Equal(t, "leaf", classes[depth].Fields[0].SourceKey)
}

func TestExtract_ReusableEngine(t *testing.T) {
	engine := NewEngine(Options{})
	first, err := engine.Extract("Root", mustObject(t, `{"a": {"b": 1}}`))
	require.NoError(t, err)
	second, err := engine.Extract("Root", mustObject(t, `{"a": {"b": 1}}`))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseOrder(t *testing.T) {
	for input, want := range map[string]Order{"": OrderLIFO, "lifo": OrderLIFO, "discovery": OrderDiscovery, "bfs": OrderDiscovery} {
		got, err := ParseOrder(input)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseOrder("random")
	assert.Error(t, err)
}

func TestParseCollisionPolicy(t *testing.T) {
	for input, want := range map[string]CollisionPolicy{"": CollisionRename, "rename": CollisionRename, "allow": CollisionAllow, "error": CollisionError} {
		got, err := ParseCollisionPolicy(input)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseCollisionPolicy("merge")
	assert.Error(t, err)
}
