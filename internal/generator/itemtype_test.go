package generator

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveItemType_Primitives(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"string":  "str",
		"integer": "int",
		"number":  "float",
		"boolean": "bool",
		"object":  "Dict",
	}
	for openapiType, pyType := range cases {
		ref := &openapi3.SchemaRef{Value: &openapi3.Schema{Type: openapiType}}
		it, err := resolveItemType(ref, "test")
		require.NoError(t, err)
		assert.Equal(t, KindPrimitive, it.Kind)

		name, err := pyTypeName(it, "test")
		require.NoError(t, err)
		assert.Equal(t, pyType, name)
	}
}

func TestResolveItemType_Reference(t *testing.T) {
	t.Parallel()
	ref := &openapi3.SchemaRef{Ref: "#/components/schemas/User"}
	it, err := resolveItemType(ref, "test")
	require.NoError(t, err)
	assert.Equal(t, KindReference, it.Kind)

	name, err := pyTypeName(it, "test")
	require.NoError(t, err)
	assert.Equal(t, "User", name)
}

func TestResolveItemType_DottedReference(t *testing.T) {
	t.Parallel()
	ref := &openapi3.SchemaRef{Ref: "#/components/schemas/api.v1.User"}
	it, err := resolveItemType(ref, "test")
	require.NoError(t, err)

	name, err := pyTypeName(it, "test")
	require.NoError(t, err)
	assert.Equal(t, "User", name)
}

func TestResolveItemType_ArrayOfReference(t *testing.T) {
	t.Parallel()
	ref := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:  "array",
		Items: &openapi3.SchemaRef{Ref: "#/components/schemas/Book"},
	}}
	it, err := resolveItemType(ref, "test")
	require.NoError(t, err)
	require.Equal(t, KindArray, it.Kind)
	require.NotNil(t, it.Elem)

	name, err := pyTypeName(it, "test")
	require.NoError(t, err)
	assert.Equal(t, "List[Book]", name)
}

func TestResolveItemType_NestedArray(t *testing.T) {
	t.Parallel()
	ref := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type: "array",
		Items: &openapi3.SchemaRef{Value: &openapi3.Schema{
			Type:  "array",
			Items: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "integer"}},
		}},
	}}
	it, err := resolveItemType(ref, "test")
	require.NoError(t, err)

	name, err := pyTypeName(it, "test")
	require.NoError(t, err)
	assert.Equal(t, "List[List[int]]", name)
}

func TestResolveItemType_MissingTypeInfo(t *testing.T) {
	t.Parallel()
	for _, ref := range []*openapi3.SchemaRef{
		nil,
		{},
		{Value: &openapi3.Schema{}},
	} {
		_, err := resolveItemType(ref, "components/schemas/X/properties/y")
		require.Error(t, err)
		se, ok := err.(*SchemaError)
		require.True(t, ok)
		assert.Equal(t, MissingTypeInfo, se.Code)
		assert.Contains(t, se.SchemaPath, "components/schemas/X")
	}
}

func TestPyTypeName_UnknownPrimitive(t *testing.T) {
	t.Parallel()
	_, err := pyTypeName(ItemType{Kind: KindPrimitive, Name: "decimal"}, "test")
	require.Error(t, err)
	se, ok := err.(*SchemaError)
	require.True(t, ok)
	assert.Equal(t, UnknownPrimitive, se.Code)
}
