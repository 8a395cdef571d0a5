package convert

import (
	"testing"

	"github.com/jumppad-labs/personfile/resources"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestGoToCtyValueConvertsPrimitives(t *testing.T) {
	v, err := GoToCtyValue("abc")
	require.NoError(t, err)
	require.Equal(t, cty.StringVal("abc"), v)

	v, err = GoToCtyValue(42)
	require.NoError(t, err)
	require.Equal(t, cty.NumberIntVal(42), v)

	v, err = GoToCtyValue(true)
	require.NoError(t, err)
	require.Equal(t, cty.True, v)
}

func TestGoToCtyValueConvertsSlices(t *testing.T) {
	v, err := GoToCtyValue([]string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}), v)

	v, err = GoToCtyValue([]string{})
	require.NoError(t, err)
	require.Equal(t, cty.EmptyTupleVal, v)
}

func TestGoToCtyValueConvertsMaps(t *testing.T) {
	v, err := GoToCtyValue(map[string]int{"number": 42})
	require.NoError(t, err)
	require.Equal(t, cty.ObjectVal(map[string]cty.Value{"number": cty.NumberIntVal(42)}), v)
}

func TestGoToCtyValueWithNonStringMapKeysReturnsError(t *testing.T) {
	_, err := GoToCtyValue(map[int]string{1: "a"})
	require.Error(t, err)
}

func TestGoToCtyValueUsesAttributeNames(t *testing.T) {
	p := resources.NewPerson("isaac",
		resources.WithFirstName("Isaac"),
		resources.WithLastName("Newton"),
		resources.WithNumber(7),
	)

	v, err := GoToCtyValue(p)
	require.NoError(t, err)

	attrs := v.AsValueMap()
	require.Equal(t, cty.StringVal("Isaac"), attrs["first_name"])
	require.Equal(t, cty.StringVal("Newton"), attrs["last_name"])
	require.Equal(t, cty.NumberIntVal(7), attrs["number"])
}

func TestGoToCtyValueMergesEmbeddedFields(t *testing.T) {
	p := resources.NewPerson("isaac")
	p.AddDependency("resource.person.marie")

	v, err := GoToCtyValue(p)
	require.NoError(t, err)

	attrs := v.AsValueMap()

	// attributes of the embedded base are merged into the person object
	require.Contains(t, attrs, "depends_on")
	require.Contains(t, attrs, "meta")

	meta := attrs["meta"].AsValueMap()
	require.Equal(t, cty.StringVal("isaac"), meta["name"])
	require.Equal(t, cty.StringVal("person"), meta["type"])
}

func TestGoToCtyValuePassesCtyValuesThrough(t *testing.T) {
	o := &resources.Output{}
	o.Meta.Name = "full_name"
	o.CtyValue = cty.StringVal("Isaac Newton")

	v, err := GoToCtyValue(o)
	require.NoError(t, err)

	attrs := v.AsValueMap()
	require.Equal(t, cty.StringVal("Isaac Newton"), attrs["value"])
}

func TestCtyToGoConvertsValues(t *testing.T) {
	var s string
	require.NoError(t, CtyToGo(cty.StringVal("abc"), &s))
	require.Equal(t, "abc", s)

	var n int
	require.NoError(t, CtyToGo(cty.NumberIntVal(42), &n))
	require.Equal(t, 42, n)
}
