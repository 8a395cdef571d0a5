package personfile

import (
	"path/filepath"
	"testing"

	"github.com/jumppad-labs/personfile/resources"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestCastVarConvertsPrimitives(t *testing.T) {
	require.Equal(t, "abc", castVar(cty.StringVal("abc")))
	require.Equal(t, true, castVar(cty.BoolVal(true)))
	require.Equal(t, float64(42), castVar(cty.NumberIntVal(42)))
	require.Nil(t, castVar(cty.NullVal(cty.String)))
}

func TestCastVarConvertsCollections(t *testing.T) {
	list := castVar(cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.NumberIntVal(1)}))
	require.Equal(t, []interface{}{"a", float64(1)}, list)

	obj := castVar(cty.ObjectVal(map[string]cty.Value{
		"name": cty.StringVal("isaac"),
		"tags": cty.TupleVal([]cty.Value{cty.StringVal("science")}),
	}))

	require.Equal(t, map[string]interface{}{
		"name": "isaac",
		"tags": []interface{}{"science"},
	}, obj)
}

func TestParseVarsConvertsMap(t *testing.T) {
	vars := ParseVars(map[string]cty.Value{
		"first_name": cty.StringVal("Isaac"),
		"number":     cty.NumberIntVal(7),
	})

	require.Equal(t, "Isaac", vars["first_name"])
	require.Equal(t, float64(7), vars["number"])
}

func TestEnsureAbsoluteLeavesAbsolutePaths(t *testing.T) {
	require.Equal(t, "/tmp/config.hcl", ensureAbsolute("/tmp/config.hcl", "/var/config/main.hcl"))
}

func TestEnsureAbsoluteResolvesRelativeToFile(t *testing.T) {
	abs := ensureAbsolute("./people.hcl", "/var/config/main.hcl")
	require.Equal(t, filepath.Join("/var", "config", "people.hcl"), abs)
}

func TestHashStringIsStable(t *testing.T) {
	require.Equal(t, HashString("abc"), HashString("abc"))
	require.NotEqual(t, HashString("abc"), HashString("abd"))
}

func TestGenerateChecksumIgnoresDependencyOrder(t *testing.T) {
	a := resources.NewPerson("isaac")
	a.AddDependency("resource.person.marie")
	a.AddDependency("resource.person.grace")

	b := resources.NewPerson("isaac")
	b.AddDependency("resource.person.grace")
	b.AddDependency("resource.person.marie")

	require.Equal(t, generateChecksum(a), generateChecksum(b))
}

func TestGenerateChecksumChangesWithContent(t *testing.T) {
	a := resources.NewPerson("isaac")
	b := resources.NewPerson("isaac", resources.WithNumber(7))

	require.NotEqual(t, generateChecksum(a), generateChecksum(b))
}
