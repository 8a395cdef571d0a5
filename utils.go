package personfile

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jumppad-labs/personfile/types"
	"github.com/zclconf/go-cty/cty"
)

// ParseVars converts a map of cty.Values into native go types
func ParseVars(value map[string]cty.Value) map[string]interface{} {
	vars := map[string]interface{}{}

	for k, v := range value {
		vars[k] = castVar(v)
	}

	return vars
}

// castVar converts a cty.Value into its native go representation, objects
// and maps are returned as map[string]interface{}, lists and tuples as
// []interface{}
func castVar(v cty.Value) interface{} {
	if v.IsNull() {
		return nil
	}

	switch {
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Bool:
		return v.True()
	case v.Type() == cty.Number:
		// all numbers are returned as float64, the caller is responsible
		// for casting to int where needed
		val, _ := v.AsBigFloat().Float64()
		return val
	case v.Type().IsObjectType() || v.Type().IsMapType():
		return ParseVars(v.AsValueMap())
	case v.Type().IsTupleType() || v.Type().IsListType():
		parts := []interface{}{}

		i := v.ElementIterator()
		for i.Next() {
			_, value := i.Element()
			parts = append(parts, castVar(value))
		}

		return parts
	}

	return nil
}

// ensureAbsolute ensures that the given path is either absolute or relative
// to the file it was defined in
func ensureAbsolute(path, file string) string {
	// if the file path is absolute just return it
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	// path is relative to the current file or directory
	baseDir := file
	if s, err := os.Stat(file); err != nil || !s.IsDir() {
		baseDir = filepath.Dir(file)
	}

	return filepath.Clean(filepath.Join(baseDir, path))
}

// HashString returns the md5 hash of the given string
func HashString(content string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}

// generateChecksum builds a checksum for the resource from its serialized
// state, dependency lists are sorted first so that ordering differences do
// not change the sum
func generateChecksum(r types.Resource) string {
	// first sort the resource dependencies and links as these change
	// based on the parse order
	sort.Strings(r.Metadata().Links)
	sort.Strings(r.GetDependencies())

	d, _ := json.Marshal(r)

	return HashString(string(d))
}
