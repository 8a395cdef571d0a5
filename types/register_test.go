package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ResourceBase `hcl:",remain"`

	Value string `hcl:"value,optional"`
}

func TestCreateResourceReturnsNewInstance(t *testing.T) {
	types := RegisteredTypes{
		"record": &testRecord{},
	}

	r, err := types.CreateResource("record", "first")
	require.NoError(t, err)

	require.Equal(t, "first", r.Metadata().Name)
	require.Equal(t, "record", r.Metadata().Type)

	// instances must not share state
	r.(*testRecord).Value = "abc"

	r2, err := types.CreateResource("record", "second")
	require.NoError(t, err)
	require.Equal(t, "", r2.(*testRecord).Value)
}

func TestCreateResourceWithUnknownTypeReturnsError(t *testing.T) {
	types := RegisteredTypes{}

	_, err := types.CreateResource("record", "first")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not registered")
}

func TestResourceBaseTracksDependencies(t *testing.T) {
	r := &testRecord{}

	r.AddDependency("resource.record.one")
	r.AddDependency("resource.record.two")
	r.AddDependency("resource.record.one")

	require.Equal(t, []string{"resource.record.one", "resource.record.two"}, r.GetDependencies())
}

func TestResourceBaseDisabled(t *testing.T) {
	r := &testRecord{}

	require.False(t, r.GetDisabled())

	r.SetDisabled(true)
	require.True(t, r.GetDisabled())
}
