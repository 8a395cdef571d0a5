package personfile

import (
	"sync"
	"testing"

	"github.com/jumppad-labs/personfile/resources"
	"github.com/jumppad-labs/personfile/types"
	"github.com/stretchr/testify/require"
)

func testSetupConfig(t *testing.T) (*Config, []types.Resource) {
	persons := []types.Resource{
		resources.NewPerson("isaac", resources.WithFirstName("Isaac"), resources.WithLastName("Newton")),
		resources.NewPerson("marie", resources.WithFirstName("Marie"), resources.WithLastName("Curie")),
		resources.NewPerson("grace"),
	}

	c := NewConfig()
	for _, p := range persons {
		require.NoError(t, c.AppendResource(p))
	}

	return c, persons
}

func TestAppendResourceSetsID(t *testing.T) {
	c, _ := testSetupConfig(t)

	r, err := c.FindResource("resource.person.isaac")
	require.NoError(t, err)

	require.Equal(t, "resource.person.isaac", r.Metadata().ID)
}

func TestAppendResourceWithExistingIDReturnsError(t *testing.T) {
	c, _ := testSetupConfig(t)

	err := c.AppendResource(resources.NewPerson("isaac"))
	require.Error(t, err)
	require.IsType(t, ResourceExistsError{}, err)
}

func TestFindResourceReturnsCorrectResource(t *testing.T) {
	c, persons := testSetupConfig(t)

	r, err := c.FindResource("resource.person.marie")
	require.NoError(t, err)
	require.Equal(t, persons[1], r)
}

func TestFindResourceWithUnknownReturnsNotFound(t *testing.T) {
	c, _ := testSetupConfig(t)

	_, err := c.FindResource("resource.person.albert")
	require.Error(t, err)
	require.IsType(t, ResourceNotFoundError{}, err)
}

func TestFindResourceWithInvalidPathReturnsError(t *testing.T) {
	c, _ := testSetupConfig(t)

	_, err := c.FindResource("not_a_fqrn")
	require.Error(t, err)
}

func TestFindPersonReturnsTypedResource(t *testing.T) {
	c, _ := testSetupConfig(t)

	p, err := c.FindPerson("grace")
	require.NoError(t, err)

	require.Equal(t, "John", p.FirstName)
	require.Equal(t, "Doe", p.LastName)
	require.Equal(t, 42, p.Number)
}

func TestFindResourcesByTypeReturnsAllMatching(t *testing.T) {
	c, _ := testSetupConfig(t)

	out := &resources.Output{}
	out.Meta.Name = "full_name"
	out.Meta.Type = types.TypeOutput
	require.NoError(t, c.AppendResource(out))

	persons, err := c.FindResourcesByType(resources.TypePerson)
	require.NoError(t, err)
	require.Len(t, persons, 3)
}

func TestResourceCount(t *testing.T) {
	c, _ := testSetupConfig(t)

	require.Equal(t, 3, c.ResourceCount())
}

func TestRemoveResource(t *testing.T) {
	c, persons := testSetupConfig(t)

	err := c.RemoveResource(persons[0])
	require.NoError(t, err)

	require.Equal(t, 2, c.ResourceCount())

	_, err = c.FindResource("resource.person.isaac")
	require.Error(t, err)
}

func TestRemoveResourceNotFoundReturnsError(t *testing.T) {
	c, _ := testSetupConfig(t)

	err := c.RemoveResource(resources.NewPerson("albert"))
	require.Error(t, err)
}

func TestAppendResourcesFromConfig(t *testing.T) {
	c, _ := testSetupConfig(t)

	other := NewConfig()
	require.NoError(t, other.AppendResource(resources.NewPerson("albert")))

	err := c.AppendResourcesFromConfig(other)
	require.NoError(t, err)

	require.Equal(t, 4, c.ResourceCount())

	_, err = c.FindResource("resource.person.albert")
	require.NoError(t, err)
}

func TestAppendResourcesFromConfigWithDuplicateReturnsError(t *testing.T) {
	c, _ := testSetupConfig(t)

	other := NewConfig()
	require.NoError(t, other.AppendResource(resources.NewPerson("isaac")))

	err := c.AppendResourcesFromConfig(other)
	require.Error(t, err)
}

func TestWalkCallsCallbackForEveryResource(t *testing.T) {
	c, _ := testSetupConfig(t)

	walked := []string{}
	mu := sync.Mutex{}

	err := c.Walk(func(r types.Resource) error {
		mu.Lock()
		defer mu.Unlock()

		walked = append(walked, r.Metadata().ID)
		return nil
	}, false)

	require.NoError(t, err)
	require.Len(t, walked, 3)
}

func TestWalkReverseCallsDependentsFirst(t *testing.T) {
	c, _ := testSetupConfig(t)

	follower := resources.NewPerson("follower")
	follower.AddDependency("resource.person.isaac")
	require.NoError(t, c.AppendResource(follower))

	walked := []string{}
	mu := sync.Mutex{}

	err := c.Walk(func(r types.Resource) error {
		mu.Lock()
		defer mu.Unlock()

		walked = append(walked, r.Metadata().ID)
		return nil
	}, true)

	require.NoError(t, err)
	require.Less(t, indexOf(walked, "resource.person.follower"), indexOf(walked, "resource.person.isaac"))
}
