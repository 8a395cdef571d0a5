package resources

import (
	"testing"

	"github.com/jumppad-labs/personfile/errors"
	"github.com/stretchr/testify/require"
)

func TestNewPersonAppliesDefaults(t *testing.T) {
	p := NewPerson("default")

	require.Equal(t, "John", p.FirstName)
	require.Equal(t, "Doe", p.LastName)
	require.Equal(t, 42, p.Number)
}

func TestNewPersonSetsMetadata(t *testing.T) {
	p := NewPerson("isaac")

	require.Equal(t, "isaac", p.Meta.Name)
	require.Equal(t, TypePerson, p.Meta.Type)
}

func TestNewPersonAppliesOptions(t *testing.T) {
	p := NewPerson("isaac",
		WithFirstName("Isaac"),
		WithLastName("Newton"),
		WithNumber(7),
	)

	require.Equal(t, "Isaac", p.FirstName)
	require.Equal(t, "Newton", p.LastName)
	require.Equal(t, 7, p.Number)
}

func TestNewPersonAppliesPartialOptions(t *testing.T) {
	p := NewPerson("jane", WithFirstName("Jane"))

	require.Equal(t, "Jane", p.FirstName)
	require.Equal(t, "Doe", p.LastName)
	require.Equal(t, 42, p.Number)
}

func TestPersonStringFormatsAttributes(t *testing.T) {
	p := NewPerson("default")
	require.Equal(t, "Person(first_name=John, last_name=Doe, number=42)", p.String())

	p = NewPerson("isaac", WithFirstName("Isaac"), WithLastName("Newton"), WithNumber(7))
	require.Equal(t, "Person(first_name=Isaac, last_name=Newton, number=7)", p.String())
}

func TestPersonNameCombinesFirstAndLast(t *testing.T) {
	p := NewPerson("isaac", WithFirstName("Isaac"), WithLastName("Newton"))

	name, err := p.Name()
	require.NoError(t, err)
	require.Equal(t, "Isaac Newton", name)
}

func TestPersonNameWithMissingFirstNameReturnsError(t *testing.T) {
	p := &Person{}
	p.LastName = "Newton"

	_, err := p.Name()
	require.Error(t, err)

	var mae *errors.MissingAttributeError
	require.ErrorAs(t, err, &mae)
	require.Equal(t, "first_name", mae.Attribute)
	require.Contains(t, err.Error(), "first_name")
}

func TestPersonNameWithMissingLastNameReturnsError(t *testing.T) {
	p := &Person{}
	p.FirstName = "Isaac"

	_, err := p.Name()
	require.Error(t, err)

	var mae *errors.MissingAttributeError
	require.ErrorAs(t, err, &mae)
	require.Equal(t, "last_name", mae.Attribute)
}

func TestPersonAttributesAreMutable(t *testing.T) {
	p := NewPerson("isaac", WithFirstName("Isaac"))
	p.FirstName = "Jane"
	p.Number = 7

	require.Equal(t, "Person(first_name=Jane, last_name=Doe, number=7)", p.String())

	name, err := p.Name()
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", name)
}

func TestPersonProcessSetsFullName(t *testing.T) {
	p := NewPerson("isaac", WithFirstName("Isaac"), WithLastName("Newton"))

	require.NoError(t, p.Process())
	require.Equal(t, "Isaac Newton", p.FullName)
}

func TestPersonProcessWithMissingAttributeReturnsError(t *testing.T) {
	p := &Person{}

	require.Error(t, p.Process())
}
