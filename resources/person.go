package resources

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/jumppad-labs/personfile/errors"
	"github.com/jumppad-labs/personfile/types"
)

const TypePerson = "person"

// Person defines the resource `person`, a record with a first name, a last
// name, and a number. All attributes are optional in the stanza, any
// attribute that is not set keeps its default value.
//
//	resource "person" "isaac" {
//	  first_name = "Isaac"
//	  last_name  = "Newton"
//	  number     = 7
//	}
type Person struct {
	types.ResourceBase `hcl:",remain"`

	// FirstName is the first name of the person
	FirstName string `hcl:"first_name,optional" default:"John" json:"first_name"`

	// LastName is the last name of the person
	LastName string `hcl:"last_name,optional" default:"Doe" json:"last_name"`

	// Number is a number associated with the person
	Number int `hcl:"number,optional" default:"42" json:"number"`

	// FullName is a computed attribute combining the first and last names,
	// it is set when the resource is processed and must be marked optional
	FullName string `hcl:"full_name,optional" json:"full_name"`
}

// PersonOption overrides a single attribute when constructing a Person
type PersonOption func(*Person)

func WithFirstName(name string) PersonOption {
	return func(p *Person) {
		p.FirstName = name
	}
}

func WithLastName(name string) PersonOption {
	return func(p *Person) {
		p.LastName = name
	}
}

func WithNumber(number int) PersonOption {
	return func(p *Person) {
		p.Number = number
	}
}

// NewPerson creates a Person with the default attribute values applied, then
// overridden by any of the given options. Options can be supplied in any
// combination, attributes without an option keep their defaults.
func NewPerson(name string, opts ...PersonOption) *Person {
	p := &Person{}
	p.Meta.Name = name
	p.Meta.Type = TypePerson

	defaults.Set(p)

	for _, o := range opts {
		o(p)
	}

	return p
}

// String returns the textual representation of the person
func (p *Person) String() string {
	return fmt.Sprintf("Person(first_name=%s, last_name=%s, number=%d)", p.FirstName, p.LastName, p.Number)
}

// Name combines the first and last names of the person.
//
// A MissingAttributeError is returned when either name attribute has no
// value, this can only occur when the struct has been created directly
// without applying defaults.
func (p *Person) Name() (string, error) {
	if p.FirstName == "" {
		return "", errors.NewMissingAttributeError(TypePerson, "first_name")
	}

	if p.LastName == "" {
		return "", errors.NewMissingAttributeError(TypePerson, "last_name")
	}

	return fmt.Sprintf("%s %s", p.FirstName, p.LastName), nil
}

// Process implements types.Processable, it sets the computed full_name
// attribute so that it can be referenced by dependent resources
func (p *Person) Process() error {
	name, err := p.Name()
	if err != nil {
		return err
	}

	p.FullName = name

	return nil
}
