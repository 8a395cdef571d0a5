package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// The type names of the built in stanzas
const (
	TypeResource = "resource"
	TypeVariable = "variable"
	TypeOutput   = "output"
	TypeRoot     = "root"
)

// FQRN is the fully qualified resource name
type FQRN struct {
	// Type of the resource
	Type string
	// Resource name
	Resource string
	// Attribute for the resource
	Attribute string
}

// nameRegex validates stanza labels, names may only contain letters, numbers,
// underscores and dashes
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateName checks that the given resource name conforms to the allowed
// character set
func ValidateName(name string) error {
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid resource name %q, names can only contain letters, numbers, dashes and underscores", name)
	}

	return nil
}

// ParseFQRN parses a fully qualified resource name and returns the individual
// components, e.g:
//
// get the "resource" person called isaac, including the "attribute"
// first_name
// // resource.person.isaac.first_name
//
// get the "resource" person called isaac
// // resource.person.isaac
//
// get the "output" called name
// // output.name
//
// get the "variable" called name
// // variable.name
func ParseFQRN(fqrn string) (*FQRN, error) {
	parts := strings.Split(fqrn, ".")

	switch parts[0] {
	case "resource":
		if len(parts) < 3 {
			return nil, errors.New(formatErrorString(fqrn))
		}

		return &FQRN{
			Type:      parts[1],
			Resource:  parts[2],
			Attribute: strings.Join(parts[3:], "."),
		}, nil

	case TypeOutput:
		fallthrough

	case TypeVariable:
		if len(parts) < 2 {
			return nil, errors.New(formatErrorString(fqrn))
		}

		return &FQRN{
			Type:      parts[0],
			Resource:  parts[1],
			Attribute: strings.Join(parts[2:], "."),
		}, nil
	}

	return nil, errors.New(formatErrorString(fqrn))
}

// FQRNFromResource returns the fully qualified resource name for the given
// resource
func FQRNFromResource(r Resource) *FQRN {
	return &FQRN{
		Type:     r.Metadata().Type,
		Resource: r.Metadata().Name,
	}
}

// String returns the fully qualified name without any attribute
func (f *FQRN) String() string {
	switch f.Type {
	case TypeOutput, TypeVariable:
		return fmt.Sprintf("%s.%s", f.Type, f.Resource)
	}

	return fmt.Sprintf("resource.%s.%s", f.Type, f.Resource)
}

// StringWithAttribute returns the fully qualified name including any
// attribute
func (f *FQRN) StringWithAttribute() string {
	if f.Attribute == "" {
		return f.String()
	}

	return fmt.Sprintf("%s.%s", f.String(), f.Attribute)
}

func formatErrorString(fqrn string) string {
	return fmt.Sprintf("ParseFQRN expects the fully qualified resource name to be formatted like resource.[type].[name], output.[name], or variable.[name]. The fqrn: %s, does not contain a valid format", fqrn)
}
