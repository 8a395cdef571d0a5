package errors

import "fmt"

// MissingAttributeError is returned when an operation on a resource requires
// an attribute that has no value. Under normal construction attributes are
// always populated with their defaults, this error is only reachable when a
// resource struct has been created directly, bypassing the registry.
type MissingAttributeError struct {
	// Resource is the type of the resource the attribute belongs to
	Resource string
	// Attribute is the name of the attribute that has no value
	Attribute string
}

func NewMissingAttributeError(resource, attribute string) *MissingAttributeError {
	return &MissingAttributeError{Resource: resource, Attribute: attribute}
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf(`attribute "%s" is not set for %s`, e.Attribute, e.Resource)
}
