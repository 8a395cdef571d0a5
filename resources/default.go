package resources

import "github.com/jumppad-labs/personfile/types"

// DefaultResources is a collection of the default config resources
func DefaultResources() types.RegisteredTypes {
	return types.RegisteredTypes{
		types.TypeVariable: &Variable{},
		types.TypeOutput:   &Output{},
		types.TypeRoot:     &Root{},
		TypePerson:         &Person{},
	}
}
