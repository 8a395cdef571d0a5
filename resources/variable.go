package resources

import "github.com/jumppad-labs/personfile/types"

// Variable defines an input variable which can be referenced from resource
// attributes using the syntax `variable.[name]`
type Variable struct {
	types.ResourceBase `hcl:",remain"`

	Type        string `hcl:"type" json:"type"`                                  // type of the variable e.g. string, number, bool
	Default     any    `hcl:"default,optional" json:"default"`                   // default value for the variable
	Description string `hcl:"description,optional" json:"description,omitempty"` // description of the variable
}
