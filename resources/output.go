package resources

import (
	"github.com/jumppad-labs/personfile/types"
	"github.com/zclconf/go-cty/cty"
)

// Output defines a value which is computed when the config is processed,
// outputs can reference attributes from other resources
type Output struct {
	types.ResourceBase `hcl:",remain"`

	CtyValue    cty.Value `hcl:"value,optional" json:"-"`                           // value of the output
	Value       any       `json:"value"`                                            // go value of the output, set when processed
	Description string    `hcl:"description,optional" json:"description,omitempty"` // description for the output
}
