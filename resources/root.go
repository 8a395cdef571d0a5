package resources

import "github.com/jumppad-labs/personfile/types"

// Root is the implicit root node of the dependency graph, all resources
// without dependencies are children of Root
type Root struct {
	types.ResourceBase `hcl:",remain"`
}
