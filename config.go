package personfile

import (
	"fmt"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jumppad-labs/personfile/resources"
	"github.com/jumppad-labs/personfile/types"
)

// Config holds the resources parsed from the config files
type Config struct {
	Resources []types.Resource `json:"resources"`
	contexts  map[types.Resource]*hcl.EvalContext
	bodies    map[types.Resource]*hclsyntax.Body
	sync      sync.Mutex
}

// ResourceNotFoundError is returned when a resource could not be found
type ResourceNotFoundError struct {
	Name string
}

func (e ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Name)
}

// ResourceExistsError is returned when a resource already exists in the
// resource list
type ResourceExistsError struct {
	Name string
}

func (e ResourceExistsError) Error() string {
	return fmt.Sprintf("resource already exists: %s", e.Name)
}

// NewConfig creates a new empty Config
func NewConfig() *Config {
	return &Config{
		Resources: []types.Resource{},
		contexts:  map[types.Resource]*hcl.EvalContext{},
		bodies:    map[types.Resource]*hclsyntax.Body{},
	}
}

// FindResource returns the resource for the given name, name is defined with
// the convention [type].[name]
//
// e.g. to find a person named isaac
// r, err := c.FindResource("resource.person.isaac")
//
// e.g. to find an output named full_name
// r, err := c.FindResource("output.full_name")
//
// If a resource can not be found resource will be null and an error will be
// returned
func (c *Config) FindResource(path string) (types.Resource, error) {
	c.sync.Lock()
	defer c.sync.Unlock()

	return c.findResource(path)
}

// local version of FindResource that does not lock the config
func (c *Config) findResource(path string) (types.Resource, error) {
	fqrn, err := types.ParseFQRN(path)
	if err != nil {
		return nil, err
	}

	for _, r := range c.Resources {
		if r.Metadata().Type == fqrn.Type &&
			r.Metadata().Name == fqrn.Resource {
			return r, nil
		}
	}

	return nil, ResourceNotFoundError{fqrn.String()}
}

// FindPerson is a convenience method returning the person with the given
// name
func (c *Config) FindPerson(name string) (*resources.Person, error) {
	r, err := c.FindResource(fmt.Sprintf("resource.%s.%s", resources.TypePerson, name))
	if err != nil {
		return nil, err
	}

	return r.(*resources.Person), nil
}

// FindResourcesByType returns all resources from the given type
func (c *Config) FindResourcesByType(t string) ([]types.Resource, error) {
	c.sync.Lock()
	defer c.sync.Unlock()

	res := []types.Resource{}

	for _, r := range c.Resources {
		if r.Metadata().Type == t {
			res = append(res, r)
		}
	}

	if len(res) > 0 {
		return res, nil
	}

	return nil, ResourceNotFoundError{t}
}

// ResourceCount defines the number of resources in a config
func (c *Config) ResourceCount() int {
	return len(c.Resources)
}

// AppendResourcesFromConfig adds the resources in the given config to this
// config. If a resource already exists a ResourceExistsError is returned
func (c *Config) AppendResourcesFromConfig(new *Config) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	for _, r := range new.Resources {
		fqrn := types.FQRNFromResource(r).String()

		// does the resource already exist?
		if _, err := c.findResource(fqrn); err == nil {
			return ResourceExistsError{Name: fqrn}
		}

		// we need to add the context and the body from the other resource
		// so that it can be used when processing
		c.addResource(r, new.contexts[r], new.bodies[r])
	}

	return nil
}

// AppendResource adds a given resource to the resource list, if the resource
// already exists an error will be returned
func (c *Config) AppendResource(r types.Resource) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	return c.addResource(r, nil, nil)
}

// RemoveResource removes the given resource from the config, the order of
// the remaining resources is preserved
func (c *Config) RemoveResource(rf types.Resource) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	pos := -1
	for i, r := range c.Resources {
		if rf.Metadata().Name == r.Metadata().Name &&
			rf.Metadata().Type == r.Metadata().Type {
			pos = i
			break
		}
	}

	if pos < 0 {
		return ResourceNotFoundError{types.FQRNFromResource(rf).String()}
	}

	c.Resources = append(c.Resources[:pos], c.Resources[pos+1:]...)

	// clean up the context and body
	delete(c.contexts, rf)
	delete(c.bodies, rf)

	return nil
}

func (c *Config) addResource(r types.Resource, ctx *hcl.EvalContext, b *hclsyntax.Body) error {
	fqrn := types.FQRNFromResource(r)
	r.Metadata().ID = fqrn.String()

	rf, err := c.findResource(fqrn.String())
	if err == nil && rf != nil {
		return ResourceExistsError{r.Metadata().Name}
	}

	c.Resources = append(c.Resources, r)
	c.contexts[r] = ctx
	c.bodies[r] = b

	return nil
}

func (c *Config) getContext(rf types.Resource) (*hcl.EvalContext, error) {
	if ctx, ok := c.contexts[rf]; ok && ctx != nil {
		return ctx, nil
	}

	return nil, ResourceNotFoundError{rf.Metadata().ID}
}

func (c *Config) getBody(rf types.Resource) (*hclsyntax.Body, error) {
	if b, ok := c.bodies[rf]; ok && b != nil {
		return b, nil
	}

	return nil, ResourceNotFoundError{rf.Metadata().ID}
}
