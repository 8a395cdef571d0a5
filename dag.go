package personfile

import (
	"fmt"
	"io"
	"log"

	"github.com/creasty/defaults"
	"github.com/hashicorp/errwrap"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/jumppad-labs/personfile/convert"
	"github.com/jumppad-labs/personfile/errors"
	"github.com/jumppad-labs/personfile/resources"
	"github.com/jumppad-labs/personfile/types"
	"github.com/silas/dag"
	"github.com/zclconf/go-cty/cty"
)

// ProcessCallback is called for every resource when the graph is walked,
// returning an error from the callback halts the processing of any
// dependent resources
type ProcessCallback func(r types.Resource) error

// buildGraph creates a directed acyclic graph from the resources in the
// config, the edges are defined by the depends_on attribute and by any
// references to other resources in attribute expressions
func buildGraph(c *Config) (*dag.AcyclicGraph, error) {
	graph := &dag.AcyclicGraph{}

	// add a root node for the graph
	root, _ := resources.DefaultResources().CreateResource(types.TypeRoot, "root")
	graph.Add(root)

	// loop over all resources and add to the graph, variables are evaluated
	// at parse time and are not part of the graph
	for _, resource := range c.Resources {
		if resource.Metadata().Type != types.TypeVariable {
			graph.Add(resource)
		}
	}

	// add dependencies for all resources
	for _, resource := range c.Resources {
		if resource.Metadata().Type == types.TypeVariable {
			continue
		}

		// interpolation references are dependencies too
		for _, d := range resource.Metadata().Links {
			resource.AddDependency(d)
		}

		// use a map to keep a unique list
		dependencies := map[types.Resource]bool{}

		for _, d := range resource.GetDependencies() {
			fqrn, err := types.ParseFQRN(d)
			if err != nil {
				return nil, createParserError(resource, fmt.Sprintf("invalid dependency '%s': %s", d, err))
			}

			dep, err := c.FindResource(fqrn.String())
			if err != nil {
				return nil, createParserError(resource, fmt.Sprintf("unable to find dependent resource '%s': %s", d, err))
			}

			dependencies[dep] = true
		}

		hasDeps := false
		for d := range dependencies {
			hasDeps = true
			graph.Connect(dag.BasicEdge(d, resource))
		}

		// if no deps add to root node
		if !hasDeps {
			graph.Connect(dag.BasicEdge(root, resource))
		}
	}

	return graph, nil
}

// Process re-walks the graph of resources, running the Process hook and the
// given callback for every resource in dependency order. It is used when a
// config loaded from state needs its callbacks replayed.
func (c *Config) Process(wf ProcessCallback, reverse bool) error {
	return c.process(wf, reverse)
}

// process walks the graph of resources, resolving linked values and decoding
// the body of every resource in strict dependency order
func (c *Config) process(wf ProcessCallback, reverse bool) error {
	ce := errors.NewConfigError()

	for _, err := range c.walk(createCallback(c, wf), reverse) {
		ce.AppendProcessError(err)
	}

	if ce.ErrorCount() > 0 {
		return ce
	}

	return nil
}

// Walk creates a directed acyclic graph for the configuration resources
// depending on their links and references. All the resources defined in the
// graph are traversed and the provided callback is executed for every
// resource.
//
// Any error returned from the callback function halts execution of any other
// callback for resources in the graph.
//
// Specifying the reverse option as 'true' causes the graph to be traversed
// in reverse order.
func (c *Config) Walk(wf ProcessCallback, reverse bool) error {
	ce := errors.NewConfigError()

	errs := c.walk(
		func(v dag.Vertex) (diags dag.Diagnostics) {
			r, ok := v.(types.Resource)
			if !ok {
				return nil
			}

			if r.Metadata().Type == types.TypeRoot || r.GetDisabled() {
				return nil
			}

			if err := wf(r); err != nil {
				return diags.Append(err)
			}

			return nil
		},
		reverse,
	)

	for _, e := range errs {
		ce.AppendProcessError(e)
	}

	if ce.ErrorCount() > 0 {
		return ce
	}

	return nil
}

// walk builds the graph and traverses it with the given callback. Until the
// graph is walked the HCL config is not deserialized into the resource
// structs, some inputs depend on outputs from other resources so this must
// happen in strict order
func (c *Config) walk(wf dag.WalkFunc, reverse bool) []error {
	d, err := buildGraph(c)
	if err != nil {
		return []error{err}
	}

	// reduce the graph nodes to unique instances
	d.TransitiveReduction()

	// validate the dependency graph is ok
	if err := d.Validate(); err != nil {
		return []error{fmt.Errorf("unable to validate dependency graph: %w", err)}
	}

	w := dag.Walker{}
	w.Callback = wf
	w.Reverse = reverse

	// the dag package writes to the default logger, discard this output
	log.SetOutput(io.Discard)

	w.Update(d)
	diags := w.Wait()
	if diags.HasErrors() {
		return diags.Err().(errwrap.Wrapper).WrappedErrors()
	}

	return nil
}

// createCallback creates the internal callback that is called when a node in
// the graph is visited. The callback decodes the resource body, sets any
// linked values, calls the resource's Process method, and finally the user
// defined callback
func createCallback(c *Config, wf ProcessCallback) dag.WalkFunc {
	return func(v dag.Vertex) (diags dag.Diagnostics) {
		r, ok := v.(types.Resource)
		// not a resource, this should never happen
		if !ok {
			panic("an item has been added to the graph that is not a resource")
		}

		// the root node is never processed
		if r.Metadata().Type == types.TypeRoot {
			return nil
		}

		// disabled resources are not decoded or processed
		if r.GetDisabled() {
			return nil
		}

		bdy, berr := c.getBody(r)
		ctx, cerr := c.getContext(r)

		// resources added programmatically have no body to decode
		if berr == nil && cerr == nil {
			// apply the default values for any attribute that has not been
			// written in the stanza, decoding only overwrites attributes
			// present in the body
			defaults.Set(r)

			ul := getContextLock(ctx)

			// make the attributes of linked resources available to the
			// evaluation context, the graph guarantees they have already
			// been processed
			if err := setContextVariablesFromList(c, r, r.Metadata().Links, ctx); err != nil {
				ul()
				return diags.Append(err)
			}

			decodeDiags := gohcl.DecodeBody(bdy, ctx, r)
			ul()

			if decodeDiags.HasErrors() {
				return diags.Append(createParserError(r, fmt.Sprintf("unable to decode body: %s", decodeDiags.Error())))
			}
		}

		// outputs hold their computed value as a cty.Value, convert this
		// into a plain go type
		if r.Metadata().Type == types.TypeOutput {
			o := r.(*resources.Output)

			if !o.CtyValue.IsNull() {
				o.Value = castVar(o.CtyValue)
			}
		}

		// if the resource implements the Processable interface call its
		// Process method now that all attributes are resolved
		if p, ok := r.(types.Processable); ok {
			if err := p.Process(); err != nil {
				return diags.Append(createParserError(r, fmt.Sprintf("error processing resource: %s", err)))
			}
		}

		r.Metadata().Checksum.Processed = generateChecksum(r)

		// finally call the user defined callback
		if wf != nil {
			if err := wf(r); err != nil {
				return diags.Append(createParserError(r, fmt.Sprintf(`unable to process resource "%s": %s`, r.Metadata().ID, err)))
			}
		}

		return nil
	}
}

// setContextVariablesFromList sets the context variables from a list of
// resource links
//
// for example: given the value ["resource.person.isaac.first_name"] the
// context variable "resource.person.isaac" is set to the cty representation
// of the person resource isaac
func setContextVariablesFromList(c *Config, r types.Resource, values []string, ctx *hcl.EvalContext) *errors.ParserError {
	for _, value := range values {
		fqrn, err := types.ParseFQRN(value)
		if err != nil {
			return createParserError(r, fmt.Sprintf("error parsing resource link: %s", err))
		}

		// get the linked resource
		l, err := c.FindResource(fqrn.String())
		if err != nil {
			return createParserError(r, fmt.Sprintf("unable to find dependent resource '%s': %s", value, err))
		}

		// once we have found a resource convert it to a cty type and then
		// set it on the context
		var ctyRes cty.Value

		switch l.Metadata().Type {
		case types.TypeOutput:
			out := l.(*resources.Output)
			ctyRes = out.CtyValue
		default:
			ctyRes, err = convert.GoToCtyValue(l)
		}

		if err != nil {
			return createParserError(r, fmt.Sprintf("unable to convert reference %s to context variable: %s", value, err))
		}

		setContextVariableFromPath(ctx, fqrn.String(), ctyRes)
	}

	return nil
}

func createParserError(r types.Resource, msg string) *errors.ParserError {
	return &errors.ParserError{
		Filename: r.Metadata().File,
		Line:     r.Metadata().Line,
		Column:   r.Metadata().Column,
		Message:  msg,
		Level:    errors.ParserErrorLevelError,
	}
}
