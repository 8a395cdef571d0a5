package personfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jumppad-labs/personfile/errors"
	"github.com/jumppad-labs/personfile/logger"
	"github.com/jumppad-labs/personfile/resources"
	"github.com/jumppad-labs/personfile/types"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// ParserOptions control the behavior of the parser
type ParserOptions struct {
	// Variables is a list of values that override the default values
	// defined in the config
	Variables map[string]string

	// VariablesFiles is a list of variable files to be read by the parser
	VariablesFiles []string

	// VariableEnvPrefix is the prefix for environment variables that
	// override variable values
	VariableEnvPrefix string

	// CacheDir is the location where remote configuration fetched with
	// ParseRemote is stored
	CacheDir string

	// Logger used by the parser, when unset logs are written to stdout
	Logger logger.Logger

	// ParseCallback is executed when the parser processes a resource,
	// callbacks are executed based on a directed acyclic graph. If resource
	// 'a' references a property defined in resource 'b', i.e
	// 'resource.person.b.first_name' then the callback for resource 'b' will
	// be executed before resource 'a'.
	ParseCallback ProcessCallback
}

// DefaultOptions returns a ParserOptions object with the CacheDir set to the
// default directory of $HOME/.personfile/cache, if the $HOME folder can not
// be determined the cache is set to the current folder.
// VariableEnvPrefix is set to 'PERSON_VAR_', should a variable be defined
// called 'foo' setting the environment variable 'PERSON_VAR_foo' will
// override any default value
func DefaultOptions() *ParserOptions {
	cacheDir, err := os.UserHomeDir()
	if err != nil {
		cacheDir = "."
	}

	cacheDir = filepath.Join(cacheDir, ".personfile", "cache")
	os.MkdirAll(cacheDir, os.ModePerm)

	return &ParserOptions{
		CacheDir:          cacheDir,
		VariableEnvPrefix: "PERSON_VAR_",
	}
}

// Parser can parse HCL configuration files containing person records
type Parser struct {
	options             ParserOptions
	registeredTypes     types.RegisteredTypes
	registeredFunctions map[string]function.Function
	log                 logger.Logger
}

// NewParser creates a new parser with the given options, if options are nil
// default options are used. The person type and the builtin stanzas are
// registered automatically.
func NewParser(options *ParserOptions) *Parser {
	o := options
	if o == nil {
		o = DefaultOptions()
	}

	l := o.Logger
	if l == nil {
		l = logger.NewStdOutLogger()
	}

	return &Parser{
		options:             *o,
		registeredTypes:     resources.DefaultResources(),
		registeredFunctions: map[string]function.Function{},
		log:                 l,
	}
}

// RegisterType registers a struct that implements Resource with the given
// name, the parser uses this list to convert hcl defined resources into
// concrete types
func (p *Parser) RegisterType(name string, resource types.Resource) {
	p.registeredTypes[name] = resource
}

// RegisterFunction registers a custom interpolation function with the given
// name, f must be a go function taking string or integer parameters and
// returning a single string or integer value
func (p *Parser) RegisterFunction(name string, f interface{}) error {
	ctyFunc, err := createCtyFunctionFromGoFunc(f)
	if err != nil {
		return err
	}

	p.registeredFunctions[name] = ctyFunc

	return nil
}

// ParseFile parses the given HCL file and returns the processed config
func (p *Parser) ParseFile(file string) (*Config, error) {
	c := NewConfig()
	ctx := buildContext(file, p.registeredFunctions)

	p.log.Debug("parsing file", "file", file)

	err := p.parseFile(ctx, file, c, p.options.Variables, p.options.VariablesFiles)
	if err != nil {
		return nil, err
	}

	// process the config and resolve dependencies
	return c, c.process(p.options.ParseCallback, false)
}

// ParseDirectory parses all resource and variable files in the given
// directory, note: this method does not recurse into sub folders
func (p *Parser) ParseDirectory(dir string) (*Config, error) {
	c := NewConfig()
	ctx := buildContext(dir, p.registeredFunctions)

	p.log.Debug("parsing directory", "dir", dir)

	err := p.parseDirectory(ctx, dir, c)
	if err != nil {
		return nil, err
	}

	// process the config and resolve dependencies
	return c, c.process(p.options.ParseCallback, false)
}

// ParseRemote fetches config files from a remote source such as a git
// repository or an http server and parses the downloaded directory. The
// files are cached in the parser's CacheDir, subsequent calls for the same
// source read from the cache.
func (p *Parser) ParseRemote(src string) (*Config, error) {
	gg := NewGoGetter()

	p.log.Debug("fetching remote config", "src", src)

	dir, err := gg.Get(src, p.options.CacheDir, false)
	if err != nil {
		return nil, fmt.Errorf(`unable to fetch remote config "%s": %w`, src, err)
	}

	return p.ParseDirectory(dir)
}

func (p *Parser) parseDirectory(ctx *hcl.EvalContext, dir string, c *Config) error {
	path, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory %s does not exist", dir)
	}

	if !path.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to list files in directory %s, error: %s", dir, err)
	}

	variablesFiles := p.options.VariablesFiles

	// first collect any vars files in the directory
	for _, f := range files {
		fn := filepath.Join(dir, f.Name())

		if !f.IsDir() && strings.HasSuffix(fn, ".vars") {
			variablesFiles = append(variablesFiles, fn)
		}
	}

	for _, f := range files {
		fn := filepath.Join(dir, f.Name())

		if !f.IsDir() && strings.HasSuffix(fn, ".hcl") {
			err := p.parseFile(ctx, fn, c, p.options.Variables, variablesFiles)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// parseFile loads variables and resources from the given file
func (p *Parser) parseFile(
	ctx *hcl.EvalContext,
	file string,
	c *Config,
	variables map[string]string,
	variablesFile []string) error {

	// This must be done before any other process as the resources
	// might reference the variables
	err := p.parseVariablesInFile(ctx, file, c)
	if err != nil {
		return err
	}

	// override any variables from files
	for _, vf := range variablesFile {
		err := p.loadVariablesFromFile(ctx, vf)
		if err != nil {
			return err
		}
	}

	// override default values for variables from environment or the
	// variables map
	p.setVariables(ctx, variables)

	return p.parseResourcesInFile(ctx, file, c)
}

// loadVariablesFromFile loads variable values from a file
func (p *Parser) loadVariablesFromFile(ctx *hcl.EvalContext, path string) error {
	parser := hclparse.NewParser()

	f, diag := parser.ParseHCLFile(path)
	if diag.HasErrors() {
		return errors.NewParserErrorFromHCLDiag(diag[0], path)
	}

	attrs, _ := f.Body.JustAttributes()
	for name, attr := range attrs {
		val, _ := attr.Expr.Value(ctx)

		setContextVariable(ctx, name, val)
	}

	return nil
}

// setVariables allows variables to be set from a collection or environment
// variables. Precedence should be file, env, vars
func (p *Parser) setVariables(ctx *hcl.EvalContext, vars map[string]string) {
	// first any vars defined as environment variables
	for _, e := range os.Environ() {
		if p.options.VariableEnvPrefix != "" && strings.HasPrefix(e, p.options.VariableEnvPrefix) {
			parts := strings.SplitN(e, "=", 2)

			if len(parts) == 2 {
				key := strings.TrimPrefix(parts[0], p.options.VariableEnvPrefix)
				setContextVariable(ctx, key, valueFromString(parts[1]))
			}
		}
	}

	// then set vars
	for k, v := range vars {
		setContextVariable(ctx, k, valueFromString(v))
	}
}

func valueFromString(v string) cty.Value {
	// attempt to parse the string value into a known type
	if val, err := strconv.ParseInt(v, 10, 0); err == nil {
		return cty.NumberIntVal(val)
	}

	if val, err := strconv.ParseBool(v); err == nil {
		return cty.BoolVal(val)
	}

	// otherwise return a string
	return cty.StringVal(v)
}

// parseVariablesInFile parses a config file for variable stanzas
func (p *Parser) parseVariablesInFile(ctx *hcl.EvalContext, file string, c *Config) error {
	parser := hclparse.NewParser()

	f, diag := parser.ParseHCLFile(file)
	if diag.HasErrors() {
		return errors.NewParserErrorFromHCLDiag(diag[0], file)
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("unable to read body of file %s", file)
	}

	for _, b := range body.Blocks {
		if b.Type != types.TypeVariable {
			continue
		}

		if len(b.Labels) != 1 {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
				`invalid formatting for 'variable' stanza, variables should be formatted 'variable "name" {}'`)
		}

		r, _ := p.registeredTypes.CreateResource(types.TypeVariable, b.Labels[0])
		v := r.(*resources.Variable)
		v.Meta.File = file
		v.Meta.Line = b.TypeRange.Start.Line
		v.Meta.Column = b.TypeRange.Start.Column

		// variables are evaluated immediately, they can not reference
		// resources
		if attr, ok := b.Body.Attributes["type"]; ok {
			val, diags := attr.Expr.Value(ctx)
			if diags.HasErrors() {
				return errors.NewParserErrorFromHCLDiag(diags[0], file)
			}

			v.Type = val.AsString()
		}

		if attr, ok := b.Body.Attributes["description"]; ok {
			val, diags := attr.Expr.Value(ctx)
			if diags.HasErrors() {
				return errors.NewParserErrorFromHCLDiag(diags[0], file)
			}

			v.Description = val.AsString()
		}

		if attr, ok := b.Body.Attributes["default"]; ok {
			val, diags := attr.Expr.Value(ctx)
			if diags.HasErrors() {
				return errors.NewParserErrorFromHCLDiag(diags[0], file)
			}

			v.Default = castVar(val)

			// add the variable to the context unless it has already been
			// set, values passed to the parser take precedence over defaults
			setContextVariableIfMissing(ctx, v.Meta.Name, val)
		}

		c.AppendResource(v)
	}

	return nil
}

// parseResourcesInFile parses a hcl file and adds any found resources to the
// config
func (p *Parser) parseResourcesInFile(ctx *hcl.EvalContext, file string, c *Config) error {
	parser := hclparse.NewParser()

	f, diag := parser.ParseHCLFile(file)
	if diag.HasErrors() {
		return errors.NewParserErrorFromHCLDiag(diag[0], file)
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("unable to read body of file %s", file)
	}

	for _, b := range body.Blocks {
		// check the stanza has a name
		if len(b.Labels) == 0 {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
				fmt.Sprintf("stanza '%s' has no name, please specify stanzas using the syntax 'resource_type \"name\" {}'", b.Type))
		}

		// variables are processed in a separate run
		switch b.Type {
		case types.TypeVariable:
			continue
		case types.TypeOutput:
			fallthrough
		case types.TypeResource:
			err := p.parseResource(ctx, c, file, b)
			if err != nil {
				return err
			}
		default:
			return errors.NewParserError(file, b.Range().Start.Line, b.Range().Start.Column, errors.ParserErrorLevelError,
				fmt.Sprintf("unable to process stanza '%s' in file %s, only 'variable', 'resource', and 'output' are valid stanza blocks", b.Type, file))
		}
	}

	return nil
}

func (p *Parser) parseResource(ctx *hcl.EvalContext, c *Config, file string, b *hclsyntax.Block) error {
	var rt types.Resource
	var err error

	switch b.Type {
	case types.TypeResource:
		// resources should have two labels, one for the type and one for
		// the name
		if len(b.Labels) != 2 {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
				`invalid formatting for 'resource' stanza, resources should have a name and a type, i.e. 'resource "person" "name" {}'`)
		}

		name := b.Labels[1]
		if err := types.ValidateName(name); err != nil {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError, err.Error())
		}

		rt, err = p.registeredTypes.CreateResource(b.Labels[0], name)
		if err != nil {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
				fmt.Sprintf("unable to create resource '%s' %s", b.Labels[0], err))
		}

	case types.TypeOutput:
		// outputs have a single label, the name
		if len(b.Labels) != 1 {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
				`invalid formatting for 'output' stanza, outputs should have a name, i.e. 'output "name" {}'`)
		}

		name := b.Labels[0]
		if err := types.ValidateName(name); err != nil {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError, err.Error())
		}

		rt, err = p.registeredTypes.CreateResource(types.TypeOutput, name)
		if err != nil {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
				fmt.Sprintf("unable to create output, this error should never happen %s", err))
		}
	}

	rt.Metadata().File = file
	rt.Metadata().Line = b.TypeRange.Start.Line
	rt.Metadata().Column = b.TypeRange.Start.Column

	// find any references to other resources in the attribute expressions,
	// the body is decoded lazily when the graph is walked and the referenced
	// values are known
	rt.Metadata().Links = dependentResources(b)

	// disabled is a property of the embedded type, it needs to be set
	// manually
	if err := setDisabled(ctx, rt, b.Body); err != nil {
		return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError, err.Error())
	}

	// depends_on is also a property of the embedded type
	if err := setDependsOn(ctx, rt, b.Body); err != nil {
		return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
			fmt.Sprintf("unable to set depends_on: %s", err))
	}

	// best effort decode so that Parse sees statically defined attributes,
	// diagnostics are discarded here as expressions referencing other
	// resources can not be evaluated yet. The body is decoded again with
	// the resolved context when the graph is walked.
	gohcl.DecodeBody(b.Body, ctx, rt)

	// call the resource's Parse function if implemented
	if pa, ok := rt.(types.Parsable); ok {
		if err := pa.Parse(); err != nil {
			return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
				fmt.Sprintf(`error parsing resource "%s": %s`, types.FQRNFromResource(rt).String(), err))
		}
	}

	rt.Metadata().Checksum.Parsed = generateChecksum(rt)

	p.log.Debug("parsed resource", "fqrn", types.FQRNFromResource(rt).String())

	if err := c.addResource(rt, ctx, b.Body); err != nil {
		return errors.NewParserError(file, b.TypeRange.Start.Line, b.TypeRange.Start.Column, errors.ParserErrorLevelError,
			fmt.Sprintf(`unable to add resource "%s" to config: %s`, types.FQRNFromResource(rt).String(), err))
	}

	return nil
}

// dependentResources returns the unique list of resources referenced by the
// attribute expressions in the given block, i.e the attribute
// 'first_name = resource.person.boss.first_name' links the block to
// 'resource.person.boss'
func dependentResources(b *hclsyntax.Block) []string {
	references := []string{}

	for _, a := range b.Body.Attributes {
		for _, t := range a.Expr.Variables() {
			ref := traversalToString(t)

			if strings.HasPrefix(ref, "resource.") || strings.HasPrefix(ref, "output.") {
				references = appendIfNotContains(references, ref)
			}
		}
	}

	return references
}

// traversalToString converts an hcl traversal like
// resource.person.isaac.first_name into its dotted string representation
func traversalToString(t hcl.Traversal) string {
	parts := []string{}

	for _, tr := range t {
		switch tt := tr.(type) {
		case hcl.TraverseRoot:
			parts = append(parts, tt.Name)
		case hcl.TraverseAttr:
			parts = append(parts, tt.Name)
		case hcl.TraverseIndex:
			if tt.Key.Type() == cty.String {
				parts = append(parts, tt.Key.AsString())
			}
		}
	}

	return strings.Join(parts, ".")
}

func appendIfNotContains(list []string, value string) []string {
	for _, item := range list {
		if item == value {
			return list
		}
	}

	return append(list, value)
}

func setDisabled(ctx *hcl.EvalContext, r types.Resource, b *hclsyntax.Body) error {
	attr, ok := b.Attributes["disabled"]
	if !ok {
		return nil
	}

	disabled, diags := attr.Expr.Value(ctx)
	if diags.HasErrors() {
		return fmt.Errorf("unable to read disabled attribute: %s", diags.Error())
	}

	r.SetDisabled(disabled.True())

	return nil
}

func setDependsOn(ctx *hcl.EvalContext, r types.Resource, b *hclsyntax.Body) error {
	attr, ok := b.Attributes["depends_on"]
	if !ok {
		return nil
	}

	dependsOnVal, diags := attr.Expr.Value(ctx)
	if diags.HasErrors() {
		return fmt.Errorf("unable to read depends_on attribute: %s", diags.Error())
	}

	// depends_on is a list of string
	for _, d := range dependsOnVal.AsValueSlice() {
		if _, err := types.ParseFQRN(d.AsString()); err != nil {
			return fmt.Errorf("invalid dependency %s, %s", d.AsString(), err)
		}

		r.AddDependency(d.AsString())
	}

	return nil
}

func setContextVariableIfMissing(ctx *hcl.EvalContext, key string, value cty.Value) {
	if m, ok := ctx.Variables["variable"]; ok {
		if _, ok := m.AsValueMap()[key]; ok {
			return
		}
	}

	setContextVariable(ctx, key, value)
}

func setContextVariable(ctx *hcl.EvalContext, key string, value cty.Value) {
	valMap := map[string]cty.Value{}

	// get the existing map
	if m, ok := ctx.Variables["variable"]; ok {
		valMap = m.AsValueMap()
	}

	if valMap == nil {
		valMap = map[string]cty.Value{}
	}

	valMap[key] = value

	ctx.Variables["variable"] = cty.ObjectVal(valMap)
}

// setContextVariableFromPath sets a context variable using a nested
// structure based on the given dotted path, any child maps needed to satisfy
// the path are created.
// i.e "resource.person.isaac" set to a value v gives
// ctx.Variables["resource"].AsValueMap()["person"].AsValueMap()["isaac"] = v
func setContextVariableFromPath(ctx *hcl.EvalContext, path string, value cty.Value) {
	parts := strings.Split(path, ".")

	ctx.Variables = setMapVariableFromPath(ctx.Variables, parts, value)
}

func setMapVariableFromPath(root map[string]cty.Value, path []string, value cty.Value) map[string]cty.Value {
	if root == nil {
		root = map[string]cty.Value{}
	}

	if len(path) == 1 {
		root[path[0]] = value
		return root
	}

	child := map[string]cty.Value{}
	if v, ok := root[path[0]]; ok && v.Type().IsObjectType() && !v.IsNull() {
		if m := v.AsValueMap(); m != nil {
			child = m
		}
	}

	root[path[0]] = cty.ObjectVal(setMapVariableFromPath(child, path[1:], value))

	return root
}

func buildContext(filePath string, customFunctions map[string]function.Function) *hcl.EvalContext {
	ctx := &hcl.EvalContext{
		Functions: map[string]function.Function{},
		Variables: map[string]cty.Value{},
	}

	ctx.Functions = getDefaultFunctions(filePath)

	// add the custom functions
	for k, v := range customFunctions {
		ctx.Functions[k] = v
	}

	return ctx
}
