package types

// Parsable defines an optional interface that allows a resource to be
// validated directly after it has been read from a file.
//
// Parse is called sequentially for each resource as it is loaded, before the
// graph of dependent resources has been built. Attribute values that are
// interpolated from other resources are not yet resolved at this point.
type Parsable interface {
	Parse() error
}

// Processable defines an optional interface that allows a resource to define
// a callback that is executed when the resource is processed by the graph.
//
// Unlike Parse, Process is called in strict order based upon the resource's
// dependency to other resources. Computed attributes set in Process are
// available to dependent resources.
type Processable interface {
	// Process is called by the parser when the graph of resources is walked.
	//
	// Returning an error from Process stops the processing of other
	// resources and terminates all parsing.
	Process() error
}

// Resource is the interface that all configuration records implement, it is
// satisfied by embedding ResourceBase.
type Resource interface {
	// Metadata returns the resource Meta
	Metadata() *Meta
	GetDisabled() bool
	SetDisabled(bool)
	GetDependencies() []string
	SetDependencies([]string)
	AddDependency(string)
}

// Meta defines common metadata that all resources share
type Meta struct {
	// ID is the unique id for the resource, this follows the convention
	// [type].[name], i.e resource.person.isaac
	ID string `hcl:"id,optional" json:"id"`

	// Name is the name of the resource, set from the stanza label
	Name string `hcl:"name,optional" json:"name"`

	// Type is the type of the resource, set from the stanza label
	Type string `hcl:"type,optional" json:"type"`

	// File is the absolute path of the file where the resource is defined
	File string `hcl:"file,optional" json:"file"`

	// Line is the starting line number of the resource in File
	Line int `hcl:"line,optional" json:"line"`

	// Column is the starting column number of the resource in File
	Column int `hcl:"column,optional" json:"column"`

	// Checksum holds the hashes of the resource at the different stages of
	// its lifecycle
	Checksum Checksum `hcl:"checksum,optional" json:"checksum"`

	// Links are the resources referenced through interpolation which must be
	// processed before this resource can be decoded, this is an internal
	// property that can not be set with hcl
	Links []string `json:"links,omitempty"`
}

// Checksum is the md5 hash of the resource
type Checksum struct {
	// Parsed is the checksum of the resource after it has been read from a
	// file and Parse has been called.
	Parsed string `hcl:"parsed,optional" json:"parsed,omitempty"`

	// Processed is the checksum of the resource after the graph has resolved
	// any linked values and Process has been called.
	Processed string `hcl:"processed,optional" json:"processed,omitempty"`
}

// ResourceBase is the embedded type for any configuration resources,
// it defines common metadata that all resources share
type ResourceBase struct {
	// DependsOn is a user configurable list of dependencies for this resource
	DependsOn []string `hcl:"depends_on,optional" json:"depends_on,omitempty"`

	// Disabled determines if a resource is disabled and should not be
	// processed
	Disabled bool `hcl:"disabled,optional" json:"disabled,omitempty"`

	Meta Meta `hcl:"meta,optional" json:"meta,omitempty"`
}

// Metadata ensures that any struct embedding ResourceBase conforms to the
// Resource interface
func (r *ResourceBase) Metadata() *Meta {
	return &r.Meta
}

func (r *ResourceBase) GetDisabled() bool {
	return r.Disabled
}

func (r *ResourceBase) SetDisabled(v bool) {
	r.Disabled = v
}

func (r *ResourceBase) GetDependencies() []string {
	return r.DependsOn
}

func (r *ResourceBase) SetDependencies(v []string) {
	r.DependsOn = v
}

func (r *ResourceBase) AddDependency(v string) {
	r.DependsOn = appendIfNotContains(r.DependsOn, v)
}

func appendIfNotContains(list []string, value string) []string {
	for _, item := range list {
		if value == item {
			return list
		}
	}

	return append(list, value)
}
