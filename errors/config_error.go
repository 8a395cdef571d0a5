package errors

import "strings"

// ConfigError defines an error that was encountered while parsing the config
type ConfigError struct {
	// ParseErrors is a list of errors that were encountered while reading the
	// config from the text files
	ParseErrors []error

	// ProcessErrors is a list of errors that were encountered while
	// processing the config, this includes calling the Process function on a
	// resource and any parser callbacks
	ProcessErrors []error
}

func NewConfigError() *ConfigError {
	return &ConfigError{
		ParseErrors:   []error{},
		ProcessErrors: []error{},
	}
}

// AppendParseError adds a new parse error to the list of errors
func (p *ConfigError) AppendParseError(err error) {
	p.ParseErrors = append(p.ParseErrors, err)
}

// AppendProcessError adds a new process error to the list of errors
func (p *ConfigError) AppendProcessError(err error) {
	p.ProcessErrors = append(p.ProcessErrors, err)
}

// ErrorCount returns the total number of errors held by the ConfigError
func (p *ConfigError) ErrorCount() int {
	return len(p.ParseErrors) + len(p.ProcessErrors)
}

// Error pretty prints the error message as a string
func (p *ConfigError) Error() string {
	err := strings.Builder{}

	for _, e := range p.ParseErrors {
		err.WriteString(e.Error() + "\n")
	}

	for _, e := range p.ProcessErrors {
		err.WriteString(e.Error() + "\n")
	}

	return strings.TrimSuffix(err.String(), "\n")
}
