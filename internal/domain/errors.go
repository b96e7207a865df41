package domain

import (
	"errors"
	"fmt"
)

// ErrMissingRequired is wrapped by ConfigError when owner or repo is absent.
var ErrMissingRequired = errors.New("missing required option")

// ConfigError reports invalid or incomplete caller configuration.
// No network call is made once a ConfigError is raised.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Msg, e.Err)
	}
	return "invalid configuration: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RemoteAPIError is returned when the GitHub API answers with anything other
// than 200 OK.
type RemoteAPIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("github api %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ExportError reports that the output file could not be created or written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
