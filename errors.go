package event_fetcher

import (
	"errors"
	"fmt"
)

var (
	ErrNoEntries      = errors.New("no entries")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrUnknownLevel   = errors.New("unknown log level")
	ErrNotInteractive = errors.New("no prompter configured for interactive mode")
)

// A ConfigurationError is fatal: the run is aborted before any entry is processed.
type ConfigurationError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether any error in err's chain is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cerr *ConfigurationError
	return errors.As(err, &cerr)
}
