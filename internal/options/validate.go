// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/restspec/specerrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// noSourceMsg is the error message when no source is specified.
// multiSourceMsg is the error message when multiple sources are specified.
// The returned error is a *specerrors.ConfigError naming option.
func ValidateSingleInputSource(option, noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	switch {
	case sourceCount == 0:
		return &specerrors.ConfigError{Option: option, Message: noSourceMsg}
	case sourceCount > 1:
		return &specerrors.ConfigError{Option: option, Value: sourceCount, Message: multiSourceMsg}
	}
	return nil
}
