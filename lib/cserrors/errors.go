// Package cserrors provides error handling and logging utilities for credscan.
package cserrors

import (
	"fmt"

	"github.com/unclesp1d3r/credscan/scanstate"
)

// LogAndWrap logs message with err to the error logger and returns err wrapped with message.
// A nil err is returned unchanged.
func LogAndWrap(message string, err error) error {
	if err == nil {
		return nil
	}

	scanstate.ErrorLogger.Error(message, "error", err)

	return fmt.Errorf("%s: %w", message, err)
}
