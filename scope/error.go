package scope

import (
	"errors"
	"fmt"
)

// CloseError is returned if session was stopped, but device and/or
// renderer failed to close.
type CloseError struct {
	ErrDevice   error
	ErrRenderer error
}

func (e *CloseError) Error() string {
	switch {
	case e.ErrDevice != nil && e.ErrRenderer != nil:
		return fmt.Sprintf("close renderer error: %v after close device error: %v", e.ErrRenderer, e.ErrDevice)
	case e.ErrDevice != nil:
		return fmt.Sprintf("close device error: %v", e.ErrDevice)
	case e.ErrRenderer != nil:
		return fmt.Sprintf("close renderer error: %v", e.ErrRenderer)
	}
	return ""
}

// Is checks if any of errors match provided sentinel error.
func (e *CloseError) Is(err error) bool {
	if e.ErrDevice != nil && errors.Is(e.ErrDevice, err) {
		return true
	}
	if e.ErrRenderer != nil && errors.Is(e.ErrRenderer, err) {
		return true
	}
	return false
}

// ret returns untyped nil if nothing failed.
func (e *CloseError) ret() error {
	if e.ErrDevice != nil || e.ErrRenderer != nil {
		return e
	}
	return nil
}
