// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/karnpapon/vedajs/uniform"
)

// Common errors returned by the render engine.
var (
	// ErrNoShaderSource is returned when a pass spec supplies neither a
	// fragment nor a vertex source. The build aborts and the previously
	// installed pipeline keeps running.
	ErrNoShaderSource = errors.New("render: pass spec has neither fragment nor vertex source")

	// ErrNilDevice is returned when a pipeline is built without a device.
	ErrNilDevice = errors.New("render: nil device")

	// ErrDisposed is the panic value for use of a disposed target pair.
	// Use-after-dispose is a programming error, not a runtime condition:
	// it indicates a violated engine invariant and is not recoverable.
	ErrDisposed = errors.New("render: target pair used after Dispose")
)

// BindingError reports a uniform whose table tag contradicts the tag a
// program's binding table declared for it.
type BindingError struct {
	Name     string
	Declared uniform.Type
	Bound    uniform.Type
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("render: uniform %q bound as %s but declared %s", e.Name, e.Bound, e.Declared)
}
