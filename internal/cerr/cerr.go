// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package cerr defines the error types shared by pull-go's packages.
package cerr

import "fmt"

// Error is a string error that can be declared as a constant.
type Error string

func (e Error) Error() string {
	return string(e)
}

// Panic carries a value recovered from a panic. It unwraps to Kind so callers
// can test for it with errors.Is.
type Panic struct {
	Kind  Error
	Value any
}

func (e Panic) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Value)
}

func (e Panic) Unwrap() error {
	return e.Kind
}
