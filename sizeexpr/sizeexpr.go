// Copyright 2026 The vedajs Authors
// SPDX-License-Identifier: MIT

// Package sizeexpr compiles user-supplied render-target size expressions
// into pure functions of the live canvas dimensions.
//
// Expressions reference the canvas through $WIDTH and $HEIGHT, e.g.
// "$WIDTH / 2" for a half-resolution buffer. They are evaluated in a
// sandboxed numeric evaluator with no ambient access: the only names in
// scope are WIDTH and HEIGHT, and any other identifier is a compile error.
package sizeexpr

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Func computes one axis of a render-target size from the live canvas size.
// Implementations must be pure: same inputs, same output, no side effects.
type Func func(width, height float64) float64

// Width is the identity function for the horizontal axis. It is the
// fallback when a width expression fails to compile.
func Width(width, _ float64) float64 { return width }

// Height is the identity function for the vertical axis. It is the
// fallback when a height expression fails to compile.
func Height(_, height float64) float64 { return height }

func env(width, height float64) map[string]any {
	return map[string]any{
		"WIDTH":  width,
		"HEIGHT": height,
	}
}

// Compile parses src into a Func. The caller decides the fallback policy
// for a compile error; the engine falls back to the identity function for
// the affected axis rather than aborting the pipeline build.
func Compile(src string) (Func, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("sizeexpr: empty expression")
	}

	// The $-prefixed names are the user-facing spelling; the evaluator
	// sees plain identifiers.
	code := strings.ReplaceAll(src, "$WIDTH", "WIDTH")
	code = strings.ReplaceAll(code, "$HEIGHT", "HEIGHT")

	program, err := expr.Compile(code, expr.Env(env(0, 0)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("sizeexpr: compile %q: %w", src, err)
	}

	return func(width, height float64) float64 {
		out, err := runProgram(program, width, height)
		if err != nil {
			// A program that compiled can still fail at run time
			// (e.g. division by a zero-sized axis on some inputs).
			// Treat that axis as identity for this evaluation.
			return width
		}
		return out
	}, nil
}

func runProgram(program *vm.Program, width, height float64) (float64, error) {
	out, err := expr.Run(program, env(width, height))
	if err != nil {
		return 0, err
	}
	f, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("sizeexpr: non-numeric result %T", out)
	}
	return f, nil
}
