// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reporter carries the position-tagged diagnostics produced by the
// scan, qbf, expansion, and checker packages: warnings that are logged and
// swallowed, and fatal errors that unwind the parse.
package reporter

import (
	"errors"
	"fmt"

	"github.com/ferat-verify/ferat/scan"
)

// ErrorWithPos is an error about an input file that adds information about
// the location in the file that caused it.
type ErrorWithPos interface {
	error
	// Position returns the source position that caused the underlying error.
	Position() scan.Position
	// Unwrap returns the underlying error.
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source position.
func Error(pos scan.Position, err error) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using
// the given message format and arguments (via fmt.Errorf).
func Errorf(pos scan.Position, format string, args ...interface{}) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	underlying error
	pos        scan.Position
}

func (e errorWithPos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

func (e errorWithPos) Position() scan.Position {
	return e.pos
}

func (e errorWithPos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithPos{}

// Kind classifies a fatal error per the module's error taxonomy, used by
// the CLI to choose a process exit code without re-deriving it from error
// text.
type Kind int

const (
	// KindIO covers stream open/read failures.
	KindIO Kind = iota
	// KindSyntax covers lexical/syntactic failures: unexpected byte, missing
	// 0, wrong keyword, duplicate p line, negative where unsigned required.
	KindSyntax
	// KindOriginBounds covers a c o entry that addresses a QBF matrix index
	// out of range.
	KindOriginBounds
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSyntax:
		return "syntax"
	case KindOriginBounds:
		return "origin-bounds"
	default:
		return "unknown"
	}
}

// FatalError is an ErrorWithPos additionally tagged with a Kind, letting a
// driver or CLI map it to the right exit code.
type FatalError struct {
	errorWithPos
	kind Kind
}

// Kind reports which taxonomy class this fatal error belongs to.
func (e *FatalError) Kind() Kind { return e.kind }

// Fatal wraps err with position and taxonomy information.
func Fatal(kind Kind, pos scan.Position, err error) *FatalError {
	return &FatalError{errorWithPos: errorWithPos{pos: pos, underlying: err}, kind: kind}
}

// Fatalf is like Fatal but builds the underlying error via fmt.Errorf.
func Fatalf(kind Kind, pos scan.Position, format string, args ...interface{}) *FatalError {
	return Fatal(kind, pos, fmt.Errorf(format, args...))
}

var _ ErrorWithPos = (*FatalError)(nil)

// Sentinel errors for structural taxonomy classes that are always fatal
// regardless of where they are detected.
var (
	ErrDuplicateProblemLine = errors.New("duplicate p line")
	ErrOriginOutOfBounds    = errors.New("c o entry addresses a QBF matrix clause index out of range")
	ErrMappingListLength    = errors.New("c x expansion-variable and qbf-variable lists have different lengths")
)
