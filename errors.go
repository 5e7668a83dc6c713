// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parquet

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

// Error kinds. Every error returned by this module matches exactly one of
// these via errors.Is.
var (
	// ErrIO reports a failure of the underlying file or sink.
	ErrIO = errors.New("io error")
	// ErrFormat reports a corrupt, truncated or foreign file.
	ErrFormat = errors.New("invalid file format")
	// ErrState reports a call made in the wrong state, such as writing to a
	// closed column writer or opening a second row group writer.
	ErrState = errors.New("invalid state")
	// ErrSchema reports an invalid schema definition.
	ErrSchema = errors.New("invalid schema")
	// ErrType reports values whose type does not match the column.
	ErrType = errors.New("type mismatch")
	// ErrOutOfRange reports a row group or column index outside the file.
	ErrOutOfRange = errors.New("index out of range")
)

// Error is the concrete error type returned by the packages of this module.
// It carries its kind, an optional underlying cause and the frame it was
// created at.
type Error struct {
	kind  error
	msg   string
	cause error
	frame xerrors.Frame
}

// NewError returns an error of the given kind with a formatted message.
func NewError(kind error, format string, a ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...), frame: xerrors.Caller(1)}
}

// WrapError is like NewError but records cause as the underlying error.
func WrapError(kind, cause error, format string, a ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...), cause: cause, frame: xerrors.Caller(1)}
}

// Kind returns one of the Err* sentinels.
func (e *Error) Kind() error { return e.kind }

func (e *Error) Error() string {
	if e.cause == nil {
		return "parquet: " + e.kind.Error() + ": " + e.msg
	}
	return "parquet: " + e.kind.Error() + ": " + e.msg + ": " + e.cause.Error()
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Format(s fmt.State, v rune) { xerrors.FormatError(e, s, v) }

func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print("parquet: " + e.kind.Error() + ": " + e.msg)
	e.frame.Format(p)
	return e.cause
}
