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
	"io"
	"strings"

	format "github.com/pqlite/parquet/internal/format"
)

const (
	// Int32SizeBytes is the number of bytes a plain encoded INT32 occupies.
	Int32SizeBytes = 4
)

// ReaderAtSeeker is the source interface required by the file reader: random
// access reads, sequential reads, and the ability to determine the total size.
type ReaderAtSeeker interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// Type is the physical type tag of a column as stored in the footer.
type Type format.Type

func (t Type) String() string { return format.Type(t).String() }

// ByteSize returns the width of a single plain encoded value, or -1 for
// types which are not fixed width.
func (t Type) ByteSize() int {
	switch t {
	case Types.Int32, Types.Float:
		return 4
	case Types.Int64, Types.Double:
		return 8
	case Types.Int96:
		return 12
	}
	return -1
}

var (
	// Types is the enumeration of physical type tags. Only Int32 can be
	// written or read, the rest exist so that foreign files produce a
	// sensible error instead of an unknown tag.
	Types = struct {
		Boolean           Type
		Int32             Type
		Int64             Type
		Int96             Type
		Float             Type
		Double            Type
		ByteArray         Type
		FixedLenByteArray Type
		// this only exists as a convenience so we can denote it when necessary
		// nearly all functions that take a parquet.Type will error/panic if given
		// Undefined
		Undefined Type
	}{
		Boolean:           Type(format.Type_BOOLEAN),
		Int32:             Type(format.Type_INT32),
		Int64:             Type(format.Type_INT64),
		Int96:             Type(format.Type_INT96),
		Float:             Type(format.Type_FLOAT),
		Double:            Type(format.Type_DOUBLE),
		ByteArray:         Type(format.Type_BYTE_ARRAY),
		FixedLenByteArray: Type(format.Type_FIXED_LEN_BYTE_ARRAY),
		Undefined:         Type(format.Type_FIXED_LEN_BYTE_ARRAY + 1),
	}

	// Repetitions is the enumeration of field repetition types.
	Repetitions = struct {
		Required  Repetition
		Optional  Repetition
		Repeated  Repetition
		Undefined Repetition
	}{
		Required:  Repetition(format.FieldRepetitionType_REQUIRED),
		Optional:  Repetition(format.FieldRepetitionType_OPTIONAL),
		Repeated:  Repetition(format.FieldRepetitionType_REPEATED),
		Undefined: Repetition(format.FieldRepetitionType_REPEATED + 1),
	}

	// Encodings lists the value encodings. Plain is the only one produced.
	Encodings = struct {
		Plain Encoding
	}{
		Plain: Encoding(format.Encoding_PLAIN),
	}
)

// Repetition is the field repetition type of a schema node.
type Repetition format.FieldRepetitionType

func (r Repetition) String() string {
	return strings.ToLower(format.FieldRepetitionType(r).String())
}

// Encoding is the value encoding used for a column chunk.
type Encoding format.Encoding

func (e Encoding) String() string { return format.Encoding(e).String() }

// ColumnPath is the path from the root of the schema to a given column.
type ColumnPath []string

// ColumnPathFromString splits a dotted path into a ColumnPath.
func ColumnPathFromString(s string) ColumnPath {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func (c ColumnPath) String() string {
	if c == nil {
		return ""
	}
	return strings.Join(c, ".")
}

// Extend returns a new path with the given element appended.
func (c ColumnPath) Extend(s string) ColumnPath {
	p := make([]string, len(c), len(c)+1)
	copy(p, c)
	return append(p, s)
}
