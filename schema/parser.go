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

package schema

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/pqlite/parquet"
)

var physicalTypeNames = map[string]parquet.Type{
	"BOOLEAN":              parquet.Types.Boolean,
	"INT32":                parquet.Types.Int32,
	"INT64":                parquet.Types.Int64,
	"INT96":                parquet.Types.Int96,
	"FLOAT":                parquet.Types.Float,
	"DOUBLE":               parquet.Types.Double,
	"BINARY":               parquet.Types.ByteArray,
	"FIXED_LEN_BYTE_ARRAY": parquet.Types.FixedLenByteArray,
}

var repetitionNames = map[string]parquet.Repetition{
	"REQUIRED": parquet.Repetitions.Required,
	"OPTIONAL": parquet.Repetitions.Optional,
	"REPEATED": parquet.Repetitions.Repeated,
}

type messageDef struct {
	Keyword string      `@Ident`
	Name    string      `@Ident "{"`
	Fields  []*fieldDef `@@* "}"`
}

type fieldDef struct {
	Repetition string  `@Ident`
	Type       string  `@Ident`
	Name       string  `@Ident`
	FieldID    *string `( "=" @Int )? ";"`
}

var messageParser = participle.MustBuild[messageDef]()

func (f *fieldDef) node() (*PrimitiveNode, error) {
	repetition, ok := repetitionNames[strings.ToUpper(f.Repetition)]
	if !ok {
		return nil, parquet.NewError(parquet.ErrSchema, "unknown repetition %q", f.Repetition)
	}
	typ, ok := physicalTypeNames[strings.ToUpper(f.Type)]
	if !ok {
		return nil, parquet.NewError(parquet.ErrSchema, "unknown physical type %q", f.Type)
	}

	fieldID := int32(-1)
	if f.FieldID != nil {
		id, err := strconv.ParseInt(*f.FieldID, 10, 32)
		if err != nil {
			return nil, parquet.WrapError(parquet.ErrSchema, err, "column %q: invalid field id", f.Name)
		}
		fieldID = int32(id)
	}

	return NewPrimitiveNode(f.Name, repetition, typ, fieldID)
}

// ParseMessageType parses a schema written in the message type syntax:
//
//	message schema {
//	  REQUIRED INT32 b;
//	}
//
// Keywords are case insensitive and a column may carry a field id as
// "REQUIRED INT32 b = 1;". Nested groups and logical type annotations are
// rejected. Any error is of kind ErrSchema.
func ParseMessageType(text string) (*Schema, error) {
	msg, err := messageParser.ParseString("", text)
	if err != nil {
		return nil, parquet.WrapError(parquet.ErrSchema, err, "invalid message type")
	}
	if !strings.EqualFold(msg.Keyword, "message") {
		return nil, parquet.NewError(parquet.ErrSchema, "schema must start with \"message\", found %q", msg.Keyword)
	}

	fields := make([]*PrimitiveNode, len(msg.Fields))
	for i, f := range msg.Fields {
		if fields[i], err = f.node(); err != nil {
			return nil, err
		}
	}
	return FromColumnsWithRoot(msg.Name, fields...)
}
