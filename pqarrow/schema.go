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

package pqarrow

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/schema"
)

const fieldIDKey = "PARQUET:field_id"

func fieldIDFromMeta(m arrow.Metadata) int32 {
	if m.Len() == 0 {
		return -1
	}

	key := m.FindKey(fieldIDKey)
	if key < 0 {
		return -1
	}

	id, err := strconv.ParseInt(m.Values()[key], 10, 32)
	if err != nil || id < 0 {
		return -1
	}
	return int32(id)
}

func createFieldMeta(fieldID int32) arrow.Metadata {
	return arrow.NewMetadata([]string{fieldIDKey}, []string{strconv.Itoa(int(fieldID))})
}

func fieldToNode(field arrow.Field) (*schema.PrimitiveNode, error) {
	if field.Nullable {
		return nil, parquet.NewError(parquet.ErrSchema, "field %q: nullable fields are not supported", field.Name)
	}
	if field.Type.ID() != arrow.INT32 {
		return nil, parquet.NewError(parquet.ErrSchema, "field %q: arrow type %s has no physical type mapping", field.Name, field.Type)
	}
	return schema.NewPrimitiveNode(field.Name, parquet.Repetitions.Required, parquet.Types.Int32, fieldIDFromMeta(field.Metadata))
}

// ToParquet generates a Parquet Schema from an arrow Schema. Only non-nullable
// int32 fields can be converted, anything else fails with ErrSchema. The root
// is named after props.RootName.
func ToParquet(sc *arrow.Schema, props *parquet.WriterProperties) (*schema.Schema, error) {
	if props == nil {
		props = parquet.NewWriterProperties()
	}

	nodes := make([]*schema.PrimitiveNode, 0, sc.NumFields())
	for _, f := range sc.Fields() {
		n, err := fieldToNode(f)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}

	return schema.FromColumnsWithRoot(props.RootName(), nodes...)
}

func arrowType(physical parquet.Type) (arrow.DataType, error) {
	switch physical {
	case parquet.Types.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	default:
		return nil, parquet.NewError(parquet.ErrType, "physical type %s has no arrow mapping", physical)
	}
}

// FromParquet builds the arrow schema of a parquet schema, every column
// becomes a non-nullable field. Field ids are kept in the field metadata.
func FromParquet(sc *schema.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, sc.NumColumns())
	for i := range fields {
		col := sc.Column(i)
		typ, err := arrowType(col.PhysicalType())
		if err != nil {
			return nil, err
		}

		fields[i] = arrow.Field{Name: col.Name(), Type: typ, Nullable: false}
		if id := col.SchemaNode().FieldID(); id >= 0 {
			fields[i].Metadata = createFieldMeta(id)
		}
	}
	return arrow.NewSchema(fields, nil), nil
}
