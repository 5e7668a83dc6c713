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
	"github.com/pqlite/parquet"
	format "github.com/pqlite/parquet/internal/format"
)

func fieldIDPtr(id int32) *int32 {
	if id < 0 {
		return nil
	}
	return &id
}

// ToThrift flattens the schema into thrift schema elements, root first.
func ToThrift(s *Schema) []*format.SchemaElement {
	root := s.Root()
	nchildren := int32(root.NumFields())
	elems := make([]*format.SchemaElement, 0, root.NumFields()+1)
	elems = append(elems, &format.SchemaElement{
		Name:           root.Name(),
		RepetitionType: format.FieldRepetitionTypePtr(format.FieldRepetitionType(root.RepetitionType())),
		NumChildren:    &nchildren,
		FieldID:        fieldIDPtr(root.FieldID()),
	})
	for i := 0; i < root.NumFields(); i++ {
		f := root.Field(i)
		elems = append(elems, &format.SchemaElement{
			Name:           f.Name(),
			Type:           format.TypePtr(format.Type(f.PhysicalType())),
			RepetitionType: format.FieldRepetitionTypePtr(format.FieldRepetitionType(f.RepetitionType())),
			FieldID:        fieldIDPtr(f.FieldID()),
		})
	}
	return elems
}

func fieldIDFromThrift(elem *format.SchemaElement) int32 {
	if elem.IsSetFieldID() {
		return elem.GetFieldID()
	}
	return -1
}

// FromThrift rebuilds a schema from flattened thrift elements as read from a
// footer. Anything this module could not have written is reported as
// ErrFormat.
func FromThrift(elems []*format.SchemaElement) (*Schema, error) {
	if len(elems) == 0 {
		return nil, parquet.NewError(parquet.ErrFormat, "footer schema is empty")
	}

	rootElem := elems[0]
	if rootElem.IsSetType() || !rootElem.IsSetNumChildren() {
		return nil, parquet.NewError(parquet.ErrFormat, "first schema element %q is not a group", rootElem.Name)
	}
	if int(rootElem.GetNumChildren()) != len(elems)-1 {
		return nil, parquet.NewError(parquet.ErrFormat, "root declares %d children but footer holds %d schema elements", rootElem.GetNumChildren(), len(elems)-1)
	}

	fields := make([]*PrimitiveNode, 0, len(elems)-1)
	for _, elem := range elems[1:] {
		if elem.IsSetNumChildren() || !elem.IsSetType() {
			return nil, parquet.NewError(parquet.ErrFormat, "schema element %q: nested groups are not supported", elem.Name)
		}
		node, err := NewPrimitiveNode(elem.Name, parquet.Repetition(elem.GetRepetitionType()), parquet.Type(elem.GetType()), fieldIDFromThrift(elem))
		if err != nil {
			return nil, parquet.WrapError(parquet.ErrFormat, err, "invalid schema element %q", elem.Name)
		}
		fields = append(fields, node)
	}

	root, err := NewGroupNode(rootElem.Name, parquet.Repetition(rootElem.GetRepetitionType()), fields, fieldIDFromThrift(rootElem))
	if err != nil {
		return nil, parquet.WrapError(parquet.ErrFormat, err, "invalid footer schema")
	}
	return NewSchema(root), nil
}
