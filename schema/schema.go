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
	"fmt"
	"strings"

	"github.com/pqlite/parquet"
)

// Column is the descriptor of a leaf column, binding its node to its index
// in the schema.
type Column struct {
	node  *PrimitiveNode
	index int
}

// Name is the name of the leaf node.
func (c *Column) Name() string { return c.node.Name() }

// Path is the dotted path of the column from the root.
func (c *Column) Path() string { return c.node.Path() }

// ColumnPath returns the path as a parquet.ColumnPath.
func (c *Column) ColumnPath() parquet.ColumnPath { return parquet.ColumnPathFromString(c.Path()) }

// PhysicalType is the physical type tag of the column.
func (c *Column) PhysicalType() parquet.Type { return c.node.PhysicalType() }

// RepetitionType is always Required for columns of this module.
func (c *Column) RepetitionType() parquet.Repetition { return c.node.RepetitionType() }

// SchemaNode returns the leaf node of this column.
func (c *Column) SchemaNode() *PrimitiveNode { return c.node }

// Index is the position of the column in schema order.
func (c *Column) Index() int { return c.index }

// MaxDefinitionLevel is 0 as every column is required.
func (c *Column) MaxDefinitionLevel() int16 { return 0 }

// MaxRepetitionLevel is 0 as nothing is repeated.
func (c *Column) MaxRepetitionLevel() int16 { return 0 }

func (c *Column) String() string {
	return fmt.Sprintf("column descriptor = {\n  name: %s,\n  path: %s,\n  physical_type: %s,\n  max_definition_level: 0,\n  max_repetition_level: 0\n}",
		c.Name(), c.Path(), c.PhysicalType())
}

// Schema is the immutable container for the columns of a file.
type Schema struct {
	root   *GroupNode
	leaves []*Column
}

// NewSchema constructs a schema from the given root group.
func NewSchema(root *GroupNode) *Schema {
	s := &Schema{root: root, leaves: make([]*Column, root.NumFields())}
	for i := range s.leaves {
		s.leaves[i] = &Column{node: root.Field(i), index: i}
	}
	return s
}

// FromColumns validates the column definitions and builds a schema whose root
// is named parquet.DefaultRootName.
//
// It fails with ErrSchema if fields is empty or contains duplicate names.
func FromColumns(fields ...*PrimitiveNode) (*Schema, error) {
	return FromColumnsWithRoot(parquet.DefaultRootName, fields...)
}

// FromColumnsWithRoot is like FromColumns with a custom root name.
func FromColumnsWithRoot(rootName string, fields ...*PrimitiveNode) (*Schema, error) {
	root, err := NewGroupNode(rootName, parquet.Repetitions.Required, fields, -1)
	if err != nil {
		return nil, err
	}
	return NewSchema(root), nil
}

// Root returns the root group.
func (s *Schema) Root() *GroupNode { return s.root }

// Name is the name of the root node.
func (s *Schema) Name() string { return s.root.Name() }

// NumColumns returns the number of leaf columns.
func (s *Schema) NumColumns() int { return len(s.leaves) }

// Column returns the descriptor of the i'th column, it panics if i is out of
// range.
func (s *Schema) Column(i int) *Column { return s.leaves[i] }

// ColumnIndexByName returns the index of the column with the given path or
// -1 if there is none.
func (s *Schema) ColumnIndexByName(path string) int {
	return s.root.FieldIndexByName(path)
}

// Equals reports whether both schemas describe the same columns.
func (s *Schema) Equals(rhs *Schema) bool {
	return s.root.Equals(rhs.root)
}

func (s *Schema) String() string {
	var b strings.Builder
	PrintSchema(s.root, &b, 2)
	return b.String()
}
