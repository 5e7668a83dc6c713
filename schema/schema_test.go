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

package schema_test

import (
	"strings"
	"testing"

	"github.com/pqlite/parquet"
	format "github.com/pqlite/parquet/internal/format"
	"github.com/pqlite/parquet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestColumnPath(t *testing.T) {
	p := parquet.ColumnPath([]string{"toplevel", "leaf"})
	assert.Equal(t, "toplevel.leaf", p.String())

	p2 := parquet.ColumnPathFromString("toplevel.leaf")
	assert.Equal(t, "toplevel.leaf", p2.String())

	extend := p2.Extend("anotherlevel")
	assert.Equal(t, "toplevel.leaf.anotherlevel", extend.String())
	assert.Equal(t, "toplevel.leaf", p2.String())
}

func TestSchemaNodes(t *testing.T) {
	suite.Run(t, new(PrimitiveNodeTestSuite))
	suite.Run(t, new(SchemaBuilderSuite))
}

type PrimitiveNodeTestSuite struct {
	suite.Suite
}

func (p *PrimitiveNodeTestSuite) TestAttrs() {
	node, err := schema.NewColumn("b", parquet.Types.Int32, parquet.Repetitions.Required)
	p.Require().NoError(err)

	p.Equal("b", node.Name())
	p.Equal(schema.Primitive, node.Type())
	p.Equal(parquet.Types.Int32, node.PhysicalType())
	p.Equal(parquet.Repetitions.Required, node.RepetitionType())
	p.EqualValues(-1, node.FieldID())
	p.Nil(node.Parent())
	p.Equal("b", node.Path())
}

func (p *PrimitiveNodeTestSuite) TestRejectsUnsupported() {
	_, err := schema.NewColumn("", parquet.Types.Int32, parquet.Repetitions.Required)
	p.ErrorIs(err, parquet.ErrSchema)

	_, err = schema.NewColumn("f", parquet.Types.Double, parquet.Repetitions.Required)
	p.ErrorIs(err, parquet.ErrSchema)

	_, err = schema.NewColumn("o", parquet.Types.Int32, parquet.Repetitions.Optional)
	p.ErrorIs(err, parquet.ErrSchema)

	_, err = schema.NewColumn("r", parquet.Types.Int32, parquet.Repetitions.Repeated)
	p.ErrorIs(err, parquet.ErrSchema)
}

func (p *PrimitiveNodeTestSuite) TestEquals() {
	a := schema.MustPrimitive(schema.NewPrimitiveNode("a", parquet.Repetitions.Required, parquet.Types.Int32, 1))
	b := schema.MustPrimitive(schema.NewPrimitiveNode("a", parquet.Repetitions.Required, parquet.Types.Int32, 1))
	c := schema.MustPrimitive(schema.NewPrimitiveNode("a", parquet.Repetitions.Required, parquet.Types.Int32, 2))
	p.True(a.Equals(b))
	p.False(a.Equals(c))
}

type SchemaBuilderSuite struct {
	suite.Suite
}

func (s *SchemaBuilderSuite) TestBuild() {
	a := schema.MustPrimitive(schema.NewColumn("a", parquet.Types.Int32, parquet.Repetitions.Required))
	b := schema.MustPrimitive(schema.NewColumn("b", parquet.Types.Int32, parquet.Repetitions.Required))

	sc, err := schema.FromColumns(a, b)
	s.Require().NoError(err)
	s.Equal(parquet.DefaultRootName, sc.Name())
	s.Equal(2, sc.NumColumns())

	for i, name := range []string{"a", "b"} {
		col := sc.Column(i)
		s.Equal(name, col.Name())
		s.Equal(name, col.Path())
		s.Equal(i, col.Index())
		s.Equal(parquet.Types.Int32, col.PhysicalType())
		s.Zero(col.MaxDefinitionLevel())
		s.Zero(col.MaxRepetitionLevel())
		s.Same(sc.Root(), col.SchemaNode().Parent())
		s.Equal(i, sc.ColumnIndexByName(name))
	}
	s.Equal(-1, sc.ColumnIndexByName("c"))

	// attaching copies the nodes, the originals stay detached
	s.Nil(a.Parent())
}

func (s *SchemaBuilderSuite) TestEmpty() {
	_, err := schema.FromColumns()
	s.ErrorIs(err, parquet.ErrSchema)
}

func (s *SchemaBuilderSuite) TestDuplicateNames() {
	a := schema.MustPrimitive(schema.NewColumn("a", parquet.Types.Int32, parquet.Repetitions.Required))
	_, err := schema.FromColumns(a, a)
	s.ErrorIs(err, parquet.ErrSchema)
	s.Contains(err.Error(), "duplicate")
}

func (s *SchemaBuilderSuite) TestOptionalRoot() {
	a := schema.MustPrimitive(schema.NewColumn("a", parquet.Types.Int32, parquet.Repetitions.Required))
	_, err := schema.NewGroupNode("root", parquet.Repetitions.Optional, []*schema.PrimitiveNode{a}, -1)
	s.ErrorIs(err, parquet.ErrSchema)
}

func TestParseMessageType(t *testing.T) {
	sc, err := schema.ParseMessageType(`
  message schema {
    REQUIRED INT32 b;
  }
`)
	require.NoError(t, err)
	assert.Equal(t, "schema", sc.Name())
	require.Equal(t, 1, sc.NumColumns())
	assert.Equal(t, "b", sc.Column(0).Name())
	assert.Equal(t, parquet.Types.Int32, sc.Column(0).PhysicalType())
}

func TestParseMessageTypeFieldIDs(t *testing.T) {
	sc, err := schema.ParseMessageType("message m { required int32 a = 1; REQUIRED INT32 b=2; }")
	require.NoError(t, err)
	assert.EqualValues(t, 1, sc.Column(0).SchemaNode().FieldID())
	assert.EqualValues(t, 2, sc.Column(1).SchemaNode().FieldID())
}

func TestParseMessageTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no message", "schema { REQUIRED INT32 b; }"},
		{"no columns", "message schema { }"},
		{"unterminated", "message schema { REQUIRED INT32 b;"},
		{"missing semicolon", "message schema { REQUIRED INT32 b }"},
		{"optional", "message schema { OPTIONAL INT32 b; }"},
		{"unsupported type", "message schema { REQUIRED BINARY b; }"},
		{"unknown type", "message schema { REQUIRED INT33 b; }"},
		{"group", "message schema { REQUIRED group g { REQUIRED INT32 b; } }"},
		{"annotation", "message schema { REQUIRED INT32 b (INTEGER(32,true)); }"},
		{"bad field id", "message schema { REQUIRED INT32 b = x; }"},
		{"trailing", "message schema { REQUIRED INT32 b; } extra"},
		{"duplicate", "message schema { REQUIRED INT32 b; REQUIRED INT32 b; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.ParseMessageType(tt.text)
			assert.ErrorIs(t, err, parquet.ErrSchema)
		})
	}
}

func TestPrintSchemaRoundTrip(t *testing.T) {
	sc, err := schema.ParseMessageType("message root { REQUIRED INT32 a; REQUIRED INT32 b = 7; }")
	require.NoError(t, err)

	var out strings.Builder
	schema.PrintSchema(sc.Root(), &out, 2)
	assert.Equal(t, "message root {\n  required int32 a;\n  required int32 b = 7;\n}\n", out.String())

	reparsed, err := schema.ParseMessageType(out.String())
	require.NoError(t, err)
	assert.True(t, sc.Equals(reparsed))
}

func TestThriftConversion(t *testing.T) {
	sc, err := schema.ParseMessageType("message root { REQUIRED INT32 a; REQUIRED INT32 b = 3; }")
	require.NoError(t, err)

	elems := schema.ToThrift(sc)
	require.Len(t, elems, 3)
	assert.Equal(t, "root", elems[0].Name)
	assert.EqualValues(t, 2, elems[0].GetNumChildren())
	assert.False(t, elems[0].IsSetType())
	assert.Equal(t, format.Type_INT32, elems[1].GetType())
	assert.False(t, elems[1].IsSetFieldID())
	assert.EqualValues(t, 3, elems[2].GetFieldID())

	back, err := schema.FromThrift(elems)
	require.NoError(t, err)
	assert.True(t, sc.Equals(back))
}

func TestFromThriftMalformed(t *testing.T) {
	nchildren := int32(2)
	one := int32(1)

	tests := []struct {
		name  string
		elems []*format.SchemaElement
	}{
		{"empty", nil},
		{"root is primitive", []*format.SchemaElement{{Name: "r", Type: format.TypePtr(format.Type_INT32)}}},
		{"child count", []*format.SchemaElement{
			{Name: "r", NumChildren: &nchildren},
			{Name: "a", Type: format.TypePtr(format.Type_INT32)},
		}},
		{"nested", []*format.SchemaElement{
			{Name: "r", NumChildren: &one},
			{Name: "g", NumChildren: &one},
		}},
		{"foreign type", []*format.SchemaElement{
			{Name: "r", NumChildren: &one},
			{Name: "a", Type: format.TypePtr(format.Type_BYTE_ARRAY)},
		}},
		{"optional", []*format.SchemaElement{
			{Name: "r", NumChildren: &one},
			{Name: "a", Type: format.TypePtr(format.Type_INT32), RepetitionType: format.FieldRepetitionTypePtr(format.FieldRepetitionType_OPTIONAL)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.FromThrift(tt.elems)
			assert.ErrorIs(t, err, parquet.ErrFormat)
		})
	}
}
