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

// Package schema provides the column descriptors and the schema handle of a
// file. A schema is a required root group whose children are the columns, in
// order. Only required INT32 columns can be described.
//
// Schemas are immutable: nodes are copied when they are attached to a group
// and nothing exposes a way to modify them afterwards.
package schema

import (
	"github.com/pqlite/parquet"
)

// NodeType describes whether a Node is a primitive leaf or a group.
type NodeType int

const (
	Primitive NodeType = iota
	Group
)

// Node is the common interface of schema nodes.
type Node interface {
	Name() string
	Type() NodeType
	RepetitionType() parquet.Repetition
	FieldID() int32
	Parent() Node
	Path() string
}

type node struct {
	name       string
	repetition parquet.Repetition
	fieldID    int32
	parent     Node
}

func (n *node) Name() string                       { return n.name }
func (n *node) RepetitionType() parquet.Repetition { return n.repetition }
func (n *node) FieldID() int32                     { return n.fieldID }
func (n *node) Parent() Node                       { return n.parent }

func (n *node) path(self string) string {
	// the root is not part of a column path
	if n.parent == nil || n.parent.Parent() == nil {
		return self
	}
	return n.parent.Path() + "." + self
}

// PrimitiveNode is a leaf column definition.
type PrimitiveNode struct {
	node
	physicalType parquet.Type
}

func supportedType(t parquet.Type) bool { return t == parquet.Types.Int32 }

// NewPrimitiveNode constructs a leaf node. A fieldID of -1 means no id. Only
// required INT32 nodes are supported, anything else fails with ErrSchema.
func NewPrimitiveNode(name string, repetition parquet.Repetition, typ parquet.Type, fieldID int32) (*PrimitiveNode, error) {
	if name == "" {
		return nil, parquet.NewError(parquet.ErrSchema, "column name must not be empty")
	}
	if !supportedType(typ) {
		return nil, parquet.NewError(parquet.ErrSchema, "column %q: unsupported physical type %s", name, typ)
	}
	if repetition != parquet.Repetitions.Required {
		return nil, parquet.NewError(parquet.ErrSchema, "column %q: only required columns are supported, got %s", name, repetition)
	}
	return &PrimitiveNode{
		node:         node{name: name, repetition: repetition, fieldID: fieldID},
		physicalType: typ,
	}, nil
}

// NewColumn is a shorthand for NewPrimitiveNode without a field id.
func NewColumn(name string, typ parquet.Type, repetition parquet.Repetition) (*PrimitiveNode, error) {
	return NewPrimitiveNode(name, repetition, typ, -1)
}

// MustPrimitive panics if err is not nil, otherwise returns n.
func MustPrimitive(n *PrimitiveNode, err error) *PrimitiveNode {
	if err != nil {
		panic(err)
	}
	return n
}

func (p *PrimitiveNode) Type() NodeType { return Primitive }

// PhysicalType returns the physical type tag of the column.
func (p *PrimitiveNode) PhysicalType() parquet.Type { return p.physicalType }

// Path returns the dotted path from the root, excluding the root itself.
func (p *PrimitiveNode) Path() string { return p.path(p.name) }

// Equals reports whether the two nodes describe the same column.
func (p *PrimitiveNode) Equals(rhs *PrimitiveNode) bool {
	return p.name == rhs.name && p.repetition == rhs.repetition &&
		p.fieldID == rhs.fieldID && p.physicalType == rhs.physicalType
}

func (p *PrimitiveNode) clone() *PrimitiveNode {
	out := *p
	out.parent = nil
	return &out
}

// GroupNode is the root of a schema.
type GroupNode struct {
	node
	fields    []*PrimitiveNode
	nameToIdx map[string]int
}

// NewGroupNode constructs a required group holding fields, in order. It
// fails with ErrSchema if fields is empty or two fields share a name.
func NewGroupNode(name string, repetition parquet.Repetition, fields []*PrimitiveNode, fieldID int32) (*GroupNode, error) {
	if repetition != parquet.Repetitions.Required {
		return nil, parquet.NewError(parquet.ErrSchema, "group %q: only required groups are supported, got %s", name, repetition)
	}
	if len(fields) == 0 {
		return nil, parquet.NewError(parquet.ErrSchema, "group %q: a schema needs at least one column", name)
	}

	grp := &GroupNode{
		node:      node{name: name, repetition: repetition, fieldID: fieldID},
		fields:    make([]*PrimitiveNode, len(fields)),
		nameToIdx: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f == nil {
			return nil, parquet.NewError(parquet.ErrSchema, "group %q: field %d is nil", name, i)
		}
		if _, dup := grp.nameToIdx[f.Name()]; dup {
			return nil, parquet.NewError(parquet.ErrSchema, "group %q: duplicate column name %q", name, f.Name())
		}
		grp.nameToIdx[f.Name()] = i
		grp.fields[i] = f.clone()
		grp.fields[i].parent = grp
	}
	return grp, nil
}

// MustGroup panics if err is not nil, otherwise returns n.
func MustGroup(n *GroupNode, err error) *GroupNode {
	if err != nil {
		panic(err)
	}
	return n
}

func (g *GroupNode) Type() NodeType { return Group }

// Path of a group is its name.
func (g *GroupNode) Path() string { return g.path(g.name) }

// NumFields returns the number of direct children.
func (g *GroupNode) NumFields() int { return len(g.fields) }

// Field returns the i'th child.
func (g *GroupNode) Field(i int) *PrimitiveNode { return g.fields[i] }

// FieldIndexByName returns the index of the child with the given name or -1.
func (g *GroupNode) FieldIndexByName(name string) int {
	if idx, ok := g.nameToIdx[name]; ok {
		return idx
	}
	return -1
}

// Equals reports whether both groups have the same name and fields.
func (g *GroupNode) Equals(rhs *GroupNode) bool {
	if g.name != rhs.name || g.repetition != rhs.repetition || g.fieldID != rhs.fieldID || len(g.fields) != len(rhs.fields) {
		return false
	}
	for i := range g.fields {
		if !g.fields[i].Equals(rhs.fields[i]) {
			return false
		}
	}
	return true
}
