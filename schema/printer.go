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
	"io"
	"strings"
)

type schemaPrinter struct {
	w           io.Writer
	indent      int
	indentWidth int
}

func (s *schemaPrinter) printIndent() {
	fmt.Fprint(s.w, strings.Repeat(" ", s.indent))
}

func (s *schemaPrinter) visitPrimitive(p *PrimitiveNode) {
	s.printIndent()
	fmt.Fprintf(s.w, "%s %s %s", p.RepetitionType(), strings.ToLower(p.PhysicalType().String()), p.Name())
	if p.FieldID() >= 0 {
		fmt.Fprintf(s.w, " = %d", p.FieldID())
	}
	fmt.Fprintln(s.w, ";")
}

func (s *schemaPrinter) visitGroup(g *GroupNode) {
	s.printIndent()
	fmt.Fprintf(s.w, "message %s {\n", g.Name())
	s.indent += s.indentWidth
	for i := 0; i < g.NumFields(); i++ {
		s.visitPrimitive(g.Field(i))
	}
	s.indent -= s.indentWidth
	s.printIndent()
	fmt.Fprintln(s.w, "}")
}

// PrintSchema writes a string representation of the tree starting at node
// to w, using the message type syntax accepted by ParseMessageType.
func PrintSchema(n Node, w io.Writer, indentWidth int) {
	p := &schemaPrinter{w: w, indentWidth: indentWidth}
	switch n := n.(type) {
	case *GroupNode:
		p.visitGroup(n)
	case *PrimitiveNode:
		p.visitPrimitive(n)
	}
}
