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

// Package format holds the thrift structures of the file footer along with
// their compact protocol serialization. Field ids follow parquet.thrift for
// the subset of fields this module uses so the footer stays recognizable to
// generic thrift tooling.
package format

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// fieldReader decodes a single field. It returns false if the field id or
// wire type is unknown so the caller can skip it.
type fieldReader func(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType) (bool, error)

func readStruct(ctx context.Context, iprot thrift.TProtocol, p interface{}, fn fieldReader) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read error: ", p), err)
	}

	for {
		_, typ, id, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field %d read error: ", p, id), err)
		}
		if typ == thrift.STOP {
			break
		}

		handled, err := fn(ctx, iprot, id, typ)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field %d read error: ", p, id), err)
		}
		if !handled {
			if err := iprot.Skip(ctx, typ); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}

	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct end error: ", p), err)
	}
	return nil
}

func missingField(p interface{}, name string) error {
	return thrift.NewTProtocolExceptionWithType(thrift.INVALID_DATA, fmt.Errorf("%T: required field %s is not set", p, name))
}

// readList reads the list header, checks the element type and calls elem for
// every element.
func readList(ctx context.Context, iprot thrift.TProtocol, want thrift.TType, elem func(i int) error) (int, error) {
	typ, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return 0, thrift.PrependError("error reading list begin: ", err)
	}
	if size < 0 {
		return 0, thrift.NewTProtocolExceptionWithType(thrift.NEGATIVE_SIZE, fmt.Errorf("negative list size %d", size))
	}
	if size > 0 && typ != want {
		return 0, thrift.NewTProtocolExceptionWithType(thrift.INVALID_DATA, fmt.Errorf("list element type %d, expected %d", typ, want))
	}
	for i := 0; i < size; i++ {
		if err := elem(i); err != nil {
			return i, err
		}
	}
	if err := iprot.ReadListEnd(ctx); err != nil {
		return size, thrift.PrependError("error reading list end: ", err)
	}
	return size, nil
}

type structWriter struct {
	ctx   context.Context
	oprot thrift.TProtocol
	err   error
}

func newStructWriter(ctx context.Context, oprot thrift.TProtocol, name string) *structWriter {
	w := &structWriter{ctx: ctx, oprot: oprot}
	if err := oprot.WriteStructBegin(ctx, name); err != nil {
		w.err = thrift.PrependError(fmt.Sprintf("%s write struct begin error: ", name), err)
	}
	return w
}

func (w *structWriter) field(name string, typ thrift.TType, id int16, body func() error) {
	if w.err != nil {
		return
	}
	if err := w.oprot.WriteFieldBegin(w.ctx, name, typ, id); err != nil {
		w.err = thrift.PrependError(fmt.Sprintf("write field begin error %d:%s: ", id, name), err)
		return
	}
	if err := body(); err != nil {
		w.err = thrift.PrependError(fmt.Sprintf("field %d (%s) write error: ", id, name), err)
		return
	}
	if err := w.oprot.WriteFieldEnd(w.ctx); err != nil {
		w.err = thrift.PrependError(fmt.Sprintf("write field end error %d:%s: ", id, name), err)
	}
}

func (w *structWriter) i16(name string, id int16, v int16) {
	w.field(name, thrift.I16, id, func() error { return w.oprot.WriteI16(w.ctx, v) })
}

func (w *structWriter) i32(name string, id int16, v int32) {
	w.field(name, thrift.I32, id, func() error { return w.oprot.WriteI32(w.ctx, v) })
}

func (w *structWriter) i64(name string, id int16, v int64) {
	w.field(name, thrift.I64, id, func() error { return w.oprot.WriteI64(w.ctx, v) })
}

func (w *structWriter) str(name string, id int16, v string) {
	w.field(name, thrift.STRING, id, func() error { return w.oprot.WriteString(w.ctx, v) })
}

func (w *structWriter) list(name string, id int16, elemType thrift.TType, n int, elem func(i int) error) {
	w.field(name, thrift.LIST, id, func() error {
		if err := w.oprot.WriteListBegin(w.ctx, elemType, n); err != nil {
			return thrift.PrependError("error writing list begin: ", err)
		}
		for i := 0; i < n; i++ {
			if err := elem(i); err != nil {
				return err
			}
		}
		if err := w.oprot.WriteListEnd(w.ctx); err != nil {
			return thrift.PrependError("error writing list end: ", err)
		}
		return nil
	})
}

func (w *structWriter) structField(name string, id int16, v thrift.TStruct) {
	w.field(name, thrift.STRUCT, id, func() error { return v.Write(w.ctx, w.oprot) })
}

func (w *structWriter) finish() error {
	if w.err != nil {
		return w.err
	}
	if err := w.oprot.WriteFieldStop(w.ctx); err != nil {
		return thrift.PrependError("write field stop error: ", err)
	}
	if err := w.oprot.WriteStructEnd(w.ctx); err != nil {
		return thrift.PrependError("write struct stop error: ", err)
	}
	return nil
}
