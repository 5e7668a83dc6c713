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

// Package thrift is a thin wrapper around the apache thrift library for the
// compact protocol (de)serialization of the footer structures.
package thrift

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/thrift/lib/go/thrift"
)

var protocolFactory = thrift.NewTCompactProtocolFactoryConf(&thrift.TConfiguration{})

// DeserializeThrift decodes msg from buf and returns the number of bytes of
// buf which were not consumed.
func DeserializeThrift(msg thrift.TStruct, buf []byte) (remain uint64, err error) {
	tbuf := &thrift.TMemoryBuffer{Buffer: bytes.NewBuffer(buf)}
	err = msg.Read(context.TODO(), protocolFactory.GetProtocol(tbuf))
	remain = tbuf.RemainingBytes()
	return
}

// SerializeThriftStream writes msg directly to w.
func SerializeThriftStream(msg thrift.TStruct, w io.Writer) error {
	proto := protocolFactory.GetProtocol(thrift.NewStreamTransportW(w))
	if err := msg.Write(context.TODO(), proto); err != nil {
		return err
	}
	return proto.Flush(context.TODO())
}

// DeserializeThriftStream reads msg directly from r.
func DeserializeThriftStream(msg thrift.TStruct, r io.Reader) error {
	return msg.Read(context.TODO(), protocolFactory.GetProtocol(thrift.NewStreamTransportR(r)))
}

// ThriftSerializer is an object that can stick around to provide serialization
// of thrift structures into an in memory buffer before writing them out.
type ThriftSerializer struct {
	thrift.TSerializer
}

// NewThriftSerializer returns a serializer using the compact protocol.
func NewThriftSerializer() *ThriftSerializer {
	tbuf := thrift.NewTMemoryBufferLen(1024)
	return &ThriftSerializer{thrift.TSerializer{
		Transport: tbuf,
		Protocol:  protocolFactory.GetProtocol(tbuf),
	}}
}

// Serialize serializes msg and writes the bytes to w, returning the number of
// bytes written.
func (t *ThriftSerializer) Serialize(msg thrift.TStruct, w io.Writer) (int, error) {
	b, err := t.Write(context.Background(), msg)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}
