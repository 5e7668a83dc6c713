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

// Package encoding contains the plain encoder and decoder for column values
// together with the in-memory buffer they write into.
package encoding

import (
	"encoding/binary"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/endian"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pqlite/parquet"
)

// PlainInt32Encoder encodes int32 values as 4 byte little endian integers
// with no padding between values.
type PlainInt32Encoder struct {
	sink    *BufferWriter
	scratch []byte
	nvals   int64
}

// NewPlainInt32Encoder returns an encoder whose buffer is allocated from mem.
func NewPlainInt32Encoder(mem memory.Allocator) *PlainInt32Encoder {
	return &PlainInt32Encoder{sink: NewBufferWriter(0, mem)}
}

// Type returns the physical type handled by this encoder.
func (*PlainInt32Encoder) Type() parquet.Type { return parquet.Types.Int32 }

// Encoding returns the encoding produced.
func (*PlainInt32Encoder) Encoding() parquet.Encoding { return parquet.Encodings.Plain }

// Put appends the values to the encoded buffer.
func (enc *PlainInt32Encoder) Put(in []int32) {
	if len(in) == 0 {
		return
	}
	enc.nvals += int64(len(in))

	if !endian.IsBigEndian {
		enc.sink.Write(arrow.Int32Traits.CastToBytes(in))
		return
	}

	nbytes := arrow.Int32Traits.BytesRequired(len(in))
	if cap(enc.scratch) < nbytes {
		enc.scratch = make([]byte, nbytes)
	}
	out := enc.scratch[:nbytes]
	for i, v := range in {
		binary.LittleEndian.PutUint32(out[i*parquet.Int32SizeBytes:], uint32(v))
	}
	enc.sink.Write(out)
}

// NumValues returns the number of values put since the last flush.
func (enc *PlainInt32Encoder) NumValues() int64 { return enc.nvals }

// EstimatedDataEncodedSize returns the number of bytes currently buffered.
func (enc *PlainInt32Encoder) EstimatedDataEncodedSize() int64 { return int64(enc.sink.Len()) }

// FlushValues returns the encoded bytes and resets the encoder. The caller
// must release the returned buffer.
func (enc *PlainInt32Encoder) FlushValues() *memory.Buffer {
	enc.nvals = 0
	return enc.sink.Finish()
}

// Release frees any buffered data.
func (enc *PlainInt32Encoder) Release() {
	enc.nvals = 0
	enc.sink.Release()
}

// PlainInt32Decoder decodes plain encoded int32 values from a byte slice.
type PlainInt32Decoder struct {
	data  []byte
	nvals int
}

// Type returns the physical type handled by this decoder.
func (*PlainInt32Decoder) Type() parquet.Type { return parquet.Types.Int32 }

// SetData sets the bytes to decode nvals values from.
func (dec *PlainInt32Decoder) SetData(nvals int, data []byte) error {
	if nvals < 0 {
		return parquet.NewError(parquet.ErrFormat, "negative value count %d", nvals)
	}
	if len(data) < arrow.Int32Traits.BytesRequired(nvals) {
		return parquet.NewError(parquet.ErrFormat, "not enough data to decode %d int32 values, only %d bytes", nvals, len(data))
	}
	dec.data = data
	dec.nvals = nvals
	return nil
}

// ValuesLeft returns the number of values which have not been decoded yet.
func (dec *PlainInt32Decoder) ValuesLeft() int { return dec.nvals }

// Decode fills out with up to len(out) values, returning how many were decoded.
func (dec *PlainInt32Decoder) Decode(out []int32) (int, error) {
	n := len(out)
	if n > dec.nvals {
		n = dec.nvals
	}
	nbytes := arrow.Int32Traits.BytesRequired(n)
	if len(dec.data) < nbytes {
		return 0, parquet.NewError(parquet.ErrFormat, "not enough data to decode %d int32 values", n)
	}

	if !endian.IsBigEndian {
		copy(out, arrow.Int32Traits.CastFromBytes(dec.data[:nbytes]))
	} else {
		for i := 0; i < n; i++ {
			out[i] = int32(binary.LittleEndian.Uint32(dec.data[i*parquet.Int32SizeBytes:]))
		}
	}

	dec.data = dec.data[nbytes:]
	dec.nvals -= n
	return n, nil
}

// Discard skips up to n values, returning how many were skipped.
func (dec *PlainInt32Decoder) Discard(n int) (int, error) {
	if n > dec.nvals {
		n = dec.nvals
	}
	nbytes := arrow.Int32Traits.BytesRequired(n)
	if len(dec.data) < nbytes {
		return 0, parquet.NewError(parquet.ErrFormat, "not enough data to skip %d int32 values", n)
	}
	dec.data = dec.data[nbytes:]
	dec.nvals -= n
	return n, nil
}
