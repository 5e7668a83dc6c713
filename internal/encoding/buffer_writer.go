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

package encoding

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pqlite/parquet"
)

// BufferWriter is a utility class for building and writing to a memory.Buffer
// when a given buffer exists, it will write to that, otherwise it
// allocates a new one with the provided allocator.
//
// BufferWriter implements io.Writer, io.Seeker and Tell, so it can be used as
// the sink of a file writer in tests and in memory workflows.
type BufferWriter struct {
	buffer *memory.Buffer
	pos    int
	mem    memory.Allocator

	initialCapacity int
}

// NewBufferWriter constructs a buffer with initially reserved space of initial
// bytes using the allocator for the memory.
func NewBufferWriter(initial int, mem memory.Allocator) *BufferWriter {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &BufferWriter{mem: mem, initialCapacity: initial}
}

func (b *BufferWriter) init() {
	if b.buffer == nil {
		b.buffer = memory.NewResizableBuffer(b.mem)
		if b.initialCapacity > 0 {
			b.buffer.Reserve(b.initialCapacity)
		}
	}
}

// Reserve ensures there are at least nbytes available past the current
// position, growing the buffer geometrically.
func (b *BufferWriter) Reserve(nbytes int) {
	b.init()
	need := b.pos + nbytes
	if need <= b.buffer.Cap() {
		return
	}
	b.buffer.Reserve(bitutil.NextPowerOf2(need))
}

// Write copies p at the current position, growing the buffer as needed.
func (b *BufferWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.Reserve(len(p))
	copy(b.buffer.Buf()[b.pos:], p)
	b.pos += len(p)
	if b.pos > b.buffer.Len() {
		b.buffer.ResizeNoShrink(b.pos)
	}
	return len(p), nil
}

// Seek only allows seeking within the bytes written so far.
func (b *BufferWriter) Seek(offset int64, whence int) (int64, error) {
	var newpos int64
	switch whence {
	case io.SeekStart:
		newpos = offset
	case io.SeekCurrent:
		newpos = int64(b.pos) + offset
	case io.SeekEnd:
		newpos = int64(b.Len()) + offset
	default:
		return 0, parquet.NewError(parquet.ErrIO, "invalid whence %d", whence)
	}
	if newpos < 0 || newpos > int64(b.Len()) {
		return 0, parquet.NewError(parquet.ErrIO, "seek position %d outside buffer of length %d", newpos, b.Len())
	}
	b.pos = int(newpos)
	return newpos, nil
}

// Tell returns the current write position.
func (b *BufferWriter) Tell() int64 { return int64(b.pos) }

// Len returns the number of bytes written.
func (b *BufferWriter) Len() int {
	if b.buffer == nil {
		return 0
	}
	return b.buffer.Len()
}

// Bytes returns the bytes written so far. The slice is only valid until the
// next call to Write, Finish or Release.
func (b *BufferWriter) Bytes() []byte {
	if b.buffer == nil {
		return nil
	}
	return b.buffer.Bytes()
}

// Finish returns the current buffer and resets the writer so it can be reused,
// the caller owns the returned buffer and must release it.
func (b *BufferWriter) Finish() *memory.Buffer {
	b.init()
	buf := b.buffer
	b.buffer = nil
	b.pos = 0
	return buf
}

// Reset drops the written bytes but keeps the allocation for reuse.
func (b *BufferWriter) Reset() {
	if b.buffer != nil {
		b.buffer.ResizeNoShrink(0)
	}
	b.pos = 0
}

// Release frees the underlying buffer.
func (b *BufferWriter) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
	b.pos = 0
}
