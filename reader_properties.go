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

package parquet

import (
	"bytes"
	"errors"
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
)

// ReaderProperties are used to define how the file reader will handle buffering and allocating buffers
type ReaderProperties struct {
	alloc  memory.Allocator
	logger *zap.Logger
	// BufferSize is the size of the buffered reader used when
	// BufferedStreamEnabled is set.
	BufferSize int64
	// BufferedStreamEnabled reads column chunks through an io.SectionReader
	// instead of loading each chunk into memory with a single ReadAt.
	BufferedStreamEnabled bool
	// VerifyChecksums checks the stored xxh3 checksum of every column chunk
	// when it is loaded.
	VerifyChecksums bool
}

// NewReaderProperties returns the default Reader Properties using the provided allocator.
//
// If nil is passed for the allocator, then memory.DefaultAllocator will be used.
func NewReaderProperties(alloc memory.Allocator) *ReaderProperties {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	return &ReaderProperties{
		alloc:           alloc,
		logger:          zap.NewNop(),
		BufferSize:      DefaultBufSize,
		VerifyChecksums: true,
	}
}

// Allocator returns the allocator that the properties were initialized with
func (r *ReaderProperties) Allocator() memory.Allocator { return r.alloc }

// Logger returns the logger used for debug events while reading, never nil.
func (r *ReaderProperties) Logger() *zap.Logger { return r.logger }

// WithReaderLogger replaces the logger and returns the properties for chaining.
func (r *ReaderProperties) WithReaderLogger(logger *zap.Logger) *ReaderProperties {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.logger = logger
	return r
}

// GetStream returns a section of the underlying reader based on whether or not BufferedStream is enabled.
//
// If BufferedStreamEnabled is true, it creates an io.SectionReader, otherwise it will read the entire section
// into a buffer in memory and return a bytes.NewReader for that buffer.
func (r *ReaderProperties) GetStream(source io.ReaderAt, start, nbytes int64) (ReaderAtSeeker, error) {
	if r.BufferedStreamEnabled {
		return io.NewSectionReader(source, start, nbytes), nil
	}

	data := make([]byte, nbytes)
	n, err := source.ReadAt(data, start)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == nbytes) {
		return nil, WrapError(ErrIO, err, "tried reading %d bytes at offset %d", nbytes, start)
	}
	if int64(n) != nbytes {
		return nil, NewError(ErrIO, "tried reading %d bytes starting at position %d from file but only got %d", nbytes, start, n)
	}

	return bytes.NewReader(data), nil
}
