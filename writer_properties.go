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
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
)

// Constants for default property values used for the default reader and
// writer properties.
const (
	// Default Buffer size used for the Reader
	DefaultBufSize int64 = 4096 * 4
	// Values are split into batches of this many rows when a writer is fed
	// from a larger source such as an arrow array.
	DefaultWriteBatchSize int64 = 1024
	DefaultCreatedBy            = "pqlite version 1.0.0"
	DefaultRootName             = "schema"
)

// Version is the footer format version written into the file metadata.
type Version int32

// CurrentVersion is the only footer version this module writes or accepts.
const CurrentVersion Version = 1

type writerPropConfig struct {
	wr *WriterProperties
}

// WriterProperty is used as the options for building a writer properties instance
type WriterProperty func(*writerPropConfig)

// WithAllocator specifies the writer to use the given allocator
func WithAllocator(mem memory.Allocator) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.mem = mem
	}
}

// WithBatchSize specifies the number of rows per row group used when a table
// is written without an explicit chunk size, see pqarrow.WriteTable.
func WithBatchSize(batch int64) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.batchSize = batch
	}
}

// WithCreatedBy specifies the "created by" string to use for the writer
func WithCreatedBy(createdby string) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.createdBy = createdby
	}
}

// WithRootName enables customization of the name used for the root schema node.
func WithRootName(name string) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.rootName = name
	}
}

// WithLogger sets the logger used for debug events while writing.
func WithLogger(logger *zap.Logger) WriterProperty {
	return func(cfg *writerPropConfig) {
		cfg.wr.logger = logger
	}
}

// WriterProperties is the collection of properties to use for writing a file.
// Create it with NewWriterProperties, it is immutable afterwards.
type WriterProperties struct {
	mem       memory.Allocator
	batchSize int64
	createdBy string
	rootName  string
	logger    *zap.Logger
}

// NewWriterProperties takes a list of options for building the properties. If
// multiple options are used which conflict then the last option is the one
// which will take effect. If no WriterProperty options are provided, then the
// default properties will be utilized for writing.
//
// The Default properties use the following constants:
//
//	Allocator:     memory.DefaultAllocator
//	BatchSize:     DefaultWriteBatchSize
//	CreatedBy:     DefaultCreatedBy
//	RootName:      DefaultRootName
//	Logger:        zap.NewNop()
func NewWriterProperties(opts ...WriterProperty) *WriterProperties {
	cfg := writerPropConfig{
		wr: &WriterProperties{
			mem:       memory.DefaultAllocator,
			batchSize: DefaultWriteBatchSize,
			createdBy: DefaultCreatedBy,
			rootName:  DefaultRootName,
		},
	}

	for _, o := range opts {
		o(&cfg)
	}

	if cfg.wr.mem == nil {
		cfg.wr.mem = memory.DefaultAllocator
	}
	if cfg.wr.logger == nil {
		cfg.wr.logger = zap.NewNop()
	}
	if cfg.wr.batchSize <= 0 {
		cfg.wr.batchSize = DefaultWriteBatchSize
	}
	return cfg.wr
}

// Allocator returns the allocator used for the column buffers.
func (w *WriterProperties) Allocator() memory.Allocator { return w.mem }

// WriteBatchSize returns the default number of rows per row group for table
// writes.
func (w *WriterProperties) WriteBatchSize() int64 { return w.batchSize }

// CreatedBy returns the string written into the footer's created_by field.
func (w *WriterProperties) CreatedBy() string { return w.createdBy }

// RootName returns the name of the root schema node.
func (w *WriterProperties) RootName() string { return w.rootName }

// Logger returns the logger, never nil.
func (w *WriterProperties) Logger() *zap.Logger { return w.logger }
