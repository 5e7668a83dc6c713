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

package file

import (
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/internal/encoding"
	"github.com/pqlite/parquet/internal/utils"
	"github.com/pqlite/parquet/metadata"
	"go.uber.org/zap"
)

// Int32ColumnChunkWriter is the typed interface for writing columns to a
// parquet file for Int32 columns.
type Int32ColumnChunkWriter struct {
	columnWriter

	encoder *encoding.PlainInt32Encoder
}

// NewInt32ColumnChunkWriter constructs a new column writer using the given
// metadata builder and sink.
func NewInt32ColumnChunkWriter(metaData *metadata.ColumnChunkMetaDataBuilder, sink utils.WriterTell, props *parquet.WriterProperties, logger *zap.Logger) *Int32ColumnChunkWriter {
	enc := encoding.NewPlainInt32Encoder(props.Allocator())
	return &Int32ColumnChunkWriter{
		columnWriter: newColumnWriterBase(metaData, sink, props, logger, enc),
		encoder:      enc,
	}
}

// WriteBatch writes a batch of values to the column. The column is required
// so defLevels and repLevels must be empty, any levels fail with ErrType.
// Values are plain encoded into memory and flushed to the file when the
// writer is closed.
//
// It returns the number of values written.
func (w *Int32ColumnChunkWriter) WriteBatch(values []int32, defLevels, repLevels []int16) (int64, error) {
	if err := w.checkWritable(defLevels, repLevels); err != nil {
		return 0, err
	}

	w.encoder.Put(values)
	w.rowsWritten += len(values)
	return int64(len(values)), nil
}
