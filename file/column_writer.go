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
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/internal/utils"
	"github.com/pqlite/parquet/metadata"
	"github.com/pqlite/parquet/schema"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

// ColumnChunkWriter is the base interface for all columnwriters. To directly
// write data to the column, you need to assert it to the correctly typed
// ColumnChunkWriter instance, such as Int32ColumnChunkWriter.
type ColumnChunkWriter interface {
	// Close flushes the buffered values to the file and records the chunk in
	// the row group metadata. Writing to or closing a closed writer fails
	// with ErrState.
	Close() error
	// Type returns the underlying physical type of the column
	Type() parquet.Type
	// Descr returns the column information for this writer
	Descr() *schema.Column
	// RowsWritten returns the number of rows that have so far been written with this writer
	RowsWritten() int
	// TotalCompressedBytes returns the number of bytes buffered and not yet
	// flushed to the file
	TotalCompressedBytes() int64
	// TotalBytesWritten returns the number of bytes flushed to the file
	TotalBytesWritten() int64
	// Properties returns the current WriterProperties in use for this writer
	Properties() *parquet.WriterProperties

	isClosed() bool
}

type valueEncoder interface {
	NumValues() int64
	EstimatedDataEncodedSize() int64
	FlushValues() *memory.Buffer
	Release()
}

type columnWriter struct {
	metaData *metadata.ColumnChunkMetaDataBuilder
	descr    *schema.Column
	props    *parquet.WriterProperties
	sink     utils.WriterTell
	logger   *zap.Logger
	enc      valueEncoder

	closed            bool
	rowsWritten       int
	totalBytesWritten int64
}

func newColumnWriterBase(metaData *metadata.ColumnChunkMetaDataBuilder, sink utils.WriterTell, props *parquet.WriterProperties, logger *zap.Logger, enc valueEncoder) columnWriter {
	return columnWriter{
		metaData: metaData,
		descr:    metaData.Descr(),
		props:    props,
		sink:     sink,
		logger:   logger.With(zap.String("column", metaData.Descr().Path())),
		enc:      enc,
	}
}

// NewColumnChunkWriter constructs a column writer of the appropriate type
// for the column described by metaData, flushing into sink on Close.
func NewColumnChunkWriter(metaData *metadata.ColumnChunkMetaDataBuilder, sink utils.WriterTell, props *parquet.WriterProperties, logger *zap.Logger) (ColumnChunkWriter, error) {
	descr := metaData.Descr()
	switch descr.PhysicalType() {
	case parquet.Types.Int32:
		return NewInt32ColumnChunkWriter(metaData, sink, props, logger), nil
	default:
		return nil, parquet.NewError(parquet.ErrType, "no column writer for physical type %s of column %q", descr.PhysicalType(), descr.Path())
	}
}

func (w *columnWriter) Type() parquet.Type                    { return w.descr.PhysicalType() }
func (w *columnWriter) Descr() *schema.Column                 { return w.descr }
func (w *columnWriter) Properties() *parquet.WriterProperties { return w.props }
func (w *columnWriter) RowsWritten() int                      { return w.rowsWritten }
func (w *columnWriter) TotalBytesWritten() int64              { return w.totalBytesWritten }
func (w *columnWriter) isClosed() bool                        { return w.closed }

func (w *columnWriter) TotalCompressedBytes() int64 {
	if w.closed {
		return 0
	}
	return w.enc.EstimatedDataEncodedSize()
}

// checkWritable validates a batch against the column before it is encoded.
// Levels only exist for optional and repeated columns so any are rejected.
func (w *columnWriter) checkWritable(defLevels, repLevels []int16) error {
	if w.closed {
		return parquet.NewError(parquet.ErrState, "column %q writer is closed", w.descr.Path())
	}
	if len(defLevels) > 0 || len(repLevels) > 0 {
		return parquet.NewError(parquet.ErrType, "column %q is required and does not accept definition or repetition levels", w.descr.Path())
	}
	return nil
}

func (w *columnWriter) Close() error {
	if w.closed {
		return parquet.NewError(parquet.ErrState, "column %q writer is already closed", w.descr.Path())
	}
	w.closed = true
	defer w.enc.Release()

	buf := w.enc.FlushValues()
	defer buf.Release()

	data := buf.Bytes()
	offset := w.sink.Tell()
	n, err := w.sink.Write(data)
	w.totalBytesWritten += int64(n)
	if err != nil {
		return parquet.WrapError(parquet.ErrIO, err, "could not write column chunk %q", w.descr.Path())
	}

	checksum := xxh3.Hash(data)
	if err := w.metaData.Finish(int64(w.rowsWritten), offset, int64(len(data)), checksum); err != nil {
		return err
	}

	w.logger.Debug("closed column chunk",
		zap.Int64("offset", offset),
		zap.Int("bytes", len(data)),
		zap.Int("values", w.rowsWritten),
		zap.Uint64("xxh3", checksum))
	return nil
}

// WriteBatch writes values to the column writer cw, which has to be of the
// type matching values, such as []int32 for an *Int32ColumnChunkWriter. A
// mismatch fails with ErrType.
func WriteBatch(cw ColumnChunkWriter, values interface{}) (int64, error) {
	switch w := cw.(type) {
	case *Int32ColumnChunkWriter:
		v, ok := values.([]int32)
		if !ok {
			return 0, parquet.NewError(parquet.ErrType, "cannot write %T to INT32 column %q", values, w.Descr().Path())
		}
		return w.WriteBatch(v, nil, nil)
	case nil:
		return 0, parquet.NewError(parquet.ErrState, "no column writer")
	default:
		return 0, parquet.NewError(parquet.ErrType, "cannot write %T to %s column %q", values, cw.Type(), cw.Descr().Path())
	}
}
