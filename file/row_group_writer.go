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
	"github.com/pqlite/parquet/internal/utils"
	"github.com/pqlite/parquet/metadata"
	"go.uber.org/zap"
)

// RowGroupWriter is the base interface for writing rowgroups.
type RowGroupWriter interface {
	// Returns the number of columns for this row group writer
	NumColumns() int
	// returns the current number of rows that have been written.
	// Returns an error if they are unequal between columns that have been written so far
	NumRows() (int, error)
	// The total bytes buffered by column writers which are still open
	TotalCompressedBytes() int64
	// the total bytes written and flushed out
	TotalBytesWritten() int64
	// Close finishes the row group, recording its metadata. It fails with
	// ErrState if not every column has been written and closed or if the
	// columns hold different numbers of rows.
	Close() error
}

// SerialRowGroupWriter expects each column to be written one after the other,
// each column writer has to be closed before the next one is requested.
type SerialRowGroupWriter interface {
	RowGroupWriter
	// NextColumn returns the writer for the next column in schema order, or
	// nil once every column has been handed out.
	NextColumn() (ColumnChunkWriter, error)
	// returns the current column being built
	CurrentColumn() int
}

type rowGroupWriter struct {
	sink          utils.WriterTell
	metadata      *metadata.RowGroupMetaDataBuilder
	props         *parquet.WriterProperties
	logger        *zap.Logger
	bytesWritten  int64
	closed        bool
	ordinal       int16
	nextColumnIdx int
	nrows         int

	columnWriters []ColumnChunkWriter
}

func newRowGroupWriter(sink utils.WriterTell, metadata *metadata.RowGroupMetaDataBuilder, ordinal int16, props *parquet.WriterProperties, logger *zap.Logger) *rowGroupWriter {
	return &rowGroupWriter{
		sink:          sink,
		metadata:      metadata,
		props:         props,
		logger:        logger.With(zap.Int16("row_group", ordinal)),
		ordinal:       ordinal,
		columnWriters: make([]ColumnChunkWriter, 0, metadata.NumColumns()),
	}
}

func (rg *rowGroupWriter) checkRowsWritten() error {
	if len(rg.columnWriters) == 0 {
		return nil
	}

	current := rg.columnWriters[0].RowsWritten()
	for _, wr := range rg.columnWriters[1:] {
		if current != wr.RowsWritten() {
			return parquet.NewError(parquet.ErrState, "column %q has %d rows, expected %d", wr.Descr().Path(), wr.RowsWritten(), current)
		}
	}
	rg.nrows = current
	return nil
}

func (rg *rowGroupWriter) currentWriter() ColumnChunkWriter {
	if len(rg.columnWriters) == 0 {
		return nil
	}
	return rg.columnWriters[len(rg.columnWriters)-1]
}

func (rg *rowGroupWriter) NumColumns() int { return rg.metadata.NumColumns() }
func (rg *rowGroupWriter) NumRows() (int, error) {
	err := rg.checkRowsWritten()
	return rg.nrows, err
}

func (rg *rowGroupWriter) NextColumn() (ColumnChunkWriter, error) {
	if rg.closed {
		return nil, parquet.NewError(parquet.ErrState, "row group %d is closed", rg.ordinal)
	}
	if cur := rg.currentWriter(); cur != nil && !cur.isClosed() {
		return nil, parquet.NewError(parquet.ErrState, "column %q must be closed before requesting the next column", cur.Descr().Path())
	}
	if rg.nextColumnIdx >= rg.NumColumns() {
		return nil, nil
	}

	colMeta, err := rg.metadata.NextColumnChunk()
	if err != nil {
		return nil, err
	}
	rg.nextColumnIdx++

	cw, err := NewColumnChunkWriter(colMeta, rg.sink, rg.props, rg.logger)
	if err != nil {
		return nil, err
	}
	rg.columnWriters = append(rg.columnWriters, cw)
	return cw, nil
}

func (rg *rowGroupWriter) CurrentColumn() int { return rg.metadata.CurrentColumn() }

func (rg *rowGroupWriter) TotalCompressedBytes() int64 {
	total := int64(0)
	for _, wr := range rg.columnWriters {
		total += wr.TotalCompressedBytes()
	}
	return total
}

func (rg *rowGroupWriter) TotalBytesWritten() int64 {
	total := int64(0)
	for _, wr := range rg.columnWriters {
		total += wr.TotalBytesWritten()
	}
	return total + rg.bytesWritten
}

func (rg *rowGroupWriter) Close() error {
	if rg.closed {
		return parquet.NewError(parquet.ErrState, "row group %d is already closed", rg.ordinal)
	}
	if rg.nextColumnIdx < rg.NumColumns() {
		return parquet.NewError(parquet.ErrState, "only %d out of %d columns were written", rg.nextColumnIdx, rg.NumColumns())
	}
	if cur := rg.currentWriter(); cur != nil && !cur.isClosed() {
		return parquet.NewError(parquet.ErrState, "column %q has not been closed", cur.Descr().Path())
	}
	if err := rg.checkRowsWritten(); err != nil {
		return err
	}

	written := int64(0)
	for _, wr := range rg.columnWriters {
		written += wr.TotalBytesWritten()
	}

	rg.metadata.SetNumRows(int64(rg.nrows))
	if err := rg.metadata.Finish(written, rg.ordinal); err != nil {
		return err
	}

	rg.closed = true
	rg.bytesWritten = written
	rg.columnWriters = nil
	rg.logger.Debug("closed row group", zap.Int("rows", rg.nrows), zap.Int64("bytes", rg.bytesWritten))
	return nil
}
