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
	"github.com/pqlite/parquet/metadata"
)

// RowGroupReader is the primary interface for reading a single row group
type RowGroupReader struct {
	r            parquet.ReaderAtSeeker
	sourceSz     int64
	fileMetadata *metadata.FileMetaData
	rgMetadata   *metadata.RowGroupMetaData
	props        *parquet.ReaderProperties
}

// MetaData returns the metadata of the current Row Group
func (r *RowGroupReader) MetaData() *metadata.RowGroupMetaData { return r.rgMetadata }

// NumColumns returns the number of columns of data as defined in the metadata of this row group
func (r *RowGroupReader) NumColumns() int { return r.rgMetadata.NumColumns() }

// NumRows returns the number of rows in just this row group
func (r *RowGroupReader) NumRows() int64 { return r.rgMetadata.NumRows() }

// ByteSize returns the full byte size of this row group as defined in its metadata
func (r *RowGroupReader) ByteSize() int64 { return r.rgMetadata.TotalByteSize() }

// Column returns a column reader for the requested (0-indexed) column,
// failing with ErrOutOfRange outside [0, NumColumns). The chunk itself is
// only read from the file once values are requested from the reader.
func (r *RowGroupReader) Column(i int) (ColumnChunkReader, error) {
	if i >= r.NumColumns() || i < 0 {
		return nil, parquet.NewError(parquet.ErrOutOfRange, "trying to read column index %d but row group metadata only has %d columns", i, r.rgMetadata.NumColumns())
	}

	descr := r.fileMetadata.Schema().Column(i)
	return NewColumnReader(descr, func() (PageReader, error) {
		return r.GetColumnPageReader(i)
	}, r.props)
}

// GetColumnPageReader opens the chunk of the i'th column and returns a
// PageReader over its values.
func (r *RowGroupReader) GetColumnPageReader(i int) (PageReader, error) {
	col, err := r.rgMetadata.ColumnChunk(i)
	if err != nil {
		return nil, err
	}

	colStart := col.DataPageOffset()
	colLen := col.TotalCompressedSize()
	if colStart < 0 || colLen < 0 || colStart+colLen > r.sourceSz {
		return nil, parquet.NewError(parquet.ErrFormat, "invalid column chunk metadata, offset (%d) and length (%d) must lie within the source size (%d)", colStart, colLen, r.sourceSz)
	}

	stream, err := r.props.GetStream(r.r, colStart, colLen)
	if err != nil {
		return nil, err
	}

	var pageSize int64
	if r.props.BufferedStreamEnabled {
		pageSize = r.props.BufferSize
	}
	checksum, hasChecksum := col.Checksum()
	return NewPageReader(stream, col.NumValues(), col.Type().ByteSize(), pageSize, r.props.Allocator(),
		r.props.VerifyChecksums && hasChecksum, checksum), nil
}
