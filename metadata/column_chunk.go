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

package metadata

import (
	"github.com/pqlite/parquet"
	format "github.com/pqlite/parquet/internal/format"
	"github.com/pqlite/parquet/schema"
)

// ColumnChunkMetaData is a proxy around the thrift column chunk of a row
// group in the footer.
type ColumnChunkMetaData struct {
	column     *format.ColumnChunk
	columnMeta *format.ColumnMetaData
	descr      *schema.Column
}

// NewColumnChunkMetaData wraps the thrift column chunk for the column
// described by descr. A chunk without metadata is an ErrFormat.
func NewColumnChunkMetaData(column *format.ColumnChunk, descr *schema.Column) (*ColumnChunkMetaData, error) {
	if !column.IsSetMetaData() {
		return nil, parquet.NewError(parquet.ErrFormat, "column chunk %q has no metadata", descr.Path())
	}
	return &ColumnChunkMetaData{column: column, columnMeta: column.GetMetaData(), descr: descr}, nil
}

// Descr returns the schema descriptor of the column.
func (c *ColumnChunkMetaData) Descr() *schema.Column { return c.descr }

// FileOffset is the offset recorded for the chunk in the row group.
func (c *ColumnChunkMetaData) FileOffset() int64 { return c.column.FileOffset }

// Type is the physical type tag stored for the chunk.
func (c *ColumnChunkMetaData) Type() parquet.Type { return parquet.Type(c.columnMeta.Type) }

// PathInSchema is the dotted path of the column as stored in the footer.
func (c *ColumnChunkMetaData) PathInSchema() parquet.ColumnPath {
	return c.columnMeta.PathInSchema
}

// Encodings lists the encodings used in the chunk.
func (c *ColumnChunkMetaData) Encodings() []parquet.Encoding {
	ret := make([]parquet.Encoding, len(c.columnMeta.Encodings))
	for idx, enc := range c.columnMeta.Encodings {
		ret[idx] = parquet.Encoding(enc)
	}
	return ret
}

// NumValues is the number of values stored in the chunk.
func (c *ColumnChunkMetaData) NumValues() int64 { return c.columnMeta.NumValues }

// DataPageOffset is the absolute file offset of the first byte of the chunk.
func (c *ColumnChunkMetaData) DataPageOffset() int64 { return c.columnMeta.DataPageOffset }

// TotalCompressedSize is the length of the chunk in the file.
func (c *ColumnChunkMetaData) TotalCompressedSize() int64 { return c.columnMeta.TotalCompressedSize }

// TotalUncompressedSize is the length of the chunk once decoded, which for
// uncompressed chunks equals TotalCompressedSize.
func (c *ColumnChunkMetaData) TotalUncompressedSize() int64 {
	return c.columnMeta.TotalUncompressedSize
}

// Compression returns the name of the codec, always UNCOMPRESSED for files
// which pass validation.
func (c *ColumnChunkMetaData) Compression() string { return c.columnMeta.Codec.String() }

// Checksum returns the xxh3 digest of the chunk bytes and whether the file
// recorded one.
func (c *ColumnChunkMetaData) Checksum() (uint64, bool) {
	return uint64(c.columnMeta.GetChecksum()), c.columnMeta.IsSetChecksum()
}

// ColumnChunkMetaDataBuilder fills in the footer entry of a column chunk as
// it is written.
type ColumnChunkMetaDataBuilder struct {
	chunk  *format.ColumnChunk
	props  *parquet.WriterProperties
	column *schema.Column
}

// NewColumnChunkMetaDataBuilder returns a builder for a new column chunk.
func NewColumnChunkMetaDataBuilder(props *parquet.WriterProperties, column *schema.Column) *ColumnChunkMetaDataBuilder {
	return NewColumnChunkMetaDataBuilderWithContents(props, column, &format.ColumnChunk{MetaData: format.NewColumnMetaData()})
}

// NewColumnChunkMetaDataBuilderWithContents fills in an existing thrift
// column chunk, such as the slot reserved by a row group builder.
func NewColumnChunkMetaDataBuilderWithContents(props *parquet.WriterProperties, column *schema.Column, chunk *format.ColumnChunk) *ColumnChunkMetaDataBuilder {
	b := &ColumnChunkMetaDataBuilder{chunk: chunk, props: props, column: column}
	b.init()
	return b
}

func (c *ColumnChunkMetaDataBuilder) init() {
	if c.chunk.MetaData == nil {
		c.chunk.MetaData = format.NewColumnMetaData()
	}
	c.chunk.FileOffset = -1
	c.chunk.MetaData.Type = format.Type(c.column.PhysicalType())
	c.chunk.MetaData.PathInSchema = c.column.ColumnPath()
	c.chunk.MetaData.Codec = format.CompressionCodec_UNCOMPRESSED
}

// Descr returns the descriptor of the column being built.
func (c *ColumnChunkMetaDataBuilder) Descr() *schema.Column { return c.column }

// Contents returns the underlying thrift column chunk.
func (c *ColumnChunkMetaDataBuilder) Contents() *format.ColumnChunk { return c.chunk }

// TotalCompressedSize returns the chunk length recorded by Finish.
func (c *ColumnChunkMetaDataBuilder) TotalCompressedSize() int64 {
	return c.chunk.MetaData.TotalCompressedSize
}

// Finish records where the chunk landed in the file: numValues values of
// plain encoded data, length bytes long, starting at offset, hashing to
// checksum.
func (c *ColumnChunkMetaDataBuilder) Finish(numValues, offset, length int64, checksum uint64) error {
	if numValues < 0 || offset < 0 || length < 0 {
		return parquet.NewError(parquet.ErrState, "invalid chunk location for column %q: %d values at offset %d, length %d",
			c.column.Path(), numValues, offset, length)
	}

	sum := int64(checksum)
	c.chunk.FileOffset = offset
	c.chunk.MetaData.NumValues = numValues
	c.chunk.MetaData.DataPageOffset = offset
	c.chunk.MetaData.TotalCompressedSize = length
	c.chunk.MetaData.TotalUncompressedSize = length
	c.chunk.MetaData.Encodings = []format.Encoding{format.Encoding_PLAIN}
	c.chunk.MetaData.Checksum = &sum
	return nil
}
