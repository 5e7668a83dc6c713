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

// Package metadata provides the footer metadata of a file: the thrift
// structures wrapped in accessors for reading, plus the builders the file
// writer uses to fill them in.
package metadata

import (
	"io"
	"reflect"

	"github.com/JohnCGriffin/overflow"
	"github.com/pqlite/parquet"
	format "github.com/pqlite/parquet/internal/format"
	"github.com/pqlite/parquet/internal/thrift"
	"github.com/pqlite/parquet/schema"
)

// FileMetaDataBuilder is a proxy for more easily constructing file metadata
// particularly used when writing a file
type FileMetaDataBuilder struct {
	metadata      *format.FileMetaData
	props         *parquet.WriterProperties
	schema        *schema.Schema
	rowGroups     []*format.RowGroup
	currentRgBldr *RowGroupMetaDataBuilder
	kvmeta        KeyValueMetadata
}

// NewFileMetadataBuilder will use the default writer properties if nil is
// passed for the writer properties and nil is allowable for the key value
// metadata.
func NewFileMetadataBuilder(schema *schema.Schema, props *parquet.WriterProperties, kvmeta KeyValueMetadata) *FileMetaDataBuilder {
	if props == nil {
		props = parquet.NewWriterProperties()
	}

	return &FileMetaDataBuilder{
		metadata: format.NewFileMetaData(),
		props:    props,
		schema:   schema,
		kvmeta:   kvmeta,
	}
}

// AppendRowGroup adds a rowgroup to the list and returns a builder
// for that row group
func (f *FileMetaDataBuilder) AppendRowGroup() *RowGroupMetaDataBuilder {
	rg := &format.RowGroup{}
	f.rowGroups = append(f.rowGroups, rg)
	f.currentRgBldr = NewRowGroupMetaDataBuilder(f.props, f.schema, rg)
	return f.currentRgBldr
}

// AppendKeyValueMetadata appends a key/value pair to the existing key/value metadata
func (f *FileMetaDataBuilder) AppendKeyValueMetadata(key string, value string) {
	if f.kvmeta == nil {
		f.kvmeta = NewKeyValueMetadata()
	}
	f.kvmeta.Append(key, value)
}

// NumRowGroups returns the number of row groups appended so far.
func (f *FileMetaDataBuilder) NumRowGroups() int { return len(f.rowGroups) }

// NumRows returns the rows of the row groups finished so far.
func (f *FileMetaDataBuilder) NumRows() int64 {
	total := int64(0)
	for _, rg := range f.rowGroups {
		total += rg.NumRows
	}
	return total
}

// Finish will finalize the metadata of the number of rows, row groups,
// version etc. This will clear out this filemetadatabuilder so it can
// be re-used
func (f *FileMetaDataBuilder) Finish() (*FileMetaData, error) {
	totalRows := int64(0)
	for _, rg := range f.rowGroups {
		var ok bool
		if totalRows, ok = overflow.Add64(totalRows, rg.NumRows); !ok {
			return nil, parquet.NewError(parquet.ErrState, "total row count overflows int64")
		}
	}
	f.metadata.NumRows = totalRows
	f.metadata.RowGroups = f.rowGroups
	f.metadata.Version = int32(parquet.CurrentVersion)
	createdBy := f.props.CreatedBy()
	f.metadata.CreatedBy = &createdBy
	f.metadata.Schema = schema.ToThrift(f.schema)
	if len(f.kvmeta) > 0 {
		f.metadata.KeyValueMetadata = f.kvmeta
	}

	out := &FileMetaData{
		meta:   f.metadata,
		schema: f.schema,
	}

	f.metadata = format.NewFileMetaData()
	f.rowGroups = nil
	f.currentRgBldr = nil
	f.kvmeta = nil
	return out, nil
}

// FileMetaData is a proxy around the underlying thrift FileMetaData object
// to make it easier to use and interact with.
type FileMetaData struct {
	meta        *format.FileMetaData
	schema      *schema.Schema
	metadataLen int
}

// NewFileMetaData takes in the raw bytes of the serialized metadata to
// deserialize and rebuild the schema from. A footer which does not decode
// or does not hold a valid schema is reported as ErrFormat.
func NewFileMetaData(data []byte) (*FileMetaData, error) {
	meta := format.NewFileMetaData()
	remain, err := thrift.DeserializeThrift(meta, data)
	if err != nil {
		return nil, parquet.WrapError(parquet.ErrFormat, err, "could not decode footer")
	}
	if remain != 0 {
		return nil, parquet.NewError(parquet.ErrFormat, "footer has %d trailing bytes", remain)
	}

	sc, err := schema.FromThrift(meta.Schema)
	if err != nil {
		return nil, err
	}

	return &FileMetaData{
		meta:        meta,
		schema:      sc,
		metadataLen: len(data),
	}, nil
}

// Size is the length of the raw serialized metadata bytes in the footer,
// zero for metadata produced by a builder.
func (f *FileMetaData) Size() int { return f.metadataLen }

// Schema returns the schema the file was written with.
func (f *FileMetaData) Schema() *schema.Schema { return f.schema }

// NumSchemaElements is the length of the flattened schema list in the thrift
func (f *FileMetaData) NumSchemaElements() int {
	return len(f.meta.Schema)
}

// NumRows is the total number of rows across all row groups.
func (f *FileMetaData) NumRows() int64 { return f.meta.NumRows }

// NumRowGroups is the number of row groups in the file.
func (f *FileMetaData) NumRowGroups() int { return len(f.meta.RowGroups) }

// Version returns the footer format version.
func (f *FileMetaData) Version() parquet.Version { return parquet.Version(f.meta.Version) }

// CreatedBy is the application string recorded by the writer.
func (f *FileMetaData) CreatedBy() string { return f.meta.GetCreatedBy() }

// KeyValueMetadata returns the application metadata, possibly empty.
func (f *FileMetaData) KeyValueMetadata() KeyValueMetadata {
	return f.meta.GetKeyValueMetadata()
}

// RowGroup provides the metadata for the (0-based) index of the row group
func (f *FileMetaData) RowGroup(i int) (*RowGroupMetaData, error) {
	if i < 0 || i >= f.NumRowGroups() {
		return nil, parquet.NewError(parquet.ErrOutOfRange, "the file only has %d row groups, requested metadata for row group: %d", f.NumRowGroups(), i)
	}
	return NewRowGroupMetaData(f.meta.RowGroups[i], f.schema), nil
}

// Equals returns true if both metadata describe the same file.
func (f *FileMetaData) Equals(other *FileMetaData) bool {
	return reflect.DeepEqual(f.meta, other.meta)
}

// WriteTo serializes the footer with the thrift compact protocol and writes
// it to w, returning the number of bytes written.
func (f *FileMetaData) WriteTo(w io.Writer) (int64, error) {
	serializer := thrift.NewThriftSerializer()
	n, err := serializer.Serialize(f.meta, w)
	if err != nil {
		return int64(n), parquet.WrapError(parquet.ErrIO, err, "could not write footer")
	}
	return int64(n), nil
}

// Validate checks the metadata against the file it was read from, where
// footerStart is the offset of the first footer byte. Every chunk has to lie
// inside the data region between the leading magic and the footer and hold
// exactly four bytes per value of a column of the schema.
func (f *FileMetaData) Validate(footerStart int64) error {
	if f.Version() != parquet.CurrentVersion {
		return parquet.NewError(parquet.ErrFormat, "unsupported footer version %d", f.Version())
	}

	const dataStart = int64(len("PAR1"))
	ncols := f.schema.NumColumns()
	totalRows := int64(0)

	for rgIdx, rg := range f.meta.RowGroups {
		if rg.NumRows < 0 {
			return parquet.NewError(parquet.ErrFormat, "row group %d has negative row count %d", rgIdx, rg.NumRows)
		}
		if len(rg.Columns) != ncols {
			return parquet.NewError(parquet.ErrFormat, "row group %d has %d columns, schema has %d", rgIdx, len(rg.Columns), ncols)
		}

		var ok bool
		if totalRows, ok = overflow.Add64(totalRows, rg.NumRows); !ok {
			return parquet.NewError(parquet.ErrFormat, "row count overflows at row group %d", rgIdx)
		}

		for colIdx, chunk := range rg.Columns {
			if err := f.validateChunk(chunk, colIdx, rg.NumRows, dataStart, footerStart); err != nil {
				return parquet.WrapError(parquet.ErrFormat, err, "row group %d", rgIdx)
			}
		}
	}

	if totalRows != f.meta.NumRows {
		return parquet.NewError(parquet.ErrFormat, "footer declares %d rows, row groups hold %d", f.meta.NumRows, totalRows)
	}
	return nil
}

func (f *FileMetaData) validateChunk(chunk *format.ColumnChunk, colIdx int, numRows, dataStart, footerStart int64) error {
	descr := f.schema.Column(colIdx)
	if !chunk.IsSetMetaData() {
		return parquet.NewError(parquet.ErrFormat, "column %q has no metadata", descr.Path())
	}
	meta := chunk.GetMetaData()

	if parquet.Type(meta.Type) != descr.PhysicalType() {
		return parquet.NewError(parquet.ErrFormat, "column %q has type tag %s, schema says %s", descr.Path(), meta.Type, descr.PhysicalType())
	}
	if parquet.ColumnPath(meta.PathInSchema).String() != descr.Path() {
		return parquet.NewError(parquet.ErrFormat, "column %d path %q does not match schema column %q", colIdx, parquet.ColumnPath(meta.PathInSchema), descr.Path())
	}
	if meta.Codec != format.CompressionCodec_UNCOMPRESSED {
		return parquet.NewError(parquet.ErrFormat, "column %q uses unsupported codec %s", descr.Path(), meta.Codec)
	}
	for _, enc := range meta.Encodings {
		if enc != format.Encoding_PLAIN {
			return parquet.NewError(parquet.ErrFormat, "column %q uses unsupported encoding %s", descr.Path(), enc)
		}
	}
	if meta.NumValues != numRows {
		return parquet.NewError(parquet.ErrFormat, "column %q holds %d values, row group has %d rows", descr.Path(), meta.NumValues, numRows)
	}

	expected, ok := overflow.Mul64(meta.NumValues, int64(descr.PhysicalType().ByteSize()))
	if !ok {
		return parquet.NewError(parquet.ErrFormat, "column %q value count %d overflows", descr.Path(), meta.NumValues)
	}
	if meta.TotalCompressedSize != expected || meta.TotalUncompressedSize != expected {
		return parquet.NewError(parquet.ErrFormat, "column %q is %d bytes long, %d values need %d",
			descr.Path(), meta.TotalCompressedSize, meta.NumValues, expected)
	}

	end, ok := overflow.Add64(meta.DataPageOffset, expected)
	if !ok || meta.DataPageOffset < dataStart || end > footerStart {
		return parquet.NewError(parquet.ErrFormat, "column %q chunk [%d, %d) lies outside the data region [%d, %d)",
			descr.Path(), meta.DataPageOffset, meta.DataPageOffset+expected, dataStart, footerStart)
	}
	return nil
}
