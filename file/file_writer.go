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
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/internal/utils"
	"github.com/pqlite/parquet/metadata"
	"github.com/pqlite/parquet/schema"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Writer is the primary interface for writing a parquet file
type Writer struct {
	sink           utils.WriteCloserTell
	open           bool
	props          *parquet.WriterProperties
	metadata       metadata.FileMetaDataBuilder
	rowGroupWriter *rowGroupWriter
	fileMetadata   *metadata.FileMetaData
	logger         *zap.Logger

	// The Schema of this writer
	Schema *schema.Schema
}

type writerConfig struct {
	props            *parquet.WriterProperties
	keyValueMetadata metadata.KeyValueMetadata
}

// WriteOption configures a Writer.
type WriteOption func(*writerConfig)

// WithWriterProps sets the properties to write with, the defaults are used
// if it is not given.
func WithWriterProps(props *parquet.WriterProperties) WriteOption {
	return func(c *writerConfig) {
		c.props = props
	}
}

// WithWriteMetadata adds key value metadata to the footer.
func WithWriteMetadata(meta metadata.KeyValueMetadata) WriteOption {
	return func(c *writerConfig) {
		c.keyValueMetadata = meta
	}
}

// CreateParquetFile creates or truncates the file at path and returns a
// Writer for it. The Writer owns the file and closes it in Close.
func CreateParquetFile(path string, sc *schema.Schema, opts ...WriteOption) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, parquet.WrapError(parquet.ErrIO, err, "could not create %s", path)
	}
	return NewParquetWriter(f, sc, opts...)
}

// NewParquetWriter returns a Writer that writes to w with the given schema,
// having already written the leading magic bytes.
//
// If w is an io.Closer it is closed by Writer.Close, or right away if the
// magic bytes could not be written.
func NewParquetWriter(w io.Writer, sc *schema.Schema, opts ...WriteOption) (*Writer, error) {
	sink := &utils.TellWrapper{Writer: w}
	if sc == nil {
		return nil, multierr.Append(parquet.NewError(parquet.ErrSchema, "a schema is required to write a file"), sink.Close())
	}

	config := &writerConfig{}
	for _, o := range opts {
		o(config)
	}
	if config.props == nil {
		config.props = parquet.NewWriterProperties()
	}

	fw := &Writer{
		props:  config.props,
		sink:   sink,
		open:   true,
		Schema: sc,
		logger: config.props.Logger().With(zap.String("schema", sc.Name())),
	}

	fw.metadata = *metadata.NewFileMetadataBuilder(fw.Schema, fw.props, config.keyValueMetadata)
	if err := fw.startFile(); err != nil {
		fw.open = false
		return nil, multierr.Append(err, sink.Close())
	}
	return fw, nil
}

// NumColumns returns the number of columns to write as defined by the schema.
func (fw *Writer) NumColumns() int { return fw.Schema.NumColumns() }

// NumRowGroups returns the current number of row groups that will be written for this file.
func (fw *Writer) NumRowGroups() int {
	if fw.fileMetadata != nil {
		return fw.fileMetadata.NumRowGroups()
	}
	return fw.metadata.NumRowGroups()
}

// NumRows returns the number of rows of the row groups closed so far.
func (fw *Writer) NumRows() int64 {
	if fw.fileMetadata != nil {
		return fw.fileMetadata.NumRows()
	}
	return fw.metadata.NumRows()
}

// FileMetadata returns the footer written by Close, it fails with ErrState
// while the file is still being written.
func (fw *Writer) FileMetadata() (*metadata.FileMetaData, error) {
	if fw.fileMetadata == nil {
		return nil, parquet.NewError(parquet.ErrState, "file metadata is only available after the writer is closed")
	}
	return fw.fileMetadata, nil
}

// Properties returns the writer properties that are in use for this file.
func (fw *Writer) Properties() *parquet.WriterProperties { return fw.props }

// AppendRowGroup appends a row group to the file and returns a writer
// that writes columns to the row group in serial via calling NextColumn.
//
// It fails with ErrState if the previous row group has not been closed, the
// Writer itself is closed, or the file already holds math.MaxInt16 row groups.
func (fw *Writer) AppendRowGroup() (SerialRowGroupWriter, error) {
	if !fw.open {
		return nil, parquet.NewError(parquet.ErrState, "cannot append a row group to a closed writer")
	}
	if fw.rowGroupWriter != nil && !fw.rowGroupWriter.closed {
		return nil, parquet.NewError(parquet.ErrState, "row group %d has not been closed", fw.rowGroupWriter.ordinal)
	}

	if fw.metadata.NumRowGroups() >= math.MaxInt16 {
		return nil, parquet.NewError(parquet.ErrState, "a file holds at most %d row groups", math.MaxInt16)
	}

	ordinal := int16(fw.metadata.NumRowGroups())
	rgMeta := fw.metadata.AppendRowGroup()
	fw.rowGroupWriter = newRowGroupWriter(fw.sink, rgMeta, ordinal, fw.props, fw.logger)
	return fw.rowGroupWriter, nil
}

func (fw *Writer) startFile() error {
	n, err := fw.sink.Write(magicBytes)
	if err != nil {
		return parquet.WrapError(parquet.ErrIO, err, "failed to write magic number")
	}
	if n != len(magicBytes) {
		return parquet.NewError(parquet.ErrIO, "failed to write magic number, wrote %d bytes", n)
	}
	return nil
}

// AppendKeyValueMetadata appends a key/value pair to the existing key/value metadata
func (fw *Writer) AppendKeyValueMetadata(key string, value string) error {
	if !fw.open {
		return parquet.NewError(parquet.ErrState, "cannot add metadata to a closed writer")
	}
	fw.metadata.AppendKeyValueMetadata(key, value)
	return nil
}

// Close closes any open row group writer, writes the file footer and closes
// the sink. The sink is closed even if the footer could not be written.
// Calling Close a second time fails with ErrState.
func (fw *Writer) Close() (err error) {
	if !fw.open {
		return parquet.NewError(parquet.ErrState, "writer is already closed")
	}

	fw.open = false
	defer func() {
		if ierr := fw.sink.Close(); ierr != nil {
			err = multierr.Append(err, parquet.WrapError(parquet.ErrIO, ierr, "could not close sink"))
		}
	}()

	if fw.rowGroupWriter != nil && !fw.rowGroupWriter.closed {
		if err := fw.rowGroupWriter.Close(); err != nil {
			return err
		}
	}
	fw.rowGroupWriter = nil

	fileMetadata, err := fw.metadata.Finish()
	if err != nil {
		return err
	}
	fw.fileMetadata = fileMetadata

	n, err := writeFileMetadata(fileMetadata, fw.sink)
	if err != nil {
		return err
	}
	fw.logger.Debug("wrote footer",
		zap.Int64("footer_bytes", n),
		zap.Int64("file_bytes", fw.sink.Tell()),
		zap.Int("row_groups", fileMetadata.NumRowGroups()),
		zap.Int64("rows", fileMetadata.NumRows()))
	return nil
}

func writeFileMetadata(fileMetadata *metadata.FileMetaData, w io.Writer) (n int64, err error) {
	n, err = fileMetadata.WriteTo(w)
	if err != nil {
		return
	}

	if err = binary.Write(w, binary.LittleEndian, uint32(n)); err != nil {
		return n, parquet.WrapError(parquet.ErrIO, err, "could not write footer length")
	}
	if _, err = w.Write(magicBytes); err != nil {
		return n, parquet.WrapError(parquet.ErrIO, err, "could not write trailing magic number")
	}
	return n + int64(4+len(magicBytes)), nil
}
