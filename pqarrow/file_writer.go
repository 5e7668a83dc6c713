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

package pqarrow

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/file"
	"github.com/pqlite/parquet/metadata"
)

// WriteTable is a convenience function to create and write a full array.Table
// to a parquet file. The schema of the table is converted with ToParquet and
// every chunkSize rows become a row group, a chunkSize of zero or less uses
// props.WriteBatchSize.
func WriteTable(tbl arrow.Table, w io.Writer, chunkSize int64, props *parquet.WriterProperties) error {
	fw, err := NewFileWriter(tbl.Schema(), w, props)
	if err != nil {
		return err
	}

	if err := fw.WriteTable(tbl, chunkSize); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}

// FileWriter is an object for writing arrow records to a parquet file,
// each record becomes exactly one row group.
type FileWriter struct {
	wr     *file.Writer
	schema *arrow.Schema
	closed bool
}

// NewFileWriter returns a writer for arrow data with the given schema,
// writing to w. Closing the FileWriter closes w if it is an io.Closer.
func NewFileWriter(arrschema *arrow.Schema, w io.Writer, props *parquet.WriterProperties) (*FileWriter, error) {
	if props == nil {
		props = parquet.NewWriterProperties()
	}

	sc, err := ToParquet(arrschema, props)
	if err != nil {
		return nil, err
	}

	wr, err := file.NewParquetWriter(w, sc, file.WithWriterProps(props))
	if err != nil {
		return nil, err
	}
	return &FileWriter{wr: wr, schema: arrschema}, nil
}

// Schema returns the arrow schema the writer was created with.
func (fw *FileWriter) Schema() *arrow.Schema { return fw.schema }

// NumRows is the number of rows written so far.
func (fw *FileWriter) NumRows() int64 { return fw.wr.NumRows() }

// AppendKeyValueMetadata adds a key/value pair to the footer.
func (fw *FileWriter) AppendKeyValueMetadata(key, value string) error {
	return fw.wr.AppendKeyValueMetadata(key, value)
}

func (fw *FileWriter) checkRecord(rec arrow.Record) ([][]int32, error) {
	if !rec.Schema().Equal(fw.schema) {
		return nil, parquet.NewError(parquet.ErrType, "record schema does not match the file schema:\n%s\nvs\n%s", rec.Schema(), fw.schema)
	}

	out := make([][]int32, rec.NumCols())
	for i, col := range rec.Columns() {
		arr, ok := col.(*array.Int32)
		if !ok {
			return nil, parquet.NewError(parquet.ErrType, "column %d: expected an int32 array, got %s", i, col.DataType())
		}
		if arr.NullN() > 0 {
			return nil, parquet.NewError(parquet.ErrType, "column %d: %d null values in a required column", i, arr.NullN())
		}
		out[i] = arr.Int32Values()
	}
	return out, nil
}

// Write writes rec as a new row group. Records whose schema differs from the
// writer's, or with null values, are rejected with ErrType before anything is
// written.
func (fw *FileWriter) Write(rec arrow.Record) error {
	if fw.closed {
		return parquet.NewError(parquet.ErrState, "write on a closed FileWriter")
	}

	columns, err := fw.checkRecord(rec)
	if err != nil {
		return err
	}

	rgw, err := fw.wr.AppendRowGroup()
	if err != nil {
		return err
	}

	for _, values := range columns {
		cw, err := rgw.NextColumn()
		if err != nil {
			return err
		}
		if _, err := file.WriteBatch(cw, values); err != nil {
			return err
		}
		if err := cw.Close(); err != nil {
			return err
		}
	}
	return rgw.Close()
}

// WriteTable writes tbl in row groups of at most chunkSize rows. A chunkSize
// of zero or less uses the WriteBatchSize of the writer properties.
func (fw *FileWriter) WriteTable(tbl arrow.Table, chunkSize int64) error {
	if chunkSize <= 0 {
		chunkSize = fw.wr.Properties().WriteBatchSize()
	}

	tr := array.NewTableReader(tbl, chunkSize)
	defer tr.Release()

	for tr.Next() {
		if err := fw.Write(tr.Record()); err != nil {
			return err
		}
	}
	return tr.Err()
}

// Close writes the footer and closes the underlying sink.
func (fw *FileWriter) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true
	return fw.wr.Close()
}

// FileMetadata returns the footer written by Close.
func (fw *FileWriter) FileMetadata() (*metadata.FileMetaData, error) {
	return fw.wr.FileMetadata()
}
