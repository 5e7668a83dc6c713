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
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/file"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 1024

// ReadTable is a convenience function to quickly and easily read a parquet
// file into an arrow table.
//
// The schema of the arrow table is generated with FromParquet.
func ReadTable(ctx context.Context, r parquet.ReaderAtSeeker, props *parquet.ReaderProperties, mem memory.Allocator) (arrow.Table, error) {
	pf, err := file.NewParquetReader(r, file.WithReadProps(props))
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	reader, err := NewFileReader(pf, mem)
	if err != nil {
		return nil, err
	}
	return reader.ReadTable(ctx)
}

// FileReader is the base object for reading a parquet file into arrow
// chunked arrays, one chunk per row group.
type FileReader struct {
	mem    memory.Allocator
	rdr    *file.Reader
	schema *arrow.Schema
}

// NewFileReader constructs a reader for converting to Arrow objects from an
// existing parquet file reader object. If mem is nil the default allocator
// is used.
func NewFileReader(rdr *file.Reader, mem memory.Allocator) (*FileReader, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	sc, err := FromParquet(rdr.MetaData().Schema())
	if err != nil {
		return nil, err
	}
	return &FileReader{mem: mem, rdr: rdr, schema: sc}, nil
}

// Schema returns the arrow schema of the file.
func (fr *FileReader) Schema() *arrow.Schema { return fr.schema }

// ParquetReader returns the underlying parquet file reader.
func (fr *FileReader) ParquetReader() *file.Reader { return fr.rdr }

func (fr *FileReader) readChunk(rg, col int) (arrow.Array, error) {
	rgr, err := fr.rdr.RowGroup(rg)
	if err != nil {
		return nil, err
	}
	cr, err := rgr.Column(col)
	if err != nil {
		return nil, err
	}
	rdr, ok := cr.(*file.Int32ColumnChunkReader)
	if !ok {
		return nil, parquet.NewError(parquet.ErrType, "column %d has no arrow reader for type %s", col, cr.Type())
	}

	bldr := array.NewInt32Builder(fr.mem)
	defer bldr.Release()
	bldr.Reserve(int(rgr.NumRows()))

	buf := make([]int32, defaultBatchSize)
	for {
		_, n, err := rdr.ReadBatch(defaultBatchSize, buf, nil, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		bldr.AppendValues(buf[:n], nil)
	}

	if int64(bldr.Len()) != rgr.NumRows() {
		return nil, parquet.NewError(parquet.ErrFormat, "row group %d column %d: read %d values, expected %d", rg, col, bldr.Len(), rgr.NumRows())
	}
	return bldr.NewInt32Array(), nil
}

// ReadColumn reads column i of every row group, concurrently, into a chunked
// array with one chunk per row group.
func (fr *FileReader) ReadColumn(ctx context.Context, i int) (*arrow.Chunked, error) {
	if i < 0 || i >= fr.schema.NumFields() {
		return nil, parquet.NewError(parquet.ErrOutOfRange, "invalid column index %d, file has %d columns", i, fr.schema.NumFields())
	}

	chunks := make([]arrow.Array, fr.rdr.NumRowGroups())
	defer func() {
		for _, c := range chunks {
			if c != nil {
				c.Release()
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for rg := range chunks {
		rg := rg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			arr, err := fr.readChunk(rg, i)
			if err != nil {
				return err
			}
			chunks[rg] = arr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return arrow.NewChunked(fr.schema.Field(i).Type, chunks), nil
}

// ReadTable reads every column of the file into an arrow table.
func (fr *FileReader) ReadTable(ctx context.Context) (arrow.Table, error) {
	cols := make([]arrow.Column, 0, fr.schema.NumFields())
	defer func() {
		for i := range cols {
			cols[i].Release()
		}
	}()

	for i := 0; i < fr.schema.NumFields(); i++ {
		chunked, err := fr.ReadColumn(ctx, i)
		if err != nil {
			return nil, err
		}
		cols = append(cols, *arrow.NewColumn(fr.schema.Field(i), chunked))
		chunked.Release()
	}

	return array.NewTable(fr.schema, cols, fr.rdr.NumRows()), nil
}
