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

package file_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/file"
	"github.com/pqlite/parquet/internal/encoding"
	"github.com/pqlite/parquet/internal/testutils"
	"github.com/pqlite/parquet/metadata"
	"github.com/pqlite/parquet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func makeSchema(t require.TestingT, ncols int) *schema.Schema {
	fields := make([]*schema.PrimitiveNode, ncols)
	for i := range fields {
		fields[i] = schema.MustPrimitive(schema.NewColumn("col"+strconv.Itoa(i), parquet.Types.Int32, parquet.Repetitions.Required))
	}
	sc, err := schema.FromColumns(fields...)
	require.NoError(t, err)
	return sc
}

// writeRowGroups writes data[rg][col] into a new in-memory file and returns
// its bytes.
func writeRowGroups(t require.TestingT, sc *schema.Schema, data [][][]int32, opts ...file.WriteOption) []byte {
	sink := encoding.NewBufferWriter(0, memory.DefaultAllocator)
	writer, err := file.NewParquetWriter(sink, sc, opts...)
	require.NoError(t, err)

	for _, rg := range data {
		rgw, err := writer.AppendRowGroup()
		require.NoError(t, err)
		for _, values := range rg {
			cw, err := rgw.NextColumn()
			require.NoError(t, err)
			require.NotNil(t, cw)
			n, err := cw.(*file.Int32ColumnChunkWriter).WriteBatch(values, nil, nil)
			require.NoError(t, err)
			require.EqualValues(t, len(values), n)
			require.NoError(t, cw.Close())
		}
		require.NoError(t, rgw.Close())
	}
	require.NoError(t, writer.Close())
	return sink.Bytes()
}

func readColumn(t require.TestingT, cr file.ColumnChunkReader, batch int) []int32 {
	rdr, ok := cr.(*file.Int32ColumnChunkReader)
	require.True(t, ok)

	out := make([]int32, 0)
	buf := make([]int32, batch)
	for {
		total, n, err := rdr.ReadBatch(int64(batch), buf, nil, nil)
		require.NoError(t, err)
		require.EqualValues(t, n, total)
		if n == 0 {
			break
		}
		out = append(out, buf[:n]...)
	}
	return out
}

type SerializeTestSuite struct {
	suite.Suite

	mem *memory.CheckedAllocator
	sc  *schema.Schema

	numCols      int
	numRowGroups int
	rowsPerRG    int
	rowsPerBatch int
}

func (t *SerializeTestSuite) SetupTest() {
	t.mem = memory.NewCheckedAllocator(memory.NewGoAllocator())
	t.numCols = 4
	t.numRowGroups = 4
	t.rowsPerRG = 50
	t.rowsPerBatch = 10
	t.sc = makeSchema(t.T(), t.numCols)
}

func (t *SerializeTestSuite) TearDownTest() {
	t.mem.AssertSize(t.T(), 0)
}

func (t *SerializeTestSuite) generateData() [][][]int32 {
	data := make([][][]int32, t.numRowGroups)
	for rg := range data {
		data[rg] = make([][]int32, t.numCols)
		for col := range data[rg] {
			data[rg][col] = testutils.RandomInt32(uint64(rg*t.numCols+col), t.rowsPerRG)
		}
	}
	return data
}

func (t *SerializeTestSuite) TestFileSerialize() {
	data := t.generateData()
	props := parquet.NewWriterProperties(parquet.WithAllocator(t.mem), parquet.WithBatchSize(int64(t.rowsPerBatch)))
	buf := writeRowGroups(t.T(), t.sc, data, file.WithWriterProps(props))

	reader, err := file.NewParquetReader(bytes.NewReader(buf), file.WithReadProps(parquet.NewReaderProperties(t.mem)))
	t.Require().NoError(err)
	defer reader.Close()

	t.True(t.sc.Equals(reader.MetaData().Schema()))
	t.Equal(t.numCols, reader.MetaData().Schema().NumColumns())
	t.Equal(t.numRowGroups, reader.NumRowGroups())
	t.EqualValues(t.numRowGroups*t.rowsPerRG, reader.NumRows())
	t.Equal(parquet.DefaultCreatedBy, reader.MetaData().CreatedBy())

	for rg := 0; rg < t.numRowGroups; rg++ {
		rgr, err := reader.RowGroup(rg)
		t.Require().NoError(err)
		t.Equal(t.numCols, rgr.NumColumns())
		t.EqualValues(t.rowsPerRG, rgr.NumRows())
		t.EqualValues(t.numCols*t.rowsPerRG*parquet.Int32SizeBytes, rgr.ByteSize())
		t.EqualValues(rg, rgr.MetaData().Ordinal())

		for col := 0; col < t.numCols; col++ {
			chunk, err := rgr.MetaData().ColumnChunk(col)
			t.Require().NoError(err)
			t.Equal("UNCOMPRESSED", chunk.Compression())
			t.Equal(t.sc.Column(col).Path(), chunk.PathInSchema().String())

			cr, err := rgr.Column(col)
			t.Require().NoError(err)
			t.Equal(parquet.Types.Int32, cr.Type())
			t.Equal(col, cr.Descriptor().Index())
			t.Equal(data[rg][col], readColumn(t.T(), cr, t.rowsPerBatch))
			t.False(cr.HasNext())
			t.NoError(cr.Err())
		}
	}
}

func (t *SerializeTestSuite) TestMagicBytes() {
	buf := writeRowGroups(t.T(), t.sc, t.generateData())
	t.Equal([]byte("PAR1"), buf[:4])
	t.Equal([]byte("PAR1"), buf[len(buf)-4:])
}

func (t *SerializeTestSuite) TestZeroRows() {
	sc := makeSchema(t.T(), 1)
	buf := writeRowGroups(t.T(), sc, [][][]int32{{{}}})

	reader, err := file.NewParquetReader(bytes.NewReader(buf), file.WithReadProps(parquet.NewReaderProperties(t.mem)))
	t.Require().NoError(err)
	t.Equal(1, reader.NumRowGroups())
	t.Zero(reader.NumRows())

	rgr, err := reader.RowGroup(0)
	t.Require().NoError(err)
	chunk, err := rgr.MetaData().ColumnChunk(0)
	t.Require().NoError(err)
	t.Zero(chunk.TotalCompressedSize())
	t.Zero(chunk.NumValues())

	cr, err := rgr.Column(0)
	t.Require().NoError(err)
	values := make([]int32, 8)
	total, n, err := cr.(*file.Int32ColumnChunkReader).ReadBatch(8, values, nil, nil)
	t.NoError(err)
	t.Zero(total)
	t.Zero(n)
	t.False(cr.HasNext())
}

func (t *SerializeTestSuite) TestNoRowGroups() {
	buf := writeRowGroups(t.T(), t.sc, nil)

	reader, err := file.NewParquetReader(bytes.NewReader(buf))
	t.Require().NoError(err)
	t.Zero(reader.NumRowGroups())
	_, err = reader.RowGroup(0)
	t.ErrorIs(err, parquet.ErrOutOfRange)
}

func (t *SerializeTestSuite) TestTooFewColumns() {
	writer, err := file.NewParquetWriter(encoding.NewBufferWriter(0, nil), t.sc)
	t.Require().NoError(err)

	rgw, err := writer.AppendRowGroup()
	t.Require().NoError(err)
	cw, err := rgw.NextColumn()
	t.Require().NoError(err)
	_, err = file.WriteBatch(cw, []int32{1, 2, 3})
	t.Require().NoError(err)
	t.Require().NoError(cw.Close())

	err = rgw.Close()
	t.ErrorIs(err, parquet.ErrState)
	// the session cannot be finished with an incomplete row group
	t.ErrorIs(writer.Close(), parquet.ErrState)
}

func (t *SerializeTestSuite) TestUnequalNumRows() {
	writer, err := file.NewParquetWriter(encoding.NewBufferWriter(0, nil), t.sc)
	t.Require().NoError(err)
	rgw, err := writer.AppendRowGroup()
	t.Require().NoError(err)

	for col := 0; col < t.numCols; col++ {
		cw, err := rgw.NextColumn()
		t.Require().NoError(err)
		_, err = file.WriteBatch(cw, make([]int32, 10+col%2))
		t.Require().NoError(err)
		t.Require().NoError(cw.Close())
	}

	_, err = rgw.NumRows()
	t.ErrorIs(err, parquet.ErrState)
	t.ErrorIs(rgw.Close(), parquet.ErrState)
}

func (t *SerializeTestSuite) TestColumnOrderProtocol() {
	writer, err := file.NewParquetWriter(encoding.NewBufferWriter(0, nil), t.sc)
	t.Require().NoError(err)
	rgw, err := writer.AppendRowGroup()
	t.Require().NoError(err)
	t.Equal(t.numCols, rgw.NumColumns())
	t.Equal(-1, rgw.CurrentColumn())

	cw, err := rgw.NextColumn()
	t.Require().NoError(err)
	t.Equal(0, rgw.CurrentColumn())
	t.Equal("col0", cw.Descr().Name())

	_, err = rgw.NextColumn()
	t.ErrorIs(err, parquet.ErrState)
	t.ErrorIs(rgw.Close(), parquet.ErrState)

	t.Require().NoError(cw.Close())
	for col := 1; col < t.numCols; col++ {
		cw, err := rgw.NextColumn()
		t.Require().NoError(err)
		t.Equal("col"+strconv.Itoa(col), cw.Descr().Name())
		t.Require().NoError(cw.Close())
	}

	cw, err = rgw.NextColumn()
	t.NoError(err)
	t.Nil(cw)

	t.NoError(rgw.Close())
	t.ErrorIs(rgw.Close(), parquet.ErrState)
	_, err = rgw.NextColumn()
	t.ErrorIs(err, parquet.ErrState)
	t.NoError(writer.Close())
}

func (t *SerializeTestSuite) TestWriteAfterClose() {
	writer, err := file.NewParquetWriter(encoding.NewBufferWriter(0, nil), t.sc)
	t.Require().NoError(err)
	rgw, err := writer.AppendRowGroup()
	t.Require().NoError(err)
	cw, err := rgw.NextColumn()
	t.Require().NoError(err)

	i32 := cw.(*file.Int32ColumnChunkWriter)
	_, err = i32.WriteBatch([]int32{1}, nil, nil)
	t.NoError(err)
	t.EqualValues(4, cw.TotalCompressedBytes())
	t.Zero(cw.TotalBytesWritten())
	t.NoError(cw.Close())
	t.EqualValues(4, cw.TotalBytesWritten())
	t.Equal(1, cw.RowsWritten())

	_, err = i32.WriteBatch([]int32{2}, nil, nil)
	t.ErrorIs(err, parquet.ErrState)
	t.ErrorIs(cw.Close(), parquet.ErrState)
}

func (t *SerializeTestSuite) TestLevelsRejected() {
	writer, err := file.NewParquetWriter(encoding.NewBufferWriter(0, nil), t.sc)
	t.Require().NoError(err)
	rgw, err := writer.AppendRowGroup()
	t.Require().NoError(err)
	cw, err := rgw.NextColumn()
	t.Require().NoError(err)

	i32 := cw.(*file.Int32ColumnChunkWriter)
	_, err = i32.WriteBatch([]int32{1}, []int16{1}, nil)
	t.ErrorIs(err, parquet.ErrType)
	_, err = i32.WriteBatch([]int32{1}, nil, []int16{0})
	t.ErrorIs(err, parquet.ErrType)
	t.Zero(cw.RowsWritten())

	_, err = file.WriteBatch(cw, []int64{1})
	t.ErrorIs(err, parquet.ErrType)
	_, err = file.WriteBatch(cw, "1")
	t.ErrorIs(err, parquet.ErrType)
	_, err = file.WriteBatch(nil, []int32{1})
	t.ErrorIs(err, parquet.ErrState)
}

func (t *SerializeTestSuite) TestSecondRowGroupWhileOpen() {
	writer, err := file.NewParquetWriter(encoding.NewBufferWriter(0, nil), t.sc)
	t.Require().NoError(err)

	_, err = writer.AppendRowGroup()
	t.Require().NoError(err)
	_, err = writer.AppendRowGroup()
	t.ErrorIs(err, parquet.ErrState)
	t.Equal(1, writer.NumRowGroups())
}

func (t *SerializeTestSuite) TestCloseFinishesRowGroup() {
	sink := encoding.NewBufferWriter(0, nil)
	writer, err := file.NewParquetWriter(sink, t.sc)
	t.Require().NoError(err)
	t.Equal(t.numCols, writer.NumColumns())

	rgw, err := writer.AppendRowGroup()
	t.Require().NoError(err)
	for col := 0; col < t.numCols; col++ {
		cw, err := rgw.NextColumn()
		t.Require().NoError(err)
		_, err = file.WriteBatch(cw, []int32{int32(col), int32(col)})
		t.Require().NoError(err)
		t.Require().NoError(cw.Close())
	}

	t.Zero(writer.NumRows())
	_, err = writer.FileMetadata()
	t.ErrorIs(err, parquet.ErrState)

	t.NoError(writer.Close())
	t.EqualValues(2, writer.NumRows())
	t.Equal(1, writer.NumRowGroups())
	md, err := writer.FileMetadata()
	t.Require().NoError(err)
	t.EqualValues(2, md.NumRows())

	t.ErrorIs(writer.Close(), parquet.ErrState)
	_, err = writer.AppendRowGroup()
	t.ErrorIs(err, parquet.ErrState)
	t.ErrorIs(writer.AppendKeyValueMetadata("k", "v"), parquet.ErrState)

	reader, err := file.NewParquetReader(bytes.NewReader(sink.Bytes()))
	t.Require().NoError(err)
	t.EqualValues(2, reader.NumRows())
}

func (t *SerializeTestSuite) TestKeyValueMetadata() {
	kv := metadata.NewKeyValueMetadata()
	kv.Append("writer", "test")

	sink := encoding.NewBufferWriter(0, nil)
	props := parquet.NewWriterProperties(parquet.WithCreatedBy("serialize test"))
	writer, err := file.NewParquetWriter(sink, t.sc, file.WithWriterProps(props), file.WithWriteMetadata(kv))
	t.Require().NoError(err)
	t.Same(props, writer.Properties())
	t.NoError(writer.AppendKeyValueMetadata("extra", "value"))
	t.NoError(writer.Close())

	reader, err := file.NewParquetReader(bytes.NewReader(sink.Bytes()))
	t.Require().NoError(err)
	md := reader.MetaData()
	t.Equal("serialize test", md.CreatedBy())
	t.Equal([]string{"writer", "extra"}, md.KeyValueMetadata().Keys())
	t.Equal([]string{"test", "value"}, md.KeyValueMetadata().Values())
}

func TestSerialize(t *testing.T) {
	suite.Run(t, new(SerializeTestSuite))
}

type errSink struct {
	limit   int
	written int
	closed  bool
}

func (e *errSink) Write(p []byte) (int, error) {
	if e.written+len(p) > e.limit {
		return 0, errors.New("disk full")
	}
	e.written += len(p)
	return len(p), nil
}

func (e *errSink) Close() error {
	e.closed = true
	return nil
}

func TestSinkClosedOnMagicFailure(t *testing.T) {
	sink := &errSink{}
	_, err := file.NewParquetWriter(sink, makeSchema(t, 1))
	assert.ErrorIs(t, err, parquet.ErrIO)
	assert.True(t, sink.closed)
}

func TestSinkClosedOnWriteFailure(t *testing.T) {
	sink := &errSink{limit: 8}
	writer, err := file.NewParquetWriter(sink, makeSchema(t, 1))
	require.NoError(t, err)

	rgw, err := writer.AppendRowGroup()
	require.NoError(t, err)
	cw, err := rgw.NextColumn()
	require.NoError(t, err)
	_, err = file.WriteBatch(cw, []int32{1, 2, 3})
	require.NoError(t, err)
	assert.ErrorIs(t, cw.Close(), parquet.ErrIO)

	assert.Error(t, writer.Close())
	assert.True(t, sink.closed)
}

func TestNilSchema(t *testing.T) {
	sink := &errSink{limit: 100}
	_, err := file.NewParquetWriter(sink, nil)
	assert.ErrorIs(t, err, parquet.ErrSchema)
	assert.True(t, sink.closed)
}

func TestCreateParquetFileBadPath(t *testing.T) {
	_, err := file.CreateParquetFile(filepath.Join(t.TempDir(), "missing", "test.parquet"), makeSchema(t, 1))
	assert.ErrorIs(t, err, parquet.ErrIO)
}

func TestRowGroupLimit(t *testing.T) {
	writer, err := file.NewParquetWriter(io.Discard, makeSchema(t, 1))
	require.NoError(t, err)

	for i := 0; i < math.MaxInt16; i++ {
		rgw, err := writer.AppendRowGroup()
		require.NoError(t, err)
		cw, err := rgw.NextColumn()
		require.NoError(t, err)
		require.NoError(t, cw.Close())
		require.NoError(t, rgw.Close())
	}

	_, err = writer.AppendRowGroup()
	assert.ErrorIs(t, err, parquet.ErrState)
	assert.Equal(t, math.MaxInt16, writer.NumRowGroups())
	assert.NoError(t, writer.Close())
}

func TestWriteBatchLargerThanBatchSize(t *testing.T) {
	props := parquet.NewWriterProperties(parquet.WithBatchSize(2))
	values := []int32{5, 4, 3, 2, 1}
	buf := writeRowGroups(t, makeSchema(t, 1), [][][]int32{{values}}, file.WithWriterProps(props))

	reader, err := file.NewParquetReader(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, 1, reader.NumRowGroups())
	rgr, err := reader.RowGroup(0)
	require.NoError(t, err)
	cr, err := rgr.Column(0)
	require.NoError(t, err)
	assert.Equal(t, values, readColumn(t, cr, 8))
}
