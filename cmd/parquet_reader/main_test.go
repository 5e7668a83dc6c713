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

package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/file"
	"github.com/pqlite/parquet/metadata"
	"github.com/pqlite/parquet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testData = [][][]int32{
	{{1, 2, 3}, {10, 20, 30}, {-1, -2, -3}},
	{{4}, {40}, {-4}},
}

func writeTestFile(t *testing.T) string {
	fields := make([]*schema.PrimitiveNode, len(testData[0]))
	for i := range fields {
		fields[i] = schema.MustPrimitive(schema.NewColumn("col"+strconv.Itoa(i), parquet.Types.Int32, parquet.Repetitions.Required))
	}
	sc, err := schema.FromColumns(fields...)
	require.NoError(t, err)

	kv := metadata.NewKeyValueMetadata()
	kv.Append("origin", "cli-test")

	path := filepath.Join(t.TempDir(), "data.parquet")
	wr, err := file.CreateParquetFile(path, sc, file.WithWriteMetadata(kv))
	require.NoError(t, err)
	for _, rg := range testData {
		rgw, err := wr.AppendRowGroup()
		require.NoError(t, err)
		for _, values := range rg {
			cw, err := rgw.NextColumn()
			require.NoError(t, err)
			_, err = cw.(*file.Int32ColumnChunkWriter).WriteBatch(values, nil, nil)
			require.NoError(t, err)
			require.NoError(t, cw.Close())
		}
		require.NoError(t, rgw.Close())
	}
	require.NoError(t, wr.Close())
	return path
}

func runReader(t *testing.T, args ...string) string {
	var out bytes.Buffer
	require.NoError(t, run(args, &out))
	return out.String()
}

func TestTextOutput(t *testing.T) {
	path := writeTestFile(t)

	for _, mmap := range []bool{true, false} {
		args := []string{"--print-key-value-metadata", path}
		if !mmap {
			args = append([]string{"--no-memory-map"}, args...)
		}
		out := runReader(t, args...)

		assert.Contains(t, out, "File name: "+path+"\n")
		assert.Contains(t, out, "Num Rows: 4\n")
		assert.Contains(t, out, "Key nr 0 origin: cli-test\n")
		assert.Contains(t, out, "Number of RowGroups: 2\n")
		assert.Contains(t, out, "Number of Columns: 3\n")
		assert.Contains(t, out, "Number of Selected Columns: 3\n")
		assert.Contains(t, out, "Column 1: col1 (INT32)\n")
		assert.Contains(t, out, "--- Rows: 3  ---\n")
		assert.Contains(t, out, "--- Rows: 1  ---\n")
		assert.Contains(t, out, "Compression: UNCOMPRESSED")
		assert.Contains(t, out, fmt.Sprintf("%-18s|%-18s|%-18s|\n", "col0", "col1", "col2"))
		for _, rg := range testData {
			for row := range rg[0] {
				line := fmt.Sprintf("%-18d|%-18d|%-18d|\n", rg[0][row], rg[1][row], rg[2][row])
				assert.Contains(t, out, line)
			}
		}
	}
}

func TestTextOutputColumnsAndMetadataOnly(t *testing.T) {
	path := writeTestFile(t)

	out := runReader(t, "--columns=2", path)
	assert.Contains(t, out, "Number of Selected Columns: 1\n")
	assert.Contains(t, out, "Column 2: col2 (INT32)\n")
	assert.NotContains(t, out, "Column 0: col0")
	assert.NotContains(t, out, "Key nr 0")
	assert.Contains(t, out, fmt.Sprintf("%-18d|\n", -3))
	assert.NotContains(t, out, fmt.Sprintf("%-18d|", 20))

	out = runReader(t, "--only-metadata", path)
	assert.Contains(t, out, "Number of RowGroups: 2\n")
	assert.Contains(t, out, " Values: 3\n")
	assert.NotContains(t, out, "--- Values ---")
	assert.NotContains(t, out, fmt.Sprintf("%-18d|", 10))
}

func TestJSONOutput(t *testing.T) {
	path := writeTestFile(t)

	var info fileInfo
	require.NoError(t, json.Unmarshal([]byte(runReader(t, "--json", path)), &info))

	assert.Equal(t, path, info.FileName)
	assert.Equal(t, int(parquet.CurrentVersion), info.Version)
	assert.Equal(t, parquet.DefaultCreatedBy, info.CreatedBy)
	assert.EqualValues(t, 4, info.TotalRows)
	assert.Equal(t, 2, info.NumRowGroups)
	assert.Equal(t, 3, info.NumColumns)
	assert.Equal(t, map[string]string{"origin": "cli-test"}, info.KeyValueMetadata)
	assert.Equal(t, []columnInfo{
		{ID: 0, Name: "col0", PhysicalType: "INT32"},
		{ID: 1, Name: "col1", PhysicalType: "INT32"},
		{ID: 2, Name: "col2", PhysicalType: "INT32"},
	}, info.Columns)

	require.Len(t, info.RowGroups, len(testData))
	for r, rg := range info.RowGroups {
		assert.Equal(t, r, rg.ID)
		assert.EqualValues(t, len(testData[r][0]), rg.Rows)
		require.Len(t, rg.ColumnChunks, 3)
		for c, chunk := range rg.ColumnChunks {
			assert.Equal(t, testData[r][c], chunk.Data)
			assert.EqualValues(t, len(testData[r][c]), chunk.Values)
			assert.Equal(t, "UNCOMPRESSED", chunk.Compression)
			assert.NotEmpty(t, chunk.Encodings)
			assert.Len(t, chunk.Checksum, 16)
		}
	}
}

func TestJSONOutputColumnsAndMetadataOnly(t *testing.T) {
	path := writeTestFile(t)

	var info fileInfo
	require.NoError(t, json.Unmarshal([]byte(runReader(t, "--json", "--columns=1,2", path)), &info))
	assert.Equal(t, 3, info.NumColumns)
	require.Len(t, info.Columns, 2)
	assert.Equal(t, 1, info.Columns[0].ID)
	assert.Equal(t, "col2", info.Columns[1].Name)
	require.Len(t, info.RowGroups, 2)
	require.Len(t, info.RowGroups[0].ColumnChunks, 2)
	assert.Equal(t, []int32{10, 20, 30}, info.RowGroups[0].ColumnChunks[0].Data)
	assert.Equal(t, []int32{-4}, info.RowGroups[1].ColumnChunks[1].Data)

	info = fileInfo{}
	require.NoError(t, json.Unmarshal([]byte(runReader(t, "--json", "--only-metadata", path)), &info))
	require.Len(t, info.RowGroups, 2)
	for _, rg := range info.RowGroups {
		require.Len(t, rg.ColumnChunks, 3)
		for _, chunk := range rg.ColumnChunks {
			assert.Nil(t, chunk.Data)
			assert.NotZero(t, chunk.Values)
		}
	}
}

func TestRunErrors(t *testing.T) {
	path := writeTestFile(t)

	var out bytes.Buffer
	assert.Error(t, run([]string{"--columns=3", path}, &out))
	assert.Error(t, run([]string{"--columns=-1", path}, &out))
	assert.Error(t, run([]string{"--columns=a", path}, &out))

	err := run([]string{filepath.Join(t.TempDir(), "missing.parquet")}, &out)
	assert.ErrorIs(t, err, parquet.ErrIO)
}
