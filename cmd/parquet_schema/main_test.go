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
	"os"
	"path/filepath"
	"testing"

	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/file"
	"github.com/pqlite/parquet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSchema(t *testing.T) {
	sc, err := schema.FromColumns(
		schema.MustPrimitive(schema.NewColumn("a", parquet.Types.Int32, parquet.Repetitions.Required)),
		schema.MustPrimitive(schema.NewPrimitiveNode("b", parquet.Repetitions.Required, parquet.Types.Int32, 7)),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schema.parquet")
	wr, err := file.CreateParquetFile(path, sc)
	require.NoError(t, err)
	require.NoError(t, wr.Close())

	var out bytes.Buffer
	require.NoError(t, run([]string{path}, &out))
	assert.Equal(t, "message schema {\n  required int32 a;\n  required int32 b = 7;\n}\n", out.String())
}

func TestPrintSchemaErrors(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{filepath.Join(t.TempDir(), "missing.parquet")}, &out)
	assert.ErrorIs(t, err, parquet.ErrIO)

	path := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(path, []byte("not a parquet file"), 0o644))
	err = run([]string{path}, &out)
	assert.ErrorIs(t, err, parquet.ErrFormat)
	assert.Zero(t, out.Len())
}
