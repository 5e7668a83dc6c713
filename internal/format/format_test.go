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

package format_test

import (
	"bytes"
	"testing"

	"github.com/pqlite/parquet/internal/format"
	"github.com/pqlite/parquet/internal/thrift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFileMetaData() *format.FileMetaData {
	nchildren := int32(1)
	offset := int64(4)
	ordinal := int16(0)
	checksum := int64(-42)
	createdBy := "pqlite test"
	value := "v"

	return &format.FileMetaData{
		Version: 1,
		Schema: []*format.SchemaElement{
			{Name: "schema", RepetitionType: format.FieldRepetitionTypePtr(format.FieldRepetitionType_REQUIRED), NumChildren: &nchildren},
			{Name: "b", Type: format.TypePtr(format.Type_INT32), RepetitionType: format.FieldRepetitionTypePtr(format.FieldRepetitionType_REQUIRED)},
		},
		NumRows: 3,
		RowGroups: []*format.RowGroup{{
			Columns: []*format.ColumnChunk{{
				FileOffset: 4,
				MetaData: &format.ColumnMetaData{
					Type:                  format.Type_INT32,
					Encodings:             []format.Encoding{format.Encoding_PLAIN},
					PathInSchema:          []string{"b"},
					Codec:                 format.CompressionCodec_UNCOMPRESSED,
					NumValues:             3,
					TotalUncompressedSize: 12,
					TotalCompressedSize:   12,
					DataPageOffset:        4,
					Checksum:              &checksum,
				},
			}},
			TotalByteSize:       12,
			NumRows:             3,
			FileOffset:          &offset,
			TotalCompressedSize: &offset,
			Ordinal:             &ordinal,
		}},
		KeyValueMetadata: []*format.KeyValue{{Key: "k", Value: &value}},
		CreatedBy:        &createdBy,
	}
}

func TestFileMetaDataRoundTrip(t *testing.T) {
	meta := sampleFileMetaData()

	var buf bytes.Buffer
	n, err := thrift.NewThriftSerializer().Serialize(meta, &buf)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	out := format.NewFileMetaData()
	remain, err := thrift.DeserializeThrift(out, buf.Bytes())
	require.NoError(t, err)
	assert.Zero(t, remain)
	assert.Equal(t, meta, out)
}

func TestStreamSerialization(t *testing.T) {
	meta := sampleFileMetaData()

	var buf bytes.Buffer
	require.NoError(t, thrift.SerializeThriftStream(meta, &buf))

	out := format.NewFileMetaData()
	require.NoError(t, thrift.DeserializeThriftStream(out, &buf))
	assert.Equal(t, meta, out)
}

func TestMissingRequiredField(t *testing.T) {
	kv := &format.KeyValue{Key: "only key"}
	var buf bytes.Buffer
	_, err := thrift.NewThriftSerializer().Serialize(kv, &buf)
	require.NoError(t, err)

	// a key value parses as a schema element field-wise, but without a name
	elem := &format.SchemaElement{}
	_, err = thrift.DeserializeThrift(elem, buf.Bytes())
	assert.Error(t, err)
}

func TestTruncatedFooter(t *testing.T) {
	var buf bytes.Buffer
	_, err := thrift.NewThriftSerializer().Serialize(sampleFileMetaData(), &buf)
	require.NoError(t, err)

	out := format.NewFileMetaData()
	_, err = thrift.DeserializeThrift(out, buf.Bytes()[:buf.Len()/2])
	assert.Error(t, err)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "INT32", format.Type_INT32.String())
	assert.Equal(t, "REQUIRED", format.FieldRepetitionType_REQUIRED.String())
	assert.Equal(t, "PLAIN", format.Encoding_PLAIN.String())
	assert.Equal(t, "UNCOMPRESSED", format.CompressionCodec_UNCOMPRESSED.String())
	assert.Equal(t, "Type(42)", format.Type(42).String())
}
