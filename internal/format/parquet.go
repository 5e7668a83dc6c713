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

package format

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// SchemaElement is one node of the flattened schema tree, stored depth first
// with the root first.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	FieldID        *int32
}

func (p *SchemaElement) IsSetType() bool           { return p.Type != nil }
func (p *SchemaElement) IsSetRepetitionType() bool { return p.RepetitionType != nil }
func (p *SchemaElement) IsSetNumChildren() bool    { return p.NumChildren != nil }
func (p *SchemaElement) IsSetFieldID() bool        { return p.FieldID != nil }

func (p *SchemaElement) GetType() Type {
	if p.Type == nil {
		return 0
	}
	return *p.Type
}

func (p *SchemaElement) GetRepetitionType() FieldRepetitionType {
	if p.RepetitionType == nil {
		return 0
	}
	return *p.RepetitionType
}

func (p *SchemaElement) GetNumChildren() int32 {
	if p.NumChildren == nil {
		return 0
	}
	return *p.NumChildren
}

func (p *SchemaElement) GetFieldID() int32 {
	if p.FieldID == nil {
		return 0
	}
	return *p.FieldID
}

func (p *SchemaElement) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var issetName bool
	err := readStruct(ctx, iprot, p, func(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.Type = TypePtr(Type(v))
			return true, err
		case id == 2 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.TypeLength = &v
			return true, err
		case id == 3 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.RepetitionType = FieldRepetitionTypePtr(FieldRepetitionType(v))
			return true, err
		case id == 4 && typ == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			p.Name, issetName = v, true
			return true, err
		case id == 5 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.NumChildren = &v
			return true, err
		case id == 9 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.FieldID = &v
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !issetName {
		return missingField(p, "Name")
	}
	return nil
}

func (p *SchemaElement) Write(ctx context.Context, oprot thrift.TProtocol) error {
	w := newStructWriter(ctx, oprot, "SchemaElement")
	if p.Type != nil {
		w.i32("type", 1, int32(*p.Type))
	}
	if p.TypeLength != nil {
		w.i32("type_length", 2, *p.TypeLength)
	}
	if p.RepetitionType != nil {
		w.i32("repetition_type", 3, int32(*p.RepetitionType))
	}
	w.str("name", 4, p.Name)
	if p.NumChildren != nil {
		w.i32("num_children", 5, *p.NumChildren)
	}
	if p.FieldID != nil {
		w.i32("field_id", 9, *p.FieldID)
	}
	return w.finish()
}

// ColumnMetaData describes the location and content of one column chunk.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	DataPageOffset        int64
	// Checksum is the xxh3-64 digest of the chunk bytes. It is stored under a
	// field id parquet.thrift does not use.
	Checksum *int64
}

// NewColumnMetaData returns an empty ColumnMetaData.
func NewColumnMetaData() *ColumnMetaData { return &ColumnMetaData{} }

func (p *ColumnMetaData) IsSetChecksum() bool { return p.Checksum != nil }

func (p *ColumnMetaData) GetChecksum() int64 {
	if p.Checksum == nil {
		return 0
	}
	return *p.Checksum
}

func (p *ColumnMetaData) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var issetType, issetEncodings, issetPath, issetCodec, issetNumValues, issetOffset bool
	err := readStruct(ctx, iprot, p, func(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.Type, issetType = Type(v), true
			return true, err
		case id == 2 && typ == thrift.LIST:
			issetEncodings = true
			p.Encodings = p.Encodings[:0]
			_, err := readList(ctx, iprot, thrift.I32, func(int) error {
				v, err := iprot.ReadI32(ctx)
				p.Encodings = append(p.Encodings, Encoding(v))
				return err
			})
			return true, err
		case id == 3 && typ == thrift.LIST:
			issetPath = true
			p.PathInSchema = p.PathInSchema[:0]
			_, err := readList(ctx, iprot, thrift.STRING, func(int) error {
				v, err := iprot.ReadString(ctx)
				p.PathInSchema = append(p.PathInSchema, v)
				return err
			})
			return true, err
		case id == 4 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.Codec, issetCodec = CompressionCodec(v), true
			return true, err
		case id == 5 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.NumValues, issetNumValues = v, true
			return true, err
		case id == 6 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.TotalUncompressedSize = v
			return true, err
		case id == 7 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.TotalCompressedSize = v
			return true, err
		case id == 9 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.DataPageOffset, issetOffset = v, true
			return true, err
		case id == 100 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.Checksum = &v
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	switch {
	case !issetType:
		return missingField(p, "Type")
	case !issetEncodings:
		return missingField(p, "Encodings")
	case !issetPath:
		return missingField(p, "PathInSchema")
	case !issetCodec:
		return missingField(p, "Codec")
	case !issetNumValues:
		return missingField(p, "NumValues")
	case !issetOffset:
		return missingField(p, "DataPageOffset")
	}
	return nil
}

func (p *ColumnMetaData) Write(ctx context.Context, oprot thrift.TProtocol) error {
	w := newStructWriter(ctx, oprot, "ColumnMetaData")
	w.i32("type", 1, int32(p.Type))
	w.list("encodings", 2, thrift.I32, len(p.Encodings), func(i int) error {
		return oprot.WriteI32(ctx, int32(p.Encodings[i]))
	})
	w.list("path_in_schema", 3, thrift.STRING, len(p.PathInSchema), func(i int) error {
		return oprot.WriteString(ctx, p.PathInSchema[i])
	})
	w.i32("codec", 4, int32(p.Codec))
	w.i64("num_values", 5, p.NumValues)
	w.i64("total_uncompressed_size", 6, p.TotalUncompressedSize)
	w.i64("total_compressed_size", 7, p.TotalCompressedSize)
	w.i64("data_page_offset", 9, p.DataPageOffset)
	if p.Checksum != nil {
		w.i64("checksum", 100, *p.Checksum)
	}
	return w.finish()
}

// ColumnChunk is the footer entry for one column of a row group.
type ColumnChunk struct {
	FilePath   *string
	FileOffset int64
	MetaData   *ColumnMetaData
}

func (p *ColumnChunk) IsSetMetaData() bool { return p.MetaData != nil }

func (p *ColumnChunk) GetMetaData() *ColumnMetaData { return p.MetaData }

func (p *ColumnChunk) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var issetOffset bool
	err := readStruct(ctx, iprot, p, func(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			p.FilePath = &v
			return true, err
		case id == 2 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.FileOffset, issetOffset = v, true
			return true, err
		case id == 3 && typ == thrift.STRUCT:
			p.MetaData = NewColumnMetaData()
			return true, p.MetaData.Read(ctx, iprot)
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !issetOffset {
		return missingField(p, "FileOffset")
	}
	return nil
}

func (p *ColumnChunk) Write(ctx context.Context, oprot thrift.TProtocol) error {
	w := newStructWriter(ctx, oprot, "ColumnChunk")
	if p.FilePath != nil {
		w.str("file_path", 1, *p.FilePath)
	}
	w.i64("file_offset", 2, p.FileOffset)
	if p.MetaData != nil {
		w.structField("meta_data", 3, p.MetaData)
	}
	return w.finish()
}

// RowGroup is the footer entry for one row group.
type RowGroup struct {
	Columns             []*ColumnChunk
	TotalByteSize       int64
	NumRows             int64
	FileOffset          *int64
	TotalCompressedSize *int64
	Ordinal             *int16
}

func (p *RowGroup) GetColumns() []*ColumnChunk { return p.Columns }
func (p *RowGroup) GetTotalByteSize() int64    { return p.TotalByteSize }
func (p *RowGroup) GetNumRows() int64          { return p.NumRows }

func (p *RowGroup) GetFileOffset() int64 {
	if p.FileOffset == nil {
		return 0
	}
	return *p.FileOffset
}

func (p *RowGroup) GetTotalCompressedSize() int64 {
	if p.TotalCompressedSize == nil {
		return 0
	}
	return *p.TotalCompressedSize
}

func (p *RowGroup) GetOrdinal() int16 {
	if p.Ordinal == nil {
		return 0
	}
	return *p.Ordinal
}

func (p *RowGroup) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var issetColumns, issetByteSize, issetNumRows bool
	err := readStruct(ctx, iprot, p, func(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.LIST:
			issetColumns = true
			p.Columns = p.Columns[:0]
			_, err := readList(ctx, iprot, thrift.STRUCT, func(int) error {
				col := &ColumnChunk{}
				p.Columns = append(p.Columns, col)
				return col.Read(ctx, iprot)
			})
			return true, err
		case id == 2 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.TotalByteSize, issetByteSize = v, true
			return true, err
		case id == 3 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.NumRows, issetNumRows = v, true
			return true, err
		case id == 5 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.FileOffset = &v
			return true, err
		case id == 6 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.TotalCompressedSize = &v
			return true, err
		case id == 7 && typ == thrift.I16:
			v, err := iprot.ReadI16(ctx)
			p.Ordinal = &v
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	switch {
	case !issetColumns:
		return missingField(p, "Columns")
	case !issetByteSize:
		return missingField(p, "TotalByteSize")
	case !issetNumRows:
		return missingField(p, "NumRows")
	}
	return nil
}

func (p *RowGroup) Write(ctx context.Context, oprot thrift.TProtocol) error {
	w := newStructWriter(ctx, oprot, "RowGroup")
	w.list("columns", 1, thrift.STRUCT, len(p.Columns), func(i int) error {
		return p.Columns[i].Write(ctx, oprot)
	})
	w.i64("total_byte_size", 2, p.TotalByteSize)
	w.i64("num_rows", 3, p.NumRows)
	if p.FileOffset != nil {
		w.i64("file_offset", 5, *p.FileOffset)
	}
	if p.TotalCompressedSize != nil {
		w.i64("total_compressed_size", 6, *p.TotalCompressedSize)
	}
	if p.Ordinal != nil {
		w.i16("ordinal", 7, *p.Ordinal)
	}
	return w.finish()
}

// KeyValue is an application defined metadata entry.
type KeyValue struct {
	Key   string
	Value *string
}

func (p *KeyValue) GetValue() string {
	if p.Value == nil {
		return ""
	}
	return *p.Value
}

func (p *KeyValue) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var issetKey bool
	err := readStruct(ctx, iprot, p, func(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			p.Key, issetKey = v, true
			return true, err
		case id == 2 && typ == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			p.Value = &v
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !issetKey {
		return missingField(p, "Key")
	}
	return nil
}

func (p *KeyValue) Write(ctx context.Context, oprot thrift.TProtocol) error {
	w := newStructWriter(ctx, oprot, "KeyValue")
	w.str("key", 1, p.Key)
	if p.Value != nil {
		w.str("value", 2, *p.Value)
	}
	return w.finish()
}

// FileMetaData is the footer of a file.
type FileMetaData struct {
	Version          int32
	Schema           []*SchemaElement
	NumRows          int64
	RowGroups        []*RowGroup
	KeyValueMetadata []*KeyValue
	CreatedBy        *string
}

// NewFileMetaData returns an empty FileMetaData.
func NewFileMetaData() *FileMetaData { return &FileMetaData{} }

func (p *FileMetaData) IsSetCreatedBy() bool { return p.CreatedBy != nil }

func (p *FileMetaData) GetCreatedBy() string {
	if p.CreatedBy == nil {
		return ""
	}
	return *p.CreatedBy
}

func (p *FileMetaData) GetKeyValueMetadata() []*KeyValue { return p.KeyValueMetadata }

func (p *FileMetaData) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var issetVersion, issetSchema, issetNumRows, issetRowGroups bool
	err := readStruct(ctx, iprot, p, func(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			p.Version, issetVersion = v, true
			return true, err
		case id == 2 && typ == thrift.LIST:
			issetSchema = true
			p.Schema = p.Schema[:0]
			_, err := readList(ctx, iprot, thrift.STRUCT, func(int) error {
				elem := &SchemaElement{}
				p.Schema = append(p.Schema, elem)
				return elem.Read(ctx, iprot)
			})
			return true, err
		case id == 3 && typ == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			p.NumRows, issetNumRows = v, true
			return true, err
		case id == 4 && typ == thrift.LIST:
			issetRowGroups = true
			p.RowGroups = p.RowGroups[:0]
			_, err := readList(ctx, iprot, thrift.STRUCT, func(int) error {
				rg := &RowGroup{}
				p.RowGroups = append(p.RowGroups, rg)
				return rg.Read(ctx, iprot)
			})
			return true, err
		case id == 5 && typ == thrift.LIST:
			p.KeyValueMetadata = p.KeyValueMetadata[:0]
			_, err := readList(ctx, iprot, thrift.STRUCT, func(int) error {
				kv := &KeyValue{}
				p.KeyValueMetadata = append(p.KeyValueMetadata, kv)
				return kv.Read(ctx, iprot)
			})
			return true, err
		case id == 6 && typ == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			p.CreatedBy = &v
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	switch {
	case !issetVersion:
		return missingField(p, "Version")
	case !issetSchema:
		return missingField(p, "Schema")
	case !issetNumRows:
		return missingField(p, "NumRows")
	case !issetRowGroups:
		return missingField(p, "RowGroups")
	}
	return nil
}

func (p *FileMetaData) Write(ctx context.Context, oprot thrift.TProtocol) error {
	w := newStructWriter(ctx, oprot, "FileMetaData")
	w.i32("version", 1, p.Version)
	w.list("schema", 2, thrift.STRUCT, len(p.Schema), func(i int) error {
		return p.Schema[i].Write(ctx, oprot)
	})
	w.i64("num_rows", 3, p.NumRows)
	w.list("row_groups", 4, thrift.STRUCT, len(p.RowGroups), func(i int) error {
		return p.RowGroups[i].Write(ctx, oprot)
	})
	if p.KeyValueMetadata != nil {
		w.list("key_value_metadata", 5, thrift.STRUCT, len(p.KeyValueMetadata), func(i int) error {
			return p.KeyValueMetadata[i].Write(ctx, oprot)
		})
	}
	if p.CreatedBy != nil {
		w.str("created_by", 6, *p.CreatedBy)
	}
	return w.finish()
}
