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
	"fmt"

	"github.com/pqlite/parquet/file"
)

const defaultBatchSize = 128

// Dumper pulls the values of one column chunk in batches.
type Dumper struct {
	reader         *file.Int32ColumnChunkReader
	batchSize      int64
	valueOffset    int
	valuesBuffered int
	valueBuffer    []int32
	err            error
}

func createDumper(reader file.ColumnChunkReader) (*Dumper, error) {
	rdr, ok := reader.(*file.Int32ColumnChunkReader)
	if !ok {
		return nil, fmt.Errorf("no dumper for column type %s", reader.Type())
	}
	return &Dumper{
		reader:      rdr,
		batchSize:   defaultBatchSize,
		valueBuffer: make([]int32, defaultBatchSize),
	}, nil
}

func (dump *Dumper) readNextBatch() {
	_, dump.valuesBuffered, dump.err = dump.reader.ReadBatch(dump.batchSize, dump.valueBuffer, nil, nil)
	dump.valueOffset = 0
}

// Err returns the error which ended the column early, if any.
func (dump *Dumper) Err() error {
	if dump.err != nil {
		return dump.err
	}
	return dump.reader.Err()
}

func (dump *Dumper) FormatValue(val int32, width int) string {
	return fmt.Sprintf("%-*d", width, val)
}

func (dump *Dumper) Next() (int32, bool) {
	if dump.valueOffset == dump.valuesBuffered {
		if dump.err != nil || !dump.reader.HasNext() {
			return 0, false
		}
		dump.readNextBatch()
		if dump.valuesBuffered == 0 {
			return 0, false
		}
	}

	v := dump.valueBuffer[dump.valueOffset]
	dump.valueOffset++
	return v, true
}
