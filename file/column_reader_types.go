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
	"github.com/pqlite/parquet/internal/encoding"
)

// Int32ColumnChunkReader is the Typed Column chunk reader instance for reading
// Int32 column data.
type Int32ColumnChunkReader struct {
	columnChunkReader

	decoder *encoding.PlainInt32Decoder
}

// ReadBatch reads up to batchSize values into the head of values, which
// should be at least batchSize long, continuing across pages until batchSize
// values were read or the chunk is exhausted.
//
// The column is required, so defLvls and repLvls are left untouched and the
// number of levels returned as total always equals valuesRead. Reading
// zero values means the end of the chunk, or an error which is returned.
func (cr *Int32ColumnChunkReader) ReadBatch(batchSize int64, values []int32, defLvls, repLvls []int16) (total int64, valuesRead int, err error) {
	if batchSize > int64(len(values)) {
		batchSize = int64(len(values))
	}

	for int64(valuesRead) < batchSize && cr.HasNext() {
		toRead := batchSize - int64(valuesRead)
		if avail := cr.numAvail(); toRead > avail {
			toRead = avail
		}

		n, err := cr.decoder.Decode(values[valuesRead : valuesRead+int(toRead)])
		cr.consumeBufferedValues(int64(n))
		valuesRead += n
		if err != nil {
			cr.fail(err)
			return int64(valuesRead), valuesRead, err
		}
	}
	return int64(valuesRead), valuesRead, cr.err
}
