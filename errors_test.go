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

package parquet_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pqlite/parquet"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	kinds := []error{parquet.ErrIO, parquet.ErrFormat, parquet.ErrState, parquet.ErrSchema, parquet.ErrType, parquet.ErrOutOfRange}
	for _, kind := range kinds {
		err := parquet.NewError(kind, "column %d", 3)
		for _, other := range kinds {
			assert.Equal(t, kind == other, errors.Is(err, other), "%s vs %s", kind, other)
		}

		var pqerr *parquet.Error
		assert.True(t, errors.As(err, &pqerr))
		assert.Equal(t, kind, pqerr.Kind())
		assert.Equal(t, "parquet: "+kind.Error()+": column 3", err.Error())
	}
}

func TestWrapError(t *testing.T) {
	err := parquet.WrapError(parquet.ErrIO, io.ErrUnexpectedEOF, "reading footer")
	assert.ErrorIs(t, err, parquet.ErrIO)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, parquet.ErrFormat)
	assert.Equal(t, io.ErrUnexpectedEOF, errors.Unwrap(err))
	assert.Equal(t, "parquet: io error: reading footer: unexpected EOF", err.Error())

	wrapped := fmt.Errorf("open: %w", err)
	assert.ErrorIs(t, wrapped, parquet.ErrIO)
}

func TestErrorFormatDetail(t *testing.T) {
	err := parquet.NewError(parquet.ErrState, "closed")
	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))

	detail := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(detail, "parquet: invalid state: closed"))
	assert.Contains(t, detail, "errors_test.go")
}
