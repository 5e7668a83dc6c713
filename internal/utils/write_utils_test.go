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

package utils_test

import (
	"bytes"
	"testing"

	"github.com/pqlite/parquet/internal/utils"
	"github.com/stretchr/testify/assert"
)

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestTellWrapper(t *testing.T) {
	var buf bytes.Buffer
	w := &utils.TellWrapper{Writer: &buf}
	assert.Zero(t, w.Tell())

	_, err := w.Write([]byte("PAR1"))
	assert.NoError(t, err)
	_, err = w.Write([]byte{1, 2, 3})
	assert.NoError(t, err)
	assert.EqualValues(t, 7, w.Tell())
	assert.NoError(t, w.Close())
}

func TestTellWrapperForwardsClose(t *testing.T) {
	rec := &closeRecorder{}
	w := &utils.TellWrapper{Writer: rec}
	assert.NoError(t, w.Close())
	assert.True(t, rec.closed)
}
