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

package utils

import "io"

// WriterTell is an interface that adds a Tell function to an io.Writer
type WriterTell interface {
	io.Writer
	Tell() int64
}

// WriteCloserTell is an interface adding Tell to an io.WriteCloser
type WriteCloserTell interface {
	io.WriteCloser
	Tell() int64
}

// TellWrapper wraps any io.Writer to add a Tell function that tracks
// the position based on calls to Write. Close is forwarded if the wrapped
// writer is an io.Closer and is a no-op otherwise.
type TellWrapper struct {
	io.Writer
	pos int64
}

// Close closes the underlying writer if it is an io.Closer.
func (w *TellWrapper) Close() error {
	if closer, ok := w.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Tell returns the number of bytes written so far.
func (w *TellWrapper) Tell() int64 { return w.pos }

func (w *TellWrapper) Write(p []byte) (n int, err error) {
	n, err = w.Writer.Write(p)
	w.pos += int64(n)
	return
}
