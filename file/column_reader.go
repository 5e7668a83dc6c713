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
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/internal/encoding"
	"github.com/pqlite/parquet/schema"
)

// ColumnChunkReader is the basic interface for all column readers.
//
// To actually Read out the column data, you need to convert to the properly
// typed ColumnChunkReader type such as *Int32ColumnChunkReader.
type ColumnChunkReader interface {
	// HasNext returns whether there is more data to be read in this column
	// and row group.
	HasNext() bool
	// Type returns the underlying physical type of the column
	Type() parquet.Type
	// Descriptor returns the column schema container
	Descriptor() *schema.Column
	// if HasNext returns false because of an error, this will return the error
	// it encountered. Otherwise this will be nil if it's just the end of the
	// column
	Err() error
	// Skip discards up to nvalues values, returning how many were skipped
	Skip(nvalues int64) (int64, error)

	// number of available values left in the current page
	numAvail() int64
}

type chunkState int8

const (
	chunkUnopened chunkState = iota
	chunkOpen
	chunkClosed
)

type valueDecoder interface {
	SetData(nvals int, data []byte) error
	Discard(n int) (int, error)
}

type columnChunkReader struct {
	descr   *schema.Column
	props   *parquet.ReaderProperties
	openFn  func() (PageReader, error)
	rdr     PageReader
	state   chunkState
	curPage Page
	decoder valueDecoder

	// number of currently buffered values in the current page
	numBuffered int64
	// the number of values we've decoded so far
	numDecoded int64

	// is set when an error is encountered
	err error
}

// NewColumnReader returns a column reader for the provided column. The chunk
// is opened with openFn the first time values are needed and released once
// all of them have been read. The concrete reader is chosen by the physical
// type of the column.
func NewColumnReader(descr *schema.Column, openFn func() (PageReader, error), props *parquet.ReaderProperties) (ColumnChunkReader, error) {
	base := columnChunkReader{descr: descr, openFn: openFn, props: props}
	switch descr.PhysicalType() {
	case parquet.Types.Int32:
		dec := &encoding.PlainInt32Decoder{}
		base.decoder = dec
		return &Int32ColumnChunkReader{columnChunkReader: base, decoder: dec}, nil
	default:
		return nil, parquet.NewError(parquet.ErrType, "no column reader for physical type %s of column %q", descr.PhysicalType(), descr.Path())
	}
}

func (c *columnChunkReader) Err() error                 { return c.err }
func (c *columnChunkReader) Type() parquet.Type         { return c.descr.PhysicalType() }
func (c *columnChunkReader) Descriptor() *schema.Column { return c.descr }
func (c *columnChunkReader) consumeBufferedValues(n int64) {
	c.numDecoded += n
}
func (c *columnChunkReader) numAvail() int64 { return c.numBuffered - c.numDecoded }

// HasNext returns whether there is more data to be read in this column
// and row group.
func (c *columnChunkReader) HasNext() bool {
	if c.numBuffered == 0 || c.numDecoded == c.numBuffered {
		return c.readNewPage() && c.numBuffered != 0
	}
	return true
}

func (c *columnChunkReader) fail(err error) {
	c.err = err
	c.close()
}

func (c *columnChunkReader) close() {
	if c.rdr != nil {
		c.rdr.Release()
		c.rdr = nil
	}
	c.curPage = nil
	c.numBuffered, c.numDecoded = 0, 0
	c.state = chunkClosed
}

func (c *columnChunkReader) readNewPage() bool {
	switch c.state {
	case chunkClosed:
		return false
	case chunkUnopened:
		rdr, err := c.openFn()
		if err != nil {
			c.fail(err)
			return false
		}
		c.rdr = rdr
		c.state = chunkOpen
	}

	for c.rdr.Next() {
		c.curPage = c.rdr.Page()
		if c.curPage.NumValues() == 0 {
			continue
		}
		if err := c.decoder.SetData(int(c.curPage.NumValues()), c.curPage.Data()); err != nil {
			c.fail(err)
			return false
		}
		c.numBuffered = c.curPage.NumValues()
		c.numDecoded = 0
		return true
	}

	c.fail(c.rdr.Err())
	return false
}

func (c *columnChunkReader) Skip(nvalues int64) (int64, error) {
	skipped := int64(0)
	for skipped < nvalues && c.HasNext() {
		toSkip := nvalues - skipped
		if avail := c.numAvail(); toSkip > avail {
			toSkip = avail
		}
		n, err := c.decoder.Discard(int(toSkip))
		c.consumeBufferedValues(int64(n))
		skipped += int64(n)
		if err != nil {
			c.fail(err)
			return skipped, err
		}
	}
	return skipped, c.err
}
