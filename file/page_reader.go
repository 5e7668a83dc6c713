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
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pqlite/parquet"
	"github.com/zeebo/xxh3"
)

// PageReader is the interface used by column readers to fetch the values of
// a column chunk. A chunk is handed out as one page when it is loaded into
// memory at once, or as a sequence of pages of at most the buffer size when
// it is streamed.
type PageReader interface {
	// Next advances to the next page, returning false at the end of the
	// chunk or on error
	Next() bool
	// Page returns the current page, valid until the next call to Next
	Page() Page
	// Err returns the error which stopped Next, or nil at the end of the chunk
	Err() error
	// Release frees the current page
	Release()
}

// Page is a run of plain encoded values of a column chunk.
type Page interface {
	// Data returns the encoded bytes
	Data() []byte
	// NumValues is the number of values held in Data
	NumValues() int64
	// Encoding is the value encoding of Data
	Encoding() parquet.Encoding
	// Release frees the page memory
	Release()
}

type page struct {
	buf   *memory.Buffer
	nvals int64
}

func (p *page) Data() []byte               { return p.buf.Bytes() }
func (p *page) NumValues() int64           { return p.nvals }
func (p *page) Encoding() parquet.Encoding { return parquet.Encodings.Plain }
func (p *page) Release() {
	if p.buf != nil {
		p.buf.Release()
		p.buf = nil
	}
}

type serializedPageReader struct {
	r         io.Reader
	nvals     int64
	valsSeen  int64
	pageVals  int64
	valueSize int
	mem       memory.Allocator

	hasher   *xxh3.Hasher
	checksum uint64
	verified bool

	curPage *page
	err     error
}

// NewPageReader returns a PageReader over the nvals values of a column chunk
// read from r, each valueSize bytes wide. Pages hold at most pageSize bytes,
// a pageSize of zero or less puts the whole chunk into a single page.
//
// If verify is set the xxh3 digest of the bytes read is compared against
// checksum once the last page has been read, a mismatch stops the reader
// with an ErrFormat error before that page is handed out.
func NewPageReader(r io.Reader, nvals int64, valueSize int, pageSize int64, mem memory.Allocator, verify bool, checksum uint64) PageReader {
	pageVals := nvals
	if pageSize > 0 {
		pageVals = pageSize / int64(valueSize)
		if pageVals < 1 {
			pageVals = 1
		}
	}

	rdr := &serializedPageReader{
		r:         r,
		nvals:     nvals,
		pageVals:  pageVals,
		valueSize: valueSize,
		mem:       mem,
		checksum:  checksum,
		verified:  !verify,
	}
	if verify {
		rdr.hasher = xxh3.New()
	}
	return rdr
}

func (p *serializedPageReader) Err() error { return p.err }

func (p *serializedPageReader) Page() Page {
	if p.curPage == nil {
		return nil
	}
	return p.curPage
}

func (p *serializedPageReader) Release() {
	if p.curPage != nil {
		p.curPage.Release()
		p.curPage = nil
	}
}

func (p *serializedPageReader) verify() bool {
	if p.verified {
		return true
	}
	p.verified = true
	if sum := p.hasher.Sum64(); sum != p.checksum {
		p.err = parquet.NewError(parquet.ErrFormat, "column chunk checksum mismatch: stored %016x, computed %016x", p.checksum, sum)
		return false
	}
	return true
}

func (p *serializedPageReader) Next() bool {
	p.Release()
	if p.err != nil {
		return false
	}

	if p.valsSeen >= p.nvals {
		p.verify()
		return false
	}

	n := p.nvals - p.valsSeen
	if n > p.pageVals {
		n = p.pageVals
	}

	buf := memory.NewResizableBuffer(p.mem)
	buf.ResizeNoShrink(int(n) * p.valueSize)
	if _, err := io.ReadFull(p.r, buf.Bytes()); err != nil {
		buf.Release()
		p.err = parquet.WrapError(parquet.ErrIO, err, "could not read %d values of column chunk", n)
		return false
	}

	p.valsSeen += n
	if p.hasher != nil {
		p.hasher.Write(buf.Bytes())
	}
	if p.valsSeen == p.nvals && !p.verify() {
		buf.Release()
		return false
	}

	p.curPage = &page{buf: buf, nvals: n}
	return true
}
