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
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/metadata"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/mmap"
)

const (
	footerSize uint32 = 8
)

var (
	magicBytes = []byte("PAR1")
)

// Reader is the main interface for reading a parquet file
type Reader struct {
	r            parquet.ReaderAtSeeker
	props        *parquet.ReaderProperties
	metadata     *metadata.FileMetaData
	footerOffset int64
}

// ReadOption configures a Reader.
type ReadOption func(*Reader)

// WithReadProps specifies a specific reader properties instance to use, rather
// than using the default ReaderProperties.
func WithReadProps(props *parquet.ReaderProperties) ReadOption {
	return func(r *Reader) {
		r.props = props
	}
}

type mmapReader struct {
	*mmap.ReaderAt
	pos int64
}

func (m *mmapReader) Read(p []byte) (int, error) {
	if m.pos >= int64(m.Len()) {
		return 0, io.EOF
	}
	n, err := m.ReadAt(p, m.pos)
	m.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (m *mmapReader) Seek(offset int64, whence int) (int64, error) {
	newpos := offset
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		newpos += m.pos
	case io.SeekEnd:
		newpos += int64(m.Len())
	default:
		return m.pos, errors.New("invalid whence")
	}
	if newpos < 0 {
		return m.pos, errors.New("negative seek position")
	}
	m.pos = newpos
	return newpos, nil
}

// OpenParquetFile will return a Reader for the given parquet file on the local file system.
//
// Optionally the file can be memory mapped for faster reading. The Reader
// owns the file, it is closed by Reader.Close or right away if the file is
// not a valid parquet file.
func OpenParquetFile(filename string, memoryMap bool, opts ...ReadOption) (*Reader, error) {
	var source parquet.ReaderAtSeeker

	if memoryMap {
		rdr, err := mmap.Open(filename)
		if err != nil {
			return nil, parquet.WrapError(parquet.ErrIO, err, "could not memory map %s", filename)
		}
		source = &mmapReader{ReaderAt: rdr}
	} else {
		f, err := os.Open(filename)
		if err != nil {
			return nil, parquet.WrapError(parquet.ErrIO, err, "could not open %s", filename)
		}
		source = f
	}

	rdr, err := NewParquetReader(source, opts...)
	if err != nil {
		if closer, ok := source.(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
		return nil, err
	}
	return rdr, nil
}

// NewParquetReader returns a FileReader instance that reads a parquet file which can be read from r.
// This reader needs to support Read, ReadAt and Seeking.
//
// If no read properties are provided then the default ReaderProperties will be used.
// The leading and trailing magic bytes and the footer are checked, a file
// failing any check is reported with ErrFormat.
func NewParquetReader(r parquet.ReaderAtSeeker, opts ...ReadOption) (*Reader, error) {
	var err error
	f := &Reader{r: r}
	for _, o := range opts {
		o(f)
	}

	if f.footerOffset, err = r.Seek(0, io.SeekEnd); err != nil {
		return nil, parquet.WrapError(parquet.ErrIO, err, "could not get file size")
	}

	if f.props == nil {
		f.props = parquet.NewReaderProperties(memory.NewGoAllocator())
	}

	if err := f.parseMetaData(); err != nil {
		return nil, err
	}

	f.props.Logger().Debug("opened file",
		zap.Int64("size", f.footerOffset),
		zap.Int("footer_bytes", f.metadata.Size()),
		zap.Int("row_groups", f.metadata.NumRowGroups()),
		zap.Int64("rows", f.metadata.NumRows()),
		zap.String("created_by", f.metadata.CreatedBy()))
	return f, nil
}

// Close will close the current reader, and if the underlying reader being used
// is an `io.Closer` then Close will be called on it too.
func (f *Reader) Close() error {
	if r, ok := f.r.(io.Closer); ok {
		if err := r.Close(); err != nil {
			return parquet.WrapError(parquet.ErrIO, err, "could not close file")
		}
	}
	return nil
}

// MetaData returns the underlying FileMetadata object
func (f *Reader) MetaData() *metadata.FileMetaData { return f.metadata }

func (f *Reader) readAt(buf []byte, off int64) error {
	n, err := f.r.ReadAt(buf, off)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return parquet.WrapError(parquet.ErrIO, err, "could not read %d bytes at offset %d", len(buf), off)
	}
	if n != len(buf) {
		return parquet.NewError(parquet.ErrIO, "tried reading %d bytes at offset %d but only got %d", len(buf), off, n)
	}
	return nil
}

// parseMetaData handles parsing the metadata from the opened file.
func (f *Reader) parseMetaData() error {
	minSize := int64(len(magicBytes)) + int64(footerSize)
	if f.footerOffset < minSize {
		return parquet.NewError(parquet.ErrFormat, "file too small (size=%d)", f.footerOffset)
	}

	head := make([]byte, len(magicBytes))
	if err := f.readAt(head, 0); err != nil {
		return err
	}
	if !bytes.Equal(head, magicBytes) {
		return parquet.NewError(parquet.ErrFormat, "magic bytes not found at the start of the file, found %q", head)
	}

	buf := make([]byte, footerSize)
	if err := f.readAt(buf, f.footerOffset-int64(footerSize)); err != nil {
		return err
	}
	if !bytes.Equal(buf[4:], magicBytes) {
		return parquet.NewError(parquet.ErrFormat, "magic bytes not found in footer. Either the file is corrupted or this isn't a parquet file")
	}

	size := int64(binary.LittleEndian.Uint32(buf[:4]))
	footerStart := f.footerOffset - int64(footerSize) - size
	if footerStart < int64(len(magicBytes)) {
		return parquet.NewError(parquet.ErrFormat, "footer length %d exceeds the file size %d", size, f.footerOffset)
	}

	buf = make([]byte, size)
	if err := f.readAt(buf, footerStart); err != nil {
		return err
	}

	var err error
	if f.metadata, err = metadata.NewFileMetaData(buf); err != nil {
		return err
	}
	return f.metadata.Validate(footerStart)
}

// NumRows returns the total number of rows in this parquet file.
func (f *Reader) NumRows() int64 {
	return f.metadata.NumRows()
}

// NumRowGroups returns the total number of row groups in this file.
func (f *Reader) NumRowGroups() int {
	return f.metadata.NumRowGroups()
}

// RowGroup returns a reader for the desired (0-based) row group, failing
// with ErrOutOfRange outside [0, NumRowGroups).
func (f *Reader) RowGroup(i int) (*RowGroupReader, error) {
	rg, err := f.metadata.RowGroup(i)
	if err != nil {
		return nil, err
	}

	return &RowGroupReader{
		fileMetadata: f.metadata,
		rgMetadata:   rg,
		props:        f.props,
		r:            f.r,
		sourceSz:     f.footerOffset,
	}, nil
}
