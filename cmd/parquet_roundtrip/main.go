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
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/file"
	"github.com/pqlite/parquet/schema"
	"go.uber.org/zap"
)

const usage = `Parquet Round Trip.
Writes a single int32 column, reads it back and compares.
Usage:
  parquet_roundtrip -h | --help
  parquet_roundtrip [--values=VALUES] [--verbose] <file>
Options:
  -h --help          Show this screen.
  --values=VALUES    Comma delimited int32 values to write [default: 1,2,3].
  --verbose          Log writer and reader events to stderr.`

const messageType = "message schema { REQUIRED INT32 b; }"

func parseValues(s string) ([]int32, error) {
	if strings.TrimSpace(s) == "" {
		return []int32{}, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", p, err)
		}
		out[i] = int32(v)
	}
	return out, nil
}

func write(path string, values []int32, logger *zap.Logger) error {
	sc, err := schema.ParseMessageType(messageType)
	if err != nil {
		return err
	}

	props := parquet.NewWriterProperties(parquet.WithLogger(logger))
	w, err := file.CreateParquetFile(path, sc, file.WithWriterProps(props))
	if err != nil {
		return err
	}

	rgw, err := w.AppendRowGroup()
	if err != nil {
		w.Close()
		return err
	}
	cw, err := rgw.NextColumn()
	if err != nil {
		w.Close()
		return err
	}
	if _, err := file.WriteBatch(cw, values); err != nil {
		w.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func read(path string, logger *zap.Logger) ([]int32, error) {
	props := parquet.NewReaderProperties(nil).WithReaderLogger(logger)
	rdr, err := file.OpenParquetFile(path, false, file.WithReadProps(props))
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	out := []int32{}
	buf := make([]int32, 8)
	for r := 0; r < rdr.NumRowGroups(); r++ {
		rgr, err := rdr.RowGroup(r)
		if err != nil {
			return nil, err
		}
		cr, err := rgr.Column(0)
		if err != nil {
			return nil, err
		}
		icr, ok := cr.(*file.Int32ColumnChunkReader)
		if !ok {
			return nil, fmt.Errorf("column 0 has type %s", cr.Type())
		}
		for {
			_, n, err := icr.ReadBatch(int64(len(buf)), buf, nil, nil)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				break
			}
			out = append(out, buf[:n]...)
		}
	}
	return out, nil
}

func run(path string, values []int32, logger *zap.Logger) error {
	if err := write(path, values, logger); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(raw, []byte("PAR1")) {
		return fmt.Errorf("%s does not start with PAR1", path)
	}

	got, err := read(path, logger)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if len(got) != len(values) {
		return fmt.Errorf("read %d values, wrote %d", len(got), len(values))
	}
	for i := range got {
		if got[i] != values[i] {
			return fmt.Errorf("value %d: read %d, wrote %d", i, got[i], values[i])
		}
	}
	return nil
}

func main() {
	opts, _ := docopt.ParseDoc(usage)
	var config struct {
		Values  string
		Verbose bool
		File    string
	}
	if err := opts.Bind(&config); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if config.Verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintln(os.Stderr, "error: could not create logger:", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	values, err := parseValues(config.Values)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := run(config.File, values, logger); err != nil {
		logger.Sync()
		fmt.Fprintln(os.Stderr, "round trip failed:", err)
		os.Exit(1)
	}
	fmt.Printf("round trip of %d values through %s ok\n", len(values), config.File)
}
