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
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/goccy/go-json"
	"github.com/pqlite/parquet"
	"github.com/pqlite/parquet/file"
	"github.com/pqlite/parquet/metadata"
	"go.uber.org/zap"
)

const usage = `Parquet Reader.
Usage:
  parquet_reader -h | --help
  parquet_reader [--only-metadata] [--no-memory-map] [--json] [--verbose]
                 [--print-key-value-metadata] [--columns=COLUMNS] <file>
Options:
  -h --help                     Show this screen.
  --print-key-value-metadata    Print out the key-value metadata [default: false]
  --only-metadata               Stop after printing metadata, no values.
  --no-memory-map               Disable memory mapping the file.
  --json                        Format output as JSON instead of text.
  --verbose                     Log reader events to stderr.
  --columns=COLUMNS             Specify a subset of columns to print, comma delimited indexes.`

type config struct {
	PrintKeyValueMetadata bool
	OnlyMetadata          bool
	NoMemoryMap           bool
	JSON                  bool `docopt:"--json"`
	Verbose               bool
	Help                  bool `docopt:"--help"`
	Columns               string
	File                  string
}

type columnInfo struct {
	ID           int    `json:"Id"`
	Name         string `json:"Name"`
	PhysicalType string `json:"PhysicalType"`
}

type chunkInfo struct {
	Values           int64    `json:"Values"`
	Compression      string   `json:"Compression"`
	Encodings        []string `json:"Encodings"`
	UncompressedSize int64    `json:"UncompressedSize"`
	CompressedSize   int64    `json:"CompressedSize"`
	Checksum         string   `json:"Checksum,omitempty"`
	Data             []int32  `json:"Data,omitempty"`
}

type rowGroupInfo struct {
	ID           int         `json:"Id"`
	TotalBytes   int64       `json:"TotalBytes"`
	Rows         int64       `json:"Rows"`
	ColumnChunks []chunkInfo `json:"ColumnChunks"`
}

type fileInfo struct {
	FileName         string            `json:"FileName"`
	Version          int               `json:"Version"`
	CreatedBy        string            `json:"CreatedBy"`
	TotalRows        int64             `json:"TotalRows"`
	NumRowGroups     int               `json:"NumberOfRowGroups"`
	NumColumns       int               `json:"NumberOfColumns"`
	KeyValueMetadata map[string]string `json:"KeyValueMetadata,omitempty"`
	Columns          []columnInfo      `json:"Columns"`
	RowGroups        []rowGroupInfo    `json:"RowGroups"`
}

func chunkSummary(chunkMeta *metadata.ColumnChunkMetaData) chunkInfo {
	info := chunkInfo{
		Values:           chunkMeta.NumValues(),
		Compression:      chunkMeta.Compression(),
		UncompressedSize: chunkMeta.TotalUncompressedSize(),
		CompressedSize:   chunkMeta.TotalCompressedSize(),
	}
	for _, enc := range chunkMeta.Encodings() {
		info.Encodings = append(info.Encodings, enc.String())
	}
	if sum, ok := chunkMeta.Checksum(); ok {
		info.Checksum = fmt.Sprintf("%016x", sum)
	}
	return info
}

func readAll(rgr *file.RowGroupReader, c int) ([]int32, error) {
	cr, err := rgr.Column(c)
	if err != nil {
		return nil, err
	}
	dump, err := createDumper(cr)
	if err != nil {
		return nil, err
	}

	out := make([]int32, 0, rgr.NumRows())
	for {
		v, ok := dump.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out, dump.Err()
}

func parseColumns(s string) ([]int, error) {
	selected := []int{}
	if s == "" {
		return selected, nil
	}
	for _, c := range strings.Split(s, ",") {
		cval, err := strconv.Atoi(c)
		if err != nil {
			return nil, errors.New("--columns needs to be comma-delimited integers")
		}
		selected = append(selected, cval)
	}
	return selected, nil
}

func run(argv []string, out io.Writer) error {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpOnly}
	opts, err := parser.ParseArgs(usage, argv, "")
	if err != nil || opts == nil {
		return err
	}
	var cfg config
	if err := opts.Bind(&cfg); err != nil {
		return err
	}
	if cfg.Help {
		return nil
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("could not create logger: %w", err)
		}
		defer logger.Sync()
	}

	selectedColumns, err := parseColumns(cfg.Columns)
	if err != nil {
		return err
	}

	props := parquet.NewReaderProperties(nil).WithReaderLogger(logger)
	rdr, err := file.OpenParquetFile(cfg.File, !cfg.NoMemoryMap, file.WithReadProps(props))
	if err != nil {
		return fmt.Errorf("error opening parquet file: %w", err)
	}
	defer rdr.Close()

	sc := rdr.MetaData().Schema()
	if len(selectedColumns) == 0 {
		for i := 0; i < sc.NumColumns(); i++ {
			selectedColumns = append(selectedColumns, i)
		}
	} else {
		for _, c := range selectedColumns {
			if c < 0 || c >= sc.NumColumns() {
				return errors.New("selected column is out of range")
			}
		}
	}

	if cfg.JSON {
		return dumpJSON(out, rdr, cfg.File, selectedColumns, cfg.OnlyMetadata)
	}
	return dumpText(out, rdr, cfg, selectedColumns)
}

func dumpText(out io.Writer, rdr *file.Reader, cfg config, selectedColumns []int) error {
	fileMetadata := rdr.MetaData()
	sc := fileMetadata.Schema()

	fmt.Fprintln(out, "File name:", cfg.File)
	fmt.Fprintln(out, "Version:", fileMetadata.Version())
	fmt.Fprintln(out, "Created By:", fileMetadata.CreatedBy())
	fmt.Fprintln(out, "Num Rows:", rdr.NumRows())

	keyvaluemeta := fileMetadata.KeyValueMetadata()
	if cfg.PrintKeyValueMetadata && keyvaluemeta != nil {
		fmt.Fprintln(out, "Key Value File Metadata:", keyvaluemeta.Len(), "entries")
		keys := keyvaluemeta.Keys()
		values := keyvaluemeta.Values()
		for i := 0; i < keyvaluemeta.Len(); i++ {
			fmt.Fprintf(out, "Key nr %d %s: %s\n", i, keys[i], values[i])
		}
	}

	fmt.Fprintln(out, "Number of RowGroups:", rdr.NumRowGroups())
	fmt.Fprintln(out, "Number of Columns:", sc.NumColumns())
	fmt.Fprintln(out, "Number of Selected Columns:", len(selectedColumns))
	for _, c := range selectedColumns {
		descr := sc.Column(c)
		fmt.Fprintf(out, "Column %d: %s (%s)\n", c, descr.Path(), descr.PhysicalType())
	}

	for r := 0; r < rdr.NumRowGroups(); r++ {
		fmt.Fprintln(out, "--- Row Group:", r, " ---")

		rgr, err := rdr.RowGroup(r)
		if err != nil {
			return err
		}
		rowGroupMeta := rgr.MetaData()
		fmt.Fprintln(out, "--- Total Bytes:", rowGroupMeta.TotalByteSize(), " ---")
		fmt.Fprintln(out, "--- Rows:", rgr.NumRows(), " ---")

		for _, c := range selectedColumns {
			chunkMeta, err := rowGroupMeta.ColumnChunk(c)
			if err != nil {
				return err
			}

			info := chunkSummary(chunkMeta)
			fmt.Fprintln(out, "Column", c)
			fmt.Fprintln(out, " Values:", info.Values)
			fmt.Fprint(out, " Compression: ", info.Compression)
			fmt.Fprint(out, ", Encodings: ", strings.Join(info.Encodings, " "))
			if info.Checksum != "" {
				fmt.Fprint(out, ", Checksum: ", info.Checksum)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, " Uncompressed Size: ", info.UncompressedSize)
			fmt.Fprintln(out, ", Compressed Size:", info.CompressedSize)
		}

		if cfg.OnlyMetadata {
			continue
		}

		fmt.Fprintln(out, "--- Values ---")

		const colwidth = 18

		scanners := make([]*Dumper, len(selectedColumns))
		for idx, c := range selectedColumns {
			cr, err := rgr.Column(c)
			if err != nil {
				return err
			}
			if scanners[idx], err = createDumper(cr); err != nil {
				return err
			}
			fmt.Fprintf(out, "%-*s|", colwidth, cr.Descriptor().Name())
		}
		fmt.Fprintln(out)

		for {
			data := false
			for _, s := range scanners {
				if val, ok := s.Next(); ok {
					fmt.Fprint(out, s.FormatValue(val, colwidth), "|")
					data = true
				} else {
					fmt.Fprintf(out, "%-*s|", colwidth, "")
				}
			}
			fmt.Fprintln(out)
			if !data {
				break
			}
		}
		for _, s := range scanners {
			if err := s.Err(); err != nil {
				return fmt.Errorf("error reading values: %w", err)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

func dumpJSON(out io.Writer, rdr *file.Reader, fileName string, selectedColumns []int, onlyMetadata bool) error {
	fileMetadata := rdr.MetaData()
	sc := fileMetadata.Schema()

	info := fileInfo{
		FileName:     fileName,
		Version:      int(fileMetadata.Version()),
		CreatedBy:    fileMetadata.CreatedBy(),
		TotalRows:    rdr.NumRows(),
		NumRowGroups: rdr.NumRowGroups(),
		NumColumns:   sc.NumColumns(),
	}

	if kv := fileMetadata.KeyValueMetadata(); kv.Len() > 0 {
		info.KeyValueMetadata = make(map[string]string, kv.Len())
		keys, values := kv.Keys(), kv.Values()
		for i := range keys {
			info.KeyValueMetadata[keys[i]] = values[i]
		}
	}

	for _, c := range selectedColumns {
		descr := sc.Column(c)
		info.Columns = append(info.Columns, columnInfo{ID: c, Name: descr.Path(), PhysicalType: descr.PhysicalType().String()})
	}

	for r := 0; r < rdr.NumRowGroups(); r++ {
		rgr, err := rdr.RowGroup(r)
		if err != nil {
			return err
		}

		rg := rowGroupInfo{ID: r, TotalBytes: rgr.ByteSize(), Rows: rgr.NumRows()}
		for _, c := range selectedColumns {
			chunkMeta, err := rgr.MetaData().ColumnChunk(c)
			if err != nil {
				return err
			}
			chunk := chunkSummary(chunkMeta)
			if !onlyMetadata {
				if chunk.Data, err = readAll(rgr, c); err != nil {
					return fmt.Errorf("error reading values: %w", err)
				}
			}
			rg.ColumnChunks = append(rg.ColumnChunks, chunk)
		}
		info.RowGroups = append(info.RowGroups, rg)
	}

	enc, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(enc))
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
