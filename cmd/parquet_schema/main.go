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
	"io"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/pqlite/parquet/file"
	"github.com/pqlite/parquet/schema"
)

const usage = `Parquet Schema Dumper.
Usage:
  parquet_schema -h | --help
  parquet_schema <file>
Options:
  -h --help   Show this screen.`

func run(argv []string, out io.Writer) error {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpOnly}
	args, err := parser.ParseArgs(usage, argv, "")
	if err != nil || args == nil {
		return err
	}
	fn, _ := args.String("<file>")
	if fn == "" {
		return nil
	}

	rdr, err := file.OpenParquetFile(fn, false)
	if err != nil {
		return fmt.Errorf("error opening parquet file: %w", err)
	}
	defer rdr.Close()

	schema.PrintSchema(rdr.MetaData().Schema().Root(), out, 2)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
