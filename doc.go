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

// Package parquet holds the shared definitions of a small PAR1 columnar file
// format: physical types, repetitions, encodings, the error kinds surfaced by
// every package, and the reader/writer properties.
//
// The file layout is the magic "PAR1", followed by the row groups (each the
// concatenation of its column chunks in schema order), a thrift compact
// encoded footer, the footer length as a 4 byte little endian integer, and the
// magic "PAR1" again.
//
// Only required INT32 columns are supported and every column chunk is stored
// plain encoded and uncompressed. Writing is done via file.Writer, reading via
// file.Reader, and package pqarrow bridges both to Arrow arrays.
package parquet
