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

package metadata

import (
	format "github.com/pqlite/parquet/internal/format"
)

// KeyValueMetadata is an ordered list of application defined key/value pairs
// stored in the file footer.
type KeyValueMetadata []*format.KeyValue

// NewKeyValueMetadata returns an empty KeyValueMetadata.
func NewKeyValueMetadata() KeyValueMetadata {
	return make(KeyValueMetadata, 0)
}

// Append adds the key value pair to the metadata. Duplicate keys are kept in
// insertion order.
func (k *KeyValueMetadata) Append(key, value string) {
	*k = append(*k, &format.KeyValue{Key: key, Value: &value})
}

// Len is the number of pairs.
func (k KeyValueMetadata) Len() int { return len(k) }

// Keys returns the keys in order.
func (k KeyValueMetadata) Keys() (ret []string) {
	ret = make([]string, len(k))
	for idx, v := range k {
		ret[idx] = v.Key
	}
	return
}

// Values returns the values in order, missing values are empty strings.
func (k KeyValueMetadata) Values() (ret []string) {
	ret = make([]string, len(k))
	for idx, v := range k {
		ret[idx] = v.GetValue()
	}
	return
}

// FindValue returns the value of the first pair with the given key, or nil
// if there is none.
func (k KeyValueMetadata) FindValue(key string) *string {
	for _, v := range k {
		if v.Key == key {
			return v.Value
		}
	}
	return nil
}
