// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observation

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// KeyValue is a single tag attached to an Observation.
type KeyValue struct {
	Key   string
	Value string
}

func (kv KeyValue) String() string {
	return kv.Key + "=" + kv.Value
}

// KeyValues is a set of tags sorted by key.  A key appears at most once.
type KeyValues []KeyValue

// Pairs builds KeyValues from alternating keys and values.  A trailing key with
// no value is dropped.
func Pairs(kv ...string) KeyValues {
	more := make([]KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		more = append(more, KeyValue{Key: kv[i], Value: kv[i+1]})
	}

	return KeyValues(nil).With(more...)
}

// With returns a new KeyValues with more merged in.  When keys collide, the last one wins.
func (kvs KeyValues) With(more ...KeyValue) KeyValues {
	if len(more) == 0 {
		return kvs
	}

	merged := make(map[string]string, len(kvs)+len(more))
	for _, kv := range kvs {
		merged[kv.Key] = kv.Value
	}

	for _, kv := range more {
		merged[kv.Key] = kv.Value
	}

	keys := maps.Keys(merged)
	slices.Sort(keys)

	result := make(KeyValues, 0, len(keys))
	for _, k := range keys {
		result = append(result, KeyValue{Key: k, Value: merged[k]})
	}

	return result
}

// And merges two KeyValues, with other taking precedence.
func (kvs KeyValues) And(other KeyValues) KeyValues {
	return kvs.With(other...)
}

func (kvs KeyValues) Get(key string) (string, bool) {
	for _, kv := range kvs {
		if kv.Key == key {
			return kv.Value, true
		}
	}

	return "", false
}

// Map returns a copy of these tags as a map
func (kvs KeyValues) Map() map[string]string {
	m := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}

	return m
}

func (kvs KeyValues) String() string {
	var o strings.Builder
	o.WriteRune('[')
	for i, kv := range kvs {
		if i > 0 {
			o.WriteString(", ")
		}

		o.WriteString(kv.String())
	}

	o.WriteRune(']')
	return o.String()
}
