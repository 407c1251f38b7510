package cgt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObject builds a JSON object whose keys keep the order they were added
// in. The zero value is an empty object.
type jsonObject struct {
	keys   []string
	values []any
}

// field adds key unconditionally.
func (o *jsonObject) field(key string, value any) *jsonObject {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
	return o
}

// omitEmpty adds key unless value is nil or the zero value of its type.
func (o *jsonObject) omitEmpty(key string, value any) *jsonObject {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return o
	}
	return o.field(key, value)
}

func (o *jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		v, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, fmt.Errorf("cannot marshal %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
