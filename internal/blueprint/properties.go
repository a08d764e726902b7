package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property is a single field descriptor of a form schema. The descriptor is
// kept raw; its type is not interpreted.
type Property struct {
	Key        string
	Descriptor json.RawMessage
}

// Properties is a JSON object of field descriptors that remembers the order
// in which its keys were declared.
type Properties []Property

// Keys returns the property keys in declaration order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, prop := range p {
		keys = append(keys, prop.Key)
	}
	return keys
}

// Get returns the raw descriptor of key.
func (p Properties) Get(key string) (json.RawMessage, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Descriptor, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes a JSON object keeping its key order. A repeated key
// keeps its first position and its last value.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("field schema properties: expected object, got %v", tok)
	}

	var props Properties
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("field schema properties: unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field schema property %q: %w", key, err)
		}
		if i, dup := index[key]; dup {
			props[i].Descriptor = raw
			continue
		}
		index[key] = len(props)
		props = append(props, Property{Key: key, Descriptor: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = props
	return nil
}

// MarshalJSON encodes the properties as a JSON object in declaration order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(prop.Descriptor) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(prop.Descriptor)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
