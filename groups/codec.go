package groups

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Codec serializes the encoded profile map. Two codecs ship with the
// package; hosts with other asset formats can supply their own.
type Codec interface {
	// Name identifies the codec in logs and inspection output.
	Name() string

	Marshal(v map[string]bool) ([]byte, error)
	Unmarshal(data []byte, v *map[string]bool) error
}

// YAMLCodec serializes profiles as YAML. This is the default.
type YAMLCodec struct{}

// Name implements Codec.
func (YAMLCodec) Name() string { return "yaml" }

// Marshal implements Codec.
func (YAMLCodec) Marshal(v map[string]bool) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal implements Codec.
func (YAMLCodec) Unmarshal(data []byte, v *map[string]bool) error {
	return yaml.Unmarshal(data, v)
}

// TOMLCodec serializes profiles as TOML, for hosts that keep their
// settings assets in TOML.
type TOMLCodec struct{}

// Name implements Codec.
func (TOMLCodec) Name() string { return "toml" }

// Marshal implements Codec.
func (TOMLCodec) Marshal(v map[string]bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal implements Codec.
func (TOMLCodec) Unmarshal(data []byte, v *map[string]bool) error {
	return toml.Unmarshal(data, v)
}
