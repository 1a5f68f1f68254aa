package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

type Codec interface {
	Name() string
	Extension() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return JSONCodec{}, nil
	case FormatTOML:
		return TOMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
}

type JSONCodec struct{}

func (JSONCodec) Name() string      { return FormatJSON }
func (JSONCodec) Extension() string { return ".json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}

type TOMLCodec struct{}

func (TOMLCodec) Name() string      { return FormatTOML }
func (TOMLCodec) Extension() string { return ".toml" }

func (TOMLCodec) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

func (TOMLCodec) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
