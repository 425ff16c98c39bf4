package json

import (
	"bytes"
	"encoding/json"
	"io"
)

// StandardEncoder implements Encoder using Go's standard encoding/json
type StandardEncoder struct {
	cfg Config
}

// StandardStreamEncoder wraps json.Encoder
type StandardStreamEncoder struct {
	encoder *json.Encoder
}

// StandardStreamDecoder wraps json.Decoder
type StandardStreamDecoder struct {
	decoder *json.Decoder
}

// NewStandardEncoder creates a new standard JSON encoder
func NewStandardEncoder(cfg Config) *StandardEncoder {
	return &StandardEncoder{cfg: cfg}
}

func (e *StandardEncoder) newEncoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(e.cfg.EscapeHTML)
	if !e.cfg.Compact {
		encoder.SetIndent("", indent)
	}
	return encoder
}

// Marshal encodes v as JSON
func (e *StandardEncoder) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.newEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}

	// Remove trailing newline added by Encode
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Unmarshal decodes JSON data into v
func (e *StandardEncoder) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// NewEncoder creates a new streaming encoder
func (e *StandardEncoder) NewEncoder(w io.Writer) StreamEncoder {
	return &StandardStreamEncoder{encoder: e.newEncoder(w)}
}

// NewDecoder creates a new streaming decoder
func (e *StandardEncoder) NewDecoder(r io.Reader) StreamDecoder {
	return &StandardStreamDecoder{decoder: json.NewDecoder(r)}
}

// Encode implements StreamEncoder
func (e *StandardStreamEncoder) Encode(v interface{}) error {
	return e.encoder.Encode(v)
}

// Decode implements StreamDecoder
func (d *StandardStreamDecoder) Decode(v interface{}) error {
	return d.decoder.Decode(v)
}
