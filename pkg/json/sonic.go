package json

import (
	"io"

	"github.com/bytedance/sonic"
)

// SonicEncoder implements Encoder using bytedance/sonic
type SonicEncoder struct {
	cfg Config
	api sonic.API
}

// SonicStreamEncoder wraps sonic for streaming
type SonicStreamEncoder struct {
	writer  io.Writer
	encoder *SonicEncoder
}

// SonicStreamDecoder wraps sonic for streaming
type SonicStreamDecoder struct {
	reader io.Reader
	api    sonic.API
}

// NewSonicEncoder creates a new Sonic JSON encoder
func NewSonicEncoder(cfg Config) (*SonicEncoder, error) {
	api := sonic.Config{
		EscapeHTML: cfg.EscapeHTML,
	}.Froze()

	return &SonicEncoder{
		cfg: cfg,
		api: api,
	}, nil
}

// Marshal encodes v as JSON using Sonic
func (e *SonicEncoder) Marshal(v interface{}) ([]byte, error) {
	if e.cfg.Compact {
		return e.api.Marshal(v)
	}
	return e.api.MarshalIndent(v, "", indent)
}

// Unmarshal decodes JSON data into v using Sonic
func (e *SonicEncoder) Unmarshal(data []byte, v interface{}) error {
	return e.api.Unmarshal(data, v)
}

// NewEncoder creates a new streaming encoder with Sonic
func (e *SonicEncoder) NewEncoder(w io.Writer) StreamEncoder {
	return &SonicStreamEncoder{
		writer:  w,
		encoder: e,
	}
}

// NewDecoder creates a new streaming decoder with Sonic
func (e *SonicEncoder) NewDecoder(r io.Reader) StreamDecoder {
	return &SonicStreamDecoder{
		reader: r,
		api:    e.api,
	}
}

// Encode implements StreamEncoder using Sonic
func (e *SonicStreamEncoder) Encode(v interface{}) error {
	data, err := e.encoder.Marshal(v)
	if err != nil {
		return err
	}

	// Add newline for consistency with standard library
	data = append(data, '\n')

	_, err = e.writer.Write(data)
	return err
}

// Decode implements StreamDecoder using Sonic
func (d *SonicStreamDecoder) Decode(v interface{}) error {
	data, err := io.ReadAll(d.reader)
	if err != nil {
		return err
	}

	return d.api.Unmarshal(data, v)
}
