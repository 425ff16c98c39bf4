// Package json hides the JSON library used for result files behind one
// interface: encoding/json or bytedance/sonic.
package json

import (
	"fmt"
	"io"

	"github.com/meftunca/numbench/pkg/config"
)

// Encoder interface for JSON encoding
type Encoder interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	NewEncoder(w io.Writer) StreamEncoder
	NewDecoder(r io.Reader) StreamDecoder
}

// StreamEncoder interface for streaming JSON encoding
type StreamEncoder interface {
	Encode(v interface{}) error
}

// StreamDecoder interface for streaming JSON decoding
type StreamDecoder interface {
	Decode(v interface{}) error
}

// Config holds JSON configuration
type Config struct {
	Library    config.JSONLibrary
	Compact    bool
	EscapeHTML bool
}

// DefaultConfig returns default JSON configuration
func DefaultConfig() Config {
	return Config{
		Library:    config.JSONLibraryStandard,
		Compact:    false,
		EscapeHTML: false,
	}
}

// FromOutputConfig picks the JSON settings out of the output section.
func FromOutputConfig(out config.OutputConfig) Config {
	return Config{
		Library:    out.JSONLibrary,
		Compact:    out.Compact,
		EscapeHTML: out.EscapeHTML,
	}
}

const indent = "  "

var (
	// Global JSON encoder instance
	globalEncoder Encoder
)

// SetEncoder sets the global JSON encoder
func SetEncoder(encoder Encoder) {
	globalEncoder = encoder
}

// GetEncoder returns the current JSON encoder
func GetEncoder() Encoder {
	if globalEncoder == nil {
		globalEncoder = NewStandardEncoder(DefaultConfig())
	}
	return globalEncoder
}

// Marshal encodes v as JSON using the configured encoder
func Marshal(v interface{}) ([]byte, error) {
	return GetEncoder().Marshal(v)
}

// Unmarshal decodes JSON data into v using the configured encoder
func Unmarshal(data []byte, v interface{}) error {
	return GetEncoder().Unmarshal(data, v)
}

// NewEncoder creates a new JSON stream encoder
func NewEncoder(w io.Writer) StreamEncoder {
	return GetEncoder().NewEncoder(w)
}

// NewDecoder creates a new JSON stream decoder
func NewDecoder(r io.Reader) StreamDecoder {
	return GetEncoder().NewDecoder(r)
}

// InitializeFromConfig initializes the JSON library from configuration
func InitializeFromConfig(cfg Config) error {
	var encoder Encoder
	var err error

	switch cfg.Library {
	case config.JSONLibrarySonic:
		encoder, err = NewSonicEncoder(cfg)
	case config.JSONLibraryStandard, "":
		encoder = NewStandardEncoder(cfg)
	default:
		return fmt.Errorf("unknown json library: %s", cfg.Library)
	}

	if err != nil {
		return err
	}

	SetEncoder(encoder)
	return nil
}
