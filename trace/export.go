package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an unsupported export format name.
var ErrUnknownFormat = errors.New("trace: unknown export format")

// Snapshot is a point-in-time copy of a Registry.
type Snapshot struct {
	Frames []Frame `json:"frames" yaml:"frames" msgpack:"frames"`
	Last   Frame   `json:"last" yaml:"last" msgpack:"last"`
}

// Format selects a snapshot encoding.
type Format int

// Supported export formats.
const (
	FormatJSON Format = iota
	FormatYAML
	FormatMsgpack
)

// String returns the format name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "json"
	}
}

// ParseFormat converts "json", "yaml" (or "yml") and "msgpack" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// WriteSnapshot encodes s to w.
func WriteSnapshot(w io.Writer, format Format, s Snapshot) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(s); err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(s)
	default:
		return fmt.Errorf("%w %d", ErrUnknownFormat, int(format))
	}
	if err != nil {
		return fmt.Errorf("trace: encode %s: %w", format, err)
	}
	return nil
}
