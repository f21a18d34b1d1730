// Package codec is the serialization boundary between the client and the
// ETAPI wire format. ETAPI speaks JSON only.
package codec

import (
	"io"

	"github.com/goccy/go-json"
)

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

type Marshaler interface {
	Marshal(v any) ([]byte, error)
	NewEncoder(w io.Writer) Encoder
}

type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
	NewDecoder(r io.Reader) Decoder
}

// JSON implements Marshaler and Unmarshaler on top of goccy/go-json.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) NewEncoder(w io.Writer) Encoder {
	return json.NewEncoder(w)
}

func (JSON) Unmarshal(data []byte, dst any) error {
	return json.Unmarshal(data, dst)
}

func (JSON) NewDecoder(r io.Reader) Decoder {
	return json.NewDecoder(r)
}
