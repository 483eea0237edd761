package wire

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-msgpack/codec"
)

var mh = &codec.MsgpackHandle{}

// Envelope is the two-phase decode shape the polymorphic-message design
// note (spec.md §9) asks for: a tag naming which request/response variant
// Body holds, and the still-encoded body. A decoder reads the Tag first
// and only then decodes Body into the concrete Go type that tag names —
// the binding between tag and type is enforced by the daemon's dispatch
// table (daemon/dispatch.go), not by the wire format itself.
type Envelope struct {
	Tag  string
	Body codec.Raw
}

// EncodeEnvelope encodes body under tag into a single payload suitable for
// FrameWriter.WriteFrame.
func EncodeEnvelope(tag string, body interface{}) ([]byte, error) {
	var bodyBuf bytes.Buffer
	if body != nil {
		enc := codec.NewEncoder(&bodyBuf, mh)
		if err := enc.Encode(body); err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", tag, err)
		}
	}

	var out bytes.Buffer
	enc := codec.NewEncoder(&out, mh)
	if err := enc.Encode(&Envelope{Tag: tag, Body: bodyBuf.Bytes()}); err != nil {
		return nil, fmt.Errorf("encoding envelope for %s: %w", tag, err)
	}

	return out.Bytes(), nil
}

// DecodeEnvelope decodes only the tag/raw-body layer of payload.
func DecodeEnvelope(payload []byte) (*Envelope, error) {
	var env Envelope
	dec := codec.NewDecoderBytes(payload, mh)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	return &env, nil
}

// DecodeBody decodes an envelope's raw body into out, which must be a
// pointer to the concrete request/response type the envelope's Tag names.
func DecodeBody(body codec.Raw, out interface{}) error {
	if len(body) == 0 {
		return nil
	}
	dec := codec.NewDecoderBytes(body, mh)
	return dec.Decode(out)
}
