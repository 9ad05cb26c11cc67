package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	json "github.com/goccy/go-json"
)

// jsonRawMessage mirrors encoding/json.RawMessage so Envelope stays
// decoupled from a specific JSON package import in its field type.
type jsonRawMessage = json.RawMessage

// maxFrameBytes bounds a single message to guard against a corrupt or
// malicious length prefix turning into an unbounded allocation.
const maxFrameBytes = 64 << 20 // 64 MiB

// Encoder writes length-delimited JSON envelopes to an underlying
// writer. An Encoder is safe for concurrent use; writers with
// multiple producers (e.g. a worker's sampler goroutine and its main
// loop) rely on that to avoid interleaving partial frames.
type Encoder struct {
	mu sync.Mutex
	w  io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// EncodeLint writes a lint message.
func (e *Encoder) EncodeLint(m LintMessage) error { return e.encode(KindLint, m) }

// EncodeResult writes a result message.
func (e *Encoder) EncodeResult(m ResultMessage) error { return e.encode(KindResult, m) }

// EncodeError writes an error message.
func (e *Encoder) EncodeError(m ErrorMessage) error { return e.encode(KindError, m) }

// EncodeMemory writes a memory message. Memory messages are
// high-frequency; callers must not block on backpressure from the
// peer beyond what the underlying writer itself imposes.
func (e *Encoder) EncodeMemory(m MemoryMessage) error { return e.encode(KindMemory, m) }

func (e *Encoder) encode(kind Kind, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("protocol: marshal %s payload: %w", kind, err)
	}
	frame, err := json.Marshal(Envelope{Kind: kind, Payload: body})
	if err != nil {
		return fmt.Errorf("protocol: marshal envelope: %w", err)
	}

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(frame)))

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("protocol: write length prefix: %w", err)
	}
	if _, err := e.w.Write(frame); err != nil {
		return fmt.Errorf("protocol: write frame: %w", err)
	}
	return nil
}

// Decoder reads length-delimited JSON envelopes from an underlying
// reader. A Decoder is not safe for concurrent use; each IPC
// connection owns exactly one.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Message is the result of decoding one frame: exactly one of the
// typed fields is populated, selected by Kind. An unrecognized
// discriminator decodes with Kind == KindUnknown and no typed field
// populated: an unrecognized kind is rejected rather than guessed at.
type Message struct {
	Kind   Kind
	Lint   *LintMessage
	Result *ResultMessage
	Error  *ErrorMessage
	Memory *MemoryMessage
}

// Decode reads and parses the next frame. It returns io.EOF when the
// peer has closed the channel cleanly.
func (d *Decoder) Decode() (Message, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(d.r, lenPrefix[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Message{}, fmt.Errorf("protocol: truncated length prefix: %w", err)
		}
		return Message{}, err
	}

	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > maxFrameBytes {
		return Message{}, fmt.Errorf("protocol: frame of %d bytes exceeds %d byte limit", n, maxFrameBytes)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return Message{}, fmt.Errorf("protocol: read frame body: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(buf, &env); err != nil {
		return Message{}, fmt.Errorf("protocol: unmarshal envelope: %w", err)
	}

	msg := Message{Kind: env.Kind}
	switch env.Kind {
	case KindLint:
		var m LintMessage
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return Message{}, fmt.Errorf("protocol: unmarshal lint payload: %w", err)
		}
		msg.Lint = &m
	case KindResult:
		var m ResultMessage
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return Message{}, fmt.Errorf("protocol: unmarshal result payload: %w", err)
		}
		msg.Result = &m
	case KindError:
		var m ErrorMessage
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return Message{}, fmt.Errorf("protocol: unmarshal error payload: %w", err)
		}
		msg.Error = &m
	case KindMemory:
		var m MemoryMessage
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return Message{}, fmt.Errorf("protocol: unmarshal memory payload: %w", err)
		}
		msg.Memory = &m
	default:
		msg.Kind = KindUnknown
	}
	return msg, nil
}
