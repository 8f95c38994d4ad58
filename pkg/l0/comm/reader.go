package comm

import (
	"bufio"
	"io"
)

// Reader reads payloads from a byte stream.
type Reader struct {
	r      io.ByteReader
	parser *Parser
}

// NewReader creates a Reader for payloads of size bytes.
func NewReader(r io.Reader, size int) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br, parser: NewParser(size)}
}

// Parser returns the underlying parser.
func (r *Reader) Parser() *Parser {
	return r.parser
}

// ReadPayload blocks until a complete frame is received.
// Malformed frames are dropped silently, so the only errors
// returned come from the underlying stream.
func (r *Reader) ReadPayload() ([]byte, error) {
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if pr := r.parser.Parse(b); pr.Payload != nil {
			return pr.Payload, nil
		}
	}
}
