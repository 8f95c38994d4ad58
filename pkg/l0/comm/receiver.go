package comm

import (
	"context"
	"io"
)

// PayloadHandler is called when a payload is received.
type PayloadHandler interface {
	HandlePayload(context.Context, []byte)
}

// HandlePayloadFunc is func type of PayloadHandler.
type HandlePayloadFunc func(context.Context, []byte)

// HandlePayload implements PayloadHandler.
func (f HandlePayloadFunc) HandlePayload(ctx context.Context, payload []byte) {
	f(ctx, payload)
}

// Receiver reads frames in the background and dispatches payloads
// in order to Handler.
type Receiver struct {
	Handler PayloadHandler

	reader *Reader
}

// NewReceiver creates a Receiver.
func NewReceiver(r io.Reader, size int) *Receiver {
	return &Receiver{reader: NewReader(r, size)}
}

// Stats returns the parser counters.
func (r *Receiver) Stats() Stats {
	return r.reader.parser.Stats()
}

// Run implements Runnable.
// It returns when the context is canceled or the stream fails.
// A read blocked in the stream is abandoned on cancel, so the
// stream should be closed by the caller to release it.
func (r *Receiver) Run(ctx context.Context) error {
	payloadCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go r.readLoop(subCtx, payloadCh, errCh)
	for {
		select {
		case payload := <-payloadCh:
			if h := r.Handler; h != nil {
				h.HandlePayload(ctx, payload)
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Receiver) readLoop(ctx context.Context, payloadCh chan []byte, errCh chan error) {
	for {
		payload, err := r.reader.ReadPayload()
		if err != nil {
			errCh <- err
			return
		}
		select {
		case payloadCh <- payload:
		case <-ctx.Done():
			return
		}
	}
}
