package comm

import (
	"sync/atomic"
)

// Parser parses bytes received into fixed size payloads.
// It's not safe for concurrent use except Stats.
type Parser struct {
	size    int
	state   parseState
	payload []byte
	stats   counters
}

// SyncState indicates the state of the byte stream.
type SyncState int

const (
	// SyncStateSyncing means the parser is looking for a start marker.
	SyncStateSyncing SyncState = 0
	// SyncStateReceiving means a frame is being received.
	SyncStateReceiving SyncState = 0x01
)

// IsReceiving indicates if it's in the middle of a frame.
func (s SyncState) IsReceiving() bool {
	return s&SyncStateReceiving != 0
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	State   SyncState
	Payload []byte
}

// Stats are the counters collected by a Parser.
type Stats struct {
	// Frames is the number of payloads delivered.
	Frames uint64
	// Resyncs is the number of frames dropped after a start marker.
	Resyncs uint64
	// Skipped is the number of bytes discarded while looking for a start marker.
	Skipped uint64
}

type counters struct {
	frames  atomic.Uint64
	resyncs atomic.Uint64
	skipped atomic.Uint64
}

type parseState int

const (
	stateSyncDLE    parseState = iota // waiting for DLE of start marker
	stateSyncSTX                      // DLE received, waiting for STX
	stateData                         // waiting for payload byte
	stateDataEscape                   // DLE received in payload
	stateEndDLE                       // payload complete, waiting for DLE of end marker
	stateEndETX                       // waiting for ETX
)

// NewParser creates a Parser for payloads of size bytes.
func NewParser(size int) *Parser {
	if size <= 0 {
		panic(ErrInvalidSize)
	}
	return &Parser{size: size}
}

// Size returns the payload size.
func (p *Parser) Size() int {
	return p.size
}

// State gets the current sync state.
func (p *Parser) State() SyncState {
	if p.state < stateData {
		return SyncStateSyncing
	}
	return SyncStateReceiving
}

// Stats returns a snapshot of the counters.
func (p *Parser) Stats() Stats {
	return Stats{
		Frames:  p.stats.frames.Load(),
		Resyncs: p.stats.resyncs.Load(),
		Skipped: p.stats.skipped.Load(),
	}
}

// Reset drops any partial frame and starts looking for a start marker.
func (p *Parser) Reset() {
	p.state, p.payload = stateSyncDLE, nil
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	pr.Payload = p.parseByte(b)
	pr.State = p.State()
	return
}

func (p *Parser) parseByte(b byte) []byte {
	switch p.state {
	case stateSyncDLE:
		if b == DLE {
			p.state = stateSyncSTX
		} else {
			p.stats.skipped.Add(1)
		}
	case stateSyncSTX:
		switch b {
		case STX:
			p.begin()
		case DLE:
			p.stats.skipped.Add(1)
		default:
			p.stats.skipped.Add(2)
			p.state = stateSyncDLE
		}
	case stateData:
		if b == DLE {
			p.state = stateDataEscape
			return nil
		}
		p.push(b)
	case stateDataEscape:
		switch b {
		case DLE:
			p.push(DLE)
		case STX:
			// a start marker in place of an escape, the previous
			// frame was truncated.
			p.resync(stateData)
			p.begin()
		default:
			// end marker in the middle of payload.
			p.resync(stateSyncDLE)
		}
	case stateEndDLE:
		if b == DLE {
			p.state = stateEndETX
			return nil
		}
		p.resync(stateSyncDLE)
	case stateEndETX:
		switch b {
		case ETX:
			return p.payloadReady()
		case STX:
			p.resync(stateData)
			p.begin()
		case DLE:
			// payload longer than expected, the DLE may lead a start marker.
			p.resync(stateSyncSTX)
		default:
			p.resync(stateSyncDLE)
		}
	}
	return nil
}

func (p *Parser) begin() {
	p.payload = make([]byte, 0, p.size)
	p.state = stateData
}

func (p *Parser) push(b byte) {
	p.payload = append(p.payload, b)
	if len(p.payload) >= p.size {
		p.state = stateEndDLE
	} else {
		p.state = stateData
	}
}

func (p *Parser) resync(next parseState) {
	p.stats.resyncs.Add(1)
	p.state, p.payload = next, nil
}

func (p *Parser) payloadReady() []byte {
	p.stats.frames.Add(1)
	payload := p.payload
	p.state, p.payload = stateSyncDLE, nil
	return payload
}
