// Package comm provides L0 framing support.
package comm

// L0 framing is used between the remote transmitter and the onboard
// receiver over a peer-to-peer byte stream (e.g. serial port).
//
// A frame is
//
//	DLE STX <payload> DLE ETX
//
// where every DLE inside the payload is doubled. The payload size is
// fixed and known by both sides, so there is no length prefix.
// There is no bit verification (e.g. CRC/Checksum); a frame is accepted
// when both markers match and the de-escaped payload has the expected
// size. Any other byte sequence is dropped and the receiver resyncs on
// the next start marker.
//
// Producer: transmitter
// Consumer: receiver
