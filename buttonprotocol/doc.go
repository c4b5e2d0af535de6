// Package buttonprotocol provides a Go implementation of the line-based
// text protocol spoken by local button sensor endpoints.
//
// # Protocol Overview
//
// A sensor endpoint accepts TCP connections on the loopback address and
// writes one frame per line describing a physical button's index and state:
//
//	Frame:   {<index>,<state>}\r\n
//	Example: {8,1}\r\n        button 8 pressed
//	         {09,02}\r\n      button 9 between
//
// Both fields are ASCII decimal digit sequences and may be zero-padded.
// There is no escaping, length prefix, or checksum. Lines that are not
// frames (a greeting banner, for example) are classified as unmatched and
// handed to the consumer unchanged.
//
// # Decoding
//
// [Decode] is a pure function. It never fails: a malformed index becomes 0,
// and a state code outside the lookup table becomes [Released].
//
//	result := buttonprotocol.Decode("{09,02}\r\n")
//	if result.Matched {
//	    fmt.Println(result.Event.Index, result.Event.State) // 9 between
//	}
//
// # Reading a Connection
//
// [Run] dials the endpoint and drives the read loop on the calling
// goroutine. [Start] does the same on a new goroutine and returns a
// [Session] whose completion can be observed:
//
//	session := buttonprotocol.Start(ctx, buttonprotocol.DefaultConfig(), consumer)
//	if err := session.Wait(); err != nil {
//	    log.Fatal(err)
//	}
//
// Read errors are reported to the consumer and the loop keeps reading. Only
// a clean end of stream (or [Session.Close]) ends a session. There are no
// read timeouts and no reconnection: a stalled peer blocks the loop, and a
// failed dial is returned to the caller as a [*ConnectionError].
//
// # Concurrency
//
// Every session owns its own connection and [LineReader]. A LineReader is
// not safe for concurrent use and must never be shared between
// connections. Decode has no state and may be called from any goroutine.
package buttonprotocol
