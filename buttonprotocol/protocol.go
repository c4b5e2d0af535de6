package buttonprotocol

import "time"

// Wire constants for the button frame protocol.
const (
	// FrameOpen starts every frame.
	FrameOpen = "{"

	// FrameClose ends every frame, before the line terminator.
	FrameClose = "}"

	// FieldSeparator separates the index field from the state field.
	FieldSeparator = ","

	// LineTerminator is the terminator sensor endpoints write after a frame.
	// The reader also accepts a bare "\n".
	LineTerminator = "\r\n"

	// DefaultHost is the loopback address sensor endpoints listen on.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the port the reference sensor endpoint listens on.
	DefaultPort = 9992

	// MaxLineLength is the maximum accepted length of one line in bytes,
	// excluding the terminator. Longer lines are discarded.
	MaxLineLength = 4096

	// ConnectionTimeout bounds how long dialing may take. Reads have no
	// timeout.
	ConnectionTimeout = 5 * time.Second
)
