package buttonprotocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolConstants(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"FrameOpen", FrameOpen, "{"},
		{"FrameClose", FrameClose, "}"},
		{"FieldSeparator", FieldSeparator, ","},
		{"LineTerminator", LineTerminator, "\r\n"},
		{"DefaultHost", DefaultHost, "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
	assert.Equal(t, 9992, DefaultPort)
}

func TestButtonStateString(t *testing.T) {
	assert.Equal(t, "released", Released.String())
	assert.Equal(t, "pressed", Pressed.String())
	assert.Equal(t, "between", Between.String())
	assert.Equal(t, "ButtonState(7)", ButtonState(7).String())
}

func TestButtonStateZeroValueIsReleased(t *testing.T) {
	var s ButtonState
	assert.Equal(t, Released, s)
}

func TestButtonEventFormatting(t *testing.T) {
	tests := []struct {
		name     string
		event    ButtonEvent
		expected string
	}{
		{"Released", NewButtonEvent(0, Released), "{0,0}"},
		{"Pressed", NewButtonEvent(8, Pressed), "{8,1}"},
		{"Between", NewButtonEvent(255, Between), "{255,2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Format())
			assert.Equal(t, tt.expected+"\r\n", tt.event.FormatLine())

			decoded := Decode(tt.event.FormatLine())
			require.True(t, decoded.Matched)
			assert.Equal(t, tt.event, decoded.Event)
		})
	}
}

func TestButtonEventString(t *testing.T) {
	assert.Equal(t, "button 9 between", NewButtonEvent(9, Between).String())
}

func TestConfigAddress(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9992", DefaultConfig().Address())
	assert.Equal(t, "[::1]:80", Config{Host: "::1", Port: 80}.Address())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{Host: "localhost", Port: 65535}.Validate())

	assert.ErrorIs(t, Config{Host: "", Port: 1}.Validate(), ErrEmptyHost)
	assert.ErrorIs(t, Config{Host: DefaultHost, Port: 0}.Validate(), ErrInvalidPort)
	assert.ErrorIs(t, Config{Host: DefaultHost, Port: 65536}.Validate(), ErrInvalidPort)
	assert.ErrorIs(t, Config{Host: DefaultHost, Port: -1}.Validate(), ErrInvalidPort)
}

func TestConnectionError(t *testing.T) {
	cause := errors.New("refused")
	err := NewConnectionError("127.0.0.1:1", "dial", cause)

	assert.Equal(t, "connection to 127.0.0.1:1 failed: dial: refused", err.Error())
	assert.ErrorIs(t, err, cause)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "127.0.0.1:1", connErr.Address)

	assert.Equal(t, "connection to x:1 failed: closed", NewConnectionError("x:1", "closed", nil).Error())
}
