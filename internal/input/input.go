// Package input turns a raw terminal byte stream into per-frame input state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Terminal sequences that switch SGR mouse click reporting on and off.
const (
	MouseOn  = "\033[?1000h\033[?1006h"
	MouseOff = "\033[?1000l\033[?1006l"
)

// Click is a mouse button press at a 1-based terminal cell.
type Click struct {
	Col, Row int
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Up      bool
	Down    bool
	Fire    bool // Rising edge only: one shot per key press
	Restart bool
	Clicks  []Click
	Pressed []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	quit time.Time
	up   time.Time
	down time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	closed bool
	state  keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := parse(&s.state, buf, time.Now())
	if s.closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput forgets held keys, e.g. after a screen transition.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// parse decodes buf into an Input, updating held-key timestamps in state.
func parse(state *keyState, buf []byte, now time.Time) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			// SGR mouse: ESC [ < btn ; col ; row M
			if buf[i+2] == '<' {
				if n, click, press, ok := parseSGRMouse(buf[i:]); ok {
					if press {
						in.Clicks = append(in.Clicks, click)
					}
					i += n - 1
					continue
				}
			}
			switch buf[i+2] {
			case 'A':
				state.up = now
				i += 2
				continue
			case 'B':
				state.down = now
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', '\x03':
			state.quit = now
		case 'w', 'W', 'k', 'K':
			state.up = now
		case 's', 'S', 'j', 'J':
			state.down = now
		case ' ':
			in.Fire = true
		case '\n', '\r', 'r', 'R':
			in.Restart = true
		}
	}

	in.Quit = now.Sub(state.quit) < keyHoldDuration
	in.Up = now.Sub(state.up) < keyHoldDuration
	in.Down = now.Sub(state.down) < keyHoldDuration
	return in
}

// parseSGRMouse parses one SGR mouse report at the start of data.
// Returns the number of bytes consumed and whether it was a left button press.
func parseSGRMouse(data []byte) (n int, click Click, press bool, ok bool) {
	// Minimum: ESC [ < 0 ; 1 ; 1 M
	if len(data) < 9 {
		return 0, Click{}, false, false
	}

	var params [3]int
	idx := 0
	digits := 0
	for n = 3; n < len(data) && n < 32; n++ {
		c := data[n]
		switch {
		case c >= '0' && c <= '9':
			params[idx] = params[idx]*10 + int(c-'0')
			digits++
		case c == ';':
			if digits == 0 || idx == 2 {
				return 0, Click{}, false, false
			}
			idx++
			digits = 0
		case c == 'M' || c == 'm':
			if idx != 2 || digits == 0 {
				return 0, Click{}, false, false
			}
			btn := params[0]
			// Left button, no motion/scroll bits, 'M' = press.
			press = c == 'M' && btn&0x03 == 0 && btn&(32|64) == 0
			return n + 1, Click{Col: params[1], Row: params[2]}, press, true
		default:
			return 0, Click{}, false, false
		}
	}
	return 0, Click{}, false, false
}
