package asynclog

import (
	"bytes"
	"time"
	"unicode/utf8"
)

// formatLine writes one complete line into s.buf:
//
//	[2006-01-02 15:04:05.000000] [info] file.go:42 message\n
//
// The caller segment is present only when caller is non-empty. emit appends
// the message body to the slice it is given. A single trailing newline is
// dropped and embedded ones are written as the two characters `\n`, so one
// call is always one physical line. Caller must hold s.mu.
func (s *Service) formatLine(at time.Time, level Level, caller string, emit func([]byte) []byte) {
	head := s.scratch[:0]
	head = append(head, '[')
	head = at.AppendFormat(head, timestampLayout)
	head = append(head, "] "...)
	head = append(head, level.tag()...)
	head = append(head, ' ')
	if caller != emptyString {
		head = append(head, caller...)
		head = append(head, ' ')
	}
	s.buf.Append(head)

	msg := emit(head[:0])
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	if bytes.IndexByte(msg, '\n') >= 0 {
		msg = escapeNewlines(msg)
	}
	if len(msg) > s.maxMessage {
		msg = append(truncate(msg, s.maxMessage), truncatedMarker...)
	}
	s.buf.Append(msg)
	_ = s.buf.WriteByte('\n')

	// Keep the grown scratch unless a single oversized message inflated it.
	if cap(msg) <= 2*s.maxMessage {
		s.scratch = msg[:0]
	}
}

// truncate cuts msg to at most n bytes without splitting a UTF-8 sequence.
func truncate(msg []byte, n int) []byte {
	for n > 0 && !utf8.RuneStart(msg[n]) {
		n--
	}
	return msg[:n]
}

func escapeNewlines(msg []byte) []byte {
	out := make([]byte, 0, len(msg)+8)
	for {
		i := bytes.IndexByte(msg, '\n')
		if i < 0 {
			return append(out, msg...)
		}
		out = append(out, msg[:i]...)
		out = append(out, '\\', 'n')
		msg = msg[i+1:]
	}
}
