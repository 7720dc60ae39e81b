package dlog

import (
	"strconv"
)

// Message is a stack-scoped line builder. Fields are accumulated with Append
// and committed exactly once as a single log line; an explicit Commit (or
// the WithMessage wrapper) replaces the destructor-driven flush of scoped
// logging in other runtimes.
//
// A Message is not safe for concurrent use; build it on one goroutine and
// commit it there. The commit itself is serialized against all other writers
// by the message sink's lock.
type Message struct {
	logger     *Logger
	toFile     bool
	toConsole  bool
	noSpace    bool
	hasContent bool
	buf        []byte
}

// NewMessage returns a builder whose file and console routing default from
// the logger's current configuration
func (l *Logger) NewMessage() *Message {
	cfg := l.getConfig()
	return &Message{
		logger:    l,
		toFile:    cfg.EnableFile,
		toConsole: cfg.EnableConsole,
	}
}

// NewMessageTo returns a builder with explicit routing, independent of the
// configured defaults
func (l *Logger) NewMessageTo(toFile, toConsole bool) *Message {
	return &Message{
		logger:    l,
		toFile:    toFile,
		toConsole: toConsole,
	}
}

// Append adds fields to the pending line. Each field after the first is
// preceded by a single space unless no-space mode is active.
func (m *Message) Append(vals ...any) *Message {
	for _, v := range vals {
		if m.hasContent && !m.noSpace {
			m.buf = append(m.buf, ' ')
		}
		m.buf = appendValue(m.buf, v)
		m.hasContent = true
	}
	return m
}

// Nospace suppresses the separator before subsequent fields. This is a
// persistent mode, not a one-shot skip: it stays in effect across any number
// of appends until Space restores separators.
func (m *Message) Nospace() *Message {
	m.noSpace = true
	return m
}

// Space restores the single-space separator between fields
func (m *Message) Space() *Message {
	m.noSpace = false
	return m
}

// HasContent reports whether fields were appended since the last commit
func (m *Message) HasContent() bool {
	return m.hasContent
}

// Commit writes the accumulated line and empties the builder. Idempotent: a
// second call without an intervening Append is a no-op. The file line is
// wrapped as [timestamp] tid=<id> "<body>"; the console receives the bare
// body.
func (m *Message) Commit() {
	if !m.hasContent {
		return
	}

	body := sanitizeLine(string(m.buf))
	m.buf = m.buf[:0]
	m.hasContent = false

	l := m.logger
	cfg := l.getConfig()

	line := "[" + timestamp(cfg.TimestampFormat) + "] tid=" +
		strconv.FormatUint(goroutineTag(), 10) + " \"" + body + "\""

	// Both writes happen under the message sink's lock so file and console
	// interleavings stay line-atomic.
	s := l.messages
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.toFile {
		s.ensureOpenLocked()
		s.appendLocked(line)
	}
	if m.toConsole {
		l.getConsole().WriteLine(body)
	}
}

// WithMessage runs fn with a fresh builder and guarantees the commit on
// every exit path, including panics unwinding through fn
func (l *Logger) WithMessage(fn func(m *Message)) {
	m := l.NewMessage()
	defer m.Commit()
	fn(m)
}

// Print appends args as one message and commits immediately
func (l *Logger) Print(args ...any) {
	l.NewMessage().Append(args...).Commit()
}
