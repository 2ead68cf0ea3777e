package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Reader pulls structured values from a byte stream on demand.
type Reader struct {
	src *bufio.Reader
}

// NewReader wraps r for structured-value decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{src: bufio.NewReader(r)}
}

// ReadValue reads and returns the single root value.
func (r *Reader) ReadValue() (Value, error) {
	c, err := r.readNonSpace()
	if err != nil {
		return nil, err
	}
	return r.readValueFrom(c)
}

func (r *Reader) readNonSpace() (rune, error) {
	for {
		c, _, err := r.src.ReadRune()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(c) {
			return c, nil
		}
	}
}

func (r *Reader) readValueFrom(c rune) (Value, error) {
	switch {
	case c == '"' || c == '\'':
		s, err := r.readString(c)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case c == '[':
		return &List{r: r}, nil
	case c == '{':
		return &Map{r: r}, nil
	case isNumberStart(c):
		return r.readNumber(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrIllegalInitialChar, c)
	}
}

func isNumberStart(c rune) bool {
	return c == '-' || c == '+' || (c >= '0' && c <= '9')
}

func isNumberBody(c rune) bool {
	switch c {
	case '.', 'e', 'E', '+', '-':
		return true
	}
	return c >= '0' && c <= '9'
}

func (r *Reader) readNumber(first rune) (Value, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		c, _, err := r.src.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !isNumberBody(c) {
			_ = r.src.UnreadRune()
			break
		}
		sb.WriteRune(c)
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrIllegalInitialChar, sb.String())
	}
	return Number(v), nil
}

func (r *Reader) readString(delim rune) (string, error) {
	var sb strings.Builder
	for {
		c, _, err := r.src.ReadRune()
		if err == io.EOF {
			return "", ErrUnterminatedString
		}
		if err != nil {
			return "", err
		}
		if c == delim {
			return sb.String(), nil
		}
		if c == '\\' {
			esc, _, err := r.src.ReadRune()
			if err != nil {
				return "", ErrUnterminatedString
			}
			decoded, err := decodeEscape(esc)
			if err != nil {
				return "", err
			}
			sb.WriteRune(decoded)
			continue
		}
		sb.WriteRune(c)
	}
}

func decodeEscape(c rune) (rune, error) {
	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '\\', '\'', '"', '/':
		return c, nil
	default:
		return c, nil
	}
}

// List is a lazily-iterated list value.
type List struct {
	r       *Reader
	started bool
	done    bool
}

func (*List) Kind() Kind { return KindList }

func (l *List) consumed() bool { return l.done }

func (l *List) drain() error {
	return l.Elements(func(Value) (bool, error) { return true, nil })
}

// Elements iterates the list's items in order. fn is called with each
// element; returning (false, nil) stops iteration early without error.
// An unread nested list/map element is drained automatically before the
// next sibling is parsed.
func (l *List) Elements(fn func(Value) (bool, error)) error {
	if l.started {
		return fmt.Errorf("codec: list already iterated")
	}
	l.started = true
	defer func() { l.done = true }()

	first := true
	for {
		c, err := l.r.readNonSpace()
		if err != nil {
			return fmt.Errorf("%w: unterminated list", ErrMissingSeparator)
		}
		if c == ']' {
			return nil
		}
		if !first {
			if c != ',' {
				return fmt.Errorf("%w: expected ',' or ']', got %q", ErrMissingSeparator, c)
			}
			c, err = l.r.readNonSpace()
			if err != nil {
				return fmt.Errorf("%w: unterminated list", ErrMissingSeparator)
			}
			if c == ']' || c == ',' {
				return ErrEmptyItem
			}
		}
		first = false

		v, err := l.r.readValueFrom(c)
		if err != nil {
			return err
		}
		cont, err := fn(v)
		if err != nil {
			return err
		}
		if it, ok := v.(iterable); ok && !it.consumed() {
			if err := it.drain(); err != nil {
				return err
			}
		}
		if !cont {
			return nil
		}
	}
}

// Map is a lazily-iterated map value with insertion-ordered entries.
type Map struct {
	r       *Reader
	started bool
	done    bool
}

func (*Map) Kind() Kind { return KindMap }

func (m *Map) consumed() bool { return m.done }

func (m *Map) drain() error {
	return m.Entries(func(string, Value) (bool, error) { return true, nil })
}

// Entries iterates the map's key/value pairs in the order they appear in
// the stream. fn returning (false, nil) stops iteration early.
func (m *Map) Entries(fn func(key string, v Value) (bool, error)) error {
	if m.started {
		return fmt.Errorf("codec: map already iterated")
	}
	m.started = true
	defer func() { m.done = true }()

	first := true
	for {
		c, err := m.r.readNonSpace()
		if err != nil {
			return fmt.Errorf("%w: unterminated map", ErrMissingSeparator)
		}
		if c == '}' {
			return nil
		}
		if !first {
			if c != ',' {
				return fmt.Errorf("%w: expected ',' or '}', got %q", ErrMissingSeparator, c)
			}
			c, err = m.r.readNonSpace()
			if err != nil {
				return fmt.Errorf("%w: unterminated map", ErrMissingSeparator)
			}
			if c == '}' || c == ',' {
				return ErrEmptyItem
			}
		}
		first = false

		if c != '"' && c != '\'' {
			return fmt.Errorf("%w: invalid key delimiter %q", ErrIllegalInitialChar, c)
		}
		key, err := m.r.readString(c)
		if err != nil {
			return err
		}

		sep, err := m.r.readNonSpace()
		if err != nil {
			return fmt.Errorf("%w: unterminated map", ErrMissingSeparator)
		}
		if sep != ':' {
			return fmt.Errorf("%w: expected ':', got %q", ErrMissingSeparator, sep)
		}

		vc, err := m.r.readNonSpace()
		if err != nil {
			return fmt.Errorf("%w: unterminated map", ErrMissingSeparator)
		}
		v, err := m.r.readValueFrom(vc)
		if err != nil {
			return err
		}
		cont, err := fn(key, v)
		if err != nil {
			return err
		}
		if it, ok := v.(iterable); ok && !it.consumed() {
			if err := it.drain(); err != nil {
				return err
			}
		}
		if !cont {
			return nil
		}
	}
}
