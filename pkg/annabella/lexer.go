package annabella

// byteClass groups source bytes by how the lexer dispatches on them.
type byteClass uint8

const (
	byteWhitespace byteClass = iota
	byteDoubleQuote
	byteIdentStart
	byteDigit
	byteOther
)

func classify(c byte) byteClass {
	switch {
	case c == ' ' || c == '\t' || c == '\n':
		return byteWhitespace
	case c == '"':
		return byteDoubleQuote
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		return byteIdentStart
	case c >= '0' && c <= '9':
		return byteDigit
	default:
		return byteOther
	}
}

// textArena is the lexer's decoded-text area (SPEC §4.1): a fixed buffer,
// sized once to the source file's length, which is always an upper bound on
// the total decoded string text one committed pass over the source can
// produce. The arena itself does not track a write position — that would
// make it shared, uncloneable state. The write cursor lives in TokenStream
// instead (see below), exactly like the byte cursor it sits next to.
type textArena struct {
	buf []byte
}

func newTextArena(capacity int) *textArena {
	return &textArena{buf: make([]byte, capacity)}
}

// write copies p into the arena starting at pos and returns the decoded
// text as an independent string (string(...) of a byte slice always
// copies, so the result stays valid even though the arena bytes underneath
// it may later be overwritten by a re-decode at the same position).
func (a *textArena) write(pos int, p []byte) string {
	end := pos + len(p)
	if end > len(a.buf) {
		panic("annabella: decoded text exceeds source length (unreachable)")
	}
	copy(a.buf[pos:end], p)
	return string(a.buf[pos:end])
}

// TokenStream is a byte cursor into an immutable source buffer, plus a
// cursor into its decoded-text arena. It is a plain value type: copying a
// TokenStream (`clone := ts`) yields an independent cursor over the same
// underlying bytes and the same underlying arena storage, which is the only
// backtracking primitive the parser uses (SPEC §4.2).
//
// arenaPos, like pos, is copied on clone and only moves forward when a
// clone is committed (assigned back over the stream it was copied from).
// A speculative decode that is later discarded therefore never advances
// the committed arenaPos; the next real decode of the same string starts
// at that same position and overwrites the discarded attempt's bytes
// in place, rather than accumulating a new copy for every speculative
// re-lex. This mirrors the original C token stream, whose arena
// write-cursor is itself a field of the cloneable stream struct.
type TokenStream struct {
	filename string
	src      []byte
	pos      int
	arena    *textArena
	arenaPos int
}

// NewTokenStream builds a token stream over an immutable view of src. The
// caller owns src's lifetime; it is never copied or mutated.
func NewTokenStream(filename string, src []byte) TokenStream {
	return TokenStream{
		filename: filename,
		src:      src,
		arena:    newTextArena(len(src)),
	}
}

func (ts *TokenStream) loc(start int) Location {
	return Location{File: ts.filename, Start: start, End: ts.pos}
}

func (ts *TokenStream) byteAt(i int) (byte, bool) {
	if i < 0 || i >= len(ts.src) {
		return 0, false
	}
	return ts.src[i], true
}

func (ts *TokenStream) advance() (byte, bool) {
	c, ok := ts.byteAt(ts.pos)
	if ok {
		ts.pos++
	}
	return c, ok
}

func (ts *TokenStream) peekByte() (byte, bool) {
	return ts.byteAt(ts.pos)
}

// Next returns exactly one token and advances the cursor past it (SPEC
// §4.1). A fresh clone's Next is side-effect-free relative to the stream it
// was cloned from.
func (ts *TokenStream) Next() (Token, error) {
	start := ts.pos
	c, ok := ts.advance()
	if !ok {
		return Token{Type: TokenEnd, Loc: ts.loc(start)}, nil
	}

	switch classify(c) {
	case byteWhitespace:
		for {
			c2, ok := ts.peekByte()
			if !ok || classify(c2) != byteWhitespace {
				break
			}
			ts.advance()
		}
		return Token{Type: TokenWhitespace, Loc: ts.loc(start)}, nil

	case byteDoubleQuote:
		return ts.lexString(start)

	case byteIdentStart:
		return ts.lexIdent(start)

	case byteDigit:
		return ts.lexNumber(start)

	default:
		if c == 0 {
			return Token{}, errorf(ts.loc(start), "source contains a NUL byte")
		}
		if c == '-' {
			if c2, ok := ts.peekByte(); ok && c2 == '-' {
				ts.advance()
				if err := ts.skipComment(); err != nil {
					return Token{}, err
				}
				return ts.Next()
			}
		}
		return Token{Type: TokenPunct, Byte: c, Loc: ts.loc(start)}, nil
	}
}

// skipComment discards from just after the leading "--" through the next
// newline, inclusive. A comment without a trailing newline is fatal (SPEC
// §4.1).
func (ts *TokenStream) skipComment() error {
	start := ts.pos
	for {
		c, ok := ts.advance()
		if !ok {
			return errorf(ts.loc(start), "comment without trailing new line")
		}
		if c == '\n' {
			return nil
		}
	}
}

// lexString decodes a string literal: doubled double-quotes collapse to a
// single embedded quote, everything else is copied verbatim. The opening
// quote has already been consumed by the caller.
func (ts *TokenStream) lexString(start int) (Token, error) {
	decoded := make([]byte, 0, ts.pos-start)
	for {
		c, ok := ts.advance()
		if !ok {
			return Token{}, errorf(ts.loc(start), "unterminated string")
		}
		if c == '"' {
			if c2, ok := ts.peekByte(); ok && c2 == '"' {
				ts.advance()
				decoded = append(decoded, '"')
				continue
			}
			break
		}
		decoded = append(decoded, c)
	}

	text := ts.arena.write(ts.arenaPos, decoded)
	ts.arenaPos += len(decoded)
	return Token{Type: TokenString, Text: text, Loc: ts.loc(start)}, nil
}

// lexIdent consumes a run of identifier-start/digit bytes and classifies it
// as a keyword or a plain identifier.
func (ts *TokenStream) lexIdent(start int) (Token, error) {
	for {
		c, ok := ts.peekByte()
		if !ok {
			break
		}
		class := classify(c)
		if class != byteIdentStart && class != byteDigit {
			break
		}
		ts.advance()
	}

	text := string(ts.src[start:ts.pos])
	if kw, ok := lookupKeyword(text); ok {
		return Token{Type: TokenKeyword, Keyword: kw, Loc: ts.loc(start)}, nil
	}
	return Token{Type: TokenIdent, Text: text, Loc: ts.loc(start)}, nil
}

// lexNumber consumes a digit run with at most one interior '.'.
func (ts *TokenStream) lexNumber(start int) (Token, error) {
	hadDot := false
	for {
		c, ok := ts.peekByte()
		if !ok {
			break
		}
		if classify(c) == byteDigit {
			ts.advance()
			continue
		}
		if c == '.' && !hadDot {
			hadDot = true
			ts.advance()
			continue
		}
		break
	}

	return Token{Type: TokenNumber, Text: string(ts.src[start:ts.pos]), Loc: ts.loc(start)}, nil
}
