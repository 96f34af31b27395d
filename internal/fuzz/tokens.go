// Package fuzz generates random inputs for the lexer-totality property test
// (SPEC §8) and random token corpora for the lexer benchmarks, the way the
// teacher's internal/test.GetRandomTokens seeds its own lexer tests.
package fuzz

import (
	"math/rand"
	"strings"
)

const validTokens = "with;package;body;is;function;procedure;return;if;elsif;else;end;begin;" +
	"Foo;Bar;Baz;X;Y;Ada.Text_IO;" +
	"(;);;;:;:=;/=;<=;>=;<;>;=;.;" +
	"\"hello\";\"say \"\"hi\"\"\";1;123;3.14;" +
	"\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat. Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.\";" +
	"-- trailing comment\n"

// GetRandomTokens returns size space-separated tokens drawn from the
// language's own vocabulary (keywords, punctuation, literals, a comment).
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

// GetRandomTokensWithSep is GetRandomTokens with an explicit separator,
// for tests that want to vary whitespace shape (SPEC §8's totality
// property: the lexer must never panic or hang on any byte sequence).
func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// RandomBytes returns size random bytes drawn from the full byte range,
// including values the lexer's byteClass dispatch never expects (control
// bytes, high-bit bytes) — the lexer must still terminate and return
// either a Token or an error, never panic.
func RandomBytes(size int) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(rand.Intn(256))
	}
	return buf
}
