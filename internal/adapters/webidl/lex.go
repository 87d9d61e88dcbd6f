// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Portions copied and modified from: https://github.com/golang/go/blob/master/src/text/template/parse/lex.go

package webidl

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EOFRUNE is returned by next once the input is exhausted.
const EOFRUNE = -1

// bytePosition is a byte offset into the lexer input.
type bytePosition int

// lexeme represents a token returned from scanning the contents of a file.
type lexeme struct {
	kind     tokenType    // the type of this lexeme
	position bytePosition // the starting position of this token in the input
	value    string       // the textual value of this token
}

// stateFn represents the state of the lexer as a function that returns the
// next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner. Tokens are produced on demand: the
// state machine runs only until at least one token is pending.
type lexer struct {
	input   string       // the string being scanned
	state   stateFn      // the next lexing function to enter
	pos     bytePosition // current position in the input
	start   bytePosition // start position of this token
	width   bytePosition // width of last rune read from input
	pending []lexeme     // tokens emitted but not yet returned
	done    bool         // EOF or an error has been emitted
}

// buildlex creates a new scanner for the input string, starting in state start.
func buildlex(input string, start stateFn) *lexer {
	return &lexer{
		input: input,
		state: start,
	}
}

// nextToken returns the next token from the input. After EOF or an error it
// keeps returning EOF.
func (l *lexer) nextToken() lexeme {
	for len(l.pending) == 0 {
		if l.done || l.state == nil {
			return lexeme{tokenTypeEOF, l.pos, ""}
		}
		l.state = l.state(l)
	}
	token := l.pending[0]
	l.pending = l.pending[1:]
	return token
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if int(l.pos) >= len(l.input) {
		l.width = 0
		return EOFRUNE
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = bytePosition(w)
	l.pos += l.width
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// value returns the text of the token being scanned.
func (l *lexer) value() string {
	return l.input[l.start:l.pos]
}

// emit queues a token of the given kind.
func (l *lexer) emit(t tokenType) {
	l.pending = append(l.pending, lexeme{t, l.start, l.value()})
	l.start = l.pos
	if t == tokenTypeEOF {
		l.done = true
	}
}

// accept consumes the next rune if it's from the valid set.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) int {
	n := 0
	for strings.ContainsRune(valid, l.next()) {
		n++
	}
	l.backup()
	return n
}

// acceptString consumes s if the input continues with it.
func (l *lexer) acceptString(s string) bool {
	if strings.HasPrefix(l.input[l.pos:], s) {
		l.pos += bytePosition(len(s))
		return true
	}
	return false
}

// errorf emits an error token and terminates the scan.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.pending = append(l.pending, lexeme{tokenTypeError, l.start, fmt.Sprintf(format, args...)})
	l.done = true
	return nil
}

// buildLexUntil returns a state that consumes runes while checker allows it
// and then emits a single token of kind.
func buildLexUntil(kind tokenType, checker func(r rune) (bool, error)) stateFn {
	return func(l *lexer) stateFn {
		for {
			r := l.next()
			ok, err := checker(r)
			if err != nil {
				return l.errorf("%v", err)
			}
			if !ok {
				if r != EOFRUNE {
					l.backup()
				}
				break
			}
		}
		l.emit(kind)
		return lexSource
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isNewline(r rune) bool {
	return r == '\r' || r == '\n'
}

// isAlphaNumeric reports whether r can appear in an identifier.
func isAlphaNumeric(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
