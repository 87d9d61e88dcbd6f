// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Based on design first introduced in: http://blog.golang.org/two-go-talks-lexical-scanning-in-go-and

package webidl

import "fmt"

// lex creates a new scanner for the input string.
func lex(input string) *lexer {
	return buildlex(input, lexSource)
}

// tokenType identifies the type of lexer lexemes.
type tokenType int

const (
	tokenTypeError tokenType = iota // error occurred; value is text of error
	tokenTypeEOF
	tokenTypeWhitespace
	tokenTypeComment

	tokenTypeIdentifier // helloworld, interface
	tokenTypeString     // "hello"
	tokenTypeNumber     // 123, -0x1F, 1.5e3

	tokenTypeLeftBrace    // {
	tokenTypeRightBrace   // }
	tokenTypeLeftParen    // (
	tokenTypeRightParen   // )
	tokenTypeLeftBracket  // [
	tokenTypeRightBracket // ]
	tokenTypeLeftTri      // <
	tokenTypeRightTri     // >

	tokenTypeEquals       // =
	tokenTypeSemicolon    // ;
	tokenTypeComma        // ,
	tokenTypeQuestionMark // ?
	tokenTypeColon        // :
	tokenTypeVariadic     // ...
	tokenTypePipe         // |
	tokenTypeAmpersand    // &
	tokenTypeAsterisk     // *
)

var tokenTypeNames = [...]string{
	tokenTypeError:        "Error",
	tokenTypeEOF:          "EOF",
	tokenTypeWhitespace:   "Whitespace",
	tokenTypeComment:      "Comment",
	tokenTypeIdentifier:   "Identifier",
	tokenTypeString:       "String",
	tokenTypeNumber:       "Number",
	tokenTypeLeftBrace:    "LeftBrace",
	tokenTypeRightBrace:   "RightBrace",
	tokenTypeLeftParen:    "LeftParen",
	tokenTypeRightParen:   "RightParen",
	tokenTypeLeftBracket:  "LeftBracket",
	tokenTypeRightBracket: "RightBracket",
	tokenTypeLeftTri:      "LeftTri",
	tokenTypeRightTri:     "RightTri",
	tokenTypeEquals:       "Equals",
	tokenTypeSemicolon:    "Semicolon",
	tokenTypeComma:        "Comma",
	tokenTypeQuestionMark: "QuestionMark",
	tokenTypeColon:        "Colon",
	tokenTypeVariadic:     "Variadic",
	tokenTypePipe:         "Pipe",
	tokenTypeAmpersand:    "Ampersand",
	tokenTypeAsterisk:     "Asterisk",
}

func (t tokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("tokenType(%d)", int(t))
}

func isWhitespaceToken(kind tokenType) bool {
	return kind == tokenTypeWhitespace
}

func isCommentToken(kind tokenType) bool {
	return kind == tokenTypeComment
}

var punctuation = map[rune]tokenType{
	'{': tokenTypeLeftBrace,
	'}': tokenTypeRightBrace,
	'(': tokenTypeLeftParen,
	')': tokenTypeRightParen,
	'[': tokenTypeLeftBracket,
	']': tokenTypeRightBracket,
	'<': tokenTypeLeftTri,
	'>': tokenTypeRightTri,
	'=': tokenTypeEquals,
	';': tokenTypeSemicolon,
	',': tokenTypeComma,
	'?': tokenTypeQuestionMark,
	':': tokenTypeColon,
	'|': tokenTypePipe,
	'&': tokenTypeAmpersand,
	'*': tokenTypeAsterisk,
}

// lexSource scans a single token and returns the state for the next one.
func lexSource(l *lexer) stateFn {
	r := l.next()
	if kind, ok := punctuation[r]; ok {
		l.emit(kind)
		return lexSource
	}
	switch {
	case r == EOFRUNE:
		l.emit(tokenTypeEOF)
		return nil

	case isSpace(r) || isNewline(r):
		l.emit(tokenTypeWhitespace)
		return lexSource

	case r == '.':
		if l.acceptString("..") {
			l.emit(tokenTypeVariadic)
			return lexSource
		}
		if isDigit(l.peek()) {
			l.backup()
			return lexNumber
		}
		return l.errorf("unrecognized character at this location: %#U", r)

	case r == '-':
		next := l.peek()
		if isDigit(next) || next == '.' {
			l.backup()
			return lexNumber
		}
		if isAlphaNumeric(next) {
			// -Infinity
			l.backup()
			return lexIdentifierOrKeyword
		}
		return l.errorf("unrecognized character at this location: %#U", r)

	case isDigit(r):
		l.backup()
		return lexNumber

	case r == '"':
		l.backup()
		return lexStringLiteral

	case isAlphaNumeric(r):
		l.backup()
		return lexIdentifierOrKeyword

	case r == '/':
		switch l.peek() {
		case '/':
			l.backup()
			return lexSinglelineComment
		case '*':
			l.backup()
			return lexMultilineComment
		}
		return l.errorf("unrecognized character at this location: %#U", r)

	default:
		return l.errorf("unrecognized character at this location: %#U", r)
	}
}

// lexSinglelineComment scans until newline or EOFRUNE
func lexSinglelineComment(l *lexer) stateFn {
	checker := func(r rune) (bool, error) {
		result := r == EOFRUNE || isNewline(r)
		return !result, nil
	}

	l.acceptString("//")
	return buildLexUntil(tokenTypeComment, checker)
}

// lexMultilineComment scans until the closing */
func lexMultilineComment(l *lexer) stateFn {
	l.acceptString("/*")
	for {
		if l.acceptString("*/") {
			l.emit(tokenTypeComment)
			return lexSource
		}
		if l.next() == EOFRUNE {
			return l.errorf("unterminated comment")
		}
	}
}

// lexIdentifierOrKeyword searches for a keyword or literal identifier.
func lexIdentifierOrKeyword(l *lexer) stateFn {
	l.accept("-")
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	l.emit(tokenTypeIdentifier)
	return lexSource
}

// lexNumber scans integer (decimal, hex, octal) and float literals, with an
// optional leading minus.
func lexNumber(l *lexer) stateFn {
	const decimal = "0123456789"
	l.accept("-")
	if l.acceptString("0x") || l.acceptString("0X") {
		if l.acceptRun(decimal+"abcdefABCDEF") == 0 {
			return l.errorf("malformed hex literal %q", l.value())
		}
	} else {
		digits := l.acceptRun(decimal)
		if l.accept(".") {
			digits += l.acceptRun(decimal)
		}
		if digits == 0 {
			return l.errorf("malformed number %q", l.value())
		}
		if l.accept("eE") {
			l.accept("+-")
			if l.acceptRun(decimal) == 0 {
				return l.errorf("malformed exponent in %q", l.value())
			}
		}
	}
	if isAlphaNumeric(l.peek()) {
		l.next()
		return l.errorf("bad number syntax: %q", l.value())
	}
	l.emit(tokenTypeNumber)
	return lexSource
}

func lexStringLiteral(l *lexer) stateFn {
	l.accept(`"`)
	esc := false
	for {
		c := l.next()
		switch {
		case c == EOFRUNE:
			return l.errorf("unterminated string literal")
		case c == '"' && !esc:
			l.emit(tokenTypeString)
			return lexSource
		}
		esc = c == '\\' && !esc
	}
}
