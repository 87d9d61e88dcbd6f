// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	"fmt"

	"github.com/b11005/blink-idl-diff/internal/adapters/webidl/ast"
)

// commentedLexeme is a lexeme with comments attached.
type commentedLexeme struct {
	lexeme
	comments []string
}

type tokenTypeChecker func(kind tokenType) bool

// parserConfig holds configuration for customizing the parser
type parserConfig struct {
	ignoredTokenTypes map[tokenType]bool // the token types ignored by the parser
	isCommentToken    tokenTypeChecker   // Returns whether the specified tokenType is a comment token.
}

// sourceParser holds the state of the parser.
type sourceParser struct {
	lex           *peekableLexer  // a reference to the lexer used for tokenization
	nodes         nodeStack       // the stack of the current nodes
	currentToken  commentedLexeme // the current token
	previousToken commentedLexeme // the previous token
	config        parserConfig    // Configuration for customizing the parser
	errors        []*ast.ErrorNode
}

// buildParser returns a new sourceParser instance.
func buildParser(lexer *lexer, config parserConfig) *sourceParser {
	eof := commentedLexeme{lexeme: lexeme{tokenTypeEOF, 0, ""}}
	return &sourceParser{
		lex:           peekableLex(lexer),
		currentToken:  eof,
		previousToken: eof,
		config:        config,
	}
}

// failed reports whether an error has been emitted. The grammar rules stop at
// the first error, so every loop either consumes a token or exits.
func (p *sourceParser) failed() bool {
	return len(p.errors) > 0
}

// createErrorNode creates a new error node and returns it.
func (p *sourceParser) createErrorNode(format string, args ...interface{}) *ast.ErrorNode {
	n := &ast.ErrorNode{Message: fmt.Sprintf(format, args...)}
	p.decorateStartRuneAndComments(n, p.currentToken)
	p.decorateEndRune(n, p.previousToken)
	return n
}

// node decorates the given node with the current token's position as its start
// position and pushes it onto the nodes stack. The returned func pops it again.
func (p *sourceParser) node(node ast.Node) func() {
	p.decorateStartRuneAndComments(node, p.currentToken)
	p.nodes.push(node)
	return func() {
		if p.currentNode() == nil {
			panic(fmt.Sprintf("No current node on stack. Token: %s", p.currentToken.value))
		}

		p.decorateEndRune(p.currentNode(), p.previousToken)
		p.nodes.pop()
	}
}

// decorateStartRuneAndComments decorates the given node with the location of the given token as its
// starting rune, as well as any comments attached to the token.
func (p *sourceParser) decorateStartRuneAndComments(node ast.Node, token commentedLexeme) {
	b := node.NodeBase()
	b.Start = int(token.position)
	b.Comments = append(b.Comments, token.comments...)
}

// decorateEndRune decorates the given node with the location of the given token as its
// ending rune.
func (p *sourceParser) decorateEndRune(node ast.Node, token commentedLexeme) {
	end := int(token.position) + len(token.value) - 1
	if end < 0 {
		end = 0
	}
	node.NodeBase().End = end
}

// currentNode returns the node at the top of the stack.
func (p *sourceParser) currentNode() ast.Node {
	return p.nodes.topValue()
}

// consumeToken advances the lexer forward, returning the next token.
func (p *sourceParser) consumeToken() commentedLexeme {
	var comments []string

	for {
		token := p.lex.nextToken()

		if p.config.isCommentToken(token.kind) {
			comments = append(comments, token.value)
		}

		if _, ok := p.config.ignoredTokenTypes[token.kind]; !ok {
			p.previousToken = p.currentToken
			p.currentToken = commentedLexeme{token, comments}
			if token.kind == tokenTypeError && p.currentNode() != nil {
				p.emitError("%s", token.value)
			}
			return p.currentToken
		}
	}
}

// isToken returns true if the current token matches one of the types given.
func (p *sourceParser) isToken(types ...tokenType) bool {
	for _, kind := range types {
		if p.currentToken.kind == kind {
			return true
		}
	}
	return false
}

// nextToken returns the next token found, without advancing the parser. Used for
// lookahead.
func (p *sourceParser) nextToken() lexeme {
	for counter := 1; ; counter++ {
		token := p.lex.peekToken(counter)
		if _, ok := p.config.ignoredTokenTypes[token.kind]; !ok {
			return token
		}
	}
}

// isNextToken returns true if the *next* token matches one of the types given.
func (p *sourceParser) isNextToken(types ...tokenType) bool {
	token := p.nextToken()
	for _, kind := range types {
		if token.kind == kind {
			return true
		}
	}
	return false
}

// isKeyword returns true if the current token is a keyword matching that given.
func (p *sourceParser) isKeyword(keywords ...string) bool {
	if !p.isToken(tokenTypeIdentifier) {
		return false
	}
	for _, k := range keywords {
		if p.currentToken.value == k {
			return true
		}
	}
	return false
}

// isNextKeyword returns true if the next token is a keyword matching that given.
func (p *sourceParser) isNextKeyword(keyword string) bool {
	token := p.nextToken()
	return token.kind == tokenTypeIdentifier && token.value == keyword
}

// emitError creates a new error node and attaches it as a child of the current
// node. Only the first error is kept.
func (p *sourceParser) emitError(format string, args ...interface{}) {
	if p.failed() {
		return
	}
	errorNode := p.createErrorNode(format, args...)
	p.errors = append(p.errors, errorNode)
	if n := p.currentNode(); n != nil {
		b := n.NodeBase()
		b.Errors = append(b.Errors, errorNode)
	}
}

// found describes the current token for error messages.
func (p *sourceParser) found() string {
	switch p.currentToken.kind {
	case tokenTypeEOF:
		return "end of file"
	case tokenTypeIdentifier, tokenTypeString, tokenTypeNumber:
		return fmt.Sprintf("%v %q", p.currentToken.kind, p.currentToken.value)
	}
	return fmt.Sprintf("%q", p.currentToken.value)
}

// consumeKeyword consumes an expected keyword token or adds an error node.
func (p *sourceParser) consumeKeyword(keyword string) bool {
	if !p.tryConsumeKeyword(keyword) {
		p.emitError("expected keyword %s, found %s", keyword, p.found())
		return false
	}
	return true
}

// tryConsumeKeyword attempts to consume an expected keyword token.
func (p *sourceParser) tryConsumeKeyword(keyword string) bool {
	if !p.isKeyword(keyword) {
		return false
	}
	p.consumeToken()
	return true
}

// consume performs consumption of the next token if it matches any of the given
// types and returns it. If no matching type is found, adds an error node.
func (p *sourceParser) consume(types ...tokenType) (lexeme, bool) {
	token, ok := p.tryConsume(types...)
	if !ok {
		p.emitError("expected one of %v, found %s", types, p.found())
	}
	return token, ok
}

// tryConsume performs consumption of the next token if it matches any of the given
// types and returns it.
func (p *sourceParser) tryConsume(types ...tokenType) (lexeme, bool) {
	if p.isToken(types...) {
		token := p.currentToken
		p.consumeToken()
		return token.lexeme, true
	}
	return lexeme{tokenTypeError, -1, ""}, false
}

// tryConsumeIdentifier attempts to consume an expected identifier.
func (p *sourceParser) tryConsumeIdentifier() (string, bool) {
	if !p.isToken(tokenTypeIdentifier) {
		return "", false
	}
	value := p.currentToken.value
	p.consumeToken()
	return value, true
}

// consumeIdentifier consumes an expected identifier token or adds an error node.
func (p *sourceParser) consumeIdentifier() string {
	if identifier, ok := p.tryConsumeIdentifier(); ok {
		return identifier
	}
	p.emitError("expected identifier, found %s", p.found())
	return ""
}
