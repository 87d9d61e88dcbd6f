// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	"github.com/b11005/blink-idl-diff/internal/adapters/webidl/ast"
)

// Parse parses the given WebIDL source into a parse tree. Errors are attached
// to the nodes they occurred in; use ParseFile to get them as a list.
func Parse(input string) *ast.File {
	f, _ := ParseFile(input)
	return f
}

// ParseFile parses the given WebIDL source and returns the tree along with
// the errors found. Parsing stops at the first error.
func ParseFile(input string) (*ast.File, []*ast.ErrorNode) {
	config := parserConfig{
		ignoredTokenTypes: map[tokenType]bool{
			tokenTypeWhitespace: true,
			tokenTypeComment:    true,
		},
		isCommentToken: isCommentToken,
	}

	parser := buildParser(lex(input), config)
	f := parser.consumeTopLevel()
	return f, parser.errors
}

// declarationKeywords start a declaration at the root level.
var declarationKeywords = []string{
	"interface", "partial", "callback", "dictionary", "enum", "typedef", "namespace",
}

// consumeTopLevel attempts to consume the top-level constructs of a WebIDL file.
func (p *sourceParser) consumeTopLevel() *ast.File {
	n := &ast.File{}
	defer p.node(n)()

	// Start at the first token.
	p.consumeToken()

	for !p.isToken(tokenTypeEOF) && !p.failed() {
		switch {
		case p.isToken(tokenTypeLeftBracket) || p.isKeyword(declarationKeywords...):
			n.Declarations = append(n.Declarations, p.consumeDeclaration())
		case p.isToken(tokenTypeIdentifier) && p.isNextKeyword("implements"):
			n.Declarations = append(n.Declarations, p.consumeImplementation())
		case p.isToken(tokenTypeIdentifier) && p.isNextKeyword("includes"):
			n.Declarations = append(n.Declarations, p.consumeIncludes())
		default:
			p.emitError("unexpected %s at root level", p.found())
		}
	}
	return n
}

// consumeDeclaration attempts to consume a declaration, with optional attributes.
func (p *sourceParser) consumeDeclaration() ast.Decl {
	base := &ast.Base{}
	finish := p.node(base)
	ann := p.tryConsumeAnnotations()

	partial := p.tryConsumeKeyword("partial")
	switch {
	case p.tryConsumeKeyword("interface"):
		if p.tryConsumeKeyword("mixin") {
			return p.consumeMixin(partial, ann, base, finish)
		}
		return p.consumeInterface(partial, false, ann, base, finish)
	case p.isKeyword("dictionary"):
		return p.consumeDictionary(partial, ann, base, finish)
	case p.isKeyword("namespace"):
		return p.consumeNamespace(partial, ann, base, finish)
	case partial:
		p.emitError("expected interface, dictionary or namespace after partial, found %s", p.found())
	case p.isKeyword("enum"):
		return p.consumeEnum(ann, base, finish)
	case p.isKeyword("typedef"):
		return p.consumeTypedef(ann, base, finish)
	case p.tryConsumeKeyword("callback"):
		if p.tryConsumeKeyword("interface") {
			return p.consumeInterface(false, true, ann, base, finish)
		}
		return p.consumeCallback(ann, base, finish)
	default:
		p.emitError("expected declaration, found %s", p.found())
	}
	finish()
	return &ast.Interface{Base: *base, Annotations: ann}
}

// consumeInheritance consumes `: A` and, to report it properly, `: A, B`.
func (p *sourceParser) consumeInheritance() []string {
	if _, ok := p.tryConsume(tokenTypeColon); !ok {
		return nil
	}
	var out []string
	for {
		out = append(out, p.consumeIdentifier())
		if _, ok := p.tryConsume(tokenTypeComma); !ok || p.failed() {
			return out
		}
	}
}

// consumeBodyEnd consumes the closing `};` of a declaration body.
func (p *sourceParser) consumeBodyEnd() {
	if _, ok := p.consume(tokenTypeRightBrace); ok {
		p.consume(tokenTypeSemicolon)
	}
}

func (p *sourceParser) consumeInterface(partial, callback bool, ann []*ast.Annotation, base *ast.Base, finish func()) *ast.Interface {
	n := &ast.Interface{Annotations: ann, Partial: partial, Callback: callback}
	defer func() {
		finish()
		n.Base = *base
	}()

	n.Name = p.consumeIdentifier()
	n.Inherits = p.consumeInheritance()

	// {
	if _, ok := p.consume(tokenTypeLeftBrace); !ok {
		return n
	}

	for !p.isToken(tokenTypeRightBrace) && !p.failed() {
		memberAnn := p.tryConsumeAnnotations()
		switch {
		case p.isCustomOp():
			n.CustomOps = append(n.CustomOps, p.consumeCustomOp())
		case p.isIterable():
			n.Iterables = append(n.Iterables, p.consumeIterable())
		default:
			n.Members = append(n.Members, p.consumeMember(memberAnn, false))
		}
		p.consume(tokenTypeSemicolon)
	}

	// };
	p.consumeBodyEnd()
	return n
}

func (p *sourceParser) consumeMixin(partial bool, ann []*ast.Annotation, base *ast.Base, finish func()) *ast.Mixin {
	n := &ast.Mixin{Annotations: ann, Partial: partial}
	defer func() {
		finish()
		n.Base = *base
	}()

	n.Name = p.consumeIdentifier()

	// {
	if _, ok := p.consume(tokenTypeLeftBrace); !ok {
		return n
	}

	for !p.isToken(tokenTypeRightBrace) && !p.failed() {
		memberAnn := p.tryConsumeAnnotations()
		if p.isCustomOp() {
			n.CustomOps = append(n.CustomOps, p.consumeCustomOp())
		} else {
			n.Members = append(n.Members, p.consumeMember(memberAnn, false))
		}
		p.consume(tokenTypeSemicolon)
	}

	// };
	p.consumeBodyEnd()
	return n
}

func (p *sourceParser) consumeDictionary(partial bool, ann []*ast.Annotation, base *ast.Base, finish func()) *ast.Dictionary {
	n := &ast.Dictionary{Annotations: ann, Partial: partial}
	defer func() {
		finish()
		n.Base = *base
	}()
	p.consumeKeyword("dictionary")

	n.Name = p.consumeIdentifier()
	if _, ok := p.tryConsume(tokenTypeColon); ok {
		n.Inherits = p.consumeIdentifier()
	}

	// {
	if _, ok := p.consume(tokenTypeLeftBrace); !ok {
		return n
	}
	for !p.isToken(tokenTypeRightBrace) && !p.failed() {
		memberAnn := p.tryConsumeAnnotations()
		n.Members = append(n.Members, p.consumeMember(memberAnn, true))
		p.consume(tokenTypeSemicolon)
	}

	// };
	p.consumeBodyEnd()
	return n
}

func (p *sourceParser) consumeNamespace(partial bool, ann []*ast.Annotation, base *ast.Base, finish func()) *ast.Namespace {
	n := &ast.Namespace{Annotations: ann, Partial: partial}
	defer func() {
		finish()
		n.Base = *base
	}()
	p.consumeKeyword("namespace")
	n.Name = p.consumeIdentifier()

	// {
	if _, ok := p.consume(tokenTypeLeftBrace); !ok {
		return n
	}
	for !p.isToken(tokenTypeRightBrace) && !p.failed() {
		memberAnn := p.tryConsumeAnnotations()
		n.Members = append(n.Members, p.consumeMember(memberAnn, false))
		p.consume(tokenTypeSemicolon)
	}

	// };
	p.consumeBodyEnd()
	return n
}

func (p *sourceParser) consumeEnum(ann []*ast.Annotation, base *ast.Base, finish func()) *ast.Enum {
	n := &ast.Enum{Annotations: ann}
	defer func() {
		finish()
		n.Base = *base
	}()
	p.consumeKeyword("enum")
	n.Name = p.consumeIdentifier()

	// {
	if _, ok := p.consume(tokenTypeLeftBrace); !ok {
		return n
	}
	for !p.isToken(tokenTypeRightBrace) && !p.failed() {
		if len(n.Values) != 0 {
			if _, ok := p.consume(tokenTypeComma); !ok {
				break
			}
			// trailing comma
			if p.isToken(tokenTypeRightBrace) {
				break
			}
		}
		lit := &ast.Literal{}
		finish := p.node(lit)
		if tok, ok := p.consume(tokenTypeString); ok {
			lit.Value = tok.value
		}
		finish()
		n.Values = append(n.Values, lit)
	}

	// };
	p.consumeBodyEnd()
	return n
}

// typedef [Clamp] unsigned long Foo;
func (p *sourceParser) consumeTypedef(ann []*ast.Annotation, base *ast.Base, finish func()) *ast.Typedef {
	n := &ast.Typedef{Annotations: ann}
	defer func() {
		finish()
		n.Base = *base
	}()
	p.consumeKeyword("typedef")
	n.Annotations = append(n.Annotations, p.tryConsumeAnnotations()...)
	n.Type = p.consumeType()
	n.Name = p.consumeIdentifier()
	p.consume(tokenTypeSemicolon)
	return n
}

// callback Foo = void (Bar bar);
func (p *sourceParser) consumeCallback(ann []*ast.Annotation, base *ast.Base, finish func()) *ast.Callback {
	n := &ast.Callback{Annotations: ann}
	defer func() {
		finish()
		n.Base = *base
	}()
	n.Name = p.consumeIdentifier()
	p.consume(tokenTypeEquals)
	n.Return = p.consumeType()
	n.Parameters = p.consumeParameters()
	p.consume(tokenTypeSemicolon)
	return n
}

// isCustomOp reports whether the current member is one of the bodiless
// operations (stringifier;, serializer ...;, jsonifier;, constructor(...)).
func (p *sourceParser) isCustomOp() bool {
	switch {
	case p.isKeyword("stringifier", "jsonifier"):
		return p.isNextToken(tokenTypeSemicolon)
	case p.isKeyword("serializer"):
		return p.isNextToken(tokenTypeSemicolon, tokenTypeEquals)
	case p.isKeyword("constructor"):
		return p.isNextToken(tokenTypeLeftParen)
	}
	return false
}

// consumeCustomOp consumes a custom operation up to, not including, its semicolon.
func (p *sourceParser) consumeCustomOp() *ast.CustomOp {
	n := &ast.CustomOp{}
	defer p.node(n)()

	n.Name = p.consumeIdentifier()
	switch n.Name {
	case "constructor":
		p.consumeParameters()
	case "serializer":
		// serializer = { attribute }; serializer = name;
		for !p.isToken(tokenTypeSemicolon, tokenTypeEOF) && !p.failed() {
			p.consumeToken()
		}
	}
	return n
}

func (p *sourceParser) isIterable() bool {
	if p.isKeyword("readonly") {
		return p.isNextKeyword("maplike") || p.isNextKeyword("setlike")
	}
	return p.isKeyword("iterable", "maplike", "setlike")
}

// consumeIterable consumes iterable<...>, maplike<...> and setlike<...>
// declarations up to, not including, the semicolon.
func (p *sourceParser) consumeIterable() *ast.Iterable {
	n := &ast.Iterable{}
	defer p.node(n)()

	n.Readonly = p.tryConsumeKeyword("readonly")
	n.Kind = p.consumeIdentifier()

	p.consume(tokenTypeLeftTri)
	first := p.consumeType()
	if _, ok := p.tryConsume(tokenTypeComma); ok {
		n.Key = first
		n.Value = p.consumeType()
	} else {
		n.Value = first
	}
	p.consume(tokenTypeRightTri)
	return n
}

// specialKeywords mark special operations and stringifier attributes.
var specialKeywords = []string{"getter", "setter", "deleter", "creator", "legacycaller", "stringifier"}

// consumeMember attempts to consume a member definition in a declaration,
// up to, not including, the semicolon.
func (p *sourceParser) consumeMember(ann []*ast.Annotation, dict bool) *ast.Member {
	n := &ast.Member{Annotations: ann}
	defer p.node(n)()

	n.Attribute = dict

qualifiers:
	for {
		switch {
		case p.isKeyword(specialKeywords...):
			n.Specials = append(n.Specials, p.consumeIdentifier())
		case p.tryConsumeKeyword("static"):
			n.Static = true
		case p.tryConsumeKeyword("const"):
			n.Const = true
			break qualifiers
		case p.tryConsumeKeyword("inherit"):
			n.Inherit = true
		case p.tryConsumeKeyword("readonly"):
			n.Readonly = true
		case p.tryConsumeKeyword("required"):
			n.Required = true
		case p.tryConsumeKeyword("attribute"):
			n.Attribute = true
			break qualifiers
		default:
			break qualifiers
		}
	}

	// [Clamp] long
	n.Annotations = append(n.Annotations, p.tryConsumeAnnotations()...)

	// Consume the type of the member.
	n.Type = p.consumeType()

	// Consume the member's name. Special operations may be anonymous.
	n.Name, _ = p.tryConsumeIdentifier()
	if n.Name == "" && (n.Attribute || n.Const || len(n.Specials) == 0) {
		p.emitError("expected member name, found %s", p.found())
		return n
	}

	// If not an attribute, consume the parameters of the member.
	if !n.Attribute && !n.Const {
		n.Parameters = p.consumeParameters()
	}
	n.Init = p.tryConsumeDefaultValue()
	return n
}

// tryConsumeAnnotations consumes any annotations found on the parent node.
func (p *sourceParser) tryConsumeAnnotations() (out []*ast.Annotation) {
	for !p.failed() {
		// [
		if _, ok := p.tryConsume(tokenTypeLeftBracket); !ok {
			return
		}
		// []
		if _, ok := p.tryConsume(tokenTypeRightBracket); ok {
			continue
		}

		for !p.failed() {
			// Foo()
			out = append(out, p.consumeAnnotationPart())

			// ,
			if _, ok := p.tryConsume(tokenTypeComma); !ok {
				break
			}
		}

		// ]
		if _, ok := p.consume(tokenTypeRightBracket); !ok {
			return
		}
	}
	return
}

// consumeAnnotationPart consumes an annotation, as found within a set of brackets `[]`.
//
//	[A] [A=B] [A=(B,C)] [A(X x)] [A=B(X x)] [A=B|C] [A=*]
func (p *sourceParser) consumeAnnotationPart() *ast.Annotation {
	n := &ast.Annotation{}
	defer p.node(n)()

	// Consume the name of the annotation.
	n.Name = p.consumeIdentifier()

	switch {
	case p.isToken(tokenTypeEquals):
		p.consumeToken()
		if list, ok := p.tryConsumeValueList(); ok {
			n.Values = list
			return n
		}
		n.Value = p.consumeAnnotationValue()
		if p.isToken(tokenTypeLeftParen) {
			n.Parameters = p.consumeParameters()
		}
	case p.isToken(tokenTypeLeftParen):
		n.Parameters = p.consumeParameters()
	}
	return n
}

// consumeAnnotationValue consumes a single annotation value, joining values
// separated by | or &.
func (p *sourceParser) consumeAnnotationValue() string {
	var value string
	for !p.failed() {
		tok, ok := p.consume(tokenTypeIdentifier, tokenTypeString, tokenTypeNumber, tokenTypeAsterisk)
		if !ok {
			break
		}
		value += tok.value
		sep, ok := p.tryConsume(tokenTypePipe, tokenTypeAmpersand)
		if !ok {
			break
		}
		value += sep.value
	}
	return value
}

// tryConsumeValueList consumes `(a, b, c)` after an annotation's `=`.
func (p *sourceParser) tryConsumeValueList() ([]string, bool) {
	// "("
	if _, ok := p.tryConsume(tokenTypeLeftParen); !ok {
		return nil, false
	}
	list := []string{}
	for !p.isToken(tokenTypeRightParen) && !p.failed() {
		list = append(list, p.consumeAnnotationValue())
		// ","
		if _, ok := p.tryConsume(tokenTypeComma); !ok {
			break
		}
	}
	// ")"
	p.consume(tokenTypeRightParen)
	return list, true
}

// expandedTypeKeywords defines the keywords that form the prefixes for expanded types:
// multi-identifier type names.
var expandedTypeKeywords = map[string][]string{
	"unsigned":     {"short", "long"},
	"long":         {"long"},
	"unrestricted": {"float", "double"},
}

func (p *sourceParser) consumeType() ast.Type {
	base := &ast.Base{}
	finish := p.node(base)

	// Annotations on union members and type arguments are accepted and dropped.
	p.tryConsumeAnnotations()

	var tp ast.Type
	switch {
	case p.isToken(tokenTypeLeftParen):
		// "("
		p.consumeToken()
		union := &ast.UnionType{}
		for !p.failed() {
			union.Types = append(union.Types, p.consumeType())
			if !p.tryConsumeKeyword("or") {
				break
			}
		}
		// ")"
		p.consume(tokenTypeRightParen)
		finish()
		union.Base = *base
		tp = union

	case p.tryConsumeKeyword("any"):
		finish()
		tp = &ast.AnyType{Base: *base}

	default:
		typeName := p.consumeIdentifier()

		// If the identifier is the beginning of a possible expanded type name, check for the
		// secondary portion.
		for _, secondary := range expandedTypeKeywords[typeName] {
			if p.tryConsumeKeyword(secondary) {
				typeName += " " + secondary
				break
			}
		}
		if typeName == "unsigned long" && p.tryConsumeKeyword("long") {
			typeName += " long"
		}

		if _, ok := p.tryConsume(tokenTypeLeftTri); ok {
			// sequence<T>, record<K, V>
			param := &ast.ParametrizedType{Name: typeName}
			for !p.failed() {
				param.Elems = append(param.Elems, p.consumeType())
				if _, ok := p.tryConsume(tokenTypeComma); !ok {
					break
				}
			}
			p.consume(tokenTypeRightTri)
			finish()
			param.Base = *base
			tp = param
		} else {
			finish()
			tp = &ast.TypeName{Base: *base, Name: typeName}
		}
	}

	if _, ok := p.tryConsume(tokenTypeQuestionMark); ok {
		nl := &ast.NullableType{Base: *tp.NodeBase(), Type: tp}
		nl.End++
		return nl
	}
	return tp
}

// consumeParameter attempts to consume a parameter.
func (p *sourceParser) consumeParameter() *ast.Parameter {
	n := &ast.Parameter{}
	defer p.node(n)()
	n.Annotations = p.tryConsumeAnnotations()

	// optional
	if p.tryConsumeKeyword("optional") {
		n.Optional = true
	}

	// Consume the parameter's type.
	n.Type = p.consumeType()
	if _, ok := p.tryConsume(tokenTypeVariadic); ok {
		n.Variadic = true
	}

	// Consume the parameter's name.
	n.Name = p.consumeIdentifier()

	n.Init = p.tryConsumeDefaultValue()
	return n
}

func (p *sourceParser) tryConsumeDefaultValue() *ast.Literal {
	if _, ok := p.tryConsume(tokenTypeEquals); ok {
		return p.consumeLiteral()
	}
	return nil
}

// consumeLiteral consumes a constant or default value: numbers, strings,
// true/false/null/Infinity/NaN, [] and {}.
func (p *sourceParser) consumeLiteral() *ast.Literal {
	n := &ast.Literal{}
	defer p.node(n)()

	switch {
	case p.isToken(tokenTypeLeftBracket):
		p.consumeToken()
		if _, ok := p.consume(tokenTypeRightBracket); ok {
			n.Value = "[]"
		}
	case p.isToken(tokenTypeLeftBrace):
		p.consumeToken()
		if _, ok := p.consume(tokenTypeRightBrace); ok {
			n.Value = "{}"
		}
	default:
		if tok, ok := p.consume(tokenTypeNumber, tokenTypeString, tokenTypeIdentifier); ok {
			n.Value = tok.value
		}
	}
	return n
}

// consumeParameters attempts to consume a set of parameters.
func (p *sourceParser) consumeParameters() (out []*ast.Parameter) {
	out = []*ast.Parameter{}
	if _, ok := p.consume(tokenTypeLeftParen); !ok {
		return
	}
	if _, ok := p.tryConsume(tokenTypeRightParen); ok {
		return
	}

	for !p.failed() {
		out = append(out, p.consumeParameter())
		if _, ok := p.tryConsume(tokenTypeRightParen); ok {
			return
		}

		if _, ok := p.consume(tokenTypeComma); !ok {
			return
		}
	}
	return
}

// consumeImplementation attempts to consume an implementation definition.
func (p *sourceParser) consumeImplementation() *ast.Implementation {
	n := &ast.Implementation{}
	defer p.node(n)()

	// identifier
	n.Name = p.consumeIdentifier()

	// implements
	if !p.consumeKeyword("implements") {
		return n
	}

	// identifier
	n.Source = p.consumeIdentifier()

	// semicolon
	p.consume(tokenTypeSemicolon)
	return n
}

func (p *sourceParser) consumeIncludes() *ast.Includes {
	n := &ast.Includes{}
	defer p.node(n)()

	// identifier
	n.Name = p.consumeIdentifier()

	// includes
	if !p.consumeKeyword("includes") {
		return n
	}

	// identifier
	n.Source = p.consumeIdentifier()

	// semicolon
	p.consume(tokenTypeSemicolon)
	return n
}
