// Package css_parser turns a token stream into a css_ast.Tree. It implements
// three entry points over the same underlying machinery: a full stylesheet
// (a list of rules), a bare list of component values, and a list of
// declarations (used both standalone and, via Parser.ParseDeclarations, as
// the building block the zml package reuses for inline style blocks).
package css_parser

import (
	"strings"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_lexer"
	"github.com/chadwain/zss/internal/logger"
)

// Options configures recovery behavior shared by every entry point.
type Options struct {
	// MaxNestingDepth bounds how deep simple blocks and functions may nest
	// before the parser gives up descending further and treats the
	// remainder of the offending block as unparsed content. This guards
	// against unbounded recursion on adversarial input.
	MaxNestingDepth int
}

// DefaultOptions returns the options this module uses unless a caller
// overrides them.
func DefaultOptions() Options {
	return Options{MaxNestingDepth: 32}
}

// Parser drives one parse: a token cursor, the tree it is building, and the
// diagnostics sink. It is exported so that internal/zml can embed one and
// call ParseDeclarations directly when it encounters an inline style block,
// continuing to append into the very same tree as its own document nodes.
type Parser struct {
	Tree    *css_ast.Tree
	Log     logger.Log
	Options Options

	ts    *css_lexer.TokenSource
	depth int
	tok   css_lexer.Token
}

// NewParser returns a Parser positioned at the start of source, with a
// freshly allocated Tree.
func NewParser(source *logger.Source, log logger.Log, options Options) *Parser {
	p := &Parser{
		Tree:    css_ast.NewTree(source),
		Log:     log,
		Options: options,
		ts:      css_lexer.NewTokenSource(source, log),
	}
	p.tok = p.ts.Next()
	return p
}

// Current returns the token at the cursor without consuming it.
func (p *Parser) Current() css_lexer.Token { return p.tok }

// Advance consumes the current token and reads the next one.
func (p *Parser) Advance() { p.tok = p.ts.Next() }

// Loc returns the start location of the current token.
func (p *Parser) Loc() logger.Loc { return p.tok.Range.Loc }

func (p *Parser) at(kind css_lexer.T) bool { return p.tok.Kind == kind }

func (p *Parser) eat(kind css_lexer.T) bool {
	if p.at(kind) {
		p.Advance()
		return true
	}
	return false
}

func (p *Parser) unexpected(text string) {
	p.Log.AddError(&p.ts.Tracker, p.tok.Range, text)
}

// appendLeaf appends the current token as a leaf component and advances.
func (p *Parser) appendLeaf() uint32 {
	tag := css_ast.LeafTagFromTokenKind(p.tok.Kind)
	idx := p.Tree.AddBasic(tag, p.tok.Range.Loc)
	p.Advance()
	return idx
}

// ParseStylesheet parses source as a top-level list of rules: interleaved
// at-rules and qualified rules, with stray whitespace and CDO/CDC tokens
// discarded. The result is the index of the TagStylesheet root.
func ParseStylesheet(source *logger.Source, log logger.Log, options Options) (*css_ast.Tree, uint32) {
	p := NewParser(source, log, options)
	root := p.Tree.AddComplex(css_ast.TagStylesheet, p.Loc())
	p.parseRuleList(true)
	p.Tree.FinishComplex(root)
	return p.Tree, root
}

// parseRuleList appends at-rules and qualified rules as children of the
// component most recently opened with AddComplex, stopping at TEOF (and, if
// !topLevel, at an unmatched "}" which the caller is responsible for
// consuming).
func (p *Parser) parseRuleList(topLevel bool) {
	for {
		switch p.tok.Kind {
		case css_lexer.TEOF:
			return

		case css_lexer.TRightCurly:
			if !topLevel {
				return
			}
			p.unexpected("unexpected \"}\"")
			p.Advance()
			continue

		case css_lexer.TWhitespace, css_lexer.TComments:
			p.Advance()
			continue

		case css_lexer.TCDO, css_lexer.TCDC:
			if topLevel {
				p.Advance()
				continue
			}
			p.parseQualifiedRule()

		case css_lexer.TAtKeyword:
			p.parseAtRule()

		default:
			p.parseQualifiedRule()
		}
	}
}

// parseAtRule consumes "@ident <prelude> ;" or "@ident <prelude> { ... }".
// The appended component's Loc is the "@" token, so Tree.Token recovers the
// at-keyword's name.
func (p *Parser) parseAtRule() {
	loc := p.Loc()
	idx := p.Tree.AddComplex(css_ast.TagAtRule, loc)
	p.Advance() // the at-keyword itself is not stored as a child

	for {
		switch p.tok.Kind {
		case css_lexer.TSemicolon:
			p.Advance()
			p.Tree.FinishComplex(idx)
			return

		case css_lexer.TEOF:
			p.Tree.FinishComplex(idx)
			return

		case css_lexer.TLeftCurly:
			p.parseSimpleBlock(css_ast.TagSimpleBlockCurly, css_lexer.TRightCurly)
			p.Tree.FinishComplex(idx)
			return

		default:
			p.parseComponentValue()
		}
	}
}

// parseQualifiedRule consumes "<prelude> { ... }", parsing the block's
// contents as a list of declarations. A qualified rule whose
// prelude runs into TEOF without ever finding a block is a parse error and
// contributes nothing to the tree, per the CSS list-of-rules algorithm.
func (p *Parser) parseQualifiedRule() {
	loc := p.Loc()
	start := p.Tree.Len()
	idx := p.Tree.AddComplex(css_ast.TagQualifiedRule, loc)

	for {
		switch p.tok.Kind {
		case css_lexer.TEOF:
			p.unexpected("unexpected end of file while looking for \"{\"")
			p.Tree.Truncate(start)
			return

		case css_lexer.TLeftCurly:
			block := p.Tree.AddComplex(css_ast.TagSimpleBlockCurly, p.Loc())
			p.Advance()
			p.ParseDeclarations(css_lexer.TRightCurly)
			p.eat(css_lexer.TRightCurly)
			p.Tree.FinishComplex(block)
			p.Tree.FinishComplex(idx)
			return

		default:
			p.parseComponentValue()
		}
	}
}

// parseComponentValue appends exactly one component value: a simple block,
// a function, or a single preserved token.
func (p *Parser) parseComponentValue() uint32 {
	switch p.tok.Kind {
	case css_lexer.TLeftCurly:
		return p.parseSimpleBlock(css_ast.TagSimpleBlockCurly, css_lexer.TRightCurly)
	case css_lexer.TLeftSquare:
		return p.parseSimpleBlock(css_ast.TagSimpleBlockSquare, css_lexer.TRightSquare)
	case css_lexer.TLeftParen:
		return p.parseSimpleBlock(css_ast.TagSimpleBlockParen, css_lexer.TRightParen)
	case css_lexer.TFunction:
		return p.parseFunction()
	default:
		return p.appendLeaf()
	}
}

// parseSimpleBlock consumes an opening bracket (already matched by the
// caller's switch), every component value up to the matching closer, and
// the closer itself. Neither bracket is stored as a component; the block's
// own Loc (the opening bracket's location) recovers it via Tree.Token.
func (p *Parser) parseSimpleBlock(tag css_ast.Tag, close css_lexer.T) uint32 {
	loc := p.Loc()
	idx := p.Tree.AddComplex(tag, loc)
	p.Advance()

	p.depth++
	if p.depth > p.Options.MaxNestingDepth {
		p.unexpected("maximum nesting depth exceeded")
		p.skipToMatchingClose(close)
		p.depth--
		p.Tree.FinishComplex(idx)
		return idx
	}

	for {
		switch p.tok.Kind {
		case close:
			p.Advance()
			p.depth--
			p.Tree.FinishComplex(idx)
			return idx

		case css_lexer.TEOF:
			p.depth--
			p.Tree.FinishComplex(idx)
			return idx

		case css_lexer.TRightCurly, css_lexer.TRightParen, css_lexer.TRightSquare:
			// A closer that doesn't match this block is dropped rather than
			// treated as this block's end; the CSS consume-a-simple-block
			// algorithm only reacts to its own matching closer.
			p.unexpected("unexpected \"" + p.tok.Kind.String() + "\"")
			p.Advance()

		default:
			p.parseComponentValue()
		}
	}
}

// parseFunction consumes a function token's arguments up to the matching
// ")". The function's own Loc is the function token's location, so
// Tree.Token recovers its name via DecodedText.
func (p *Parser) parseFunction() uint32 {
	loc := p.Loc()
	idx := p.Tree.AddComplex(css_ast.TagFunction, loc)
	p.Advance()

	p.depth++
	if p.depth > p.Options.MaxNestingDepth {
		p.unexpected("maximum nesting depth exceeded")
		p.skipToMatchingClose(css_lexer.TRightParen)
		p.depth--
		p.Tree.FinishComplex(idx)
		return idx
	}

	for {
		switch p.tok.Kind {
		case css_lexer.TRightParen:
			p.Advance()
			p.depth--
			p.Tree.FinishComplex(idx)
			return idx

		case css_lexer.TEOF:
			p.depth--
			p.Tree.FinishComplex(idx)
			return idx

		case css_lexer.TRightCurly, css_lexer.TRightSquare:
			p.unexpected("unexpected \"" + p.tok.Kind.String() + "\"")
			p.Advance()

		default:
			p.parseComponentValue()
		}
	}
}

// skipToMatchingClose discards tokens without building components until it
// passes close or reaches TEOF, used to bound recursion once the nesting
// depth limit has already fired for the enclosing construct.
func (p *Parser) skipToMatchingClose(close css_lexer.T) {
	for {
		switch p.tok.Kind {
		case close, css_lexer.TEOF:
			if p.tok.Kind == close {
				p.Advance()
			}
			return
		case css_lexer.TLeftCurly:
			p.skipBalanced(css_lexer.TRightCurly)
		case css_lexer.TLeftSquare:
			p.skipBalanced(css_lexer.TRightSquare)
		case css_lexer.TLeftParen, css_lexer.TFunction:
			p.skipBalanced(css_lexer.TRightParen)
		default:
			p.Advance()
		}
	}
}

func (p *Parser) skipBalanced(close css_lexer.T) {
	p.Advance()
	for {
		switch p.tok.Kind {
		case close, css_lexer.TEOF:
			if p.tok.Kind == close {
				p.Advance()
			}
			return
		case css_lexer.TLeftCurly:
			p.skipBalanced(css_lexer.TRightCurly)
		case css_lexer.TLeftSquare:
			p.skipBalanced(css_lexer.TRightSquare)
		case css_lexer.TLeftParen, css_lexer.TFunction:
			p.skipBalanced(css_lexer.TRightParen)
		default:
			p.Advance()
		}
	}
}

// ParseListOfComponentValues parses source as a flat, generic list of
// component values (every token, simple block, or function, including
// whitespace, preserved structurally). Used by callers that don't yet know
// what grammar the tokens belong to.
func ParseListOfComponentValues(source *logger.Source, log logger.Log, options Options) (*css_ast.Tree, uint32) {
	p := NewParser(source, log, options)
	root := p.Tree.AddComplex(css_ast.TagComponentList, p.Loc())
	for !p.at(css_lexer.TEOF) {
		p.parseComponentValue()
	}
	p.Tree.FinishComplex(root)
	return p.Tree, root
}

// ParseListOfDeclarations parses source as a standalone list of
// declarations and nested at-rules (the grammar found inside a style
// rule's or inline style block's braces), wrapped in a TagComponentList
// root.
func ParseListOfDeclarations(source *logger.Source, log logger.Log, options Options) (*css_ast.Tree, uint32) {
	p := NewParser(source, log, options)
	root := p.Tree.AddComplex(css_ast.TagComponentList, p.Loc())
	p.ParseDeclarations(css_lexer.TEOF)
	p.Tree.FinishComplex(root)
	return p.Tree, root
}

// ParseDeclarations appends declarations and at-rules as children of the
// component most recently opened with AddComplex, stopping (without
// consuming it) when it reaches stop or TEOF. This is the entry point
// internal/zml calls directly to parse an inline style block's contents
// into the same tree as the surrounding document, using whatever closing
// token shape the caller's block delimiter requires.
func (p *Parser) ParseDeclarations(stop css_lexer.T) {
	prevDecl := int32(-1)

	for {
		switch p.tok.Kind {
		case stop, css_lexer.TEOF:
			return

		case css_lexer.TWhitespace, css_lexer.TComments, css_lexer.TSemicolon:
			p.Advance()
			continue

		case css_lexer.TAtKeyword:
			p.parseAtRule()
			continue

		case css_lexer.TIdent:
			if idx, ok := p.parseDeclaration(prevDecl, stop); ok {
				prevDecl = int32(idx)
			}
			continue

		default:
			p.unexpected("expected a declaration")
			p.parseBadDeclaration(stop)
		}
	}
}

// parseDeclaration consumes "<ident> : <value> [!important]? [;]?". On
// success it returns the declaration's index; on failure (no colon found)
// it reports a parse error, discards the malformed run up to the next ";"
// or stop token, and returns ok == false, exactly as the CSS
// consume-a-declaration algorithm discards a bad declaration rather than
// halting the whole list.
func (p *Parser) parseDeclaration(prevDecl int32, stop css_lexer.T) (uint32, bool) {
	start := p.Tree.Len()
	loc := p.Loc()

	p.Advance() // the property name ident; not stored, Tree.Token(idx) recovers it

	for p.at(css_lexer.TWhitespace) {
		p.Advance()
	}
	if !p.eat(css_lexer.TColon) {
		p.unexpected("expected \":\"")
		p.Tree.Truncate(start)
		p.skipDeclarationRemainder(stop)
		return 0, false
	}

	idx := p.Tree.BeginDeclaration(loc, prevDecl)

	valueStart := p.Tree.Len()
valueLoop:
	for {
		switch p.tok.Kind {
		case css_lexer.TSemicolon, stop, css_lexer.TEOF:
			break valueLoop
		default:
			p.parseComponentValue()
		}
	}

	if important := p.stripTrailingImportant(valueStart); important {
		p.Tree.MarkImportant(idx)
	}

	if p.at(css_lexer.TSemicolon) {
		p.Advance()
	}

	p.Tree.FinishComplex(idx)
	return idx, true
}

// stripTrailingImportant reports whether the declaration's already-appended
// value (the siblings from valueStart to the tree's current length) ends
// with "!important", ignoring trailing whitespace. It does not remove the
// matched tokens from the tree; Extra.Important alone communicates the
// result to a consumer, keeping the value's own child range intact for
// anyone who wants to see the literal tokens that were written.
func (p *Parser) stripTrailingImportant(valueStart uint32) bool {
	end := p.Tree.Len()
	i := end
	for i > valueStart && p.Tree.Tag(i-1).IsSpaceOrComment() {
		i--
	}
	if i == valueStart || p.Tree.Tag(i-1) != css_ast.TagIdent {
		return false
	}
	if !strings.EqualFold(p.Tree.DecodedText(i-1), "important") {
		return false
	}
	i--
	for i > valueStart && p.Tree.Tag(i-1).IsSpaceOrComment() {
		i--
	}
	if i == valueStart || p.Tree.Tag(i-1) != css_ast.TagDelim {
		return false
	}
	if p.Tree.Token(i-1).Delim != '!' {
		return false
	}
	return true
}

// skipDeclarationRemainder discards tokens after a malformed declaration's
// name up to (and including) the next top-level ";", matching what
// parseBadDeclaration does for the non-ident-led case.
func (p *Parser) skipDeclarationRemainder(stop css_lexer.T) {
	for {
		switch p.tok.Kind {
		case css_lexer.TSemicolon:
			p.Advance()
			return
		case stop, css_lexer.TEOF:
			return
		default:
			p.parseComponentValue()
		}
	}
}

// parseBadDeclaration discards one malformed "declaration" that didn't even
// start with an ident, stopping at stop, TEOF, or the next top-level ";".
func (p *Parser) parseBadDeclaration(stop css_lexer.T) {
	for {
		switch p.tok.Kind {
		case stop, css_lexer.TEOF:
			return
		case css_lexer.TSemicolon:
			p.Advance()
			return
		default:
			p.parseComponentValue()
		}
	}
}
