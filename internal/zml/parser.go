package zml

import (
	"strings"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_lexer"
)

// ParseDocument parses "root := element" and requires the element to
// consume the entire input (trailing, non-trivia content after the root
// element is a parse error, not a second document).
func (p *Parser) ParseDocument() (uint32, bool) {
	p.skipTrivia()
	root := p.Tree().AddComplex(css_ast.TagZmlDocument, p.loc())

	if _, ok := p.parseElement(0); !ok {
		p.Tree().FinishComplex(root)
		return root, false
	}

	p.skipTrivia()
	if !p.at(css_lexer.TEOF) {
		p.fail(CauseInvalidToken, p.loc())
		p.Tree().FinishComplex(root)
		return root, false
	}

	p.Tree().FinishComplex(root)
	return root, true
}

// parseElement parses "element := normal | text".
func (p *Parser) parseElement(depth int) (uint32, bool) {
	if p.failed() {
		return 0, false
	}
	if depth > p.options.MaxElementDepth {
		p.fail(CauseElementDepthLimitReached, p.loc())
		return 0, false
	}

	if p.at(css_lexer.TString) {
		loc := p.loc()
		idx := p.Tree().AddBasic(css_ast.TagZmlTextElement, loc)
		p.advance()
		return idx, true
	}

	return p.parseNormalElement(depth)
}

// parseNormalElement parses "normal := features inline-style? children".
func (p *Parser) parseNormalElement(depth int) (uint32, bool) {
	start := p.Tree().Len()
	loc := p.loc()
	idx := p.Tree().AddComplex(css_ast.TagZmlElement, loc)

	if p.at(css_lexer.TLeftParen) {
		p.fail(CauseInlineStyleBlockBeforeFeatures, p.loc())
		p.Tree().Truncate(start)
		return 0, false
	}

	if !p.parseFeatures() {
		p.Tree().Truncate(start)
		return 0, false
	}

	p.skipTrivia()
	if p.at(css_lexer.TLeftParen) {
		if !p.parseInlineStyle() {
			p.Tree().Truncate(start)
			return 0, false
		}
		p.skipTrivia()
		if p.at(css_lexer.TLeftParen) {
			p.fail(CauseMultipleInlineStyleBlocks, p.loc())
			p.Tree().Truncate(start)
			return 0, false
		}
	}

	if !p.at(css_lexer.TLeftCurly) {
		if p.at(css_lexer.TEOF) {
			p.fail(CauseUnexpectedEOF, p.loc())
		} else {
			p.fail(CauseInvalidToken, p.loc())
		}
		p.Tree().Truncate(start)
		return 0, false
	}

	if !p.parseChildren(depth) {
		p.Tree().Truncate(start)
		return 0, false
	}

	p.Tree().FinishComplex(idx)
	return idx, true
}

// isFeatureStart reports whether the current token could begin a feature
// (type, id, class, or attribute) or the universal "*" marker.
func (p *Parser) isFeatureStart() bool {
	switch {
	case p.at(css_lexer.TIdent):
		return true
	case p.at(css_lexer.THashID) || p.at(css_lexer.THashUnrestricted):
		return true
	case p.at(css_lexer.TDelim) && (p.current().Delim == '.' || p.current().Delim == '*'):
		return true
	case p.at(css_lexer.TLeftSquare):
		return true
	}
	return false
}

// parseFeatures parses "features := '*' | (type | id | class | attribute)+".
func (p *Parser) parseFeatures() bool {
	loc := p.loc()
	featuresIdx := p.Tree().AddComplex(css_ast.TagZmlFeatures, loc)

	if p.at(css_lexer.TDelim) && p.current().Delim == '*' {
		emptyLoc := p.loc()
		p.advance()
		p.Tree().AddBasic(css_ast.TagZmlEmpty, emptyLoc)
		p.Tree().FinishComplex(featuresIdx)

		p.skipTrivia()
		if p.isFeatureStart() {
			p.fail(CauseEmptyWithOtherFeatures, p.loc())
			return false
		}
		return true
	}

	sawType := false
	count := 0
	// prevHadTrivia starts true: nothing precedes the first feature that
	// could make it "missing space from the previous one".
	prevHadTrivia := true

	for {
		// A bare identifier (a type feature) immediately following another
		// feature with no intervening whitespace/comment is ambiguous with
		// that feature's own trailing characters; every other feature kind
		// is self-delimited by its leading "#"/"."/"[" so this can only
		// actually fire for a second, non-type feature followed directly by
		// a type.
		if count > 0 && !prevHadTrivia && p.at(css_lexer.TIdent) {
			p.fail(CauseMissingSpaceBetweenFeatures, p.loc())
			return false
		}

		switch {
		case p.at(css_lexer.TIdent):
			if sawType {
				p.fail(CauseMultipleTypes, p.loc())
				return false
			}
			sawType = true
			p.Tree().AddBasic(css_ast.TagZmlType, p.loc())
			p.advance()

		case p.at(css_lexer.THashID):
			p.Tree().AddBasic(css_ast.TagZmlID, p.loc())
			p.advance()

		case p.at(css_lexer.THashUnrestricted):
			p.fail(CauseInvalidID, p.loc())
			return false

		case p.at(css_lexer.TDelim) && p.current().Delim == '.':
			if !p.parseClassFeature() {
				return false
			}

		case p.at(css_lexer.TLeftSquare):
			if !p.parseAttributeFeature() {
				return false
			}

		default:
			if count == 0 {
				p.fail(CauseElementWithNoFeatures, p.loc())
				return false
			}
			p.Tree().FinishComplex(featuresIdx)
			return true
		}

		count++
		prevHadTrivia = p.skipTriviaTracked()
	}
}

// parseClassFeature parses "'.' <ident>".
func (p *Parser) parseClassFeature() bool {
	p.advance() // '.'
	if !p.at(css_lexer.TIdent) {
		p.fail(CauseExpectedIdentifier, p.loc())
		return false
	}
	p.Tree().AddBasic(css_ast.TagZmlClass, p.loc())
	p.advance()
	return true
}

// parseAttributeFeature parses "'[' <ident> ('=' (<ident> | <string>))? ']'".
func (p *Parser) parseAttributeFeature() bool {
	start := p.Tree().Len()
	loc := p.loc()
	attrIdx := p.Tree().AddComplex(css_ast.TagZmlAttribute, loc)
	p.advance() // '['
	p.skipTrivia()

	if !p.at(css_lexer.TIdent) {
		p.fail(CauseExpectedIdentifier, p.loc())
		p.Tree().Truncate(start)
		return false
	}
	p.Tree().AddBasic(css_ast.TagIdent, p.loc())
	p.advance()
	p.skipTrivia()

	if p.at(css_lexer.TDelim) && p.current().Delim == '=' {
		p.advance()
		p.skipTrivia()
		switch {
		case p.at(css_lexer.TIdent):
			p.Tree().AddBasic(css_ast.TagIdent, p.loc())
			p.advance()
		case p.at(css_lexer.TString):
			p.Tree().AddBasic(css_ast.TagString, p.loc())
			p.advance()
		default:
			p.fail(CauseExpectedIdentifier, p.loc())
			p.Tree().Truncate(start)
			return false
		}
		p.skipTrivia()
	}

	if !p.at(css_lexer.TRightSquare) {
		p.fail(CauseInvalidFeature, p.loc())
		p.Tree().Truncate(start)
		return false
	}
	p.advance()

	p.Tree().FinishComplex(attrIdx)
	return true
}

// parseInlineStyle parses "'(' declaration-list ')'", reusing
// css_parser.Parser.ParseDeclarations directly for the declaration-list
// grammar so the inline style's value parsing (including simple block and
// function nesting bounded by MaxInlineStyleDepth) is exactly the same code
// a standalone style rule's body would use.
func (p *Parser) parseInlineStyle() bool {
	start := p.Tree().Len()
	loc := p.loc()
	idx := p.Tree().AddComplex(css_ast.TagZmlStyles, loc)
	p.advance() // '('

	before := len(p.capturedErrors)
	p.inner.ParseDeclarations(css_lexer.TRightParen)
	newErrors := p.capturedErrors[before:]

	if !p.at(css_lexer.TRightParen) {
		p.fail(CauseUnexpectedEOF, p.loc())
		p.Tree().Truncate(start)
		return false
	}
	p.advance() // ')'

	if len(newErrors) > 0 {
		cause := CauseExpectedColon
		for _, text := range newErrors {
			if strings.Contains(text, "nesting depth") {
				cause = CauseBlockDepthLimitReached
				break
			}
		}
		p.fail(cause, loc)
		p.Tree().Truncate(start)
		return false
	}

	if p.Tree().Len() == idx+1 {
		p.fail(CauseEmptyInlineStyleBlock, loc)
		p.Tree().Truncate(start)
		return false
	}

	declSeq := p.Tree().ChildSequence(idx)
	for {
		declIdx, ok := declSeq.Next()
		if !ok {
			break
		}
		if p.Tree().Tag(declIdx) != css_ast.TagDeclaration {
			continue
		}
		valueSeq := p.Tree().ChildSequence(declIdx)
		valueSeq.SkipSpaces()
		if valueSeq.Empty() {
			p.fail(CauseEmptyDeclarationValue, p.Tree().Loc(declIdx))
			p.Tree().Truncate(start)
			return false
		}
	}

	p.Tree().FinishComplex(idx)
	return true
}

// parseChildren parses "'{' element* '}'".
func (p *Parser) parseChildren(depth int) bool {
	start := p.Tree().Len()
	idx := p.Tree().AddComplex(css_ast.TagZmlChildren, p.loc())
	p.advance() // '{'

	for {
		p.skipTrivia()
		if p.at(css_lexer.TRightCurly) {
			p.advance()
			p.Tree().FinishComplex(idx)
			return true
		}
		if p.at(css_lexer.TEOF) {
			p.fail(CauseUnexpectedEOF, p.loc())
			p.Tree().Truncate(start)
			return false
		}
		if _, ok := p.parseElement(depth + 1); !ok {
			p.Tree().Truncate(start)
			return false
		}
	}
}

// skipTrivia advances past whitespace and comments without reporting
// whether any were found; most call sites only care about the resulting
// position.
func (p *Parser) skipTrivia() {
	for p.at(css_lexer.TWhitespace) || p.at(css_lexer.TComments) {
		p.advance()
	}
}

// skipTriviaTracked is skipTrivia but reports whether it consumed anything,
// the detail parseFeatures needs to judge adjacency between two features.
func (p *Parser) skipTriviaTracked() bool {
	skipped := false
	for p.at(css_lexer.TWhitespace) || p.at(css_lexer.TComments) {
		skipped = true
		p.advance()
	}
	return skipped
}
