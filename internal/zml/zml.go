// Package zml parses the zml document grammar — a minimal markup language
// whose elements carry CSS-selector-like features (type, id, class,
// attribute) and an optional inline style block that reuses
// internal/css_parser's declaration grammar directly.
//
//	root      := element
//	element   := normal | text
//	normal    := features inline-style? children
//	text      := <string>
//	features  := '*' | (type | id | class | attribute)+
//	inline-style := '(' declaration-list ')'
//	children  := '{' element* '}'
//
// Parsing stops at the first hard failure (malformed grammar, a depth limit
// reached) and records it in Parser.Failure; there is no local recovery the
// way css_parser recovers from a bad declaration, since an ill-formed
// document has no well-defined "next element" to resume at.
package zml

import (
	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_lexer"
	"github.com/chadwain/zss/internal/css_parser"
	"github.com/chadwain/zss/internal/logger"
)

// Cause classifies why a zml parse failed.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseBlockDepthLimitReached
	CauseElementDepthLimitReached
	CauseElementWithNoFeatures
	CauseEmptyWithOtherFeatures
	CauseEmptyDeclarationValue
	CauseEmptyInlineStyleBlock
	CauseExpectedColon
	CauseExpectedIdentifier
	CauseInlineStyleBlockBeforeFeatures
	CauseInvalidFeature
	CauseInvalidID
	CauseInvalidToken
	CauseMissingSpaceBetweenFeatures
	CauseMultipleTypes
	CauseMultipleInlineStyleBlocks
	CauseUnexpectedEOF
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseBlockDepthLimitReached:
		return "block-depth-limit-reached"
	case CauseElementDepthLimitReached:
		return "element-depth-limit-reached"
	case CauseElementWithNoFeatures:
		return "element-with-no-features"
	case CauseEmptyWithOtherFeatures:
		return "empty-with-other-features"
	case CauseEmptyDeclarationValue:
		return "empty-declaration-value"
	case CauseEmptyInlineStyleBlock:
		return "empty-inline-style-block"
	case CauseExpectedColon:
		return "expected-colon"
	case CauseExpectedIdentifier:
		return "expected-identifier"
	case CauseInlineStyleBlockBeforeFeatures:
		return "inline-style-block-before-features"
	case CauseInvalidFeature:
		return "invalid-feature"
	case CauseInvalidID:
		return "invalid-id"
	case CauseInvalidToken:
		return "invalid-token"
	case CauseMissingSpaceBetweenFeatures:
		return "missing-space-between-features"
	case CauseMultipleTypes:
		return "multiple-types"
	case CauseMultipleInlineStyleBlocks:
		return "multiple-inline-style-blocks"
	case CauseUnexpectedEOF:
		return "unexpected-eof"
	default:
		return "unknown"
	}
}

// ParseError is the single structural failure a zml parse can record. Once
// set, the parse stops making progress and the caller should treat the
// returned tree as incomplete.
type ParseError struct {
	Cause    Cause
	Location logger.Loc
}

// Options bounds recursion during a zml parse, the two limits spec.md names
// directly: how many "children" blocks may nest, and how deeply an
// inline-style declaration's value may nest simple blocks/functions.
type Options struct {
	MaxElementDepth     int
	MaxInlineStyleDepth int
}

func DefaultOptions() Options {
	return Options{MaxElementDepth: 1000, MaxInlineStyleDepth: 32}
}

// Parser walks a token stream built on top of css_parser.Parser (reused
// directly for the inline-style declaration grammar) to build a zml
// document tree.
type Parser struct {
	inner   *css_parser.Parser
	options Options

	// Failure holds the first structural error encountered, if any.
	Failure *ParseError

	// capturedErrors records the text of every error the inner
	// css_parser.Parser logs, in order. parseInlineStyle inspects the slice
	// appended during one ParseDeclarations call to tell a genuine
	// "expected a colon" failure apart from a nesting-depth limit reached
	// while parsing the inline style's value grammar, since both otherwise
	// surface identically as "the inner parser logged an error".
	capturedErrors []string
}

func NewParser(source *logger.Source, log logger.Log, options Options) *Parser {
	p := &Parser{options: options}
	wrapped := logger.Log{
		AddMsg: func(m logger.Msg) {
			if m.Kind == logger.Error {
				p.capturedErrors = append(p.capturedErrors, m.Data.Text)
			}
			log.AddMsg(m)
		},
		HasErrors: log.HasErrors,
		Done:      log.Done,
	}
	p.inner = css_parser.NewParser(source, wrapped, css_parser.Options{MaxNestingDepth: options.MaxInlineStyleDepth})
	return p
}

// Tree returns the component arena the parser has built so far.
func (p *Parser) Tree() *css_ast.Tree { return p.inner.Tree }

func (p *Parser) fail(cause Cause, loc logger.Loc) {
	if p.Failure == nil {
		p.Failure = &ParseError{Cause: cause, Location: loc}
	}
}

func (p *Parser) failed() bool { return p.Failure != nil }

func (p *Parser) current() css_lexer.Token { return p.inner.Current() }
func (p *Parser) advance()                 { p.inner.Advance() }
func (p *Parser) loc() logger.Loc          { return p.inner.Loc() }
func (p *Parser) at(kind css_lexer.T) bool { return p.current().Kind == kind }

// Parse runs a full zml parse over source and returns the document's root
// component (a TagZmlDocument) together with whether the parse succeeded.
// On failure, the returned tree still holds whatever was appended before
// the first structural error; callers that want the diagnostic should read
// it off the Parser via a direct NewParser/ParseDocument call instead.
func Parse(source *logger.Source, log logger.Log, options Options) (*css_ast.Tree, uint32, bool) {
	p := NewParser(source, log, options)
	root, ok := p.ParseDocument()
	return p.Tree(), root, ok
}
