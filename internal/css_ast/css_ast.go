// Package css_ast implements a columnar, index-addressed component arena: a
// struct-of-arrays forest built by a single preorder append pass and read
// thereafter through Sequence cursors over contiguous child ranges.
//
// Unlike a conventional tree of pointers (the representation the CSS parser
// this package is adapted from uses), every component here is identified by
// its index into parallel slices: tag, location, and next-sibling. A node's
// children occupy the half-open index range [node+1, nextSibling[node]).
// There is no pointer graph to walk or free; the whole tree is discarded by
// letting the slices go out of scope.
//
// Components deliberately do not cache a token's text, length, or numeric
// value. Tokenizing is a pure function of (source, location), so any reader
// that needs a leaf's text just re-runs the tokenizer at its stored Loc (see
// Tree.Token) instead of the arena paying to store it twice.
package css_ast

import (
	"github.com/chadwain/zss/internal/css_lexer"
	"github.com/chadwain/zss/internal/logger"
)

// Tag identifies what kind of component a node is. The token tags mirror
// css_lexer.T 1:1 so that a leaf's Tag also tells a reader which lexer
// token it was built from; the remaining tags are structural (assembled by
// a parser, never emitted directly by the tokenizer) or specific to the zml
// document grammar.
type Tag uint8

const (
	TagEOF Tag = iota

	// Leaf tags, one per css_lexer.T token kind.
	TagIdent
	TagAtKeyword
	TagHashID
	TagHashUnrestricted
	TagString
	TagBadString
	TagURL
	TagBadURL
	TagDelim
	TagNumber
	TagInteger
	TagPercentage
	TagDimension
	TagWhitespace
	TagComments
	TagCDO
	TagCDC
	TagColon
	TagSemicolon
	TagComma
	TagLeftParen
	TagRightParen
	TagLeftSquare
	TagRightSquare
	TagLeftCurly
	TagRightCurly

	// Structural tags, always complex (non-leaf) components.
	TagComponentList
	TagStylesheet
	TagAtRule
	TagQualifiedRule
	TagDeclaration
	TagSimpleBlockCurly
	TagSimpleBlockSquare
	TagSimpleBlockParen
	TagFunction

	// zml tags.
	TagZmlDocument
	TagZmlElement
	TagZmlFeatures
	TagZmlChildren
	TagZmlStyles
	TagZmlTextElement
	TagZmlType
	TagZmlID
	TagZmlClass
	TagZmlEmpty
	TagZmlAttribute
)

func (tag Tag) String() string {
	switch tag {
	case TagEOF:
		return "eof"
	case TagIdent:
		return "ident"
	case TagAtKeyword:
		return "at-keyword"
	case TagHashID:
		return "hash-id"
	case TagHashUnrestricted:
		return "hash-unrestricted"
	case TagString:
		return "string"
	case TagBadString:
		return "bad-string"
	case TagURL:
		return "url"
	case TagBadURL:
		return "bad-url"
	case TagDelim:
		return "delim"
	case TagNumber:
		return "number"
	case TagInteger:
		return "integer"
	case TagPercentage:
		return "percentage"
	case TagDimension:
		return "dimension"
	case TagWhitespace:
		return "whitespace"
	case TagComments:
		return "comments"
	case TagCDO:
		return "cdo"
	case TagCDC:
		return "cdc"
	case TagColon:
		return "colon"
	case TagSemicolon:
		return "semicolon"
	case TagComma:
		return "comma"
	case TagLeftParen:
		return "left-paren"
	case TagRightParen:
		return "right-paren"
	case TagLeftSquare:
		return "left-square"
	case TagRightSquare:
		return "right-square"
	case TagLeftCurly:
		return "left-curly"
	case TagRightCurly:
		return "right-curly"
	case TagComponentList:
		return "component-list"
	case TagStylesheet:
		return "stylesheet"
	case TagAtRule:
		return "at-rule"
	case TagQualifiedRule:
		return "qualified-rule"
	case TagDeclaration:
		return "declaration"
	case TagSimpleBlockCurly:
		return "simple-block-curly"
	case TagSimpleBlockSquare:
		return "simple-block-square"
	case TagSimpleBlockParen:
		return "simple-block-paren"
	case TagFunction:
		return "function"
	case TagZmlDocument:
		return "zml-document"
	case TagZmlElement:
		return "zml-element"
	case TagZmlFeatures:
		return "zml-features"
	case TagZmlChildren:
		return "zml-children"
	case TagZmlStyles:
		return "zml-styles"
	case TagZmlTextElement:
		return "zml-text-element"
	case TagZmlType:
		return "zml-type"
	case TagZmlID:
		return "zml-id"
	case TagZmlClass:
		return "zml-class"
	case TagZmlEmpty:
		return "zml-empty"
	case TagZmlAttribute:
		return "zml-attribute"
	default:
		return "unknown"
	}
}

// IsSpaceOrComment reports whether tag is insignificant whitespace, the kind
// most grammar productions skip over rather than match against.
func (tag Tag) IsSpaceOrComment() bool {
	return tag == TagWhitespace || tag == TagComments
}

// leafTagFromTokenKind maps a css_lexer.T to the Tag a leaf component built
// from it gets. TFunction has no entry: a function token never becomes a
// leaf, it always opens a TagFunction complex component (see css_parser).
var leafTagFromTokenKind = map[css_lexer.T]Tag{
	css_lexer.TEOF:              TagEOF,
	css_lexer.TIdent:            TagIdent,
	css_lexer.TAtKeyword:        TagAtKeyword,
	css_lexer.THashID:           TagHashID,
	css_lexer.THashUnrestricted: TagHashUnrestricted,
	css_lexer.TString:           TagString,
	css_lexer.TBadString:        TagBadString,
	css_lexer.TURL:              TagURL,
	css_lexer.TBadURL:           TagBadURL,
	css_lexer.TDelim:            TagDelim,
	css_lexer.TNumber:           TagNumber,
	css_lexer.TInteger:          TagInteger,
	css_lexer.TPercentage:       TagPercentage,
	css_lexer.TDimension:        TagDimension,
	css_lexer.TWhitespace:       TagWhitespace,
	css_lexer.TComments:         TagComments,
	css_lexer.TCDO:              TagCDO,
	css_lexer.TCDC:              TagCDC,
	css_lexer.TColon:            TagColon,
	css_lexer.TSemicolon:        TagSemicolon,
	css_lexer.TComma:            TagComma,
	css_lexer.TLeftParen:        TagLeftParen,
	css_lexer.TRightParen:       TagRightParen,
	css_lexer.TLeftSquare:       TagLeftSquare,
	css_lexer.TRightSquare:      TagRightSquare,
	css_lexer.TLeftCurly:        TagLeftCurly,
	css_lexer.TRightCurly:       TagRightCurly,
}

// LeafTagFromTokenKind returns the Tag used for a leaf component built
// directly from a token of kind k.
func LeafTagFromTokenKind(k css_lexer.T) Tag {
	tag, ok := leafTagFromTokenKind[k]
	if !ok {
		panic("token kind has no leaf tag: " + k.String())
	}
	return tag
}

// Extra is the per-component payload whose meaning depends on Tag. Only
// TagDeclaration uses it; everything else a component needs (text, numeric
// value, unit) is re-derived on demand through Tree.Token instead of being
// cached here, since tokenizing is a pure function of a stored location.
type Extra struct {
	// Important records a trailing "!important" on a declaration.
	Important bool

	// PrevDecl links a declaration to the previous declaration in the same
	// block (-1 if this is the first), forming a singly linked chain a
	// sibling walk can also follow directly.
	PrevDecl int32
}

// Tree is the append-only component arena built during one parse.
type Tree struct {
	Source *logger.Source

	tag         []Tag
	loc         []logger.Loc
	nextSibling []uint32
	extra       []Extra
}

// NewTree returns an empty arena bound to source.
func NewTree(source *logger.Source) *Tree {
	return &Tree{Source: source}
}

// Len returns the number of components appended so far.
func (t *Tree) Len() uint32 {
	return uint32(len(t.tag))
}

// Tag returns the tag of component i.
func (t *Tree) Tag(i uint32) Tag { return t.tag[i] }

// Loc returns the source location of component i.
func (t *Tree) Loc(i uint32) logger.Loc { return t.loc[i] }

// NextSibling returns the index one past component i's last descendant.
// For a leaf this is i+1.
func (t *Tree) NextSibling(i uint32) uint32 { return t.nextSibling[i] }

// Extra returns the kind-specific payload of component i.
func (t *Tree) Extra(i uint32) Extra { return t.extra[i] }

// SetExtra overwrites the kind-specific payload of component i. Used by
// FinishComplex callers that only know the full payload (e.g. a
// declaration's "!important" flag) once all children have been parsed.
func (t *Tree) SetExtra(i uint32, e Extra) { t.extra[i] = e }

// silentLog discards every message; it exists only so Tree.Token can re-run
// the tokenizer without re-reporting diagnostics a real parse already
// emitted the first time it consumed that token.
var silentLog = logger.Log{
	AddMsg:    func(logger.Msg) {},
	HasErrors: func() bool { return false },
	Done:      func() []logger.Msg { return nil },
}

// Token re-derives the full lexer token for component i by re-running the
// tokenizer at its stored location. Tokenizing is a pure function of
// (source, location), so this reproduces exactly the token that was
// consumed when i was appended, without the arena needing to cache its
// length, text, or numeric payload. Valid for any component whose Loc is a
// real token start: every leaf, and every complex component whose Tag is
// TagAtRule, TagFunction, or one of the TagSimpleBlock* tags (their Loc is
// the at-keyword/function/opening-bracket token that introduced them).
func (t *Tree) Token(i uint32) css_lexer.Token {
	tok, _ := css_lexer.Next(silentLog, nil, t.Source, t.loc[i])
	return tok
}

// Text returns the raw source text of component i's token, following the
// same rule as Token about which components have one.
func (t *Tree) Text(i uint32) string {
	tok := t.Token(i)
	return t.Source.TextForRange(tok.Range)
}

// DecodedText returns component i's token text with CSS escapes resolved
// and surrounding syntax (quotes, "@"/"#" prefixes, a function's trailing
// "(") stripped, following the same rule as Token about which components
// have one.
func (t *Tree) DecodedText(i uint32) string {
	return t.Token(i).DecodedText(t.Source.Contents)
}

// AddBasic appends a leaf component and returns its index.
func (t *Tree) AddBasic(tag Tag, loc logger.Loc) uint32 {
	return t.AddBasicExtra(tag, loc, Extra{})
}

// AddBasicExtra is AddBasic with an explicit Extra payload.
func (t *Tree) AddBasicExtra(tag Tag, loc logger.Loc, extra Extra) uint32 {
	i := uint32(len(t.tag))
	t.tag = append(t.tag, tag)
	t.loc = append(t.loc, loc)
	t.nextSibling = append(t.nextSibling, i+1)
	t.extra = append(t.extra, extra)
	return i
}

// AddComplex reserves a slot for a component that will have children,
// recording a placeholder next-sibling index. The caller must call
// FinishComplex with the returned index once every descendant has been
// appended; until then the component's span is not yet valid.
func (t *Tree) AddComplex(tag Tag, loc logger.Loc) uint32 {
	return t.AddComplexExtra(tag, loc, Extra{})
}

// AddComplexExtra is AddComplex with an explicit initial Extra payload.
func (t *Tree) AddComplexExtra(tag Tag, loc logger.Loc, extra Extra) uint32 {
	i := uint32(len(t.tag))
	t.tag = append(t.tag, tag)
	t.loc = append(t.loc, loc)
	t.nextSibling = append(t.nextSibling, 0) // back-patched by FinishComplex
	t.extra = append(t.extra, extra)
	return i
}

// FinishComplex back-patches index's next-sibling to the arena's current
// length, i.e. one past every component appended since AddComplex. Every
// AddComplex must be paired with exactly one FinishComplex once its
// children are done, the same begin/end discipline a recursive-descent
// parser would otherwise get for free from the call stack.
func (t *Tree) FinishComplex(index uint32) {
	t.nextSibling[index] = uint32(len(t.tag))
}

// BeginDeclaration appends a declaration node linked to prevDecl (-1 if this
// is the first declaration in its block), and returns its index for a later
// FinishComplex call once the value tokens have been appended.
func (t *Tree) BeginDeclaration(loc logger.Loc, prevDecl int32) uint32 {
	return t.AddComplexExtra(TagDeclaration, loc, Extra{PrevDecl: prevDecl})
}

// MarkImportant flags a previously-added declaration as "!important".
func (t *Tree) MarkImportant(declIndex uint32) {
	e := t.extra[declIndex]
	e.Important = true
	t.extra[declIndex] = e
}

// Truncate discards every component from index onward. This is how a
// speculative parse attempt that fails rolls the arena back to its
// pre-attempt length; nothing appended during a failed attempt may survive.
func (t *Tree) Truncate(index uint32) {
	t.tag = t.tag[:index]
	t.loc = t.loc[:index]
	t.nextSibling = t.nextSibling[:index]
	t.extra = t.extra[:index]
}

// Sequence is a cursor over a contiguous child range [start, end) of the
// arena. It is a cheap value type: parsers snapshot it, attempt a
// speculative parse, and either keep the advanced cursor or discard it and
// fall back to the snapshot.
type Sequence struct {
	tree  *Tree
	start uint32
	end   uint32
}

// RootSequence returns a cursor over every top-level component in the tree.
func (t *Tree) RootSequence() Sequence {
	return Sequence{tree: t, start: 0, end: uint32(len(t.tag))}
}

// ChildSequence returns a cursor over parent's direct children.
func (t *Tree) ChildSequence(parent uint32) Sequence {
	return Sequence{tree: t, start: parent + 1, end: t.nextSibling[parent]}
}

// NewSequence builds a cursor over an arbitrary, already-known [start, end)
// range, e.g. a declaration's value range or a selector list's token span.
func NewSequence(tree *Tree, start, end uint32) Sequence {
	return Sequence{tree: tree, start: start, end: end}
}

// Empty reports whether the cursor has no more components (ignoring
// nothing; whitespace still counts as "not empty" until skipped).
func (s Sequence) Empty() bool { return s.start >= s.end }

// Start returns the cursor's current position, a snapshot suitable for a
// later Reset.
func (s Sequence) Start() uint32 { return s.start }

// End returns the exclusive end of the cursor's range.
func (s Sequence) End() uint32 { return s.end }

// Reset returns a copy of the cursor rewound (or fast-forwarded) to to,
// which must be a previously observed boundary within [start, end].
func (s Sequence) Reset(to uint32) Sequence {
	return Sequence{tree: s.tree, start: to, end: s.end}
}

// SkipSpaces advances the cursor past any leading whitespace/comments
// components without consuming anything else.
func (s *Sequence) SkipSpaces() {
	for s.start < s.end && s.tree.tag[s.start].IsSpaceOrComment() {
		s.start = s.tree.nextSibling[s.start]
	}
}

// NextKeepSpaces advances over the next sibling at the cursor, including
// whitespace/comments components, and returns its index.
func (s *Sequence) NextKeepSpaces() (uint32, bool) {
	if s.Empty() {
		return 0, false
	}
	i := s.start
	s.start = s.tree.nextSibling[i]
	return i, true
}

// Next advances over the next sibling, treating whitespace/comments as
// insignificant: it skips them first, then returns the following
// non-space component. This is what most grammar productions want.
func (s *Sequence) Next() (uint32, bool) {
	s.SkipSpaces()
	return s.NextKeepSpaces()
}

// NextSkipSpaces is an explicit alias for Next, used at call sites where
// skipping whitespace is the semantically important part of the call.
func (s *Sequence) NextSkipSpaces() (uint32, bool) {
	return s.Next()
}

// PeekKeepSpaces returns the next sibling (including whitespace) without
// advancing the cursor.
func (s Sequence) PeekKeepSpaces() (uint32, bool) {
	if s.Empty() {
		return 0, false
	}
	return s.start, true
}

// Peek returns the next non-space sibling without advancing the cursor.
func (s Sequence) Peek() (uint32, bool) {
	clone := s
	clone.SkipSpaces()
	return clone.PeekKeepSpaces()
}
