package css_selector

import (
	"strings"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/intern"
	"github.com/chadwain/zss/internal/logger"
)

// knownPseudoClasses and knownPseudoElements are the names this parser
// recognizes by name. Anything outside these sets still parses and still
// contributes to specificity; it is just flagged unrecognized for a later
// stage to report or ignore, per the CSS forward-compatible parsing rule
// for pseudo-classes/elements.
var knownPseudoClasses = map[string]bool{
	"hover": true, "focus": true, "focus-visible": true, "focus-within": true,
	"active": true, "visited": true, "link": true, "target": true,
	"root": true, "empty": true, "first-child": true, "last-child": true,
	"only-child": true, "first-of-type": true, "last-of-type": true,
	"only-of-type": true, "disabled": true, "enabled": true, "checked": true,
	"not": true, "is": true, "where": true, "has": true,
	"nth-child": true, "nth-last-child": true, "nth-of-type": true, "nth-last-of-type": true,
}

var knownPseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
	"selection": true, "placeholder": true, "marker": true, "backdrop": true,
}

type parser struct {
	tree    *css_ast.Tree
	data    *Data
	env     *Environment
	log     logger.Log
	tracker *logger.LineColumnTracker
}

// ParseComplexSelectorList parses a <complex-selector-list> from seq, a
// cursor over an already-built css_ast sub-range (typically a qualified
// rule's prelude). On success it appends one or more complex selectors to
// data and returns true. On any parse failure data is rolled back to the
// length it had when this call started and false is returned; seq itself
// is a value parameter, so the caller's own cursor is untouched either way.
func ParseComplexSelectorList(tree *css_ast.Tree, data *Data, env *Environment, log logger.Log, tracker *logger.LineColumnTracker, seq css_ast.Sequence) bool {
	mark := data.Len()
	specMark := data.NumComplexSelectors()
	p := &parser{tree: tree, data: data, env: env, log: log, tracker: tracker}

	for {
		if !p.parseComplexSelector(&seq) {
			data.Truncate(mark, specMark)
			return false
		}
		seq.SkipSpaces()
		i, has := seq.PeekKeepSpaces()
		if !has {
			break
		}
		if tree.Tag(i) != css_ast.TagComma {
			p.unexpected(i)
			data.Truncate(mark, specMark)
			return false
		}
		seq.NextKeepSpaces()
		seq.SkipSpaces()
	}

	return true
}

func (p *parser) currentLoc(seq *css_ast.Sequence) logger.Loc {
	clone := *seq
	clone.SkipSpaces()
	if i, has := clone.PeekKeepSpaces(); has {
		return p.tree.Loc(i)
	}
	return logger.Loc{}
}

func (p *parser) unexpected(i uint32) {
	p.log.AddError(p.tracker, p.tree.Token(i).Range, "unexpected token in selector")
}

func (p *parser) unexpectedEOF() {
	p.log.AddError(p.tracker, logger.Range{}, "unexpected end of selector list")
}

// parseComplexSelector parses one compound selector followed by zero or
// more <combinator><compound> pairs, stopping (without consuming) at a
// comma, the end of seq, or the first position where neither a combinator
// nor leading whitespace is present.
func (p *parser) parseComplexSelector(seq *css_ast.Sequence) bool {
	seq.SkipSpaces()
	idx := p.data.addComplexSelector(p.currentLoc(seq))
	spec := Specificity{}

	p.data.addCompound(p.currentLoc(seq), CombinatorNone)
	s, ok := p.parseCompoundSelector(seq)
	if !ok {
		return false
	}
	spec = spec.Add(s)

	for {
		lookahead := *seq
		combinator, more := p.parseCombinator(&lookahead)
		if !more {
			break
		}
		*seq = lookahead
		seq.SkipSpaces() // whitespace after an explicit combinator, e.g. "a > b"

		p.data.addCompound(p.currentLoc(seq), combinator)
		s, ok := p.parseCompoundSelector(seq)
		if !ok {
			return false
		}
		spec = spec.Add(s)
	}

	p.data.finishComplexSelector(idx, spec)
	return true
}

// parseCombinator looks past any whitespace run for a combinator token,
// consuming what it finds. If no combinator token follows, the presence or
// absence of that whitespace run is itself the signal: whitespace with
// nothing else means an implicit descendant combinator, no whitespace means
// this complex selector has ended (not a failure — more is false).
func (p *parser) parseCombinator(seq *css_ast.Sequence) (combinator Combinator, more bool) {
	hadSpace := false
	for {
		i, ok := seq.PeekKeepSpaces()
		if !ok || !p.tree.Tag(i).IsSpaceOrComment() {
			break
		}
		hadSpace = true
		seq.NextKeepSpaces()
	}

	i, ok := seq.PeekKeepSpaces()
	if !ok || p.tree.Tag(i) == css_ast.TagComma {
		return CombinatorNone, false
	}

	if p.tree.Tag(i) == css_ast.TagDelim {
		switch p.tree.Token(i).Delim {
		case '>':
			seq.NextKeepSpaces()
			return CombinatorChild, true
		case '+':
			seq.NextKeepSpaces()
			return CombinatorNextSibling, true
		case '~':
			seq.NextKeepSpaces()
			return CombinatorSubsequentSibling, true
		case '|':
			snapshot := *seq
			seq.NextKeepSpaces()
			if j, ok2 := seq.PeekKeepSpaces(); ok2 && p.tree.Tag(j) == css_ast.TagDelim && p.tree.Token(j).Delim == '|' {
				seq.NextKeepSpaces()
				return CombinatorColumn, true
			}
			*seq = snapshot
		}
	}

	if hadSpace {
		return CombinatorDescendant, true
	}
	return CombinatorNone, false
}

// parseCompoundSelector parses an optional type/universal selector followed
// by zero-or-more subclass selectors, none of them separated by whitespace
// (every step below uses the space-preserving *KeepSpaces cursor methods so
// a stray space correctly ends the compound rather than being skipped).
func (p *parser) parseCompoundSelector(seq *css_ast.Sequence) (spec Specificity, ok bool) {
	any := false

	if matched, s, good := p.tryParseTypeOrUniversalSelector(seq); matched {
		if !good {
			return spec, false
		}
		spec = spec.Add(s)
		any = true
	}

subclass:
	for {
		i, has := seq.PeekKeepSpaces()
		if !has {
			break
		}
		switch p.tree.Tag(i) {
		case css_ast.TagHashID:
			seq.NextKeepSpaces()
			id, err := p.env.Ids.Intern(p.tree.DecodedText(i))
			if err != nil {
				p.log.AddError(p.tracker, p.tree.Token(i).Range, err.Error())
				return spec, false
			}
			p.data.addID(p.tree.Loc(i), id)
			spec = spec.Add(Specificity{A: 1})
			any = true

		case css_ast.TagDelim:
			if p.tree.Token(i).Delim != '.' {
				break subclass
			}
			seq.NextKeepSpaces()
			nameIdx, hasName := seq.PeekKeepSpaces()
			if !hasName || p.tree.Tag(nameIdx) != css_ast.TagIdent {
				p.unexpected(i)
				return spec, false
			}
			seq.NextKeepSpaces()
			id, err := p.env.Classes.Intern(p.tree.DecodedText(nameIdx))
			if err != nil {
				p.log.AddError(p.tracker, p.tree.Token(nameIdx).Range, err.Error())
				return spec, false
			}
			p.data.addClass(p.tree.Loc(i), id)
			spec = spec.Add(Specificity{B: 1})
			any = true

		case css_ast.TagSimpleBlockSquare:
			seq.NextKeepSpaces()
			s, good := p.parseAttributeSelector(i)
			if !good {
				return spec, false
			}
			spec = spec.Add(s)
			any = true

		case css_ast.TagColon:
			seq.NextKeepSpaces()
			isElement := false
			if j, hasNext := seq.PeekKeepSpaces(); hasNext && p.tree.Tag(j) == css_ast.TagColon {
				isElement = true
				seq.NextKeepSpaces()
			}
			s, good := p.parsePseudo(seq, isElement)
			if !good {
				return spec, false
			}
			spec = spec.Add(s)
			any = true

		default:
			break subclass
		}
	}

	if !any {
		if i, has := seq.PeekKeepSpaces(); has {
			p.unexpected(i)
		} else {
			p.unexpectedEOF()
		}
		return spec, false
	}
	return spec, true
}

// tryParseTypeOrUniversalSelector attempts "<ns-prefix>? <type-name>" at the
// cursor, where <type-name> is an ident or the "*" delim and <ns-prefix> is
// "(<ident>|'*')? '|'". matched is false if the cursor isn't positioned at a
// production of this shape at all — that is not a failure, just "there is
// no type selector here". Once matched, ok is false only on a genuine
// syntax or namespace-resolution error.
func (p *parser) tryParseTypeOrUniversalSelector(seq *css_ast.Sequence) (matched bool, spec Specificity, ok bool) {
	token0, has0 := seq.PeekKeepSpaces()
	if !has0 {
		return false, spec, true
	}
	tag0 := p.tree.Tag(token0)
	isIdent0 := tag0 == css_ast.TagIdent
	isStar0 := tag0 == css_ast.TagDelim && p.tree.Token(token0).Delim == '*'
	isBar0 := tag0 == css_ast.TagDelim && p.tree.Token(token0).Delim == '|'
	if !isIdent0 && !isStar0 && !isBar0 {
		return false, spec, true
	}

	var namespace intern.ID
	if isBar0 {
		seq.NextKeepSpaces()
		namespace = NamespaceNone
	} else {
		afterToken0 := *seq
		afterToken0.NextKeepSpaces()
		if token1, has1 := afterToken0.PeekKeepSpaces(); has1 && p.tree.Tag(token1) == css_ast.TagDelim && p.tree.Token(token1).Delim == '|' {
			if isStar0 {
				namespace = NamespaceAny
			} else if id, found := p.env.Prefixes[p.tree.DecodedText(token0)]; found {
				namespace = id
			} else {
				p.unexpected(token0)
				return true, spec, false
			}
			*seq = afterToken0
			seq.NextKeepSpaces() // the "|"
		} else {
			namespace = p.env.Default
		}
	}

	local, hasLocal := seq.PeekKeepSpaces()
	if !hasLocal {
		p.unexpectedEOF()
		return true, spec, false
	}

	switch p.tree.Tag(local) {
	case css_ast.TagIdent:
		seq.NextKeepSpaces()
		id, err := p.env.Types.Intern(p.tree.DecodedText(local))
		if err != nil {
			p.log.AddError(p.tracker, p.tree.Token(local).Range, err.Error())
			return true, spec, false
		}
		p.data.addType(p.tree.Loc(token0), namespace, id)
		return true, Specificity{C: 1}, true

	case css_ast.TagDelim:
		if p.tree.Token(local).Delim != '*' {
			p.unexpected(local)
			return true, spec, false
		}
		seq.NextKeepSpaces()
		p.data.addUniversal(p.tree.Loc(token0), namespace)
		return true, Specificity{}, true // universal does not contribute to c

	default:
		p.unexpected(local)
		return true, spec, false
	}
}

// parseAttributeSelector parses the contents of a "[...]" simple block
// already consumed from the caller's cursor (blockIdx is its component
// index, whose children are the bracket's contents).
func (p *parser) parseAttributeSelector(blockIdx uint32) (spec Specificity, ok bool) {
	seq := p.tree.ChildSequence(blockIdx)

	ns, name, hasName := p.readAttributeQualifiedName(&seq)
	if !hasName {
		p.unexpected(blockIdx)
		return spec, false
	}
	id, err := p.env.Attributes.Intern(name)
	if err != nil {
		p.log.AddError(p.tracker, p.tree.Token(blockIdx).Range, err.Error())
		return spec, false
	}

	op := AttrOpNone
	var value string
	var caseFlag byte

	seq.SkipSpaces()
	if i, has := seq.PeekKeepSpaces(); has {
		var good bool
		op, good = p.readAttrOperator(&seq, i)
		if !good {
			p.unexpected(i)
			return spec, false
		}
		if op != AttrOpNone {
			seq.SkipSpaces()
			valIdx, hasVal := seq.PeekKeepSpaces()
			if !hasVal || (p.tree.Tag(valIdx) != css_ast.TagString && p.tree.Tag(valIdx) != css_ast.TagIdent) {
				p.unexpected(blockIdx)
				return spec, false
			}
			value = p.tree.DecodedText(valIdx)
			seq.NextKeepSpaces()
			seq.SkipSpaces()
			if flagIdx, hasFlag := seq.PeekKeepSpaces(); hasFlag && p.tree.Tag(flagIdx) == css_ast.TagIdent {
				if flagText := p.tree.DecodedText(flagIdx); len(flagText) == 1 {
					switch flagText[0] {
					case 'i', 'I':
						caseFlag = 'i'
						seq.NextKeepSpaces()
					case 's', 'S':
						caseFlag = 's'
						seq.NextKeepSpaces()
					}
				}
			}
		}
	}

	seq.SkipSpaces()
	if !seq.Empty() {
		p.unexpected(blockIdx)
		return spec, false
	}

	p.data.addAttribute(p.tree.Loc(blockIdx), ns, id, op, value, caseFlag)
	return Specificity{B: 1}, true
}

// readAttributeQualifiedName reads "<qname>" for an attribute selector:
// "[x]", "[x|y]", "[|x]", "[*|x]". Unlike a type selector, a bare name with
// no namespace prefix resolves to NamespaceNone, not the default namespace —
// attribute selectors without a namespace component only match attributes
// that have no namespace at all.
func (p *parser) readAttributeQualifiedName(seq *css_ast.Sequence) (ns intern.ID, name string, ok bool) {
	seq.SkipSpaces()
	token0, has0 := seq.PeekKeepSpaces()
	if !has0 {
		return ns, name, false
	}
	tag0 := p.tree.Tag(token0)
	isIdent0 := tag0 == css_ast.TagIdent
	isStar0 := tag0 == css_ast.TagDelim && p.tree.Token(token0).Delim == '*'
	isBar0 := tag0 == css_ast.TagDelim && p.tree.Token(token0).Delim == '|'
	if !isIdent0 && !isStar0 && !isBar0 {
		return ns, name, false
	}

	if isBar0 {
		seq.NextKeepSpaces()
		local, hasLocal := seq.PeekKeepSpaces()
		if !hasLocal || p.tree.Tag(local) != css_ast.TagIdent {
			return ns, name, false
		}
		seq.NextKeepSpaces()
		return NamespaceNone, p.tree.DecodedText(local), true
	}

	afterToken0 := *seq
	afterToken0.NextKeepSpaces()
	token1, has1 := afterToken0.PeekKeepSpaces()
	isBar1 := has1 && p.tree.Tag(token1) == css_ast.TagDelim && p.tree.Token(token1).Delim == '|'
	if isBar1 {
		// "|=" is the dash-match operator, not a namespace separator.
		afterBar := afterToken0
		afterBar.NextKeepSpaces()
		if token2, has2 := afterBar.PeekKeepSpaces(); has2 && p.tree.Tag(token2) == css_ast.TagDelim && p.tree.Token(token2).Delim == '=' {
			isBar1 = false
		}
	}
	if isBar1 {
		var namespace intern.ID
		if isStar0 {
			namespace = NamespaceAny
		} else if id, found := p.env.Prefixes[p.tree.DecodedText(token0)]; found {
			namespace = id
		} else {
			return ns, name, false
		}
		*seq = afterToken0
		seq.NextKeepSpaces() // the "|"
		local, hasLocal := seq.PeekKeepSpaces()
		if !hasLocal || p.tree.Tag(local) != css_ast.TagIdent {
			return ns, name, false
		}
		seq.NextKeepSpaces()
		return namespace, p.tree.DecodedText(local), true
	}

	if !isIdent0 {
		return ns, name, false
	}
	seq.NextKeepSpaces()
	return NamespaceNone, p.tree.DecodedText(token0), true
}

// readAttrOperator consumes a matcher operator ("=", "~=", "|=", "^=",
// "$=", "*=") if present at i. A non-operator token at i is not an error:
// it just means this attribute selector is presence-only.
func (p *parser) readAttrOperator(seq *css_ast.Sequence, i uint32) (AttrOp, bool) {
	if p.tree.Tag(i) != css_ast.TagDelim {
		return AttrOpNone, true
	}
	d := p.tree.Token(i).Delim
	if d == '=' {
		seq.NextKeepSpaces()
		return AttrOpEquals, true
	}

	var op AttrOp
	switch d {
	case '~':
		op = AttrOpIncludes
	case '|':
		op = AttrOpDashMatch
	case '^':
		op = AttrOpPrefixMatch
	case '$':
		op = AttrOpSuffixMatch
	case '*':
		op = AttrOpSubstringMatch
	default:
		return AttrOpNone, true
	}

	snapshot := *seq
	seq.NextKeepSpaces()
	eq, hasEq := seq.PeekKeepSpaces()
	if !hasEq || p.tree.Tag(eq) != css_ast.TagDelim || p.tree.Token(eq).Delim != '=' {
		*seq = snapshot
		return AttrOpNone, false
	}
	seq.NextKeepSpaces()
	return op, true
}

// parsePseudo parses a pseudo-class (":name" or ":name(...)") or, when
// isElement is set, a pseudo-element ("::name" or "::name(...)"). A
// function-form pseudo whose arguments contain a bad-string or bad-url
// token is rejected; otherwise its arguments are kept as an opaque range
// into the underlying css_ast.Tree rather than interpreted.
func (p *parser) parsePseudo(seq *css_ast.Sequence, isElement bool) (spec Specificity, ok bool) {
	i, has := seq.PeekKeepSpaces()
	if !has {
		p.unexpectedEOF()
		return spec, false
	}

	switch p.tree.Tag(i) {
	case css_ast.TagIdent:
		seq.NextKeepSpaces()
		name := strings.ToLower(p.tree.DecodedText(i))
		if isElement {
			p.data.addPseudoElement(p.tree.Loc(i), name, knownPseudoElements[name])
			return Specificity{C: 1}, true
		}
		p.data.addPseudoClass(p.tree.Loc(i), name, knownPseudoClasses[name])
		return Specificity{B: 1}, true

	case css_ast.TagFunction:
		seq.NextKeepSpaces()
		if p.containsBadToken(i) {
			p.unexpected(i)
			return spec, false
		}
		name := strings.ToLower(p.tree.DecodedText(i))
		argsStart, argsEnd := i+1, p.tree.NextSibling(i)
		if isElement {
			p.data.addPseudoElementFunc(p.tree.Loc(i), name, knownPseudoElements[name], argsStart, argsEnd)
			return Specificity{C: 1}, true
		}
		p.data.addPseudoClassFunc(p.tree.Loc(i), name, knownPseudoClasses[name], argsStart, argsEnd)
		return Specificity{B: 1}, true

	default:
		p.unexpected(i)
		return spec, false
	}
}

// containsBadToken reports whether any descendant of the component at i
// (assumed complex, e.g. a function) is a bad-string or bad-url leaf.
func (p *parser) containsBadToken(i uint32) bool {
	end := p.tree.NextSibling(i)
	for j := i + 1; j < end; j++ {
		switch p.tree.Tag(j) {
		case css_ast.TagBadString, css_ast.TagBadURL:
			return true
		}
	}
	return false
}
