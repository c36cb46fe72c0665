// Package css_values implements the primitive value-grammar parsers shared
// by internal/css_props: keywords, lengths, percentages, colors, URLs, and
// the composite background sub-grammars. Every parser here follows the same
// transactional contract as internal/css_selector and internal/css_parser's
// speculative block parsing: on success the caller's *css_ast.Sequence has
// advanced past the consumed tokens; on failure it is restored to exactly
// where it started, so callers never need their own save/restore dance.
package css_values

import (
	"strings"

	"github.com/chadwain/zss/internal/css_ast"
)

// Keyword matches an ident token against kvs (ASCII case-insensitively) and
// returns the mapped value. Ok is false, and seq unchanged, if the next
// token isn't an ident or doesn't appear in kvs.
func Keyword(tree *css_ast.Tree, seq *css_ast.Sequence, kvs map[string]int) (value int, ok bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagIdent {
		*seq = snapshot
		return 0, false
	}
	v, found := kvs[strings.ToLower(tree.DecodedText(i))]
	if !found {
		*seq = snapshot
		return 0, false
	}
	return v, true
}

// Integer matches an integer token and returns its value. Token kinds that
// overflowed int64 during tokenization are demoted to number tokens
// upstream and are not accepted here.
func Integer(tree *css_ast.Tree, seq *css_ast.Sequence) (value int64, ok bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagInteger {
		*seq = snapshot
		return 0, false
	}
	return tree.Token(i).IntValue, true
}

// Length is a single absolute length in pixels. Other CSS units are not
// supported.
type Length struct {
	Px float64
}

// ParseLength matches a dimension token whose unit is "px".
func ParseLength(tree *css_ast.Tree, seq *css_ast.Sequence) (Length, bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagDimension {
		*seq = snapshot
		return Length{}, false
	}
	tok := tree.Token(i)
	if !strings.EqualFold(tok.DimensionUnit(tree.Source.Contents), "px") {
		*seq = snapshot
		return Length{}, false
	}
	return Length{Px: tok.Number}, true
}

// Percentage is a bare <percentage> value, stored as the number before the
// "%" sign (so 50% is 50, not 0.5).
type Percentage struct {
	Value float64
}

func ParsePercentage(tree *css_ast.Tree, seq *css_ast.Sequence) (Percentage, bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagPercentage {
		*seq = snapshot
		return Percentage{}, false
	}
	return Percentage{Value: tree.Token(i).Number}, true
}

// LPKind tags which alternative of a length-percentage union is held.
type LPKind uint8

const (
	LPLength LPKind = iota
	LPPercentage
	LPAuto
	LPNone
)

// LengthPercentage is the tagged union <length> | <percentage>, optionally
// extended with the "auto" or "none" keywords by the three entry points
// below. The zero value's Kind is LPLength with a zero length, so callers
// that only need the plain two-alternative grammar can ignore LPAuto/LPNone
// and just call ParseLengthPercentage.
type LengthPercentage struct {
	Kind       LPKind
	Length     Length
	Percentage Percentage
}

// ParseLengthPercentage matches <length> | <percentage>.
func ParseLengthPercentage(tree *css_ast.Tree, seq *css_ast.Sequence) (LengthPercentage, bool) {
	if l, ok := ParseLength(tree, seq); ok {
		return LengthPercentage{Kind: LPLength, Length: l}, true
	}
	if p, ok := ParsePercentage(tree, seq); ok {
		return LengthPercentage{Kind: LPPercentage, Percentage: p}, true
	}
	return LengthPercentage{}, false
}

// ParseLengthPercentageAuto matches <length> | <percentage> | auto.
func ParseLengthPercentageAuto(tree *css_ast.Tree, seq *css_ast.Sequence) (LengthPercentage, bool) {
	snapshot := *seq
	if _, ok := Keyword(tree, seq, map[string]int{"auto": 1}); ok {
		return LengthPercentage{Kind: LPAuto}, true
	}
	*seq = snapshot
	return ParseLengthPercentage(tree, seq)
}

// ParseLengthPercentageNone matches <length> | <percentage> | none.
func ParseLengthPercentageNone(tree *css_ast.Tree, seq *css_ast.Sequence) (LengthPercentage, bool) {
	snapshot := *seq
	if _, ok := Keyword(tree, seq, map[string]int{"none": 1}); ok {
		return LengthPercentage{Kind: LPNone}, true
	}
	*seq = snapshot
	return ParseLengthPercentage(tree, seq)
}

// ParseStringValue matches a string token and returns its decoded text
// location as a component index for later interning, per spec: "return the
// raw location for later interning" rather than copying the text out here.
func ParseStringValue(tree *css_ast.Tree, seq *css_ast.Sequence) (index uint32, ok bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagString {
		*seq = snapshot
		return 0, false
	}
	return i, true
}

// ParseHashValue matches a hash token (either id-flavored or unrestricted)
// and returns its component index.
func ParseHashValue(tree *css_ast.Tree, seq *css_ast.Sequence) (index uint32, ok bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || (tree.Tag(i) != css_ast.TagHashID && tree.Tag(i) != css_ast.TagHashUnrestricted) {
		*seq = snapshot
		return 0, false
	}
	return i, true
}

// ColorKind tags which alternative of the <color> grammar was matched.
type ColorKind uint8

const (
	ColorRGBA ColorKind = iota
	ColorCurrentColor
	ColorTransparent
)

// Color is a resolved color value. RGBA is big-endian-packed red, green,
// blue, alpha (0xRRGGBBAA), valid only when Kind is ColorRGBA.
type Color struct {
	Kind ColorKind
	RGBA uint32
}

var colorKeywords = map[string]ColorKind{
	"currentcolor": ColorCurrentColor,
	"transparent":  ColorTransparent,
}

// ParseColor matches "currentColor", "transparent", or a hex color in
// #rgb/#rgba/#rrggbb/#rrggbbaa form. 3- and 4-digit forms are duplicated
// into their 6/8-digit equivalent before being packed.
func ParseColor(tree *css_ast.Tree, seq *css_ast.Sequence) (Color, bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has {
		*seq = snapshot
		return Color{}, false
	}

	switch tree.Tag(i) {
	case css_ast.TagIdent:
		if kind, found := colorKeywords[strings.ToLower(tree.DecodedText(i))]; found {
			return Color{Kind: kind}, true
		}

	case css_ast.TagHashID, css_ast.TagHashUnrestricted:
		rgba, ok := parseHexColor(tree.DecodedText(i))
		if ok {
			return Color{Kind: ColorRGBA, RGBA: rgba}, true
		}
	}

	*seq = snapshot
	return Color{}, false
}

func parseHexColor(digits string) (uint32, bool) {
	switch len(digits) {
	case 3:
		digits = duplicateDigits(digits) + "ff"
	case 4:
		digits = duplicateDigits(digits)
	case 6:
		digits += "ff"
	case 8:
		// already full length
	default:
		return 0, false
	}

	var v uint32
	for _, c := range digits {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint32(c) - '0'
		case c >= 'a' && c <= 'f':
			v |= uint32(c) - ('a' - 10)
		case c >= 'A' && c <= 'F':
			v |= uint32(c) - ('A' - 10)
		default:
			return 0, false
		}
	}
	return v, true
}

// duplicateDigits turns each of a 3- or 4-digit hex color's digits into a
// doubled pair, e.g. "abc" -> "aabbcc".
func duplicateDigits(digits string) string {
	var sb strings.Builder
	for _, c := range digits {
		sb.WriteRune(c)
		sb.WriteRune(c)
	}
	return sb.String()
}

// URL is a resolved <url> value: either a bare url() token or a url()/src()
// function wrapping a single string, with no other modifiers permitted.
type URL struct {
	Text string
}

// ParseURL matches a "url" token, or a function token named "url" or "src"
// whose only content is a single string.
func ParseURL(tree *css_ast.Tree, seq *css_ast.Sequence) (URL, bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has {
		*seq = snapshot
		return URL{}, false
	}

	if tree.Tag(i) == css_ast.TagURL {
		return URL{Text: tree.DecodedText(i)}, true
	}

	if tree.Tag(i) == css_ast.TagFunction {
		name := strings.ToLower(tree.DecodedText(i))
		if name != "url" && name != "src" {
			*seq = snapshot
			return URL{}, false
		}
		inner := tree.ChildSequence(i)
		strIdx, ok := ParseStringValue(tree, &inner)
		if !ok || !inner.Empty() {
			*seq = snapshot
			return URL{}, false
		}
		return URL{Text: tree.DecodedText(strIdx)}, true
	}

	*seq = snapshot
	return URL{}, false
}
