// Package css_props dispatches a declaration's name to the value parser(s)
// that understand it, producing a typed declared value. Each property-parse
// function follows the same recipe: seed a sequence over the declaration's
// value range, call the matching css_values parser(s), and require the
// sequence be empty afterward — any leftover token means the declaration's
// value didn't fully match the property's grammar and the whole declaration
// is invalid.
package css_props

import (
	"strings"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_values"
)

// CSSWide is the shared outer sum every declared-value type that supports
// the CSS-wide keywords embeds alongside its property-specific value.
type CSSWide uint8

const (
	CSSWideNone CSSWide = iota
	CSSWideInitial
	CSSWideInherit
	CSSWideUnset
	CSSWideUndeclared
)

var cssWideKeywords = map[string]CSSWide{
	"initial": CSSWideInitial,
	"inherit": CSSWideInherit,
	"unset":   CSSWideUnset,
}

// tryParseCSSWide matches one of the "initial"/"inherit"/"unset" keywords
// at the front of seq if the whole value sequence is exactly that keyword.
func tryParseCSSWide(tree *css_ast.Tree, seq *css_ast.Sequence) (CSSWide, bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagIdent {
		*seq = snapshot
		return CSSWideNone, false
	}
	wide, found := cssWideKeywords[strings.ToLower(tree.DecodedText(i))]
	seq.SkipSpaces()
	if !found || !seq.Empty() {
		*seq = snapshot
		return CSSWideNone, false
	}
	return wide, true
}

// Sides is the resolved four-value expansion of a TRBL shorthand: top,
// right, bottom, left, in CSS's clockwise order.
type Sides[T any] struct {
	Top, Right, Bottom, Left T
}

// expandTRBL applies the CSS shorthand count rule to 1-4 parsed values:
// one value sets all four sides; two sets vertical then horizontal; three
// sets top, horizontal, bottom; four sets each side explicitly.
func expandTRBL[T any](values []T) (Sides[T], bool) {
	switch len(values) {
	case 1:
		return Sides[T]{values[0], values[0], values[0], values[0]}, true
	case 2:
		return Sides[T]{values[0], values[1], values[0], values[1]}, true
	case 3:
		return Sides[T]{values[0], values[1], values[2], values[1]}, true
	case 4:
		return Sides[T]{values[0], values[1], values[2], values[3]}, true
	default:
		var zero Sides[T]
		return zero, false
	}
}

// parseTRBLLengthPercentage reads 1-4 length-percentage values (for
// "padding") from seq and expands them.
func parseTRBLLengthPercentage(tree *css_ast.Tree, seq *css_ast.Sequence) (Sides[css_values.LengthPercentage], bool) {
	var values []css_values.LengthPercentage
	for len(values) < 4 {
		v, ok := css_values.ParseLengthPercentage(tree, seq)
		if !ok {
			break
		}
		values = append(values, v)
	}
	return expandTRBL(values)
}

// parseTRBLLength reads 1-4 plain lengths (for "border-width") and expands
// them.
func parseTRBLLength(tree *css_ast.Tree, seq *css_ast.Sequence) (Sides[css_values.Length], bool) {
	var values []css_values.Length
	for len(values) < 4 {
		v, ok := css_values.ParseLength(tree, seq)
		if !ok {
			break
		}
		values = append(values, v)
	}
	return expandTRBL(values)
}

// parseTRBLColor reads 1-4 colors (for "border-color") and expands them.
func parseTRBLColor(tree *css_ast.Tree, seq *css_ast.Sequence) (Sides[css_values.Color], bool) {
	var values []css_values.Color
	for len(values) < 4 {
		v, ok := css_values.ParseColor(tree, seq)
		if !ok {
			break
		}
		values = append(values, v)
	}
	return expandTRBL(values)
}

// BorderStyle is border-style's per-side keyword grammar.
type BorderStyle uint8

const (
	BorderStyleNone BorderStyle = iota
	BorderStyleHidden
	BorderStyleDotted
	BorderStyleDashed
	BorderStyleSolid
	BorderStyleDouble
	BorderStyleGroove
	BorderStyleRidge
	BorderStyleInset
	BorderStyleOutset
)

var borderStyleKeywords = map[string]int{
	"none":   int(BorderStyleNone),
	"hidden": int(BorderStyleHidden),
	"dotted": int(BorderStyleDotted),
	"dashed": int(BorderStyleDashed),
	"solid":  int(BorderStyleSolid),
	"double": int(BorderStyleDouble),
	"groove": int(BorderStyleGroove),
	"ridge":  int(BorderStyleRidge),
	"inset":  int(BorderStyleInset),
	"outset": int(BorderStyleOutset),
}

// parseTRBLBorderStyle reads 1-4 border-style keywords (for "border-style")
// and expands them.
func parseTRBLBorderStyle(tree *css_ast.Tree, seq *css_ast.Sequence) (Sides[BorderStyle], bool) {
	var values []BorderStyle
	for len(values) < 4 {
		v, ok := css_values.Keyword(tree, seq, borderStyleKeywords)
		if !ok {
			break
		}
		values = append(values, BorderStyle(v))
	}
	return expandTRBL(values)
}
