package css_props

import (
	"strings"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_values"
)

// maxBackgroundLayers bounds the comma-separated layer list a
// background-image declaration may specify;
// a list any longer than this invalidates the whole declaration rather than
// growing without limit.
const maxBackgroundLayers = 32

// DisplayKeyword is display's (deliberately small) supported value set.
type DisplayKeyword uint8

const (
	DisplayBlock DisplayKeyword = iota
	DisplayInline
	DisplayInlineBlock
	DisplayNone
	DisplayFlex
	DisplayGrid
)

var displayKeywords = map[string]int{
	"block":        int(DisplayBlock),
	"inline":       int(DisplayInline),
	"inline-block": int(DisplayInlineBlock),
	"none":         int(DisplayNone),
	"flex":         int(DisplayFlex),
	"grid":         int(DisplayGrid),
}

// Declared wraps a property-specific value V together with the CSS-wide
// keyword that preempts it, the shared outer sum every declared-value type
// in this package uses.
type Declared[V any] struct {
	Wide  CSSWide
	Value V
}

func parseWithWide[V any](tree *css_ast.Tree, seq *css_ast.Sequence, parse func(*css_ast.Tree, *css_ast.Sequence) (V, bool)) (Declared[V], bool) {
	if wide, ok := tryParseCSSWide(tree, seq); ok {
		return Declared[V]{Wide: wide}, true
	}
	value, ok := parse(tree, seq)
	seq.SkipSpaces()
	if !ok || !seq.Empty() {
		var zero Declared[V]
		return zero, false
	}
	return Declared[V]{Wide: CSSWideNone, Value: value}, true
}

func parseDisplay(tree *css_ast.Tree, seq *css_ast.Sequence) (DisplayKeyword, bool) {
	v, ok := css_values.Keyword(tree, seq, displayKeywords)
	return DisplayKeyword(v), ok
}

// ParseDisplay parses a "display" declaration's value sequence.
func ParseDisplay(tree *css_ast.Tree, seq *css_ast.Sequence) (Declared[DisplayKeyword], bool) {
	return parseWithWide(tree, seq, parseDisplay)
}

// ParseColorProperty parses any single-<color>-valued property ("color",
// "background-color", "border-top-color", ...).
func ParseColorProperty(tree *css_ast.Tree, seq *css_ast.Sequence) (Declared[css_values.Color], bool) {
	return parseWithWide(tree, seq, css_values.ParseColor)
}

// ParsePadding parses the "padding" shorthand.
func ParsePadding(tree *css_ast.Tree, seq *css_ast.Sequence) (Declared[Sides[css_values.LengthPercentage]], bool) {
	return parseWithWide(tree, seq, parseTRBLLengthPercentage)
}

// ParseBorderWidth parses the "border-width" shorthand.
func ParseBorderWidth(tree *css_ast.Tree, seq *css_ast.Sequence) (Declared[Sides[css_values.Length]], bool) {
	return parseWithWide(tree, seq, parseTRBLLength)
}

// ParseBorderColor parses the "border-color" shorthand.
func ParseBorderColor(tree *css_ast.Tree, seq *css_ast.Sequence) (Declared[Sides[css_values.Color]], bool) {
	return parseWithWide(tree, seq, parseTRBLColor)
}

// ParseBorderStyle parses the "border-style" shorthand.
func ParseBorderStyle(tree *css_ast.Tree, seq *css_ast.Sequence) (Declared[Sides[BorderStyle]], bool) {
	return parseWithWide(tree, seq, parseTRBLBorderStyle)
}

// BackgroundImageList is the parsed, comma-separated value of the
// "background-image" longhand: one URL (or none) per layer.
type BackgroundImageList struct {
	Layers []css_values.URL
}

func parseBackgroundImageList(tree *css_ast.Tree, seq *css_ast.Sequence) (BackgroundImageList, bool) {
	var layers []css_values.URL
	for {
		layer, ok := css_values.ParseBackgroundImage(tree, seq)
		if !ok {
			return BackgroundImageList{}, false
		}
		layers = append(layers, layer)
		if len(layers) > maxBackgroundLayers {
			return BackgroundImageList{}, false
		}

		snapshot := *seq
		i, has := seq.Next()
		if !has || tree.Tag(i) != css_ast.TagComma {
			*seq = snapshot
			break
		}
	}
	return BackgroundImageList{Layers: layers}, true
}

// ParseBackgroundImage parses the "background-image" longhand, a
// comma-separated list of layers bounded by maxBackgroundLayers.
func ParseBackgroundImage(tree *css_ast.Tree, seq *css_ast.Sequence) (Declared[BackgroundImageList], bool) {
	return parseWithWide(tree, seq, parseBackgroundImageList)
}

// propertyParsers maps a lowercased property name to the function that
// parses its declared value, boxed behind an interface{} return so callers
// that only need to validate a declaration (not consume its typed value)
// can dispatch generically; callers that want the concrete type should call
// the Parse* function directly instead.
var propertyParsers = map[string]func(*css_ast.Tree, *css_ast.Sequence) (any, bool){
	"display": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseDisplay(tree, seq)
	},
	"color": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseColorProperty(tree, seq)
	},
	"background-color": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseColorProperty(tree, seq)
	},
	"border-top-color": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseColorProperty(tree, seq)
	},
	"padding": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParsePadding(tree, seq)
	},
	"border-width": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseBorderWidth(tree, seq)
	},
	"border-color": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseBorderColor(tree, seq)
	},
	"border-style": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseBorderStyle(tree, seq)
	},
	"background-image": func(tree *css_ast.Tree, seq *css_ast.Sequence) (any, bool) {
		return ParseBackgroundImage(tree, seq)
	},
}

// ParseDeclaration looks up decl's name in the property table and parses
// its value sequence, returning the typed declared value boxed in any. A
// property this package doesn't support, or a value that doesn't fully
// consume the declaration's value sequence, makes ok false.
func ParseDeclaration(tree *css_ast.Tree, declIndex uint32) (value any, ok bool) {
	name := strings.ToLower(tree.DecodedText(declIndex))
	parse, found := propertyParsers[name]
	if !found {
		return nil, false
	}
	seq := valueSequence(tree, declIndex)
	return parse(tree, &seq)
}

// valueSequence returns declIndex's value range with a trailing
// "!important" (left in place by css_parser's declaration parsing, which only
// records the fact in Extra.Important rather than removing the tokens)
// excluded, so property parsers never have to special-case it.
func valueSequence(tree *css_ast.Tree, declIndex uint32) css_ast.Sequence {
	full := tree.ChildSequence(declIndex)
	if !tree.Extra(declIndex).Important {
		return full
	}

	start, end := full.Start(), full.End()
	i := end
	for i > start && tree.Tag(i-1).IsSpaceOrComment() {
		i--
	}
	if i > start && tree.Tag(i-1) == css_ast.TagIdent && strings.EqualFold(tree.DecodedText(i-1), "important") {
		i--
		for i > start && tree.Tag(i-1).IsSpaceOrComment() {
			i--
		}
		if i > start && tree.Tag(i-1) == css_ast.TagDelim && tree.Token(i-1).Delim == '!' {
			i--
			return css_ast.NewSequence(tree, start, i)
		}
	}
	return full
}
