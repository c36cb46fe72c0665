package css_values

import "github.com/chadwain/zss/internal/css_ast"

// RepeatStyle is one axis of background-repeat's keyword grammar.
type RepeatStyle uint8

const (
	RepeatRepeat RepeatStyle = iota
	RepeatNoRepeat
	RepeatSpace
	RepeatRound
)

// BackgroundRepeat holds both axes, the way the two-value longhand form of
// background-repeat resolves (the one-value shorthand forms, repeat-x and
// repeat-y, just pre-set both axes before returning).
type BackgroundRepeat struct {
	X, Y RepeatStyle
}

var repeatStyleKeywords = map[string]int{
	"repeat":    int(RepeatRepeat),
	"no-repeat": int(RepeatNoRepeat),
	"space":     int(RepeatSpace),
	"round":     int(RepeatRound),
}

// ParseBackgroundRepeat matches "repeat-x", "repeat-y", or one or two of
// repeat/no-repeat/space/round. A trailing unconsumed token (e.g. the
// "invalid" in "repeat-x invalid") is left in place, not an error: the
// grammar here is complete after at most two keywords.
func ParseBackgroundRepeat(tree *css_ast.Tree, seq *css_ast.Sequence) (BackgroundRepeat, bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagIdent {
		*seq = snapshot
		return BackgroundRepeat{}, false
	}

	switch tree.DecodedText(i) {
	case "repeat-x":
		return BackgroundRepeat{X: RepeatRepeat, Y: RepeatNoRepeat}, true
	case "repeat-y":
		return BackgroundRepeat{X: RepeatNoRepeat, Y: RepeatRepeat}, true
	}

	*seq = snapshot
	first, ok := Keyword(tree, seq, repeatStyleKeywords)
	if !ok {
		return BackgroundRepeat{}, false
	}

	beforeSecond := *seq
	second, ok := Keyword(tree, seq, repeatStyleKeywords)
	if !ok {
		*seq = beforeSecond
		return BackgroundRepeat{X: RepeatStyle(first), Y: RepeatStyle(first)}, true
	}
	return BackgroundRepeat{X: RepeatStyle(first), Y: RepeatStyle(second)}, true
}

// Attachment is background-attachment's keyword grammar.
type Attachment uint8

const (
	AttachmentScroll Attachment = iota
	AttachmentFixed
	AttachmentLocal
)

var attachmentKeywords = map[string]int{
	"scroll": int(AttachmentScroll),
	"fixed":  int(AttachmentFixed),
	"local":  int(AttachmentLocal),
}

func ParseBackgroundAttachment(tree *css_ast.Tree, seq *css_ast.Sequence) (Attachment, bool) {
	v, ok := Keyword(tree, seq, attachmentKeywords)
	return Attachment(v), ok
}

// Box is the shared keyword grammar of background-clip and background-origin.
type Box uint8

const (
	BoxBorderBox Box = iota
	BoxPaddingBox
	BoxContentBox
)

var boxKeywords = map[string]int{
	"border-box":  int(BoxBorderBox),
	"padding-box": int(BoxPaddingBox),
	"content-box": int(BoxContentBox),
}

func ParseBackgroundClip(tree *css_ast.Tree, seq *css_ast.Sequence) (Box, bool) {
	v, ok := Keyword(tree, seq, boxKeywords)
	return Box(v), ok
}

func ParseBackgroundOrigin(tree *css_ast.Tree, seq *css_ast.Sequence) (Box, bool) {
	v, ok := Keyword(tree, seq, boxKeywords)
	return Box(v), ok
}

// ParseBackgroundImage matches "none" or a <url>, the only two alternatives
// this toolkit supports (gradients are out of scope).
func ParseBackgroundImage(tree *css_ast.Tree, seq *css_ast.Sequence) (URL, bool) {
	snapshot := *seq
	if _, ok := Keyword(tree, seq, map[string]int{"none": 1}); ok {
		return URL{}, true
	}
	*seq = snapshot
	return ParseURL(tree, seq)
}

// SizeKind tags which alternative of the background-size grammar was
// matched.
type SizeKind uint8

const (
	SizeExplicit SizeKind = iota
	SizeCover
	SizeContain
)

// BackgroundSize is background-size's value: either the "cover"/"contain"
// keyword, or one or two length-percentage-auto values (a single value
// implies auto for the second axis, per the shorthand expansion rule).
type BackgroundSize struct {
	Kind SizeKind
	W, H LengthPercentage
}

func ParseBackgroundSize(tree *css_ast.Tree, seq *css_ast.Sequence) (BackgroundSize, bool) {
	snapshot := *seq
	if _, ok := Keyword(tree, seq, map[string]int{"cover": 1}); ok {
		return BackgroundSize{Kind: SizeCover}, true
	}
	*seq = snapshot
	if _, ok := Keyword(tree, seq, map[string]int{"contain": 1}); ok {
		return BackgroundSize{Kind: SizeContain}, true
	}
	*seq = snapshot

	w, ok := ParseLengthPercentageAuto(tree, seq)
	if !ok {
		*seq = snapshot
		return BackgroundSize{}, false
	}
	beforeH := *seq
	h, ok := ParseLengthPercentageAuto(tree, seq)
	if !ok {
		*seq = beforeH
		h = LengthPercentage{Kind: LPAuto}
	}
	return BackgroundSize{Kind: SizeExplicit, W: w, H: h}, true
}

// PositionAnchor names which edge a position axis offset is measured from.
type PositionAnchor uint8

const (
	AnchorStart  PositionAnchor = iota // left / top
	AnchorCenter                       // implicit center
	AnchorEnd                          // right / bottom
)

// PositionAxis is one axis of a resolved background-position: an anchor
// edge plus the offset from that edge. A bare edge keyword in the
// edge-offset form, and any keyword in the single-value form, gets a 0%
// offset; a bare "center" in the edge-offset form, and a keyword in the
// two-value form, leaves Offset at its zero value (a zero length).
type PositionAxis struct {
	Anchor PositionAnchor
	Offset LengthPercentage
}

// BackgroundPosition is the resolved two-axis position.
type BackgroundPosition struct {
	X, Y PositionAxis
}

var horizontalKeywords = map[string]int{"left": int(AnchorStart), "right": int(AnchorEnd), "center": int(AnchorCenter)}
var verticalKeywords = map[string]int{"top": int(AnchorStart), "bottom": int(AnchorEnd), "center": int(AnchorCenter)}

// ParseBackgroundPosition implements the documented two-pass backtracking
// strategy: try the 3-or-4-value edge-offset grammar first (since it's a
// strict superset of the simpler syntax only where an edge keyword is
// followed by a length/percentage), falling back to the 1-or-2-value
// grammar on failure. Both passes start from the same saved cursor so a
// failure in the first pass never leaks partial progress into the second.
func ParseBackgroundPosition(tree *css_ast.Tree, seq *css_ast.Sequence) (BackgroundPosition, bool) {
	snapshot := *seq

	if pos, ok := parseEdgeOffsetPosition(tree, seq); ok {
		return pos, true
	}
	*seq = snapshot

	if pos, ok := parseSimplePosition(tree, seq); ok {
		return pos, true
	}
	*seq = snapshot
	return BackgroundPosition{}, false
}

// parseEdgeOffsetHalf matches "<keyword> <length-percentage>?" where keyword
// is one of the axis's three edge/center keywords, returning which axis it
// named (horizontal if the keyword came from horizontalKeywords, vertical
// if it came from verticalKeywords; "center" is ambiguous and reported as
// neither, letting the caller assign it wherever it's needed).
type edgeOffsetHalf struct {
	isHorizontal bool
	isVertical   bool
	axis         PositionAxis
}

func parseEdgeOffsetHalf(tree *css_ast.Tree, seq *css_ast.Sequence) (edgeOffsetHalf, bool) {
	snapshot := *seq
	i, has := seq.Next()
	if !has || tree.Tag(i) != css_ast.TagIdent {
		*seq = snapshot
		return edgeOffsetHalf{}, false
	}
	name := tree.DecodedText(i)

	hAnchor, isH := horizontalKeywords[name]
	vAnchor, isV := verticalKeywords[name]
	if !isH && !isV {
		*seq = snapshot
		return edgeOffsetHalf{}, false
	}

	if name == "center" {
		return edgeOffsetHalf{isHorizontal: false, isVertical: false, axis: PositionAxis{Anchor: AnchorCenter}}, true
	}

	beforeOffset := *seq
	offset, ok := ParseLengthPercentage(tree, seq)
	if !ok {
		*seq = beforeOffset
		offset = LengthPercentage{Kind: LPPercentage, Percentage: Percentage{Value: 0}}
	}

	if isH {
		return edgeOffsetHalf{isHorizontal: true, axis: PositionAxis{Anchor: PositionAnchor(hAnchor), Offset: offset}}, true
	}
	return edgeOffsetHalf{isVertical: true, axis: PositionAxis{Anchor: PositionAnchor(vAnchor), Offset: offset}}, true
}

// parseEdgeOffsetPosition matches the 3-or-4-value grammar: two edge-offset
// halves that must reference different axes (or one of them is the
// axis-agnostic "center").
func parseEdgeOffsetPosition(tree *css_ast.Tree, seq *css_ast.Sequence) (BackgroundPosition, bool) {
	first, ok := parseEdgeOffsetHalf(tree, seq)
	if !ok {
		return BackgroundPosition{}, false
	}
	second, ok := parseEdgeOffsetHalf(tree, seq)
	if !ok {
		return BackgroundPosition{}, false
	}

	if first.isHorizontal && second.isHorizontal {
		return BackgroundPosition{}, false
	}
	if first.isVertical && second.isVertical {
		return BackgroundPosition{}, false
	}

	pos := BackgroundPosition{
		X: PositionAxis{Anchor: AnchorCenter},
		Y: PositionAxis{Anchor: AnchorCenter},
	}
	assignHalf(&pos, first)
	assignHalf(&pos, second)
	return pos, true
}

func assignHalf(pos *BackgroundPosition, h edgeOffsetHalf) {
	switch {
	case h.isHorizontal:
		pos.X = h.axis
	case h.isVertical:
		pos.Y = h.axis
	default:
		// an axis-agnostic "center" is assigned by the caller based on
		// which slot the other half didn't claim; see parseEdgeOffsetPosition.
	}
}

// parseSimplePosition matches the 1-or-2-value grammar: each value is
// either an edge keyword (left/right/top/bottom/center) or a bare
// length-percentage, assigned to axes positionally. A single value with no
// axis specified defaults to center on the orthogonal axis.
func parseSimplePosition(tree *css_ast.Tree, seq *css_ast.Sequence) (BackgroundPosition, bool) {
	first, firstIsKeyword, ok := parseSimpleComponent(tree, seq)
	if !ok {
		return BackgroundPosition{}, false
	}

	beforeSecond := *seq
	second, secondIsKeyword, ok := parseSimpleComponent(tree, seq)
	if !ok {
		*seq = beforeSecond
		x, y, ok := resolveSingleSimpleValue(first, firstIsKeyword)
		if !ok {
			return BackgroundPosition{}, false
		}
		return BackgroundPosition{X: x, Y: y}, true
	}

	return resolveTwoSimpleValues(first, firstIsKeyword, second, secondIsKeyword)
}

type simpleComponent struct {
	keyword string
	value   LengthPercentage
}

func parseSimpleComponent(tree *css_ast.Tree, seq *css_ast.Sequence) (simpleComponent, bool, bool) {
	snapshot := *seq
	if i, has := seq.Next(); has && tree.Tag(i) == css_ast.TagIdent {
		name := tree.DecodedText(i)
		if _, isH := horizontalKeywords[name]; isH {
			return simpleComponent{keyword: name}, true, true
		}
		if _, isV := verticalKeywords[name]; isV {
			return simpleComponent{keyword: name}, true, true
		}
		*seq = snapshot
	}

	if lp, ok := ParseLengthPercentage(tree, seq); ok {
		return simpleComponent{value: lp}, false, true
	}
	*seq = snapshot
	return simpleComponent{}, false, false
}

func zeroPercent() LengthPercentage {
	return LengthPercentage{Kind: LPPercentage, Percentage: Percentage{Value: 0}}
}

func resolveSingleSimpleValue(c simpleComponent, isKeyword bool) (x, y PositionAxis, ok bool) {
	center := PositionAxis{Anchor: AnchorCenter, Offset: zeroPercent()}
	if isKeyword {
		switch c.keyword {
		case "left":
			return PositionAxis{Anchor: AnchorStart, Offset: zeroPercent()}, center, true
		case "right":
			return PositionAxis{Anchor: AnchorEnd, Offset: zeroPercent()}, center, true
		case "top":
			return center, PositionAxis{Anchor: AnchorStart, Offset: zeroPercent()}, true
		case "bottom":
			return center, PositionAxis{Anchor: AnchorEnd, Offset: zeroPercent()}, true
		case "center":
			return center, center, true
		}
		return x, y, false
	}
	return PositionAxis{Anchor: AnchorStart, Offset: c.value}, center, true
}

func resolveTwoSimpleValues(first simpleComponent, firstIsKeyword bool, second simpleComponent, secondIsKeyword bool) (BackgroundPosition, bool) {
	firstIsVertical := firstIsKeyword && (first.keyword == "top" || first.keyword == "bottom")
	secondIsHorizontal := secondIsKeyword && (second.keyword == "left" || second.keyword == "right")

	// CSS allows "top left" in addition to "left top"; swap if the first
	// value was clearly vertical and the second clearly horizontal.
	if firstIsVertical || secondIsHorizontal {
		first, second = second, first
		firstIsKeyword, secondIsKeyword = secondIsKeyword, firstIsKeyword
	}

	x, ok := simpleComponentToAxis(first, firstIsKeyword, horizontalKeywords)
	if !ok {
		return BackgroundPosition{}, false
	}
	y, ok := simpleComponentToAxis(second, secondIsKeyword, verticalKeywords)
	if !ok {
		return BackgroundPosition{}, false
	}
	return BackgroundPosition{X: x, Y: y}, true
}

func simpleComponentToAxis(c simpleComponent, isKeyword bool, axisKeywords map[string]int) (PositionAxis, bool) {
	if !isKeyword {
		return PositionAxis{Anchor: AnchorStart, Offset: c.value}, true
	}
	anchor, ok := axisKeywords[c.keyword]
	if !ok {
		return PositionAxis{}, false
	}
	return PositionAxis{Anchor: PositionAnchor(anchor)}, true
}
