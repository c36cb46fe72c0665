package css_values

import (
	"testing"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_lexer"
	"github.com/chadwain/zss/internal/css_parser"
	"github.com/chadwain/zss/internal/logger"
)

func sequenceFrom(t *testing.T, contents string) (*css_ast.Tree, css_ast.Sequence) {
	t.Helper()
	src, err := css_lexer.NewSource(contents, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewDeferLog()
	tree, root := css_parser.ParseListOfComponentValues(&src, log, css_parser.DefaultOptions())
	return tree, tree.ChildSequence(root)
}

func TestParseColorHexForms(t *testing.T) {
	cases := []struct {
		input string
		want  uint32
	}{
		{"#abc", 0xaabbccff},
		{"#abcd", 0xaabbccdd},
		{"#123456", 0x123456ff},
		{"#12345678", 0x12345678},
	}
	for _, c := range cases {
		tree, seq := sequenceFrom(t, c.input)
		color, ok := ParseColor(tree, &seq)
		if !ok {
			t.Fatalf("%s: expected color to parse", c.input)
		}
		if color.Kind != ColorRGBA {
			t.Fatalf("%s: expected an RGBA color", c.input)
		}
		if color.RGBA != c.want {
			t.Errorf("%s: expected %#08x, got %#08x", c.input, c.want, color.RGBA)
		}
		if !seq.Empty() {
			t.Errorf("%s: expected the sequence fully consumed", c.input)
		}
	}
}

func TestParseColorKeywords(t *testing.T) {
	tree, seq := sequenceFrom(t, "currentColor")
	color, ok := ParseColor(tree, &seq)
	if !ok || color.Kind != ColorCurrentColor {
		t.Fatalf("expected currentColor to parse as ColorCurrentColor")
	}

	tree, seq = sequenceFrom(t, "transparent")
	color, ok = ParseColor(tree, &seq)
	if !ok || color.Kind != ColorTransparent {
		t.Fatalf("expected transparent to parse as ColorTransparent")
	}
}

func TestParseColorRestoresCursorOnFailure(t *testing.T) {
	tree, seq := sequenceFrom(t, "42px")
	before := seq
	_, ok := ParseColor(tree, &seq)
	if ok {
		t.Fatalf("expected a dimension to fail as a color")
	}
	if seq.Start() != before.Start() {
		t.Errorf("expected the cursor to be restored on failure")
	}
}

func TestParseBackgroundRepeatShorthandAndTrailingToken(t *testing.T) {
	tree, seq := sequenceFrom(t, "repeat-x invalid")
	repeat, ok := ParseBackgroundRepeat(tree, &seq)
	if !ok {
		t.Fatalf("expected repeat-x to parse")
	}
	if repeat.X != RepeatRepeat || repeat.Y != RepeatNoRepeat {
		t.Errorf("expected {repeat, no-repeat}, got %+v", repeat)
	}
	i, has := seq.Next()
	if !has || tree.DecodedText(i) != "invalid" {
		t.Errorf("expected the cursor to be left positioned at \"invalid\"")
	}
}

func TestParseBackgroundRepeatTwoValue(t *testing.T) {
	tree, seq := sequenceFrom(t, "space round")
	repeat, ok := ParseBackgroundRepeat(tree, &seq)
	if !ok {
		t.Fatalf("expected \"space round\" to parse")
	}
	if repeat.X != RepeatSpace || repeat.Y != RepeatRound {
		t.Errorf("expected {space, round}, got %+v", repeat)
	}
	if !seq.Empty() {
		t.Errorf("expected the sequence fully consumed")
	}
}

func TestParseBackgroundPositionEdgeOffsetForm(t *testing.T) {
	tree, seq := sequenceFrom(t, "left 20px bottom 50%")
	pos, ok := ParseBackgroundPosition(tree, &seq)
	if !ok {
		t.Fatalf("expected \"left 20px bottom 50%%\" to parse")
	}
	if pos.X.Anchor != AnchorStart || pos.X.Offset.Kind != LPLength || pos.X.Offset.Length.Px != 20 {
		t.Errorf("expected x:{start, 20px}, got %+v", pos.X)
	}
	if pos.Y.Anchor != AnchorEnd || pos.Y.Offset.Kind != LPPercentage || pos.Y.Offset.Percentage.Value != 50 {
		t.Errorf("expected y:{end, 50%%}, got %+v", pos.Y)
	}
}

func TestParseBackgroundPositionSingleKeywordForm(t *testing.T) {
	tree, seq := sequenceFrom(t, "left")
	pos, ok := ParseBackgroundPosition(tree, &seq)
	if !ok {
		t.Fatalf("expected \"left\" to parse")
	}
	if pos.X.Anchor != AnchorStart || pos.X.Offset.Kind != LPPercentage || pos.X.Offset.Percentage.Value != 0 {
		t.Errorf("expected x:{start, 0%%}, got %+v", pos.X)
	}
	if pos.Y.Anchor != AnchorCenter || pos.Y.Offset.Kind != LPPercentage || pos.Y.Offset.Percentage.Value != 0 {
		t.Errorf("expected y:{center, 0%%}, got %+v", pos.Y)
	}
}

func TestParseBackgroundPositionConflictingAxesFails(t *testing.T) {
	tree, seq := sequenceFrom(t, "left right")
	before := seq
	_, ok := ParseBackgroundPosition(tree, &seq)
	if ok {
		t.Fatalf("expected two same-axis keywords to fail")
	}
	if seq.Start() != before.Start() {
		t.Errorf("expected the cursor to be restored on failure")
	}
}

func TestParseURLFunctionForm(t *testing.T) {
	tree, seq := sequenceFrom(t, `src("image.png")`)
	url, ok := ParseURL(tree, &seq)
	if !ok {
		t.Fatalf("expected src(\"image.png\") to parse")
	}
	if url.Text != "image.png" {
		t.Errorf("expected the decoded url text to be %q, got %q", "image.png", url.Text)
	}
}

func TestParseLengthRejectsNonPixelUnit(t *testing.T) {
	tree, seq := sequenceFrom(t, "2em")
	before := seq
	_, ok := ParseLength(tree, &seq)
	if ok {
		t.Fatalf("expected a non-px unit to be rejected")
	}
	if seq.Start() != before.Start() {
		t.Errorf("expected the cursor to be restored on failure")
	}
}

func TestParseLengthPercentageAutoKeyword(t *testing.T) {
	tree, seq := sequenceFrom(t, "auto")
	lp, ok := ParseLengthPercentageAuto(tree, &seq)
	if !ok || lp.Kind != LPAuto {
		t.Fatalf("expected \"auto\" to parse as LPAuto")
	}
}
