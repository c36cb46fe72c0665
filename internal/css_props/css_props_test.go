package css_props

import (
	"testing"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_lexer"
	"github.com/chadwain/zss/internal/css_parser"
	"github.com/chadwain/zss/internal/css_values"
	"github.com/chadwain/zss/internal/logger"
)

func firstDeclaration(t *testing.T, contents string) (*css_ast.Tree, uint32) {
	t.Helper()
	src, err := css_lexer.NewSource(contents, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewDeferLog()
	tree, root := css_parser.ParseListOfDeclarations(&src, log, css_parser.DefaultOptions())
	seq := tree.ChildSequence(root)
	i, ok := seq.Next()
	if !ok {
		t.Fatalf("expected at least one declaration in %q", contents)
	}
	return tree, i
}

func TestParseDisplayKeyword(t *testing.T) {
	tree, decl := firstDeclaration(t, "display: inline-block")
	v, ok := ParseDeclaration(tree, decl)
	if !ok {
		t.Fatalf("expected display to parse")
	}
	declared, isDisplay := v.(Declared[DisplayKeyword])
	if !isDisplay {
		t.Fatalf("expected a Declared[DisplayKeyword], got %T", v)
	}
	if declared.Value != DisplayInlineBlock {
		t.Errorf("expected DisplayInlineBlock, got %v", declared.Value)
	}
}

func TestParseDisplayRejectsTrailingGarbage(t *testing.T) {
	tree, decl := firstDeclaration(t, "display: block extra")
	_, ok := ParseDeclaration(tree, decl)
	if ok {
		t.Fatalf("expected a trailing token after the keyword to invalidate the declaration")
	}
}

func TestParsePaddingTRBLExpansion(t *testing.T) {
	tree, decl := firstDeclaration(t, "padding: 1px 2px 3px")
	v, ok := ParseDeclaration(tree, decl)
	if !ok {
		t.Fatalf("expected padding to parse")
	}
	declared := v.(Declared[Sides[css_values.LengthPercentage]])
	sides := declared.Value
	if sides.Top.Length.Px != 1 || sides.Right.Length.Px != 2 || sides.Bottom.Length.Px != 3 || sides.Left.Length.Px != 2 {
		t.Errorf("expected 3-value TRBL expansion {1,2,3,2}, got %+v", sides)
	}
}

func TestParseBorderWidthSingleValueAppliesToAllSides(t *testing.T) {
	tree, decl := firstDeclaration(t, "border-width: 4px")
	v, ok := ParseDeclaration(tree, decl)
	if !ok {
		t.Fatalf("expected border-width to parse")
	}
	declared := v.(Declared[Sides[css_values.Length]])
	sides := declared.Value
	if sides.Top.Px != 4 || sides.Right.Px != 4 || sides.Bottom.Px != 4 || sides.Left.Px != 4 {
		t.Errorf("expected all sides 4px, got %+v", sides)
	}
}

func TestParseColorPropertyHonorsCSSWideKeyword(t *testing.T) {
	tree, decl := firstDeclaration(t, "color: inherit")
	v, ok := ParseDeclaration(tree, decl)
	if !ok {
		t.Fatalf("expected color:inherit to parse")
	}
	declared := v.(Declared[css_values.Color])
	if declared.Wide != CSSWideInherit {
		t.Errorf("expected CSSWideInherit, got %v", declared.Wide)
	}
}

func TestParseDeclarationIgnoresTrailingImportant(t *testing.T) {
	tree, decl := firstDeclaration(t, "color: #ff0000 ! important")
	if !tree.Extra(decl).Important {
		t.Fatalf("expected the declaration to be marked important")
	}
	v, ok := ParseDeclaration(tree, decl)
	if !ok {
		t.Fatalf("expected the value to parse despite the trailing !important")
	}
	declared := v.(Declared[css_values.Color])
	if declared.Value.Kind != css_values.ColorRGBA || declared.Value.RGBA != 0xff0000ff {
		t.Errorf("expected red, got %+v", declared.Value)
	}
}

func TestParseDeclarationUnsupportedPropertyFails(t *testing.T) {
	tree, decl := firstDeclaration(t, "not-a-real-property: 1px")
	_, ok := ParseDeclaration(tree, decl)
	if ok {
		t.Fatalf("expected an unsupported property to fail")
	}
}

func TestParseBackgroundImageLayerList(t *testing.T) {
	tree, decl := firstDeclaration(t, `background-image: url(a.png), url(b.png)`)
	v, ok := ParseDeclaration(tree, decl)
	if !ok {
		t.Fatalf("expected a two-layer background-image to parse")
	}
	declared := v.(Declared[BackgroundImageList])
	if len(declared.Value.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(declared.Value.Layers))
	}
	if declared.Value.Layers[0].Text != "a.png" || declared.Value.Layers[1].Text != "b.png" {
		t.Errorf("unexpected layer contents: %+v", declared.Value.Layers)
	}
}
