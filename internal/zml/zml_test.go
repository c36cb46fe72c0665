package zml

import (
	"testing"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_lexer"
	"github.com/chadwain/zss/internal/logger"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, contents string) (*css_ast.Tree, uint32, bool) {
	t.Helper()
	src, err := css_lexer.NewSource(contents, "<test>")
	require.NoError(t, err)
	tree, root, ok := Parse(&src, logger.NewDeferLog(), DefaultOptions())
	return tree, root, ok
}

// childTags returns the Tag of every direct child of parent, in order.
func childTags(tree *css_ast.Tree, parent uint32) []css_ast.Tag {
	var tags []css_ast.Tag
	seq := tree.ChildSequence(parent)
	for {
		i, ok := seq.Next()
		if !ok {
			break
		}
		tags = append(tags, tree.Tag(i))
	}
	return tags
}

func TestDocumentRequiresExactlyOneRootElement(t *testing.T) {
	src, err := css_lexer.NewSource(`p1 {} p2 {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseInvalidToken, p.Failure.Cause)
}

func TestEndToEndDocumentScenario(t *testing.T) {
	tree, root, ok := mustParse(t, `* { p1 {} "Hello" p2 (decl: value !important;) { p3[a=b] #id {} } }`)
	require.True(t, ok)
	require.Equal(t, css_ast.TagZmlDocument, tree.Tag(root))

	rootElem, has := tree.ChildSequence(root).Next()
	require.True(t, has)
	require.Equal(t, css_ast.TagZmlElement, tree.Tag(rootElem))

	elemChildren := childTags(tree, rootElem)
	require.Equal(t, []css_ast.Tag{css_ast.TagZmlFeatures, css_ast.TagZmlChildren}, elemChildren)

	featuresIdx, _ := tree.ChildSequence(rootElem).Next()
	require.Equal(t, []css_ast.Tag{css_ast.TagZmlEmpty}, childTags(tree, featuresIdx))

	seq := tree.ChildSequence(rootElem)
	seq.Next() // features
	childrenIdx, _ := seq.Next()
	require.Equal(t, css_ast.TagZmlChildren, tree.Tag(childrenIdx))

	var topLevel []uint32
	childSeq := tree.ChildSequence(childrenIdx)
	for {
		i, ok := childSeq.Next()
		if !ok {
			break
		}
		topLevel = append(topLevel, i)
	}
	require.Len(t, topLevel, 3)

	// p1 {}
	require.Equal(t, css_ast.TagZmlElement, tree.Tag(topLevel[0]))
	p1Features, _ := tree.ChildSequence(topLevel[0]).Next()
	p1Feature, _ := tree.ChildSequence(p1Features).Next()
	require.Equal(t, css_ast.TagZmlType, tree.Tag(p1Feature))
	require.Equal(t, "p1", tree.DecodedText(p1Feature))

	// "Hello"
	require.Equal(t, css_ast.TagZmlTextElement, tree.Tag(topLevel[1]))
	require.Equal(t, "Hello", tree.DecodedText(topLevel[1]))

	// p2 (decl: value !important;) { p3[a=b] #id {} }
	p2 := topLevel[2]
	require.Equal(t, css_ast.TagZmlElement, tree.Tag(p2))
	p2Children := childTags(tree, p2)
	require.Equal(t, []css_ast.Tag{css_ast.TagZmlFeatures, css_ast.TagZmlStyles, css_ast.TagZmlChildren}, p2Children)

	p2Seq := tree.ChildSequence(p2)
	p2FeaturesIdx, _ := p2Seq.Next()
	p2TypeIdx, _ := tree.ChildSequence(p2FeaturesIdx).Next()
	require.Equal(t, "p2", tree.DecodedText(p2TypeIdx))

	stylesIdx, _ := p2Seq.Next()
	declIdx, has := tree.ChildSequence(stylesIdx).Next()
	require.True(t, has)
	require.Equal(t, css_ast.TagDeclaration, tree.Tag(declIdx))
	require.True(t, tree.Extra(declIdx).Important)
	require.Equal(t, "decl", tree.DecodedText(declIdx))

	p2ChildrenIdx, _ := p2Seq.Next()
	grandchild, has := tree.ChildSequence(p2ChildrenIdx).Next()
	require.True(t, has)
	require.Equal(t, css_ast.TagZmlElement, tree.Tag(grandchild))

	grandFeaturesIdx, _ := tree.ChildSequence(grandchild).Next()
	var grandFeatureTags []css_ast.Tag
	gfSeq := tree.ChildSequence(grandFeaturesIdx)
	for {
		i, ok := gfSeq.Next()
		if !ok {
			break
		}
		grandFeatureTags = append(grandFeatureTags, tree.Tag(i))
	}
	require.Equal(t, []css_ast.Tag{css_ast.TagZmlType, css_ast.TagZmlAttribute, css_ast.TagZmlID}, grandFeatureTags)
}

func TestInlineStyleBlockBeforeFeaturesFails(t *testing.T) {
	src, err := css_lexer.NewSource(`(decl: value;) p1 {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.NotNil(t, p.Failure)
	require.Equal(t, CauseInlineStyleBlockBeforeFeatures, p.Failure.Cause)
}

func TestElementWithNoFeaturesFails(t *testing.T) {
	src, err := css_lexer.NewSource(`{}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseElementWithNoFeatures, p.Failure.Cause)
}

func TestEmptyWithOtherFeaturesFails(t *testing.T) {
	src, err := css_lexer.NewSource(`*.foo {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseEmptyWithOtherFeatures, p.Failure.Cause)
}

func TestInvalidIDRejectsNumericHash(t *testing.T) {
	src, err := css_lexer.NewSource(`p1#123 {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseInvalidID, p.Failure.Cause)
}

func TestMultipleTypesFails(t *testing.T) {
	src, err := css_lexer.NewSource(`p1 p2 {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseMultipleTypes, p.Failure.Cause)
}

func TestMultipleInlineStyleBlocksFails(t *testing.T) {
	src, err := css_lexer.NewSource(`p1 (a: 1) (b: 2) {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseMultipleInlineStyleBlocks, p.Failure.Cause)
}

func TestEmptyInlineStyleBlockFails(t *testing.T) {
	src, err := css_lexer.NewSource(`p1 () {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseEmptyInlineStyleBlock, p.Failure.Cause)
}

func TestEmptyDeclarationValueFails(t *testing.T) {
	src, err := css_lexer.NewSource(`p1 (decl: ) {}`, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), DefaultOptions())
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseEmptyDeclarationValue, p.Failure.Cause)
}

func TestAttributeValueForms(t *testing.T) {
	tree, root, ok := mustParse(t, `p1[checked][a=b][c="v"] {}`)
	require.True(t, ok)
	rootElem, _ := tree.ChildSequence(root).Next()
	featuresIdx, _ := tree.ChildSequence(rootElem).Next()

	var attrs []uint32
	seq := tree.ChildSequence(featuresIdx)
	for {
		i, has := seq.Next()
		if !has {
			break
		}
		if tree.Tag(i) == css_ast.TagZmlAttribute {
			attrs = append(attrs, i)
		}
	}
	require.Len(t, attrs, 3)

	nameOnly := tree.ChildSequence(attrs[0])
	nameIdx, _ := nameOnly.Next()
	require.Equal(t, "checked", tree.DecodedText(nameIdx))
	require.True(t, nameOnly.Empty())
}

func TestMaxElementDepthIsEnforced(t *testing.T) {
	contents := "p {"
	for i := 0; i < 5; i++ {
		contents += "p {"
	}
	for i := 0; i < 6; i++ {
		contents += "}"
	}
	src, err := css_lexer.NewSource(contents, "<test>")
	require.NoError(t, err)
	p := NewParser(&src, logger.NewDeferLog(), Options{MaxElementDepth: 2, MaxInlineStyleDepth: 32})
	_, ok := p.ParseDocument()
	require.False(t, ok)
	require.Equal(t, CauseElementDepthLimitReached, p.Failure.Cause)
}

func TestCauseStringsAreKebabCase(t *testing.T) {
	require.Equal(t, "expected-colon", CauseExpectedColon.String())
	require.Equal(t, "missing-space-between-features", CauseMissingSpaceBetweenFeatures.String())
}
