package css_lexer

import (
	"testing"

	"github.com/chadwain/zss/internal/logger"
)

func lexAll(contents string) []Token {
	source, err := NewSource(contents, "<test>")
	if err != nil {
		panic(err)
	}
	log := logger.NewDeferLog()
	var tokens []Token
	loc := logger.Loc{}
	for {
		tok, next := Next(log, nil, &source, loc)
		tokens = append(tokens, tok)
		if tok.Kind == TEOF {
			return tokens
		}
		loc = next
	}
}

func firstToken(contents string) (T, string) {
	tokens := lexAll(contents)
	if len(tokens) == 0 {
		return TEOF, ""
	}
	source, _ := NewSource(contents, "<test>")
	return tokens[0].Kind, tokens[0].DecodedText(source.Contents)
}

func TestTokens(t *testing.T) {
	tests := []struct {
		contents string
		kind     T
		text     string
	}{
		{"", TEOF, ""},
		{"@media", TAtKeyword, "media"},
		{"url(x y", TBadURL, "url(x y"},
		{"-->", TCDC, "-->"},
		{"<!--", TCDO, "<!--"},
		{"}", TRightCurly, "}"},
		{"]", TRightSquare, "]"},
		{")", TRightParen, ")"},
		{":", TColon, ":"},
		{",", TComma, ","},
		{"?", TDelim, "?"},
		{"1px", TDimension, "1px"},
		{"max(", TFunction, "max"},
		{"#fff", THashID, "fff"},
		{"#1", THashUnrestricted, "1"},
		{"ident", TIdent, "ident"},
		{"{", TLeftCurly, "{"},
		{"[", TLeftSquare, "["},
		{"(", TLeftParen, "("},
		{"123", TInteger, "123"},
		{"1.5", TNumber, "1.5"},
		{"50%", TPercentage, "50%"},
		{";", TSemicolon, ";"},
		{"\"abc\"", TString, "abc"},
		{"\"abc", TBadString, "\"abc"},
		{"url(abc)", TURL, "abc"},
		{"/* comment */", TComments, "/* comment */"},
		{" \t\n", TWhitespace, " \t\n"},
	}

	for _, tt := range tests {
		kind, text := firstToken(tt.contents)
		if kind != tt.kind {
			t.Errorf("%q: expected kind %v, got %v", tt.contents, tt.kind, kind)
		}
		if text != tt.text {
			t.Errorf("%q: expected text %q, got %q", tt.contents, tt.text, text)
		}
	}
}

func TestTokenizationIsTotal(t *testing.T) {
	// Calling Next repeatedly from TEOF's location must keep returning TEOF
	// at the same location rather than panicking or advancing forever.
	source, err := NewSource("abc", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewDeferLog()
	loc := logger.Loc{}
	var last Token
	for i := 0; i < 10; i++ {
		tok, next := Next(log, nil, &source, loc)
		last = tok
		loc = next
	}
	if last.Kind != TEOF {
		t.Fatalf("expected TEOF, got %v", last.Kind)
	}
	again, _ := Next(log, nil, &source, loc)
	if again.Kind != TEOF || again.Range.Loc != loc {
		t.Fatalf("expected a stable TEOF at %v, got %v at %v", loc, again.Kind, again.Range.Loc)
	}
}

func TestIntegerOverflowDemotesToNumber(t *testing.T) {
	tokens := lexAll("99999999999999999999")
	if len(tokens) == 0 || tokens[0].Kind != TNumber {
		t.Fatalf("expected an overflowing digit run to lex as TNumber, got %v", tokens)
	}
	if !tokens[0].IntOverflowed {
		t.Fatalf("expected IntOverflowed to be set")
	}
}

func TestDimensionValueAndUnit(t *testing.T) {
	source, err := NewSource("10.5px", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewDeferLog()
	tok, _ := Next(log, nil, &source, logger.Loc{})
	if tok.Kind != TDimension {
		t.Fatalf("expected TDimension, got %v", tok.Kind)
	}
	if got := tok.DimensionValue(source.Contents); got != "10.5" {
		t.Errorf("expected value %q, got %q", "10.5", got)
	}
	if got := tok.DimensionUnit(source.Contents); got != "px" {
		t.Errorf("expected unit %q, got %q", "px", got)
	}
}

func TestEscapedIdentDecodesToLiteral(t *testing.T) {
	kind, text := firstToken(`\69 mportant`)
	if kind != TIdent {
		t.Fatalf("expected TIdent, got %v", kind)
	}
	if text != "important" {
		t.Errorf("expected decoded text %q, got %q", "important", text)
	}
}

func TestUnterminatedCommentRecovers(t *testing.T) {
	source, err := NewSource("/* never closes", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewDeferLog()
	tok, _ := Next(log, nil, &source, logger.Loc{})
	if tok.Kind != TComments {
		t.Fatalf("expected TComments, got %v", tok.Kind)
	}
	if !log.HasErrors() {
		t.Errorf("expected an unterminated comment diagnostic")
	}
}

func TestTokenSourceSeekTo(t *testing.T) {
	source, err := NewSource("a b c", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	ts := NewTokenSource(&source, logger.NewDeferLog())
	ts.Next() // "a"
	mark := ts.Loc()
	ts.Next() // whitespace
	second := ts.Next() // "b"
	if second.Kind != TIdent {
		t.Fatalf("expected TIdent, got %v", second.Kind)
	}

	ts.SeekTo(mark)
	replayed := ts.Next()
	if replayed.Range.Loc != mark || replayed.Kind != TWhitespace {
		t.Fatalf("expected SeekTo to replay the whitespace token, got %v at %v", replayed.Kind, replayed.Range.Loc)
	}
}

func TestPreprocessingNormalizesNewlines(t *testing.T) {
	source, err := NewSource("a\r\nb\rc\fd", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if source.Contents != "a\nb\nc\nd" {
		t.Errorf("expected normalized newlines, got %q", source.Contents)
	}
}

func TestNulIsReplacedWithReplacementCharacter(t *testing.T) {
	source, err := NewSource("a\x00b", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if source.Contents == "a\x00b" {
		t.Errorf("expected NUL to be replaced")
	}
}
