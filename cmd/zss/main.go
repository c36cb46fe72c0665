// Command zss is a small demo consumer of this module's parsers: it reads a
// document from stdin, parses it in one of a few modes selected by the
// first argument, and dumps the resulting component tree (or, in "tokens"
// mode, the raw token stream) to stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chadwain/zss/internal/css_ast"
	"github.com/chadwain/zss/internal/css_lexer"
	"github.com/chadwain/zss/internal/css_parser"
	"github.com/chadwain/zss/internal/logger"
	"github.com/chadwain/zss/internal/termcolor"
	"github.com/chadwain/zss/internal/zml"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	mode := "stylesheet"
	if len(args) == 1 {
		mode = args[0]
	} else if len(args) > 1 {
		fmt.Fprintln(stderr, "usage: zss [stylesheet|components|tokens|zml] < input")
		return 1
	}

	contents, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintln(stderr, "error reading stdin:", err)
		return 1
	}

	source, err := css_lexer.NewSource(string(contents), "<stdin>")
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	switch mode {
	case "stylesheet":
		log := logger.NewDeferLog()
		tree, root := css_parser.ParseStylesheet(&source, log, css_parser.DefaultOptions())
		dumpTree(stdout, tree, root, 0)
		return 0

	case "components":
		log := logger.NewDeferLog()
		tree, root := css_parser.ParseListOfComponentValues(&source, log, css_parser.DefaultOptions())
		dumpTree(stdout, tree, root, 0)
		return 0

	case "tokens":
		dumpTokens(stdout, &source)
		return 0

	case "zml":
		log := logger.NewDeferLog()
		p := zml.NewParser(&source, log, zml.DefaultOptions())
		root, ok := p.ParseDocument()
		if !ok {
			writeZmlFailure(stderr, p.Failure)
			return 1
		}
		dumpTree(stdout, p.Tree(), root, 0)
		return 0

	default:
		fmt.Fprintln(stderr, "usage: zss [stylesheet|components|tokens|zml] < input")
		return 1
	}
}

// dumpTree prints one line per component: its tag, source location,
// next-sibling index, and extra-payload summary, indented proportional to
// depth. This is a debugging aid, not a stable serialization format.
func dumpTree(w io.Writer, tree *css_ast.Tree, i uint32, depth int) {
	for d := 0; d < depth; d++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintf(w, "%s @%d next=%d%s\n", tree.Tag(i).String(), tree.Loc(i).Start, tree.NextSibling(i), extraSummary(tree, i))

	for child := i + 1; child < tree.NextSibling(i); child = tree.NextSibling(child) {
		dumpTree(w, tree, child, depth+1)
	}
}

func extraSummary(tree *css_ast.Tree, i uint32) string {
	if tree.Tag(i) == css_ast.TagDeclaration {
		extra := tree.Extra(i)
		if extra.Important {
			return fmt.Sprintf(" (%s, important)", tree.DecodedText(i))
		}
		return fmt.Sprintf(" (%s)", tree.DecodedText(i))
	}
	return ""
}

// dumpTokens prints "index: token_tag" for every token through EOF,
// inclusive, without building a tree at all.
func dumpTokens(w io.Writer, source *logger.Source) {
	log := logger.NewDeferLog()
	ts := css_lexer.NewTokenSource(source, log)
	for i := 0; ; i++ {
		tok := ts.Next()
		fmt.Fprintf(w, "%d: %s\n", i, tok.Kind.String())
		if tok.Kind == css_lexer.TEOF {
			return
		}
	}
}

// writeZmlFailure prints a zml parse failure as "error at location N: msg",
// colored red when stderr is a terminal capable of rendering it.
func writeZmlFailure(stderr io.Writer, failure *zml.ParseError) {
	if failure == nil {
		fmt.Fprintln(stderr, "error: zml parse failed with no recorded cause")
		return
	}
	msg := fmt.Sprintf("error at location %d: %s", failure.Location.Start, failure.Cause.String())
	if termcolor.StderrSupportsColor() {
		fmt.Fprintf(stderr, "\x1b[31m%s\x1b[0m\n", msg)
	} else {
		fmt.Fprintln(stderr, msg)
	}
}
