// Package css_selector parses a <complex-selector-list> out of an
// already-built css_ast sub-sequence (typically a qualified rule's
// prelude) into a flat Data list, resolving namespace prefixes and
// computing per-complex-selector specificity along the way.
//
// Data is columnar like css_ast.Tree: parallel arrays of kind, location,
// and a kind-specific Extra payload, built by the same reserve-then-finish
// protocol css_ast uses for complex components. Pseudo-class/pseudo-element
// function arguments are not copied into Data; a record just remembers the
// [start, end) range of the underlying css_ast.Tree that holds them, the
// same "re-derive from the source of truth" approach css_ast.Tree.Token
// takes for token text.
package css_selector

import (
	"github.com/chadwain/zss/internal/intern"
	"github.com/chadwain/zss/internal/logger"
)

// NamespaceNone and NamespaceAny are reserved sentinels outside the range
// a Table's Intern ever returns (which starts at 0): NamespaceNone is an
// explicit "|name" (no namespace), NamespaceAny is "*|name" or an
// unresolved default namespace.
const (
	NamespaceNone intern.ID = -1
	NamespaceAny  intern.ID = -2
)

// Environment is the caller-supplied (namespaces, default_namespace)
// context the selector parser reads namespace prefixes from and interns
// type/id/class/attribute names into. One Environment is typically shared
// across every selector list parsed for a single stylesheet.
type Environment struct {
	Types      *intern.Table
	Ids        *intern.Table
	Classes    *intern.Table
	Attributes *intern.Table

	// Prefixes maps a declared namespace prefix to its namespace ID,
	// case-sensitive lookup per the qualified-name grammar.
	Prefixes map[string]intern.ID

	// Default is substituted for a type selector with no namespace prefix
	// at all. It does not apply to attribute selectors, which default to
	// NamespaceNone instead.
	Default intern.ID
}

// NewEnvironment returns an Environment with freshly allocated tables sized
// by limits and no namespace prefixes declared.
func NewEnvironment(limits intern.Limits) *Environment {
	return &Environment{
		Types:      intern.NewTable(limits.Types),
		Ids:        intern.NewTable(limits.Ids),
		Classes:    intern.NewTable(limits.Classes),
		Attributes: intern.NewTable(limits.Attributes),
		Prefixes:   make(map[string]intern.ID),
		Default:    NamespaceAny,
	}
}

// Kind tags one Data record.
type Kind uint8

const (
	// KindComplexSelector is a sentinel opening one complex selector. Its
	// Extra.NextComplex is back-patched to the index of the next complex
	// selector's sentinel (or Data.Len() for the last one), forming a
	// linked partition the same way css_ast.Tree.FinishComplex does.
	KindComplexSelector Kind = iota

	// KindCompound opens one compound selector within the enclosing
	// complex selector; Extra.Combinator is the combinator that joins it
	// to the previous compound (CombinatorNone for the first compound).
	// The simple-selector records that make up the compound follow until
	// the next KindCompound or KindComplexSelector record.
	KindCompound

	KindType
	KindUniversal
	KindID
	KindClass
	KindAttribute
	KindPseudoClass
	KindPseudoElement
)

// Combinator joins two compound selectors within a complex selector.
type Combinator uint8

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorNextSibling
	CombinatorSubsequentSibling
	CombinatorColumn
)

// AttrOp is an attribute selector's matcher operator.
type AttrOp uint8

const (
	AttrOpNone           AttrOp = iota // "[attr]", presence only
	AttrOpEquals                       // "="
	AttrOpIncludes                     // "~="
	AttrOpDashMatch                    // "|="
	AttrOpPrefixMatch                  // "^="
	AttrOpSuffixMatch                  // "$="
	AttrOpSubstringMatch               // "*="
)

// Specificity is the (a, b, c) triple used to order matching selectors: a
// counts IDs, b counts classes/attributes/pseudo-classes, c counts types
// and pseudo-elements.
type Specificity struct {
	A, B, C uint8
}

// Add combines two specificities with saturating addition at 255 per
// component.
func (s Specificity) Add(other Specificity) Specificity {
	return Specificity{
		A: saturate(int(s.A) + int(other.A)),
		B: saturate(int(s.B) + int(other.B)),
		C: saturate(int(s.C) + int(other.C)),
	}
}

func saturate(v int) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Extra is the per-record payload whose meaning depends on Kind.
type Extra struct {
	Namespace intern.ID // KindType, KindUniversal, KindAttribute
	Name      intern.ID // KindType, KindID, KindClass, KindAttribute

	AttrOp    AttrOp // KindAttribute
	AttrValue string // KindAttribute: the matcher's right-hand side, decoded
	CaseFlag  byte   // KindAttribute: 'i', 's', or 0 for the default

	PseudoName string // KindPseudoClass, KindPseudoElement: lowercased name
	Recognized bool   // whether PseudoName is one this parser knows by name

	// HasArgs and [ArgsStart, ArgsEnd) describe a pseudo-class/element
	// written in function form, e.g. ":nth-child(2n+1)": the range is the
	// function's argument components in the css_ast.Tree this Data was
	// built from. Left zero for the bare ident form.
	HasArgs   bool
	ArgsStart uint32
	ArgsEnd   uint32

	Combinator  Combinator // KindCompound
	NextComplex uint32     // KindComplexSelector: back-patched by finishComplexSelector
}

// Data is the append-only, columnar output of one or more selector-list
// parses. Like css_ast.Tree, it is built during a single parse and read
// thereafter through plain index access.
type Data struct {
	kind        []Kind
	loc         []logger.Loc
	extra       []Extra
	specificity []Specificity
}

// Len returns the number of records appended so far.
func (d *Data) Len() uint32 { return uint32(len(d.kind)) }

// Kind returns the kind of record i.
func (d *Data) Kind(i uint32) Kind { return d.kind[i] }

// Loc returns the source location of record i.
func (d *Data) Loc(i uint32) logger.Loc { return d.loc[i] }

// Extra returns the kind-specific payload of record i.
func (d *Data) Extra(i uint32) Extra { return d.extra[i] }

// NumComplexSelectors returns how many complex selectors have been fully
// appended (i.e. how many specificity entries exist).
func (d *Data) NumComplexSelectors() int { return len(d.specificity) }

// Specificity returns the n-th complex selector's specificity, in the same
// order its KindComplexSelector sentinel was appended.
func (d *Data) Specificity(n int) Specificity { return d.specificity[n] }

func (d *Data) addBasic(kind Kind, loc logger.Loc, extra Extra) uint32 {
	i := uint32(len(d.kind))
	d.kind = append(d.kind, kind)
	d.loc = append(d.loc, loc)
	d.extra = append(d.extra, extra)
	return i
}

func (d *Data) addComplexSelector(loc logger.Loc) uint32 {
	return d.addBasic(KindComplexSelector, loc, Extra{})
}

func (d *Data) finishComplexSelector(index uint32, spec Specificity) {
	d.extra[index].NextComplex = uint32(len(d.kind))
	d.specificity = append(d.specificity, spec)
}

func (d *Data) addCompound(loc logger.Loc, combinator Combinator) uint32 {
	return d.addBasic(KindCompound, loc, Extra{Combinator: combinator})
}

func (d *Data) addType(loc logger.Loc, ns, name intern.ID) uint32 {
	return d.addBasic(KindType, loc, Extra{Namespace: ns, Name: name})
}

func (d *Data) addUniversal(loc logger.Loc, ns intern.ID) uint32 {
	return d.addBasic(KindUniversal, loc, Extra{Namespace: ns})
}

func (d *Data) addID(loc logger.Loc, name intern.ID) uint32 {
	return d.addBasic(KindID, loc, Extra{Name: name})
}

func (d *Data) addClass(loc logger.Loc, name intern.ID) uint32 {
	return d.addBasic(KindClass, loc, Extra{Name: name})
}

func (d *Data) addAttribute(loc logger.Loc, ns, name intern.ID, op AttrOp, value string, caseFlag byte) uint32 {
	return d.addBasic(KindAttribute, loc, Extra{Namespace: ns, Name: name, AttrOp: op, AttrValue: value, CaseFlag: caseFlag})
}

func (d *Data) addPseudoClass(loc logger.Loc, name string, recognized bool) uint32 {
	return d.addBasic(KindPseudoClass, loc, Extra{PseudoName: name, Recognized: recognized})
}

func (d *Data) addPseudoClassFunc(loc logger.Loc, name string, recognized bool, argsStart, argsEnd uint32) uint32 {
	return d.addBasic(KindPseudoClass, loc, Extra{PseudoName: name, Recognized: recognized, HasArgs: true, ArgsStart: argsStart, ArgsEnd: argsEnd})
}

func (d *Data) addPseudoElement(loc logger.Loc, name string, recognized bool) uint32 {
	return d.addBasic(KindPseudoElement, loc, Extra{PseudoName: name, Recognized: recognized})
}

func (d *Data) addPseudoElementFunc(loc logger.Loc, name string, recognized bool, argsStart, argsEnd uint32) uint32 {
	return d.addBasic(KindPseudoElement, loc, Extra{PseudoName: name, Recognized: recognized, HasArgs: true, ArgsStart: argsStart, ArgsEnd: argsEnd})
}

// Truncate discards every record from index onward and every specificity
// entry from specCount onward. This is how a failed selector-list parse
// rolls Data back to its pre-attempt length; nothing appended during a
// failed attempt may survive.
func (d *Data) Truncate(index uint32, specCount int) {
	d.kind = d.kind[:index]
	d.loc = d.loc[:index]
	d.extra = d.extra[:index]
	d.specificity = d.specificity[:specCount]
}
