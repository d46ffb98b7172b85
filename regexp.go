package automaton

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

type Kind int

const (
	REGEXP_UNION         = Kind(iota) // The union of two expressions
	REGEXP_CONCATENATION              // A sequence of two expressions
	REGEXP_OPTIONAL                   // An optional expression
	REGEXP_REPEAT                     // An expression that repeats
	REGEXP_REPEAT_MIN                 // An expression that repeats a minimum number of times
	REGEXP_REPEAT_MINMAX              // An expression that repeats a minimum and maximum number of times
	REGEXP_CHAR                       // A Character
	REGEXP_CHAR_CLASS                 // A set of Characters
	REGEXP_ANYCHAR                    // Any Character allowed
	REGEXP_EMPTY                      // An empty expression
	REGEXP_STRING                     // A string expression
	REGEXP_ANYSTRING                  // Any string allowed
)

// Syntax flags enabling optional operators.
const (
	EMPTY     = 0x0004 // '#' is the empty language
	ANYSTRING = 0x0008 // '@' is any string
	ALL       = 0xff
	NONE      = 0x0000
)

// RegExp Regular Expression extension to Automaton.
//
// Regular expressions are built from the following abstract syntax:
//
//	regexp    ::= unionexp
//	unionexp  ::= concatexp | unionexp      (union)
//	            | concatexp
//	concatexp ::= repeatexp concatexp       (concatenation)
//	            | repeatexp
//	repeatexp ::= repeatexp ?               (zero or one occurrence)
//	            | repeatexp *               (zero or more occurrences)
//	            | repeatexp +               (one or more occurrences)
//	            | repeatexp {n}             (n occurrences)
//	            | repeatexp {n,}            (n or more occurrences)
//	            | repeatexp {n,m}           (n to m occurrences, including both)
//	            | charclassexp
//	charclassexp ::= [ charclasses ]        (character class)
//	            | [^ charclasses ]          (negated character class)
//	            | simpleexp
//	charclasses ::= charclass charclasses | charclass
//	charclass ::= charexp - charexp         (character range, including end-points)
//	            | charexp
//	simpleexp ::= charexp
//	            | .                         (any single byte)
//	            | #                         (the empty language)  [EMPTY]
//	            | @                         (any string)          [ANYSTRING]
//	            | " <bytes without "> "     (a string)
//	            | ( )                       (the empty string)
//	            | ( unionexp )              (precedence override)
//	charexp   ::= <byte>                    (a single non-reserved byte)
//	            | \ <byte>                  (a single byte)
//
// Symbols are single bytes; there is no Unicode handling, no anchors and no backreferences.
type RegExp struct {
	kind       Kind
	exp1, exp2 *RegExp
	s          string
	c          byte
	set        *bitset.BitSet
	min, max   int

	originalString []byte
	flags          int
	pos            int
	alphabet       Alphabet
}

type regExpOption struct {
	syntaxFlags int
	alphabet    Alphabet
}

type RegExpOption func(*regExpOption)

// WithSyntaxFlags enables the optional operators (EMPTY, ANYSTRING). The default is ALL.
func WithSyntaxFlags(flags int) RegExpOption {
	return func(o *regExpOption) {
		o.syntaxFlags = flags
	}
}

// WithAlphabet sets the alphabet the expression is compiled over. The default is FullAlphabet.
func WithAlphabet(alphabet Alphabet) RegExpOption {
	return func(o *regExpOption) {
		o.alphabet = alphabet
	}
}

// NewRegExp Constructs a new RegExp from a string.
func NewRegExp(s string, options ...RegExpOption) (*RegExp, error) {
	opts := &regExpOption{
		syntaxFlags: ALL,
		alphabet:    FullAlphabet,
	}
	for _, fn := range options {
		fn(opts)
	}

	if opts.syntaxFlags < 0 || opts.syntaxFlags > ALL {
		return nil, errors.New("illegal syntax flag")
	}
	if !opts.alphabet.valid() {
		return nil, fmt.Errorf("illegal alphabet %s", opts.alphabet)
	}

	exp := &RegExp{
		originalString: []byte(s),
		flags:          opts.syntaxFlags,
		alphabet:       opts.alphabet,
	}

	var e *RegExp
	var err error
	if len(s) == 0 {
		e = makeString(exp.flags, "")
	} else {
		e, err = exp.parseUnionExp()
		if err != nil {
			return nil, err
		}
		if exp.pos < len(exp.originalString) {
			return nil, fmt.Errorf("end-of-string expected at position %d", exp.pos)
		}
	}
	exp.kind = e.kind
	exp.exp1 = e.exp1
	exp.exp2 = e.exp2
	exp.s = e.s
	exp.c = e.c
	exp.set = e.set
	exp.min = e.min
	exp.max = e.max
	return exp, nil
}

func newContainerNode(flags int, kind Kind, exp1, exp2 *RegExp) *RegExp {
	return &RegExp{kind: kind, exp1: exp1, exp2: exp2, flags: flags}
}

func newRepeatingNode(flags int, kind Kind, exp *RegExp, min, max int) *RegExp {
	return &RegExp{kind: kind, exp1: exp, min: min, max: max, flags: flags}
}

func makeUnion(flags int, exp1, exp2 *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_UNION, exp1, exp2)
}

func isLiteral(e *RegExp) bool {
	return e.kind == REGEXP_CHAR || e.kind == REGEXP_STRING
}

func makeConcatenation(flags int, exp1, exp2 *RegExp) *RegExp {
	if isLiteral(exp1) && isLiteral(exp2) {
		return makeStringRegExp(flags, exp1, exp2)
	}

	var rexp1, rexp2 *RegExp
	if exp1.kind == REGEXP_CONCATENATION && isLiteral(exp1.exp2) && isLiteral(exp2) {
		rexp1 = exp1.exp1
		rexp2 = makeStringRegExp(flags, exp1.exp2, exp2)
	} else if isLiteral(exp1) && exp2.kind == REGEXP_CONCATENATION && isLiteral(exp2.exp1) {
		rexp1 = makeStringRegExp(flags, exp1, exp2.exp1)
		rexp2 = exp2.exp2
	} else {
		rexp1 = exp1
		rexp2 = exp2
	}
	return newContainerNode(flags, REGEXP_CONCATENATION, rexp1, rexp2)
}

func makeStringRegExp(flags int, exp1, exp2 *RegExp) *RegExp {
	b := new(bytes.Buffer)
	for _, e := range []*RegExp{exp1, exp2} {
		if e.kind == REGEXP_STRING {
			b.WriteString(e.s)
		} else {
			b.WriteByte(e.c)
		}
	}
	return makeString(flags, b.String())
}

func makeOptional(flags int, exp *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_OPTIONAL, exp, nil)
}

func makeRepeat(flags int, exp *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_REPEAT, exp, nil)
}

func makeRepeatMin(flags int, exp *RegExp, min int) *RegExp {
	return newRepeatingNode(flags, REGEXP_REPEAT_MIN, exp, min, 0)
}

func makeRepeatRange(flags int, exp *RegExp, min, max int) *RegExp {
	return newRepeatingNode(flags, REGEXP_REPEAT_MINMAX, exp, min, max)
}

func makeChar(flags int, c byte) *RegExp {
	return &RegExp{kind: REGEXP_CHAR, c: c, flags: flags}
}

func makeCharClass(flags int, set *bitset.BitSet) *RegExp {
	return &RegExp{kind: REGEXP_CHAR_CLASS, set: set, flags: flags}
}

func makeAnyChar(flags int) *RegExp {
	return &RegExp{kind: REGEXP_ANYCHAR, flags: flags}
}

func makeEmpty(flags int) *RegExp {
	return &RegExp{kind: REGEXP_EMPTY, flags: flags}
}

func makeString(flags int, s string) *RegExp {
	return &RegExp{kind: REGEXP_STRING, s: s, flags: flags}
}

func makeAnyString(flags int) *RegExp {
	return &RegExp{kind: REGEXP_ANYSTRING, flags: flags}
}

// ToAutomaton Constructs the minimal deterministic automaton accepting the language of this expression.
// determinizeWorkLimit is passed to Determinize.
func (r *RegExp) ToAutomaton(determinizeWorkLimit int) (*Automaton, error) {
	a, err := r.ToStandardAutomaton()
	if err != nil {
		return nil, err
	}
	if a, err = Determinize(a, determinizeWorkLimit); err != nil {
		return nil, err
	}
	return Minimize(a)
}

// ToStandardAutomaton Constructs a (usually non-deterministic) standard automaton for this expression,
// composed only of the base constructors and structural combinators.
func (r *RegExp) ToStandardAutomaton() (*Automaton, error) {
	return r.toAutomatonInternal(&Automata{alphabet: r.alphabet})
}

func (r *RegExp) toAutomatonInternal(automata *Automata) (*Automaton, error) {
	switch r.kind {
	case REGEXP_UNION:
		list := make([]*Automaton, 0)
		if err := r.findLeaves(r, REGEXP_UNION, &list, automata); err != nil {
			return nil, err
		}
		return UnionAll(list...)
	case REGEXP_CONCATENATION:
		list := make([]*Automaton, 0)
		if err := r.findLeaves(r, REGEXP_CONCATENATION, &list, automata); err != nil {
			return nil, err
		}
		return ConcatenateAll(list...)
	case REGEXP_OPTIONAL, REGEXP_REPEAT, REGEXP_REPEAT_MIN, REGEXP_REPEAT_MINMAX:
		a, err := r.exp1.toAutomatonInternal(automata)
		if err != nil {
			return nil, err
		}
		switch r.kind {
		case REGEXP_OPTIONAL:
			return Optional(a)
		case REGEXP_REPEAT:
			return Repeat(a)
		case REGEXP_REPEAT_MIN:
			return RepeatMin(a, r.min)
		default:
			return RepeatRange(a, r.min, r.max)
		}
	case REGEXP_CHAR:
		return automata.MakeChar(r.c)
	case REGEXP_CHAR_CLASS:
		return r.charClassAutomaton(automata)
	case REGEXP_ANYCHAR:
		return automata.MakeAnyChar(), nil
	case REGEXP_EMPTY:
		return automata.MakeEmpty(), nil
	case REGEXP_STRING:
		return automata.MakeString(r.s)
	case REGEXP_ANYSTRING:
		return automata.MakeAnyString(), nil
	}
	return nil, fmt.Errorf("unknown regexp kind %d", r.kind)
}

// Builds the two-state automaton for a character class, keeping only the bytes of the alphabet.
func (r *RegExp) charClassAutomaton(automata *Automata) (*Automaton, error) {
	b := NewBuilderV1(automata.alphabet, 2, int(r.set.Count()))
	s0 := b.CreateState()
	s1 := b.CreateState()
	b.SetAccept(s1, true)
	for c, ok := r.set.NextSet(uint(automata.alphabet.Min)); ok && c <= uint(automata.alphabet.Max); c, ok = r.set.NextSet(c + 1) {
		b.AddTransition(s0, s1, byte(c))
	}
	return b.Finish()
}

func (r *RegExp) findLeaves(exp *RegExp, kind Kind, list *[]*Automaton, automata *Automata) error {
	if exp.kind == kind {
		if err := r.findLeaves(exp.exp1, kind, list, automata); err != nil {
			return err
		}
		return r.findLeaves(exp.exp2, kind, list, automata)
	}

	a, err := exp.toAutomatonInternal(automata)
	if err != nil {
		return err
	}
	*list = append(*list, a)
	return nil
}

func (r *RegExp) String() string {
	b := new(bytes.Buffer)
	r.toStringBuilder(b)
	return b.String()
}

func (r *RegExp) toStringBuilder(b *bytes.Buffer) {
	switch r.kind {
	case REGEXP_UNION:
		b.WriteByte('(')
		r.exp1.toStringBuilder(b)
		b.WriteByte('|')
		r.exp2.toStringBuilder(b)
		b.WriteByte(')')
	case REGEXP_CONCATENATION:
		r.exp1.toStringBuilder(b)
		r.exp2.toStringBuilder(b)
	case REGEXP_OPTIONAL:
		b.WriteByte('(')
		r.exp1.toStringBuilder(b)
		b.WriteString(")?")
	case REGEXP_REPEAT:
		b.WriteByte('(')
		r.exp1.toStringBuilder(b)
		b.WriteString(")*")
	case REGEXP_REPEAT_MIN:
		b.WriteByte('(')
		r.exp1.toStringBuilder(b)
		fmt.Fprintf(b, "){%d,}", r.min)
	case REGEXP_REPEAT_MINMAX:
		b.WriteByte('(')
		r.exp1.toStringBuilder(b)
		fmt.Fprintf(b, "){%d,%d}", r.min, r.max)
	case REGEXP_CHAR:
		b.WriteByte('\\')
		b.WriteByte(r.c)
	case REGEXP_CHAR_CLASS:
		b.WriteByte('[')
		for c, ok := r.set.NextSet(0); ok; c, ok = r.set.NextSet(c + 1) {
			b.WriteByte('\\')
			b.WriteByte(byte(c))
		}
		b.WriteByte(']')
	case REGEXP_ANYCHAR:
		b.WriteByte('.')
	case REGEXP_EMPTY:
		b.WriteByte('#')
	case REGEXP_STRING:
		b.WriteByte('"')
		b.WriteString(r.s)
		b.WriteByte('"')
	case REGEXP_ANYSTRING:
		b.WriteByte('@')
	}
}

func (r *RegExp) more() bool {
	return r.pos < len(r.originalString)
}

func (r *RegExp) peek(s string) bool {
	return r.more() && strings.IndexByte(s, r.originalString[r.pos]) >= 0
}

func (r *RegExp) match(c byte) bool {
	if r.pos >= len(r.originalString) {
		return false
	}
	if r.originalString[r.pos] == c {
		r.pos++
		return true
	}
	return false
}

func (r *RegExp) next() (byte, error) {
	if !r.more() {
		return 0, fmt.Errorf("unexpected end-of-string at position %d: %w", r.pos, io.ErrUnexpectedEOF)
	}
	ch := r.originalString[r.pos]
	r.pos++
	return ch, nil
}

func (r *RegExp) check(flags int) bool {
	return r.flags&flags != 0
}

func (r *RegExp) parseUnionExp() (*RegExp, error) {
	e, err := r.parseConcatExp()
	if err != nil {
		return nil, err
	}
	if r.match('|') {
		e2, err := r.parseUnionExp()
		if err != nil {
			return nil, err
		}
		e = makeUnion(r.flags, e, e2)
	}
	return e, nil
}

func (r *RegExp) parseConcatExp() (*RegExp, error) {
	e, err := r.parseRepeatExp()
	if err != nil {
		return nil, err
	}
	if r.more() && !r.peek(")|") {
		e2, err := r.parseConcatExp()
		if err != nil {
			return nil, err
		}
		e = makeConcatenation(r.flags, e, e2)
	}
	return e, nil
}

func (r *RegExp) parseInt() (int, error) {
	start := r.pos
	for r.peek("0123456789") {
		r.pos++
	}
	if start == r.pos {
		return 0, fmt.Errorf("integer expected at position %d", r.pos)
	}
	return strconv.Atoi(string(r.originalString[start:r.pos]))
}

func (r *RegExp) parseRepeatExp() (*RegExp, error) {
	e, err := r.parseCharClassExp()
	if err != nil {
		return nil, err
	}

	for r.peek("?*+{") {
		if r.match('?') {
			e = makeOptional(r.flags, e)
		} else if r.match('*') {
			e = makeRepeat(r.flags, e)
		} else if r.match('+') {
			e = makeRepeatMin(r.flags, e, 1)
		} else if r.match('{') {
			n, err := r.parseInt()
			if err != nil {
				return nil, err
			}
			m := n
			if r.match(',') {
				if r.peek("0123456789") {
					if m, err = r.parseInt(); err != nil {
						return nil, err
					}
				} else {
					m = -1
				}
			}
			if !r.match('}') {
				return nil, fmt.Errorf("expected '}' at position %d", r.pos)
			}

			if m == -1 {
				e = makeRepeatMin(r.flags, e, n)
			} else {
				e = makeRepeatRange(r.flags, e, n, m)
			}
		}
	}

	return e, nil
}

func (r *RegExp) parseCharClassExp() (*RegExp, error) {
	if r.match('[') {
		negate := r.match('^')
		set, err := r.parseCharClasses()
		if err != nil {
			return nil, err
		}
		if negate {
			set = set.Complement()
		}
		if !r.match(']') {
			return nil, fmt.Errorf("expected ']' at position %d", r.pos)
		}
		return makeCharClass(r.flags, set), nil
	}
	return r.parseSimpleExp()
}

func (r *RegExp) parseCharClasses() (*bitset.BitSet, error) {
	set := bitset.New(256)
	if err := r.parseCharClass(set); err != nil {
		return nil, err
	}
	for r.more() && !r.peek("]") {
		if err := r.parseCharClass(set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (r *RegExp) parseCharClass(set *bitset.BitSet) error {
	c, err := r.parseCharExp()
	if err != nil {
		return err
	}
	to := c
	if r.match('-') {
		if to, err = r.parseCharExp(); err != nil {
			return err
		}
		if c > to {
			return fmt.Errorf("invalid character range %q-%q at position %d", c, to, r.pos)
		}
	}
	for x := int(c); x <= int(to); x++ {
		set.Set(uint(x))
	}
	return nil
}

func (r *RegExp) parseSimpleExp() (*RegExp, error) {
	if r.match('.') {
		return makeAnyChar(r.flags), nil
	} else if r.check(EMPTY) && r.match('#') {
		return makeEmpty(r.flags), nil
	} else if r.check(ANYSTRING) && r.match('@') {
		return makeAnyString(r.flags), nil
	} else if r.match('"') {
		start := r.pos
		for r.more() && !r.peek("\"") {
			r.pos++
		}
		if !r.match('"') {
			return nil, fmt.Errorf("expected '\"' at position %d", r.pos)
		}
		return makeString(r.flags, string(r.originalString[start:r.pos-1])), nil
	} else if r.match('(') {
		if r.match(')') {
			return makeString(r.flags, ""), nil
		}
		e, err := r.parseUnionExp()
		if err != nil {
			return nil, err
		}
		if !r.match(')') {
			return nil, fmt.Errorf("expected ')' at position %d", r.pos)
		}
		return e, nil
	}

	if r.peek(")|?*+{") {
		return nil, fmt.Errorf("unexpected %q at position %d", r.originalString[r.pos], r.pos)
	}
	c, err := r.parseCharExp()
	if err != nil {
		return nil, err
	}
	return makeChar(r.flags, c), nil
}

func (r *RegExp) parseCharExp() (byte, error) {
	r.match('\\')
	return r.next()
}
