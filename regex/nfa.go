package regex

import (
	"github.com/marrowgate/langforge/automaton"
	"github.com/marrowgate/langforge/langerr"
)

// fragment is a Thompson-construction fragment: a start and accept state
// pair, built over a single shared automaton.NFA[string] rather than
// allocating a fresh automaton per subexpression.
type fragment struct {
	start, accept string
}

// literalLabel decodes a postfix atom token into the transition label it
// stands for: an escape pair "\c" denotes the literal character c; any
// other single-rune token denotes itself.
func literalLabel(tok string) string {
	r := []rune(tok)
	if len(r) == 2 && r[0] == '\\' {
		return string(r[1])
	}
	return tok
}

// BuildNFA evaluates a postfix regex into a Thompson NFA,
// maintaining a stack of fragments and combining them per the six postfix
// atom kinds: literal (including "#" for epsilon), "|", ".", "*", "+", "?".
// Fails if the stack does not hold exactly one fragment once the postfix
// expression is exhausted.
func BuildNFA(postfix []string) (*automaton.NFA[string], error) {
	nfa := automaton.NewNFA[string]()
	var stack []fragment

	pop := func() (fragment, error) {
		if len(stack) == 0 {
			return fragment{}, langerr.New(langerr.ErrMalformedRegex, "operand stack underflow")
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f, nil
	}

	for _, tok := range postfix {
		switch tok {
		case "|":
			r, err := pop()
			if err != nil {
				return nil, err
			}
			l, err := pop()
			if err != nil {
				return nil, err
			}
			s := nfa.AddState(false)
			s1 := nfa.AddState(false)
			nfa.AddEpsilon(s, l.start)
			nfa.AddEpsilon(s, r.start)
			nfa.AddEpsilon(l.accept, s1)
			nfa.AddEpsilon(r.accept, s1)
			stack = append(stack, fragment{s, s1})

		case ".":
			r, err := pop()
			if err != nil {
				return nil, err
			}
			l, err := pop()
			if err != nil {
				return nil, err
			}
			nfa.AddEpsilon(l.accept, r.start)
			stack = append(stack, fragment{l.start, r.accept})

		case "*":
			x, err := pop()
			if err != nil {
				return nil, err
			}
			s := nfa.AddState(false)
			s1 := nfa.AddState(false)
			nfa.AddEpsilon(s, x.start)
			nfa.AddEpsilon(s, s1)
			nfa.AddEpsilon(x.accept, s1)
			nfa.AddEpsilon(x.accept, x.start)
			stack = append(stack, fragment{s, s1})

		case "+":
			x, err := pop()
			if err != nil {
				return nil, err
			}
			s := nfa.AddState(false)
			s1 := nfa.AddState(false)
			nfa.AddEpsilon(s, x.start)
			nfa.AddEpsilon(x.accept, s1)
			nfa.AddEpsilon(x.accept, x.start)
			stack = append(stack, fragment{s, s1})

		case "?":
			x, err := pop()
			if err != nil {
				return nil, err
			}
			s := nfa.AddState(false)
			s1 := nfa.AddState(false)
			nfa.AddEpsilon(s, x.start)
			nfa.AddEpsilon(x.accept, s1)
			nfa.AddEpsilon(x.start, x.accept)
			stack = append(stack, fragment{s, s1})

		default:
			s := nfa.AddState(false)
			s1 := nfa.AddState(false)
			if tok == "#" {
				nfa.AddEpsilon(s, s1)
			} else {
				nfa.AddTransition(s, literalLabel(tok), s1)
			}
			stack = append(stack, fragment{s, s1})
		}
	}

	if len(stack) != 1 {
		return nil, langerr.New(langerr.ErrMalformedRegex, "postfix expression leaves %d fragments on the stack, expected 1", len(stack))
	}

	final := stack[0]
	nfa.Start = final.start
	nfa.SetAccepting(final.accept, true)
	return nfa, nil
}
