package regex

import "github.com/marrowgate/langforge/langerr"

// precedence gives the shunting-yard binding power of each operator: grouping parens bind loosest, then alternation,
// then concatenation, then the postfix repetition operators, all
// left-associative (operators of equal or higher precedence are popped
// before a new one is pushed).
func precedence(op string) int {
	switch op {
	case "(", ")":
		return 0
	case "|":
		return 1
	case ".":
		return 2
	case "*", "+", "?":
		return 4
	default:
		return -1
	}
}

// ToPostfix runs the shunting-yard algorithm over an (already
// concatenation-expanded) token stream, yielding the equivalent postfix
// token sequence.
func ToPostfix(tokens []string) ([]string, error) {
	var output []string
	var ops []string

	pushOp := func(op string) {
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			if top == "(" {
				break
			}
			if precedence(top) >= precedence(op) {
				output = append(output, top)
				ops = ops[:len(ops)-1]
				continue
			}
			break
		}
		ops = append(ops, op)
	}

	for _, tok := range tokens {
		switch tok {
		case "(":
			ops = append(ops, tok)
		case ")":
			closed := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top == "(" {
					closed = true
					break
				}
				output = append(output, top)
			}
			if !closed {
				return nil, langerr.New(langerr.ErrMalformedRegex, "unbalanced parentheses")
			}
		case "|", ".", "*", "+", "?":
			pushOp(tok)
		default:
			output = append(output, tok)
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top == "(" {
			return nil, langerr.New(langerr.ErrMalformedRegex, "unbalanced parentheses")
		}
		output = append(output, top)
	}

	return output, nil
}
