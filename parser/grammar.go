package parser

import (
	"fmt"
	"slices"

	"github.com/shibukawa/leafbuild/syntax"
)

var (
	assignOps = []syntax.Kind{
		syntax.ASSIGN, syntax.PLUS_ASSIGN, syntax.MINUS_ASSIGN,
		syntax.MULTIPLY_ASSIGN, syntax.DIVIDE_ASSIGN, syntax.MODULO_ASSIGN,
	}
	orOps             = []syntax.Kind{syntax.OR_KW}
	andOps            = []syntax.Kind{syntax.AND_KW}
	equalityOps       = []syntax.Kind{syntax.EQUAL, syntax.NOT_EQUAL}
	comparisonOps     = []syntax.Kind{syntax.LESS_THAN, syntax.LESS_EQUAL, syntax.GREATER_THAN, syntax.GREATER_EQUAL}
	shiftOps          = []syntax.Kind{syntax.SHIFT_LEFT, syntax.SHIFT_RIGHT}
	additiveOps       = []syntax.Kind{syntax.PLUS, syntax.MINUS}
	multiplicativeOps = []syntax.Kind{syntax.MULTIPLY, syntax.DIVIDE, syntax.MODULO}
)

// parseStatement dispatches on the first meaningful token. Expression
// starters parse an expression first and upgrade to an assignment when an
// assignment operator follows; tokens that can never begin a statement are
// unexpected.
func parseStatement(p *parser) error {
	switch p.current() {
	case syntax.EOF:
		return errEOF
	case syntax.LET_KW:
		return parseDeclaration(p)
	case syntax.IF_KW:
		return parseConditional(p)
	case syntax.FOREACH_KW:
		return parseForeach(p)
	case syntax.CONTINUE_KW, syntax.BREAK_KW, syntax.RETURN_KW:
		return parseControlStatement(p)
	case syntax.OPENED_PARENS, syntax.OPENED_BRACKET, syntax.OPENED_BRACE,
		syntax.PLUS, syntax.MINUS, syntax.NOT_KW, syntax.TRUE_KW, syntax.FALSE_KW,
		syntax.NUMBER, syntax.IDENTIFIER, syntax.STRING, syntax.MULTILINE_STRING:
		return parseExprStatement(p)
	case syntax.CLOSED_PARENS, syntax.CLOSED_BRACKET, syntax.CLOSED_BRACE,
		syntax.DOT, syntax.COLON, syntax.QUESTION, syntax.SEMICOLON, syntax.COMMA,
		syntax.TILDE, syntax.BANG,
		syntax.MULTIPLY, syntax.DIVIDE, syntax.MODULO,
		syntax.PLUS_ASSIGN, syntax.MINUS_ASSIGN, syntax.MULTIPLY_ASSIGN,
		syntax.DIVIDE_ASSIGN, syntax.MODULO_ASSIGN, syntax.ASSIGN,
		syntax.EQUAL, syntax.NOT_EQUAL, syntax.LESS_THAN, syntax.LESS_EQUAL,
		syntax.GREATER_THAN, syntax.GREATER_EQUAL, syntax.SHIFT_LEFT, syntax.SHIFT_RIGHT,
		syntax.AND_KW, syntax.OR_KW, syntax.IN_KW, syntax.ELSE_KW, syntax.FN_KW,
		syntax.ERROR:
		return p.unexpected()
	default:
		return &syntaxError{
			msg:  fmt.Sprintf("cannot parse statement starting with %s", p.current().TokenName()),
			span: p.currentSpan(),
		}
	}
}

// parseExprStatement parses an expression statement, retroactively wrapping
// it into an assignment when an assignment operator follows the expression.
func parseExprStatement(p *parser) error {
	cp := p.builder.Checkpoint()
	if err := parseExpr(p); err != nil {
		return err
	}
	if !slices.Contains(assignOps, p.current()) {
		return nil
	}
	return p.nodeAt(cp, syntax.ASSIGNMENT, func(p *parser) error {
		p.bump() // the assignment operator
		if err := parseExpr(p); err != nil {
			return err
		}
		return p.requireNewline()
	})
}

// parseDeclaration parses `let` ID `=` Expr NEWLINE. Running out of input
// mid-declaration is an incomplete statement, not a clean stop.
func parseDeclaration(p *parser) error {
	return p.node(syntax.DECLARATION, func(p *parser) error {
		p.bump() // let
		if err := mapIncomplete(p.expect(syntax.IDENTIFIER)); err != nil {
			return err
		}
		if err := mapIncomplete(p.expect(syntax.ASSIGN)); err != nil {
			return err
		}
		if err := mapIncomplete(parseExpr(p)); err != nil {
			return err
		}
		return mapIncomplete(p.requireNewline())
	})
}

// parseConditional parses an if branch followed by any number of `else if`
// branches and at most one trailing `else` block. Conditionals are also
// primaries, so this serves if-expressions too.
func parseConditional(p *parser) error {
	return p.node(syntax.CONDITIONAL, func(p *parser) error {
		if err := mapIncomplete(parseConditionalBranch(p)); err != nil {
			return err
		}
		for p.current() == syntax.ELSE_KW {
			p.bump()
			if p.current() == syntax.IF_KW {
				if err := mapIncomplete(parseConditionalBranch(p)); err != nil {
					return err
				}
				continue
			}
			return mapIncomplete(parseExprBlock(p))
		}
		return nil
	})
}

func parseConditionalBranch(p *parser) error {
	return p.node(syntax.CONDITIONAL_BRANCH, func(p *parser) error {
		p.bump() // if
		if err := mapIncomplete(parseExpr(p)); err != nil {
			return err
		}
		return mapIncomplete(parseExprBlock(p))
	})
}

// parseForeach parses `foreach` Expr `in` Expr Block.
func parseForeach(p *parser) error {
	return p.node(syntax.FOREACH, func(p *parser) error {
		p.bump() // foreach
		if err := mapIncomplete(parseExpr(p)); err != nil {
			return err
		}
		if err := p.expect(syntax.IN_KW); err != nil {
			return err
		}
		if err := mapIncomplete(parseExpr(p)); err != nil {
			return err
		}
		return mapIncomplete(parseExprBlock(p))
	})
}

// parseControlStatement parses `continue` NEWLINE and
// (`return`|`break`) [Expr] NEWLINE. The keyword is consumed with the
// trailing variant so the terminating newline stays raw for requireNewline;
// return and break take a value only when something other than a newline
// follows on the same line.
func parseControlStatement(p *parser) error {
	return p.node(syntax.CONTROL_STATEMENT, func(p *parser) error {
		switch p.current() {
		case syntax.CONTINUE_KW:
			p.bumpLast()
			return p.requireNewline()
		case syntax.RETURN_KW, syntax.BREAK_KW:
			p.bumpLast()
			if k := p.nextNontrivia(); k != syntax.NEWLINE && k != syntax.EOF {
				if err := parseExpr(p); err != nil {
					return err
				}
			}
			return p.requireNewline()
		case syntax.EOF:
			return errIncomplete
		default:
			return p.unexpected()
		}
	})
}

// parseExpr parses one expression under an EXPR node. The precedence
// ladder, loosest binding first: `or`; `and`; `==` `!=`; `<` `<=` `>` `>=`;
// `<<` `>>`; `+` `-`; `*` `/` `%`; unary `+` `-`; postfix call/index chains
// over primaries. All binary levels associate to the left.
func parseExpr(p *parser) error {
	return p.node(syntax.EXPR, parseOrExpr)
}

// parseInfixBinop parses one left-associative level: parse the tighter
// level, then for each operator at this level wrap everything since the
// checkpoint into a binop node and parse the right operand. Reusing the
// same checkpoint nests earlier binops as the left operand of later ones.
func parseInfixBinop(p *parser, ops []syntax.Kind, lower func(*parser) error) error {
	cp := p.builder.Checkpoint()
	if err := lower(p); err != nil {
		return err
	}
	for slices.Contains(ops, p.current()) {
		err := p.nodeAt(cp, syntax.INFIX_BIN_OP_EXPR, func(p *parser) error {
			p.bump()
			return lower(p)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func parseOrExpr(p *parser) error {
	return parseInfixBinop(p, orOps, parseAndExpr)
}

func parseAndExpr(p *parser) error {
	return parseInfixBinop(p, andOps, parseEqualityExpr)
}

func parseEqualityExpr(p *parser) error {
	return parseInfixBinop(p, equalityOps, parseComparisonExpr)
}

func parseComparisonExpr(p *parser) error {
	return parseInfixBinop(p, comparisonOps, parseShiftExpr)
}

func parseShiftExpr(p *parser) error {
	return parseInfixBinop(p, shiftOps, parseAdditiveExpr)
}

func parseAdditiveExpr(p *parser) error {
	return parseInfixBinop(p, additiveOps, parseMultiplicativeExpr)
}

func parseMultiplicativeExpr(p *parser) error {
	return parseInfixBinop(p, multiplicativeOps, parseUnaryExpr)
}

// parseUnaryExpr parses right-recursive prefix `+`/`-` chains.
func parseUnaryExpr(p *parser) error {
	if k := p.current(); k == syntax.PLUS || k == syntax.MINUS {
		return p.node(syntax.PREFIX_UNARY_OP_EXPR, func(p *parser) error {
			p.bump()
			return parseUnaryExpr(p)
		})
	}
	return parsePostfixExpr(p)
}

// parsePostfixExpr parses a primary and chains call/index suffixes onto it.
// The chain consults the raw stream: a newline between the base and the
// opening token terminates the statement instead of extending the chain, so
// `x = a` followed by `[1]` on the next line stays two statements.
func parsePostfixExpr(p *parser) error {
	cp := p.builder.Checkpoint()
	if err := parsePrimary(p); err != nil {
		return err
	}
	for {
		switch p.nextNontrivia() {
		case syntax.OPENED_PARENS:
			if err := parseFuncCall(p, cp); err != nil {
				return err
			}
		case syntax.OPENED_BRACKET:
			if err := parseIndexExpr(p, cp); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// parseFuncCall wraps everything since the checkpoint (the callee chain)
// into a call node and parses the argument list.
func parseFuncCall(p *parser, cp syntax.Checkpoint) error {
	return p.nodeAt(cp, syntax.FUNC_CALL_EXPR, func(p *parser) error {
		return parseDelimited(p, syntax.FUNC_CALL_ARGS, syntax.OPENED_PARENS, syntax.COMMA, syntax.CLOSED_PARENS, parseFuncArg)
	})
}

// parseFuncArg parses one argument: keyword form when an identifier is
// immediately followed (one token of lookahead, trivia skipped, newline
// blocking) by `=`, positional expression otherwise. `f(name)` passes the
// variable name; `f(name = 1)` passes a keyword argument.
func parseFuncArg(p *parser) error {
	if isKeywordArgStart(p) {
		return parseKeywordArg(p)
	}
	return parseExpr(p)
}

func isKeywordArgStart(p *parser) bool {
	return p.current() == syntax.IDENTIFIER && p.nextNontriviaLookahead() == syntax.ASSIGN
}

func parseKeywordArg(p *parser) error {
	return p.node(syntax.K_EXPR, func(p *parser) error {
		p.bump() // the name
		if err := p.expect(syntax.ASSIGN); err != nil {
			return err
		}
		return parseExpr(p)
	})
}

// parseIndexExpr wraps the base since the checkpoint into an indexed node
// holding a brackets node with the subscript expression.
func parseIndexExpr(p *parser, cp syntax.Checkpoint) error {
	return p.nodeAt(cp, syntax.INDEXED_EXPR, func(p *parser) error {
		return p.node(syntax.INDEXED_EXPR_BRACKETS, func(p *parser) error {
			p.bump() // '['
			if err := parseExpr(p); err != nil {
				return err
			}
			return p.expect(syntax.CLOSED_BRACKET)
		})
	})
}

// parsePrimary parses the atoms: array and tuple literals, conditionals,
// blocks, numbers, identifiers and strings. Anything else gets a
// placeholder leaf and an unexpected-token error (end-of-input when the
// stream ran out). `true`, `false` and `not` are not primaries even though
// statement dispatch lets them begin an expression; they fail here.
func parsePrimary(p *parser) error {
	return p.node(syntax.PRIMARY_EXPR, func(p *parser) error {
		switch p.current() {
		case syntax.OPENED_BRACKET:
			return parseArrayExpr(p)
		case syntax.OPENED_PARENS:
			return parseTupleExpr(p)
		case syntax.IF_KW:
			return parseConditional(p)
		case syntax.OPENED_BRACE:
			return parseExprBlock(p)
		case syntax.NUMBER, syntax.IDENTIFIER:
			p.bumpLast()
			return nil
		case syntax.STRING, syntax.MULTILINE_STRING:
			return parseString(p)
		case syntax.EOF:
			p.errorLeaf()
			return errEOF
		default:
			err := p.unexpected()
			p.errorLeaf()
			return err
		}
	})
}

func parseString(p *parser) error {
	return p.node(syntax.STR_LIT, func(p *parser) error {
		p.bumpLast()
		return nil
	})
}

// parseTupleExpr parses a parenthesized, comma-separated expression list.
// There is no grouping form: `(x)` is a one-element tuple.
func parseTupleExpr(p *parser) error {
	return parseDelimited(p, syntax.TUPLE_EXPR, syntax.OPENED_PARENS, syntax.COMMA, syntax.CLOSED_PARENS, parseExpr)
}

func parseArrayExpr(p *parser) error {
	return parseDelimited(p, syntax.ARRAY_LIT_EXPR, syntax.OPENED_BRACKET, syntax.COMMA, syntax.CLOSED_BRACKET, parseExpr)
}

func parseExprBlock(p *parser) error {
	return parseDelimited(p, syntax.EXPR_BLOCK, syntax.OPENED_BRACE, syntax.EOF, syntax.CLOSED_BRACE, parseStatement)
}

// parseDelimited parses start, elements, end under a fresh node. A
// separator of EOF means the elements are not separated (statement blocks).
// The separator is optional before the closing token, so trailing
// separators parse; an element followed by neither separator nor closer is
// an expected-one-of error that aborts the list. The closing token is
// consumed with the trailing variant so the list absorbs its own boundary.
func parseDelimited(p *parser, outer, start, separator, end syntax.Kind, f func(*parser) error) error {
	return p.node(outer, func(p *parser) error {
		if err := p.expect(start); err != nil {
			return err
		}
		for p.current() != end {
			if err := mapIncomplete(f(p)); err != nil {
				return err
			}
			if separator == syntax.EOF {
				continue
			}
			if !p.bumpIf(separator) && p.current() != end {
				err := &expectedOneOfError{wants: []syntax.Kind{end, separator}, span: p.currentSpan()}
				p.errorLeaf()
				return err
			}
		}
		p.bumpLast()
		return nil
	})
}
