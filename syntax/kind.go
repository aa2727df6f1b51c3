package syntax

// Kind identifies every lexical token and every tree node of the build
// language. Tokens and nodes share one closed enum so a lossless tree can
// hold both uniformly.
type Kind int

const (
	// EOF is a sentinel: it is never stored in a token stream or a tree.
	EOF Kind = iota

	// Punctuation
	OPENED_PARENS  // (
	CLOSED_PARENS  // )
	OPENED_BRACKET // [
	CLOSED_BRACKET // ]
	OPENED_BRACE   // {
	CLOSED_BRACE   // }
	DOT            // .
	COLON          // :
	QUESTION       // ?
	SEMICOLON      // ;
	COMMA          // ,
	TILDE          // ~

	// Operators
	PLUS            // +
	MINUS           // -
	MULTIPLY        // *
	DIVIDE          // /
	MODULO          // %
	PLUS_ASSIGN     // +=
	MINUS_ASSIGN    // -=
	MULTIPLY_ASSIGN // *=
	DIVIDE_ASSIGN   // /=
	MODULO_ASSIGN   // %=
	ASSIGN          // =
	EQUAL           // ==
	NOT_EQUAL       // !=
	LESS_THAN       // <
	LESS_EQUAL      // <=
	GREATER_THAN    // >
	GREATER_EQUAL   // >=
	SHIFT_LEFT      // <<
	SHIFT_RIGHT     // >>
	BANG            // ! (reserved, no grammar role)

	// Keywords
	AND_KW
	OR_KW
	NOT_KW
	IN_KW
	LET_KW
	IF_KW
	ELSE_KW
	FOREACH_KW
	CONTINUE_KW
	BREAK_KW
	RETURN_KW
	FN_KW
	TRUE_KW
	FALSE_KW

	// Literals
	NUMBER
	IDENTIFIER
	STRING
	MULTILINE_STRING

	// Layout
	WHITESPACE
	LINE_COMMENT
	BLOCK_COMMENT
	NEWLINE

	// ERROR marks unrecognized input from the lexer and zero-width
	// placeholder leaves emitted by the parser.
	ERROR

	// Node kinds
	ROOT
	EXPR
	PRIMARY_EXPR
	PREFIX_UNARY_OP_EXPR
	INFIX_BIN_OP_EXPR
	TUPLE_EXPR
	ARRAY_LIT_EXPR
	STR_LIT
	FUNC_CALL_EXPR
	FUNC_CALL_ARGS
	K_EXPR
	INDEXED_EXPR
	INDEXED_EXPR_BRACKETS
	EXPR_BLOCK
	ASSIGNMENT
	DECLARATION
	CONDITIONAL
	CONDITIONAL_BRANCH
	FOREACH
	CONTROL_STATEMENT
)

// IsNode reports whether the kind names an interior tree node rather than a
// lexical token.
func (k Kind) IsNode() bool {
	return k >= ROOT
}

// IsTrivia reports whether the kind is whitespace or a comment. Newlines are
// not trivia: the grammar terminates statements with them.
func (k Kind) IsTrivia() bool {
	return k == WHITESPACE || k == LINE_COMMENT || k == BLOCK_COMMENT
}

// IsMeaningful reports whether a token of this kind participates in the
// grammar, i.e. everything except trivia and newlines.
func (k Kind) IsMeaningful() bool {
	return k > EOF && k < ROOT && !k.IsTrivia() && k != NEWLINE
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case OPENED_BRACKET:
		return "OPENED_BRACKET"
	case CLOSED_BRACKET:
		return "CLOSED_BRACKET"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	case DOT:
		return "DOT"
	case COLON:
		return "COLON"
	case QUESTION:
		return "QUESTION"
	case SEMICOLON:
		return "SEMICOLON"
	case COMMA:
		return "COMMA"
	case TILDE:
		return "TILDE"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	case MODULO:
		return "MODULO"
	case PLUS_ASSIGN:
		return "PLUS_ASSIGN"
	case MINUS_ASSIGN:
		return "MINUS_ASSIGN"
	case MULTIPLY_ASSIGN:
		return "MULTIPLY_ASSIGN"
	case DIVIDE_ASSIGN:
		return "DIVIDE_ASSIGN"
	case MODULO_ASSIGN:
		return "MODULO_ASSIGN"
	case ASSIGN:
		return "ASSIGN"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case LESS_THAN:
		return "LESS_THAN"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case GREATER_THAN:
		return "GREATER_THAN"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case SHIFT_LEFT:
		return "SHIFT_LEFT"
	case SHIFT_RIGHT:
		return "SHIFT_RIGHT"
	case BANG:
		return "BANG"
	case AND_KW:
		return "AND_KW"
	case OR_KW:
		return "OR_KW"
	case NOT_KW:
		return "NOT_KW"
	case IN_KW:
		return "IN_KW"
	case LET_KW:
		return "LET_KW"
	case IF_KW:
		return "IF_KW"
	case ELSE_KW:
		return "ELSE_KW"
	case FOREACH_KW:
		return "FOREACH_KW"
	case CONTINUE_KW:
		return "CONTINUE_KW"
	case BREAK_KW:
		return "BREAK_KW"
	case RETURN_KW:
		return "RETURN_KW"
	case FN_KW:
		return "FN_KW"
	case TRUE_KW:
		return "TRUE_KW"
	case FALSE_KW:
		return "FALSE_KW"
	case NUMBER:
		return "NUMBER"
	case IDENTIFIER:
		return "IDENTIFIER"
	case STRING:
		return "STRING"
	case MULTILINE_STRING:
		return "MULTILINE_STRING"
	case WHITESPACE:
		return "WHITESPACE"
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	case NEWLINE:
		return "NEWLINE"
	case ERROR:
		return "ERROR"
	case ROOT:
		return "ROOT"
	case EXPR:
		return "EXPR"
	case PRIMARY_EXPR:
		return "PRIMARY_EXPR"
	case PREFIX_UNARY_OP_EXPR:
		return "PREFIX_UNARY_OP_EXPR"
	case INFIX_BIN_OP_EXPR:
		return "INFIX_BIN_OP_EXPR"
	case TUPLE_EXPR:
		return "TUPLE_EXPR"
	case ARRAY_LIT_EXPR:
		return "ARRAY_LIT_EXPR"
	case STR_LIT:
		return "STR_LIT"
	case FUNC_CALL_EXPR:
		return "FUNC_CALL_EXPR"
	case FUNC_CALL_ARGS:
		return "FUNC_CALL_ARGS"
	case K_EXPR:
		return "K_EXPR"
	case INDEXED_EXPR:
		return "INDEXED_EXPR"
	case INDEXED_EXPR_BRACKETS:
		return "INDEXED_EXPR_BRACKETS"
	case EXPR_BLOCK:
		return "EXPR_BLOCK"
	case ASSIGNMENT:
		return "ASSIGNMENT"
	case DECLARATION:
		return "DECLARATION"
	case CONDITIONAL:
		return "CONDITIONAL"
	case CONDITIONAL_BRANCH:
		return "CONDITIONAL_BRANCH"
	case FOREACH:
		return "FOREACH"
	case CONTROL_STATEMENT:
		return "CONTROL_STATEMENT"
	default:
		return "UNKNOWN"
	}
}

// TokenName returns the human-readable name used in diagnostics, e.g.
// "identifier" for IDENTIFIER or "+=" for PLUS_ASSIGN.
func (k Kind) TokenName() string {
	switch k {
	case EOF:
		return "end of file"
	case OPENED_PARENS:
		return "("
	case CLOSED_PARENS:
		return ")"
	case OPENED_BRACKET:
		return "["
	case CLOSED_BRACKET:
		return "]"
	case OPENED_BRACE:
		return "{"
	case CLOSED_BRACE:
		return "}"
	case DOT:
		return "."
	case COLON:
		return ":"
	case QUESTION:
		return "?"
	case SEMICOLON:
		return ";"
	case COMMA:
		return ","
	case TILDE:
		return "~"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MULTIPLY:
		return "*"
	case DIVIDE:
		return "/"
	case MODULO:
		return "%"
	case PLUS_ASSIGN:
		return "+="
	case MINUS_ASSIGN:
		return "-="
	case MULTIPLY_ASSIGN:
		return "*="
	case DIVIDE_ASSIGN:
		return "/="
	case MODULO_ASSIGN:
		return "%="
	case ASSIGN:
		return "="
	case EQUAL:
		return "=="
	case NOT_EQUAL:
		return "!="
	case LESS_THAN:
		return "<"
	case LESS_EQUAL:
		return "<="
	case GREATER_THAN:
		return ">"
	case GREATER_EQUAL:
		return ">="
	case SHIFT_LEFT:
		return "<<"
	case SHIFT_RIGHT:
		return ">>"
	case BANG:
		return "!"
	case AND_KW:
		return "and"
	case OR_KW:
		return "or"
	case NOT_KW:
		return "not"
	case IN_KW:
		return "in"
	case LET_KW:
		return "let"
	case IF_KW:
		return "if"
	case ELSE_KW:
		return "else"
	case FOREACH_KW:
		return "foreach"
	case CONTINUE_KW:
		return "continue"
	case BREAK_KW:
		return "break"
	case RETURN_KW:
		return "return"
	case FN_KW:
		return "fn"
	case TRUE_KW:
		return "true"
	case FALSE_KW:
		return "false"
	case NUMBER:
		return "number"
	case IDENTIFIER:
		return "identifier"
	case STRING:
		return "string"
	case MULTILINE_STRING:
		return "multiline string"
	case WHITESPACE:
		return "whitespace"
	case LINE_COMMENT:
		return "line comment"
	case BLOCK_COMMENT:
		return "block comment"
	case NEWLINE:
		return "newline"
	case ERROR:
		return "error"
	default:
		return k.String()
	}
}
