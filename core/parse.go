package core

import (
	"strconv"
	"strings"
)

type parser struct {
	tokens []Token
	index  int
}

func newParser(tokens []Token) *parser {
	return &parser{
		tokens: tokens,
		index:  0,
	}
}

func (p *parser) isEOF() bool {
	return p.index >= len(p.tokens)
}

func (p *parser) eofToken() Token {
	if len(p.tokens) == 0 {
		return Token{Kind: EOF, Pos: Position{Line: 1, Col: 1}}
	}
	last := p.tokens[len(p.tokens)-1]
	return Token{Kind: EOF, Pos: last.Pos}
}

// peek looks at the current token without consuming it.
func (p *parser) peek() Token {
	return p.peekAhead(0)
}

func (p *parser) peekAhead(n int) Token {
	if p.index+n >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.index+n]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.index < len(p.tokens) {
		p.index++
	}
	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	next := p.next()
	if next.Kind != kind {
		return next, &SyntaxError{
			Expected: kind,
			Actual:   next.Kind,
			Pos:      next.Pos,
		}
	}
	return next, nil
}

func (p *parser) fail(tok Token, reason string) error {
	return &SyntaxError{
		Actual: tok.Kind,
		Reason: reason,
		Pos:    tok.Pos,
	}
}

func (p *parser) parse() ([]Statement, error) {
	stmts := []Statement{}

	for !p.isEOF() {
		parsed, err := p.parseStatement()
		if err != nil {
			return stmts, err
		}
		stmts = append(stmts, parsed...)
	}

	return stmts, nil
}

// parseStatement returns the statements starting at the current token.
// Tokens that cannot start a statement are dropped, and a stray indented
// block is returned inline.
func (p *parser) parseStatement() ([]Statement, error) {
	var stmt Statement
	var err error

	switch kind := p.peek().Kind; {
	case kind == IF:
		stmt, err = p.parseIf()
	case kind == FOR:
		stmt, err = p.parseFor()
	case kind == WHILE:
		stmt, err = p.parseWhile()
	case kind == DO:
		stmt, err = p.parseDoWhile()
	case kind.IsTypeKeyword():
		stmt, err = p.parseDeclaration()
	case kind == ARRAY:
		stmt, err = p.parseArrayDeclaration()
	case kind == OUTPUT:
		stmt, err = p.parseOutput()
	case kind == IDENTIFIER:
		stmt, err = p.parseIdentifierStatement()
	case kind == INDENT:
		return p.parseBlock()
	default:
		p.next()
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return []Statement{stmt}, nil
}

func (p *parser) parseBlock() ([]Statement, error) {
	if _, err := p.expect(INDENT); err != nil {
		return nil, err
	}

	stmts := []Statement{}
	for !p.isEOF() && p.peek().Kind != DEDENT {
		parsed, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, parsed...)
	}

	if _, err := p.expect(DEDENT); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseDeclaration() (Statement, error) {
	typeTok := p.next()
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}

	node := &VariableDeclaration{
		Type: typeOfKeyword(typeTok.Kind),
		Name: name.Lexeme,
		tok:  typeTok,
	}

	if p.peek().Kind == COLON {
		p.next()
		if node.Expr, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// array integer name[1, 2, 3]
func (p *parser) parseArrayDeclaration() (Statement, error) {
	tok := p.next()

	typeTok := p.next()
	if !typeTok.Kind.IsTypeKeyword() {
		return nil, p.fail(typeTok, "expected element type after array")
	}

	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LEFT_BRACKET); err != nil {
		return nil, err
	}

	elements, err := p.parseExprList(RIGHT_BRACKET)
	if err != nil {
		return nil, err
	}

	return &ArrayDeclaration{
		ElementType: typeOfKeyword(typeTok.Kind),
		Name:        name.Lexeme,
		Elements:    elements,
		tok:         tok,
	}, nil
}

// parseExprList reads comma separated expressions up to and including the
// closing token.
func (p *parser) parseExprList(closing TokenKind) ([]Expr, error) {
	exprs := []Expr{}
	if p.peek().Kind == closing {
		p.next()
		return exprs, nil
	}

	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		if p.peek().Kind != COMMA {
			break
		}
		p.next()
	}

	if _, err := p.expect(closing); err != nil {
		return nil, err
	}
	return exprs, nil
}

func (p *parser) parseOutput() (Statement, error) {
	tok := p.next()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Output{Expr: expr, tok: tok}, nil
}

// parseIdentifierStatement handles assignment, compound assignment, array
// element assignment, and bare expressions that start with a name.
func (p *parser) parseIdentifierStatement() (Statement, error) {
	tok := p.peek()

	switch p.peekAhead(1).Kind {
	case COLON:
		p.next()
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &Assignment{Name: tok.Lexeme, Expr: expr, tok: tok}, nil
	case PLUS_EQUAL, MINUS_EQUAL:
		p.next()
		opTok := p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &Assignment{
			Name: tok.Lexeme,
			Expr: compound(opTok, &VariableAccess{Name: tok.Lexeme, tok: tok}, expr),
			tok:  tok,
		}, nil
	}

	target, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if access, ok := target.(*ArrayAccess); ok {
		switch p.peek().Kind {
		case COLON:
			p.next()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ArrayAssignment{Name: access.Name, Index: access.Index, Value: value, tok: tok}, nil
		case PLUS_EQUAL, MINUS_EQUAL:
			opTok := p.next()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ArrayAssignment{
				Name:  access.Name,
				Index: access.Index,
				Op:    compoundOp(opTok),
				Value: value,
				tok:   tok,
			}, nil
		}
	}

	expr, err := p.parseBinary(target)
	if err != nil {
		return nil, err
	}
	return &ExpressionStatement{Expr: expr}, nil
}

// compound rewrites "x :+ e" as "x + e".
func compound(opTok Token, left Expr, right Expr) Expr {
	return &BinaryOp{Left: left, Op: compoundOp(opTok), Right: right, tok: opTok}
}

func compoundOp(opTok Token) TokenKind {
	if opTok.Kind == MINUS_EQUAL {
		return MINUS
	}
	return PLUS
}

// if cond then <block> (else_if cond then <block>)* (else [then] <block>)?
func (p *parser) parseIf() (Statement, error) {
	tok := p.next()

	cond, then, err := p.parseGuardedBlock()
	if err != nil {
		return nil, err
	}
	node := &If{Condition: cond, Then: then, tok: tok}

	for p.peek().Kind == ELSE_IF {
		p.next()
		cond, block, err := p.parseGuardedBlock()
		if err != nil {
			return nil, err
		}
		node.Elifs = append(node.Elifs, ElifBranch{Condition: cond, Block: block})
	}

	if p.peek().Kind == ELSE {
		p.next()
		if p.peek().Kind == THEN {
			p.next()
		}
		if node.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (p *parser) parseGuardedBlock() (Expr, []Statement, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(THEN); err != nil {
		return nil, nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, nil, err
	}
	return cond, block, nil
}

// for name to end <block>
func (p *parser) parseFor() (Statement, error) {
	tok := p.next()

	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TO); err != nil {
		return nil, err
	}

	end, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &For{Variable: name.Lexeme, End: end, Body: body, tok: tok}, nil
}

func (p *parser) parseWhile() (Statement, error) {
	tok := p.next()

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &While{Condition: cond, Body: body, tok: tok}, nil
}

// do <block> while cond
func (p *parser) parseDoWhile() (Statement, error) {
	tok := p.next()

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(WHILE); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &DoWhile{Body: body, Condition: cond, tok: tok}, nil
}

func isBinaryOperator(kind TokenKind) bool {
	switch kind {
	case PLUS, MINUS, MULTIPLY, DIVIDE,
		EQUAL, NOT_EQUAL, LESS, GREATER, LESS_EQUAL, GREATER_EQUAL,
		AND, OR:
		return true
	}
	return false
}

// parseExpression reads a primary followed by any number of binary
// operators. There are no precedence levels: a + b * c is (a + b) * c.
func (p *parser) parseExpression() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinary(left)
}

func (p *parser) parseBinary(left Expr) (Expr, error) {
	for isBinaryOperator(p.peek().Kind) {
		opTok := p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: opTok.Kind, Right: right, tok: opTok}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()

	switch tok.Kind {
	case NUMBER:
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.fail(tok, "integer literal out of range")
		}
		return &NumberLiteral{Value: n, tok: tok}, nil
	case FLOAT_LITERAL:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.fail(tok, "malformed double literal")
		}
		return &DoubleLiteral{Value: f, tok: tok}, nil
	case STRING_LITERAL:
		value := strings.TrimSuffix(strings.TrimPrefix(tok.Lexeme, `"`), `"`)
		return &StringLiteral{Value: value, tok: tok}, nil
	case CHARACTER_LITERAL:
		runes := []rune(tok.Lexeme)
		return &CharacterLiteral{Value: runes[1], tok: tok}, nil
	case LEFT_PAREN:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RIGHT_PAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case IDENTIFIER:
		return p.parseName(tok)
	}

	return nil, p.fail(tok, "expected expression")
}

// parseName reads the suffixes that may follow a name: a call, an index,
// and a postfix ++ or --.
func (p *parser) parseName(tok Token) (Expr, error) {
	var node Expr = &VariableAccess{Name: tok.Lexeme, tok: tok}

	switch p.peek().Kind {
	case LEFT_PAREN:
		p.next()
		args, err := p.parseExprList(RIGHT_PAREN)
		if err != nil {
			return nil, err
		}
		return &FunctionCall{Name: tok.Lexeme, Args: args, tok: tok}, nil
	case LEFT_BRACKET:
		p.next()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RIGHT_BRACKET); err != nil {
			return nil, err
		}
		node = &ArrayAccess{Name: tok.Lexeme, Index: index, tok: tok}
	}

	switch p.peek().Kind {
	case INCREMENT:
		return &Increment{Target: node, tok: p.next()}, nil
	case DECREMENT:
		return &Decrement{Target: node, tok: p.next()}, nil
	}

	return node, nil
}
