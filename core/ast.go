package core

import (
	"fmt"
	"strconv"
	"strings"
)

type Node interface {
	String() string
	Pos() Position
}

// Statement and Expr are closed: only the node types in this file
// implement them.
type Statement interface {
	Node
	statementNode()
}

type Expr interface {
	Node
	exprNode()
}

func blockString(stmts []Statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func exprList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

type VariableDeclaration struct {
	Type ValueType
	Name string
	// Expr is nil when the declaration has no initializer.
	Expr Expr
	tok  Token
}

func (n *VariableDeclaration) String() string {
	if n.Expr == nil {
		return fmt.Sprintf("%s %s", n.Type, n.Name)
	}
	return fmt.Sprintf("%s %s : %s", n.Type, n.Name, n.Expr)
}

func (n *VariableDeclaration) Pos() Position { return n.tok.Pos }
func (*VariableDeclaration) statementNode()  {}

type ArrayDeclaration struct {
	ElementType ValueType
	Name        string
	Elements    []Expr
	tok         Token
}

func (n *ArrayDeclaration) String() string {
	return fmt.Sprintf("array %s %s[%s]", n.ElementType, n.Name, exprList(n.Elements))
}

func (n *ArrayDeclaration) Pos() Position { return n.tok.Pos }
func (*ArrayDeclaration) statementNode()  {}

type Assignment struct {
	Name string
	Expr Expr
	tok  Token
}

func (n *Assignment) String() string {
	return fmt.Sprintf("%s : %s", n.Name, n.Expr)
}

func (n *Assignment) Pos() Position { return n.tok.Pos }
func (*Assignment) statementNode()  {}

// ArrayAssignment stores Value into Name[Index]. For "arr[i] :+ e" Op is
// PLUS (MINUS for ":-") and the element is combined with Value in place;
// Op is UNKNOWN for a plain store.
type ArrayAssignment struct {
	Name  string
	Index Expr
	Op    TokenKind
	Value Expr
	tok   Token
}

func (n *ArrayAssignment) String() string {
	if n.Op != UNKNOWN {
		return fmt.Sprintf("%s[%s] :%s %s", n.Name, n.Index, operators[n.Op], n.Value)
	}
	return fmt.Sprintf("%s[%s] : %s", n.Name, n.Index, n.Value)
}

func (n *ArrayAssignment) Pos() Position { return n.tok.Pos }
func (*ArrayAssignment) statementNode()  {}

type ElifBranch struct {
	Condition Expr
	Block     []Statement
}

type If struct {
	Condition Expr
	Then      []Statement
	Elifs     []ElifBranch
	// Else is nil when there is no else branch.
	Else []Statement
	tok  Token
}

func (n *If) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "if %s then %s", n.Condition, blockString(n.Then))
	for _, elif := range n.Elifs {
		fmt.Fprintf(&b, " else_if %s then %s", elif.Condition, blockString(elif.Block))
	}
	if n.Else != nil {
		fmt.Fprintf(&b, " else %s", blockString(n.Else))
	}
	return b.String()
}

func (n *If) Pos() Position { return n.tok.Pos }
func (*If) statementNode()  {}

type While struct {
	Condition Expr
	Body      []Statement
	tok       Token
}

func (n *While) String() string {
	return fmt.Sprintf("while %s %s", n.Condition, blockString(n.Body))
}

func (n *While) Pos() Position { return n.tok.Pos }
func (*While) statementNode()  {}

type DoWhile struct {
	Body      []Statement
	Condition Expr
	tok       Token
}

func (n *DoWhile) String() string {
	return fmt.Sprintf("do %s while %s", blockString(n.Body), n.Condition)
}

func (n *DoWhile) Pos() Position { return n.tok.Pos }
func (*DoWhile) statementNode()  {}

// For counts Variable up from its current binding to End, exclusive.
type For struct {
	Variable string
	End      Expr
	Body     []Statement
	tok      Token
}

func (n *For) String() string {
	return fmt.Sprintf("for %s to %s %s", n.Variable, n.End, blockString(n.Body))
}

func (n *For) Pos() Position { return n.tok.Pos }
func (*For) statementNode()  {}

type Output struct {
	Expr Expr
	tok  Token
}

func (n *Output) String() string {
	return fmt.Sprintf("-> %s", n.Expr)
}

func (n *Output) Pos() Position { return n.tok.Pos }
func (*Output) statementNode()  {}

// ExpressionStatement evaluates an expression for its effects and drops
// the result.
type ExpressionStatement struct {
	Expr Expr
}

func (n *ExpressionStatement) String() string { return n.Expr.String() }
func (n *ExpressionStatement) Pos() Position  { return n.Expr.Pos() }
func (*ExpressionStatement) statementNode()   {}

type BinaryOp struct {
	Left  Expr
	Op    TokenKind
	Right Expr
	tok   Token
}

func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + operators[n.Op] + " " + n.Right.String() + ")"
}

func (n *BinaryOp) Pos() Position { return n.tok.Pos }
func (*BinaryOp) exprNode()       {}

type ArrayAccess struct {
	Name  string
	Index Expr
	tok   Token
}

func (n *ArrayAccess) String() string {
	return fmt.Sprintf("%s[%s]", n.Name, n.Index)
}

func (n *ArrayAccess) Pos() Position { return n.tok.Pos }
func (*ArrayAccess) exprNode()       {}

// Increment and Decrement target a *VariableAccess or an *ArrayAccess.
type Increment struct {
	Target Expr
	tok    Token
}

func (n *Increment) String() string { return n.Target.String() + "++" }
func (n *Increment) Pos() Position  { return n.tok.Pos }
func (*Increment) exprNode()        {}

type Decrement struct {
	Target Expr
	tok    Token
}

func (n *Decrement) String() string { return n.Target.String() + "--" }
func (n *Decrement) Pos() Position  { return n.tok.Pos }
func (*Decrement) exprNode()        {}

type NumberLiteral struct {
	Value int64
	tok   Token
}

func (n *NumberLiteral) String() string { return strconv.FormatInt(n.Value, 10) }
func (n *NumberLiteral) Pos() Position  { return n.tok.Pos }
func (*NumberLiteral) exprNode()        {}

type DoubleLiteral struct {
	Value float64
	tok   Token
}

func (n *DoubleLiteral) String() string { return FloatValue(n.Value).String() }
func (n *DoubleLiteral) Pos() Position  { return n.tok.Pos }
func (*DoubleLiteral) exprNode()        {}

type StringLiteral struct {
	Value string
	tok   Token
}

func (n *StringLiteral) String() string { return strconv.Quote(n.Value) }
func (n *StringLiteral) Pos() Position  { return n.tok.Pos }
func (*StringLiteral) exprNode()        {}

type CharacterLiteral struct {
	Value rune
	tok   Token
}

func (n *CharacterLiteral) String() string { return strconv.QuoteRune(n.Value) }
func (n *CharacterLiteral) Pos() Position  { return n.tok.Pos }
func (*CharacterLiteral) exprNode()        {}

type VariableAccess struct {
	Name string
	tok  Token
}

func (n *VariableAccess) String() string { return n.Name }
func (n *VariableAccess) Pos() Position  { return n.tok.Pos }
func (*VariableAccess) exprNode()        {}

type FunctionCall struct {
	Name string
	Args []Expr
	tok  Token
}

func (n *FunctionCall) String() string {
	return fmt.Sprintf("%s(%s)", n.Name, exprList(n.Args))
}

func (n *FunctionCall) Pos() Position { return n.tok.Pos }
func (*FunctionCall) exprNode()       {}
