package annabella

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, src string) []Node {
	t.Helper()
	ts := NewTokenStream("<test>", []byte(src))
	p := NewParser(ts)
	nodes, err := p.ParseProgram()
	require.NoError(t, err)
	return nodes
}

func TestParseWithStmt(t *testing.T) {
	nodes := parseAll(t, "with Ada.Text_IO;")
	require.Len(t, nodes, 1)
	with, ok := nodes[0].(*WithStmt)
	require.True(t, ok)
	assert.Equal(t, Path{Components: []string{"Ada", "Text_IO"}}, with.Path)
}

// TestCommentSplitsTwoWithStmts is SPEC scenario S3: a trailing comment
// must not glue the statement after it to the one before.
func TestCommentSplitsTwoWithStmts(t *testing.T) {
	nodes := parseAll(t, "with X; -- trailing\nwith Y;")
	require.Len(t, nodes, 2)

	first, ok := nodes[0].(*WithStmt)
	require.True(t, ok)
	assert.Equal(t, "X", first.Path.String())

	second, ok := nodes[1].(*WithStmt)
	require.True(t, ok)
	assert.Equal(t, "Y", second.Path.String())
}

// TestAssignmentVsExprStmt is SPEC scenario S4.
func TestAssignmentVsExprStmt(t *testing.T) {
	nodes := parseAll(t, "Foo.Bar := 1;")
	require.Len(t, nodes, 1)
	assign, ok := nodes[0].(*AssignmentStmt)
	require.True(t, ok)
	target, ok := assign.Target.(*Path)
	require.True(t, ok)
	assert.Equal(t, "Foo.Bar", target.String())
	num, ok := assign.Value.(*NumberLit)
	require.True(t, ok)
	assert.Equal(t, "1", num.Text)

	nodes = parseAll(t, "Foo.Bar(1);")
	require.Len(t, nodes, 1)
	exprStmt, ok := nodes[0].(*ExprStmt)
	require.True(t, ok)
	call, ok := exprStmt.Expr.(*CallExpr)
	require.True(t, ok)
	callee, ok := call.Callee.(*Path)
	require.True(t, ok)
	assert.Equal(t, "Foo.Bar", callee.String())
	require.Len(t, call.Args, 1)
}

// TestBareNameGetsSuffixWrapped confirms SuffixExpr wrapping applies only
// to a bare Path in non-call position, never to a literal (SPEC §4.3, S4).
func TestBareNameGetsSuffixWrapped(t *testing.T) {
	nodes := parseAll(t, "Foo.Bar := Baz;")
	assign := nodes[0].(*AssignmentStmt)
	suffix, ok := assign.Value.(*SuffixExpr)
	require.True(t, ok)
	_, ok = suffix.Inner.(*Path)
	assert.True(t, ok)

	nodes = parseAll(t, "Foo.Bar := 1;")
	assign = nodes[0].(*AssignmentStmt)
	_, ok = assign.Value.(*NumberLit)
	assert.True(t, ok, "a literal must not be wrapped in SuffixExpr")
}

// TestComparisonOperators is SPEC scenario S5.
func TestComparisonOperators(t *testing.T) {
	cases := []struct {
		src string
		op  CmpOp
	}{
		{"A /= B;", CmpNotEqual},
		{"A <= B;", CmpLessOrEqual},
		{"A >= B;", CmpGreaterOrEqual},
		{"A < B;", CmpLess},
		{"A > B;", CmpGreater},
		{"A = B;", CmpEqual},
	}
	for _, c := range cases {
		nodes := parseAll(t, "Foo.Bar := "+c.src)
		assign := nodes[0].(*AssignmentStmt)
		cmp, ok := assign.Value.(*CmpExpr)
		require.True(t, ok, c.src)
		assert.Equal(t, c.op, cmp.Op, c.src)
	}
}

// TestSpacedComparisonIsAParseError: "A < = B" with a space must fail at
// the stray '=' rather than being folded into "<=" (SPEC S5).
func TestSpacedComparisonIsAParseError(t *testing.T) {
	ts := NewTokenStream("<test>", []byte("Foo.Bar := A < = B;"))
	p := NewParser(ts)
	_, err := p.ParseProgram()
	assert.Error(t, err)
}

// TestEndNameMismatch is SPEC scenario S6.
func TestEndNameMismatch(t *testing.T) {
	ts := NewTokenStream("<test>", []byte("procedure P is begin end Q;"))
	p := NewParser(ts)
	_, err := p.ParseProgram()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P")
	assert.Contains(t, err.Error(), "Q")
}

// TestIfElsifElseTerminal checks that only the node consuming the chain's
// closing `end if;` is marked Terminal (SPEC §4.2/§4.5/§9).
func TestIfElsifElseTerminal(t *testing.T) {
	nodes := parseAll(t, `if A then
Foo.Bar := 1;
elsif B then
Foo.Bar := 2;
else
Foo.Bar := 3;
end if;`)
	require.Len(t, nodes, 3)

	ifStmt, ok := nodes[0].(*IfStmt)
	require.True(t, ok)
	assert.False(t, ifStmt.Terminal)

	elsif, ok := nodes[1].(*ElsifStmt)
	require.True(t, ok)
	assert.False(t, elsif.Terminal)

	elseStmt, ok := nodes[2].(*ElseStmt)
	require.True(t, ok)
	assert.True(t, elseStmt.Terminal)
}

// TestBareIfIsSelfTerminal: an If with no Elsif/Else peer consumes its own
// `end if;` and must be marked Terminal.
func TestBareIfIsSelfTerminal(t *testing.T) {
	nodes := parseAll(t, "if A then\nFoo.Bar := 1;\nend if;")
	require.Len(t, nodes, 1)
	ifStmt, ok := nodes[0].(*IfStmt)
	require.True(t, ok)
	assert.True(t, ifStmt.Terminal)
}

func TestParseFunctionStmt(t *testing.T) {
	nodes := parseAll(t, `function Add (X : Integer, Y : Integer) return Integer is
begin
return X;
end Add;`)
	require.Len(t, nodes, 1)
	fn, ok := nodes[0].(*FunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "Add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "X", fn.Params[0].Name)
	assert.Equal(t, "Integer", fn.Params[0].Type.String())
	assert.Equal(t, "Integer", fn.ReturnType.String())
	require.Len(t, fn.Body, 1)
	_, ok = fn.Body[0].(*ReturnStmt)
	assert.True(t, ok)
}

func TestMangledName(t *testing.T) {
	p := Path{Components: []string{"Ada", "Text_IO"}}
	assert.Equal(t, "Ada__Text_IO", p.MangledName())
}
