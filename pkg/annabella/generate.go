package annabella

import (
	"fmt"
	"strconv"
	"strings"
)

// Generate walks a top-level statement list and emits C into ctx (SPEC
// §4.3, §4.6). Top-level statements flush into ctx.init, which Finalize
// later wraps in a synthesized main if non-empty.
func Generate(ctx *Context, nodes []Node) error {
	return generateStmts(ctx, &ctx.init, nodes)
}

// generateStmts runs generateStmt over a statement list in source order,
// stopping at the first error.
func generateStmts(ctx *Context, dest *strings.Builder, nodes []Node) error {
	for _, n := range nodes {
		if err := generateStmt(ctx, dest, n); err != nil {
			return err
		}
	}
	return nil
}

// generateStmt dispatches on the closed Node set (the AST is a tagged
// variant; this type switch is its one visitor, per SPEC §9). dest is the
// buffer that receives whatever this statement flushes: ctx.init at
// top level or inside a package body, or a function/procedure/if body's
// own local accumulator otherwise.
func generateStmt(ctx *Context, dest *strings.Builder, n Node) error {
	switch n := n.(type) {
	case *WithStmt:
		return generateWith(ctx, dest, n)
	case *PackageStmt:
		return generatePackage(ctx, dest, n)
	case *FunctionStmt:
		return generateFunction(ctx, dest, n)
	case *ProcedureStmt:
		return generateProcedure(ctx, dest, n)
	case *AssignmentStmt:
		return generateAssignment(ctx, dest, n)
	case *ExprStmt:
		return generateExprStmt(ctx, dest, n)
	case *ReturnStmt:
		return generateReturn(ctx, dest, n)
	case *IfStmt:
		return generateIf(ctx, dest, n)
	case *ElsifStmt:
		return generateElsif(ctx, dest, n)
	case *ElseStmt:
		return generateElse(ctx, dest, n)
	case *VarDecl:
		return generateVarDecl(ctx, dest, n)
	default:
		return errorf(Location{}, "generate: unsupported statement shape %T", n)
	}
}

// generateExpr dispatches on the expression-shaped subset of Node and
// returns the C fragment it emits. Expression generation is purely
// textual: it never touches dest, only ctx for nested declarations a
// generator might need to register (none currently do).
func generateExpr(ctx *Context, n Node) (string, error) {
	switch n := n.(type) {
	case *Path:
		return generatePath(n), nil
	case *CallExpr:
		return generateCall(ctx, n)
	case *CmpExpr:
		return generateCmp(ctx, n)
	case *SuffixExpr:
		return generateSuffix(ctx, n)
	case *NumberLit:
		return fmt.Sprintf("integer_value(%q)", n.Text), nil
	case *StringLit:
		return fmt.Sprintf("string_value(%q)", n.Text), nil
	default:
		return "", errorf(Location{}, "generate: unsupported expression shape %T", n)
	}
}

// flushTo moves ctx's value buffer into dest, implementing the "statement
// flushes its own value" convention decided for the buffer-discipline open
// question (SPEC §9).
func flushTo(ctx *Context, dest *strings.Builder) {
	dest.WriteString(ctx.takeValue())
}

func generateWith(ctx *Context, dest *strings.Builder, n *WithStmt) error {
	mangled := n.Path.MangledName()
	ctx.emitFunctions("extern package_t *_package_%s_init();\n", mangled)
	ctx.emitValue("scope_insert_package(scope, _package_%s_init());\n", mangled)
	flushTo(ctx, dest)
	return nil
}

// generatePackage emits the package-init state machine to ctx.functions
// (SPEC §4.3, §10.7): a static package_t with a three-state guard that
// returns early once initialized and reports a distinguishable fatal error
// on re-entrant (circular) initialization.
func generatePackage(ctx *Context, dest *strings.Builder, n *PackageStmt) error {
	mangled := n.Name.MangledName()

	saved := ctx.pushInit()
	if err := generateStmts(ctx, &ctx.init, n.Body); err != nil {
		return err
	}
	body := ctx.popInit(saved)

	ctx.emitFunctions(`package_t *_package_%[1]s_init() {
  static package_t pkg;
  switch (pkg.state) {
  case PACKAGE_STATE_INITIALIZED:
    return &pkg;
  case PACKAGE_STATE_INITIALIZING:
    package_already_initializing(%[2]q);
  case PACKAGE_STATE_UNINITIALIZED:
    break;
  }
  pkg.state = PACKAGE_STATE_INITIALIZING;
  pkg.name = %[2]q;
  scope_t *scope = package_scope_init();
%[3]s  pkg.scope = scope;
  pkg.state = PACKAGE_STATE_INITIALIZED;
  return &pkg;
}

`, mangled, n.Name.String(), body)
	return nil
}

// generateFunction emits a static function implementing __name (SPEC
// §4.3). Params and locals share var-decl emission; the body runs into a
// fresh accumulator rather than ctx.init. The function value is always
// constructed with argc=0 regardless of declared parameter count — this
// preserves the generator's own long-standing behavior rather than fixing
// it (SPEC §9 open question).
func generateFunction(ctx *Context, dest *strings.Builder, n *FunctionStmt) error {
	var body strings.Builder
	for i := range n.Params {
		if err := generateVarDecl(ctx, &body, &n.Params[i]); err != nil {
			return err
		}
	}
	for i := range n.Locals {
		if err := generateVarDecl(ctx, &body, &n.Locals[i]); err != nil {
			return err
		}
	}
	if err := generateStmts(ctx, &body, n.Body); err != nil {
		return err
	}

	ctx.emitFunctions(`static value_t *__%[1]s(scope_t *parent_scope, va_list args) {
  scope_t *scope = scope_open(parent_scope);
  value_t *return_value = NULL;
%[2]sreturn_stmt:
  scope_drop(scope);
  return return_value;
}

`, n.Name, body.String())

	ctx.emitValue("scope_insert_value(scope, %q, function_value(__%s, 0));\n", n.Name, n.Name)
	flushTo(ctx, dest)
	return nil
}

// generateProcedure is generateFunction's sibling with no return slot
// exposed (SPEC §4.3).
func generateProcedure(ctx *Context, dest *strings.Builder, n *ProcedureStmt) error {
	var body strings.Builder
	for i := range n.Locals {
		if err := generateVarDecl(ctx, &body, &n.Locals[i]); err != nil {
			return err
		}
	}
	if err := generateStmts(ctx, &body, n.Body); err != nil {
		return err
	}

	ctx.emitFunctions(`static value_t *__%[1]s(scope_t *parent_scope, va_list args) {
  scope_t *scope = scope_open(parent_scope);
%[2]sreturn_stmt:
  scope_drop(scope);
  return NULL;
}

`, n.Name, body.String())

	ctx.emitValue("scope_insert_value(scope, %q, function_value(__%s, 0));\n", n.Name, n.Name)
	flushTo(ctx, dest)
	return nil
}

func generateAssignment(ctx *Context, dest *strings.Builder, n *AssignmentStmt) error {
	target, err := generateExpr(ctx, n.Target)
	if err != nil {
		return err
	}
	value, err := generateExpr(ctx, n.Value)
	if err != nil {
		return err
	}
	ctx.emitValue("value_assign(%s, %s);\n", target, value)
	flushTo(ctx, dest)
	return nil
}

func generateExprStmt(ctx *Context, dest *strings.Builder, n *ExprStmt) error {
	expr, err := generateExpr(ctx, n.Expr)
	if err != nil {
		return err
	}
	ctx.emitValue("value_drop(%s);\n", expr)
	flushTo(ctx, dest)
	return nil
}

func generateReturn(ctx *Context, dest *strings.Builder, n *ReturnStmt) error {
	expr, err := generateExpr(ctx, n.Expr)
	if err != nil {
		return err
	}
	ctx.emitValue("return_value = %s; goto return_stmt;\n", expr)
	flushTo(ctx, dest)
	return nil
}

// generateIf/generateElsif/generateElse rely on source-order adjacency
// (SPEC §4.5): each opens or continues a C brace and only the node that
// consumed the chain's closing `end if;` (Terminal) emits the matching
// close. A reader of the generated C sees a single if/else-if/else chain
// regardless of how the AST splits it across peer nodes.
func generateIf(ctx *Context, dest *strings.Builder, n *IfStmt) error {
	cond, err := generateExpr(ctx, n.Cond)
	if err != nil {
		return err
	}
	ctx.emitValue("if (value_to_bool(%s)) {\n", cond)
	flushTo(ctx, dest)
	if err := generateStmts(ctx, dest, n.Body); err != nil {
		return err
	}
	if n.Terminal {
		dest.WriteString("}\n")
	}
	return nil
}

func generateElsif(ctx *Context, dest *strings.Builder, n *ElsifStmt) error {
	cond, err := generateExpr(ctx, n.Cond)
	if err != nil {
		return err
	}
	ctx.emitValue("} else if (value_to_bool(%s)) {\n", cond)
	flushTo(ctx, dest)
	if err := generateStmts(ctx, dest, n.Body); err != nil {
		return err
	}
	if n.Terminal {
		dest.WriteString("}\n")
	}
	return nil
}

func generateElse(ctx *Context, dest *strings.Builder, n *ElseStmt) error {
	ctx.emitValue("} else {\n")
	flushTo(ctx, dest)
	if err := generateStmts(ctx, dest, n.Body); err != nil {
		return err
	}
	if n.Terminal {
		dest.WriteString("}\n")
	}
	return nil
}

func generateVarDecl(ctx *Context, dest *strings.Builder, n *VarDecl) error {
	ctx.emitValue("scope_insert_value(scope, %q, value_default(%s));\n", n.Name, generatePath(&n.Type))
	flushTo(ctx, dest)
	return nil
}

// generatePath emits the left-associative scope/value access chain (SPEC
// §4.3): `value_get(...value_get(scope_get(scope, "c0"), "c1")..., "cn")`.
func generatePath(p *Path) string {
	expr := fmt.Sprintf("scope_get(scope, %q)", p.Components[0])
	for _, c := range p.Components[1:] {
		expr = fmt.Sprintf("value_get(%s, %q)", expr, c)
	}
	return expr
}

func generateCall(ctx *Context, n *CallExpr) (string, error) {
	callee, err := generateExpr(ctx, n.Callee)
	if err != nil {
		return "", err
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		s, err := generateExpr(ctx, a)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	parts := append([]string{callee, "scope", strconv.Itoa(len(args))}, args...)
	return fmt.Sprintf("value_call(%s)", strings.Join(parts, ", ")), nil
}

// cmpOpTag maps a CmpOp to the runtime's enumerated comparison constant
// (SPEC §4.3, §6.3).
var cmpOpTag = [...]string{
	CmpEqual:          "CMP_OP_EQ",
	CmpNotEqual:       "CMP_OP_NE",
	CmpLess:           "CMP_OP_LT",
	CmpLessOrEqual:    "CMP_OP_LE",
	CmpGreater:        "CMP_OP_GT",
	CmpGreaterOrEqual: "CMP_OP_GE",
}

func generateCmp(ctx *Context, n *CmpExpr) (string, error) {
	lhs, err := generateExpr(ctx, n.Lhs)
	if err != nil {
		return "", err
	}
	rhs, err := generateExpr(ctx, n.Rhs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("value_cmp(%s, %s, %s)", lhs, cmpOpTag[n.Op], rhs), nil
}

// generateSuffix defers the "bare name might be a zero-arg call" coercion
// to the runtime (SPEC §4.3): a plain identifier standing alone in
// expression position is effectively a call.
func generateSuffix(ctx *Context, n *SuffixExpr) (string, error) {
	inner, err := generateExpr(ctx, n.Inner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("value_to_value(%s, scope)", inner), nil
}
