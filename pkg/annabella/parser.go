package annabella

// Parser drives a TokenStream through the grammar in SPEC §4.2. Its two
// idioms mirror the token stream's own contract: next/peek silently skip
// Whitespace tokens (the lexer never does, by design, see lexer.go), and
// speculative productions clone the underlying stream, try a production on
// the clone, and commit by assigning the clone back only on success.
type Parser struct {
	ts TokenStream
}

// NewParser builds a parser over an already-constructed token stream.
func NewParser(ts TokenStream) *Parser {
	return &Parser{ts: ts}
}

// peek returns the next non-whitespace token without consuming it.
func (p *Parser) peek() (Token, error) {
	clone := p.ts
	return nextSignificant(&clone)
}

// next returns and consumes the next non-whitespace token.
func (p *Parser) next() (Token, error) {
	clone := p.ts
	tok, err := nextSignificant(&clone)
	if err != nil {
		return Token{}, err
	}
	p.ts = clone
	return tok, nil
}

func nextSignificant(ts *TokenStream) (Token, error) {
	for {
		tok, err := ts.Next()
		if err != nil {
			return Token{}, err
		}
		if tok.Type != TokenWhitespace {
			return tok, nil
		}
	}
}

// expectPunct consumes the next token and fails unless it is the given
// punctuation byte.
func (p *Parser) expectPunct(b byte) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.Type != TokenPunct || tok.Byte != b {
		return unexpectedToken(tok, string(rune(b)))
	}
	return nil
}

// expectKeyword consumes the next token and fails unless it is the given keyword.
func (p *Parser) expectKeyword(k Keyword) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.Type != TokenKeyword || tok.Keyword != k {
		return unexpectedToken(tok, "keyword `"+k.String()+"`")
	}
	return nil
}

// expectIdent consumes the next token and fails unless it is a plain identifier.
func (p *Parser) expectIdent() (string, error) {
	tok, err := p.next()
	if err != nil {
		return "", err
	}
	if tok.Type != TokenIdent {
		return "", unexpectedToken(tok, "identifier")
	}
	return tok.Text, nil
}

// checkPunct reports whether the next token is the given punctuation byte,
// without consuming anything.
func (p *Parser) checkPunct(b byte) (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	return tok.Type == TokenPunct && tok.Byte == b, nil
}

// checkKeyword reports whether the next token is the given keyword,
// without consuming anything.
func (p *Parser) checkKeyword(k Keyword) (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	return tok.Type == TokenKeyword && tok.Keyword == k, nil
}

// consumeIfPunct consumes the next token iff it is the given punctuation
// byte, reporting whether it did.
func (p *Parser) consumeIfPunct(b byte) (bool, error) {
	ok, err := p.checkPunct(b)
	if err != nil || !ok {
		return false, err
	}
	_, err = p.next()
	return true, err
}

// consumeIfKeyword consumes the next token iff it is the given keyword,
// reporting whether it did.
func (p *Parser) consumeIfKeyword(k Keyword) (bool, error) {
	ok, err := p.checkKeyword(k)
	if err != nil || !ok {
		return false, err
	}
	_, err = p.next()
	return true, err
}

// AtEnd reports whether the stream has been fully consumed.
func (p *Parser) AtEnd() (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	return tok.isEnd(), nil
}

// ParseProgram parses `stmt*` until end of input (SPEC §4.2 `program`).
func (p *Parser) ParseProgram() ([]Node, error) {
	var nodes []Node
	for {
		atEnd, err := p.AtEnd()
		if err != nil {
			return nil, err
		}
		if atEnd {
			return nodes, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, stmt)
	}
}

// parseStmt parses `stmt := keyword_stmt | assignment_or_expr_stmt`.
func (p *Parser) parseStmt() (Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword {
		switch tok.Keyword {
		case KeywordWith:
			return p.parseWithStmt()
		case KeywordPackage:
			return p.parsePackageStmt()
		case KeywordFunction:
			return p.parseFunctionStmt()
		case KeywordProcedure:
			return p.parseProcedureStmt()
		case KeywordReturn:
			return p.parseReturnStmt()
		case KeywordIf:
			return p.parseIfStmt()
		case KeywordElsif:
			return p.parseElsifStmt()
		case KeywordElse:
			return p.parseElseStmt()
		default:
			return nil, unexpectedToken(tok, "statement")
		}
	}
	return p.parseAssignmentOrExprStmt()
}

// parseStmtList parses `stmt*` until one of the given terminator keywords
// is the next significant token (peeked, not consumed).
func (p *Parser) parseStmtList(terminators ...Keyword) ([]Node, error) {
	var nodes []Node
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenKeyword {
			for _, term := range terminators {
				if tok.Keyword == term {
					return nodes, nil
				}
			}
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, stmt)
	}
}

// parsePath parses `path := IDENT ( '.' IDENT )*`.
func (p *Parser) parsePath() (Path, error) {
	first, err := p.expectIdent()
	if err != nil {
		return Path{}, err
	}
	comps := []string{first}
	for {
		hasDot, err := p.consumeIfPunct('.')
		if err != nil {
			return Path{}, err
		}
		if !hasDot {
			return Path{Components: comps}, nil
		}
		next, err := p.expectIdent()
		if err != nil {
			return Path{}, err
		}
		comps = append(comps, next)
	}
}

// parseWithStmt parses `'with' path ';'`.
func (p *Parser) parseWithStmt() (Node, error) {
	if err := p.expectKeyword(KeywordWith); err != nil {
		return nil, err
	}
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(';'); err != nil {
		return nil, err
	}
	return &WithStmt{Path: path}, nil
}

// expectEndName consumes `'end' path ';'` (a single IDENT for functions and
// procedures, a dotted path for packages) and fails unless the trailing
// name matches opened verbatim (SPEC §4.2 trailing-name-must-match policy,
// testable property 4).
func (p *Parser) expectEndName(opened string, loc Location) error {
	if err := p.expectKeyword(KeywordEnd); err != nil {
		return err
	}
	closing, err := p.parsePath()
	if err != nil {
		return err
	}
	if closing.String() != opened {
		return errorf(loc, "mismatched end name: opened `%s`, closed `%s`", opened, closing)
	}
	return p.expectPunct(';')
}

// parsePackageStmt parses `'package' 'body' path 'is' stmt* 'end' path ';'`.
func (p *Parser) parsePackageStmt() (Node, error) {
	loc, err := p.headLoc()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordPackage); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordBody); err != nil {
		return nil, err
	}
	name, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordIs); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(KeywordEnd)
	if err != nil {
		return nil, err
	}
	if err := p.expectEndName(name.String(), loc); err != nil {
		return nil, err
	}
	return &PackageStmt{Name: name, Body: body}, nil
}

func (p *Parser) headLoc() (Location, error) {
	tok, err := p.peek()
	if err != nil {
		return Location{}, err
	}
	return tok.Loc, nil
}

// parseVarDecl parses a single `name : type` declaration, used for
// parameters and for semicolon-terminated local declarations.
func (p *Parser) parseVarDecl() (VarDecl, error) {
	name, err := p.expectIdent()
	if err != nil {
		return VarDecl{}, err
	}
	if err := p.expectPunct(':'); err != nil {
		return VarDecl{}, err
	}
	typ, err := p.parsePath()
	if err != nil {
		return VarDecl{}, err
	}
	return VarDecl{Name: name, Type: typ}, nil
}

// parseParamList parses `'(' var_decl (',' var_decl)* ')'`.
func (p *Parser) parseParamList() ([]VarDecl, error) {
	if err := p.expectPunct('('); err != nil {
		return nil, err
	}
	var params []VarDecl
	closed, err := p.consumeIfPunct(')')
	if err != nil {
		return nil, err
	}
	if closed {
		return params, nil
	}
	for {
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		params = append(params, decl)
		comma, err := p.consumeIfPunct(',')
		if err != nil {
			return nil, err
		}
		if !comma {
			break
		}
	}
	if err := p.expectPunct(')'); err != nil {
		return nil, err
	}
	return params, nil
}

// parseLocals parses `var_decl_semi*`: zero or more `name : type ;`
// declarations, stopping at `begin`.
func (p *Parser) parseLocals() ([]VarDecl, error) {
	var locals []VarDecl
	for {
		isBegin, err := p.checkKeyword(KeywordBegin)
		if err != nil {
			return nil, err
		}
		if isBegin {
			return locals, nil
		}
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(';'); err != nil {
			return nil, err
		}
		locals = append(locals, decl)
	}
}

// parseFunctionStmt parses:
//
//	'function' IDENT [ '(' var_decl (',' var_decl)* ')' ]
//	  'return' path 'is' var_decl_semi* 'begin' stmt* 'end' IDENT ';'
func (p *Parser) parseFunctionStmt() (Node, error) {
	loc, err := p.headLoc()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordFunction); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var params []VarDecl
	hasParams, err := p.checkPunct('(')
	if err != nil {
		return nil, err
	}
	if hasParams {
		params, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword(KeywordReturn); err != nil {
		return nil, err
	}
	returnType, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordIs); err != nil {
		return nil, err
	}
	locals, err := p.parseLocals()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordBegin); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(KeywordEnd)
	if err != nil {
		return nil, err
	}
	if err := p.expectEndName(name, loc); err != nil {
		return nil, err
	}
	return &FunctionStmt{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Locals:     locals,
		Body:       body,
	}, nil
}

// parseProcedureStmt parses `'procedure' IDENT 'is' var_decl_semi* 'begin' stmt* 'end' IDENT ';'`.
func (p *Parser) parseProcedureStmt() (Node, error) {
	loc, err := p.headLoc()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordProcedure); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordIs); err != nil {
		return nil, err
	}
	locals, err := p.parseLocals()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordBegin); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(KeywordEnd)
	if err != nil {
		return nil, err
	}
	if err := p.expectEndName(name, loc); err != nil {
		return nil, err
	}
	return &ProcedureStmt{Name: name, Locals: locals, Body: body}, nil
}

// parseReturnStmt parses `'return' expr ';'`.
func (p *Parser) parseReturnStmt() (Node, error) {
	if err := p.expectKeyword(KeywordReturn); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(';'); err != nil {
		return nil, err
	}
	return &ReturnStmt{Expr: expr}, nil
}

// parseIfStmt parses `'if' expr 'then' stmt* 'end' 'if' ';'`. It consumes
// the closing `end if;` itself only when no Elsif/Else follows; Elsif/Else
// are parsed separately as peer statements (SPEC §4.2, §9).
func (p *Parser) parseIfStmt() (Node, error) {
	if err := p.expectKeyword(KeywordIf); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordThen); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(KeywordEnd, KeywordElsif, KeywordElse)
	if err != nil {
		return nil, err
	}
	terminal, err := p.consumeTrailingEndIf()
	if err != nil {
		return nil, err
	}
	return &IfStmt{Cond: cond, Body: body, Terminal: terminal}, nil
}

// parseElsifStmt parses `'elsif' expr 'then' stmt*`, stopping before the
// next peer Elsif/Else or the chain's closing `end if;`.
func (p *Parser) parseElsifStmt() (Node, error) {
	if err := p.expectKeyword(KeywordElsif); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(KeywordThen); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(KeywordEnd, KeywordElsif, KeywordElse)
	if err != nil {
		return nil, err
	}
	terminal, err := p.consumeTrailingEndIf()
	if err != nil {
		return nil, err
	}
	return &ElsifStmt{Cond: cond, Body: body, Terminal: terminal}, nil
}

// parseElseStmt parses `'else' stmt*`.
func (p *Parser) parseElseStmt() (Node, error) {
	if err := p.expectKeyword(KeywordElse); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(KeywordEnd)
	if err != nil {
		return nil, err
	}
	terminal, err := p.consumeTrailingEndIf()
	if err != nil {
		return nil, err
	}
	return &ElseStmt{Body: body, Terminal: terminal}, nil
}

// consumeTrailingEndIf eats a closing `end if;` iff the next keyword is
// `end`, reporting whether it did. A node in an if/elsif/else chain is the
// one that closes the C brace it opened exactly when it is the one that
// consumes this terminator — i.e. when no further Elsif/Else peer follows.
func (p *Parser) consumeTrailingEndIf() (bool, error) {
	isEnd, err := p.checkKeyword(KeywordEnd)
	if err != nil || !isEnd {
		return false, err
	}
	if err := p.expectKeyword(KeywordEnd); err != nil {
		return false, err
	}
	if err := p.expectKeyword(KeywordIf); err != nil {
		return false, err
	}
	if err := p.expectPunct(';'); err != nil {
		return false, err
	}
	return true, nil
}

// parseAssignmentOrExprStmt disambiguates `path ':' '=' expr ';'` from
// `expr ';'` using a speculative parse: it attempts to parse a path
// followed by ':' '=' on a stream clone, committing only if that exact
// sequence is observed (SPEC §4.2 idiom 2, scenario S4).
func (p *Parser) parseAssignmentOrExprStmt() (Node, error) {
	saved := p.ts
	if target, ok, err := p.tryParseAssignmentTarget(); err != nil {
		return nil, err
	} else if ok {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(';'); err != nil {
			return nil, err
		}
		return &AssignmentStmt{Target: target, Value: value}, nil
	}
	p.ts = saved

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(';'); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// tryParseAssignmentTarget attempts `path ':' '='` on a clone of the
// current stream. On success it commits the clone (leaving the cursor just
// past `:=`) and returns the parsed Path; on failure the original stream is
// untouched.
func (p *Parser) tryParseAssignmentTarget() (Node, bool, error) {
	clone := p.ts
	sub := &Parser{ts: clone}

	path, err := sub.parsePath()
	if err != nil {
		return nil, false, nil
	}
	if err := sub.expectPunct(':'); err != nil {
		return nil, false, nil
	}
	// '=' must immediately follow ':' with no intervening whitespace: the
	// stream is checked raw here, the same adjacency rule tryParseCmpOp
	// applies to its own two-byte operators.
	ok, err := rawConsumeIfPunct(&sub.ts, '=')
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	p.ts = sub.ts
	return &path, true, nil
}

// parseExpr parses `expr := cmp_expr`.
func (p *Parser) parseExpr() (Node, error) {
	return p.parseCmpExpr()
}

// parseCmpExpr parses `cmp_expr := suffix_expr ( cmp_op suffix_expr )?`.
// The comparison operator is classified with a speculative two-token
// lookahead (`/`+`=`, `<`+`=`?, `>`+`=`?) exactly as the source stream
// requires (SPEC §4.2, scenario S5).
func (p *Parser) parseCmpExpr() (Node, error) {
	lhs, err := p.parseSuffixExpr()
	if err != nil {
		return nil, err
	}
	op, ok, err := p.tryParseCmpOp()
	if err != nil {
		return nil, err
	}
	if !ok {
		return lhs, nil
	}
	rhs, err := p.parseSuffixExpr()
	if err != nil {
		return nil, err
	}
	return &CmpExpr{Lhs: lhs, Op: op, Rhs: rhs}, nil
}

// tryParseCmpOp speculatively classifies the next one or two punctuation
// tokens as a comparison operator, committing only on a match. The second
// byte of a two-byte operator (`/=`, `<=`, `>=`) is checked on the raw
// stream, not through next/peek's whitespace-skipping: `< =` with a space
// is two separate tokens, not `<=` (SPEC §4.2, S5).
func (p *Parser) tryParseCmpOp() (CmpOp, bool, error) {
	clone := p.ts
	tok, err := nextSignificant(&clone)
	if err != nil {
		return 0, false, err
	}
	if tok.Type != TokenPunct {
		return 0, false, nil
	}

	switch tok.Byte {
	case '=':
		p.ts = clone
		return CmpEqual, true, nil
	case '/':
		ok, err := rawConsumeIfPunct(&clone, '=')
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
		p.ts = clone
		return CmpNotEqual, true, nil
	case '<':
		p.ts = clone
		eq, err := rawConsumeIfPunct(&p.ts, '=')
		if err != nil {
			return 0, false, err
		}
		if eq {
			return CmpLessOrEqual, true, nil
		}
		return CmpLess, true, nil
	case '>':
		p.ts = clone
		eq, err := rawConsumeIfPunct(&p.ts, '=')
		if err != nil {
			return 0, false, err
		}
		if eq {
			return CmpGreaterOrEqual, true, nil
		}
		return CmpGreater, true, nil
	default:
		return 0, false, nil
	}
}

// rawConsumeIfPunct consumes the immediate next raw token (no whitespace
// skipped) iff it is the given punctuation byte, reporting whether it did.
// Used for the second byte of `:=` and of the two-byte comparison
// operators, which must be adjacent to the first (SPEC S5).
func rawConsumeIfPunct(ts *TokenStream, b byte) (bool, error) {
	clone := *ts
	tok, err := clone.Next()
	if err != nil {
		return false, err
	}
	if tok.Type != TokenPunct || tok.Byte != b {
		return false, nil
	}
	*ts = clone
	return true, nil
}

// parseSuffixExpr parses `suffix_expr := value_expr ( '(' arg_list? ')' )?`.
//
// The SuffixExpr wrapper only ever applies to a bare path: number and
// string literals can never stand for a function reference, so only a
// Path in non-call position needs the runtime's "maybe it's a zero-arg
// call" coercion (SPEC §4.3, S4).
func (p *Parser) parseSuffixExpr() (Node, error) {
	inner, err := p.parseValueExpr()
	if err != nil {
		return nil, err
	}
	isCall, err := p.checkPunct('(')
	if err != nil {
		return nil, err
	}
	if !isCall {
		if path, ok := inner.(*Path); ok {
			return &SuffixExpr{Inner: path}, nil
		}
		return inner, nil
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: inner, Args: args}, nil
}

// parseArgList parses `'(' arg_list? ')'` where `arg_list := expr (',' expr)*`.
func (p *Parser) parseArgList() ([]Node, error) {
	if err := p.expectPunct('('); err != nil {
		return nil, err
	}
	var args []Node
	closed, err := p.consumeIfPunct(')')
	if err != nil {
		return nil, err
	}
	if closed {
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		comma, err := p.consumeIfPunct(',')
		if err != nil {
			return nil, err
		}
		if !comma {
			break
		}
	}
	if err := p.expectPunct(')'); err != nil {
		return nil, err
	}
	return args, nil
}

// parseValueExpr parses `value_expr := path | number | string`.
func (p *Parser) parseValueExpr() (Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenNumber:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &NumberLit{Text: tok.Text}, nil
	case TokenString:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &StringLit{Text: tok.Text}, nil
	case TokenIdent:
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		return &path, nil
	default:
		return nil, unexpectedToken(tok, "identifier, number, or string")
	}
}
