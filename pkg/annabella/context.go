package annabella

import (
	"fmt"
	"strings"
)

// header is the fixed C include prepended to every translation unit's
// functions buffer (SPEC §4.6).
const header = `#include "annabella-rt.h"
`

// Context is the generator's three growable text buffers (SPEC §3, §4.4):
// functions collects top-level forward declarations and function bodies,
// init accumulates statements for the current enclosing package or main,
// and value holds the C expression fragment under construction for the
// statement currently being emitted. Buffers are owned by the Context and
// consumed (moved out) at finalize.
type Context struct {
	functions strings.Builder
	init      strings.Builder
	value     strings.Builder
}

// NewContext returns a Context seeded with the fixed runtime header.
func NewContext() *Context {
	ctx := &Context{}
	ctx.functions.WriteString(header)
	return ctx
}

// emitFunctions appends text to the functions buffer.
func (c *Context) emitFunctions(format string, args ...any) {
	writef(&c.functions, format, args...)
}

// emitInit appends text to the current init buffer.
func (c *Context) emitInit(format string, args ...any) {
	writef(&c.init, format, args...)
}

// emitValue appends text to the value buffer.
func (c *Context) emitValue(format string, args ...any) {
	writef(&c.value, format, args...)
}

// takeValue empties the value buffer and returns its prior contents. Every
// statement-shaped node calls this itself after building its fragment, then
// appends the result into whichever buffer is "current" — the Open
// Question in SPEC §9 about a caller-side flush is resolved this way so
// every Generate method has the same shape regardless of node kind.
func (c *Context) takeValue() string {
	s := c.value.String()
	c.value.Reset()
	return s
}

// pushInit installs a fresh, empty init buffer and returns the saved one,
// for PackageStmt's nested package-body emission (SPEC §4.3, §4.4).
func (c *Context) pushInit() strings.Builder {
	saved := c.init
	c.init = strings.Builder{}
	return saved
}

// popInit empties and returns the current init buffer's contents, then
// restores the saved outer buffer.
func (c *Context) popInit(saved strings.Builder) string {
	body := c.init.String()
	c.init = saved
	return body
}

func writef(b *strings.Builder, format string, args ...any) {
	if len(args) == 0 {
		b.WriteString(format)
		return
	}
	fmt.Fprintf(b, format, args...)
}

// Finalize runs the checks in SPEC §4.4/§4.6 and returns the assembled
// translation unit. It is fatal for value to be non-empty (testable
// property 7): every statement must flush what it builds. If init is
// non-empty, a main is synthesized around it (scope open, scope-init,
// accumulated inits, execute the last inserted value, scope drop).
func (c *Context) Finalize() (string, error) {
	if c.value.Len() != 0 {
		return "", errorf(Location{}, "finalize: value buffer left non-empty: %q", c.value.String())
	}

	out := c.functions.String()
	if c.init.Len() != 0 {
		out += fmt.Sprintf(`
int main(void) {
  scope_t *scope = main_scope_init();
%s  scope_exec_main(scope);
  scope_drop(scope);
  return 0;
}
`, c.init.String())
	}
	return out, nil
}
