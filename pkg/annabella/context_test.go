package annabella

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextBuffersStartEmptyExceptHeader(t *testing.T) {
	ctx := NewContext()
	assert.Equal(t, header, ctx.functions.String())
	assert.Empty(t, ctx.init.String())
	assert.Empty(t, ctx.value.String())
}

func TestTakeValueResetsBuffer(t *testing.T) {
	ctx := NewContext()
	ctx.emitValue("x = %d;", 1)
	got := ctx.takeValue()
	assert.Equal(t, "x = 1;", got)
	assert.Empty(t, ctx.value.String())
}

func TestPushPopInitNesting(t *testing.T) {
	ctx := NewContext()
	ctx.emitInit("outer;\n")

	saved := ctx.pushInit()
	ctx.emitInit("inner;\n")
	inner := ctx.popInit(saved)

	assert.Equal(t, "inner;\n", inner)
	assert.Equal(t, "outer;\n", ctx.init.String())
}

// TestFinalizeFatalOnNonEmptyValue is testable property 7 (SPEC §4.4): it
// is a bug for any statement-shaped node to leave the value buffer
// non-empty after it runs.
func TestFinalizeFatalOnNonEmptyValue(t *testing.T) {
	ctx := NewContext()
	ctx.emitValue("leaked;\n")
	_, err := ctx.Finalize()
	require.Error(t, err)
}

func TestFinalizeNoMainWhenInitEmpty(t *testing.T) {
	ctx := NewContext()
	out, err := ctx.Finalize()
	require.NoError(t, err)
	assert.NotContains(t, out, "int main")
}

func TestFinalizeSynthesizesMainWhenInitNonEmpty(t *testing.T) {
	ctx := NewContext()
	ctx.emitInit("scope_insert_value(scope, \"x\", integer_value(\"1\"));\n")
	out, err := ctx.Finalize()
	require.NoError(t, err)
	assert.Contains(t, out, "int main(void) {")
	assert.Contains(t, out, "main_scope_init()")
	assert.Contains(t, out, "scope_exec_main(scope);")
	assert.Contains(t, out, "scope_drop(scope);")
}
