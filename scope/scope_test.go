/*
File    : mana/scope/scope_test.go
*/
package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mana-lang/mana/types"
)

func TestScope_DeclareAndLookup(t *testing.T) {
	global := NewScope(nil)
	assert.True(t, global.Declare(&Symbol{Name: "x", Type: types.I32()}))
	// Re-declaring in the same scope fails
	assert.False(t, global.Declare(&Symbol{Name: "x", Type: types.Str()}))

	sym, ok := global.LookUp("x")
	assert.True(t, ok)
	assert.Equal(t, types.Int, sym.Type.Kind)

	_, ok = global.LookUp("missing")
	assert.False(t, ok)
}

func TestScope_Shadowing(t *testing.T) {
	global := NewScope(nil)
	global.Declare(&Symbol{Name: "x", Type: types.I32()})

	inner := NewScope(global)
	// Shadowing across scopes is allowed
	assert.True(t, inner.Declare(&Symbol{Name: "x", Type: types.Str()}))

	sym, ok := inner.LookUp("x")
	assert.True(t, ok)
	assert.Equal(t, types.String, sym.Type.Kind)

	// The outer binding is untouched
	outer, _ := global.LookUp("x")
	assert.Equal(t, types.Int, outer.Type.Kind)
}

func TestScope_ParentChainLookup(t *testing.T) {
	global := NewScope(nil)
	global.Declare(&Symbol{Name: "deep", Type: types.Boolean()})

	leaf := NewScope(NewScope(NewScope(global)))
	sym, ok := leaf.LookUp("deep")
	assert.True(t, ok)
	assert.Equal(t, types.Bool, sym.Type.Kind)

	_, local := leaf.LookUpLocal("deep")
	assert.False(t, local)
}

func TestStack_PushPop(t *testing.T) {
	stack := NewStack()
	global := stack.Top

	stack.Push()
	stack.Top.Declare(&Symbol{Name: "inner", Type: types.I32()})
	assert.NotEqual(t, global, stack.Top)

	closed := stack.Pop()
	_, ok := closed.LookUpLocal("inner")
	assert.True(t, ok)
	assert.Equal(t, global, stack.Top)

	// Popping the root keeps the root
	stack.Pop()
	assert.Equal(t, global, stack.Top)
	assert.Equal(t, global, stack.Global())
}

func TestScope_Names(t *testing.T) {
	global := NewScope(nil)
	global.Declare(&Symbol{Name: "a"})
	inner := NewScope(global)
	inner.Declare(&Symbol{Name: "b"})

	names := inner.Names()
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "b")
}
