package strata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DuplicateID(t *testing.T) {
	app := NewApp()
	stack, err := NewStack(app, "Stack", StackProps{})
	require.NoError(t, err)

	first, err := newGroup(stack, "Thing")
	require.NoError(t, err)

	_, err = newGroup(stack, "Thing")
	var dupErr *DuplicateIDError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "Thing", dupErr.ID)
	assert.Equal(t, "Stack", dupErr.Scope)

	// The first sibling is unaffected by the failed declaration.
	child, ok := stack.Node().Child("Thing")
	require.True(t, ok)
	assert.Same(t, first.Node(), child)
	assert.Len(t, stack.Node().Children(), 1)
}

func TestRegister_EmptyID(t *testing.T) {
	app := NewApp()
	_, err := NewStack(app, "", StackProps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")

	// An empty id is a validation failure, not a collision.
	var dupErr *DuplicateIDError
	assert.False(t, errors.As(err, &dupErr))
}

func TestNode_Path(t *testing.T) {
	app := NewApp()
	stack, err := NewStack(app, "Stack", StackProps{})
	require.NoError(t, err)
	outer, err := newGroup(stack, "Outer")
	require.NoError(t, err)
	inner, err := newGroup(outer, "Inner")
	require.NoError(t, err)

	assert.Equal(t, []string{"Stack", "Outer", "Inner"}, inner.Node().Path())
	assert.Equal(t, "Stack/Outer/Inner", inner.Node().PathString())
	assert.Empty(t, app.Node().Path())
}

func TestNode_ChildrenInsertionOrder(t *testing.T) {
	app := NewApp()
	stack, err := NewStack(app, "Stack", StackProps{})
	require.NoError(t, err)

	for _, id := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := newGroup(stack, id)
		require.NoError(t, err)
	}

	var ids []string
	for _, c := range stack.Node().Children() {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, ids)
}

func TestNode_UniqueID_Deterministic(t *testing.T) {
	build := func() string {
		app := NewApp()
		stack, err := NewStack(app, "Stack", StackProps{})
		require.NoError(t, err)
		g, err := newGroup(stack, "Group")
		require.NoError(t, err)
		return g.Node().UniqueID()
	}

	assert.Equal(t, build(), build(), "same path must always yield the same id")
}

func TestNode_UniqueID_PathSensitive(t *testing.T) {
	app := NewApp()
	stack, err := NewStack(app, "Stack", StackProps{})
	require.NoError(t, err)
	a, err := newGroup(stack, "A")
	require.NoError(t, err)
	nested, err := newGroup(a, "B")
	require.NoError(t, err)
	flat, err := newGroup(stack, "AB")
	require.NoError(t, err)

	// "Stack/A/B" and "Stack/AB" sanitize to the same human prefix; the
	// path hash must keep them apart.
	assert.NotEqual(t, nested.Node().UniqueID(), flat.Node().UniqueID())
}

func TestFindAncestor(t *testing.T) {
	app := NewApp()
	stack, err := NewStack(app, "Stack", StackProps{})
	require.NoError(t, err)
	outer, err := newGroup(stack, "Outer")
	require.NoError(t, err)
	inner, err := newGroup(outer, "Inner")
	require.NoError(t, err)

	found, err := inner.Node().FindAncestor(func(c Construct) bool {
		_, ok := c.(*Stack)
		return ok
	})
	require.NoError(t, err)
	assert.Same(t, stack, found)

	_, err = inner.Node().FindAncestor(func(c Construct) bool {
		return false
	})
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "Stack/Outer/Inner", nfErr.Path)
}

func TestStackOf(t *testing.T) {
	app := NewApp()
	stack, err := NewStack(app, "Stack", StackProps{})
	require.NoError(t, err)
	g, err := newGroup(stack, "Group")
	require.NoError(t, err)

	found, err := StackOf(g)
	require.NoError(t, err)
	assert.Same(t, stack, found)

	// A stack is its own enclosing stack.
	found, err = StackOf(stack)
	require.NoError(t, err)
	assert.Same(t, stack, found)
}

func TestLogicalID_RequiresStack(t *testing.T) {
	app := NewApp()
	_, err := LogicalID(app)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
