package strata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturedList_NeverConfiguredResolvesNil(t *testing.T) {
	list := NewCapturedList[string](nil)

	v, err := list.Token().Resolve()
	require.NoError(t, err)
	assert.Nil(t, v, "an untouched list must resolve to absent, not empty")
}

func TestCapturedList_ConfiguredEmptyResolvesEmpty(t *testing.T) {
	list := NewCapturedList[string](nil)
	require.NoError(t, list.Append())

	v, err := list.Token().Resolve()
	require.NoError(t, err)
	assert.Equal(t, []any{}, v, "a configured-but-empty list must stay explicit")
}

func TestCapturedList_PreservesCallOrder(t *testing.T) {
	list := NewCapturedList[string](nil)
	require.NoError(t, list.Append("x"))
	require.NoError(t, list.Append("y", "z"))

	v, err := list.Token().Resolve()
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y", "z"}, v)
}

func TestCapturedList_MutationVisibleBeforeResolution(t *testing.T) {
	list := NewCapturedList[string](nil)
	tok := list.Token()

	require.NoError(t, list.Append("late"))

	v, err := tok.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []any{"late"}, v, "the token was created before the mutation but must see it")
}

func TestCapturedList_SealedAfterResolution(t *testing.T) {
	app := NewApp()
	stack, err := NewStack(app, "Stack", StackProps{})
	require.NoError(t, err)
	owner, err := newGroup(stack, "Owner")
	require.NoError(t, err)

	list := NewCapturedList[string](owner)
	require.NoError(t, list.Append("first"))

	_, err = list.Token().Resolve()
	require.NoError(t, err)

	err = list.Append("too-late")
	var sealedErr *SealedCollectionError
	require.ErrorAs(t, err, &sealedErr)
	assert.Equal(t, "Stack/Owner", sealedErr.Path)

	err = list.Mutate(func(s []string) []string { return s })
	require.ErrorAs(t, err, &sealedErr)

	// The sealed contents are unchanged.
	assert.Equal(t, []string{"first"}, list.Entries())
}

func TestCapturedList_Mutate(t *testing.T) {
	list := NewCapturedList[int](nil)
	require.NoError(t, list.Append(1, 2, 2))
	require.NoError(t, list.Mutate(func(entries []int) []int {
		var out []int
		seen := make(map[int]bool)
		for _, e := range entries {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
		return out
	}))

	assert.Equal(t, []int{1, 2}, list.Entries())
	assert.Equal(t, 2, list.Len())
	assert.True(t, list.Configured())
}
