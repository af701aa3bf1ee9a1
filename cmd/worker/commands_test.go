package main

import (
	"context"
	"errors"
	"testing"

	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDensifier struct {
	calls []string
	err   error
}

func (f *fakeDensifier) DensifyAll(_ context.Context, t ordering.Table) (int, error) {
	f.calls = append(f.calls, t.Name)
	return 1, f.err
}

func TestSelectTables(t *testing.T) {
	all, err := selectTables(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := selectTables([]string{"audio_parts"})
	require.NoError(t, err)
	assert.Equal(t, []ordering.Table{ordering.AudioParts}, some)

	_, err = selectTables([]string{"books"})
	assert.EqualError(t, err, `unknown table "books"`)
}

func TestDensify(t *testing.T) {
	store := &fakeDensifier{}
	require.NoError(t, densify(context.Background(), store, orderedTables))
	assert.Equal(t, []string{"chapters", "audio_chapters", "audio_parts"}, store.calls)

	failing := &fakeDensifier{err: errors.New("boom")}
	err := densify(context.Background(), failing, orderedTables)
	require.Error(t, err)
	assert.Equal(t, []string{"chapters"}, failing.calls)
}

func TestCommands(t *testing.T) {
	root := newRootCommand()
	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"run", "densify"}, names)

	assert.Equal(t, map[string]int{"media": 6, shared.QueueMaintenance: 1}, queuePriorities(""))
}
