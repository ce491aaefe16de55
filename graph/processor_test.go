package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_EmptyStreamYieldsNothingNoVersionCheck(t *testing.T) {
	p := NewProcessor()
	task := &Task{ID: "t1", Type: "puppet", Version: "0.1.0"}

	records, err := p.Build(task, SliceIterator(nil))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProcessor_SingleRecordCopiesOriginAndLineage(t *testing.T) {
	p := NewProcessor()
	task := &Task{
		ID: "t1", Type: "puppet", Version: "2.0.0",
		Requires: []string{"prereq"}, RequiredFor: []string{"after"},
	}

	records, err := p.Build(task, SliceIterator([]*Record{{UIDs: []string{"n1"}}}))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "t1", records[0].ID)
	assert.Equal(t, []string{"prereq"}, records[0].RequiresNames)
	assert.Equal(t, []string{"after"}, records[0].RequiredForNames)

	origin, ok := p.Origin("t1")
	require.True(t, ok)
	assert.Equal(t, "t1", origin)
}

func TestProcessor_ChainWiresStartInteriorEnd(t *testing.T) {
	p := NewProcessor()
	task := &Task{
		ID: "t1", Type: "puppet", Version: "2.0.0",
		Requires: []string{"prereq"}, RequiredFor: []string{"after"},
	}
	stream := SliceIterator([]*Record{
		{UIDs: []string{"n1"}},
		{UIDs: []string{"n1"}},
		{UIDs: []string{"n1"}},
	})

	records, err := p.Build(task, stream)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "t1_start", records[0].ID)
	assert.Equal(t, []string{"prereq"}, records[0].RequiresNames)

	assert.Equal(t, "t1#1", records[1].ID)
	assert.Equal(t, []string{"t1_start"}, records[1].RequiresNames)

	assert.Equal(t, "t1_end", records[2].ID)
	assert.Equal(t, []string{"t1#1"}, records[2].RequiresNames)
	assert.Equal(t, []string{"after"}, records[2].RequiredForNames)

	for _, id := range []string{"t1_start", "t1#1", "t1_end"} {
		origin, ok := p.Origin(id)
		require.True(t, ok)
		assert.Equal(t, "t1", origin)
	}
}

func TestProcessor_ChainCrossNodeLinkUsesRequiresEx(t *testing.T) {
	p := NewProcessor()
	task := &Task{ID: "t1", Type: "puppet", Version: "2.0.0"}
	stream := SliceIterator([]*Record{
		{UIDs: []string{"n1"}},
		{UIDs: []string{"n2"}},
	})

	records, err := p.Build(task, stream)
	require.NoError(t, err)
	require.Len(t, records, 2)

	end := records[1]
	assert.Equal(t, "t1_end", end.ID)
	assert.Empty(t, end.RequiresNames)
	assert.Equal(t, []Dependency{{Name: "t1_start", NodeID: "n1"}}, end.RequiresEx)
}

func TestProcessor_VersionGateRejectsBeforeChainBuild(t *testing.T) {
	p := NewProcessor()
	task := &Task{ID: "old", Type: "puppet", Version: "1.0.0"}

	_, err := p.Build(task, SliceIterator([]*Record{{UIDs: []string{"n1"}}}))
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrKindTaskVersionUnsupported, gerr.Kind)
}
