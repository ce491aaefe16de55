package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersionGate_RejectsBelowMinimum(t *testing.T) {
	err := checkVersionGate(&Task{ID: "t1", Type: "puppet", Version: "1.9.9"})
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrKindTaskVersionUnsupported, gerr.Kind)
}

func TestCheckVersionGate_AcceptsAtOrAboveMinimum(t *testing.T) {
	assert.NoError(t, checkVersionGate(&Task{ID: "t1", Type: "puppet", Version: "2.0.0"}))
	assert.NoError(t, checkVersionGate(&Task{ID: "t1", Type: "puppet", Version: "2.1.0"}))
	assert.NoError(t, checkVersionGate(&Task{ID: "t1", Type: "puppet", Version: "2.10.0"}))
}

func TestCheckVersionGate_DefaultsToOneDotZero(t *testing.T) {
	err := checkVersionGate(&Task{ID: "t1", Type: "puppet"})
	require.Error(t, err)
}

func TestCheckVersionGate_BypassedForStage(t *testing.T) {
	assert.NoError(t, checkVersionGate(&Task{ID: "t1", Type: TaskTypeStage, Version: "0.1.0"}))
}
