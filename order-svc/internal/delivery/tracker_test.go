package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_NewerRequestCancelsOlder(t *testing.T) {
	tracker := NewTracker()

	first, firstToken, releaseFirst, err := tracker.Begin(context.Background(), "session-1", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, firstToken)

	second, secondToken, releaseSecond, err := tracker.Begin(context.Background(), "session-1", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, secondToken)

	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.NoError(t, second.Err())
	assert.False(t, tracker.Current("session-1", firstToken))
	assert.True(t, tracker.Current("session-1", secondToken))

	releaseFirst()
	assert.True(t, tracker.Current("session-1", secondToken))
	releaseSecond()
}

func TestTracker_StaleTokenRejected(t *testing.T) {
	tracker := NewTracker()

	_, _, release, err := tracker.Begin(context.Background(), "s", 5)
	require.NoError(t, err)
	release()

	_, _, _, err = tracker.Begin(context.Background(), "s", 3)
	assert.ErrorIs(t, err, ErrSuperseded)

	_, _, _, err = tracker.Begin(context.Background(), "s", 5)
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestTracker_SessionsIndependent(t *testing.T) {
	tracker := NewTracker()

	a, _, releaseA, err := tracker.Begin(context.Background(), "a", 0)
	require.NoError(t, err)
	_, _, releaseB, err := tracker.Begin(context.Background(), "b", 0)
	require.NoError(t, err)

	assert.NoError(t, a.Err())
	releaseA()
	releaseB()
}

func TestTracker_PrunesIdleSessions(t *testing.T) {
	tracker := NewTracker()
	now := time.Now()
	tracker.now = func() time.Time { return now }

	_, _, release, err := tracker.Begin(context.Background(), "old", 0)
	require.NoError(t, err)
	release()

	now = now.Add(sessionIdleTTL + time.Minute)
	_, _, release, err = tracker.Begin(context.Background(), "new", 0)
	require.NoError(t, err)
	release()

	assert.False(t, tracker.Current("old", 1))
	assert.True(t, tracker.Current("new", 1))
}
