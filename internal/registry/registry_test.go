package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(id, creatorID string) *models.Session {
	return &models.Session{
		ID:             id,
		CreatorID:      creatorID,
		GuildID:        "guild-1",
		ChannelID:      "channel-1",
		Capacity:       4,
		Status:         models.SessionStatusWaiting,
		Players:        []string{creatorID},
		Confirmed:      []string{},
		VoiceChannelID: "voice-" + id,
		Active:         true,
	}
}

func TestAddAndGet(t *testing.T) {
	r := New()
	sess := newTestSession("sess-1", "creator-1")
	r.Add(sess)

	got, ok := r.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, sess, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestDerivedIndexes(t *testing.T) {
	r := New()
	sess := newTestSession("sess-1", "creator-1")
	sess.Players = []string{"creator-1", "member-1"}
	r.Add(sess)

	id, ok := r.IDByCreator("creator-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)

	id, ok = r.IDByMember("member-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)

	id, ok = r.IDByVoiceChannel("voice-sess-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)

	_, ok = r.IDByMember("stranger")
	assert.False(t, ok)
}

func TestReindexAfterMembershipChange(t *testing.T) {
	r := New()
	sess := newTestSession("sess-1", "creator-1")
	sess.Players = []string{"creator-1", "member-1"}
	r.Add(sess)

	// member-1 leaves
	sess.Players = []string{"creator-1"}
	r.Reindex(sess)

	_, ok := r.IDByMember("member-1")
	assert.False(t, ok)

	id, ok := r.IDByMember("creator-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)
}

func TestRemoveDropsAllIndexes(t *testing.T) {
	r := New()
	sess := newTestSession("sess-1", "creator-1")
	sess.Players = []string{"creator-1", "member-1"}
	r.Add(sess)

	r.Remove("sess-1")

	_, ok := r.Get("sess-1")
	assert.False(t, ok)
	_, ok = r.IDByCreator("creator-1")
	assert.False(t, ok)
	_, ok = r.IDByMember("member-1")
	assert.False(t, ok)
	_, ok = r.IDByVoiceChannel("voice-sess-1")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestClear(t *testing.T) {
	r := New()
	r.Add(newTestSession("sess-1", "creator-1"))
	r.Add(newTestSession("sess-2", "creator-2"))
	require.Equal(t, 2, r.Len())

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.IDs())
}

func TestPerSessionLockSerializes(t *testing.T) {
	r := New()
	r.Add(newTestSession("sess-1", "creator-1"))

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			r.Lock("sess-1")
			defer r.Unlock("sess-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestClaimMemberCompareAndSet(t *testing.T) {
	r := New()

	require.True(t, r.ClaimMember("user-1", "sess-1"))
	assert.False(t, r.ClaimMember("user-1", "sess-2"))

	// Re-claiming the held session is a no-op success
	assert.True(t, r.ClaimMember("user-1", "sess-1"))

	id, ok := r.IDByMember("user-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)

	// A release naming the wrong session leaves the claim in place
	r.ReleaseMember("user-1", "sess-2")
	_, ok = r.IDByMember("user-1")
	assert.True(t, ok)

	r.ReleaseMember("user-1", "sess-1")
	_, ok = r.IDByMember("user-1")
	assert.False(t, ok)
	assert.True(t, r.ClaimMember("user-1", "sess-2"))
}

func TestClaimMemberSingleWinner(t *testing.T) {
	r := New()

	const workers = 16
	var wg sync.WaitGroup
	var wins int32

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		sessionID := "sess-" + string(rune('a'+i))
		go func() {
			defer wg.Done()
			if r.ClaimMember("user-1", sessionID) {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestIDs(t *testing.T) {
	r := New()
	r.Add(newTestSession("sess-1", "creator-1"))
	r.Add(newTestSession("sess-2", "creator-2"))

	ids := r.IDs()
	assert.ElementsMatch(t, []string{"sess-1", "sess-2"}, ids)
}
