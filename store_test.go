package assetdiscovery

import (
	"testing"

	"github.com/everFinance/assetdiscovery/schema"
	"github.com/stretchr/testify/assert"
)

func TestStore_PeerCache(t *testing.T) {
	s := newTestStore(t)

	pc, err := s.LoadPeerCache()
	assert.NoError(t, err)
	assert.Empty(t, pc.Peers)

	assert.NoError(t, s.SavePeerCache(schema.PeerCache{Peers: []string{"P1", "P2"}}))
	pc, err = s.LoadPeerCache()
	assert.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, pc.Peers)
}

func TestStore_SweepCursor(t *testing.T) {
	s := newTestStore(t)

	cursor, err := s.LoadSweepCursor()
	assert.NoError(t, err)
	assert.Equal(t, "", cursor)

	assert.NoError(t, s.SaveSweepCursor("c.net"))
	cursor, err = s.LoadSweepCursor()
	assert.NoError(t, err)
	assert.Equal(t, "c.net", cursor)

	assert.NoError(t, s.SaveSweepCursor(""))
	assert.False(t, s.KVDb.Exist(schema.LocalStorageBucket, schema.SweepCursorKey))
}
