package assetdiscovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeerCache(t *testing.T) {
	src := []string{"P1", "P2"}
	c := NewPeerCache(src)
	src[0] = "changed"
	assert.Equal(t, []string{"P1", "P2"}, c.GetPeers())

	c.Add("P3")
	assert.True(t, c.Contains("P3"))
	assert.Equal(t, 3, c.Len())

	assert.True(t, c.Remove("P2"))
	assert.False(t, c.Remove("P2"))
	assert.False(t, c.Contains("P2"))
	assert.Equal(t, []string{"P1", "P3"}, c.Snapshot().Peers)

	peers := c.GetPeers()
	peers[0] = "mutated"
	assert.True(t, c.Contains("P1"))
}
