package assetdiscovery

import (
	"testing"

	"github.com/everFinance/assetdiscovery/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWdb_Events(t *testing.T) {
	db := NewSqliteDb(t.TempDir())
	defer db.Close()
	require.NoError(t, db.Migrate())

	evs := []schema.Event{
		{Id: uuid.NewString(), Kind: schema.EventDomainRegistered, Epoch: 1, Domain: "a.net", Actor: &alice},
		{Id: uuid.NewString(), Kind: schema.EventDomainValidationRequested, Epoch: 1, Domain: "a.net", AssetId: "x"},
		{Id: uuid.NewString(), Kind: schema.EventDomainRegistered, Epoch: 2, Domain: "b.net", Actor: &bob},
	}
	for _, ev := range evs {
		assert.NoError(t, db.Publish(ev))
	}
	// replays are ignored
	assert.NoError(t, db.InsertEvent(evs[0]))

	all, err := db.ListEvents("", "", 0, 0)
	assert.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b.net", all[0].Domain)
	assert.Equal(t, evs[2].Id, all[0].EventId)

	registered, err := db.ListEvents(string(schema.EventDomainRegistered), "", 0, 10)
	assert.NoError(t, err)
	assert.Len(t, registered, 2)

	byDomain, err := db.ListEvents("", "a.net", 0, 10)
	assert.NoError(t, err)
	assert.Len(t, byDomain, 2)

	page, err := db.ListEvents("", "", 0, 2)
	assert.NoError(t, err)
	require.Len(t, page, 2)
	next, err := db.ListEvents("", "", page[1].ID, 2)
	assert.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, evs[0].Id, next[0].EventId)
}
