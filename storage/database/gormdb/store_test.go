package gormdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/computersciencehouse/packet/core/directory"
	"github.com/computersciencehouse/packet/core/packet"
	testutil "github.com/computersciencehouse/packet/tests"
)

var (
	now   = time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	start = now.Add(-time.Hour)
)

func TestStore_CommitAndRollback(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback(), "rollback after commit is a no-op")

	tx, err = store.Begin(ctx)
	require.NoError(t, err)
	testutil.CreateFreshman(t, tx, "bob1", "Bob", true)
	require.NoError(t, tx.Rollback())

	tx = testutil.Begin(t, store)
	freshmen, err := tx.AllFreshmen()
	require.NoError(t, err)
	assert.Equal(t, []packet.Freshman{{Username: "alice1", Name: "Alice", OnFloor: true}}, freshmen)
}

func TestTx_Freshmen(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	testutil.CreateFreshman(t, tx, "bob1", "Bob", false)
	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	testutil.CreateFreshman(t, tx, "alice1", "Alice A", false) // upsert

	all, err := tx.AllFreshmen()
	require.NoError(t, err)
	assert.Equal(t, []packet.Freshman{
		{Username: "alice1", Name: "Alice A", OnFloor: false},
		{Username: "bob1", Name: "Bob", OnFloor: false},
	}, all)

	got, err := tx.FreshmenByUsernames([]string{"bob1", "zed1"})
	require.NoError(t, err)
	assert.Equal(t, []packet.Freshman{{Username: "bob1", Name: "Bob"}}, got)

	got, err = tx.FreshmenByUsernames(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	onFloor, err := tx.OnFloorFreshmen()
	require.NoError(t, err)
	assert.Empty(t, onFloor)
}

func TestTx_Packets(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	testutil.CreateFreshman(t, tx, "bob1", "Bob", true)

	ny := time.FixedZone("EDT", -4*60*60)
	endLocal := time.Date(2024, 9, 24, 21, 0, 0, 0, ny)
	b := testutil.CreatePacket(t, tx, "bob1", start, endLocal)
	a := testutil.CreatePacket(t, tx, "alice1", start, endLocal)
	closed := testutil.CreatePacket(t, tx, "alice1", start, now)
	assert.NotZero(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	got, err := tx.PacketByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice1", got.FreshmanUsername)
	assert.True(t, endLocal.Equal(got.End))
	assert.Equal(t, time.UTC, got.End.Location())

	_, err = tx.PacketByID(closed.ID + 100)
	assert.True(t, errors.Is(err, packet.ErrPacketNotFound))

	open, err := tx.OpenPackets(now)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, b.ID, open[0].ID)
	assert.Equal(t, a.ID, open[1].ID)

	from := time.Date(2024, 9, 24, 0, 0, 0, 0, ny)
	ending, err := tx.PacketsEndingBetween(from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, ending, 2)
	assert.Equal(t, "alice1", ending[0].FreshmanUsername)
	assert.Equal(t, "bob1", ending[1].FreshmanUsername)

	require.NoError(t, tx.UpdatePacketEnd(closed.ID, endLocal))
	open, err = tx.OpenPackets(now)
	require.NoError(t, err)
	assert.Len(t, open, 3)

	assert.True(t, errors.Is(tx.UpdatePacketEnd(closed.ID+100, endLocal), packet.ErrPacketNotFound))
}

func TestTx_Signatures(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	testutil.CreateFreshman(t, tx, "bob1", "Bob", true)
	testutil.CreateFreshman(t, tx, "carol1", "Carol", false)
	p := testutil.CreatePacket(t, tx, "alice1", start, now.Add(time.Hour))

	upper := packet.UpperSignature{PacketID: p.ID, Member: "m1", RoleFlags: directory.RoleFlags{Eboard: "Chairman", CM: true}}
	require.NoError(t, tx.SaveUpperSignature(&upper))
	upper.Signed = true
	upper.Eboard = ""
	require.NoError(t, tx.SaveUpperSignature(&upper))

	got, err := tx.UpperSignature(p.ID, "m1")
	require.NoError(t, err)
	assert.True(t, got.Signed)
	assert.Equal(t, directory.RoleFlags{CM: true}, got.RoleFlags)
	assert.False(t, got.Updated.IsZero())

	_, err = tx.UpperSignature(p.ID, "m2")
	assert.True(t, errors.Is(err, packet.ErrSignatureNotFound))

	require.NoError(t, tx.CreateFreshSignature(&packet.FreshSignature{PacketID: p.ID, FreshmanUsername: "bob1"}))
	require.NoError(t, tx.CreateFreshSignature(&packet.FreshSignature{PacketID: p.ID, FreshmanUsername: "carol1", Signed: true}))
	require.Error(t, tx.CreateFreshSignature(&packet.FreshSignature{PacketID: p.ID, FreshmanUsername: "bob1"}))

	fresh, err := tx.FreshSignature(p.ID, "bob1")
	require.NoError(t, err)
	fresh.Signed = true
	require.NoError(t, tx.SaveFreshSignature(fresh))
	assert.True(t, errors.Is(
		tx.SaveFreshSignature(&packet.FreshSignature{PacketID: p.ID, FreshmanUsername: "alice1"}),
		packet.ErrSignatureNotFound,
	))

	n, err := tx.DeleteOffFloorFreshSignatures(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, tx.CreateMiscSignature(&packet.MiscSignature{PacketID: p.ID, Member: "x"}))

	sigs := testutil.Signatures(t, tx, p.ID)
	require.Len(t, sigs.Upper, 1)
	require.Len(t, sigs.Fresh, 1)
	assert.Equal(t, "bob1", sigs.Fresh[0].FreshmanUsername)
	assert.True(t, sigs.Fresh[0].Signed)
	require.Len(t, sigs.Misc, 1)

	n, err = tx.DeleteMiscSignature(p.ID, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = tx.DeleteMiscSignature(p.ID, "x")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, tx.DeleteUpperSignature(p.ID, "m1"))
	assert.Empty(t, testutil.Signatures(t, tx, p.ID).Upper)
}
