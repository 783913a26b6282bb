package packet_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/computersciencehouse/packet/core/packet"
	testutil "github.com/computersciencehouse/packet/tests"
)

func TestExtendPacket(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	svc := newFixture().svc
	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	open := testutil.CreatePacket(t, tx, "alice1", start, openEnd)
	closed := testutil.CreatePacket(t, tx, "alice1", start, closedEnd)
	newEnd := openEnd.AddDate(0, 0, 3)

	require.NoError(t, svc.ExtendPacket(context.Background(), tx, open.ID, newEnd, now))
	got, err := tx.PacketByID(open.ID)
	require.NoError(t, err)
	assert.True(t, newEnd.Equal(got.End))

	err = svc.ExtendPacket(context.Background(), tx, closed.ID, newEnd, now)
	assert.True(t, errors.Is(err, packet.ErrPacketClosed))
	got, err = tx.PacketByID(closed.ID)
	require.NoError(t, err)
	assert.True(t, closedEnd.Equal(got.End))

	err = svc.ExtendPacket(context.Background(), tx, 9999, newEnd, now)
	assert.True(t, errors.Is(err, packet.ErrPacketNotFound))
}

func TestRemoveMemberSignature(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	svc := newFixture().svc
	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	p := testutil.CreatePacket(t, tx, "alice1", start, openEnd)
	closed := testutil.CreatePacket(t, tx, "alice1", start, closedEnd)

	saveUpper(t, tx, packet.UpperSignature{PacketID: p.ID, Member: "upper", Signed: true})
	require.NoError(t, tx.CreateMiscSignature(&packet.MiscSignature{PacketID: p.ID, Member: "misc"}))
	saveUpper(t, tx, packet.UpperSignature{PacketID: closed.ID, Member: "upper", Signed: true})

	ctx := context.Background()
	require.NoError(t, svc.RemoveMemberSignature(ctx, tx, p.ID, "upper", now))
	require.NoError(t, svc.RemoveMemberSignature(ctx, tx, p.ID, "misc", now))

	sigs := testutil.Signatures(t, tx, p.ID)
	sig, ok := upperSig(sigs, "upper")
	require.True(t, ok)
	assert.False(t, sig.Signed)
	assert.Empty(t, sigs.Misc)

	err := svc.RemoveMemberSignature(ctx, tx, p.ID, "misc", now)
	assert.True(t, errors.Is(err, packet.ErrSignatureNotFound))

	err = svc.RemoveMemberSignature(ctx, tx, closed.ID, "upper", now)
	assert.True(t, errors.Is(err, packet.ErrPacketClosed))
	sig, _ = upperSig(testutil.Signatures(t, tx, closed.ID), "upper")
	assert.True(t, sig.Signed)
}

func TestRemoveFreshmanSignature(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	svc := newFixture().svc
	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	testutil.CreateFreshman(t, tx, "bob1", "Bob", true)
	testutil.CreateFreshman(t, tx, "carol1", "Carol", false)
	p := testutil.CreatePacket(t, tx, "alice1", start, openEnd)
	closed := testutil.CreatePacket(t, tx, "alice1", start, closedEnd)
	require.NoError(t, tx.CreateFreshSignature(&packet.FreshSignature{PacketID: p.ID, FreshmanUsername: "bob1", Signed: true}))
	require.NoError(t, tx.CreateFreshSignature(&packet.FreshSignature{PacketID: closed.ID, FreshmanUsername: "bob1", Signed: true}))

	ctx := context.Background()
	require.NoError(t, svc.RemoveFreshmanSignature(ctx, tx, p.ID, "bob1", now))
	sigs := testutil.Signatures(t, tx, p.ID)
	require.Len(t, sigs.Fresh, 1)
	assert.False(t, sigs.Fresh[0].Signed)

	err := svc.RemoveFreshmanSignature(ctx, tx, p.ID, "carol1", now)
	assert.True(t, errors.Is(err, packet.ErrNotOnFloor))
	assert.Equal(t, []string{"bob1"}, freshMembers(testutil.Signatures(t, tx, p.ID)))

	err = svc.RemoveFreshmanSignature(ctx, tx, closed.ID, "bob1", now)
	assert.True(t, errors.Is(err, packet.ErrPacketClosed))
	assert.True(t, testutil.Signatures(t, tx, closed.ID).Fresh[0].Signed)
}

func TestPacket_IsOpen(t *testing.T) {
	p := packet.Packet{End: now}
	assert.False(t, p.IsOpen(now))
	assert.False(t, p.IsOpen(now.Add(1)))
	assert.True(t, p.IsOpen(now.Add(-1)))
}
