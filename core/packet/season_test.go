package packet_test

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/computersciencehouse/packet/core/directory"
	"github.com/computersciencehouse/packet/core/packet"
	testutil "github.com/computersciencehouse/packet/tests"
)

func TestSeasonConfig_Window(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	cfg := packet.SeasonConfig{StartHour: 19, EndHour: 21, DurationDays: 14, Location: ny}

	tests := []struct {
		name      string
		date      string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "regular",
			date:      "9/3/2024",
			wantStart: time.Date(2024, 9, 3, 19, 0, 0, 0, ny),
			wantEnd:   time.Date(2024, 9, 17, 21, 0, 0, 0, ny),
		},
		{
			name:      "leading zeros",
			date:      "01/08/2024",
			wantStart: time.Date(2024, 1, 8, 19, 0, 0, 0, ny),
			wantEnd:   time.Date(2024, 1, 22, 21, 0, 0, 0, ny),
		},
		{
			name:      "across daylight saving",
			date:      "10/28/2024",
			wantStart: time.Date(2024, 10, 28, 19, 0, 0, 0, ny),
			wantEnd:   time.Date(2024, 11, 11, 21, 0, 0, 0, ny),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := cfg.ParseDate(tt.date)
			require.NoError(t, err)
			start, end := cfg.Window(day)
			assert.True(t, tt.wantStart.Equal(start), "start: %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end: %s", end)
			assert.Equal(t, 21, end.In(ny).Hour())
		})
	}
}

func TestSeasonConfig_ParseDate(t *testing.T) {
	for _, s := range []string{"", "2024-09-03", "13/01/2024", "9/31/2024", "tomorrow"} {
		_, err := season.ParseDate(s)
		assert.Error(t, err, s)
	}
}

func TestCreatePackets(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	f := newFixture("chair", "rtp", "intro", "coop")
	f.dir.Intro["intro"] = true
	f.dir.Coop["coop"] = true
	f.dir.Eboard["chair"] = "Chairman"
	f.dir.RTPUIDs = []string{"rtp", "intro"}

	testutil.CreateFreshman(t, tx, "alice1", "Alice", true)
	testutil.CreateFreshman(t, tx, "bob1", "Bob", true)
	testutil.CreateFreshman(t, tx, "carol1", "Carol", true)
	testutil.CreateFreshman(t, tx, "dan1", "Dan", false)

	roster := parseRoster(t, "Alice,TRUE,x,alice1\nBob,TRUE,x,bob1\nDan,FALSE,x,dan1\nZed,TRUE,x,zed1\n")
	day, err := season.ParseDate("09/12/2024")
	require.NoError(t, err)
	pStart, pEnd := season.Window(day)

	report, err := f.svc.CreatePackets(context.Background(), tx, roster, pStart, pEnd)
	require.NoError(t, err)

	require.Len(t, report.Packets, 3)
	assert.Equal(t, []string{"zed1"}, report.Skipped)
	assert.Equal(t, 2, report.Upperclass)
	assert.Equal(t, 6, report.UpperSigs)
	assert.Equal(t, 2+2+3, report.FreshSigs)

	assert.Len(t, f.mailer.Sent, 3)
	assert.Len(t, f.notifier.Started, 3)
	require.Len(t, f.notifier.Seasons, 1)
	assert.True(t, pStart.Equal(f.notifier.Seasons[0]))

	alice := report.Packets[0]
	assert.Equal(t, "alice1", alice.FreshmanUsername)
	got, err := tx.PacketByID(alice.ID)
	require.NoError(t, err)
	assert.True(t, pStart.Equal(got.Start))
	assert.True(t, pEnd.Equal(got.End))

	sigs := testutil.Signatures(t, tx, alice.ID)
	assert.Equal(t, []string{"chair", "rtp"}, upperMembers(sigs))
	assert.Equal(t, []string{"bob1", "carol1"}, freshMembers(sigs))
	assert.Empty(t, sigs.Misc)

	chair, ok := upperSig(sigs, "chair")
	require.True(t, ok)
	assert.False(t, chair.Signed)
	assert.Equal(t, directory.RoleFlags{Eboard: "Chairman"}, chair.RoleFlags)
	rtp, ok := upperSig(sigs, "rtp")
	require.True(t, ok)
	assert.Equal(t, directory.RoleFlags{ActiveRTP: true}, rtp.RoleFlags)

	// off floor freshmen still get a packet, signed by every on floor freshman
	dan := testutil.Signatures(t, tx, report.Packets[2].ID)
	assert.Equal(t, []string{"alice1", "bob1", "carol1"}, freshMembers(dan))
}

func TestCreatePackets_CollaboratorErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{name: "directory", setup: func(f *fixture) { f.dir.Err = boom }},
		{name: "mailer", setup: func(f *fixture) { f.mailer.Err = boom }},
		{name: "notifier", setup: func(f *fixture) { f.notifier.Err = boom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := testutil.Begin(t, testutil.OpenStore(t))
			f := newFixture("member")
			tt.setup(f)
			testutil.CreateFreshman(t, tx, "alice1", "Alice", true)

			pStart, pEnd := season.Window(now)
			_, err := f.svc.CreatePackets(context.Background(), tx, parseRoster(t, "Alice,TRUE,x,alice1\n"), pStart, pEnd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, boom))
		})
	}
}

func TestCreatePackets_DirectoryFailsBeforeNotifying(t *testing.T) {
	tx := testutil.Begin(t, testutil.OpenStore(t))
	f := newFixture("member")
	f.dir.Err = errors.New("ldap down")

	pStart, pEnd := season.Window(now)
	_, err := f.svc.CreatePackets(context.Background(), tx, packet.NewRoster(), pStart, pEnd)
	require.Error(t, err)
	assert.Empty(t, f.notifier.Seasons)
	assert.Empty(t, f.mailer.Sent)
}
