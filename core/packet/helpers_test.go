package packet_test

import (
	"time"

	"github.com/computersciencehouse/packet/core/packet"
	testutil "github.com/computersciencehouse/packet/tests"
)

var (
	now    = time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	season = packet.SeasonConfig{StartHour: 19, EndHour: 21, DurationDays: 14, Location: time.UTC}

	openEnd   = now.Add(7 * 24 * time.Hour)
	closedEnd = now.Add(-24 * time.Hour)
	start     = now.Add(-7 * 24 * time.Hour)
)

type fixture struct {
	svc      *packet.Service
	dir      *testutil.FakeDirectory
	mailer   *testutil.RecordingMailer
	notifier *testutil.RecordingNotifier
}

func newFixture(uids ...string) *fixture {
	f := &fixture{
		dir:      testutil.NewFakeDirectory(uids...),
		mailer:   new(testutil.RecordingMailer),
		notifier: new(testutil.RecordingNotifier),
	}
	scorer := packet.FlatScorer{RequiredMisc: packet.DefaultRequiredMisc}
	f.svc = packet.NewService(f.dir, f.mailer, f.notifier, scorer, season)
	return f
}

func upperMembers(sigs *packet.Signatures) []string {
	names := make([]string, 0, len(sigs.Upper))
	for _, sig := range sigs.Upper {
		names = append(names, sig.Member)
	}
	return names
}

func freshMembers(sigs *packet.Signatures) []string {
	names := make([]string, 0, len(sigs.Fresh))
	for _, sig := range sigs.Fresh {
		names = append(names, sig.FreshmanUsername)
	}
	return names
}

func miscMembers(sigs *packet.Signatures) []string {
	names := make([]string, 0, len(sigs.Misc))
	for _, sig := range sigs.Misc {
		names = append(names, sig.Member)
	}
	return names
}

func upperSig(sigs *packet.Signatures, member string) (packet.UpperSignature, bool) {
	for _, sig := range sigs.Upper {
		if sig.Member == member {
			return sig, true
		}
	}
	return packet.UpperSignature{}, false
}
