package packet

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/computersciencehouse/packet/core/directory"
)

// SeasonReport summarises a packet season creation.
type SeasonReport struct {
	Packets    []Packet
	UpperSigs  int
	FreshSigs  int
	Skipped    []string // roster usernames with no freshman record
	Upperclass int
}

// CreatePackets opens a packet running from start to end for every roster freshman
// already known to the database, notifying each of them.
// Mail and push notifications already sent are not recalled if a later step fails.
func (svc *Service) CreatePackets(ctx context.Context, tx Tx, roster Roster, start, end time.Time) (*SeasonReport, error) {
	if !end.After(start) {
		return nil, errors.Errorf("season end %s is not after start %s", end, start)
	}

	upper, err := directory.FetchUpperclassmen(ctx, svc.dir)
	if err != nil {
		return nil, err
	}

	if err := svc.notifier.PacketsStarting(ctx, start); err != nil {
		return nil, errors.Wrap(err, "sending season start notification")
	}

	freshmen, err := tx.FreshmenByUsernames(roster.Usernames())
	if err != nil {
		return nil, errors.Wrap(err, "loading roster freshmen")
	}
	onFloor, err := tx.OnFloorFreshmen()
	if err != nil {
		return nil, errors.Wrap(err, "loading on floor freshmen")
	}

	report := &SeasonReport{Upperclass: upper.Len()}
	found := make(map[string]struct{}, len(freshmen))
	for _, f := range freshmen {
		found[f.Username] = struct{}{}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := Packet{FreshmanUsername: f.Username, Start: start, End: end}
		if err := tx.CreatePacket(&p); err != nil {
			return nil, errors.Wrapf(err, "creating packet for %s", f.Username)
		}
		if err := svc.mailer.SendStartPacketMail(ctx, p, f); err != nil {
			return nil, errors.Wrapf(err, "mailing %s", f.Username)
		}
		if err := svc.notifier.PacketStarting(ctx, p); err != nil {
			return nil, errors.Wrapf(err, "notifying %s", f.Username)
		}

		for _, uid := range upper.UIDs() {
			flags, _ := upper.Flags(uid)
			sig := UpperSignature{PacketID: p.ID, Member: uid, RoleFlags: flags}
			if err := tx.SaveUpperSignature(&sig); err != nil {
				return nil, errors.Wrapf(err, "adding %s to packet %d", uid, p.ID)
			}
			report.UpperSigs++
		}
		for _, other := range onFloor {
			if other.Username == f.Username {
				continue
			}
			sig := FreshSignature{PacketID: p.ID, FreshmanUsername: other.Username}
			if err := tx.CreateFreshSignature(&sig); err != nil {
				return nil, errors.Wrapf(err, "adding %s to packet %d", other.Username, p.ID)
			}
			report.FreshSigs++
		}
		report.Packets = append(report.Packets, p)
	}

	for _, username := range roster.Usernames() {
		if _, ok := found[username]; !ok {
			report.Skipped = append(report.Skipped, username)
		}
	}
	return report, nil
}
