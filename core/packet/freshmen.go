package packet

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// SyncReport summarises a roster sync.
type SyncReport struct {
	Added             int
	Updated           int
	Departed          int
	FreshSigsAdded    int
	FreshSigsRemoved  int
	PacketsReconciled int
}

// SyncFreshmen makes the freshmen table match the roster, then reconciles the
// fresh signatures of every packet that has not ended yet.
func (svc *Service) SyncFreshmen(ctx context.Context, tx Tx, roster Roster, now time.Time) (*SyncReport, error) {
	report := new(SyncReport)

	known, err := tx.AllFreshmen()
	if err != nil {
		return nil, errors.Wrap(err, "listing freshmen")
	}
	inDB := make(map[string]Freshman, len(known))
	for _, f := range known {
		inDB[f.Username] = f
	}

	for _, entry := range roster.Entries() {
		f, ok := inDB[entry.Username]
		switch {
		case !ok:
			report.Added++
		case f.Name != entry.Name || f.OnFloor != entry.OnFloor:
			report.Updated++
		default:
			continue
		}
		f = Freshman{Username: entry.Username, Name: entry.Name, OnFloor: entry.OnFloor}
		if err := tx.SaveFreshman(&f); err != nil {
			return nil, errors.Wrapf(err, "saving freshman %s", f.Username)
		}
	}

	for _, f := range known {
		if _, ok := roster.Get(f.Username); ok || !f.OnFloor {
			continue
		}
		f.OnFloor = false
		if err := tx.SaveFreshman(&f); err != nil {
			return nil, errors.Wrapf(err, "saving freshman %s", f.Username)
		}
		report.Departed++
	}

	packets, err := tx.OpenPackets(now)
	if err != nil {
		return nil, errors.Wrap(err, "listing open packets")
	}
	for _, p := range packets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		removed, err := tx.DeleteOffFloorFreshSignatures(p.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "removing off floor signatures of packet %d", p.ID)
		}
		report.FreshSigsRemoved += removed

		sigs, err := tx.Signatures(p.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "loading signatures of packet %d", p.ID)
		}
		present := make(map[string]struct{}, len(sigs.Fresh))
		for _, sig := range sigs.Fresh {
			present[sig.FreshmanUsername] = struct{}{}
		}

		for _, entry := range roster.Entries() {
			if !entry.OnFloor || entry.Username == p.FreshmanUsername {
				continue
			}
			if _, ok := present[entry.Username]; ok {
				continue
			}
			sig := FreshSignature{PacketID: p.ID, FreshmanUsername: entry.Username, Updated: now}
			if err := tx.CreateFreshSignature(&sig); err != nil {
				return nil, errors.Wrapf(err, "adding %s to packet %d", entry.Username, p.ID)
			}
			report.FreshSigsAdded++
		}
		report.PacketsReconciled++
	}
	return report, nil
}
