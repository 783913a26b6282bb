package packet

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/computersciencehouse/packet/core/directory"
)

// DirectorySyncReport counts the changes made by each directory sync phase.
type DirectorySyncReport struct {
	Packets     int
	Refreshed   int // upper signatures whose role flags changed
	Demoted     int // upper signatures removed for members no longer eligible
	MovedToMisc int // demoted signatures that were signed and kept as misc
	Reactivated int // misc signatures turned back into signed upper signatures
	Added       int // upper signatures created for newly eligible members
}

// SyncDirectory reconciles the upper and misc signatures of every packet that has
// not ended yet with the current set of upperclassmen.
func (svc *Service) SyncDirectory(ctx context.Context, tx Tx, now time.Time) (*DirectorySyncReport, error) {
	upper, err := directory.FetchUpperclassmen(ctx, svc.dir)
	if err != nil {
		return nil, err
	}

	packets, err := tx.OpenPackets(now)
	if err != nil {
		return nil, errors.Wrap(err, "listing open packets")
	}

	report := new(DirectorySyncReport)
	for _, p := range packets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := svc.syncPacket(tx, p, upper, now, report); err != nil {
			return nil, errors.Wrapf(err, "syncing packet %d", p.ID)
		}
		report.Packets++
	}
	return report, nil
}

func (svc *Service) syncPacket(tx Tx, p Packet, upper *directory.Upperclassmen, now time.Time, report *DirectorySyncReport) error {
	sigs, err := tx.Signatures(p.ID)
	if err != nil {
		return err
	}

	kept := make(map[string]*UpperSignature, len(sigs.Upper))
	misc := make(map[string]struct{}, len(sigs.Misc))
	for _, sig := range sigs.Misc {
		misc[sig.Member] = struct{}{}
	}

	// refresh role flags of eligible members, demote the others
	for i := range sigs.Upper {
		sig := &sigs.Upper[i]
		if flags, ok := upper.Flags(sig.Member); ok {
			kept[sig.Member] = sig
			if sig.RoleFlags == flags {
				continue
			}
			sig.RoleFlags = flags
			sig.Updated = now
			if err := tx.SaveUpperSignature(sig); err != nil {
				return err
			}
			report.Refreshed++
			continue
		}

		if err := tx.DeleteUpperSignature(p.ID, sig.Member); err != nil {
			return err
		}
		report.Demoted++
		if !sig.Signed {
			continue
		}
		if _, ok := misc[sig.Member]; ok {
			continue
		}
		if err := tx.CreateMiscSignature(&MiscSignature{PacketID: p.ID, Member: sig.Member, Updated: now}); err != nil {
			return err
		}
		report.MovedToMisc++
	}

	// misc signers that became eligible again
	for _, m := range sigs.Misc {
		flags, ok := upper.Flags(m.Member)
		if !ok {
			continue
		}
		if _, err := tx.DeleteMiscSignature(p.ID, m.Member); err != nil {
			return err
		}
		sig, ok := kept[m.Member]
		if !ok {
			sig = &UpperSignature{PacketID: p.ID, Member: m.Member}
			kept[m.Member] = sig
		}
		sig.Signed = true
		sig.RoleFlags = flags
		sig.Updated = now
		if err := tx.SaveUpperSignature(sig); err != nil {
			return err
		}
		report.Reactivated++
	}

	for _, uid := range upper.UIDs() {
		if _, ok := kept[uid]; ok {
			continue
		}
		flags, _ := upper.Flags(uid)
		sig := UpperSignature{PacketID: p.ID, Member: uid, RoleFlags: flags, Updated: now}
		if err := tx.SaveUpperSignature(&sig); err != nil {
			return err
		}
		report.Added++
	}
	return nil
}
