package packet

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// OpenPacket returns packet `id` if it is still open at `now`.
func (svc *Service) OpenPacket(_ context.Context, tx Tx, id int, now time.Time) (*Packet, error) {
	p, err := tx.PacketByID(id)
	if err != nil {
		return nil, err
	}
	if !p.IsOpen(now) {
		return p, ErrPacketClosed
	}
	return p, nil
}

// ExtendPacket moves the end of an open packet to newEnd.
func (svc *Service) ExtendPacket(ctx context.Context, tx Tx, id int, newEnd, now time.Time) error {
	if _, err := svc.OpenPacket(ctx, tx, id, now); err != nil {
		return err
	}
	if err := tx.UpdatePacketEnd(id, newEnd); err != nil {
		return errors.Wrapf(err, "extending packet %d", id)
	}
	return nil
}

// RemoveMemberSignature unsigns member's upper signature, or deletes their misc signature.
func (svc *Service) RemoveMemberSignature(ctx context.Context, tx Tx, id int, member string, now time.Time) error {
	if _, err := svc.OpenPacket(ctx, tx, id, now); err != nil {
		return err
	}

	sig, err := tx.UpperSignature(id, member)
	switch {
	case err == nil:
		sig.Signed = false
		sig.Updated = now
		return errors.Wrap(tx.SaveUpperSignature(sig), "unsigning upper signature")
	case errors.Is(err, ErrSignatureNotFound):
	default:
		return err
	}

	n, err := tx.DeleteMiscSignature(id, member)
	if err != nil {
		return errors.Wrap(err, "deleting misc signature")
	}
	if n != 1 {
		return ErrSignatureNotFound
	}
	return nil
}

// RemoveFreshmanSignature unsigns the fresh signature of `username`.
func (svc *Service) RemoveFreshmanSignature(ctx context.Context, tx Tx, id int, username string, now time.Time) error {
	if _, err := svc.OpenPacket(ctx, tx, id, now); err != nil {
		return err
	}

	sig, err := tx.FreshSignature(id, username)
	if errors.Is(err, ErrSignatureNotFound) {
		return ErrNotOnFloor
	} else if err != nil {
		return err
	}
	sig.Signed = false
	sig.Updated = now
	return errors.Wrap(tx.SaveFreshSignature(sig), "unsigning fresh signature")
}
