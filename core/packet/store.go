package packet

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrPacketNotFound    = errors.New("packet not found")
	ErrPacketClosed      = errors.New("packet is closed")
	ErrSignatureNotFound = errors.New("signature not found")
	ErrNotOnFloor        = errors.New("freshman is not on floor")
	ErrFreshmanNotFound  = errors.New("freshman not found")
)

type (
	// Store opens units of work against the packet database.
	Store interface {
		Begin(ctx context.Context) (Tx, error)
	}

	// Tx is a unit of work. Every domain operation runs inside exactly one Tx,
	// which the caller commits once at the end.
	Tx interface {
		Commit() error
		Rollback() error

		AllFreshmen() ([]Freshman, error)
		FreshmenByUsernames(usernames []string) ([]Freshman, error)
		OnFloorFreshmen() ([]Freshman, error)
		SaveFreshman(f *Freshman) error

		PacketByID(id int) (*Packet, error)
		OpenPackets(now time.Time) ([]Packet, error)
		PacketsEndingBetween(from, to time.Time) ([]Packet, error)
		CreatePacket(p *Packet) error
		UpdatePacketEnd(id int, end time.Time) error

		Signatures(packetID int) (*Signatures, error)

		UpperSignature(packetID int, member string) (*UpperSignature, error)
		SaveUpperSignature(sig *UpperSignature) error
		DeleteUpperSignature(packetID int, member string) error

		FreshSignature(packetID int, username string) (*FreshSignature, error)
		CreateFreshSignature(sig *FreshSignature) error
		SaveFreshSignature(sig *FreshSignature) error
		// DeleteOffFloorFreshSignatures removes the packet's fresh signatures whose signer is not on floor.
		DeleteOffFloorFreshSignatures(packetID int) (int, error)

		CreateMiscSignature(sig *MiscSignature) error
		// DeleteMiscSignature returns the number of rows removed.
		DeleteMiscSignature(packetID int, member string) (int, error)
	}
)
