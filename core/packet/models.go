package packet

import (
	"time"

	"github.com/computersciencehouse/packet/core/directory"
)

type (
	Freshman struct {
		Username string
		Name     string
		OnFloor  bool
	}

	Packet struct {
		ID               int
		FreshmanUsername string
		Start            time.Time
		End              time.Time
	}

	UpperSignature struct {
		PacketID int
		Member   string
		Signed   bool
		directory.RoleFlags
		Updated time.Time
	}

	FreshSignature struct {
		PacketID         int
		FreshmanUsername string
		Signed           bool
		Updated          time.Time
	}

	// MiscSignature exists only when signed.
	MiscSignature struct {
		PacketID int
		Member   string
		Updated  time.Time
	}

	// Signatures groups every signature of one packet.
	Signatures struct {
		Upper []UpperSignature
		Fresh []FreshSignature
		Misc  []MiscSignature
	}
)

// IsOpen reports whether the packet can still be signed or modified at `now`.
func (p Packet) IsOpen(now time.Time) bool {
	return now.Before(p.End)
}
