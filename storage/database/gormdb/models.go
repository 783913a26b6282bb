package gormdb

import (
	"time"

	"github.com/computersciencehouse/packet/core/directory"
	"github.com/computersciencehouse/packet/core/packet"
)

type (
	freshmanRow struct {
		RitUsername string `gorm:"column:rit_username;primaryKey"`
		Name        string `gorm:"column:name"`
		Onfloor     bool   `gorm:"column:onfloor"`
	}

	packetRow struct {
		ID               int       `gorm:"column:id;primaryKey"`
		FreshmanUsername string    `gorm:"column:freshman_username"`
		Start            time.Time `gorm:"column:start"`
		End              time.Time `gorm:"column:end"`
	}

	upperSignatureRow struct {
		PacketID   int       `gorm:"column:packet_id;primaryKey;autoIncrement:false"`
		Member     string    `gorm:"column:member;primaryKey"`
		Signed     bool      `gorm:"column:signed"`
		Eboard     *string   `gorm:"column:eboard"`
		ActiveRTP  bool      `gorm:"column:active_rtp"`
		ThreeDA    bool      `gorm:"column:three_da"`
		Webmaster  bool      `gorm:"column:webmaster"`
		CM         bool      `gorm:"column:c_m"`
		DrinkAdmin bool      `gorm:"column:drink_admin"`
		Updated    time.Time `gorm:"column:updated"`
	}

	freshSignatureRow struct {
		PacketID         int       `gorm:"column:packet_id;primaryKey;autoIncrement:false"`
		FreshmanUsername string    `gorm:"column:freshman_username;primaryKey"`
		Signed           bool      `gorm:"column:signed"`
		Updated          time.Time `gorm:"column:updated"`
	}

	miscSignatureRow struct {
		PacketID int       `gorm:"column:packet_id;primaryKey;autoIncrement:false"`
		Member   string    `gorm:"column:member;primaryKey"`
		Updated  time.Time `gorm:"column:updated"`
	}
)

func (freshmanRow) TableName() string       { return "freshman" }
func (packetRow) TableName() string         { return "packet" }
func (upperSignatureRow) TableName() string { return "signature_upper" }
func (freshSignatureRow) TableName() string { return "signature_fresh" }
func (miscSignatureRow) TableName() string  { return "signature_misc" }

// stamp returns t in UTC, or the current time if t is unset.
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func boilFreshman(f *packet.Freshman) *freshmanRow {
	return &freshmanRow{RitUsername: f.Username, Name: f.Name, Onfloor: f.OnFloor}
}

func unboilFreshman(r *freshmanRow) packet.Freshman {
	return packet.Freshman{Username: r.RitUsername, Name: r.Name, OnFloor: r.Onfloor}
}

func boilPacket(p *packet.Packet) *packetRow {
	return &packetRow{
		ID:               p.ID,
		FreshmanUsername: p.FreshmanUsername,
		Start:            p.Start.UTC(),
		End:              p.End.UTC(),
	}
}

func unboilPacket(r *packetRow) packet.Packet {
	return packet.Packet{
		ID:               r.ID,
		FreshmanUsername: r.FreshmanUsername,
		Start:            r.Start.UTC(),
		End:              r.End.UTC(),
	}
}

func boilUpperSignature(sig *packet.UpperSignature) *upperSignatureRow {
	row := &upperSignatureRow{
		PacketID:   sig.PacketID,
		Member:     sig.Member,
		Signed:     sig.Signed,
		ActiveRTP:  sig.ActiveRTP,
		ThreeDA:    sig.ThreeDA,
		Webmaster:  sig.Webmaster,
		CM:         sig.CM,
		DrinkAdmin: sig.DrinkAdmin,
		Updated:    stamp(sig.Updated),
	}
	if sig.Eboard != "" {
		eboard := sig.Eboard
		row.Eboard = &eboard
	}
	return row
}

func unboilUpperSignature(r *upperSignatureRow) packet.UpperSignature {
	sig := packet.UpperSignature{
		PacketID: r.PacketID,
		Member:   r.Member,
		Signed:   r.Signed,
		RoleFlags: directory.RoleFlags{
			ActiveRTP:  r.ActiveRTP,
			ThreeDA:    r.ThreeDA,
			Webmaster:  r.Webmaster,
			CM:         r.CM,
			DrinkAdmin: r.DrinkAdmin,
		},
		Updated: r.Updated.UTC(),
	}
	if r.Eboard != nil {
		sig.Eboard = *r.Eboard
	}
	return sig
}

func boilFreshSignature(sig *packet.FreshSignature) *freshSignatureRow {
	return &freshSignatureRow{
		PacketID:         sig.PacketID,
		FreshmanUsername: sig.FreshmanUsername,
		Signed:           sig.Signed,
		Updated:          stamp(sig.Updated),
	}
}

func unboilFreshSignature(r *freshSignatureRow) packet.FreshSignature {
	return packet.FreshSignature{
		PacketID:         r.PacketID,
		FreshmanUsername: r.FreshmanUsername,
		Signed:           r.Signed,
		Updated:          r.Updated.UTC(),
	}
}

func boilMiscSignature(sig *packet.MiscSignature) *miscSignatureRow {
	return &miscSignatureRow{PacketID: sig.PacketID, Member: sig.Member, Updated: stamp(sig.Updated)}
}

func unboilMiscSignature(r *miscSignatureRow) packet.MiscSignature {
	return packet.MiscSignature{PacketID: r.PacketID, Member: r.Member, Updated: r.Updated.UTC()}
}
