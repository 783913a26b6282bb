package gormdb

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/computersciencehouse/packet/core/packet"
)

var endColumn = clause.Column{Name: "end"} // reserved word, let gorm quote it

func unboilPackets(rows []packetRow) []packet.Packet {
	packets := make([]packet.Packet, 0, len(rows))
	for i := range rows {
		packets = append(packets, unboilPacket(&rows[i]))
	}
	return packets
}

func (t *tx) PacketByID(id int) (*packet.Packet, error) {
	var row packetRow
	if err := t.db.First(&row, "id = ?", id).Error; err != nil {
		return nil, trapNotFound(err, packet.ErrPacketNotFound, "selecting packet")
	}
	p := unboilPacket(&row)
	return &p, nil
}

func (t *tx) OpenPackets(now time.Time) ([]packet.Packet, error) {
	var rows []packetRow
	err := t.db.
		Where(clause.Gt{Column: endColumn, Value: now.UTC()}).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "selecting open packets")
	}
	return unboilPackets(rows), nil
}

func (t *tx) PacketsEndingBetween(from, to time.Time) ([]packet.Packet, error) {
	var rows []packetRow
	err := t.db.
		Where(clause.Gte{Column: endColumn, Value: from.UTC()}).
		Where(clause.Lt{Column: endColumn, Value: to.UTC()}).
		Order("freshman_username").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "selecting packets by end")
	}
	return unboilPackets(rows), nil
}

func (t *tx) CreatePacket(p *packet.Packet) error {
	row := boilPacket(p)
	row.ID = 0
	if err := t.db.Create(row).Error; err != nil {
		return errors.Wrap(err, "inserting packet")
	}
	*p = unboilPacket(row)
	return nil
}

func (t *tx) UpdatePacketEnd(id int, end time.Time) error {
	res := t.db.Model(&packetRow{}).Where("id = ?", id).Update("end", end.UTC())
	if res.Error != nil {
		return errors.Wrap(res.Error, "updating packet end")
	}
	if res.RowsAffected == 0 {
		return packet.ErrPacketNotFound
	}
	return nil
}
