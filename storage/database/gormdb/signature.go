package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/computersciencehouse/packet/core/packet"
)

func (t *tx) Signatures(packetID int) (*packet.Signatures, error) {
	var (
		upper []upperSignatureRow
		fresh []freshSignatureRow
		misc  []miscSignatureRow
	)
	if err := t.db.Where("packet_id = ?", packetID).Order("member").Find(&upper).Error; err != nil {
		return nil, errors.Wrap(err, "selecting upper signatures")
	}
	if err := t.db.Where("packet_id = ?", packetID).Order("freshman_username").Find(&fresh).Error; err != nil {
		return nil, errors.Wrap(err, "selecting fresh signatures")
	}
	if err := t.db.Where("packet_id = ?", packetID).Order("member").Find(&misc).Error; err != nil {
		return nil, errors.Wrap(err, "selecting misc signatures")
	}

	sigs := &packet.Signatures{
		Upper: make([]packet.UpperSignature, 0, len(upper)),
		Fresh: make([]packet.FreshSignature, 0, len(fresh)),
		Misc:  make([]packet.MiscSignature, 0, len(misc)),
	}
	for i := range upper {
		sigs.Upper = append(sigs.Upper, unboilUpperSignature(&upper[i]))
	}
	for i := range fresh {
		sigs.Fresh = append(sigs.Fresh, unboilFreshSignature(&fresh[i]))
	}
	for i := range misc {
		sigs.Misc = append(sigs.Misc, unboilMiscSignature(&misc[i]))
	}
	return sigs, nil
}

func (t *tx) UpperSignature(packetID int, member string) (*packet.UpperSignature, error) {
	var row upperSignatureRow
	if err := t.db.First(&row, "packet_id = ? AND member = ?", packetID, member).Error; err != nil {
		return nil, trapNotFound(err, packet.ErrSignatureNotFound, "selecting upper signature")
	}
	sig := unboilUpperSignature(&row)
	return &sig, nil
}

// SaveUpperSignature inserts the signature or updates the existing one.
func (t *tx) SaveUpperSignature(sig *packet.UpperSignature) error {
	row := boilUpperSignature(sig)
	err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "packet_id"}, {Name: "member"}},
		UpdateAll: true,
	}).Create(row).Error
	return errors.Wrap(err, "saving upper signature")
}

func (t *tx) DeleteUpperSignature(packetID int, member string) error {
	err := t.db.Where("packet_id = ? AND member = ?", packetID, member).Delete(&upperSignatureRow{}).Error
	return errors.Wrap(err, "deleting upper signature")
}

func (t *tx) FreshSignature(packetID int, username string) (*packet.FreshSignature, error) {
	var row freshSignatureRow
	if err := t.db.First(&row, "packet_id = ? AND freshman_username = ?", packetID, username).Error; err != nil {
		return nil, trapNotFound(err, packet.ErrSignatureNotFound, "selecting fresh signature")
	}
	sig := unboilFreshSignature(&row)
	return &sig, nil
}

func (t *tx) CreateFreshSignature(sig *packet.FreshSignature) error {
	return errors.Wrap(t.db.Create(boilFreshSignature(sig)).Error, "inserting fresh signature")
}

func (t *tx) SaveFreshSignature(sig *packet.FreshSignature) error {
	row := boilFreshSignature(sig)
	res := t.db.Model(&freshSignatureRow{}).
		Where("packet_id = ? AND freshman_username = ?", row.PacketID, row.FreshmanUsername).
		Updates(map[string]interface{}{"signed": row.Signed, "updated": row.Updated})
	if res.Error != nil {
		return errors.Wrap(res.Error, "updating fresh signature")
	}
	if res.RowsAffected == 0 {
		return packet.ErrSignatureNotFound
	}
	return nil
}

func (t *tx) DeleteOffFloorFreshSignatures(packetID int) (int, error) {
	offFloor := t.db.Model(&freshmanRow{}).Select("rit_username").Where("onfloor = ?", false)
	res := t.db.Where("packet_id = ? AND freshman_username IN (?)", packetID, offFloor).Delete(&freshSignatureRow{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deleting off floor fresh signatures")
	}
	return int(res.RowsAffected), nil
}

func (t *tx) CreateMiscSignature(sig *packet.MiscSignature) error {
	return errors.Wrap(t.db.Create(boilMiscSignature(sig)).Error, "inserting misc signature")
}

func (t *tx) DeleteMiscSignature(packetID int, member string) (int, error) {
	res := t.db.Where("packet_id = ? AND member = ?", packetID, member).Delete(&miscSignatureRow{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deleting misc signature")
	}
	return int(res.RowsAffected), nil
}
