package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/computersciencehouse/packet/core/packet"
)

func unboilFreshmen(rows []freshmanRow) []packet.Freshman {
	freshmen := make([]packet.Freshman, 0, len(rows))
	for i := range rows {
		freshmen = append(freshmen, unboilFreshman(&rows[i]))
	}
	return freshmen
}

func (t *tx) AllFreshmen() ([]packet.Freshman, error) {
	var rows []freshmanRow
	if err := t.db.Order("rit_username").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "selecting freshmen")
	}
	return unboilFreshmen(rows), nil
}

func (t *tx) FreshmenByUsernames(usernames []string) ([]packet.Freshman, error) {
	if len(usernames) == 0 {
		return []packet.Freshman{}, nil
	}
	var rows []freshmanRow
	if err := t.db.Where("rit_username IN ?", usernames).Order("rit_username").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "selecting freshmen")
	}
	return unboilFreshmen(rows), nil
}

func (t *tx) OnFloorFreshmen() ([]packet.Freshman, error) {
	var rows []freshmanRow
	if err := t.db.Where("onfloor = ?", true).Order("rit_username").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "selecting on floor freshmen")
	}
	return unboilFreshmen(rows), nil
}

// SaveFreshman inserts the freshman or updates the existing record.
func (t *tx) SaveFreshman(f *packet.Freshman) error {
	row := boilFreshman(f)
	err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rit_username"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "onfloor"}),
	}).Create(row).Error
	return errors.Wrap(err, "saving freshman")
}
