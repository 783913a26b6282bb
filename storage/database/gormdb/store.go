// Package gormdb implements packet.Store on top of gorm.
package gormdb

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/computersciencehouse/packet/core/packet"
)

type Store struct {
	db *gorm.DB
}

var _ packet.Store = (*Store)(nil) // interface compliance check

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (packet.Tx, error) {
	db := s.db.WithContext(ctx).Begin()
	if db.Error != nil {
		return nil, errors.Wrap(db.Error, "beginning transaction")
	}
	return &tx{db: db}, nil
}

type tx struct {
	db       *gorm.DB
	finished bool
}

var _ packet.Tx = (*tx)(nil)

func (t *tx) Commit() error {
	if t.finished {
		return nil
	}
	if err := t.db.Commit().Error; err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	t.finished = true
	return nil
}

// Rollback is a no-op once the transaction is finished, so it is safe to defer.
func (t *tx) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if err := t.db.Rollback().Error; err != nil {
		return errors.Wrap(err, "rolling back transaction")
	}
	return nil
}

func trapNotFound(err error, notFound error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errors.Wrap(err, msg)
}
