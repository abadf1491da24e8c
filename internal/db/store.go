package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"raycompile/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("profile not found")

// ProfileStore reads and writes Profile rows. The translation core never
// touches it; it only hands records to the CLI.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// List returns profiles ordered by sort key, then remark. A non-empty subid
// restricts the result to one subscription group.
func (s *ProfileStore) List(ctx context.Context, subid string) ([]model.Profile, error) {
	var profiles []model.Profile
	q := s.db.WithContext(ctx).Order("sort asc").Order("remark asc")
	if subid != "" {
		q = q.Where("subid = ?", subid)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (s *ProfileStore) Get(ctx context.Context, uuid string) (*model.Profile, error) {
	var p model.Profile
	err := s.db.WithContext(ctx).Where("uuid = ?", uuid).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uuid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", uuid, err)
	}
	return &p, nil
}

// FindByHash returns the stored profile pointing at the same endpoint.
func (s *ProfileStore) FindByHash(ctx context.Context, hash string) (*model.Profile, error) {
	var p model.Profile
	result := s.db.WithContext(ctx).Where("hash = ?", hash).Limit(1).Find(&p)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to look up hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Save inserts p or overwrites every column of the row with the same uuid.
func (s *ProfileStore) Save(ctx context.Context, p *model.Profile) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		UpdateAll: true,
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.UUID, err)
	}
	return nil
}

func (s *ProfileStore) Delete(ctx context.Context, uuid string) error {
	result := s.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.Profile{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile %s: %w", uuid, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, uuid)
	}
	return nil
}

// SetSpeed records a latency measurement in milliseconds, -1 for unreachable.
func (s *ProfileStore) SetSpeed(ctx context.Context, uuid string, speed int) error {
	result := s.db.WithContext(ctx).Model(&model.Profile{}).Where("uuid = ?", uuid).Update("speed", speed)
	if result.Error != nil {
		return fmt.Errorf("failed to update speed of %s: %w", uuid, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, uuid)
	}
	return nil
}

func (s *ProfileStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Profile{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// NextSort returns one past the largest sort key in use.
func (s *ProfileStore) NextSort(ctx context.Context) (int, error) {
	var top sql.NullInt64
	row := s.db.WithContext(ctx).Model(&model.Profile{}).Select("MAX(sort)").Row()
	if err := row.Scan(&top); err != nil {
		return 0, err
	}
	if !top.Valid {
		return 0, nil
	}
	return int(top.Int64) + 1, nil
}

// Import stores a freshly parsed profile. When a row with the same endpoint
// hash exists it is updated in place, keeping its uuid, sort key and last
// measured speed; otherwise p is appended after the last sort key.
func (s *ProfileStore) Import(ctx context.Context, p *model.Profile) (created bool, err error) {
	existing, err := s.FindByHash(ctx, p.Hash)
	switch {
	case err == nil:
		p.UUID = existing.UUID
		p.Sort = existing.Sort
		p.Speed = existing.Speed
		if p.SubID == "" {
			p.SubID = existing.SubID
		}
		return false, s.Save(ctx, p)
	case errors.Is(err, ErrNotFound):
		if p.Sort, err = s.NextSort(ctx); err != nil {
			return false, err
		}
		return true, s.Save(ctx, p)
	default:
		return false, err
	}
}
