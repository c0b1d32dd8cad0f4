package db

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/balkashynov/vibetrack/internal/models"
)

// CreateDiscipline creates a discipline at the end of the list
func (s *Store) CreateDiscipline(ctx context.Context, name, colorTag string) (*models.Discipline, error) {
	name, err := models.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if colorTag == "" {
		colorTag = models.DefaultColorTag
	}

	var discipline models.Discipline
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		dup, err := isDuplicateName(tx, name, 0)
		if err != nil {
			return err
		}
		if dup {
			return models.ErrDuplicateName
		}

		var count int64
		if err := tx.Model(&models.Discipline{}).Count(&count).Error; err != nil {
			return err
		}

		discipline = models.Discipline{
			Name:      name,
			ColorTag:  colorTag,
			SortOrder: int(count),
		}
		err = tx.Create(&discipline).Error
		if isUniqueViolation(err) {
			return models.ErrDuplicateName
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &discipline, nil
}

// UpdateDiscipline renames and recolors a discipline in place.
// An empty colorTag keeps the current one.
func (s *Store) UpdateDiscipline(ctx context.Context, id uint, name, colorTag string) (*models.Discipline, error) {
	name, err := models.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	var discipline models.Discipline
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&discipline, id).Error; err != nil {
			return notFound(err)
		}

		dup, err := isDuplicateName(tx, name, id)
		if err != nil {
			return err
		}
		if dup {
			return models.ErrDuplicateName
		}

		discipline.Name = name
		if colorTag != "" {
			discipline.ColorTag = colorTag
		}
		err = tx.Save(&discipline).Error
		if isUniqueViolation(err) {
			return models.ErrDuplicateName
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &discipline, nil
}

// DeleteDiscipline removes a discipline and all of its sessions
func (s *Store) DeleteDiscipline(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var discipline models.Discipline
		if err := tx.First(&discipline, id).Error; err != nil {
			return notFound(err)
		}

		var running int64
		if err := tx.Model(&models.Session{}).
			Where("discipline_id = ? AND is_running AND ended_at IS NULL", id).
			Count(&running).Error; err != nil {
			return err
		}
		if running > 0 {
			return models.ErrSessionActive
		}

		result := tx.Where("discipline_id = ?", id).Delete(&models.Session{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete sessions: %w", result.Error)
		}
		removed = result.RowsAffected

		return tx.Delete(&discipline).Error
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// MoveDiscipline moves a discipline to index and renumbers the list from zero
func (s *Store) MoveDiscipline(ctx context.Context, id uint, index int) ([]models.Discipline, error) {
	var ordered []models.Discipline
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var all []models.Discipline
		if err := tx.Order("sort_order ASC, id ASC").Find(&all).Error; err != nil {
			return err
		}

		from := -1
		for i, d := range all {
			if d.ID == id {
				from = i
				break
			}
		}
		if from < 0 {
			return models.ErrNotFound
		}

		index = max(0, min(index, len(all)-1))
		moved := all[from]
		all = slices.Delete(all, from, from+1)
		all = slices.Insert(all, index, moved)

		for i := range all {
			if all[i].SortOrder == i {
				continue
			}
			all[i].SortOrder = i
			if err := tx.Model(&all[i]).Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		ordered = all
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ordered, nil
}

// ListDisciplines returns all disciplines in list order
func (s *Store) ListDisciplines(ctx context.Context) ([]models.Discipline, error) {
	var disciplines []models.Discipline
	if err := s.conn(ctx).Order("sort_order ASC, id ASC").Find(&disciplines).Error; err != nil {
		return nil, err
	}
	return disciplines, nil
}

// GetDiscipline retrieves a discipline by ID
func (s *Store) GetDiscipline(ctx context.Context, id uint) (*models.Discipline, error) {
	var discipline models.Discipline
	if err := s.conn(ctx).First(&discipline, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &discipline, nil
}

// isDuplicateName checks for another discipline with exactly this name
func isDuplicateName(tx *gorm.DB, name string, excludeID uint) (bool, error) {
	query := tx.Model(&models.Discipline{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
