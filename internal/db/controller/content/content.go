// Package content provides the persistence operations for content records.
// All store access for the API goes through Repository.
package content

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/content-api/content-api/internal/db/models"
	"github.com/content-api/content-api/internal/domain"
)

const (
	idOrder = "id"

	// likeEscape is accepted as ESCAPE character by mysql, postgres and sqlite alike.
	likeEscape      = "!"
	nameLikePattern = "name LIKE ? ESCAPE '" + likeEscape + "'"
)

// lockForUpdate holds the row from the existence check to the write.
// sqlite has no row locks and ignores the clause.
var lockForUpdate = clause.Locking{Strength: clause.LockingStrengthUpdate}

// updatedColumns are written by Update, nil location included.
var updatedColumns = []string{"Name", "Location"}

var likeEscaper = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// Repository reads and writes content records.
type Repository struct {
	db *gorm.DB
}

// New creates a Repository on top of db.
func New(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Repository{db: db}, nil
}

// Ping checks the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return translate(err)
	}

	return translate(sqlDB.PingContext(ctx))
}

// ListAll returns every record ordered by id.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Content, error) {
	var rows []models.Content

	if err := r.db.WithContext(ctx).Order(idOrder).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	return toDomainList(rows), nil
}

// GetByID retrieves a record by its id.
func (r *Repository) GetByID(ctx context.Context, id uint64) (domain.Content, error) {
	var row models.Content

	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return domain.Content{}, translate(err)
	}

	return toDomain(row), nil
}

// Create inserts a new record and returns it with the id assigned by the store.
// The unique index on name decides about duplicates, there is no pre-check.
func (r *Repository) Create(ctx context.Context, name string, location *string) (domain.Content, error) {
	row := models.Content{
		Name:     name,
		Location: location,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Content{}, translate(err)
	}

	return toDomain(row), nil
}

// Update overwrites name and location of the record with id.
// The row is locked from lookup to write, nothing is written on failure
// and a record deleted meanwhile is never re-inserted.
func (r *Repository) Update(ctx context.Context, id uint64, name string, location *string) (domain.Content, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Content

		if err := tx.Clauses(lockForUpdate).First(&row, id).Error; err != nil {
			return err
		}

		result := tx.Model(&row).
			Select(updatedColumns).
			Updates(models.Content{Name: name, Location: location})
		if result.Error != nil {
			return result.Error
		}

		// mysql reports 0 affected rows for an unchanged record as well
		if result.RowsAffected == 0 {
			return exists(tx, id)
		}

		return nil
	})
	if err != nil {
		return domain.Content{}, translate(err)
	}

	return domain.Content{ID: id, Name: name, Location: location}, nil
}

// Delete removes the record with id.
func (r *Repository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Content

		if err := tx.Clauses(lockForUpdate).First(&row, id).Error; err != nil {
			return err
		}

		result := tx.Delete(&row)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})

	return translate(err)
}

// exists returns gorm.ErrRecordNotFound if no record has id.
func exists(tx *gorm.DB, id uint64) error {
	var n int64

	if err := tx.Model(&models.Content{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}

	if n == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Search returns the records whose name contains substring, ordered by id.
// Wildcards in substring match literally, an empty substring matches everything.
// Case sensitivity follows the collation of the store.
func (r *Repository) Search(ctx context.Context, substring string) ([]domain.Content, error) {
	var rows []models.Content

	pattern := "%" + likeEscaper.Replace(substring) + "%"

	if err := r.db.WithContext(ctx).Where(nameLikePattern, pattern).Order(idOrder).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	return toDomainList(rows), nil
}

// Count returns the number of records.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64

	if err := r.db.WithContext(ctx).Model(&models.Content{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}

	return n, nil
}

// Insert stores records with their ids as given, used for bootstrap data.
// Either all records are stored or none.
func (r *Repository) Insert(ctx context.Context, items ...domain.Content) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]models.Content, 0, len(items))
	for _, item := range items {
		rows = append(rows, toModel(item))
	}

	return translate(r.db.WithContext(ctx).Create(&rows).Error)
}

func toModel(c domain.Content) models.Content {
	return models.Content{
		ID:       c.ID,
		Name:     c.Name,
		Location: c.Location,
	}
}

func toDomain(row models.Content) domain.Content {
	return domain.Content{
		ID:       row.ID,
		Name:     row.Name,
		Location: row.Location,
	}
}

func toDomainList(rows []models.Content) []domain.Content {
	out := make([]domain.Content, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}

	return out
}
