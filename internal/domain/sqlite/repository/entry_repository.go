package repository

import (
	"errors"
	"strings"

	"entrybase/internal/domain/entity"
	"entrybase/internal/domain/query"

	"gorm.io/gorm"
)

type DefaultEntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *DefaultEntryRepository {
	return &DefaultEntryRepository{db: db}
}

func (d *DefaultEntryRepository) FindByID(id int64) (*entity.Entry, error) {
	var entry entity.Entry
	err := d.db.Preload("Author").First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindPage returns one page of the filtered, sorted set plus the total count
// of the whole filtered set. An out-of-range page yields an empty slice and
// the true count.
func (d *DefaultEntryRepository) FindPage(opts query.Options) ([]*entity.Entry, int64, error) {
	var count int64
	if err := d.filtered(opts).Model(&entity.Entry{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var entries []*entity.Entry
	err := d.filtered(opts).
		Preload("Author").
		Order(opts.Sort.Clause()).
		Limit(opts.Pagination.Limit).
		Offset(opts.Pagination.Offset()).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

// FindAllFiltered returns the entire filtered set sorted, without pagination.
// Used by the search operation, which reports a plain count.
func (d *DefaultEntryRepository) FindAllFiltered(opts query.Options) ([]*entity.Entry, error) {
	var entries []*entity.Entry
	err := d.filtered(opts).
		Preload("Author").
		Order(opts.Sort.Clause()).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (d *DefaultEntryRepository) Save(entry *entity.Entry) error {
	return d.db.Save(entry).Error
}

func (d *DefaultEntryRepository) Delete(entry *entity.Entry) error {
	return d.db.Delete(entry).Error
}

// IncrementViews bumps the view counter with a single UPDATE expression, so
// concurrent reads never lose increments.
func (d *DefaultEntryRepository) IncrementViews(id int64) error {
	return d.db.Model(&entity.Entry{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (d *DefaultEntryRepository) CountAll() (int64, error) {
	var count int64
	err := d.db.Model(&entity.Entry{}).Count(&count).Error
	return count, err
}

// AuthorCount is one row of the per-author aggregate for the stats dashboard.
type AuthorCount struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	EntryCount int64  `json:"entryCount"`
}

func (d *DefaultEntryRepository) CountByAuthor() ([]*AuthorCount, error) {
	var rows []*AuthorCount
	err := d.db.
		Raw(`SELECT u.username AS username, u.email AS email, COUNT(e.id) AS entry_count
		     FROM entries e JOIN users u ON u.id = e.author_id
		     GROUP BY e.author_id
		     ORDER BY entry_count DESC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AllTags returns the stored tag strings of every entry. Tag frequencies are
// aggregated in Go since the space-joined encoding is opaque to SQL.
func (d *DefaultEntryRepository) AllTags() ([]string, error) {
	var tags []string
	err := d.db.Model(&entity.Entry{}).
		Where("tags <> ''").
		Pluck("tags", &tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// DayCount is one row of the entries-over-time aggregate.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// CountPerDaySince groups entry creations by UTC day, oldest first.
func (d *DefaultEntryRepository) CountPerDaySince(epochMillis int64) ([]*DayCount, error) {
	var rows []*DayCount
	err := d.db.
		Raw(`SELECT date(created_at / 1000, 'unixepoch') AS date, COUNT(*) AS count
		     FROM entries
		     WHERE created_at >= ?
		     GROUP BY date
		     ORDER BY date ASC`, epochMillis).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// filtered builds the WHERE clauses shared by listing and counting: scope,
// free-text term (title OR content, case-insensitive) and tag intersection
// over the space-joined tag string. Term and tags compose with AND.
func (d *DefaultEntryRepository) filtered(opts query.Options) *gorm.DB {
	tx := d.db.Session(&gorm.Session{})

	if !opts.Scope.Unrestricted() {
		tx = tx.Where("author_id = ?", opts.Scope.AuthorID)
	}

	if opts.Term != "" {
		pattern := "%" + strings.ToLower(opts.Term) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
	}

	if len(opts.Tags) > 0 {
		conds := make([]string, len(opts.Tags))
		args := make([]any, len(opts.Tags))
		for i, tag := range opts.Tags {
			conds[i] = "(' ' || tags || ' ') LIKE ?"
			args[i] = "% " + tag + " %"
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	return tx
}
