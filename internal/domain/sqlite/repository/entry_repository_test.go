package repository_test

import (
	"fmt"
	"testing"

	driver "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"entrybase/internal/domain/entity"
	"entrybase/internal/domain/query"
	"entrybase/internal/domain/sqlite"
	"entrybase/internal/domain/sqlite/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(driver.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, sqlite.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id int64, name string) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:       id,
		Username: name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     entity.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedEntry(t *testing.T, repo *repository.DefaultEntryRepository, authorID int64, title, tags string, createdAt int64) *entity.Entry {
	t.Helper()

	entry := &entity.Entry{
		Title:     title,
		Content:   "content of " + title,
		Tags:      tags,
		AuthorID:  authorID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, repo.Save(entry))
	return entry
}

func TestEntryRepository_FindByID_PopulatesAuthor(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEntryRepository(db)
	seedUser(t, db, 1, "ana")
	created := seedEntry(t, repo, 1, "hello", "go", 1000)

	entry, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "ana", entry.Author.Username)

	// Absent id is a nil entry, not an error.
	entry, err = repo.FindByID(9999)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestEntryRepository_IncrementViews(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEntryRepository(db)
	seedUser(t, db, 1, "ana")
	created := seedEntry(t, repo, 1, "hello", "", 1000)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(created.ID))
	}

	entry, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, entry.Views)
}

func TestEntryRepository_FindPage_Pagination(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEntryRepository(db)
	seedUser(t, db, 1, "ana")
	for i := 0; i < 25; i++ {
		seedEntry(t, repo, 1, fmt.Sprintf("entry %02d", i), "", int64(1000+i))
	}

	opts := query.Options{
		Scope:      query.ScopeOwner(1),
		Sort:       query.ParseSort("-createdAt"),
		Pagination: query.NewPagination(3, 10, 10),
	}

	entries, count, err := repo.FindPage(opts)
	require.NoError(t, err)
	assert.EqualValues(t, 25, count)
	assert.Len(t, entries, 5, "last page holds the remainder")
	assert.Equal(t, 3, opts.Pagination.TotalPages(count))

	// Out-of-range page: empty slice, true count, no error.
	opts.Pagination = query.NewPagination(9, 10, 10)
	entries, count, err = repo.FindPage(opts)
	require.NoError(t, err)
	assert.EqualValues(t, 25, count)
	assert.Empty(t, entries)
}

func TestEntryRepository_FindPage_ScopeAndSort(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEntryRepository(db)
	seedUser(t, db, 1, "ana")
	seedUser(t, db, 2, "bob")
	seedEntry(t, repo, 1, "oldest", "", 1000)
	seedEntry(t, repo, 1, "newest", "", 3000)
	seedEntry(t, repo, 2, "other author", "", 2000)

	opts := query.Options{
		Scope:      query.ScopeOwner(1),
		Sort:       query.ParseSort(""),
		Pagination: query.NewPagination(1, 10, 10),
	}

	entries, count, err := repo.FindPage(opts)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, entries, 2)
	assert.Equal(t, "newest", entries[0].Title, "default sort is newest first")

	opts.Scope = query.ScopeAll()
	_, count, err = repo.FindPage(opts)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count, "unrestricted scope spans all authors")
}

func TestEntryRepository_FindAllFiltered_TermAndTags(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEntryRepository(db)
	seedUser(t, db, 1, "ana")
	seedEntry(t, repo, 1, "Learning Go", "go tutorial", 1000)
	seedEntry(t, repo, 1, "Cooking rice", "food", 2000)
	seedEntry(t, repo, 1, "Go concurrency patterns", "go advanced", 3000)

	base := query.Options{
		Scope: query.ScopeOwner(1),
		Sort:  query.ParseSort(""),
	}

	// Case-insensitive substring over title OR content.
	opts := base
	opts.Term = "gO"
	entries, err := repo.FindAllFiltered(opts)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Tag intersection, OR across requested tags.
	opts = base
	opts.Tags = []string{"food", "advanced"}
	entries, err = repo.FindAllFiltered(opts)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Substring of a tag must not match: "go" != "good".
	seedEntry(t, repo, 1, "Padding check", "good", 4000)
	opts = base
	opts.Tags = []string{"go"}
	entries, err = repo.FindAllFiltered(opts)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Term AND tags compose.
	opts = base
	opts.Term = "patterns"
	opts.Tags = []string{"go", "food"}
	entries, err = repo.FindAllFiltered(opts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Go concurrency patterns", entries[0].Title)
}

func TestEntryRepository_Aggregates(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEntryRepository(db)
	seedUser(t, db, 1, "ana")
	seedUser(t, db, 2, "bob")
	seedEntry(t, repo, 1, "a1", "go", 1000)
	seedEntry(t, repo, 1, "a2", "go food", 2000)
	seedEntry(t, repo, 2, "b1", "", 3000)

	count, err := repo.CountAll()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	byAuthor, err := repo.CountByAuthor()
	require.NoError(t, err)
	require.Len(t, byAuthor, 2)
	assert.Equal(t, "ana", byAuthor[0].Username)
	assert.EqualValues(t, 2, byAuthor[0].EntryCount)

	tags, err := repo.AllTags()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "go food"}, tags)

	days, err := repo.CountPerDaySince(0)
	require.NoError(t, err)
	require.Len(t, days, 1, "epoch-millis timestamps collapse to one day")
	assert.EqualValues(t, 3, days[0].Count)
}
