package service_test

import (
	"fmt"
	"testing"

	"entrybase/internal/contract"
	"entrybase/internal/domain/entity"
	"entrybase/internal/domain/policy"
	"entrybase/internal/domain/query"
	"entrybase/internal/service"
	"entrybase/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEntryRepository is a mock implementation of service.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByID(id int64) (*entity.Entry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindPage(opts query.Options) ([]*entity.Entry, int64, error) {
	args := m.Called(opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryRepository) FindAllFiltered(opts query.Options) ([]*entity.Entry, error) {
	args := m.Called(opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Entry), args.Error(1)
}

func (m *MockEntryRepository) Save(entry *entity.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(entry *entity.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockEntryRepository) IncrementViews(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func newEntryService(repo *MockEntryRepository) *service.DefaultEntryService {
	validate := validator.New()
	validators.Register(validate)
	return service.NewEntryService(repo, policy.NewEntryPolicy(), validate)
}

var (
	author    = &entity.User{ID: 1, Username: "ana", Email: "ana@example.com", Role: entity.RoleUser}
	stranger  = &entity.User{ID: 2, Username: "bob", Email: "bob@example.com", Role: entity.RoleUser}
	moderator = &entity.User{ID: 3, Username: "mod", Email: "mod@example.com", Role: entity.RoleAdmin}
)

func storedEntry() *entity.Entry {
	return &entity.Entry{
		ID:       10,
		Title:    "Original title",
		Content:  "Original content",
		Tags:     "go testing",
		AuthorID: author.ID,
		Author:   *author,
		IsPublic: false,
		Views:    4,
	}
}

func TestEntryService_CreateEntry_NormalizesTags(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	var saved *entity.Entry
	repo.On("Save", mock.AnythingOfType("*entity.Entry")).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*entity.Entry)
		saved.ID = 42
	}).Return(nil).Once()

	resp, apierr := svc.CreateEntry(author, &contract.CreateEntryRequest{
		Title:   "T",
		Content: "C",
		Tags:    []string{"React", " Tutorial "},
	})

	assert.Nil(t, apierr)
	assert.Equal(t, "react tutorial", saved.Tags)
	assert.Equal(t, []string{"react", "tutorial"}, resp.Tags)
	assert.Equal(t, author.ID, saved.AuthorID)
	assert.False(t, saved.IsPublic)
	assert.EqualValues(t, 0, saved.Views)
	assert.Equal(t, "ana", resp.Author.Username)
	repo.AssertExpectations(t)
}

func TestEntryService_CreateEntry_RequiresTitleAndContent(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	resp, apierr := svc.CreateEntry(author, &contract.CreateEntryRequest{
		Title:   "   ",
		Content: "C",
	})

	assert.Nil(t, resp)
	assert.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
	repo.AssertNotCalled(t, "Save")
}

func TestEntryService_GetEntryByID_IncrementsViews(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	entry := storedEntry()
	repo.On("FindByID", entry.ID).Return(entry, nil).Once()
	repo.On("IncrementViews", entry.ID).Return(nil).Once()

	resp, apierr := svc.GetEntryByID(author, entry.ID)

	assert.Nil(t, apierr)
	assert.EqualValues(t, 5, resp.Views, "owner read bumps the counter too")
	repo.AssertExpectations(t)
}

func TestEntryService_GetEntryByID_NotFoundBeforeForbidden(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	repo.On("FindByID", int64(99)).Return(nil, nil).Once()

	resp, apierr := svc.GetEntryByID(stranger, 99)

	assert.Nil(t, resp)
	assert.Equal(t, 404, apierr.Code(), "absence is never masked as forbidden")
	repo.AssertExpectations(t)
}

func TestEntryService_GetEntryByID_PrivateEntryDenied(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	entry := storedEntry()
	repo.On("FindByID", entry.ID).Return(entry, nil).Once()

	resp, apierr := svc.GetEntryByID(stranger, entry.ID)

	assert.Nil(t, resp)
	assert.Equal(t, 403, apierr.Code())
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything)
}

func TestEntryService_UpdateEntry_EmptyTitleIgnored(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	entry := storedEntry()
	repo.On("FindByID", entry.ID).Return(entry, nil).Once()
	repo.On("Save", entry).Return(nil).Once()

	public := true
	resp, apierr := svc.UpdateEntry(author, entry.ID, &contract.UpdateEntryRequest{
		Title:    "",
		Content:  "",
		IsPublic: &public,
	})

	assert.Nil(t, apierr)
	assert.Equal(t, "Original title", resp.Title, "empty title does not clear the field")
	assert.Equal(t, "Original content", resp.Content)
	assert.True(t, resp.IsPublic)
	repo.AssertExpectations(t)
}

func TestEntryService_UpdateEntry_TagsReplaceWholesale(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	entry := storedEntry()
	repo.On("FindByID", entry.ID).Return(entry, nil).Once()
	repo.On("Save", entry).Return(nil).Once()

	resp, apierr := svc.UpdateEntry(author, entry.ID, &contract.UpdateEntryRequest{
		Tags: []string{" Rust "},
	})

	assert.Nil(t, apierr)
	assert.Equal(t, []string{"rust"}, resp.Tags, "replace, not merge")
	assert.Equal(t, "rust", entry.Tags)
}

func TestEntryService_UpdateEntry_NonOwnerForbidden(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	entry := storedEntry()
	repo.On("FindByID", entry.ID).Return(entry, nil).Once()

	title := "hijacked"
	resp, apierr := svc.UpdateEntry(moderator, entry.ID, &contract.UpdateEntryRequest{Title: title})

	assert.Nil(t, resp)
	assert.Equal(t, 403, apierr.Code(), "admin role grants no write override")
	repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestEntryService_DeleteEntry(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	// Owner may delete.
	entry := storedEntry()
	repo.On("FindByID", entry.ID).Return(entry, nil).Once()
	repo.On("Delete", entry).Return(nil).Once()
	assert.Nil(t, svc.DeleteEntry(author, entry.ID))

	// Stranger may not, even on a public entry.
	public := storedEntry()
	public.IsPublic = true
	repo.On("FindByID", public.ID).Return(public, nil).Once()
	apierr := svc.DeleteEntry(stranger, public.ID)
	assert.Equal(t, 403, apierr.Code())

	// Admin may moderate.
	other := storedEntry()
	repo.On("FindByID", other.ID).Return(other, nil).Once()
	repo.On("Delete", other).Return(nil).Once()
	assert.Nil(t, svc.DeleteEntry(moderator, other.ID))

	repo.AssertExpectations(t)
}

func TestEntryService_SearchEntries_RequiresCriterion(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	resp, apierr := svc.SearchEntries(author, "", "  ")

	assert.Nil(t, resp)
	assert.Equal(t, 400, apierr.Code())
	repo.AssertNotCalled(t, "FindAllFiltered", mock.Anything)
}

func TestEntryService_SearchEntries_NormalizesTagList(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	repo.On("FindAllFiltered", mock.MatchedBy(func(opts query.Options) bool {
		return assert.ObjectsAreEqual([]string{"a", "b", "c"}, opts.Tags) &&
			opts.Scope.AuthorID == author.ID
	})).Return([]*entity.Entry{storedEntry()}, nil).Once()

	resp, apierr := svc.SearchEntries(author, "", "A,b , C")

	assert.Nil(t, apierr)
	assert.Equal(t, 1, resp.Count)
	repo.AssertExpectations(t)
}

func TestEntryService_GetEntries_StorageFailure(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := newEntryService(repo)

	repo.On("FindPage", mock.Anything).Return(nil, int64(0), fmt.Errorf("disk gone")).Once()

	resp, apierr := svc.GetEntries(author, service.ListOptions{})

	assert.Nil(t, resp)
	assert.Equal(t, 500, apierr.Code())
}
