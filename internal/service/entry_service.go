package service

import (
	"strings"

	"entrybase/internal/contract"
	"entrybase/internal/domain/entity"
	"entrybase/internal/domain/policy"
	"entrybase/internal/domain/query"
	"entrybase/internal/utils"
	"entrybase/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type EntryRepository interface {
	FindByID(id int64) (*entity.Entry, error)
	FindPage(opts query.Options) ([]*entity.Entry, int64, error)
	FindAllFiltered(opts query.Options) ([]*entity.Entry, error)
	Save(entry *entity.Entry) error
	Delete(entry *entity.Entry) error
	IncrementViews(id int64) error
}

type DefaultEntryService struct {
	EntryRepo EntryRepository
	Policy    *policy.EntryPolicy
	Validate  *validator.Validate
}

func NewEntryService(entryRepo EntryRepository, entryPolicy *policy.EntryPolicy, validate *validator.Validate) *DefaultEntryService {
	return &DefaultEntryService{
		EntryRepo: entryRepo,
		Policy:    entryPolicy,
		Validate:  validate,
	}
}

// ListOptions carries the raw listing parameters as they arrive on the wire.
type ListOptions struct {
	Page  int
	Limit int
	Sort  string
}

// GetEntries returns one page of the actor's own entries.
func (s *DefaultEntryService) GetEntries(actor *entity.User, opts ListOptions) (*contract.EntryPageResponse, apierror.ErrorResponse) {
	return s.page(query.ScopeOwner(actor.ID), opts, query.DefaultLimit)
}

// SearchEntries filters the actor's own entries by free-text term and/or a
// comma-separated tag list. At least one criterion is required; results run
// newest first and are not paginated.
func (s *DefaultEntryService) SearchEntries(actor *entity.User, term, rawTags string) (*contract.EntrySearchResponse, apierror.ErrorResponse) {
	opts := query.Options{
		Scope: query.ScopeOwner(actor.ID),
		Term:  strings.TrimSpace(term),
		Tags:  query.ParseTags(rawTags),
		Sort:  query.ParseSort(query.DefaultSort),
	}

	if !opts.HasCriteria() {
		return nil, apierror.MissingSearchError
	}

	entries, err := s.EntryRepo.FindAllFiltered(opts)
	if err != nil {
		log.Errorf("failed to search entries: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.EntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = toEntryResponse(entry)
	}
	return &contract.EntrySearchResponse{Entries: resp, Count: len(resp)}, nil
}

// GetEntryByID resolves existence before permission so an absent entry is
// reported as 404, never 403. Every permitted read bumps the view counter,
// repeat reads by the owner included.
func (s *DefaultEntryService) GetEntryByID(actor *entity.User, entryID int64) (*contract.EntryResponse, apierror.ErrorResponse) {
	entry, err := s.EntryRepo.FindByID(entryID)
	if err != nil {
		log.Errorf("failed to fetch entry: %v", err)
		return nil, apierror.InternalServerError
	}

	if entry == nil {
		return nil, apierror.NotFoundError
	}

	if !s.Policy.CanRead(actor, entry) {
		return nil, apierror.AccessDeniedError
	}

	if err := s.EntryRepo.IncrementViews(entry.ID); err != nil {
		log.Errorf("failed to increment views: %v", err)
		return nil, apierror.InternalServerError
	}

	entry.Views++
	return toEntryResponse(entry), nil
}

func (s *DefaultEntryService) CreateEntry(actor *entity.User, req *contract.CreateEntryRequest) (*contract.EntryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	entry := &entity.Entry{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      strings.Join(utils.NormalizeTags(req.Tags), " "),
		AuthorID:  actor.ID,
		IsPublic:  req.IsPublic,
		Views:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.EntryRepo.Save(entry); err != nil {
		log.Errorf("failed to save entry: %v", err)
		return nil, apierror.InternalServerError
	}

	entry.Author = *actor
	return toEntryResponse(entry), nil
}

// UpdateEntry applies a partial update. Empty title or content means "keep
// the stored value"; tags when present replace the stored set after
// normalization.
func (s *DefaultEntryService) UpdateEntry(actor *entity.User, entryID int64, req *contract.UpdateEntryRequest) (*contract.EntryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	entry, err := s.EntryRepo.FindByID(entryID)
	if err != nil {
		log.Errorf("failed to fetch entry: %v", err)
		return nil, apierror.InternalServerError
	}

	if entry == nil {
		return nil, apierror.NotFoundError
	}

	if !s.Policy.CanWrite(actor, entry) {
		return nil, apierror.AccessDeniedError
	}

	if req.Title != "" {
		entry.Title = req.Title
	}
	if req.Content != "" {
		entry.Content = req.Content
	}
	if req.Tags != nil {
		entry.Tags = strings.Join(utils.NormalizeTags(req.Tags), " ")
	}
	if req.IsPublic != nil {
		entry.IsPublic = *req.IsPublic
	}

	entry.UpdatedAt = utils.NowUTC()
	if err := s.EntryRepo.Save(entry); err != nil {
		log.Errorf("failed to update entry: %v", err)
		return nil, apierror.InternalServerError
	}
	return toEntryResponse(entry), nil
}

func (s *DefaultEntryService) DeleteEntry(actor *entity.User, entryID int64) apierror.ErrorResponse {
	entry, err := s.EntryRepo.FindByID(entryID)
	if err != nil {
		log.Errorf("failed to fetch entry: %v", err)
		return apierror.InternalServerError
	}

	if entry == nil {
		return apierror.NotFoundError
	}

	if !s.Policy.CanDelete(actor, entry) {
		return apierror.AccessDeniedError
	}

	if err := s.EntryRepo.Delete(entry); err != nil {
		log.Errorf("failed to delete entry: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultEntryService) page(scope query.Scope, opts ListOptions, defaultLimit int) (*contract.EntryPageResponse, apierror.ErrorResponse) {
	q := query.Options{
		Scope:      scope,
		Sort:       query.ParseSort(opts.Sort),
		Pagination: query.NewPagination(opts.Page, opts.Limit, defaultLimit),
	}

	entries, count, err := s.EntryRepo.FindPage(q)
	if err != nil {
		log.Errorf("failed to fetch entries: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.EntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = toEntryResponse(entry)
	}

	return &contract.EntryPageResponse{
		Entries:      resp,
		TotalPages:   q.Pagination.TotalPages(count),
		CurrentPage:  q.Pagination.Page,
		TotalEntries: count,
	}, nil
}

func toEntryResponse(entry *entity.Entry) *contract.EntryResponse {
	return &contract.EntryResponse{
		ID:       entry.ID,
		Title:    entry.Title,
		Content:  entry.Content,
		Tags:     toTagsArray(entry.Tags),
		IsPublic: entry.IsPublic,
		Views:    entry.Views,
		Author: &contract.AuthorResponse{
			ID:       entry.Author.ID,
			Username: entry.Author.Username,
			Email:    entry.Author.Email,
		},
		CreatedAt: utils.FormatEpoch(entry.CreatedAt),
		UpdatedAt: utils.FormatEpoch(entry.UpdatedAt),
	}
}

func toTagsArray(tags string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	return strings.Split(tags, " ")
}
