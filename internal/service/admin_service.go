package service

import (
	"sort"
	"strings"
	"time"

	"entrybase/internal/contract"
	"entrybase/internal/domain/entity"
	"entrybase/internal/domain/query"
	"entrybase/internal/domain/sqlite/repository"
	"entrybase/internal/utils"
	"entrybase/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

const (
	adminDefaultLimit = 20
	statsTopN         = 10
	statsWindowDays   = 30
)

// AdminEntryRepository extends the regular entry store with the aggregate
// reads backing the stats dashboard.
type AdminEntryRepository interface {
	EntryRepository
	CountAll() (int64, error)
	CountByAuthor() ([]*repository.AuthorCount, error)
	AllTags() ([]string, error)
	CountPerDaySince(epochMillis int64) ([]*repository.DayCount, error)
}

type AdminUserRepository interface {
	UserRepository
	CountAll() (int64, error)
}

type AdminService struct {
	EntryRepo AdminEntryRepository
	UserRepo  AdminUserRepository
	Entries   *DefaultEntryService
}

func NewAdminService(entryRepo AdminEntryRepository, userRepo AdminUserRepository, entries *DefaultEntryService) *AdminService {
	return &AdminService{
		EntryRepo: entryRepo,
		UserRepo:  userRepo,
		Entries:   entries,
	}
}

// GetAllEntries pages over the entire store, no ownership filter.
func (a *AdminService) GetAllEntries(opts ListOptions) (*contract.EntryPageResponse, apierror.ErrorResponse) {
	return a.Entries.page(query.ScopeAll(), opts, adminDefaultLimit)
}

// DeleteEntry removes any entry regardless of its author. Existence is the
// only check; the caller has already passed the admin gate.
func (a *AdminService) DeleteEntry(entryID int64) apierror.ErrorResponse {
	entry, err := a.EntryRepo.FindByID(entryID)
	if err != nil {
		log.Errorf("failed to fetch entry: %v", err)
		return apierror.InternalServerError
	}

	if entry == nil {
		return apierror.NotFoundError
	}

	if err := a.EntryRepo.Delete(entry); err != nil {
		log.Errorf("failed to delete entry: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (a *AdminService) GetUsers() ([]*contract.UserResponse, apierror.ErrorResponse) {
	users, err := a.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = ToUserResponse(user)
	}
	return resp, nil
}

// UpdateRole sets a user's role to one of the known role names.
func (a *AdminService) UpdateRole(userID int64, role string) (*contract.UpdateRoleResponse, apierror.ErrorResponse) {
	newRole := entity.Role(strings.TrimSpace(role))
	if !newRole.IsValid() {
		return nil, apierror.InvalidRoleError
	}

	user, err := a.UserRepo.FindByID(userID)
	if err != nil {
		log.Errorf("failed to fetch user: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.UserNotFoundError
	}

	user.Role = newRole
	user.UpdatedAt = utils.NowUTC()
	if err := a.UserRepo.Save(user); err != nil {
		log.Errorf("failed to update user role: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.UpdateRoleResponse{
		Message: "User role updated successfully",
		User:    ToUserResponse(user),
	}, nil
}

// GetStats assembles the dashboard aggregates. Tag frequencies are counted
// in Go over the stored space-joined strings; everything else aggregates in
// the database.
func (a *AdminService) GetStats() (*contract.StatsResponse, apierror.ErrorResponse) {
	totalUsers, err := a.UserRepo.CountAll()
	if err != nil {
		log.Errorf("failed to count users: %v", err)
		return nil, apierror.InternalServerError
	}

	totalEntries, err := a.EntryRepo.CountAll()
	if err != nil {
		log.Errorf("failed to count entries: %v", err)
		return nil, apierror.InternalServerError
	}

	byAuthor, err := a.EntryRepo.CountByAuthor()
	if err != nil {
		log.Errorf("failed to aggregate entries by author: %v", err)
		return nil, apierror.InternalServerError
	}

	popularTags, apierr := a.popularTags()
	if apierr != nil {
		return nil, apierr
	}

	recent, apierr := a.topEntries(query.DefaultSort)
	if apierr != nil {
		return nil, apierr
	}

	mostViewed, apierr := a.topEntries("-views")
	if apierr != nil {
		return nil, apierr
	}

	windowStart := utils.NowUTC() - int64(statsWindowDays*24)*int64(time.Hour/time.Millisecond)
	overTime, err := a.EntryRepo.CountPerDaySince(windowStart)
	if err != nil {
		log.Errorf("failed to aggregate entries over time: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.StatsResponse{
		TotalUsers:        totalUsers,
		TotalEntries:      totalEntries,
		EntriesByUser:     toAuthorCounts(byAuthor),
		PopularTags:       popularTags,
		RecentEntries:     recent,
		MostViewedEntries: mostViewed,
		EntriesOverTime:   toDayCounts(overTime),
	}, nil
}

func (a *AdminService) topEntries(sortKey string) ([]*contract.EntryResponse, apierror.ErrorResponse) {
	page, apierr := a.Entries.page(query.ScopeAll(), ListOptions{Page: 1, Limit: statsTopN, Sort: sortKey}, statsTopN)
	if apierr != nil {
		return nil, apierr
	}
	return page.Entries, nil
}

func (a *AdminService) popularTags() ([]*contract.TagCount, apierror.ErrorResponse) {
	rows, err := a.EntryRepo.AllTags()
	if err != nil {
		log.Errorf("failed to fetch tags: %v", err)
		return nil, apierror.InternalServerError
	}

	freq := map[string]int64{}
	for _, row := range rows {
		for _, tag := range strings.Fields(row) {
			freq[tag]++
		}
	}

	tags := make([]*contract.TagCount, 0, len(freq))
	for tag, count := range freq {
		tags = append(tags, &contract.TagCount{Tag: tag, Count: count})
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})

	if len(tags) > statsTopN {
		tags = tags[:statsTopN]
	}
	return tags, nil
}

func toAuthorCounts(rows []*repository.AuthorCount) []*contract.AuthorEntryCount {
	out := make([]*contract.AuthorEntryCount, len(rows))
	for i, row := range rows {
		out[i] = &contract.AuthorEntryCount{
			Username:   row.Username,
			Email:      row.Email,
			EntryCount: row.EntryCount,
		}
	}
	return out
}

func toDayCounts(rows []*repository.DayCount) []*contract.DayEntryCount {
	out := make([]*contract.DayEntryCount, len(rows))
	for i, row := range rows {
		out[i] = &contract.DayEntryCount{Date: row.Date, Count: row.Count}
	}
	return out
}
