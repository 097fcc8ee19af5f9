package contract

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type UpdateRoleResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type AuthorEntryCount struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	EntryCount int64  `json:"entryCount"`
}

type DayEntryCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// StatsResponse is the admin dashboard rollup: direct aggregates over the
// whole store, no user-scoped filtering.
type StatsResponse struct {
	TotalUsers        int64               `json:"totalUsers"`
	TotalEntries      int64               `json:"totalEntries"`
	EntriesByUser     []*AuthorEntryCount `json:"entriesByUser"`
	PopularTags       []*TagCount         `json:"popularTags"`
	RecentEntries     []*EntryResponse    `json:"recentEntries"`
	MostViewedEntries []*EntryResponse    `json:"mostViewedEntries"`
	EntriesOverTime   []*DayEntryCount    `json:"entriesOverTime"`
}
