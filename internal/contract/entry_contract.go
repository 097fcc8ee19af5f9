package contract

// AuthorResponse is the only author shape ever serialized alongside an
// entry: identifier, username and email. Credential material never leaves
// the persistence layer.
type AuthorResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type EntryResponse struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Tags      []string        `json:"tags"`
	Author    *AuthorResponse `json:"author"`
	IsPublic  bool            `json:"isPublic"`
	Views     int64           `json:"views"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

type CreateEntryRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=200"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags" validate:"omitempty,max=50,dive,max=30,nospaces"`
	IsPublic bool     `json:"isPublic"`
}

// UpdateEntryRequest is a partial update. An empty title or content is
// treated as "not provided" and leaves the stored value unchanged; it is
// never an error and never clears the field. Tags, when present, replace
// the stored set wholesale.
type UpdateEntryRequest struct {
	Title    string   `json:"title" validate:"omitempty,max=200"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags" validate:"omitempty,max=50,dive,max=30,nospaces"`
	IsPublic *bool    `json:"isPublic"`
}

type EntryPageResponse struct {
	Entries      []*EntryResponse `json:"entries"`
	TotalPages   int              `json:"totalPages"`
	CurrentPage  int              `json:"currentPage"`
	TotalEntries int64            `json:"totalEntries"`
}

type EntrySearchResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Count   int              `json:"count"`
}

type EntryMessageResponse struct {
	Message string         `json:"message"`
	Entry   *EntryResponse `json:"entry"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
