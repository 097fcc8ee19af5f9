package policy

import (
	"entrybase/internal/domain/entity"
)

// EntryPolicy encapsulates all business rules for entry access.
// Every method is a pure predicate over (actor, entry); callers are expected
// to resolve existence first so an absent entry surfaces as 404, never 403.
type EntryPolicy struct{}

func NewEntryPolicy() *EntryPolicy {
	return &EntryPolicy{}
}

// CanRead allows the author unconditionally, and anyone else only when the
// entry is public.
func (p *EntryPolicy) CanRead(actor *entity.User, entry *entity.Entry) bool {
	if actor.ID == entry.AuthorID {
		return true
	}
	return entry.IsPublic
}

// CanWrite allows only the author. Role grants no write override.
func (p *EntryPolicy) CanWrite(actor *entity.User, entry *entity.Entry) bool {
	return actor.ID == entry.AuthorID
}

// CanDelete allows the author, and admins through the moderation path.
func (p *EntryPolicy) CanDelete(actor *entity.User, entry *entity.Entry) bool {
	if actor.ID == entry.AuthorID {
		return true
	}
	return actor.IsAdmin()
}
