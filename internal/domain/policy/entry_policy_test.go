package policy_test

import (
	"testing"

	"entrybase/internal/domain/entity"
	"entrybase/internal/domain/policy"

	"github.com/stretchr/testify/assert"
)

var (
	owner    = &entity.User{ID: 1, Role: entity.RoleUser}
	stranger = &entity.User{ID: 2, Role: entity.RoleUser}
	admin    = &entity.User{ID: 3, Role: entity.RoleAdmin}
)

func TestEntryPolicy_CanRead(t *testing.T) {
	p := policy.NewEntryPolicy()

	private := &entity.Entry{ID: 10, AuthorID: owner.ID, IsPublic: false}
	public := &entity.Entry{ID: 11, AuthorID: owner.ID, IsPublic: true}

	assert.True(t, p.CanRead(owner, private), "author reads own private entry")
	assert.False(t, p.CanRead(stranger, private), "non-author cannot read private entry")
	assert.False(t, p.CanRead(admin, private), "admin role grants no read override")

	assert.True(t, p.CanRead(owner, public))
	assert.True(t, p.CanRead(stranger, public))
	assert.True(t, p.CanRead(admin, public))
}

func TestEntryPolicy_CanWrite(t *testing.T) {
	p := policy.NewEntryPolicy()

	entry := &entity.Entry{ID: 10, AuthorID: owner.ID, IsPublic: true}

	assert.True(t, p.CanWrite(owner, entry))
	assert.False(t, p.CanWrite(stranger, entry), "visibility does not grant write")
	assert.False(t, p.CanWrite(admin, entry), "admin role grants no write override")
}

func TestEntryPolicy_CanDelete(t *testing.T) {
	p := policy.NewEntryPolicy()

	entry := &entity.Entry{ID: 10, AuthorID: owner.ID, IsPublic: true}

	assert.True(t, p.CanDelete(owner, entry))
	assert.False(t, p.CanDelete(stranger, entry), "visibility does not grant delete")
	assert.True(t, p.CanDelete(admin, entry), "admins may moderate any entry")
}
