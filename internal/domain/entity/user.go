package entity

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known role names.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the general basic structure of all users across the platform
type User struct {
	ID        int64  `gorm:"primaryKey"`
	Username  string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	Password  string `gorm:"not null"` // bcrypt hash, never serialized
	Role      Role   `gorm:"not null;default:user"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
