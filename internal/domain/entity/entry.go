package entity

type Entry struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null"`
	Tags      string `gorm:"not null"`       // lowercase, space-joined
	AuthorID  int64  `gorm:"not null;index"` // References: users(id)
	IsPublic  bool   `gorm:"not null;default:false"`
	Views     int64  `gorm:"not null;default:0"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID;references:ID"`
}
