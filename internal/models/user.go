package models

import "time"

// User roles. The first registered account becomes admin; everyone after
// signs up as a student and may be promoted to instructor by an admin.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// UserModel represents a platform account.
type UserModel struct {
	Base
	Email         string     `json:"email"           gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"            gorm:"not null"`
	Avatar        string     `json:"avatar"`
	Password      string     `json:"-"               gorm:"not null"`
	Role          string     `json:"role"            gorm:"index;default:'student'"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
	APITokens     []APIToken `json:"api_tokens,omitempty" gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string { return "users" }

// IsStaff reports whether the user may manage course content.
func (u *UserModel) IsStaff() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin
}

// APIToken represents a personal API token for programmatic access.
type APIToken struct {
	Base
	UserID    string     `json:"-"          gorm:"index;not null"`
	Token     string     `json:"token"      gorm:"uniqueIndex;not null"`
	Name      string     `json:"name"`
	ExpiredAt *time.Time `json:"expired_at"`
}

func (APIToken) TableName() string { return "api_tokens" }
