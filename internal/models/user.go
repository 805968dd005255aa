package models

import "time"

// User roles.
const (
	RoleOwner  = "owner"
	RoleWriter = "writer"
)

// UserModel represents a blog owner or writer account.
type UserModel struct {
	Base
	Email         string     `json:"email"  gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"      gorm:"not null"`
	Role          string     `json:"role"   gorm:"default:writer"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`

	// Notification preferences, mirrored from the reader settings page.
	// SMS recipients are users with SMSNotifications set and a phone number.
	EmailNotifications bool   `json:"email_notifications" gorm:"default:false"`
	SMSNotifications   bool   `json:"sms_notifications"   gorm:"default:false"`
	PhoneNumber        string `json:"phone_number"`
}

func (UserModel) TableName() string { return "users" }
