package models

// SubscriberModel is one email subscription record.
//
// Email preserves the casing the reader submitted; NormalizedEmail is the
// trimmed, lowercased form and is the uniqueness key. The unique index means
// two concurrent first-time submissions of the same address converge on a
// single row instead of racing into duplicates.
type SubscriberModel struct {
	Base
	Email           string `json:"email"            gorm:"not null"`
	NormalizedEmail string `json:"normalized_email" gorm:"uniqueIndex;not null"`
	Subscribed      bool   `json:"subscribed"       gorm:"default:true"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
