package domain

import "time"

// Principal учетная запись сессии, от имени которой работает постоянный вариант.
type Principal struct {
	UID        string    `json:"uid" gorm:"column:uid;primaryKey"`
	Anonymous  bool      `json:"anonymous" gorm:"column:anonymous"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	LastSeenAt time.Time `json:"last_seen_at" gorm:"column:last_seen_at"`
}

func (Principal) TableName() string {
	return "principals"
}
