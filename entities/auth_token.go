package entities

import "time"

type AuthToken struct {
	Key       string    `json:"key" gorm:"type:varchar(40);primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_auth_tokens_user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
