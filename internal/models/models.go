package models

import (
	"time"
)

const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User doubles as the player record. PasswordHash is empty for legacy
// players created through POST /players before password auth existed.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	BestTime     int64     `gorm:"not null;default:0"       json:"best_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// Score rows are append-only.
type Score struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	RiddleID  uint      `gorm:"not null"                 json:"riddle_id"`
	Time      int64     `gorm:"not null"                 json:"time"`
	CreatedAt time.Time `json:"solved_at"`
}

type Riddle struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Question   string    `gorm:"not null"                 json:"question"`
	Answer     string    `gorm:"not null"                 json:"-"`
	Difficulty string    `gorm:"not null;default:medium"  json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	return role == RoleGuest || role == RoleUser || role == RoleAdmin
}
