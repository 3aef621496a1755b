package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Operator is an account allowed to pull exports from the service.
type Operator struct {
	bun.BaseModel `bun:"table:operators"`
	ID            uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	TokenVersion  int        `bun:"token_version" json:"token_version"`
	Roles         []string   `bun:",array" json:"roles"`
	Provider      string     `json:"provider"`
	Name          string     `json:"name"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at"`
}
