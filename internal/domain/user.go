package domain

import "time"

type User struct {
	ID       UserID `gorm:"type:uuid;primaryKey"`
	Username string `gorm:"type:text;uniqueIndex:ux_users_username;not null"`

	// Password credential, stored inline. Params are the serialized cost
	// settings used when the hash was computed so verification survives
	// policy bumps.
	PassAlgo   string `gorm:"type:text;not null"`
	PassHash   []byte `gorm:"type:bytea;not null"`
	PassSalt   []byte `gorm:"type:bytea;not null"`
	PassParams []byte `gorm:"type:bytea;not null"`
	PassVer    int    `gorm:"not null;default:1"`

	// IsActive gates login; IsActivated records that the email confirmation
	// round trip completed. Both flip together on activation.
	IsActive     bool `gorm:"not null;default:false;index"`
	IsActivated  bool `gorm:"not null;default:false;index"`
	SendMessages bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }
