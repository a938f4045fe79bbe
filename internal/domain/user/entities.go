package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")
)

// UnusablePassword marks an account that can only sign in through OTP.
const UnusablePassword = "!"

// Table: users
type User struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PhoneNumber  string     `gorm:"column:phone_number;size:20;not null;uniqueIndex:ux_users_phone_number" json:"phone_number"`
	PasswordHash string     `gorm:"column:password_hash;size:128;not null" json:"-"`
	IsActive     bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsStaff      bool       `gorm:"column:is_staff;not null" json:"-"`
	IsSuperuser  bool       `gorm:"column:is_superuser;not null" json:"-"`
	KYCLevel     int        `gorm:"column:kyc_level;not null" json:"kyc_level"`
	Score        int        `gorm:"column:score;not null" json:"score"`
	AidRecipient bool       `gorm:"column:aid_recipient;not null" json:"aid_recipient"`
	StorageQuota int64      `gorm:"column:storage_quota;not null" json:"storage_quota"`
	StorageUsed  int64      `gorm:"column:storage_used;not null" json:"storage_used"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// New returns an active, passwordless account with the given storage quota.
func New(phone string, quota int64) *User {
	return &User{
		PhoneNumber:  phone,
		PasswordHash: UnusablePassword,
		IsActive:     true,
		AidRecipient: true,
		StorageQuota: quota,
	}
}

func (u *User) SetUnusablePassword() { u.PasswordHash = UnusablePassword }

func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != "" && u.PasswordHash[0] != '!'
}

// HasStorageAvailable reports whether a file of size bytes fits in the quota.
func (u *User) HasStorageAvailable(size int64) bool {
	return u.StorageUsed+size <= u.StorageQuota
}

func (u *User) StoragePercentage() float64 {
	if u.StorageQuota == 0 {
		return 0
	}
	return float64(u.StorageUsed) / float64(u.StorageQuota) * 100
}

// Table: whatsapp_user
type WhatsAppProfile struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PhoneNumber string    `gorm:"column:phone_number;size:20;not null;uniqueIndex:ux_whatsapp_user_phone" json:"phone_number"`
	UserID      *uint64   `gorm:"column:user_id;uniqueIndex:ux_whatsapp_user_user" json:"user_id"`
	IsVerified  bool      `gorm:"column:is_verified;not null" json:"is_verified"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WhatsAppProfile) TableName() string { return "whatsapp_user" }
