package model

import "time"

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	CampusID      string    `gorm:"size:50;uniqueIndex;not null" json:"campus_id"`
	Email         string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"size:128;not null" json:"-"`
	Department    string    `gorm:"size:100" json:"department"`
	Phone         string    `gorm:"size:32;index" json:"phone"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	PhoneVerified bool      `gorm:"not null;default:false" json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RegisterInput struct {
	Name            string `json:"name" form:"name" validate:"required,max=100"`
	CampusID        string `json:"campus_id" form:"campus_id" validate:"required,campusid,max=50"`
	Email           string `json:"email" form:"email" validate:"required,emailaddr,max=120"`
	Department      string `json:"department" form:"department" validate:"max=100"`
	Phone           string `json:"phone" form:"phone" validate:"required,phone,max=32"`
	Password        string `json:"password" form:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"omitempty,eqfield=Password"`
}

type LoginInput struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

type VerifyEmailInput struct {
	Email string `json:"email" form:"email" validate:"required,emailaddr"`
	Code  string `json:"code" form:"code" validate:"required,numeric,len=6"`
}

type VerifyPhoneInput struct {
	Phone string `json:"phone" form:"phone" validate:"required,phone"`
	Code  string `json:"code" form:"code" validate:"required,numeric,len=6"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
