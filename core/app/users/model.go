package users

import (
	"fmt"
	"time"

	"intranet/core/storage"

	"gorm.io/gorm"
)

// User is a colleague in the directory and an account that can sign in
type User struct {
	Id         uint                `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FirstName  string              `json:"first_name" gorm:"column:first_name;not null;size:255"`
	LastName   string              `json:"last_name" gorm:"column:last_name;not null;size:255"`
	Email      string              `json:"email" gorm:"column:email;unique;not null;size:255"`
	Phone      string              `json:"phone" gorm:"column:phone;size:255"`
	Department string              `json:"department" gorm:"column:department;size:100;index"`
	JobTitle   string              `json:"job_title" gorm:"column:job_title;size:255"`
	Location   string              `json:"location" gorm:"column:location;size:255"`
	Password   string              `json:"-" gorm:"column:password;size:255;not null"`
	Avatar     *storage.Attachment `json:"avatar,omitempty" gorm:"-"`
	LastLogin  *time.Time          `json:"last_login,omitempty" gorm:"column:last_login"`
	CreatedAt  time.Time           `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time           `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt      `json:"-" gorm:"column:deleted_at;index"`
}

// TableName returns the table name for the User model
func (m *User) TableName() string {
	return "users"
}

// GetId returns the Id of the model (for storage attachments)
func (m *User) GetId() uint {
	return m.Id
}

// GetModelName returns the model name (for storage attachments)
func (m *User) GetModelName() string {
	return "users"
}

// FullName returns the display name with fallbacks
func (m *User) FullName() string {
	switch {
	case m.FirstName != "" && m.LastName != "":
		return m.FirstName + " " + m.LastName
	case m.FirstName != "":
		return m.FirstName
	case m.LastName != "":
		return m.LastName
	case m.Email != "":
		return m.Email
	}
	return fmt.Sprintf("User #%d", m.Id)
}

// RegisterRequest represents the request payload for creating an account
type RegisterRequest struct {
	FirstName  string `json:"first_name" binding:"required,max=255"`
	LastName   string `json:"last_name" binding:"required,max=255"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=8,max=255"`
	Phone      string `json:"phone" binding:"max=255"`
	Department string `json:"department" binding:"max=100"`
	JobTitle   string `json:"job_title" binding:"max=255"`
	Location   string `json:"location" binding:"max=255"`
}

// LoginRequest represents the credentials for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

// UpdateProfileRequest represents the editable profile fields
type UpdateProfileRequest struct {
	FirstName  string `json:"first_name,omitempty" binding:"max=255"`
	LastName   string `json:"last_name,omitempty" binding:"max=255"`
	Phone      string `json:"phone,omitempty" binding:"max=255"`
	Department string `json:"department,omitempty" binding:"max=100"`
	JobTitle   string `json:"job_title,omitempty" binding:"max=255"`
	Location   string `json:"location,omitempty" binding:"max=255"`
}

// UpdatePasswordRequest represents the request for updating own password
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required,max=255"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=255"`
}

// UserResponse represents the API response for User
type UserResponse struct {
	Id         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	JobTitle   string `json:"job_title"`
	Location   string `json:"location"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	LastLogin  string `json:"last_login,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ToResponse converts the User to a UserResponse
func (m *User) ToResponse() *UserResponse {
	if m == nil {
		return nil
	}
	response := &UserResponse{
		Id:         m.Id,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Name:       m.FullName(),
		Email:      m.Email,
		Phone:      m.Phone,
		Department: m.Department,
		JobTitle:   m.JobTitle,
		Location:   m.Location,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
	if m.Avatar != nil {
		response.AvatarURL = m.Avatar.URL
	}
	if m.LastLogin != nil {
		response.LastLogin = m.LastLogin.Format(time.RFC3339)
	}
	return response
}
