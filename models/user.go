package models

import (
	"time"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// Genders lists the accepted gender values.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay}

// IsValid checks if the gender is one of the accepted values
func (g Gender) IsValid() bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

type User struct {
	ID           string     `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	FullName     string     `json:"fullName" bson:"fullName" gorm:"size:100;not null"`
	Email        string     `json:"email" bson:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `json:"-" bson:"password" gorm:"column:password;size:255;not null"` // Hidden from JSON
	Age          *int       `json:"age,omitempty" bson:"age,omitempty"`
	Gender       Gender     `json:"gender,omitempty" bson:"gender,omitempty" gorm:"size:32"`
	IsActive     bool       `json:"isActive" bson:"isActive" gorm:"default:true;index"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// UserView is the subset of a user that may leave the server.
type UserView struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Age       *int       `json:"age,omitempty"`
	Gender    Gender     `json:"gender,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// View strips the password hash and bookkeeping fields.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Age:       u.Age,
		Gender:    u.Gender,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
