package models

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/config"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        string    `gorm:"type:char(36);primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username"`
	Email     string    `gorm:"size:100;not null;unique" json:"email"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginInfo struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if input.Password != input.ConfirmPassword {
		return &User{}, errors.New("passwords do not match")
	}
	if !utils.IsValidEmail(input.Email) {
		return &User{}, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return &User{}, errors.New("invalid phone number")
		}
	}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return &User{}, err
	}
	if count > 0 {
		return &User{}, errors.New("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return &User{}, err
	}

	user := User{
		ID:        uuid.NewString(),
		Username:  html.EscapeString(strings.TrimSpace(input.Username)),
		Email:     strings.ToLower(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Password:  string(hashedPassword),
		IsActive:  utils.NewTrue(),
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return &User{}, err
	}
	user.PrepareGive()
	return &user, nil
}

func Login(ctx context.Context, settings config.Settings, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	user := User{}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, errors.New("invalid username or password")
	}

	if !utils.DereferencePtr(user.IsActive) {
		return nil, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(settings, user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginInfo{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
	}, nil
}

func GetUser(ctx context.Context, id string) (*User, error) {

	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error

	if err != nil {
		return &result, utils.ErrorRecordNotFound
	}

	result.PrepareGive()

	return &result, nil
}
