package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
)

type Option func(u *usr)

// ---- Options ----

func WithID(id string) Option {
	return func(u *usr) {
		u.id = id
	}
}

func WithPasswordHash(hash string) Option {
	return func(u *usr) {
		u.passwordHash = hash
	}
}

func WithLastLogin(t time.Time) Option {
	return func(u *usr) {
		u.lastLogin = t
	}
}

func WithLastAction(t time.Time) Option {
	return func(u *usr) {
		u.lastAction = t
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(u *usr) {
		u.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(u *usr) {
		u.updatedAt = t
	}
}

// ---- Interface ----

type User interface {
	ID() string
	FirstName() string
	LastName() string
	FullName() string
	Email() internet.Email
	UILanguage() UILanguage
	PasswordHash() string
	LastLogin() time.Time
	LastAction() time.Time
	CreatedAt() time.Time
	UpdatedAt() time.Time

	Events() []interface{}

	CheckPassword(password string) bool
	SetPassword(password string) (User, error)
	SetName(firstName, lastName string) User
	SetEmail(email internet.Email) User
	SetUILanguage(language UILanguage) User
}

func New(firstName, lastName string, email internet.Email, uiLanguage UILanguage, opts ...Option) User {
	u := &usr{
		id:         uuid.NewString(),
		firstName:  firstName,
		lastName:   lastName,
		email:      email,
		uiLanguage: uiLanguage,
		createdAt:  time.Now(),
		updatedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type usr struct {
	id           string
	firstName    string
	lastName     string
	email        internet.Email
	uiLanguage   UILanguage
	passwordHash string
	lastLogin    time.Time
	lastAction   time.Time
	createdAt    time.Time
	updatedAt    time.Time
	events       []interface{}
}

func (u *usr) ID() string {
	return u.id
}

func (u *usr) FirstName() string {
	return u.firstName
}

func (u *usr) LastName() string {
	return u.lastName
}

func (u *usr) FullName() string {
	return strings.TrimSpace(u.firstName + " " + u.lastName)
}

func (u *usr) Email() internet.Email {
	return u.email
}

func (u *usr) UILanguage() UILanguage {
	return u.uiLanguage
}

func (u *usr) PasswordHash() string {
	return u.passwordHash
}

func (u *usr) LastLogin() time.Time {
	return u.lastLogin
}

func (u *usr) LastAction() time.Time {
	return u.lastAction
}

func (u *usr) CreatedAt() time.Time {
	return u.createdAt
}

func (u *usr) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *usr) Events() []interface{} {
	return u.events
}

func (u *usr) CheckPassword(password string) bool {
	if u.passwordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

func (u *usr) SetPassword(password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	out := *u
	out.passwordHash = string(hash)
	out.updatedAt = time.Now()
	return &out, nil
}

func (u *usr) SetName(firstName, lastName string) User {
	out := *u
	out.firstName = firstName
	out.lastName = lastName
	out.updatedAt = time.Now()
	return &out
}

func (u *usr) SetEmail(email internet.Email) User {
	out := *u
	out.email = email
	out.updatedAt = time.Now()
	return &out
}

func (u *usr) SetUILanguage(language UILanguage) User {
	out := *u
	out.uiLanguage = language
	out.updatedAt = time.Now()
	return &out
}
