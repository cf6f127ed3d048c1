package services

import (
	"errors"

	"novastock/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCreds is returned for every failed sign-in, whatever the cause.
var ErrBadCreds = errors.New("invalid email or password")

// OperatorStore is what sign-in needs from repos.UserRepo.
type OperatorStore interface {
	ByEmail(email string) (*domain.User, error)
	BindSession(sid, userID string) error
	SessionUser(sid string) (*domain.User, error)
	UnbindSession(sid string) error
}

// OperatorAuth ties the sid cookie to the single operator account that may
// change the catalog. Reading and scanning stay anonymous.
type OperatorAuth struct {
	Users OperatorStore
}

func NewOperatorAuth(users OperatorStore) *OperatorAuth { return &OperatorAuth{Users: users} }

func (a *OperatorAuth) SignIn(sid, email, password string) (*domain.User, error) {
	u, err := a.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := a.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *OperatorAuth) SignOut(sid string) error {
	return a.Users.UnbindSession(sid)
}

// Operator returns who is signed in on sid, or nil for an anonymous session.
func (a *OperatorAuth) Operator(sid string) *domain.User {
	if sid == "" {
		return nil
	}
	u, err := a.Users.SessionUser(sid)
	if err != nil {
		return nil
	}
	return u
}
