package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core"
)

type (
	// Repository persists the whole user collection. ReplaceUsers must be atomic:
	// either every record is written or none is.
	Repository interface {
		LoadUsers(ctx context.Context) ([]User, error)
		ReplaceUsers(ctx context.Context, users []User) error
	}

	Service struct {
		repo  Repository
		pwds  Passwords
		newID func() string
	}
)

func NewService(repo Repository, pwds Passwords) *Service {
	if pwds == nil {
		pwds = PlainPasswords{}
	}
	return &Service{repo: repo, pwds: pwds, newID: uuid.NewString}
}

func (svc *Service) load(ctx context.Context) ([]User, error) {
	users, err := svc.repo.LoadUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading users")
	}
	return users, nil
}

// Login returns the user whose email and password both match.
func (svc *Service) Login(ctx context.Context, email, pwd string) (User, error) {
	users, err := svc.load(ctx)
	if err != nil {
		return User{}, err
	}
	for _, usr := range users {
		if usr.Email == email && svc.pwds.Check(usr.Password, pwd) {
			return usr, nil
		}
	}
	return User{}, core.NewAuthFailure(core.ReasonInvalidCredentials, "invalid credentials")
}

// LoginAs is Login restricted to accounts holding role.
func (svc *Service) LoginAs(ctx context.Context, email, pwd string, role Role) (User, error) {
	usr, err := svc.Login(ctx, email, pwd)
	if err != nil {
		return User{}, err
	}
	if usr.Role != role {
		return User{}, core.NewAuthFailure(core.ReasonRoleMismatch, "this account is not a "+role.String())
	}
	return usr, nil
}

// Register creates a new account. The email must not be used by any other account.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(); err != nil {
		return User{}, err
	}

	users, err := svc.load(ctx)
	if err != nil {
		return User{}, err
	}
	for _, usr := range users {
		if usr.Email == nu.Email {
			return User{}, core.NewAuthFailure(core.ReasonEmailTaken, "email already registered")
		}
	}

	usr := nu.toUser(svc.newID())
	if usr.Password, err = svc.pwds.Hash(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	if err := svc.repo.ReplaceUsers(ctx, append(users, usr)); err != nil {
		return User{}, errors.Wrap(err, "saving users")
	}
	return usr, nil
}

func (svc *Service) FindByID(ctx context.Context, id string) (User, error) {
	users, err := svc.load(ctx)
	if err != nil {
		return User{}, err
	}
	for _, usr := range users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return User{}, core.NewNotFoundError("user", id)
}

// QueryAll returns every user in insertion order.
func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.load(ctx)
}

// Search does a case-insensitive match of term on the user's name and email.
func (svc *Service) Search(ctx context.Context, term string) ([]User, error) {
	users, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	term = core.CleanString(term, true /* lower */)
	if term == "" {
		return users, nil
	}
	var found []User
	for _, usr := range users {
		if strings.Contains(strings.ToLower(usr.Name+usr.Email), term) {
			found = append(found, usr)
		}
	}
	return found, nil
}

// Delete removes the user with id. Projects referencing it are left alone.
func (svc *Service) Delete(ctx context.Context, id string) error {
	users, err := svc.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]User, 0, len(users))
	for _, usr := range users {
		if usr.ID != id {
			kept = append(kept, usr)
		}
	}
	if len(kept) == len(users) {
		return core.NewNotFoundError("user", id)
	}
	if err := svc.repo.ReplaceUsers(ctx, kept); err != nil {
		return errors.Wrap(err, "saving users")
	}
	return nil
}

// ResetPassword replaces the password of the account registered with email.
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	if strings.TrimSpace(pwd) == "" {
		return core.NewValidationError(core.ReasonMissingFields, errors.New("password is required"),
			core.FieldError{Field: "password", Error: "this field is required"})
	}
	users, err := svc.load(ctx)
	if err != nil {
		return err
	}
	for i, usr := range users {
		if usr.Email != email {
			continue
		}
		if users[i].Password, err = svc.pwds.Hash(pwd); err != nil {
			return errors.Wrap(err, "hashing password")
		}
		if err := svc.repo.ReplaceUsers(ctx, users); err != nil {
			return errors.Wrap(err, "saving users")
		}
		return nil
	}
	return core.NewNotFoundError("user", email)
}
