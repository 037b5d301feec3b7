package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/user"
	inmemdb "github.com/trezcool/rubrica/storage/database/inmem"
)

func setup(t *testing.T, pwds user.Passwords) (*user.Service, user.Repository) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := inmemdb.NewUserRepository(db)
	return user.NewService(repo, pwds), repo
}

func register(t *testing.T, svc *user.Service, nu user.NewUser) user.User {
	usr, err := svc.Register(context.Background(), nu)
	if err != nil {
		t.Fatalf("register() failed: %v", err)
	}
	return usr
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t, nil)
	existing := register(t, svc, user.NewUser{Name: "Dr. Rajesh Kumar", Email: "rajesh@faculty.edu", Password: "pwd", Role: user.RoleFaculty})

	tests := []struct {
		name       string
		nu         user.NewUser
		wantErr    error
		wantAvatar string
	}{
		{name: "missing name", nu: user.NewUser{Email: "a@b.c", Password: "x"}, wantErr: core.ErrMissingFields},
		{name: "blank password", nu: user.NewUser{Name: "A", Email: "a@b.c", Password: "   "}, wantErr: core.ErrMissingFields},
		{name: "invalid role", nu: user.NewUser{Name: "A", Email: "a@b.c", Password: "x", Role: "dean"}, wantErr: core.ErrInvalidRole},
		{name: "email taken", nu: user.NewUser{Name: "Other", Email: existing.Email, Password: "x"}, wantErr: core.ErrEmailTaken},
		{name: "two-word name", nu: user.NewUser{Name: "Priya Singh", Email: "priya@student.edu", Password: "student123"}, wantAvatar: "PS"},
		{name: "long name", nu: user.NewUser{Name: "ana maria lopez", Email: "ana@student.edu", Password: "x"}, wantAvatar: "AM"},
		{name: "email case-sensitive", nu: user.NewUser{Name: "Raj", Email: "RAJESH@faculty.edu", Password: "x"}, wantAvatar: "R"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := repo.LoadUsers(ctx)
			usr, err := svc.Register(ctx, tt.nu)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				after, _ := repo.LoadUsers(ctx)
				assert.Equal(t, before, after)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, usr.ID)
			assert.Equal(t, tt.wantAvatar, usr.Avatar)
			assert.Equal(t, user.RoleStudent, usr.Role)

			found, err := svc.FindByID(ctx, usr.ID)
			require.NoError(t, err)
			assert.Equal(t, usr, found)
		})
	}
}

func TestService_Register_roleSpecificFields(t *testing.T) {
	svc, _ := setup(t, nil)

	student := register(t, svc, user.NewUser{Name: "Arjun", Email: "arjun@student.edu", Password: "x", RollNo: " CS21001 ", Department: "CS"})
	assert.Equal(t, "CS21001", student.RollNo)
	assert.Empty(t, student.Department)

	faculty := register(t, svc, user.NewUser{Name: "Anita", Email: "anita@faculty.edu", Password: "x", Role: user.RoleFaculty, RollNo: "X", Department: "Computer Science"})
	assert.Empty(t, faculty.RollNo)
	assert.Equal(t, "Computer Science", faculty.Department)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, nil)
	usr := register(t, svc, user.NewUser{Name: "Priya Singh", Email: "priya@student.edu", Password: "student123"})

	tests := []struct {
		name    string
		email   string
		pwd     string
		role    user.Role
		wantErr error
	}{
		{name: "wrong password", email: usr.Email, pwd: "nope", wantErr: core.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@student.edu", pwd: "student123", wantErr: core.ErrInvalidCredentials},
		{name: "email is exact", email: "Priya@student.edu", pwd: "student123", wantErr: core.ErrInvalidCredentials},
		{name: "role mismatch", email: usr.Email, pwd: "student123", role: user.RoleFaculty, wantErr: core.ErrRoleMismatch},
		{name: "ok", email: usr.Email, pwd: "student123"},
		{name: "ok as student", email: usr.Email, pwd: "student123", role: user.RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got user.User
			var err error
			if tt.role == "" {
				got, err = svc.Login(ctx, tt.email, tt.pwd)
			} else {
				got, err = svc.LoginAs(ctx, tt.email, tt.pwd, tt.role)
			}
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, usr, got)
		})
	}
}

func TestService_bcrypt(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t, user.BcryptPasswords{Cost: 4})
	usr := register(t, svc, user.NewUser{Name: "Admin User", Email: "admin@university.edu", Password: "admin123", Role: user.RoleAdmin})

	stored, err := repo.LoadUsers(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", stored[0].Password)

	got, err := svc.Login(ctx, usr.Email, "admin123")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.Login(ctx, usr.Email, stored[0].Password)
	assert.True(t, errors.Is(err, core.ErrInvalidCredentials))
}

func TestService_FindByID_notFound(t *testing.T) {
	svc, _ := setup(t, nil)
	_, err := svc.FindByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, nil)
	priya := register(t, svc, user.NewUser{Name: "Priya Singh", Email: "priya@student.edu", Password: "x"})
	arjun := register(t, svc, user.NewUser{Name: "Arjun Mehta", Email: "arjun@student.edu", Password: "x"})
	anita := register(t, svc, user.NewUser{Name: "Dr. Anita Sharma", Email: "anita@faculty.edu", Password: "x", Role: user.RoleFaculty})

	tests := []struct {
		term string
		want []user.User
	}{
		{"", []user.User{priya, arjun, anita}},
		{"  ", []user.User{priya, arjun, anita}},
		{"STUDENT", []user.User{priya, arjun}},
		{"sharma", []user.User{anita}},
		{"zz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, nil)
	priya := register(t, svc, user.NewUser{Name: "Priya Singh", Email: "priya@student.edu", Password: "x"})
	arjun := register(t, svc, user.NewUser{Name: "Arjun Mehta", Email: "arjun@student.edu", Password: "x"})

	require.NoError(t, svc.Delete(ctx, priya.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, priya.ID), core.ErrNotFound))

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []user.User{arjun}, all)
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, nil)
	usr := register(t, svc, user.NewUser{Name: "Priya Singh", Email: "priya@student.edu", Password: "old"})

	assert.True(t, errors.Is(svc.ResetPassword(ctx, usr.Email, " "), core.ErrMissingFields))
	assert.True(t, errors.Is(svc.ResetPassword(ctx, "ghost@student.edu", "new"), core.ErrNotFound))

	require.NoError(t, svc.ResetPassword(ctx, usr.Email, "new"))
	_, err := svc.Login(ctx, usr.Email, "old")
	assert.True(t, errors.Is(err, core.ErrInvalidCredentials))
	_, err = svc.Login(ctx, usr.Email, "new")
	assert.NoError(t, err)
}
