package user

import (
	"strings"

	"github.com/trezcool/rubrica/core"
)

type Role string

// Roles
const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

var AllRoles = []Role{RoleStudent, RoleFaculty, RoleAdmin}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"` // plaintext, or a bcrypt hash when hashing is enabled
	Avatar     string `json:"avatar"`
	RollNo     string `json:"rollNo,omitempty"`
	Department string `json:"department,omitempty"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsFaculty() bool { return u.Role == RoleFaculty }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// FirstName is the first word of the user's name.
func (u User) FirstName() string {
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name       string `json:"name" validate:"notblank"`
	Email      string `json:"email" validate:"notblank"`
	Password   string `json:"password" validate:"notblank"`
	Role       Role   `json:"role" validate:"omitempty,userrole"`
	RollNo     string `json:"rollNo"`
	Department string `json:"department"`
}

// Validate cleans and checks nu. The email is kept as typed: uniqueness is case-sensitive.
func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.RollNo = core.CleanString(nu.RollNo)
	nu.Department = core.CleanString(nu.Department)
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
	return core.ValidateStruct(nu)
}

// toUser builds the record for nu. Roll numbers are kept for students only and departments
// for faculty only.
func (nu NewUser) toUser(id string) User {
	usr := User{
		ID:       id,
		Role:     nu.Role,
		Name:     nu.Name,
		Email:    nu.Email,
		Password: nu.Password,
		Avatar:   core.Initials(nu.Name),
	}
	switch nu.Role {
	case RoleStudent:
		usr.RollNo = nu.RollNo
	case RoleFaculty:
		usr.Department = nu.Department
	}
	return usr
}
