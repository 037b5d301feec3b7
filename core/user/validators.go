package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rubrica/core"
)

var (
	userRoleTag  = "userrole"
	userRoleText = "role must be one of student, faculty or admin"
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(userRoleTag, userRoleValidation)
	core.RegisterCustomTranslation(userRoleTag, userRoleText)
	core.RegisterTagReason(userRoleTag, core.ReasonInvalidRole)
}

// Custom Validators

// userRoleValidation checks that the provided role is one of AllRoles
func userRoleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}
