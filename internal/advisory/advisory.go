// ABOUTME: Client-side form checks that mirror rules the backend enforces
// ABOUTME: Passing these checks never implies the server will accept the request

package advisory

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// PhoneRegion is the default region for numbers written without a country code.
const PhoneRegion = "UG"

// FieldError is one failed check.
type FieldError struct {
	Field   string
	Message string
}

// Errors lists failed checks in form field order.
type Errors []FieldError

// Error returns the first message, which is what forms display.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

// Field returns the message for field, or "".
func (e Errors) Field(name string) string {
	for _, fe := range e {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", validPhone)
	_ = v.RegisterValidation("produce", func(fl validator.FieldLevel) bool {
		return IsAllowedProduce(fl.Field().String())
	})
	v.RegisterStructValidation(signupStructLevel, SignupForm{})
	return v
}

func validPhone(fl validator.FieldLevel) bool {
	return ValidPhone(fl.Field().String())
}

// ValidPhone reports whether s parses as a valid number, defaulting to
// PhoneRegion when no country code is given.
func ValidPhone(s string) bool {
	num, err := phonenumbers.Parse(s, PhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// messages overrides the generic text for field/tag pairs.
var messages = map[string]string{
	"email.email":              "Enter a valid email address",
	"phone.phone":              "Enter a valid phone number",
	"password.min":             "Password must be at least 6 characters",
	"confirm_password.eqfield": "Passwords do not match",
	"branch_id.branch":         "Select a branch",
	"kind.oneof":               "Unknown signup type",
	"produce.produce":          "Produce type not allowed",
	"tonnage.gte":              "Minimum procurement is 1 ton",
	"source.oneof":             "Select a valid source",
}

var labels = map[string]string{
	"full_name": "Full name",
	"name":      "Name",
	"email":     "Email",
	"password":  "Password",
}

// check runs the validator and converts its errors.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "gte", "min":
		return label + " must be at least " + fe.Param()
	default:
		return label + " is invalid"
	}
}
