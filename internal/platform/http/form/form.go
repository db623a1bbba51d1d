// Package form binds urlencoded HTML form posts into structs and turns
// validator failures into per-field messages for re-rendering.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonField collects errors that do not belong to a single input.
const NonField = "__all__"

// Errors maps a form field name to its messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// HasErrors reports whether any message was recorded.
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// usernamePattern accepts Unicode letters and digits plus @ . + - _.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

var registerOnce sync.Once

// register hooks form tag names and custom rules into gin's validator.
func register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

// Bind maps the request's POST form into obj using `form` tags and
// validates it with `binding` tags. Values are trimmed except for fields
// whose name starts with "password". A nil result means obj is valid.
func Bind(c *gin.Context, obj any) Errors {
	register()

	if err := c.Request.ParseForm(); err != nil {
		return Errors{NonField: {"The submitted form could not be read."}}
	}

	values := make(map[string][]string, len(c.Request.PostForm))
	for key, vs := range c.Request.PostForm {
		if strings.HasPrefix(key, "password") {
			values[key] = vs
			continue
		}
		trimmed := make([]string, len(vs))
		for i, v := range vs {
			trimmed[i] = strings.TrimSpace(v)
		}
		values[key] = trimmed
	}

	if err := binding.MapFormWithTag(obj, values, "form"); err != nil {
		return Errors{NonField: {"The submitted form could not be read."}}
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts validator errors into field messages.
func Translate(err error) Errors {
	errs := Errors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonField, err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "datetime":
		return "Enter a valid date."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Enter a valid value."
	}
}
