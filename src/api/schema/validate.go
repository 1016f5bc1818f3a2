// Package schema is the validation gate every write and list query passes
// through before it reaches storage.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/stake-plus/memberhub/src/api/apperr"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(fieldName)
	})
	return validate
}

// fieldName reports fields by their JSON (or query) name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Validate checks v against its binding tags.
func Validate(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	return normalize("body", err)
}

// Validator plugs the gate into gin's binding so ShouldBindJSON and
// ShouldBindQuery report errors in the same shape.
type Validator struct{}

func (Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return Validate(obj)
}

func (Validator) Engine() any { return engine() }

// Bind decodes the JSON body into dst and validates it.
func Bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return normalize("body", err)
	}
	return nil
}

// BindQuery maps query parameters into dst and validates it.
func BindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return normalize("query", err)
	}
	return nil
}

func normalize(where string, err error) error {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := &apperr.ValidationError{Fields: make([]apperr.FieldError, 0, len(ves))}
		for _, fe := range ves {
			out.Fields = append(out.Fields, apperr.FieldError{Field: fieldPath(fe), Message: message(fe)})
		}
		return out
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return apperr.Invalid(where, "cannot be validated")
	}
	return apperr.Invalid(where, "is malformed: "+err.Error())
}

// fieldPath drops the leading struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gtefield":
		return "must not be before " + fe.Param()
	default:
		return "is invalid"
	}
}
