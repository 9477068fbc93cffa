// Package common holds request binding, validation and query parsing
// shared by the HTTP handlers.
package common

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/account"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/middleware"
	"github.com/amirasaad/backoffice/pkg/repository"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "iban", func(fl validator.FieldLevel) bool {
		return account.ValidIBAN(account.NormalizeIBAN(fl.Field().String()))
	})
	mustRegister(v, "cardnumber", func(fl validator.FieldLevel) bool {
		return card.ValidNumber(card.NormalizeNumber(fl.Field().String()))
	})
	mustRegister(v, "dni", func(fl validator.FieldLevel) bool {
		return client.ValidDNI(client.NormalizeDNI(fl.Field().String()))
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// mustRegister panics on a bad tag so a broken validator fails at start.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// BindAndValidate parses the JSON body into T and checks its validate
// tags. On failure it writes a 400 problem listing every failing field
// and returns a nil input; the returned error is that of the write.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, apiutil.ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := Validate(input); err != nil {
		return nil, apiutil.ProblemDetailsJSON(c, "Validation failed", err)
	}
	return &input, nil
}

// Validate checks the validate tags of input and converts failures into
// a domain.ValidationError keyed by JSON field name.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain only digits"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "iban":
		return "must be a valid IBAN"
	case "cardnumber":
		return "must be a valid card number"
	case "dni":
		return "must be 8 digits followed by a matching control letter"
	case "required_if":
		return "is required"
	case "excluded_unless":
		return "is not allowed for this request"
	case "iso4217":
		return "must be an ISO 4217 currency code"
	default:
		return "is invalid"
	}
}

// ListOptions reads page, pageSize and includeDeleted from the query.
func ListOptions(c *fiber.Ctx) (repository.ListOptions, error) {
	v := &domain.ValidationError{}
	opts := repository.ListOptions{}
	opts.Page = queryInt(c, "page", v)
	opts.PageSize = queryInt(c, "pageSize", v)
	if raw := c.Query("includeDeleted"); raw != "" {
		b, err := strconv.ParseBool(raw)
		v.Check(err == nil, "includeDeleted", "must be true or false")
		opts.IncludeDeleted = b
	}
	if err := v.Err(); err != nil {
		return opts, err
	}
	return opts.Normalize(), nil
}

// IncludeDeleted reads the includeDeleted query flag.
func IncludeDeleted(c *fiber.Ctx) bool {
	return c.QueryBool("includeDeleted", false)
}

func queryInt(c *fiber.Ctx, key string, v *domain.ValidationError) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	v.Check(err == nil && n > 0, key, "must be a positive integer")
	return n
}

// Actor returns the authenticated actor of the request.
func Actor(c *fiber.Ctx) (user.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return actor, domain.ErrUnauthorized
	}
	return actor, nil
}
