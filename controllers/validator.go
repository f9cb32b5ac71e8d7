package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestValidator handles all input validation
type RequestValidator struct {
	validate     *validator.Validate
	defaultLimit int
	maxLimit     int
}

func NewRequestValidator(defaultLimit, maxLimit int) *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Lets gt/lt rules apply to money fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &RequestValidator{validate: v, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// BindJSON decodes the request body into obj and validates it.
func (rv *RequestValidator) BindJSON(c *gin.Context, obj interface{}) *services.ServiceError {
	if err := c.ShouldBindJSON(obj); err != nil {
		return decodeError(err)
	}
	return rv.Validate(obj)
}

// Bind is BindJSON for handlers that also accept form bodies.
func (rv *RequestValidator) Bind(c *gin.Context, obj interface{}) *services.ServiceError {
	if err := c.ShouldBind(obj); err != nil {
		return decodeError(err)
	}
	return rv.Validate(obj)
}

func (rv *RequestValidator) Validate(obj interface{}) *services.ServiceError {
	err := rv.validate.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.NewValidationError(models.FieldError{Field: "body", Message: err.Error()})
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return services.NewValidationError(fields...)
}

// ParsePagination reads offset and limit, rejecting anything out of range.
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, *services.ServiceError) {
	var fields []models.FieldError

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		fields = append(fields, models.FieldError{Field: "offset", Message: "must be an integer greater than or equal to 0"})
	}

	limit := rv.defaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > rv.maxLimit {
			fields = append(fields, models.FieldError{
				Field:   "limit",
				Message: fmt.Sprintf("must be an integer between 1 and %d", rv.maxLimit),
			})
		}
	}

	if len(fields) > 0 {
		return 0, 0, services.NewValidationError(fields...)
	}
	return offset, limit, nil
}

// ParseOptionalUUIDQuery reads an optional uuid query parameter.
func (rv *RequestValidator) ParseOptionalUUIDQuery(c *gin.Context, key string) (*uuid.UUID, *services.ServiceError) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, services.NewValidationError(models.FieldError{Field: key, Message: "must be a valid UUID"})
	}
	return &id, nil
}

func decodeError(err error) *services.ServiceError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return services.NewValidationError(models.FieldError{Field: "body", Message: "is required"})
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return services.NewValidationError(models.FieldError{Field: field, Message: "must be of type " + typeErr.Type.String()})
	case errors.As(err, &syntaxErr):
		return services.NewValidationError(models.FieldError{Field: "body", Message: "malformed JSON"})
	default:
		return services.NewValidationError(models.FieldError{Field: "body", Message: err.Error()})
	}
}

// fieldPath drops the struct name from the validator namespace, so
// CreateOrderRequest.items[0].quantity becomes items[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must contain at most " + fe.Param() + " item(s)"
		}
		return "must be at most " + fe.Param() + " characters"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
