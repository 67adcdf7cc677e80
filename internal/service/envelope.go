package service

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// Envelope messages
const (
	msgFieldErrors = "validation errors for some of the provided fields"
	msgInternal    = "internal server error"
	msgBadGateway  = "bad gateway"
	msgBadRequest  = "bad request errors"
)

// ErrorResult converts an error into a failed result. resource names the
// entity in not-found messages. This is the only place errors become
// statuses:
//
//	duplicate key, schema violation  409
//	not found                        404
//	provider or connection failure   502
//	invalid tenant                   400
//	invalid credentials              401
//	anything else                    500
func ErrorResult[T any](err error, resource string) model.Result[T] {
	var dup *database.DuplicateKeyError
	var schema *database.SchemaError

	switch {
	case errors.As(err, &dup):
		errs := make(model.Errors, len(dup.Fields))
		for _, field := range dup.Fields {
			errs[field] = fmt.Sprintf("the %s must be unique", field)
		}
		return model.Fail[T](http.StatusConflict, msgFieldErrors, errs)

	case errors.As(err, &schema):
		return model.Fail[T](http.StatusConflict, msgFieldErrors, model.Errors{schema.Field: schema.Detail})

	case errors.Is(err, database.ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrNetworkNotFound):
		return model.Fail[T](http.StatusNotFound, notFoundMessage(err, resource), nil)

	case errors.Is(err, ErrProviderError),
		errors.Is(err, database.ErrConnection):
		return model.Fail[T](http.StatusBadGateway, msgBadGateway, model.Errors{"message": err.Error()})

	case errors.Is(err, tenant.ErrInvalid),
		errors.Is(err, tenant.ErrNotAllowed):
		return model.Fail[T](http.StatusBadRequest, msgBadRequest, model.Errors{"tenant": err.Error()})

	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrPasswordMismatch):
		return model.Fail[T](http.StatusUnauthorized, err.Error(), nil)

	case errors.Is(err, ErrNothingToUpdate):
		return model.Fail[T](http.StatusBadRequest, msgBadRequest, model.Errors{"message": err.Error()})

	default:
		return model.Fail[T](http.StatusInternalServerError, msgInternal, model.Errors{"message": err.Error()})
	}
}

func notFoundMessage(err error, resource string) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return ErrUserNotFound.Error()
	case errors.Is(err, ErrNetworkNotFound):
		return ErrNetworkNotFound.Error()
	case resource != "":
		return resource + " not found"
	default:
		return "record not found"
	}
}

// invalid returns the 400 result for rejected request fields
func invalid[T any](errs []model.FieldError) model.Result[T] {
	return model.NewBadRequest[T](errs)
}

// created wraps a newly registered record
func created[T any](resource string, v T) model.Result[T] {
	return model.OK(http.StatusCreated, resource+" created", v)
}

// listed wraps a page of records
func listed[T any](plural string, v T) model.Result[T] {
	return model.OK(http.StatusOK, "successfully listed the "+plural, v)
}

// modified wraps an updated record
func modified[T any](resource string, v T) model.Result[T] {
	return model.OK(http.StatusOK, "successfully modified the "+resource, v)
}

// removed wraps the projection of a deleted record
func removed[T any](resource string, v T) model.Result[T] {
	return model.OK(http.StatusOK, "successfully removed the "+resource, v)
}

// uniqueIDs returns the distinct non-empty ids in first-seen order
func uniqueIDs(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range groups {
		for _, id := range g {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// mergeSet adds plain assignments to an update; existing keys win
func mergeSet(u model.Update, fields map[string]interface{}) model.Update {
	if len(fields) == 0 {
		return u
	}
	if u.Set == nil {
		u.Set = make(map[string]interface{}, len(fields))
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := u.Set[k]; !ok {
			u.Set[k] = fields[k]
		}
	}
	return u
}
