package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// Resource keys of response bodies
func createdKey(resource string) string { return "created_" + resource }
func updatedKey(resource string) string { return "updated_" + resource }
func removedKey(resource string) string { return "removed_" + resource }

// DecodeJSON decodes a JSON request body into the given struct
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeBadBody answers a body that is not valid JSON
func writeBadBody(w http.ResponseWriter, err error) {
	model.NewBadRequest[any]([]model.FieldError{{Field: "body", Message: "invalid request body: " + err.Error()}}).WriteJSON(w, "")
}

// requestTenant returns the tenant resolved by the tenant middleware
func requestTenant(w http.ResponseWriter, r *http.Request) (tenant.ID, bool) {
	id, ok := tenant.FromContext(r.Context())
	if !ok {
		model.NewBadRequest[any]([]model.FieldError{{Field: "tenant", Message: "tenant is required"}}).WriteJSON(w, "")
	}
	return id, ok
}

// listOptions reads skip and limit from the query. Malformed values are
// ignored and the resource default applies.
func listOptions(r *http.Request) model.ListOptions {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return model.ListOptions{Skip: skip, Limit: limit}
}

// queryFilter builds an equality filter from the named query parameters
func queryFilter(r *http.Request, fields ...string) model.Filter {
	q := r.URL.Query()
	filter := model.Filter{}
	for _, f := range fields {
		filter = filter.With(f, q.Get(f))
	}
	return filter
}

// targetFilter is queryFilter for modify and remove, which must select a
// record. It answers 400 when no parameter is given.
func targetFilter(w http.ResponseWriter, r *http.Request, fields ...string) (model.Filter, bool) {
	filter := queryFilter(r, fields...)
	if filter.IsEmpty() {
		model.NewBadRequest[any]([]model.FieldError{{Field: "filter", Message: "a filter query parameter is required"}}).WriteJSON(w, "")
		return nil, false
	}
	return filter, true
}
