package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// convertSurrealID renders a record id as "table:key"
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		// {"tb": "user", "id": "xxx"}
		if tb, ok := v["tb"].(string); ok {
			return tb + ":" + fmt.Sprintf("%v", v["id"])
		}
	}
	return fmt.Sprintf("%v", id)
}

// normalize converts driver values into JSON-friendly ones: record ids become
// strings and SurrealDB datetimes become time.Time.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case models.RecordID, *models.RecordID:
		return convertSurrealID(t)
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t == nil {
			return nil
		}
		return t.Time
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}

// decode converts a raw record into T
func decode[T any](raw interface{}) (*T, error) {
	data, ok := normalize(raw).(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// records unwraps the first statement's result array
func records(results []interface{}) []interface{} {
	if len(results) == 0 {
		return nil
	}
	if resp, ok := results[0].(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if arr, ok := resp["result"].([]interface{}); ok {
				return arr
			}
			if resp["result"] == nil {
				return nil
			}
			return []interface{}{resp["result"]}
		}
	}
	return results
}

// decodeAll converts every record of the first statement into T
func decodeAll[T any](results []interface{}) ([]*T, error) {
	rows := records(results)
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		item, err := decode[T](row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// recordID qualifies a bare key with its table
func recordID(table, id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return table + ":" + id
}

// varName turns a field name into a query variable suffix
func varName(field string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, field)
}

// buildWhere renders a filter as a WHERE clause. Keys are sorted so the
// query text is stable.
func buildWhere(table string, filter model.Filter) (string, map[string]interface{}) {
	vars := make(map[string]interface{}, len(filter))
	if filter.IsEmpty() {
		return "", vars
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, 0, len(keys))
	for _, field := range keys {
		name := "f_" + varName(field)
		switch v := filter[field].(type) {
		case model.Contains:
			conds = append(conds, fmt.Sprintf("%s CONTAINS $%s", field, name))
			vars[name] = v.Value
		default:
			if field == "id" {
				conds = append(conds, fmt.Sprintf("id = type::record($%s)", name))
				vars[name] = recordID(table, fmt.Sprint(v))
				continue
			}
			conds = append(conds, fmt.Sprintf("%s = $%s", field, name))
			vars[name] = v
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), vars
}

// buildSet renders an update as a SET clause. Array operations use
// array::union for add-to-set and array::complement for pull.
func buildSet(update model.Update) (string, map[string]interface{}) {
	vars := make(map[string]interface{}, len(update.Set)+len(update.Arrays))

	keys := make([]string, 0, len(update.Set))
	for k := range update.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+len(update.Arrays)+1)
	for _, field := range keys {
		name := "s_" + varName(field)
		parts = append(parts, fmt.Sprintf("%s = $%s", field, name))
		vars[name] = update.Set[field]
	}
	for i, op := range update.Arrays {
		name := fmt.Sprintf("a%d_%s", i, varName(op.Field))
		parts = append(parts, arrayExpr(op, name))
		vars[name] = op.Values
	}
	parts = append(parts, "updated_on = time::now()")
	return " SET " + strings.Join(parts, ", "), vars
}

func arrayExpr(op model.ArrayOp, name string) string {
	switch op.Kind {
	case model.Pull:
		return fmt.Sprintf("%s = array::complement(%s ?? [], $%s)", op.Field, op.Field, name)
	default:
		return fmt.Sprintf("%s = array::union(%s ?? [], $%s)", op.Field, op.Field, name)
	}
}

// mergeVars copies src into dst
func mergeVars(dst, src map[string]interface{}) map[string]interface{} {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// content is a CREATE payload. Empty optional values are left out so the
// field stays NONE.
type content map[string]interface{}

func (c content) opt(field, v string) {
	if v != "" {
		c[field] = v
	}
}

// isNotFound reports whether err means no record matched
func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// timeOrNow returns t, or the current time when t is nil
func timeOrNow(t *time.Time) time.Time {
	if t == nil {
		return time.Now().UTC()
	}
	return *t
}
