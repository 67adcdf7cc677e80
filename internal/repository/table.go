package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// table implements register/list/modify/remove for one tenant-partitioned
// table. Every call resolves the tenant's database through the router.
type table[T any] struct {
	router database.Router
	name   string
	// omit lists fields never read back on list (e.g. password)
	omit  string
	order string
}

func newTable[T any](router database.Router, name string) table[T] {
	return table[T]{router: router, name: name, order: "created_on DESC"}
}

func (tb table[T]) db(ctx context.Context, t tenant.ID) (database.Database, error) {
	return tb.router.For(ctx, t)
}

func (tb table[T]) projection() string {
	if tb.omit == "" {
		return "*"
	}
	return "* OMIT " + tb.omit
}

// create inserts a record and returns it
func (tb table[T]) create(ctx context.Context, t tenant.ID, data content) (*T, error) {
	db, err := tb.db(ctx, t)
	if err != nil {
		return nil, err
	}

	query := `CREATE type::table($tb) CONTENT $content RETURN AFTER`
	vars := map[string]interface{}{"tb": tb.name, "content": map[string]interface{}(data)}

	result, err := db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return decode[T](result)
}

// createStatement renders the creation of a record with a known id for an
// atomic batch
func (tb table[T]) createStatement(id string, data content) (string, map[string]interface{}) {
	return `CREATE type::record($id) CONTENT $content`, map[string]interface{}{
		"id":      recordID(tb.name, id),
		"content": map[string]interface{}(data),
	}
}

// newID returns a fresh record id for the table
func (tb table[T]) newID() string {
	return tb.name + ":" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// list returns one page of matching records
func (tb table[T]) list(ctx context.Context, t tenant.ID, filter model.Filter, opts model.ListOptions) ([]*T, error) {
	db, err := tb.db(ctx, t)
	if err != nil {
		return nil, err
	}

	where, vars := buildWhere(tb.name, filter)
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s LIMIT $limit START $skip`,
		tb.projection(), tb.name, where, tb.order)
	vars["limit"] = opts.Limit
	vars["skip"] = opts.Skip

	result, err := db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](result)
}

// findID returns the id of the first matching record
func (tb table[T]) findID(ctx context.Context, t tenant.ID, filter model.Filter) (string, error) {
	db, err := tb.db(ctx, t)
	if err != nil {
		return "", err
	}

	where, vars := buildWhere(tb.name, filter)
	query := fmt.Sprintf(`SELECT id FROM %s%s LIMIT 1`, tb.name, where)

	result, err := db.QueryOne(ctx, query, vars)
	if err != nil {
		return "", err
	}
	row, ok := normalize(result).(map[string]interface{})
	if !ok {
		return "", database.ErrNotFound
	}
	id, _ := row["id"].(string)
	if id == "" {
		return "", database.ErrNotFound
	}
	return id, nil
}

// get returns a record by id
func (tb table[T]) get(ctx context.Context, t tenant.ID, id string) (*T, error) {
	db, err := tb.db(ctx, t)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM type::record($id)`, tb.projection())
	result, err := db.QueryOne(ctx, query, map[string]interface{}{"id": recordID(tb.name, id)})
	if err != nil {
		return nil, err
	}
	return decode[T](result)
}

// modify applies update to the first matching record and returns it
func (tb table[T]) modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) (*T, error) {
	id, err := tb.findID(ctx, t, filter)
	if err != nil {
		return nil, err
	}
	return tb.modifyID(ctx, t, id, update)
}

func (tb table[T]) modifyID(ctx context.Context, t tenant.ID, id string, update model.Update) (*T, error) {
	db, err := tb.db(ctx, t)
	if err != nil {
		return nil, err
	}

	set, vars := buildSet(update)
	vars["id"] = recordID(tb.name, id)
	query := `UPDATE type::record($id)` + set + ` RETURN AFTER`

	result, err := db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return decode[T](result)
}

// updateStatement renders the modification of one record for an atomic batch
func (tb table[T]) updateStatement(id string, update model.Update) (string, map[string]interface{}) {
	set, vars := buildSet(update)
	vars["id"] = recordID(tb.name, id)
	return `UPDATE type::record($id)` + set, vars
}

// removeStatement renders the deletion of one record for an atomic batch
func (tb table[T]) removeStatement(id string) (string, map[string]interface{}) {
	return `DELETE type::record($id)`, map[string]interface{}{"id": recordID(tb.name, id)}
}

// remove deletes the first matching record and returns it as it was
func (tb table[T]) remove(ctx context.Context, t tenant.ID, filter model.Filter) (*T, error) {
	id, err := tb.findID(ctx, t, filter)
	if err != nil {
		return nil, err
	}

	db, err := tb.db(ctx, t)
	if err != nil {
		return nil, err
	}

	query := `DELETE type::record($id) RETURN BEFORE`
	result, err := db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	return decode[T](result)
}
