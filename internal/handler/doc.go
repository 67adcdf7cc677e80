// Package handler binds the accounts API to HTTP.
//
// Each resource has a handler struct built from the service interface it
// needs and a RegisterRoutes method that mounts its routes on a
// net/http ServeMux using method patterns. Routes that need a caller are
// wrapped with the auth middleware passed to RegisterRoutes.
//
// Handlers do no classification of their own: they read the tenant that the
// tenant middleware placed on the context, decode the body, call the service
// and write the returned model.Result under the resource key, e.g.
//
//	{"success": true, "message": "successfully listed the users", "users": [...]}
//	{"success": false, "message": "user not found", "errors": {"message": "..."}}
//
// Modify and remove select their record from query parameters and refuse to
// run without one.
package handler
