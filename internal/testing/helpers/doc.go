// Package helpers provides test utilities for the accounts API HTTP layer.
//
// # JWT Helpers
//
// Issue tokens bound to a tenant, signed by a real HS256 service:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	token := jwtHelper.GenerateToken(t, user, "airqo")
//
// # Request Helpers
//
//	rec := helpers.NewRequest(t, http.MethodGet, "/api/v1/users").
//	    WithTenant("kcca").
//	    WithToken(token).
//	    Serve(router)
//
// # Envelope Assertions
//
//	helpers.AssertFailure(t, rec, http.StatusConflict, "net_acronym")
//	env := helpers.DecodeEnvelope(t, rec)
//	env.Resource(t, "users", &users)
//
// # Pointer Helpers
//
//	req := model.UpdateUserRequest{FirstName: helpers.Ptr("Ada")}
package helpers
