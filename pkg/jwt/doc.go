// Package jwt signs and validates the API's bearer tokens.
//
// Tokens are HS256 JWTs carrying the registered claims plus the user id,
// email, user name, tenant and role:
//
//	svc, err := jwt.NewService(jwt.Config{
//	    Secret:         os.Getenv("JWT_SECRET"),
//	    Issuer:         "airqo-platform",
//	    ExpirationMins: 60,
//	})
//	token, err := svc.Sign(jwt.Claims{UserID: "user:abc", Tenant: "airqo"})
//
//	claims, err := svc.Validate(token)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // ask the client to log in again
//	}
package jwt
