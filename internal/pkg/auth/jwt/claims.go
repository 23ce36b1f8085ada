package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the
// whiteboard server. It includes standard claims required by the JWT
// specification and the custom claims identifying a registered user.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the account UUID of the registered user.
	ID string `json:"id"`

	// Username is the display identity carried into rooms the holder joins.
	Username string `json:"username"`

	// UserType distinguishes token-bearing identities ("registered") from
	// anonymous guests, which never hold a token.
	UserType string `json:"user_type"`
}
