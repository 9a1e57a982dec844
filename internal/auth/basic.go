package auth

import (
	"encoding/base64"
	"fmt"
)

// BasicAuthHeader builds the value for an Authorization header carrying
// HTTP basic-auth credentials: the literal "Basic " followed by the
// base64 encoding of "username:password". Pure and deterministic; basic
// auth is an encoding, not encryption, so the credentials must only
// travel over trusted transports.
func BasicAuthHeader(username, password string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", username, password)))
	return "Basic " + encoded
}
