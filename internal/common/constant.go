package common

// AuthHeaderName is the HTTP header carrying the bearer token on
// authenticated institute requests.
const AuthHeaderName = "Authorization"
