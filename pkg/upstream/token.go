package upstream

import (
	"time"
)

// ExpiryMargin is how long before the reported expiry a token is already
// considered due for refresh.
const ExpiryMargin = 300 * time.Second

// Token is a bearer credential issued by the upstream sign-in endpoint.
// Immutable once constructed.
type Token struct {
	// Value is the raw bearer value (the upstream's "jwt" field).
	Value string

	// Username is the account the token was issued for.
	Username string

	// Message is the server-reported sign-in message.
	Message string

	// Expiry is the absolute expiration time reported by the upstream.
	Expiry time.Time

	// Succeeded reports whether the upstream claimed a successful issuance.
	// Coerced to false when the token value is empty regardless of the claim.
	Succeeded bool
}

// signInResponse is the wire shape of the upstream sign-in endpoint.
type signInResponse struct {
	JWT      string `json:"jwt"`
	Username string `json:"username"`
	Message  string `json:"message"`
	Expiry   int64  `json:"expiry"`
	Success  bool   `json:"success"`
}

func newToken(resp *signInResponse) *Token {
	return &Token{
		Value:     resp.JWT,
		Username:  resp.Username,
		Message:   resp.Message,
		Expiry:    time.Unix(resp.Expiry, 0).UTC(),
		Succeeded: resp.Success && resp.JWT != "",
	}
}

// OK reports whether the token can be used right now.
func (t *Token) OK() bool {
	return t.Succeeded && t.Value != "" && !t.Expired()
}

// Expired reports whether the token's expiry has passed.
func (t *Token) Expired() bool {
	return !time.Now().Before(t.Expiry)
}

// AlmostExpired reports whether the token is within the refresh margin of
// its expiry.
func (t *Token) AlmostExpired() bool {
	return !time.Now().Add(ExpiryMargin).Before(t.Expiry)
}

// ShouldRefresh reports whether a caller should obtain a fresh token instead
// of using this one.
func (t *Token) ShouldRefresh() bool {
	return !t.OK() || t.AlmostExpired()
}

// AuthHeader renders the token as an Authorization header value.
func (t *Token) AuthHeader() string {
	return "Bearer " + t.Value
}
