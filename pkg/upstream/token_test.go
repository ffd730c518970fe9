package upstream

import (
	"testing"
	"time"
)

func TestToken_OK(t *testing.T) {
	tests := []struct {
		name  string
		token Token
		want  bool
	}{
		{
			name:  "fresh token",
			token: Token{Value: "abc", Succeeded: true, Expiry: time.Now().Add(time.Hour)},
			want:  true,
		},
		{
			name:  "empty value",
			token: Token{Value: "", Succeeded: true, Expiry: time.Now().Add(time.Hour)},
			want:  false,
		},
		{
			name:  "issuance failed",
			token: Token{Value: "abc", Succeeded: false, Expiry: time.Now().Add(time.Hour)},
			want:  false,
		},
		{
			name:  "expired",
			token: Token{Value: "abc", Succeeded: true, Expiry: time.Now().Add(-time.Minute)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToken_ShouldRefresh(t *testing.T) {
	tests := []struct {
		name  string
		token Token
		want  bool
	}{
		{
			name:  "well before expiry",
			token: Token{Value: "abc", Succeeded: true, Expiry: time.Now().Add(time.Hour)},
			want:  false,
		},
		{
			name:  "inside the refresh margin",
			token: Token{Value: "abc", Succeeded: true, Expiry: time.Now().Add(ExpiryMargin / 2)},
			want:  true,
		},
		{
			name:  "expired",
			token: Token{Value: "abc", Succeeded: true, Expiry: time.Now().Add(-time.Minute)},
			want:  true,
		},
		{
			name:  "not ok",
			token: Token{Value: "", Succeeded: false, Expiry: time.Now().Add(time.Hour)},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.ShouldRefresh(); got != tt.want {
				t.Errorf("ShouldRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewToken_CoercesSuccess(t *testing.T) {
	token := newToken(&signInResponse{
		JWT:     "",
		Success: true,
		Expiry:  time.Now().Add(time.Hour).Unix(),
	})
	if token.Succeeded {
		t.Error("success must be coerced to false when the jwt is empty")
	}
}

func TestToken_AuthHeader(t *testing.T) {
	token := Token{Value: "abc123"}
	if got := token.AuthHeader(); got != "Bearer abc123" {
		t.Errorf("AuthHeader() = %q, want %q", got, "Bearer abc123")
	}
}
