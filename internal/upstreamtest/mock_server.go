// Package upstreamtest provides an httptest double of the FAIRsharing API
// for package tests: sign-in, search, and paginated listing endpoints with
// configurable failure behavior, including the upstream's habit of reporting
// a rejected token inside a 2xx response.
package upstreamtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Server is a mock FAIRsharing API server.
type Server struct {
	ts *httptest.Server
	mu sync.Mutex

	username string
	password string

	issued      map[string]bool
	rejected    map[string]bool
	rejectAll   bool
	tokenExpiry time.Duration

	records []map[string]any

	failLoginStatus  int
	failSearchStatus int
	failSearchBody   string

	loginCalls  int
	searchCalls int
	listCalls   int

	lastSearchParams url.Values
	lastToken        string
}

// New starts a mock server accepting the given credentials.
func New(username, password string) *Server {
	s := &Server{
		username:    username,
		password:    password,
		issued:      make(map[string]bool),
		rejected:    make(map[string]bool),
		tokenExpiry: time.Hour,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/sign_in", s.handleSignIn)
	mux.HandleFunc("/search/fairsharing_records", s.handleSearch)
	mux.HandleFunc("/fairsharing_records", s.handleList)
	s.ts = httptest.NewServer(mux)

	return s
}

// URL returns the mock server's base URL.
func (s *Server) URL() string {
	return s.ts.URL
}

// Close shuts the mock server down.
func (s *Server) Close() {
	s.ts.Close()
}

// SetRecords sets the raw record payloads returned by search and listing.
func (s *Server) SetRecords(records []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// SetTokenExpiry overrides the lifetime of newly issued tokens.
func (s *Server) SetTokenExpiry(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenExpiry = d
}

// RejectToken makes search and listing reject the given token value with the
// unauthorized-via-200 signal.
func (s *Server) RejectToken(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected[value] = true
}

// RejectAllTokens makes search and listing reject every token.
func (s *Server) RejectAllTokens(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectAll = reject
}

// FailLogin makes the sign-in endpoint respond with the given HTTP status.
// Zero restores normal behavior.
func (s *Server) FailLogin(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLoginStatus = status
}

// FailSearch makes the search endpoint respond with the given HTTP status
// and body. Zero status restores normal behavior.
func (s *Server) FailSearch(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSearchStatus = status
	s.failSearchBody = body
}

// LoginCalls returns how many sign-in requests were received.
func (s *Server) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// SearchCalls returns how many search requests were received.
func (s *Server) SearchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchCalls
}

// ListCalls returns how many listing requests were received.
func (s *Server) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// LastSearchParams returns the query parameters of the last search request.
func (s *Server) LastSearchParams() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSearchParams
}

// LastToken returns the bearer value of the last authorized request.
func (s *Server) LastToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastToken
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginCalls++

	if s.failLoginStatus != 0 {
		w.WriteHeader(s.failLoginStatus)
		fmt.Fprint(w, `{"message": "sign-in unavailable"}`)
		return
	}

	var body struct {
		User struct {
			Login    string `json:"login"`
			Password string `json:"password"`
		} `json:"user"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	w.Header().Set("Content-Type", "application/json")
	if body.User.Login != s.username || body.User.Password != s.password {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"jwt":     "",
			"message": "Invalid username or password.",
		})
		return
	}

	token := fmt.Sprintf("token-%d", s.loginCalls)
	s.issued[token] = true
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"jwt":      token,
		"username": body.User.Login,
		"message":  "Signed in successfully.",
		"expiry":   time.Now().Add(s.tokenExpiry).Unix(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	s.lastSearchParams = r.URL.Query()

	if s.failSearchStatus != 0 {
		w.WriteHeader(s.failSearchStatus)
		fmt.Fprint(w, s.failSearchBody)
		return
	}

	if !s.authorized(r) {
		s.writeNeedLogin(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": s.records})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++

	if !s.authorized(r) {
		s.writeNeedLogin(w)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page[number]"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("page[size]"))
	if size < 1 {
		size = 25
	}

	start := (page - 1) * size
	end := start + size
	if start > len(s.records) {
		start = len(s.records)
	}
	if end > len(s.records) {
		end = len(s.records)
	}

	links := map[string]any{"next": nil}
	if end < len(s.records) {
		next := fmt.Sprintf("%s/fairsharing_records?page[number]=%d&page[size]=%d",
			s.ts.URL, page+1, size)
		links["next"] = next
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":  s.records[start:end],
		"links": links,
	})
}

// authorized checks the bearer token against issued, non-rejected tokens.
// Callers must hold s.mu.
func (s *Server) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) {
		return false
	}
	token := auth[len(prefix):]
	s.lastToken = token
	if s.rejectAll || s.rejected[token] {
		return false
	}
	return s.issued[token]
}

func (s *Server) writeNeedLogin(w http.ResponseWriter) {
	// Capitalized on purpose: the real upstream is not consistent about
	// casing and clients must compare case-insensitively.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Please login before continuing",
	})
}
