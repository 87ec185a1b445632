package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/niranjcn/ConfessIt/internal/core/auth"
	"github.com/niranjcn/ConfessIt/internal/core/config"
	"github.com/niranjcn/ConfessIt/internal/core/server"
	"github.com/niranjcn/ConfessIt/internal/repo"
	"github.com/niranjcn/ConfessIt/internal/service"
	resp "github.com/niranjcn/ConfessIt/internal/transport/http/response"
	"github.com/niranjcn/ConfessIt/pkg/utils"
)

const (
	adminEmail = "admin@confessit.local"
	adminPass  = "admin-pass"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.HashPasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type env struct {
	t      *testing.T
	api    http.Handler
	admin  http.Handler
	tokens *auth.JWTer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	j := &auth.JWTer{Secret: []byte("router-secret"), Issuer: "confessit", TTL: time.Hour, AdminTTL: 2 * time.Hour}
	users := service.NewUserService(repo.NewMemUserRepo(), j, service.AdminIdentity{Email: adminEmail, Password: adminPass}, nil)
	require.NoError(t, users.EnsureAdmin(context.Background()))
	d := Deps{
		Tokens:      j,
		Users:       users,
		Confessions: service.NewConfessionService(repo.NewMemConfessionRepo(), nil),
		Limits:      config.Limits{MaxBodyBytes: 1 << 16, TimeoutSec: 5},
		Server:      server.Options{Mode: gin.TestMode},
	}
	return &env{t: t, api: NewAPIEngine(d), admin: NewAdminEngine(d), tokens: j}
}

type result struct {
	status int
	body   resp.Resp
	raw    string
}

func (e *env) do(h http.Handler, method, path, token string, body any) result {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var r resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &r)
	return result{status: w.Code, body: r, raw: w.Body.String()}
}

func (e *env) data(r result, into any) {
	e.t.Helper()
	b, err := json.Marshal(r.body.Data)
	require.NoError(e.t, err)
	require.NoError(e.t, json.Unmarshal(b, into))
}

func (e *env) signup(name, email string) string {
	e.t.Helper()
	r := e.do(e.api, http.MethodPost, "/register", "", gin.H{"username": name, "email": email, "password": "secret123"})
	require.Equal(e.t, http.StatusCreated, r.status, r.raw)
	return e.login(email, "secret123")
}

func (e *env) login(email, password string) string {
	e.t.Helper()
	r := e.do(e.api, http.MethodPost, "/login", "", gin.H{"email": email, "password": password})
	require.Equal(e.t, http.StatusOK, r.status, r.raw)
	var s struct{ Token string }
	e.data(r, &s)
	return s.Token
}

type confessionJSON struct {
	ID        string   `json:"id"`
	Sender    string   `json:"sender"`
	Recipient string   `json:"recipient"`
	Message   string   `json:"message"`
	Likes     int      `json:"likes"`
	LikedBy   []string `json:"likedBy"`
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, e.do(e.api, http.MethodGet, "/health", "", nil).status)
	m := e.do(e.api, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, m.status)
	assert.Contains(t, m.raw, "http_requests_total")
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	r := e.do(e.api, http.MethodPost, "/register", "", gin.H{"username": "alice", "email": "alice@example.com", "password": "secret123", "department": "CSE"})
	require.Equal(t, http.StatusCreated, r.status)
	assert.NotContains(t, r.raw, "passwordHash")
	assert.NotContains(t, r.raw, "$2a$")

	dup := e.do(e.api, http.MethodPost, "/register", "", gin.H{"username": "eve", "email": "alice@example.com", "password": "other123"})
	assert.Equal(t, http.StatusBadRequest, dup.status)
	assert.Equal(t, resp.KindConflict, dup.body.Kind)

	missing := e.do(e.api, http.MethodPost, "/register", "", gin.H{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, missing.status)
	assert.Equal(t, resp.KindValidation, missing.body.Kind)

	ok := e.do(e.api, http.MethodPost, "/login", "", gin.H{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, ok.status)
	var s struct {
		Token string
		Role  string
	}
	e.data(ok, &s)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "user", s.Role)

	unknown := e.do(e.api, http.MethodPost, "/login", "", gin.H{"email": "nobody@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusNotFound, unknown.status)
	assert.Equal(t, resp.KindNotFound, unknown.body.Kind)

	bad := e.do(e.api, http.MethodPost, "/login", "", gin.H{"email": "alice@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, bad.status)
	assert.Equal(t, resp.KindInvalidCredentials, bad.body.Kind)
}

func TestRegisterAdminEmailRefused(t *testing.T) {
	e := newEnv(t)
	r := e.do(e.api, http.MethodPost, "/register", "", gin.H{"username": "mallory", "email": "Admin@ConfessIt.local", "password": "attacker1"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, resp.KindConflict, r.body.Kind)
}

func TestUserPanel(t *testing.T) {
	e := newEnv(t)
	tok := e.signup("alice", "alice@example.com")

	r := e.do(e.api, http.MethodGet, "/userpanel", tok, nil)
	require.Equal(t, http.StatusOK, r.status)
	var p struct {
		Username string
		Email    string
		Role     string
	}
	e.data(r, &p)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "user", p.Role)
	assert.NotContains(t, r.raw, "$2a$")

	noTok := e.do(e.api, http.MethodGet, "/userpanel", "", nil)
	assert.Equal(t, http.StatusUnauthorized, noTok.status)
	assert.Equal(t, resp.KindAccessDenied, noTok.body.Kind)

	req := httptest.NewRequest(http.MethodGet, "/userpanel", nil)
	req.Header.Set("Authorization", tok)
	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), resp.KindInvalidTokenFormat)

	bad := e.do(e.api, http.MethodGet, "/userpanel", tok+"x", nil)
	assert.Equal(t, http.StatusBadRequest, bad.status)
	assert.Equal(t, resp.KindInvalidToken, bad.body.Kind)
}

func TestConfessionFlow(t *testing.T) {
	e := newEnv(t)
	alice := e.signup("alice", "alice@example.com")
	bob := e.signup("bob", "bob@example.com")

	anon := e.do(e.api, http.MethodPost, "/confessions", "", gin.H{"recipient": "Sam", "message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, anon.status)

	created := e.do(e.api, http.MethodPost, "/confessions", alice, gin.H{"recipient": "Sam", "message": "I like your jacket"})
	require.Equal(t, http.StatusCreated, created.status, created.raw)
	var c confessionJSON
	e.data(created, &c)
	assert.Empty(t, c.Sender)
	assert.Equal(t, 0, c.Likes)

	like := e.do(e.api, http.MethodPost, "/confessions/"+c.ID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, like.status, like.raw)
	var l struct{ Likes int }
	e.data(like, &l)
	assert.Equal(t, 1, l.Likes)

	again := e.do(e.api, http.MethodPost, "/confessions/"+c.ID+"/like", bob, nil)
	assert.Equal(t, http.StatusBadRequest, again.status)
	assert.Equal(t, resp.KindAlreadyLiked, again.body.Kind)

	gone := e.do(e.api, http.MethodPost, "/confessions/nope/like", bob, nil)
	assert.Equal(t, http.StatusNotFound, gone.status)

	anonLike := e.do(e.api, http.MethodPost, "/confessions/"+c.ID+"/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anonLike.status)

	list := e.do(e.api, http.MethodGet, "/confessions", "", nil)
	require.Equal(t, http.StatusOK, list.status)
	var cs []confessionJSON
	e.data(list, &cs)
	require.Len(t, cs, 1)
	assert.Empty(t, cs[0].Sender)
	assert.Empty(t, cs[0].LikedBy)
	assert.Equal(t, 1, cs[0].Likes)
}

func TestLeaderboard(t *testing.T) {
	e := newEnv(t)
	author := e.signup("author", "author@example.com")

	voters := make([]string, 4)
	for i := range voters {
		voters[i] = e.signup(fmt.Sprintf("v%d", i), fmt.Sprintf("v%d@example.com", i))
	}
	ids := make([]string, 7)
	for i := range ids {
		r := e.do(e.api, http.MethodPost, "/confessions", author, gin.H{"recipient": "Sam", "message": fmt.Sprintf("m%d", i)})
		require.Equal(t, http.StatusCreated, r.status)
		var c confessionJSON
		e.data(r, &c)
		ids[i] = c.ID
	}
	for i, n := range []int{0, 4, 2, 3, 1, 0, 0} {
		for v := 0; v < n; v++ {
			r := e.do(e.api, http.MethodPost, "/confessions/"+ids[i]+"/like", voters[v], nil)
			require.Equal(t, http.StatusOK, r.status)
		}
	}

	for _, path := range []string{"/confessions/top", "/leaderboard"} {
		r := e.do(e.api, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, r.status)
		var top []confessionJSON
		e.data(r, &top)
		require.Len(t, top, 5)
		assert.Equal(t, []string{ids[1], ids[3], ids[2], ids[4]}, []string{top[0].ID, top[1].ID, top[2].ID, top[3].ID})
		assert.Equal(t, ids[6], top[4].ID, "zero-like tie goes to the newest")
	}

	r := e.do(e.api, http.MethodGet, "/leaderboard?limit=2", "", nil)
	var two []confessionJSON
	e.data(r, &two)
	assert.Len(t, two, 2)
}

func TestConcurrentLikesOverHTTP(t *testing.T) {
	e := newEnv(t)
	author := e.signup("author", "author@example.com")
	r := e.do(e.api, http.MethodPost, "/confessions", author, gin.H{"recipient": "Sam", "message": "hot take"})
	var c confessionJSON
	e.data(r, &c)

	const n = 10
	tokens := make([]string, n)
	for i := range tokens {
		tok, err := e.tokens.Issue(fmt.Sprintf("voter-%d", i), "user")
		require.NoError(t, err)
		tokens[i] = tok
	}

	var wg sync.WaitGroup
	codes := make(chan int, 2*n)
	for _, tok := range tokens {
		for k := 0; k < 2; k++ {
			wg.Add(1)
			go func(tok string) {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodPost, "/confessions/"+c.ID+"/like", nil)
				req.Header.Set("Authorization", "Bearer "+tok)
				w := httptest.NewRecorder()
				e.api.ServeHTTP(w, req)
				codes <- w.Code
			}(tok)
		}
	}
	wg.Wait()
	close(codes)

	ok, dup := 0, 0
	for code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
			dup++
		}
	}
	assert.Equal(t, n, ok)
	assert.Equal(t, n, dup)

	list := e.do(e.api, http.MethodGet, "/confessions", "", nil)
	var cs []confessionJSON
	e.data(list, &cs)
	assert.Equal(t, n, cs[0].Likes)
}

func TestAdminAccess(t *testing.T) {
	e := newEnv(t)
	alice := e.signup("alice", "alice@example.com")
	r := e.do(e.api, http.MethodPost, "/confessions", alice, gin.H{"recipient": "Sam", "message": "secret crush"})
	var c confessionJSON
	e.data(r, &c)

	// A correctly signed token whose role claim says admin is still refused.
	claims, err := e.tokens.Parse(alice)
	require.NoError(t, err)
	aliceID := claims.UID
	forged, err := e.tokens.IssueAdmin(aliceID)
	require.NoError(t, err)
	for _, path := range []string{"/admin/check", "/admin/confessions", "/admin/users"} {
		res := e.do(e.api, http.MethodGet, path, forged, nil)
		assert.Equal(t, http.StatusForbidden, res.status, path)
		assert.Equal(t, resp.KindForbidden, res.body.Kind)
	}
	del := e.do(e.api, http.MethodDelete, "/confessions/"+c.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, del.status)

	check := e.do(e.api, http.MethodGet, "/login/check-admin", alice, nil)
	var flag struct{ IsAdmin bool }
	e.data(check, &flag)
	assert.False(t, flag.IsAdmin)

	wrong := e.do(e.api, http.MethodPost, "/admin/login", "", gin.H{"password": "nope"})
	assert.Equal(t, http.StatusForbidden, wrong.status)

	login := e.do(e.api, http.MethodPost, "/admin/login", "", gin.H{"password": adminPass})
	require.Equal(t, http.StatusOK, login.status)
	var s struct{ Token string }
	e.data(login, &s)
	admin := s.Token

	check = e.do(e.api, http.MethodGet, "/login/check-admin", admin, nil)
	e.data(check, &flag)
	assert.True(t, flag.IsAdmin)

	all := e.do(e.api, http.MethodGet, "/admin/confessions", admin, nil)
	require.Equal(t, http.StatusOK, all.status)
	var cs []confessionJSON
	e.data(all, &cs)
	require.Len(t, cs, 1)
	assert.Equal(t, aliceID, cs[0].Sender)

	users := e.do(e.api, http.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, users.status)
	assert.NotContains(t, users.raw, "$2a$")

	assert.Equal(t, http.StatusOK, e.do(e.api, http.MethodDelete, "/admin/confessions/"+c.ID, admin, nil).status)
	assert.Equal(t, http.StatusNotFound, e.do(e.api, http.MethodDelete, "/confessions/"+c.ID, admin, nil).status)
}

func TestRefreshToken(t *testing.T) {
	e := newEnv(t)
	alice := e.signup("alice", "alice@example.com")
	claims, err := e.tokens.Parse(alice)
	require.NoError(t, err)

	forged, err := e.tokens.Issue(claims.UID, "admin")
	require.NoError(t, err)
	r := e.do(e.api, http.MethodPost, "/refresh-token", forged, nil)
	require.Equal(t, http.StatusOK, r.status, r.raw)
	var s struct {
		Token string
		Role  string
	}
	e.data(r, &s)
	assert.Equal(t, "user", s.Role)

	fresh, err := e.tokens.Parse(s.Token)
	require.NoError(t, err)
	assert.Equal(t, claims.UID, fresh.UID)

	assert.Equal(t, http.StatusUnauthorized, e.do(e.api, http.MethodPost, "/refresh-token", "", nil).status)
}

func TestAdminEngineSurface(t *testing.T) {
	e := newEnv(t)
	login := e.do(e.admin, http.MethodPost, "/admin/login", "", gin.H{"password": adminPass})
	require.Equal(t, http.StatusOK, login.status)
	var s struct{ Token string }
	e.data(login, &s)

	assert.Equal(t, http.StatusOK, e.do(e.admin, http.MethodGet, "/admin/users", s.Token, nil).status)
	assert.Equal(t, http.StatusNotFound, e.do(e.admin, http.MethodGet, "/confessions", "", nil).status)
	assert.Equal(t, http.StatusNotFound, e.do(e.admin, http.MethodPost, "/register", "", gin.H{}).status)
}
