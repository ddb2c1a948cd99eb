package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestToken_NeverCreates(t *testing.T) {
	m := NewManager(false)
	c, rec := newContext()

	_, ok := m.Token(c)
	assert.False(t, ok)
	assert.Empty(t, rec.Result().Cookies())
}

func TestIssue_SetsCookie(t *testing.T) {
	m := NewManager(false)
	c, rec := newContext()

	token := m.Issue(c)
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, CookieName, ck.Name)
	assert.Equal(t, token, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, int(m.MaxAge.Seconds()), ck.MaxAge)
}

func TestIssue_TokensAreUnique(t *testing.T) {
	m := NewManager(false)
	c1, _ := newContext()
	c2, _ := newContext()

	assert.NotEqual(t, m.Issue(c1), m.Issue(c2))
}

func TestToken_ReadsExisting(t *testing.T) {
	m := NewManager(false)
	c, _ := newContext(&http.Cookie{Name: CookieName, Value: "tok-1"})

	token, ok := m.Token(c)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestClear_ExpiresCookie(t *testing.T) {
	m := NewManager(false)
	c, rec := newContext(&http.Cookie{Name: CookieName, Value: "tok-1"})

	m.Clear(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
