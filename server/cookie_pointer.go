package server

import (
	"net/http"

	"github.com/devunion/storefront-auth/sessions"
)

// ActiveSessionCookie carries the tab's active-session pointer. The durable
// session collection lives server side; only the pointer travels with the
// browser.
const ActiveSessionCookie = "du_active_session_id"

// cookiePointer adapts the active-session pointer onto a cookie. Writes are
// reflected locally so reads within the same request observe them before the
// response ships.
type cookiePointer struct {
	w       http.ResponseWriter
	r       *http.Request
	current string
	touched bool
}

var _ sessions.ActivePointer = (*cookiePointer)(nil)

func newCookiePointer(w http.ResponseWriter, r *http.Request) *cookiePointer {
	return &cookiePointer{w: w, r: r}
}

func (p *cookiePointer) Get() string {
	if p.touched {
		return p.current
	}
	cookie, err := p.r.Cookie(ActiveSessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (p *cookiePointer) Set(id string) {
	http.SetCookie(p.w, &http.Cookie{
		Name:     ActiveSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	p.current = id
	p.touched = true
}

func (p *cookiePointer) Clear() {
	http.SetCookie(p.w, &http.Cookie{
		Name:     ActiveSessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	p.current = ""
	p.touched = true
}
