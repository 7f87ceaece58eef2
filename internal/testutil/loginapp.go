// Package testutil provides a local stand-in for the HRM application's login
// flow, so the page-object and scenario layers can be exercised without the
// hosted demo site. The stub mirrors the real page's element classes and
// error strings; it is not a functional clone beyond the login state machine.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

const (
	// Credentials the stub accepts, matching the demo site's defaults.
	ValidUsername = "Admin"
	ValidPassword = "admin123"

	sessionCookie = "hrm_session"
)

const loginPageTemplate = `<!DOCTYPE html>
<html>
<head><title>HRM Login</title></head>
<body>
  <div class="orangehrm-login-container">
    %s
    <form method="POST" action="/auth/login">
      <div class="oxd-input-group">
        <input name="username" placeholder="Username">
        %s
      </div>
      <div class="oxd-input-group">
        <input name="password" type="password" placeholder="Password">
        %s
      </div>
      <button type="submit" class="oxd-button">Login</button>
    </form>
  </div>
</body>
</html>`

const dashboardPage = `<!DOCTYPE html>
<html>
<head><title>HRM Dashboard</title></head>
<body>
  <header class="oxd-topbar">
    <h6 class="oxd-topbar-header-breadcrumb-module">Dashboard</h6>
    <div class="oxd-userdropdown">
      <p class="oxd-userdropdown-name">Admin User</p>
      <ul class="oxd-dropdown-menu">
        <li><a href="/auth/logout">Logout</a></li>
      </ul>
    </div>
  </header>
  <main class="oxd-layout-context">Welcome</main>
</body>
</html>`

const (
	bannerHTML   = `<div class="oxd-alert oxd-alert--error"><p class="oxd-alert-content-text">Invalid credentials</p></div>`
	requiredHTML = `<span class="oxd-input-field-error-message">Required</span>`
)

// NewLoginApp starts an HTTP server that behaves like the HRM login flow:
// valid credentials redirect to /dashboard/index and set a session cookie,
// invalid ones re-render the form with the error banner, blank fields render
// required-field errors, and visiting the login URL with a live session
// redirects straight to the dashboard.
func NewLoginApp() *httptest.Server {
	mux := http.NewServeMux()

	renderLogin := func(w http.ResponseWriter, banner bool, userRequired, passRequired bool) {
		b, u, p := "", "", ""
		if banner {
			b = bannerHTML
		}
		if userRequired {
			u = requiredHTML
		}
		if passRequired {
			p = requiredHTML
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, loginPageTemplate, b, u, p)
	}

	hasSession := func(r *http.Request) bool {
		c, err := r.Cookie(sessionCookie)
		return err == nil && c.Value == "1"
	}

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			user := strings.TrimSpace(r.PostFormValue("username"))
			pass := r.PostFormValue("password")
			if user == "" || pass == "" {
				renderLogin(w, false, user == "", pass == "")
				return
			}
			if user != ValidUsername || pass != ValidPassword {
				renderLogin(w, true, false, false)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "1", Path: "/"})
			http.Redirect(w, r, "/dashboard/index", http.StatusFound)
			return
		}
		if hasSession(r) {
			http.Redirect(w, r, "/dashboard/index", http.StatusFound)
			return
		}
		renderLogin(w, false, false, false)
	})

	mux.HandleFunc("/dashboard/index", func(w http.ResponseWriter, r *http.Request) {
		if !hasSession(r) {
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, dashboardPage)
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/auth/login", http.StatusFound)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
	})

	return httptest.NewServer(mux)
}
