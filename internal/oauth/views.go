package oauth

import (
	"fmt"
	"html"
	"net/http"
)

// handleHome (GET /) serves a minimal landing page with an install link
func (s *Server) handleHome(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.Write([]byte("<!DOCTYPE html><html><head><title>Reddit Bot for Slack</title></head><body><h1>Reddit Bot for Slack</h1><p><a href=\"/install\">Add to Slack</a></p></body></html>"))
}

// renderError writes the terminal error page for a failed install or
// callback. The message is the full extent of what the user sees; details
// beyond it are only logged.
func (s *Server) renderError(res http.ResponseWriter, message string) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(res, "<!DOCTYPE html><html><head><title>Error</title></head><body><h1>Error</h1><p>%s</p></body></html>", html.EscapeString(message))
}
