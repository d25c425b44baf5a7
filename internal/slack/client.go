// Package slack is a minimal client for the parts of the Slack API that the
// installation flow touches: the browser-facing OAuth endpoints and the
// oauth.access token exchange.
package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reddit-bot/install"
)

const (
	// AuthorizeURL is the browser-facing endpoint that starts the OAuth
	// authorization code grant flow
	AuthorizeURL = "https://slack.com/oauth/authorize"

	// AppRedirectURL is where we send the user after a completed install, to
	// land them on the app's page inside their Slack client
	AppRedirectURL = "https://slack.com/app_redirect"

	// ErrorAccessDenied is the 'error' query parameter value Slack sends when
	// the user declines the requested permissions
	ErrorAccessDenied = "access_denied"

	defaultTokenURL = "https://slack.com/api/oauth.access"
)

var (
	// ErrTransport indicates the token endpoint couldn't be reached, or the
	// request was abandoned mid-flight (timeout, canceled context)
	ErrTransport = errors.New("slack token endpoint unreachable")

	// ErrMalformedResponse indicates the token endpoint responded with
	// something other than the expected JSON shape
	ErrMalformedResponse = errors.New("malformed slack token response")
)

// APIError is returned when Slack responds to a token exchange but reports
// failure (an 'ok' field that is false or absent). Body carries the raw
// response for diagnostics.
type APIError struct {
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error retrieving access token from slack: %s", e.Body)
}

// Client performs authenticated calls against the Slack API on behalf of our
// app, identified by its client ID and secret.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Exchange trades an authorization code for a workspace credential by POSTing
// to oauth.access with HTTP Basic auth built from our client ID and secret.
// The call is aborted if ctx is canceled.
func (c *Client) Exchange(ctx context.Context, code string) (*install.Credential, error) {
	form := url.Values{}
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	// Slack reports request-level failures in the body's 'ok' field rather
	// than via HTTP status codes, so parse before checking anything else
	var parsed struct {
		Ok          bool   `json:"ok"`
		TeamID      string `json:"team_id"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !parsed.Ok {
		return nil, &APIError{Body: string(body)}
	}
	if parsed.TeamID == "" || parsed.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing team_id or access_token", ErrMalformedResponse)
	}

	return &install.Credential{
		WorkspaceID: parsed.TeamID,
		AccessToken: parsed.AccessToken,
	}, nil
}
