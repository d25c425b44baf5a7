package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/reddit-bot/install"
	"github.com/reddit-bot/install/internal/entry"
	"github.com/reddit-bot/install/internal/slack"
	"github.com/reddit-bot/install/internal/statetoken"
)

// ExchangeFunc trades an authorization code for a workspace credential
type ExchangeFunc func(ctx context.Context, code string) (*install.Credential, error)

// PublishInstalledFunc announces a completed installation to downstream
// consumers; it may be nil when no event broker is configured
type PublishInstalledFunc func(ctx context.Context, workspaceID string) error

type Server struct {
	clientID string
	scopes   string
	appID    string

	tokens           *statetoken.Codec
	exchange         ExchangeFunc
	store            install.CredentialStore
	publishInstalled PublishInstalledFunc
}

func NewServer(clientID, clientSecret, appID, scopes string, store install.CredentialStore, publishInstalled PublishInstalledFunc) *Server {
	client := slack.NewClient(clientID, clientSecret)
	return &Server{
		clientID:         clientID,
		scopes:           scopes,
		appID:            appID,
		tokens:           statetoken.NewCodec(clientSecret),
		exchange:         client.Exchange,
		store:            store,
		publishInstalled: publishInstalled,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/").Methods("GET").HandlerFunc(s.handleHome)
	r.Path("/install").Methods("GET").HandlerFunc(s.handleInstall)
	r.Path("/authorize").Methods("GET").HandlerFunc(s.handleAuthorize)
}

// handleInstall (GET /install) starts the handshake by redirecting the
// browser to Slack's authorization page with a fresh state token
func (s *Server) handleInstall(res http.ResponseWriter, req *http.Request) {
	authorizeUrl, err := s.buildAuthorizeUrl()
	if err != nil {
		entry.Log(req).Error("Failed to build authorize URL", "error", err)
		s.renderError(res, "Invalid request.")
		return
	}
	res.Header().Set("location", authorizeUrl)
	res.WriteHeader(http.StatusFound)
}

func (s *Server) buildAuthorizeUrl() (string, error) {
	state, err := s.tokens.Issue()
	if err != nil {
		return "", fmt.Errorf("issue state token: %w", err)
	}
	u, err := url.Parse(slack.AuthorizeURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Add("client_id", s.clientID)
	q.Add("scope", s.scopes)
	q.Add("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// handleAuthorize (GET /authorize) receives the user back from Slack and
// completes the handshake
func (s *Server) handleAuthorize(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)
	q := req.URL.Query()

	// The state token gates everything else: a callback that fails CSRF
	// verification is rejected before the error and code params are even
	// looked at
	if err := s.tokens.Verify(q.Get("state")); err != nil {
		logger.Error("State token verification failed", "error", err)
		s.renderError(res, stateErrorMessage(err))
		return
	}

	// Slack signals a declined or failed authorization via the error param;
	// no code exchange is attempted in that case
	if errorCode := q.Get("error"); errorCode != "" {
		if errorCode == slack.ErrorAccessDenied {
			logger.Error("User declined the requested permissions")
			s.renderError(res, "Permissions not accepted.")
		} else {
			logger.Error("Slack reported an authorization error", "code", errorCode)
			s.renderError(res, "Slack reported an authorization error.")
		}
		return
	}

	credential, err := s.exchange(req.Context(), q.Get("code"))
	if err != nil {
		logger.Error("Code exchange failed", "error", err)
		s.renderError(res, err.Error())
		return
	}

	if err := s.store.Upsert(req.Context(), credential.WorkspaceID, credential.AccessToken); err != nil {
		logger.Error("Failed to save workspace credential", "error", err, "workspaceId", credential.WorkspaceID)
		s.renderError(res, "Failed to save installation.")
		return
	}

	// The install itself has committed; a failed event publish is logged and
	// otherwise ignored
	if s.publishInstalled != nil {
		if err := s.publishInstalled(req.Context(), credential.WorkspaceID); err != nil {
			logger.Error("Failed to publish install event", "error", err, "workspaceId", credential.WorkspaceID)
		}
	}

	logger.Info("Installed app into workspace", "workspaceId", credential.WorkspaceID)
	res.Header().Set("location", slack.AppRedirectURL+"?app="+url.QueryEscape(s.appID))
	res.WriteHeader(http.StatusFound)
}

func stateErrorMessage(err error) string {
	switch {
	case errors.Is(err, statetoken.ErrInvalidSignature):
		return "Invalid signature."
	case errors.Is(err, statetoken.ErrExpired):
		return "Expired signature."
	default:
		return "Invalid request."
	}
}
