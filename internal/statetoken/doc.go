// Package statetoken issues and verifies the anti-CSRF tokens carried in the
// 'state' parameter of the OAuth handshake with Slack.
//
// When a user visits /install, we redirect them to Slack's authorization page
// with a freshly minted state token; when Slack sends them back to
// /authorize, it echoes that token, and we refuse to proceed unless it
// verifies. Without this check, an attacker could forge a callback URL
// carrying their own authorization code and trick a victim into completing an
// installation the victim never started.
//
// The token is a signed JWT whose only claim is an expiry ten minutes out,
// HMAC-SHA256'd with a secret shared by both legs of the flow. Because its
// validity is derived entirely from its own bytes plus that secret, the
// /install and /authorize handlers stay fully stateless between the two legs
// of the redirect: no session table, no server-side affinity. The trade-off
// is that a captured token remains replayable until it expires; there is no
// server-side registry of consumed tokens.
package statetoken
