// Package oauth implements the HTTP surface of the installation handshake:
// the leg that sends the user to Slack and the leg that receives them back.
//
// GET /install mints a signed state token and redirects the browser to
// Slack's authorization page, where the user reviews the scopes our app is
// requesting. Once they decide, Slack redirects them to GET /authorize with
// an authorization code (or an error), echoing the state token back to us.
//
// The callback handler runs a strict sequence: verify the state token, check
// whether the user declined, exchange the code for an access token, persist
// the workspace credential, then redirect the user into their Slack client.
// The state check always runs first, so a forged callback can't reach any of
// the later steps. Every failure along the way is converted into a rendered
// error page; nothing escapes the handler, and nothing is retried.
package oauth
