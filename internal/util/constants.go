package util

// gin context keys
const (
	ContextClientID = "clientId"
	ContextState    = "appState"
)

// OAuthSessionName is the gorilla session holding a pending federated
// sign-in.
const OAuthSessionName = "learnhub_oauth"
