// Package auth manages the client's session with the catalog server.
//
// The server issues short-lived bearer tokens in exchange for account
// credentials. A Session owns the current token, logs in lazily on first
// use, and refreshes before expiry. Concurrent callers that all discover an
// expired token share a single login request via singleflight, so a burst
// of catalog calls after wake-up never stampedes the login endpoint.
//
// Tokens live in memory only and die with the process; there is no
// persistence layer here.
//
// # Usage
//
//	session, err := auth.NewSession(auth.Config{
//	    BaseURL: "https://music.example.com",
//	    Credentials: auth.Credentials{
//	        Username: "driver",
//	        Password: password, // resolved via the secret package
//	    },
//	})
//
//	httpClient := &http.Client{
//	    Transport: auth.NewTransport(session, nil),
//	}
//
// The Transport injects the bearer token into every request and retries
// once with a forced refresh when the server answers 401.
package auth
