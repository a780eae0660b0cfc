// Package secret keeps credentials out of settings files.
//
// Settings store references instead of plaintext; the reference is
// resolved when the client is assembled:
//
//	password: secretref:env:DASHTUNE_PASSWORD
//	header:   Bearer secretref:env:DASHTUNE_API_TOKEN
//
// Three pieces cooperate:
//   - ExpandEnvStrict expands ${VAR} and errors on unset variables
//   - Provider + Registry plug in resolution backends ("env" is built in)
//   - Resolver ties both together for whole values, slices, and maps
package secret
