// Package settings stores user preferences for the streaming client.
//
// Settings are loaded from a TOML file with environment overrides
// (prefix DASHTUNE_) layered on top of built-in defaults. Credentials are
// never stored in clear: the password field holds a secretref that the
// secret package resolves at client construction time.
//
//	s, err := settings.Load("")
//	if err != nil {
//	    return err
//	}
//	if err := s.Validate(); err != nil {
//	    return err
//	}
package settings
