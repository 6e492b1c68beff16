// Package config defines configuration structures for the alkisfetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (ALKISFETCH_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    Catalog    string
//	    Output     string
//	    StartIndex int
//	    EndIndex   int
//	    Workers    int
//	    Force      bool
//	    DryRun     bool
//	    Progress   bool
//	    Insecure   bool
//	    Timeout    time.Duration
//	    UserAgent  string
//	    Retry      RetryConfig
//	}
//
//	type RetryConfig struct {
//	    Attempts   int
//	    Backoff    time.Duration
//	    MaxBackoff time.Duration
//	}
package config
