// Package config provides configuration loading and validation for the itol
// command.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right;
//     ./itol.yaml when none is given
//  3. Environment variables (ITOL_ prefix)
//  4. CLI flags that were explicitly set
//
// # Usage
//
//	cfg, err := config.Load([]string{"itol.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
//	client, err := clientcli.New(cfg.Client(profile))
//
// # Environment Variables
//
// All config keys map to environment variables with ITOL_ prefix:
//   - http.retries → ITOL_HTTP_RETRIES
//   - profiles.name → ITOL_PROFILES_NAME
//   - log.level → ITOL_LOG_LEVEL
//
// # Configuration Structure
//
//   - Server: upload_url, download_url and tree_url
//   - HTTP: timeout, retries and retry_wait for downloads
//   - Profiles: path of the profiles file and the profile to use
//   - Log: level (debug, info, warn, error) and format (text, json)
package config
