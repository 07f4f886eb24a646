package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sagarc03/itol/clientcli"
	"github.com/sagarc03/itol/config"
	"github.com/spf13/cobra"
)

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// loadProfile returns the selected profile, or nil when no profiles file
// exists and no profile was asked for by name.
func loadProfile(cfg *config.Config) (*clientcli.Profile, error) {
	file, err := clientcli.LoadConfigFile(cfg.Profiles.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && cfg.Profiles.Name == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	p, err := file.GetProfile(cfg.Profiles.Name)
	if errors.Is(err, clientcli.ErrNoProfiles) && cfg.Profiles.Name == "" {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("using profile", "name", p.Name, "path", cfg.Profiles.Path)
	return p, nil
}

// getClient creates a client from the loaded config and the selected profile.
func getClient(cmd *cobra.Command) (*clientcli.Client, *clientcli.Profile, error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := clientcli.New(cfg.Client(profile), clientcli.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, err
	}
	return client, profile, nil
}
