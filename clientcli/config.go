package clientcli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sagarc03/itol"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUploadURL   = "https://itol.embl.de/batch_uploader.cgi"
	DefaultDownloadURL = "https://itol.embl.de/batch_downloader.cgi"
	DefaultTimeout     = 60 * time.Second
	DefaultRetries     = 2
	DefaultRetryWait   = 500 * time.Millisecond
)

// Profile holds the settings of one iTOL account.
type Profile struct {
	Name        string `yaml:"name"`
	UploadID    string `yaml:"upload_id,omitempty"`
	ProjectName string `yaml:"project_name,omitempty"`
	UploadURL   string `yaml:"upload_url,omitempty"`
	DownloadURL string `yaml:"download_url,omitempty"`
	Default     bool   `yaml:"default,omitempty"`
}

// ConfigFile is the profiles file.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

func (c *ConfigFile) index(name string) int {
	return slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
}

// GetProfile returns the named profile, or the default one when name is empty.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}
	if name == "" {
		return c.GetDefaultProfile()
	}
	i := c.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return &c.Profiles[i], nil
}

// GetDefaultProfile returns the profile marked default, else the first one.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}
	if i := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Default }); i >= 0 {
		return &c.Profiles[i], nil
	}
	return &c.Profiles[0], nil
}

// AddProfile appends p. Names are unique.
func (c *ConfigFile) AddProfile(p Profile) error {
	if c.index(p.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile replaces the profile with p's name.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	i := c.index(p.Name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
	}
	c.Profiles[i] = p
	return nil
}

// RemoveProfile deletes the named profile.
func (c *ConfigFile) RemoveProfile(name string) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.Profiles = slices.Delete(c.Profiles, i, i+1)
	return nil
}

// SetDefault marks the named profile as the only default.
func (c *ConfigFile) SetDefault(name string) error {
	if c.index(name) < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	for i := range c.Profiles {
		c.Profiles[i].Default = c.Profiles[i].Name == name
	}
	return nil
}

// ProfileNames lists profile names in file order.
func (c *ConfigFile) ProfileNames() []string {
	names := make([]string, len(c.Profiles))
	for i := range c.Profiles {
		names[i] = c.Profiles[i].Name
	}
	return names
}

// Save writes the file with owner-only permissions, creating its directory.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write profiles file: %w", err)
	}
	return nil
}

// LoadConfigFile reads a profiles file.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}
	return &cfg, nil
}

// DefaultConfigPath returns ~/.itol/profiles.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".itol", "profiles.yaml")
}

// Config holds the endpoints and transport settings a Client uses.
type Config struct {
	UploadURL   string        `validate:"required,url"`
	DownloadURL string        `validate:"required,url"`
	TreeURL     string        `validate:"required,url"`
	Timeout     time.Duration `validate:"gte=0"`
	Retries     int           `validate:"gte=0,lte=10"`
	RetryWait   time.Duration `validate:"gte=0"`
}

// DefaultConfig returns the public iTOL endpoints with default retries.
func DefaultConfig() *Config {
	return (&Config{Retries: DefaultRetries}).WithDefaults()
}

// WithDefaults returns a copy with empty fields filled in.
// Retries is left alone since zero is meaningful.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.DownloadURL == "" {
		cfg.DownloadURL = DefaultDownloadURL
	}
	if cfg.TreeURL == "" {
		cfg.TreeURL = itol.DefaultTreeURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = DefaultRetryWait
	}
	return &cfg
}

// Validate checks URLs and bounds.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return itol.NewConfigurationError(strings.ToLower(verrs[0].Field()), fmt.Errorf("failed %q check", verrs[0].Tag()))
		}
		return itol.NewConfigurationError("", err)
	}
	return nil
}

// ApplyProfile returns a copy of c with the profile's endpoints, if any.
func (c *Config) ApplyProfile(p *Profile) *Config {
	cfg := *c
	if p == nil {
		return &cfg
	}
	if p.UploadURL != "" {
		cfg.UploadURL = p.UploadURL
	}
	if p.DownloadURL != "" {
		cfg.DownloadURL = p.DownloadURL
	}
	return &cfg
}
