package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := clientcli.DefaultConfig()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, clientcli.DefaultUploadURL, cfg.UploadURL)
		assert.Equal(t, clientcli.DefaultDownloadURL, cfg.DownloadURL)
		assert.Equal(t, itol.DefaultTreeURL, cfg.TreeURL)
		assert.Equal(t, clientcli.DefaultRetries, cfg.Retries)
		assert.Equal(t, clientcli.DefaultTimeout, cfg.Timeout)
	})

	t.Run("empty config fails", func(t *testing.T) {
		err := (&clientcli.Config{}).Validate()
		var cfgErr *itol.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "uploadurl", cfgErr.Field)
	})

	t.Run("negative retries", func(t *testing.T) {
		cfg := clientcli.DefaultConfig()
		cfg.Retries = -1
		var cfgErr *itol.ConfigurationError
		require.ErrorAs(t, cfg.Validate(), &cfgErr)
		assert.Equal(t, "retries", cfgErr.Field)
	})

	t.Run("bad download url", func(t *testing.T) {
		cfg := clientcli.DefaultConfig()
		cfg.DownloadURL = "itol"
		var cfgErr *itol.ConfigurationError
		require.ErrorAs(t, cfg.Validate(), &cfgErr)
		assert.Equal(t, "downloadurl", cfgErr.Field)
	})
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := &clientcli.Config{UploadURL: "http://localhost/up", Timeout: time.Second}
	got := cfg.WithDefaults()

	assert.Equal(t, "http://localhost/up", got.UploadURL)
	assert.Equal(t, clientcli.DefaultDownloadURL, got.DownloadURL)
	assert.Equal(t, time.Second, got.Timeout)
	assert.Equal(t, clientcli.DefaultRetryWait, got.RetryWait)
	assert.Zero(t, got.Retries)
	assert.Empty(t, cfg.DownloadURL, "original is not modified")
}

func TestConfig_ApplyProfile(t *testing.T) {
	base := clientcli.DefaultConfig()

	t.Run("nil profile", func(t *testing.T) {
		assert.Equal(t, base, base.ApplyProfile(nil))
	})

	t.Run("endpoints override", func(t *testing.T) {
		got := base.ApplyProfile(&clientcli.Profile{Name: "mirror", DownloadURL: "http://mirror/dl"})
		assert.Equal(t, clientcli.DefaultUploadURL, got.UploadURL)
		assert.Equal(t, "http://mirror/dl", got.DownloadURL)
		assert.Equal(t, clientcli.DefaultDownloadURL, base.DownloadURL)
	})
}

func TestConfigFile_Profiles(t *testing.T) {
	newFile := func() *clientcli.ConfigFile {
		return &clientcli.ConfigFile{Profiles: []clientcli.Profile{
			{Name: "lab", UploadID: "LABKEY", ProjectName: "lab"},
			{Name: "personal", UploadID: "MYKEY", ProjectName: "mine", Default: true},
		}}
	}

	t.Run("get by name", func(t *testing.T) {
		p, err := newFile().GetProfile("lab")
		require.NoError(t, err)
		assert.Equal(t, "LABKEY", p.UploadID)
	})

	t.Run("empty name gets default", func(t *testing.T) {
		p, err := newFile().GetProfile("")
		require.NoError(t, err)
		assert.Equal(t, "personal", p.Name)
	})

	t.Run("first profile when none is default", func(t *testing.T) {
		cf := &clientcli.ConfigFile{Profiles: []clientcli.Profile{{Name: "a"}, {Name: "b"}}}
		p, err := cf.GetDefaultProfile()
		require.NoError(t, err)
		assert.Equal(t, "a", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := newFile().GetProfile("nope")
		assert.ErrorIs(t, err, clientcli.ErrProfileNotFound)
	})

	t.Run("no profiles", func(t *testing.T) {
		_, err := (&clientcli.ConfigFile{}).GetProfile("")
		assert.ErrorIs(t, err, clientcli.ErrNoProfiles)
	})

	t.Run("add duplicate", func(t *testing.T) {
		err := newFile().AddProfile(clientcli.Profile{Name: "lab"})
		assert.ErrorIs(t, err, clientcli.ErrProfileExists)
	})

	t.Run("update", func(t *testing.T) {
		cf := newFile()
		require.NoError(t, cf.UpdateProfile(clientcli.Profile{Name: "lab", UploadID: "NEW", ProjectName: "lab2"}))
		p, err := cf.GetProfile("lab")
		require.NoError(t, err)
		assert.Equal(t, "NEW", p.UploadID)

		assert.ErrorIs(t, cf.UpdateProfile(clientcli.Profile{Name: "ghost"}), clientcli.ErrProfileNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		cf := newFile()
		require.NoError(t, cf.RemoveProfile("lab"))
		assert.Equal(t, []string{"personal"}, cf.ProfileNames())
		assert.ErrorIs(t, cf.RemoveProfile("lab"), clientcli.ErrProfileNotFound)
	})

	t.Run("set default is exclusive", func(t *testing.T) {
		cf := newFile()
		require.NoError(t, cf.SetDefault("lab"))
		assert.True(t, cf.Profiles[0].Default)
		assert.False(t, cf.Profiles[1].Default)
		assert.ErrorIs(t, cf.SetDefault("ghost"), clientcli.ErrProfileNotFound)
	})
}

func TestConfigFile_SaveLoad(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "profiles.yaml")
		cf := &clientcli.ConfigFile{Profiles: []clientcli.Profile{
			{Name: "lab", UploadID: "LABKEY", ProjectName: "lab", Default: true},
		}}
		require.NoError(t, cf.Save(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := clientcli.LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, cf, loaded)
	})

	t.Run("yaml keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		content := `profiles:
  - name: work
    upload_id: WORKKEY
    project_name: trees
    default: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cf, err := clientcli.LoadConfigFile(path)
		require.NoError(t, err)
		p, err := cf.GetProfile("")
		require.NoError(t, err)
		assert.Equal(t, "WORKKEY", p.UploadID)
		assert.Equal(t, "trees", p.ProjectName)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := clientcli.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles: [unclosed"), 0o600))
		_, err := clientcli.LoadConfigFile(path)
		assert.Error(t, err)
	})
}
