package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/itol"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, result *UploadResult) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatDataset(w io.Writer, result *DatasetResult) error
	FormatKinds(w io.Writer, kinds []KindInfo) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload prints the tree URL. Quiet mode prints only the tree ID.
func (f *HumanFormatter) FormatUpload(w io.Writer, result *UploadResult) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, result.TreeID)
		return nil
	}
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	_, _ = fmt.Fprintf(w, "Uploaded: %s\n", result.URL)
	_, _ = fmt.Fprintf(w, "  Tree ID: %s\n", result.TreeID)
	if result.Bundled {
		_, _ = fmt.Fprintf(w, "  Files:   %d (zipped)\n", len(result.Files))
	}
	return nil
}

// FormatDownload prints where the export was written.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, result.LocalPath)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Downloaded: %s -> %s (%s)\n", result.TreeID, result.LocalPath, formatSize(result.Size))
	_, _ = fmt.Fprintf(w, "  Format: %s\n", result.Format)
	_, _ = fmt.Fprintf(w, "  SHA256: %s\n", result.SHA256)
	return nil
}

// FormatDataset prints the written dataset file.
func (f *HumanFormatter) FormatDataset(w io.Writer, result *DatasetResult) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, result.Path)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Wrote %s dataset: %s (%d records)\n", result.Kind, result.Path, result.Records)
	return nil
}

// FormatKinds prints a table of dataset kinds.
func (f *HumanFormatter) FormatKinds(w io.Writer, kinds []KindInfo) error {
	nameLen, headerLen := 4, 6 // "KIND", "HEADER"
	for _, k := range kinds {
		nameLen = max(nameLen, len(k.Name))
		headerLen = max(headerLen, len(k.Header))
	}

	_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameLen, "KIND", headerLen, "HEADER", "ROW")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", nameLen), strings.Repeat("-", headerLen), strings.Repeat("-", 20))
	for _, k := range kinds {
		_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameLen, k.Name, headerLen, k.Header, k.Usage)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats profiles as a table; * marks the default.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	nameLen, projectLen := 4, 7 // "NAME", "PROJECT"
	for i := range profiles {
		nameLen = min(max(nameLen, len(profiles[i].Name)), 20)
		projectLen = min(max(projectLen, len(profiles[i].ProjectName)), 40)
	}

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", nameLen, "NAME", projectLen, "PROJECT", "UPLOAD ID")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", nameLen), strings.Repeat("-", projectLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			nameLen, truncate(p.Name, nameLen),
			projectLen, truncate(p.ProjectName, projectLen),
			maskSecret(p.UploadID, showSecrets),
		)
	}
	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:         %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Upload ID:    %s\n", maskSecret(profile.UploadID, showSecrets))
	_, _ = fmt.Fprintf(w, "Project:      %s\n", orNotSet(profile.ProjectName))
	_, _ = fmt.Fprintf(w, "Upload URL:   %s\n", orDefault(profile.UploadURL, DefaultUploadURL))
	_, _ = fmt.Fprintf(w, "Download URL: %s\n", orDefault(profile.DownloadURL, DefaultDownloadURL))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats the upload result as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result *UploadResult) error {
	return writeJSON(w, result)
}

// FormatDownload formats the download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

// FormatDataset formats the dataset result as JSON.
func (f *JSONFormatter) FormatDataset(w io.Writer, result *DatasetResult) error {
	return writeJSON(w, result)
}

// FormatKinds formats the kind listing as JSON.
func (f *JSONFormatter) FormatKinds(w io.Writer, kinds []KindInfo) error {
	return writeJSON(w, struct {
		Kinds []KindInfo `json:"kinds"`
	}{Kinds: kinds})
}

// FormatError formats an error as JSON with its code.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string         `json:"error"`
		Code  itol.ErrorCode `json:"code"`
	}{
		Error: err.Error(),
		Code:  itol.CodeOf(err),
	}
	return writeJSON(w, output)
}

type jsonProfile struct {
	Name        string `json:"name"`
	UploadID    string `json:"upload_id"`
	ProjectName string `json:"project_name,omitempty"`
	UploadURL   string `json:"upload_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Default     bool   `json:"default"`
}

func toJSONProfile(p *Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:        p.Name,
		UploadID:    maskSecret(p.UploadID, showSecrets),
		ProjectName: p.ProjectName,
		UploadURL:   p.UploadURL,
		DownloadURL: p.DownloadURL,
		Default:     isDefault,
	}
}

// FormatProfileList formats profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}
	for i := range profiles {
		output.Profiles[i] = toJSONProfile(&profiles[i], profiles[i].Name == defaultName, showSecrets)
	}
	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, toJSONProfile(&profile, isDefault, showSecrets))
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// maskSecret shows only the first and last 4 characters unless showSecrets.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orNotSet(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
