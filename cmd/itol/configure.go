package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/itol/clientcli"
	"github.com/sagarc03/itol/config"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage upload profiles",
	Long: `Manage upload profiles in the profiles file.

A profile stores an iTOL batch upload ID and project name so they need not
be passed on every upload. Select one with --profile or ITOL_PROFILES_NAME.

Profiles are stored in ~/.itol/profiles.yaml unless --profiles-file is set.`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles in the profiles file.

The default profile is marked with an asterisk (*).`,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a profile",
	Long: `Add a profile interactively.

You will be prompted for:
  - Batch upload ID
  - Project name
  - Whether to set as default

The upload endpoint is checked before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Show details for a profile.

If no name is provided, shows the default profile.
Upload IDs are masked; use --show-secrets to reveal them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)

	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show upload IDs")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show upload IDs")
}

func profilesPath(cmd *cobra.Command) (string, *config.Config, error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return "", nil, err
	}
	if cfg.Profiles.Path == "" {
		return "", nil, errors.New("cannot locate the profiles file; set --profiles-file")
	}
	return cfg.Profiles.Path, cfg, nil
}

func runConfigureList(cmd *cobra.Command, _ []string) error {
	path, _, err := profilesPath(cmd)
	if err != nil {
		return err
	}

	file, err := clientcli.LoadConfigFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load profiles: %w", err)
	}
	if file == nil || len(file.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Run 'itol configure add <name>' to create one.")
		return nil
	}

	def, err := file.GetDefaultProfile()
	if err != nil {
		return err
	}
	return getFormatter().FormatProfileList(os.Stdout, file.Profiles, def.Name, showSecrets)
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	path, cfg, err := profilesPath(cmd)
	if err != nil {
		return err
	}

	file, err := clientcli.LoadConfigFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load profiles: %w", err)
		}
		file = &clientcli.ConfigFile{}
	}

	existing, _ := file.GetProfile(name)
	if existing != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	uploadIDPrompt := promptui.Prompt{
		Label: "Batch upload ID",
		Mask:  '*',
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("upload ID is required")
			}
			return nil
		},
	}
	uploadIDVal, err := uploadIDPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	projectPrompt := promptui.Prompt{
		Label: "Project name",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("project name is required with an upload ID")
			}
			return nil
		},
	}
	if existing != nil {
		projectPrompt.Default = existing.ProjectName
	}
	projectVal, err := projectPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	setAsDefault := len(file.Profiles) == 0 || (existing != nil && existing.Default)
	if !setAsDefault {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	endpoint := cfg.Server.UploadURL
	fmt.Print("Checking upload endpoint... ")
	if connErr := testServerConnection(endpoint); connErr != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: could not reach %s: %v\n", endpoint, connErr)

		continuePrompt := promptui.Prompt{
			Label:     "Save profile anyway",
			IsConfirm: true,
		}
		if _, promptErr := continuePrompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	} else {
		fmt.Println("OK")
	}

	profile := clientcli.Profile{
		Name:        name,
		UploadID:    strings.TrimSpace(uploadIDVal),
		ProjectName: strings.TrimSpace(projectVal),
	}
	if existing != nil {
		profile.UploadURL = existing.UploadURL
		profile.DownloadURL = existing.DownloadURL
		err = file.UpdateProfile(profile)
	} else {
		err = file.AddProfile(profile)
	}
	if err != nil {
		return err
	}
	if setAsDefault {
		if err := file.SetDefault(name); err != nil {
			return err
		}
	}

	if err := file.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	if existing != nil {
		fmt.Printf("Profile '%s' updated.\n", name)
	} else {
		fmt.Printf("Profile '%s' added.\n", name)
	}
	if setAsDefault {
		fmt.Println("Set as default profile.")
	}
	return nil
}

func runConfigureRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	path, _, err := profilesPath(cmd)
	if err != nil {
		return err
	}

	file, err := clientcli.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	if _, err = file.GetProfile(name); err != nil {
		return err
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		fmt.Println("Cancelled.")
		return nil //nolint:nilerr // User cancelled, not an error
	}

	if err := file.RemoveProfile(name); err != nil {
		return err
	}

	if err := file.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(cmd *cobra.Command, args []string) error {
	name := args[0]
	path, _, err := profilesPath(cmd)
	if err != nil {
		return err
	}

	file, err := clientcli.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	if err := file.SetDefault(name); err != nil {
		return err
	}

	if err := file.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Default profile set to '%s'.\n", name)
	return nil
}

func runConfigureShow(cmd *cobra.Command, args []string) error {
	path, _, err := profilesPath(cmd)
	if err != nil {
		return err
	}

	file, err := clientcli.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := file.GetProfile(name)
	if err != nil {
		return err
	}

	def, _ := file.GetDefaultProfile()
	isDefault := def != nil && def.Name == p.Name

	return getFormatter().FormatProfileShow(os.Stdout, *p, isDefault, showSecrets)
}

// testServerConnection reports whether the endpoint answers at all. Any HTTP
// response counts as reachable.
func testServerConnection(endpoint string) error {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
