package main

import (
	"fmt"
	"os"
	"strings"

	"gameshelf/internal/app"
	"gameshelf/internal/config"
	"gameshelf/internal/encryption"
	"gameshelf/internal/i18n"
	"gameshelf/internal/shelf"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp(cmd *cobra.Command, opts app.Options) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if opts.Passphrase == nil {
		opts.Passphrase = func() (string, error) { return readPassphrase("Passphrase: ") }
	}
	a, err := app.NewApp(cmd.Context(), cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "shelf",
	Short:        "Personal video game collection",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and encryption keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		noKeys, _ := cmd.Flags().GetBool("no-keys")
		language, _ := cmd.Flags().GetString("language")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults.BaseDir)
		if language != "" {
			if _, err := i18n.New(language); err != nil {
				return err
			}
			cfg.Language = language
		}

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults.BaseDir)

		if noKeys {
			return nil
		}
		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("setting up encryption: %w", err)
		}
		fmt.Printf("Encryption keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Host ID:    %s\n", cfg.HostID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Language:   %s\n", cfg.Language)
		fmt.Printf("Page Size:  %d\n", cfg.PageSize())
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:      %s (%s)\n", v.Name, v.Type)
		}
		fmt.Printf("Auto Push:  %v\n", cfg.Snapshot.AutoPush)
		return nil
	},
}

// user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Pick the active profile",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		active, _ := a.CurrentUser()
		tr := a.Translator()
		for _, u := range shelf.Users() {
			marker := " "
			if u.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %-10s %s\n", marker, u.ID, tr.T(u.LabelKey))
		}
		return nil
	},
}

var userSelectCmd = &cobra.Command{
	Use:   "select USER",
	Short: "Select the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SelectUser(strings.ToLower(args[0])); err != nil {
			return err
		}
		fmt.Printf("Active user: %s\n", args[0])
		return nil
	},
}

var userCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		userID, ok := a.CurrentUser()
		if !ok {
			fmt.Println("No user selected.")
			return nil
		}
		fmt.Println(userID)
		return nil
	},
}

var userClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Log out of the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ClearUser(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and vault state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{SkipVersionCheck: true})
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Status(cmd.Context())
		if err != nil {
			return err
		}
		user := st.ActiveUser
		if user == "" {
			user = "(none)"
		}
		fmt.Printf("Host ID:        %s\n", st.HostID)
		fmt.Printf("Active user:    %s\n", user)
		fmt.Printf("Database:       %s\n", st.Database)
		if st.SchemaError != nil {
			fmt.Printf("Schema:         %v\n", st.SchemaError)
		}
		fmt.Printf("Local version:  %d\n", st.LocalVersion)
		if st.Vault {
			fmt.Printf("Vault version:  %d\n", st.RemoteVersion)
			if st.RemoteVersion > st.LocalVersion {
				fmt.Println("The vault holds a newer snapshot: run `shelf snapshot pull`.")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to confirmation prompts")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().Bool("no-keys", false, "Skip generating encryption keys")
	configInitCmd.Flags().String("language", "", "Label language (en, es)")

	// user subcommands
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userSelectCmd)
	userCmd.AddCommand(userCurrentCmd)
	userCmd.AddCommand(userClearCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(statusCmd)
}
