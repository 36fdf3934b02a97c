package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameshelf/internal/api"
	"gameshelf/internal/app"
	"gameshelf/internal/shelf"

	"github.com/spf13/cobra"
)

// import command
var importCmd = &cobra.Command{
	Use:   "import [FILE]",
	Short: "Import games from a JSON file (age-encrypted files are detected)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetBool("seed")
		if !seed && len(args) == 0 {
			return fmt.Errorf("give a FILE to import, - for stdin, or --seed")
		}

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		var res shelf.ImportResult
		if seed {
			res, err = a.ImportSeed(cmd.Context())
		} else {
			var in io.ReadCloser
			in, err = openInput(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			res, err = a.Import(cmd.Context(), in, args[0])
		}

		if res.Imported > 0 {
			fmt.Printf("Imported %d game(s)\n", res.Imported)
		}
		if err != nil {
			return fmt.Errorf("import stopped: %w", err)
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the active user's games as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		path := shelf.DefaultExportName
		if encrypt {
			path += ".age"
		}
		if len(args) > 0 {
			path = args[0]
		}

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := createOutput(path)
		if err != nil {
			return err
		}
		n, err := a.Export(cmd.Context(), out, encrypt)
		if err != nil {
			out.Abort()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		if path != "-" {
			fmt.Printf("Exported %d game(s) to %s\n", n, path)
		}
		return nil
	},
}

// cover command
var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Manage cover images",
}

var coverSetCmd = &cobra.Command{
	Use:   "set ID FILE",
	Short: "Store a cover image for a game",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		in, err := openInput(args[1])
		if err != nil {
			return err
		}
		defer in.Close()

		sum, err := a.SetCover(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		fmt.Printf("Cover stored: %s\n", sum[:12])
		return nil
	},
}

var coverGetCmd = &cobra.Command{
	Use:   "get ID FILE",
	Short: "Write a game's cover image to FILE (- for stdout)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := createOutput(args[1])
		if err != nil {
			return err
		}
		if err := a.GetCover(cmd.Context(), id, out); err != nil {
			out.Abort()
			return err
		}
		return out.Close()
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the database to and from the vault",
}

var snapshotPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the database to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		version, err := a.PushSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Snapshot pushed at version %d\n", version)
		return nil
	},
}

var snapshotPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local database with the vault snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{SkipVersionCheck: true})
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirm(cmd, "Replace the local database with the vault snapshot?")
		if err != nil || !ok {
			return err
		}
		version, err := a.PullSnapshot(cmd.Context())
		if errors.Is(err, app.ErrNoSnapshot) {
			fmt.Println("The vault has no snapshot for this host.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Snapshot pulled at version %d\n", version)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-10s  %-8s  %s  %-8s  %-8s  %s\n",
				op.ID,
				op.Operation,
				op.UserID,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				op.Parameters,
			)
		}
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Serving on http://%s (Ctrl-C to stop)\n", addr)
		return api.Serve(ctx, addr, api.NewRouter(a, a.Translator(), a.Logger()), a.Logger())
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("seed", false, "Import the built-in starter library")

	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Bool("encrypt", false, "Encrypt the export with the age public key")

	coverCmd.AddCommand(coverSetCmd)
	coverCmd.AddCommand(coverGetCmd)
	rootCmd.AddCommand(coverCmd)

	snapshotCmd.AddCommand(snapshotPushCmd)
	snapshotCmd.AddCommand(snapshotPullCmd)
	rootCmd.AddCommand(snapshotCmd)

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of operations to show")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", api.DefaultAddr, "Loopback address to listen on")
}
