package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"gameshelf/internal/app"
	"gameshelf/internal/i18n"
	"gameshelf/internal/shelf"

	"github.com/spf13/cobra"
)

// game command
var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Manage the active user's games",
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List games",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		platform, _ := cmd.Flags().GetString("platform")
		where, _ := cmd.Flags().GetString("where")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.ListGames(cmd.Context(), shelf.Query{
			Search:   search,
			Platform: shelf.Platform(platform),
			Where:    where,
			Page:     max(page-1, 0),
			PageSize: pageSize,
		})
		if err != nil {
			return err
		}

		if result.TotalItems == 0 {
			fmt.Println("No games found.")
			return nil
		}

		tr := a.Translator()
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, g := range result.Items {
			fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%s\n",
				g.ID, g.Title, platformLabel(tr, g.Platform), tr.T(shelf.ConditionLabelKey(g.Condition)),
				formatPrice(g), platinumMark(g))
		}
		tw.Flush()
		fmt.Printf("\nPage %d of %d, %d game(s), total %.2f\n",
			result.Page+1, result.TotalPages, result.TotalItems, result.TotalPrice)
		return nil
	},
}

var gameShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one game",
	Args:  cobra.ExactArgs(1),
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

		g, err := a.GetGame(cmd.Context(), id)
		if err != nil {
			return err
		}

		tr := a.Translator()
		fmt.Printf("ID:          %d\n", g.ID)
		fmt.Printf("Title:       %s\n", g.Title)
		fmt.Printf("Platform:    %s\n", platformLabel(tr, g.Platform))
		fmt.Printf("Store:       %s\n", storeLabel(tr, g.Store))
		fmt.Printf("Condition:   %s\n", tr.T(shelf.ConditionLabelKey(g.Condition)))
		fmt.Printf("Price:       %s\n", formatPrice(g))
		fmt.Printf("Platinum:    %v\n", g.Platinum)
		if g.Description != "" {
			fmt.Printf("Description: %s\n", g.Description)
		}
		if g.Image != "" {
			fmt.Printf("Cover:       %s\n", g.Image)
		}
		return nil
	},
}

var gameAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a game",
	RunE: func(cmd *cobra.Command, args []string) error {
		var g shelf.Game
		if err := applyGameFlags(cmd, &g); err != nil {
			return err
		}

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.AddGame(cmd.Context(), g)
		if err != nil {
			return err
		}
		fmt.Printf("Added #%d %s\n", id, g.Title)
		return nil
	},
}

var gameUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a game",
	Args:  cobra.ExactArgs(1),
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

		g, err := a.GetGame(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := applyGameFlags(cmd, &g); err != nil {
			return err
		}
		if err := a.UpdateGame(cmd.Context(), id, g); err != nil {
			return err
		}
		fmt.Printf("Updated #%d %s\n", id, g.Title)
		return nil
	},
}

var gameDeleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Delete games",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, len(args))
		for i, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids[i] = id
		}

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := a.Collection(cmd.Context())
		if err != nil {
			return err
		}
		targets, err := findGames(view, ids)
		if err != nil {
			return err
		}

		question := fmt.Sprintf("Delete %d games?", len(targets))
		if len(targets) == 1 {
			question = fmt.Sprintf("Delete #%d %s?", targets[0].ID, targets[0].Title)
		}
		ok, err := confirm(cmd, question)
		if err != nil || !ok {
			return err
		}

		deleted, err := deleteGames(cmd.Context(), a.DeleteGame, view, targets)
		for _, g := range deleted {
			fmt.Printf("Deleted #%d %s\n", g.ID, g.Title)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%d games left, total price %.2f\n", view.Len(), shelf.TotalPrice(view.All()))
		return nil
	},
}

// findGames picks the games with the given IDs out of view, in argument
// order and without duplicates.
func findGames(view *shelf.CollectionView, ids []int64) ([]shelf.Game, error) {
	byID := make(map[int64]shelf.Game, view.Len())
	for _, g := range view.All() {
		byID[g.ID] = g
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]shelf.Game, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		g, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("#%d: %w", id, shelf.ErrNotFound)
		}
		seen[id] = true
		out = append(out, g)
	}
	return out, nil
}

// deleteGames deletes games one by one and drops each from view once the
// store has confirmed it. It stops at the first failure.
func deleteGames(ctx context.Context, del func(context.Context, int64) error, view *shelf.CollectionView, games []shelf.Game) ([]shelf.Game, error) {
	deleted := make([]shelf.Game, 0, len(games))
	for _, g := range games {
		if err := del(ctx, g.ID); err != nil {
			return deleted, fmt.Errorf("deleting #%d: %w", g.ID, err)
		}
		view.Remove(g.ID)
		deleted = append(deleted, g)
	}
	return deleted, nil
}

var gameClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every game of the active user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		userID, ok := a.CurrentUser()
		if !ok {
			return shelf.ErrNoActiveUser
		}
		ok, err = confirm(cmd, fmt.Sprintf("Delete all games of %s?", userID))
		if err != nil || !ok {
			return err
		}
		if err := a.ClearGames(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Library cleared.")
		return nil
	},
}

// applyGameFlags copies the flags the user set onto g.
func applyGameFlags(cmd *cobra.Command, g *shelf.Game) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		g.Title, _ = flags.GetString("title")
	}
	if flags.Changed("price") {
		p, _ := flags.GetFloat64("price")
		g.Price = shelf.PriceOf(p)
	}
	if flags.Changed("no-price") {
		g.Price = nil
	}
	if flags.Changed("store") {
		s, _ := flags.GetString("store")
		g.Store = shelf.StoreCode(s)
	}
	if flags.Changed("platform") {
		p, _ := flags.GetString("platform")
		g.Platform = shelf.Platform(p)
	}
	if flags.Changed("condition") {
		raw, _ := flags.GetString("condition")
		c, err := shelf.ParseCondition(raw)
		if err != nil {
			return err
		}
		g.Condition = c
	}
	if flags.Changed("platinum") {
		g.Platinum, _ = flags.GetBool("platinum")
	}
	if flags.Changed("description") {
		g.Description, _ = flags.GetString("description")
	}
	return nil
}

func addGameFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "Title")
	f.Float64("price", 0, "Price paid")
	f.String("store", "", "Store code (see `shelf game stores`)")
	f.String("platform", "", "Platform code (see `shelf game platforms`)")
	f.String("condition", "", "New, Used or Unknown")
	f.Bool("platinum", false, "Platinum trophy earned")
	f.String("description", "", "Free text notes")
}

// catalog listings
var gamePlatformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List platform codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCatalog(cmd, shelf.Platforms())
	},
}

var gameStoresCmd = &cobra.Command{
	Use:   "stores",
	Short: "List store codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCatalog(cmd, shelf.Stores())
	},
}

func printCatalog(cmd *cobra.Command, entries []shelf.CatalogEntry) error {
	a, err := newApp(cmd, app.Options{SkipVersionCheck: true})
	if err != nil {
		return err
	}
	defer a.Close()

	tr := a.Translator()
	for _, e := range entries {
		fmt.Printf("%-12s %s\n", e.Code, tr.T(e.LabelKey))
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid game id %q", s)
	}
	return id, nil
}

func platformLabel(tr *i18n.Translator, p shelf.Platform) string {
	if p == "" {
		return "-"
	}
	return tr.T(shelf.PlatformLabelKey(p))
}

func storeLabel(tr *i18n.Translator, s shelf.StoreCode) string {
	if s == "" {
		return "-"
	}
	return tr.T(shelf.StoreLabelKey(s))
}

func formatPrice(g shelf.Game) string {
	if g.Price == nil {
		return "-"
	}
	return strconv.FormatFloat(*g.Price, 'f', 2, 64)
}

func platinumMark(g shelf.Game) string {
	if g.Platinum {
		return "P"
	}
	return ""
}

func init() {
	gameCmd.AddCommand(gameListCmd)
	gameListCmd.Flags().StringP("search", "s", "", "Title substring")
	gameListCmd.Flags().StringP("platform", "p", "", "Platform code")
	gameListCmd.Flags().StringP("where", "w", "", "Filter expression, e.g. 'price > 20 && !platinum'")
	gameListCmd.Flags().Int("page", 1, "Page number")
	gameListCmd.Flags().Int("page-size", 0, "Games per page (default from config)")

	gameCmd.AddCommand(gameShowCmd)
	gameCmd.AddCommand(gameAddCmd)
	addGameFlags(gameAddCmd)
	gameAddCmd.MarkFlagRequired("title")
	gameCmd.AddCommand(gameUpdateCmd)
	addGameFlags(gameUpdateCmd)
	gameUpdateCmd.Flags().Bool("no-price", false, "Remove the price")
	gameCmd.AddCommand(gameDeleteCmd)
	gameCmd.AddCommand(gameClearCmd)
	gameCmd.AddCommand(gamePlatformsCmd)
	gameCmd.AddCommand(gameStoresCmd)

	rootCmd.AddCommand(gameCmd)
}
