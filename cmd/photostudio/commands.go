package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/photostudio/internal/cache"
	"github.com/kalambet/photostudio/internal/catalog"
	"github.com/kalambet/photostudio/internal/config"
	"github.com/kalambet/photostudio/internal/storage"
	"github.com/kalambet/photostudio/internal/studio"
)

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate three corporate portrait variants from source photos",
	Long: `Generate three corporate portrait variants (front, 45-degree side, full body)
from one to three source photos.

Examples:
  photostudio generate --name "김민준" --dealer 마이스터모터스 --showroom 강남대치 --image photo.jpg
  photostudio generate --name "Lee" --dealer 지엔비 --showroom 대구 --background showroom \
    --image front.jpg --image side.jpg --output ./portraits`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		dealer, _ := cmd.Flags().GetString("dealer")
		showroom, _ := cmd.Flags().GetString("showroom")
		background, _ := cmd.Flags().GetString("background")
		images, _ := cmd.Flags().GetStringArray("image")
		output, _ := cmd.Flags().GetString("output")

		if name == "" || dealer == "" || showroom == "" {
			return fmt.Errorf("--name, --dealer, and --showroom are required")
		}
		if len(images) < 1 || len(images) > 3 {
			return fmt.Errorf("between 1 and 3 --image flags are required, got %d", len(images))
		}

		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		if !cat.HasDealer(dealer) {
			return fmt.Errorf("unknown dealer %q (see `photostudio dealers`)", dealer)
		}
		if !cat.HasShowroom(dealer, showroom) {
			return fmt.Errorf("dealer %q has no showroom %q (see `photostudio dealers`)", dealer, showroom)
		}

		sources := make([]string, 0, len(images))
		for _, path := range images {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading source image: %w", err)
			}
			sources = append(sources, studio.EncodeImage(data))
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		generator := studio.New(cfg.Gemini.APIKey, cfg.Gemini.Model)

		printStep("Generating portraits for %s (%s / %s)...", name, dealer, showroom)
		portraits, err := generator.Generate(cmd.Context(), studio.Request{
			SourceImages: sources,
			Background:   studio.Background(background),
			Name:         name,
		})
		if err != nil {
			return err
		}

		shots := []struct {
			shot    string
			payload string
		}{
			{"front", portraits.Front},
			{"side", portraits.Side},
			{"full", portraits.Full},
		}
		for _, s := range shots {
			path, err := writePortrait(output, name, s.shot, s.payload)
			if err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
		}

		record := storage.Record{
			Name:           name,
			Dealer:         dealer,
			Showroom:       showroom,
			ImageFront:     portraits.Front,
			ImageSide:      portraits.Side,
			ImageFull:      portraits.Full,
			BackgroundType: background,
			CreatedAt:      time.Now().UTC(),
		}

		// Optimistic local insert. Kept even if the backend write below fails.
		localCache := cache.New(cfg.Storage.DataDir)
		if err := localCache.Prepend(record); err != nil {
			printWarning("could not update local history cache: %v", err)
		}

		// Best-effort server write. Generation already succeeded; a failure
		// here only means the shared history misses this entry.
		client, err := newAPIClient()
		if err != nil {
			printWarning("history not saved to server: %v", err)
			return nil
		}
		resp, err := client.post(cmd.Context(), "/api/history", record)
		if err != nil {
			printWarning("history not saved to server: %v", err)
			return nil
		}
		var result map[string]int64
		if err := decodeJSON(resp, &result); err != nil {
			printWarning("history not saved to server: %v", err)
			return nil
		}

		if err := adoptServerID(localCache, result["id"]); err != nil {
			printWarning("could not update local history cache: %v", err)
		}
		printSuccess("Saved to history (id %d)", result["id"])
		return nil
	},
}

func init() {
	generateCmd.Flags().String("name", "", "sales rep display name")
	generateCmd.Flags().String("dealer", "", "dealer name")
	generateCmd.Flags().String("showroom", "", "showroom name")
	generateCmd.Flags().String("background", "solid", "background type: solid, logo, or showroom")
	generateCmd.Flags().StringArray("image", nil, "source photo path (repeat up to 3 times)")
	generateCmd.Flags().String("output", ".", "directory for the generated images")
}

// writePortrait decodes an inline image payload and writes it next to the
// subject's name, picking the extension from the payload's media type.
func writePortrait(dir, name, shot, payload string) (string, error) {
	data, mimeType, err := studio.DecodeImage(payload)
	if err != nil {
		return "", fmt.Errorf("decoding %s shot: %w", shot, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s%s", name, shot, extensionFor(mimeType)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s shot: %w", shot, err)
	}
	return path, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// adoptServerID stamps the server-assigned id onto the freshest cached record
// so later deletes can reference it.
func adoptServerID(c *cache.Cache, id int64) error {
	records, err := c.Load()
	if err != nil {
		return err
	}
	if len(records) == 0 || records[0].ID != 0 {
		return nil
	}
	records[0].ID = id
	return c.Save(records)
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage generation history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past generations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		localCache := cache.New(cfg.Storage.DataDir)

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		records, err := fetchHistory(cmd.Context(), client, localCache)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No history found.")
			return nil
		}

		for _, r := range records {
			fmt.Printf("%s  %s  %s  %s / %s  [%s]\n",
				colorize(colorCyan, fmt.Sprintf("#%d", r.ID)),
				r.CreatedAt.Format(time.RFC3339),
				colorize(colorBold, r.Name),
				r.Dealer,
				r.Showroom,
				r.BackgroundType,
			)
		}
		return nil
	},
}

// fetchHistory prefers server truth and refreshes the local cache from it.
// On any fetch failure (unreachable, error status, undecodable body) the
// cached list stays authoritative and is shown instead.
func fetchHistory(ctx context.Context, client *apiClient, localCache *cache.Cache) ([]storage.Record, error) {
	resp, err := client.get(ctx, "/api/history")
	if err != nil {
		printWarning("server not reachable, showing cached history")
		return localCache.Load()
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		printWarning("server error (HTTP %d), showing cached history", resp.StatusCode)
		return localCache.Load()
	}

	var records []storage.Record
	if err := decodeJSON(resp, &records); err != nil {
		printWarning("could not read server history (%v), showing cached history", err)
		return localCache.Load()
	}

	if err := localCache.Save(records); err != nil {
		printWarning("could not refresh local history cache: %v", err)
	}
	return records, nil
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		return deleteHistory(cmd.Context(), client, cache.New(cfg.Storage.DataDir), id)
	},
}

// deleteHistory removes an entry optimistically from the local cache, then
// asks the server to delete it. Backend failures are reported as warnings and
// never fail the command; the local removal is not rolled back.
func deleteHistory(ctx context.Context, client *apiClient, localCache *cache.Cache, id int64) error {
	removed, err := localCache.Remove(id)
	if err != nil {
		printWarning("could not update local history cache: %v", err)
	}

	resp, err := client.delete(ctx, fmt.Sprintf("/api/history/%d", id))
	if err != nil {
		if removed {
			printWarning("server not reachable, removed from local cache only")
		} else {
			printWarning("server not reachable: %v", err)
		}
		return nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == 404:
		// Already gone server-side. The local state matches the intent.
		printWarning("item %d not found on server", id)
	case resp.StatusCode >= 400:
		printWarning("server could not delete item %d (HTTP %d)", id, resp.StatusCode)
	default:
		printSuccess("Deleted history entry %d", id)
	}
	return nil
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

// --- dealers ---

var dealersCmd = &cobra.Command{
	Use:   "dealers",
	Short: "List dealers and their showrooms",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}

		for _, dealer := range cat.Dealers() {
			fmt.Println(colorize(colorBold, dealer))
			for _, showroom := range cat.Showrooms(dealer) {
				fmt.Printf("  - %s\n", showroom)
			}
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <api-key>",
	Short: "Store the Gemini API key in the platform secret store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetAPIKey(args[0]); err != nil {
			return err
		}

		printSuccess("API key stored")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
}
