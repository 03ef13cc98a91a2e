package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vectordesk/core/v1/vectorstore"
)

var (
	searchProfile    string
	searchCollection string
	searchQuery      string
	searchIDs        []string
	searchWhere      string
	searchLimit      int
	searchOffset     int
	searchEmbeddings bool
	searchJSON       bool
	searchEF         string
	searchEFConfig   map[string]string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search, fetch, or list documents in a collection",
	Long: `Search documents in a collection. The request shape picks the mode:
a query string runs a semantic search, --id fetches records directly, and
neither lists records page by page. --where filters list results by a
metadata predicate given as JSON.

Examples:
  vdctl search --profile local --collection articles -q "vector databases"
  vdctl search --profile local --collection articles --id doc-1 --id doc-2
  vdctl search --profile local --collection articles --where '{"lang":"en"}' --limit 50`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchProfile, "profile", "p", "", "profile id (required)")
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "", "collection name (required)")
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "query text for semantic search")
	searchCmd.Flags().StringArrayVar(&searchIDs, "id", nil, "fetch a record by id (repeatable)")
	searchCmd.Flags().StringVar(&searchWhere, "where", "", "metadata filter as JSON")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 0, "maximum results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "offset into list results")
	searchCmd.Flags().BoolVar(&searchEmbeddings, "embeddings", false, "include vectors in the output")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.Flags().StringVar(&searchEF, "ef", "", "embedding function name for this request")
	searchCmd.Flags().StringToStringVar(&searchEFConfig, "ef-config", nil, "embedding function config as key=value")
	searchCmd.MarkFlagRequired("profile")
	searchCmd.MarkFlagRequired("collection")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req := vectorstore.SearchRequest{
		Collection:        searchCollection,
		Query:             searchQuery,
		IDs:               searchIDs,
		Limit:             searchLimit,
		Offset:            searchOffset,
		IncludeEmbeddings: searchEmbeddings,
	}
	if searchWhere != "" {
		if err := json.Unmarshal([]byte(searchWhere), &req.Where); err != nil {
			return fmt.Errorf("invalid --where filter: %w", err)
		}
	}

	override, err := efDescriptor(searchEF, searchEFConfig)
	if err != nil {
		return err
	}

	log := newLogger()
	profiles, err := openProfiles(log)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer profiles.Close()

	pl := newPool(log, profiles)
	defer pl.Shutdown(context.Background())

	store, err := connect(ctx, profiles, pl, searchProfile)
	if err != nil {
		return err
	}

	results, err := store.SearchDocuments(ctx, req, override)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	fmt.Printf("Found %d results in %q:\n\n", len(results), searchCollection)
	for i, r := range results {
		if r.Distance != nil {
			fmt.Printf("--- [%d] %s (distance: %.4f) ---\n", i+1, r.ID, *r.Distance)
		} else {
			fmt.Printf("--- [%d] %s ---\n", i+1, r.ID)
		}
		// Truncate long text for display
		text := r.Document
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		if text != "" {
			fmt.Println(text)
		}
		if len(r.Metadata) > 0 {
			meta, err := json.Marshal(r.Metadata)
			if err == nil {
				fmt.Printf("metadata: %s\n", meta)
			}
		}
		fmt.Println()
	}
	return nil
}
