package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vectordesk/core/v1/vectorstore"
)

var (
	collectionsProfile string

	collectionsListJSON bool

	collectionsCreateDimension int
	collectionsCreateDistance  string
	collectionsCreateEF        string
	collectionsCreateEFConfig  map[string]string
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Browse and manage collections on a connected store",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections with counts and embedding functions",
	RunE:  runCollectionsList,
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Long: `Create a collection on the profile's store.

Backends that embed server-side accept an embedding function via --ef;
backends that expect client-side vectors usually need --dimension.

Examples:
  vdctl collections create articles --profile local --ef ollama --ef-config model_name=nomic-embed-text
  vdctl collections create points --profile edge --dimension 384 --distance cosine`,
	Args: cobra.ExactArgs(1),
	RunE: runCollectionsCreate,
}

var collectionsDropCmd = &cobra.Command{
	Use:   "drop <name>",
	Short: "Delete a collection and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsDrop,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsCreateCmd)
	collectionsCmd.AddCommand(collectionsDropCmd)

	collectionsCmd.PersistentFlags().StringVarP(&collectionsProfile, "profile", "p", "", "profile id (required)")
	collectionsCmd.MarkPersistentFlagRequired("profile")

	collectionsListCmd.Flags().BoolVar(&collectionsListJSON, "json", false, "output as JSON")

	collectionsCreateCmd.Flags().IntVar(&collectionsCreateDimension, "dimension", 0, "vector dimension")
	collectionsCreateCmd.Flags().StringVar(&collectionsCreateDistance, "distance", "", "distance metric, e.g. cosine")
	collectionsCreateCmd.Flags().StringVar(&collectionsCreateEF, "ef", "", "embedding function name")
	collectionsCreateCmd.Flags().StringToStringVar(&collectionsCreateEFConfig, "ef-config", nil, "embedding function config as key=value")
}

func runCollectionsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := newLogger()
	profiles, err := openProfiles(log)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer profiles.Close()

	pl := newPool(log, profiles)
	defer pl.Shutdown(context.Background())

	store, err := connect(ctx, profiles, pl, collectionsProfile)
	if err != nil {
		return err
	}

	list, err := store.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if collectionsListJSON {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(list) == 0 {
		fmt.Println("No collections.")
		return nil
	}

	fmt.Printf("%-28s %10s %10s  %s\n", "NAME", "COUNT", "DIMENSION", "EMBEDDING")
	for _, info := range list {
		dim := "-"
		if info.Dimension > 0 {
			dim = strconv.Itoa(info.Dimension)
		}
		ef := "-"
		if info.EmbeddingFunction != nil {
			ef = info.EmbeddingFunction.Name
		}
		fmt.Printf("%-28s %10d %10s  %s\n", info.Name, info.Count, dim, ef)
	}
	return nil
}

func runCollectionsCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	descriptor, err := efDescriptor(collectionsCreateEF, collectionsCreateEFConfig)
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

	store, err := connect(ctx, profiles, pl, collectionsProfile)
	if err != nil {
		return err
	}

	info, err := store.CreateCollection(ctx, vectorstore.CollectionSpec{
		Name:              name,
		Dimension:         collectionsCreateDimension,
		Distance:          collectionsCreateDistance,
		EmbeddingFunction: descriptor,
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	fmt.Printf("Collection %q created:\n", info.Name)
	fmt.Printf("  Backend:   %s\n", store.Backend())
	if info.Dimension > 0 {
		fmt.Printf("  Dimension: %d\n", info.Dimension)
	}
	if info.EmbeddingFunction != nil {
		fmt.Printf("  Embedding: %s\n", info.EmbeddingFunction.Name)
	}
	return nil
}

func runCollectionsDrop(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := newLogger()
	profiles, err := openProfiles(log)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer profiles.Close()

	pl := newPool(log, profiles)
	defer pl.Shutdown(context.Background())

	store, err := connect(ctx, profiles, pl, collectionsProfile)
	if err != nil {
		return err
	}

	if err := store.DeleteCollection(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}

	fmt.Printf("Collection %q dropped.\n", args[0])
	return nil
}
