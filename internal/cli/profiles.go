package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vectordesk/core/v1/vectorstore"
)

var (
	profileAddID       string
	profileAddName     string
	profileAddBackend  string
	profileAddURL      string
	profileAddTenant   string
	profileAddDatabase string
	profileAddIndex    string
	profileAddHost     string
	profileAddPort     int
	profileAddTLS      bool
	profileAddAPIKey   string

	profilesListJSON bool
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage stored connection profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored connection profiles",
	RunE:  runProfilesList,
}

var profilesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a connection profile",
	Long: `Add a connection profile to the profile database. Saving an existing
id replaces the stored profile.

Which flags matter depends on the backend:
  chroma    --url, optionally --tenant and --database
  pinecone  --index and --api-key
  qdrant    --host and --port, optionally --tls and --api-key

Examples:
  vdctl profiles add --id local --backend chroma --url http://localhost:8000
  vdctl profiles add --id prod --backend pinecone --index articles --api-key $PINECONE_API_KEY
  vdctl profiles add --id edge --backend qdrant --host qdrant.internal --port 6334 --tls`,
	RunE: runProfilesAdd,
}

var profilesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a profile and its embedding overrides",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesRemove,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesRemoveCmd)

	profilesListCmd.Flags().BoolVar(&profilesListJSON, "json", false, "output as JSON")

	profilesAddCmd.Flags().StringVar(&profileAddID, "id", "", "profile id (required)")
	profilesAddCmd.Flags().StringVar(&profileAddName, "name", "", "human-readable name")
	profilesAddCmd.Flags().StringVar(&profileAddBackend, "backend", "", "backend: chroma, pinecone, or qdrant (required)")
	profilesAddCmd.Flags().StringVar(&profileAddURL, "url", "", "server URL (chroma)")
	profilesAddCmd.Flags().StringVar(&profileAddTenant, "tenant", "", "tenant (chroma)")
	profilesAddCmd.Flags().StringVar(&profileAddDatabase, "database", "", "database (chroma)")
	profilesAddCmd.Flags().StringVar(&profileAddIndex, "index", "", "index name (pinecone)")
	profilesAddCmd.Flags().StringVar(&profileAddHost, "host", "", "server host (qdrant)")
	profilesAddCmd.Flags().IntVar(&profileAddPort, "port", 0, "server port (qdrant)")
	profilesAddCmd.Flags().BoolVar(&profileAddTLS, "tls", false, "connect over TLS (qdrant)")
	profilesAddCmd.Flags().StringVar(&profileAddAPIKey, "api-key", "", "API key")
	profilesAddCmd.MarkFlagRequired("id")
	profilesAddCmd.MarkFlagRequired("backend")
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	log := newLogger()
	profiles, err := openProfiles(log)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer profiles.Close()

	list, err := profiles.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if profilesListJSON {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(list) == 0 {
		fmt.Println("No profiles stored.")
		return nil
	}

	fmt.Printf("%-16s %-24s %-10s %s\n", "ID", "NAME", "BACKEND", "TARGET")
	for _, p := range list {
		fmt.Printf("%-16s %-24s %-10s %s\n", p.ID, p.Name, p.Backend, profileTarget(p))
	}
	return nil
}

func runProfilesAdd(cmd *cobra.Command, args []string) error {
	backend, err := parseBackend(profileAddBackend)
	if err != nil {
		return err
	}

	p := vectorstore.ConnectionProfile{
		ID:        profileAddID,
		Name:      profileAddName,
		Backend:   backend,
		URL:       profileAddURL,
		Tenant:    profileAddTenant,
		Database:  profileAddDatabase,
		IndexName: profileAddIndex,
		Host:      profileAddHost,
		Port:      profileAddPort,
		UseTLS:    profileAddTLS,
		APIKey:    profileAddAPIKey,
	}
	if p.Name == "" {
		p.Name = p.ID
	}

	log := newLogger()
	profiles, err := openProfiles(log)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer profiles.Close()

	if err := profiles.SaveProfile(p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("Profile %q saved.\n", p.ID)
	return nil
}

func runProfilesRemove(cmd *cobra.Command, args []string) error {
	log := newLogger()
	profiles, err := openProfiles(log)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer profiles.Close()

	if err := profiles.DeleteProfile(args[0]); err != nil {
		return err
	}

	fmt.Printf("Profile %q removed.\n", args[0])
	return nil
}

// profileTarget summarizes where a profile points for the list output.
func profileTarget(p vectorstore.ConnectionProfile) string {
	switch p.Backend {
	case vectorstore.BackendChroma:
		return p.URL
	case vectorstore.BackendPinecone:
		return p.IndexName
	case vectorstore.BackendQdrant:
		return fmt.Sprintf("%s:%d", p.Host, p.Port)
	default:
		return ""
	}
}
