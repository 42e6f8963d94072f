package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/schemas"
	"github.com/jonathan/smart-applier/internal/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored candidate profiles",
}

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Validate a profile JSON file and store it for a user",
	RunE:  runProfileSave,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a stored profile",
	RunE:  runProfileShow,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE:  runProfileList,
}

var (
	profileUser string
	profileFile string
)

func init() {
	profileSaveCmd.Flags().StringVarP(&profileUser, "user", "u", "", "User ID")
	profileSaveCmd.Flags().StringVarP(&profileFile, "in", "i", "", "Path to profile JSON file")
	_ = profileSaveCmd.MarkFlagRequired("user")
	_ = profileSaveCmd.MarkFlagRequired("in")

	profileShowCmd.Flags().StringVarP(&profileUser, "user", "u", "", "User ID")
	_ = profileShowCmd.MarkFlagRequired("user")

	profileCmd.AddCommand(profileSaveCmd, profileShowCmd, profileListCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileSave(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(profileFile)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := schemas.ValidateProfileJSON(string(data)); err != nil {
		return fmt.Errorf("profile does not match schema: %w", err)
	}
	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.svc.SaveProfile(cmd.Context(), profileUser, &p); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved profile for %s (%d skills)\n", profileUser, len(p.AllSkills()))
	return nil
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.svc.Profile(cmd.Context(), profileUser)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), p)
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	profiles, err := app.store.ListProfiles(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), profiles)
	}
	for _, p := range profiles {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.UserID, p.Name, p.Email)
	}
	return nil
}
