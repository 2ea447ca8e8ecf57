package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kmears/orgrun/internal/sfdx"
)

var (
	orgAliasStyle   = lipgloss.NewStyle().Bold(true)
	orgDefaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	orgDimStyle     = lipgloss.NewStyle().Faint(true)
)

// orgEntry is the slice element shape of force:org:list's result lists.
type orgEntry struct {
	Alias             string `json:"alias"`
	Username          string `json:"username"`
	IsDefaultUsername bool   `json:"isDefaultUsername"`
	ConnectedStatus   string `json:"connectedStatus"`
}

var orgsCmd = &cobra.Command{
	Use:     "orgs",
	Short:   "List authenticated orgs",
	GroupID: "org",
	Example: `  orgrun orgs`,
	RunE:    runOrgs,
}

var useCmd = &cobra.Command{
	Use:     "use <alias>",
	Short:   "Set the default org for identity-scoped commands",
	GroupID: "org",
	Args:    cobra.ExactArgs(1),
	Example: `  orgrun use dev-hub`,
	RunE:    runUse,
}

func init() {
	rootCmd.AddCommand(orgsCmd)
	rootCmd.AddCommand(useCmd)
}

func runOrgs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	runner := newRunner(cfg)

	result, err := runner.Run(cmd.Context(), "force:org:list", buildTarget(cfg), sfdx.RunOptions{})
	if err != nil {
		return err
	}

	var payload struct {
		NonScratchOrgs []orgEntry `json:"nonScratchOrgs"`
		ScratchOrgs    []orgEntry `json:"scratchOrgs"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return fmt.Errorf("unexpected org list payload: %w", err)
	}

	all := append(payload.NonScratchOrgs, payload.ScratchOrgs...)
	if len(all) == 0 {
		fmt.Println("No authenticated orgs. Run 'sfdx force:auth:web:login' first.")
		return nil
	}
	for _, org := range all {
		fmt.Println(formatOrgLine(org, cfg.GetDefaultOrg()))
	}
	return nil
}

// formatOrgLine renders one org entry, marking the configured default.
func formatOrgLine(org orgEntry, defaultOrg string) string {
	name := org.Alias
	if name == "" {
		name = org.Username
	}
	line := orgAliasStyle.Render(name)
	if org.Alias != "" && org.Username != "" {
		line += " " + orgDimStyle.Render(org.Username)
	}
	if org.ConnectedStatus != "" && org.ConnectedStatus != "Connected" {
		line += " " + orgDimStyle.Render("("+org.ConnectedStatus+")")
	}
	if defaultOrg != "" && (org.Alias == defaultOrg || org.Username == defaultOrg) {
		line += " " + orgDefaultStyle.Render("[default]")
	}
	return line
}

func runUse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.SetDefaultOrg(args[0])
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Default org set to %s\n", args[0])
	return nil
}
