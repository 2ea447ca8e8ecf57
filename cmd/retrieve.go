package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmears/orgrun/internal/argcodec"
	"github.com/kmears/orgrun/internal/sfdx"
)

var retrieveCmd = &cobra.Command{
	Use:     "retrieve <path>",
	Short:   "Retrieve source from the default org",
	GroupID: "ops",
	Args:    cobra.ExactArgs(1),
	Example: `  orgrun retrieve force-app/main/default/classes`,
	RunE:    runRetrieve,
}

func init() {
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDefaultOrg(cfg); err != nil {
		return err
	}
	runner := newRunner(cfg)

	line := "force:source:retrieve -p " + argcodec.Encode(args[0])
	result, err := runner.Run(cmd.Context(), line, buildTarget(cfg), sfdx.RunOptions{UseDefaultOrg: true})
	if err != nil {
		return err
	}

	var payload struct {
		InboundFiles []struct {
			FilePath string `json:"filePath"`
			FullName string `json:"fullName"`
			Type     string `json:"type"`
		} `json:"inboundFiles"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		// Shape varies across CLI versions; fall back to the raw payload.
		return printJSON(result)
	}

	for _, f := range payload.InboundFiles {
		fmt.Printf("%s\t%s\n", f.Type, f.FilePath)
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Retrieved %d files", len(payload.InboundFiles))))
	return nil
}
