package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kmears/orgrun/internal/argcodec"
	"github.com/kmears/orgrun/internal/sfdx"
)

var queryJSONOut bool

var queryCmd = &cobra.Command{
	Use:     "query <soql>",
	Short:   "Run a SOQL query against the default org",
	GroupID: "ops",
	Args:    cobra.ExactArgs(1),
	Example: `  orgrun query "SELECT Id, Name FROM Account LIMIT 10"
  orgrun query "SELECT Id FROM Case" --json-out`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSONOut, "json-out", false, "Print raw result JSON instead of a table")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDefaultOrg(cfg); err != nil {
		return err
	}
	runner := newRunner(cfg)

	// The SOQL text is one logical argument full of spaces; encode it so it
	// survives tokenization.
	line := "force:data:soql:query -q " + argcodec.Encode(args[0])
	result, err := runner.Run(cmd.Context(), line, buildTarget(cfg), sfdx.RunOptions{UseDefaultOrg: true})
	if err != nil {
		return err
	}

	if queryJSONOut {
		return printJSON(result)
	}

	var payload struct {
		TotalSize int              `json:"totalSize"`
		Records   []map[string]any `json:"records"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return fmt.Errorf("unexpected query payload: %w", err)
	}

	printRecordTable(payload.Records)
	fmt.Printf("\n%d records\n", payload.TotalSize)
	return nil
}

// printRecordTable renders query records with one column per field, columns
// sorted by name for stable output. The "attributes" metadata field is
// dropped.
func printRecordTable(records []map[string]any) {
	if len(records) == 0 {
		return
	}

	columns := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			if k != "attributes" {
				columns[k] = true
			}
		}
	}
	var cols []string
	for k := range columns {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, col := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, rec := range records {
		for i, col := range cols {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			if v, ok := rec[col]; ok && v != nil {
				fmt.Fprintf(w, "%v", v)
			}
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
