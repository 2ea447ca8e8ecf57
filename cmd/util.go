package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kmears/orgrun/internal/config"
	"github.com/kmears/orgrun/internal/exec"
	"github.com/kmears/orgrun/internal/logger"
	"github.com/kmears/orgrun/internal/notify"
	"github.com/kmears/orgrun/internal/sfdx"
)

// loadConfig reads the persisted settings from the orgrun home directory.
func loadConfig() (*config.Config, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

// newRunner builds the production runner: real processes, console
// notifications, file-backed debug log.
func newRunner(cfg *config.Config) *sfdx.Runner {
	r := sfdx.New(exec.NewOSExecutor(), notify.NewConsole(), logger.WithComponent("sfdx"))
	r.SetBinary(cfg.BinaryName())
	return r
}

// buildTarget assembles the per-invocation target from config and the current
// working directory. This is the only place ambient state is read; below here
// everything is passed explicitly.
func buildTarget(cfg *config.Config) sfdx.Target {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return sfdx.Target{
		Org: cfg.GetDefaultOrg(),
		Dir: wd,
		Env: cfg.GetExtraEnv(),
	}
}

// requireDefaultOrg fails fast before spawning anything when an
// identity-scoped command has no org to run against.
func requireDefaultOrg(cfg *config.Config) error {
	if cfg.GetDefaultOrg() == "" {
		return fmt.Errorf("no default org set; run 'orgrun use <alias>' first")
	}
	return nil
}

// printJSON pretty-prints a raw payload to stdout.
func printJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var buf any
	if err := json.Unmarshal(raw, &buf); err != nil {
		// Not JSON after all; emit verbatim.
		fmt.Println(string(raw))
		return nil
	}
	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
