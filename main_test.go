package main

import "testing"

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"config", "dry-run", "debug"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
	if rootCmd.RunE == nil {
		t.Fatalf("root command has no run function")
	}
}

func TestRunRejectsMissingConfigFile(t *testing.T) {
	cfgFile = t.TempDir() + "/missing.yaml"
	defer func() { cfgFile = "" }()

	if err := run(rootCmd, nil); err == nil {
		t.Fatalf("expected an error for a missing explicit config file")
	}
}
