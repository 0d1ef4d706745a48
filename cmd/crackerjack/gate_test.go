package main

import "testing"

func TestRunGateRequiresMetricsFlag(t *testing.T) {
	flagMetricsFile = ""
	err := runGate(gateCmd, nil)
	if err == nil {
		t.Fatal("expected an error when --metrics is empty")
	}
}

func TestGateFlagDefaults(t *testing.T) {
	flag := gateCmd.Flags().Lookup("metrics")
	if flag == nil {
		t.Fatal("expected --metrics flag to be registered")
	}
	if flag.DefValue != "" {
		t.Errorf("expected empty default, got %q", flag.DefValue)
	}
}
