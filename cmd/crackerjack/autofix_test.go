package main

import "testing"

func TestRunAutofixRequiresFixerCommand(t *testing.T) {
	flagFixerCommand = ""
	err := runAutofix(autofixCmd, nil)
	if err == nil {
		t.Fatal("expected an error when --fixer-command is empty")
	}
}

func TestAutofixFlagDefaults(t *testing.T) {
	flag := autofixCmd.Flags().Lookup("fixer-command")
	if flag == nil {
		t.Fatal("expected --fixer-command flag to be registered")
	}
	if flag.DefValue != "" {
		t.Errorf("expected empty default, got %q", flag.DefValue)
	}
}
