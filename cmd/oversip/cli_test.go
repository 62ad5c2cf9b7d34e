package main

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// resetFlags clears the package-level flag state cobra leaves behind
// between Execute calls in the same test binary.
func resetFlags() {
	flagPIDFile = ""
	flagProcessName = "oversip"
	flagUser = ""
	flagGroup = ""
	flagRemoveMqueue = ""
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		f.Value.Set("false")
		f.Changed = false
	}
}

func TestRootCommandHelp(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"--pid", "--process-name", "--user", "--group", "--no-color", "--remove-mqueue", "version", "init", "hash-password"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
	if strings.Contains(out, "syslogger") {
		t.Error("hidden syslogger command leaked into help output")
	}
}

func TestVersionCommand(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"oversip", "commit:", "built:", "go:", "os/arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q", want)
		}
	}
}

func TestUnknownSubcommand(t *testing.T) {
	resetFlags()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"nonexistent"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}

func TestMissingPIDFileIsFatal(t *testing.T) {
	resetFlags()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected fatal error without --pid")
	}
	if !strings.Contains(err.Error(), "PID file") {
		t.Errorf("error = %v, want PID file requirement", err)
	}
}

func TestRemoveMqueueInvalidName(t *testing.T) {
	resetFlags()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--remove-mqueue", "not-absolute"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid queue name")
	}
	if !strings.Contains(err.Error(), "invalid message queue name") {
		t.Errorf("error = %v, want invalid-name failure", err)
	}
}

func TestHashPasswordPiped(t *testing.T) {
	resetFlags()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetIn(strings.NewReader("hunter2\n"))
	rootCmd.SetArgs([]string{"hash-password", "--cost", "4"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")); err != nil {
		t.Errorf("emitted hash does not verify: %v", err)
	}
}

func TestInitStdout(t *testing.T) {
	resetFlags()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"init", "--stdout"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[core]") {
		t.Errorf("sample config missing [core] section:\n%s", out.String())
	}
}
