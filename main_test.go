package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(f func()) string {
	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan bool)
	go func() {
		_, _ = io.Copy(&buf, r)
		done <- true
	}()

	f()
	_ = w.Close()
	os.Stdout = oldStdout
	<-done

	return buf.String()
}

func callMain() (int, string) {
	var exitCode int
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) {
		exitCode = code
	}

	output := captureOutput(RealMain)
	return exitCode, output
}

func TestRealMain(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "no arguments",
			args:           []string{"blog"},
			expectedExit:   1,
			expectedOutput: "Usage: blog <command>",
		},
		{
			name:           "help command",
			args:           []string{"blog", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: blog <command> [options]",
		},
		{
			name:           "version command",
			args:           []string{"blog", "version"},
			expectedExit:   0,
			expectedOutput: "blog version " + CliVersion,
		},
		{
			name:           "unknown command",
			args:           []string{"blog", "unknown"},
			expectedExit:   1,
			expectedOutput: "Unknown command: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			exitCode, output := callMain()

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestMigrateDispatch(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_DSN", dir+"/blog.db")
	os.Args = []string{"blog", "migrate"}

	exitCode, output := callMain()
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, output, "Database migrated successfully")
	assert.FileExists(t, dir+"/blog.db")
}

func TestPrintHelp(t *testing.T) {
	output := captureOutput(printHelp)

	assert.Contains(t, output, "Usage: blog")
	for _, cmd := range []string{"help", "version", "serve", "migrate", "seed", "--admin-email"} {
		assert.Contains(t, output, cmd)
	}
}
