package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPassword_FromPipe(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline terminated", "s3cretpass\n", "s3cretpass"},
		{"crlf", "s3cretpass\r\n", "s3cretpass"},
		{"no newline", "s3cretpass", "s3cretpass"},
		{"only first line", "first\nsecond\n", "first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, w, err := os.Pipe()
			require.NoError(t, err)
			defer r.Close()
			_, err = io.WriteString(w, tt.input)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			got, err := readPassword(io.Discard, r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"admin", "create"},
		{"report", "archive"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
