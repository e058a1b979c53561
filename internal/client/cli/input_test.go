package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// fakeTerminal makes GetPassword take the terminal path and return pw.
func fakeTerminal(t *testing.T, pw string, err error) {
	t.Helper()
	oldRead, oldIs := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldIs })
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte(pw), err }
}

func noTerminal(t *testing.T) {
	t.Helper()
	old := isTerminal
	t.Cleanup(func() { isTerminal = old })
	isTerminal = func(int) bool { return false }
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name: ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	got, err := GetSimpleText(rdr("lastline"), "Name", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name", io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetPassword_FromPipeKeepsSpaces(t *testing.T) {
	noTerminal(t)
	got, err := GetPassword(rdr(" pass word \r\n"), "Password", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, " pass word ", got)
}

func TestGetPassword_FromTerminal(t *testing.T) {
	fakeTerminal(t, "hidden", nil)
	var out bytes.Buffer
	got, err := GetPassword(rdr(""), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "hidden", got)
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	fakeTerminal(t, "", errors.New("boom"))
	_, err := GetPassword(rdr(""), "Password", io.Discard)
	assert.EqualError(t, err, "boom")
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"sure\n": false,
	}
	for in, want := range tests {
		got, err := Confirm(rdr(in), "Continue?", io.Discard)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
