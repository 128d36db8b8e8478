package message

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetQuiet(false)
		SetSilent(false)
	})
	return &buf
}

func TestMessagePrefixes(t *testing.T) {
	buf := captureOutput(t)

	Info("loaded %d commands", 7)
	Success("done")
	Warning("careful")
	Error("failed: %s", "boom")

	assert.Equal(t, "[*] loaded 7 commands\n[+] done\n[!] careful\n[-] failed: boom\n", buf.String())
}

func TestMessageQuietAndSilent(t *testing.T) {
	buf := captureOutput(t)

	SetQuiet(true)
	Info("hidden")
	Warning("shown")
	assert.Equal(t, "[!] shown\n", buf.String())

	buf.Reset()
	SetSilent(true)
	Error("hidden")
	Critical("always")
	assert.Equal(t, "[!!] always\n", buf.String())
}

func TestBannerGreetings(t *testing.T) {
	buf := captureOutput(t)

	Banner("Welcome to conch")
	assert.Contains(t, buf.String(), "Welcome to conch\n")
}
