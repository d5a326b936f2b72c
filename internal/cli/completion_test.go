package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompletion(t *testing.T, shell string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"completion", shell})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestCompletionBash(t *testing.T) {
	output := runCompletion(t, "bash")

	assert.Contains(t, output, "# bash completion for termdash")
	assert.Contains(t, output, "__start_termdash")
	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
}

func TestCompletionZsh(t *testing.T) {
	output := runCompletion(t, "zsh")

	assert.Contains(t, output, "#compdef termdash")
	assert.Contains(t, output, "_termdash()")
}

func TestCompletionFish(t *testing.T) {
	output := runCompletion(t, "fish")

	assert.Contains(t, output, "fish completion for termdash")
	assert.Contains(t, output, "complete -c termdash")
}

func TestCompletionPowershell(t *testing.T) {
	output := runCompletion(t, "powershell")

	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	rootCmd.SetArgs([]string{"completion", "tcsh"})
	defer rootCmd.SetArgs(nil)

	assert.Error(t, rootCmd.Execute())
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}
