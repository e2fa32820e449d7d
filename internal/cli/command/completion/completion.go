package completion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/prtriage/internal/cli/flags"
	"github.com/thomas-vilte/prtriage/internal/config"
	"github.com/thomas-vilte/prtriage/internal/i18n"
	"github.com/thomas-vilte/prtriage/internal/ui"
)

const bashScript = `#! /bin/bash

_prtriage_complete() {
  local cur opts
  COMPREPLY=()
  cur="${COMP_WORDS[COMP_CWORD]}"
  local words=("${COMP_WORDS[@]:0:$COMP_CWORD}")
  opts=$( "${words[@]}" --generate-shell-completion )
  COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
  return 0
}

complete -o bashdefault -o default -o nospace -F _prtriage_complete prtriage
`

const zshScript = `#compdef prtriage

_prtriage() {
  local -a opts
  local words_before=("${(@)words[1,$CURRENT-1]}")
  opts=("${(@f)$("${words_before[@]}" --generate-shell-completion)}")
  _describe 'values' opts
}

compdef _prtriage prtriage
`

const (
	installMarker = "# prtriage shell completion"
	installBlock  = "\n" + installMarker + "\nif command -v prtriage >/dev/null 2>&1; then\n\tsource <(prtriage completion %s)\nfi\n"
)

var scripts = map[string]string{
	"bash": bashScript,
	"zsh":  zshScript,
}

type CompletionCommandFactory struct{}

func NewCompletionCommandFactory() *CompletionCommandFactory {
	return &CompletionCommandFactory{}
}

func (c *CompletionCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "completion",
		Usage: t.GetMessage("completion.command_usage", 0, nil),
		Commands: []*cli.Command{
			printScript(t, "bash"),
			printScript(t, "zsh"),
			{
				Name:  "install",
				Usage: t.GetMessage("completion.install_usage", 0, nil),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					home, err := os.UserHomeDir()
					if err != nil {
						return err
					}
					return install(flags.Stdout(cmd), t, os.Getenv("SHELL"), home)
				},
			},
		},
	}
}

func printScript(t *i18n.Translations, shell string) *cli.Command {
	return &cli.Command{
		Name:  shell,
		Usage: t.GetMessage("completion."+shell+"_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprint(flags.Stdout(cmd), scripts[shell])
			return err
		},
	}
}

// install appends the completion loader to the rc file of the user's shell
// unless it is already there.
func install(w io.Writer, t *i18n.Translations, shell, home string) error {
	var shellName, rcFile string
	switch {
	case strings.Contains(shell, "zsh"):
		shellName, rcFile = "zsh", filepath.Join(home, ".zshrc")
	case strings.Contains(shell, "bash"):
		shellName, rcFile = "bash", filepath.Join(home, ".bashrc")
	default:
		return fmt.Errorf("%s", t.GetMessage("completion.error_unsupported_shell", 0, map[string]interface{}{"Shell": shell}))
	}

	if data, err := os.ReadFile(rcFile); err == nil && strings.Contains(string(data), installMarker) {
		ui.PrintInfo(w, t.GetMessage("completion.already_installed", 0, map[string]interface{}{"File": rcFile}))
		return nil
	}

	f, err := os.OpenFile(rcFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, installBlock, shellName); err != nil {
		return err
	}

	ui.PrintSuccess(w, t.GetMessage("completion.installed_success", 0, map[string]interface{}{"File": rcFile}))
	return nil
}
