package cmd

import (
	"fmt"
	"strings"
)

var commandNames = []string{
	"tui", "add", "ls", "toggle", "edit", "rm", "clear", "export", "import",
	"theme", "config", "tail", "completion", "version", "help",
}

// completionCommand prints a completion script for the given shell.
func completionCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskflow completion <bash|zsh|fish|powershell>")
	}

	words := strings.Join(commandNames, " ")
	switch strings.ToLower(args[0]) {
	case "bash":
		fmt.Printf(bashCompletion, words)
	case "zsh":
		fmt.Printf(zshCompletion, words)
	case "fish":
		fmt.Printf(fishCompletion, words)
	case "powershell", "pwsh":
		fmt.Printf(powershellCompletion, strings.Join(quoteAll(commandNames), ", "))
	default:
		return fmt.Errorf("unsupported shell %q (expected bash, zsh, fish or powershell)", args[0])
	}
	return nil
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = "'" + w + "'"
	}
	return out
}

const bashCompletion = `# taskflow bash completion
_taskflow() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
        theme) COMPREPLY=($(compgen -W "dark light toggle" -- "$cur")); return ;;
        completion) COMPREPLY=($(compgen -W "bash zsh fish powershell" -- "$cur")); return ;;
        export|import) COMPREPLY=($(compgen -f -- "$cur")); return ;;
    esac
    if [[ $COMP_CWORD -eq 1 ]]; then
        COMPREPLY=($(compgen -W "%s" -- "$cur"))
    fi
}
complete -F _taskflow taskflow
`

const zshCompletion = `#compdef taskflow
# taskflow zsh completion
_taskflow() {
    local -a commands
    commands=(%s)
    if (( CURRENT == 2 )); then
        compadd -a commands
        return
    fi
    case "$words[2]" in
        theme) compadd dark light toggle ;;
        completion) compadd bash zsh fish powershell ;;
        export|import) _files ;;
    esac
}
compdef _taskflow taskflow
`

const fishCompletion = `# taskflow fish completion
complete -c taskflow -f
complete -c taskflow -n '__fish_use_subcommand' -a '%s'
complete -c taskflow -n '__fish_seen_subcommand_from theme' -a 'dark light toggle'
complete -c taskflow -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'
complete -c taskflow -n '__fish_seen_subcommand_from export import' -F
`

const powershellCompletion = `# taskflow PowerShell completion
Register-ArgumentCompleter -Native -CommandName taskflow -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    $commands = @(%s)
    $commands | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`
