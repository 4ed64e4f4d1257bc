package shell

import "fmt"

// Shells lists the shells Script supports.
var Shells = []string{"bash", "zsh", "fish"}

// Script returns the wrapper function for shell.
func Script(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashInit, nil
	case "zsh":
		return zshInit, nil
	case "fish":
		return fishInit, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: fish, bash, zsh)", shell)
	}
}

const posixBody = `wtree() {
    local cdfile rc dir
    cdfile="$(mktemp "${TMPDIR:-/tmp}/wtree-cd.XXXXXX")" || return
    WTREE_CD_FILE="$cdfile" command wtree "$@"
    rc=$?
    dir="$(cat "$cdfile")"
    rm -f "$cdfile"
    if [ -n "$dir" ] && [ -d "$dir" ]; then
        cd "$dir" || return
    fi
    return $rc
}
`

const bashInit = `# wtree shell wrapper
# Install: eval "$(wtree --init bash)"

` + posixBody

const zshInit = `# wtree shell wrapper
# Install: eval "$(wtree --init zsh)"

` + posixBody

const fishInit = `# wtree shell wrapper
# Install: wtree --init fish | source
# Or add to config.fish: wtree --init fish | source

function wtree --wraps=wtree --description 'Git worktree manager'
    set -l cdfile (mktemp)
    env WTREE_CD_FILE=$cdfile wtree $argv
    set -l rc $status
    set -l dir (cat $cdfile)
    rm -f $cdfile
    if test -n "$dir"; and test -d "$dir"
        cd $dir
    end
    return $rc
end
`
