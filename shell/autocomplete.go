package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/banco/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var rankLabels = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

var commandMetadata = map[string]CommandMetadata{
	"new":    {Options: []string{"-decks"}},
	"remove": {Args: rankLabels},
	"rm":     {Args: rankLabels},
	"add":    {Args: rankLabels},
	"set":    {Args: rankLabels},
	"payout": {
		Args: []string{"load", "save", "reset", "banker", "player", "tie",
			"playerpair", "bankerpair", "tie0", "tie1", "tie2", "tie3", "tie4",
			"tie5", "tie6", "tie7", "tie8", "tie9"},
	},
	"setconfig": {
		Args: []string{
			config.ConfigDecks, config.ConfigPayoutsPath, config.ConfigLabels,
			config.ConfigCacheSize, config.ConfigThreads, config.ConfigNatsURL,
			config.ConfigNatsSubject, config.ConfigHTTPAddress, config.ConfigDebug,
		},
	},
	"help": {Args: []string{"payout", "cards"}},
}

var commandNames = []string{
	"help", "new", "remove", "rm", "add", "set", "burn", "undo", "show", "ev",
	"effects", "payout", "setconfig", "exit",
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}

	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		if cmdName == "setconfig" && (len(fields) > 2 || (len(fields) == 2 && endsWithSpace)) {
			// only the key is completed
			return nil, len(prefix)
		}
		if metadata, exists := commandMetadata[cmdName]; exists {
			if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
				completions = metadata.Options
			} else {
				completions = metadata.Args
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(strings.ToLower(completion), strings.ToLower(prefix)) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}

	return matches, len(prefix)
}
