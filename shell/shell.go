package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/banco/calculator"
	"github.com/domino14/banco/config"
	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/shoe"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNothingToUndo     = errors.New("nothing to undo")
)

// maxHistory bounds the undo stack.
const maxHistory = 1000

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string
	out      io.Writer

	calc     *calculator.Calculator
	schedule equity.Schedule

	shoe    *shoe.Shoe
	history []*shoe.Shoe
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// newController sets up everything but the terminal.
func newController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	calc, err := calculator.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	sched, err := cfg.Schedule()
	if err != nil {
		return nil, err
	}
	return &ShellController{
		config:   cfg,
		out:      out,
		calc:     calc,
		schedule: sched,
		shoe:     shoe.Full(cfg.GetInt(config.ConfigDecks)),
	}, nil
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc, err := newController(cfg, os.Stdout)
	if err != nil {
		panic(err)
	}
	sc.execPath = execPath
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mbanco>\033[0m ",
		HistoryFile:     "/tmp/banco_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stdout()
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into the command, its positional arguments
// and its -option value pairs.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		// "-3" is an argument, not an option.
		if strings.HasPrefix(f, "-") && len(f) > 1 && !isNumber(f[1:]) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			opt := strings.TrimPrefix(f, "-")
			options[opt] = append(options[opt], fields[idx+1])
			idx++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func isNumber(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return s != ""
}

// pushShoe makes s current, keeping the previous shoe for undo.
func (sc *ShellController) pushShoe(s *shoe.Shoe) {
	sc.history = append(sc.history, sc.shoe)
	if len(sc.history) > maxHistory {
		sc.history = sc.history[1:]
	}
	sc.shoe = s
}

func (sc *ShellController) popShoe() error {
	if len(sc.history) == 0 {
		return errNothingToUndo
	}
	sc.shoe = sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	return nil
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("cmd", cmd.cmd).Strs("args", cmd.args).Msg("shell-command")

	switch cmd.cmd {
	case "exit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newShoe(cmd)
	case "remove", "rm", "deal":
		return sc.remove(cmd)
	case "add":
		return sc.add(cmd)
	case "set":
		return sc.setCount(cmd)
	case "burn":
		return sc.burn(cmd)
	case "undo":
		return sc.undo(cmd)
	case "show":
		return msg(sc.shoe.String()), nil
	case "ev":
		return sc.ev(cmd)
	case "effects":
		return sc.effects(cmd)
	case "payout", "payouts":
		return sc.payout(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	}
	return nil, fmt.Errorf("command %v not found", strings.TrimSpace(cmd.cmd))
}

// Execute runs a single line, for use from the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.handle(line)
	if errors.Is(err, errExit) {
		sig <- syscall.SIGINT
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		resp, err := sc.handle(line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
