package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/undostack/internal/history"
	"github.com/dshills/undostack/internal/textedit"
)

// errQuit stops the command loop without reporting an error.
var errQuit = errors.New("quit")

// describer is implemented by actions that can label their transaction.
type describer interface {
	Description() string
}

// session interprets scratchpad commands against one document and its
// history. Edits join the open transaction until begin, undo or redo
// closes it, the way a text editor groups keystrokes.
type session struct {
	doc  *textedit.Document
	hist *history.Manager
	out  io.Writer

	// autoName is set while the open transaction should be named after
	// its actions rather than by the user.
	autoName bool
}

func newSession(doc *textedit.Document, hist *history.Manager, out io.Writer) *session {
	return &session{doc: doc, hist: hist, out: out, autoName: true}
}

// run executes commands from r until EOF or quit. Command errors are
// printed and processing continues; only read errors are returned.
func (s *session) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := s.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (s *session) exec(line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "type":
		text, err := parseText(rest)
		if err != nil {
			return err
		}
		return s.edit(textedit.NewInsert(s.doc, s.doc.Len(), text))

	case "insert":
		offArg, textArg, _ := strings.Cut(rest, " ")
		off, err := parseInt("offset", offArg)
		if err != nil {
			return err
		}
		text, err := parseText(strings.TrimSpace(textArg))
		if err != nil {
			return err
		}
		return s.edit(textedit.NewInsert(s.doc, off, text))

	case "delete":
		args := strings.Fields(rest)
		if len(args) != 2 {
			return errors.New("usage: delete START END")
		}
		start, err := parseInt("start", args[0])
		if err != nil {
			return err
		}
		end, err := parseInt("end", args[1])
		if err != nil {
			return err
		}
		return s.edit(textedit.NewDelete(s.doc, start, end))

	case "backspace":
		count := 1
		if rest != "" {
			n, err := parseInt("count", rest)
			if err != nil {
				return err
			}
			count = n
		}
		if s.doc.Len() == 0 {
			return errors.New("document is empty")
		}
		return s.edit(textedit.NewBackspace(s.doc, s.doc.Len(), count))

	case "begin":
		s.hist.BeginNewTransaction(rest)
		s.autoName = rest == ""
		return nil

	case "name":
		if rest == "" {
			return errors.New("usage: name NAME")
		}
		s.hist.SetCurrentTransactionName(rest)
		s.autoName = false
		return nil

	case "undo":
		name := s.hist.UndoDescription()
		return s.step("undid", name, s.hist.Undo())

	case "redo":
		name := s.hist.RedoDescription()
		return s.step("redid", name, s.hist.Redo())

	case "undo-current":
		name := s.hist.CurrentTransactionName()
		return s.step("rolled back", name, s.hist.UndoCurrentTransactionOnly())

	case "history":
		s.printHistory()
		return nil

	case "show":
		fmt.Fprintf(s.out, "%q\n", s.doc.Text())
		return nil

	case "clear":
		s.hist.ClearHistory()
		fmt.Fprintln(s.out, "history cleared")
		return nil

	case "retain":
		args := strings.Fields(rest)
		if len(args) != 2 {
			return errors.New("usage: retain MAX MIN")
		}
		maxUnits, err := parseInt("max", args[0])
		if err != nil {
			return err
		}
		minTx, err := parseInt("min", args[1])
		if err != nil {
			return err
		}
		s.hist.SetRetentionPolicy(maxUnits, minTx)
		return nil

	case "stats":
		s.printStats()
		return nil

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// edit performs an action into the open transaction and refreshes the
// automatic transaction name.
func (s *session) edit(action history.Action) error {
	if err := s.hist.Perform(action); err != nil {
		return err
	}
	if !s.autoName {
		return nil
	}

	actions := s.hist.ActionsInCurrentTransaction()
	name := fmt.Sprintf("%d edits", len(actions))
	if len(actions) == 1 {
		if d, ok := actions[0].(describer); ok {
			name = d.Description()
		}
	}
	if name != s.hist.CurrentTransactionName() {
		s.hist.SetCurrentTransactionName(name)
	}
	return nil
}

// step reports the outcome of an undo or redo. Every such call closes
// the open transaction, so automatic naming resumes.
func (s *session) step(verb, name string, err error) error {
	if errors.Is(err, history.ErrNoOpenTransaction) {
		return err
	}
	s.autoName = true
	if err != nil {
		return err
	}
	if name == "" {
		name = "unnamed"
	}
	fmt.Fprintf(s.out, "%s %q\n", verb, name)
	return nil
}

func (s *session) printHistory() {
	infos := s.hist.Transactions()
	if len(infos) == 0 {
		fmt.Fprintln(s.out, "no history")
		return
	}

	undoable := s.hist.UndoCount()
	for i, info := range infos {
		mark := " "
		if i < undoable {
			mark = "*"
		}
		name := info.Name
		if name == "" {
			name = "unnamed"
		}
		fmt.Fprintf(s.out, "%s %d %s (%d actions, %d units)\n", mark, i+1, name, info.Actions, info.Units)
	}
}

func (s *session) printStats() {
	maxUnits, minTx := s.hist.RetentionPolicy()
	fmt.Fprintf(s.out, "undo=%d redo=%d stash=%d units=%d max_units=%d min_transactions=%d\n",
		s.hist.UndoCount(), s.hist.RedoCount(), s.hist.StashLen(), s.hist.UnitsStored(), maxUnits, minTx)
}

// parseText accepts either raw text or a Go quoted string.
func parseText(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("missing text")
	}
	if strings.HasPrefix(arg, `"`) {
		text, err := strconv.Unquote(arg)
		if err != nil {
			return "", fmt.Errorf("bad quoted text %s: %w", arg, err)
		}
		return text, nil
	}
	return arg, nil
}

func parseInt(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return n, nil
}
