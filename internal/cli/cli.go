// Package cli implements the interactive shell over an in-process
// client, with a dispatch table mapping command names onto client
// methods and a redis-cli style prompt.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"

	"redmock"
)

// Config holds the configuration for the shell.
type Config struct {
	Eval string // single command to run instead of the interactive loop
	File string // file of commands to run, one per line
}

// CommandHistory manages command history for the shell.
type CommandHistory struct {
	commands []string
	maxSize  int
}

// NewCommandHistory creates a new command history with specified max size.
func NewCommandHistory(maxSize int) *CommandHistory {
	return &CommandHistory{
		commands: make([]string, 0, maxSize),
		maxSize:  maxSize,
	}
}

func (h *CommandHistory) Len() int {
	return len(h.commands)
}

// Add adds a command to history. Empty commands and duplicates of the
// last command are skipped.
func (h *CommandHistory) Add(command string) {
	if command == "" || (len(h.commands) > 0 && h.commands[len(h.commands)-1] == command) {
		return
	}

	h.commands = append(h.commands, command)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[1:]
	}
}

// All returns the history oldest first.
func (h *CommandHistory) All() []string {
	out := make([]string, len(h.commands))
	copy(out, h.commands)
	return out
}

// Run executes the shell against the given client: --eval one-shot,
// --file batch, or the interactive loop.
func Run(client *redmock.Client, cfg *Config) error {
	sh := &shell{client: client, history: NewCommandHistory(500), out: os.Stdout}

	if cfg.Eval != "" {
		return sh.runLine(cfg.Eval)
	}
	if cfg.File != "" {
		f, err := os.Open(cfg.File)
		if err != nil {
			return err
		}
		defer f.Close()
		return sh.runBatch(f)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return sh.runInteractive()
	}
	return sh.runBatch(os.Stdin)
}

type shell struct {
	client  *redmock.Client
	history *CommandHistory
	out     io.Writer
}

// runInteractive runs the raw-mode prompt loop until EOF or QUIT.
func (sh *shell) runInteractive() error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, "redmock> ")
	sh.out = t

	for {
		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isQuit(line) {
			return nil
		}
		sh.history.Add(line)
		if err := sh.runLine(line); err != nil {
			// Terminal.Write converts \n to \r\n itself
			fmt.Fprintf(t, "(error) %v\n", err)
		}
	}
}

// runBatch executes commands line by line, stopping only on read
// failure; command errors are reported and the batch continues.
func (sh *shell) runBatch(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if isQuit(line) {
			return nil
		}
		if err := sh.runLine(line); err != nil {
			fmt.Fprintf(sh.out, "(error) %v\n", err)
		}
	}
	return scanner.Err()
}

func isQuit(line string) bool {
	switch strings.ToUpper(line) {
	case "QUIT", "EXIT":
		return true
	}
	return false
}

func (sh *shell) runLine(line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	reply, err := Dispatch(sh.client, args)
	if err != nil {
		return err
	}
	if reply != "" {
		fmt.Fprintf(sh.out, "%s\n", reply)
	}
	return nil
}

// splitArgs splits a command line on whitespace, honoring double
// quotes so values may contain spaces.
func splitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inQuote := false
	started := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
			started = true
		case ch == ' ' || ch == '\t':
			if inQuote {
				cur.WriteByte(ch)
			} else if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteByte(ch)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unbalanced quotes in %q", line)
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}

// Dispatch runs one parsed command against the client and formats the
// reply. The command name is case-insensitive.
func Dispatch(c *redmock.Client, args []string) (string, error) {
	name := strings.ToUpper(args[0])
	args = args[1:]

	switch name {
	case "GET":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		v, err := c.Get(args[0])
		if err != nil {
			return "", err
		}
		return strconv.Quote(v), nil

	case "SET":
		if err := wantArgs(name, args, 2); err != nil {
			return "", err
		}
		c.Set(args[0], args[1])
		return "OK", nil

	case "DEL":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		return formatInt(boolToInt(c.Del(args[0]))), nil

	case "EXISTS":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		return formatInt(boolToInt(c.Exists(args[0]))), nil

	case "TYPE":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		return c.Type(args[0]), nil

	case "KEYS":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		keys, err := c.Keys(args[0])
		if err != nil {
			return "", err
		}
		sort.Strings(keys)
		return formatArray(keys), nil

	case "FLUSHDB":
		if err := wantArgs(name, args, 0); err != nil {
			return "", err
		}
		c.FlushDB()
		return "OK", nil

	case "HSET":
		if err := wantArgs(name, args, 3); err != nil {
			return "", err
		}
		if err := c.HSet(args[0], args[1], args[2]); err != nil {
			return "", err
		}
		return "OK", nil

	case "HMSET":
		if len(args) < 3 || len(args)%2 == 0 {
			return "", usageError(name, "key field value [field value ...]")
		}
		mapping := make(map[string]string, (len(args)-1)/2)
		for i := 1; i < len(args); i += 2 {
			mapping[args[i]] = args[i+1]
		}
		if err := c.HMSet(args[0], mapping); err != nil {
			return "", err
		}
		return "OK", nil

	case "HGET":
		if err := wantArgs(name, args, 2); err != nil {
			return "", err
		}
		v, err := c.HGet(args[0], args[1])
		if err != nil {
			return "", err
		}
		return strconv.Quote(v), nil

	case "HGETALL":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		mapping, err := c.HGetAll(args[0])
		if err != nil {
			return "", err
		}
		fields := make([]string, 0, len(mapping))
		for f := range mapping {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		flat := make([]string, 0, len(fields)*2)
		for _, f := range fields {
			flat = append(flat, f, mapping[f])
		}
		return formatArray(flat), nil

	case "HLEN":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		n, err := c.HLen(args[0])
		if err != nil {
			return "", err
		}
		return formatInt(n), nil

	case "HDEL":
		if len(args) < 2 {
			return "", usageError(name, "key field [field ...]")
		}
		n, err := c.HDel(args[0], args[1:]...)
		if err != nil {
			return "", err
		}
		return formatInt(n), nil

	case "RPUSH":
		if len(args) < 2 {
			return "", usageError(name, "key value [value ...]")
		}
		n, err := c.RPush(args[0], args[1:]...)
		if err != nil {
			return "", err
		}
		return formatInt(n), nil

	case "RPOP":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		v, err := c.RPop(args[0])
		if err != nil {
			return "", err
		}
		return strconv.Quote(v), nil

	case "LRANGE":
		if err := wantArgs(name, args, 3); err != nil {
			return "", err
		}
		start, err := parseIndex(name, args[1])
		if err != nil {
			return "", err
		}
		stop, err := parseIndex(name, args[2])
		if err != nil {
			return "", err
		}
		elements, err := c.LRange(args[0], start, stop)
		if err != nil {
			return "", err
		}
		return formatArray(elements), nil

	case "SADD":
		if len(args) < 2 {
			return "", usageError(name, "key member [member ...]")
		}
		n, err := c.SAdd(args[0], args[1:]...)
		if err != nil {
			return "", err
		}
		return formatInt(n), nil

	case "SREM":
		if err := wantArgs(name, args, 2); err != nil {
			return "", err
		}
		n, err := c.SRem(args[0], args[1])
		if err != nil {
			return "", err
		}
		return formatInt(n), nil

	case "SMEMBERS":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		members, err := c.SMembers(args[0])
		if err != nil {
			return "", err
		}
		sort.Strings(members)
		return formatArray(members), nil

	case "SRANDMEMBER":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		member, err := c.SRandMember(args[0])
		if err != nil {
			return "", err
		}
		return strconv.Quote(member), nil

	case "ZADD":
		if len(args) < 3 || len(args)%2 == 0 {
			return "", usageError(name, "key score member [score member ...]")
		}
		pairs := make(map[string]float64, (len(args)-1)/2)
		for i := 1; i < len(args); i += 2 {
			score, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return "", usageError(name, "score must be a number, got "+args[i])
			}
			pairs[args[i+1]] = score
		}
		n, err := c.ZAdd(args[0], pairs)
		if err != nil {
			return "", err
		}
		return formatInt(n), nil

	case "ZSCORE":
		if err := wantArgs(name, args, 2); err != nil {
			return "", err
		}
		score, err := c.ZScore(args[0], args[1])
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(score, 'f', -1, 64), nil

	case "ZCARD":
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		n, err := c.ZCard(args[0])
		if err != nil {
			return "", err
		}
		return formatInt(n), nil

	case "ZREVRANGE":
		withScores := false
		if len(args) == 4 && strings.EqualFold(args[3], "WITHSCORES") {
			withScores = true
			args = args[:3]
		}
		if err := wantArgs(name, args, 3); err != nil {
			return "", err
		}
		start, err := parseIndex(name, args[1])
		if err != nil {
			return "", err
		}
		num, err := parseIndex(name, args[2])
		if err != nil {
			return "", err
		}
		members, err := c.ZRevRange(args[0], start, num, withScores)
		if err != nil {
			return "", err
		}
		return formatArray(members), nil

	default:
		return "", fmt.Errorf("unknown command %q", name)
	}
}

func wantArgs(name string, args []string, n int) error {
	if len(args) != n {
		return &redmock.UsageError{
			Message: fmt.Sprintf("wrong number of arguments for %s: want %d, have %d", name, n, len(args)),
		}
	}
	return nil
}

func usageError(name, usage string) error {
	return &redmock.UsageError{Message: name + " usage: " + name + " " + usage}
}

func parseIndex(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageError(name, "index must be an integer, got "+s)
	}
	return n, nil
}

func formatInt(n int) string {
	return "(integer) " + strconv.Itoa(n)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatArray(elements []string) string {
	if len(elements) == 0 {
		return "(empty array)"
	}
	var b strings.Builder
	for i, el := range elements {
		fmt.Fprintf(&b, "%d) %s", i+1, strconv.Quote(el))
		if i < len(elements)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
