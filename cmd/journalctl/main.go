// Command journalctl is a thin maintenance CLI over pkg/journal. It
// carries no engine logic of its own — every subcommand is a direct
// call into the public API, with only argument parsing and
// human-readable formatting on top.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iamNilotpal/journal/pkg/journal"
	"github.com/iamNilotpal/journal/pkg/options"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "create":
		err = runCreate(rest, stdout)
	case "append":
		err = runAppend(rest, stdin, stdout)
	case "read":
		err = runRead(rest, stdout)
	case "stats":
		err = runStats(rest, stdout)
	case "search":
		err = runSearch(rest, stdout)
	case "rollback":
		err = runRollback(rest, stdout)
	case "purge":
		err = runPurge(rest, stdout)
	case "version":
		fmt.Fprintln(stdout, journal.Version())
		return 0
	default:
		fmt.Fprintln(stderr, usage)
		return 2
	}

	if err != nil {
		fmt.Fprintln(stderr, "journalctl:", err)
		return int(-journal.Code(err))
	}
	return 0
}

const usage = `usage: journalctl <command> [flags]

commands:
  create    create an empty journal
  append    append one record (payload from stdin or -data)
  read      read entries starting at a seqnum
  stats     print summary statistics for a range
  search    find the seqnum bracketing a timestamp
  rollback  discard entries after a seqnum
  purge     discard entries before a seqnum
  version   print the library version`

func commonFlags(fs *pflag.FlagSet) (dir, name *string) {
	dir = fs.StringP("dir", "d", ".", "journal directory")
	name = fs.StringP("name", "n", "journal", "journal name")
	return
}

func runCreate(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
	dir, name := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	j, err := journal.Open(*dir, *name)
	if err != nil {
		return err
	}
	defer j.Close()
	fmt.Fprintf(stdout, "created %s/%s\n", *dir, *name)
	return nil
}

func runAppend(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("append", pflag.ContinueOnError)
	dir, name := commonFlags(fs)
	data := fs.String("data", "", "payload to append (reads stdin if empty)")
	timestamp := fs.Uint64("timestamp", 0, "timestamp (0 = current time, never below the journal's last)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payload := []byte(*data)
	if *data == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		payload = b
	}

	j, err := journal.Open(*dir, *name)
	if err != nil {
		return err
	}
	defer j.Close()

	n, err := j.Append([]journal.Entry{{Timestamp: *timestamp, Data: payload}})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "appended %d entr(y/ies)\n", n)
	return nil
}

func runRead(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("read", pflag.ContinueOnError)
	dir, name := commonFlags(fs)
	start := fs.Uint64("start", 0, "starting seqnum")
	bufSize := fs.Int("buf", 1<<16, "read buffer size in bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	j, err := journal.Open(*dir, *name, options.WithDeepCheck(false))
	if err != nil {
		return err
	}
	defer j.Close()

	buf := make([]byte, *bufSize)
	entries, err := j.Read(*start, buf)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Data == nil {
			fmt.Fprintf(stdout, "seqnum=%d timestamp=%d data_len=%d (truncated, retry with bigger buffer)\n", e.Seqnum, e.Timestamp, e.DataLen)
			continue
		}
		fmt.Fprintf(stdout, "seqnum=%d timestamp=%d data_len=%d\n", e.Seqnum, e.Timestamp, e.DataLen)
	}
	return nil
}

func runStats(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("stats", pflag.ContinueOnError)
	dir, name := commonFlags(fs)
	lo := fs.Uint64("lo", 0, "lower seqnum bound")
	hi := fs.Uint64("hi", 0, "upper seqnum bound (0 = journal's max)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	j, err := journal.Open(*dir, *name)
	if err != nil {
		return err
	}
	defer j.Close()

	s, err := j.Stats(*lo, *hi)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "min_seqnum=%d max_seqnum=%d min_timestamp=%d max_timestamp=%d num_entries=%d index_size=%d data_size=%d\n",
		s.MinSeqnum, s.MaxSeqnum, s.MinTimestamp, s.MaxTimestamp, s.NumEntries, s.IndexSize, s.DataSize)
	return nil
}

func runSearch(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	dir, name := commonFlags(fs)
	timestamp := fs.Uint64("timestamp", 0, "timestamp to search for")
	upper := fs.Bool("upper", false, "use UPPER mode instead of LOWER")
	if err := fs.Parse(args); err != nil {
		return err
	}

	j, err := journal.Open(*dir, *name)
	if err != nil {
		return err
	}
	defer j.Close()

	mode := journal.SearchLower
	if *upper {
		mode = journal.SearchUpper
	}
	seqnum, err := j.Search(*timestamp, mode)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, seqnum)
	return nil
}

func runRollback(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("rollback", pflag.ContinueOnError)
	dir, name := commonFlags(fs)
	seqnum := fs.Uint64("seqnum", 0, "discard entries after this seqnum")
	if err := fs.Parse(args); err != nil {
		return err
	}

	j, err := journal.Open(*dir, *name)
	if err != nil {
		return err
	}
	defer j.Close()

	n, err := j.Rollback(*seqnum)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "removed %d entries\n", n)
	return nil
}

func runPurge(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("purge", pflag.ContinueOnError)
	dir, name := commonFlags(fs)
	seqnum := fs.Uint64("seqnum", 0, "discard entries before this seqnum")
	if err := fs.Parse(args); err != nil {
		return err
	}

	j, err := journal.Open(*dir, *name)
	if err != nil {
		return err
	}
	defer j.Close()

	n, err := j.Purge(*seqnum)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "removed %d entries\n", n)
	return nil
}
