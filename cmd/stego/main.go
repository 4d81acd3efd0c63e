package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	ouroborosstego "github.com/i5heu/ouroboros-stego"
	"github.com/i5heu/ouroboros-stego/pkg/media"
	"github.com/i5heu/ouroboros-stego/storage"
)

const (
	USAGE = `Usage:
  %[1]s embed -i <carrier> (-m <message> | -f <message-file>) [-t <mime>] [-o <output>] [--no-archive]
  %[1]s extract -i <carrier> [-t <mime>]
  %[1]s capacity -i <carrier> [-t <mime>]
  %[1]s -ls                        List archived carriers
  %[1]s -d <key-prefix>            Delete an archived carrier
  %[1]s -r <key-prefix> [-o <out>] Restore an archived carrier (stdout without -o)
  %[1]s -validate                  Re-extract and verify every archived carrier

Examples:
  %[1]s embed -i photo.png -m "meet at noon"     # writes encrypted-photo.png
  %[1]s extract -i encrypted-photo.png
  %[1]s embed -i song.wav -f note.txt -t audio/wav -o out.wav

Note:
  The media type defaults to the type registered for the file extension and is
  never guessed from the file content. The message is hidden, not encrypted:
  anyone who knows the method can read it.

  Every command accepts --config <file>; %[2]s is used otherwise.
  Embedded carriers are archived in the configured archive_path
  (default ~/.ouroboros-stego) unless --no-archive is given.
`

	outputPrefix = "encrypted-"
)

var errUsage = errors.New("invalid usage")

type options struct {
	configPath  string
	input       string
	output      string
	message     string
	messageFile string
	mimeType    string
	noArchive   bool
}

func main() {
	progName := filepath.Base(os.Args[0])

	err := run(progName, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, USAGE, progName, configEnv)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(progName string, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	var opts options
	command := args[0]
	fs := pflag.NewFlagSet(progName+" "+command, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to YAML config file")

	switch command {
	case "embed":
		fs.StringVarP(&opts.input, "input", "i", "", "carrier file")
		fs.StringVarP(&opts.message, "message", "m", "", "message to hide")
		fs.StringVarP(&opts.messageFile, "message-file", "f", "", "read the message from this file")
		fs.StringVarP(&opts.mimeType, "type", "t", "", "declared MIME type of the carrier")
		fs.StringVarP(&opts.output, "output", "o", "", "output file (default encrypted-<input>)")
		fs.BoolVar(&opts.noArchive, "no-archive", false, "do not archive the embedded carrier")
	case "extract", "capacity":
		fs.StringVarP(&opts.input, "input", "i", "", "carrier file")
		fs.StringVarP(&opts.mimeType, "type", "t", "", "declared MIME type of the carrier")
	case "-r":
		fs.StringVarP(&opts.output, "output", "o", "", "write the carrier to this file")
	case "-ls", "-d", "-validate":
	case "-h", "--help", "help":
		fmt.Fprintf(stdout, USAGE, progName, configEnv)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	rest := fs.Args()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	switch command {
	case "embed":
		if opts.input == "" {
			return fmt.Errorf("%w: embed requires -i", errUsage)
		}
		if (opts.message == "") == (opts.messageFile == "") {
			return fmt.Errorf("%w: embed requires exactly one of -m or -f", errUsage)
		}
		s, err := openStego(cfg, !opts.noArchive, stderr)
		if err != nil {
			return err
		}
		defer s.Close()
		return embedFile(s, opts, stdout)

	case "extract", "capacity":
		if opts.input == "" {
			return fmt.Errorf("%w: %s requires -i", errUsage, command)
		}
		if command == "capacity" {
			return reportCapacity(opts, stdout)
		}
		s, err := openStego(cfg, false, stderr)
		if err != nil {
			return err
		}
		defer s.Close()
		return extractFile(s, opts, stdout)
	}

	s, err := openStego(cfg, true, stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	switch command {
	case "-ls":
		if len(rest) != 0 {
			return fmt.Errorf("%w: -ls does not take any arguments", errUsage)
		}
		return listArchived(s, stdout)
	case "-d":
		if len(rest) != 1 {
			return fmt.Errorf("%w: -d requires a key argument", errUsage)
		}
		if err := deleteArchived(s, rest[0]); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Carrier deleted successfully")
		return nil
	case "-r":
		if len(rest) != 1 {
			return fmt.Errorf("%w: -r requires a key argument", errUsage)
		}
		return restoreArchived(s, rest[0], opts.output, stdout)
	default:
		if len(rest) != 0 {
			return fmt.Errorf("%w: -validate does not take any arguments", errUsage)
		}
		return validateArchive(s, stdout)
	}
}

func openStego(cfg fileConfig, withArchive bool, logOut io.Writer) (*ouroborosstego.Stego, error) {
	logger, err := cfg.logger(logOut)
	if err != nil {
		return nil, err
	}

	config := &ouroborosstego.Config{Logger: logger}
	if withArchive {
		config.ArchivePath = cfg.ArchivePath
		config.MinimumFreeSpace = cfg.MinimumFreeSpace
	}

	s, err := ouroborosstego.Init(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return s, nil
}

// detectMIME returns the MIME type registered for the extension of path,
// which is what a browser would declare for an upload.
func detectMIME(path string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

func mimeTypeFor(opts options) (string, error) {
	if opts.mimeType != "" {
		return opts.mimeType, nil
	}
	if detected := detectMIME(opts.input); detected != "" {
		return detected, nil
	}
	return "", fmt.Errorf("cannot determine media type of %s; pass -t", opts.input)
}

// outputName places prefix in front of the base name of path, keeping its
// directory and extension.
func outputName(path, prefix string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, prefix+base)
}

func embedFile(s *ouroborosstego.Stego, opts options, stdout io.Writer) error {
	carrier, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("failed to read carrier %s: %w", opts.input, err)
	}

	message := opts.message
	if opts.messageFile != "" {
		raw, err := os.ReadFile(opts.messageFile)
		if err != nil {
			return fmt.Errorf("failed to read message file %s: %w", opts.messageFile, err)
		}
		message = string(raw)
	}

	mimeType, err := mimeTypeFor(opts)
	if err != nil {
		return err
	}

	result, key, err := s.Embed(carrier, message, mimeType)
	if err != nil {
		return fmt.Errorf("failed to embed message: %w", err)
	}

	output := opts.output
	if output == "" {
		output = outputName(opts.input, outputPrefix)
	}
	if err := os.WriteFile(output, result, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Fprintf(stdout, "Embedded %d characters into %s (%s)\n", len(message), output, mimeType)
	if !key.IsZero() {
		fmt.Fprintf(stdout, "Archive key: %s\n", key)
	}
	return nil
}

func extractFile(s *ouroborosstego.Stego, opts options, stdout io.Writer) error {
	carrier, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("failed to read carrier %s: %w", opts.input, err)
	}

	mimeType, err := mimeTypeFor(opts)
	if err != nil {
		return err
	}

	message, err := s.Extract(carrier, mimeType)
	if err != nil {
		if ouroborosstego.IsNoMessage(err) {
			return fmt.Errorf("no hidden message found in %s: %w", opts.input, err)
		}
		return fmt.Errorf("failed to extract message: %w", err)
	}

	fmt.Fprintln(stdout, message)
	return nil
}

func reportCapacity(opts options, stdout io.Writer) error {
	info, err := os.Stat(opts.input)
	if err != nil {
		return fmt.Errorf("failed to stat carrier %s: %w", opts.input, err)
	}

	mimeType, err := mimeTypeFor(opts)
	if err != nil {
		return err
	}
	category, err := media.Classify(mimeType)
	if err != nil {
		return err
	}
	policy, err := ouroborosstego.PolicyFor(category)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Category: %s (offset %d, stride %d)\n", category, policy.Offset, policy.Stride)
	fmt.Fprintf(stdout, "Carrier size: %s\n", formatBytes(uint64(info.Size())))
	fmt.Fprintf(stdout, "Capacity: %d characters\n", ouroborosstego.Capacity(int(info.Size()), category))
	return nil
}

func listArchived(s *ouroborosstego.Stego, stdout io.Writer) error {
	infos, err := s.ListArchived()
	if err != nil {
		return fmt.Errorf("failed to list archived carriers: %w", err)
	}

	if len(infos) == 0 {
		fmt.Fprintln(stdout, "No carriers archived.")
		return nil
	}

	fmt.Fprintf(stdout, "Found %d archived carriers:\n\n", len(infos))

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tKEY\tCATEGORY\tMIME TYPE\tMESSAGE\tCARRIER\tSTORED\tCREATED")

	var totalCarrier, totalStored uint64
	for i, info := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d chars\t%s\t%s\t%s\n",
			i+1,
			shortenKey(info.Key.String()),
			info.Category,
			info.MIMEType,
			info.MessageLength,
			formatBytes(info.CarrierSize),
			formatBytes(info.StoredSize),
			info.Created.Format("2006-01-02T15:04:05Z"),
		)
		totalCarrier += info.CarrierSize
		totalStored += info.StoredSize
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Summary:\n")
	fmt.Fprintf(stdout, "  Entries: %d\n", len(infos))
	fmt.Fprintf(stdout, "  Carrier bytes: %s (%d bytes)\n", formatBytes(totalCarrier), totalCarrier)
	fmt.Fprintf(stdout, "  Stored bytes: %s (%d bytes)\n", formatBytes(totalStored), totalStored)
	return nil
}

func deleteArchived(s *ouroborosstego.Stego, keyInput string) error {
	key, err := resolveKeyInput(s, keyInput)
	if err != nil {
		return err
	}
	return s.DeleteArchived(key)
}

func restoreArchived(s *ouroborosstego.Stego, keyInput, output string, stdout io.Writer) error {
	key, err := resolveKeyInput(s, keyInput)
	if err != nil {
		return err
	}

	carrier, _, err := s.ReadArchived(key)
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, carrier, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		return nil
	}
	if _, err := stdout.Write(carrier); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func validateArchive(s *ouroborosstego.Stego, stdout io.Writer) error {
	results, err := s.ValidateAll()
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !res.Passed() {
			failed++
			fmt.Fprintf(stdout, "FAIL %s: %v\n", res.Key, res.Err)
		}
	}
	fmt.Fprintf(stdout, "Validated %d entries, %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d archived carriers failed validation", failed)
	}
	return nil
}

func shortenKey(key string) string {
	const maxLen = 16
	if len(key) <= maxLen {
		return key
	}
	return key[:maxLen-3] + "..."
}

// formatBytes returns a human-readable byte size
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

type keyLister interface {
	ArchiveKeys() ([]storage.Key, error)
}

func resolveKeyInput(provider keyLister, input string) (storage.Key, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if key, err := storage.ParseKey(trimmed); err == nil {
		return key, nil
	}

	keys, err := provider.ArchiveKeys()
	if err != nil {
		return storage.Key{}, fmt.Errorf("failed to list keys for key resolution: %w", err)
	}
	return findKeyByPrefix(keys, trimmed)
}

func findKeyByPrefix(keys []storage.Key, prefix string) (storage.Key, error) {
	if prefix == "" {
		return storage.Key{}, fmt.Errorf("key prefix cannot be empty")
	}

	var matches []storage.Key
	for _, key := range keys {
		if strings.HasPrefix(key.String(), prefix) {
			matches = append(matches, key)
		}
	}

	switch len(matches) {
	case 0:
		return storage.Key{}, fmt.Errorf("no archived carrier matching key prefix %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return storage.Key{}, fmt.Errorf("multiple entries match key prefix %q; please provide more characters", prefix)
	}
}
