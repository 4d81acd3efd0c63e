package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	ouroborosstego "github.com/i5heu/ouroboros-stego"
	"github.com/i5heu/ouroboros-stego/pkg/spaceInformations"
)

type inspectOptions struct {
	path     string
	showKeys bool
	limit    int
	disk     bool
}

func main() {
	var opts inspectOptions
	pflag.StringVar(&opts.path, "path", "", "path to the carrier archive directory")
	pflag.BoolVar(&opts.showKeys, "show-keys", false, "print archive keys for manual inspection")
	pflag.IntVar(&opts.limit, "limit", 20, "max number of keys to print when show-keys is enabled (0 = unlimited)")
	pflag.BoolVar(&opts.disk, "disk", false, "log disk usage of the archive volume")
	pflag.Parse()

	if opts.path == "" {
		log.Fatal("--path is required")
	}

	if err := inspect(opts, os.Stdout); err != nil {
		log.Fatal(err)
	}

	if opts.disk {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		if err := spaceInformations.DisplayDiskUsage(logger, opts.path); err != nil {
			log.Fatalf("failed to read disk usage: %v", err)
		}
	}
}

func inspect(opts inspectOptions, out io.Writer) error {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)

	s, err := ouroborosstego.Init(&ouroborosstego.Config{
		ArchivePath: opts.path,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open archive at %s: %w", opts.path, err)
	}
	defer s.Close()

	infos, err := s.ListArchived()
	if err != nil {
		return fmt.Errorf("failed to list archived carriers: %w", err)
	}

	var carrierBytes, storedBytes uint64
	categories := make(map[string]int)
	for _, info := range infos {
		carrierBytes += info.CarrierSize
		storedBytes += info.StoredSize
		categories[info.Category]++
	}

	fmt.Fprintf(out, "Archive path: %s\n", opts.path)
	fmt.Fprintf(out, "Entries: %d\n", len(infos))
	fmt.Fprintf(out, "Carrier bytes: %d\n", carrierBytes)
	fmt.Fprintf(out, "Stored bytes: %d\n", storedBytes)

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %d\n", name, categories[name])
	}

	if !opts.showKeys {
		return nil
	}

	shown := infos
	if opts.limit > 0 && len(shown) > opts.limit {
		shown = shown[:opts.limit]
		fmt.Fprintf(out, "Listing first %d keys:\n", opts.limit)
	} else {
		fmt.Fprintf(out, "Listing %d keys:\n", len(shown))
	}

	if len(shown) == 0 {
		fmt.Fprintln(out, "  (no entries)")
	}
	for _, info := range shown {
		fmt.Fprintf(out, "  %s %s %d chars\n", info.Key, info.MIMEType, info.MessageLength)
	}
	return nil
}
