package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"keytop/driver"
	"keytop/engine/aggregate"
)

// spillMinFree is the free space floor below which a spill to disk is
// refused rather than attempted.
const spillMinFree = 64 * 1024 * 1024

func printUsage() {
	fmt.Printf(`Usage of %s: %s [OPTIONS] <input_dir>
Counts the first whitespace-delimited field of every record in the
partition files of <input_dir> and prints the most frequent keys, one
"<count> <key>" line per rank.
Options:
  -k <number>           Number of ranked keys to report (default 5).
  -workers <number>     Partitions aggregated in parallel (default GOMAXPROCS).
  -spill-keys <number>  Distinct keys held in memory per partition before
                        spilling to disk, 0 disables spilling (default 0).
  -spill-dir <path>     Directory for spill segments (default system temp).
  -h                    Print this help message.
`, os.Args[0], os.Args[0])
}

func main() {
	flagSet := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	k := flagSet.Int("k", 5, "Number of ranked keys to report")
	workers := flagSet.Int("workers", 0, "Partitions aggregated in parallel")
	spillKeys := flagSet.Int("spill-keys", 0, "Distinct keys held in memory before spilling, 0 disables")
	spillDir := flagSet.String("spill-dir", "", "Directory for spill segments")
	flagSet.Usage = printUsage
	flagSet.Parse(os.Args[1:])
	args := flagSet.Args()
	if len(args) != 1 {
		fmt.Println("exactly one input directory is required")
		printUsage()
		os.Exit(1)
	}
	if *k < 0 {
		fmt.Println("k must not be negative")
		os.Exit(1)
	}

	cfg := driver.Config{
		K:       *k,
		Workers: *workers,
		Aggregate: aggregate.Options{
			SpillKeys: *spillKeys,
			SpillDir:  *spillDir,
			MinFree:   spillMinFree,
		},
	}
	entries, err := driver.Run(args[0], cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keytop: %v\n", err)
		var pe *driver.PartitionError
		switch {
		case errors.Is(err, driver.ErrInputNotFound):
			os.Exit(2)
		case errors.As(err, &pe):
			os.Exit(3)
		}
		os.Exit(1)
	}
	for _, entry := range entries {
		fmt.Printf("%d %s\n", entry.Count, entry.Key)
	}
}
