// Command treestats sanity-checks a tree inventory export without rendering
// anything: it runs the normalization pass and prints what happened to the
// rows plus the per-cultivar counts.
//
// Usage:
//
//	go run ./cmd/treestats -csv data/trees.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"cherrymap/internal/domain"
	"cherrymap/internal/ingest"
)

func main() {
	csvPath := flag.String("csv", "", "path to the tree inventory CSV")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string) int {
	records, err := ingest.LoadTrees(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	cherries, stats := domain.Normalize(records, domain.DefaultCorrections)

	fmt.Println("=== Tree Inventory Check ===")
	fmt.Println()
	fmt.Printf("rows in:                 %d\n", stats.RowsIn)
	fmt.Printf("dropped (null fields):   %d\n", stats.DroppedNull)
	fmt.Printf("matched cherry filter:   %d\n", stats.Matched)
	fmt.Printf("dropped false positive:  %d\n", stats.DroppedFalsePositive)
	fmt.Printf("renamed by corrections:  %d\n", stats.Renamed)
	fmt.Printf("records out:             %d\n", stats.Out)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "CULTIVAR\tCOUNT\n")
	counts := domain.GroupCounts(cherries)
	for _, name := range domain.CultivarOrder(cherries) {
		fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
	}
	w.Flush()

	return 0
}
