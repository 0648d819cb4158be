// Command populate bulk-loads a CSV file into a running ring,
// reproducing original_source/chord_populate.py's row encoding: one
// populate RPC per row, key built from columns 0 and 3, value the
// entire row joined back into a single string.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"chordring/internal/client"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4000", "address of a known ring node")
	path := flag.String("file", "", "path to the CSV file to populate")
	timeout := flag.Duration("timeout", 5*time.Second, "per-row request timeout")
	flag.Parse()

	if *path == "" {
		log.Fatal("populate: -file is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("populate: failed to open %q: %v", *path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		log.Fatalf("populate: failed to read header row: %v", err)
	}
	if len(header) < 4 {
		log.Fatalf("populate: expected at least 4 columns, header has %d", len(header))
	}

	pool := client.New(grpc.WithTransportCredentials(insecure.NewCredentials()))
	defer pool.Close()

	var total, ok int
	for {
		row, err := reader.Read()
		if err != nil {
			break // io.EOF or malformed trailing row; stop either way
		}
		if len(row) < 4 {
			log.Printf("populate: skipping short row %v", row)
			continue
		}
		total++

		key := row[0] + row[3]
		value := strings.Join(row, ",")

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		err = pool.Populate(ctx, *addr, key, value)
		cancel()
		if err != nil {
			log.Printf("populate: row %d (key=%s) failed: %v", total, key, err)
			continue
		}
		ok++
	}

	fmt.Printf("populate: %d/%d rows added\n", ok, total)
}
