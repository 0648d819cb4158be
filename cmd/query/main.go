// Command query looks up a single key against a running ring,
// reproducing original_source/chord_query.py's one-shot connect/query/
// print/exit flow. When invoked with only a known-node address (no
// key), it drops into an interactive REPL instead, letting an
// operator issue several lookups against the same entry node without
// reconnecting each time.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"chordring/internal/client"
	"chordring/internal/domain"

	"github.com/peterh/liner"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		log.Fatal("usage: query <known_node_addr> [key]")
	}
	addr := args[0]

	pool := client.New(grpc.WithTransportCredentials(insecure.NewCredentials()))
	defer pool.Close()

	if len(args) >= 2 {
		if err := runOnce(pool, addr, args[1], *timeout); err != nil {
			log.Fatalf("query failed: %v", err)
		}
		return
	}
	runRepl(pool, addr, *timeout)
}

func runOnce(pool *client.Pool, addr, key string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	value, found, ownerID, err := pool.Query(ctx, addr, key)
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("node=%s key=%q: not found\n", domain.ID(ownerID).ToHexString(true), key)
		return nil
	}
	fmt.Printf("node=%s key=%q value=%q\n", domain.ID(ownerID).ToHexString(true), key, value)
	return nil
}

func runRepl(pool *client.Pool, addr string, timeout time.Duration) {
	fmt.Printf("connected to %s. type a key to query, or exit.\n", addr)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(fmt.Sprintf("query[%s]> ", addr))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println("aborted")
				continue
			}
			break
		}
		key := strings.TrimSpace(input)
		if key == "" {
			continue
		}
		line.AppendHistory(key)
		if key == "exit" || key == "quit" {
			break
		}

		if err := runOnce(pool, addr, key, timeout); err != nil {
			fmt.Printf("query failed: %v\n", err)
		}
	}
}
