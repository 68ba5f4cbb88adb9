package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rl1809/pantry-tracker/internal/adapter/storage"
	"github.com/rl1809/pantry-tracker/internal/config"
	"github.com/rl1809/pantry-tracker/internal/core/service"
)

const itemName = "stress-test-item"

func main() {
	totalRequests := flag.Int("n", 50, "number of concurrent increments")
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("load config: %v", err)
	}
	ctx := context.Background()

	// Initialize document store
	repo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.Storage.Backend, err)
	}
	defer repo.Close()

	// Clear previous test data
	if err := repo.DeleteDocument(ctx, cfg.Collection, itemName); err != nil {
		log.Fatalf("failed to clear %s: %v", itemName, err)
	}

	var failures atomic.Int32
	logger := log.New(&failureCounter{n: &failures}, "", 0)
	store := service.NewInventoryStore(repo, service.Options{
		Collection:    cfg.Collection,
		RemoteTimeout: cfg.RemoteTimeout,
		AtomicUpdates: cfg.AtomicUpdates,
		Logger:        logger,
	})

	// Spawn concurrent increments
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add(ctx, itemName)
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	final := 0
	if item, ok := store.Load(ctx).Find(itemName); ok {
		final = item.Quantity
	}
	lost := *totalRequests - final - int(failures.Load())

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Backend:          %s\n", cfg.Storage.Backend)
	fmt.Printf("Atomic Updates:   %t\n", cfg.AtomicUpdates)
	fmt.Printf("Total Increments: %d\n", *totalRequests)
	fmt.Printf("Failed Writes:    %d\n", failures.Load())
	fmt.Printf("Final Quantity:   %d\n", final)
	fmt.Printf("Lost Updates:     %d\n", lost)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if lost == 0 {
		fmt.Printf("PASS: every successful increment reached %s\n", cfg.Storage.Backend)
	} else {
		fmt.Printf("FAIL: %d increments were overwritten by concurrent writers\n", lost)
	}
}

// failureCounter counts failed adds in the store log and echoes every line to stderr.
type failureCounter struct {
	n *atomic.Int32
}

func (c *failureCounter) Write(p []byte) (int, error) {
	if bytes.HasPrefix(p, []byte("error adding item")) {
		c.n.Add(1)
	}
	return os.Stderr.Write(p)
}
