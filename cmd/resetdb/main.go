package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"socialplay/internal/config"
	"socialplay/internal/database"
)

func main() {
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !*yes && !confirm(os.Stdin, os.Stdout, cfg.DBPath) {
		fmt.Println("Aborted.")
		return
	}

	db, err := database.Reset(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to reset database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Database %s reset\n", cfg.DBPath)
}

// confirm accepts only an explicit "yes".
func confirm(in io.Reader, out io.Writer, path string) bool {
	fmt.Fprintf(out, "This deletes every row in %s. Continue? (yes/no) ", path)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.ToLower(strings.TrimSpace(answer)) == "yes"
}
