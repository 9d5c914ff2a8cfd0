package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Writes a gzip-compressed admin allow-list, one email per line, for
// ADMIN_LIST_PATH or upload to S3_ADMIN_LIST_KEY.
//
//	go run ./scripts/generate_admin_allowlist.go -out data/admin/admins.txt.gz -emails a@x.com,b@x.com
func main() {
	out := flag.String("out", "data/admin/admins.txt.gz", "output file")
	emails := flag.String("emails", "admin@example.com", "comma-separated admin emails")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	list := splitEmails(*emails)
	if len(list) == 0 {
		log.Fatal("No emails given")
	}

	if err := writeAllowList(*out, list); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d emails\n", *out, len(list))
}

func splitEmails(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func writeAllowList(filePath string, emails []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	fmt.Fprintln(gzipWriter, "# storefront admins")
	for _, email := range emails {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", email); err != nil {
			return fmt.Errorf("failed to write email: %w", err)
		}
	}

	return nil
}
