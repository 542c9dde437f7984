// The backfill CLI regenerates missing or invalidated embeddings in bulk
// and manages the vector search index. It shares the server's config,
// repositories and freshness guard, but runs as a one-shot batch driver.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
