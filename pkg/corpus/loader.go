// Package corpus reads historical query logs and feeds them to the
// engine: one raw query per line, normalized before counting, blank
// lines skipped.
package corpus

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/queryserve/queryserve/internal/utils"
	"github.com/queryserve/queryserve/pkg/engine"
)

// Stats summarizes one load pass.
type Stats struct {
	Lines    int
	Skipped  int
	Distinct int
	// Checksum is an xxhash over the normalized, retained lines in file
	// order. Two logs with the same effective content hash identically.
	Checksum uint64
}

// Load reads the log at path line by line into the engine's frequency
// table and rebuilds the trie and caches. A missing or unreadable file
// is fatal to the load: the error is returned and no rebuild happens,
// so the engine never serves a partial corpus.
func Load(path string, eng *engine.Engine) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("opening query log %s: %w", path, err)
	}
	defer f.Close()

	stats, err := consume(f, eng)
	if err != nil {
		return stats, fmt.Errorf("reading query log %s: %w", path, err)
	}

	eng.Rebuild()
	log.Debugf("loaded %d lines (%d blank) from %s: %d distinct queries, checksum=%x",
		stats.Lines, stats.Skipped, path, stats.Distinct, stats.Checksum)
	return stats, nil
}

func consume(f *os.File, eng *engine.Engine) (Stats, error) {
	var stats Stats
	digest := xxhash.New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.Lines++
		q := utils.NormalizeQuery(scanner.Text())
		if q == "" {
			stats.Skipped++
			continue
		}
		_, _ = digest.WriteString(q)
		_, _ = digest.Write([]byte{'\n'})
		eng.AddHistory(q, 1)
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}
	stats.Distinct = eng.Stats()["queries"]
	stats.Checksum = digest.Sum64()
	return stats, nil
}
