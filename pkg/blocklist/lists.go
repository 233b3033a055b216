package blocklist

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
)

// LoadList reads a line oriented input list. Whitespace-only lines are skipped; other lines are
// returned verbatim.
func LoadList(fs afero.Fs, path string, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.Default()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, &InputListError{Path: path, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close list file", "file", path, "error", err)
		}
	}()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &InputListError{Path: path, Err: err}
	}
	return entries, nil
}

// BuildSources converts the lines of a sources list into Sources.
func BuildSources(locations []string) []Source {
	sources := make([]Source, 0, len(locations))
	for _, entry := range locations {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		sources = append(sources, Source{
			ID:       fmt.Sprintf("source_%d", len(sources)+1),
			Location: trimmed,
		})
	}
	return sources
}
