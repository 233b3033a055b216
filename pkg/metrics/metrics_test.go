package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blockgen/pkg/blocklist"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *blocklist.Report {
	return &blocklist.Report{
		Sources: []blocklist.SourceReport{
			{Source: blocklist.Source{ID: "source_1", Location: "https://a.example/hosts"}, Stats: blocklist.ParseStats{Domains: 12}},
			{Source: blocklist.Source{ID: "source_2", Location: "https://b.example/hosts"}, Err: errors.New("unexpected status 500")},
		},
		LocalEntries: 3,
		Domains:      14,
	}
}

func TestRecord(t *testing.T) {
	now := time.Unix(1700000000, 0)
	reg := Record(sampleReport(), 1500*time.Millisecond, now)

	expected := `
# HELP blockgen_sources Number of configured block list sources.
# TYPE blockgen_sources gauge
blockgen_sources 2
# HELP blockgen_sources_failed Number of sources that could not be downloaded.
# TYPE blockgen_sources_failed gauge
blockgen_sources_failed 1
# HELP blockgen_domains Unique domains written to the output file.
# TYPE blockgen_domains gauge
blockgen_domains 14
# HELP blockgen_last_success_timestamp_seconds Unix time of the last successful run.
# TYPE blockgen_last_success_timestamp_seconds gauge
blockgen_last_success_timestamp_seconds 1.7e+09
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"blockgen_sources", "blockgen_sources_failed", "blockgen_domains", "blockgen_last_success_timestamp_seconds")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "blockgen_source_domains")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockgen.prom")
	reg := Record(sampleReport(), time.Second, time.Now())

	require.NoError(t, WriteFile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "blockgen_local_entries 3")
	assert.Contains(t, string(data), `blockgen_source_domains{location="https://a.example/hosts",source="source_1"} 12`)
}
