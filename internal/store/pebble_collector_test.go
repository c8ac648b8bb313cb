package store

import (
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPebbleCollector_Gather(t *testing.T) {
	s := openMemPebble(t, vfs.NewMem())
	defer s.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(s.Collector()))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"sync_pebble_compaction_count_total",
		"sync_pebble_memtable_size_bytes",
		"sync_pebble_wal_files",
		"sync_pebble_disk_usage_bytes",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}
