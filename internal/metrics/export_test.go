package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.ObservePass()
	c.ObservePass()
	c.ObserveUnion(SourceCompletion)
	c.ObserveRebuild(time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "# TYPE acegraph_rebuild_passes_total counter")
	assert.Contains(t, out, "acegraph_rebuild_passes_total 2")
	assert.Contains(t, out, `acegraph_rebuild_unions_total{source="completion"} 1`)
	assert.Contains(t, out, "acegraph_rebuild_duration_seconds_count 1")
}

func TestWriteText_EmptyRegistry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, prometheus.NewRegistry()))
	assert.Empty(t, buf.String())
}
