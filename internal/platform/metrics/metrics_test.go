package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicationCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncMedicationOp(OpAdd)
	m.IncMedicationOp(OpAdd)
	m.IncMedicationError(OpDelete, "not_found")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MedicationOps.WithLabelValues(OpAdd)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MedicationErrors.WithLabelValues(OpDelete, "not_found")))
}

func TestSetStoreHealthy(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetStoreHealthy("postgres", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreHealthy.WithLabelValues("postgres")))

	m.SetStoreHealthy("postgres", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreHealthy.WithLabelValues("postgres")))
}

func TestNewRegistryGathersRuntimeMetrics(t *testing.T) {
	reg := NewRegistry()
	New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}
