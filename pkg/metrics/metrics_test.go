package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAscendantFallbackCounter(t *testing.T) {
	before := testutil.ToFloat64(AscendantFallbacks)
	AscendantFallbacks.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(AscendantFallbacks))
}

func TestChartComputationsByResult(t *testing.T) {
	before := testutil.ToFloat64(ChartComputations.WithLabelValues(ResultDegraded))
	ChartComputations.WithLabelValues(ResultDegraded).Inc()
	require.Equal(t, before+1, testutil.ToFloat64(ChartComputations.WithLabelValues(ResultDegraded)))
}

func TestObserveLookup(t *testing.T) {
	ObserveLookup("body", time.Now().Add(-time.Millisecond))
	require.Equal(t, 1, testutil.CollectAndCount(EphemerisLookupDuration))
}
