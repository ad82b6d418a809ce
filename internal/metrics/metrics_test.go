package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.ActivityAdded("train")
	r.ActivityAdded("train")
	r.ActivityEdited("recover")
	r.ActivityRemoved()
	r.DialogCancelled("select")
	r.ReportPosted("train")
	r.Submitted()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.added.WithLabelValues("train")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.edited.WithLabelValues("recover")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.removed))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cancelled.WithLabelValues("select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.posted.WithLabelValues("train")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.submitted))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ActivityAdded("train")
	r.Submitted()
	assert.Nil(t, r.Registry())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestHandlerServesCounters(t *testing.T) {
	r := New()
	r.Submitted()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "downtime_submissions_total 1"))
}
