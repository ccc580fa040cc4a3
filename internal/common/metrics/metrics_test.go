package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSubmissionsTotal(t *testing.T) {
	before := testutil.ToFloat64(SubmissionsTotal.WithLabelValues(OutcomeCreated))
	SubmissionsTotal.WithLabelValues(OutcomeCreated).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SubmissionsTotal.WithLabelValues(OutcomeCreated)))
}

func TestNotificationsTotal(t *testing.T) {
	before := testutil.ToFloat64(NotificationsTotal.WithLabelValues("email", "sent"))
	NotificationsTotal.WithLabelValues("email", "sent").Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(NotificationsTotal.WithLabelValues("email", "sent")))
}
