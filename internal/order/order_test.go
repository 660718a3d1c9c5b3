package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "out_for_delivery", "delivered", "cancelled"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	for _, s := range []string{"", "PENDING", "in_transit", "refunded"} {
		_, err := ParseStatus(s)
		assert.Error(t, err, "status %q should be rejected", s)
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusOutForDelivery, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusDelivered, false},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusShipped.Terminal())
}

func TestOrder_ApplyTransition_AppendsOneEntry(t *testing.T) {
	now := time.Now()
	o := &Order{TrackingStatus: StatusPending, TrackingUpdates: []TrackingUpdate{}}

	err := o.applyTransition(StatusShipped, "handed to carrier", now)

	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.TrackingStatus)
	require.Len(t, o.TrackingUpdates, 1)
	assert.Equal(t, StatusShipped, o.TrackingUpdates[0].Status)
	assert.Equal(t, "handed to carrier", o.TrackingUpdates[0].Note)
	assert.Equal(t, now, o.TrackingUpdates[0].Timestamp)
	assert.Equal(t, now, o.UpdatedAt)
}

func TestOrder_ApplyTransition_Invalid(t *testing.T) {
	o := &Order{TrackingStatus: StatusDelivered}

	err := o.applyTransition(StatusShipped, "", time.Now())

	assert.Error(t, err)
	assert.Equal(t, StatusDelivered, o.TrackingStatus, "status must not change on a rejected transition")
	assert.Empty(t, o.TrackingUpdates, "no audit entry on a rejected transition")
}

func TestOrder_AppendNote(t *testing.T) {
	now := time.Now()
	o := &Order{TrackingStatus: StatusShipped}

	o.appendNote("at regional hub", now)
	o.appendNote("delayed by weather", now.Add(time.Hour))

	require.Len(t, o.TrackingUpdates, 2)
	assert.Equal(t, StatusShipped, o.TrackingUpdates[0].Status)
	assert.Equal(t, StatusShipped, o.TrackingUpdates[1].Status)
	assert.Equal(t, "delayed by weather", o.TrackingUpdates[1].Note)
	assert.Equal(t, StatusShipped, o.TrackingStatus)
}

func TestOrder_AuditTrail_OneEntryPerTransition(t *testing.T) {
	now := time.Now()
	o := &Order{TrackingStatus: StatusPending, TrackingUpdates: []TrackingUpdate{}}

	require.NoError(t, o.applyTransition(StatusProcessing, "", now))
	require.NoError(t, o.applyTransition(StatusShipped, "", now))
	require.NoError(t, o.applyTransition(StatusOutForDelivery, "", now))
	require.NoError(t, o.applyTransition(StatusDelivered, "", now))

	assert.Len(t, o.TrackingUpdates, 4)
	assert.Equal(t, StatusDelivered, o.TrackingStatus)
}
