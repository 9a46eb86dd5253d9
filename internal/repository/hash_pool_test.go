//go:build unit

package repository

import (
	"testing"

	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/stretchr/testify/require"
)

func TestParseReservationReply(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want *service.ReservationResult
	}{
		{
			name: "success with token",
			raw:  []any{"status", "success", "token", "aB3xK9", "queue_length", int64(42)},
			want: &service.ReservationResult{
				Status:      service.ReservationSuccess,
				Token:       "aB3xK9",
				QueueLength: 42,
			},
		},
		{
			name: "generation requested with message id",
			raw:  []any{"status", "generation_requested", "message_id", "1700000000000-0", "queue_length", int64(0)},
			want: &service.ReservationResult{
				Status:    service.ReservationGenerationRequested,
				MessageID: "1700000000000-0",
			},
		},
		{
			name: "generation in progress",
			raw:  []any{"status", "generation_in_progress", "queue_length", int64(3)},
			want: &service.ReservationResult{
				Status:      service.ReservationGenerationInProgress,
				QueueLength: 3,
			},
		},
		{
			name: "temporarily unavailable",
			raw:  []any{"status", "temporarily_unavailable", "queue_length", int64(15)},
			want: &service.ReservationResult{
				Status:      service.ReservationTemporarilyUnavailable,
				QueueLength: 15,
			},
		},
		{
			name: "queue length as string",
			raw:  []any{"status", "success", "token", "x", "queue_length", "7"},
			want: &service.ReservationResult{
				Status:      service.ReservationSuccess,
				Token:       "x",
				QueueLength: 7,
			},
		},
		{
			name: "unknown fields are ignored",
			raw:  []any{"status", "success", "token", "x", "extra", "data"},
			want: &service.ReservationResult{
				Status: service.ReservationSuccess,
				Token:  "x",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReservationReply(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseReservationReplyRejectsMalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "not an array", raw: "success"},
		{name: "odd field count", raw: []any{"status", "success", "token"}},
		{name: "non-string key", raw: []any{int64(1), "success"}},
		{name: "missing status", raw: []any{"token", "x"}},
		{name: "unparseable queue length", raw: []any{"status", "success", "queue_length", "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseReservationReply(tt.raw)
			require.Error(t, err)
		})
	}
}
