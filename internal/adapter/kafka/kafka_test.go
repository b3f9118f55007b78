package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/donor-map/internal/config"
	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(t *testing.T) domain.DonationRecord {
	t.Helper()
	rec, err := domain.NormalizeRow(domain.RawRow{
		domain.ColGiftAmount: "$12,500.00",
		domain.ColLongitude:  "-87.6298",
		domain.ColLatitude:   "41.8781",
		domain.ColState:      "IL",
		domain.ColCity:       "Chicago",
		domain.ColDonorID:    "D-1",
	})
	require.NoError(t, err)
	return rec
}

func TestSerializeToMessage(t *testing.T) {
	rec := testRecord(t)

	msg, err := serializeToMessage(&rec)
	require.NoError(t, err)

	assert.Equal(t, []byte(rec.ID), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "gift_category", msg.Headers[0].Key)
	assert.Equal(t, []byte(domain.Category10KTo15), msg.Headers[0].Value)
	assert.Equal(t, "state", msg.Headers[1].Key)
	assert.Equal(t, []byte("IL"), msg.Headers[1].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, rec.ID, decoded["id"])
	assert.Equal(t, "12500", decoded["gift_amount"])
	assert.Equal(t, []any{-87.6298, 41.8781}, decoded["location"])
	assert.Equal(t, "Chicago", decoded["city"])
}

func TestLoadBatch_EmptyViewIsNoop(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaTopic: "donor-records"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	assert.NoError(t, w.LoadBatch(context.Background(), nil))
}
