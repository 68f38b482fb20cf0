package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbox/internal/domain"
)

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		task domain.Task
	}{
		{
			name: "fresh task",
			task: domain.NewTask(1, "buy milk", domain.PriorityMedium),
		},
		{
			name: "empty description",
			task: domain.NewTask(42, "", domain.PriorityLow),
		},
		{
			name: "completed with duplicate tags",
			task: domain.Task{
				ID:          99,
				Description: "ship release",
				IsCompleted: true,
				Priority:    domain.PriorityHigh,
				Tags:        []string{"urgent", "work", "urgent"},
			},
		},
		{
			name: "unicode description and tags",
			task: domain.Task{
				ID:          4294967295,
				Description: "répondre à 田中さん",
				Priority:    domain.PriorityLow,
				Tags:        []string{"日本語", ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTask(encodeTask(tt.task))
			require.NoError(t, err)
			assert.Equal(t, tt.task, got)
		})
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	raw := encodeTask(domain.NewTask(1, "x", domain.PriorityMedium))
	raw[0] = 99

	_, err := decodeTask(raw)
	assert.ErrorContains(t, err, "unsupported version")
}

func TestDecodeRejectsInvalidPriority(t *testing.T) {
	task := domain.NewTask(1, "x", domain.PriorityHigh)
	raw := encodeTask(task)
	// Priority byte sits right after the completion byte.
	raw[len(raw)-2] = 7

	_, err := decodeTask(raw)
	assert.ErrorContains(t, err, "invalid discriminant")
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	raw := encodeTask(domain.Task{
		ID:          5,
		Description: "truncate me",
		Tags:        []string{"tag"},
	})

	for i := 0; i < len(raw); i++ {
		_, err := decodeTask(raw[:i])
		assert.Error(t, err, "prefix of length %d should not decode", i)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	raw := encodeTask(domain.NewTask(1, "x", domain.PriorityMedium))
	raw = append(raw, 0xAA)

	_, err := decodeTask(raw)
	assert.ErrorContains(t, err, "trailing")
}
