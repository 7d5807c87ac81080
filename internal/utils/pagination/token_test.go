package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringlabs/ring_token_engine/internal/utils/pagination"
)

func TestCursorTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 15, 12, 0, 0, 123456789, time.UTC)
	token := pagination.EncodeMultiFieldToken(createdAt.Format(pagination.TimeFormat), "entry-42")

	ts, id, err := pagination.DecodeCursorToken(token)

	require.NoError(t, err)
	assert.True(t, ts.Equal(createdAt))
	assert.Equal(t, "entry-42", id)
}

func TestDecodeCursorToken_RejectsMalformedBase64(t *testing.T) {
	_, _, err := pagination.DecodeCursorToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeCursorToken_RejectsWrongFieldCount(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("only-one-field")
	_, _, err := pagination.DecodeCursorToken(token)
	assert.Error(t, err)
}

func TestDecodeCursorToken_RejectsBadTimestamp(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("yesterday", "entry-42")
	_, _, err := pagination.DecodeCursorToken(token)
	assert.Error(t, err)
}
