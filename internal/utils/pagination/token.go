package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// TimeFormat is the precise time layout used inside pagination tokens.
const TimeFormat = time.RFC3339Nano

// EncodeMultiFieldToken creates an opaque token from any number of string
// fields. Repositories use it to carry (created_at, id) cursors across pages.
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}

// DecodeCursorToken decodes a two-field (timestamp, id) cursor token.
func DecodeCursorToken(token string) (time.Time, string, error) {
	fields, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, "", err
	}
	if len(fields) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (field count)")
	}
	ts, err := time.Parse(TimeFormat, fields[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (timestamp parse): %w", err)
	}
	return ts, fields[1], nil
}
