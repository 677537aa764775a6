package objstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("Code,Full Name,Entity\nE001,Ali Hassan,Tawfeer\n", 200))
	compressed, err := Compress(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))

	out, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestMaybeDecompress(t *testing.T) {
	t.Parallel()

	plain := []byte("1. Introduction\nHello")
	out, err := MaybeDecompress("policy.txt", plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	compressed, err := Compress(plain)
	require.NoError(t, err)
	out, err = MaybeDecompress("policy.txt.ZST", compressed)
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	_, err = MaybeDecompress("policy.txt.zst", plain)
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/csv", contentTypeFor("data/records.csv"))
	assert.Equal(t, "application/zstd", contentTypeFor("data/records.csv.zst"))
	assert.Equal(t, "text/html", contentTypeFor("policy.HTML"))
	assert.Equal(t, "text/plain", contentTypeFor("policy.md"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob"))
}

func TestEndpoint(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", Endpoint("abc123"))
}

func TestNew_RequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Endpoint: "https://x", BucketName: "b"})
	assert.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", &smithy.GenericAPIError{Code: "NotFound"})))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}
