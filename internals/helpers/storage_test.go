package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iteamhub_backend/internals/configs"
)

func TestPublicStorageURL(t *testing.T) {
	configs.SupabaseProjectURL = "https://proj.supabase.co"

	// slashes inside object keys stay path separators
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/event_posters/events/123/poster.webp",
		PublicStorageURL(BucketEventPosters, "events/123/poster.webp"))

	// unsafe characters escape per segment
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/payment_slips/user/my%20slip.webp",
		PublicStorageURL(BucketPaymentSlips, "user/my slip.webp"))
}

func TestExtractSupabasePath_RoundTrip(t *testing.T) {
	configs.SupabaseProjectURL = "https://proj.supabase.co"

	full := PublicStorageURL(BucketProfilePhotos, "abc/profile.webp")
	bucket, key, err := ExtractSupabasePath(full)
	require.NoError(t, err)
	assert.Equal(t, BucketProfilePhotos, bucket)
	assert.Equal(t, "abc/profile.webp", key)

	_, _, err = ExtractSupabasePath("https://proj.supabase.co/elsewhere/file.webp")
	assert.Error(t, err)
}
