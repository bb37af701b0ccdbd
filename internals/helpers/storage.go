package helper

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"iteamhub_backend/internals/configs"
)

// Storage buckets (Supabase object storage).
const (
	BucketProfilePhotos = "profile_photos"
	BucketPaymentSlips  = "payment_slips"
	BucketEventPosters  = "event_posters"
)

const maxUploadSize = int64(5 * 1024 * 1024)

var storageClient = &http.Client{Timeout: 30 * time.Second}

/* =======================================================================
   Upload entry points
======================================================================= */

// UploadProfilePhoto stores a member photo under <userID>/profile.webp.
// Images are re-encoded to webp before upload; repeated uploads replace
// the previous photo (upsert).
func UploadProfilePhoto(userID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	data, err := readAndConvertImage(fh)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/profile.webp", userID)
	if err := uploadToSupabase(BucketProfilePhotos, key, "image/webp", data, true); err != nil {
		return "", err
	}
	return PublicStorageURL(BucketProfilePhotos, key), nil
}

// UploadPaymentSlip stores a payment proof (image or PDF) under
// <userID>/<uuid>.<ext>. Slips are never replaced.
func UploadPaymentSlip(userID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxUploadSize {
		return "", fmt.Errorf("file exceeds %dMB limit", maxUploadSize/(1024*1024))
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open slip: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, src); err != nil {
		return "", fmt.Errorf("failed to read slip: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("%s/%s%s", userID, uuid.New(), fileExt(fh.Filename))
	if err := uploadToSupabase(BucketPaymentSlips, key, contentType, buf, false); err != nil {
		return "", err
	}
	return PublicStorageURL(BucketPaymentSlips, key), nil
}

// UploadEventPoster stores an event poster under events/<eventID>/poster.webp.
func UploadEventPoster(eventID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	data, err := readAndConvertImage(fh)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("events/%s/poster.webp", eventID)
	if err := uploadToSupabase(BucketEventPosters, key, "image/webp", data, true); err != nil {
		return "", err
	}
	return PublicStorageURL(BucketEventPosters, key), nil
}

func readAndConvertImage(fh *multipart.FileHeader) (*bytes.Buffer, error) {
	if fh.Size > maxUploadSize {
		return nil, fmt.Errorf("image exceeds %dMB limit", maxUploadSize/(1024*1024))
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	webpBytes, err := ConvertToWebP(src, fh.Filename)
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(webpBytes), nil
}

/* =======================================================================
   Supabase storage REST
======================================================================= */

func uploadToSupabase(bucket, key, contentType string, data *bytes.Buffer, upsert bool) error {
	baseURL := configs.SupabaseProjectURL
	apiKey := configs.SupabaseServiceKey
	if baseURL == "" || apiKey == "" {
		return fmt.Errorf("SUPABASE_PROJECT_URL or SUPABASE_SERVICE_ROLE_KEY not set")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", baseURL, bucket, key)
	req, err := http.NewRequest(http.MethodPut, endpoint, data)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	if upsert {
		req.Header.Set("x-upsert", "true")
	}

	resp, err := storageClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// DeleteFromSupabase removes an object; missing objects are not an error
// at the call sites, so callers usually ignore the result.
func DeleteFromSupabase(bucket, key string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", configs.SupabaseProjectURL, bucket, key)
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+configs.SupabaseServiceKey)

	resp, err := storageClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func PublicStorageURL(bucket, key string) string {
	// Escape per segment; the slashes inside object keys are separators.
	u := url.URL{Path: fmt.Sprintf("/storage/v1/object/public/%s/%s", bucket, key)}
	return configs.SupabaseProjectURL + u.EscapedPath()
}

// ExtractSupabasePath splits a public object URL back into (bucket, key).
func ExtractSupabasePath(fullURL string) (bucket string, key string, err error) {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "", "", err
	}
	parts := strings.SplitN(u.Path, "/object/public/", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("not a Supabase public object URL")
	}
	pathParts := strings.SplitN(parts[1], "/", 2)
	if len(pathParts) < 2 {
		return "", "", fmt.Errorf("failed to extract bucket and key")
	}
	return pathParts[0], pathParts[1], nil
}

/* =======================================================================
   Filename helpers
======================================================================= */

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

func fileExt(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(sanitizeFilename(filename[idx:]))
}
