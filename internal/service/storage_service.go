package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fiihub/fii-portal-api/internal/config"
)

// StorageService stores report PDFs in S3 using AWS Signature V4. Subscribers
// never see the bucket directly: reads go through short-lived presigned URLs.
type StorageService struct {
	bucket          string
	region          string
	accessKeyID     string
	secretAccessKey string
	presignTTL      time.Duration
}

// NewStorageService creates a new StorageService.
func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is nil")
	}

	return &StorageService{
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
		presignTTL:      cfg.PresignTTL,
	}, nil
}

// UploadReportPDF uploads a report PDF and returns its storage key.
func (s *StorageService) UploadReportPDF(ctx context.Context, fundTicker, referenceMonth string, data []byte) (string, error) {
	key := fmt.Sprintf("reports/%s/%s.pdf", strings.ToLower(fundTicker), referenceMonth)
	if err := s.uploadFile(ctx, key, data, "application/pdf"); err != nil {
		return "", err
	}
	return key, nil
}

// uploadFile uploads a file to S3 using AWS Signature V4
func (s *StorageService) uploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	// Check if credentials are configured
	if s.accessKeyID == "" || s.secretAccessKey == "" {
		log.Warn().Str("key", key).Msg("S3 credentials not configured - skipping upload")
		return nil
	}

	// Build request URL
	reqURL := fmt.Sprintf("https://%s/%s", s.host(), key)

	// Create request
	req, err := http.NewRequestWithContext(ctx, "PUT", reqURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	payloadHash := sha256Hex(data)

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))
	req.Header.Set("Host", s.host())
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	// Sign request with AWS Signature V4
	authorization := s.signRequest(req, payloadHash, amzDate, dateStamp)
	req.Header.Set("Authorization", authorization)

	// Execute request
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload to S3")
		return fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Error().
			Str("key", key).
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Msg("S3 upload failed")
		return fmt.Errorf("S3 upload failed: %s", string(body))
	}

	log.Info().Str("key", key).Msg("Successfully uploaded to S3")
	return nil
}

// PresignGetURL returns a presigned GET URL for the given storage key, valid
// for the configured TTL.
func (s *StorageService) PresignGetURL(key string) (string, error) {
	if s.accessKeyID == "" || s.secretAccessKey == "" {
		return "", fmt.Errorf("S3 credentials not configured")
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	credentialScope := fmt.Sprintf("%s/%s/s3/aws4_request", dateStamp, s.region)

	// Query parameters, in canonical (sorted) order.
	params := url.Values{}
	params.Set("X-Amz-Algorithm", "AWS4-HMAC-SHA256")
	params.Set("X-Amz-Credential", fmt.Sprintf("%s/%s", s.accessKeyID, credentialScope))
	params.Set("X-Amz-Date", amzDate)
	params.Set("X-Amz-Expires", fmt.Sprintf("%d", int(s.presignTTL.Seconds())))
	params.Set("X-Amz-SignedHeaders", "host")
	canonicalQuery := params.Encode()

	canonicalRequest := fmt.Sprintf("GET\n/%s\n%s\nhost:%s\n\nhost\nUNSIGNED-PAYLOAD",
		key, canonicalQuery, s.host())

	stringToSign := fmt.Sprintf("AWS4-HMAC-SHA256\n%s\n%s\n%s",
		amzDate, credentialScope, sha256Hex([]byte(canonicalRequest)))

	signature := hex.EncodeToString(hmacSHA256(s.signingKey(dateStamp), []byte(stringToSign)))

	return fmt.Sprintf("https://%s/%s?%s&X-Amz-Signature=%s", s.host(), key, canonicalQuery, signature), nil
}

// signRequest creates AWS Signature V4 authorization header
func (s *StorageService) signRequest(req *http.Request, payloadHash, amzDate, dateStamp string) string {
	service := "s3"

	// Canonical request
	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}
	canonicalQueryString := ""

	// Canonical headers
	signedHeaders := []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}
	sort.Strings(signedHeaders)

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(strings.ToLower(h))
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}

	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		req.Method,
		canonicalURI,
		canonicalQueryString,
		canonicalHeaders.String(),
		signedHeadersStr,
		payloadHash,
	)

	// String to sign
	algorithm := "AWS4-HMAC-SHA256"
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm,
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	)

	// Signature
	signature := hex.EncodeToString(hmacSHA256(s.signingKey(dateStamp), []byte(stringToSign)))

	// Authorization header
	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm,
		s.accessKeyID,
		credentialScope,
		signedHeadersStr,
		signature,
	)
}

// signingKey derives the SigV4 signing key for the given date.
func (s *StorageService) signingKey(dateStamp string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+s.secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte("s3"))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func (s *StorageService) host() string {
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region)
}

// sha256Hex computes SHA256 hash and returns hex string
func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hmacSHA256 computes HMAC-SHA256
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
