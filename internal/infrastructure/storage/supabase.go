package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseStorage Supabase Storage REST 客户端，只实现上传和删除
type SupabaseStorage struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseStorage 创建 Supabase 存储，httpClient 为 nil 时使用 30s 超时的默认客户端
func NewSupabaseStorage(baseURL, apiKey, bucket string, httpClient *http.Client) (*SupabaseStorage, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("supabaseURL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("serviceKey is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &SupabaseStorage{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
		httpClient: httpClient,
	}, nil
}

func (s *SupabaseStorage) publicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", s.baseURL, s.bucket)
}

func (s *SupabaseStorage) Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	reqURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	if err := s.do(req); err != nil {
		return "", err
	}
	return s.publicPrefix() + objectPath, nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, publicURL string) error {
	objectPath, ok := strings.CutPrefix(publicURL, s.publicPrefix())
	if !ok || objectPath == "" {
		return nil
	}
	body, _ := json.Marshal(map[string][]string{"prefixes": {objectPath}})

	reqURL := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *SupabaseStorage) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
}

func (s *SupabaseStorage) do(req *http.Request) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var errResp struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil {
			if errResp.Message != "" {
				return fmt.Errorf("supabase error: %s", errResp.Message)
			}
			if errResp.Error != "" {
				return fmt.Errorf("supabase error: %s", errResp.Error)
			}
		}
		return fmt.Errorf("supabase error: status %d", resp.StatusCode)
	}
	return nil
}
