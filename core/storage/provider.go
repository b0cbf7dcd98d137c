package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Provider stores attachment bytes
type Provider interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	Name() string
}

// Config selects and configures the provider
type Config struct {
	Provider  string
	Path      string
	BaseURL   string
	APIKey    string
	APISecret string
	AccountID string
	Endpoint  string
	Bucket    string
	Region    string
	CDN       string
}

// LocalConfig configures the filesystem provider
type LocalConfig struct {
	BasePath string
	BaseURL  string
}

type localProvider struct {
	basePath string
	baseURL  string
}

// NewLocalProvider stores files under BasePath and serves them from BaseURL
func NewLocalProvider(config LocalConfig) (Provider, error) {
	if err := os.MkdirAll(config.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localProvider{basePath: config.BasePath, baseURL: strings.TrimRight(config.BaseURL, "/")}, nil
}

func (p *localProvider) Name() string { return "local" }

func (p *localProvider) Put(_ context.Context, key string, data []byte, _ string) error {
	full := filepath.Join(p.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (p *localProvider) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(p.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (p *localProvider) URL(key string) string {
	return p.baseURL + "/" + key
}

// generateUniqueFilename keeps the extension and a readable stem
func generateUniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, stem)
	if len(stem) > 40 {
		stem = stem[:40]
	}

	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s-%d-%s%s", stem, time.Now().Unix(), hex.EncodeToString(buf), ext)
}

func objectKey(parts ...string) string {
	return path.Join(parts...)
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
