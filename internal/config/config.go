package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	AWSAccessKey  string
	AWSSecretKey  string
	APIKey        string
	PublicBaseURL string
	SignedHosts   []string
	PresignTTL    time.Duration
	SignedURLTTL  time.Duration
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		AWSAccessKey:  getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		APIKey:        getEnv("API_KEY", ""),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		SignedHosts:   splitList(getEnv("SIGNED_HOSTS", "")),
		PresignTTL:    getEnvSeconds("PRESIGN_TTL_SECONDS", 900),
		SignedURLTTL:  getEnvSeconds("SIGNED_URL_TTL_SECONDS", 900),
	}
}

// FolderPolicy constrains what may be uploaded into a destination folder.
type FolderPolicy struct {
	AllowedMimes []string `yaml:"allowed_mimes"`
	AllowedExts  []string `yaml:"allowed_exts"`
	SizeMaxMB    int64    `yaml:"size_max_mb"`
}

func (p *FolderPolicy) SizeMaxBytes() int64 {
	return p.SizeMaxMB * 1024 * 1024
}

type PolicyConfig struct {
	Folders map[string]FolderPolicy `yaml:"folders"`
}

func LoadPolicyConfig() (*PolicyConfig, error) {
	policyPath := getEnv("UPLOAD_POLICY_PATH", "upload-policy.yaml")

	data, err := os.ReadFile(policyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload policy: %w", err)
	}

	var config PolicyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse upload policy: %w", err)
	}

	return &config, nil
}

func (pc *PolicyConfig) GetFolderPolicy(folder string) *FolderPolicy {
	if policy, exists := pc.Folders[folder]; exists {
		return &policy
	}

	// Return default if folder not found
	if defaultPolicy, exists := pc.Folders["default"]; exists {
		return &defaultPolicy
	}

	// Fallback to hardcoded default
	return DefaultFolderPolicy()
}

func DefaultFolderPolicy() *FolderPolicy {
	return &FolderPolicy{
		AllowedMimes: []string{"image/jpeg", "image/png", "application/pdf"},
		AllowedExts:  []string{".jpg", ".jpeg", ".png", ".pdf"},
		SizeMaxMB:    25,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(defaultValue) * time.Second
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
