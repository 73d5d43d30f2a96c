package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Load resolves the configuration. On GCP with CONFIG_SECRET_NAME set the
// whole configuration is read as a single JSON secret; otherwise each value is
// resolved individually from Secret Manager or the environment.
func Load(ctx context.Context) *Config {
	secretName := os.Getenv("CONFIG_SECRET_NAME")
	if isGCP && secretName != "" {
		cfg, err := LoadFromSecretManager(ctx, os.Getenv("GOOGLE_CLOUD_PROJECT"), secretName)
		if err != nil {
			log.Fatalf("FATAL: Cannot load configuration secret %q: %v", secretName, err)
		}
		return cfg
	}

	return NewConfig()
}

// LoadFromSecretManager loads a full JSON configuration from Google Secret Manager
func LoadFromSecretManager(ctx context.Context, projectID, secretName string) (*Config, error) {
	secretData, err := accessSecretVersion(fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName))
	if err != nil {
		return nil, fmt.Errorf("failed to access secret: %w", err)
	}

	var config Config
	if err := json.Unmarshal([]byte(secretData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal secret data: %w", err)
	}

	return &config, nil
}

// accessSecretVersion accesses the payload for the given secret version if it exists.
func accessSecretVersion(name string) (string, error) {
	ctx := context.Background()
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create secretmanager client: %w", err)
	}
	defer client.Close()

	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	}

	result, err := client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}
