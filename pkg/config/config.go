// Package config resolves the settings a Client needs to reach its
// backend: which table, which region, and which credentials, read from an
// explicit struct, a YAML file, or the ambient AWS environment, in that
// order of precedence.
package config

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"gopkg.in/yaml.v3"
)

// Config describes how to reach the backend table.
type Config struct {
	Table           string `yaml:"table"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	AccessKeyID     string `yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `yaml:"secretAccessKey,omitempty"`
}

// Load reads a YAML config file from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnvironment layers the DYNAKV_* environment variables over cfg,
// letting a deployment override table/region/endpoint without touching a
// checked-in file. DYNAKV_ENDPOINT is how callers point the adapter at a
// local DynamoDB-compatible emulator instead of AWS.
func (c Config) FromEnvironment() Config {
	if v := os.Getenv("DYNAKV_TABLE"); v != "" {
		c.Table = v
	}
	if v := os.Getenv("DYNAKV_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("DYNAKV_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	return c
}

// NewDynamoDBClient builds a *dynamodb.Client from cfg, falling back to
// the ambient AWS credential chain (environment, shared config file,
// instance role) when AccessKeyID/SecretAccessKey are left empty.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*dynamodb.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("config: load aws config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = awsconfig.String(cfg.Endpoint)
		})
	}
	return dynamodb.NewFromConfig(awsCfg, clientOpts...), nil
}
