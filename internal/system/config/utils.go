/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultConfigFile is the deployment file location relative to the service home.
const DefaultConfigFile = "repository/conf/deployment.yaml"

// LoadEnvFiles loads every <home>/config/*.env file into the process environment.
// Variables already present in the environment win.
func LoadEnvFiles(home string) ([]string, error) {
	envFiles, err := filepath.Glob(filepath.Join(home, "config", "*.env"))
	if err != nil {
		return nil, err
	}
	if len(envFiles) == 0 {
		return nil, nil
	}
	if err := godotenv.Load(envFiles...); err != nil {
		return envFiles, err
	}
	return envFiles, nil
}

// LoadConfig reads the YAML deployment file, expanding ${VAR} references from the environment.
func LoadConfig(home, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(home, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OverrideRuntime replaces the runtime configuration. Used by tests and the CLI.
func OverrideRuntime(conf Config) {
	applyDefaults(&conf)
	runtimeConfig = &Runtime{
		Config: conf,
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.DataSource.Type == "" {
		cfg.DataSource.Type = "mongodb"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 10
	}
	if cfg.DataSource.SSLMode == "" {
		cfg.DataSource.SSLMode = "disable"
	}
	if cfg.Dedupe.Report.Sink == "" {
		cfg.Dedupe.Report.Sink = "file"
	}
	if cfg.Dedupe.Report.Dir == "" {
		cfg.Dedupe.Report.Dir = "tmp"
	}
}

func validate(cfg *Config) error {
	switch cfg.DataSource.Type {
	case "mongodb", "postgres":
	default:
		return fmt.Errorf("unsupported datasource type: %s", cfg.DataSource.Type)
	}
	switch cfg.Dedupe.Report.Sink {
	case "file":
	case "s3":
		if cfg.Dedupe.Report.Endpoint == "" || cfg.Dedupe.Report.Bucket == "" {
			return fmt.Errorf("dedupe report sink s3 requires endpoint and bucket")
		}
	default:
		return fmt.Errorf("unsupported dedupe report sink: %s", cfg.Dedupe.Report.Sink)
	}
	return nil
}
