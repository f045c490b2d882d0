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

package managers

import (
	"context"
	"fmt"
	"io"

	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	"github.com/pjdagdal/member-data-service/internal/system/database/provider"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// Bootstrap loads the environment files and deployment configuration found under home, initializes
// the runtime and a logger writing to logOutput, and opens the configured stores.
func Bootstrap(ctx context.Context, home string, logOutput io.Writer) (*config.Config, *store.Stores, error) {

	envFiles, err := config.LoadEnvFiles(home)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg, err := config.LoadConfig(home, config.DefaultConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.InitializeRuntime(home, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize runtime: %w", err)
	}
	if err := log.InitWithFormat(cfg.Log.LogLevel, cfg.Log.Format, logOutput); err != nil {
		return nil, nil, err
	}
	logger := log.GetLogger()
	if len(envFiles) > 0 {
		logger.Debug("Loaded environment files", log.Strings("files", envFiles))
	}

	stores, err := store.NewStores(ctx, cfg.DataSource, provider.NewDBProvider())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.DataSource.Type, err)
	}
	return cfg, stores, nil
}
