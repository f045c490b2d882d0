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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	traceCtx "github.com/pjdagdal/member-data-service/internal/system/context"
	"github.com/pjdagdal/member-data-service/internal/system/database/provider"
	"github.com/pjdagdal/member-data-service/internal/system/managers"
	"github.com/spf13/cobra"
)

// openStores is replaced in tests.
var openStores = func(ctx context.Context, home string) (*config.Config, *store.Stores, error) {
	return managers.Bootstrap(ctx, home, os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "memberctl",
	Short: "Administer member records",
	Long: `memberctl runs the maintenance jobs of the member data service against the configured
datastore: duplicate merging, membership id assignment and bulk imports.

The deployment file is read from <home>/repository/conf/deployment.yaml.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("home", "", "Path to member data service home directory (default: working directory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// commandContext opens the stores for cmd and returns a context that audits as the script actor.
func commandContext(cmd *cobra.Command) (context.Context, *config.Config, *store.Stores, func(), error) {
	home, _ := cmd.Flags().GetString("home")
	if home == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		home = dir
	}

	ctx := traceCtx.WithActor(cmd.Context(), constants.ScriptActor)
	ctx = traceCtx.WithTraceID(ctx, traceCtx.GenerateTraceID())
	cfg, stores, err := openStores(ctx, home)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return ctx, cfg, stores, func() { provider.CloseAll(context.Background()) }, nil
}

func printJSON(out io.Writer, v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
