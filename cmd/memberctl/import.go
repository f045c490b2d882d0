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
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	memberProvider "github.com/pjdagdal/member-data-service/internal/member/provider"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create members from a JSON file",
	Long: `Create members from a JSON array through the regular creation path, so every imported
member is validated and receives a membership id. Invalid items are reported and skipped.

Examples:
  memberctl import --file members.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		var members []model.Member
		if err := json.Unmarshal(data, &members); err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}

		ctx, _, stores, closeStores, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer closeStores()

		memberService := memberProvider.NewMemberProvider(stores).GetMemberService()
		result, err := memberService.ImportMembers(ctx, members)
		out := cmd.OutOrStdout()
		if result != nil {
			fmt.Fprintf(out, "%s Created %d member(s)\n", color.GreenString("✓"), result.Created)
			if result.Failed > 0 {
				fmt.Fprintf(out, "%s Failed %d member(s)\n", color.RedString("✗"), result.Failed)
				for _, message := range result.Errors {
					fmt.Fprintf(out, "  %s\n", message)
				}
			}
		}
		return err
	},
}

func init() {
	importCmd.Flags().String("file", "", "JSON file holding an array of members")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
