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
	"fmt"

	"github.com/fatih/color"
	"github.com/pjdagdal/member-data-service/internal/dedupe/model"
	dedupeProvider "github.com/pjdagdal/member-data-service/internal/dedupe/provider"
	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and merge duplicate members",
	Long: `Group members sharing an email, phone, name, membership id or national id and merge each
group into a single keeper record.

Without --apply nothing is written: the report lists what would be merged. The report is
always persisted to the configured sink.

Examples:
  memberctl dedupe                   # Dry run, write the report only
  memberctl dedupe --apply           # Merge every cluster
  memberctl dedupe --apply --limit 10  # Merge the first 10 clusters`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, _ := cmd.Flags().GetBool("apply")
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cfg, stores, closeStores, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer closeStores()

		dedupeService, err := dedupeProvider.NewDedupeProvider(stores, cfg.Dedupe).GetDedupeService()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !apply {
			fmt.Fprintln(out, color.YellowString("DRY RUN MODE - No members will be changed"))
		}
		result, err := dedupeService.Run(ctx, model.Options{Apply: apply, Limit: limit})
		if result == nil {
			return err
		}
		report := result.Report
		fmt.Fprintf(out, "Scanned %d member(s), found %d cluster(s), processed %d, failed %d\n",
			report.TotalMembers, report.ClusterCount, len(report.Clusters), report.FailedClusters)
		for _, cluster := range report.Clusters {
			if cluster.Error != "" {
				fmt.Fprintf(out, "  %s keeper %s: %s\n", color.RedString("✗"), cluster.Keeper, cluster.Error)
				continue
			}
			fmt.Fprintf(out, "  %s keeper %s absorbs %v (%d field(s))\n",
				color.GreenString("✓"), cluster.Keeper, cluster.Others, len(cluster.MergedFields))
		}
		if err != nil {
			return err
		}
		if result.Location != "" {
			fmt.Fprintf(out, "Report written to %s\n", result.Location)
		}
		if !apply && report.ClusterCount > 0 {
			fmt.Fprintln(out, "Run with --apply to merge")
		}
		return nil
	},
}

func init() {
	dedupeCmd.Flags().Bool("apply", false, "Merge clusters instead of only reporting them")
	dedupeCmd.Flags().Int("limit", 0, "Process at most N clusters (0 processes all)")
	rootCmd.AddCommand(dedupeCmd)
}
