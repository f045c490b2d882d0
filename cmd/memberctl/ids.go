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
	idProvider "github.com/pjdagdal/member-data-service/internal/membership_ids/provider"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/spf13/cobra"
)

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "Membership id assignment commands",
	Long:  `Commands for numbering members with yearly (M-<year>-<seq>) or global membership ids.`,
}

var idsPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the ids a fill assignment would give",
	Long: `List the members of a year that have no membership id and the ids an apply in fill
mode would give them. Nothing is written and no counter is consumed.

Examples:
  memberctl ids preview --year 2024`,
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")

		ctx, _, stores, closeStores, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer closeStores()

		idService := idProvider.NewMembershipIdProvider(stores).GetMembershipIdService()
		preview, err := idService.PreviewAssignments(ctx, year)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.YellowString("PREVIEW - No ids will be assigned"))
		fmt.Fprintf(out, "%d member(s) would be numbered starting at %d\n", len(preview.Assignments), preview.StartingSeq)
		return printJSON(out, preview.Assignments)
	},
}

var idsApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Assign yearly membership ids",
	Long: `Assign M-<year>-<seq> ids to the members of a year.

Modes:
  fill      number only members without a membership id (default)
  reassign  renumber every member of the year

Examples:
  memberctl ids apply --year 2024
  memberctl ids apply --year 2024 --mode reassign`,
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		mode, _ := cmd.Flags().GetString("mode")

		ctx, _, stores, closeStores, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer closeStores()

		idService := idProvider.NewMembershipIdProvider(stores).GetMembershipIdService()
		result, err := idService.ApplyAssignments(ctx, year, mode)
		out := cmd.OutOrStdout()
		if result != nil {
			fmt.Fprintf(out, "%s Assigned %d membership id(s) for %d (%s)\n",
				color.GreenString("✓"), result.AppliedCount, result.Year, result.Mode)
			if printErr := printJSON(out, result.Applied); printErr != nil {
				return printErr
			}
		}
		return err
	},
}

var idsBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Give a global membership id to members lacking one",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, stores, closeStores, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer closeStores()

		idService := idProvider.NewMembershipIdProvider(stores).GetMembershipIdService()
		assigned, err := idService.BackfillMembershipIds(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "%s Backfilled %d membership id(s)\n", color.GreenString("✓"), assigned)
		return err
	},
}

func init() {
	idsPreviewCmd.Flags().Int("year", 0, "Year to number")
	_ = idsPreviewCmd.MarkFlagRequired("year")

	idsApplyCmd.Flags().Int("year", 0, "Year to number")
	idsApplyCmd.Flags().String("mode", constants.AssignmentModeFill, "Assignment mode: fill or reassign")
	_ = idsApplyCmd.MarkFlagRequired("year")

	idsCmd.AddCommand(idsPreviewCmd, idsApplyCmd, idsBackfillCmd)
	rootCmd.AddCommand(idsCmd)
}
