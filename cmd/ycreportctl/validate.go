package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"ycreport/internal/service/calculator"
	"ycreport/internal/service/project"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <专案档.json>",
		Short: "检查总表资料规则",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := project.ReadDocumentFile(args[0])
			if err != nil {
				return fmt.Errorf("读取专案档失败: %w", err)
			}
			warnings := calculator.ValidateRows(doc.MasterData)
			if len(warnings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "检查通过")
				return nil
			}
			for _, unit := range sortedUnits(warnings) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", unit, strings.Join(warnings[unit], "；"))
			}
			return fmt.Errorf("%d 个召会未通过检查", len(warnings))
		},
	}
}

func sortedUnits(warnings map[string][]string) []string {
	units := lo.Keys(warnings)
	slices.Sort(units)
	return units
}
