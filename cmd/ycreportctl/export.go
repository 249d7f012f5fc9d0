package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ycreport/internal/exporter"
	"ycreport/internal/model"
	"ycreport/internal/service/calculator"
	"ycreport/internal/service/project"
)

func newExportCmd() *cobra.Command {
	var (
		output     string
		template   string
		includeRaw bool
	)
	cmd := &cobra.Command{
		Use:   "export <专案档.json>",
		Short: "将专案档导出为 Excel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := loadEngine()
			if err != nil {
				return err
			}
			doc, err := project.ReadDocumentFile(args[0])
			if err != nil {
				return fmt.Errorf("读取专案档失败: %w", err)
			}
			if template == "" {
				template = cfg.Report.TemplatePath
			}

			f, err := exporter.NewExporter(template).Export(doc, monthlyOf(engine, doc), exporter.ExportOptions{
				Title:      doc.Title,
				IncludeRaw: includeRaw,
			})
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.SaveAs(output); err != nil {
				return fmt.Errorf("写出 %s 失败: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出 %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "report.xlsx", "输出 Excel 路径")
	cmd.Flags().StringVar(&template, "template", "", "导出模板 (预设取配置)")
	cmd.Flags().BoolVar(&includeRaw, "raw", false, "附上原始资料工作表")
	return cmd
}

// monthlyOf 只有旧版总表时由总表反推月报表
func monthlyOf(engine *calculator.Engine, doc model.ProjectDocument) []model.MonthlyMetricRow {
	if len(doc.RawData) == 0 && len(doc.MasterData) > 0 {
		return engine.MonthlyFromConsolidated(doc.MasterData)
	}
	return engine.Monthly(doc.RawData)
}
