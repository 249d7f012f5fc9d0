package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ycreport/internal/model"
	"ycreport/internal/parser"
	"ycreport/internal/service/calculator"
	"ycreport/internal/service/project"
)

func newBuildCmd() *cobra.Command {
	var (
		output string
		title  string
	)
	cmd := &cobra.Command{
		Use:   "build <报表.xlsx|记录.json>...",
		Short: "由报表建立专案档",
		Long: `读取一个或多个报表（平面工作簿或 JSON 记录数组），计算总表并写出专案档。
JSON 记录中已处理过的总表列会以旧版资料併入。`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := loadEngine()
			if err != nil {
				return err
			}
			if title == "" {
				title = cfg.Report.Title
			}

			raw, legacy, err := readInputs(args)
			if err != nil {
				return err
			}
			doc := buildDocument(engine, title, raw, legacy)
			if err := project.WriteDocumentFile(output, doc); err != nil {
				return fmt.Errorf("写出专案档失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已写出 %s：原始记录 %d 笔，旧版总表 %d 列\n", output, len(raw), len(legacy))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "project.json", "输出专案档路径")
	cmd.Flags().StringVar(&title, "title", "", "报表标题 (预设取配置)")
	return cmd
}

// readInputs 依副档名解析输入文件
func readInputs(paths []string) ([]model.RawRecord, []model.ConsolidatedRow, error) {
	var (
		raw    []model.RawRecord
		legacy []model.ConsolidatedRow
	)
	for _, path := range paths {
		name := filepath.Base(path)
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			f, err := os.Open(path)
			if err != nil {
				return nil, nil, err
			}
			recs, _, err := parser.ReadWorkbook(f, name)
			_ = f.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", name, err)
			}
			raw = append(raw, recs...)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		records, err := parser.DecodeRecords(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		r, l := parser.SplitRecords(records)
		raw = append(raw, parser.TagSource(r, name)...)
		legacy = append(legacy, l...)
	}
	return raw, legacy, nil
}

func buildDocument(engine *calculator.Engine, title string, raw []model.RawRecord, legacy []model.ConsolidatedRow) model.ProjectDocument {
	var base []model.ConsolidatedRow
	if len(legacy) > 0 {
		base = engine.Reconcile(engine.Skeleton(), legacy)
	}
	if raw == nil {
		raw = []model.RawRecord{}
	}
	return model.ProjectDocument{
		Title:      title,
		MasterData: engine.Consolidate(raw, base),
		RawData:    raw,
		Timestamp:  time.Now().UTC(),
		Version:    model.DocumentVersion,
	}
}
