package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ycreport/internal/model"
	"ycreport/internal/service/calculator"
	"ycreport/internal/service/project"
)

func newMergeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "merge <专案档.json> <专案档.json>...",
		Short: "合并多个专案档",
		Long: `依序合并专案档：总表按栏位策略合并（目标取大、平均取后者、人数相加），
原始记录串接后重新计算。标题取第一个专案档。`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := loadEngine()
			if err != nil {
				return err
			}

			docs := make([]model.ProjectDocument, 0, len(args))
			for _, path := range args {
				doc, err := project.ReadDocumentFile(path)
				if err != nil {
					return fmt.Errorf("读取 %s 失败: %w", path, err)
				}
				docs = append(docs, doc)
			}

			merged := mergeDocuments(engine, docs)
			if err := project.WriteDocumentFile(output, merged); err != nil {
				return fmt.Errorf("写出专案档失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已合并 %d 个专案档到 %s\n", len(docs), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "merged.json", "输出专案档路径")
	return cmd
}

func mergeDocuments(engine *calculator.Engine, docs []model.ProjectDocument) model.ProjectDocument {
	out := model.ProjectDocument{
		Title:     docs[0].Title,
		RawData:   []model.RawRecord{},
		Timestamp: time.Now().UTC(),
		Version:   model.DocumentVersion,
	}
	var rows []model.ConsolidatedRow
	for i, doc := range docs {
		out.RawData = append(out.RawData, doc.RawData...)
		if i == 0 {
			rows = engine.Consolidate(doc.RawData, doc.MasterData)
			continue
		}
		rows = engine.MergeRowSets(rows, doc.MasterData)
	}
	out.MasterData = engine.Consolidate(out.RawData, rows)
	return out
}
