package core

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/25smoking/lnkparse/internal/forensics"
	"go.uber.org/zap"
)

const reportPrefix = "lnkparse_report"

// SaveResults 导出结果到 dir，返回写入的文件
func SaveResults(results []Result, format, dir string) ([]string, error) {
	timestamp := time.Now().Format("20060102_150405")
	base := filepath.Join(dir, fmt.Sprintf("%s_%s", reportPrefix, timestamp))

	switch format {
	case "json":
		return []string{base + ".json"}, saveJSON(results, base+".json")
	case "csv", "excel": // Excel 也是用 CSV 格式兼容
		return []string{base + ".csv"}, saveCSV(results, base+".csv")
	default:
		// 默认两个都保存
		if err := saveJSON(results, base+".json"); err != nil {
			return nil, err
		}
		if err := saveCSV(results, base+".csv"); err != nil {
			return nil, err
		}
		return []string{base + ".json", base + ".csv"}, nil
	}
}

func saveJSON(results []Result, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func saveCSV(results []Result, filename string) error {
	return writeCSV(filename, []string{"Level", "Plugin", "Description", "Reference", "Advice"}, func(w *csv.Writer) error {
		for _, r := range results {
			if err := w.Write([]string{r.Level, r.Plugin, r.Description, r.Reference, r.Advice}); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveTimeline 按固定列顺序导出每个快捷方式的扁平记录
func SaveTimeline(artifacts []Artifact, filename string) error {
	return writeCSV(filename, forensics.NormalizedKeys, func(w *csv.Writer) error {
		for _, a := range artifacts {
			if err := w.Write(a.Link.Row()); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(filename string, header []string, rows func(*csv.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	// 写入 BOM 以防止 Excel 打开中文乱码
	if _, err := f.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func PrintResults(logger *zap.SugaredLogger, results []Result) {
	if len(results) == 0 {
		logger.Info("未发现可疑的快捷方式。")
		return
	}

	logger.Warnf("=== 分析完成，共发现 %d 个结果 ===", len(results))
	for _, res := range results {
		logger.Warnf("[%s] [%s] %s | %s", res.Plugin, res.Level, res.Description, res.Reference)
		if res.Advice != "" {
			logger.Infof("    -> 建议: %s", res.Advice)
		}
	}
}
