package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// writeRecords 按 --output 格式写出；yaml 使用多文档分隔
func writeRecords[T any](w io.Writer, format string, records []T) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if len(records) == 1 {
			return enc.Encode(records[0])
		}
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
