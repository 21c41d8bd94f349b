package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var linkCLSID = []byte{0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}

// minimalLink 仅有头部、带一个 ANSI 参数字符串的快捷方式
func minimalLink(args string) []byte {
	h := make([]byte, 0x4C)
	binary.LittleEndian.PutUint32(h[0:], 0x4C)
	copy(h[4:20], linkCLSID)
	binary.LittleEndian.PutUint32(h[0x14:], 0x20) // HasArguments
	binary.LittleEndian.PutUint32(h[0x3C:], 1)
	s := make([]byte, 2)
	binary.LittleEndian.PutUint16(s, uint16(len(args)))
	out := append(h, s...)
	out = append(out, args...)
	return append(out, 0, 0, 0, 0)
}

func writeLink(t *testing.T, dir, name, args string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, minimalLink(args), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseJSON(t *testing.T) {
	path := writeLink(t, t.TempDir(), "a.lnk", "-nop -w hidden")

	out, err := run(t, "parse", path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Contains(t, rec, "shell_link_header")
	require.Contains(t, rec, "lnk_file_metadata")
	args := rec["command_line_arguments"].(map[string]any)
	require.Equal(t, "-nop -w hidden", args["value"])
}

func TestParseNormalizeYAML(t *testing.T) {
	path := writeLink(t, t.TempDir(), "a.lnk", "x")

	out, err := run(t, "parse", "--normalize", "-o", "yaml", path)
	require.NoError(t, err)
	require.Contains(t, out, "target_full_path:")
	require.Contains(t, out, "lnk_full_path:")
	require.Contains(t, out, "target_hostname:")
}

func TestParseFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeLink(t, dir, "good.lnk", "x")
	bad := filepath.Join(dir, "bad.lnk")
	require.NoError(t, os.WriteFile(bad, []byte("not a shortcut"), 0o644))

	out, err := run(t, "parse", good, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 files failed")
	require.Contains(t, out, "shell_link_header", "成功的文件仍然输出")
}

func TestRejectsUnknownOutput(t *testing.T) {
	path := writeLink(t, t.TempDir(), "a.lnk", "x")
	_, err := run(t, "parse", "-o", "xml", path)
	require.Error(t, err)
}

func TestScanWritesReports(t *testing.T) {
	src := t.TempDir()
	writeLink(t, src, "invoice.pdf.lnk", "/c powershell -enc SQBFAFgA")
	writeLink(t, src, "renamed.dat", "x")
	reports := t.TempDir()

	out, err := run(t, "scan", "--report-dir", reports, src)
	require.NoError(t, err)
	require.Contains(t, out, "invoice.pdf.lnk")
	require.Contains(t, out, "renamed.dat")

	entries, err := os.ReadDir(reports)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, " ")
	require.Contains(t, joined, "lnkparse_timeline_")
	require.Contains(t, joined, ".html")
	require.Contains(t, joined, ".json")
	require.Contains(t, joined, ".csv")
}

func TestGraphToStdout(t *testing.T) {
	src := t.TempDir()
	writeLink(t, src, "a.lnk", "x")

	out, err := run(t, "graph", "--dot", "-", src)
	require.NoError(t, err)
	require.Contains(t, out, "digraph LinkGraph {")
	require.Contains(t, out, "a.lnk")
}
