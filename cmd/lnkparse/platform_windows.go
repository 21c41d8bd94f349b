//go:build windows

package main

import (
	"os"
	"path/filepath"
)

func osName() string { return "windows" }

// defaultRoots 当前用户的 Recent、桌面与开始菜单
func defaultRoots() []string {
	var roots []string
	if appData := os.Getenv("APPDATA"); appData != "" {
		roots = append(roots,
			filepath.Join(appData, `Microsoft\Windows\Recent`),
			filepath.Join(appData, `Microsoft\Windows\Start Menu`),
			filepath.Join(appData, `Microsoft\Office\Recent`),
		)
	}
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		roots = append(roots, filepath.Join(profile, "Desktop"))
	}
	if programData := os.Getenv("ProgramData"); programData != "" {
		roots = append(roots, filepath.Join(programData, `Microsoft\Windows\Start Menu`))
	}
	return existing(roots)
}
