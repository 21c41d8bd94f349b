package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/25smoking/lnkparse/internal/core"
	"github.com/25smoking/lnkparse/internal/forensics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 超过该大小的非 .lnk 文件不做内容识别
const maxProbeSize = 16 << 20

// Failure 单个文件解码失败，不影响其他文件
type Failure struct {
	Path string
	Err  error
}

// Scanner 遍历目录，按内容识别快捷方式并并发解码
type Scanner struct {
	decoder *forensics.Decoder
	workers int
	log     *zap.Logger
	exclude map[string]bool
}

func New(decoder *forensics.Decoder, workers int, log *zap.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{
		decoder: decoder,
		workers: workers,
		log:     log,
		// 排除目录，避免死循环或扫描无用文件
		exclude: map[string]bool{"/proc": true, "/sys": true, "/dev": true, "/run": true},
	}
}

// Scan 返回按路径排序的解码结果；只有 context 取消才会返回错误
func (s *Scanner) Scan(ctx context.Context, roots []string) ([]core.Artifact, []Failure, error) {
	var (
		mu        sync.Mutex
		artifacts []core.Artifact
		failures  []Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if err != nil {
				s.log.Debug("walk error", zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				if s.exclude[path] {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !s.candidate(path, d) {
				return nil
			}

			// 发送任务
			g.Go(func() error {
				lnk, err := s.decoder.DecodeFile(path)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures = append(failures, Failure{Path: path, Err: err})
					return nil
				}
				artifacts = append(artifacts, core.Artifact{Path: path, Link: lnk})
				return nil
			})
			return nil
		})
		if err != nil && ctx.Err() == nil && gctx.Err() == nil {
			s.log.Warn("walk aborted", zap.String("root", root), zap.Error(err))
		}
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Path < artifacts[j].Path })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
	return artifacts, failures, nil
}

// candidate .lnk 后缀直接入选，其余文件按头部内容识别
func (s *Scanner) candidate(path string, d fs.DirEntry) bool {
	if strings.EqualFold(filepath.Ext(path), ".lnk") {
		return true
	}
	info, err := d.Info()
	if err != nil || info.Size() > maxProbeSize {
		return false
	}
	ok, err := forensics.IsShellLinkFile(path)
	if err != nil {
		s.log.Debug("probe failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return ok
}
