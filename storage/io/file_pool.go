package io

import (
	"context"
	stdio "io"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
)

// FilePool 管理只读文件句柄的复用，按 fileID 做范围读取
type FilePool struct {
	mu       sync.Mutex
	handles  map[string]*fileEntry
	openFile func(string) (*os.File, error)
	logger   log.Logger
}

type fileEntry struct {
	file     *os.File
	size     int64
	refCount int
	path     string
}

// NewFilePool 创建一个新的文件句柄池
func NewFilePool(logger log.Logger) *FilePool {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &FilePool{
		handles:  make(map[string]*fileEntry),
		openFile: os.Open,
		logger:   logger,
	}
}

// Register 注册一个文件到池中。同一 fileID 重复注册相同路径是幂等的
func (p *FilePool) Register(fileID string, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, exists := p.handles[fileID]; exists {
		if entry.path != path {
			return lerrors.New(lerrors.ErrInvalidArgument).
				Op("register_file").
				Context("file_id", fileID).
				Context("existing", entry.path).
				Context("new", path).
				Build()
		}
		return nil
	}

	file, err := p.openFile(path)
	if err != nil {
		return lerrors.IO("open_file", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return lerrors.IO("stat_file", path, err)
	}

	p.handles[fileID] = &fileEntry{file: file, size: info.Size(), path: path}
	level.Debug(p.logger).Log("msg", "file registered", "file_id", fileID, "path", path, "size", info.Size())
	return nil
}

// acquire 获取文件句柄，引用计数 +1
func (p *FilePool) acquire(fileID string) (*fileEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, exists := p.handles[fileID]
	if !exists {
		return nil, lerrors.InvalidArg("acquire_file", "file not registered: "+fileID)
	}
	entry.refCount++
	return entry, nil
}

// release 引用计数 -1，不关闭文件
func (p *FilePool) release(fileID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// 防止引用计数递减为负
	if entry, exists := p.handles[fileID]; exists && entry.refCount > 0 {
		entry.refCount--
	}
}

// ReadRange reads exactly length bytes at offset. A range past the end of
// the file is ErrCorruptedFile; a failed read is an ErrIO error.
func (p *FilePool) ReadRange(ctx context.Context, fileID string, offset, length int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 {
		return nil, lerrors.New(lerrors.ErrInvalidArgument).
			Op("read_range").
			Offset(offset).
			Context("length", length).
			Build()
	}

	entry, err := p.acquire(fileID)
	if err != nil {
		return nil, err
	}
	defer p.release(fileID)

	if offset+length > entry.size {
		return nil, lerrors.New(lerrors.ErrCorruptedFile).
			Op("read_range").
			Stream(entry.path).
			Offset(offset).
			Context("length", length).
			Context("file_size", entry.size).
			Build()
	}

	buf := make([]byte, length)
	if _, err := entry.file.ReadAt(buf, offset); err != nil && !(err == stdio.EOF && offset+length == entry.size) {
		return nil, lerrors.IO("read_range", entry.path, err)
	}
	return buf, nil
}

// GetRefCount 获取文件的当前引用计数（用于测试和调试）
func (p *FilePool) GetRefCount(fileID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, exists := p.handles[fileID]
	if !exists {
		return -1
	}
	return entry.refCount
}

// Close 关闭所有文件句柄。仍被引用的文件会记录 warn 日志
func (p *FilePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for fileID, entry := range p.handles {
		if entry.refCount > 0 {
			level.Warn(p.logger).Log("msg", "closing file with live references", "file_id", fileID, "refs", entry.refCount)
		}
		if err := entry.file.Close(); err != nil && firstErr == nil {
			firstErr = lerrors.IO("close_file", entry.path, err)
		}
	}
	p.handles = make(map[string]*fileEntry)
	return firstErr
}

// Stats 返回文件池统计信息
func (p *FilePool) Stats() FilePoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	totalRefs := 0
	for _, entry := range p.handles {
		totalRefs += entry.refCount
	}
	return FilePoolStats{
		TotalFiles:      len(p.handles),
		TotalReferences: totalRefs,
	}
}

type FilePoolStats struct {
	TotalFiles      int
	TotalReferences int
}
