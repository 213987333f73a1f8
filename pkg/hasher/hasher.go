package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/internal/fsops"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

// Algorithm 摘要算法
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	XXHash Algorithm = "xxhash"
)

// ParseAlgorithm 解析算法名称，空串表示默认的 sha256
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", SHA256:
		return SHA256, nil
	case XXHash:
		return XXHash, nil
	}
	return "", fmt.Errorf("不支持的哈希算法: %s", s)
}

// Hasher 以固定大小的分块流式计算文件摘要，内存占用与文件大小无关
type Hasher struct {
	fs        afero.Fs
	algorithm Algorithm
}

func New(fs afero.Fs, algorithm Algorithm) *Hasher {
	if algorithm == "" {
		algorithm = SHA256
	}
	return &Hasher{fs: fs, algorithm: algorithm}
}

func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// Hash 返回文件内容的十六进制摘要；失败时不返回任何部分结果
func (h *Hasher) Hash(filePath string) (string, error) {
	logger.Get().Trace().Msgf("计算文件哈希: %s", filePath)

	file, err := h.fs.Open(filePath)
	if err != nil {
		return "", fsops.Wrap("open", filePath, err)
	}
	defer file.Close()

	digest := h.newDigest()
	buf := make([]byte, internal.HashChunkSize)
	if _, err := io.CopyBuffer(onlyWriter{digest}, onlyReader{file}, buf); err != nil {
		return "", fsops.Wrap("read", filePath, err)
	}

	if h.algorithm == XXHash {
		return fmt.Sprintf("%016x", digest.(*xxhash.Digest).Sum64()), nil
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

func (h *Hasher) newDigest() hash.Hash {
	if h.algorithm == XXHash {
		return xxhash.New()
	}
	return sha256.New()
}

// 屏蔽 ReaderFrom/WriterTo，保证 CopyBuffer 按分块读取
type onlyReader struct{ io.Reader }

type onlyWriter struct{ io.Writer }
