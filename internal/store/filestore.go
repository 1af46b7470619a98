// Package store はアイデアコレクションと添付ファイルのディスク永続化を提供する。
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hitoshi/ideaboard/internal/model"
)

// ideasFileName はコレクションを保持するJSONドキュメントのファイル名。
const ideasFileName = "ideas.json"

// uploadsDirName はアップロードファイルを保持するサブディレクトリ名。
const uploadsDirName = "uploads"

// FileStore はアイデアコレクション全体を1つのJSONドキュメントとして読み書きする。
// ディスク上のドキュメントが唯一の共有状態であり、リクエストをまたいで
// メモリ上にコレクションを保持しない。
type FileStore struct {
	dataDir string
}

// NewFileStore はFileStoreを生成する。
// dataDirはデータディレクトリのパス（例: "data"）。
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

// IdeasFilePath はJSONドキュメントのフルパスを返す。
func (s *FileStore) IdeasFilePath() string {
	return filepath.Join(s.dataDir, ideasFileName)
}

// UploadsDir はアップロードディレクトリのフルパスを返す。
func (s *FileStore) UploadsDir() string {
	return filepath.Join(s.dataDir, uploadsDirName)
}

// EnsureReady はデータディレクトリとアップロードディレクトリの存在を保証する。
// 作成に失敗した場合（権限不足など）はストレージ障害としてエラーを返す。
func (s *FileStore) EnsureReady() error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(s.UploadsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return nil
}

// LoadAll は永続化されたドキュメントを読み込んでデコードする。
// ドキュメントが存在しない、読めない、または不正な内容の場合は
// エラーではなく空のコレクションを返す。ストアが無い状態は
// 「まだアイデアが無い」と等価として扱うポリシーによる。
func (s *FileStore) LoadAll() []model.Idea {
	data, err := os.ReadFile(s.IdeasFilePath())
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read ideas file, treating as empty",
				slog.String("error", err.Error()),
			)
		}
		return []model.Idea{}
	}

	var ideas []model.Idea
	if err := json.Unmarshal(data, &ideas); err != nil {
		slog.Warn("failed to decode ideas file, treating as empty",
			slog.String("error", err.Error()),
		)
		return []model.Idea{}
	}
	if ideas == nil {
		return []model.Idea{}
	}
	return ideas
}

// SaveAll はコレクション全体をシリアライズしてドキュメントを上書きする。
// 一時ファイルへ書き込んでからリネームするため、後続のLoadAllが
// 書き込み途中の状態を観測することはない。
// 可読性のためインデント付きでエンコードする。
func (s *FileStore) SaveAll(ideas []model.Idea) error {
	if ideas == nil {
		ideas = []model.Idea{}
	}

	data, err := json.MarshalIndent(ideas, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ideas: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, ideasFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write ideas: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.IdeasFilePath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace ideas file: %w", err)
	}
	return nil
}

// SaveUpload はアップロードされたファイル本体をアップロードディレクトリに保存する。
// filenameは呼び出し側で衝突しないよう生成されたものを渡す。
func (s *FileStore) SaveUpload(filename string, content io.Reader) error {
	// パス区切りを含むファイル名はディレクトリ外への書き込みになるため拒否する
	if filename != filepath.Base(filename) {
		return fmt.Errorf("invalid upload filename: %q", filename)
	}

	f, err := os.Create(filepath.Join(s.UploadsDir(), filename))
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close upload file: %w", err)
	}
	return nil
}
