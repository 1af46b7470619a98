package idea

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/ideaboard/internal/metrics"
	"github.com/hitoshi/ideaboard/internal/model"
)

// Store はコレクションと添付ファイルの永続化インターフェース。
type Store interface {
	// LoadAll は永続化されたコレクションを返す。
	// ドキュメントが無い・壊れている場合は空のコレクションを返す。
	LoadAll() []model.Idea
	// SaveAll はコレクション全体を上書き保存する。
	SaveAll(ideas []model.Idea) error
	// SaveUpload はアップロードファイル本体を保存する。
	SaveUpload(filename string, content io.Reader) error
}

// Service はアイデアコレクションに対する操作のサービス。
//
// すべての変更操作は load → mutate → save のサイクルで実行され、
// 単一のミューテックスで直列化される。並行する2つの投票が互いの
// 書き込みを上書きして片方が消失するlost-updateは発生しない。
// ディスク上のドキュメントが唯一の共有状態であり、リクエストを
// またいでメモリ上にコレクションを保持しない。
type Service struct {
	store Store
	rec   metrics.Recorder

	// mu はload-mutate-saveサイクル全体を排他する。
	mu sync.Mutex

	// now はID・タイムスタンプ生成用の時刻源。テストで差し替える。
	now func() time.Time
}

// NewService はServiceを生成する。
// recがnilの場合はメトリクスを記録しない。
func NewService(store Store, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Service{
		store: store,
		rec:   rec,
		now:   time.Now,
	}
}

// ListIdeas は全アイデアを投票数の降順で返す。
// 同数のアイデアは作成順（元の格納順）を保つ。
func (s *Service) ListIdeas(ctx context.Context) ([]model.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SortedByVotes(s.store.LoadAll()), nil
}

// CreateIdea は新しいアイデアを作成して永続化する。
// タイトルはトリム後に空の場合バリデーションエラーとなり、何も永続化しない。
func (s *Service) CreateIdea(ctx context.Context, title, description string) (*model.Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, model.NewTitleRequiredError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ideas := s.store.LoadAll()
	now := s.now()

	newIdea := model.Idea{
		ID:          NextID(ideas, now),
		Title:       title,
		Description: strings.TrimSpace(description),
		Votes:       0,
		Notes:       "",
		Files:       []string{},
		CreatedAt:   now.UTC().Format(time.RFC3339),
	}

	ideas = append(ideas, newIdea)
	if err := s.saveAll(ideas); err != nil {
		return nil, model.NewStorageError("Failed to create idea")
	}

	s.rec.RecordIdeaCreated()
	return &newIdea, nil
}

// Vote は指定IDのアイデアの投票数を1増やして永続化する。
// IDが存在しない場合はNotFoundエラーとなり、何も永続化しない。
func (s *Service) Vote(ctx context.Context, id string) (*model.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ideas := s.store.LoadAll()
	idx := FindIndexByID(ideas, id)
	if idx == -1 {
		return nil, model.NewIdeaNotFoundError()
	}

	ideas[idx].Votes++
	if err := s.saveAll(ideas); err != nil {
		return nil, model.NewStorageError("Failed to vote")
	}

	s.rec.RecordVoteCast()
	updated := ideas[idx]
	return &updated, nil
}

// UpdateNotes は指定IDのアイデアのメモを全置換して永続化する。
// 追記ではなく常に置換であり、空の入力は空文字列へ正規化される。
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*model.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ideas := s.store.LoadAll()
	idx := FindIndexByID(ideas, id)
	if idx == -1 {
		return nil, model.NewIdeaNotFoundError()
	}

	ideas[idx].Notes = notes
	if err := s.saveAll(ideas); err != nil {
		return nil, model.NewStorageError("Failed to update notes")
	}

	s.rec.RecordNotesUpdated()
	updated := ideas[idx]
	return &updated, nil
}

// AttachFile はアップロードファイルを保存し、指定IDのアイデアに
// ファイル名参照を追記して永続化する。
// 保存ファイル名は衝突回避のため {Unixミリ秒}-{元のファイル名} とする。
// IDが存在しない場合はファイル本体も保存しない。
func (s *Service) AttachFile(ctx context.Context, id, originalName string, content io.Reader) (*model.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ideas := s.store.LoadAll()
	idx := FindIndexByID(ideas, id)
	if idx == -1 {
		return nil, model.NewIdeaNotFoundError()
	}

	filename := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizeFilename(originalName))
	if err := s.store.SaveUpload(filename, content); err != nil {
		slog.Error("failed to save upload",
			slog.String("idea_id", id),
			slog.String("error", err.Error()),
		)
		return nil, model.NewStorageError("Failed to upload file")
	}

	ideas[idx].Files = append(ideas[idx].Files, filename)
	if err := s.saveAll(ideas); err != nil {
		return nil, model.NewStorageError("Failed to upload file")
	}

	s.rec.RecordFileUploaded()
	updated := ideas[idx]
	return &updated, nil
}

// saveAll はコレクションを保存し、レイテンシと失敗をメトリクスに記録する。
// 保存失敗の詳細はログにのみ残し、呼び出し側には汎用エラーを返させる。
func (s *Service) saveAll(ideas []model.Idea) error {
	start := time.Now()
	err := s.store.SaveAll(ideas)
	s.rec.RecordSaveLatency(time.Since(start))

	if err != nil {
		s.rec.RecordStoreSaveFailure()
		slog.Error("failed to save ideas", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// sanitizeFilename は元のファイル名からパス要素を取り除く。
// クライアント由来の名前をそのまま結合するとアップロード
// ディレクトリ外への書き込みになり得るため、ベース名のみ残す。
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}
	return base
}
