// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/ideaboard/internal/model"
)

// IdeaServiceInterface はアイデアハンドラーが必要とするサービスインターフェース。
type IdeaServiceInterface interface {
	// ListIdeas は全アイデアを投票数の降順で返す。
	ListIdeas(ctx context.Context) ([]model.Idea, error)
	// CreateIdea は新しいアイデアを作成する。
	CreateIdea(ctx context.Context, title, description string) (*model.Idea, error)
	// Vote は指定IDのアイデアの投票数を1増やす。
	Vote(ctx context.Context, id string) (*model.Idea, error)
	// UpdateNotes は指定IDのアイデアのメモを全置換する。
	UpdateNotes(ctx context.Context, id, notes string) (*model.Idea, error)
	// AttachFile はアップロードファイルを保存し、アイデアに参照を追記する。
	AttachFile(ctx context.Context, id, originalName string, content io.Reader) (*model.Idea, error)
}

// IdeaHandler はアイデア管理のHTTPハンドラー。
type IdeaHandler struct {
	service       IdeaServiceInterface
	uploadMaxSize int64
}

// NewIdeaHandler はIdeaHandlerを生成する。
// uploadMaxSizeはmultipartフォーム解析時の最大メモリサイズ（バイト）。
func NewIdeaHandler(service IdeaServiceInterface, uploadMaxSize int64) *IdeaHandler {
	return &IdeaHandler{
		service:       service,
		uploadMaxSize: uploadMaxSize,
	}
}

// --- リクエスト・レスポンス型 ---

// createIdeaRequest はアイデア作成リクエストのボディ。
type createIdeaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateNotesRequest はメモ更新リクエストのボディ。
// notesが未指定（null）の場合は空文字列へ正規化する。
type updateNotesRequest struct {
	Notes *string `json:"notes"`
}

// ideaListResponse はアイデア一覧のレスポンス。
type ideaListResponse struct {
	Ideas []model.Idea `json:"ideas"`
}

// ideaResponse は単一アイデアのレスポンス。
type ideaResponse struct {
	Idea *model.Idea `json:"idea"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Error string `json:"error"`
}

// ListIdeas はアイデア一覧を取得する。
// GET /ideas
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.service.ListIdeas(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ideaListResponse{Ideas: ideas})
}

// CreateIdea はアイデアを作成する。
// POST /ideas
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	var req createIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "Invalid request body",
			Category: "validation",
		})
		return
	}

	idea, err := h.service.CreateIdea(r.Context(), req.Title, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ideaResponse{Idea: idea})
}

// Vote はアイデアに投票する。
// POST /ideas/:id/vote
func (h *IdeaHandler) Vote(w http.ResponseWriter, r *http.Request) {
	ideaID := chi.URLParam(r, "id")

	idea, err := h.service.Vote(r.Context(), ideaID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ideaResponse{Idea: idea})
}

// UpdateNotes はアイデアのメモを更新する。
// PUT /ideas/:id/notes
func (h *IdeaHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	ideaID := chi.URLParam(r, "id")

	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "Invalid request body",
			Category: "validation",
		})
		return
	}

	// notes未指定は空文字列として扱う（nullは保存しない）
	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	idea, err := h.service.UpdateNotes(r.Context(), ideaID, notes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ideaResponse{Idea: idea})
}

// UploadFile はアイデアにファイルを添付する。
// POST /ideas/:id/files （multipartフォームのfileフィールド）
func (h *IdeaHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	ideaID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(h.uploadMaxSize); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewFileRequiredError())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewFileRequiredError())
		return
	}
	defer file.Close()

	idea, err := h.service.AttachFile(r.Context(), ideaID, header.Filename, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ideaResponse{Idea: idea})
}

// --- ヘルパー関数 ---

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Error: apiErr.Message,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "Internal server error",
		Category: "system",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeTitleRequired:
		return http.StatusBadRequest
	case model.ErrCodeFileRequired:
		return http.StatusBadRequest
	case model.ErrCodeIdeaNotFound:
		return http.StatusNotFound
	case model.ErrCodeStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
