// Package idea はアイデアコレクションに対する操作を提供する。
package idea

import (
	"sort"
	"strconv"
	"time"

	"github.com/hitoshi/ideaboard/internal/model"
)

// FindIndexByID は指定IDのアイデアの位置を線形探索で返す。
// 見つからない場合は-1を返す。
func FindIndexByID(ideas []model.Idea, id string) int {
	for i := range ideas {
		if ideas[i].ID == id {
			return i
		}
	}
	return -1
}

// NextID は新規アイデアのIDを採番する。
// 現在時刻のUnixミリ秒を基準とするが、既存の数値IDの最大値以下に
// なる場合は最大値+1へ繰り上げる。これによりIDはコレクション内で
// 一意かつ作成順に単調増加することが保証される。
func NextID(ideas []model.Idea, now time.Time) string {
	candidate := now.UnixMilli()

	var maxExisting int64
	for i := range ideas {
		if n, err := strconv.ParseInt(ideas[i].ID, 10, 64); err == nil && n > maxExisting {
			maxExisting = n
		}
	}
	if candidate <= maxExisting {
		candidate = maxExisting + 1
	}

	return strconv.FormatInt(candidate, 10)
}

// SortedByVotes は投票数の降順に並べたコピーを返す。
// 同数の場合は元の相対順序を保つ（安定ソート）。
// 表示用であり、この順序で永続化してはならない。
func SortedByVotes(ideas []model.Idea) []model.Idea {
	sorted := make([]model.Idea, len(ideas))
	copy(sorted, ideas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})
	return sorted
}
