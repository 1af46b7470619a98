// Package model はドメインモデルを定義する。
package model

// Idea はユーザーが投稿したアイデアを表す唯一のエンティティ。
// コレクション全体が1つのJSONドキュメントとして永続化されるため、
// フィールドのJSONタグはそのままディスク上のスキーマとなる。
type Idea struct {
	// ID は作成時に採番される一意な識別子。時刻由来で単調増加する。再割り当てされない。
	ID string `json:"id"`
	// Title は必須。前後の空白をトリムした結果が空であってはならない。
	Title string `json:"title"`
	// Description は任意。未指定の場合は空文字列。
	Description string `json:"description"`
	// Votes は投票数。0から始まり、1回の投票操作で必ず1ずつ増える。
	Votes int `json:"votes"`
	// Notes は自由記述のメモ。更新時は追記ではなく全置換される。
	Notes string `json:"notes"`
	// Files はアップロードされた添付ファイル名の列。挿入順＝アップロード順。
	// nilではなく空スライスで初期化し、JSONではnullではなく[]として出力する。
	Files []string `json:"files"`
	// CreatedAt は作成時刻のISO 8601（RFC3339）文字列。作成後は不変。
	CreatedAt string `json:"createdAt"`
}
