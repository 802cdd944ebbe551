package model

import "time"

// Milestone は支払いマイルストーン。ID は保存前はクライアント側で採番した
// 一時 UUID、保存後はサーバーの正規 ID（更新マッチングに使用）。
type Milestone struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Percent     *float64   `json:"percent,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}
