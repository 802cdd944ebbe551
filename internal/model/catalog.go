package model

// Collaborator data contracts. These lists are consumed as plain data by the
// proposal wizard; their lifecycle is owned by external systems.

// Client は提案先クライアント
type Client struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Company                string   `json:"company,omitempty"`
	DefaultDiscountPercent *float64 `json:"default_discount_percent,omitempty"`
	DefaultDiscountAmount  *float64 `json:"default_discount_amount,omitempty"`
}

// User は明細行に割り当て可能な担当者
type User struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Profile           Profile  `json:"profile,omitempty"`
	DefaultHourlyRate *float64 `json:"default_hourly_rate,omitempty"`
}

// Project is a client project a retainer can be scoped to.
type Project struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Status   string `json:"status"` // "active" | "completed" | "archived"
}

// Tag is a catalog label for proposals.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}
