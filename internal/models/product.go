package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Price        float64   `json:"price"`
	MinimumOrder Count     `json:"minimumOrder"`
	Quantity     Count     `json:"quantity"`
	Sold         Count     `json:"sold"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Review struct {
	ID         uuid.UUID `json:"_id"`
	Name       string    `json:"name"`
	EmailOrUID string    `json:"emailOrUid"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Order struct {
	ID            uuid.UUID `json:"_id"`
	EmailOrUID    string    `json:"emailOrUid"`
	ProductID     uuid.UUID `json:"productId"`
	ProductName   string    `json:"productName"`
	Quantity      Count     `json:"quantity"`
	Price         float64   `json:"price"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Paid          bool      `json:"paid"`
	TransactionID string    `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

const RoleAdmin = "admin"

type User struct {
	EmailOrUID string    `json:"emailOrUid"`
	Name       string    `json:"name,omitempty"`
	Role       string    `json:"role,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
