package models

import (
	"time"
)

const (
	TicketStatusPending   = "pending"
	TicketStatusCompleted = "completed"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Product struct {
	ID          uint     `gorm:"primaryKey;autoIncrement"  json:"id"`
	Title       string   `gorm:"not null"                  json:"title"`
	Description string   `gorm:"not null"                  json:"description"`
	Code        string   `gorm:"uniqueIndex;not null"      json:"code"`
	Price       float64  `gorm:"not null"                  json:"price"`
	Stock       uint     `gorm:"not null;default:0"        json:"stock"`
	Category    string   `gorm:"index"                     json:"category"`
	Thumbnails  []string `gorm:"serializer:json"           json:"thumbnails"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string `gorm:"not null"                 json:"first_name"`
	LastName     string `gorm:"not null"                 json:"last_name"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	Age          uint   `json:"age"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
	CartID       uint   `gorm:"index"                    json:"cart_id"`
}

type Cart struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null"     json:"user_id"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	CartID    uint `gorm:"index;not null"              json:"cart_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

// Ticket is the append-only purchase record. Amount and the per-item unit
// prices are frozen at purchase time and never recomputed from live products.
type Ticket struct {
	ID               uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code             string       `gorm:"uniqueIndex;not null"     json:"code"`
	PurchaseDatetime time.Time    `gorm:"not null"                 json:"purchase_datetime"`
	Amount           float64      `gorm:"not null"                 json:"amount"`
	Purchaser        string       `gorm:"index;not null"           json:"purchaser"`
	Status           string       `gorm:"not null;default:pending" json:"status"`
	Items            []TicketItem `gorm:"foreignKey:TicketID"      json:"items"`
}

type TicketItem struct {
	ID        uint    `gorm:"primaryKey"                json:"id"`
	TicketID  uint    `gorm:"index;not null"            json:"ticket_id"`
	ProductID uint    `gorm:"not null"                  json:"product_id"`
	Quantity  uint    `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice float64 `gorm:"not null"                  json:"unit_price"`
}

type RecoveryToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	UserID    uint      `gorm:"index;not null"       json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Used      bool      `gorm:"default:false"        json:"used"`
}

// Valid reports whether the token can still authorize a password reset.
func (t *RecoveryToken) Valid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
