package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Name         string    `gorm:"not null"         json:"name"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Role         string    `gorm:"not null;default:customer" json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null"   json:"name"`
	Description string    `json:"description"`
	Category    string    `gorm:"index"      json:"category"`
	Brand       string    `json:"brand"`
	Price       float64   `gorm:"not null"   json:"price"`
	Stock       int       `gorm:"default:0"  json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                             json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"             json:"quantity"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID        uuid.UUID   `gorm:"primaryKey"     json:"id"`
	UserID    uuid.UUID   `gorm:"index;not null" json:"user_id"`
	Status    string      `gorm:"not null;default:pending" json:"status"`
	Total     float64     `gorm:"not null"       json:"total"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"not null"       json:"product_id"`
	Quantity  int       `gorm:"not null"       json:"quantity"`
	Price     float64   `gorm:"not null"       json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Appointment struct {
	ID          uuid.UUID `gorm:"primaryKey"     json:"id"`
	UserID      uuid.UUID `gorm:"index;not null" json:"user_id"`
	Service     string    `gorm:"not null"       json:"service"`
	DeviceInfo  string    `json:"device_info"`
	Notes       string    `json:"notes"`
	Status      string    `gorm:"not null;default:scheduled" json:"status"`
	ScheduledAt time.Time `gorm:"index;not null" json:"scheduled_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Ticket struct {
	ID          uuid.UUID `gorm:"primaryKey"     json:"id"`
	UserID      uuid.UUID `gorm:"index;not null" json:"user_id"`
	Subject     string    `gorm:"not null"       json:"subject"`
	Description string    `json:"description"`
	Priority    string    `gorm:"not null;default:normal" json:"priority"`
	Status      string    `gorm:"not null;default:open"   json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
