package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrCartNotLoaded = errors.New("cart items are not loaded")

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Item struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `gorm:"not null"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"price"`
}

// SameItem reports whether two items refer to the same catalog entry.
// Only identity counts: nil matches nothing but nil, and name, description
// and price never participate in the comparison.
func SameItem(a, b *Item) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// Cart holds the ordered item sequence of one user together with a running
// total. The same item appearing N times in the sequence means quantity N.
// Items is loaded and stored through CartLine rows, see internal/repo.
type Cart struct {
	ID     uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint            `gorm:"uniqueIndex;not null"     json:"user_id"`
	Items  []Item          `gorm:"-"                        json:"items"`
	Total  decimal.Decimal `gorm:"type:numeric(19,2)"       json:"total"`
}

// AddItem appends it to the sequence and adds its price to the total.
func (c *Cart) AddItem(it Item) {
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.Items = append(c.Items, it)
	c.Total = c.Total.Add(it.Price)
}

// RemoveItem removes the first occurrence with matching identity and
// subtracts its price from the total. When no occurrence matches, the
// sequence and the total stay as they are. The total never goes below zero.
func (c *Cart) RemoveItem(it Item) {
	if c.Items == nil {
		c.Items = []Item{}
	}
	for i := range c.Items {
		if SameItem(&c.Items[i], &it) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Total = c.Total.Sub(it.Price)
			if c.Total.IsNegative() {
				c.Total = decimal.Zero
			}
			return
		}
	}
}

// CartLine is one occurrence of an item inside a cart. Line ids grow
// monotonically, so ordering by id reproduces insertion order.
type CartLine struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID uint `gorm:"index;not null"           json:"cart_id"`
	ItemID uint `gorm:"not null"                 json:"item_id"`
}

// Order is an immutable snapshot of a cart at submission time.
type Order struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint            `gorm:"index;not null"           json:"user_id"`
	Items     []Item          `gorm:"-"                        json:"items"`
	Total     decimal.Decimal `gorm:"type:numeric(19,2)"       json:"total"`
	CreatedAt int64           `gorm:"autoCreateTime"           json:"created_at"`
}

type OrderLine struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID uint `gorm:"index;not null"           json:"order_id"`
	ItemID  uint `gorm:"not null"                 json:"item_id"`
}

// OrderFromCart snapshots the cart into a new order: an independent copy of
// the item sequence, the total as-is and the owning user. A cart whose item
// sequence was never loaded is a caller bug and yields ErrCartNotLoaded;
// an empty loaded sequence produces a valid empty order.
func OrderFromCart(c *Cart) (*Order, error) {
	if c.Items == nil {
		return nil, ErrCartNotLoaded
	}
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return &Order{
		UserID: c.UserID,
		Items:  items,
		Total:  c.Total,
	}, nil
}
