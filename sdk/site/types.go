package site

import "encoding/json"

// MenuItem is the server-side shape of a menu item.
// Ingredients may arrive as an array or a comma-separated string and the
// dietary flags as booleans or 0/1, so those stay raw until normalization.
type MenuItem struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Price              float64         `json:"price"`
	BasePrice          *float64        `json:"base_price,omitempty"`
	Category           string          `json:"category"`
	IsAvailable        *bool           `json:"is_available,omitempty"`
	Ingredients        json.RawMessage `json:"ingredients,omitempty"`
	Vegan              json.RawMessage `json:"vegan,omitempty"`
	GlutenFree         json.RawMessage `json:"gluten_free,omitempty"`
	PiecesPerOrder     *int            `json:"pieces_per_order,omitempty"`
	BasePiecesPerOrder *int            `json:"base_pieces_per_order,omitempty"`
	ActiveOverride     json.RawMessage `json:"active_override,omitempty"`
	Reviews            json.RawMessage `json:"reviews,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
	UpdatedAt          string          `json:"updated_at,omitempty"`
}

// MenuEntry is a normalized, display-ready menu item.
type MenuEntry struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Price              float64         `json:"price"`
	BasePrice          float64         `json:"base_price,omitempty"`
	Ingredients        []string        `json:"ingredients"`
	Vegan              bool            `json:"vegan"`
	GlutenFree         bool            `json:"gluten_free"`
	PiecesPerOrder     int             `json:"pieces_per_order,omitempty"`
	BasePiecesPerOrder int             `json:"base_pieces_per_order,omitempty"`
	ActiveOverride     json.RawMessage `json:"active_override,omitempty"`
	Reviews            json.RawMessage `json:"reviews,omitempty"`
}

// MenuCategory groups normalized entries under a display name.
type MenuCategory struct {
	Name  string      `json:"name"`
	Items []MenuEntry `json:"items"`
}

// Category is an item category managed from the dashboard.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Review is a customer review of a menu item.
type Review struct {
	ID        int64  `json:"id"`
	ItemID    int64  `json:"item_id,omitempty"`
	Author    string `json:"author,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DrinksItem is a single drink row.
type DrinksItem struct {
	ID          int64   `json:"id"`
	GroupID     int64   `json:"group_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Position    int     `json:"position,omitempty"`
}

// DrinksGroup is a titled group of drinks inside a section.
type DrinksGroup struct {
	ID        int64        `json:"id"`
	SectionID int64        `json:"section_id,omitempty"`
	Name      string       `json:"name"`
	Position  int          `json:"position,omitempty"`
	Items     []DrinksItem `json:"items,omitempty"`
}

// DrinksSection is a top-level section of the drinks menu.
type DrinksSection struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Position int           `json:"position,omitempty"`
	Groups   []DrinksGroup `json:"groups,omitempty"`
}

// Event is a promotional event with an activity window.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	ImageURL    string `json:"image_url,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// EventOverride adjusts a menu item while its event is active.
type EventOverride struct {
	EventID  int64           `json:"event_id,omitempty"`
	ItemID   int64           `json:"item_id"`
	Price    *float64        `json:"price,omitempty"`
	Pieces   *int            `json:"pieces,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
	Extra    json.RawMessage `json:"extra,omitempty"`
}
