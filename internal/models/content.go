package models

// Externally configured storefront content. The admin panel owns these; the
// core only reads them (and persists contact submissions).

type Slider struct {
	BaseModel
	Image     string `json:"image"`
	LinkURL   string `json:"link_url"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

type DeliveryFeature struct {
	BaseModel
	Title       string `gorm:"size:100" json:"title"`
	Description string `json:"description"`
	Icon        string `gorm:"size:20;default:'truck'" json:"icon"`
	IconColor   string `gorm:"size:20;default:'#111111'" json:"icon_color"`
	IconSize    int    `gorm:"default:24" json:"icon_size"`
	// Comma-separated page keys; empty means all pages.
	Pages     string `gorm:"size:200" json:"pages"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

type AboutPage struct {
	BaseModel
	Title      string `gorm:"size:150;default:'Why Choose Us'" json:"title"`
	Content    string `json:"content"`
	Image      string `json:"image"`
	ButtonText string `gorm:"size:50;default:'Shop Now'" json:"button_text"`
	ButtonURL  string `gorm:"size:200;default:'/shop/view/'" json:"button_url"`
	Layout     string `gorm:"size:20;default:'image_right'" json:"layout"`
}

type ContactPage struct {
	BaseModel
	HeroTitle    string `gorm:"size:120;default:'Contact Us'" json:"hero_title"`
	HeroSubtitle string `gorm:"size:200" json:"hero_subtitle"`
	Address      string `json:"address"`
	Phone        string `gorm:"size:50" json:"phone"`
	Email        string `json:"email"`
	OpenHours    string `gorm:"size:120" json:"open_hours"`
	MapEmbedURL  string `json:"map_embed_url"`
}

type ContactSubmission struct {
	BaseModel
	Name    string `gorm:"size:120" json:"name"`
	Email   string `json:"email"`
	Phone   string `gorm:"size:50" json:"phone"`
	Subject string `gorm:"size:150" json:"subject"`
	Message string `json:"message"`
}
