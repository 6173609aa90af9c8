package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Corner is the canonical placement of the sticky widget. Legacy kebab-case
// position strings ("bottom-right") are translated at the edges via
// CornerFromLegacyPosition; only the uppercase values below are stored.
type Corner string

const (
	CornerTopLeft     Corner = "TOP_LEFT"
	CornerTopRight    Corner = "TOP_RIGHT"
	CornerBottomLeft  Corner = "BOTTOM_LEFT"
	CornerBottomRight Corner = "BOTTOM_RIGHT"
)

const DefaultButtonText = "Add to Cart"
const DefaultPadding = 16

// ShopSettings holds the widget display configuration for a single shop.
// One row per shop; the shop domain is the tenant key and never changes.
type ShopSettings struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Shop       string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"shop" validate:"required,max=255"`
	Corner     Corner    `gorm:"type:varchar(16);not null;default:'BOTTOM_RIGHT'" json:"corner" validate:"required"`
	PaddingX   int       `gorm:"not null;default:16" json:"paddingX" validate:"gte=0"`
	PaddingY   int       `gorm:"not null;default:16" json:"paddingY" validate:"gte=0"`
	IsEnabled  bool      `gorm:"not null;default:true" json:"isEnabled"`
	ButtonText string    `gorm:"type:varchar(255);not null;default:'Add to Cart'" json:"buttonText" validate:"max=255"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultShopSettings returns the row created lazily on first admin load.
func DefaultShopSettings(shop string) *ShopSettings {
	return &ShopSettings{
		Shop:       shop,
		Corner:     CornerBottomRight,
		PaddingX:   DefaultPadding,
		PaddingY:   DefaultPadding,
		IsEnabled:  true,
		ButtonText: DefaultButtonText,
	}
}

// IsValidCorner reports whether s is one of the four canonical values.
func IsValidCorner(s string) bool {
	switch Corner(s) {
	case CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight:
		return true
	default:
		return false
	}
}

// CornerFromLegacyPosition maps kebab-case position names from the old admin
// form onto the canonical enum. Canonical values pass through unchanged.
func CornerFromLegacyPosition(position string) (Corner, bool) {
	switch position {
	case "top-left":
		return CornerTopLeft, true
	case "top-right":
		return CornerTopRight, true
	case "bottom-left":
		return CornerBottomLeft, true
	case "bottom-right":
		return CornerBottomRight, true
	}
	if IsValidCorner(position) {
		return Corner(position), true
	}
	return "", false
}

// LegacyPosition returns the kebab-case name used by the admin form labels.
func (c Corner) LegacyPosition() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomLeft:
		return "bottom-left"
	default:
		return "bottom-right"
	}
}

// Validate checks the settings row before it is persisted.
func (s *ShopSettings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
