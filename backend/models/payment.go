package models

// PaymentMethod is an admin-managed bank transfer instruction shown on the
// payment page. Pure reference data.
type PaymentMethod struct {
	Base
	Name     string  `gorm:"not null" json:"name"`
	RIB      string  `gorm:"not null" json:"rib"`
	Logo     *string `json:"logo"`
	QRCode   *string `json:"qrCode"`
	Order    int     `gorm:"default:0" json:"order"`
	IsActive bool    `gorm:"default:true" json:"isActive"`
}
