package model

import "time"

// Site setting keys rendered on the public pages.
const (
	SettingBusinessHours   = "business_hours"
	SettingStudioAddress   = "studio_address"
	SettingStudioPhone     = "studio_phone"
	SettingPricingDropIn   = "pricing_drop_in"
	SettingPricingPackages = "pricing_packages"
	SettingPricingPrivate  = "pricing_private_lessons"
	SettingInstagramURL    = "social_instagram"
	SettingFacebookURL     = "social_facebook"
)

// AppSetting represents a key-value pair for site-wide content.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required,dive,keys,min=1,max=100,endkeys,max=5000"`
}
