package models

import "time"

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

// Setting stores the back-office configuration editable from the admin panel.
type Setting struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	WhatsappNumber string    `json:"whatsapp_number"`
	TelegramToken  string    `json:"telegram_token"`
	TelegramChatID string    `json:"telegram_chat_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}
