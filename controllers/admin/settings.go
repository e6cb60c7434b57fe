package adminController

import (
	"net/http"

	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
)

type SettingsRequest struct {
	WhatsappNumber string `json:"whatsapp_number"`
	TelegramToken  string `json:"telegram_token"`
	TelegramChatID string `json:"telegram_chat_id"`
}

// GET /admin/settings
func GetSettings(settings *repository.SettingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := settings.Get(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// PUT /admin/settings
func UpdateSettings(settings *repository.SettingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}

		s := models.Setting{
			WhatsappNumber: req.WhatsappNumber,
			TelegramToken:  req.TelegramToken,
			TelegramChatID: req.TelegramChatID,
		}
		if err := settings.Save(c.Request.Context(), &s); err != nil {
			controllers.Error(c, err)
			return
		}

		saved, err := settings.Get(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}
