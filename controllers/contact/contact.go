package contactController

import (
	"net/http"

	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/repository"
	"github.com/galazzia/storefront-api/whatsapp"
	"github.com/gin-gonic/gin"
)

// POST /contact
// Returns a WhatsApp link carrying the contact form to the store number.
func Contact(settings *repository.SettingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req whatsapp.Contact
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}

		s, err := settings.Get(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"whatsapp_url": whatsapp.Link(s.WhatsappNumber, whatsapp.ContactMessage(req))})
	}
}
