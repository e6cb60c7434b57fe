package adminController

import (
	"fmt"
	"net/http"
	"time"

	"github.com/galazzia/storefront-api/backup"
	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
)

// GET /admin/backup
func DownloadBackup(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := backup.Take(c.Request.Context(), orders)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		filename := fmt.Sprintf("galazzia_backup_%s.json", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.JSON(http.StatusOK, snap)
	}
}

// POST /admin/backup/restore
// Accepts the JSON body directly or as multipart field "file". Orders are
// replaced by id; orders missing from the backup are kept.
func RestoreBackup(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := c.Request.Body
		if c.ContentType() == "multipart/form-data" {
			header, err := c.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Backup file is required"})
				return
			}
			f, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open backup file"})
				return
			}
			defer f.Close()
			body = f
		}

		snap, err := backup.Decode(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup: " + err.Error()})
			return
		}

		n, err := orders.Restore(c.Request.Context(), snap.Orders)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Backup restored", "restored": n})
	}
}
