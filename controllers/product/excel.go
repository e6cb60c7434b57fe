package productcontroller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

var catalogueHeader = []string{
	"ID", "Name", "Description", "Price", "Discount", "Stock",
	"Category", "Color", "Image", "Bestseller",
}

// WriteCatalogue writes products as a single-sheet workbook.
func WriteCatalogue(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range catalogueHeader {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.Discount)
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Color)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(strconv.FormatBool(p.IsBestseller))
	}
	return file.Write(w)
}

// ReadCatalogue parses a workbook written by WriteCatalogue. Rows without a
// name or with an unreadable price are skipped and counted.
func ReadCatalogue(r io.ReaderAt, size int64) ([]models.Product, int, error) {
	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, 0, fmt.Errorf("parse workbook: %w", err)
	}
	if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
		return nil, 0, errors.New("excel file is empty or missing header row")
	}

	var products []models.Product
	skipped := 0
	for _, row := range xlFile.Sheets[0].Rows[1:] {
		if row == nil {
			continue
		}
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, err := decimal.NewFromString(get(3))
		if name == "" || err != nil || !price.IsPositive() {
			skipped++
			continue
		}

		p := models.Product{
			Name:        name,
			Description: get(2),
			Price:       price,
			Category:    get(6),
			Color:       get(7),
			Image:       get(8),
		}
		if id, err := strconv.ParseUint(get(0), 10, 64); err == nil {
			p.ID = uint(id)
		}
		if d, err := strconv.Atoi(get(4)); err == nil && d >= 0 && d <= 100 {
			p.Discount = d
		}
		if s, err := strconv.Atoi(get(5)); err == nil && s > 0 {
			p.Stock = s
		}
		p.IsBestseller, _ = strconv.ParseBool(get(9))

		products = append(products, p)
	}
	return products, skipped, nil
}

// GET /admin/products/export
func ExportProductsToExcel(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context(), repository.ProductFilter{})
		if err != nil {
			controllers.Error(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		if err := WriteCatalogue(c.Writer, list); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		}
	}
}

// POST /admin/products/import (multipart field "file")
// Rows with a known ID update that product, the rest are created.
func ImportProductsFromExcel(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		rows, skipped, err := ReadCatalogue(file, header.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		created, updated := 0, 0
		for i := range rows {
			if rows[i].ID == 0 {
				created++
				continue
			}
			existing, err := products.Get(ctx, rows[i].ID)
			if errors.Is(err, repository.ErrNotFound) {
				rows[i].ID = 0
				created++
				continue
			}
			if err != nil {
				controllers.Error(c, err)
				return
			}
			rows[i].CreatedAt = existing.CreatedAt
			updated++
		}

		if err := products.SaveAll(ctx, rows); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"updated_count": updated,
			"skipped_count": skipped,
		})
	}
}
