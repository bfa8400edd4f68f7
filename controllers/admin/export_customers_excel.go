package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/models"
)

// ExportCustomersToExcel dumps the customer directory, including merge
// state and metadata, for back-office review.
func ExportCustomersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var customers []models.CustomerRecord
		if err := db.Order("created_at desc").Find(&customers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Customers")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{
			"ID", "AuthUserID", "Email", "Phone", "Name", "Variant", "Status",
			"MergedIntoUserID", "MergedAt", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, rec := range customers {
			row := sheet.AddRow()

			row.AddCell().SetValue(rec.ID)
			authUserID := ""
			if rec.AuthUserID != nil {
				authUserID = *rec.AuthUserID
			}
			row.AddCell().SetValue(authUserID)
			row.AddCell().SetValue(rec.Email)
			row.AddCell().SetValue(rec.Phone)
			row.AddCell().SetValue(rec.Name)
			row.AddCell().SetValue(string(rec.Variant))
			row.AddCell().SetValue(string(rec.Status))

			mergedInto, _ := rec.Metadata[models.MetaMergedIntoUserID].(string)
			mergedAt, _ := rec.Metadata[models.MetaMergedAt].(string)
			row.AddCell().SetValue(mergedInto)
			row.AddCell().SetValue(mergedAt)

			row.AddCell().SetValue(rec.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(rec.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=customers.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		// Write file to response
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
