// path: controllers/export.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/germanyribeiro/meu-relatorio-lavoura/database"
	"github.com/germanyribeiro/meu-relatorio-lavoura/models"
	"github.com/germanyribeiro/meu-relatorio-lavoura/pdfreport"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var renderer = pdfreport.New()

// HandleExportReportPDF renders one report as a paginated A4 PDF and responds
// with it as a download.
func HandleExportReportPDF(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badReq(c, "invalid report id")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	var doc models.Report
	if err := database.Col("reports").FindOne(ctx, ownedFilter(c, oid)).Decode(&doc); err != nil {
		return notFound(c, "report not found")
	}

	start := time.Now()
	data, filename, err := renderer.Render(&doc)
	if err != nil {
		var missing *pdfreport.MissingFieldError
		if errors.As(err, &missing) {
			return c.Status(fiber.StatusUnprocessableEntity).
				JSON(ErrorResp{OK: false, Error: missing.Error()})
		}
		return serverErr(c, err)
	}
	log.Printf("pdf: rendered report=%s bytes=%d in %s", oid.Hex(), len(data), time.Since(start).Round(time.Millisecond))

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
