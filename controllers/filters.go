// path: controllers/filters.go
package controllers

import (
	"context"
	"sort"
	"time"

	"github.com/germanyribeiro/meu-relatorio-lavoura/database"
	"github.com/germanyribeiro/meu-relatorio-lavoura/middleware"
	"github.com/germanyribeiro/meu-relatorio-lavoura/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// HandleFilterValues returns the distinct property names and cultures of the
// caller's reports; the list view builds its filter dropdowns from them.
func HandleFilterValues(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	owner := bson.M{"owner_id": middleware.UserID(c)}
	col := database.Col("reports")

	props, err := col.Distinct(ctx, "property.name", owner)
	if err != nil {
		return serverErr(c, err)
	}
	cultures, err := col.Distinct(ctx, "property.culture", owner)
	if err != nil {
		return serverErr(c, err)
	}

	return c.JSON(models.FilterValuesResp{
		OK:         true,
		Properties: asSortedStrings(props),
		Cultures:   asSortedStrings(cultures),
	})
}

// asSortedStrings keeps the non-empty string values, sorted for stable
// dropdown order.
func asSortedStrings(vals []interface{}) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
