// path: controllers/reports_list.go
package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/germanyribeiro/meu-relatorio-lavoura/database"
	"github.com/germanyribeiro/meu-relatorio-lavoura/middleware"
	"github.com/germanyribeiro/meu-relatorio-lavoura/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportItem is the list-view projection of a report: enough for the card
// (property, culture, date) without shipping every section.
type ReportItem struct {
	ID            string `json:"id"`
	PropertyName  string `json:"property_name"`
	Culture       string `json:"culture"`
	Technician    string `json:"technician"`
	VisitDate     string `json:"visit_date"`
	PhotoCount    int    `json:"photo_count"`
	SchemaVersion int    `json:"schema_version"`
	CreatedAt     string `json:"created_at"`
}

type ReportListResp struct {
	OK         bool         `json:"ok"`
	Items      []ReportItem `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func HandleListReports(c *fiber.Ctx) error {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < 1 {
				n = 1
			}
			if n > 100 {
				n = 100
			}
			limit = n
		}
	}

	// Always scoped to the caller's own collection.
	filter := bson.M{"owner_id": middleware.UserID(c)}

	if p := c.Query("property"); p != "" {
		filter["property.name"] = p
	}
	if cu := c.Query("culture"); cu != "" {
		filter["property.culture"] = cu
	}

	// Visit dates are stored as YYYY-MM-DD strings, so lexicographic range
	// comparison is also chronological.
	if sd := c.Query("start_date"); sd != "" {
		if _, err := time.Parse("2006-01-02", sd); err != nil {
			return badReq(c, "invalid start_date (YYYY-MM-DD)")
		}
		setRange(filter, "visit.date", "$gte", sd)
	}
	if ed := c.Query("end_date"); ed != "" {
		if _, err := time.Parse("2006-01-02", ed); err != nil {
			return badReq(c, "invalid end_date (YYYY-MM-DD)")
		}
		setRange(filter, "visit.date", "$lte", ed)
	}

	if hp := c.Query("has_photos"); hp != "" {
		if parseBool(hp) {
			filter["photos.0"] = bson.M{"$exists": true}
		} else {
			filter["photos.0"] = bson.M{"$exists": false}
		}
	}

	if cursorHex := c.Query("cursor"); cursorHex != "" {
		if oid, err := primitive.ObjectIDFromHex(cursorHex); err == nil {
			filter["_id"] = bson.M{"$lt": oid}
		} else {
			return badReq(c, "invalid cursor")
		}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit + 1))

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	cur, err := database.Col("reports").Find(ctx, filter, findOpts)
	if err != nil {
		return serverErr(c, err)
	}
	defer cur.Close(ctx)

	items := make([]ReportItem, 0, limit)
	var nextCursor string
	count := 0

	for cur.Next(ctx) {
		var doc models.Report
		if err := cur.Decode(&doc); err != nil {
			return serverErr(c, err)
		}
		count++
		if count > limit {
			nextCursor = doc.ID.Hex()
			break
		}
		items = append(items, ReportItem{
			ID:            doc.ID.Hex(),
			PropertyName:  doc.Property.Name,
			Culture:       doc.Property.Culture,
			Technician:    doc.Visit.Technician,
			VisitDate:     doc.Visit.Date,
			PhotoCount:    len(doc.Photos),
			SchemaVersion: doc.Version(),
			CreatedAt:     doc.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := cur.Err(); err != nil {
		return serverErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ReportListResp{
		OK:         true,
		Items:      items,
		NextCursor: nextCursor,
	})
}

// setRange merges a comparison operator into a possibly existing range filter.
func setRange(m bson.M, key, op string, v any) {
	if m[key] == nil {
		m[key] = bson.M{}
	}
	m[key].(bson.M)[op] = v
}
