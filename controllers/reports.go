// path: controllers/reports.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/germanyribeiro/meu-relatorio-lavoura/database"
	"github.com/germanyribeiro/meu-relatorio-lavoura/middleware"
	"github.com/germanyribeiro/meu-relatorio-lavoura/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentSchemaVersion is stamped on new reports unless the client pins an
// older one (the form UI always sends the version it was built against).
const currentSchemaVersion = 2

func HandlePostReport(c *fiber.Ctx) error {
	ct := c.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return handleReportJSON(c)
	}
	if strings.HasPrefix(ct, "multipart/form-data") {
		return handleReportMultipart(c)
	}
	return c.Status(fiber.StatusUnsupportedMediaType).
		JSON(ErrorResp{OK: false, Error: "unsupported content type"})
}

func handleReportJSON(c *fiber.Ctx) error {
	var p models.ReportPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}
	doc := reportFromPayload(&p)
	if err := validateReport(doc); err != nil {
		return badReq(c, err.Error())
	}
	doc.OwnerID = middleware.UserID(c)
	doc.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()
	res, err := database.Col("reports").InsertOne(ctx, doc)
	if err != nil {
		return serverErr(c, err)
	}
	id := res.InsertedID.(primitive.ObjectID).Hex()
	return c.Status(fiber.StatusOK).JSON(models.CreateReportResp{OK: true, ID: id})
}

func handleReportMultipart(c *fiber.Ctx) error {
	doc := reportFromForm(c)
	if err := validateReport(doc); err != nil {
		return badReq(c, err.Error())
	}

	// files: any key starting with "photo", multiple files per key supported
	uploadDir := getenv("UPLOAD_DIR", "uploads")
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for key, files := range form.File {
			if !strings.HasPrefix(key, "photo") {
				continue
			}
			for _, fh := range files {
				p, e := savePhotoFile(uploadDir, fh)
				if e != nil {
					return serverErr(c, e)
				}
				doc.Photos = append(doc.Photos, p)
			}
		}
	}

	doc.OwnerID = middleware.UserID(c)
	doc.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()
	res, err := database.Col("reports").InsertOne(ctx, doc)
	if err != nil {
		return serverErr(c, err)
	}
	id := res.InsertedID.(primitive.ObjectID).Hex()
	return c.Status(fiber.StatusOK).JSON(models.CreateReportResp{OK: true, ID: id})
}

func HandleGetReport(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badReq(c, "invalid report id")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	var doc models.Report
	err = database.Col("reports").
		FindOne(ctx, ownedFilter(c, oid)).Decode(&doc)
	if err != nil {
		return notFound(c, "report not found")
	}
	return c.JSON(fiber.Map{"ok": true, "report": doc})
}

func HandleUpdateReport(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badReq(c, "invalid report id")
	}
	var p models.ReportPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}
	doc := reportFromPayload(&p)
	if err := validateReport(doc); err != nil {
		return badReq(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"schema_version":   doc.SchemaVersion,
		"visit":            doc.Visit,
		"property":         doc.Property,
		"quality":          doc.Quality,
		"potential":        doc.Potential,
		"guidance":         doc.Guidance,
		"next_steps":       doc.NextSteps,
		"conditions":       doc.Conditions,
		"additional_notes": doc.AdditionalNotes,
		"photos":           doc.Photos,
		"updated_at":       time.Now().UTC(),
	}}
	res, err := database.Col("reports").UpdateOne(ctx, ownedFilter(c, oid), update)
	if err != nil {
		return serverErr(c, err)
	}
	if res.MatchedCount == 0 {
		return notFound(c, "report not found")
	}
	return c.JSON(models.CreateReportResp{OK: true, ID: oid.Hex()})
}

func HandleDeleteReport(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badReq(c, "invalid report id")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	res, err := database.Col("reports").DeleteOne(ctx, ownedFilter(c, oid))
	if err != nil {
		return serverErr(c, err)
	}
	if res.DeletedCount == 0 {
		return notFound(c, "report not found")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ownedFilter scopes a by-id lookup to the current user's collection.
func ownedFilter(c *fiber.Ctx, oid primitive.ObjectID) bson.M {
	return bson.M{"_id": oid, "owner_id": middleware.UserID(c)}
}

func reportFromPayload(p *models.ReportPayload) *models.Report {
	doc := &models.Report{
		SchemaVersion:   p.SchemaVersion,
		Visit:           p.Visit,
		Property:        p.Property,
		Quality:         p.Quality,
		Potential:       p.Potential,
		Guidance:        p.Guidance,
		NextSteps:       p.NextSteps,
		Conditions:      p.Conditions,
		AdditionalNotes: strings.TrimSpace(p.AdditionalNotes),
		Photos:          p.Photos,
	}
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = currentSchemaVersion
	}
	trimReport(doc)
	return doc
}

// reportFromForm reads the flat multipart field names the form posts.
func reportFromForm(c *fiber.Ctx) *models.Report {
	doc := &models.Report{
		SchemaVersion: currentSchemaVersion,
		Visit: models.VisitInfo{
			Date:       c.FormValue("visit_date"),
			Time:       c.FormValue("visit_time"),
			Technician: c.FormValue("technician"),
		},
		Property: models.PropertyInfo{
			Name:       c.FormValue("property_name"),
			Contractor: c.FormValue("contractor"),
			Culture:    c.FormValue("culture"),
			TotalArea:  c.FormValue("total_area"),
		},
		Quality: models.QualityAssessment{
			Pests:         c.FormValue("pests"),
			Diseases:      c.FormValue("diseases"),
			NutrientGaps:  c.FormValue("nutrient_gaps"),
			WeedControl:   c.FormValue("weed_control"),
			SoilAspects:   c.FormValue("soil_aspects"),
			OtherFindings: c.FormValue("other_findings"),
		},
		Potential: models.ProductionPotential{
			Estimate:         c.FormValue("estimate"),
			LimitingFactors:  c.FormValue("limiting_factors"),
			FavorableFactors: c.FormValue("favorable_factors"),
		},
		Guidance: models.TechnicalGuidance{
			ShortTerm:         c.FormValue("short_term"),
			PestManagement:    c.FormValue("pest_management"),
			Fertilization:     c.FormValue("fertilization"),
			CulturalPractices: c.FormValue("cultural_practices"),
			Other:             c.FormValue("other_recommendations"),
		},
		NextSteps: models.NextSteps{
			NextVisitDate:  c.FormValue("next_visit_date"),
			ActionsToCheck: c.FormValue("actions_to_check"),
		},
		Conditions: models.FieldConditions{
			Weather:      c.FormValue("weather"),
			Phenology:    c.FormValue("phenology"),
			Observations: c.FormValue("observations"),
		},
		AdditionalNotes: c.FormValue("additional_notes"),
	}
	trimReport(doc)
	return doc
}

func trimReport(doc *models.Report) {
	t := strings.TrimSpace
	doc.Visit.Date = t(doc.Visit.Date)
	doc.Visit.Time = t(doc.Visit.Time)
	doc.Visit.Technician = t(doc.Visit.Technician)
	doc.Property.Name = t(doc.Property.Name)
	doc.Property.Contractor = t(doc.Property.Contractor)
	doc.Property.Culture = t(doc.Property.Culture)
	doc.Property.TotalArea = t(doc.Property.TotalArea)
	doc.AdditionalNotes = t(doc.AdditionalNotes)
}

// validateReport enforces the form's mandatory fields: property name and
// visit date (both also feed the PDF filename).
func validateReport(doc *models.Report) error {
	if doc.Property.Name == "" {
		return errors.New("missing property name")
	}
	if doc.Visit.Date == "" {
		return errors.New("missing visit date")
	}
	if _, err := time.Parse("2006-01-02", doc.Visit.Date); err != nil {
		return errors.New("invalid visit date (expected YYYY-MM-DD)")
	}
	if doc.Visit.Technician == "" {
		return errors.New("missing technician name")
	}
	return nil
}

func savePhotoFile(uploadDir string, f *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if len(ext) > 8 {
		ext = ext[:8]
	}
	name := fmt.Sprintf("photo_%s%s", uuid.NewString(), ext)
	dst := filepath.Join(uploadDir, name)
	if err := cpyFile(f, dst); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func cpyFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
