package controllers

import (
	"net/http"
	"testing"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCreateSemester(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, adminToken := seedUserWithRole(t, db, cfg, "admin@example.com", models.RoleAdmin)

	year := models.AcademicYear{Code: "Y-CC", Name: "2ème année", IsActive: true}
	require.NoError(t, db.Create(&year).Error)

	resp := doRequest(t, app, http.MethodPost, "/api/admin/semesters", adminToken, fiber.Map{
		"code":           "S3",
		"name":           "Semestre 3",
		"academicYearId": year.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Semester
	decodeBody(t, resp, &created)
	assert.Equal(t, "S3", created.Code)
	assert.True(t, created.IsActive)

	// Same code again is a conflict.
	resp = doRequest(t, app, http.MethodPost, "/api/admin/semesters", adminToken, fiber.Map{
		"code":           "S3",
		"name":           "Doublon",
		"academicYearId": year.ID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminCreateSemester_UnknownYear(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, adminToken := seedUserWithRole(t, db, cfg, "admin@example.com", models.RoleAdmin)

	resp := doRequest(t, app, http.MethodPost, "/api/admin/semesters", adminToken, fiber.Map{
		"code":           "S9",
		"name":           "Orphelin",
		"academicYearId": "7f8d2f9a-0000-4000-8000-000000000000",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
