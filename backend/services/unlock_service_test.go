package services

import (
	"testing"
	"time"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiberStatus(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

func TestUnlockCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "U1")

	request, err := svc.Create(user.ID, semester.ID, "virement-1234.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, "virement-1234.jpg", request.PaymentProof)
	require.NotNil(t, request.Semester)
	assert.Equal(t, semester.ID, request.Semester.ID)
}

func TestUnlockCreate_UnknownSemester(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")

	_, err := svc.Create(user.ID, uuid.New(), "preuve.jpg")
	assert.Equal(t, fiber.StatusNotFound, fiberStatus(t, err))
}

func TestUnlockCreate_DuplicatePendingRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "U2")

	_, err := svc.Create(user.ID, semester.ID, "preuve.jpg")
	require.NoError(t, err)

	_, err = svc.Create(user.ID, semester.ID, "preuve-bis.jpg")
	assert.Equal(t, fiber.StatusConflict, fiberStatus(t, err))
}

func TestUnlockCreate_AlreadyHasActiveAccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "U3")

	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, db.Create(&models.SemesterAccess{
		UserID:     user.ID,
		SemesterID: semester.ID,
		AccessType: models.AccessTrial,
		StartDate:  time.Now(),
		ExpiryDate: &expiry,
		IsActive:   true,
	}).Error)

	_, err := svc.Create(user.ID, semester.ID, "preuve.jpg")
	assert.Equal(t, fiber.StatusConflict, fiberStatus(t, err))
}

func TestUnlockCreate_ExpiredAccessAllowsNewRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "U4")

	expiry := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.SemesterAccess{
		UserID:     user.ID,
		SemesterID: semester.ID,
		AccessType: models.AccessTrial,
		StartDate:  time.Now().AddDate(0, 0, -8),
		ExpiryDate: &expiry,
		IsActive:   true,
	}).Error)

	_, err := svc.Create(user.ID, semester.ID, "preuve.jpg")
	require.NoError(t, err)
}

func TestUnlockProcess_ApproveGrantsPaidYear(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	admin := seedUser(t, db, "admin@example.com")
	semester, _, _ := seedCatalog(t, db, "U5")

	request, err := svc.Create(user.ID, semester.ID, "preuve.jpg")
	require.NoError(t, err)

	notes := "Paiement vérifié"
	before := time.Now()
	processed, err := svc.Process(request.ID, admin.ID, models.RequestApproved, &notes)
	require.NoError(t, err)
	after := time.Now()

	assert.Equal(t, models.RequestApproved, processed.Status)
	require.NotNil(t, processed.ProcessedBy)
	assert.Equal(t, admin.ID, *processed.ProcessedBy)
	require.NotNil(t, processed.ProcessedAt)
	require.NotNil(t, processed.AdminNotes)
	assert.Equal(t, notes, *processed.AdminNotes)

	var access models.SemesterAccess
	require.NoError(t, db.Where("user_id = ? AND semester_id = ?", user.ID, semester.ID).First(&access).Error)
	assert.Equal(t, models.AccessPaid, access.AccessType)
	assert.True(t, access.IsActive)
	require.NotNil(t, access.ExpiryDate)
	assert.False(t, access.ExpiryDate.Before(before.AddDate(1, 0, 0)))
	assert.False(t, access.ExpiryDate.After(after.AddDate(1, 0, 0)))
}

func TestUnlockProcess_ApproveOverwritesExistingTrial(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	admin := seedUser(t, db, "admin@example.com")
	semester, _, _ := seedCatalog(t, db, "U6")

	trialExpiry := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.SemesterAccess{
		UserID:     user.ID,
		SemesterID: semester.ID,
		AccessType: models.AccessTrial,
		StartDate:  time.Now().AddDate(0, 0, -8),
		ExpiryDate: &trialExpiry,
		IsActive:   true,
	}).Error)

	request, err := svc.Create(user.ID, semester.ID, "preuve.jpg")
	require.NoError(t, err)
	_, err = svc.Process(request.ID, admin.ID, models.RequestApproved, nil)
	require.NoError(t, err)

	// Single row per (user, semester): the trial grant was converted, not duplicated.
	var count int64
	require.NoError(t, db.Model(&models.SemesterAccess{}).
		Where("user_id = ? AND semester_id = ?", user.ID, semester.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var access models.SemesterAccess
	require.NoError(t, db.Where("user_id = ? AND semester_id = ?", user.ID, semester.ID).First(&access).Error)
	assert.Equal(t, models.AccessPaid, access.AccessType)
	require.NotNil(t, access.ExpiryDate)
	assert.True(t, access.ExpiryDate.After(time.Now()))
}

func TestUnlockProcess_RejectGrantsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	admin := seedUser(t, db, "admin@example.com")
	semester, _, _ := seedCatalog(t, db, "U7")

	request, err := svc.Create(user.ID, semester.ID, "preuve.jpg")
	require.NoError(t, err)

	notes := "Preuve illisible"
	processed, err := svc.Process(request.ID, admin.ID, models.RequestRejected, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, processed.Status)

	var count int64
	require.NoError(t, db.Model(&models.SemesterAccess{}).
		Where("user_id = ? AND semester_id = ?", user.ID, semester.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUnlockProcess_TerminalStateIsFinal(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	admin := seedUser(t, db, "admin@example.com")
	semester, _, _ := seedCatalog(t, db, "U8")

	request, err := svc.Create(user.ID, semester.ID, "preuve.jpg")
	require.NoError(t, err)
	_, err = svc.Process(request.ID, admin.ID, models.RequestRejected, nil)
	require.NoError(t, err)

	_, err = svc.Process(request.ID, admin.ID, models.RequestApproved, nil)
	assert.Equal(t, fiber.StatusConflict, fiberStatus(t, err))
}

func TestUnlockListAll_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	user := seedUser(t, db, "etudiant@example.com")
	admin := seedUser(t, db, "admin@example.com")
	s1, _, _ := seedCatalog(t, db, "U9")
	s2, _, _ := seedCatalog(t, db, "U10")

	r1, err := svc.Create(user.ID, s1.ID, "preuve-1.jpg")
	require.NoError(t, err)
	_, err = svc.Create(user.ID, s2.ID, "preuve-2.jpg")
	require.NoError(t, err)
	_, err = svc.Process(r1.ID, admin.ID, models.RequestApproved, nil)
	require.NoError(t, err)

	pending, err := svc.ListAll(models.RequestPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, s2.ID, pending[0].SemesterID)

	all, err := svc.ListAll("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
