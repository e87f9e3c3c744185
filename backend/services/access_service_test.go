package services

import (
	"testing"
	"time"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserSemesterAccess_NoGrant(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "A1")

	status, err := svc.GetUserSemesterAccess(user.ID, semester.ID)
	require.NoError(t, err)
	assert.Nil(t, status)

	has, err := svc.CheckSemesterAccess(user.ID, semester.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGetUserSemesterAccess_ActiveTrial(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "A2")

	expiry := time.Now().Add(72 * time.Hour)
	require.NoError(t, db.Create(&models.SemesterAccess{
		UserID:     user.ID,
		SemesterID: semester.ID,
		AccessType: models.AccessTrial,
		StartDate:  time.Now(),
		ExpiryDate: &expiry,
		IsActive:   true,
	}).Error)

	status, err := svc.GetUserSemesterAccess(user.ID, semester.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.IsActive)
	assert.False(t, status.IsExpired)

	has, err := svc.CheckSemesterAccess(user.ID, semester.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetUserSemesterAccess_ExpiredGrantIsInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "A3")

	// Stored IsActive is still true; only the expiry date has passed.
	expiry := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.SemesterAccess{
		UserID:     user.ID,
		SemesterID: semester.ID,
		AccessType: models.AccessPaid,
		StartDate:  time.Now().AddDate(-1, 0, 0),
		ExpiryDate: &expiry,
		IsActive:   true,
	}).Error)

	status, err := svc.GetUserSemesterAccess(user.ID, semester.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.False(t, status.IsActive)
	assert.True(t, status.IsExpired)

	has, err := svc.CheckSemesterAccess(user.ID, semester.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGetUserSemesterAccess_NilExpiryNeverExpires(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)
	user := seedUser(t, db, "etudiant@example.com")
	semester, _, _ := seedCatalog(t, db, "A4")

	require.NoError(t, db.Create(&models.SemesterAccess{
		UserID:     user.ID,
		SemesterID: semester.ID,
		AccessType: models.AccessPaid,
		StartDate:  time.Now().AddDate(-5, 0, 0),
		IsActive:   true,
	}).Error)

	status, err := svc.GetUserSemesterAccess(user.ID, semester.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.IsActive)
	assert.False(t, status.IsExpired)
}

func TestGetSemestersWithAccessStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)
	user := seedUser(t, db, "etudiant@example.com")
	unlocked, _, _ := seedCatalog(t, db, "B1")
	locked, _, _ := seedCatalog(t, db, "B2")

	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, db.Create(&models.SemesterAccess{
		UserID:     user.ID,
		SemesterID: unlocked.ID,
		AccessType: models.AccessTrial,
		StartDate:  time.Now(),
		ExpiryDate: &expiry,
		IsActive:   true,
	}).Error)

	summaries, err := svc.GetSemestersWithAccessStatus(user.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := make(map[string]SemesterSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID.String()] = s
	}
	assert.True(t, byID[unlocked.ID.String()].HasAccess)
	assert.False(t, byID[locked.ID.String()].HasAccess)
}
