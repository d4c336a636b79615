package database_test

import (
	"testing"
	"time"

	"careerlink/config"
	"careerlink/database"
	"careerlink/database/dbtest"
	"careerlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{driver: "", name: "postgres"},
		{driver: "postgres", name: "postgres"},
		{driver: "mysql", name: "mysql"},
		{driver: "sqlite", name: "sqlite"},
	}
	for _, tt := range tests {
		d, err := database.Dialector(&config.Config{DBDriver: tt.driver, DBName: "careerlink"})
		require.NoError(t, err, tt.driver)
		assert.Equal(t, tt.name, d.Name())
	}

	_, err := database.Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate_ActivePairIsUnique(t *testing.T) {
	db := dbtest.New(t)

	u := models.User{Name: "u", Email: "u@example.com", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	c := models.Course{Title: "c", LocationType: models.LocationOnline, Quota: 3}
	require.NoError(t, db.Create(&c).Error)

	enroll := func(status string) error {
		return db.Create(&models.Enrollment{UserID: u.ID, CourseID: c.ID, Status: status, RegisteredAt: time.Now().UTC()}).Error
	}
	require.NoError(t, enroll(models.EnrollmentCancelled))
	require.NoError(t, enroll(models.EnrollmentCancelled))
	require.NoError(t, enroll(models.EnrollmentActive))
	assert.ErrorIs(t, enroll(models.EnrollmentActive), gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, enroll(models.EnrollmentCompleted), gorm.ErrDuplicatedKey)
}

func TestMigrate_QuotaCannotBeNegative(t *testing.T) {
	db := dbtest.New(t)
	err := db.Create(&models.Course{Title: "neg", LocationType: models.LocationOnline, Quota: -1}).Error
	assert.Error(t, err)
}
