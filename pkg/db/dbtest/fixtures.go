package dbtest

import (
	"testing"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedUser inserts an active user with the given role.
func SeedUser(t testing.TB, db *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Username:  "user-" + uuid.NewString()[:8],
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedPerson inserts a monitored person created by createdBy. mutate may
// adjust fields before the insert.
func SeedPerson(t testing.TB, db *gorm.DB, createdBy *models.User, mutate func(*models.VulnerablePerson)) *models.VulnerablePerson {
	t.Helper()
	person := &models.VulnerablePerson{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Age:           81,
		RiskLevel:     enums.RiskLevelLow,
		CurrentStatus: enums.PersonStatusSafe,
	}
	if createdBy != nil {
		person.CreatedByID = &createdBy.ID
	}
	if mutate != nil {
		mutate(person)
	}
	if err := db.Omit(clause.Associations).Create(person).Error; err != nil {
		t.Fatalf("seed person: %v", err)
	}
	return person
}
