// Package seed loads the demo dataset used by local and staging
// environments: three employees with linked login accounts, profiles,
// feedback, and a couple of absence requests in different workflow states.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/newwork/core-api/internal/common"
	"github.com/newwork/core-api/internal/dbx"
	"github.com/newwork/core-api/internal/logging"
	"github.com/newwork/core-api/internal/server/auth"
	"github.com/newwork/core-api/internal/server/models"
	"github.com/newwork/core-api/internal/server/repositories/repomanager"
)

const demoPassword = "Passw0rd!"

// Run loads the demo dataset inside one transaction. It is idempotent:
// when the manager account already exists, nothing is written.
func Run(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, log logging.Logger) error {
	_, err := rm.Users(db).FindByEmail(ctx, "manager@newwork.test")
	if err == nil {
		log.Info(ctx, "demo data already present, skipping seed")
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		employees := rm.Employees(tx)

		alice, err := employees.Create(ctx, &models.Employee{FirstName: "Alice", LastName: "Ng"})
		if err != nil {
			return err
		}
		bob, err := employees.Create(ctx, &models.Employee{FirstName: "Bob", LastName: "Ionescu"})
		if err != nil {
			return err
		}
		carol, err := employees.Create(ctx, &models.Employee{FirstName: "Carol", LastName: "Matei"})
		if err != nil {
			return err
		}

		users := rm.Users(tx)
		accounts := []models.User{
			{Email: "manager@newwork.test", Role: auth.RoleManager, EmployeeID: &alice.ID},
			{Email: "bob@newwork.test", Role: auth.RoleEmployee, EmployeeID: &bob.ID},
			{Email: "carol@newwork.test", Role: auth.RoleCoworker, EmployeeID: &carol.ID},
		}
		for _, u := range accounts {
			u.PasswordHash = string(hash)
			if _, err := users.Create(ctx, &u); err != nil {
				return err
			}
		}

		profiles := rm.Profiles(tx)
		for _, p := range demoProfiles(alice.ID, bob.ID, carol.ID) {
			if _, err := profiles.Create(ctx, &p); err != nil {
				return err
			}
		}

		feedback := rm.Feedback(tx)
		seedFeedback := []models.Feedback{
			{
				EmployeeID:       bob.ID,
				AuthorEmployeeID: carol.ID,
				TextOriginal:     "bob was realy helpful on the release",
				TextPolished:     "Bob was really helpful on the release.",
				PolishModel:      "seed",
			},
			{
				EmployeeID:       carol.ID,
				AuthorEmployeeID: alice.ID,
				TextOriginal:     "carol onboarded the new hires smoothly",
				TextPolished:     "Carol onboarded the new hires smoothly.",
				PolishModel:      "seed",
			},
		}
		for _, f := range seedFeedback {
			if _, err := feedback.Create(ctx, &f); err != nil {
				return err
			}
		}

		absences := rm.Absences(tx)
		trip := "family trip"
		if _, err := absences.Create(ctx, &models.AbsenceRequest{
			EmployeeID: bob.ID,
			Type:       models.AbsenceVacation,
			StartDate:  models.Today().AddDays(30),
			EndDate:    models.Today().AddDays(34),
			Reason:     &trip,
			Status:     models.AbsencePending,
		}); err != nil {
			return err
		}

		flu := "flu"
		approved, err := absences.Create(ctx, &models.AbsenceRequest{
			EmployeeID: alice.ID,
			Type:       models.AbsenceSick,
			StartDate:  models.Today().AddDays(-10),
			EndDate:    models.Today().AddDays(-8),
			Reason:     &flu,
			Status:     models.AbsencePending,
		})
		if err != nil {
			return err
		}
		note := "get well soon"
		if _, err := absences.UpdateStatus(ctx, approved.ID, models.AbsenceApproved, &note, approved.Version); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("seeding demo data: %w", err)
	}

	log.Info(ctx, "demo data seeded")
	return nil
}

func demoProfiles(aliceID, bobID, carolID uuid.UUID) []models.EmployeeProfile {
	str := func(s string) *string { return &s }
	f64 := func(f float64) *float64 { return &f }

	return []models.EmployeeProfile{
		{
			EmployeeID:   aliceID,
			Bio:          str("Engineering manager. Leads the platform group."),
			SkillsJSON:   str(`["leadership","go","postgres"]`),
			Salary:       f64(120000),
			SSN:          str("123-45-6789"),
			Address:      str("1 Long Street, Amsterdam"),
			ContactEmail: str("alice@newwork.test"),
		},
		{
			EmployeeID:   bobID,
			Bio:          str("Backend engineer on the core services team."),
			SkillsJSON:   str(`["go","sql","kafka"]`),
			Salary:       f64(78000),
			SSN:          str("987-65-4321"),
			Address:      str("12 Canal Row, Utrecht"),
			ContactEmail: str("bob@newwork.test"),
		},
		{
			EmployeeID:   carolID,
			Bio:          str("People-ops partner working with the platform group."),
			SkillsJSON:   str(`["onboarding","communication"]`),
			Salary:       f64(64000),
			SSN:          str("555-12-3456"),
			Address:      str("7 Market Lane, Rotterdam"),
			ContactEmail: str("carol@newwork.test"),
		},
	}
}
