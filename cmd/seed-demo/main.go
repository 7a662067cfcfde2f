package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/transfer-backend/internal/catalog"
	"github.com/stemsi/transfer-backend/internal/config"
	"github.com/stemsi/transfer-backend/internal/database"
	"github.com/stemsi/transfer-backend/internal/logger"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository"
	"github.com/stemsi/transfer-backend/internal/service"
)

type demoStudent struct {
	email   string
	name    string
	major   string
	college string
	courses []model.CompletedCourse
}

func course(code string, units float64, grade model.Grade, term string) model.CompletedCourse {
	return model.CompletedCourse{CourseCode: code, Units: units, Grade: grade, Term: term}
}

var demoStudents = []demoStudent{
	{
		email: "maria.cs@example.edu", name: "Maria Gonzalez", major: "Computer Science", college: "De Anza College",
		courses: []model.CompletedCourse{
			course("MATH 1A", 5, model.GradeA, "Fall 2023"),
			course("MATH 1B", 5, model.GradeAMinus, "Winter 2024"),
			course("MATH 21", 5, model.GradeBPlus, "Spring 2024"),
			course("CIS 22A", 4.5, model.GradeA, "Fall 2023"),
			course("CIS 22B", 4.5, model.GradeA, "Winter 2024"),
			course("PHYS 4A", 6, model.GradeB, "Spring 2024"),
			course("EWRT 1A", 5, model.GradeA, "Fall 2023"),
			course("EWRT 2", 5, model.GradeAMinus, "Winter 2024"),
		},
	},
	{
		email: "tom.bio@example.edu", name: "Tom Nguyen", major: "Biology", college: "De Anza College",
		courses: []model.CompletedCourse{
			course("CHEM 1A", 5, model.GradeB, "Fall 2023"),
			course("CHEM 1B", 5, model.GradeCPlus, "Winter 2024"),
			course("BIOL 6A", 6, model.GradeBMinus, "Spring 2024"),
			course("MATH 1A", 5, model.GradeC, "Fall 2023"),
			course("EWRT 1A", 5, model.GradeB, "Fall 2023"),
		},
	},
	{
		email: "jade.psych@example.edu", name: "Jade Williams", major: "Psychology", college: "Foothill College",
		courses: []model.CompletedCourse{
			course("PSYC 1", 4, model.GradeA, "Fall 2023"),
			course("ENGL 1A", 5, model.GradeAMinus, "Fall 2023"),
			course("MATH 1A", 5, model.GradePass, "Winter 2024"),
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cat, err := catalog.LoadDir(ctx, cfg.CatalogDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load requirement catalog")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)
	transcriptRepo := repository.NewTranscriptRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// No queue or cache: reports are computed inline below.
	studentService := service.NewStudentService(studentRepo, cat, nil, log)
	transcriptService := service.NewTranscriptService(studentRepo, transcriptRepo, nil, log)
	eligibilityService := service.NewEligibilityService(studentRepo, transcriptRepo, reportRepo, nil, cat, log)

	fmt.Printf("=== Seeding %d demo students ===\n", len(demoStudents))

	successCount := 0
	for _, d := range demoStudents {
		_, err := studentService.Register(ctx, model.RegisterStudentRequest{
			Email: d.email, Name: d.name, Major: d.major, CommunityCollege: d.college,
		})
		if err != nil && !errors.Is(err, service.ErrDuplicateStudent) {
			fmt.Printf("Error creating %s: %v\n", d.email, err)
			continue
		}

		if _, err := studentService.SelectTarget(ctx, d.email, model.SelectTargetRequest{TargetUniversity: "ucsc"}); err != nil {
			fmt.Printf("Error selecting target for %s: %v\n", d.email, err)
			continue
		}
		if _, err := transcriptService.Replace(ctx, d.email, d.courses); err != nil {
			fmt.Printf("Error saving transcript for %s: %v\n", d.email, err)
			continue
		}

		rec, err := eligibilityService.Verify(ctx, d.email)
		if err != nil {
			fmt.Printf("Error verifying %s: %v\n", d.email, err)
			continue
		}
		successCount++
		fmt.Printf("%-24s %-18s v%d %s\n", d.email, d.major, rec.Version, rec.Report.Status)
	}

	fmt.Printf("\nSeed completed! Verified %d/%d students.\n", successCount, len(demoStudents))
}
