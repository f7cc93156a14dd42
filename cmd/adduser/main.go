package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"eduportal/internal/auth"
	"eduportal/internal/config"
	"eduportal/internal/portal"
	"eduportal/internal/store"
)

func main() {
	email := flag.String("email", "", "account e-mail (required)")
	password := flag.String("password", os.Getenv("ADDUSER_PASSWORD"), "account password, or ADDUSER_PASSWORD")
	name := flag.String("name", "", "full name; creates a profile row when set")
	studentID := flag.String("student-id", "", "student number for the profile")
	department := flag.String("department", "", "department for the profile")
	semester := flag.Int("semester", 0, "current semester for the profile")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		flag.Usage()
		log.Fatal("adduser: -email and a password of at least 8 characters are required")
	}

	cfg := config.Load()
	db, err := open(cfg)
	if err != nil {
		log.Fatalf("adduser: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := addUser(ctx, db.Backend(), *email, *password, profile{
		name: *name, studentID: *studentID, department: *department, semester: *semester,
	})
	if err != nil {
		log.Fatalf("adduser: %v", err)
	}
	fmt.Println(id)
}

type profile struct {
	name       string
	studentID  string
	department string
	semester   int
}

func open(cfg config.App) (*store.DB, error) {
	if cfg.DataBackend == "sqlite" {
		return store.NewSQLiteDB(cfg.SQLitePath)
	}
	return store.NewDB(cfg.DatabaseURL)
}

// addUser inserts the account and, when a name is given, its profile.
func addUser(ctx context.Context, b store.Backend, email, password string, p profile) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	id := uuid.NewString()
	email = auth.NormalizeEmail(email)
	if err := b.Insert(ctx, auth.UsersTable, store.Row{"id": id, "email": email, "password_hash": hash}); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	if p.name == "" {
		return id, nil
	}
	row := store.Row{"id": id, "full_name": p.name, "student_id": p.studentID, "email": email}
	if p.department != "" {
		row["department"] = p.department
	}
	if p.semester > 0 {
		row["semester"] = p.semester
	}
	if err := b.Insert(ctx, portal.TableProfiles, row); err != nil {
		return id, fmt.Errorf("insert profile: %w", err)
	}
	return id, nil
}
