package database

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-while/go-msgboard/internal/models"
)

// Seed defaults created on first startup.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin"
	SeedForumTitle    = "General Discussion"
)

// migrations holds the schema statements. Every statement is
// create-if-absent so running them on each startup is a no-op once the
// schema exists.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		userid INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE,
		password TEXT,
		role TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS forums (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		forumId INTEGER,
		userId INTEGER,
		message TEXT,
		timestamp TEXT,
		FOREIGN KEY (forumId) REFERENCES forums(id),
		FOREIGN KEY (userId) REFERENCES users(userid)
	)`,
}

// Migrate ensures all tables exist
func (db *Database) Migrate() error {
	for _, stmt := range migrations {
		if _, err := retryableExec(db.mainDB, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	return nil
}

// Seed inserts the initial admin user and default forum if they are
// missing. Safe to run on every startup: existing rows are left alone.
func (db *Database) Seed() error {
	if err := db.seedAdminUser(); err != nil {
		return err
	}
	return db.seedDefaultForum()
}

// seedAdminUser creates the admin/admin account unless a user with that
// name already exists.
func (db *Database) seedAdminUser() error {
	_, err := db.GetUserByUsername(SeedAdminUsername)
	if err == nil {
		return nil // admin already present
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     SeedAdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.InsertUser(admin); err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	log.Printf("Admin user added to the users table.")
	return nil
}

// seedDefaultForum creates the default forum if the forums table is empty.
func (db *Database) seedDefaultForum() error {
	count, err := db.CountForums()
	if err != nil {
		return fmt.Errorf("failed to count forums: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := db.InsertForum(SeedForumTitle); err != nil {
		return fmt.Errorf("failed to insert default forum: %w", err)
	}
	log.Printf("Default forum created.")
	return nil
}
