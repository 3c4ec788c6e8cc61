// Offline user manager for go-msgboard
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/go-while/go-msgboard/internal/config"
	"github.com/go-while/go-msgboard/internal/database"
	"github.com/go-while/go-msgboard/internal/models"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("go-msgboard User Manager (version: %s)", config.AppVersion)
	var (
		createUser = flag.Bool("create", false, "Create a new user")
		listUsers  = flag.Bool("list", false, "List all users")
		deleteUser = flag.Bool("delete", false, "Delete a user")
		username   = flag.String("username", "", "Username for user operations")
		admin      = flag.Bool("admin", false, "Create the user with the admin role")
		datadir    = flag.String("datadir", "./data", "Directory for the sqlite database file")
	)
	flag.Parse()

	if !*createUser && !*listUsers && !*deleteUser {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -create -username john\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delete -username john\n", os.Args[0])
		os.Exit(1)
	}

	dbconfig := database.DefaultDBConfig()
	dbconfig.DataDir = *datadir
	db, err := database.OpenDatabase(dbconfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	switch {
	case *createUser:
		if *username == "" {
			log.Fatal("Username is required for user creation")
		}
		if err := createNewUser(db, *username, *admin); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}

	case *listUsers:
		if err := listAllUsers(db); err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}

	case *deleteUser:
		if *username == "" {
			log.Fatal("Username is required for user deletion")
		}
		if err := db.DeleteUserByUsername(*username); err != nil {
			log.Fatalf("Failed to delete user: %v", err)
		}
		fmt.Printf("User '%s' deleted\n", *username)
	}
}

func createNewUser(db *database.Database, username string, isAdmin bool) error {
	// Check if user already exists
	if _, err := db.GetUserByUsername(username); err == nil {
		return fmt.Errorf("user '%s' already exists", username)
	}

	// Get password
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %v", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %v", err)
	}
	fmt.Println()

	if string(password) != string(confirmPassword) {
		return fmt.Errorf("passwords do not match")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	role := models.RoleGuest
	if isAdmin {
		role = models.RoleAdmin
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := db.InsertUser(user); err != nil {
		return fmt.Errorf("failed to insert user: %v", err)
	}

	fmt.Printf("User '%s' created with id %d (role: %s)\n", user.Username, user.UserID, user.Role)
	return nil
}

func listAllUsers(db *database.Database) error {
	users, err := db.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to get users: %v", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("Found %d users:\n\n", len(users))
	fmt.Printf("%-6s %-20s %s\n", "ID", "Username", "Role")
	for _, u := range users {
		fmt.Printf("%-6d %-20s %s\n", u.UserID, u.Username, u.Role)
	}
	return nil
}
