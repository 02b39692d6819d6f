//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const migrationsDir = "./internal/adapters/sqlite/migrations"

var binaries = map[string]string{
	"leadform-server": "./cmd/server",
	"leadform":        "./cmd/leadform",
	"leadform-export": "./cmd/export",
}

// Dbup runs dbmate against DATABASE_URL with the bundled migrations.
// The SQLite store also applies them itself on open.
func Dbup() error {
	if _, err := exec.LookPath("dbmate"); err != nil {
		fmt.Println(">> dbmate not found; install with:")
		fmt.Println("   go install github.com/amacneil/dbmate/v2@latest")
		return err
	}
	if os.Getenv("DATABASE_URL") == "" {
		return fmt.Errorf("DATABASE_URL is not set (e.g. sqlite:leads.db)")
	}
	fmt.Println(">> dbmate up")
	return sh.Run("dbmate", "--migrations-dir", migrationsDir, "--no-dump-schema", "up")
}

// Build tidies deps, then compiles every command to ./bin.
func Build() error {
	mg.Deps(Tidy)
	for name, pkg := range binaries {
		fmt.Printf(">> Building %s...\n", name)
		if err := sh.Run("go", "build", "-o", "bin/"+name, pkg); err != nil {
			return err
		}
	}
	return nil
}

// Run builds then executes the web server.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server...")
	return sh.RunV("./bin/leadform-server")
}

// Dev starts the server via go run with debug logging.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd/server ...")
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "DEBUG_MODE=true")
	return cmd.Run()
}

// Terminal runs the interactive terminal client.
func Terminal() error {
	cmd := exec.Command("go", "run", "./cmd/leadform")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Export writes the SQLite roster to a PDF in the working directory.
func Export() error {
	fmt.Println(">> Exporting roster...")
	return sh.RunV("go", "run", "./cmd/export")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests with the race detector.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "leads.db"
	}
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Install builds and installs the commands to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", "./cmd/...")
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
