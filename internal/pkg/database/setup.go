package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/env"
)

var DB *gorm.DB

const maxRetries = 5
const retryDelay = 5 * time.Second

// SetupDatabase connects to MySQL, registers the read/write resolver,
// migrates the schema and seeds the baseline authorization data.
//
// TranslateError is on so duplicate-key races surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func SetupDatabase() {
	var err error
	dsn := buildDSN(env.GetEnv("DB_HOST", "127.0.0.1"))

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{TranslateError: true})
		if err == nil {
			setupResolver()
			migrateAndSeed()
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	panic(err)
}

// setupResolver wires an optional read replica. Mutating flows pin to the
// write resolver via db.Clauses(dbresolver.Write).
func setupResolver() {
	replicaHost := env.GetEnv("DB_REPLICA_HOST", "")
	if replicaHost == "" {
		return
	}

	err := DB.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{mysql.Open(buildDSN(replicaHost))},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		log.Printf("read replica not registered: %v", err)
	}
}

func migrateAndSeed() {
	err := DB.AutoMigrate(
		&models.Account{},
		&models.Password{},
		&models.Session{},
		&models.Connection{},
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Role{},
		&models.Permission{},
		&models.Verification{},
		&models.Note{},
	)
	if err != nil {
		panic(err)
	}

	if err := models.SeedAuthData(DB); err != nil {
		panic(err)
	}
}

func buildDSN(host string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		host,
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)
}

// GetDB returns the shared gorm handle.
func GetDB() *gorm.DB {
	return DB
}
