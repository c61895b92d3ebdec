// Package database opens the SQLite database shared by the knowledge base
// and the rewrite history.
//
//	database/
//	├── database.go   # Connection setup and migrations
//	├── knowledge/    # Indexed sources and their chunks
//	└── history/      # One row per processed segment
//
// Each sub-package provides a Repository built on the *gorm.DB:
//
//	db, err := database.NewDatabase("./lecture-agent.db")
//	chunks := knowledge.NewRepository(db.DB)
//	events := history.NewRepository(db.DB)
package database
