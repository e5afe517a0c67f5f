package repomanager

import (
	"io/fs"

	"github.com/dmitrijs2005/bloglist/internal/server/migrations"
)

func migrationsDir() ([]fs.DirEntry, error) {
	return fs.ReadDir(migrations.Migrations, ".")
}
