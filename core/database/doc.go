// Package database handles the optional run journal database connection.
//
// It wraps GORM and configures either a MySQL or a SQLite connection from the
// application's configuration. Connection pooling and timeouts are set here so
// feature packages only deal with models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logg.Warn("Run journal disabled", zap.Error(err))
//	}
package database
