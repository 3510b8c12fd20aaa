package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tindaph/tinda-backend/internal/config"
	"github.com/tindaph/tinda-backend/internal/model"
)

func TestBuildDSN(t *testing.T) {
	base := config.Config{DBUser: "app", DBPassword: "pw", DBName: "tinda", DBPort: "3306"}
	tests := []struct {
		name   string
		host   string
		icn    string
		prefix string
	}{
		{"bare host", "10.0.0.5", "", "app:pw@tcp(10.0.0.5:3306)/tinda?"},
		{"tcp wrapped", "tcp(db:3307)", "", "app:pw@tcp(db:3307)/tinda?"},
		{"unix wrapped", "unix(/tmp/mysql.sock)", "", "app:pw@unix(/tmp/mysql.sock)/tinda?"},
		{"socket path", "/var/run/mysqld.sock", "", "app:pw@unix(/var/run/mysqld.sock)/tinda?"},
		{"cloud sql wins", "ignored", "proj:asia-southeast1:db", "app:pw@unix(/cloudsql/proj:asia-southeast1:db)/tinda?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.DBHost = tt.host
			cfg.InstanceConnectionName = tt.icn
			dsn := BuildDSN(&cfg)
			assert.Contains(t, dsn, tt.prefix)
			assert.Contains(t, dsn, "charset=utf8mb4")
			assert.Contains(t, dsn, "parseTime=true")
		})
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), &config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestNewTestDBMigrates(t *testing.T) {
	gdb := NewTestDB(t)
	for _, m := range model.All() {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}

	u := &model.User{Email: "a@b.c", Name: "A", Role: model.RoleUser}
	require.NoError(t, gdb.Create(u).Error)
	assert.Len(t, u.ID, 36)
}
