package database

import (
	"errors"
	"testing"
)

type testRow struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: ":memory:"}, nil, &testRow{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := db.Create(&testRow{Name: "a"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var count int64
	db.Model(&testRow{}).Count(&count)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"}, nil)
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Open() error = %v, want ErrUnknownDriver", err)
	}
}
