package uploadstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	now := time.Date(2024, 7, 9, 14, 3, 5, 123456789, time.UTC)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"plain", "house.jpg", "house_20240709140305123456.jpg"},
		{"extension lower-cased", "Front.JPEG", "Front_20240709140305123456.jpeg"},
		{"spaces replaced", "my living room.png", "my_living_room_20240709140305123456.png"},
		{"unix path stripped", "../../etc/passwd", "passwd_20240709140305123456"},
		{"windows path stripped", `C:\Users\ana\kitchen.webp`, "kitchen_20240709140305123456.webp"},
		{"long stem truncated", "abcdefghijklmnopqrstuvwxyz0123456789.gif", "abcdefghijklmnopqrstuvwxyz0123_20240709140305123456.gif"},
		{"dotfile has no extension", ".hidden", ".hidden_20240709140305123456"},
		{"double extension keeps last", "archive.tar.GZ", "archive.tar_20240709140305123456.gz"},
		{"empty", "", "_20240709140305123456"},
		{"dot dot", "..", "_20240709140305123456"},
		{"multibyte stem", "cañón con jardín y vista al mar.jpg", "cañón_con_jardín_y_vista_al_ma_20240709140305123456.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.original, now))
		})
	}
}

func TestSafeNameUsesUTC(t *testing.T) {
	lima := time.FixedZone("PET", -5*3600)
	now := time.Date(2024, 7, 9, 9, 3, 5, 0, lima)

	assert.Equal(t, "a_20240709140305000000.png", SafeName("a.png", now))
}
