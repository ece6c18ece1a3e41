package chat

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities_ProductScenario(t *testing.T) {
	ents := ExtractEntities("saya mau cari dress warna merah ukuran m")

	assert.Equal(t, "dress", ents.ProductName)
	assert.Contains(t, ents.ProductKeywords, "dress")
	assert.Equal(t, "merah", ents.Color)
	assert.Equal(t, "m", ents.Size)
	assert.Equal(t, "gamis", ents.Category)
}

func TestExtractEntities_OrderID(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantOrderID string
	}{
		{"hash form", "status order #4521", "4521"},
		{"colon form", "pesanan: 778899 sudah sampai mana", "778899"},
		{"lacak keyword", "tolong lacak 1234", "1234"},
		{"bare number without keyword", "barang 9876 belum sampai", ""},
		{"tracking keyword", "tracking 5566", "5566"},
		{"no digits", "order saya belum sampai", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := ExtractEntities(tt.message)
			assert.Equal(t, tt.wantOrderID, ents.OrderID)
		})
	}
}

func TestExtractEntities_SizeWholeWord(t *testing.T) {
	// "m" must not match inside "mocca" or "merah".
	ents := ExtractEntities("gamis warna mocca")
	assert.Empty(t, ents.Size)

	ents = ExtractEntities("gamis merah ukuran xl")
	assert.Equal(t, "xl", ents.Size)
}

func TestExtractEntities_OrderActionPriority(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantAction OrderAction
	}{
		{"cancel", "tolong batalkan pesanan saya", OrderActionCancel},
		{"return", "saya mau retur barang ini", OrderActionReturn},
		{"refund", "minta refund dong", OrderActionRefund},
		{"cancel wins over refund", "batalkan dan refund pesanan ini", OrderActionCancel},
		{"none", "gamis warna hitam", OrderAction("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := ExtractEntities(tt.message)
			assert.Equal(t, tt.wantAction, ents.OrderAction)
		})
	}
}

func TestExtractEntities_UserStatusAndID(t *testing.T) {
	ents := ExtractEntities("cek status member akun 882 dong")
	assert.True(t, ents.UserStatus)
	assert.Equal(t, "882", ents.UserID)
}

func TestExtractEntities_MenuAndFAQ(t *testing.T) {
	assert.True(t, ExtractEntities("menu bantuan apa saja?").MenuQuery)
	assert.True(t, ExtractEntities("bagaimana metode pembayaran di sini?").GeneralFAQ)
	assert.False(t, ExtractEntities("gamis hitam").MenuQuery)
}

func TestExtractEntities_CategoryFirstMatchWins(t *testing.T) {
	// "gamis" precedes "hijab" in the scan order.
	ents := ExtractEntities("ada gamis yang cocok sama hijab ini?")
	assert.Equal(t, "gamis", ents.Category)

	ents = ExtractEntities("cari khimar instan")
	assert.Equal(t, "hijab", ents.Category)
}

func TestExtractEntities_DefaultCategory(t *testing.T) {
	// Generic product words carry no category keyword of their own.
	ents := ExtractEntities("mau lihat baju terbaru")
	assert.Equal(t, defaultCategory, ents.Category)
}

func TestExtractEntities_Pure(t *testing.T) {
	const msg = "cari gamis merah ukuran m, order #4521"
	first := ExtractEntities(msg)
	second := ExtractEntities(msg)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction is not deterministic: %+v vs %+v", first, second)
	}
}

func TestEntitiesMerge(t *testing.T) {
	base := Entities{
		ProductName: "gamis",
		Color:       "hitam",
		OrderID:     "4521",
	}
	base.Merge(Entities{Color: "merah", Size: "m"})

	assert.Equal(t, "gamis", base.ProductName, "unmentioned field survives")
	assert.Equal(t, "merah", base.Color, "mentioned field overwrites")
	assert.Equal(t, "m", base.Size)
	assert.Equal(t, "4521", base.OrderID)
}

func TestEntitiesIsZero(t *testing.T) {
	assert.True(t, Entities{}.IsZero())
	assert.False(t, Entities{Color: "merah"}.IsZero())
	assert.False(t, Entities{MenuQuery: true}.IsZero())
}
