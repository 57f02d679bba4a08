package category

import (
	"crypto/sha256"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type Kind string

const (
	KindExpense Kind = "EXPENSE"
	KindIncome  Kind = "INCOME"
	KindSavings Kind = "SAVINGS"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindExpense, KindIncome, KindSavings:
		return true
	}
	return false
}

// Category classifies movements. Savings goals may only point at SAVINGS categories.
type Category struct {
	Id          ulid.ULID `json:"id"`
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DefaultCategoryDefinition struct {
	Kind Kind
	Name string
	Icon string
}

var DefaultCategories = []DefaultCategoryDefinition{
	{Kind: KindExpense, Name: "Alimentação", Icon: "food"},
	{Kind: KindExpense, Name: "Transporte", Icon: "car"},
	{Kind: KindExpense, Name: "Moradia", Icon: "home"},
	{Kind: KindExpense, Name: "Saúde", Icon: "health"},
	{Kind: KindExpense, Name: "Lazer", Icon: "entertainment"},
	{Kind: KindIncome, Name: "Salário", Icon: "salary"},
	{Kind: KindIncome, Name: "Freelance", Icon: "freelance"},
	{Kind: KindSavings, Name: "Reserva de Emergência", Icon: "shield"},
	{Kind: KindSavings, Name: "Viagem", Icon: "plane"},
	{Kind: KindSavings, Name: "Educação", Icon: "education"},
	{Kind: KindSavings, Name: "Metas", Icon: "target"},
}

func DefaultCategoryList(now time.Time) []*Category {
	categories := make([]*Category, 0, len(DefaultCategories))
	for _, def := range DefaultCategories {
		categories = append(categories, &Category{
			Id:        GenerateDeterministicID(def.Kind, def.Name),
			Kind:      def.Kind,
			Name:      def.Name,
			Icon:      def.Icon,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return categories
}

// GenerateDeterministicID gives every default category the same id on every
// installation, so seeding twice never duplicates rows.
func GenerateDeterministicID(kind Kind, name string) ulid.ULID {
	hash := sha256.Sum256([]byte("default_category:" + string(kind) + ":" + NormalizeName(name)))

	timestamp := ulid.Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	entropy := [10]byte{}
	copy(entropy[:], hash[:10])

	return ulid.MustNew(timestamp, &deterministicReader{data: entropy[:]})
}

type deterministicReader struct {
	data []byte
	pos  int
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.pos >= len(r.data) {
		r.pos = 0
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	if r.pos >= len(r.data) {
		r.pos = 0
	}
	return n, nil
}

// NormalizeName trims and title-cases every word.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	normalized := make([]string, 0, len(words))
	for _, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		normalized = append(normalized, string(runes))
	}
	return strings.Join(normalized, " ")
}
