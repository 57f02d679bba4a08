package pkg

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrEmptyULID   = errors.New("identificador vazio")
	ErrInvalidULID = errors.New("identificador inválido")
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateULIDObject gera ids monotônicos dentro do mesmo milissegundo, então
// parcelas criadas no mesmo lote mantêm a ordem de criação.
func GenerateULIDObject() ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

func ParseULID(s string) (ulid.ULID, error) {
	if s == "" {
		return ulid.ULID{}, ErrEmptyULID
	}
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return ulid.ULID{}, ErrInvalidULID
	}
	return id, nil
}

func ParseOptionalULID(s *string) (*ulid.ULID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := ParseULID(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func IsEmptyULID(id ulid.ULID) bool {
	return id == ulid.ULID{}
}
