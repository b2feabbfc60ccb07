package admins

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound          = errors.New("admin not found")
	ErrDuplicateEmail    = errors.New("an admin with that email already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Admin struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// password holds only the bcrypt digest.
type password struct {
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

// Hash exposes the stored digest for persistence.
func (p *password) Hash() []byte {
	return p.hash
}
