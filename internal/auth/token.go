package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/remservice/motor-backoffice/internal/model"
)

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer выпускает HS256 access-токены с идентификатором пользователя
// в subject.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(user model.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	return token.SignedString(i.secret)
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(raw string) (model.Principal, error) {
	var parsed claims
	token, err := jwt.ParseWithClaims(raw, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid subject: %w", err)
	}
	return model.Principal{UserID: userID, Email: parsed.Email}, nil
}
