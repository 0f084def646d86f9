package qrtoken

import (
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the full claim set of a QR credential. The token is rendered as
// a scannable code, so the set stays minimal: booking identity (sub),
// station, owner, session window, jti, iat and exp.
type Claims struct {
	StationID string `json:"stn"`
	OwnerID   string `json:"own"`
	StartUnix int64  `json:"sts"`
	EndUnix   int64  `json:"ets"`
	jwt.RegisteredClaims
}

type Issued struct {
	Token     string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer mints HS256 session credentials. The signing secret is an external
// concern; the issuer only uses it.
type Issuer struct {
	secret   []byte
	lifetime time.Duration // structural validity past session end
}

func NewIssuer(secret string, lifetime time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), lifetime: lifetime}
}

func (i *Issuer) Issue(booking *domain.Booking) (*Issued, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()
	expiresAt := booking.EndUTC.Add(i.lifetime)

	claims := Claims{
		StationID: booking.StationID,
		OwnerID:   booking.OwnerID,
		StartUnix: booking.StartUTC.Unix(),
		EndUnix:   booking.EndUTC.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   booking.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}
	return &Issued{Token: token, JTI: jti, IssuedAt: now, ExpiresAt: expiresAt}, nil
}
