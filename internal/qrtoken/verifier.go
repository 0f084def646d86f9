package qrtoken

import (
	"github.com/Domenick1991/chargebooking/internal/domain"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Verifier performs the pure, offline half of QR validation: signature,
// structure and expiry, then claim completeness. Everything that needs the
// live booking record happens in the scan service.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify returns the claims of a structurally valid, unexpired, correctly
// signed token. Failures map to the scan taxonomy: broken signature,
// garbage input or a past exp give InvalidOrExpired; a verifiable token
// missing identity claims gives Malformed.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, domain.ScanFailure(domain.ScanInvalidOrExpired)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ScanFailure(domain.ScanInvalidOrExpired)
	}
	if claims.Subject == "" || claims.StationID == "" || claims.OwnerID == "" || claims.ID == "" {
		return nil, domain.ScanFailure(domain.ScanMalformed)
	}
	return claims, nil
}
