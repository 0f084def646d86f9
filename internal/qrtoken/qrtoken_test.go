package qrtoken

import (
	"testing"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:        "b-1",
		OwnerID:   "owner-1",
		StationID: "station-1",
		StartUTC:  time.Now().UTC().Add(2 * time.Hour),
		EndUTC:    time.Now().UTC().Add(3 * time.Hour),
	}
}

func TestIssuer_Issue(t *testing.T) {
	booking := testBooking()
	issuer := NewIssuer("test-secret", 30*time.Minute)

	issued, err := issuer.Issue(booking)
	require.NoError(t, err)

	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.JTI)
	assert.True(t, issued.ExpiresAt.Equal(booking.EndUTC.Add(30*time.Minute)))

	claims, err := NewVerifier("test-secret").Verify(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, claims.Subject)
	assert.Equal(t, booking.StationID, claims.StationID)
	assert.Equal(t, booking.OwnerID, claims.OwnerID)
	assert.Equal(t, issued.JTI, claims.ID)
	assert.Equal(t, booking.StartUTC.Unix(), claims.StartUnix)
	assert.Equal(t, booking.EndUTC.Unix(), claims.EndUnix)
}

func TestIssuer_FreshJTIPerIssue(t *testing.T) {
	booking := testBooking()
	issuer := NewIssuer("test-secret", 30*time.Minute)

	first, err := issuer.Issue(booking)
	require.NoError(t, err)
	second, err := issuer.Issue(booking)
	require.NoError(t, err)

	assert.NotEqual(t, first.JTI, second.JTI)
}

func TestVerifier_WrongSecret(t *testing.T) {
	issued, err := NewIssuer("right-secret", 30*time.Minute).Issue(testBooking())
	require.NoError(t, err)

	_, err = NewVerifier("wrong-secret").Verify(issued.Token)
	var scanErr *domain.ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, domain.ScanInvalidOrExpired, scanErr.Code)
}

func TestVerifier_Garbage(t *testing.T) {
	_, err := NewVerifier("test-secret").Verify("not.a.token")
	var scanErr *domain.ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, domain.ScanInvalidOrExpired, scanErr.Code)
}

func TestVerifier_Expired(t *testing.T) {
	booking := testBooking()
	booking.StartUTC = time.Now().UTC().Add(-3 * time.Hour)
	booking.EndUTC = time.Now().UTC().Add(-2 * time.Hour)

	issued, err := NewIssuer("test-secret", 30*time.Minute).Issue(booking)
	require.NoError(t, err)

	_, err = NewVerifier("test-secret").Verify(issued.Token)
	var scanErr *domain.ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, domain.ScanInvalidOrExpired, scanErr.Code)
}

func TestVerifier_MissingClaims(t *testing.T) {
	// Correctly signed and unexpired, but without the identity claims.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewVerifier("test-secret").Verify(token)
	var scanErr *domain.ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, domain.ScanMalformed, scanErr.Code)
}
