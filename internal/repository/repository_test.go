package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewScheduleRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewScheduleRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewStationRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewStationRepository(pool)
	assert.NotNil(t, repo)
}

func TestExcludeParam(t *testing.T) {
	assert.Nil(t, excludeParam(""))

	got := excludeParam("b-1")
	assert.NotNil(t, got)
	assert.Equal(t, "b-1", *got)
}
