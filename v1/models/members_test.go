package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemberAge(t *testing.T) {
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	dob := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	m := &Member{DateOfBirth: &dob}
	assert.Equal(t, 26, m.Age(at))

	// Birthday has not happened yet this year
	dob = time.Date(2000, 6, 16, 0, 0, 0, 0, time.UTC)
	m = &Member{DateOfBirth: &dob}
	assert.Equal(t, 25, m.Age(at))

	m = &Member{}
	assert.Equal(t, -1, m.Age(at))

	// Future dates of birth are treated as unknown
	dob = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m = &Member{DateOfBirth: &dob}
	assert.Equal(t, -1, m.Age(at))
}

func TestMemberFullName(t *testing.T) {
	m := &Member{FirstName: "Grace", LastName: "Mensah"}
	assert.Equal(t, "Grace Mensah", m.FullName())
}
