package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
)

func TestMemberStatistics(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewStatsService(db)

	cell := seedCell(t, db, "Stats Cell")
	ministry := seedMinistry(t, db, "Stats Ministry")

	young := seedMember(t, db, "young@example.com", func(m *models.Member) {
		m.Gender = models.GenderMale
		m.DateOfBirth = timePtr(time.Now().AddDate(-10, 0, 0))
		m.CellID = &cell.CellID
	})
	seedMember(t, db, "adult@example.com", func(m *models.Member) {
		m.DateOfBirth = timePtr(time.Now().AddDate(-30, 0, 0))
	})
	seedMember(t, db, "unknownage@example.com", func(m *models.Member) {
		m.IsActive = false
	})
	require.NoError(t, db.Create(&models.MemberMinistry{MemberID: young.MemberID, MinistryID: ministry.MinistryID}).Error)

	stats, err := service.MemberStatistics()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(1), stats.Inactive)
	assert.Equal(t, int64(1), stats.ByGender["male"])
	assert.Equal(t, int64(2), stats.ByGender["female"])

	cellCounts := groupCountMap(stats.ByCell)
	assert.Equal(t, int64(1), cellCounts["Stats Cell"])
	assert.Equal(t, int64(2), cellCounts["unassigned"])

	ministryCounts := groupCountMap(stats.ByMinistry)
	assert.Equal(t, int64(1), ministryCounts["Stats Ministry"])

	ageCounts := groupCountMap(stats.ByAgeRange)
	assert.Equal(t, int64(1), ageCounts["0-12"])
	assert.Equal(t, int64(1), ageCounts["26-35"])
	assert.Equal(t, int64(1), ageCounts["unknown"])
	// Every labelled bucket is present even when empty
	assert.Len(t, stats.ByAgeRange, len(models.AgeBucketLabels)+1)
}

func TestContributionStatisticsByMonth(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewStatsService(db)

	january := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	seedContribution(t, db, nil, 1000, january)
	seedContribution(t, db, nil, 3000, january)
	seedContribution(t, db, nil, 2000, time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC))
	// A prior year's gift must not leak into the result
	seedContribution(t, db, nil, 9999, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	stats, err := service.ContributionStatistics(2026, "")
	require.NoError(t, err)

	assert.Equal(t, 2026, stats.Year)
	assert.Equal(t, "month", stats.GroupBy)
	assert.Equal(t, int64(3), stats.TotalCount)
	assert.Equal(t, int64(6000), stats.TotalCents)
	assert.Equal(t, int64(2000), stats.AverageCents)
	require.Len(t, stats.Buckets, 12)

	assert.Equal(t, "2026-01", stats.Buckets[0].Key)
	assert.Equal(t, int64(2), stats.Buckets[0].Count)
	assert.Equal(t, int64(4000), stats.Buckets[0].SumCents)
	assert.Equal(t, int64(2000), stats.Buckets[0].AverageCents)

	assert.Equal(t, "2026-07", stats.Buckets[6].Key)
	assert.Equal(t, int64(1), stats.Buckets[6].Count)

	// Empty months stay in the series with zero counts
	assert.Equal(t, "2026-02", stats.Buckets[1].Key)
	assert.Zero(t, stats.Buckets[1].Count)
}

func TestContributionStatisticsByType(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewStatsService(db)

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedContribution(t, db, nil, 1000, at)

	offering := &models.Contribution{
		ContributionID: "con_offering",
		AmountCents:    500,
		Type:           models.ContributionTypeOffering,
		Method:         models.ContributionMethodCard,
		ContributedAt:  at,
	}
	require.NoError(t, db.Create(offering).Error)

	stats, err := service.ContributionStatistics(2026, "type")
	require.NoError(t, err)
	require.Len(t, stats.Buckets, 4)

	byKey := make(map[string]models.ContributionBucket)
	for _, b := range stats.Buckets {
		byKey[b.Key] = b
	}
	assert.Equal(t, int64(1000), byKey["tithe"].SumCents)
	assert.Equal(t, int64(500), byKey["offering"].SumCents)
	assert.Zero(t, byKey["pledge"].Count)

	_, err = service.ContributionStatistics(2026, "week")
	require.Error(t, err)
	assert.Equal(t, 400, apierrors.HTTPStatus(err))
}

func TestEventStatistics(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewStatsService(db)

	organizer := seedMember(t, db, "organizer@example.com")
	attendee := seedMember(t, db, "attendee@example.com")

	inYear := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	completed := seedEvent(t, db, organizer.MemberID, func(e *models.Event) {
		e.StartsAt = inYear
		e.EndsAt = inYear.Add(2 * time.Hour)
		e.Status = models.EventStatusCompleted
	})
	seedEvent(t, db, organizer.MemberID, func(e *models.Event) {
		e.StartsAt = inYear.AddDate(0, 1, 0)
		e.EndsAt = inYear.AddDate(0, 1, 0).Add(time.Hour)
		e.Status = models.EventStatusCancelled
	})
	// Outside the requested year
	seedEvent(t, db, organizer.MemberID, func(e *models.Event) {
		e.StartsAt = inYear.AddDate(-1, 0, 0)
		e.EndsAt = inYear.AddDate(-1, 0, 0).Add(time.Hour)
		e.Status = models.EventStatusCompleted
	})

	require.NoError(t, db.Create(&models.EventRegistration{EventID: completed.EventID, MemberID: organizer.MemberID}).Error)
	require.NoError(t, db.Create(&models.EventRegistration{EventID: completed.EventID, MemberID: attendee.MemberID}).Error)
	require.NoError(t, db.Create(&models.EventAttendance{EventID: completed.EventID, MemberID: attendee.MemberID}).Error)

	stats, err := service.EventStatistics(2026)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.EventsHeld)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(2), stats.Registrations)
	assert.Equal(t, int64(1), stats.Attendance)
	assert.InDelta(t, 0.5, stats.AttendanceRate, 0.001)
}

func groupCountMap(groups []models.GroupCount) map[string]int64 {
	result := make(map[string]int64, len(groups))
	for _, g := range groups {
		result[g.Key] = g.Count
	}
	return result
}
