package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
)

// StatsService computes aggregate statistics over the congregation data.
// Counting and grouping run in SQL; the date arithmetic (age buckets, month
// bucketing) runs in memory so the same queries work on PostgreSQL and the
// SQLite test databases.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type groupRow struct {
	Key   string
	Count int64
}

// MemberStatistics computes the member overview: totals, gender split, and
// distributions across cells, ministries, and age ranges.
func (s *StatsService) MemberStatistics() (*models.MemberStats, error) {
	stats := &models.MemberStats{ByGender: make(map[string]int64)}

	if err := s.db.Model(&models.Member{}).Count(&stats.Total).Error; err != nil {
		return nil, apierrors.DatabaseError("count members", err)
	}
	if err := s.db.Model(&models.Member{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, apierrors.DatabaseError("count active members", err)
	}
	stats.Inactive = stats.Total - stats.Active

	var genderRows []groupRow
	err := s.db.Model(&models.Member{}).
		Select("gender as key, COUNT(*) as count").
		Group("gender").
		Scan(&genderRows).Error
	if err != nil {
		return nil, apierrors.DatabaseError("group members by gender", err)
	}
	for _, row := range genderRows {
		key := row.Key
		if key == "" {
			key = "unknown"
		}
		stats.ByGender[key] = row.Count
	}

	var cellRows []groupRow
	err = s.db.Model(&models.Member{}).
		Select("COALESCE(cells.name, 'unassigned') as key, COUNT(*) as count").
		Joins("LEFT JOIN cells ON cells.cell_id = members.cell_id").
		Group("cells.name").
		Order("count desc").
		Scan(&cellRows).Error
	if err != nil {
		return nil, apierrors.DatabaseError("group members by cell", err)
	}
	stats.ByCell = rowsToGroupCounts(cellRows)

	var ministryRows []groupRow
	err = s.db.Model(&models.MemberMinistry{}).
		Select("ministries.name as key, COUNT(*) as count").
		Joins("JOIN ministries ON ministries.ministry_id = member_ministries.ministry_id").
		Group("ministries.name").
		Order("count desc").
		Scan(&ministryRows).Error
	if err != nil {
		return nil, apierrors.DatabaseError("group members by ministry", err)
	}
	stats.ByMinistry = rowsToGroupCounts(ministryRows)

	ageRanges, err := s.memberAgeRanges()
	if err != nil {
		return nil, err
	}
	stats.ByAgeRange = ageRanges

	return stats, nil
}

// memberAgeRanges buckets members into the fixed age histogram. Members
// without a recorded birth date land in the trailing "unknown" bucket.
func (s *StatsService) memberAgeRanges() ([]models.GroupCount, error) {
	var members []models.Member
	if err := s.db.Select("date_of_birth").Find(&members).Error; err != nil {
		return nil, apierrors.DatabaseError("load member birth dates", err)
	}

	counts := make([]int64, len(models.AgeBucketLabels))
	var unknown int64
	now := time.Now()

	for i := range members {
		age := members[i].Age(now)
		if age < 0 {
			unknown++
			continue
		}

		bucket := len(models.AgeBucketLabels) - 1 // open-ended top bucket
		for j, upper := range models.AgeBucketUpperBounds {
			if age <= upper {
				bucket = j
				break
			}
		}
		counts[bucket]++
	}

	result := make([]models.GroupCount, 0, len(models.AgeBucketLabels)+1)
	for i, label := range models.AgeBucketLabels {
		result = append(result, models.GroupCount{Key: label, Count: counts[i]})
	}
	result = append(result, models.GroupCount{Key: "unknown", Count: unknown})
	return result, nil
}

// ContributionStatistics aggregates contributions for a calendar year grouped
// by month, type, or method. Every bucket of the chosen dimension appears in
// the result, including empty ones, so charts stay stable.
func (s *StatsService) ContributionStatistics(year int, groupBy string) (*models.ContributionStats, error) {
	if year <= 0 {
		year = time.Now().Year()
	}
	if groupBy == "" {
		groupBy = "month"
	}
	if groupBy != "month" && groupBy != "type" && groupBy != "method" {
		return nil, apierrors.ValidationError("INVALID_GROUP_BY", "groupBy must be month, type, or method")
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var contributions []models.Contribution
	err := s.db.
		Select("amount_cents, type, method, contributed_at").
		Where("contributed_at >= ? AND contributed_at < ?", from, to).
		Find(&contributions).Error
	if err != nil {
		return nil, apierrors.DatabaseError("load contributions", err)
	}

	keys := contributionBucketKeys(year, groupBy)
	index := make(map[string]int, len(keys))
	buckets := make([]models.ContributionBucket, len(keys))
	for i, key := range keys {
		buckets[i] = models.ContributionBucket{Key: key}
		index[key] = i
	}

	stats := &models.ContributionStats{Year: year, GroupBy: groupBy}
	for i := range contributions {
		c := &contributions[i]

		var key string
		switch groupBy {
		case "month":
			key = fmt.Sprintf("%04d-%02d", year, int(c.ContributedAt.Month()))
		case "type":
			key = string(c.Type)
		case "method":
			key = string(c.Method)
		}

		idx, ok := index[key]
		if !ok {
			// Unrecognized enum values get their own trailing bucket
			idx = len(buckets)
			buckets = append(buckets, models.ContributionBucket{Key: key})
			index[key] = idx
		}

		buckets[idx].Count++
		buckets[idx].SumCents += c.AmountCents
		stats.TotalCount++
		stats.TotalCents += c.AmountCents
	}

	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].AverageCents = buckets[i].SumCents / buckets[i].Count
		}
	}
	if stats.TotalCount > 0 {
		stats.AverageCents = stats.TotalCents / stats.TotalCount
	}
	stats.Buckets = buckets

	return stats, nil
}

// contributionBucketKeys returns the full key set for a grouping dimension
func contributionBucketKeys(year int, groupBy string) []string {
	switch groupBy {
	case "month":
		keys := make([]string, 12)
		for m := 1; m <= 12; m++ {
			keys[m-1] = fmt.Sprintf("%04d-%02d", year, m)
		}
		return keys
	case "type":
		return []string{
			string(models.ContributionTypeTithe),
			string(models.ContributionTypeOffering),
			string(models.ContributionTypeDonation),
			string(models.ContributionTypePledge),
		}
	case "method":
		return []string{
			string(models.ContributionMethodCash),
			string(models.ContributionMethodBankTransfer),
			string(models.ContributionMethodMobileMoney),
			string(models.ContributionMethodCard),
		}
	}
	return nil
}

// EventStatistics summarizes the events of a calendar year
func (s *StatsService) EventStatistics(year int) (*models.EventStats, error) {
	if year <= 0 {
		year = time.Now().Year()
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	inYear := "starts_at >= ? AND starts_at < ?"

	stats := &models.EventStats{Year: year}

	err := s.db.Model(&models.Event{}).
		Where(inYear, from, to).
		Where("status = ?", models.EventStatusCompleted).
		Count(&stats.EventsHeld).Error
	if err != nil {
		return nil, apierrors.DatabaseError("count completed events", err)
	}

	err = s.db.Model(&models.Event{}).
		Where(inYear, from, to).
		Where("status = ?", models.EventStatusCancelled).
		Count(&stats.Cancelled).Error
	if err != nil {
		return nil, apierrors.DatabaseError("count cancelled events", err)
	}

	err = s.db.Model(&models.EventRegistration{}).
		Where("event_id IN (SELECT event_id FROM events WHERE "+inYear+")", from, to).
		Count(&stats.Registrations).Error
	if err != nil {
		return nil, apierrors.DatabaseError("count event registrations", err)
	}

	err = s.db.Model(&models.EventAttendance{}).
		Where("event_id IN (SELECT event_id FROM events WHERE "+inYear+")", from, to).
		Count(&stats.Attendance).Error
	if err != nil {
		return nil, apierrors.DatabaseError("count event attendance", err)
	}

	if stats.Registrations > 0 {
		stats.AttendanceRate = float64(stats.Attendance) / float64(stats.Registrations)
	}

	return stats, nil
}

// rowsToGroupCounts converts scan rows into the response shape
func rowsToGroupCounts(rows []groupRow) []models.GroupCount {
	result := make([]models.GroupCount, len(rows))
	for i, row := range rows {
		result[i] = models.GroupCount{Key: row.Key, Count: row.Count}
	}
	return result
}
