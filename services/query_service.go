// services/query_service.go
package services

import (
	"context"
	"strings"

	"nird-resistance/models"

	"gorm.io/gorm"
)

const (
	DefaultPage             = 1
	DefaultPageSize         = 20
	MaxPageSize             = 100
	SearchLimit             = 20
	RecentWarriorsLimit     = 10
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// ListFilter holds the optional exact-match filters of ListWarriors. Empty means "any".
type ListFilter struct {
	Mission string
	Status  string
	Village string
}

// WarriorPage is one page of ListWarriors.
type WarriorPage struct {
	Warriors   []models.Warrior
	Total      int64
	TotalPages int
	Page       int
	Limit      int
}

// MissionStat aggregates warriors of one mission.
type MissionStat struct {
	Mission     models.Mission `json:"mission"`
	Count       int64          `json:"count"`
	TotalImpact int64          `json:"totalImpact"`
}

// CampaignGoals are the configured campaign targets.
type CampaignGoals struct {
	Year           int
	TargetWarriors int
	TargetSchools  int
	CurrentSchools int
	TargetDevices  int
	CurrentDevices int
	LicensesSaved  int
}

type GoalsReport struct {
	Year            int   `json:"year"`
	TargetSchools   int   `json:"targetSchools"`
	CurrentSchools  int   `json:"currentSchools"`
	TargetDevices   int   `json:"targetDevices"`
	CurrentDevices  int   `json:"currentDevices"`
	TargetWarriors  int   `json:"targetWarriors"`
	CurrentWarriors int64 `json:"currentWarriors"`
}

type ImpactMetrics struct {
	DevicesReconditioned int `json:"devicesReconditioned"`
	LicensesSaved        int `json:"licensesSaved"`
	SchoolsLiberated     int `json:"schoolsLiberated"`
}

// Stats is the dashboard aggregate.
type Stats struct {
	TotalWarriors  int64                   `json:"totalWarriors"`
	MissionStats   []MissionStat           `json:"missionStats"`
	RecentWarriors []models.WarriorSummary `json:"recentWarriors"`
	Goals          GoalsReport             `json:"goals"`
	ImpactMetrics  ImpactMetrics           `json:"impactMetrics"`
}

// QueryService serves every read over the warriors table.
type QueryService struct {
	DB    *gorm.DB
	Goals CampaignGoals
}

func NewQueryService(db *gorm.DB, goals CampaignGoals) *QueryService {
	return &QueryService{DB: db, Goals: goals}
}

// ListWarriors filters, sorts by impactScore then joinDate (both descending) and paginates.
func (s *QueryService) ListWarriors(ctx context.Context, filter ListFilter, page, limit int) (*WarriorPage, error) {
	if page < 1 {
		return nil, invalidField("page", "page must be a positive integer")
	}
	if limit < 1 {
		return nil, invalidField("limit", "limit must be a positive integer")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := s.DB.WithContext(ctx).Model(&models.Warrior{})
	if filter.Mission != "" {
		if !models.Mission(filter.Mission).Valid() {
			return nil, invalidField("mission", "mission must be one of contact, donate, volunteer, info")
		}
		q = q.Where("mission = ?", filter.Mission)
	}
	if filter.Status != "" {
		if !models.WarriorStatus(filter.Status).Valid() {
			return nil, invalidField("status", "status must be one of active, inactive, veteran")
		}
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Village != "" {
		if !models.Village(filter.Village).Valid() {
			return nil, invalidField("village", "village must be one of Principal, Nord, Sud, Est, Ouest, Central")
		}
		q = q.Where("village = ?", filter.Village)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, storageError("count warriors", err)
	}

	warriors := []models.Warrior{}
	err := q.Session(&gorm.Session{}).
		Preload("Achievements", orderAchievements).
		Order("impact_score DESC").Order("join_date DESC").Order("id ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&warriors).Error
	if err != nil {
		return nil, storageError("list warriors", err)
	}
	if warriors == nil {
		warriors = []models.Warrior{}
	}

	return &WarriorPage{
		Warriors:   warriors,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Page:       page,
		Limit:      limit,
	}, nil
}

// GetWarrior is the exact lookup by id.
func (s *QueryService) GetWarrior(ctx context.Context, id string) (*models.Warrior, error) {
	return findWarrior(s.DB.WithContext(ctx), id)
}

// SearchWarriors matches query case-insensitively as a literal substring of name, email,
// village or badge. At most SearchLimit results, oldest first.
func (s *QueryService) SearchWarriors(ctx context.Context, query string) ([]models.Warrior, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidField("query", "search query is required")
	}
	query = strings.ReplaceAll(query, models.SearchSeparator, " ")
	pattern := "%" + escapeLike(models.FoldSearch(query)) + "%"

	warriors := []models.Warrior{}
	err := s.DB.WithContext(ctx).
		Preload("Achievements", orderAchievements).
		Where(`search_key LIKE ? ESCAPE '\'`, pattern).
		Order("join_date ASC").Order("id ASC").
		Limit(SearchLimit).
		Find(&warriors).Error
	if err != nil {
		return nil, storageError("search warriors", err)
	}
	if warriors == nil {
		warriors = []models.Warrior{}
	}
	return warriors, nil
}

// Stats returns the total, per-mission aggregates, the most recent joiners and campaign goals.
func (s *QueryService) Stats(ctx context.Context) (*Stats, error) {
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Warrior{}).Count(&total).Error; err != nil {
		return nil, storageError("count warriors", err)
	}

	missionStats := []MissionStat{}
	err := db.Model(&models.Warrior{}).
		Select("mission, COUNT(*) AS count, COALESCE(SUM(impact_score), 0) AS total_impact").
		Group("mission").
		Order("mission ASC").
		Scan(&missionStats).Error
	if err != nil {
		return nil, storageError("aggregate missions", err)
	}
	if missionStats == nil {
		missionStats = []MissionStat{}
	}

	var recent []models.Warrior
	err = db.Select("id", "name", "badge", "impact_score", "village", "join_date").
		Order("join_date DESC").Order("id ASC").
		Limit(RecentWarriorsLimit).
		Find(&recent).Error
	if err != nil {
		return nil, storageError("recent warriors", err)
	}

	recentWarriors := make([]models.WarriorSummary, 0, len(recent))
	for _, w := range recent {
		joined := w.JoinDate
		recentWarriors = append(recentWarriors, models.WarriorSummary{
			ID:          w.ID,
			Name:        w.Name,
			Badge:       w.Badge,
			ImpactScore: w.ImpactScore,
			Village:     w.Village,
			JoinDate:    &joined,
		})
	}

	return &Stats{
		TotalWarriors:  total,
		MissionStats:   missionStats,
		RecentWarriors: recentWarriors,
		Goals: GoalsReport{
			Year:            s.Goals.Year,
			TargetSchools:   s.Goals.TargetSchools,
			CurrentSchools:  s.Goals.CurrentSchools,
			TargetDevices:   s.Goals.TargetDevices,
			CurrentDevices:  s.Goals.CurrentDevices,
			TargetWarriors:  s.Goals.TargetWarriors,
			CurrentWarriors: total,
		},
		ImpactMetrics: ImpactMetrics{
			DevicesReconditioned: s.Goals.CurrentDevices,
			LicensesSaved:        s.Goals.LicensesSaved,
			SchoolsLiberated:     s.Goals.CurrentSchools,
		},
	}, nil
}

// Leaderboard returns the top n warriors by impactScore, ties broken by most recent joinDate.
// n is clamped to [1, MaxLeaderboardLimit].
func (s *QueryService) Leaderboard(ctx context.Context, n int) ([]models.WarriorSummary, error) {
	n = min(max(n, 1), MaxLeaderboardLimit)

	var top []models.Warrior
	err := s.DB.WithContext(ctx).
		Select("id", "name", "badge", "impact_score", "village", "mission").
		Order("impact_score DESC").Order("join_date DESC").Order("id ASC").
		Limit(n).
		Find(&top).Error
	if err != nil {
		return nil, storageError("leaderboard", err)
	}

	board := make([]models.WarriorSummary, 0, len(top))
	for _, w := range top {
		board = append(board, models.WarriorSummary{
			ID:          w.ID,
			Name:        w.Name,
			Badge:       w.Badge,
			ImpactScore: w.ImpactScore,
			Village:     w.Village,
			Mission:     w.Mission,
		})
	}
	return board, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
