package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/skillora/skillora-api/config"
	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
)

// Match score weights. The four components are capped at their weight and can
// never go negative, so the total stays within [0,100] by construction.
const (
	skillsWeight   = 40
	locationWeight = 20
	industryWeight = 20
	typeWeight     = 10
	placementBonus = 10

	// Fallback scores when the posting or profile gives nothing to match on
	skillsNoRequirementScore   = 20
	preferencePartialScore     = 15
	preferenceUndeclaredScore  = 10
	typeGenericInternshipScore = 8
	placementNotReadyScore     = 5

	recommendationLimit  = 10
	unscoredFallbackSize = 5
)

// MatchingService scores student profiles against internship postings and
// produces ranked recommendations.
type MatchingService struct {
	db       *gorm.DB
	defaults config.CourseDefaultsMap
}

// NewMatchingService creates a new matching service. The course defaults map
// backs skill suggestions for students enrolled in catalog courses.
func NewMatchingService(db *gorm.DB, defaults config.CourseDefaultsMap) *MatchingService {
	return &MatchingService{db: db, defaults: defaults}
}

// Score computes the weighted match score between a student profile and an
// internship posting. The result is always within [0,100]; a missing profile
// scores 0 so that nobody gets recommendations blind. The internship's
// Company.CompanyProfile association supplies the industry when preloaded.
func (s *MatchingService) Score(profile *model.StudentProfile, internship *model.Internship) int {
	if profile == nil {
		return 0
	}

	score := scoreSkills(profile.SkillSet(), internship.RequiredSkillSet())
	score += scorePreference(profile.LocationSet(), internship.Location)
	score += scorePreference(profile.IndustrySet(), companyIndustry(internship))
	score += scoreType(profile.InternshipPreference, internship.Type)
	score += scorePlacement(profile.IsPlacementReady, internship.HasPlacementPotential)

	// Safety net; the component caps already keep the sum within range.
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func companyIndustry(internship *model.Internship) string {
	if internship.Company.CompanyProfile != nil {
		return internship.Company.CompanyProfile.Industry
	}
	return ""
}

// scoreSkills awards up to 40 points for required-skill overlap. A posting
// that requires no skills contributes a flat 20 regardless of the student's
// skill set.
func scoreSkills(studentSkills, requiredSkills []string) int {
	if len(requiredSkills) == 0 {
		return skillsNoRequirementScore
	}

	have := make(map[string]struct{}, len(studentSkills))
	for _, skill := range studentSkills {
		have[skill] = struct{}{}
	}

	matched := 0
	for _, required := range requiredSkills {
		if _, ok := have[required]; ok {
			matched++
		}
	}

	return int(math.Round(skillsWeight * float64(matched) / float64(len(requiredSkills))))
}

// scorePreference awards up to 20 points for a location or industry
// preference: 20 for an exact case-insensitive match, 15 for a substring
// match, 10 when the student declared no preference at all, 0 otherwise.
func scorePreference(preferences []string, actual string) int {
	if len(preferences) == 0 {
		return preferenceUndeclaredScore
	}

	target := strings.ToLower(strings.TrimSpace(actual))
	if target == "" {
		return 0
	}

	for _, pref := range preferences {
		if pref == target {
			return locationWeight
		}
	}
	for _, pref := range preferences {
		if strings.Contains(target, pref) || strings.Contains(pref, target) {
			return preferencePartialScore
		}
	}
	return 0
}

// scoreType awards up to 10 points for posting type fit. A student with the
// generic "internship" preference still gets partial credit for industrial
// training postings.
func scoreType(preference, postingType string) int {
	if preference == postingType {
		return typeWeight
	}
	if preference == model.PreferenceInternship &&
		(postingType == model.InternshipTypeInternship || postingType == model.InternshipTypeIndustrialTraining) {
		return typeGenericInternshipScore
	}
	return 0
}

// scorePlacement awards up to 10 points for placement potential: the full
// bonus for a placement-ready student, half when the posting has potential
// but the student is not ready yet.
func scorePlacement(placementReady, hasPotential bool) int {
	if !hasPotential {
		return 0
	}
	if placementReady {
		return placementBonus
	}
	return placementNotReadyScore
}

// ScoredInternship pairs a candidate posting with its match score.
type ScoredInternship struct {
	Internship model.Internship `json:"internship"`
	Score      int              `json:"score"`
}

// Recommend returns the student's top internship recommendations: published
// postings with a future deadline and free seats that the student has not
// applied to, ranked by score. Ties keep enumeration order (stable sort).
// A student without a profile gets the first few published postings unscored.
func (s *MatchingService) Recommend(ctx context.Context, studentID uint) ([]ScoredInternship, error) {
	db := s.db.WithContext(ctx)
	now := time.Now()

	var profile model.StudentProfile
	hasProfile := true
	if err := db.Where("user_id = ?", studentID).First(&profile).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		hasProfile = false
	}

	query := db.Preload("Company.CompanyProfile").
		Where("status = ? AND application_deadline > ?", model.InternshipStatusPublished, now).
		Order("created_at DESC")

	if !hasProfile {
		var fallback []model.Internship
		if err := query.Limit(unscoredFallbackSize).Find(&fallback).Error; err != nil {
			return nil, err
		}
		out := make([]ScoredInternship, 0, len(fallback))
		for _, internship := range fallback {
			out = append(out, ScoredInternship{Internship: internship})
		}
		return out, nil
	}

	var candidates []model.Internship
	err := query.
		Where("id NOT IN (?)", db.Model(&model.InternshipApplication{}).
			Select("internship_id").
			Where("student_id = ?", studentID)).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredInternship, 0, len(candidates))
	for _, internship := range candidates {
		remaining, err := SeatsRemaining(db, &internship)
		if err != nil {
			return nil, err
		}
		if remaining <= 0 {
			continue
		}
		internship := internship
		scored = append(scored, ScoredInternship{
			Internship: internship,
			Score:      s.Score(&profile, &internship),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > recommendationLimit {
		scored = scored[:recommendationLimit]
	}
	return scored, nil
}

// SuggestSkills returns the default skill list for a course title, if the
// catalog knows it. Used to prefill student profiles after course completion.
func (s *MatchingService) SuggestSkills(courseTitle string) []string {
	if d, ok := s.defaults.Lookup(courseTitle); ok {
		return model.SplitCSV(d.Skills)
	}
	return nil
}

// SeatsRemaining derives the free seat count for a posting from the number
// of confirmed selections, never from manually maintained counters:
// max(0, seats_available - selected applications).
func SeatsRemaining(db *gorm.DB, internship *model.Internship) (int, error) {
	var selected int64
	err := db.Model(&model.InternshipApplication{}).
		Where("internship_id = ? AND status = ?", internship.ID, model.ApplicationStatusSelected).
		Count(&selected).Error
	if err != nil {
		return 0, err
	}

	remaining := internship.SeatsAvailable - int(selected)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
