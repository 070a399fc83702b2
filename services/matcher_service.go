package services

import (
	"context"
	"sort"

	"sevasetu-backend/location"
	"sevasetu-backend/models"
	"sevasetu-backend/repository"
	"sevasetu-backend/utils/logger"
)

// MatcherService finds eligible volunteers for a location and selects the
// least-loaded candidate. It is read-only: selection never mutates state.
type MatcherService struct {
	userRepo repository.UserRepositoryInterface
	taskRepo repository.TaskRepositoryInterface
	logger   logger.Logger
}

// NewMatcherService creates a new matcher service
func NewMatcherService(userRepo repository.UserRepositoryInterface, taskRepo repository.TaskRepositoryInterface, log logger.Logger) *MatcherService {
	return &MatcherService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		logger:   log,
	}
}

// FindByLocation returns approved volunteers whose city exactly matches
// loc. An empty result is valid, not an error.
func (s *MatcherService) FindByLocation(ctx context.Context, loc string) ([]*models.User, error) {
	volunteers, err := s.userRepo.FindApprovedVolunteersByLocation(ctx, loc)
	if err != nil {
		return nil, classifyStoreError(err, "find volunteers by location")
	}
	return volunteers, nil
}

// FindAvailable walks location.MatchOrder and returns the first city with
// any approved volunteers. The fallback goes exactly one hop: nearby
// cities of nearby cities are never consulted.
func (s *MatcherService) FindAvailable(ctx context.Context, loc string) ([]*models.User, error) {
	for i, city := range location.MatchOrder(loc) {
		volunteers, err := s.FindByLocation(ctx, city)
		if err != nil {
			return nil, err
		}
		if len(volunteers) > 0 {
			if i > 0 {
				s.logger.Infof("No volunteers in %s, falling back to %s", loc, city)
			}
			return volunteers, nil
		}
	}
	return nil, nil
}

// WorkloadOf counts a volunteer's in-flight tasks: assigned and not yet
// delivered, across both kinds.
func (s *MatcherService) WorkloadOf(ctx context.Context, volunteerID string) (int, error) {
	tasks, err := s.taskRepo.ListAssignedTo(ctx, volunteerID)
	if err != nil {
		return 0, classifyStoreError(err, "compute volunteer workload")
	}
	count := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusAccepted || t.Status == models.TaskStatusPicked {
			count++
		}
	}
	return count, nil
}

// SelectBest returns the least-loaded available volunteer for loc, after
// removing excluded candidates. Ties break by candidate id so the result
// is deterministic. Returns nil when no eligible candidate remains.
func (s *MatcherService) SelectBest(ctx context.Context, loc string, excluding map[string]bool) (*models.User, error) {
	candidates, err := s.FindAvailable(ctx, loc)
	if err != nil {
		return nil, err
	}

	var eligible []*models.User
	for _, v := range candidates {
		if !excluding[v.ID] {
			eligible = append(eligible, v)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	var best *models.User
	bestLoad := 0
	for _, v := range eligible {
		load, err := s.WorkloadOf(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		if best == nil || load < bestLoad {
			best = v
			bestLoad = load
		}
	}
	return best, nil
}
