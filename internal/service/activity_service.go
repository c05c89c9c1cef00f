package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

type actorContextKey struct{}

// WithActor attaches the acting user to ctx.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFrom returns the acting user stored in ctx, or a system actor.
func ActorFrom(ctx context.Context) models.Actor {
	if ctx != nil {
		if actor, ok := ctx.Value(actorContextKey{}).(models.Actor); ok && strings.TrimSpace(actor.Name) != "" {
			return actor
		}
	}
	return models.Actor{Name: "Sistem"}
}

type activityRepository interface {
	Append(entry models.Activity) error
	List() []models.Activity
}

// ActivityRecorder is implemented by services that log user actions.
type ActivityRecorder interface {
	Record(ctx context.Context, activityType models.ActivityType, entity, entityID, description string)
}

// ActivityService maintains the dashboard activity log.
type ActivityService struct {
	repo     activityRepository
	logger   *zap.Logger
	onRecord []func(ctx context.Context, entry models.Activity)
	now      func() time.Time
}

// NewActivityService constructs the service.
func NewActivityService(repo activityRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger, now: time.Now}
}

// OnRecord registers fn to run after every recorded entry.
func (s *ActivityService) OnRecord(fn func(ctx context.Context, entry models.Activity)) {
	s.onRecord = append(s.onRecord, fn)
}

// Record appends an entry attributed to the actor in ctx. Failures are logged only.
func (s *ActivityService) Record(ctx context.Context, activityType models.ActivityType, entity, entityID, description string) {
	if s == nil {
		return
	}
	actor := ActorFrom(ctx)
	entry := models.Activity{
		ID:          uuid.NewString(),
		User:        actor.Name,
		Faculty:     actor.Faculty,
		Department:  actor.Department,
		Type:        activityType,
		Entity:      entity,
		EntityID:    entityID,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Append(entry); err != nil {
		s.logger.Warn("failed to record activity", zap.String("entity", entity), zap.Error(err))
		return
	}
	for _, fn := range s.onRecord {
		fn(ctx, entry)
	}
}

// ActivityListRequest filters the activity log.
type ActivityListRequest struct {
	Search     string
	Faculty    string
	Department string
	Type       string
	Entity     string
	Page       int
	PageSize   int
}

// List returns entries newest first, filtered and paginated.
func (s *ActivityService) List(_ context.Context, req ActivityListRequest) ([]models.Activity, *models.Pagination, error) {
	page, size := normalisePage(req.Page, req.PageSize)
	search := strings.ToLower(strings.TrimSpace(req.Search))

	matched := make([]models.Activity, 0)
	for _, entry := range s.repo.List() {
		if req.Faculty != "" && !strings.EqualFold(entry.Faculty, req.Faculty) {
			continue
		}
		if req.Department != "" && !strings.EqualFold(entry.Department, req.Department) {
			continue
		}
		if req.Type != "" && !strings.EqualFold(string(entry.Type), req.Type) {
			continue
		}
		if req.Entity != "" && !strings.EqualFold(entry.Entity, req.Entity) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(entry.User), search) &&
			!strings.Contains(strings.ToLower(entry.Description), search) {
			continue
		}
		matched = append(matched, entry)
	}
	return paginate(matched, page, size), models.NewPagination(page, size, len(matched)), nil
}

// Recent returns the newest n entries.
func (s *ActivityService) Recent(n int) []models.Activity {
	entries := s.repo.List()
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

type noopActivity struct{}

func (noopActivity) Record(context.Context, models.ActivityType, string, string, string) {}
