package community

import (
	"context"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/pkg/model"
)

func NewService(repository communityRepository, activityService activityService) *Service {
	return &Service{
		repository:      repository,
		activityService: activityService,
	}
}

type communityRepository interface {
	create(ctx context.Context, community *model.Community) error
	find(ctx context.Context, id uint) (*model.Community, error)
	findAll(ctx context.Context) ([]model.Community, error)
	findMembers(ctx context.Context, id uint) ([]model.User, error)
	addMember(ctx context.Context, community *model.Community, user *model.User) error
	removeMember(ctx context.Context, community *model.Community, user *model.User) error
	isMember(ctx context.Context, communityID uint, userID uint) (bool, error)
}

type activityService interface {
	Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string)
}

type Service struct {
	repository      communityRepository
	activityService activityService
}

// Create creates a community with the creator as its first member.
func (s *Service) Create(ctx context.Context, creator *model.User, name string, description string, imageURL string) (*model.Community, error) {
	community := &model.Community{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		CreatedBy:   creator.ID,
		Members:     []model.User{*creator},
	}

	err := s.repository.create(ctx, community)
	if err != nil {
		return nil, err
	}

	s.activityService.Record(ctx, model.ActivityCommunityCreated, &creator.ID, &community.ID, "New community created")

	return community, nil
}

func (s *Service) Find(ctx context.Context, id uint) (*model.Community, error) {
	return s.repository.find(ctx, id)
}

func (s *Service) FindAll(ctx context.Context) ([]model.Community, error) {
	return s.repository.findAll(ctx)
}

func (s *Service) FindMembers(ctx context.Context, id uint) ([]model.User, error) {
	return s.repository.findMembers(ctx, id)
}

func (s *Service) Join(ctx context.Context, id uint, user *model.User) error {
	community, err := s.repository.find(ctx, id)
	if err != nil {
		return err
	}

	member, err := s.repository.isMember(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if member {
		return errdef.NewDuplicated("user %d is already a member of community %d", user.ID, id)
	}

	err = s.repository.addMember(ctx, community, user)
	if err != nil {
		return err
	}

	s.activityService.Record(ctx, model.ActivityCommunityJoined, &user.ID, &community.ID, "Joined community")

	return nil
}

func (s *Service) Leave(ctx context.Context, id uint, user *model.User) error {
	community, err := s.repository.find(ctx, id)
	if err != nil {
		return err
	}

	member, err := s.repository.isMember(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if !member {
		return errdef.NewNotFound("user %d is not a member of community %d", user.ID, id)
	}

	err = s.repository.removeMember(ctx, community, user)
	if err != nil {
		return err
	}

	s.activityService.Record(ctx, model.ActivityCommunityLeft, &user.ID, &community.ID, "Left community")

	return nil
}

// IsMember reports whether the user belongs to the community. Both the chat
// scope checks and the realtime channel joins rely on it.
func (s *Service) IsMember(ctx context.Context, communityID uint, userID uint) (bool, error) {
	return s.repository.isMember(ctx, communityID, userID)
}
