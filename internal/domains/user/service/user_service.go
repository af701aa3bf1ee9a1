package service

import (
	"context"
	"strings"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/user"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/pkg/cache"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
)

const identityTTL = 60 * time.Second

// exportLimit caps the rows written by Export.
const exportLimit = 10000

type userService struct {
	repo  user.Repository
	cache cache.Cache
}

func NewUserService(repo user.Repository, c cache.Cache) user.Service {
	return &userService{repo: repo, cache: c}
}

func identityKey(id uuid.UUID) string {
	return "identity:" + id.String()
}

// GetIdentity is served from the cache for up to a minute after a lookup.
// Admin writes invalidate the entry.
func (s *userService) GetIdentity(ctx context.Context, id uuid.UUID) (*access.Actor, error) {
	return cache.GetOrLoad(ctx, s.cache, identityKey(id), identityTTL, func(ctx context.Context) (*access.Actor, error) {
		return s.repo.GetIdentity(ctx, id)
	})
}

func (s *userService) invalidateIdentity(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, identityKey(id)); err != nil {
		logger.Error("Failed to invalidate identity cache", err)
	}
}

// listing authorizes against an unnamed account.
func listing(actor *access.Actor) error {
	return access.Authorize(actor, access.Account(uuid.Nil, ""), access.OpList).Err()
}

func (s *userService) List(ctx context.Context, actor *access.Actor, filter user.ListFilter) ([]user.User, int64, error) {
	if err := listing(actor); err != nil {
		return nil, 0, err
	}
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, 0, apperror.FromValidation(err)
	}
	return s.repo.List(ctx, filter)
}

func (s *userService) Stats(ctx context.Context, actor *access.Actor) (*user.Stats, error) {
	if err := listing(actor); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx)
}

func (s *userService) Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*user.User, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Account(target.ID, target.Role), access.OpRead).Err(); err != nil {
		return nil, err
	}
	return target, nil
}

// Update applies the admin edit. The protection rules run before the
// payload is looked at.
func (s *userService) Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req user.UpdateUserRequest) (*user.User, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := access.Account(target.ID, target.Role)
	if err := access.Authorize(actor, res, access.OpUpdate).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if req.Role != nil && target.Role == access.RoleAdmin && access.Role(*req.Role) != access.RoleAdmin {
		if err := access.Authorize(actor, res, access.OpDemote).Err(); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil && !*req.IsActive {
		if err := access.Authorize(actor, res, access.OpDeactivate).Err(); err != nil {
			return nil, err
		}
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, user.ErrEmailExists
		}
		target.Email = email
	}
	if req.Phone != nil && *req.Phone != "" {
		phone := strings.TrimSpace(*req.Phone)
		taken, err := s.repo.PhoneTaken(ctx, phone, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, user.ErrPhoneExists
		}
		target.Phone = &phone
	}

	applyUpdate(target, req)

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	s.invalidateIdentity(ctx, id)

	logger.Info("User updated by admin", map[string]interface{}{
		"user_id":  id.String(),
		"admin_id": actor.UserID.String(),
		"role":     string(target.Role),
	})
	return target, nil
}

func applyUpdate(u *user.User, req user.UpdateUserRequest) {
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}
	if req.Location != nil {
		u.Location = req.Location
	}
	if req.Role != nil {
		u.Role = access.Role(*req.Role)
	}
	if req.IsVerified != nil {
		u.IsVerified = *req.IsVerified
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
}

func (s *userService) Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) (*user.User, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.Account(target.ID, target.Role), access.OpDelete).Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidateIdentity(ctx, id)

	logger.Info("User deleted by admin", map[string]interface{}{
		"user_id":  id.String(),
		"admin_id": actor.UserID.String(),
	})
	return target, nil
}

func (s *userService) Content(ctx context.Context, actor *access.Actor, id uuid.UUID, kind user.ContentType) (*user.Content, error) {
	if err := listing(actor); err != nil {
		return nil, err
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &user.Content{User: user.Owner{ID: target.ID, FirstName: target.FirstName, LastName: target.LastName}}
	if kind == user.ContentAll || kind == user.ContentBooks {
		if out.Books, err = s.repo.ListBooks(ctx, id); err != nil {
			return nil, err
		}
		if out.Books == nil {
			out.Books = []user.BookSummary{}
		}
	}
	if kind == user.ContentAll || kind == user.ContentAudio {
		if out.Audio, err = s.repo.ListAudio(ctx, id); err != nil {
			return nil, err
		}
		if out.Audio == nil {
			out.Audio = []user.AudioSummary{}
		}
	}
	return out, nil
}
