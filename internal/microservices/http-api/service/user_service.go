package service

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/repository"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
	Create(ctx context.Context, req dto.CreateUserDTO) (*models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, req dto.UpdateUserDTO) (*models.User, error)
	Delete(ctx context.Context, username string) error
	Me(ctx context.Context, actor permissions.Actor) (*models.User, error)
	UpdateMe(ctx context.Context, actor permissions.Actor, req dto.UpdateUserDTO) (*models.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	usernames *UsernameValidator
}

func NewUserService(userRepo repository.UserRepository, opts Options) (UserService, error) {
	usernames, err := NewUsernameValidator(opts.UsernameForbiddenPatterns)
	if err != nil {
		return nil, err
	}
	return &userService{userRepo: userRepo, usernames: usernames}, nil
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, search, page, pageSize)
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserDTO) (*models.User, error) {
	user := req.ToModel()
	if err := s.validate(&user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, userConflict(err)
	}
	return &user, nil
}

func (s *userService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserDTO) (*models.User, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, req, true)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	return notFound("user", s.userRepo.Delete(ctx, user.ID))
}

func (s *userService) Me(ctx context.Context, actor permissions.Actor) (*models.User, error) {
	if !actor.IsAuthenticated() {
		return nil, permissions.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// UpdateMe edits the actor's own profile. The role field is ignored.
func (s *userService) UpdateMe(ctx context.Context, actor permissions.Actor, req dto.UpdateUserDTO) (*models.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, req, false)
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserDTO, allowRole bool) (*models.User, error) {
	req.ApplyTo(user, allowRole)
	if err := s.validate(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userConflict(err)
	}
	return user, nil
}

func (s *userService) validate(user *models.User) error {
	if err := s.usernames.Validate(user.Username); err != nil {
		return err
	}
	if err := validateEmail(user.Email); err != nil {
		return err
	}
	if !user.Role.Valid() {
		return invalid("role", "%q is not a valid role", user.Role)
	}
	return nil
}

func userConflict(err error) error {
	if isDuplicate(err) {
		field := conflictField(err, "username")
		return &ConflictError{Field: field, Message: fmt.Sprintf("a user with that %s already exists", field)}
	}
	return err
}
