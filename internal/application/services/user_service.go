package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"task-manager/internal/application/command"
	"task-manager/internal/application/common"
	"task-manager/internal/application/interfaces"
	"task-manager/internal/application/mapper"
	"task-manager/internal/domain/entities"
	"task-manager/internal/domain/repositories"
	"task-manager/internal/infrastructure"
	"task-manager/internal/logging"
	"task-manager/internal/messaging"
)

// ErrUnableToLogin is deliberately generic: a wrong password and an unknown
// email produce the exact same error.
var ErrUnableToLogin = errors.New("Unable to login")

const avatarCacheTTL = time.Hour

type UserService struct {
	userRepo     repositories.UserRepository
	tokenService *infrastructure.TokenService
	mailer       interfaces.Mailer
	publisher    interfaces.EventPublisher
	avatarCache  interfaces.AvatarCache
	log          logging.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	tokenService *infrastructure.TokenService,
	mailer interfaces.Mailer,
	publisher interfaces.EventPublisher,
	avatarCache interfaces.AvatarCache,
	log logging.Logger,
) interfaces.UserService {
	return &UserService{
		userRepo:     userRepo,
		tokenService: tokenService,
		mailer:       mailer,
		publisher:    publisher,
		avatarCache:  avatarCache,
		log:          log,
	}
}

func (s *UserService) Register(ctx context.Context, cmd *command.CreateUserCommand) (*command.CreateUserCommandResult, error) {
	newUser := entities.NewUser(cmd.Name, cmd.Email, cmd.Password, cmd.Age)
	validatedUser, err := entities.NewValidatedUser(newUser)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenService.Issue(newUser.Id)
	if err != nil {
		return nil, err
	}
	newUser.AddToken(token)

	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if err != nil {
		return nil, err
	}

	s.notifyAsync("welcome", createdUser, func(ctx context.Context) error {
		return s.mailer.SendWelcome(ctx, createdUser.Email, createdUser.Name)
	}, func() error {
		return s.publisher.PublishUserCreated(userEvent(createdUser))
	})

	return &command.CreateUserCommandResult{
		User:  mapper.NewUserResultFromEntity(createdUser),
		Token: token,
	}, nil
}

func (s *UserService) Login(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error) {
	user, err := s.findByCredentials(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenService.Issue(user.Id)
	if err != nil {
		return nil, err
	}
	user.AddToken(token)

	updatedUser, err := s.persist(ctx, user)
	if err != nil {
		return nil, err
	}

	return &command.LoginUserCommandResult{
		User:  mapper.NewUserResultFromEntity(updatedUser),
		Token: token,
	}, nil
}

// findByCredentials keeps the failure modes indistinguishable: unknown email
// and wrong password both come back as ErrUnableToLogin.
func (s *UserService) findByCredentials(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnableToLogin
		}
		return nil, err
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, ErrUnableToLogin
	}

	return user, nil
}

func (s *UserService) Logout(ctx context.Context, user *entities.User, token string) error {
	user.RemoveToken(token)
	_, err := s.persist(ctx, user)
	return err
}

func (s *UserService) LogoutAll(ctx context.Context, user *entities.User) error {
	user.ClearTokens()
	_, err := s.persist(ctx, user)
	return err
}

func (s *UserService) UpdateProfile(ctx context.Context, user *entities.User, cmd *command.UpdateUserCommand) (*common.UserResult, error) {
	if cmd.Name != nil {
		user.SetName(*cmd.Name)
	}
	if cmd.Email != nil {
		user.SetEmail(*cmd.Email)
	}
	if cmd.Password != nil {
		user.SetPassword(*cmd.Password)
	}
	if cmd.Age != nil {
		user.SetAge(*cmd.Age)
	}

	updatedUser, err := s.persist(ctx, user)
	if err != nil {
		return nil, err
	}

	return mapper.NewUserResultFromEntity(updatedUser), nil
}

func (s *UserService) DeleteAccount(ctx context.Context, user *entities.User) (*common.UserResult, error) {
	result := mapper.NewUserResultFromEntity(user)

	// The repository deletes owned tasks and the user in one transaction.
	if err := s.userRepo.Delete(ctx, user.Id); err != nil {
		return nil, err
	}

	s.notifyAsync("cancellation", user, func(ctx context.Context) error {
		return s.mailer.SendCancellation(ctx, user.Email, user.Name)
	}, func() error {
		return s.publisher.PublishUserDeleted(userEvent(user))
	})

	return result, nil
}

func (s *UserService) SetAvatar(ctx context.Context, user *entities.User, filename string, data []byte) error {
	processed, err := infrastructure.ProcessAvatar(filename, data)
	if err != nil {
		return err
	}

	user.Avatar = processed
	if _, err := s.persist(ctx, user); err != nil {
		return err
	}

	s.invalidateAvatar(ctx, user.Id)
	return nil
}

func (s *UserService) RemoveAvatar(ctx context.Context, user *entities.User) error {
	user.Avatar = nil
	if _, err := s.persist(ctx, user); err != nil {
		return err
	}

	s.invalidateAvatar(ctx, user.Id)
	return nil
}

func (s *UserService) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if s.avatarCache != nil {
		if data, err := s.avatarCache.GetAvatar(ctx, id.String()); err == nil && len(data) > 0 {
			return data, nil
		}
	}

	user, err := s.userRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, repositories.ErrNotFound
	}

	if s.avatarCache != nil {
		if err := s.avatarCache.SetAvatar(ctx, id.String(), user.Avatar, avatarCacheTTL); err != nil {
			s.log.Warn(ctx, "failed to cache avatar", "user_id", id, "error", err)
		}
	}

	return user.Avatar, nil
}

func (s *UserService) persist(ctx context.Context, user *entities.User) (*entities.User, error) {
	validatedUser, err := entities.NewValidatedUser(user)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Update(ctx, validatedUser)
}

// notifyAsync runs the email send and the event publish off the request
// path. Neither outcome affects the response.
func (s *UserService) notifyAsync(kind string, user *entities.User, sendMail func(context.Context) error, publish func() error) {
	userID := user.Id

	if s.mailer != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := sendMail(ctx); err != nil {
				s.log.Warn(ctx, "failed to send "+kind+" email", "user_id", userID, "error", err)
			}
		}()
	}

	if s.publisher != nil {
		go func() {
			if err := publish(); err != nil {
				s.log.Warn(context.Background(), "failed to publish "+kind+" event", "user_id", userID, "error", err)
			}
		}()
	}
}

func (s *UserService) invalidateAvatar(ctx context.Context, id uuid.UUID) {
	if s.avatarCache == nil {
		return
	}
	if err := s.avatarCache.DeleteAvatar(ctx, id.String()); err != nil {
		s.log.Warn(ctx, "failed to invalidate avatar cache", "user_id", id, "error", err)
	}
}

func userEvent(user *entities.User) messaging.UserEvent {
	return messaging.UserEvent{
		Id:    user.Id.String(),
		Email: user.Email,
		Name:  user.Name,
	}
}
