package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager/internal/application/command"
	"task-manager/internal/application/interfaces"
	"task-manager/internal/application/query"
	"task-manager/internal/domain/entities"
	"task-manager/internal/domain/repositories"
	"task-manager/internal/infrastructure"
	"task-manager/internal/infrastructure/db"
	"task-manager/internal/logging"
	"task-manager/internal/messaging"
)

type fakeMailer struct {
	mu            sync.Mutex
	welcomes      []string
	cancellations []string
}

func (m *fakeMailer) SendWelcome(_ context.Context, email, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, email)
	return nil
}

func (m *fakeMailer) SendCancellation(_ context.Context, email, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancellations = append(m.cancellations, email)
	return nil
}

func (m *fakeMailer) welcomeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.welcomes)
}

func (m *fakeMailer) cancellationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancellations)
}

type fakePublisher struct {
	mu      sync.Mutex
	created []messaging.UserEvent
	deleted []messaging.UserEvent
}

func (p *fakePublisher) PublishUserCreated(event messaging.UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, event)
	return nil
}

func (p *fakePublisher) PublishUserDeleted(event messaging.UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, event)
	return nil
}

func (p *fakePublisher) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.created)
}

type userServiceFixture struct {
	svc       interfaces.UserService
	tasks     interfaces.TaskService
	users     repositories.UserRepository
	taskRepo  repositories.TaskRepository
	tokens    *infrastructure.TokenService
	mailer    *fakeMailer
	publisher *fakePublisher
	conn      *gorm.DB
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)

	users := db.NewUserRepository(conn, bcrypt.MinCost)
	taskRepo := db.NewTaskRepository(conn)
	tokens := infrastructure.NewTokenService("test-secret")
	mailer := &fakeMailer{}
	publisher := &fakePublisher{}

	return &userServiceFixture{
		svc:       NewUserService(users, tokens, mailer, publisher, nil, logging.NewDiscard()),
		tasks:     NewTaskService(taskRepo),
		users:     users,
		taskRepo:  taskRepo,
		tokens:    tokens,
		mailer:    mailer,
		publisher: publisher,
		conn:      conn,
	}
}

func (f *userServiceFixture) register(t *testing.T, email string) *command.CreateUserCommandResult {
	t.Helper()
	result, err := f.svc.Register(context.Background(), &command.CreateUserCommand{
		Name:     "Ada",
		Email:    email,
		Password: "s3cret!!",
	})
	require.NoError(t, err)
	return result
}

func TestUserService_Register(t *testing.T) {
	f := newUserServiceFixture(t)

	result := f.register(t, "ada@example.com")

	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)

	userID, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.Id, userID)

	stored, err := f.users.FindById(context.Background(), result.User.Id)
	require.NoError(t, err)
	assert.True(t, stored.HasToken(result.Token))
	assert.NotEqual(t, "s3cret!!", stored.Password)

	assert.Eventually(t, func() bool {
		return f.mailer.welcomeCount() == 1 && f.publisher.createdCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	f := newUserServiceFixture(t)
	f.register(t, "ada@example.com")

	_, err := f.svc.Register(context.Background(), &command.CreateUserCommand{
		Name:     "Eve",
		Email:    "ada@example.com",
		Password: "0th3rpw!",
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
}

func TestUserService_RegisterValidation(t *testing.T) {
	f := newUserServiceFixture(t)

	_, err := f.svc.Register(context.Background(), &command.CreateUserCommand{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "MyPassword1",
	})
	assert.ErrorIs(t, err, entities.ErrPasswordTooWeak)
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newUserServiceFixture(t)
	f.register(t, "ada@example.com")

	_, wrongPassword := f.svc.Login(context.Background(), &command.LoginUserCommand{
		Email:    "ada@example.com",
		Password: "wrong-pass",
	})
	_, unknownEmail := f.svc.Login(context.Background(), &command.LoginUserCommand{
		Email:    "ghost@example.com",
		Password: "s3cret!!",
	})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, ErrUnableToLogin)
	assert.ErrorIs(t, unknownEmail, ErrUnableToLogin)
}

func TestUserService_LoginMatchesEmailCaseInsensitively(t *testing.T) {
	f := newUserServiceFixture(t)
	registered := f.register(t, "ada@example.com")

	login, err := f.svc.Login(context.Background(), &command.LoginUserCommand{
		Email:    "  Ada@Example.COM ",
		Password: "s3cret!!",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.Id, login.User.Id)
}

func TestUserService_LoginAppendsSecondToken(t *testing.T) {
	f := newUserServiceFixture(t)
	registered := f.register(t, "ada@example.com")

	login, err := f.svc.Login(context.Background(), &command.LoginUserCommand{
		Email:    "ada@example.com",
		Password: "s3cret!!",
	})
	require.NoError(t, err)

	stored, err := f.users.FindById(context.Background(), registered.User.Id)
	require.NoError(t, err)
	assert.True(t, stored.HasToken(registered.Token))
	assert.True(t, stored.HasToken(login.Token))
	assert.Len(t, stored.Tokens, 2)
}

func TestUserService_LogoutRemovesOnlyCurrentSession(t *testing.T) {
	f := newUserServiceFixture(t)
	registered := f.register(t, "ada@example.com")
	ctx := context.Background()

	login, err := f.svc.Login(ctx, &command.LoginUserCommand{Email: "ada@example.com", Password: "s3cret!!"})
	require.NoError(t, err)

	user, err := f.users.FindById(ctx, registered.User.Id)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, user, registered.Token))

	stored, err := f.users.FindById(ctx, registered.User.Id)
	require.NoError(t, err)
	assert.False(t, stored.HasToken(registered.Token))
	assert.True(t, stored.HasToken(login.Token))
}

func TestUserService_LogoutAll(t *testing.T) {
	f := newUserServiceFixture(t)
	registered := f.register(t, "ada@example.com")
	ctx := context.Background()

	_, err := f.svc.Login(ctx, &command.LoginUserCommand{Email: "ada@example.com", Password: "s3cret!!"})
	require.NoError(t, err)

	user, err := f.users.FindById(ctx, registered.User.Id)
	require.NoError(t, err)
	require.NoError(t, f.svc.LogoutAll(ctx, user))

	stored, err := f.users.FindById(ctx, registered.User.Id)
	require.NoError(t, err)
	assert.Empty(t, stored.Tokens)
}

func TestUserService_UpdateProfilePasswordChange(t *testing.T) {
	f := newUserServiceFixture(t)
	registered := f.register(t, "ada@example.com")
	ctx := context.Background()

	user, err := f.users.FindById(ctx, registered.User.Id)
	require.NoError(t, err)

	newPassword := "n3w-s3cret"
	result, err := f.svc.UpdateProfile(ctx, user, &command.UpdateUserCommand{Password: &newPassword})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.Email)

	_, err = f.svc.Login(ctx, &command.LoginUserCommand{Email: "ada@example.com", Password: newPassword})
	assert.NoError(t, err)

	_, err = f.svc.Login(ctx, &command.LoginUserCommand{Email: "ada@example.com", Password: "s3cret!!"})
	assert.ErrorIs(t, err, ErrUnableToLogin)
}

func TestUserService_DeleteAccountCascades(t *testing.T) {
	f := newUserServiceFixture(t)
	registered := f.register(t, "ada@example.com")
	ctx := context.Background()

	for _, description := range []string{"one", "two"} {
		_, err := f.tasks.Create(ctx, registered.User.Id, &command.CreateTaskCommand{Description: description})
		require.NoError(t, err)
	}

	user, err := f.users.FindById(ctx, registered.User.Id)
	require.NoError(t, err)

	result, err := f.svc.DeleteAccount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.Email)

	_, err = f.users.FindById(ctx, registered.User.Id)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	remaining, err := f.tasks.List(ctx, registered.User.Id, query.ListTasksQuery{})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.Eventually(t, func() bool {
		return f.mailer.cancellationCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestUserService_AvatarLifecycle(t *testing.T) {
	f := newUserServiceFixture(t)
	registered := f.register(t, "ada@example.com")
	ctx := context.Background()

	user, err := f.users.FindById(ctx, registered.User.Id)
	require.NoError(t, err)

	_, err = f.svc.GetAvatar(ctx, user.Id)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, f.svc.SetAvatar(ctx, user, "me.png", testPNG(t)))

	data, err := f.svc.GetAvatar(ctx, user.Id)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, infrastructure.AvatarSize, decoded.Bounds().Dx())

	fresh, err := f.users.FindById(ctx, user.Id)
	require.NoError(t, err)
	require.NoError(t, f.svc.RemoveAvatar(ctx, fresh))

	_, err = f.svc.GetAvatar(ctx, user.Id)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 12), G: uint8(y * 12), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
