package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/civicflow/internal/models"
	"github.com/shenikar/civicflow/internal/notify"
	notify_mocks "github.com/shenikar/civicflow/internal/notify/mocks"
	"github.com/shenikar/civicflow/internal/service"
	"github.com/shenikar/civicflow/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

// newTestComplaintService создает сервис в синхронном режиме с моками репозитория и транспорта
func newTestComplaintService(t *testing.T) (service.ComplaintService, *mocks.MockComplaintRepository, *notify_mocks.MockNotifier) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockComplaintRepository(ctrl)
	notifierMock := notify_mocks.NewMockNotifier(ctrl)

	svc, err := service.NewComplaintService(repoMock, notifierMock, nil, newTestLogger(), service.Options{
		NotifyMode:    service.NotifyModeSync,
		NotifyTimeout: time.Second,
	})
	require.NoError(t, err)
	return svc, repoMock, notifierMock
}

func validComplaint() *models.Complaint {
	return &models.Complaint{
		Name:        "A",
		Email:       "a@x.com",
		Title:       "Pothole",
		Description: "big hole",
		Location:    "12.1,77.2",
	}
}

func TestNewComplaintService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockComplaintRepository(ctrl)
	logger := newTestLogger()

	_, err := service.NewComplaintService(repoMock, nil, nil, logger, service.Options{NotifyMode: service.NotifyModeSync})
	assert.ErrorContains(t, err, "notifier is required")

	_, err = service.NewComplaintService(repoMock, nil, nil, logger, service.Options{NotifyMode: service.NotifyModeAsync})
	assert.ErrorContains(t, err, "publisher is required")

	_, err = service.NewComplaintService(repoMock, nil, nil, logger, service.Options{NotifyMode: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown notify mode")
}

func TestCreateComplaint_Success(t *testing.T) {
	svc, repoMock, _ := newTestComplaintService(t)
	ctx := context.Background()
	complaint := validComplaint()

	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Complaint) error {
			assert.Equal(t, models.StatusPending, c.Status)
			c.ID = 42
			return nil
		}).Times(1)

	err := svc.CreateComplaint(ctx, complaint)

	require.NoError(t, err)
	assert.Equal(t, int64(42), complaint.ID)
	assert.Equal(t, models.StatusPending, complaint.Status)
}

func TestCreateComplaint_IgnoresClientSuppliedIDAndStatus(t *testing.T) {
	svc, repoMock, _ := newTestComplaintService(t)
	ctx := context.Background()
	complaint := validComplaint()
	complaint.ID = 999
	complaint.Status = models.StatusResolved

	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Complaint) error {
			assert.Zero(t, c.ID)
			assert.Equal(t, models.StatusPending, c.Status)
			c.ID = 1
			return nil
		}).Times(1)

	require.NoError(t, svc.CreateComplaint(ctx, complaint))
}

func TestCreateComplaint_MissingFields(t *testing.T) {
	svc, repoMock, _ := newTestComplaintService(t)
	complaint := validComplaint()
	complaint.Email = "   "
	complaint.Description = ""

	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0) // Репозиторий не должен вызываться

	err := svc.CreateComplaint(context.Background(), complaint)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.ErrorContains(t, err, "email, description")
}

func TestCreateComplaint_RepositoryError(t *testing.T) {
	svc, repoMock, _ := newTestComplaintService(t)
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("%w: disk full", service.ErrStore)).Times(1)

	err := svc.CreateComplaint(context.Background(), validComplaint())

	assert.ErrorIs(t, err, service.ErrStore)
	assert.ErrorContains(t, err, "could not create complaint")
}

func TestListComplaints(t *testing.T) {
	svc, repoMock, _ := newTestComplaintService(t)
	ctx := context.Background()
	expected := []*models.Complaint{
		{ID: 1, Title: "Pothole", Status: models.StatusPending},
		{ID: 2, Title: "Streetlight", Status: models.StatusResolved},
	}
	repoMock.EXPECT().List(ctx).Return(expected, nil).Times(1)

	complaints, err := svc.ListComplaints(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, complaints)
}

func TestListComplaints_Error(t *testing.T) {
	svc, repoMock, _ := newTestComplaintService(t)
	repoMock.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection reset")).Times(1)

	complaints, err := svc.ListComplaints(context.Background())

	assert.Nil(t, complaints)
	assert.ErrorContains(t, err, "could not list complaints")
}

func TestGetComplaint_NotFound(t *testing.T) {
	svc, repoMock, _ := newTestComplaintService(t)
	repoMock.EXPECT().GetByID(gomock.Any(), int64(7)).Return(nil, fmt.Errorf("complaint 7: %w", service.ErrNotFound)).Times(1)

	complaint, err := svc.GetComplaint(context.Background(), 7)

	assert.Nil(t, complaint)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, repoMock, notifierMock := newTestComplaintService(t)
	repoMock.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)
	repoMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	notifierMock.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.UpdateStatus(context.Background(), 1, "Closed")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, repoMock, notifierMock := newTestComplaintService(t)
	repoMock.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, service.ErrNotFound).Times(1)
	repoMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	notifierMock.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.UpdateStatus(context.Background(), 404, models.StatusResolved)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateStatus_SuccessSendsNotification(t *testing.T) {
	svc, repoMock, notifierMock := newTestComplaintService(t)
	existing := &models.Complaint{ID: 5, Name: "Asha", Email: "asha@example.com", Title: "Pothole", Status: models.StatusPending}
	updated := *existing
	updated.Status = models.StatusInProgress

	gomock.InOrder(
		repoMock.EXPECT().GetByID(gomock.Any(), int64(5)).Return(existing, nil),
		repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(5), models.StatusInProgress).Return(&updated, nil),
		notifierMock.EXPECT().
			Send(gomock.Any(), "asha@example.com", "Update on your complaint #5", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, body string) error {
				assert.Contains(t, body, "Hi Asha,")
				assert.Contains(t, body, "In Progress")
				return nil
			}),
	)

	result, err := svc.UpdateStatus(context.Background(), 5, models.StatusInProgress)

	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, result.Complaint.Status)
	assert.Equal(t, service.NotificationSent, result.Notification)
}

func TestUpdateStatus_NotifyFailureKeepsPersistedStatus(t *testing.T) {
	svc, repoMock, notifierMock := newTestComplaintService(t)
	existing := &models.Complaint{ID: 8, Name: "B", Email: "b@x.com", Title: "Trash", Status: models.StatusPending}
	updated := *existing
	updated.Status = models.StatusResolved

	repoMock.EXPECT().GetByID(gomock.Any(), int64(8)).Return(existing, nil).Times(1)
	repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(8), models.StatusResolved).Return(&updated, nil).Times(1)
	notifierMock.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("535 5.7.8 Username and Password not accepted")).Times(1)

	result, err := svc.UpdateStatus(context.Background(), 8, models.StatusResolved)

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotify)
	require.NotNil(t, result)
	assert.Equal(t, models.StatusResolved, result.Complaint.Status)
	assert.Equal(t, service.NotificationFailed, result.Notification)
}

func TestUpdateStatus_NotifyTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockComplaintRepository(ctrl)
	notifierMock := notify_mocks.NewMockNotifier(ctrl)
	svc, err := service.NewComplaintService(repoMock, notifierMock, nil, newTestLogger(), service.Options{
		NotifyMode:    service.NotifyModeSync,
		NotifyTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	complaint := &models.Complaint{ID: 3, Email: "c@x.com", Status: models.StatusResolved}
	repoMock.EXPECT().GetByID(gomock.Any(), int64(3)).Return(complaint, nil)
	repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(3), models.StatusResolved).Return(complaint, nil)
	notifierMock.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		})

	_, err = svc.UpdateStatus(context.Background(), 3, models.StatusResolved)

	assert.ErrorIs(t, err, service.ErrNotify)
	assert.ErrorContains(t, err, "deadline exceeded")
}

func TestUpdateStatus_AsyncQueuesNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockComplaintRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)
	svc, err := service.NewComplaintService(repoMock, nil, publisherMock, newTestLogger(), service.Options{
		NotifyMode: service.NotifyModeAsync,
	})
	require.NoError(t, err)

	complaint := &models.Complaint{ID: 11, Name: "D", Email: "d@x.com", Title: "Graffiti", Status: models.StatusResolved}
	repoMock.EXPECT().GetByID(gomock.Any(), int64(11)).Return(complaint, nil)
	repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(11), models.StatusResolved).Return(complaint, nil)
	publisherMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notify.Message) error {
			assert.Equal(t, int64(11), msg.ComplaintID)
			assert.Equal(t, "d@x.com", msg.To)
			assert.Equal(t, "Update on your complaint #11", msg.Subject)
			return nil
		})

	result, err := svc.UpdateStatus(context.Background(), 11, models.StatusResolved)

	require.NoError(t, err)
	assert.Equal(t, service.NotificationQueued, result.Notification)
}

func TestUpdateStatus_AsyncPublishFailureIsNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockComplaintRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)
	svc, err := service.NewComplaintService(repoMock, nil, publisherMock, newTestLogger(), service.Options{
		NotifyMode: service.NotifyModeAsync,
	})
	require.NoError(t, err)

	complaint := &models.Complaint{ID: 12, Email: "e@x.com", Status: models.StatusPending}
	repoMock.EXPECT().GetByID(gomock.Any(), int64(12)).Return(complaint, nil)
	repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(12), models.StatusPending).Return(complaint, nil)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis: connection refused"))

	result, err := svc.UpdateStatus(context.Background(), 12, models.StatusPending)

	require.NoError(t, err)
	assert.Equal(t, service.NotificationFailed, result.Notification)
	assert.Equal(t, models.StatusPending, result.Complaint.Status)
}

func TestMissingFields(t *testing.T) {
	assert.Empty(t, service.MissingFields(validComplaint()))
	assert.Equal(t, []string{"name", "email", "title", "description"}, service.MissingFields(&models.Complaint{Location: "1,2"}))
}

// memoryRepository - хранилище в памяти для проверки свойств жизненного цикла обращения
type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Complaint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[int64]models.Complaint)}
}

func (r *memoryRepository) Create(_ context.Context, c *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.rows[c.ID] = *c
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Complaint, 0, len(r.rows))
	for _, c := range r.rows {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("complaint %d: %w", id, service.ErrNotFound)
	}
	return &c, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id int64, status models.Status) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("complaint %d: %w", id, service.ErrNotFound)
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	r.rows[id] = c
	return &c, nil
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) Send(context.Context, string, string, string) error {
	s.calls++
	return s.err
}

func newLifecycleService(t *testing.T, notifier notify.Notifier) (service.ComplaintService, *memoryRepository) {
	repo := newMemoryRepository()
	svc, err := service.NewComplaintService(repo, notifier, nil, newTestLogger(), service.Options{NotifyMode: service.NotifyModeSync})
	require.NoError(t, err)
	return svc, repo
}

func TestLifecycle_CreateThenGetIsPending(t *testing.T) {
	svc, _ := newLifecycleService(t, &stubNotifier{})
	ctx := context.Background()

	complaint := validComplaint()
	require.NoError(t, svc.CreateComplaint(ctx, complaint))

	got, err := svc.GetComplaint(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, "Pothole", got.Title)
	assert.Equal(t, "12.1,77.2", got.Location)

	list, err := svc.ListComplaints(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pothole", list[0].Title)
	assert.Equal(t, models.StatusPending, list[0].Status)
}

func TestLifecycle_ResolveTwiceIsIdempotent(t *testing.T) {
	notifier := &stubNotifier{}
	svc, _ := newLifecycleService(t, notifier)
	ctx := context.Background()

	complaint := validComplaint()
	require.NoError(t, svc.CreateComplaint(ctx, complaint))

	for i := 0; i < 2; i++ {
		result, err := svc.UpdateStatus(ctx, complaint.ID, models.StatusResolved)
		require.NoError(t, err)
		assert.Equal(t, models.StatusResolved, result.Complaint.Status)
	}
	assert.Equal(t, 2, notifier.calls)

	list, err := svc.ListComplaints(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusResolved, list[0].Status)
}

func TestLifecycle_UpdateUnknownIDCreatesNoRow(t *testing.T) {
	svc, repo := newLifecycleService(t, &stubNotifier{})

	_, err := svc.UpdateStatus(context.Background(), 77, models.StatusResolved)

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, repo.rows)
}

func TestLifecycle_NotifyFailurePersistsStatus(t *testing.T) {
	svc, _ := newLifecycleService(t, &stubNotifier{err: errors.New("dial tcp: i/o timeout")})
	ctx := context.Background()

	complaint := validComplaint()
	require.NoError(t, svc.CreateComplaint(ctx, complaint))

	_, err := svc.UpdateStatus(ctx, complaint.ID, models.StatusResolved)
	require.ErrorIs(t, err, service.ErrNotify)

	got, err := svc.GetComplaint(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, got.Status)
}

func TestLifecycle_AnyTransitionAllowed(t *testing.T) {
	svc, _ := newLifecycleService(t, &stubNotifier{})
	ctx := context.Background()

	complaint := validComplaint()
	require.NoError(t, svc.CreateComplaint(ctx, complaint))

	// Решенное обращение можно переоткрыть
	for _, status := range []models.Status{models.StatusResolved, models.StatusPending, models.StatusInProgress, models.StatusResolved} {
		result, err := svc.UpdateStatus(ctx, complaint.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, result.Complaint.Status)
	}
}
