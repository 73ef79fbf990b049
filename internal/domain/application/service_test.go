package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/core/apperror"
	"onghub/internal/core/events"
	"onghub/internal/core/files"
	"onghub/internal/core/tx"
	"onghub/internal/domain"
)

type memStore struct {
	apps     map[int]Application
	requests map[int]Request
	access   map[int]Access
	nextID   int
	failTx   error
}

func newMemStore() *memStore {
	return &memStore{apps: map[int]Application{}, requests: map[int]Request{}, access: map[int]Access{}}
}

func (m *memStore) id() int { m.nextID++; return m.nextID }

func (m *memStore) Create(_ context.Context, app *Application) error {
	app.ID = m.id()
	m.apps[app.ID] = *app
	return nil
}

func (m *memStore) Get(_ context.Context, id int) (*Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, apperror.NewNotFound("application", id)
	}
	return &app, nil
}

func (m *memStore) Update(_ context.Context, app *Application) error {
	m.apps[app.ID] = *app
	return nil
}

func (m *memStore) List(context.Context, ListFilter) (domain.ListResult[Application], error) {
	var out domain.ListResult[Application]
	for _, a := range m.apps {
		out.Items = append(out.Items, a)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (m *memStore) Count(_ context.Context, status Status) (int, error) {
	n := 0
	for _, a := range m.apps {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ForOrganization(context.Context, int) ([]OrganizationView, error) { return nil, nil }

func (m *memStore) CountAccessible(context.Context, int, int) (int, error) { return 0, nil }

func (m *memStore) CreateRequest(_ context.Context, r *Request) error {
	if m.failTx != nil {
		return m.failTx
	}
	r.ID = m.id()
	m.requests[r.ID] = *r
	return nil
}

func (m *memStore) GetRequest(_ context.Context, id int) (*Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, apperror.NewNotFound("application_request", id)
	}
	return &r, nil
}

func (m *memStore) SetRequestStatus(_ context.Context, id int, status RequestStatus) error {
	r := m.requests[id]
	r.Status = status
	m.requests[id] = r
	return nil
}

func (m *memStore) ListRequests(context.Context, RequestFilter) (domain.ListResult[Request], error) {
	return domain.ListResult[Request]{}, nil
}

func (m *memStore) PendingExists(_ context.Context, orgID, appID int) (bool, error) {
	for _, r := range m.requests {
		if r.OrganizationID == orgID && r.ApplicationID == appID && r.Status == RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetAccess(_ context.Context, orgID, appID int) (*Access, error) {
	for _, a := range m.access {
		if a.OrganizationID == orgID && a.ApplicationID == appID {
			return &a, nil
		}
	}
	return nil, apperror.NewNotFound("organization_application", appID)
}

func (m *memStore) CreateAccess(_ context.Context, a *Access) error {
	a.ID = m.id()
	m.access[a.ID] = *a
	return nil
}

func (m *memStore) SetAccessStatus(_ context.Context, id int, status AccessStatus) error {
	a := m.access[id]
	a.Status = status
	m.access[id] = a
	return nil
}

type fakeLogos struct{}

func (fakeLogos) UploadFiles(_ context.Context, prefix string, fs []files.File, kind files.Kind) ([]string, error) {
	if kind == files.KindImage && !strings.HasPrefix(fs[0].ContentType, "image/") {
		return nil, &files.Error{Code: files.CodeInvalidImage}
	}
	return []string{prefix + "/" + fs[0].Name}, nil
}

func (fakeLogos) GeneratePresignedURL(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key, nil
}

type recorder struct{ got []events.Event }

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.got = append(r.got, e)
	return nil
}

var direct = tx.Func(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })

func newService(t *testing.T) (*Service, *memStore, *recorder) {
	t.Helper()
	store := newMemStore()
	rec := &recorder{}
	return NewService(store, direct, fakeLogos{}, rec), store, rec
}

func link(s string) *string { return &s }

func TestCreate_LoginLinkRequiredUnlessIndependent(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(context.Background(), Input{Name: "Vot", Type: TypeSimple}, nil)
	assert.True(t, apperror.HasCode(err, CodeLoginLinkRequired))

	app, err := svc.Create(context.Background(), Input{Name: "Site", Type: TypeIndependent}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, app.Status)
}

func TestCreate_LogoMustBeImage(t *testing.T) {
	svc, _, _ := newService(t)
	logo := &files.File{Name: "logo.pdf", ContentType: "application/pdf"}

	_, err := svc.Create(context.Background(), Input{Name: "Vot", Type: TypeSimple, LoginLink: link("https://vot.ro")}, logo)

	assert.True(t, apperror.HasCode(err, CodeLogoUpload))
	assert.Equal(t, files.CodeInvalidImage, files.CodeOf(err))
}

func TestFindOne_PresignsLogo(t *testing.T) {
	svc, _, _ := newService(t)
	logo := &files.File{Name: "logo.png", ContentType: "image/png"}
	app, err := svc.Create(context.Background(), Input{Name: "Vot", Type: TypeSimple, LoginLink: link("https://vot.ro")}, logo)
	require.NoError(t, err)

	got, err := svc.FindOne(context.Background(), app.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/applications/logo.png", *got.Logo)

	_, err = svc.FindOne(context.Background(), 999)
	assert.True(t, apperror.HasCode(err, CodeNotFound))
}

func TestCreateRequest_Rules(t *testing.T) {
	svc, store, rec := newService(t)
	ctx := context.Background()

	active, _ := svc.Create(ctx, Input{Name: "A", Type: TypeSimple, LoginLink: link("https://a.ro")}, nil)
	disabled, _ := svc.Create(ctx, Input{Name: "D", Type: TypeSimple, Status: StatusDisabled, LoginLink: link("https://d.ro")}, nil)
	independent, _ := svc.Create(ctx, Input{Name: "I", Type: TypeIndependent}, nil)

	_, err := svc.CreateRequest(ctx, 1, disabled.ID)
	assert.True(t, apperror.HasCode(err, CodeRequestNotActive))

	_, err = svc.CreateRequest(ctx, 1, independent.ID)
	assert.True(t, apperror.HasCode(err, CodeRequestIndependent))

	req, err := svc.CreateRequest(ctx, 1, active.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestPending, req.Status)
	require.Len(t, rec.got, 1)
	assert.Equal(t, events.ApplicationRequested, rec.got[0].Type)

	_, err = svc.CreateRequest(ctx, 1, active.ID)
	assert.True(t, apperror.HasCode(err, CodeRequestPendingExists))

	_, err = svc.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, store.access, 1)

	_, err = svc.CreateRequest(ctx, 1, active.ID)
	assert.True(t, apperror.HasCode(err, CodeRequestAlreadyAssigned))
}

func TestResolve_OnlyPending(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	app, _ := svc.Create(ctx, Input{Name: "A", Type: TypeSimple, LoginLink: link("https://a.ro")}, nil)
	req, err := svc.CreateRequest(ctx, 2, app.ID)
	require.NoError(t, err)

	_, err = svc.Reject(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestDeclined, store.requests[req.ID].Status)
	assert.Empty(t, store.access)

	_, err = svc.Approve(ctx, req.ID)
	assert.True(t, apperror.HasCode(err, CodeRequestNotPending))

	_, err = svc.Approve(ctx, 12345)
	assert.True(t, apperror.HasCode(err, CodeRequestNotFound))
}

func TestCreateRequest_StoreFailure(t *testing.T) {
	svc, store, rec := newService(t)
	ctx := context.Background()
	app, _ := svc.Create(ctx, Input{Name: "A", Type: TypeSimple, LoginLink: link("https://a.ro")}, nil)
	store.failTx = errors.New("connection reset")

	_, err := svc.CreateRequest(ctx, 3, app.ID)

	assert.True(t, apperror.HasCode(err, CodeRequestCreateFailed))
	assert.Empty(t, rec.got)
}

func TestRestrictAndRestore(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	assert.True(t, apperror.HasCode(svc.Restrict(ctx, 1, 1), CodeAccessNotFound))

	a := &Access{OrganizationID: 1, ApplicationID: 7, Status: AccessActive}
	require.NoError(t, store.CreateAccess(ctx, a))

	require.NoError(t, svc.Restrict(ctx, 1, 7))
	assert.Equal(t, AccessRestricted, store.access[a.ID].Status)
	require.NoError(t, svc.Restore(ctx, 1, 7))
	assert.Equal(t, AccessActive, store.access[a.ID].Status)
}
